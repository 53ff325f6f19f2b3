package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/feldhaus/einkauf/internal/models"
)

// RecipesService reads recipes imported from WebDAV.
type RecipesService struct {
	client *Client
}

// Search matches query against recipe names, case-insensitive, returning at
// most limit refs. The server caps limit at 50.
func (s *RecipesService) Search(ctx context.Context, query string, limit int) ([]models.RecipeRef, error) {
	if limit <= 0 {
		limit = 10
	}
	values := url.Values{
		"query": {query},
		"limit": {strconv.Itoa(limit)},
	}

	var refs []models.RecipeRef
	if err := s.client.get(ctx, "/api/recipes/search", values, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}

// Get returns the full recipe including its raw document.
func (s *RecipesService) Get(ctx context.Context, id int) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.client.get(ctx, fmt.Sprintf("/api/recipes/%d", id), nil, &recipe); err != nil {
		return nil, err
	}
	return &recipe, nil
}

// List pages through all recipes.
func (s *RecipesService) List(ctx context.Context, skip, limit int) ([]models.RecipeRef, error) {
	if limit <= 0 {
		limit = 100
	}
	values := url.Values{
		"skip":  {strconv.Itoa(skip)},
		"limit": {strconv.Itoa(limit)},
	}

	var refs []models.RecipeRef
	if err := s.client.get(ctx, "/api/recipes", values, &refs); err != nil {
		return nil, err
	}
	return refs, nil
}
