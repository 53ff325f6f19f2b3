package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/feldhaus/einkauf/internal/shared"
)

// RecipesSearch searches recipes by name, category, or tags.
func (r *Runner) RecipesSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	refs, err := r.api.Recipes.Search(ctx, query, int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(refs, true)
	}

	if len(refs) == 0 {
		r.writePlain("No recipes matching %q\n", query)
		return nil
	}

	for _, ref := range refs {
		if ref.Category != nil && *ref.Category != "" {
			r.writePlain("%d  %s (%s)\n", ref.ID, ref.Name, *ref.Category)
		} else {
			r.writePlain("%d  %s\n", ref.ID, ref.Name)
		}
	}
	return nil
}

// RecipesShow prints one recipe. The recipe document is schemaless, so the
// non-JSON output only summarizes the metadata.
func (r *Runner) RecipesShow(ctx context.Context, cmd *cli.Command) error {
	id, err := argInt(cmd, "id")
	if err != nil {
		return err
	}

	recipe, err := r.api.Recipes.Get(ctx, id)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(recipe, true)
	}

	r.writePlainHeader(recipe.Name)
	if recipe.Category != nil && *recipe.Category != "" {
		r.writePlain("Category: %s\n", *recipe.Category)
	}
	if recipe.Tags != nil && *recipe.Tags != "" {
		r.writePlain("Tags: %s\n", *recipe.Tags)
	}
	return nil
}

// RecipesList pages through the recipe collection.
func (r *Runner) RecipesList(ctx context.Context, cmd *cli.Command) error {
	refs, err := r.api.Recipes.List(ctx, int(cmd.Int("skip")), int(cmd.Int("limit")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(refs, true)
	}

	for _, ref := range refs {
		r.writePlain("%d  %s\n", ref.ID, ref.Name)
	}
	return nil
}
