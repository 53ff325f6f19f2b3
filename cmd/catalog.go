package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/urfave/cli/v3"

	"github.com/feldhaus/einkauf/internal/models"
	"github.com/feldhaus/einkauf/internal/shared"
	"github.com/feldhaus/einkauf/internal/state"
)

// StoresList lists all stores.
func (r *Runner) StoresList(ctx context.Context, cmd *cli.Command) error {
	stores, err := r.api.Stores.List(ctx)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(stores, true)
	}

	for _, s := range stores {
		if s.Location != "" {
			r.writePlain("%d  %s (%s)\n", s.ID, s.Name, s.Location)
		} else {
			r.writePlain("%d  %s\n", s.ID, s.Name)
		}
	}
	return nil
}

// StoresAdd creates a store.
func (r *Runner) StoresAdd(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: store name", shared.ErrMissingArgument)
	}

	created, err := r.api.Stores.Create(ctx, models.StoreCreate{
		Name:     name,
		Location: cmd.String("location"),
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ Store %q created (id %d)\n", created.Name, created.ID)
	return nil
}

// StoresRemove deletes a store and its departments.
func (r *Runner) StoresRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := argInt(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.api.Stores.Delete(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Store %d deleted\n", id)
	return nil
}

// DepartmentsList lists a store's departments in walk order.
func (r *Runner) DepartmentsList(ctx context.Context, cmd *cli.Command) error {
	storeID, err := argInt(cmd, "store-id")
	if err != nil {
		return err
	}

	departments, err := r.api.Stores.Departments(ctx, storeID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(departments, true)
	}

	for _, d := range departments {
		r.writePlain("%d  %2d. %s\n", d.ID, d.SortOrder, d.Name)
	}
	return nil
}

// DepartmentsAdd adds a department to a store.
func (r *Runner) DepartmentsAdd(ctx context.Context, cmd *cli.Command) error {
	storeID, err := argInt(cmd, "store-id")
	if err != nil {
		return err
	}
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: department name", shared.ErrMissingArgument)
	}

	created, err := r.api.Stores.CreateDepartment(ctx, storeID, models.DepartmentCreate{
		Name:      name,
		SortOrder: int(cmd.Int("sort")),
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ Department %q created (id %d)\n", created.Name, created.ID)
	return nil
}

// DepartmentsRename updates a department's name or walk-order position.
func (r *Runner) DepartmentsRename(ctx context.Context, cmd *cli.Command) error {
	id, err := argInt(cmd, "id")
	if err != nil {
		return err
	}

	update := models.DepartmentUpdate{}
	if name := cmd.String("name"); name != "" {
		update.Name = &name
	}
	if sort := int(cmd.Int("sort")); sort >= 0 {
		update.SortOrder = &sort
	}
	if update.Name == nil && update.SortOrder == nil {
		return fmt.Errorf("%w: nothing to change, pass --name or --sort", shared.ErrMissingArgument)
	}

	updated, err := r.api.Stores.UpdateDepartment(ctx, id, update)
	if err != nil {
		return err
	}

	r.writePlain("✓ Department %d is now %q (position %d)\n", updated.ID, updated.Name, updated.SortOrder)
	return nil
}

// DepartmentsRemove deletes a department.
func (r *Runner) DepartmentsRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := argInt(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.api.Stores.DeleteDepartment(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Department %d deleted\n", id)
	return nil
}

// ProductsList lists the products of one store.
func (r *Runner) ProductsList(ctx context.Context, cmd *cli.Command) error {
	products, err := r.api.Products.ListByStore(ctx, int(cmd.Int("store")))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(products, true)
	}

	for _, p := range products {
		line := fmt.Sprintf("%d  %s", p.ID, p.Name)
		if p.Manufacturer != nil && *p.Manufacturer != "" {
			line += fmt.Sprintf(" (%s)", *p.Manufacturer)
		}
		if p.Fresh {
			line += " [fresh]"
		}
		r.writePlain("%s\n", line)
	}
	return nil
}

// ProductsSearch asks the server for the best fuzzy match in a store. With
// --offline it matches against the last synced catalog instead.
func (r *Runner) ProductsSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	if query == "" {
		return fmt.Errorf("%w: search query", shared.ErrMissingArgument)
	}

	if cmd.Bool("offline") {
		return r.productsSearchOffline(int(cmd.Int("store")), query)
	}

	product, err := r.api.Products.Search(ctx, int(cmd.Int("store")), query)
	if err != nil {
		return err
	}
	if product == nil {
		r.writePlain("No match for %q\n", query)
		return nil
	}

	r.writePlain("%d  %s (department %d)\n", product.ID, product.Name, product.DepartmentID)
	return nil
}

func (r *Runner) productsSearchOffline(storeID int, query string) error {
	repo, db, err := r.openSnapshot()
	if err != nil {
		return err
	}
	defer db.Close()

	stores, departments, products, err := repo.LoadCatalog()
	if err != nil {
		return err
	}
	catalog := state.NewCatalog(nil, r.logger)
	catalog.Load(stores, departments, products)

	product, ok := catalog.FindProduct(storeID, query)
	if !ok {
		r.writePlain("No match for %q\n", query)
		return nil
	}
	r.writePlain("%d  %s (department %d)\n", product.ID, product.Name, product.DepartmentID)
	return nil
}

// ProductsAdd creates a product in a store's department.
func (r *Runner) ProductsAdd(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: product name", shared.ErrMissingArgument)
	}

	created, err := r.api.Products.Create(ctx, models.ProductCreate{
		Name:         name,
		StoreID:      int(cmd.Int("store")),
		DepartmentID: int(cmd.Int("department")),
		Fresh:        cmd.Bool("fresh"),
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ Product %q created (id %d)\n", created.Name, created.ID)
	return nil
}

// ProductsConvert turns a shopping list item into a catalog product, so the
// server can auto-assign its department on future adds.
func (r *Runner) ProductsConvert(ctx context.Context, cmd *cli.Command) error {
	itemID := cmd.StringArg("item-id")
	if itemID == "" {
		return fmt.Errorf("%w: item-id", shared.ErrMissingArgument)
	}

	item, err := r.api.Items.ConvertToProduct(ctx, itemID, int(cmd.Int("department")))
	if err != nil {
		return err
	}

	r.writePlain("✓ %s is now a product\n", item.Name)
	return nil
}

// ProductsRemove deletes a product.
func (r *Runner) ProductsRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := argInt(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.api.Products.Delete(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Product %d deleted\n", id)
	return nil
}

// UnitsList lists quantity units in sort order, from the server or from the
// offline snapshot.
func (r *Runner) UnitsList(ctx context.Context, cmd *cli.Command) error {
	var units []models.Unit
	var err error
	if cmd.Bool("offline") {
		repo, db, openErr := r.openSnapshot()
		if openErr != nil {
			return openErr
		}
		defer db.Close()
		units, err = repo.LoadUnits()
	} else {
		units, err = r.api.Units.List(ctx)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(units, true)
	}

	for _, u := range units {
		r.writePlain("%d  %s\n", u.ID, u.Name)
	}
	return nil
}

// UnitsAdd creates a unit.
func (r *Runner) UnitsAdd(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: unit name", shared.ErrMissingArgument)
	}

	created, err := r.api.Units.Create(ctx, models.UnitCreate{
		Name:      name,
		SortOrder: int(cmd.Int("sort")),
	})
	if err != nil {
		return err
	}

	r.writePlain("✓ Unit %q created (id %d)\n", created.Name, created.ID)
	return nil
}

// UnitsRename updates a unit's name or sort order.
func (r *Runner) UnitsRename(ctx context.Context, cmd *cli.Command) error {
	id, err := argInt(cmd, "id")
	if err != nil {
		return err
	}

	update := models.UnitUpdate{}
	if name := cmd.String("name"); name != "" {
		update.Name = &name
	}
	if sort := int(cmd.Int("sort")); sort >= 0 {
		update.SortOrder = &sort
	}
	if update.Name == nil && update.SortOrder == nil {
		return fmt.Errorf("%w: nothing to change, pass --name or --sort", shared.ErrMissingArgument)
	}

	updated, err := r.api.Units.Update(ctx, id, update)
	if err != nil {
		return err
	}

	r.writePlain("✓ Unit %d is now %q\n", updated.ID, updated.Name)
	return nil
}

// UnitsRemove deletes a unit.
func (r *Runner) UnitsRemove(ctx context.Context, cmd *cli.Command) error {
	id, err := argInt(cmd, "id")
	if err != nil {
		return err
	}

	if err := r.api.Units.Delete(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ Unit %d deleted\n", id)
	return nil
}

// argInt reads a required positional argument as an integer id.
func argInt(cmd *cli.Command, name string) (int, error) {
	raw := cmd.StringArg(name)
	if raw == "" {
		return 0, fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be numeric, got %q", shared.ErrInvalidArgument, name, raw)
	}
	return id, nil
}
