package main

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/feldhaus/einkauf/internal/formatter"
	"github.com/feldhaus/einkauf/internal/models"
	"github.com/feldhaus/einkauf/internal/quantity"
	"github.com/feldhaus/einkauf/internal/shared"
)

// List prints the shopping list grouped by department in walk order.
func (r *Runner) List(ctx context.Context, cmd *cli.Command) error {
	date := cmd.String("date")

	var items []models.ItemWithDepartment
	var err error

	if cmd.Bool("offline") {
		repo, db, err := r.openSnapshot()
		if err != nil {
			return err
		}
		defer db.Close()

		items, err = repo.LoadItems()
		if err != nil {
			return fmt.Errorf("failed to read snapshot: %w", err)
		}
		if syncedAt, err := repo.SyncedAt(); err == nil && !syncedAt.IsZero() {
			r.logger.Info("reading offline snapshot", "synced_at", syncedAt.Format(time.RFC3339))
		}
		if date != "" {
			items = filterByDate(items, date)
		}
	} else {
		if date != "" {
			items, err = r.api.Items.ListByDate(ctx, date)
		} else {
			items, err = r.api.Items.List(ctx)
		}
		if err != nil {
			return err
		}

		if date == "" {
			r.snapshotItems(items)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, true)
	}

	sortWalkOrder(items)

	if format := cmd.String("export"); format != "" {
		path := cmd.String("output")
		if path == "" {
			path = "einkaufsliste." + format
		}
		if err := formatter.WriteExport(items, format, path); err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d items to %s\n", len(items), path)
	}

	if len(items) == 0 {
		r.writePlain("Shopping list is empty.\n")
		return nil
	}

	department := ""
	for _, item := range items {
		name := "Sonstiges"
		if item.DepartmentName != nil && *item.DepartmentName != "" {
			name = *item.DepartmentName
		}
		if name != department {
			department = name
			r.writePlain("\n%s\n", department)
		}
		line := item.Name
		if item.Menge != nil && *item.Menge != "" {
			line = fmt.Sprintf("%s (%s)", line, *item.Menge)
		}
		if item.ShoppingDate != nil && *item.ShoppingDate != "" {
			line = fmt.Sprintf("%s [%s]", line, *item.ShoppingDate)
		}
		r.writePlain("  • %s\n", line)
	}
	r.writePlain("\n%d items\n", len(items))
	return nil
}

// Add puts an item on the list. The server merges quantities when an item of
// the same name already exists.
func (r *Runner) Add(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	if name == "" {
		return fmt.Errorf("%w: item name", shared.ErrMissingArgument)
	}

	item := models.Item{Name: name}
	if menge := cmd.String("menge"); menge != "" {
		item.Menge = &menge
	}
	if date := cmd.String("date"); date != "" {
		item.ShoppingDate = &date
	}
	if storeID := cmd.Int("store"); storeID != 0 {
		item.StoreID = models.Ptr(int(storeID))
	}

	created, err := r.api.Items.Add(ctx, item)
	if err != nil {
		return err
	}

	if created.Menge != nil && *created.Menge != "" {
		r.writePlain("✓ %s (%s)\n", created.Name, *created.Menge)
	} else {
		r.writePlain("✓ %s\n", created.Name)
	}
	return nil
}

// Done removes a bought item, accepting either its id or its name.
func (r *Runner) Done(ctx context.Context, cmd *cli.Command) error {
	ref := cmd.StringArg("item")
	if ref == "" {
		return fmt.Errorf("%w: item id or name", shared.ErrMissingArgument)
	}

	id, name, err := r.resolveItem(ctx, ref)
	if err != nil {
		return err
	}

	if err := r.api.Items.Delete(ctx, id); err != nil {
		return err
	}

	r.writePlain("✓ %s removed\n", name)
	return nil
}

// Clear bulk-deletes all items dated before the cutoff.
func (r *Runner) Clear(ctx context.Context, cmd *cli.Command) error {
	before := cmd.String("before")

	if _, err := time.Parse("2006-01-02", before); err != nil {
		return fmt.Errorf("%w: --before must be YYYY-MM-DD: %v", shared.ErrInvalidArgument, err)
	}

	if err := r.api.Items.DeleteBefore(ctx, before); err != nil {
		return err
	}

	r.writePlain("✓ Cleared items dated before %s\n", before)
	return nil
}

// Sync refreshes the offline snapshot: shopping list, store catalog, and units.
func (r *Runner) Sync(ctx context.Context, cmd *cli.Command) error {
	repo, db, err := r.openSnapshot()
	if err != nil {
		return err
	}
	defer db.Close()

	items, err := r.api.Items.List(ctx)
	if err != nil {
		return err
	}
	if err := repo.SaveItems(items); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	stores, err := r.api.Stores.List(ctx)
	if err != nil {
		return err
	}
	var departments []models.Department
	var products []models.Product
	for _, s := range stores {
		depts, err := r.api.Stores.Departments(ctx, s.ID)
		if err != nil {
			return err
		}
		departments = append(departments, depts...)

		prods, err := r.api.Products.ListByStore(ctx, s.ID)
		if err != nil {
			return err
		}
		products = append(products, prods...)
	}
	if err := repo.SaveCatalog(stores, departments, products); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	units, err := r.api.Units.List(ctx)
	if err != nil {
		return err
	}
	if err := repo.SaveUnits(units); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}

	r.writePlain("✓ Snapshot updated: %d items, %d stores, %d products, %d units\n",
		len(items), len(stores), len(products), len(units))
	return nil
}

// resolveItem turns an id-or-name reference into an item id. Names are
// matched case-insensitively against the current list.
func (r *Runner) resolveItem(ctx context.Context, ref string) (id, name string, err error) {
	items, err := r.api.Items.List(ctx)
	if err != nil {
		return "", "", err
	}

	for _, item := range items {
		if item.ID == ref {
			return item.ID, item.Name, nil
		}
	}

	want := quantity.NormalizeName(ref)
	for _, item := range items {
		if quantity.NormalizeName(item.Name) == want {
			return item.ID, item.Name, nil
		}
	}

	return "", "", fmt.Errorf("%w: no item matching %q", shared.ErrNotFound, ref)
}

// snapshotItems persists the fetched list for offline reads. Failures are
// logged, not fatal, since the online command already has its answer.
func (r *Runner) snapshotItems(items []models.ItemWithDepartment) {
	repo, db, err := r.openSnapshot()
	if err != nil {
		r.logger.Debug("snapshot unavailable", "error", err)
		return
	}
	defer db.Close()

	if err := repo.SaveItems(items); err != nil {
		r.logger.Debug("failed to save snapshot", "error", err)
	}
}

func filterByDate(items []models.ItemWithDepartment, date string) []models.ItemWithDepartment {
	out := items[:0]
	for _, item := range items {
		if item.ShoppingDate != nil && *item.ShoppingDate == date {
			out = append(out, item)
		}
	}
	return out
}

// sortWalkOrder orders items the way you walk the store: department sort
// order first, uncategorized items last, names alphabetical within a group.
func sortWalkOrder(items []models.ItemWithDepartment) {
	sortOrder := func(i models.ItemWithDepartment) int {
		if i.DepartmentSortOrder == nil {
			return 1 << 30
		}
		return *i.DepartmentSortOrder
	}
	sort.SliceStable(items, func(a, b int) bool {
		if sa, sb := sortOrder(items[a]), sortOrder(items[b]); sa != sb {
			return sa < sb
		}
		return items[a].Name < items[b].Name
	})
}
