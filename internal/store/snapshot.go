package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/feldhaus/einkauf/internal/models"
)

const syncedAtKey = "synced_at"

// SnapshotRepository persists one snapshot of the server state. Every save
// replaces the previous snapshot inside a single transaction.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a repository over an already migrated database
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// SaveItems replaces the stored shopping list and stamps the sync time.
func (r *SnapshotRepository) SaveItems(items []models.ItemWithDepartment) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM snapshot_items"); err != nil {
		return fmt.Errorf("failed to clear items: %w", err)
	}

	query := `
		INSERT INTO snapshot_items (id, name, menge, store_id, product_id, shopping_date, department_id, department_name, department_sort_order, manufacturer)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, item := range items {
		_, err := tx.Exec(query,
			item.ID,
			item.Name,
			item.Menge,
			item.StoreID,
			item.ProductID,
			item.ShoppingDate,
			item.DepartmentID,
			item.DepartmentName,
			item.DepartmentSortOrder,
			item.Manufacturer,
		)
		if err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
	}

	if err := stampSyncedAt(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadItems returns the stored shopping list in department walk order.
func (r *SnapshotRepository) LoadItems() ([]models.ItemWithDepartment, error) {
	query := `
		SELECT id, name, menge, store_id, product_id, shopping_date, department_id, department_name, department_sort_order, manufacturer
		FROM snapshot_items
		ORDER BY department_sort_order IS NULL, department_sort_order ASC, name ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.ItemWithDepartment
	for rows.Next() {
		var item models.ItemWithDepartment
		err := rows.Scan(
			&item.ID,
			&item.Name,
			&item.Menge,
			&item.StoreID,
			&item.ProductID,
			&item.ShoppingDate,
			&item.DepartmentID,
			&item.DepartmentName,
			&item.DepartmentSortOrder,
			&item.Manufacturer,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return items, nil
}

// SaveCatalog replaces the stored stores, departments and products.
func (r *SnapshotRepository) SaveCatalog(stores []models.Store, departments []models.Department, products []models.Product) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"snapshot_stores", "snapshot_departments", "snapshot_products"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for _, s := range stores {
		_, err := tx.Exec(
			"INSERT INTO snapshot_stores (id, name, location, sort_order) VALUES (?, ?, ?, ?)",
			s.ID, s.Name, s.Location, s.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("failed to insert store: %w", err)
		}
	}
	for _, d := range departments {
		_, err := tx.Exec(
			"INSERT INTO snapshot_departments (id, store_id, name, sort_order) VALUES (?, ?, ?, ?)",
			d.ID, d.StoreID, d.Name, d.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("failed to insert department: %w", err)
		}
	}
	for _, p := range products {
		_, err := tx.Exec(
			"INSERT INTO snapshot_products (id, store_id, department_id, name, fresh, manufacturer) VALUES (?, ?, ?, ?, ?, ?)",
			p.ID, p.StoreID, p.DepartmentID, p.Name, p.Fresh, p.Manufacturer,
		)
		if err != nil {
			return fmt.Errorf("failed to insert product: %w", err)
		}
	}

	if err := stampSyncedAt(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadCatalog returns the stored stores, departments and products.
func (r *SnapshotRepository) LoadCatalog() ([]models.Store, []models.Department, []models.Product, error) {
	stores, err := r.loadStores()
	if err != nil {
		return nil, nil, nil, err
	}
	departments, err := r.loadDepartments()
	if err != nil {
		return nil, nil, nil, err
	}
	products, err := r.loadProducts()
	if err != nil {
		return nil, nil, nil, err
	}
	return stores, departments, products, nil
}

// SaveUnits replaces the stored units.
func (r *SnapshotRepository) SaveUnits(units []models.Unit) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM snapshot_units"); err != nil {
		return fmt.Errorf("failed to clear units: %w", err)
	}
	for _, u := range units {
		_, err := tx.Exec(
			"INSERT INTO snapshot_units (id, name, sort_order) VALUES (?, ?, ?)",
			u.ID, u.Name, u.SortOrder,
		)
		if err != nil {
			return fmt.Errorf("failed to insert unit: %w", err)
		}
	}

	if err := stampSyncedAt(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

// LoadUnits returns the stored units in sort order.
func (r *SnapshotRepository) LoadUnits() ([]models.Unit, error) {
	rows, err := r.db.Query("SELECT id, name, sort_order FROM snapshot_units ORDER BY sort_order ASC, name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	var units []models.Unit
	for rows.Next() {
		var u models.Unit
		if err := rows.Scan(&u.ID, &u.Name, &u.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan unit: %w", err)
		}
		units = append(units, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return units, nil
}

// SyncedAt returns the time of the last snapshot write, or the zero time when
// nothing was ever synced.
func (r *SnapshotRepository) SyncedAt() (time.Time, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM snapshot_meta WHERE key = ?", syncedAtKey).Scan(&value)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read sync time: %w", err)
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("corrupt sync timestamp: %w", err)
	}
	return t, nil
}

func stampSyncedAt(tx *sql.Tx) error {
	_, err := tx.Exec(
		"INSERT INTO snapshot_meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		syncedAtKey, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to stamp sync time: %w", err)
	}
	return nil
}

func (r *SnapshotRepository) loadStores() ([]models.Store, error) {
	rows, err := r.db.Query("SELECT id, name, location, sort_order FROM snapshot_stores ORDER BY sort_order ASC, name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query stores: %w", err)
	}
	defer rows.Close()

	var stores []models.Store
	for rows.Next() {
		var s models.Store
		if err := rows.Scan(&s.ID, &s.Name, &s.Location, &s.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan store: %w", err)
		}
		stores = append(stores, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return stores, nil
}

func (r *SnapshotRepository) loadDepartments() ([]models.Department, error) {
	rows, err := r.db.Query("SELECT id, store_id, name, sort_order FROM snapshot_departments ORDER BY store_id ASC, sort_order ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query departments: %w", err)
	}
	defer rows.Close()

	var departments []models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.StoreID, &d.Name, &d.SortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan department: %w", err)
		}
		departments = append(departments, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return departments, nil
}

func (r *SnapshotRepository) loadProducts() ([]models.Product, error) {
	rows, err := r.db.Query("SELECT id, store_id, department_id, name, fresh, manufacturer FROM snapshot_products ORDER BY store_id ASC, name ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []models.Product
	for rows.Next() {
		var p models.Product
		if err := rows.Scan(&p.ID, &p.StoreID, &p.DepartmentID, &p.Name, &p.Fresh, &p.Manufacturer); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return products, nil
}
