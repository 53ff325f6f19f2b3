package state

import (
	"context"
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/feldhaus/einkauf/internal/models"
	"github.com/feldhaus/einkauf/internal/ws"
)

func catalogHandler(t *testing.T) http.Handler {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/stores", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Store{
			{ID: 2, Name: "Markt", SortOrder: 2},
			{ID: 1, Name: "Rewe", SortOrder: 1},
		})
	})
	mux.HandleFunc("/api/stores/1/departments", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Department{
			{ID: 11, StoreID: 1, Name: "Obst", SortOrder: 1},
			{ID: 12, StoreID: 1, Name: "Kühlregal", SortOrder: 2},
		})
	})
	mux.HandleFunc("/api/stores/1/products", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Product{
			{ID: 101, Name: "Vollmilch", StoreID: 1, DepartmentID: 12, Fresh: true},
			{ID: 102, Name: "Äpfel", StoreID: 1, DepartmentID: 11},
		})
	})
	mux.HandleFunc("/api/stores/2/departments", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Department{})
	})
	mux.HandleFunc("/api/stores/2/products", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Product{})
	})
	return mux
}

func TestCatalog(t *testing.T) {
	client := newAPIClient(t, catalogHandler(t))
	catalog := NewCatalog(client, nil)
	if err := catalog.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	t.Run("Stores Sorted By Sort Order", func(t *testing.T) {
		stores := catalog.Stores()
		if len(stores) != 2 || stores[0].Name != "Rewe" {
			t.Errorf("unexpected stores: %+v", stores)
		}
	})

	t.Run("Departments In Walk Order", func(t *testing.T) {
		depts := catalog.Departments(1)
		if len(depts) != 2 || depts[0].Name != "Obst" || depts[1].Name != "Kühlregal" {
			t.Errorf("unexpected departments: %+v", depts)
		}
	})

	t.Run("FindProduct Normalizes Umlauts", func(t *testing.T) {
		product, ok := catalog.FindProduct(1, "aepfel")
		if !ok {
			t.Fatal("expected a match")
		}
		if product.ID != 102 {
			t.Errorf("expected Äpfel, got %+v", product)
		}
	})

	t.Run("FindProduct Prefix Match", func(t *testing.T) {
		product, ok := catalog.FindProduct(1, "Vollm")
		if !ok {
			t.Fatal("expected a prefix match")
		}
		if product.Name != "Vollmilch" {
			t.Errorf("unexpected product: %+v", product)
		}
	})

	t.Run("FindProduct Misses", func(t *testing.T) {
		if _, ok := catalog.FindProduct(1, "Zucker"); ok {
			t.Error("expected no match")
		}
		if _, ok := catalog.FindProduct(2, "Vollmilch"); ok {
			t.Error("expected no match in empty store")
		}
	})
}

func TestCatalogApply(t *testing.T) {
	newCatalog := func(t *testing.T) *Catalog {
		t.Helper()
		catalog := NewCatalog(newAPIClient(t, catalogHandler(t)), nil)
		if err := catalog.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh failed: %v", err)
		}
		return catalog
	}

	catalogEvent := func(t *testing.T, eventType string, id, storeID int) ws.Event {
		t.Helper()
		data, err := json.Marshal(ws.CatalogEvent{ID: id, StoreID: storeID})
		if err != nil {
			t.Fatalf("failed to marshal event: %v", err)
		}
		return ws.Event{Type: eventType, Data: data}
	}

	t.Run("Store Delete Removes Store And Children", func(t *testing.T) {
		catalog := newCatalog(t)
		catalog.Apply(catalogEvent(t, ws.EventStoreDeleted, 1, 0))

		if stores := catalog.Stores(); len(stores) != 1 || stores[0].ID != 2 {
			t.Errorf("unexpected stores: %+v", stores)
		}
		if depts := catalog.Departments(1); len(depts) != 0 {
			t.Errorf("expected no departments, got %+v", depts)
		}
		if prods := catalog.Products(1); len(prods) != 0 {
			t.Errorf("expected no products, got %+v", prods)
		}
	})

	t.Run("Product Delete Is Idempotent", func(t *testing.T) {
		catalog := newCatalog(t)
		catalog.Apply(catalogEvent(t, ws.EventProductDeleted, 101, 1))
		catalog.Apply(catalogEvent(t, ws.EventProductDeleted, 101, 1))

		prods := catalog.Products(1)
		if len(prods) != 1 || prods[0].ID != 102 {
			t.Errorf("unexpected products: %+v", prods)
		}
	})

	t.Run("Create Marks Stale Until Refresh", func(t *testing.T) {
		catalog := newCatalog(t)
		if catalog.Stale() {
			t.Fatal("fresh catalog must not be stale")
		}

		catalog.Apply(catalogEvent(t, ws.EventProductCreated, 103, 1))
		if !catalog.Stale() {
			t.Error("expected stale after create event")
		}

		if err := catalog.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh failed: %v", err)
		}
		if catalog.Stale() {
			t.Error("expected refresh to clear staleness")
		}
	})

	t.Run("Apply Notifies Subscribers", func(t *testing.T) {
		catalog := newCatalog(t)
		notified := 0
		catalog.Subscribe(func() { notified++ })

		catalog.Apply(catalogEvent(t, ws.EventDepartmentDeleted, 11, 1))
		if notified != 1 {
			t.Errorf("expected 1 notification, got %d", notified)
		}
	})
}

func TestCatalogLoad(t *testing.T) {
	catalog := NewCatalog(nil, nil)
	catalog.Load(
		[]models.Store{{ID: 1, Name: "Rewe", SortOrder: 1}},
		[]models.Department{
			{ID: 11, StoreID: 1, Name: "Obst", SortOrder: 1},
			{ID: 12, StoreID: 1, Name: "Kühlregal", SortOrder: 2},
		},
		[]models.Product{
			{ID: 101, Name: "Vollmilch", StoreID: 1, DepartmentID: 12},
		},
	)

	t.Run("Seeded Contents Are Queryable", func(t *testing.T) {
		if stores := catalog.Stores(); len(stores) != 1 || stores[0].Name != "Rewe" {
			t.Errorf("unexpected stores: %+v", stores)
		}
		if depts := catalog.Departments(1); len(depts) != 2 || depts[0].Name != "Obst" {
			t.Errorf("unexpected departments: %+v", depts)
		}
	})

	t.Run("FindProduct Works Without A Network Client", func(t *testing.T) {
		product, ok := catalog.FindProduct(1, "vollmilch")
		if !ok || product.ID != 101 {
			t.Errorf("expected product 101, got %+v (found %v)", product, ok)
		}
	})

	t.Run("Load Clears Staleness", func(t *testing.T) {
		payload, _ := json.Marshal(ws.CatalogEvent{ID: 5})
		catalog.Apply(ws.Event{Type: ws.EventStoreCreated, Data: payload})
		if !catalog.Stale() {
			t.Fatal("expected stale after a create event")
		}
		catalog.Load(nil, nil, nil)
		if catalog.Stale() {
			t.Error("expected Load to clear staleness")
		}
	})
}
