package state

import (
	"context"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/feldhaus/einkauf/internal/api"
	"github.com/feldhaus/einkauf/internal/models"
	"github.com/feldhaus/einkauf/internal/quantity"
	"github.com/feldhaus/einkauf/internal/shared"
	"github.com/feldhaus/einkauf/internal/ws"
)

// Catalog mirrors stores with their departments and products.
type Catalog struct {
	client *api.Client
	logger *log.Logger

	mu          sync.RWMutex
	stores      []models.Store
	departments map[int][]models.Department // by store id
	products    map[int][]models.Product    // by store id
	stale       bool
	subs        []func()
}

// NewCatalog creates an empty container; call Refresh to load it.
func NewCatalog(client *api.Client, logger *log.Logger) *Catalog {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Catalog{
		client:      client,
		logger:      logger,
		departments: make(map[int][]models.Department),
		products:    make(map[int][]models.Product),
	}
}

// Refresh reloads every store with its departments and products.
func (c *Catalog) Refresh(ctx context.Context) error {
	stores, err := c.client.Stores.List(ctx)
	if err != nil {
		return err
	}

	departments := make(map[int][]models.Department, len(stores))
	products := make(map[int][]models.Product, len(stores))
	for _, store := range stores {
		depts, err := c.client.Stores.Departments(ctx, store.ID)
		if err != nil {
			return err
		}
		departments[store.ID] = depts

		prods, err := c.client.Products.ListByStore(ctx, store.ID)
		if err != nil {
			return err
		}
		products[store.ID] = prods
	}

	c.mu.Lock()
	c.stores = stores
	c.departments = departments
	c.products = products
	c.stale = false
	c.mu.Unlock()

	c.notify()
	return nil
}

// Load replaces the container contents without touching the network,
// typically from an offline snapshot.
func (c *Catalog) Load(stores []models.Store, departments []models.Department, products []models.Product) {
	deptsByStore := make(map[int][]models.Department, len(stores))
	for _, dept := range departments {
		deptsByStore[dept.StoreID] = append(deptsByStore[dept.StoreID], dept)
	}
	prodsByStore := make(map[int][]models.Product, len(stores))
	for _, prod := range products {
		prodsByStore[prod.StoreID] = append(prodsByStore[prod.StoreID], prod)
	}

	c.mu.Lock()
	c.stores = stores
	c.departments = deptsByStore
	c.products = prodsByStore
	c.stale = false
	c.mu.Unlock()

	c.notify()
}

// Bind subscribes the container to the catalog change events.
func (c *Catalog) Bind(client *ws.Client) {
	for _, eventType := range []string{
		ws.EventStoreCreated, ws.EventStoreUpdated, ws.EventStoreDeleted,
		ws.EventDepartmentCreated, ws.EventDepartmentUpdated, ws.EventDepartmentDeleted,
		ws.EventProductCreated, ws.EventProductUpdated, ws.EventProductDeleted,
	} {
		client.Subscribe(eventType, c.Apply)
	}
}

// Apply folds one catalog event. Deletes are applied in place; creates and
// updates carry ids only, so they flag the container stale until the next
// Refresh reloads the full catalog.
func (c *Catalog) Apply(ev ws.Event) {
	var payload ws.CatalogEvent
	if err := json.Unmarshal(ev.Data, &payload); err != nil {
		c.logger.Debug("ignoring malformed catalog event", "type", ev.Type, "error", err)
		return
	}

	c.mu.Lock()
	switch ev.Type {
	case ws.EventStoreDeleted:
		for i, store := range c.stores {
			if store.ID == payload.ID {
				c.stores = append(c.stores[:i], c.stores[i+1:]...)
				break
			}
		}
		delete(c.departments, payload.ID)
		delete(c.products, payload.ID)
	case ws.EventDepartmentDeleted:
		for storeID, depts := range c.departments {
			for i, dept := range depts {
				if dept.ID == payload.ID {
					c.departments[storeID] = append(depts[:i], depts[i+1:]...)
					break
				}
			}
		}
	case ws.EventProductDeleted:
		for storeID, prods := range c.products {
			for i, prod := range prods {
				if prod.ID == payload.ID {
					c.products[storeID] = append(prods[:i], prods[i+1:]...)
					break
				}
			}
		}
	default:
		c.stale = true
	}
	c.mu.Unlock()

	c.notify()
}

// Stale reports whether a create or update event arrived since the last
// Refresh.
func (c *Catalog) Stale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stale
}

// Stores returns a copy of all stores sorted by sort order.
func (c *Catalog) Stores() []models.Store {
	c.mu.RLock()
	stores := make([]models.Store, len(c.stores))
	copy(stores, c.stores)
	c.mu.RUnlock()

	sort.Slice(stores, func(i, j int) bool {
		if stores[i].SortOrder != stores[j].SortOrder {
			return stores[i].SortOrder < stores[j].SortOrder
		}
		return stores[i].Name < stores[j].Name
	})
	return stores
}

// Departments returns a copy of one store's departments in walk order.
func (c *Catalog) Departments(storeID int) []models.Department {
	c.mu.RLock()
	depts := make([]models.Department, len(c.departments[storeID]))
	copy(depts, c.departments[storeID])
	c.mu.RUnlock()

	sort.Slice(depts, func(i, j int) bool {
		return depts[i].SortOrder < depts[j].SortOrder
	})
	return depts
}

// Products returns a copy of one store's products sorted by name.
func (c *Catalog) Products(storeID int) []models.Product {
	c.mu.RLock()
	prods := make([]models.Product, len(c.products[storeID]))
	copy(prods, c.products[storeID])
	c.mu.RUnlock()

	sort.Slice(prods, func(i, j int) bool {
		return prods[i].Name < prods[j].Name
	})
	return prods
}

// FindProduct matches name against one store's products using normalized
// names, preferring exact matches over prefix matches. Used for offline
// lookups; the server's fuzzy search is authoritative when online.
func (c *Catalog) FindProduct(storeID int, name string) (models.Product, bool) {
	normalized := quantity.NormalizeName(name)

	c.mu.RLock()
	defer c.mu.RUnlock()

	var prefix *models.Product
	for i := range c.products[storeID] {
		p := &c.products[storeID][i]
		candidate := quantity.NormalizeName(p.Name)
		if candidate == normalized {
			return *p, true
		}
		if prefix == nil && len(normalized) >= 3 && len(candidate) >= len(normalized) && candidate[:len(normalized)] == normalized {
			prefix = p
		}
	}
	if prefix != nil {
		return *prefix, true
	}
	return models.Product{}, false
}

// Subscribe registers fn to run after every refresh.
func (c *Catalog) Subscribe(fn func()) {
	c.mu.Lock()
	c.subs = append(c.subs, fn)
	c.mu.Unlock()
}

func (c *Catalog) notify() {
	c.mu.RLock()
	subs := make([]func(), len(c.subs))
	copy(subs, c.subs)
	c.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}
