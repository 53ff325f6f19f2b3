package state

import (
	"context"
	"sort"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-json"

	"github.com/feldhaus/einkauf/internal/api"
	"github.com/feldhaus/einkauf/internal/models"
	"github.com/feldhaus/einkauf/internal/shared"
	"github.com/feldhaus/einkauf/internal/ws"
)

// ShoppingList mirrors the shared shopping list, keyed by item id.
type ShoppingList struct {
	client *api.Client
	logger *log.Logger

	mu    sync.RWMutex
	items map[string]models.ItemWithDepartment
	subs  []func()
}

// NewShoppingList creates an empty container; call Refresh to load it.
func NewShoppingList(client *api.Client, logger *log.Logger) *ShoppingList {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &ShoppingList{
		client: client,
		logger: logger,
		items:  make(map[string]models.ItemWithDepartment),
	}
}

// Refresh replaces the container contents with the server's current list.
func (l *ShoppingList) Refresh(ctx context.Context) error {
	items, err := l.client.Items.List(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.items = make(map[string]models.ItemWithDepartment, len(items))
	for _, item := range items {
		l.items[item.ID] = item
	}
	l.mu.Unlock()

	l.notify()
	return nil
}

// Items returns a copy of all items sorted by department sort order, then
// department name, then item name.
func (l *ShoppingList) Items() []models.ItemWithDepartment {
	l.mu.RLock()
	items := make([]models.ItemWithDepartment, 0, len(l.items))
	for _, item := range l.items {
		items = append(items, item)
	}
	l.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		ao, bo := departmentOrder(a), departmentOrder(b)
		if ao != bo {
			return ao < bo
		}
		an, bn := departmentName(a), departmentName(b)
		if an != bn {
			return an < bn
		}
		return a.Name < b.Name
	})
	return items
}

// Get returns one item by id.
func (l *ShoppingList) Get(id string) (models.ItemWithDepartment, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	item, ok := l.items[id]
	return item, ok
}

// Len returns the number of items.
func (l *ShoppingList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.items)
}

// Subscribe registers fn to run after every change. Callbacks run outside the
// container lock.
func (l *ShoppingList) Subscribe(fn func()) {
	l.mu.Lock()
	l.subs = append(l.subs, fn)
	l.mu.Unlock()
}

// Bind subscribes the container to the item events of a ws client.
func (l *ShoppingList) Bind(client *ws.Client) {
	client.Subscribe(ws.EventItemAdded, l.Apply)
	client.Subscribe(ws.EventItemUpdated, l.Apply)
	client.Subscribe(ws.EventItemDeleted, l.Apply)
}

// Apply folds one item event into the container. Deletes of unknown ids and
// repeated events are no-ops, so replayed deltas are safe.
func (l *ShoppingList) Apply(ev ws.Event) {
	var payload ws.ItemEvent
	if err := json.Unmarshal(ev.Data, &payload); err != nil {
		l.logger.Debug("dropping malformed item event", "type", ev.Type, "error", err)
		return
	}
	if payload.ID == "" {
		return
	}

	l.mu.Lock()
	changed := false
	switch ev.Type {
	case ws.EventItemAdded, ws.EventItemUpdated:
		existing, ok := l.items[payload.ID]
		item := models.ItemWithDepartment{
			ID:           payload.ID,
			Name:         payload.Name,
			Menge:        payload.Menge,
			StoreID:      payload.StoreID,
			ProductID:    payload.ProductID,
			UserID:       payload.UserID,
			ShoppingDate: payload.ShoppingDate,
			Manufacturer: payload.Manufacturer,
		}
		if ok {
			// Events carry no department info; keep what the last full
			// fetch knew.
			item.DepartmentID = existing.DepartmentID
			item.DepartmentName = existing.DepartmentName
			item.DepartmentSortOrder = existing.DepartmentSortOrder
		}
		l.items[payload.ID] = item
		changed = true
	case ws.EventItemDeleted:
		if _, ok := l.items[payload.ID]; ok {
			delete(l.items, payload.ID)
			changed = true
		}
	default:
		l.logger.Debug("ignoring event", "type", ev.Type)
	}
	l.mu.Unlock()

	if changed {
		l.notify()
	}
}

// Upsert inserts or replaces one item locally. Used for optimistic updates
// after REST calls, where the WebSocket echo may lag or the stream may be
// down; a later echo of the same change is a harmless replay.
func (l *ShoppingList) Upsert(item models.ItemWithDepartment) {
	l.mu.Lock()
	l.items[item.ID] = item
	l.mu.Unlock()
	l.notify()
}

// Remove deletes one item locally. Idempotent.
func (l *ShoppingList) Remove(id string) {
	l.mu.Lock()
	_, ok := l.items[id]
	delete(l.items, id)
	l.mu.Unlock()
	if ok {
		l.notify()
	}
}

func (l *ShoppingList) notify() {
	l.mu.RLock()
	subs := make([]func(), len(l.subs))
	copy(subs, l.subs)
	l.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}

func departmentOrder(item models.ItemWithDepartment) int {
	if item.DepartmentSortOrder == nil {
		// Uncategorized items sink to the end of the walk.
		return 1 << 30
	}
	return *item.DepartmentSortOrder
}

func departmentName(item models.ItemWithDepartment) string {
	if item.DepartmentName == nil {
		return ""
	}
	return *item.DepartmentName
}
