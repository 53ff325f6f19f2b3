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

// Units mirrors the quantity units offered by the item form.
type Units struct {
	client *api.Client
	logger *log.Logger

	mu    sync.RWMutex
	units map[int]models.Unit
	subs  []func()
}

// NewUnits creates an empty container; call Refresh to load it.
func NewUnits(client *api.Client, logger *log.Logger) *Units {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Units{
		client: client,
		logger: logger,
		units:  make(map[int]models.Unit),
	}
}

// Refresh replaces the container contents with the server's units.
func (u *Units) Refresh(ctx context.Context) error {
	units, err := u.client.Units.List(ctx)
	if err != nil {
		return err
	}

	u.mu.Lock()
	u.units = make(map[int]models.Unit, len(units))
	for _, unit := range units {
		u.units[unit.ID] = unit
	}
	u.mu.Unlock()

	u.notify()
	return nil
}

// All returns a copy of the units sorted by sort order, then name.
func (u *Units) All() []models.Unit {
	u.mu.RLock()
	units := make([]models.Unit, 0, len(u.units))
	for _, unit := range u.units {
		units = append(units, unit)
	}
	u.mu.RUnlock()

	sort.Slice(units, func(i, j int) bool {
		if units[i].SortOrder != units[j].SortOrder {
			return units[i].SortOrder < units[j].SortOrder
		}
		return units[i].Name < units[j].Name
	})
	return units
}

// Subscribe registers fn to run after every change.
func (u *Units) Subscribe(fn func()) {
	u.mu.Lock()
	u.subs = append(u.subs, fn)
	u.mu.Unlock()
}

// Bind subscribes the container to the unit events of a ws client.
func (u *Units) Bind(client *ws.Client) {
	client.Subscribe(ws.EventUnitCreated, u.Apply)
	client.Subscribe(ws.EventUnitUpdated, u.Apply)
	client.Subscribe(ws.EventUnitDeleted, u.Apply)
}

// Apply folds one unit event into the container; replays are no-ops.
func (u *Units) Apply(ev ws.Event) {
	var payload ws.UnitEvent
	if err := json.Unmarshal(ev.Data, &payload); err != nil {
		u.logger.Debug("dropping malformed unit event", "type", ev.Type, "error", err)
		return
	}
	if payload.ID == 0 {
		return
	}

	u.mu.Lock()
	changed := false
	switch ev.Type {
	case ws.EventUnitCreated, ws.EventUnitUpdated:
		u.units[payload.ID] = models.Unit{
			ID:        payload.ID,
			Name:      payload.Name,
			SortOrder: payload.SortOrder,
		}
		changed = true
	case ws.EventUnitDeleted:
		if _, ok := u.units[payload.ID]; ok {
			delete(u.units, payload.ID)
			changed = true
		}
	default:
		u.logger.Debug("ignoring event", "type", ev.Type)
	}
	u.mu.Unlock()

	if changed {
		u.notify()
	}
}

func (u *Units) notify() {
	u.mu.RLock()
	subs := make([]func(), len(u.subs))
	copy(subs, u.subs)
	u.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}
