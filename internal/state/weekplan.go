package state

import (
	"context"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/feldhaus/einkauf/internal/api"
	"github.com/feldhaus/einkauf/internal/models"
	"github.com/feldhaus/einkauf/internal/quantity"
	"github.com/feldhaus/einkauf/internal/shared"
)

// mealOrder fixes the display order of the three slots.
var mealOrder = map[string]int{
	models.MealMorning: 0,
	models.MealLunch:   1,
	models.MealDinner:  2,
}

// Weekplan mirrors the shared meal plan one week at a time, plus local
// per-entry deltas layered onto templates at render time.
type Weekplan struct {
	client *api.Client
	logger *log.Logger

	mu        sync.RWMutex
	weekStart string
	entries   map[int]models.WeekplanEntry
	deltas    map[int]models.WeekplanDelta // by entry id
	subs      []func()
}

// NewWeekplan creates an empty container; call Refresh to load a week.
func NewWeekplan(client *api.Client, logger *log.Logger) *Weekplan {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Weekplan{
		client:  client,
		logger:  logger,
		entries: make(map[int]models.WeekplanEntry),
		deltas:  make(map[int]models.WeekplanDelta),
	}
}

// Refresh loads the week starting at weekStart (the Monday, YYYY-MM-DD),
// replacing any previously loaded week. Deltas for entries that no longer
// exist are dropped.
func (w *Weekplan) Refresh(ctx context.Context, weekStart string) error {
	entries, err := w.client.Weekplan.Entries(ctx, weekStart)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.weekStart = weekStart
	w.entries = make(map[int]models.WeekplanEntry, len(entries))
	for _, entry := range entries {
		w.entries[entry.ID] = entry
	}
	for id := range w.deltas {
		if _, ok := w.entries[id]; !ok {
			delete(w.deltas, id)
		}
	}
	w.mu.Unlock()

	w.notify()
	return nil
}

// WeekStart returns the Monday of the loaded week, or "" before first load.
func (w *Weekplan) WeekStart() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.weekStart
}

// Entries returns a copy of the loaded week sorted by date, then meal slot.
func (w *Weekplan) Entries() []models.WeekplanEntry {
	w.mu.RLock()
	entries := make([]models.WeekplanEntry, 0, len(w.entries))
	for _, entry := range w.entries {
		entries = append(entries, entry)
	}
	w.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date < entries[j].Date
		}
		return mealOrder[entries[i].Meal] < mealOrder[entries[j].Meal]
	})
	return entries
}

// SetDelta stores a local override for one entry, replacing any previous one.
func (w *Weekplan) SetDelta(delta models.WeekplanDelta) {
	w.mu.Lock()
	w.deltas[delta.EntryID] = delta
	w.mu.Unlock()
	w.notify()
}

// Delta returns the stored override for an entry, if any.
func (w *Weekplan) Delta(entryID int) (models.WeekplanDelta, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	delta, ok := w.deltas[entryID]
	return delta, ok
}

// ClearDelta drops the override for an entry. Idempotent.
func (w *Weekplan) ClearDelta(entryID int) {
	w.mu.Lock()
	_, ok := w.deltas[entryID]
	delete(w.deltas, entryID)
	w.mu.Unlock()
	if ok {
		w.notify()
	}
}

// Subscribe registers fn to run after every change.
func (w *Weekplan) Subscribe(fn func()) {
	w.mu.Lock()
	w.subs = append(w.subs, fn)
	w.mu.Unlock()
}

func (w *Weekplan) notify() {
	w.mu.RLock()
	subs := make([]func(), len(w.subs))
	copy(subs, w.subs)
	w.mu.RUnlock()

	for _, fn := range subs {
		fn()
	}
}

// RenderTemplate produces the shopping lines for a template with an optional
// delta: removed lines are dropped (matched by normalized name), added lines
// appended, and quantities scaled from the template's person count to the
// delta's.
func RenderTemplate(tmpl models.Template, delta *models.WeekplanDelta) []models.TemplateItem {
	factor := 1.0
	if delta != nil && delta.PersonCount != nil && tmpl.PersonCount > 0 {
		factor = float64(*delta.PersonCount) / float64(tmpl.PersonCount)
	}

	removed := make(map[string]bool)
	if delta != nil {
		for _, name := range delta.RemovedItems {
			removed[quantity.NormalizeName(name)] = true
		}
	}

	items := make([]models.TemplateItem, 0, len(tmpl.Items))
	for _, item := range tmpl.Items {
		if removed[quantity.NormalizeName(item.Name)] {
			continue
		}
		items = append(items, scaleItem(item, factor))
	}

	if delta != nil {
		for _, added := range delta.AddedItems {
			items = append(items, models.TemplateItem{Name: added.Name, Menge: added.Menge})
		}
	}
	return items
}

func scaleItem(item models.TemplateItem, factor float64) models.TemplateItem {
	if factor == 1.0 || item.Menge == nil || *item.Menge == "" {
		return item
	}
	scaled := quantity.Scale(*item.Menge, factor)
	item.Menge = &scaled
	return item
}
