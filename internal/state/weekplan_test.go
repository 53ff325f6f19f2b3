package state

import (
	"context"
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/feldhaus/einkauf/internal/models"
)

func TestWeekplan(t *testing.T) {
	t.Run("Refresh Sorts By Date Then Meal", func(t *testing.T) {
		client := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("week_start"); got != "2026-08-31" {
				t.Errorf("expected week_start query, got %q", got)
			}
			json.NewEncoder(w).Encode([]models.WeekplanEntry{
				{ID: 1, Date: "2026-09-01", Meal: models.MealDinner, Text: "Pizza"},
				{ID: 2, Date: "2026-08-31", Meal: models.MealLunch, Text: "Suppe"},
				{ID: 3, Date: "2026-08-31", Meal: models.MealMorning, Text: "Müsli"},
			})
		}))

		plan := NewWeekplan(client, nil)
		if err := plan.Refresh(context.Background(), "2026-08-31"); err != nil {
			t.Fatalf("refresh failed: %v", err)
		}

		entries := plan.Entries()
		want := []int{3, 2, 1}
		for i, id := range want {
			if entries[i].ID != id {
				t.Errorf("position %d: expected entry %d, got %d", i, id, entries[i].ID)
			}
		}
	})

	t.Run("Refresh Drops Deltas For Vanished Entries", func(t *testing.T) {
		client := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]models.WeekplanEntry{
				{ID: 1, Date: "2026-08-31", Meal: models.MealDinner, Text: "Pizza"},
			})
		}))

		plan := NewWeekplan(client, nil)
		plan.SetDelta(models.WeekplanDelta{EntryID: 1, PersonCount: models.Ptr(2)})
		plan.SetDelta(models.WeekplanDelta{EntryID: 99, PersonCount: models.Ptr(6)})

		if err := plan.Refresh(context.Background(), "2026-08-31"); err != nil {
			t.Fatalf("refresh failed: %v", err)
		}

		if _, ok := plan.Delta(1); !ok {
			t.Error("expected delta for live entry to survive")
		}
		if _, ok := plan.Delta(99); ok {
			t.Error("expected delta for vanished entry to be dropped")
		}
	})

	t.Run("ClearDelta Is Idempotent", func(t *testing.T) {
		plan := NewWeekplan(nil, nil)
		plan.SetDelta(models.WeekplanDelta{EntryID: 1})
		plan.ClearDelta(1)
		plan.ClearDelta(1)
		if _, ok := plan.Delta(1); ok {
			t.Error("expected delta gone")
		}
	})
}

func TestRenderTemplate(t *testing.T) {
	tmpl := models.Template{
		Name:        "Wochenkauf",
		PersonCount: 2,
		Items: []models.TemplateItem{
			{Name: "Nudeln", Menge: models.Ptr("500 g")},
			{Name: "Tomaten", Menge: models.Ptr("4")},
			{Name: "Salz"},
		},
	}

	t.Run("No Delta Returns Items As Is", func(t *testing.T) {
		items := RenderTemplate(tmpl, nil)
		if len(items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(items))
		}
		if *items[0].Menge != "500 g" {
			t.Errorf("expected unscaled quantity, got %s", *items[0].Menge)
		}
	})

	t.Run("Person Count Scales Quantities", func(t *testing.T) {
		items := RenderTemplate(tmpl, &models.WeekplanDelta{PersonCount: models.Ptr(4)})
		if got := *items[0].Menge; got != "1000 g" {
			t.Errorf("expected 1000 g, got %s", got)
		}
		if got := *items[1].Menge; got != "8" {
			t.Errorf("expected 8, got %s", got)
		}
		// Unit-less lines without a quantity stay untouched.
		if items[2].Menge != nil {
			t.Errorf("expected nil quantity, got %v", items[2].Menge)
		}
	})

	t.Run("Removed And Added Lines", func(t *testing.T) {
		items := RenderTemplate(tmpl, &models.WeekplanDelta{
			RemovedItems: []string{"NUDELN"}, // matching is case-insensitive
			AddedItems:   []models.TemplateItemCreate{{Name: "Basilikum", Menge: models.Ptr("1 Topf")}},
		})

		if len(items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(items))
		}
		for _, item := range items {
			if item.Name == "Nudeln" {
				t.Error("expected Nudeln removed")
			}
		}
		if items[2].Name != "Basilikum" {
			t.Errorf("expected added line last, got %s", items[2].Name)
		}
	})
}
