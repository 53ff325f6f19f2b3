package state

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"

	"github.com/feldhaus/einkauf/internal/api"
	"github.com/feldhaus/einkauf/internal/models"
	itesting "github.com/feldhaus/einkauf/internal/testing"
	"github.com/feldhaus/einkauf/internal/ws"
)

func newAPIClient(t *testing.T, handler http.Handler) *api.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return api.New(api.Options{
		BaseURL: server.URL,
		Tokens:  &itesting.StaticTokens{AccessToken: "tok"},
	})
}

func itemEvent(t *testing.T, typ string, payload any) ws.Event {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return ws.Event{Type: typ, Data: data}
}

func TestShoppingList(t *testing.T) {
	t.Run("Refresh Loads And Sorts By Department", func(t *testing.T) {
		client := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]models.ItemWithDepartment{
				{ID: "a", Name: "Chips", DepartmentName: models.Ptr("Snacks"), DepartmentSortOrder: models.Ptr(5)},
				{ID: "b", Name: "Milch", DepartmentName: models.Ptr("Kühlregal"), DepartmentSortOrder: models.Ptr(2)},
				{ID: "c", Name: "Irgendwas"},
			})
		}))

		list := NewShoppingList(client, nil)
		if err := list.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh failed: %v", err)
		}

		items := list.Items()
		if len(items) != 3 {
			t.Fatalf("expected 3 items, got %d", len(items))
		}
		if items[0].ID != "b" || items[1].ID != "a" {
			t.Errorf("expected department walk order b,a, got %s,%s", items[0].ID, items[1].ID)
		}
		// Items without a department come last.
		if items[2].ID != "c" {
			t.Errorf("expected uncategorized item last, got %s", items[2].ID)
		}
	})

	t.Run("Apply Upserts And Keeps Department Info", func(t *testing.T) {
		list := NewShoppingList(nil, nil)
		list.items["a"] = models.ItemWithDepartment{
			ID:                  "a",
			Name:                "Milch",
			Menge:               models.Ptr("1 l"),
			DepartmentName:      models.Ptr("Kühlregal"),
			DepartmentSortOrder: models.Ptr(2),
		}

		list.Apply(itemEvent(t, ws.EventItemUpdated, ws.ItemEvent{
			ID:    "a",
			Name:  "Milch",
			Menge: models.Ptr("2 l"),
		}))

		item, ok := list.Get("a")
		if !ok {
			t.Fatal("item disappeared")
		}
		if item.Menge == nil || *item.Menge != "2 l" {
			t.Errorf("expected updated quantity, got %+v", item.Menge)
		}
		if item.DepartmentName == nil || *item.DepartmentName != "Kühlregal" {
			t.Error("expected department info to survive the event")
		}
	})

	t.Run("Delete Is Idempotent", func(t *testing.T) {
		list := NewShoppingList(nil, nil)
		list.items["a"] = models.ItemWithDepartment{ID: "a", Name: "Brot"}

		var notifications int
		list.Subscribe(func() { notifications++ })

		ev := itemEvent(t, ws.EventItemDeleted, ws.ItemEvent{ID: "a"})
		list.Apply(ev)
		list.Apply(ev)
		list.Apply(itemEvent(t, ws.EventItemDeleted, ws.ItemEvent{ID: "never-existed"}))

		if list.Len() != 0 {
			t.Errorf("expected empty list, got %d items", list.Len())
		}
		if notifications != 1 {
			t.Errorf("expected 1 notification, got %d", notifications)
		}
	})

	t.Run("Malformed And Unknown Events Are Ignored", func(t *testing.T) {
		list := NewShoppingList(nil, nil)
		list.items["a"] = models.ItemWithDepartment{ID: "a", Name: "Brot"}

		list.Apply(ws.Event{Type: ws.EventItemAdded, Data: json.RawMessage(`not json`)})
		list.Apply(ws.Event{Type: "something:else", Data: json.RawMessage(`{"id":"a"}`)})

		if list.Len() != 1 {
			t.Errorf("expected list unchanged, got %d items", list.Len())
		}
	})
}

func TestUnits(t *testing.T) {
	t.Run("Apply Create Update Delete", func(t *testing.T) {
		units := NewUnits(nil, nil)

		units.Apply(itemEvent(t, ws.EventUnitCreated, ws.UnitEvent{ID: 1, Name: "g", SortOrder: 1}))
		units.Apply(itemEvent(t, ws.EventUnitCreated, ws.UnitEvent{ID: 2, Name: "kg", SortOrder: 2}))
		units.Apply(itemEvent(t, ws.EventUnitUpdated, ws.UnitEvent{ID: 2, Name: "Kilo", SortOrder: 2}))

		all := units.All()
		if len(all) != 2 {
			t.Fatalf("expected 2 units, got %d", len(all))
		}
		if all[1].Name != "Kilo" {
			t.Errorf("expected updated name, got %s", all[1].Name)
		}

		units.Apply(itemEvent(t, ws.EventUnitDeleted, ws.UnitEvent{ID: 1}))
		units.Apply(itemEvent(t, ws.EventUnitDeleted, ws.UnitEvent{ID: 1}))
		if len(units.All()) != 1 {
			t.Errorf("expected 1 unit after delete, got %d", len(units.All()))
		}
	})

	t.Run("Refresh Replaces Contents", func(t *testing.T) {
		client := newAPIClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode([]models.Unit{
				{ID: 3, Name: "Packung", SortOrder: 3},
				{ID: 1, Name: "g", SortOrder: 1},
			})
		}))

		units := NewUnits(client, nil)
		units.Apply(itemEvent(t, ws.EventUnitCreated, ws.UnitEvent{ID: 9, Name: "stale"}))

		if err := units.Refresh(context.Background()); err != nil {
			t.Fatalf("refresh failed: %v", err)
		}

		all := units.All()
		if len(all) != 2 || all[0].Name != "g" {
			t.Errorf("unexpected units after refresh: %+v", all)
		}
	})
}
