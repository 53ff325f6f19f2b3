package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/goccy/go-json"

	"github.com/feldhaus/einkauf/internal/models"
	"github.com/feldhaus/einkauf/internal/state"
	"github.com/feldhaus/einkauf/internal/ws"
)

func TestAddForm(t *testing.T) {
	newAddModel := func(t *testing.T) *Model {
		t.Helper()
		m := NewModel(context.Background(), Deps{List: state.NewShoppingList(nil, nil)})
		m.view = AddView
		return m
	}

	t.Run("Submit Shows A Provisional Item", func(t *testing.T) {
		m := newAddModel(t)
		m.nameInput.SetValue("Milch")
		m.mengeInput.SetValue("2 l")

		_, cmd := m.handleAddKeys(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd == nil {
			t.Fatal("expected a command that talks to the server")
		}
		if m.view != ListView {
			t.Error("expected the form to close on submit")
		}

		items := m.deps.List.Items()
		if len(items) != 1 {
			t.Fatalf("expected 1 provisional item, got %d", len(items))
		}
		if items[0].ID == "" {
			t.Error("expected the provisional item to carry an id")
		}
		if items[0].Name != "Milch" || items[0].Menge == nil || *items[0].Menge != "2 l" {
			t.Errorf("unexpected provisional item: %+v", items[0])
		}
	})

	t.Run("Server Answer Replaces The Provisional Item", func(t *testing.T) {
		m := newAddModel(t)
		m.nameInput.SetValue("Brot")
		m.handleAddKeys(tea.KeyMsg{Type: tea.KeyEnter})

		provisionalID := m.deps.List.Items()[0].ID
		m.Update(itemAddedMsg{
			provisionalID: provisionalID,
			item:          &models.ItemWithDepartment{ID: "srv-1", Name: "Brot"},
		})

		items := m.deps.List.Items()
		if len(items) != 1 {
			t.Fatalf("expected 1 item after the server answer, got %d", len(items))
		}
		if items[0].ID != "srv-1" {
			t.Errorf("expected the server item, got id %s", items[0].ID)
		}
	})

	t.Run("Failed Add Rolls The Provisional Item Back", func(t *testing.T) {
		m := newAddModel(t)
		m.nameInput.SetValue("Salz")
		m.handleAddKeys(tea.KeyMsg{Type: tea.KeyEnter})

		provisionalID := m.deps.List.Items()[0].ID
		m.Update(itemAddedMsg{provisionalID: provisionalID, err: errors.New("server down")})

		if got := m.deps.List.Len(); got != 0 {
			t.Errorf("expected an empty list after rollback, got %d items", got)
		}
		if m.err == nil {
			t.Error("expected the error to surface in the status bar")
		}
	})

	t.Run("Empty Name Is Not Submitted", func(t *testing.T) {
		m := newAddModel(t)
		_, cmd := m.handleAddKeys(tea.KeyMsg{Type: tea.KeyEnter})
		if cmd != nil {
			t.Error("expected no command for an empty name")
		}
		if got := m.deps.List.Len(); got != 0 {
			t.Errorf("expected no provisional item, got %d", got)
		}
	})
}

func TestUnitHint(t *testing.T) {
	units := state.NewUnits(nil, nil)
	for i, name := range []string{"g", "kg", "l"} {
		payload, _ := json.Marshal(ws.UnitEvent{ID: i + 1, Name: name, SortOrder: i + 1})
		units.Apply(ws.Event{Type: ws.EventUnitCreated, Data: payload})
	}

	m := NewModel(context.Background(), Deps{
		List:  state.NewShoppingList(nil, nil),
		Units: units,
	})

	hint := m.unitHint()
	if !strings.HasPrefix(hint, "Einheiten: ") {
		t.Errorf("unexpected hint %q", hint)
	}
	for _, name := range []string{"g", "kg", "l"} {
		if !strings.Contains(hint, name) {
			t.Errorf("expected %q in hint %q", name, hint)
		}
	}

	t.Run("Empty Without Units", func(t *testing.T) {
		m := NewModel(context.Background(), Deps{List: state.NewShoppingList(nil, nil)})
		if got := m.unitHint(); got != "" {
			t.Errorf("expected empty hint, got %q", got)
		}
	})
}
