package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/feldhaus/einkauf/internal/api"
	"github.com/feldhaus/einkauf/internal/models"
	"github.com/feldhaus/einkauf/internal/session"
	"github.com/feldhaus/einkauf/internal/shared"
	"github.com/feldhaus/einkauf/internal/state"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ListView ViewState = iota
	AddView
)

// Deps carries everything the TUI reads from and writes to.
type Deps struct {
	List      *state.ShoppingList
	Units     *state.Units
	Client    *api.Client
	Idle      *session.IdleTracker
	Connected func() bool
	Username  string
}

// Model represents the TUI application state.
type Model struct {
	ctx  context.Context
	deps Deps

	view   ViewState
	width  int
	height int

	itemList   list.Model
	nameInput  textinput.Model
	mengeInput textinput.Model
	focusMenge bool

	changes chan struct{}
	status  string
	err     error
	help    help.Model
	keys    keyMap
}

type stateChangedMsg struct{}

type refreshDoneMsg struct {
	err error
}

type itemAddedMsg struct {
	provisionalID string
	item          *models.ItemWithDepartment
	err           error
}

type itemDeletedMsg struct {
	id  string
	err error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, deps Deps) *Model {
	nameInput := textinput.New()
	nameInput.Placeholder = "Artikel"
	nameInput.CharLimit = 120

	mengeInput := textinput.New()
	mengeInput.Placeholder = "Menge (z.B. 500 g)"
	mengeInput.CharLimit = 40

	itemList := list.New(toListItems(deps.List.Items()), list.NewDefaultDelegate(), 0, 0)
	itemList.Title = "Einkaufsliste"
	itemList.SetShowHelp(false)

	m := &Model{
		ctx:        ctx,
		deps:       deps,
		view:       ListView,
		itemList:   itemList,
		nameInput:  nameInput,
		mengeInput: mengeInput,
		changes:    make(chan struct{}, 1),
		help:       help.New(),
		keys:       newKeyMap(),
	}

	onChange := func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	}
	deps.List.Subscribe(onChange)
	if deps.Units != nil {
		deps.Units.Subscribe(onChange)
	}

	return m
}

// Init loads the list and starts waiting for container changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.refreshItems(), m.waitForChange())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.itemList.SetSize(msg.Width-4, msg.Height-8)
		return m, nil

	case tea.KeyMsg:
		if m.deps.Idle != nil {
			m.deps.Idle.Touch()
		}
		switch m.view {
		case ListView:
			return m.handleListKeys(msg)
		case AddView:
			return m.handleAddKeys(msg)
		}

	case stateChangedMsg:
		m.itemList.SetItems(toListItems(m.deps.List.Items()))
		return m, m.waitForChange()

	case refreshDoneMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = ""
		}
		return m, nil

	case itemAddedMsg:
		if msg.provisionalID != "" {
			m.deps.List.Remove(msg.provisionalID)
		}
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.deps.List.Upsert(*msg.item)
		m.status = fmt.Sprintf("%s hinzugefügt", msg.item.Name)
		return m, nil

	case itemDeletedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.deps.List.Remove(msg.id)
		return m, nil
	}

	var cmd tea.Cmd
	m.itemList, cmd = m.itemList.Update(msg)
	return m, cmd
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case AddView:
		return m.renderAdd()
	default:
		return m.renderList()
	}
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "a":
		m.view = AddView
		m.nameInput.SetValue("")
		m.mengeInput.SetValue("")
		m.focusMenge = false
		m.mengeInput.Blur()
		return m, m.nameInput.Focus()
	case "x", "d":
		if selected, ok := m.itemList.SelectedItem().(shoppingItem); ok {
			return m, m.deleteItem(selected.item.ID)
		}
		return m, nil
	case "r":
		m.status = "aktualisiere..."
		return m, m.refreshItems()
	}

	var cmd tea.Cmd
	m.itemList, cmd = m.itemList.Update(msg)
	return m, cmd
}

func (m *Model) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ListView
		return m, nil
	case "tab", "shift+tab":
		m.focusMenge = !m.focusMenge
		if m.focusMenge {
			m.nameInput.Blur()
			return m, m.mengeInput.Focus()
		}
		m.mengeInput.Blur()
		return m, m.nameInput.Focus()
	case "enter":
		name := m.nameInput.Value()
		if name == "" {
			return m, nil
		}
		m.view = ListView
		// Show the item right away under a provisional id; the server
		// answer replaces it.
		provisional := models.ItemWithDepartment{ID: shared.GenerateID(), Name: name}
		if menge := m.mengeInput.Value(); menge != "" {
			provisional.Menge = &menge
		}
		m.deps.List.Upsert(provisional)
		m.status = fmt.Sprintf("%s wird gespeichert...", name)
		return m, m.addItem(provisional)
	}

	var cmd tea.Cmd
	if m.focusMenge {
		m.mengeInput, cmd = m.mengeInput.Update(msg)
	} else {
		m.nameInput, cmd = m.nameInput.Update(msg)
	}
	return m, cmd
}

func (m *Model) renderList() string {
	statusBar := m.renderStatusBar()
	helpView := m.help.ShortHelpView(m.keys.ShortHelp())
	return fmt.Sprintf("%s\n%s\n%s", m.itemList.View(), statusBar, helpView)
}

func (m *Model) renderAdd() string {
	title := styles.title.Render("Neuer Artikel")
	body := fmt.Sprintf("%s\n%s", m.nameInput.View(), m.mengeInput.View())
	if units := m.unitHint(); units != "" {
		body = fmt.Sprintf("%s\n%s", body, styles.help.Render(units))
	}
	hint := styles.help.Render("tab: Feld wechseln • enter: speichern • esc: zurück")
	return fmt.Sprintf("%s\n%s\n\n%s", title, body, hint)
}

// unitHint lists the known quantity units next to the Menge field.
func (m *Model) unitHint() string {
	if m.deps.Units == nil {
		return ""
	}
	units := m.deps.Units.All()
	if len(units) == 0 {
		return ""
	}
	if len(units) > 8 {
		units = units[:8]
	}
	names := make([]string, len(units))
	for i, unit := range units {
		names[i] = unit.Name
	}
	return "Einheiten: " + strings.Join(names, ", ")
}

func (m *Model) renderStatusBar() string {
	conn := styles.warn.Render("offline")
	if m.deps.Connected != nil && m.deps.Connected() {
		conn = styles.ok.Render("online")
	}

	bar := fmt.Sprintf("%s • %d Artikel", conn, m.deps.List.Len())
	if m.deps.Username != "" {
		bar = fmt.Sprintf("%s • %s", bar, m.deps.Username)
	}
	if m.status != "" {
		bar = fmt.Sprintf("%s • %s", bar, m.status)
	}
	if m.err != nil {
		bar = fmt.Sprintf("%s\n%s", bar, styles.err.Render(m.err.Error()))
	}
	return bar
}

func (m *Model) refreshItems() tea.Cmd {
	return func() tea.Msg {
		return refreshDoneMsg{err: m.deps.List.Refresh(m.ctx)}
	}
}

func (m *Model) addItem(provisional models.ItemWithDepartment) tea.Cmd {
	return func() tea.Msg {
		item := models.Item{Name: provisional.Name, Menge: provisional.Menge}
		created, err := m.deps.Client.Items.Add(m.ctx, item)
		return itemAddedMsg{provisionalID: provisional.ID, item: created, err: err}
	}
}

func (m *Model) deleteItem(id string) tea.Cmd {
	return func() tea.Msg {
		return itemDeletedMsg{id: id, err: m.deps.Client.Items.Delete(m.ctx, id)}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	return func() tea.Msg {
		<-m.changes
		return stateChangedMsg{}
	}
}
