// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI renders the shared shopping list grouped by department:
//  1. [ListView] : Browse the list in department walk order, delete bought items
//  2. [AddView] : Enter a new item with an optional quantity
//
// The [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Live changes flow in from the state containers through a change channel, so
// edits made by other household members appear without a manual refresh.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, a, x, r, q)
// with contextual help displayed via charmbracelet/bubbles/help. Every key
// press rearms the session idle tracker.
package ui
