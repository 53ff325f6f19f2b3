// package store persists the last synced server state to a local sqlite
// database so `einkauf list --offline` and the TUI can show the shopping list
// without a connection.
package store
