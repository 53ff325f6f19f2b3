// Package state holds the client-side mirrors of server data. Each container
// loads itself over REST, folds in WebSocket deltas and notifies subscribers
// on every change, so commands and the TUI read from memory instead of
// hitting the network per keystroke.
package state
