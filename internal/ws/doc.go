// Package ws streams live change events from the server over a WebSocket.
// A [Client] keeps one connection open, dispatches typed events to
// subscribers and reconnects with capped exponential backoff when the
// connection drops.
package ws
