// Package session owns the bearer token and its lifecycle.
//
// The [Store] persists the session as a 0600 JSON file. The [Manager] wraps
// the server's auth endpoints (register, login, refresh, me, delete) and
// hands out a valid access token via [Manager.Token], refreshing it when the
// expiry comes inside the configured lead window. Refreshes are collapsed
// through a [Refresher]: concurrent callers share one network request,
// transient failures are retried with exponential backoff, and a cooldown
// window keeps a freshly refreshed token from being refreshed again.
//
// The [IdleTracker] ties user activity to forced logout: every interaction
// calls Touch, and when the countdown elapses the registered callback clears
// the session.
package session
