// Package api is the REST client for the einkauf server. A [Client] carries
// one service per resource (items, stores, products, units, templates,
// recipes, weekplan, users, backup, webdav, config); all requests share a
// rate limiter, a circuit breaker and bearer tokens from a [TokenSource].
package api
