// Package models defines the data structures for the risk API service
package models

import "errors"

// Error taxonomy for the fetch/cache/analytics core. Callers branch on these
// with errors.Is to pick the right recovery: NotFound results are cached as
// negative sentinels, SourceUnavailable is never cached and retried fresh,
// CacheUnavailable always degrades to a cache miss.
var (
	// ErrInvalidInput marks a malformed ticker symbol or period string,
	// rejected before any I/O.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound marks a well-formed request for which the source has no
	// data (no such symbol, empty history).
	ErrNotFound = errors.New("not found")

	// ErrSourceUnavailable marks a transport, timeout, or parse failure
	// talking to the external data source.
	ErrSourceUnavailable = errors.New("source unavailable")

	// ErrCacheUnavailable marks a cache backend failure. It never reaches
	// callers of the fetch layer; it exists so backends can tag failures
	// distinctly in logs.
	ErrCacheUnavailable = errors.New("cache unavailable")

	// ErrServiceUnavailable marks exhaustion of every stage of a fallback
	// chain.
	ErrServiceUnavailable = errors.New("service unavailable")
)
