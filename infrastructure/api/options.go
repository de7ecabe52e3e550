package api

import (
	"net/url"
	"time"
)

// RequestOptions describes one dispatcher call. Facades fill these in with
// their URL, cache key and TTL; everything else has sensible defaults.
type RequestOptions struct {
	// Method defaults to GET.
	Method string
	// Path is appended to the client's base URL, e.g. "/connections".
	Path string
	// Query parameters, optional.
	Query url.Values
	// Body is JSON-marshalled for mutating calls.
	Body any

	// RequestID identifies the logical request for supersede-on-reuse
	// semantics. Defaults to "<method> <path>".
	RequestID string

	// CacheKey enables response caching for GETs. Empty disables it.
	CacheKey string
	// TTL for the cache entry; <= 0 uses the cache's default.
	TTL time.Duration
	// ForceRefresh bypasses the cache read (the fresh response is still
	// written back).
	ForceRefresh bool

	// Invalidate lists cache key prefixes to drop after a successful
	// mutating call.
	Invalidate []string

	// Timeout overrides the client-wide timeout for this call.
	Timeout time.Duration
}
