package domain

import "errors"

// Repository content source failures. Adapters wrap these so callers can use errors.Is.
var (
	ErrNotFound     = errors.New("not found")
	ErrAccessDenied = errors.New("access denied")
	ErrRateLimited  = errors.New("rate limited")
)

// ErrEnrichmentUnavailable marks an enrichment call that must fall back to the
// deterministic generator.
var ErrEnrichmentUnavailable = errors.New("enrichment unavailable")
