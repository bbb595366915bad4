package sentinel

import "errors"

// ErrNotFound is returned, optionally wrapped, by stores and caches when no
// entry exists for a key, so services can branch on a miss without knowing
// which backend produced it.
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var ErrNotFound = errors.New("not found")
