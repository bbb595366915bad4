// Package store persists verdicts and pipeline faults.
package store

import (
	"context"

	"ptacheck/internal/verification/ports"
)

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 100
)

// Store is a verdict store that also keeps the fault log and can create its
// own schema.
type Store interface {
	ports.VerdictStore
	ports.FaultLog
	EnsureSchema(ctx context.Context) error
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)

// NormalizeLimit clamps a history limit into (0, MaxHistoryLimit].
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	default:
		return limit
	}
}
