package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"ptacheck/internal/imei"
	"ptacheck/internal/verification/models"
)

type storedRecord struct {
	record models.Record
	at     time.Time
}

// MemoryStore keeps verdicts and faults in process. Used when no database is
// configured and in tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records []storedRecord
	faults  []models.Fault
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) EnsureSchema(context.Context) error {
	return nil
}

func (s *MemoryStore) Save(_ context.Context, v models.Verdict) (models.Record, error) {
	rec, err := models.RecordFromVerdict(v)
	if err != nil {
		return models.Record{}, fmt.Errorf("save verdict: %w", err)
	}
	rec.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, storedRecord{record: rec, at: v.VerifiedAt})
	return rec, nil
}

// History returns the newest records first. A zero id matches every IMEI.
func (s *MemoryStore) History(_ context.Context, id imei.IMEI, limit int) ([]models.Record, error) {
	limit = NormalizeLimit(limit)

	s.mu.RLock()
	matched := make([]storedRecord, 0, len(s.records))
	for _, r := range s.records {
		if id.IsZero() || r.record.IMEI == id.String() {
			matched = append(matched, r)
		}
	}
	s.mu.RUnlock()

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].at.After(matched[j].at)
	})
	if len(matched) > limit {
		matched = matched[:limit]
	}
	out := make([]models.Record, len(matched))
	for i, r := range matched {
		out[i] = r.record
	}
	return out, nil
}

func (s *MemoryStore) AppendFault(_ context.Context, f models.Fault) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = append(s.faults, f)
	return nil
}

// Faults returns a copy of the recorded faults in insertion order.
func (s *MemoryStore) Faults() []models.Fault {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Fault, len(s.faults))
	copy(out, s.faults)
	return out
}
