package adherence

import (
	"context"
	"sort"
	"sync"

	"github.com/cardiowell/platform/internal/shared/types"
)

// MemoryStore is an in-memory LogStore used in tests and single-node
// deployments without postgres.
type MemoryStore struct {
	mu   sync.RWMutex
	logs map[string]map[types.Date]ActivityLog
}

// NewMemoryStore creates an empty in-memory log store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{logs: make(map[string]map[types.Date]ActivityLog)}
}

func (s *MemoryStore) Upsert(_ context.Context, log ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	byDate, ok := s.logs[log.PatientID]
	if !ok {
		byDate = make(map[types.Date]ActivityLog)
		s.logs[log.PatientID] = byDate
	}
	byDate[log.Date] = log
	return nil
}

func (s *MemoryStore) Window(_ context.Context, patientID string, from, to types.Date) ([]ActivityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []ActivityLog
	for date, log := range s.logs[patientID] {
		if date.Before(from) || date.After(to) {
			continue
		}
		out = append(out, log)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}
