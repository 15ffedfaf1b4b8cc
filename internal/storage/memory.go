package storage

import (
	"context"
	"errors"
	"sync"

	"planitia/internal/model"
)

var errNotInitialized = errors.New("store is not initialized")

type MemoryStore struct {
	mu          sync.RWMutex
	initialized bool
	sets        map[string]model.SequenceSet
	reports     map[string]model.FlatnessReport
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Init(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.initialized {
		return nil
	}
	s.initialized = true
	s.sets = make(map[string]model.SequenceSet)
	s.reports = make(map[string]model.FlatnessReport)
	return nil
}

func (s *MemoryStore) SaveSequenceSet(_ context.Context, set model.SequenceSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.sets[set.ID] = cloneSequenceSet(set)
	return nil
}

func (s *MemoryStore) GetSequenceSet(_ context.Context, id string) (model.SequenceSet, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	set, ok := s.sets[id]
	if !ok {
		return model.SequenceSet{}, false, nil
	}
	return cloneSequenceSet(set), true, nil
}

func (s *MemoryStore) ListSequenceSets(_ context.Context) ([]model.SequenceSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.SequenceSet, 0, len(s.sets))
	for _, set := range s.sets {
		out = append(out, cloneSequenceSet(set))
	}
	sortNewestFirst(out)
	return out, nil
}

func (s *MemoryStore) SaveFlatnessReport(_ context.Context, report model.FlatnessReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.initialized {
		return errNotInitialized
	}
	s.reports[report.ID] = cloneFlatnessReport(report)
	return nil
}

func (s *MemoryStore) GetFlatnessReport(_ context.Context, id string) (model.FlatnessReport, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.reports[id]
	if !ok {
		return model.FlatnessReport{}, false, nil
	}
	return cloneFlatnessReport(report), true, nil
}

func cloneSequenceSet(set model.SequenceSet) model.SequenceSet {
	set.Sequences = append([]string(nil), set.Sequences...)
	return set
}

func cloneFlatnessReport(report model.FlatnessReport) model.FlatnessReport {
	report.Scores = append([]model.FlatnessScore(nil), report.Scores...)
	report.Skipped = append([]model.GroupSkip(nil), report.Skipped...)
	return report
}
