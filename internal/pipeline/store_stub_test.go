package pipeline

import (
	"context"
	"sync"

	"github.com/sortwise/sortwise/internal/common"
	"github.com/sortwise/sortwise/internal/model"
)

// recordingStore is a minimal service.Storage stub capturing saved
// analyses.
type recordingStore struct {
	saved []model.Analysis
	ops   []model.Operation
	mu    sync.Mutex
}

func (s *recordingStore) SaveAnalysis(_ context.Context, analysis *model.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, *analysis)
	return nil
}

func (s *recordingStore) SaveAnalyses(_ context.Context, analyses []model.Analysis) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, analyses...)
	return nil
}

func (s *recordingStore) GetAnalysisByPath(context.Context, string) (*model.Analysis, error) {
	return nil, common.ErrNotFound
}

func (s *recordingStore) GetAnalysesByCategory(context.Context, string) ([]model.Analysis, error) {
	return nil, nil
}

func (s *recordingStore) GetRecentAnalyses(context.Context, int) ([]model.Analysis, error) {
	return nil, nil
}

func (s *recordingStore) FindAnalysisByHash(context.Context, string) (*model.Analysis, error) {
	return nil, common.ErrNotFound
}

func (s *recordingStore) RecordOperation(_ context.Context, op *model.Operation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops = append(s.ops, *op)
	return nil
}

func (s *recordingStore) GetOperationHistory(context.Context, int) ([]model.Operation, error) {
	return nil, nil
}

func (s *recordingStore) Migrate(context.Context) error { return nil }

func (s *recordingStore) Close() error { return nil }
