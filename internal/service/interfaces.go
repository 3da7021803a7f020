// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/sortwise/sortwise/internal/model"
)

// Storage defines the contract for the persistence collaborator. The
// core pipeline only hands finished results to it; it never reads the
// store on the hot path.
type Storage interface {
	// Analysis history
	SaveAnalysis(ctx context.Context, analysis *model.Analysis) error
	SaveAnalyses(ctx context.Context, analyses []model.Analysis) error
	GetAnalysisByPath(ctx context.Context, path string) (*model.Analysis, error)
	GetAnalysesByCategory(ctx context.Context, category string) ([]model.Analysis, error)
	GetRecentAnalyses(ctx context.Context, limit int) ([]model.Analysis, error)
	FindAnalysisByHash(ctx context.Context, hash string) (*model.Analysis, error)

	// Operation history
	RecordOperation(ctx context.Context, op *model.Operation) error
	GetOperationHistory(ctx context.Context, limit int) ([]model.Operation, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
