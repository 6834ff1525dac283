package ports

import (
	"context"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
)

// AnalysisStore persists finished analysis reports keyed by song id.
// GetBySongID returns domain.ErrNotFound for an unknown id.
type AnalysisStore interface {
	Save(ctx context.Context, report domain.AnalysisReport) error
	GetBySongID(ctx context.Context, songID string) (domain.AnalysisReport, error)
	Recent(ctx context.Context, limit int) ([]domain.AnalysisReport, error)
}
