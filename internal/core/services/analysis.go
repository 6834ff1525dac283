package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/ewilliams-labs/timbre/internal/core/domain"
	"github.com/ewilliams-labs/timbre/internal/core/genre"
	"github.com/ewilliams-labs/timbre/internal/core/ports"
)

// AnalysisService runs the preview pipeline for one request: load, extract,
// classify. It holds no per-request state; the rule table and collaborators
// are injected once at startup and only read afterwards.
type AnalysisService struct {
	loader    ports.AudioLoader
	extractor *Extractor
	rules     []genre.Rule
	store     ports.AnalysisStore
	now       func() time.Time
}

// NewAnalysisService constructs an AnalysisService. store may be nil when no
// persistence is wanted, for example in the dataset CLI.
func NewAnalysisService(loader ports.AudioLoader, extractor *Extractor, rules []genre.Rule, store ports.AnalysisStore) *AnalysisService {
	return &AnalysisService{
		loader:    loader,
		extractor: extractor,
		rules:     rules,
		store:     store,
		now:       time.Now,
	}
}

// Analyze executes the pipeline for one request. Stage order is fixed, load
// then extract then classify, and each failure short-circuits with that
// stage's error. A failed store write is logged and does not fail the
// analysis; the report was already computed.
func (s *AnalysisService) Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisReport, error) {
	wave, err := s.loader.Load(ctx, req.AudioURL)
	if err != nil {
		return domain.AnalysisReport{}, fmt.Errorf("service: load %q: %w", req.SongID, err)
	}

	features, err := s.extractor.Extract(ctx, wave, ExtractOptions{Structure: req.WithStructure})
	if err != nil {
		return domain.AnalysisReport{}, fmt.Errorf("service: extract %q: %w", req.SongID, err)
	}

	report := domain.AnalysisReport{
		SongID:     req.SongID,
		Features:   features,
		AnalyzedAt: s.now(),
	}
	if req.PredictGenre {
		verdict := genre.Classify(features, s.rules)
		report.Classification = &verdict
	}

	if s.store != nil {
		if err := s.store.Save(ctx, report); err != nil {
			log.Printf("WARN service: persist analysis %q: %v", req.SongID, err)
		}
	}
	return report, nil
}

// Report returns a previously stored analysis, domain.ErrNotFound when the
// song was never analyzed or no store is configured.
func (s *AnalysisService) Report(ctx context.Context, songID string) (domain.AnalysisReport, error) {
	if s.store == nil {
		return domain.AnalysisReport{}, domain.ErrNotFound
	}
	return s.store.GetBySongID(ctx, songID)
}

// RecentReports lists the most recently stored analyses, newest first.
func (s *AnalysisService) RecentReports(ctx context.Context, limit int) ([]domain.AnalysisReport, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.Recent(ctx, limit)
}
