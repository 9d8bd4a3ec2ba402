// Package filter orchestrates resume filtering: enumerate, extract, score, rank.
package filter

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/hyperjump/resumatch/internal/extract"
	"github.com/hyperjump/resumatch/internal/match"
	"github.com/hyperjump/resumatch/internal/metrics"
	"github.com/hyperjump/resumatch/internal/models"
	"github.com/hyperjump/resumatch/internal/store"
	"github.com/hyperjump/resumatch/pkg/utils"
	"go.uber.org/zap"
)

// Service filters stored resumes against keyword sets.
type Service struct {
	store          store.Store
	extractor      *extract.Extractor
	scorer         *match.Scorer
	extractTimeout time.Duration
	logger         *zap.Logger
}

// NewService creates a filter service with the given dependencies.
// extractTimeout bounds text extraction per document; zero disables the bound.
func NewService(
	st store.Store,
	extractor *extract.Extractor,
	scorer *match.Scorer,
	extractTimeout time.Duration,
	logger *zap.Logger,
) *Service {
	return &Service{
		store:          st,
		extractor:      extractor,
		scorer:         scorer,
		extractTimeout: extractTimeout,
		logger:         logger,
	}
}

// Filter validates the request, scores every stored resume against its
// keywords, and returns matches sorted by descending score with filename
// ascending on ties. A resume that cannot be read or parsed is logged and
// excluded; only a failure to enumerate the store fails the request.
func (s *Service) Filter(ctx context.Context, req *models.FilterRequest) (*models.FilterResponse, error) {
	startTime := time.Now()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	names, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list resumes: %w", err)
	}

	matched := make([]models.ResumeMatch, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := s.extractText(ctx, name)
		if err != nil {
			metrics.ExtractionFailuresTotal.WithLabelValues(failureReason(err)).Inc()
			s.logger.Warn("extraction failed, resume skipped",
				zap.String("filename", name),
				zap.Error(err),
			)
			continue
		}
		s.logger.Debug("extracted",
			zap.String("filename", name),
			zap.Int("chars", len(text)),
			zap.String("preview", utils.Truncate(text, 80)),
		)
		keywords, score := s.scorer.Score(text, req.Keywords)
		if score < 1 {
			continue
		}
		matched = append(matched, models.ResumeMatch{
			Filename:        name,
			MatchedKeywords: keywords,
			Score:           score,
		})
	}

	// names is sorted ascending, so a stable sort leaves equal scores
	// in filename order.
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score > matched[j].Score
	})

	s.logger.Debug("filter complete",
		zap.Int("total_resumes", len(names)),
		zap.Int("matched", len(matched)),
		zap.Duration("elapsed", time.Since(startTime)),
	)
	metrics.FilterDuration.Observe(time.Since(startTime).Seconds())

	return &models.FilterResponse{
		Message:          summaryMessage(len(matched)),
		MatchedResumes:   matched,
		TotalResumes:     len(names),
		KeywordsSearched: req.Keywords,
	}, nil
}

// extractText reads one resume and extracts its text, bounded by the
// configured per-document timeout so one corrupt or huge file cannot
// stall a whole batch.
func (s *Service) extractText(ctx context.Context, name string) (string, error) {
	if s.extractTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.extractTimeout)
		defer cancel()
	}

	content, err := s.store.Read(ctx, name)
	if err != nil {
		return "", err
	}

	type result struct {
		text string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		text, err := s.extractor.ExtractBytes(content, filepath.Ext(name))
		done <- result{text, err}
	}()
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("extract %s: %w", name, ctx.Err())
	case r := <-done:
		return r.text, r.err
	}
}

func summaryMessage(matched int) string {
	if matched == 0 {
		return "No matching resumes found"
	}
	return fmt.Sprintf("Found %d matching resumes", matched)
}

// failureReason maps an extraction error to a metric label.
func failureReason(err error) string {
	var perr *extract.ParseError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &perr):
		return "parse"
	case errors.Is(err, extract.ErrUnsupportedFormat):
		return "unsupported"
	default:
		return "read"
	}
}
