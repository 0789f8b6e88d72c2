package taxonomy

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/davideparisimodena/careconnect/internal/model"
	apperrors "github.com/davideparisimodena/careconnect/pkg/errors"
	"github.com/davideparisimodena/careconnect/pkg/matcher"
	"github.com/davideparisimodena/careconnect/pkg/metrics"
)

// Service exposes the fixed intervention taxonomy and, when a matcher
// capability is present, semantic category suggestion.
type Service struct {
	mapping []model.CategoryMapping
	matcher *matcher.Matcher
	metrics *metrics.Metrics
}

// NewService builds the taxonomy service. A nil matcher means category
// suggestion reports unavailable.
func NewService(m *matcher.Matcher, metrics *metrics.Metrics) *Service {
	return &Service{
		mapping: model.InterventionMapping,
		matcher: m,
		metrics: metrics,
	}
}

// Categories returns category names in the taxonomy's fixed order.
func (s *Service) Categories() []string {
	names := make([]string, 0, len(s.mapping))
	for _, entry := range s.mapping {
		names = append(names, entry.Category)
	}
	return names
}

// QualifyingRoles returns the professional roles qualified for a category.
func (s *Service) QualifyingRoles(category string) ([]string, error) {
	for _, entry := range s.mapping {
		if entry.Category == category {
			return entry.Roles, nil
		}
	}
	return nil, apperrors.NotFound("category")
}

// SuggestCategory maps free text onto the category with the most similar
// embedding. Without a matcher the capability is reported unavailable
// rather than guessed.
func (s *Service) SuggestCategory(ctx context.Context, text string) (string, error) {
	if !s.matcher.Available() {
		return "", apperrors.Unavailable("category suggestion")
	}

	timer := prometheus.NewTimer(s.metrics.SuggestionLatency)
	defer timer.ObserveDuration()

	best, err := s.matcher.Best(ctx, text)
	if err != nil {
		return "", apperrors.Unavailable("category suggestion")
	}
	return best, nil
}

// SuggestionAvailable reports whether semantic suggestion is configured.
func (s *Service) SuggestionAvailable() bool {
	return s.matcher.Available()
}
