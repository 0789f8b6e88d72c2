package taxonomy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/davideparisimodena/careconnect/pkg/errors"
	"github.com/davideparisimodena/careconnect/pkg/matcher"
	"github.com/davideparisimodena/careconnect/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("taxonomy_test")

type stubEncoder struct {
	vectors map[string][]float32
}

func (e *stubEncoder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		vec, ok := e.vectors[text]
		if !ok {
			vec = []float32{0, 0, 1}
		}
		out = append(out, vec)
	}
	return out, nil
}

func TestCategoriesOrder(t *testing.T) {
	svc := NewService(nil, testMetrics)

	assert.Equal(t, []string{
		"Assistenza Infermieristica",
		"Riabilitazione Motoria / Fisioterapia",
		"Igiene e Cura Personale",
		"Supporto Notturno",
		"Preparazione Pasti e Spesa",
		"Visita Medica",
		"Supporto Psicologico",
	}, svc.Categories())
}

func TestQualifyingRoles(t *testing.T) {
	svc := NewService(nil, testMetrics)

	roles, err := svc.QualifyingRoles("Igiene e Cura Personale")
	require.NoError(t, err)
	assert.Equal(t, []string{"OSS", "Badante"}, roles)

	roles, err = svc.QualifyingRoles("Visita Medica")
	require.NoError(t, err)
	assert.Equal(t, []string{"Medico"}, roles)

	_, err = svc.QualifyingRoles("Giardinaggio")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestSuggestCategoryWithoutMatcher(t *testing.T) {
	svc := NewService(nil, testMetrics)

	assert.False(t, svc.SuggestionAvailable())

	_, err := svc.SuggestCategory(context.Background(), "ho bisogno di un infermiere")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnavailable))
}

func TestSuggestCategory(t *testing.T) {
	enc := &stubEncoder{vectors: map[string][]float32{
		"mi serve una puntura ogni giorno": {1, 0, 0},
		"Assistenza Infermieristica":       {0.9, 0.1, 0},
		"Supporto Psicologico":             {0, 1, 0},
	}}
	labels := NewService(nil, testMetrics).Categories()
	svc := NewService(matcher.New(enc, labels), testMetrics)

	assert.True(t, svc.SuggestionAvailable())

	category, err := svc.SuggestCategory(context.Background(), "mi serve una puntura ogni giorno")
	require.NoError(t, err)
	assert.Equal(t, "Assistenza Infermieristica", category)
}
