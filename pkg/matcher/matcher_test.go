package matcher

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEncoder struct {
	vectors map[string][]float32
	err     error
}

func (e *stubEncoder) Encode(_ context.Context, texts []string) ([][]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		out = append(out, e.vectors[text])
	}
	return out, nil
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-3, 0}), 1e-9)

	// degenerate inputs score zero instead of erroring
	assert.Zero(t, CosineSimilarity([]float32{1, 0}, []float32{1, 0, 0}))
	assert.Zero(t, CosineSimilarity(nil, nil))
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}

func TestAvailable(t *testing.T) {
	var nilMatcher *Matcher
	assert.False(t, nilMatcher.Available())
	assert.False(t, New(nil, []string{"a"}).Available())
	assert.False(t, New(&stubEncoder{}, nil).Available())
	assert.True(t, New(&stubEncoder{}, []string{"a"}).Available())
}

func TestBestPicksMostSimilarLabel(t *testing.T) {
	enc := &stubEncoder{vectors: map[string][]float32{
		"mi serve una mano": {0.9, 0.1, 0},
		"pulizie":           {0, 1, 0},
		"compagnia":         {1, 0, 0},
		"trasporto":         {0, 0, 1},
	}}
	m := New(enc, []string{"pulizie", "compagnia", "trasporto"})

	best, err := m.Best(context.Background(), "mi serve una mano")
	require.NoError(t, err)
	assert.Equal(t, "compagnia", best)
}

func TestBestTieResolvesToFirstLabel(t *testing.T) {
	same := []float32{1, 0}
	enc := &stubEncoder{vectors: map[string][]float32{
		"testo":   same,
		"primo":   same,
		"secondo": same,
	}}
	m := New(enc, []string{"primo", "secondo"})

	best, err := m.Best(context.Background(), "testo")
	require.NoError(t, err)
	assert.Equal(t, "primo", best)
}

func TestBestErrors(t *testing.T) {
	m := New(&stubEncoder{vectors: map[string][]float32{}}, []string{"a"})

	_, err := m.Best(context.Background(), "   ")
	assert.Error(t, err)

	var nilMatcher *Matcher
	_, err = nilMatcher.Best(context.Background(), "testo")
	assert.ErrorIs(t, err, ErrUnavailable)

	failing := New(&stubEncoder{err: errors.New("boom")}, []string{"a"})
	_, err = failing.Best(context.Background(), "testo")
	assert.Error(t, err)
}
