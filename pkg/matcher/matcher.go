package matcher

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrUnavailable is returned when no encoder capability is configured.
var ErrUnavailable = errors.New("semantic matcher is not available")

// Encoder turns texts into embedding vectors. Implementations talk to an
// external embedding model; absence of an encoder means the matcher
// capability is absent.
type Encoder interface {
	Encode(ctx context.Context, texts []string) ([][]float32, error)
}

// Matcher maps free text onto a fixed label set by cosine similarity
// between the text embedding and the label embeddings.
type Matcher struct {
	encoder Encoder
	labels  []string
}

func New(encoder Encoder, labels []string) *Matcher {
	return &Matcher{
		encoder: encoder,
		labels:  labels,
	}
}

// Available reports whether the matcher can produce suggestions.
func (m *Matcher) Available() bool {
	return m != nil && m.encoder != nil && len(m.labels) > 0
}

// Best returns the label whose embedding is most similar to text.
// Ties resolve to the first label encountered, so results are
// deterministic for a fixed model and input.
func (m *Matcher) Best(ctx context.Context, text string) (string, error) {
	if !m.Available() {
		return "", ErrUnavailable
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty input text")
	}

	inputs := append([]string{text}, m.labels...)
	vectors, err := m.encoder.Encode(ctx, inputs)
	if err != nil {
		return "", fmt.Errorf("failed to encode: %w", err)
	}
	if len(vectors) != len(inputs) {
		return "", fmt.Errorf("encoder returned %d vectors for %d inputs", len(vectors), len(inputs))
	}

	query := vectors[0]
	bestIdx := 0
	bestScore := math.Inf(-1)
	for i, vec := range vectors[1:] {
		score := CosineSimilarity(query, vec)
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
	}

	return m.labels[bestIdx], nil
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-norm vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
