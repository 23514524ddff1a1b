package ml

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/value-sniper/internal/models"
)

// countingClassifier records how many vectors reach the inner classifier
type countingClassifier struct {
	calls   int
	vectors int
}

func (c *countingClassifier) Predict(ctx context.Context, vectors []models.FeatureVector) ([]models.Probabilities, error) {
	c.calls++
	c.vectors += len(vectors)
	out := make([]models.Probabilities, len(vectors))
	for i := range vectors {
		out[i] = models.Probabilities{Home: vectors[i].HomeElo / 3000, Draw: 0.2, Away: 0.3}
	}
	return out, nil
}

func (c *countingClassifier) GetSchema(ctx context.Context) ([]string, error) {
	return models.FeatureSchema, nil
}

func vec(homeElo float64) models.FeatureVector {
	return models.FeatureVector{HomeElo: homeElo, AwayElo: 1500}
}

func TestCachedClassifierHits(t *testing.T) {
	inner := &countingClassifier{}
	cached := NewCachedClassifier(inner, time.Minute, 100)
	ctx := context.Background()

	first, err := cached.Predict(ctx, []models.FeatureVector{vec(1500), vec(1600)})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, 1, inner.calls)

	// Same vectors again: everything served from cache
	second, err := cached.Predict(ctx, []models.FeatureVector{vec(1500), vec(1600)})
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)
}

func TestCachedClassifierPartialMiss(t *testing.T) {
	inner := &countingClassifier{}
	cached := NewCachedClassifier(inner, time.Minute, 100)
	ctx := context.Background()

	_, err := cached.Predict(ctx, []models.FeatureVector{vec(1500)})
	require.NoError(t, err)

	// One cached, one new: only the new vector goes to the inner classifier
	results, err := cached.Predict(ctx, []models.FeatureVector{vec(1500), vec(1700)})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, 2, inner.calls)
	assert.Equal(t, 2, inner.vectors)

	// Order must follow the input, not the cache layout
	assert.InDelta(t, 0.5, results[0].Home, 1e-9)
	assert.InDelta(t, 1700.0/3000, results[1].Home, 1e-9)
}

func TestCachedClassifierFlush(t *testing.T) {
	inner := &countingClassifier{}
	cached := NewCachedClassifier(inner, time.Minute, 100)
	ctx := context.Background()

	_, err := cached.Predict(ctx, []models.FeatureVector{vec(1500)})
	require.NoError(t, err)

	cached.Flush()

	_, err = cached.Predict(ctx, []models.FeatureVector{vec(1500)})
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls, "flush must force a fresh prediction")
}

func TestCachedClassifierSchemaPassthrough(t *testing.T) {
	cached := NewCachedClassifier(&countingClassifier{}, time.Minute, 100)
	schema, err := cached.GetSchema(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.FeatureSchema, schema)
}
