package ml

import (
	"context"
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/value-sniper/internal/metrics"
	"github.com/yourusername/value-sniper/internal/models"
)

// CachedClassifier wraps a Classifier with a TTL cache keyed on the feature
// vector contents. Fixtures are re-evaluated several times a day as odds
// move, but their feature vectors only change after a replay, so repeated
// classifier calls for the same vector are wasted work.
type CachedClassifier struct {
	inner     Classifier
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewCachedClassifier creates a caching wrapper around a classifier
func NewCachedClassifier(inner Classifier, ttl time.Duration, maxSize int) *CachedClassifier {
	return &CachedClassifier{
		inner:   inner,
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Predict serves cached distributions where possible and forwards only the
// uncached vectors to the inner classifier.
func (cc *CachedClassifier) Predict(ctx context.Context, vectors []models.FeatureVector) ([]models.Probabilities, error) {
	results := make([]models.Probabilities, len(vectors))
	var missing []models.FeatureVector
	var missingIdx []int

	cc.mu.Lock()
	for i := range vectors {
		if cached, found := cc.cache.Get(vectorKey(&vectors[i])); found {
			cc.hitCount++
			results[i] = cached.(models.Probabilities)
			continue
		}
		cc.missCount++
		missing = append(missing, vectors[i])
		missingIdx = append(missingIdx, i)
	}
	cc.updateHitRate()
	cc.mu.Unlock()

	if len(missing) == 0 {
		return results, nil
	}

	predicted, err := cc.inner.Predict(ctx, missing)
	if err != nil {
		return nil, err
	}

	cc.mu.Lock()
	if cc.cache.ItemCount() >= cc.maxSize {
		cc.cache.DeleteExpired()
	}
	for i, idx := range missingIdx {
		results[idx] = predicted[i]
		cc.cache.Set(vectorKey(&missing[i]), predicted[i], cc.ttl)
	}
	cc.mu.Unlock()

	return results, nil
}

// GetSchema forwards to the inner classifier; schemas are not cached
// because validation happens once at startup.
func (cc *CachedClassifier) GetSchema(ctx context.Context) ([]string, error) {
	return cc.inner.GetSchema(ctx)
}

// Flush drops all cached distributions. Called after a replay invalidates
// every feature vector.
func (cc *CachedClassifier) Flush() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.cache.Flush()
}

func (cc *CachedClassifier) updateHitRate() {
	total := cc.hitCount + cc.missCount
	if total > 0 {
		metrics.PredictionCacheHitRate.Set(float64(cc.hitCount) / float64(total))
	}
}

func vectorKey(v *models.FeatureVector) string {
	return fmt.Sprintf("%v", v.Values())
}
