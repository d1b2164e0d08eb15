// Package embcache decorates an embedder with a key-value cache so repeated
// text is only vectorized once.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/lendkit-cloud/creditdesk/internal/db"
	"github.com/lendkit-cloud/creditdesk/internal/domain"
	"github.com/lendkit-cloud/creditdesk/internal/logger"
	"github.com/lendkit-cloud/creditdesk/internal/metrics"
)

const keyPrefix = domain.KeyPrefix + "emb_cache:"

// Embedder wraps an upstream embedder with a cache. Cache failures degrade
// to the upstream call, never to a request failure.
type Embedder struct {
	upstream domain.Embedder
	kv       db.KVStore
}

// New creates a caching embedder around upstream.
func New(upstream domain.Embedder, kv db.KVStore) *Embedder {
	return &Embedder{upstream: upstream, kv: kv}
}

// Embed returns the cached vector for text if present, otherwise calls the
// upstream embedder and stores the result.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := cacheKey(text)
	log := logger.FromContext(ctx)

	if data, err := e.kv.Get(ctx, key); err == nil {
		var vec []float32
		if err := json.Unmarshal(data, &vec); err == nil {
			metrics.EmbeddingCacheTotal.WithLabelValues("hit").Inc()
			return domain.EmbeddingResult{Embedding: vec}, nil
		}
		log.Warn("embedding cache entry is corrupt, re-embedding", zap.String("key", key))
	} else if !errors.Is(err, db.ErrKeyNotFound) {
		log.Warn("embedding cache read failed", zap.String("key", key), zap.Error(err))
	}
	metrics.EmbeddingCacheTotal.WithLabelValues("miss").Inc()

	res, err := e.upstream.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}

	if data, err := json.Marshal(res.Embedding); err == nil {
		if err := e.kv.Set(ctx, key, data); err != nil {
			log.Warn("embedding cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return res, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return keyPrefix + hex.EncodeToString(sum[:])
}
