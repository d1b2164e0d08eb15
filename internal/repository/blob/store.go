// Package blob stores raw upload bytes so originals survive extraction.
package blob

import (
	"context"
	"fmt"
	"time"

	"github.com/lendkit-cloud/creditdesk/internal/db"
	"github.com/lendkit-cloud/creditdesk/internal/domain"
	"github.com/lendkit-cloud/creditdesk/internal/domain/document"
)

const keyPrefix = domain.KeyPrefix + "blob:"

// Store writes raw upload payloads to the key-value store.
type Store struct {
	kv  db.KVStore
	ttl time.Duration // 0 keeps blobs forever
}

// New creates a blob store. ttl of 0 disables expiry.
func New(kv db.KVStore, ttl time.Duration) *Store {
	return &Store{kv: kv, ttl: ttl}
}

// Key builds the storage key for an upload:
// creditdesk:blob:{org}/{session}/{timestampMillis}-{fileName}.
func Key(scope document.Scope, uploadedAt int64, fileName string) string {
	return fmt.Sprintf("%s%s/%s/%d-%s", keyPrefix, scope.OrgID(), scope.SessionID(), uploadedAt, fileName)
}

// Put stores the raw upload bytes and returns the storage key.
func (s *Store) Put(ctx context.Context, scope document.Scope, uploadedAt int64, fileName string, data []byte) (string, error) {
	key := Key(scope, uploadedAt, fileName)

	var err error
	if s.ttl > 0 {
		err = s.kv.SetWithTTL(ctx, key, data, s.ttl)
	} else {
		err = s.kv.Set(ctx, key, data)
	}
	if err != nil {
		return "", fmt.Errorf("store blob %s: %w", key, err)
	}
	return key, nil
}

// Get loads raw upload bytes by storage key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("load blob %s: %w", key, err)
	}
	return data, nil
}
