package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/sahilchouksey/edupath-api/utils/cache"
)

// DefaultRevocationTTL applies when a token's expiry cannot be read
const DefaultRevocationTTL = time.Hour

// RevocationList remembers signed-out access tokens until they expire.
// Tokens are stored as SHA-256 digests.
type RevocationList struct {
	store cache.Store
	now   func() time.Time
}

func NewRevocationList(store cache.Store) *RevocationList {
	return &RevocationList{store: store, now: time.Now}
}

func revocationKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "auth:revoked:" + hex.EncodeToString(sum[:])
}

// Revoke adds a token to the list for the rest of its lifetime
func (r *RevocationList) Revoke(ctx context.Context, token string) error {
	ttl := DefaultRevocationTTL
	if exp, err := ExpiryOf(token); err == nil {
		ttl = exp.Sub(r.now())
	}
	if ttl <= 0 {
		return nil
	}
	return r.store.Set(ctx, revocationKey(token), "revoked", ttl)
}

// IsRevoked checks if a token has been signed out
func (r *RevocationList) IsRevoked(ctx context.Context, token string) (bool, error) {
	return r.store.Exists(ctx, revocationKey(token))
}
