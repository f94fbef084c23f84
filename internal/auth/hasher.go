package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used for stored credentials.
const DefaultCost = 12

// Hasher produces and checks one-way password digests.
type Hasher interface {
	Hash(secret string) (string, error)
	Verify(secret, digest string) bool
}

// BcryptHasher implements Hasher with bcrypt.
type BcryptHasher struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

var _ Hasher = (*BcryptHasher)(nil)

// NewBcryptHasher creates a hasher with the given cost. Out of range costs
// fall back to DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns a salted bcrypt digest of secret.
func (h *BcryptHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether secret matches digest.
func (h *BcryptHasher) Verify(secret, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}

// Burn spends the same work as a Verify against an existing account. It is
// used for unknown usernames.
func (h *BcryptHasher) Burn(secret string) {
	h.dummyOnce.Do(func() {
		h.dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), h.cost)
	})
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(secret))
}
