package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used outside of tests.
const DefaultCost = 12

// Hasher hashes and verifies passwords with bcrypt. Work runs on its own goroutine
// so a caller whose context ends stops waiting for it.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher with the given cost. Costs outside bcrypt's range fall back to DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

type hashResult struct {
	hash []byte
	err  error
}

// Hash returns a salted bcrypt hash of plaintext. Each call uses a fresh salt.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	done := make(chan hashResult, 1)
	go func() {
		b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
		done <- hashResult{hash: b, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-done:
		if res.err != nil {
			return "", fmt.Errorf("hash password: %w", res.err)
		}
		return string(res.hash), nil
	}
}

// Verify reports whether plaintext matches hash. A mismatch is (false, nil);
// an unreadable stored hash is an error.
func (h *Hasher) Verify(ctx context.Context, plaintext, hash string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	done := make(chan error, 1)
	go func() {
		done <- bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	}()

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case err := <-done:
		switch {
		case err == nil:
			return true, nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return false, nil
		default:
			return false, fmt.Errorf("compare password hash: %w", err)
		}
	}
}
