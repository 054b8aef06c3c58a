// Package crypto hashes and verifies passwords with bcrypt.
package crypto

import (
	"context"
	"errors"
	"sync"

	"github.com/ncobase/classroom/concurrency/worker"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor for stored passwords
const DefaultCost = 12

// dummyPassword is hashed once per Hasher so lookups for unknown accounts
// spend the same time in bcrypt as lookups for real ones.
const dummyPassword = "classroom-dummy-password"

// Runner executes blocking work off the request goroutine.
type Runner interface {
	Do(ctx context.Context, task worker.Task) error
}

// Hasher hashes and compares passwords, running bcrypt on a Runner.
type Hasher struct {
	cost   int
	runner Runner

	dummyOnce sync.Once
	dummyHash []byte
	dummyErr  error
}

// NewHasher creates a Hasher. A nil runner runs bcrypt inline.
func NewHasher(cost int, runner Runner) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost, runner: runner}
}

func (h *Hasher) run(ctx context.Context, task worker.Task) error {
	if h.runner == nil {
		return task(ctx)
	}
	return h.runner.Do(ctx, task)
}

// HashPassword hashes the provided password using bcrypt.
func (h *Hasher) HashPassword(ctx context.Context, password string) (string, error) {
	var hash []byte
	err := h.run(ctx, func(context.Context) error {
		var err error
		hash, err = bcrypt.GenerateFromPassword([]byte(password), h.cost)
		return err
	})
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword reports whether password matches hashedPassword. A
// mismatch is (false, nil); err is set only when the comparison could not
// run. A comparison the runner gave up on reports no match.
func (h *Hasher) ComparePassword(ctx context.Context, hashedPassword, password string) (bool, error) {
	var match bool
	err := h.run(ctx, func(context.Context) error {
		err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
		switch {
		case err == nil:
			match = true
			return nil
		case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
			return nil
		default:
			return err
		}
	})
	if err != nil {
		return false, err
	}
	return match, nil
}

// CompareDummy burns one comparison against a fixed hash. It always reports
// no match.
func (h *Hasher) CompareDummy(ctx context.Context, password string) error {
	h.dummyOnce.Do(func() {
		h.dummyHash, h.dummyErr = bcrypt.GenerateFromPassword([]byte(dummyPassword), h.cost)
	})
	if h.dummyErr != nil {
		return h.dummyErr
	}
	_, err := h.ComparePassword(ctx, string(h.dummyHash), password+"\x00")
	return err
}

// Cost returns the bcrypt work factor in use
func (h *Hasher) Cost() int {
	return h.cost
}
