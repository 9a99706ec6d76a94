package upload

import (
	"context"

	"github.com/AlibekovAA/places-api/internal/common/resilience"
)

// GuardedStore fails fast while the wrapped backend keeps failing.
type GuardedStore struct {
	next    ImageStore
	breaker *resilience.CircuitBreaker
}

func NewGuardedStore(next ImageStore, breaker *resilience.CircuitBreaker) *GuardedStore {
	return &GuardedStore{next: next, breaker: breaker}
}

func (s *GuardedStore) Backend() string { return s.next.Backend() }

func (s *GuardedStore) Save(ctx context.Context, name, contentType string, data []byte) (string, error) {
	var ref string
	err := s.breaker.Call(ctx, func(ctx context.Context) error {
		var err error
		ref, err = s.next.Save(ctx, name, contentType, data)
		return err
	})
	return ref, err
}

func (s *GuardedStore) Delete(ctx context.Context, ref string) error {
	return s.breaker.Call(ctx, func(ctx context.Context) error {
		return s.next.Delete(ctx, ref)
	})
}
