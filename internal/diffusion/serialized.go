package diffusion

import (
	"context"
	"fmt"
	"image"

	"golang.org/x/sync/semaphore"
)

// Serialized bounds the number of in-flight Generate calls on a shared
// pipeline. Waiting callers give up when their context is done.
type Serialized struct {
	inner Pipeline
	sem   *semaphore.Weighted
}

// NewSerialized wraps p so that at most n calls run at once.
func NewSerialized(p Pipeline, n int64) *Serialized {
	if n < 1 {
		n = 1
	}
	return &Serialized{inner: p, sem: semaphore.NewWeighted(n)}
}

// Generate waits for a free slot and delegates to the wrapped pipeline.
func (s *Serialized) Generate(ctx context.Context, params Params) (image.Image, error) {
	if err := s.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("wait for diffusion slot: %w", err)
	}
	defer s.sem.Release(1)
	return s.inner.Generate(ctx, params)
}

var _ Pipeline = (*Serialized)(nil)
