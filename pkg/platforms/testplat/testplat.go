// Package testplat provides a deterministic fake adapter for tests and
// local development. It never touches the network.
package testplat

import (
	"context"
	"time"

	"github.com/ticketscope/ticketscope/pkg/listing"
	"github.com/ticketscope/ticketscope/pkg/platforms"
)

// Adapter returns its configured listings after an optional delay, or the
// configured error. The zero value is a platform named "test" returning
// nothing.
type Adapter struct {
	Platform string
	Listings []listing.Raw
	Err      error
	Delay    time.Duration

	// FetchFunc, when set, overrides everything else.
	FetchFunc func(ctx context.Context, q platforms.Query) ([]listing.Raw, error)

	// Calls counts Fetch invocations. Not safe for concurrent use unless
	// the test serializes access itself.
	Calls int
}

func (a *Adapter) Name() string {
	if a.Platform == "" {
		return "test"
	}
	return a.Platform
}

func (a *Adapter) Fetch(ctx context.Context, q platforms.Query) ([]listing.Raw, error) {
	a.Calls++
	if a.FetchFunc != nil {
		return a.FetchFunc(ctx, q)
	}
	if a.Delay > 0 {
		select {
		case <-time.After(a.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if a.Err != nil {
		return nil, a.Err
	}
	out := make([]listing.Raw, len(a.Listings))
	copy(out, a.Listings)
	for i := range out {
		if out[i].Platform == "" {
			out[i].Platform = a.Name()
		}
	}
	return out, nil
}
