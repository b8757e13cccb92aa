// Package fanout queries every registered platform adapter concurrently
// for one search, isolating per-adapter failures from the overall result.
package fanout

import (
	"context"
	"fmt"
	"time"

	"github.com/ticketscope/ticketscope/pkg/listing"
	"github.com/ticketscope/ticketscope/pkg/platforms"
)

// DefaultTimeout bounds the whole fan-out. It matches the slowest
// acceptable single adapter, not the sum of all of them.
const DefaultTimeout = 30 * time.Second

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// AdapterError records one adapter's failure. These are a side channel for
// observability: they never fail the overall fan-out.
type AdapterError struct {
	Adapter string
	Err     error
}

func (e AdapterError) Error() string {
	return fmt.Sprintf("%s: %v", e.Adapter, e.Err)
}

func (e AdapterError) Unwrap() error { return e.Err }

// Executor fans one query out to a fixed, ordered adapter registry.
type Executor struct {
	adapters []platforms.Adapter
	timeout  time.Duration
	log      Logger
}

func New(adapters []platforms.Adapter, timeout time.Duration, log Logger) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if log == nil {
		log = nopLogger{}
	}
	return &Executor{adapters: adapters, timeout: timeout, log: log}
}

// Adapters returns the registered adapter names in registration order.
func (e *Executor) Adapters() []string {
	names := make([]string, len(e.adapters))
	for i, a := range e.adapters {
		names[i] = a.Name()
	}
	return names
}

type result struct {
	idx  int
	raws []listing.Raw
	err  error
}

// Fetch invokes every adapter in parallel and waits until all finish or the
// overall deadline passes, whichever is first. Adapters still running at the
// deadline are abandoned: their eventual results are discarded, not awaited.
//
// The returned listings are the concatenation of successful adapters'
// output in registration order. Failures come back as AdapterErrors; even
// when every adapter fails the error slice is the only signal and the
// listing slice is simply empty.
func (e *Executor) Fetch(ctx context.Context, q platforms.Query) ([]listing.Raw, []AdapterError) {
	if len(e.adapters) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	// Buffered so abandoned adapters can still send and terminate.
	results := make(chan result, len(e.adapters))
	for i, a := range e.adapters {
		go func(idx int, a platforms.Adapter) {
			raws, err := a.Fetch(ctx, q)
			results <- result{idx: idx, raws: raws, err: err}
		}(i, a)
	}

	collected := make([]result, len(e.adapters))
	done := make([]bool, len(e.adapters))
	pending := len(e.adapters)

collect:
	for pending > 0 {
		select {
		case r := <-results:
			collected[r.idx] = r
			done[r.idx] = true
			pending--
		case <-ctx.Done():
			break collect
		}
	}

	var all []listing.Raw
	var errs []AdapterError
	for i, a := range e.adapters {
		if !done[i] {
			e.log.Warnf("Adapter %s did not finish before the deadline", a.Name())
			errs = append(errs, AdapterError{Adapter: a.Name(), Err: context.DeadlineExceeded})
			continue
		}
		if collected[i].err != nil {
			e.log.Warnf("Adapter %s failed: %v", a.Name(), collected[i].err)
			errs = append(errs, AdapterError{Adapter: a.Name(), Err: collected[i].err})
			continue
		}
		e.log.Debugf("Adapter %s returned %d raw listings", a.Name(), len(collected[i].raws))
		all = append(all, collected[i].raws...)
	}
	return all, errs
}
