package platforms

import (
	"context"
	"time"

	"github.com/ticketscope/ticketscope/pkg/listing"
)

// Query carries one search request as passed to every adapter. Event
// adapters read SearchTerm; flight adapters read Origin/Destination/Date.
type Query struct {
	SearchTerm string

	Origin      string
	Destination string
	Date        time.Time
	Passengers  int
}

// Adapter defines a common interface for platform-specific listing
// retrieval, abstracting away the details of URLs, markup, and transport.
// Implementations must treat recoverable conditions (timeout, empty page,
// markup drift) as an empty result plus an error the caller will log and
// discard, and must honor ctx cancellation on all network calls.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]listing.Raw, error)
}
