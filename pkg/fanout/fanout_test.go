package fanout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ticketscope/ticketscope/pkg/listing"
	"github.com/ticketscope/ticketscope/pkg/platforms"
	"github.com/ticketscope/ticketscope/pkg/platforms/testplat"
)

func raws(platform string, titles ...string) []listing.Raw {
	out := make([]listing.Raw, len(titles))
	for i, title := range titles {
		out[i] = listing.Raw{Title: title, Platform: platform}
	}
	return out
}

func TestFetch_IsolatesFailures(t *testing.T) {
	broken := errors.New("status code 503")
	e := New([]platforms.Adapter{
		&testplat.Adapter{Platform: "A", Err: broken},
		&testplat.Adapter{Platform: "B", Listings: raws("B", "один", "два", "три")},
	}, time.Second, nil)

	out, errs := e.Fetch(context.Background(), platforms.Query{SearchTerm: "концерт"})
	if len(out) != 3 {
		t.Fatalf("got %d listings, want 3", len(out))
	}
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if errs[0].Adapter != "A" || !errors.Is(errs[0], broken) {
		t.Fatalf("bad adapter error: %+v", errs[0])
	}
}

func TestFetch_AllFailIsNotFatal(t *testing.T) {
	e := New([]platforms.Adapter{
		&testplat.Adapter{Platform: "A", Err: errors.New("down")},
		&testplat.Adapter{Platform: "B", Err: errors.New("also down")},
	}, time.Second, nil)

	out, errs := e.Fetch(context.Background(), platforms.Query{})
	if len(out) != 0 {
		t.Fatalf("got %d listings, want 0", len(out))
	}
	if len(errs) != 2 {
		t.Fatalf("got %d errors, want 2", len(errs))
	}
}

func TestFetch_RegistrationOrder(t *testing.T) {
	// B is faster than A, but output order follows registration, not
	// completion.
	e := New([]platforms.Adapter{
		&testplat.Adapter{Platform: "A", Listings: raws("A", "а1"), Delay: 30 * time.Millisecond},
		&testplat.Adapter{Platform: "B", Listings: raws("B", "б1", "б2")},
	}, time.Second, nil)

	out, errs := e.Fetch(context.Background(), platforms.Query{})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := []string{"а1", "б1", "б2"}
	if len(out) != len(want) {
		t.Fatalf("got %d listings, want %d", len(out), len(want))
	}
	for i, title := range want {
		if out[i].Title != title {
			t.Fatalf("out[%d] = %q, want %q", i, out[i].Title, title)
		}
	}
}

func TestFetch_AbandonsStragglers(t *testing.T) {
	slow := &testplat.Adapter{
		Platform: "slow",
		FetchFunc: func(ctx context.Context, q platforms.Query) ([]listing.Raw, error) {
			// Ignores the context on purpose.
			time.Sleep(300 * time.Millisecond)
			return raws("slow", "поздно"), nil
		},
	}
	e := New([]platforms.Adapter{
		slow,
		&testplat.Adapter{Platform: "fast", Listings: raws("fast", "вовремя")},
	}, 50*time.Millisecond, nil)

	start := time.Now()
	out, errs := e.Fetch(context.Background(), platforms.Query{})
	if elapsed := time.Since(start); elapsed > 250*time.Millisecond {
		t.Fatalf("fetch waited on the straggler: %v", elapsed)
	}

	if len(out) != 1 || out[0].Title != "вовремя" {
		t.Fatalf("got %+v, want only the fast adapter's listing", out)
	}
	if len(errs) != 1 || errs[0].Adapter != "slow" || !errors.Is(errs[0], context.DeadlineExceeded) {
		t.Fatalf("straggler should surface as a deadline error, got %v", errs)
	}
}

func TestFetch_EmptyRegistry(t *testing.T) {
	e := New(nil, time.Second, nil)
	out, errs := e.Fetch(context.Background(), platforms.Query{})
	if out != nil || errs != nil {
		t.Fatalf("got (%v, %v), want nothing", out, errs)
	}
}

func TestAdapters_Names(t *testing.T) {
	e := New([]platforms.Adapter{
		&testplat.Adapter{Platform: "kassir"},
		&testplat.Adapter{Platform: "parter"},
	}, time.Second, nil)
	names := e.Adapters()
	if len(names) != 2 || names[0] != "kassir" || names[1] != "parter" {
		t.Fatalf("got %v", names)
	}
}
