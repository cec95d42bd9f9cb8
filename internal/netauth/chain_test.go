package netauth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type fakeStrategy struct {
	id      string
	outcome Outcome
	err     error
	called  bool
}

func (f *fakeStrategy) ID() string { return f.id }

func (f *fakeStrategy) Authenticate(_ context.Context, _, _ string) (Outcome, error) {
	f.called = true
	return f.outcome, f.err
}

func testChainLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestChainPrimaryAcceptStops(t *testing.T) {
	primary := &fakeStrategy{id: "primary", outcome: Accept}
	secondary := &fakeStrategy{id: "secondary", outcome: Accept}
	chain := NewChain(testChainLogger(), primary, secondary)

	res := chain.Authenticate(context.Background(), "user01", "secret")
	if res.Outcome != Accept || res.Backend != "primary" {
		t.Errorf("result = %+v, want Accept from primary", res)
	}
	if secondary.called {
		t.Error("secondary was called after primary accepted")
	}
}

func TestChainRejectIsDefinitive(t *testing.T) {
	primary := &fakeStrategy{id: "primary", outcome: Reject}
	secondary := &fakeStrategy{id: "secondary", outcome: Accept}
	chain := NewChain(testChainLogger(), primary, secondary)

	res := chain.Authenticate(context.Background(), "user01", "secret")
	if res.Outcome != Reject || res.Backend != "primary" {
		t.Errorf("result = %+v, want Reject from primary", res)
	}
	if secondary.called {
		t.Error("reject must not fall back to the next backend")
	}
}

func TestChainUnavailableFallsThrough(t *testing.T) {
	primary := &fakeStrategy{id: "primary", outcome: Unavailable, err: errors.New("timeout")}
	secondary := &fakeStrategy{id: "secondary", outcome: Unavailable, err: errors.New("no binary")}
	local := &fakeStrategy{id: "local", outcome: Accept}
	chain := NewChain(testChainLogger(), primary, secondary, local)

	res := chain.Authenticate(context.Background(), "user01", "secret")
	if res.Outcome != Accept || res.Backend != "local" {
		t.Errorf("result = %+v, want Accept from local", res)
	}
	if !primary.called || !secondary.called {
		t.Error("unavailable backends must each be tried")
	}
}

func TestChainAllUnavailable(t *testing.T) {
	lastErr := errors.New("local store down")
	primary := &fakeStrategy{id: "primary", outcome: Unavailable, err: errors.New("timeout")}
	local := &fakeStrategy{id: "local", outcome: Unavailable, err: lastErr}
	chain := NewChain(testChainLogger(), primary, local)

	res := chain.Authenticate(context.Background(), "user01", "secret")
	if res.Outcome != Unavailable {
		t.Errorf("outcome = %v, want Unavailable", res.Outcome)
	}
	if res.Backend != "" {
		t.Errorf("backend = %q, want empty", res.Backend)
	}
	if !errors.Is(res.Err, lastErr) {
		t.Errorf("err = %v, want last cause", res.Err)
	}
}

func TestChainEmpty(t *testing.T) {
	chain := NewChain(testChainLogger())
	res := chain.Authenticate(context.Background(), "user01", "secret")
	if res.Outcome != Unavailable {
		t.Errorf("outcome = %v, want Unavailable for empty chain", res.Outcome)
	}
}
