package netauth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func newTestRadclient(run func(ctx context.Context, stdin string, args ...string) (string, error)) *RadclientStrategy {
	s := &RadclientStrategy{
		binPath: "radclient",
		addr:    "127.0.0.1:1812",
		secret:  "testing123",
		timeout: 1 * time.Second,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	s.run = run
	return s
}

func TestRadclientAccept(t *testing.T) {
	s := newTestRadclient(func(_ context.Context, _ string, _ ...string) (string, error) {
		return "Received Access-Accept Id 42 from 127.0.0.1:1812\n", nil
	})
	outcome, err := s.Authenticate(context.Background(), "user01", "secret")
	if outcome != Accept || err != nil {
		t.Errorf("outcome = %v, err = %v, want Accept", outcome, err)
	}
}

func TestRadclientRejectWithExitError(t *testing.T) {
	// Access-Reject受信時、radclientは非ゼロで終了する。
	s := newTestRadclient(func(_ context.Context, _ string, _ ...string) (string, error) {
		return "Received Access-Reject Id 42 from 127.0.0.1:1812\n", errors.New("exit status 1")
	})
	outcome, err := s.Authenticate(context.Background(), "user01", "secret")
	if outcome != Reject || err != nil {
		t.Errorf("outcome = %v, err = %v, want Reject", outcome, err)
	}
}

func TestRadclientMissingBinary(t *testing.T) {
	s := newTestRadclient(func(_ context.Context, _ string, _ ...string) (string, error) {
		return "", errors.New(`exec: "radclient": executable file not found in $PATH`)
	})
	outcome, err := s.Authenticate(context.Background(), "user01", "secret")
	if outcome != Unavailable {
		t.Errorf("outcome = %v, want Unavailable", outcome)
	}
	if err == nil {
		t.Error("expected error for missing binary")
	}
}

func TestRadclientNoReplyCode(t *testing.T) {
	s := newTestRadclient(func(_ context.Context, _ string, _ ...string) (string, error) {
		return "Sending Access-Request Id 42 to 127.0.0.1:1812\n", nil
	})
	outcome, err := s.Authenticate(context.Background(), "user01", "secret")
	if outcome != Unavailable {
		t.Errorf("outcome = %v, want Unavailable", outcome)
	}
	if err == nil {
		t.Error("expected error when no reply code present")
	}
}

func TestRadclientRequestFormat(t *testing.T) {
	var gotStdin string
	s := newTestRadclient(func(_ context.Context, stdin string, _ ...string) (string, error) {
		gotStdin = stdin
		return "Received Access-Accept Id 1 from 127.0.0.1:1812\n", nil
	})
	if _, err := s.Authenticate(context.Background(), "user01", "p4ss"); err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	want := "User-Name = \"user01\"\nUser-Password = \"p4ss\"\n"
	if gotStdin != want {
		t.Errorf("stdin = %q, want %q", gotStdin, want)
	}
}
