package nas

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/arifislam007/eco-public-wifi/internal/config"
)

func nasTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewClientDisabledWithoutURL(t *testing.T) {
	cfg := &config.Config{}
	if c := NewClient(cfg, nasTestLogger()); c != nil {
		t.Error("expected nil client when push URL is unset")
	}
}

func TestPushSendsRequest(t *testing.T) {
	var got PushRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/queue" {
			t.Errorf("path = %s, want /queue", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(&config.Config{NasPushURL: srv.URL}, nasTestLogger())
	req := &PushRequest{
		Username:   "user01",
		SessionID:  "sess-1",
		IPAddress:  "192.0.2.10",
		RateLimit:  "2048k/1024k",
		BurstLimit: "4096k/2048k",
	}
	if err := c.Push(context.Background(), req); err != nil {
		t.Fatalf("Push() error = %v", err)
	}
	if got.Username != "user01" || got.RateLimit != "2048k/1024k" {
		t.Errorf("received = %+v", got)
	}
}

func TestPushServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(&config.Config{NasPushURL: srv.URL}, nasTestLogger())
	if err := c.Push(context.Background(), &PushRequest{Username: "user01"}); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestPushBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(&config.Config{NasPushURL: srv.URL}, nasTestLogger())
	ctx := context.Background()
	for i := 0; i < config.CBFailureThreshold+3; i++ {
		if err := c.Push(ctx, &PushRequest{Username: "user01"}); err == nil {
			t.Fatal("expected error")
		}
	}
	if hits > config.CBFailureThreshold {
		t.Errorf("server hits = %d, want breaker to stop at %d", hits, config.CBFailureThreshold)
	}
}
