package store

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/arifislam007/eco-public-wifi/internal/session"
	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
)

func testSession(id, username string) *session.Session {
	return &session.Session{
		Username:     username,
		SessionID:    id,
		IPAddress:    "192.0.2.10",
		MACAddress:   "AA:BB:CC:DD:EE:FF",
		StartTime:    1750000000,
		LastActivity: 1750000000,
	}
}

func TestSessionSaveAndGet(t *testing.T) {
	_, vc := newTestClient(t)
	ss := NewSessionStore(vc)
	ctx := context.Background()

	if err := ss.Save(ctx, testSession("sess-1", "user01")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := ss.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Username != "user01" || got.IPAddress != "192.0.2.10" {
		t.Errorf("session = %+v", got)
	}
}

func TestSessionGetNotFound(t *testing.T) {
	_, vc := newTestClient(t)
	ss := NewSessionStore(vc)

	_, err := ss.Get(context.Background(), "nope")
	if !errors.Is(err, apperr.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionAddTraffic(t *testing.T) {
	_, vc := newTestClient(t)
	ss := NewSessionStore(vc)
	ctx := context.Background()

	if err := ss.Save(ctx, testSession("sess-1", "user01")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := ss.AddTraffic(ctx, "sess-1", 1000, 500, 1750000060); err != nil {
		t.Fatalf("AddTraffic failed: %v", err)
	}
	if err := ss.AddTraffic(ctx, "sess-1", 2000, 1000, 1750000120); err != nil {
		t.Fatalf("AddTraffic failed: %v", err)
	}

	got, err := ss.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.BytesIn != 3000 || got.BytesOut != 1500 {
		t.Errorf("traffic = in:%d out:%d", got.BytesIn, got.BytesOut)
	}
	if got.LastActivity != 1750000120 {
		t.Errorf("last_activity = %d", got.LastActivity)
	}
}

func TestSessionAddTrafficConcurrentNoLostUpdate(t *testing.T) {
	_, vc := newTestClient(t)
	ss := NewSessionStore(vc)
	ctx := context.Background()

	if err := ss.Save(ctx, testSession("sess-1", "user01")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// カウンター更新はHIncrBy一発なので並行しても加算が失われない。
	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- ss.AddTraffic(ctx, "sess-1", 1000, 2000, 1750000060)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("AddTraffic failed: %v", err)
		}
	}

	got, err := ss.Get(ctx, "sess-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.BytesIn != 2000 || got.BytesOut != 4000 {
		t.Errorf("traffic = in:%d out:%d, want in:2000 out:4000", got.BytesIn, got.BytesOut)
	}
	if got.LastActivity != 1750000060 {
		t.Errorf("last_activity = %d", got.LastActivity)
	}
}

func TestSessionAddTrafficNotFound(t *testing.T) {
	_, vc := newTestClient(t)
	ss := NewSessionStore(vc)

	err := ss.AddTraffic(context.Background(), "nope", 100, 100, 1750000000)
	if !errors.Is(err, apperr.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
}

func TestSessionListByUserPrunesStaleIndex(t *testing.T) {
	mr, vc := newTestClient(t)
	ss := NewSessionStore(vc)
	ctx := context.Background()

	if err := ss.Save(ctx, testSession("sess-1", "user01")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := ss.Save(ctx, testSession("sess-2", "user01")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	// 本体だけ消えたセッションはインデックスから除去される。
	mr.Del("sess:sess-2")

	sessions, err := ss.ListByUser(ctx, "user01")
	if err != nil {
		t.Fatalf("ListByUser failed: %v", err)
	}
	if len(sessions) != 1 || sessions[0].SessionID != "sess-1" {
		t.Errorf("sessions = %+v", sessions)
	}
	if ok, _ := mr.SIsMember("idx:user:user01", "sess-2"); ok {
		t.Error("stale index member not pruned")
	}
}

func TestSessionDelete(t *testing.T) {
	mr, vc := newTestClient(t)
	ss := NewSessionStore(vc)
	ctx := context.Background()

	sess := testSession("sess-1", "user01")
	if err := ss.Save(ctx, sess); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := ss.Delete(ctx, sess); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	if _, err := ss.Get(ctx, "sess-1"); !errors.Is(err, apperr.ErrSessionNotFound) {
		t.Errorf("err = %v, want ErrSessionNotFound", err)
	}
	if ok, _ := mr.SIsMember("idx:user:user01", "sess-1"); ok {
		t.Error("index member not removed")
	}
}

func TestSessionScanAll(t *testing.T) {
	_, vc := newTestClient(t)
	ss := NewSessionStore(vc)
	ctx := context.Background()

	if err := ss.Save(ctx, testSession("sess-1", "user01")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := ss.Save(ctx, testSession("sess-2", "user02")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sessions, err := ss.ScanAll(ctx)
	if err != nil {
		t.Fatalf("ScanAll failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("sessions = %d, want 2", len(sessions))
	}
}
