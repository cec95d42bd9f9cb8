package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
)

type fakeSessionStore struct {
	sessions map[string]*Session
	byUser   map[string][]string
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{
		sessions: make(map[string]*Session),
		byUser:   make(map[string][]string),
	}
}

func (f *fakeSessionStore) Save(_ context.Context, sess *Session) error {
	cp := *sess
	if _, ok := f.sessions[sess.SessionID]; !ok {
		f.byUser[sess.Username] = append(f.byUser[sess.Username], sess.SessionID)
	}
	f.sessions[sess.SessionID] = &cp
	return nil
}

func (f *fakeSessionStore) Get(_ context.Context, sessionID string) (*Session, error) {
	s, ok := f.sessions[sessionID]
	if !ok {
		return nil, apperr.ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (f *fakeSessionStore) AddTraffic(_ context.Context, sessionID string, bytesIn, bytesOut, lastActivity int64) error {
	s, ok := f.sessions[sessionID]
	if !ok {
		return apperr.ErrSessionNotFound
	}
	s.BytesIn += bytesIn
	s.BytesOut += bytesOut
	s.LastActivity = lastActivity
	return nil
}

func (f *fakeSessionStore) ListByUser(_ context.Context, username string) ([]*Session, error) {
	var out []*Session
	for _, id := range f.byUser[username] {
		if s, ok := f.sessions[id]; ok {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSessionStore) Delete(_ context.Context, sess *Session) error {
	delete(f.sessions, sess.SessionID)
	ids := f.byUser[sess.Username]
	for i, id := range ids {
		if id == sess.SessionID {
			f.byUser[sess.Username] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (f *fakeSessionStore) ScanAll(_ context.Context) ([]*Session, error) {
	var out []*Session
	for _, s := range f.sessions {
		cp := *s
		out = append(out, &cp)
	}
	return out, nil
}

func newTestTracker(store SessionStore, at time.Time) *Tracker {
	tr := NewTracker(store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	tr.now = func() time.Time { return at }
	return tr
}

func TestRegisterCreatesSession(t *testing.T) {
	store := newFakeSessionStore()
	tr := newTestTracker(store, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))

	sess, err := tr.Register(context.Background(), "user01", "192.0.2.10", "AA:BB:CC:DD:EE:FF")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if sess.SessionID == "" {
		t.Error("session ID is empty")
	}
	if sess.Username != "user01" || sess.IPAddress != "192.0.2.10" {
		t.Errorf("session = %+v", sess)
	}
	if sess.StartTime != sess.LastActivity {
		t.Errorf("start=%d last=%d, want equal at creation", sess.StartTime, sess.LastActivity)
	}
}

func TestRegisterIsIdempotentForSameDevice(t *testing.T) {
	store := newFakeSessionStore()
	tr := newTestTracker(store, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	first, err := tr.Register(ctx, "user01", "192.0.2.10", "AA:BB:CC:DD:EE:FF")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	second, err := tr.Register(ctx, "user01", "192.0.2.10", "AA:BB:CC:DD:EE:FF")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if first.SessionID != second.SessionID {
		t.Errorf("same device got new session: %s != %s", first.SessionID, second.SessionID)
	}

	count, err := tr.CountLive(ctx, "user01")
	if err != nil {
		t.Fatalf("CountLive() error = %v", err)
	}
	if count != 1 {
		t.Errorf("live count = %d, want 1", count)
	}
}

func TestRegisterDistinctDevices(t *testing.T) {
	store := newFakeSessionStore()
	tr := newTestTracker(store, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	if _, err := tr.Register(ctx, "user01", "192.0.2.10", "AA:BB:CC:DD:EE:01"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if _, err := tr.Register(ctx, "user01", "192.0.2.11", "AA:BB:CC:DD:EE:02"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	count, err := tr.CountLive(ctx, "user01")
	if err != nil {
		t.Fatalf("CountLive() error = %v", err)
	}
	if count != 2 {
		t.Errorf("live count = %d, want 2", count)
	}
}

func TestTouchAccumulatesTraffic(t *testing.T) {
	store := newFakeSessionStore()
	tr := newTestTracker(store, time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC))
	ctx := context.Background()

	sess, err := tr.Register(ctx, "user01", "192.0.2.10", "AA:BB:CC:DD:EE:FF")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if err := tr.Touch(ctx, sess.SessionID, 1000, 500); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}
	if err := tr.Touch(ctx, sess.SessionID, 2000, 1000); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	got, err := tr.Get(ctx, sess.SessionID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.BytesIn != 3000 || got.BytesOut != 1500 {
		t.Errorf("traffic = in:%d out:%d, want in:3000 out:1500", got.BytesIn, got.BytesOut)
	}
}

func TestTouchUnknownSession(t *testing.T) {
	store := newFakeSessionStore()
	tr := newTestTracker(store, time.Now())

	err := tr.Touch(context.Background(), "no-such-session", 100, 100)
	if !errors.Is(err, apperr.ErrSessionNotFound) {
		t.Errorf("Touch() = %v, want ErrSessionNotFound", err)
	}
}

func TestCountLiveExcludesStaleSessions(t *testing.T) {
	store := newFakeSessionStore()
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	tr := newTestTracker(store, base)
	ctx := context.Background()

	if _, err := tr.Register(ctx, "user01", "192.0.2.10", "AA:BB:CC:DD:EE:01"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	fresh, err := tr.Register(ctx, "user01", "192.0.2.11", "AA:BB:CC:DD:EE:02")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// 6分進めてから片方だけ更新。もう片方はwindow超過で消える。
	tr.now = func() time.Time { return base.Add(6 * time.Minute) }
	if err := tr.Touch(ctx, fresh.SessionID, 100, 100); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	count, err := tr.CountLive(ctx, "user01")
	if err != nil {
		t.Fatalf("CountLive() error = %v", err)
	}
	if count != 1 {
		t.Errorf("live count = %d, want 1", count)
	}

	if _, err := store.Get(ctx, fresh.SessionID); err != nil {
		t.Errorf("fresh session should survive: %v", err)
	}
}

func TestTouchRevivesSessionWithinWindow(t *testing.T) {
	store := newFakeSessionStore()
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	tr := newTestTracker(store, base)
	ctx := context.Background()

	sess, err := tr.Register(ctx, "user01", "192.0.2.10", "AA:BB:CC:DD:EE:FF")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// 4分後の更新でwindowが延長され、当初から6分後でも生存扱い。
	tr.now = func() time.Time { return base.Add(4 * time.Minute) }
	if err := tr.Touch(ctx, sess.SessionID, 100, 100); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	tr.now = func() time.Time { return base.Add(6 * time.Minute) }
	count, err := tr.CountLive(ctx, "user01")
	if err != nil {
		t.Fatalf("CountLive() error = %v", err)
	}
	if count != 1 {
		t.Errorf("live count = %d, want 1", count)
	}
}

func TestReapDeletesStaleOnly(t *testing.T) {
	store := newFakeSessionStore()
	base := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	tr := newTestTracker(store, base)
	ctx := context.Background()

	if _, err := tr.Register(ctx, "user01", "192.0.2.10", "AA:BB:CC:DD:EE:01"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	live, err := tr.Register(ctx, "user02", "192.0.2.11", "AA:BB:CC:DD:EE:02")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tr.now = func() time.Time { return base.Add(6 * time.Minute) }
	if err := tr.Touch(ctx, live.SessionID, 0, 0); err != nil {
		t.Fatalf("Touch() error = %v", err)
	}

	tr.now = func() time.Time { return base.Add(8 * time.Minute) }
	reaped, err := tr.Reap(ctx)
	if err != nil {
		t.Fatalf("Reap() error = %v", err)
	}
	if reaped != 1 {
		t.Errorf("reaped = %d, want 1", reaped)
	}
	if _, ok := store.sessions[live.SessionID]; !ok {
		t.Error("live session was reaped")
	}
	if len(store.sessions) != 1 {
		t.Errorf("sessions remaining = %d, want 1", len(store.sessions))
	}
}
