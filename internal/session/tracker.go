package session

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/arifislam007/eco-public-wifi/internal/config"
)

// Tracker はアクティブセッションの登録・更新・生存数の集計を行う。
// 明示的なログアウトに依存せず、liveness windowを超えて更新の無い
// セッションを自然消滅とみなす。
type Tracker struct {
	store  SessionStore
	log    *slog.Logger
	window time.Duration
	now    func() time.Time
}

// NewTracker はTrackerを生成する。
func NewTracker(store SessionStore, logger *slog.Logger) *Tracker {
	return &Tracker{
		store:  store,
		log:    logger,
		window: config.SessionLivenessWindow,
		now:    time.Now,
	}
}

// Register は新規セッションを発行して保存する。
// 同一(username, IP, MAC)の生存セッションが既に存在する場合は
// 新規発行せず、そのセッションのLastActivityを更新して返す。
func (t *Tracker) Register(ctx context.Context, username, ipAddr, macAddr string) (*Session, error) {
	now := t.now()

	existing, err := t.store.ListByUser(ctx, username)
	if err != nil {
		return nil, err
	}
	for _, s := range existing {
		if s.IPAddress == ipAddr && s.MACAddress == macAddr && s.Live(now, t.window) {
			if err := t.store.AddTraffic(ctx, s.SessionID, 0, 0, now.Unix()); err != nil {
				return nil, err
			}
			s.LastActivity = now.Unix()
			t.log.Info("existing session refreshed",
				"event_id", "SESSION_REFRESH",
				"username", username,
				"session_id", s.SessionID,
			)
			return s, nil
		}
	}

	sess := &Session{
		Username:     username,
		SessionID:    uuid.NewString(),
		IPAddress:    ipAddr,
		MACAddress:   macAddr,
		StartTime:    now.Unix(),
		LastActivity: now.Unix(),
	}
	if err := t.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	t.log.Info("session registered",
		"event_id", "SESSION_START",
		"username", username,
		"session_id", sess.SessionID,
		"ip_address", ipAddr,
	)
	return sess, nil
}

// Touch は転送量デルタを加算しLastActivityを現在時刻へ進める。
func (t *Tracker) Touch(ctx context.Context, sessionID string, bytesIn, bytesOut int64) error {
	return t.store.AddTraffic(ctx, sessionID, bytesIn, bytesOut, t.now().Unix())
}

// Get はセッションを取得する。
func (t *Tracker) Get(ctx context.Context, sessionID string) (*Session, error) {
	return t.store.Get(ctx, sessionID)
}

// CountLive はユーザーの生存セッション数を返す。
// liveness windowを超えたセッションは数えず、その場で削除する。
func (t *Tracker) CountLive(ctx context.Context, username string) (int, error) {
	sessions, err := t.store.ListByUser(ctx, username)
	if err != nil {
		return 0, err
	}
	now := t.now()
	live := 0
	for _, s := range sessions {
		if s.Live(now, t.window) {
			live++
			continue
		}
		if err := t.store.Delete(ctx, s); err != nil {
			t.log.Warn("failed to delete stale session",
				"event_id", "SESSION_REAP_ERR",
				"session_id", s.SessionID,
				"error", err.Error(),
			)
		}
	}
	return live, nil
}

// Reap は全セッションを走査し、liveness windowを超えたものを削除する。
// 削除件数を返す。
func (t *Tracker) Reap(ctx context.Context) (int, error) {
	sessions, err := t.store.ScanAll(ctx)
	if err != nil {
		return 0, err
	}
	now := t.now()
	reaped := 0
	for _, s := range sessions {
		if s.Live(now, t.window) {
			continue
		}
		if err := t.store.Delete(ctx, s); err != nil {
			t.log.Warn("failed to reap session",
				"event_id", "SESSION_REAP_ERR",
				"session_id", s.SessionID,
				"error", err.Error(),
			)
			continue
		}
		reaped++
	}
	if reaped > 0 {
		t.log.Info("stale sessions reaped",
			"event_id", "SESSION_REAP",
			"count", reaped,
		)
	}
	return reaped, nil
}

// RunReaper は定期的にReapを実行する。ctxのキャンセルで停止する。
func (t *Tracker) RunReaper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := t.Reap(ctx); err != nil {
				t.log.Warn("session reap cycle failed",
					"event_id", "SESSION_REAP_ERR",
					"error", err.Error(),
				)
			}
		}
	}
}
