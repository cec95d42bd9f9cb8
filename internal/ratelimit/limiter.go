package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/arifislam007/eco-public-wifi/internal/config"
	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
)

// Limiter は送信元IP単位のスライディングウィンドウ型レートリミッタ。
// ウィンドウ内の失敗試行数が上限に達したIPからの認証を拒否する。
// 成功した試行はカウントせず、成功時に失敗履歴を消去する。
type Limiter struct {
	store       AttemptStore
	log         *slog.Logger
	window      time.Duration
	maxAttempts int64
	now         func() time.Time
}

// NewLimiter はLimiterを生成する。
func NewLimiter(store AttemptStore, logger *slog.Logger) *Limiter {
	return &Limiter{
		store:       store,
		log:         logger,
		window:      config.RateLimitWindow,
		maxAttempts: config.RateLimitMaxAttempts,
		now:         time.Now,
	}
}

// Allow は当該IPからの認証試行を許可するか判定する。
// 上限到達時はapperr.ErrRateLimitedを返す。ストア障害時は
// フェイルオープンとし、警告ログを残して許可する。
func (l *Limiter) Allow(ctx context.Context, srcIP string) error {
	count, err := l.store.CountRecentFailures(ctx, srcIP, l.window)
	if err != nil {
		l.log.Warn("attempt store unavailable, failing open",
			"event_id", "RATELIMIT_FAIL_OPEN",
			"src_ip", srcIP,
			"error", err.Error(),
		)
		return nil
	}
	if count >= l.maxAttempts {
		l.log.Info("source throttled",
			"event_id", "RATELIMIT_BLOCK",
			"src_ip", srcIP,
			"failures", count,
		)
		return apperr.ErrRateLimited
	}
	return nil
}

// RecordFailure は失敗試行を記録し監査レコードを残す。
// 記録の失敗は認証結果に影響させない。
func (l *Limiter) RecordFailure(ctx context.Context, username, srcIP, reason string) {
	at := l.now()
	if err := l.store.RecordFailure(ctx, srcIP, at); err != nil {
		l.log.Warn("failed to record attempt",
			"event_id", "RATELIMIT_RECORD_ERR",
			"src_ip", srcIP,
			"error", err.Error(),
		)
	}
	l.audit(ctx, AuditEntry{
		Username:  username,
		SrcIP:     srcIP,
		Success:   false,
		Reason:    reason,
		Timestamp: at,
	})
}

// RecordSuccess は成功を監査に残し、当該IPの失敗履歴を消去する。
func (l *Limiter) RecordSuccess(ctx context.Context, username, srcIP string) {
	if err := l.store.ClearFailures(ctx, srcIP); err != nil {
		l.log.Warn("failed to clear attempt history",
			"event_id", "RATELIMIT_CLEAR_ERR",
			"src_ip", srcIP,
			"error", err.Error(),
		)
	}
	l.audit(ctx, AuditEntry{
		Username:  username,
		SrcIP:     srcIP,
		Success:   true,
		Timestamp: l.now(),
	})
}

func (l *Limiter) audit(ctx context.Context, entry AuditEntry) {
	if err := l.store.AppendAudit(ctx, entry); err != nil {
		l.log.Warn("failed to append audit entry",
			"event_id", "RATELIMIT_AUDIT_ERR",
			"src_ip", entry.SrcIP,
			"error", err.Error(),
		)
	}
}
