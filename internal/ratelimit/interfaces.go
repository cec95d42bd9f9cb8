package ratelimit

import (
	"context"
	"time"
)

// AttemptStore は送信元IPごとの失敗試行の記録と集計を定義する。
type AttemptStore interface {
	// CountRecentFailures はwindow内の失敗試行数を返す。期限切れの
	// 記録はカウント前に刈り取られる。
	CountRecentFailures(ctx context.Context, srcIP string, window time.Duration) (int64, error)
	// RecordFailure は失敗試行を現在時刻で記録する。
	RecordFailure(ctx context.Context, srcIP string, at time.Time) error
	// ClearFailures は認証成功時に失敗履歴を消去する。
	ClearFailures(ctx context.Context, srcIP string) error
	// AppendAudit は試行の監査レコードを追記する。保持件数は
	// ストア側で上限管理される。
	AppendAudit(ctx context.Context, entry AuditEntry) error
}

// AuditEntry は認証試行1件の監査レコード。
type AuditEntry struct {
	Username  string    `json:"username"`
	SrcIP     string    `json:"src_ip"`
	Success   bool      `json:"success"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
