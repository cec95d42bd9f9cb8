package usage

import "context"

// UsageStore は使用量カウンターへのアクセスを定義する。
// インクリメントはストア側の原子的upsertで行い、アプリケーション
// 側でのread-modify-writeは行わない。
type UsageStore interface {
	// IncrementUsage は日次・月次バケットにバイト数を加算する。
	// バケットが存在しない場合はゼロから暗黙に生成される。
	IncrementUsage(ctx context.Context, username, dayKey, monthKey string, bytesIn, bytesOut int64) error
	// IncrementSessionCount は日次・月次バケットのセッション数を加算する。
	IncrementSessionCount(ctx context.Context, username, dayKey, monthKey string) error
	// GetDaily は日次カウンターを取得する。未存在時はゼロ値を返す。
	GetDaily(ctx context.Context, username, dayKey string) (*Counter, error)
	// GetMonthly は月次カウンターを取得する。未存在時はゼロ値を返す。
	GetMonthly(ctx context.Context, username, monthKey string) (*Counter, error)
}
