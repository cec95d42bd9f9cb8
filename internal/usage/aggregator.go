package usage

import (
	"context"
	"log/slog"
	"time"
)

// Aggregator は利用者ごとの転送量を日次・月次バケットに集計する。
// 期間キーは書き込みごとに現在時刻から計算するため、日付・月の
// 切り替わりに伴う明示的なロールオーバー処理は不要となる。
type Aggregator struct {
	store UsageStore
	log   *slog.Logger
	now   func() time.Time
}

// NewAggregator はAggregatorを生成する。
func NewAggregator(store UsageStore, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		store: store,
		log:   logger,
		now:   time.Now,
	}
}

// Record は転送量デルタを現在の日次・月次バケットへ加算する。
func (a *Aggregator) Record(ctx context.Context, username string, bytesIn, bytesOut int64) error {
	if bytesIn < 0 || bytesOut < 0 {
		a.log.Warn("negative usage delta ignored",
			"event_id", "USAGE_NEGATIVE_DELTA",
			"username", username,
			"bytes_in", bytesIn,
			"bytes_out", bytesOut,
		)
		return nil
	}
	if bytesIn == 0 && bytesOut == 0 {
		return nil
	}
	n := a.now()
	return a.store.IncrementUsage(ctx, username, DayKey(n), MonthKey(n), bytesIn, bytesOut)
}

// RecordSessionStart はセッション開始を現在のバケットに計上する。
func (a *Aggregator) RecordSessionStart(ctx context.Context, username string) error {
	n := a.now()
	return a.store.IncrementSessionCount(ctx, username, DayKey(n), MonthKey(n))
}

// DailyUsage は当日の累積カウンターを返す。記録が無い場合はゼロ値。
func (a *Aggregator) DailyUsage(ctx context.Context, username string) (*Counter, error) {
	return a.store.GetDaily(ctx, username, DayKey(a.now()))
}

// MonthlyUsage は当月の累積カウンターを返す。記録が無い場合はゼロ値。
func (a *Aggregator) MonthlyUsage(ctx context.Context, username string) (*Counter, error) {
	return a.store.GetMonthly(ctx, username, MonthKey(a.now()))
}
