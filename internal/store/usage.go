package store

import (
	"context"
	"fmt"

	"github.com/arifislam007/eco-public-wifi/internal/config"
	"github.com/arifislam007/eco-public-wifi/internal/usage"
)

// usageStore はusage.UsageStoreインターフェースの実装。
// カウンターはHIncrByによる原子的加算のみで更新し、
// 読み出し側でのread-modify-writeは発生しない。
type usageStore struct {
	vc *ValkeyClient
}

// NewUsageStore は新しいUsageStoreを生成する。
func NewUsageStore(vc *ValkeyClient) usage.UsageStore {
	return &usageStore{vc: vc}
}

func dailyKey(username, dayKey string) string {
	return KeyPrefixDailyUsage + username + ":" + dayKey
}

func monthlyKey(username, monthKey string) string {
	return KeyPrefixMonthUsage + username + ":" + monthKey
}

// IncrementUsage は日次・月次バケットにバイト数を加算する。
func (s *usageStore) IncrementUsage(ctx context.Context, username, dayKey, monthKey string, bytesIn, bytesOut int64) error {
	dk := dailyKey(username, dayKey)
	mk := monthlyKey(username, monthKey)
	total := bytesIn + bytesOut

	pipe := s.vc.Client().Pipeline()
	pipe.HIncrBy(ctx, dk, "bytes_in", bytesIn)
	pipe.HIncrBy(ctx, dk, "bytes_out", bytesOut)
	pipe.HIncrBy(ctx, dk, "total_bytes", total)
	pipe.Expire(ctx, dk, config.DailyUsageTTL)
	pipe.HIncrBy(ctx, mk, "bytes_in", bytesIn)
	pipe.HIncrBy(ctx, mk, "bytes_out", bytesOut)
	pipe.HIncrBy(ctx, mk, "total_bytes", total)
	pipe.Expire(ctx, mk, config.MonthlyUsageTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}

// IncrementSessionCount は日次・月次バケットのセッション数を加算する。
func (s *usageStore) IncrementSessionCount(ctx context.Context, username, dayKey, monthKey string) error {
	dk := dailyKey(username, dayKey)
	mk := monthlyKey(username, monthKey)

	pipe := s.vc.Client().Pipeline()
	pipe.HIncrBy(ctx, dk, "session_count", 1)
	pipe.Expire(ctx, dk, config.DailyUsageTTL)
	pipe.HIncrBy(ctx, mk, "session_count", 1)
	pipe.Expire(ctx, mk, config.MonthlyUsageTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}

// GetDaily は日次カウンターを取得する。未存在時はゼロ値を返す。
func (s *usageStore) GetDaily(ctx context.Context, username, dayKey string) (*usage.Counter, error) {
	return s.getCounter(ctx, dailyKey(username, dayKey))
}

// GetMonthly は月次カウンターを取得する。未存在時はゼロ値を返す。
func (s *usageStore) GetMonthly(ctx context.Context, username, monthKey string) (*usage.Counter, error) {
	return s.getCounter(ctx, monthlyKey(username, monthKey))
}

func (s *usageStore) getCounter(ctx context.Context, key string) (*usage.Counter, error) {
	m, err := s.vc.Client().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	var c usage.Counter
	if len(m) == 0 {
		return &c, nil
	}
	if err := MapToStruct(m, &c); err != nil {
		return nil, fmt.Errorf("usage counter %s: %w", key, err)
	}
	return &c, nil
}
