package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/arifislam007/eco-public-wifi/internal/config"
	"github.com/arifislam007/eco-public-wifi/internal/ratelimit"
)

// attemptStore はratelimit.AttemptStoreインターフェースの実装。
// 失敗試行はIP単位のソート済みセットに時刻スコアで保持し、
// ウィンドウ外のメンバーを刈り取ってから数える。
type attemptStore struct {
	vc *ValkeyClient
}

// NewAttemptStore は新しいAttemptStoreを生成する。
func NewAttemptStore(vc *ValkeyClient) ratelimit.AttemptStore {
	return &attemptStore{vc: vc}
}

// CountRecentFailures はwindow内の失敗試行数を返す。
func (s *attemptStore) CountRecentFailures(ctx context.Context, srcIP string, window time.Duration) (int64, error) {
	key := KeyPrefixAttempt + srcIP
	cutoff := strconv.FormatInt(time.Now().Add(-window).UnixMilli(), 10)

	pipe := s.vc.Client().Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "-inf", "("+cutoff)
	card := pipe.ZCard(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return card.Val(), nil
}

// RecordFailure は失敗試行を記録する。
func (s *attemptStore) RecordFailure(ctx context.Context, srcIP string, at time.Time) error {
	key := KeyPrefixAttempt + srcIP
	pipe := s.vc.Client().Pipeline()
	pipe.ZAdd(ctx, key, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: uuid.NewString(),
	})
	pipe.Expire(ctx, key, config.RateLimitWindow)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}

// ClearFailures は失敗履歴を消去する。
func (s *attemptStore) ClearFailures(ctx context.Context, srcIP string) error {
	if err := s.vc.Client().Del(ctx, KeyPrefixAttempt+srcIP).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}

// AppendAudit は監査レコードを追記する。保持件数は上限で切り詰める。
func (s *attemptStore) AppendAudit(ctx context.Context, entry ratelimit.AuditEntry) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("audit marshal: %w", err)
	}
	pipe := s.vc.Client().Pipeline()
	pipe.LPush(ctx, KeyAuditAttempts, payload)
	pipe.LTrim(ctx, KeyAuditAttempts, 0, config.AuditLogMaxEntries-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}
