package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/arifislam007/eco-public-wifi/internal/credential"
	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
)

// voucherStore はcredential.VoucherStoreインターフェースの実装。
type voucherStore struct {
	vc *ValkeyClient
}

// NewVoucherStore は新しいVoucherStoreを生成する。
func NewVoucherStore(vc *ValkeyClient) credential.VoucherStore {
	return &voucherStore{vc: vc}
}

// Get はバウチャーレコードを取得する。
func (s *voucherStore) Get(ctx context.Context, code string) (*credential.Voucher, error) {
	key := KeyPrefixVoucher + code
	m, err := s.vc.Client().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	if len(m) == 0 {
		return nil, apperr.ErrVoucherNotFound
	}
	var v credential.Voucher
	if err := MapToStruct(m, &v); err != nil {
		return nil, fmt.Errorf("voucher %s: %w", code, err)
	}
	return &v, nil
}

// SetStatus はステータスを更新する。
func (s *voucherStore) SetStatus(ctx context.Context, code, status string) error {
	key := KeyPrefixVoucher + code
	if err := s.vc.Client().HSet(ctx, key, "status", status).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}

// Activate は楽観ロック付きでactiveからusedへ遷移させる。
// 同一コードの同時有効化はWATCHの競合検出で片方だけが成功する。
func (s *voucherStore) Activate(ctx context.Context, code string) error {
	key := KeyPrefixVoucher + code
	err := s.vc.Client().Watch(ctx, func(tx *redis.Tx) error {
		status, err := tx.HGet(ctx, key, "status").Result()
		if err == redis.Nil {
			return apperr.ErrVoucherNotFound
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
		}
		if status != credential.VoucherStatusActive {
			return apperr.ErrVoucherUsed
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, key, "status", credential.VoucherStatusUsed)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return apperr.ErrVoucherUsed
	}
	return err
}
