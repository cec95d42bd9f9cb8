package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/arifislam007/eco-public-wifi/internal/config"
	"github.com/arifislam007/eco-public-wifi/internal/credential"
	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
)

// otpStore はcredential.OTPStoreインターフェースの実装。
// チャレンジは番号ごとのリストにJSONで保持し、先頭が最新となる。
type otpStore struct {
	vc *ValkeyClient
}

// NewOTPStore は新しいOTPStoreを生成する。
func NewOTPStore(vc *ValkeyClient) credential.OTPStore {
	return &otpStore{vc: vc}
}

// Push はチャレンジをリスト先頭へ追記する。
func (s *otpStore) Push(ctx context.Context, challenge *credential.OTPChallenge) error {
	key := KeyPrefixOTP + challenge.Mobile
	payload, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("otp marshal: %w", err)
	}
	pipe := s.vc.Client().Pipeline()
	pipe.LPush(ctx, key, payload)
	pipe.LTrim(ctx, key, 0, 9)
	pipe.Expire(ctx, key, config.OTPTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}

// Newest は最新のチャレンジを返す。
func (s *otpStore) Newest(ctx context.Context, mobile string) (*credential.OTPChallenge, error) {
	key := KeyPrefixOTP + mobile
	raw, err := s.vc.Client().LIndex(ctx, key, 0).Result()
	if err == redis.Nil {
		return nil, apperr.ErrOTPInvalid
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	var c credential.OTPChallenge
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, fmt.Errorf("otp unmarshal: %w", err)
	}
	return &c, nil
}

// MarkVerified は最新チャレンジを楽観ロック付きで検証済みへ更新する。
// 同一コードの同時検証はWATCHの競合検出で片方だけが成功する。
func (s *otpStore) MarkVerified(ctx context.Context, mobile string) error {
	key := KeyPrefixOTP + mobile
	err := s.vc.Client().Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.LIndex(ctx, key, 0).Result()
		if err == redis.Nil {
			return apperr.ErrOTPInvalid
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
		}
		var c credential.OTPChallenge
		if err := json.Unmarshal([]byte(raw), &c); err != nil {
			return fmt.Errorf("otp unmarshal: %w", err)
		}
		if c.Verified {
			return apperr.ErrOTPInvalid
		}
		c.Verified = true
		payload, err := json.Marshal(&c)
		if err != nil {
			return fmt.Errorf("otp marshal: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.LSet(ctx, key, 0, payload)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return apperr.ErrOTPInvalid
	}
	return err
}

// mobileStore はcredential.MobileStoreインターフェースの実装。
type mobileStore struct {
	vc *ValkeyClient
}

// NewMobileStore は新しいMobileStoreを生成する。
func NewMobileStore(vc *ValkeyClient) credential.MobileStore {
	return &mobileStore{vc: vc}
}

// Lookup は番号に紐づくユーザー名を返す。未登録時は空文字。
func (s *mobileStore) Lookup(ctx context.Context, mobile string) (string, error) {
	username, err := s.vc.Client().Get(ctx, KeyPrefixMobile+mobile).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return username, nil
}

// Link は番号とユーザー名を対応づける。
func (s *mobileStore) Link(ctx context.Context, mobile, username string) error {
	if err := s.vc.Client().Set(ctx, KeyPrefixMobile+mobile, username, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}
