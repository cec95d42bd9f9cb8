package credential

import (
	"context"
	"errors"
	"time"

	"github.com/arifislam007/eco-public-wifi/internal/netauth"
	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
)

// LocalStrategy はValkey上のシークレット属性で照合する
// 最終フォールバックの認証バックエンド。ストア障害のみ
// Unavailableとし、ユーザー不在・照合失敗・失効は詳細理由付きの
// Rejectとする。
type LocalStrategy struct {
	store CredentialStore
	now   func() time.Time
}

// NewLocalStrategy はLocalStrategyを生成する。
func NewLocalStrategy(store CredentialStore) *LocalStrategy {
	return &LocalStrategy{store: store, now: time.Now}
}

// ID はバックエンド識別子を返す。
func (s *LocalStrategy) ID() string {
	return "local"
}

// Authenticate は保存済み属性とパスワードを照合する。
func (s *LocalStrategy) Authenticate(ctx context.Context, username, password string) (netauth.Outcome, error) {
	attrs, err := s.store.GetSecretAttributes(ctx, username)
	if err != nil {
		if errors.Is(err, apperr.ErrUserNotFound) {
			return netauth.Reject, apperr.ErrUserNotFound
		}
		return netauth.Unavailable, err
	}
	if err := VerifySecret(attrs, password, s.now()); err != nil {
		return netauth.Reject, err
	}
	return netauth.Accept, nil
}
