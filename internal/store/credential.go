package store

import (
	"context"
	"fmt"

	"github.com/arifislam007/eco-public-wifi/internal/credential"
	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
)

// credentialStore はcredential.CredentialStoreインターフェースの実装。
type credentialStore struct {
	vc *ValkeyClient
}

// NewCredentialStore は新しいCredentialStoreを生成する。
func NewCredentialStore(vc *ValkeyClient) credential.CredentialStore {
	return &credentialStore{vc: vc}
}

// GetSecretAttributes はユーザーのシークレット属性を取得する。
func (s *credentialStore) GetSecretAttributes(ctx context.Context, username string) (*credential.SecretAttributes, error) {
	key := KeyPrefixCredential + username
	m, err := s.vc.Client().HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	if len(m) == 0 {
		return nil, apperr.ErrUserNotFound
	}
	var attrs credential.SecretAttributes
	if err := MapToStruct(m, &attrs); err != nil {
		return nil, fmt.Errorf("credential %s: %w", username, err)
	}
	return &attrs, nil
}

// PutSecretAttributes はシークレット属性を保存する。
func (s *credentialStore) PutSecretAttributes(ctx context.Context, username string, attrs *credential.SecretAttributes) error {
	key := KeyPrefixCredential + username
	if err := s.vc.Client().HSet(ctx, key, StructToMap(attrs)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}

// Exists はユーザーの存在有無を返す。
func (s *credentialStore) Exists(ctx context.Context, username string) (bool, error) {
	n, err := s.vc.Client().Exists(ctx, KeyPrefixCredential+username).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return n > 0, nil
}
