package store

import (
	"context"
	"fmt"

	"github.com/arifislam007/eco-public-wifi/internal/config"
	"github.com/arifislam007/eco-public-wifi/internal/session"
	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
)

// sessionStore はsession.SessionStoreインターフェースの実装。
type sessionStore struct {
	vc *ValkeyClient
}

// NewSessionStore は新しいSessionStoreを生成する。
func NewSessionStore(vc *ValkeyClient) session.SessionStore {
	return &sessionStore{vc: vc}
}

// Save はセッションを保存し、ユーザー別インデックスへ登録する。
func (s *sessionStore) Save(ctx context.Context, sess *session.Session) error {
	key := KeyPrefixSession + sess.SessionID
	idxKey := KeyPrefixUserIndex + sess.Username

	pipe := s.vc.Client().Pipeline()
	pipe.HSet(ctx, key, StructToMap(sess))
	pipe.Expire(ctx, key, config.SessionTTL)
	pipe.SAdd(ctx, idxKey, sess.SessionID)
	pipe.Expire(ctx, idxKey, config.SessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}

// Get はセッションを取得する。
func (s *sessionStore) Get(ctx context.Context, sessionID string) (*session.Session, error) {
	m, err := s.vc.Client().HGetAll(ctx, KeyPrefixSession+sessionID).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	if len(m) == 0 {
		return nil, apperr.ErrSessionNotFound
	}
	var sess session.Session
	if err := MapToStruct(m, &sess); err != nil {
		return nil, fmt.Errorf("session %s: %w", sessionID, err)
	}
	return &sess, nil
}

// AddTraffic は転送量を加算しLastActivityを更新する。
// バイトカウンターはHIncrByで単調増加させる。
func (s *sessionStore) AddTraffic(ctx context.Context, sessionID string, bytesIn, bytesOut, lastActivity int64) error {
	key := KeyPrefixSession + sessionID
	n, err := s.vc.Client().Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	if n == 0 {
		return apperr.ErrSessionNotFound
	}

	pipe := s.vc.Client().Pipeline()
	if bytesIn > 0 {
		pipe.HIncrBy(ctx, key, "bytes_in", bytesIn)
	}
	if bytesOut > 0 {
		pipe.HIncrBy(ctx, key, "bytes_out", bytesOut)
	}
	pipe.HSet(ctx, key, "last_activity", lastActivity)
	pipe.Expire(ctx, key, config.SessionTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}

// ListByUser はユーザーのインデックスに載る全セッションを返す。
// 本体の消えたインデックスメンバーはその場で取り除く。
func (s *sessionStore) ListByUser(ctx context.Context, username string) ([]*session.Session, error) {
	idxKey := KeyPrefixUserIndex + username
	ids, err := s.vc.Client().SMembers(ctx, idxKey).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}

	sessions := make([]*session.Session, 0, len(ids))
	for _, id := range ids {
		sess, err := s.Get(ctx, id)
		if err == apperr.ErrSessionNotFound {
			if err := s.vc.Client().SRem(ctx, idxKey, id).Err(); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
			}
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	return sessions, nil
}

// Delete はセッションとインデックス登録を削除する。
func (s *sessionStore) Delete(ctx context.Context, sess *session.Session) error {
	pipe := s.vc.Client().Pipeline()
	pipe.Del(ctx, KeyPrefixSession+sess.SessionID)
	pipe.SRem(ctx, KeyPrefixUserIndex+sess.Username, sess.SessionID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}

// ScanAll は全セッションを走査して返す。
func (s *sessionStore) ScanAll(ctx context.Context) ([]*session.Session, error) {
	var sessions []*session.Session
	iter := s.vc.Client().Scan(ctx, 0, KeyPrefixSession+"*", 100).Iterator()
	for iter.Next(ctx) {
		id := iter.Val()[len(KeyPrefixSession):]
		sess, err := s.Get(ctx, id)
		if err == apperr.ErrSessionNotFound {
			continue
		}
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, sess)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return sessions, nil
}
