package session

import "context"

// SessionStore はアクティブセッションの永続化を定義する。
type SessionStore interface {
	// Save はセッションを保存し、ユーザー別インデックスへ登録する。
	// 同一セッションIDの保存は上書きとなる。
	Save(ctx context.Context, sess *Session) error
	// Get はセッションを取得する。未存在時はapperr.ErrSessionNotFound。
	Get(ctx context.Context, sessionID string) (*Session, error)
	// AddTraffic は転送量を加算しLastActivityを更新する。
	// 未存在時はapperr.ErrSessionNotFound。
	AddTraffic(ctx context.Context, sessionID string, bytesIn, bytesOut, lastActivity int64) error
	// ListByUser はユーザーのインデックスに載る全セッションを返す。
	// インデックスに残る消滅済みIDはこの際に除去される。
	ListByUser(ctx context.Context, username string) ([]*Session, error)
	// Delete はセッションとインデックス登録を削除する。
	Delete(ctx context.Context, sess *Session) error
	// ScanAll は全セッションを走査して返す。reaper専用。
	ScanAll(ctx context.Context) ([]*Session, error)
}
