package policy

import "context"

// PolicyStore はポリシーデータへのアクセスを定義する。
type PolicyStore interface {
	// GetUserSpec はユーザー個別ポリシーを取得する。
	// 未設定の場合はErrSpecNotFoundを返す。
	GetUserSpec(ctx context.Context, username string) (*Spec, error)
	// SetUserSpec はユーザー個別ポリシーを保存する。
	SetUserSpec(ctx context.Context, username string, spec *Spec) error
	// GetGroups はユーザーの所属グループを優先度降順で取得する。
	GetGroups(ctx context.Context, username string) ([]Group, error)
	// AddMembership はユーザーをグループに所属させる。
	AddMembership(ctx context.Context, username, groupName string, priority int64) error
}
