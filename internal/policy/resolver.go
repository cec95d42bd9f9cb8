package policy

import (
	"context"
	"errors"
	"log/slog"
)

// Resolver はユーザーの実効ポリシーを解決する。
type Resolver struct {
	store PolicyStore
}

// NewResolver は新しいResolverを生成する。
func NewResolver(store PolicyStore) *Resolver {
	return &Resolver{store: store}
}

// ResolveLimits はユーザーの実効ポリシーを解決する。
// 失敗しない契約: ストア障害時は制限なしポリシーを返しログに残す。
// 何も設定されていないユーザーにも制限なしポリシーを返す。
func (r *Resolver) ResolveLimits(ctx context.Context, username string) Limits {
	userSpec, err := r.store.GetUserSpec(ctx, username)
	if err != nil && !errors.Is(err, ErrSpecNotFound) {
		slog.Warn("user policy lookup failed, falling back to unlimited",
			"event_id", "POLICY_STORE_ERR",
			"username", username,
			"error", err.Error(),
		)
		return Unlimited()
	}

	groups, err := r.store.GetGroups(ctx, username)
	if err != nil {
		slog.Warn("group policy lookup failed",
			"event_id", "POLICY_STORE_ERR",
			"username", username,
			"error", err.Error(),
		)
		groups = nil
	}

	return Merge(userSpec, groups)
}
