package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/arifislam007/eco-public-wifi/internal/policy"
)

// policyStore はpolicy.PolicyStoreインターフェースの実装。
// ユーザー個別・グループのポリシー定義はJSON文字列で保持し、
// 所属はpriorityをスコアとするソート済みセットで保持する。
type policyStore struct {
	vc *ValkeyClient
}

// NewPolicyStore は新しいPolicyStoreを生成する。
func NewPolicyStore(vc *ValkeyClient) policy.PolicyStore {
	return &policyStore{vc: vc}
}

// GetUserSpec はユーザー個別ポリシーを取得する。
func (s *policyStore) GetUserSpec(ctx context.Context, username string) (*policy.Spec, error) {
	raw, err := s.vc.Client().Get(ctx, KeyPrefixUserPolicy+username).Result()
	if err == redis.Nil {
		return nil, policy.ErrSpecNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	var spec policy.Spec
	if err := json.Unmarshal([]byte(raw), &spec); err != nil {
		return nil, fmt.Errorf("user policy %s: %w", username, err)
	}
	return &spec, nil
}

// SetUserSpec はユーザー個別ポリシーを保存する。
func (s *policyStore) SetUserSpec(ctx context.Context, username string, spec *policy.Spec) error {
	payload, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("user policy marshal: %w", err)
	}
	if err := s.vc.Client().Set(ctx, KeyPrefixUserPolicy+username, payload, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}

// SetGroupSpec はグループポリシー定義を保存する。
func (s *policyStore) SetGroupSpec(ctx context.Context, groupName string, spec *policy.Spec) error {
	payload, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("group policy marshal: %w", err)
	}
	if err := s.vc.Client().Set(ctx, KeyPrefixGroupPolicy+groupName, payload, 0).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}

// GetGroups はユーザーの所属グループを優先度降順で取得する。
// 定義の消えたグループはスキップする。
func (s *policyStore) GetGroups(ctx context.Context, username string) ([]policy.Group, error) {
	members, err := s.vc.Client().ZRevRangeWithScores(ctx, KeyPrefixMembership+username, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}

	groups := make([]policy.Group, 0, len(members))
	for _, m := range members {
		name, ok := m.Member.(string)
		if !ok {
			continue
		}
		raw, err := s.vc.Client().Get(ctx, KeyPrefixGroupPolicy+name).Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
		}
		var spec policy.Spec
		if err := json.Unmarshal([]byte(raw), &spec); err != nil {
			return nil, fmt.Errorf("group policy %s: %w", name, err)
		}
		groups = append(groups, policy.Group{
			Name:     name,
			Priority: int64(m.Score),
			Spec:     spec,
		})
	}
	return groups, nil
}

// AddMembership はユーザーをグループに所属させる。
func (s *policyStore) AddMembership(ctx context.Context, username, groupName string, priority int64) error {
	err := s.vc.Client().ZAdd(ctx, KeyPrefixMembership+username, redis.Z{
		Score:  float64(priority),
		Member: groupName,
	}).Err()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValkeyUnavailable, err)
	}
	return nil
}
