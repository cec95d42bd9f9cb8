package store

import (
	"context"
	"errors"
	"testing"

	"github.com/arifislam007/eco-public-wifi/internal/policy"
)

func i64ptr(v int64) *int64 { return &v }

func TestUserSpecRoundTrip(t *testing.T) {
	_, vc := newTestClient(t)
	ps := NewPolicyStore(vc)
	ctx := context.Background()

	spec := &policy.Spec{
		MaxSessions:   i64ptr(3),
		DownloadSpeed: i64ptr(2048),
	}
	if err := ps.SetUserSpec(ctx, "user01", spec); err != nil {
		t.Fatalf("SetUserSpec failed: %v", err)
	}

	got, err := ps.GetUserSpec(ctx, "user01")
	if err != nil {
		t.Fatalf("GetUserSpec failed: %v", err)
	}
	if got.MaxSessions == nil || *got.MaxSessions != 3 {
		t.Errorf("max_sessions = %v", got.MaxSessions)
	}
	if got.DailyLimit != nil {
		t.Error("unset field must stay nil")
	}
}

func TestUserSpecNotFound(t *testing.T) {
	_, vc := newTestClient(t)
	ps := NewPolicyStore(vc)

	_, err := ps.GetUserSpec(context.Background(), "ghost")
	if !errors.Is(err, policy.ErrSpecNotFound) {
		t.Errorf("err = %v, want ErrSpecNotFound", err)
	}
}

func TestGetGroupsOrderedByPriority(t *testing.T) {
	_, vc := newTestClient(t)
	ps := NewPolicyStore(vc).(*policyStore)
	ctx := context.Background()

	if err := ps.SetGroupSpec(ctx, "basic", &policy.Spec{DownloadSpeed: i64ptr(1024)}); err != nil {
		t.Fatalf("SetGroupSpec failed: %v", err)
	}
	if err := ps.SetGroupSpec(ctx, "premium", &policy.Spec{DownloadSpeed: i64ptr(8192)}); err != nil {
		t.Fatalf("SetGroupSpec failed: %v", err)
	}
	if err := ps.AddMembership(ctx, "user01", "basic", 10); err != nil {
		t.Fatalf("AddMembership failed: %v", err)
	}
	if err := ps.AddMembership(ctx, "user01", "premium", 100); err != nil {
		t.Fatalf("AddMembership failed: %v", err)
	}

	groups, err := ps.GetGroups(ctx, "user01")
	if err != nil {
		t.Fatalf("GetGroups failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Name != "premium" || groups[0].Priority != 100 {
		t.Errorf("first group = %+v, want premium/100", groups[0])
	}
	if groups[1].Name != "basic" {
		t.Errorf("second group = %+v, want basic", groups[1])
	}
}

func TestGetGroupsSkipsMissingDefinition(t *testing.T) {
	_, vc := newTestClient(t)
	ps := NewPolicyStore(vc)
	ctx := context.Background()

	if err := ps.AddMembership(ctx, "user01", "deleted-group", 10); err != nil {
		t.Fatalf("AddMembership failed: %v", err)
	}

	groups, err := ps.GetGroups(ctx, "user01")
	if err != nil {
		t.Fatalf("GetGroups failed: %v", err)
	}
	if len(groups) != 0 {
		t.Errorf("groups = %v, want empty", groups)
	}
}
