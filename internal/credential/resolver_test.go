package credential

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/arifislam007/eco-public-wifi/internal/netauth"
	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
)

type stubStrategy struct {
	id      string
	outcome netauth.Outcome
	err     error
}

func (s *stubStrategy) ID() string { return s.id }

func (s *stubStrategy) Authenticate(context.Context, string, string) (netauth.Outcome, error) {
	return s.outcome, s.err
}

func newTestResolver(strategies ...netauth.Strategy) *Resolver {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	chain := netauth.NewChain(logger, strategies...)

	creds := newFakeCredStore()
	vouchers := newTestVoucherAuth(newFakeVoucherStore(activeVoucher()), creds, newFakePolicyStore(), nil)
	otps := newTestOTPAuth(newFakeOTPStore(), newFakeMobileStore(), creds)
	return NewResolver(chain, vouchers, otps)
}

func TestResolvePasswordAccept(t *testing.T) {
	r := newTestResolver(&stubStrategy{id: "radius", outcome: netauth.Accept})

	id, err := r.Resolve(context.Background(), PasswordCredential{Username: "user01", Password: "s3cret"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id.Username != "user01" || id.Method != MethodPassword || id.Backend != "radius" {
		t.Errorf("identity = %+v", id)
	}
}

func TestResolvePasswordRemoteReject(t *testing.T) {
	r := newTestResolver(&stubStrategy{id: "radius", outcome: netauth.Reject})

	_, err := r.Resolve(context.Background(), PasswordCredential{Username: "user01", Password: "bad"})
	if !errors.Is(err, apperr.ErrBadSecret) {
		t.Errorf("err = %v, want ErrBadSecret", err)
	}
}

func TestResolvePasswordLocalRejectKeepsReason(t *testing.T) {
	r := newTestResolver(
		&stubStrategy{id: "radius", outcome: netauth.Unavailable, err: errors.New("timeout")},
		&stubStrategy{id: "local", outcome: netauth.Reject, err: apperr.ErrCredentialExpired},
	)

	_, err := r.Resolve(context.Background(), PasswordCredential{Username: "user01", Password: "s3cret"})
	if !errors.Is(err, apperr.ErrCredentialExpired) {
		t.Errorf("err = %v, want ErrCredentialExpired", err)
	}
}

func TestResolvePasswordAllUnavailable(t *testing.T) {
	r := newTestResolver(
		&stubStrategy{id: "radius", outcome: netauth.Unavailable, err: errors.New("timeout")},
		&stubStrategy{id: "radclient", outcome: netauth.Unavailable, err: errors.New("no binary")},
	)

	_, err := r.Resolve(context.Background(), PasswordCredential{Username: "user01", Password: "s3cret"})
	if !errors.Is(err, apperr.ErrBackendUnavailable) {
		t.Errorf("err = %v, want ErrBackendUnavailable", err)
	}
}

func TestResolveVoucher(t *testing.T) {
	r := newTestResolver()

	id, err := r.Resolve(context.Background(), VoucherCredential{Code: "WIFI-1234"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id.Method != MethodVoucher || id.Username != "voucher_WIFI-1234" {
		t.Errorf("identity = %+v", id)
	}
}

func TestResolveOTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	chain := netauth.NewChain(logger)
	creds := newFakeCredStore()
	otpAuth := newTestOTPAuth(newFakeOTPStore(), newFakeMobileStore(), creds)
	vouchers := newTestVoucherAuth(newFakeVoucherStore(), creds, newFakePolicyStore(), nil)
	r := NewResolver(chain, vouchers, otpAuth)
	ctx := context.Background()

	c, err := otpAuth.IssueChallenge(ctx, "01712345678")
	if err != nil {
		t.Fatalf("IssueChallenge() error = %v", err)
	}

	id, err := r.Resolve(ctx, OTPCredential{Mobile: "01712345678", Code: c.Code})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if id.Method != MethodOTP || id.Username == "" {
		t.Errorf("identity = %+v", id)
	}
}
