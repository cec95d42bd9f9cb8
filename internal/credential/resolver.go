package credential

import (
	"context"
	"fmt"

	"github.com/arifislam007/eco-public-wifi/internal/netauth"
	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
)

// 認証経路の識別子
const (
	MethodPassword = "password"
	MethodVoucher  = "voucher"
	MethodOTP      = "otp"
)

// Resolver は3種の資格情報をそれぞれの経路で検証し、
// 確定したIdentityへ解決する。
type Resolver struct {
	chain    *netauth.Chain
	vouchers *VoucherAuthenticator
	otps     *OTPAuthenticator
}

// NewResolver はResolverを生成する。
func NewResolver(chain *netauth.Chain, vouchers *VoucherAuthenticator, otps *OTPAuthenticator) *Resolver {
	return &Resolver{chain: chain, vouchers: vouchers, otps: otps}
}

// Resolve は資格情報を検証してIdentityを返す。
func (r *Resolver) Resolve(ctx context.Context, cred Credential) (*Identity, error) {
	switch c := cred.(type) {
	case PasswordCredential:
		return r.resolvePassword(ctx, c)
	case VoucherCredential:
		username, err := r.vouchers.Authenticate(ctx, c.Code)
		if err != nil {
			return nil, err
		}
		return &Identity{Username: username, Method: MethodVoucher}, nil
	case OTPCredential:
		username, err := r.otps.Verify(ctx, c.Mobile, c.Code)
		if err != nil {
			return nil, err
		}
		return &Identity{Username: username, Method: MethodOTP}, nil
	default:
		return nil, fmt.Errorf("credential: unsupported credential type %T", cred)
	}
}

func (r *Resolver) resolvePassword(ctx context.Context, c PasswordCredential) (*Identity, error) {
	res := r.chain.Authenticate(ctx, c.Username, c.Password)
	switch res.Outcome {
	case netauth.Accept:
		return &Identity{
			Username: c.Username,
			Method:   MethodPassword,
			Backend:  res.Backend,
		}, nil
	case netauth.Reject:
		if res.Err != nil {
			return nil, res.Err
		}
		// リモートバックエンドの拒否は理由を区別できない。
		return nil, apperr.ErrBadSecret
	default:
		if res.Err != nil {
			return nil, fmt.Errorf("%w: %v", apperr.ErrBackendUnavailable, res.Err)
		}
		return nil, apperr.ErrBackendUnavailable
	}
}
