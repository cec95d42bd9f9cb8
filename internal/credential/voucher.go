package credential

import (
	"context"
	"log/slog"
	"time"

	"github.com/arifislam007/eco-public-wifi/internal/policy"
	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
)

// voucherGroupPriority はバウチャー経由で付与するグループ所属の
// 優先度。ユーザー個別ポリシーが常に優先されるため控えめな値でよい。
const voucherGroupPriority = 10

// SessionCounter は生存セッション数の参照を定義する。
type SessionCounter interface {
	CountLive(ctx context.Context, username string) (int, error)
}

// VoucherAuthenticator はバウチャーコードの検証と、初回有効化時の
// ユーザープロビジョニングを行う。
type VoucherAuthenticator struct {
	vouchers VoucherStore
	creds    CredentialStore
	policies policy.PolicyStore
	sessions SessionCounter
	log      *slog.Logger
	now      func() time.Time
}

// NewVoucherAuthenticator はVoucherAuthenticatorを生成する。
func NewVoucherAuthenticator(vouchers VoucherStore, creds CredentialStore, policies policy.PolicyStore, sessions SessionCounter, logger *slog.Logger) *VoucherAuthenticator {
	return &VoucherAuthenticator{
		vouchers: vouchers,
		creds:    creds,
		policies: policies,
		sessions: sessions,
		log:      logger,
		now:      time.Now,
	}
}

// Authenticate はバウチャーコードを検証し、対応するユーザー名を返す。
// 検査順は固定: 未存在 → 失効 → 同時接続数 → 使用済み。
// 失効判定は保存ステータスではなく現在時刻で行い、判定結果を
// ステータスへ書き戻す。
func (a *VoucherAuthenticator) Authenticate(ctx context.Context, code string) (string, error) {
	v, err := a.vouchers.Get(ctx, code)
	if err != nil {
		return "", err
	}

	if v.ExpiresAt > 0 && !a.now().Before(time.Unix(v.ExpiresAt, 0)) {
		if v.Status != VoucherStatusExpired {
			if err := a.vouchers.SetStatus(ctx, code, VoucherStatusExpired); err != nil {
				a.log.Warn("failed to persist voucher expiry",
					"event_id", "VOUCHER_STATUS_ERR",
					"code", code,
					"error", err.Error(),
				)
			}
		}
		return "", apperr.ErrVoucherExpired
	}

	if v.MaxSessions > 0 {
		live, err := a.sessions.CountLive(ctx, v.Username)
		if err != nil {
			return "", err
		}
		if int64(live) >= v.MaxSessions {
			return "", apperr.ErrConcurrencyLimit
		}
	}

	switch v.Status {
	case VoucherStatusActive:
		// 継続
	case VoucherStatusUsed:
		return "", apperr.ErrVoucherUsed
	default:
		return "", apperr.ErrVoucherNotFound
	}

	if v.SingleUse {
		if err := a.vouchers.Activate(ctx, code); err != nil {
			return "", err
		}
	}
	if err := a.provision(ctx, v); err != nil {
		return "", err
	}

	a.log.Info("voucher activated",
		"event_id", "VOUCHER_ACTIVATE",
		"code", code,
		"username", v.Username,
	)
	return v.Username, nil
}

// provision はバウチャーに対応するユーザーと個別ポリシーを登録する。
func (a *VoucherAuthenticator) provision(ctx context.Context, v *Voucher) error {
	attrs := &SecretAttributes{
		Cleartext:  v.Secret,
		Expiration: v.ExpiresAt,
	}
	if err := a.creds.PutSecretAttributes(ctx, v.Username, attrs); err != nil {
		return err
	}

	if v.GroupName != "" {
		if err := a.policies.AddMembership(ctx, v.Username, v.GroupName, voucherGroupPriority); err != nil {
			return err
		}
	}

	spec := &policy.Spec{}
	if v.MaxSessions > 0 {
		spec.MaxSessions = ptr(v.MaxSessions)
	}
	if v.DailyLimit > 0 {
		spec.DailyLimit = ptr(v.DailyLimit)
	}
	if v.MonthlyLimit > 0 {
		spec.MonthlyLimit = ptr(v.MonthlyLimit)
	}
	if v.DownloadSpeed > 0 {
		spec.DownloadSpeed = ptr(v.DownloadSpeed)
	}
	if v.UploadSpeed > 0 {
		spec.UploadSpeed = ptr(v.UploadSpeed)
	}
	return a.policies.SetUserSpec(ctx, v.Username, spec)
}

func ptr(v int64) *int64 {
	return &v
}
