package admission

import (
	"errors"

	"github.com/arifislam007/eco-public-wifi/internal/bandwidth"
	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
)

// Reason は認可拒否の安定した理由コード。APIレスポンスと
// 監査ログの双方で使われるため、値を変更してはならない。
type Reason string

const (
	ReasonRateLimited         Reason = "rate_limited"
	ReasonNotFound            Reason = "not_found"
	ReasonBadSecret           Reason = "bad_secret"
	ReasonExpired             Reason = "expired"
	ReasonMalformedIdentifier Reason = "malformed_identifier"
	ReasonBackendUnavailable  Reason = "backend_unavailable"
	ReasonConcurrencyLimit    Reason = "concurrency_limit"
	ReasonDailyLimit          Reason = "daily_limit"
	ReasonMonthlyLimit        Reason = "monthly_limit"
	ReasonInternal            Reason = "internal_error"
)

// Decision は認可判定の結果。
type Decision struct {
	Allowed bool
	// Reason は拒否時の理由コード。許可時は空。
	Reason Reason
	// SessionID は許可時に登録されたセッションID。
	SessionID string
	// Bandwidth は許可時の適用帯域。
	Bandwidth bandwidth.Params
	// Throttled はFUPによる帯域制限が適用中かを示す。
	Throttled bool
}

// Deny は拒否のDecisionを返す。
func Deny(reason Reason) Decision {
	return Decision{Reason: reason}
}

// ReasonForError はエラーを理由コードへ対応づける。
func ReasonForError(err error) Reason {
	switch {
	case errors.Is(err, apperr.ErrRateLimited):
		return ReasonRateLimited
	case errors.Is(err, apperr.ErrUserNotFound),
		errors.Is(err, apperr.ErrVoucherNotFound),
		errors.Is(err, apperr.ErrVoucherUsed):
		return ReasonNotFound
	case errors.Is(err, apperr.ErrBadSecret),
		errors.Is(err, apperr.ErrOTPInvalid):
		return ReasonBadSecret
	case errors.Is(err, apperr.ErrCredentialExpired),
		errors.Is(err, apperr.ErrVoucherExpired):
		return ReasonExpired
	case errors.Is(err, apperr.ErrMalformedIdentifier):
		return ReasonMalformedIdentifier
	case errors.Is(err, apperr.ErrBackendUnavailable):
		return ReasonBackendUnavailable
	case errors.Is(err, apperr.ErrConcurrencyLimit):
		return ReasonConcurrencyLimit
	case errors.Is(err, apperr.ErrDailyLimit):
		return ReasonDailyLimit
	case errors.Is(err, apperr.ErrMonthlyLimit):
		return ReasonMonthlyLimit
	default:
		return ReasonInternal
	}
}

// FailureLabel はエラーを試行ログ用のラベルへ対応づける。
// 理由コードより細かく、同一コード内の拒否原因を区別する。
// 使用済みバウチャーはクライアントにはnot_foundとして返るが、
// 監査上は未発行コードと区別して記録する。
func FailureLabel(err error) string {
	if errors.Is(err, apperr.ErrVoucherUsed) {
		return "voucher_used"
	}
	return string(ReasonForError(err))
}
