// Package apperr は共通エラー定義を提供する。
package apperr

import "errors"

// 認証関連エラー
var (
	// ErrUserNotFound はユーザーが見つからない場合のエラー
	ErrUserNotFound = errors.New("user not found")
	// ErrBadSecret はパスワード不一致エラー
	ErrBadSecret = errors.New("bad secret")
	// ErrCredentialExpired はクレデンシャル有効期限切れエラー
	ErrCredentialExpired = errors.New("credential expired")
	// ErrMalformedIdentifier は識別子形式不正エラー
	ErrMalformedIdentifier = errors.New("malformed identifier")
	// ErrBackendUnavailable は全認証バックエンド利用不可エラー
	ErrBackendUnavailable = errors.New("authentication backend unavailable")
)

// バウチャー関連エラー
var (
	// ErrVoucherNotFound はバウチャーが見つからない、または無効状態の場合のエラー
	ErrVoucherNotFound = errors.New("voucher not found or inactive")
	// ErrVoucherExpired はバウチャー有効期限切れエラー
	ErrVoucherExpired = errors.New("voucher expired")
	// ErrVoucherUsed は使用済みバウチャーエラー
	ErrVoucherUsed = errors.New("voucher already used")
)

// OTP関連エラー
var (
	// ErrOTPInvalid はOTPコード不一致または期限切れエラー
	ErrOTPInvalid = errors.New("invalid or expired OTP")
)

// セッション関連エラー
var (
	// ErrSessionNotFound はセッションが見つからない場合のエラー
	ErrSessionNotFound = errors.New("session not found")
)

// アドミッション関連エラー
var (
	// ErrRateLimited はレート制限超過エラー
	ErrRateLimited = errors.New("rate limited")
	// ErrConcurrencyLimit は同時セッション数上限エラー
	ErrConcurrencyLimit = errors.New("concurrency limit reached")
	// ErrDailyLimit は日次データ量上限エラー
	ErrDailyLimit = errors.New("daily limit reached")
	// ErrMonthlyLimit は月次データ量上限エラー
	ErrMonthlyLimit = errors.New("monthly limit reached")
)

// インフラ関連エラー
var (
	// ErrStoreUnavailable はValkey接続エラー
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrKeyNotFound はキーが存在しない場合のエラー
	ErrKeyNotFound = errors.New("key not found")
)
