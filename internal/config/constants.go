package config

import "time"

// Valkey接続設定
const (
	ValkeyConnectTimeout = 3 * time.Second
	ValkeyCommandTimeout = 2 * time.Second
	ValkeyPoolSize       = 10
	ValkeyMaxRetries     = 3
	ValkeyMinRetryDelay  = 100 * time.Millisecond
	ValkeyMaxRetryDelay  = 1 * time.Second
)

// セッション管理
const (
	// SessionLivenessWindow はこの期間内に活動のあるセッションのみを
	// 同時接続数に含める。超過したセッションはリープ対象。
	SessionLivenessWindow = 5 * time.Minute

	// SessionReapInterval はリーパーの実行間隔
	SessionReapInterval = 1 * time.Minute

	// SessionTTL はValkey上のセッションキーの保険TTL
	SessionTTL = 24 * time.Hour
)

// レート制限
const (
	RateLimitWindow      = 15 * time.Minute
	RateLimitMaxAttempts = 5
)

// OTP設定
const (
	OTPTTL        = 5 * time.Minute
	OTPCodeDigits = 6
)

// 認証バックエンド設定
const (
	// NetauthTimeout は各バックエンド試行あたりのタイムアウト。
	// タイムアウトはUnavailable扱いとなり次段へフォールバックする。
	NetauthTimeout = 3 * time.Second

	// NetauthRetries はRADIUSバックエンドの再送回数
	NetauthRetries = 2

	// RADIUSバックエンドのCircuit Breaker設定
	CBRadiusName = "radius-backend"
)

// 使用量カウンター
const (
	// DailyUsageTTL / MonthlyUsageTTL はロールオーバー後の
	// 旧バケットが自然消滅するまでの保持期間
	DailyUsageTTL   = 72 * time.Hour
	MonthlyUsageTTL = 62 * 24 * time.Hour
)

// NAS連携
const (
	NasPushTimeout = 5 * time.Second

	// Circuit Breaker設定
	CBName             = "nas-push"
	CBMaxRequests      = 1
	CBInterval         = 60 * time.Second
	CBTimeout          = 30 * time.Second
	CBFailureThreshold = 5
)

// サーバーシャットダウン設定
const (
	ShutdownTimeout = 5 * time.Second
)

// 監査ログ
const (
	// AuditLogMaxEntries は監査用試行ログの保持件数上限
	AuditLogMaxEntries = 10000
)
