package store

// Valkeyキープレフィックス
const (
	KeyPrefixCredential  = "cred:"         // 認証属性（username単位のハッシュ）
	KeyPrefixVoucher     = "voucher:"      // バウチャーレコード
	KeyPrefixOTP         = "otp:"          // OTPチャレンジリスト（番号単位、先頭が最新）
	KeyPrefixMobile      = "mobile:"       // 携帯番号→username対応
	KeyPrefixUserPolicy  = "policy:user:"  // ユーザー個別ポリシー
	KeyPrefixGroupPolicy = "policy:group:" // グループポリシー定義
	KeyPrefixMembership  = "policy:member:" // username→所属グループ（priorityスコアのzset）
	KeyPrefixSession     = "sess:"         // アクティブセッション
	KeyPrefixUserIndex   = "idx:user:"     // username→セッションIDインデックス
	KeyPrefixDailyUsage  = "usage:day:"    // 日次使用量カウンター
	KeyPrefixMonthUsage  = "usage:month:"  // 月次使用量カウンター
	KeyPrefixAttempt     = "attempt:"      // IP単位のログイン試行（zset）
	KeyAuditAttempts     = "audit:attempts" // 監査用試行ログ（capped list）
)
