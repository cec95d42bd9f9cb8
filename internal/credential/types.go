package credential

import "context"

// Credential は認証要求の種別を表すマーカーインターフェース。
type Credential interface {
	credential()
}

// PasswordCredential はユーザー名とパスワードによる認証要求。
type PasswordCredential struct {
	Username string
	Password string
}

// VoucherCredential はバウチャーコードによる認証要求。
type VoucherCredential struct {
	Code string
}

// OTPCredential は携帯番号とワンタイムコードによる認証要求。
type OTPCredential struct {
	Mobile string
	Code   string
}

func (PasswordCredential) credential() {}
func (VoucherCredential) credential()  {}
func (OTPCredential) credential()      {}

// Identity は認証成功時に確定したユーザーの同一性。
type Identity struct {
	Username string
	// Method は認証経路(password / voucher / otp)。
	Method string
	// Backend は判定を下したバックエンドID(password経路のみ)。
	Backend string
}

// SecretAttributes はユーザーの保存済みシークレット属性。
// 複数のハッシュ形式が併存しうるが、照合に使うのは優先順位
// (cleartext → MD5 → SHA1 → NT)で最初に存在する1つのみ。
type SecretAttributes struct {
	Cleartext string `redis:"cleartext_password"`
	MD5       string `redis:"md5_password"`
	SHA1      string `redis:"sha1_password"`
	NT        string `redis:"nt_password"`
	// Expiration はアカウント失効日時(Unix秒)。0は無期限。
	Expiration int64 `redis:"expiration"`
}

// Voucher はプリペイドバウチャー1枚分のレコード。
type Voucher struct {
	Code     string `redis:"code"`
	Username string `redis:"username"`
	Secret   string `redis:"secret"`
	// Status はactive / used / expiredのいずれか。
	Status string `redis:"status"`
	// SingleUse が真のバウチャーは一度の有効化で使用済みになる。
	SingleUse bool  `redis:"single_use"`
	ExpiresAt int64 `redis:"expires_at"`
	// MaxSessions はこのバウチャーで許される同時接続数。0は無制限。
	MaxSessions int64 `redis:"max_sessions"`
	// GroupName は有効化時に所属させるポリシーグループ。
	GroupName     string `redis:"group_name"`
	DailyLimit    int64  `redis:"daily_limit"`
	MonthlyLimit  int64  `redis:"monthly_limit"`
	DownloadSpeed int64  `redis:"download_speed"`
	UploadSpeed   int64  `redis:"upload_speed"`
}

// バウチャーステータス
const (
	VoucherStatusActive  = "active"
	VoucherStatusUsed    = "used"
	VoucherStatusExpired = "expired"
)

// OTPChallenge はワンタイムコード1件分のレコード。
type OTPChallenge struct {
	Mobile    string `json:"mobile"`
	Code      string `json:"code"`
	IssuedAt  int64  `json:"issued_at"`
	ExpiresAt int64  `json:"expires_at"`
	Verified  bool   `json:"verified"`
}

// CredentialStore は保存済みシークレット属性へのアクセスを定義する。
type CredentialStore interface {
	// GetSecretAttributes はユーザーのシークレット属性を取得する。
	// 未存在時はapperr.ErrUserNotFound。
	GetSecretAttributes(ctx context.Context, username string) (*SecretAttributes, error)
	// PutSecretAttributes はシークレット属性を保存する。
	PutSecretAttributes(ctx context.Context, username string, attrs *SecretAttributes) error
	// Exists はユーザーの存在有無を返す。
	Exists(ctx context.Context, username string) (bool, error)
}

// VoucherStore はバウチャーレコードへのアクセスを定義する。
type VoucherStore interface {
	// Get はバウチャーを取得する。未存在時はapperr.ErrVoucherNotFound。
	Get(ctx context.Context, code string) (*Voucher, error)
	// SetStatus はステータスを更新する。
	SetStatus(ctx context.Context, code, status string) error
	// Activate は楽観ロック付きでactiveからusedへ遷移させる。
	// 競合時・非active時はapperr.ErrVoucherUsed。
	Activate(ctx context.Context, code string) error
}

// OTPStore はOTPチャレンジのリストへのアクセスを定義する。
// チャレンジは番号ごとに新しい順で保持される。
type OTPStore interface {
	// Push はチャレンジを先頭へ追記する。
	Push(ctx context.Context, challenge *OTPChallenge) error
	// Newest は最新のチャレンジを返す。未存在時はapperr.ErrOTPInvalid。
	Newest(ctx context.Context, mobile string) (*OTPChallenge, error)
	// MarkVerified は最新チャレンジを検証済みへ更新する。
	MarkVerified(ctx context.Context, mobile string) error
}

// MobileStore は携帯番号とユーザー名の対応を定義する。
type MobileStore interface {
	// Lookup は番号に紐づくユーザー名を返す。未存在時は空文字。
	Lookup(ctx context.Context, mobile string) (string, error)
	// Link は番号とユーザー名を対応づける。
	Link(ctx context.Context, mobile, username string) error
}
