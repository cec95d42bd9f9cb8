// Package policy はユーザー・グループポリシーの解決を提供する。
package policy

// Limits は解決済みのアクセスポリシーを表す。
// すべてのフィールドで 0 は「制限なし」を意味する。
type Limits struct {
	MaxSessions    int64 // 同時セッション数上限
	SessionTimeout int64 // セッションタイムアウト（秒）
	IdleTimeout    int64 // アイドルタイムアウト（秒）
	DailyLimit     int64 // 日次データ量上限（バイト）
	MonthlyLimit   int64 // 月次データ量上限（バイト）
	DownloadSpeed  int64 // 下り速度（kbps）
	UploadSpeed    int64 // 上り速度（kbps）
	BurstDownload  int64 // 下りバースト速度（kbps）
	BurstUpload    int64 // 上りバースト速度（kbps）
	FUPEnabled     bool  // FUP有効フラグ
	FUPThreshold   int64 // FUP発動しきい値（月次バイト）
	FUPSpeed       int64 // FUP適用時速度（kbps）
}

// Spec はポリシーの部分定義を表す。
// nilフィールドは「このレイヤーでは未定義」を意味し、
// フィールド単位で下位レイヤーへフォールバックする。
type Spec struct {
	MaxSessions    *int64 `json:"max_sessions,omitempty"`
	SessionTimeout *int64 `json:"session_timeout,omitempty"`
	IdleTimeout    *int64 `json:"idle_timeout,omitempty"`
	DailyLimit     *int64 `json:"daily_limit,omitempty"`
	MonthlyLimit   *int64 `json:"monthly_limit,omitempty"`
	DownloadSpeed  *int64 `json:"download_speed,omitempty"`
	UploadSpeed    *int64 `json:"upload_speed,omitempty"`
	BurstDownload  *int64 `json:"burst_download,omitempty"`
	BurstUpload    *int64 `json:"burst_upload,omitempty"`
	FUPEnabled     *bool  `json:"fup_enabled,omitempty"`
	FUPThreshold   *int64 `json:"fup_threshold,omitempty"`
	FUPSpeed       *int64 `json:"fup_speed,omitempty"`
}

// Group はグループポリシー定義を表す。
type Group struct {
	Name     string
	Priority int64 // 大きいほど優先
	Spec     Spec
}

// Unlimited は制限なしのLimitsを返す。
func Unlimited() Limits {
	return Limits{}
}
