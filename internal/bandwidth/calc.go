// Package bandwidth はNASへ渡す帯域パラメータの算出を提供する。
package bandwidth

import (
	"fmt"

	"github.com/arifislam007/eco-public-wifi/internal/policy"
)

// Params はNASに適用する帯域パラメータを表す。速度の単位はkbps。
// 0 は「制限なし」を意味する。
type Params struct {
	Download      int64
	Upload        int64
	BurstDownload int64
	BurstUpload   int64
	Throttled     bool // FUPによる速度制限中
}

// Compute は実効ポリシーとFUP状態から帯域パラメータを算出する。
// FUP制限中は上下ともFUP速度を適用し、バーストは無効化する。
func Compute(limits policy.Limits, fupActive bool) Params {
	if fupActive {
		return Params{
			Download:  limits.FUPSpeed,
			Upload:    limits.FUPSpeed,
			Throttled: true,
		}
	}
	return Params{
		Download:      limits.DownloadSpeed,
		Upload:        limits.UploadSpeed,
		BurstDownload: limits.BurstDownload,
		BurstUpload:   limits.BurstUpload,
	}
}

// RateLimit はMikrotik-Rate-Limit形式（"<down>k/<up>k"）の文字列を返す。
// 下り速度が未設定の場合は空文字列（属性を付与しない）。
func (p Params) RateLimit() string {
	if p.Download <= 0 {
		return ""
	}
	return fmt.Sprintf("%dk/%dk", p.Download, p.Upload)
}

// BurstLimit はMikrotik-Burst-Limit形式の文字列を返す。
// バースト未設定またはFUP制限中は空文字列。
func (p Params) BurstLimit() string {
	if p.Throttled || p.BurstDownload <= 0 {
		return ""
	}
	return fmt.Sprintf("%dk/%dk", p.BurstDownload, p.BurstUpload)
}
