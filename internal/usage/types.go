package usage

// Counter は期間バケットごとの使用量カウンターを表す。
// TotalBytes はインクリメントのみで維持され、履歴からの再計算は
// 行わない。
type Counter struct {
	BytesIn      int64 `redis:"bytes_in"`
	BytesOut     int64 `redis:"bytes_out"`
	TotalBytes   int64 `redis:"total_bytes"`
	SessionCount int64 `redis:"session_count"`
}

// PercentUsed は使用率（0〜100）を返す表示用の派生値。
// limit が0以下の場合は「制限なし」を意味し、常に0を返す
// （ゼロ除算は発生しない）。
func PercentUsed(used, limit int64) float64 {
	if limit <= 0 {
		return 0
	}
	pct := float64(used) / float64(limit) * 100
	if pct > 100 {
		return 100
	}
	return pct
}
