// Package usage は日次・月次使用量の集計を提供する。
package usage

import "time"

// DayKey は日次バケットのキーを返す（YYYY-MM-DD）。
// 書き込みごとに現在時刻からキーを計算するため、日付のロール
// オーバーで新しいバケットが自然に始まる。
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// MonthKey は月次バケットのキーを返す（YYYY-MM-01、月初固定）。
func MonthKey(t time.Time) string {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location()).Format("2006-01-02")
}
