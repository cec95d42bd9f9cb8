package policy

import "sort"

// Merge はユーザー個別ポリシーとグループポリシーをフィールド単位で
// 重ね合わせ、解決済みのLimitsを返す。
// 各フィールドは独立に user → 優先度降順のグループ → 制限なし(0)
// の順で解決する。ユーザーが一部のフィールドだけを上書きしている
// 場合、残りのフィールドはグループ定義が生きる。
func Merge(user *Spec, groups []Group) Limits {
	sorted := make([]Group, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority > sorted[j].Priority
	})

	specs := make([]*Spec, 0, len(sorted)+1)
	if user != nil {
		specs = append(specs, user)
	}
	for i := range sorted {
		specs = append(specs, &sorted[i].Spec)
	}

	var limits Limits
	limits.MaxSessions = resolveInt(specs, func(s *Spec) *int64 { return s.MaxSessions })
	limits.SessionTimeout = resolveInt(specs, func(s *Spec) *int64 { return s.SessionTimeout })
	limits.IdleTimeout = resolveInt(specs, func(s *Spec) *int64 { return s.IdleTimeout })
	limits.DailyLimit = resolveInt(specs, func(s *Spec) *int64 { return s.DailyLimit })
	limits.MonthlyLimit = resolveInt(specs, func(s *Spec) *int64 { return s.MonthlyLimit })
	limits.DownloadSpeed = resolveInt(specs, func(s *Spec) *int64 { return s.DownloadSpeed })
	limits.UploadSpeed = resolveInt(specs, func(s *Spec) *int64 { return s.UploadSpeed })
	limits.BurstDownload = resolveInt(specs, func(s *Spec) *int64 { return s.BurstDownload })
	limits.BurstUpload = resolveInt(specs, func(s *Spec) *int64 { return s.BurstUpload })
	limits.FUPEnabled = resolveBool(specs, func(s *Spec) *bool { return s.FUPEnabled })
	limits.FUPThreshold = resolveInt(specs, func(s *Spec) *int64 { return s.FUPThreshold })
	limits.FUPSpeed = resolveInt(specs, func(s *Spec) *int64 { return s.FUPSpeed })
	return limits
}

// resolveInt は定義済みの値を持つ最初のSpecから値を取り出す。
func resolveInt(specs []*Spec, get func(*Spec) *int64) int64 {
	for _, s := range specs {
		if v := get(s); v != nil {
			return *v
		}
	}
	return 0
}

// resolveBool は定義済みの値を持つ最初のSpecから値を取り出す。
func resolveBool(specs []*Spec, get func(*Spec) *bool) bool {
	for _, s := range specs {
		if v := get(s); v != nil {
			return *v
		}
	}
	return false
}
