package policy

// FUPStatus はフェアユースポリシーの評価結果を表す。
type FUPStatus struct {
	Active    bool  // しきい値超過により速度制限中か
	Usage     int64 // 当月使用量（バイト）
	Threshold int64 // 発動しきい値（バイト）
	Speed     int64 // 適用速度（kbps）: 制限中はFUP速度、それ以外は通常下り速度
}

// EvaluateFUP は当月使用量に対するFUP状態を判定する。
// 使用量は継続的に増えるため、呼び出しごとに評価すること
// （セッション開始時とアカウンティング更新時）。しきい値は
// 使用量 >= しきい値 で発動する（境界値を含む）。
func EvaluateFUP(limits Limits, monthlyUsed int64) FUPStatus {
	if !limits.FUPEnabled {
		return FUPStatus{}
	}

	active := monthlyUsed >= limits.FUPThreshold
	speed := limits.DownloadSpeed
	if active {
		speed = limits.FUPSpeed
	}

	return FUPStatus{
		Active:    active,
		Usage:     monthlyUsed,
		Threshold: limits.FUPThreshold,
		Speed:     speed,
	}
}
