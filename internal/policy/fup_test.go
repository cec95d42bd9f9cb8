package policy

import "testing"

func TestEvaluateFUPDisabled(t *testing.T) {
	limits := Limits{DownloadSpeed: 1024}
	st := EvaluateFUP(limits, 100*1024*1024*1024)
	if st.Active {
		t.Error("FUP disabled, Active should be false")
	}
}

func TestEvaluateFUPBelowThreshold(t *testing.T) {
	limits := Limits{
		DownloadSpeed: 1024,
		FUPEnabled:    true,
		FUPThreshold:  1000,
		FUPSpeed:      128,
	}
	st := EvaluateFUP(limits, 999)
	if st.Active {
		t.Error("below threshold, Active should be false")
	}
	if st.Speed != 1024 {
		t.Errorf("Speed = %d, want nominal 1024", st.Speed)
	}
}

func TestEvaluateFUPAtThreshold(t *testing.T) {
	// 境界値はしきい値到達で発動する
	limits := Limits{
		DownloadSpeed: 1024,
		FUPEnabled:    true,
		FUPThreshold:  1000,
		FUPSpeed:      128,
	}
	st := EvaluateFUP(limits, 1000)
	if !st.Active {
		t.Error("at threshold, Active should be true")
	}
	if st.Speed != 128 {
		t.Errorf("Speed = %d, want throttled 128", st.Speed)
	}
	if st.Threshold != 1000 || st.Usage != 1000 {
		t.Errorf("status = %+v, threshold/usage mismatch", st)
	}
}
