package netauth

import "context"

// Outcome は認証バックエンド1段の判定結果。
type Outcome int

const (
	// Accept は認証成功。チェーンはここで確定する。
	Accept Outcome = iota
	// Reject は認証失敗の確定判定。後段へはフォールバックしない。
	Reject
	// Unavailable はバックエンド到達不能。後段へフォールバックする。
	Unavailable
)

// String はOutcomeのログ表記を返す。
func (o Outcome) String() string {
	switch o {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Result はチェーン実行の最終結果。
type Result struct {
	Outcome Outcome
	// Backend は判定を下したバックエンドのID。全段到達不能時は空。
	Backend string
	// Err はUnavailable時の到達不能原因、またはReject時の詳細理由
	// (バックエンドが区別できる場合のみ)。
	Err error
}

// Strategy は認証バックエンド1段を表す。
type Strategy interface {
	// ID はログ用のバックエンド識別子を返す。
	ID() string
	// Authenticate はユーザー名とパスワードを検証する。
	// Unavailable時はerrに到達不能の原因を載せる。Reject時は
	// 詳細理由を区別できるバックエンドのみerrを載せてよい。
	Authenticate(ctx context.Context, username, password string) (Outcome, error)
}
