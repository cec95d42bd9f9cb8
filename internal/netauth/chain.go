package netauth

import (
	"context"
	"log/slog"
)

// Chain は複数の認証バックエンドを順に試すフォールバックチェーン。
// AcceptもRejectも確定判定であり、後段には進まない。到達不能
// (Unavailable)の場合のみ次段へフォールバックする。到達可能な
// バックエンドの判定を常に信頼するため、プライマリが明示的に
// 拒否したユーザーがフォールバック先で受理されることはない。
type Chain struct {
	strategies []Strategy
	log        *slog.Logger
}

// NewChain はChainを生成する。strategiesは試行順に並べる。
func NewChain(logger *slog.Logger, strategies ...Strategy) *Chain {
	return &Chain{strategies: strategies, log: logger}
}

// Authenticate はチェーンを実行する。全段が到達不能の場合、
// OutcomeはUnavailable、Errは最後の原因となる。
func (c *Chain) Authenticate(ctx context.Context, username, password string) Result {
	var lastErr error
	for _, s := range c.strategies {
		outcome, err := s.Authenticate(ctx, username, password)
		switch outcome {
		case Accept, Reject:
			c.log.Info("auth backend decided",
				"event_id", "NETAUTH_DECIDE",
				"backend", s.ID(),
				"username", username,
				"outcome", outcome.String(),
			)
			res := Result{Outcome: outcome, Backend: s.ID()}
			if outcome == Reject {
				res.Err = err
			}
			return res
		case Unavailable:
			lastErr = err
			c.log.Warn("auth backend unavailable, falling back",
				"event_id", "NETAUTH_FALLBACK",
				"backend", s.ID(),
				"username", username,
				"error", errString(err),
			)
		}
	}
	return Result{Outcome: Unavailable, Err: lastErr}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
