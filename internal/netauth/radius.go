package netauth

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
	"layeh.com/radius"
	"layeh.com/radius/rfc2865"

	"github.com/arifislam007/eco-public-wifi/internal/config"
)

// RADIUSStrategy はRADIUSサーバーへAccess-Request(PAP)を送信する
// プライマリバックエンド。連続した到達失敗でCircuit Breakerが開き、
// 開いている間は即座にUnavailableを返してタイムアウト待ちを避ける。
type RADIUSStrategy struct {
	addr    string
	secret  []byte
	timeout time.Duration
	retries int
	cb      *gobreaker.CircuitBreaker
	log     *slog.Logger

	// exchange はテストで差し替えるための送信関数
	exchange func(ctx context.Context, packet *radius.Packet, addr string) (*radius.Packet, error)
}

// NewRADIUSStrategy はRADIUSStrategyを生成する。
func NewRADIUSStrategy(cfg *config.Config, logger *slog.Logger) *RADIUSStrategy {
	cbSettings := gobreaker.Settings{
		Name:        config.CBRadiusName,
		MaxRequests: config.CBMaxRequests,
		Interval:    config.CBInterval,
		Timeout:     config.CBTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(config.CBFailureThreshold)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			switch to {
			case gobreaker.StateOpen:
				logger.Warn("circuit breaker opened",
					"event_id", "CB_OPEN",
					"cb_name", name,
				)
			case gobreaker.StateHalfOpen:
				logger.Info("circuit breaker half-open",
					"event_id", "CB_HALF_OPEN",
					"cb_name", name,
				)
			case gobreaker.StateClosed:
				logger.Info("circuit breaker closed",
					"event_id", "CB_CLOSE",
					"cb_name", name,
				)
			}
		},
	}

	return &RADIUSStrategy{
		addr:     cfg.RadiusAddr(),
		secret:   []byte(cfg.RadiusSecret),
		timeout:  config.NetauthTimeout,
		retries:  config.NetauthRetries,
		cb:       gobreaker.NewCircuitBreaker(cbSettings),
		log:      logger,
		exchange: radius.Exchange,
	}
}

// ID はバックエンド識別子を返す。
func (s *RADIUSStrategy) ID() string {
	return "radius"
}

// Authenticate はAccess-Requestを送信し応答コードで判定する。
// 送信エラーは試行ごとのタイムアウト付きで再送し、全滅した場合のみ
// Unavailable。ブレーカー開も即Unavailable。
func (s *RADIUSStrategy) Authenticate(ctx context.Context, username, password string) (Outcome, error) {
	result, err := s.cb.Execute(func() (any, error) {
		packet := radius.New(radius.CodeAccessRequest, s.secret)
		if err := rfc2865.UserName_SetString(packet, username); err != nil {
			return nil, err
		}
		if err := rfc2865.UserPassword_SetString(packet, password); err != nil {
			return nil, err
		}

		var lastErr error
		for attempt := 0; attempt <= s.retries; attempt++ {
			reqCtx, cancel := context.WithTimeout(ctx, s.timeout)
			resp, err := s.exchange(reqCtx, packet, s.addr)
			cancel()
			if err == nil {
				return resp, nil
			}
			lastErr = err
			// 呼び出し元のコンテキストが切れたら再送しない
			if ctx.Err() != nil {
				break
			}
		}
		return nil, lastErr
	})
	if err != nil {
		return Unavailable, err
	}

	resp := result.(*radius.Packet)
	if resp.Code == radius.CodeAccessAccept {
		return Accept, nil
	}
	return Reject, nil
}
