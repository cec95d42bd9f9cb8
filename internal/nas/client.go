package nas

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/arifislam007/eco-public-wifi/internal/config"
)

// PushRequest はNASへ送る帯域制御の適用内容。
type PushRequest struct {
	Username   string `json:"username"`
	SessionID  string `json:"session_id"`
	IPAddress  string `json:"ip_address"`
	RateLimit  string `json:"rate_limit"`
	BurstLimit string `json:"burst_limit,omitempty"`
	Throttled  bool   `json:"throttled"`
}

// Client はNAS管理エンドポイントへ帯域設定を適用するHTTPクライアント。
// 適用はベストエフォートであり、呼び出し側は失敗を認可結果に
// 反映させない。連続失敗でCircuit Breakerが開く。
type Client struct {
	httpClient *resty.Client
	cb         *gobreaker.CircuitBreaker
	baseURL    string
	log        *slog.Logger
}

// NewClient は新しいNASクライアントを生成する。
// 適用先URL未設定の場合はnilを返し、呼び出し側は適用をスキップする。
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	if cfg.NasPushURL == "" {
		return nil
	}

	httpClient := resty.New().
		SetTimeout(config.NasPushTimeout)

	cbSettings := gobreaker.Settings{
		Name:        config.CBName,
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

	return &Client{
		httpClient: httpClient,
		cb:         gobreaker.NewCircuitBreaker(cbSettings),
		baseURL:    strings.TrimRight(cfg.NasPushURL, "/"),
		log:        logger,
	}
}

// Push は帯域設定をNASへ適用する。
func (c *Client) Push(ctx context.Context, req *PushRequest) error {
	_, err := c.cb.Execute(func() (any, error) {
		resp, err := c.httpClient.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(req).
			Post(c.baseURL + "/queue")
		if err != nil {
			return nil, err
		}
		if resp.IsError() {
			return nil, fmt.Errorf("nas: unexpected status %d", resp.StatusCode())
		}
		return resp, nil
	})
	if err != nil {
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			c.log.Warn("nas push skipped, circuit open",
				"event_id", "NAS_PUSH_SKIP",
				"username", req.Username,
			)
		}
		return err
	}

	c.log.Info("nas push applied",
		"event_id", "NAS_PUSH_OK",
		"username", req.Username,
		"session_id", req.SessionID,
		"rate_limit", req.RateLimit,
		"throttled", req.Throttled,
	)
	return nil
}
