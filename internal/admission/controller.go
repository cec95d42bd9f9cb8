package admission

import (
	"context"
	"log/slog"

	"github.com/arifislam007/eco-public-wifi/internal/bandwidth"
	"github.com/arifislam007/eco-public-wifi/internal/config"
	"github.com/arifislam007/eco-public-wifi/internal/nas"
	"github.com/arifislam007/eco-public-wifi/internal/policy"
)

// AdmitRequest は認可判定への入力。Limitsは解決済みポリシー。
type AdmitRequest struct {
	Username  string
	ClientIP  string
	ClientMAC string
	Limits    policy.Limits
}

// Controller は認証済みユーザーの接続可否をゲート順に判定する。
// 判定順はレート制限 → 同時接続数 → 日次 → 月次で固定し、
// 最初の拒否で打ち切る。許可時のみセッション登録と帯域適用の
// 副作用を持ち、拒否は試行ログ以外の状態を残さない。
type Controller struct {
	rate       RateGate
	sessions   SessionGate
	usage      UsageReader
	pusher     Pusher
	log        *slog.Logger
	failClosed bool
}

// NewController はControllerを生成する。pusherはnil可(適用スキップ)。
func NewController(rate RateGate, sessions SessionGate, usageReader UsageReader, pusher Pusher, cfg *config.Config, logger *slog.Logger) *Controller {
	return &Controller{
		rate:       rate,
		sessions:   sessions,
		usage:      usageReader,
		pusher:     pusher,
		log:        logger,
		failClosed: cfg.AdmissionFailClosed,
	}
}

// Admit は接続可否を判定する。
func (c *Controller) Admit(ctx context.Context, req AdmitRequest) (Decision, error) {
	if err := c.rate.Allow(ctx, req.ClientIP); err != nil {
		return Deny(ReasonRateLimited), nil
	}

	if denied, reason := c.checkConcurrency(ctx, req); denied {
		return Deny(reason), nil
	}

	daily, monthly, denied, reason := c.checkQuotas(ctx, req)
	if denied {
		return Deny(reason), nil
	}

	sess, err := c.sessions.Register(ctx, req.Username, req.ClientIP, req.ClientMAC)
	if err != nil {
		return Decision{}, err
	}
	if err := c.usage.RecordSessionStart(ctx, req.Username); err != nil {
		c.log.Warn("failed to count session start",
			"event_id", "ADMIT_USAGE_ERR",
			"username", req.Username,
			"error", err.Error(),
		)
	}

	fup := policy.EvaluateFUP(req.Limits, monthly)
	bw := bandwidth.Compute(req.Limits, fup.Active)

	c.pushToNAS(ctx, req, sess.SessionID, bw)

	c.log.Info("admission granted",
		"event_id", "ADMIT_OK",
		"username", req.Username,
		"session_id", sess.SessionID,
		"daily_used", daily,
		"monthly_used", monthly,
		"throttled", fup.Active,
	)
	return Decision{
		Allowed:   true,
		SessionID: sess.SessionID,
		Bandwidth: bw,
		Throttled: fup.Active,
	}, nil
}

func (c *Controller) checkConcurrency(ctx context.Context, req AdmitRequest) (bool, Reason) {
	if req.Limits.MaxSessions <= 0 {
		return false, ""
	}
	live, err := c.sessions.CountLive(ctx, req.Username)
	if err != nil {
		return c.storeFailure(req.Username, "concurrency", err), ReasonConcurrencyLimit
	}
	if int64(live) >= req.Limits.MaxSessions {
		return true, ReasonConcurrencyLimit
	}
	return false, ""
}

// checkQuotas は日次・月次の上限を順に検査する。
// どちらも上限以上(境界を含む)で拒否する。月次の使用量は
// FUP評価のため、拒否されない場合も返す。
func (c *Controller) checkQuotas(ctx context.Context, req AdmitRequest) (daily, monthly int64, denied bool, reason Reason) {
	if req.Limits.DailyLimit > 0 || req.Limits.FUPEnabled || req.Limits.MonthlyLimit > 0 {
		d, err := c.usage.DailyUsage(ctx, req.Username)
		if err != nil {
			if c.storeFailure(req.Username, "daily", err) {
				return 0, 0, true, ReasonDailyLimit
			}
		} else {
			daily = d.TotalBytes
		}
		if req.Limits.DailyLimit > 0 && daily >= req.Limits.DailyLimit {
			return daily, 0, true, ReasonDailyLimit
		}

		m, err := c.usage.MonthlyUsage(ctx, req.Username)
		if err != nil {
			if c.storeFailure(req.Username, "monthly", err) {
				return daily, 0, true, ReasonMonthlyLimit
			}
		} else {
			monthly = m.TotalBytes
		}
		if req.Limits.MonthlyLimit > 0 && monthly >= req.Limits.MonthlyLimit {
			return daily, monthly, true, ReasonMonthlyLimit
		}
	}
	return daily, monthly, false, ""
}

// storeFailure はゲート検査中のストア障害を処理する。
// フェイルクローズ設定なら拒否(trueを返す)、既定では
// 警告ログを残して通過させる。
func (c *Controller) storeFailure(username, gate string, err error) bool {
	if c.failClosed {
		c.log.Error("gate check failed, denying",
			"event_id", "ADMIT_FAIL_CLOSED",
			"username", username,
			"gate", gate,
			"error", err.Error(),
		)
		return true
	}
	c.log.Warn("gate check failed, passing open",
		"event_id", "ADMIT_FAIL_OPEN",
		"username", username,
		"gate", gate,
		"error", err.Error(),
	)
	return false
}

// pushToNAS は帯域設定をベストエフォートで適用する。
func (c *Controller) pushToNAS(ctx context.Context, req AdmitRequest, sessionID string, bw bandwidth.Params) {
	if c.pusher == nil {
		return
	}
	rate := bw.RateLimit()
	if rate == "" {
		return
	}
	push := &nas.PushRequest{
		Username:   req.Username,
		SessionID:  sessionID,
		IPAddress:  req.ClientIP,
		RateLimit:  rate,
		BurstLimit: bw.BurstLimit(),
		Throttled:  bw.Throttled,
	}
	if err := c.pusher.Push(ctx, push); err != nil {
		c.log.Warn("nas push failed",
			"event_id", "NAS_PUSH_ERR",
			"username", req.Username,
			"error", err.Error(),
		)
	}
}
