package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arifislam007/eco-public-wifi/internal/bandwidth"
	"github.com/arifislam007/eco-public-wifi/internal/nas"
	"github.com/arifislam007/eco-public-wifi/internal/policy"
	"github.com/arifislam007/eco-public-wifi/internal/session"
	"github.com/arifislam007/eco-public-wifi/internal/usage"
	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
	"github.com/arifislam007/eco-public-wifi/pkg/httputil"
)

// SessionToucher はセッションの生存更新と参照を定義する。
type SessionToucher interface {
	Touch(ctx context.Context, sessionID string, bytesIn, bytesOut int64) error
	Get(ctx context.Context, sessionID string) (*session.Session, error)
}

// UsageRecorder は使用量の記録と参照を定義する。
type UsageRecorder interface {
	Record(ctx context.Context, username string, bytesIn, bytesOut int64) error
	MonthlyUsage(ctx context.Context, username string) (*usage.Counter, error)
}

// NASPusher はNASへの帯域設定プッシュを定義する。
type NASPusher interface {
	Push(ctx context.Context, req *nas.PushRequest) error
}

// AcctHandler はアカウンティング更新のハンドラー。
// セッションの生存更新と使用量集計に加え、更新によって
// FUPしきい値を跨いだ場合はNASへ制限帯域を再プッシュする。
type AcctHandler struct {
	tracker  SessionToucher
	usage    UsageRecorder
	policies PolicyResolver
	pusher   NASPusher
}

// NewAcctHandler は新しいAcctHandlerを生成する。
// pusherはnilでもよい（NAS連携無効時）。
func NewAcctHandler(tracker SessionToucher, usage UsageRecorder, policies PolicyResolver, pusher NASPusher) *AcctHandler {
	return &AcctHandler{
		tracker:  tracker,
		usage:    usage,
		policies: policies,
		pusher:   pusher,
	}
}

// AcctRequest はPOST /api/v1/acct のリクエストボディ。
type AcctRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	BytesIn   int64  `json:"bytes_in"`
	BytesOut  int64  `json:"bytes_out"`
}

// AcctResponse はアカウンティング更新のレスポンス。
type AcctResponse struct {
	SessionID string `json:"session_id"`
	Throttled bool   `json:"throttled"`
}

// HandleAcct はPOST /api/v1/acct のハンドラー。
func (h *AcctHandler) HandleAcct(c *gin.Context) {
	traceID, _ := c.Get(TraceIDKey)
	ctx := c.Request.Context()

	var req AcctRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("invalid request body",
			"trace_id", traceID,
			"event_id", "ACCT_BAD_REQ",
			"error", err.Error(),
		)
		c.JSON(http.StatusBadRequest, httputil.BadRequest("Invalid request body"))
		return
	}

	sess, err := h.tracker.Get(ctx, req.SessionID)
	if err != nil {
		if errors.Is(err, apperr.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, httputil.NotFound("Session not found"))
			return
		}
		slog.Error("session lookup failed",
			"trace_id", traceID,
			"event_id", "ACCT_ERR",
			"session_id", req.SessionID,
			"error", err.Error(),
		)
		c.JSON(http.StatusInternalServerError, httputil.InternalServerError("An unexpected error occurred"))
		return
	}

	if err := h.tracker.Touch(ctx, req.SessionID, req.BytesIn, req.BytesOut); err != nil {
		slog.Error("session update failed",
			"trace_id", traceID,
			"event_id", "ACCT_ERR",
			"session_id", req.SessionID,
			"error", err.Error(),
		)
		c.JSON(http.StatusInternalServerError, httputil.InternalServerError("An unexpected error occurred"))
		return
	}

	if err := h.usage.Record(ctx, sess.Username, req.BytesIn, req.BytesOut); err != nil {
		// 集計失敗でセッション更新は巻き戻さない。
		slog.Warn("usage record failed",
			"trace_id", traceID,
			"event_id", "ACCT_USAGE_ERR",
			"username", sess.Username,
			"error", err.Error(),
		)
	}

	throttled := h.reevaluateFUP(ctx, traceID, sess, req.BytesIn+req.BytesOut)

	c.JSON(http.StatusOK, AcctResponse{
		SessionID: req.SessionID,
		Throttled: throttled,
	})
}

// reevaluateFUP は更新後の月間使用量でFUPを再評価し、今回の更新で
// しきい値を跨いだ場合のみNASへ制限帯域をプッシュする。
func (h *AcctHandler) reevaluateFUP(ctx context.Context, traceID any, sess *session.Session, delta int64) bool {
	limits := h.policies.ResolveLimits(ctx, sess.Username)
	if !limits.FUPEnabled {
		return false
	}

	monthly, err := h.usage.MonthlyUsage(ctx, sess.Username)
	if err != nil {
		slog.Warn("monthly usage lookup failed",
			"trace_id", traceID,
			"event_id", "ACCT_USAGE_ERR",
			"username", sess.Username,
			"error", err.Error(),
		)
		return false
	}

	fup := policy.EvaluateFUP(limits, monthly.TotalBytes)
	if !fup.Active {
		return false
	}

	before := policy.EvaluateFUP(limits, monthly.TotalBytes-delta)
	if before.Active || h.pusher == nil {
		return fup.Active
	}

	params := bandwidth.Compute(limits, true)
	slog.Info("fup threshold crossed",
		"trace_id", traceID,
		"event_id", "ACCT_FUP_THROTTLE",
		"username", sess.Username,
		"monthly_bytes", monthly.TotalBytes,
		"threshold", fup.Threshold,
	)
	if err := h.pusher.Push(ctx, &nas.PushRequest{
		Username:  sess.Username,
		SessionID: sess.SessionID,
		IPAddress: sess.IPAddress,
		RateLimit: params.RateLimit(),
		Throttled: true,
	}); err != nil {
		slog.Warn("nas push failed",
			"trace_id", traceID,
			"event_id", "NAS_PUSH_ERR",
			"username", sess.Username,
			"error", err.Error(),
		)
	}
	return true
}
