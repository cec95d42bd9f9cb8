// Package handler はHTTPリクエストハンドラーを提供する。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arifislam007/eco-public-wifi/internal/admission"
	"github.com/arifislam007/eco-public-wifi/internal/config"
	"github.com/arifislam007/eco-public-wifi/internal/credential"
	"github.com/arifislam007/eco-public-wifi/internal/policy"
	"github.com/arifislam007/eco-public-wifi/pkg/apperr"
	"github.com/arifislam007/eco-public-wifi/pkg/httputil"
	"github.com/arifislam007/eco-public-wifi/pkg/logging"
)

// TraceIDKey はコンテキストにTraceIDを格納するキー。
const TraceIDKey = "trace_id"

// CredentialResolver は資格情報の検証を定義する。
type CredentialResolver interface {
	Resolve(ctx context.Context, cred credential.Credential) (*credential.Identity, error)
}

// PolicyResolver は実効ポリシーの解決を定義する。
type PolicyResolver interface {
	ResolveLimits(ctx context.Context, username string) policy.Limits
}

// Admitter は接続可否の判定を定義する。
type Admitter interface {
	Admit(ctx context.Context, req admission.AdmitRequest) (admission.Decision, error)
}

// AttemptLimiter は試行のレート制限と記録を定義する。
type AttemptLimiter interface {
	Allow(ctx context.Context, srcIP string) error
	RecordFailure(ctx context.Context, username, srcIP, reason string)
	RecordSuccess(ctx context.Context, username, srcIP string)
}

// OTPIssuer はワンタイムコードの発行を定義する。
type OTPIssuer interface {
	IssueChallenge(ctx context.Context, mobile string) (*credential.OTPChallenge, error)
}

// PortalHandler はキャプティブポータルAPIのハンドラー。
type PortalHandler struct {
	resolver CredentialResolver
	policies PolicyResolver
	admitter Admitter
	limiter  AttemptLimiter
	otps     OTPIssuer
	cfg      *config.Config
}

// NewPortalHandler は新しいPortalHandlerを生成する。
func NewPortalHandler(resolver CredentialResolver, policies PolicyResolver, admitter Admitter, limiter AttemptLimiter, otps OTPIssuer, cfg *config.Config) *PortalHandler {
	return &PortalHandler{
		resolver: resolver,
		policies: policies,
		admitter: admitter,
		limiter:  limiter,
		otps:     otps,
		cfg:      cfg,
	}
}

// LoginRequest はPOST /api/v1/login のリクエストボディ。
type LoginRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password" binding:"required"`
	MACAddress string `json:"mac_address"`
}

// VoucherRequest はPOST /api/v1/voucher のリクエストボディ。
type VoucherRequest struct {
	Code       string `json:"code" binding:"required"`
	MACAddress string `json:"mac_address"`
}

// OTPRequestBody はPOST /api/v1/otp/request のリクエストボディ。
type OTPRequestBody struct {
	Mobile string `json:"mobile" binding:"required"`
}

// OTPVerifyRequest はPOST /api/v1/otp/verify のリクエストボディ。
type OTPVerifyRequest struct {
	Mobile     string `json:"mobile" binding:"required"`
	Code       string `json:"code" binding:"required"`
	MACAddress string `json:"mac_address"`
}

// GrantResponse は認可成功時のレスポンス。
type GrantResponse struct {
	Username      string `json:"username"`
	SessionID     string `json:"session_id"`
	DownloadSpeed int64  `json:"download_speed"`
	UploadSpeed   int64  `json:"upload_speed"`
	BurstDownload int64  `json:"burst_download,omitempty"`
	BurstUpload   int64  `json:"burst_upload,omitempty"`
	Throttled     bool   `json:"throttled"`
}

// HandleLogin はPOST /api/v1/login のハンドラー。
func (h *PortalHandler) HandleLogin(c *gin.Context) {
	var req LoginRequest
	if !h.bind(c, &req) {
		return
	}
	h.authenticate(c, credential.PasswordCredential{
		Username: req.Username,
		Password: req.Password,
	}, req.Username, req.MACAddress)
}

// HandleVoucher はPOST /api/v1/voucher のハンドラー。
func (h *PortalHandler) HandleVoucher(c *gin.Context) {
	var req VoucherRequest
	if !h.bind(c, &req) {
		return
	}
	h.authenticate(c, credential.VoucherCredential{Code: req.Code}, req.Code, req.MACAddress)
}

// HandleOTPRequest はPOST /api/v1/otp/request のハンドラー。
func (h *PortalHandler) HandleOTPRequest(c *gin.Context) {
	traceID, _ := c.Get(TraceIDKey)
	ctx := c.Request.Context()
	srcIP := c.ClientIP()

	var req OTPRequestBody
	if !h.bind(c, &req) {
		return
	}

	if err := h.limiter.Allow(ctx, srcIP); err != nil {
		h.deny(c, traceID, "", admission.ReasonRateLimited)
		return
	}

	challenge, err := h.otps.IssueChallenge(ctx, req.Mobile)
	if err != nil {
		if errors.Is(err, apperr.ErrMalformedIdentifier) {
			h.deny(c, traceID, "", admission.ReasonMalformedIdentifier)
			return
		}
		h.internalError(c, traceID, err)
		return
	}

	slog.Info("otp requested",
		"trace_id", traceID,
		"event_id", "PORTAL_OTP_REQ",
		"mobile", logging.MaskMobile(challenge.Mobile, h.cfg.LogMaskMobile),
	)
	c.JSON(http.StatusAccepted, gin.H{
		"mobile":     challenge.Mobile,
		"expires_at": challenge.ExpiresAt,
	})
}

// HandleOTPVerify はPOST /api/v1/otp/verify のハンドラー。
func (h *PortalHandler) HandleOTPVerify(c *gin.Context) {
	var req OTPVerifyRequest
	if !h.bind(c, &req) {
		return
	}
	h.authenticate(c, credential.OTPCredential{
		Mobile: req.Mobile,
		Code:   req.Code,
	}, req.Mobile, req.MACAddress)
}

// authenticate は全認証経路で共通の判定フローを実行する。
// レート制限の事前チェック → 資格情報の検証 → ポリシー解決 →
// アドミッション判定の順で行い、失敗はすべて試行ログに残す。
func (h *PortalHandler) authenticate(c *gin.Context, cred credential.Credential, attemptLabel, macAddr string) {
	traceID, _ := c.Get(TraceIDKey)
	ctx := c.Request.Context()
	srcIP := c.ClientIP()

	if err := h.limiter.Allow(ctx, srcIP); err != nil {
		h.deny(c, traceID, attemptLabel, admission.ReasonRateLimited)
		return
	}

	identity, err := h.resolver.Resolve(ctx, cred)
	if err != nil {
		reason := admission.ReasonForError(err)
		if reason == admission.ReasonInternal {
			h.internalError(c, traceID, err)
			return
		}
		h.limiter.RecordFailure(ctx, attemptLabel, srcIP, admission.FailureLabel(err))
		h.denyResolve(c, traceID, attemptLabel, reason, err)
		return
	}

	limits := h.policies.ResolveLimits(ctx, identity.Username)

	decision, err := h.admitter.Admit(ctx, admission.AdmitRequest{
		Username:  identity.Username,
		ClientIP:  srcIP,
		ClientMAC: macAddr,
		Limits:    limits,
	})
	if err != nil {
		h.internalError(c, traceID, err)
		return
	}
	if !decision.Allowed {
		h.limiter.RecordFailure(ctx, identity.Username, srcIP, string(decision.Reason))
		h.deny(c, traceID, identity.Username, decision.Reason)
		return
	}

	h.limiter.RecordSuccess(ctx, identity.Username, srcIP)

	slog.Info("access granted",
		"trace_id", traceID,
		"event_id", "PORTAL_GRANT",
		"username", identity.Username,
		"method", identity.Method,
		"session_id", decision.SessionID,
		"throttled", decision.Throttled,
	)
	c.JSON(http.StatusOK, GrantResponse{
		Username:      identity.Username,
		SessionID:     decision.SessionID,
		DownloadSpeed: decision.Bandwidth.Download,
		UploadSpeed:   decision.Bandwidth.Upload,
		BurstDownload: decision.Bandwidth.BurstDownload,
		BurstUpload:   decision.Bandwidth.BurstUpload,
		Throttled:     decision.Throttled,
	})
}

func (h *PortalHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		traceID, _ := c.Get(TraceIDKey)
		slog.Warn("invalid request body",
			"trace_id", traceID,
			"event_id", "PORTAL_BAD_REQ",
			"error", err.Error(),
		)
		c.JSON(http.StatusBadRequest, httputil.BadRequest("Invalid request body"))
		return false
	}
	return true
}

// deny は拒否理由コードをHTTPステータスへ対応づけて応答する。
func (h *PortalHandler) deny(c *gin.Context, traceID any, subject string, reason admission.Reason) {
	slog.Info("access denied",
		"trace_id", traceID,
		"event_id", "PORTAL_DENY",
		"subject", subject,
		"reason", string(reason),
	)
	h.respondProblem(c, problemForReason(reason))
}

// denyResolve は資格情報エラーを拒否として応答する。理由コードは
// 閉じた語彙のまま、区別可能な拒否原因はログと詳細文に残す。
func (h *PortalHandler) denyResolve(c *gin.Context, traceID any, subject string, reason admission.Reason, err error) {
	slog.Info("access denied",
		"trace_id", traceID,
		"event_id", "PORTAL_DENY",
		"subject", subject,
		"reason", admission.FailureLabel(err),
	)
	p := problemForReason(reason)
	if errors.Is(err, apperr.ErrVoucherUsed) {
		p = httputil.Unauthorized("Voucher already used").WithReason(string(reason))
	}
	h.respondProblem(c, p)
}

func (h *PortalHandler) respondProblem(c *gin.Context, p *httputil.ProblemDetail) {
	c.Header("Content-Type", httputil.ContentType)
	c.JSON(p.Status, p)
}

func (h *PortalHandler) internalError(c *gin.Context, traceID any, err error) {
	slog.Error("request failed",
		"trace_id", traceID,
		"event_id", "PORTAL_ERR",
		"error", err.Error(),
	)
	c.JSON(http.StatusInternalServerError, httputil.InternalServerError("An unexpected error occurred"))
}

// problemForReason は理由コードごとのProblemDetailを返す。
func problemForReason(reason admission.Reason) *httputil.ProblemDetail {
	var p *httputil.ProblemDetail
	switch reason {
	case admission.ReasonRateLimited:
		p = httputil.TooManyRequests("Too many failed attempts, try again later")
	case admission.ReasonNotFound, admission.ReasonBadSecret, admission.ReasonExpired:
		p = httputil.Unauthorized("Invalid credentials")
	case admission.ReasonMalformedIdentifier:
		p = httputil.BadRequest("Malformed identifier")
	case admission.ReasonBackendUnavailable:
		p = httputil.ServiceUnavailable("Authentication backend unavailable")
	case admission.ReasonConcurrencyLimit, admission.ReasonDailyLimit, admission.ReasonMonthlyLimit:
		p = httputil.Forbidden("Access limit reached")
	default:
		p = httputil.InternalServerError("An unexpected error occurred")
	}
	return p.WithReason(string(reason))
}
