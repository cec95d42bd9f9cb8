// Package main はキャプティブポータル認証サーバーのエントリーポイント。
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/arifislam007/eco-public-wifi/internal/admission"
	"github.com/arifislam007/eco-public-wifi/internal/config"
	"github.com/arifislam007/eco-public-wifi/internal/credential"
	"github.com/arifislam007/eco-public-wifi/internal/handler"
	"github.com/arifislam007/eco-public-wifi/internal/nas"
	"github.com/arifislam007/eco-public-wifi/internal/netauth"
	"github.com/arifislam007/eco-public-wifi/internal/policy"
	"github.com/arifislam007/eco-public-wifi/internal/ratelimit"
	"github.com/arifislam007/eco-public-wifi/internal/server"
	"github.com/arifislam007/eco-public-wifi/internal/session"
	"github.com/arifislam007/eco-public-wifi/internal/store"
	"github.com/arifislam007/eco-public-wifi/internal/usage"
)

func main() {
	// 1. 設定読み込み
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// 2. ロガー初期化
	initLogger(cfg)
	logger := slog.Default()

	slog.Info("starting portal-auth",
		"listen_addr", cfg.ListenAddr,
		"log_level", cfg.LogLevel,
		"fail_closed", cfg.AdmissionFailClosed,
	)

	// 3. Valkey接続
	valkeyClient, err := store.NewValkeyClient(cfg)
	if err != nil {
		slog.Error("failed to connect to Valkey",
			"event_id", "VALKEY_CONN_ERR",
			"error", err,
		)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	slog.Info("connected to Valkey", "addr", cfg.ValkeyAddr())

	// 4. ストア生成
	credStore := store.NewCredentialStore(valkeyClient)
	voucherStore := store.NewVoucherStore(valkeyClient)
	otpStore := store.NewOTPStore(valkeyClient)
	mobileStore := store.NewMobileStore(valkeyClient)
	policyStore := store.NewPolicyStore(valkeyClient)
	sessionStore := store.NewSessionStore(valkeyClient)
	usageStore := store.NewUsageStore(valkeyClient)
	attemptStore := store.NewAttemptStore(valkeyClient)

	// 5. ドメインオブジェクト生成
	tracker := session.NewTracker(sessionStore, logger)
	aggregator := usage.NewAggregator(usageStore, logger)
	limiter := ratelimit.NewLimiter(attemptStore, logger)
	policyResolver := policy.NewResolver(policyStore)

	// 認証バックエンドチェーン: 定義順に試行し、利用不可の場合のみ
	// 次段へフォールバックする。ローカルストアが最終フォールバック。
	chain := netauth.NewChain(logger,
		netauth.NewRADIUSStrategy(cfg, logger),
		netauth.NewRadclientStrategy(cfg, logger),
		credential.NewLocalStrategy(credStore),
	)

	voucherAuth := credential.NewVoucherAuthenticator(voucherStore, credStore, policyStore, tracker, logger)
	otpAuth := credential.NewOTPAuthenticator(otpStore, mobileStore, credStore, cfg, logger)
	resolver := credential.NewResolver(chain, voucherAuth, otpAuth)

	// NASプッシュはURL未設定時に無効（nilはインターフェースに包まない）
	var pusher admission.Pusher
	var acctPusher handler.NASPusher
	if nasClient := nas.NewClient(cfg, logger); nasClient != nil {
		pusher = nasClient
		acctPusher = nasClient
	}

	controller := admission.NewController(limiter, tracker, aggregator, pusher, cfg, logger)

	// 6. セッションリーパー起動
	reaperCtx, cancelReaper := context.WithCancel(context.Background())
	defer cancelReaper()
	go tracker.RunReaper(reaperCtx, config.SessionReapInterval)

	// 7. ハンドラー生成
	portalHandler := handler.NewPortalHandler(resolver, policyResolver, controller, limiter, otpAuth, cfg)
	acctHandler := handler.NewAcctHandler(tracker, aggregator, policyResolver, acctPusher)

	// 8. サーバー起動
	srv := server.New(cfg, portalHandler, acctHandler)

	go func() {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// 9. シグナル待機
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	cancelReaper()

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("server stopped")
}

// initLogger はロガーを初期化する。
func initLogger(cfg *config.Config) {
	level := slog.LevelInfo
	switch strings.ToUpper(cfg.LogLevel) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	h := slog.NewJSONHandler(os.Stdout, opts)
	logger := slog.New(h).With("app", "portal-auth")
	slog.SetDefault(logger)
}
