package netauth

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/arifislam007/eco-public-wifi/internal/config"
)

// RadclientStrategy はFreeRADIUS付属のradclientコマンドを介して
// Access-Requestを送信するセカンダリバックエンド。ライブラリ経由の
// プライマリが到達不能な場合の別経路として残している。バイナリ
// 欠如・実行エラー・タイムアウトはUnavailable扱い。
type RadclientStrategy struct {
	binPath string
	addr    string
	secret  string
	timeout time.Duration
	log     *slog.Logger

	// run はテストで差し替えるための実行関数
	run func(ctx context.Context, stdin string, args ...string) (string, error)
}

// NewRadclientStrategy はRadclientStrategyを生成する。
func NewRadclientStrategy(cfg *config.Config, logger *slog.Logger) *RadclientStrategy {
	s := &RadclientStrategy{
		binPath: cfg.RadclientPath,
		addr:    cfg.RadiusAddr(),
		secret:  cfg.RadiusSecret,
		timeout: config.NetauthTimeout,
		log:     logger,
	}
	s.run = s.execRadclient
	return s
}

// ID はバックエンド識別子を返す。
func (s *RadclientStrategy) ID() string {
	return "radclient"
}

// Authenticate はradclientを実行し出力の応答コードで判定する。
func (s *RadclientStrategy) Authenticate(ctx context.Context, username, password string) (Outcome, error) {
	stdin := fmt.Sprintf("User-Name = %q\nUser-Password = %q\n", username, password)

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.run(runCtx, stdin, "-x", s.addr, "auth", s.secret)
	if err != nil {
		// radclientはAccess-Reject受信時も非ゼロ終了するため、
		// 出力に応答コードがあればそれを優先する。
		if outcome, ok := parseRadclientOutput(out); ok {
			return outcome, nil
		}
		return Unavailable, err
	}
	if outcome, ok := parseRadclientOutput(out); ok {
		return outcome, nil
	}
	return Unavailable, fmt.Errorf("radclient: no reply code in output")
}

func (s *RadclientStrategy) execRadclient(ctx context.Context, stdin string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, s.binPath, args...)
	cmd.Stdin = strings.NewReader(stdin)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// parseRadclientOutput は出力から応答コードを読み取る。
func parseRadclientOutput(out string) (Outcome, bool) {
	switch {
	case strings.Contains(out, "Access-Accept"):
		return Accept, true
	case strings.Contains(out, "Access-Reject"):
		return Reject, true
	default:
		return Unavailable, false
	}
}
