// Package config はアプリケーション設定を提供する。
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config はアプリケーション設定を保持する
type Config struct {
	// Valkey接続設定
	RedisHost string `envconfig:"REDIS_HOST" required:"true"`
	RedisPort string `envconfig:"REDIS_PORT" required:"true"`
	RedisPass string `envconfig:"REDIS_PASS" required:"true"`

	// HTTP設定
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`

	// RADIUS認証バックエンド設定
	RadiusHost    string `envconfig:"RADIUS_HOST" default:"127.0.0.1"`
	RadiusPort    string `envconfig:"RADIUS_PORT" default:"1812"`
	RadiusSecret  string `envconfig:"RADIUS_SECRET"`
	RadclientPath string `envconfig:"RADCLIENT_PATH" default:"radclient"`

	// NAS連携設定（空の場合はプッシュ無効）
	NasPushURL string `envconfig:"NAS_PUSH_URL"`

	// アドミッション設定
	// true: ストア障害時に制限チェックを不合格扱いにする（fail-closed）
	// false: 検証不能時は許可する（fail-open）
	AdmissionFailClosed bool `envconfig:"ADMISSION_FAIL_CLOSED" default:"false"`

	// ログ設定
	LogLevel      string `envconfig:"LOG_LEVEL" default:"INFO"`
	LogMaskMobile bool   `envconfig:"LOG_MASK_MOBILE" default:"true"`
}

// Load は環境変数から設定を読み込む
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// ValkeyAddr はValkey接続アドレスを "host:port" 形式で返す
func (c *Config) ValkeyAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

// RadiusAddr はRADIUSサーバーアドレスを "host:port" 形式で返す
func (c *Config) RadiusAddr() string {
	return fmt.Sprintf("%s:%s", c.RadiusHost, c.RadiusPort)
}
