// Package store はValkeyへのデータアクセスを提供する。
package store

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/arifislam007/eco-public-wifi/internal/config"
)

// ValkeyClient は認証・セッション・使用量の各ストアが共有する
// Valkey接続のラッパー。
type ValkeyClient struct {
	client *redis.Client
}

// NewValkeyClient はValkeyへ接続し、疎通確認まで行って返す。
// Pingに失敗した場合は接続を返さない（起動時に落とす）。
func NewValkeyClient(cfg *config.Config) (*ValkeyClient, error) {
	opts := &redis.Options{
		Addr:            cfg.ValkeyAddr(),
		Password:        cfg.RedisPass,
		DB:              0,
		DialTimeout:     config.ValkeyConnectTimeout,
		ReadTimeout:     config.ValkeyCommandTimeout,
		WriteTimeout:    config.ValkeyCommandTimeout,
		PoolSize:        config.ValkeyPoolSize,
		MinIdleConns:    2,
		MaxRetries:      config.ValkeyMaxRetries,
		MinRetryBackoff: config.ValkeyMinRetryDelay,
		MaxRetryBackoff: config.ValkeyMaxRetryDelay,
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), config.ValkeyConnectTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{client: client}, nil
}

// Close は接続を閉じる。
func (v *ValkeyClient) Close() error {
	return v.client.Close()
}

// Client は内部のredis.Clientを返す。WATCHやパイプラインなど
// 生のコマンドが必要なストア実装が使う。
func (v *ValkeyClient) Client() *redis.Client {
	return v.client
}
