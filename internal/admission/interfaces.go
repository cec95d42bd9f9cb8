package admission

//go:generate mockgen -source=interfaces.go -destination=mock_interfaces.go -package=admission

import (
	"context"

	"github.com/arifislam007/eco-public-wifi/internal/nas"
	"github.com/arifislam007/eco-public-wifi/internal/session"
	"github.com/arifislam007/eco-public-wifi/internal/usage"
)

// RateGate は送信元IP単位のレート制限判定を定義する。
type RateGate interface {
	Allow(ctx context.Context, srcIP string) error
}

// SessionGate はセッションの登録と生存数の参照を定義する。
type SessionGate interface {
	CountLive(ctx context.Context, username string) (int, error)
	Register(ctx context.Context, username, ipAddr, macAddr string) (*session.Session, error)
}

// UsageReader は使用量カウンターの参照を定義する。
type UsageReader interface {
	DailyUsage(ctx context.Context, username string) (*usage.Counter, error)
	MonthlyUsage(ctx context.Context, username string) (*usage.Counter, error)
	RecordSessionStart(ctx context.Context, username string) error
}

// Pusher はNASへの帯域設定適用を定義する。
type Pusher interface {
	Push(ctx context.Context, req *nas.PushRequest) error
}
