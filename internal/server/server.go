// Package server はHTTPサーバーの構築と起動を提供する。
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arifislam007/eco-public-wifi/internal/config"
	"github.com/arifislam007/eco-public-wifi/internal/handler"
)

// Server はHTTPサーバーを表す。
type Server struct {
	srv *http.Server
}

// New は新しいServerを生成する。
func New(cfg *config.Config, portal *handler.PortalHandler, acct *handler.AcctHandler) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(TraceIDMiddleware())
	engine.Use(LoggingMiddleware())
	engine.Use(RecoveryMiddleware())

	SetupRouter(engine, portal, acct)

	return &Server{
		srv: &http.Server{
			Addr:    cfg.ListenAddr,
			Handler: engine,
		},
	}
}

// Run はサーバーを起動する。
func (s *Server) Run() error {
	return s.srv.ListenAndServe()
}

// Shutdown はサーバーを停止する。
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
