package server

import (
	"github.com/gin-gonic/gin"

	"github.com/arifislam007/eco-public-wifi/internal/handler"
)

// SetupRouter はルーティングを設定する。
func SetupRouter(engine *gin.Engine, portal *handler.PortalHandler, acct *handler.AcctHandler) {
	// ヘルスチェック
	engine.GET("/health", portal.HandleHealth)

	// API v1
	v1 := engine.Group("/api/v1")
	{
		v1.POST("/login", portal.HandleLogin)
		v1.POST("/voucher", portal.HandleVoucher)
		v1.POST("/otp/request", portal.HandleOTPRequest)
		v1.POST("/otp/verify", portal.HandleOTPVerify)
		v1.POST("/acct", acct.HandleAcct)
	}
}
