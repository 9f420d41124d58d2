package router

import (
	reviewhandler "mailtrade_backend/internal/feature/review/transport/handler"
	"mailtrade_backend/internal/platform/http/handler"
	jwtmw "mailtrade_backend/internal/platform/jwt"

	"github.com/gin-gonic/gin"
)

func NewRouter(review *reviewhandler.ReviewHandler) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)

	// 認証必須のルート
	// r.Group("/") でルートグループを作成
	auth := r.Group("/")
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth.Use(jwtmw.AuthRequired())
	{
		auth.GET("/review", review.List)
		auth.POST("/review/:id/approve", review.Approve)
		auth.POST("/review/:id/reject", review.Reject)
	}

	return r
}
