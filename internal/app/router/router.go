// Package router はアプリケーションのHTTPルーティングを定義します。
package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	authhandler "cosmetics_store/internal/feature/auth/transport/handler"
	cataloghandler "cosmetics_store/internal/feature/catalog/transport/handler"
	synchandler "cosmetics_store/internal/feature/catalogsync/transport/handler"
	shophandler "cosmetics_store/internal/feature/shop/transport/handler"
	usershandler "cosmetics_store/internal/feature/users/transport/handler"
	"cosmetics_store/internal/platform/http/handler"
	"cosmetics_store/internal/platform/http/middleware"
	jwtmw "cosmetics_store/internal/platform/jwt"
)

// Handlers はルーターに登録するハンドラー一式です。
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *authhandler.AuthHandler
	Catalog *cataloghandler.CatalogHandler
	Shop    *shophandler.ShopHandler
	Users   *usershandler.UsersHandler
	Sync    *synchandler.SyncHandler
}

// Options はルーター全体の設定です。
type Options struct {
	JWTSecret   string
	CORSOrigins []string
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{middleware.HeaderRequestID},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

func NewRouter(h Handlers, opts Options) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), cors.New(corsConfig(opts.CORSOrigins)))

	// 認証不要
	// 導通確認用
	r.GET("/healthz", h.Health.Health)
	// 新規ユーザー登録（/register は旧クライアント向けの別名）
	r.POST("/auth/register", h.Auth.Register)
	r.POST("/register", h.Auth.Register)
	// ログイン（JWT 発行）
	r.POST("/auth/login", h.Auth.Login)
	r.POST("/login", h.Auth.Login)
	// カタログ閲覧
	r.GET("/cosmetics", h.Catalog.List)
	r.GET("/cosmetics/:id", h.Catalog.Get)

	// 認証必須のルート
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(opts.JWTSecret))
	{
		auth.GET("/auth/me", h.Auth.Me)
		auth.GET("/me", h.Auth.Me)

		auth.POST("/shop/buy", h.Shop.Buy)
		auth.POST("/shop/return", h.Shop.Refund)
		auth.POST("/shop/refund", h.Shop.Refund)
		auth.GET("/shop/purchases", h.Shop.Purchases)
		auth.GET("/shop/history", h.Shop.History)
		auth.GET("/history", h.Shop.History)

		auth.GET("/users", h.Users.List)
		auth.GET("/users/:id", h.Users.Get)

		auth.POST("/admin/sync", h.Sync.Sync)
	}

	return r
}
