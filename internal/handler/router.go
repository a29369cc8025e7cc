package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/savorspot/internal/middleware"
)

// MetricsRecorder はハンドラー層が必要とするメトリクス記録インターフェース。
type MetricsRecorder interface {
	FoodCreationRecorder
	OrderPlacementRecorder
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	HTTPMetrics       middleware.HTTPMetricsRecorder

	// 認証
	TokenIssuer TokenIssuer
	AuthConfig  AuthHandlerConfig

	// ドメインサービス
	FoodService  FoodServiceInterface
	OrderService OrderServiceInterface

	// 運用
	HealthChecker  HealthChecker
	MetricsHandler http.Handler
	Metrics        MetricsRecorder
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	CORS → SecurityHeaders → Logging → Recovery → Metrics → RateLimit(General)
//
// /my-added-foods と /ordered-foods のみ Session → OwnershipGuard を追加で通す。
// 注文系の書き込みルートには注文専用レート制限を追加で適用する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	// CORS ミドルウェアを最上位に適用（全ルートに効く）
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(middleware.NewRecoveryMiddleware())
	if deps.HTTPMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.HTTPMetrics))
	}
	if deps.RateLimiter != nil {
		r.Use(deps.RateLimiter.GeneralMiddleware())
	}

	authHandler := NewAuthHandler(deps.TokenIssuer, deps.AuthConfig)
	foodHandler := NewFoodHandler(deps.FoodService, deps.Metrics)
	orderHandler := NewOrderHandler(deps.OrderService, deps.Metrics)
	healthHandler := NewHealthHandler(deps.HealthChecker)

	// --- 運用ルート ---

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("savorSpot Cafe Server is running now"))
	})
	r.Get("/health", healthHandler.Health)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- トークン発行・破棄 ---

	r.Post("/jwt", authHandler.IssueToken)
	r.Get("/logout", authHandler.Logout)

	// --- 認証不要の公開ルート ---

	r.Get("/all-foods", foodHandler.ListAllFoods)
	r.Get("/top-foods", foodHandler.ListTopFoods)
	r.Get("/special-menu", foodHandler.ListSpecialMenu)
	r.Get("/single-food/{id}", foodHandler.GetSingleFood)
	r.Post("/add-food", foodHandler.AddFood)
	r.Put("/update-food/{id}", foodHandler.UpdateFood)

	// 注文系の書き込みルート（注文専用レート制限を追加）
	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.OrderMiddleware())
		}
		r.Put("/order-food/{id}", orderHandler.PlaceOrder)
		r.Patch("/update-quantity/{id}", orderHandler.UpdateQuantity)
		r.Delete("/delete-food/{id}", orderHandler.DeleteOrder)
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → OwnershipGuard
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.TokenVerifier))
		r.Use(middleware.NewOwnershipGuard())

		r.Get("/my-added-foods", foodHandler.ListMyAddedFoods)
		r.Get("/ordered-foods", orderHandler.ListOrderedFoods)
	})

	return r
}
