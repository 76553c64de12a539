package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/contentadmin/internal/middleware"
	"github.com/hitoshi/contentadmin/internal/model"
)

// HealthChecker はデータベースの疎通確認に必要なインターフェース。*sql.DBが実装する。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// healthCheckTimeout は/healthでの疎通確認のタイムアウト。
const healthCheckTimeout = 2 * time.Second

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	HealthChecker     HealthChecker
	SessionFinder     middleware.SessionFinder
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	Logger            *slog.Logger

	// メトリクス
	StatusRecorder middleware.StatusRecorder
	MetricsHandler http.Handler

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// コンテンツ
	Store   ContentStore
	Notices NoticeSource

	// アップロード
	Uploader      Uploader
	UploadMaxSize int64
	MediaDir      string
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → RealIP → Recovery → Logging → Metrics → SecurityHeaders → CORS
//	  /api/*: Session → RateLimit(General) → CSRF
//
// 認証ルート（/auth/*）はセッション必須のグループの外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewLoggingMiddleware(logger))
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.StatusRecorder))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware(middleware.SecurityHeadersConfig{HSTS: deps.CSRFConfig.CookieSecure}))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService, deps.AuthConfig)
	contentHandler := NewContentHandler(deps.Store)
	noticeHandler := NewNoticeHandler(deps.Notices)
	uploadHandler := NewUploadHandler(deps.Uploader, deps.UploadMaxSize)

	// --- 認証不要のルート ---

	r.Get("/health", healthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}
	if deps.MediaDir != "" {
		r.Handle("/media/*", http.StripPrefix("/media/", http.FileServer(http.Dir(deps.MediaDir))))
	}

	r.Route("/auth", func(r chi.Router) {
		r.With(deps.RateLimiter.LoginMiddleware()).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
		r.Method(http.MethodGet, "/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))
	})

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General) → CSRF
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		r.Get("/dashboard", contentHandler.Dashboard)
		r.Get("/notices", noticeHandler.Drain)

		// 購読者
		r.Route("/subscribers", func(r chi.Router) {
			r.Get("/", contentHandler.ListSubscribers)
			r.Post("/refresh", contentHandler.RefreshSubscribers)
			r.Get("/export", contentHandler.Export(model.KindSubscribers))
		})

		// 記事
		r.Route("/articles", func(r chi.Router) {
			r.Get("/", contentHandler.ListArticles)
			r.Post("/", contentHandler.CreateArticle)
			r.Post("/refresh", contentHandler.RefreshArticles)
			r.Get("/export", contentHandler.Export(model.KindArticles))

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", contentHandler.UpdateArticle)
				r.Put("/status", contentHandler.SetArticleStatus)
			})
		})

		// イベントと参加申込
		r.Route("/events", func(r chi.Router) {
			r.Get("/", contentHandler.ListEvents)
			r.Post("/", contentHandler.CreateEvent)
			r.Post("/refresh", contentHandler.RefreshEvents)
			r.Get("/export", contentHandler.Export(model.KindEvents))

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", contentHandler.UpdateEvent)
				r.Put("/status", contentHandler.SetEventStatus)

				r.Get("/signups", contentHandler.ListEventSignups)
				r.Post("/signups/refresh", contentHandler.RefreshEventSignups)
				r.Get("/signups/export", contentHandler.ExportEventSignups)
			})
		})

		// バナー
		r.Route("/banners", func(r chi.Router) {
			r.Get("/", contentHandler.ListBanners)
			r.Post("/", contentHandler.CreateBanner)
			r.Post("/refresh", contentHandler.RefreshBanners)
			r.Get("/export", contentHandler.Export(model.KindBanners))

			r.Route("/{id}", func(r chi.Router) {
				r.Patch("/", contentHandler.UpdateBanner)
				r.Put("/status", contentHandler.SetBannerStatus)
				r.Delete("/", contentHandler.DeleteBanner)
			})
		})

		// 画像アップロード
		r.Post("/uploads", uploadHandler.Upload)
		r.Delete("/uploads", uploadHandler.Delete)
	})

	return r
}

// healthHandler はデータベースへの疎通を確認するヘルスチェックハンドラーを返す。
// GET /health
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]string{"status": "ok"}
		if checker != nil {
			ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
			defer cancel()
			if err := checker.PingContext(ctx); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSON(w, http.StatusOK, status)
	}
}
