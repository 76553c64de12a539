package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/time/rate"

	"github.com/hitoshi/contentadmin/internal/auth"
	"github.com/hitoshi/contentadmin/internal/config"
	"github.com/hitoshi/contentadmin/internal/csvexport"
	"github.com/hitoshi/contentadmin/internal/database"
	"github.com/hitoshi/contentadmin/internal/handler"
	"github.com/hitoshi/contentadmin/internal/logger"
	"github.com/hitoshi/contentadmin/internal/metrics"
	"github.com/hitoshi/contentadmin/internal/middleware"
	"github.com/hitoshi/contentadmin/internal/model"
	"github.com/hitoshi/contentadmin/internal/repository"
	"github.com/hitoshi/contentadmin/internal/security"
	"github.com/hitoshi/contentadmin/internal/store"
	"github.com/hitoshi/contentadmin/internal/upload"
	"github.com/hitoshi/contentadmin/internal/worker/cleanup"
)

const (
	shutdownTimeout = 30 * time.Second
	warmUpTimeout   = 30 * time.Second
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 3. ログレベルの反映
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// argsにはos.Args[1:]を渡す。サブコマンドが省略された場合はserveとして起動する。
func Run(w io.Writer, args []string) error {
	root := NewRootCommand(w)
	root.SetArgs(args)
	return root.Execute()
}

// openDatabase はDB接続を開き、疎通を確認する。
func openDatabase(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	db, err := database.OpenWithPool(cfg.DatabaseURL, database.PoolConfig{MaxOpenConns: cfg.DBMaxOpenConns})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	slog.Info("database connection established")
	return db, nil
}

// newRepositories はStoreが利用するPostgreSQLリポジトリ群を生成する。
func newRepositories(db *sql.DB) store.Repositories {
	return store.Repositories{
		Subscribers:  repository.NewPostgresSubscriberRepo(db),
		Articles:     repository.NewPostgresArticleRepo(db),
		Events:       repository.NewPostgresEventRepo(db),
		EventSignups: repository.NewPostgresEventSignupRepo(db),
		Banners:      repository.NewPostgresBannerRepo(db),
	}
}

// rateLimiterConfig は設定値（req/min）をRateLimiterConfig（req/sec）に変換する。
func rateLimiterConfig(cfg *config.Config) middleware.RateLimiterConfig {
	rl := middleware.DefaultRateLimiterConfig()
	rl.GeneralRate = rate.Limit(float64(cfg.RateLimitGeneral) / 60.0)
	rl.GeneralBurst = cfg.RateLimitGeneral
	rl.LoginRate = rate.Limit(float64(cfg.RateLimitLogin) / 60.0)
	rl.LoginBurst = cfg.RateLimitLogin
	return rl
}

// runServe はAPIサーバーモードで起動する。
// DB接続を開き、全依存関係をワイヤリングし、HTTPサーバーを起動する。
// ctxがキャンセルされるとグレースフルシャットダウンを行う。
func runServe(ctx context.Context, cfg *config.Config) error {
	// 1. DB接続
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	// 2. メトリクス
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	// 3. エンティティストア
	sessionRepo := repository.NewPostgresSessionRepo(db)
	notices := store.NewNoticeBoard(0)
	contentStore := store.New(newRepositories(db), notices, security.NewContentSanitizer(), collector)

	// 4. アップロード
	storage := upload.NewLocalStorage(cfg.UploadDir, cfg.UploadPublicURL)
	uploader := upload.NewUploader(storage, cfg.UploadMaxSize, collector)

	// 5. 認証
	authService := auth.NewService(sessionRepo, auth.ServiceConfig{
		AdminEmail:        cfg.AdminEmail,
		AdminPasswordHash: cfg.AdminPasswordHash,
		SessionMaxAge:     cfg.SessionMaxAge,
	})

	rateLimiter := middleware.NewRateLimiter(rateLimiterConfig(cfg))
	defer rateLimiter.Stop()

	// 6. ルーターの構築
	router := handler.NewRouter(&handler.RouterDeps{
		HealthChecker:     db,
		SessionFinder:     sessionRepo,
		CORSAllowedOrigin: cfg.CORSAllowedOrigin,
		RateLimiter:       rateLimiter,
		CSRFConfig: middleware.CSRFConfig{
			CookieSecure: cfg.CookieSecure,
			CookieDomain: cfg.CookieDomain,
		},
		Logger: slog.Default(),

		StatusRecorder: collector,
		MetricsHandler: metrics.Handler(registry),

		AuthService: authService,
		AuthConfig: handler.AuthHandlerConfig{
			CookieDomain:  cfg.CookieDomain,
			CookieSecure:  cfg.CookieSecure,
			SessionMaxAge: cfg.SessionMaxAge,
		},

		Store:   contentStore,
		Notices: notices,

		Uploader:      uploader,
		UploadMaxSize: cfg.UploadMaxSize,
		MediaDir:      storage.Dir(),
	})

	// 7. キャッシュのウォームアップ。失敗してもサーバーは起動する
	warmCtx, cancelWarm := context.WithTimeout(ctx, warmUpTimeout)
	if err := contentStore.RefreshAll(warmCtx); err != nil {
		slog.Warn("initial cache warm-up failed", slog.String("error", err.Error()))
	}
	cancelWarm()
	// ウォームアップ中の通知は管理画面に届ける必要がない
	notices.Drain()

	// 8. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("API server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server listen error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down API server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("API server stopped gracefully")
	return nil
}

// runWorker はワーカーモードで起動する。
// 期限切れセッションのクリーンアップを起動直後と一定間隔で実行する。
// ctxがキャンセルされるまでブロックする。
func runWorker(ctx context.Context, cfg *config.Config) error {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	job := cleanup.NewCleanupJob(repository.NewPostgresSessionRepo(db), slog.Default(), cfg.SessionCleanupInterval)

	slog.Info("worker starting",
		slog.Duration("cleanup_interval", job.Interval),
	)

	job.Start(ctx)

	slog.Info("worker stopped gracefully")
	return nil
}

// runMigrate はデータベースマイグレーションを実行する。
// すべての未適用マイグレーションを順番に適用する。
func runMigrate(cfg *config.Config) error {
	slog.Info("running database migrations",
		slog.String("database_url", maskDatabaseURL(cfg.DatabaseURL)),
	)

	res, err := database.RunMigrations(cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	if !res.Applied() {
		slog.Info("database schema is up to date", slog.Uint64("version", uint64(res.After)))
		return nil
	}
	slog.Info("database migrations completed successfully",
		slog.Uint64("from_version", uint64(res.Before)),
		slog.Uint64("to_version", uint64(res.After)),
	)
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}

// ExportOptions はexportコマンドの入力。
type ExportOptions struct {
	Kind    model.Kind
	Query   string
	EventID string // KindEventSignupsのときのみ必須
	Out     string // 空なら標準出力、ディレクトリなら既定のファイル名で書き出す
}

// Fetcher はexportが利用するストアの取得操作。
type Fetcher interface {
	csvexport.Source
	FetchSubscribers(ctx context.Context) store.Result[[]model.Subscriber]
	FetchArticles(ctx context.Context) store.Result[[]model.Article]
	FetchEvents(ctx context.Context) store.Result[[]model.Event]
	FetchEventSignups(ctx context.Context, eventID string) store.Result[[]model.EventSignup]
	FetchBanners(ctx context.Context) store.Result[[]model.Banner]
}

var _ Fetcher = (*store.Store)(nil)

// runExport はDBから指定種別を取得し、CSVを書き出す。
func runExport(ctx context.Context, cfg *config.Config, opts ExportOptions, stdout io.Writer) error {
	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	return exportCSV(ctx, store.New(newRepositories(db), nil, nil, nil), opts, stdout, time.Now())
}

// exportCSV はストアから一覧を取得してCSVに変換し、出力先に書き込む。
func exportCSV(ctx context.Context, s Fetcher, opts ExportOptions, stdout io.Writer, now time.Time) error {
	if err := fetchKind(ctx, s, opts.Kind, opts.EventID); err != nil {
		return err
	}

	out, err := csvexport.Export(s, opts.Kind, opts.Query)
	if err != nil {
		return err
	}

	if opts.Out == "" {
		_, err := io.WriteString(stdout, out)
		return err
	}

	path := opts.Out
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, csvexport.FileName(opts.Kind, now))
	}
	if err := os.WriteFile(path, []byte(out), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	slog.Info("export written",
		slog.String("kind", string(opts.Kind)),
		slog.String("path", path),
	)
	return nil
}

// fetchKind は種別ごとの取得操作を呼び出し、失敗をエラーに変換する。
func fetchKind(ctx context.Context, s Fetcher, kind model.Kind, eventID string) error {
	var msg string
	switch kind {
	case model.KindSubscribers:
		msg = s.FetchSubscribers(ctx).Error
	case model.KindArticles:
		msg = s.FetchArticles(ctx).Error
	case model.KindEvents:
		msg = s.FetchEvents(ctx).Error
	case model.KindEventSignups:
		if eventID == "" {
			return errors.New("--event is required for event_signups")
		}
		msg = s.FetchEventSignups(ctx, eventID).Error
	case model.KindBanners:
		msg = s.FetchBanners(ctx).Error
	default:
		return fmt.Errorf("unsupported export kind: %s", kind)
	}
	if msg != "" {
		return errors.New(msg)
	}
	return nil
}

// maskDatabaseURL はデータベースURLの認証情報をマスクする。
func maskDatabaseURL(url string) string {
	if len(url) > 20 {
		return url[:12] + "***@..."
	}
	return "***"
}
