package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hitoshi/jobboard/internal/authz"
	"github.com/hitoshi/jobboard/internal/metrics"
	"github.com/hitoshi/jobboard/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	TokenVerifier     middleware.TokenVerifier
	CORSAllowedOrigin string
	RateLimiter       *middleware.RateLimiter
	Metrics           middleware.HTTPRecorder // nilの場合は記録しない
	MetricsHandler    http.Handler
	HealthChecker     HealthChecker

	// サービス
	AuthService        AuthServiceInterface
	ProfileService     ProfileServiceInterface
	JobService         JobServiceInterface
	CompanyService     CompanyServiceInterface
	ApplicationService ApplicationServiceInterface
	SavedJobService    SavedJobServiceInterface
	AnalyticsService   AnalyticsServiceInterface
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Identity → Logging → Metrics → Recovery → SecurityHeaders → CORS
//	  /api/*: RateLimit(General) → [RateLimit(Auth)] → RequireOperation → Handler
//
// レート制限のIPキーは接続元のRemoteAddrを使い、X-Forwarded-For等のヘッダーは信用しない。
// IdentityはLoggingより前に置き、アクセスログにuser_idを記録できるようにする。
// RecoveryはLoggingより内側に置き、panicによる500もアクセスログに残す。
func NewRouter(deps *RouterDeps) http.Handler {
	recorder := deps.Metrics
	if recorder == nil {
		recorder = metrics.Nop{}
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.NewIdentityMiddleware(deps.TokenVerifier))
	r.Use(middleware.NewLoggingMiddleware(slog.Default()))
	r.Use(middleware.NewMetricsMiddleware(recorder))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	authHandler := NewAuthHandler(deps.AuthService)
	userHandler := NewUserHandler(deps.ProfileService)
	jobHandler := NewJobHandler(deps.JobService)
	companyHandler := NewCompanyHandler(deps.CompanyService)
	appHandler := NewApplicationHandler(deps.ApplicationService)
	savedHandler := NewSavedJobHandler(deps.SavedJobService)
	analyticsHandler := NewAnalyticsHandler(deps.AnalyticsService)

	op := middleware.RequireOperation

	// --- 運用エンドポイント（レート制限なし） ---
	r.Get("/health", healthHandler(deps.HealthChecker))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(deps.RateLimiter.GeneralMiddleware())

		// 認証（登録・ログインは専用レート制限を追加）
		r.Route("/auth", func(r chi.Router) {
			r.With(deps.RateLimiter.AuthMiddleware()).Post("/register", authHandler.Register)
			r.With(deps.RateLimiter.AuthMiddleware()).Post("/login", authHandler.Login)
			r.With(op(authz.OpGetProfile)).Get("/me", userHandler.Me)
			r.With(op(authz.OpUpdateProfile)).Patch("/me", userHandler.UpdateMe)
		})

		// 企業（公開）
		r.Route("/companies", func(r chi.Router) {
			r.With(op(authz.OpListCompanies)).Get("/", companyHandler.List)
			r.With(op(authz.OpGetCompany)).Get("/{id}", companyHandler.Get)
		})

		// 求人
		r.Route("/jobs", func(r chi.Router) {
			r.With(op(authz.OpListJobs)).Get("/", jobHandler.List)
			r.With(op(authz.OpCreateJob)).Post("/", jobHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.With(op(authz.OpGetJob)).Get("/", jobHandler.Get)
				r.With(op(authz.OpUpdateJob)).Put("/", jobHandler.Update)
				r.With(op(authz.OpUpdateJob)).Patch("/", jobHandler.Update)
				r.With(op(authz.OpDeleteJob)).Delete("/", jobHandler.Delete)
				r.With(op(authz.OpListJobApplications)).Get("/applications", appHandler.ListByJob)
			})
		})

		// 応募
		r.Route("/applications", func(r chi.Router) {
			r.With(op(authz.OpApplyToJob)).Post("/", appHandler.Apply)
			r.With(op(authz.OpListMyApplications)).Get("/me", appHandler.ListMine)
			r.With(op(authz.OpUpdateApplicationStatus)).Put("/{id}/status", appHandler.UpdateStatus)
		})

		// 保存済み求人
		r.Route("/saved-jobs", func(r chi.Router) {
			r.With(op(authz.OpListSavedJobs)).Get("/", savedHandler.List)
			r.With(op(authz.OpSaveJob)).Post("/{jobId}", savedHandler.Save)
			r.With(op(authz.OpUnsaveJob)).Delete("/{jobId}", savedHandler.Unsave)
		})

		// 分析（管理者）
		r.With(op(authz.OpViewAnalytics)).Get("/analytics/overview", analyticsHandler.Overview)
	})

	return r
}
