package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"jobboard/internal/admin"
	"jobboard/internal/applications"
	"jobboard/internal/auth"
	"jobboard/internal/config"
	"jobboard/internal/http/handler"
	mw "jobboard/internal/http/middleware"
	"jobboard/internal/jobs"
)

// Deps are the services the router dispatches to.
type Deps struct {
	Config       config.Config
	Logger       *slog.Logger
	JWT          *auth.JWT
	Users        auth.UserLookup
	Auth         *auth.Service
	Jobs         *jobs.Service
	Applications *applications.Service
	Admin        *admin.Service
	// Limiter throttles credential endpoints; nil disables it.
	Limiter mw.Limiter
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	if d.Logger != nil {
		r.Use(mw.Logging(d.Logger))
	}
	r.Use(chimw.Recoverer)

	if len(d.Config.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(d.Config.CORSAllowedOrigins, d.Config.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	requireAuth := auth.RequireAuth(d.JWT, d.Users)
	employers := auth.RequireRole(auth.RoleEmployer, auth.RoleAdmin)
	seekers := auth.RequireRole(auth.RoleSeeker)

	ah := &handler.AuthHandler{Svc: d.Auth}
	jh := &handler.JobHandler{Svc: d.Jobs}
	aph := &handler.ApplicationHandler{Svc: d.Applications}
	adm := &handler.AdminHandler{Svc: d.Admin, Jobs: d.Jobs}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(mw.RateLimit(d.Limiter, "rl:register:")).Post("/register", ah.Register)
			r.With(mw.RateLimit(d.Limiter, "rl:login:")).Post("/login", ah.Login)
			r.With(requireAuth).Get("/me", ah.Me)
		})

		r.Route("/jobs", func(r chi.Router) {
			r.Get("/", jh.List)
			r.Get("/{id}", jh.Get)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)

				r.With(employers).Post("/", jh.Create)
				r.With(employers).Put("/{id}", jh.Update)
				r.With(employers).Delete("/{id}", jh.Delete)

				r.With(seekers).Post("/{id}/apply", aph.Apply)
				r.With(employers).Get("/{id}/applications", aph.ForJob)
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)

			r.With(employers).Get("/myjobs", jh.Mine)
			r.With(seekers).Get("/my-applications", aph.Mine)
			r.With(employers).Put("/applications/{id}/status", aph.UpdateStatus)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(auth.RequireRole(auth.RoleAdmin))

			r.Get("/users", adm.Users)
			r.Put("/users/{id}/role", adm.UpdateRole)
			r.Get("/pending-jobs", adm.PendingJobs)
			r.Put("/jobs/{id}/approve", adm.ApproveJob)
			r.Get("/dashboard/stats", adm.Stats)
			r.Get("/reports", adm.Reports)
		})
	})

	return r
}
