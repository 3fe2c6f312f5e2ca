package pricing

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"PriceList/pkg/kit"
)

const writeLimitWindow = 60 * time.Second

type HTTPDeps struct {
	Log      *zap.Logger
	Service  string
	Registry *prometheus.Registry

	AllowedOrigins []string

	MetricsEnabled bool
	MetricsToken   string

	// WriteLimitPerMin caps POSTs per client IP; zero disables the limit.
	WriteLimitPerMin int
}

func NewHandler(s *Server, deps HTTPDeps) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}
	if s.Log == nil {
		s.Log = deps.Log
	}

	r := chi.NewRouter()

	setupMiddleware(r, deps)
	setupMetrics(r, deps)

	r.Mount("/", s.Routes(kit.NewIPRateLimiter(deps.WriteLimitPerMin, writeLimitWindow)))
	return r
}

func (s *Server) Routes(writeLimiter *kit.IPRateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.handleReady)

	r.Route("/api/v1", func(api chi.Router) {
		api.With(writeLimiter.Middleware).Post("/prices", s.handleUpsertPrice)
		api.Post("/prices/query", s.handleQueryPrice)
		api.Get("/prices/{productID}", s.handleGetPrice)
		api.With(writeLimiter.Middleware).Post("/promotions", s.handleUpsertPromotion)
	})

	return r
}

func setupMiddleware(r *chi.Mux, deps HTTPDeps) {
	r.Use(chimw.RequestID)
	r.Use(kit.Recoverer)
	r.Use(kit.Logging(deps.Log))

	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(kit.CORS(origins))
}

func setupMetrics(r *chi.Mux, deps HTTPDeps) {
	if deps.Registry == nil {
		return
	}

	metrics := kit.NewMetrics(deps.Registry)
	r.Use(metrics.Middleware(deps.Service, kit.ChiRoutePatternOrPath))

	if !deps.MetricsEnabled {
		return
	}

	r.With(kit.MetricsAuth(deps.MetricsToken)).
		Handle("/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
}
