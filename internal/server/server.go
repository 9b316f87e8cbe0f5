// Package server assembles the HTTP handler tree.
package server

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/billsplit/internal/auth"
	"github.com/mmynk/billsplit/internal/bill"
	"github.com/mmynk/billsplit/internal/extract"
	"github.com/mmynk/billsplit/internal/handlers"
	"github.com/mmynk/billsplit/internal/metrics"
	"github.com/mmynk/billsplit/internal/middleware"
	"github.com/mmynk/billsplit/internal/rpc"
	"github.com/mmynk/billsplit/internal/service"
)

// Deps are the collaborators the handler tree is built from.
type Deps struct {
	Logger    *slog.Logger
	Sessions  *bill.Registry
	Tokens    *auth.TokenManager
	Extractor extract.Extractor
	Metrics   *metrics.Metrics
	// Gatherer backs /metrics. Nil disables the endpoint.
	Gatherer prometheus.Gatherer

	StaticPath     string
	CORSOrigins    []string
	MaxUploadBytes int64
}

// New returns the root handler: chi routes wrapped with h2c so Connect
// clients can use HTTP/2 without TLS.
func New(d Deps) http.Handler {
	return h2c.NewHandler(Router(d), &http2.Server{})
}

// Router builds the chi router.
func Router(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(d.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept", "Authorization", "Content-Type",
			"Connect-Protocol-Version", "Connect-Timeout-Ms",
		},
		ExposedHeaders:   []string{"Connect-Protocol-Version", "Connect-Timeout-Ms"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	healthHandler := handlers.NewHealthHandler(d.Logger, d.Sessions.Len)
	scanHandler := handlers.NewScanHandler(d.Extractor, d.MaxUploadBytes, d.Metrics, d.Logger)
	saveHandler := handlers.NewSaveHandler(d.Logger)

	r.Get("/health", healthHandler.ServeHTTP)
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(90 * time.Second))
		r.Post("/scan-bill", scanHandler.ScanBill)
		r.Post("/save-bill", saveHandler.SaveBill)
	})

	interceptors := []connect.Interceptor{}
	if d.Metrics != nil {
		interceptors = append(interceptors, middleware.MetricsInterceptor(d.Metrics))
	}
	interceptors = append(interceptors,
		middleware.RequireSession(d.Tokens, rpc.BillServiceCreateSessionProcedure),
		middleware.LoggingInterceptor(),
	)
	rpcPath, rpcHandler := rpc.NewBillServiceHandler(
		service.NewBillService(d.Sessions, d.Tokens),
		connect.WithInterceptors(interceptors...),
	)
	r.Handle(rpcPath+"*", rpcHandler)

	if d.StaticPath != "" {
		r.Get("/*", staticHandler(d.StaticPath, d.Logger))
	}

	return r
}

// staticHandler serves the front-end, falling back to index.html for
// unknown paths.
func staticHandler(root string, logger *slog.Logger) http.HandlerFunc {
	staticDir, err := filepath.Abs(root)
	if err != nil {
		staticDir = root
	}
	logger.Info("Serving static files", "path", staticDir)

	return func(w http.ResponseWriter, r *http.Request) {
		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(staticDir, filepath.Clean("/"+urlPath))
		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(staticDir, "index.html"))
			return
		}

		http.ServeFile(w, r, filePath)
	}
}
