package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mkarvo/profile-api/internal/apperr"
	"github.com/mkarvo/profile-api/internal/config"
	"github.com/mkarvo/profile-api/internal/http/health"
	"github.com/mkarvo/profile-api/internal/http/v1/routes"
	appmiddleware "github.com/mkarvo/profile-api/internal/middleware"
	"github.com/mkarvo/profile-api/internal/platform/auth"
	"github.com/mkarvo/profile-api/internal/platform/firebase"
	applog "github.com/mkarvo/profile-api/internal/platform/logging"
	profilesvc "github.com/mkarvo/profile-api/internal/service/profile"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	cfg := config.Load()
	applog.SetDebug(cfg.Debug)
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	apperr.Install()

	ctx := context.Background()
	verifier, store, closeClients := buildDependencies(ctx, cfg)
	defer closeClients()

	router := chi.NewRouter()

	// Request guard stack, outermost first: logging scope, body size limit,
	// security headers. The limiter must run before any handler reads the
	// body; the header injector only annotates responses.
	router.Use(
		appmiddleware.RequestID(),
		// RealIP trusts X-Forwarded-For; only valid behind a trusted proxy.
		chimiddleware.RealIP,
		// Route /profile and /profile/ identically.
		chimiddleware.StripSlashes,
		applog.RequestLogger(cfg.FirebaseProjectID),
		applog.AccessLogger(),
		appmiddleware.BodyLimit(cfg.MaxRequestSize),
		appmiddleware.Security(cfg.Debug),
		appmiddleware.Vary(),
		appmiddleware.CORS(cfg.CORSOrigins),
		appmiddleware.Recoverer(),
	)

	router.Get("/health", health.Handler)

	humaCfg := huma.DefaultConfig("Profile API", Version)
	humaCfg.DocsPath = "/api-docs"
	api := humachi.New(router, humaCfg)

	routes.Register(api, verifier, store)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			listenErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		applog.LogError(context.Background(), "listen failed", err, zap.String("addr", srv.Addr))
		os.Exit(1)
	case <-stop:
		applog.LogInfo(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		applog.LogError(shutdownCtx, "server shutdown error", err)
	}
	applog.LogInfo(context.Background(), "server exited")
}

// buildDependencies wires the long-lived clients. With a configured project
// the verifier and store run against Firebase; without one, debug mode gets
// an in-memory store and a permissive verifier so the service can run
// locally, and production refuses to start.
func buildDependencies(ctx context.Context, cfg config.Config) (auth.Verifier, profilesvc.Service, func()) {
	if cfg.FirebaseProjectID == "" {
		if !cfg.Debug {
			applog.LogError(ctx, "FIREBASE_PROJECT_ID is required outside debug mode", nil)
			os.Exit(1)
		}
		applog.LogWarn(ctx, "no Firebase project configured, using in-memory store and mock verifier")
		return &auth.MockVerifier{Principal: auth.TestPrincipal()}, profilesvc.NewMemoryStore(), func() {}
	}

	clients, err := firebase.NewClients(ctx, firebase.Config{
		ProjectID:       cfg.FirebaseProjectID,
		CredentialsFile: cfg.GoogleApplicationCredentials,
	})
	if err != nil {
		applog.LogError(ctx, "firebase initialization failed", err)
		os.Exit(1)
	}

	closeClients := func() {
		if err := clients.Close(); err != nil {
			applog.LogError(context.Background(), "firebase client close error", err)
		}
	}
	return auth.NewFirebaseVerifier(clients.Auth), profilesvc.NewFirestoreStore(clients.Firestore), closeClients
}
