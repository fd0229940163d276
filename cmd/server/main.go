package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/micca12/Progetto-IW/internal/apperr"
	"github.com/micca12/Progetto-IW/internal/cache"
	"github.com/micca12/Progetto-IW/internal/config"
	"github.com/micca12/Progetto-IW/internal/db"
	"github.com/micca12/Progetto-IW/internal/events"
	"github.com/micca12/Progetto-IW/internal/httpserver"
	"github.com/micca12/Progetto-IW/internal/logging"
	"github.com/micca12/Progetto-IW/internal/middleware/auth"
	loggingmw "github.com/micca12/Progetto-IW/internal/middleware/logging"
	"github.com/micca12/Progetto-IW/internal/middleware/ratelimit"
	"github.com/micca12/Progetto-IW/internal/repo"
	"github.com/micca12/Progetto-IW/internal/search"
	"github.com/micca12/Progetto-IW/internal/service"
	"github.com/micca12/Progetto-IW/internal/tokens"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		cancel()
		log.Fatalf("db open: %v", err)
	}
	if err := db.Migrate(ctx, gdb); err != nil {
		cancel()
		log.Fatalf("db migrate: %v", err)
	}
	if err := db.Seed(ctx, gdb, db.SeedOptions{AdminEmail: cfg.AdminEmail, AdminPassword: cfg.AdminPassword}); err != nil {
		cancel()
		log.Fatalf("db seed: %v", err)
	}
	cancel()

	var pub events.Publisher = events.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		pub = events.NewProducer(cfg.KafkaBrokers)
		logger.Info("kafka_enabled", "brokers", cfg.KafkaBrokers)
	}

	var index search.Index
	if cfg.ESURL != "" {
		client, err := search.NewClient(search.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword, Index: cfg.ESIndex})
		if err != nil {
			log.Fatalf("elasticsearch: %v", err)
		}
		es := search.NewES(client, cfg.ESIndex)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := es.Ping(pingCtx); err != nil {
			logger.Warn("elasticsearch_unavailable", "err", err)
		} else {
			index = es
		}
		pingCancel()
	}

	issuer := tokens.NewIssuer(cfg.JWTSecret, cfg.TokenTTL)
	r := repo.New(gdb)
	lookups := cache.New(10 * time.Minute)
	limits := ratelimit.NewFixedWindowStore(cfg.AuthRateLimit, cfg.AuthRateWindow)

	catalog := &service.CatalogService{Repo: r, Cache: lookups, Search: index}

	ipExtractor, err := ratelimit.IPExtractor(cfg.TrustedProxies)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.IPExtractor = ipExtractor
	e.HTTPErrorHandler = apperr.HTTPErrorHandler
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestIDWithConfig(echomw.RequestIDConfig{
		Generator: func() string { return uuid.NewString() },
	}))
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
	}))

	httpserver.Register(e, &httpserver.Deps{
		Auth:          auth.New(issuer),
		AuthLimiter:   ratelimit.Middleware(limits),
		AuthHTTP:      &httpserver.AuthHTTP{Svc: &service.AuthService{Repo: r, Tokens: issuer, Events: pub}},
		CatalogHTTP:   &httpserver.CatalogHTTP{Svc: catalog},
		BrandProducts: &httpserver.BrandProductsHTTP{Svc: &service.ProductService{Repo: r, Events: pub, Search: index}},
		FavoritesHTTP: &httpserver.FavoritesHTTP{Svc: &service.FavoriteService{Repo: r, Events: pub}},
		AdminHTTP:     &httpserver.AdminHTTP{Svc: &service.AdminService{Repo: r, Events: pub, Catalog: catalog}},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	bg, stopBackground := context.WithCancel(context.Background())
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-bg.Done():
				return
			case <-t.C:
				lookups.Prune()
				limits.Prune()
			}
		}
	}()

	go func() {
		logger.Info("server_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("shutting_down")
	stopBackground()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server_shutdown_failed", "err", err)
	}
	if err := db.Close(gdb); err != nil {
		logger.Error("db_close_failed", "err", err)
	}
	if err := pub.Close(); err != nil {
		logger.Error("kafka_close_failed", "err", err)
	}

	logger.Info("shutdown_complete")
}
