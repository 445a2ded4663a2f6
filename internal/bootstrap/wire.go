package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/DHJariwala/is601-user-management/internal/application/profile"
	"github.com/DHJariwala/is601-user-management/internal/config"
	"github.com/DHJariwala/is601-user-management/internal/domain"
	"github.com/DHJariwala/is601-user-management/internal/infrastructure/db/postgres"
	"github.com/DHJariwala/is601-user-management/internal/infrastructure/memory"
	rabbitmq_pub "github.com/DHJariwala/is601-user-management/internal/infrastructure/messaging/rabbitmq"
	"github.com/DHJariwala/is601-user-management/internal/infrastructure/redis"
	"github.com/DHJariwala/is601-user-management/internal/infrastructure/security"
	"github.com/DHJariwala/is601-user-management/internal/logger"
	http_handlers "github.com/DHJariwala/is601-user-management/internal/transport/http/handlers"
	"github.com/DHJariwala/is601-user-management/internal/transport/http/middleware"
	"github.com/DHJariwala/is601-user-management/internal/transport/http/response"
	"github.com/DHJariwala/is601-user-management/internal/transport/http/router"
)

/*
========================
 Public entry (prod)
========================
*/

func NewServer() (*http.Server, func(), error) {
	return newServer(defaultDeps())
}

// NewServerWithDeps allows injecting dependencies for testing.
func NewServerWithDeps(deps Deps) (*http.Server, func(), error) {
	return newServer(deps)
}

/*
========================
 Dependency injection
========================
*/

type Deps struct {
	LoadConfig func() (*config.Config, error)

	NewDB func(addr string, debug bool) (DBCloser, error)

	NewRedis func(addr, password string, db int) *redis.Client

	NewPublisher func(rabbitURL string) (profile.EventPublisher, error)

	NewRouter func(router.Deps) (http.Handler, error)
}

type DBCloser interface {
	Close() error
}

/*
========================
 Core bootstrap logic
========================
*/

func newServer(deps Deps) (*http.Server, func(), error) {
	// 0) config
	cfg, err := deps.LoadConfig()
	if err != nil {
		return nil, nil, err
	}

	// 1) db
	db, err := deps.NewDB(cfg.DBAddr, cfg.DBDebug)
	if err != nil {
		return nil, nil, err
	}

	cleanupFns := []func(){
		func() { _ = db.Close() },
	}

	sqlDB, ok := db.(*sql.DB)
	if !ok {
		runCleanup(cleanupFns)
		return nil, nil, errors.New("bootstrap: NewDB did not return *sql.DB")
	}

	// 2) user repo
	userRepo := postgres.NewUserRepo(sqlDB)

	// 3) redis (best-effort; cache disabled when unreachable)
	var redisCli *redis.Client
	if deps.NewRedis != nil && cfg.RedisAddr != "" {
		c := deps.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		if err := c.Ping(ctx); err != nil {
			logger.Logger.Warn().Err(err).Msg("redis unavailable; cache disabled")
			_ = c.Close()
		} else {
			logger.Logger.Info().Msg("redis connected")
			redisCli = c
			cleanupFns = append(cleanupFns, func() { _ = c.Close() })
		}
	}

	var users profile.UserRepo = userRepo
	if redisCli != nil {
		users = redis.NewCachedUserRepo(userRepo, redisCli, cfg.UserCacheTTL)
	}

	// 4) publisher
	var pub profile.EventPublisher
	if cfg.RabbitURL == "" {
		logger.Logger.Warn().Msg("RABBIT_URL not set; using noop publisher")
		pub = memory.NewNoopPublisher()
	} else {
		pub, err = deps.NewPublisher(cfg.RabbitURL)
		if err != nil {
			if cfg.Env == "dev" {
				logger.Logger.Warn().Err(err).Msg("rabbitmq unavailable; using noop publisher")
				pub = memory.NewNoopPublisher()
			} else {
				runCleanup(cleanupFns)
				return nil, nil, err
			}
		}
	}

	if c, ok := pub.(interface{ Close() error }); ok {
		cleanupFns = append(cleanupFns, func() { _ = c.Close() })
	}

	// 5) security
	logger.Logger.Info().Str("issuer", cfg.JWTIssuer).Msg("initializing jwt signer")
	hasher := security.NewBcryptHasher(cfg.BcryptCost)
	signer := security.NewJWTSigner(cfg.JWTSecret, cfg.JWTIssuer)

	// seed (dev only)
	if cfg.Env == "dev" {
		postgres.SeedUsers(context.Background(), userRepo, hasher)
	}

	// 6) service
	svc := profile.NewService(users, hasher, pub, profile.Config{
		VerifyEmailBaseURL: cfg.VerifyEmailBaseURL,
	})

	svc = svc.WithAudit(func(action string, fields map[string]string) {
		evt := logger.Logger.Info().
			Bool("audit", true).
			Str("action", action)
		for k, v := range fields {
			evt = evt.Str(k, v)
		}
		evt.Msg("audit")
	})

	// 7) handlers + middleware
	userH := http_handlers.NewUserHandler(svc)
	healthH := http_handlers.NewHealthHandler(sqlDB)

	authMW := middleware.Auth(signer, response.WriteError)
	managerMW := middleware.RequireAtLeast(string(domain.RoleManager), response.WriteError)
	adminMW := middleware.RequireAtLeast(string(domain.RoleAdmin), response.WriteError)

	// 8) router
	mux, err := deps.NewRouter(router.Deps{
		Health:      healthH,
		Users:       userH,
		RequestIDMW: middleware.RequestID,
		AuthMW:      authMW,
		ManagerMW:   managerMW,
		AdminMW:     adminMW,
	})
	if err != nil {
		runCleanup(cleanupFns)
		return nil, nil, err
	}

	// 9) server
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	cleanup := func() {
		runCleanup(cleanupFns)
	}

	return srv, cleanup, nil
}

/*
========================
 Default deps (prod)
========================
*/

func defaultDeps() Deps {
	return Deps{
		LoadConfig: config.Load,
		NewDB: func(addr string, debug bool) (DBCloser, error) {
			return config.NewDB(addr, debug)
		},
		NewRedis: redis.New,
		NewPublisher: func(url string) (profile.EventPublisher, error) {
			return rabbitmq_pub.NewPublisher(url)
		},
		NewRouter: router.New,
	}
}

func runCleanup(fns []func()) {
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}
