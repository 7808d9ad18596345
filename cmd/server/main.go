package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	authmod "github.com/tutorlyhq/tutorly/modules/auth"
	"github.com/tutorlyhq/tutorly/modules/profiles"
	"github.com/tutorlyhq/tutorly/modules/users"
	"github.com/tutorlyhq/tutorly/pkg/config"
	"github.com/tutorlyhq/tutorly/pkg/file"
	"github.com/tutorlyhq/tutorly/pkg/httpserver"
	"github.com/tutorlyhq/tutorly/pkg/jwt"
	"github.com/tutorlyhq/tutorly/pkg/logger"
	"github.com/tutorlyhq/tutorly/pkg/pg"
	"github.com/tutorlyhq/tutorly/pkg/ratelimit"
	"github.com/tutorlyhq/tutorly/pkg/redis"
	"github.com/tutorlyhq/tutorly/storage/postgres"
	authsvc "github.com/tutorlyhq/tutorly/svc/auth"
	profilesvc "github.com/tutorlyhq/tutorly/svc/profile"
	usersvc "github.com/tutorlyhq/tutorly/svc/user"
)

type appConfig struct {
	Environment string `env:"APP_ENV" envDefault:"development"`

	JWTSigningKey     string `env:"JWT_SIGNING_KEY,required"`
	SessionTTLMinutes int    `env:"SESSION_TTL_MINUTES" envDefault:"30"`

	RegisterRateLimit  int           `env:"REGISTER_RATE_LIMIT" envDefault:"5"`
	RegisterRateWindow time.Duration `env:"REGISTER_RATE_WINDOW" envDefault:"1h"`
}

func main() {
	ctx := context.Background()

	var (
		appCfg   appConfig
		pgCfg    pg.Config
		redisCfg redis.Config
		httpCfg  httpserver.Config
		filesCfg file.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&pgCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&filesCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Environment, "tutorly"))
	logger.SetAsDefault(log)

	if err := run(ctx, log, appCfg, pgCfg, redisCfg, httpCfg, filesCfg); err != nil {
		log.ErrorContext(ctx, "server exited with error", logger.Error(err))
		os.Exit(1)
	}
}

func run(
	ctx context.Context,
	log *slog.Logger,
	appCfg appConfig,
	pgCfg pg.Config,
	redisCfg redis.Config,
	httpCfg httpserver.Config,
	filesCfg file.Config,
) error {
	// Postgres
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
		return err
	}

	// Redis (rate limiting)
	redisClient, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return err
	}
	defer func() { _ = redisClient.Close() }()

	// File storage for profile pictures
	fileStorage, err := file.New(ctx, filesCfg)
	if err != nil {
		return err
	}

	// Token signer
	jwtService, err := jwt.NewFromString(appCfg.JWTSigningKey)
	if err != nil {
		return err
	}

	// Services
	store := postgres.New(pool)
	sessions := authsvc.NewService(store, jwtService,
		authsvc.WithSessionTTL(time.Duration(appCfg.SessionTTLMinutes)*time.Minute),
		authsvc.WithLogger(log),
	)
	accounts := usersvc.NewService(store, usersvc.WithLogger(log))
	tutorProfiles := profilesvc.NewService(store,
		profilesvc.WithFileStorage(fileStorage),
		profilesvc.WithLogger(log),
	)

	registerLimiter, err := ratelimit.NewSlidingWindow(
		ratelimit.NewRedisStore(redisClient),
		appCfg.RegisterRateLimit,
		appCfg.RegisterRateWindow,
	)
	if err != nil {
		return err
	}

	// Router
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", httpserver.HealthCheckHandler(ctx, log,
		pg.Healthcheck(pool),
		redis.Healthcheck(redisClient),
	))

	r.Mount("/auth", authmod.New(sessions,
		authmod.WithRegisterLimiter(registerLimiter),
		authmod.WithLogger(log),
	).Router())
	r.Mount("/users", users.New(accounts, sessions).Router())
	r.Mount("/profiles", profiles.New(tutorProfiles, sessions).Router())

	// Serve locally stored uploads in development setups.
	if filesCfg.Driver == "local" {
		fs := http.StripPrefix(filesCfg.LocalBaseURL, http.FileServer(http.Dir(filesCfg.LocalDir)))
		r.Get(filesCfg.LocalBaseURL+"*", fs.ServeHTTP)
	}

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))
	return srv.Run(ctx, r)
}
