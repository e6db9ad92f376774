package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/humia/planning/internal/application"
	"github.com/humia/planning/internal/config"
	httptransport "github.com/humia/planning/internal/http"
	"github.com/humia/planning/internal/persistence/sqlite"
	"github.com/humia/planning/internal/store"
)

// appDeps carries what newApp cannot derive from the configuration.
type appDeps struct {
	Storage *sqlite.Storage
	Config  config.Config
	Logger  *slog.Logger
	Now     func() time.Time
	NewID   func() string
	// VerifyPassword overrides argon2id verification.
	VerifyPassword application.PasswordVerifier
}

type app struct {
	handler http.Handler
	auth    *application.AuthService
}

func newApp(deps appDeps) *app {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	adapters := store.FromStorage(deps.Storage)

	authService := application.NewAuthService(adapters.Accounts, adapters.Sessions, application.AuthServiceConfig{
		VerifyPassword: deps.VerifyPassword,
		HashToken:      application.NewHMACTokenHasher([]byte(deps.Config.SessionSecret)),
		IDGenerator:    deps.NewID,
		Now:            now,
		SessionTTL:     deps.Config.SessionTTL,
		Logger:         logger,
	})
	classroomService := application.NewClassroomServiceWithLogger(adapters.Registry, deps.NewID, now, logger)
	trainerService := application.NewTrainerServiceWithLogger(adapters.Registry, deps.NewID, now, logger)
	planningService := application.NewPlanningServiceWithLogger(adapters.Planning, adapters.Registry, adapters.Registry, deps.NewID, now, logger)

	router := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:     httptransport.NewAuthHandler(authService, deps.Config.CookieSecure, logger),
		Planning: httptransport.NewPlanningHandler(planningService, logger),
		Registry: httptransport.NewRegistryHandler(classroomService, trainerService, logger),
		Health:   httptransport.NewHealthHandler(deps.Storage, logger),
		Sessions: authService,
		Logger:   logger,
		Middleware: []func(http.Handler) http.Handler{
			httptransport.Recover(logger),
			httptransport.RequestLogger(logger),
			httptransport.LimitBody(deps.Config.RequestBodyMaxSize),
		},
	})

	return &app{
		handler:  router,
		auth:     authService,
	}
}
