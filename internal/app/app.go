package app

import (
	"fmt"
	"net/http"
	"time"

	"allowance-app-go/internal/auth"
	"allowance-app-go/internal/config"
	"allowance-app-go/internal/db"
	allowancedomain "allowance-app-go/internal/domain/allowance"
	kiddomain "allowance-app-go/internal/domain/kid"
	ledgerdomain "allowance-app-go/internal/domain/ledger"
	userdomain "allowance-app-go/internal/domain/user"
	"allowance-app-go/internal/metrics"
	allowancerepo "allowance-app-go/internal/repository/postgres/allowance"
	kidrepo "allowance-app-go/internal/repository/postgres/kid"
	ledgerrepo "allowance-app-go/internal/repository/postgres/ledger"
	userrepo "allowance-app-go/internal/repository/postgres/user"
	"allowance-app-go/internal/transport/httpserver"
	"allowance-app-go/internal/transport/httpserver/handler"
	authmw "allowance-app-go/internal/transport/httpserver/middleware"
	"allowance-app-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB

	Allowance *allowancedomain.Service
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	if cfg.Session.Secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	log.Info("app: applying migrations")
	if err := db.Migrate(dbConn); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}

	m := metrics.New()

	kids := kiddomain.NewService(kidrepo.NewPostgres(dbConn))
	ledger := ledgerdomain.NewService(ledgerrepo.NewPostgres(dbConn))
	users := userdomain.NewService(userrepo.NewPostgres(dbConn))
	allowance := allowancedomain.NewService(allowancerepo.NewPostgres(dbConn), ledger, log.With("component", "allowance"), m)

	verifier := auth.NewProviderVerifier(cfg.Auth)
	sessions := auth.NewSessionManager(cfg.Session.Secret, cfg.Session.TTL)

	location, err := time.LoadLocation(cfg.Allowance.Location)
	if err != nil {
		return nil, fmt.Errorf("load allowance timezone: %w", err)
	}

	handlers := handler.New(kids, ledger, allowance, users, verifier, sessions, handler.Config{
		SessionCookieName: cfg.Session.CookieName,
		SessionSecure:     cfg.Session.Secure,
		JobSecret:         cfg.Allowance.JobSecret,
		AllowanceLocation: location,
	}, log, m)

	log.Info("app: initializing router")
	sessionAuth := authmw.NewSessionAuth(sessions, cfg.Session.CookieName)
	router := httpserver.NewRouter(cfg, handlers, sessionAuth, m)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
		Allowance:  allowance,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
