package handler

import (
	"time"

	"allowance-app-go/internal/auth"
	allowancedomain "allowance-app-go/internal/domain/allowance"
	kiddomain "allowance-app-go/internal/domain/kid"
	ledgerdomain "allowance-app-go/internal/domain/ledger"
	userdomain "allowance-app-go/internal/domain/user"
	"allowance-app-go/pkg/logger"
)

// Config carries the transport-level knobs handlers need.
type Config struct {
	SessionCookieName string
	SessionSecure     bool
	JobSecret         string
	AllowanceLocation *time.Location
}

type Handlers struct {
	Kids      *kiddomain.Service
	Ledger    *ledgerdomain.Service
	Allowance *allowancedomain.Service
	Users     *userdomain.Service

	verifier auth.Verifier
	sessions *auth.SessionManager
	cfg      Config
	log      logger.Logger

	jobRuns JobRunRecorder
}

// JobRunRecorder counts allowance-job invocations.
type JobRunRecorder interface {
	AllowanceRun()
}

func New(
	kids *kiddomain.Service,
	ledger *ledgerdomain.Service,
	allowance *allowancedomain.Service,
	users *userdomain.Service,
	verifier auth.Verifier,
	sessions *auth.SessionManager,
	cfg Config,
	log logger.Logger,
	jobRuns JobRunRecorder,
) *Handlers {
	if cfg.SessionCookieName == "" {
		cfg.SessionCookieName = "session"
	}
	if cfg.AllowanceLocation == nil {
		cfg.AllowanceLocation = time.UTC
	}
	return &Handlers{
		Kids:      kids,
		Ledger:    ledger,
		Allowance: allowance,
		Users:     users,
		verifier:  verifier,
		sessions:  sessions,
		cfg:       cfg,
		log:       log,
		jobRuns:   jobRuns,
	}
}
