package testfixtures

import (
	"log/slog"
	"time"

	"github.com/humia/planning/internal/application"
)

// ServiceFactory builds application services wired to a deterministic
// clock and identifier sequence.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// PlanningServiceDeps captures dependencies for constructing a planning service.
type PlanningServiceDeps struct {
	Sessions   application.PlanningRepository
	Classrooms application.ClassroomLookup
	Trainers   application.TrainerLookup
	Logger     *slog.Logger
}

// NewPlanningService builds a planning service.
func (f *ServiceFactory) NewPlanningService(deps PlanningServiceDeps) *application.PlanningService {
	return application.NewPlanningServiceWithLogger(
		deps.Sessions,
		deps.Classrooms,
		deps.Trainers,
		f.IDGenerator.NextFunc(),
		f.Clock.NowFunc(),
		deps.Logger,
	)
}

// AuthServiceDeps captures dependencies for constructing an auth service.
type AuthServiceDeps struct {
	Credentials    application.CredentialStore
	Sessions       application.SessionRepository
	VerifyPassword application.PasswordVerifier
	TokenGenerator func() string
	SessionTTL     time.Duration
	Logger         *slog.Logger
}

// NewAuthService builds an auth service. Tokens default to the factory's
// identifier sequence and are hashed with a fixed test key.
func (f *ServiceFactory) NewAuthService(deps AuthServiceDeps) *application.AuthService {
	tokens := deps.TokenGenerator
	if tokens == nil {
		tokens = f.IDGenerator.NextFunc()
	}
	return application.NewAuthService(deps.Credentials, deps.Sessions, application.AuthServiceConfig{
		VerifyPassword: deps.VerifyPassword,
		HashToken:      application.NewHMACTokenHasher([]byte("testfixtures")),
		IDGenerator:    f.IDGenerator.NextFunc(),
		TokenGenerator: tokens,
		Now:            f.Clock.NowFunc(),
		SessionTTL:     deps.SessionTTL,
		Logger:         deps.Logger,
	})
}

// NewAccountService builds an account service with a fast, non-cryptographic
// password hasher.
func (f *ServiceFactory) NewAccountService(accounts application.AccountRepository, logger *slog.Logger) *application.AccountService {
	return application.NewAccountServiceWithLogger(accounts, PlainPasswordHasher, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), logger)
}

// PlainPasswordHasher stores passwords behind a fixed prefix. Pair it with
// PlainPasswordVerifier.
func PlainPasswordHasher(password string) (string, error) {
	return "plain:" + password, nil
}

// PlainPasswordVerifier accepts hashes produced by PlainPasswordHasher.
func PlainPasswordVerifier(hash, password string) error {
	if hash != "plain:"+password {
		return application.ErrInvalidCredentials
	}
	return nil
}
