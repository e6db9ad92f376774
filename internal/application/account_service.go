package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// AccountRepository captures the persistence operations needed by AccountService.
type AccountRepository interface {
	CreateUser(ctx context.Context, creds UserCredentials) error
	GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error)
}

// AccountService creates accounts, either top-level admins or users invited
// into an existing organisation.
type AccountService struct {
	accounts     AccountRepository
	hashPassword PasswordHasher
	validator    *Validator
	idGenerator  func() string
	now          func() time.Time
	logger       *slog.Logger
}

// NewAccountService constructs an account service with the provided dependencies.
func NewAccountService(accounts AccountRepository, idGenerator func() string, now func() time.Time) *AccountService {
	return NewAccountServiceWithLogger(accounts, nil, idGenerator, now, nil)
}

// NewAccountServiceWithLogger constructs an account service with a specified
// password hasher and logger. A nil hasher uses argon2id.
func NewAccountServiceWithLogger(accounts AccountRepository, hashPassword PasswordHasher, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AccountService {
	if hashPassword == nil {
		hashPassword = HashPassword
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AccountService{
		accounts:     accounts,
		hashPassword: hashPassword,
		validator:    NewValidator(),
		idGenerator:  idGenerator,
		now:          now,
		logger:       defaultLogger(logger),
	}
}

func (s *AccountService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AccountService", operation, attrs...)
}

// CreateAccount validates input and persists a new account. Without a
// principal the account must be an admin and owns its own data; with one,
// the principal must be allowed to manage the team and the new user joins
// the principal's organisation.
func (s *AccountService) CreateAccount(ctx context.Context, params CreateAccountParams) (user User, err error) {
	if s == nil || s.accounts == nil {
		err = fmt.Errorf("account service not configured")
		return
	}

	attrs := []any{"role", string(params.Input.Role)}
	if params.Principal != nil {
		attrs = append(attrs, "principal_id", params.Principal.UserID)
	}
	logger := s.loggerWith(ctx, "CreateAccount", attrs...)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create account", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", user.ID).InfoContext(ctx, "account created")
	}()

	input := params.Input
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)

	var parentID *string
	if params.Principal != nil {
		if !CanManageTeam(params.Principal.Role) {
			err = ErrForbidden
			return
		}
		owner := params.Principal.OwnerID
		parentID = &owner
	}

	if vErr := s.validator.Struct(input); vErr != nil {
		err = vErr
		return
	}
	if params.Principal == nil && input.Role != RoleAdmin {
		err = &ValidationError{FieldErrors: map[string]string{"role": "role doit être admin pour un compte principal"}}
		return
	}
	if params.Principal != nil && input.Role == RoleAdmin {
		err = &ValidationError{FieldErrors: map[string]string{"role": "un compte invité ne peut pas être admin"}}
		return
	}

	if _, lookupErr := s.accounts.GetUserCredentialsByEmail(ctx, input.Email); lookupErr == nil {
		err = ErrAlreadyExists
		return
	} else if !errors.Is(lookupErr, ErrNotFound) {
		err = lookupErr
		return
	}

	var hash string
	hash, err = s.hashPassword(input.Password)
	if err != nil {
		err = fmt.Errorf("hash password: %w", err)
		return
	}

	now := s.now()
	user = User{
		ID:        s.idGenerator(),
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Role:      input.Role,
		ParentID:  parentID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err = s.accounts.CreateUser(ctx, UserCredentials{User: user, PasswordHash: hash}); err != nil {
		user = User{}
		return
	}
	return user, nil
}
