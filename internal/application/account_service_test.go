package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeHasher(password string) (string, error) { return "hashed:" + password, nil }

func newTestAccountService(repo AccountRepository) *AccountService {
	now := time.Date(2026, time.February, 9, 8, 0, 0, 0, time.UTC)
	return NewAccountServiceWithLogger(repo, fakeHasher, sequence("user-1", "user-2"), fixedNow(now), nil)
}

func TestAccountService_CreateAdmin(t *testing.T) {
	t.Parallel()

	repo := newAccountRepositoryStub()
	svc := newTestAccountService(repo)

	user, err := svc.CreateAccount(context.Background(), CreateAccountParams{Input: AccountInput{
		Email: " Admin@Example.com ", FirstName: " Ada ", LastName: "Lovelace", Role: RoleAdmin, Password: "longenough",
	}})
	require.NoError(t, err)

	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, "Ada", user.FirstName)
	assert.Nil(t, user.ParentID)
	assert.Equal(t, "user-1", OwnerID(user))
	assert.Equal(t, "hashed:longenough", repo.byEmail["admin@example.com"].PasswordHash)

	_, err = svc.CreateAccount(context.Background(), CreateAccountParams{Input: AccountInput{
		Email: "admin@example.com", FirstName: "A", LastName: "B", Role: RoleAdmin, Password: "longenough",
	}})
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestAccountService_InviteIntoOrganisation(t *testing.T) {
	t.Parallel()

	coordinator := Principal{UserID: "coord-1", Role: RoleCoordinateur, OwnerID: "admin-1"}
	input := AccountInput{Email: "trainer@example.com", FirstName: "T", LastName: "R", Role: RoleFormateur, Password: "longenough"}

	t.Run("parent is the principal's owner", func(t *testing.T) {
		t.Parallel()

		svc := newTestAccountService(newAccountRepositoryStub())
		user, err := svc.CreateAccount(context.Background(), CreateAccountParams{Principal: &coordinator, Input: input})
		require.NoError(t, err)
		require.NotNil(t, user.ParentID)
		assert.Equal(t, "admin-1", *user.ParentID)
		assert.Equal(t, "admin-1", OwnerID(user))
	})

	t.Run("roles outside the team managers are forbidden", func(t *testing.T) {
		t.Parallel()

		svc := newTestAccountService(newAccountRepositoryStub())
		for _, role := range []Role{RoleFormateur, RoleEleve} {
			principal := Principal{UserID: "u", Role: role, OwnerID: "admin-1"}
			_, err := svc.CreateAccount(context.Background(), CreateAccountParams{Principal: &principal, Input: input})
			assert.ErrorIs(t, err, ErrForbidden, role)
		}
	})

	t.Run("invited users cannot be admins", func(t *testing.T) {
		t.Parallel()

		svc := newTestAccountService(newAccountRepositoryStub())
		admin := input
		admin.Role = RoleAdmin
		_, err := svc.CreateAccount(context.Background(), CreateAccountParams{Principal: &coordinator, Input: admin})

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.FieldErrors, "role")
	})
}

func TestAccountService_Failures(t *testing.T) {
	t.Parallel()

	t.Run("bootstrap accounts must be admins", func(t *testing.T) {
		t.Parallel()

		svc := newTestAccountService(newAccountRepositoryStub())
		_, err := svc.CreateAccount(context.Background(), CreateAccountParams{Input: AccountInput{
			Email: "x@example.com", FirstName: "X", LastName: "Y", Role: RoleEleve, Password: "longenough",
		}})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.FieldErrors, "role")
	})

	t.Run("lookup failures are propagated", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		repo := newAccountRepositoryStub()
		repo.lookupErr = boom
		_, err := newTestAccountService(repo).CreateAccount(context.Background(), CreateAccountParams{Input: AccountInput{
			Email: "x@example.com", FirstName: "X", LastName: "Y", Role: RoleAdmin, Password: "longenough",
		}})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("invalid input is reported per field", func(t *testing.T) {
		t.Parallel()

		_, err := newTestAccountService(newAccountRepositoryStub()).CreateAccount(context.Background(), CreateAccountParams{Input: AccountInput{
			Email: "bad", Role: RoleAdmin, Password: "short",
		}})
		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		for _, field := range []string{"email", "firstName", "lastName", "password"} {
			assert.Contains(t, vErr.FieldErrors, field)
		}
	})
}
