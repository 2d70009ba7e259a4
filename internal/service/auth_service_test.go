package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/GENKAIYIEE/library-backend/internal/models"
	appErrors "github.com/GENKAIYIEE/library-backend/pkg/errors"
)

type mockUserRepo struct {
	users     map[string]*models.User
	lastLogin map[string]time.Time
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, id string, ts time.Time) error {
	if m.lastLogin == nil {
		m.lastLogin = map[string]time.Time{}
	}
	m.lastLogin[id] = ts
	return nil
}

func testAuthService(t *testing.T, active bool) (*AuthService, *mockUserRepo) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)
	repo := &mockUserRepo{users: map[string]*models.User{
		"desk@library.io": {
			ID:           "u1",
			Email:        "desk@library.io",
			PasswordHash: string(hash),
			FullName:     "Desk Librarian",
			Role:         models.RoleLibrarian,
			Active:       active,
		},
	}}
	svc := NewAuthService(repo, nil, nil, AuthConfig{Secret: "test-secret", Expiration: time.Hour, Issuer: "library-backend"})
	return svc, repo
}

func TestLoginIssuesValidToken(t *testing.T) {
	svc, repo := testAuthService(t, true)

	result, err := svc.Login(context.Background(), models.LoginRequest{Email: "desk@library.io", Password: "open-sesame"})
	require.NoError(t, err)
	require.NotEmpty(t, result.AccessToken)
	assert.Contains(t, repo.lastLogin, "u1")

	claims, err := svc.ValidateToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, models.RoleLibrarian, claims.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := testAuthService(t, true)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "desk@library.io", Password: "wrong"})
	assertAppError(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := testAuthService(t, true)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ghost@library.io", Password: "open-sesame"})
	assertAppError(t, err, appErrors.ErrInvalidCredentials)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, _ := testAuthService(t, false)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "desk@library.io", Password: "open-sesame"})
	assertAppError(t, err, appErrors.ErrInactiveAccount)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := testAuthService(t, true)

	_, err := svc.ValidateToken("not.a.token")
	assertAppError(t, err, appErrors.ErrUnauthorized)
}
