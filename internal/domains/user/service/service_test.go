package service

import (
	"context"
	"sync"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"agency-erp/internal/domains/user/model"
	"agency-erp/pkg/jwt"
)

type memRepo struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*model.User
	lastLogins int
}

func newMemRepo(users ...*model.User) *memRepo {
	m := &memRepo{users: map[uuid.UUID]*model.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (m *memRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) UpdateLastLogin(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastLogins++
	return nil
}

func (m *memRepo) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (m *memRepo) logins() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastLogins
}

func newUser(t *testing.T, email, password string, active bool) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         "Kim",
		Role:         model.RoleManager,
		IsActive:     active,
	}
}

func TestLogin_Success(t *testing.T) {
	u := newUser(t, "kim@agency.kr", "password123", true)
	repo := newMemRepo(u)
	manager := jwt.NewManager("secret", time.Hour)
	svc := NewUserService(repo, manager)

	resp, err := svc.Login(context.Background(), model.LoginRequest{Email: " Kim@Agency.kr ", Password: "password123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, u.ID, resp.User.ID)

	claims, err := manager.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.UserID)
	assert.Equal(t, model.RoleManager, claims.Role)

	assert.Eventually(t, func() bool { return repo.logins() == 1 }, time.Second, 10*time.Millisecond)
}

func TestLogin_Failures(t *testing.T) {
	active := newUser(t, "kim@agency.kr", "password123", true)
	inactive := newUser(t, "lee@agency.kr", "password123", false)
	svc := NewUserService(newMemRepo(active, inactive), jwt.NewManager("secret", time.Hour))

	_, err := svc.Login(context.Background(), model.LoginRequest{Email: "kim@agency.kr", Password: "wrong-pass"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), model.LoginRequest{Email: "nobody@agency.kr", Password: "password123"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), model.LoginRequest{Email: "lee@agency.kr", Password: "password123"})
	assert.ErrorIs(t, err, model.ErrUserInactive)

	_, err = svc.Login(context.Background(), model.LoginRequest{Email: "not-an-email", Password: "x"})
	var verrs validation.Errors
	assert.ErrorAs(t, err, &verrs)
}

func TestGetProfile(t *testing.T) {
	u := newUser(t, "kim@agency.kr", "password123", true)
	svc := NewUserService(newMemRepo(u), jwt.NewManager("secret", time.Hour))

	dto, err := svc.GetProfile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "kim@agency.kr", dto.Email)

	_, err = svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrUserNotFound)
}

func TestChangePassword(t *testing.T) {
	u := newUser(t, "kim@agency.kr", "password123", true)
	repo := newMemRepo(u)
	svc := NewUserService(repo, jwt.NewManager("secret", time.Hour))
	ctx := context.Background()

	err := svc.ChangePassword(ctx, u.ID, model.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "password123"})
	var verrs validation.Errors
	require.ErrorAs(t, err, &verrs)

	err = svc.ChangePassword(ctx, u.ID, model.ChangePasswordRequest{CurrentPassword: "wrong-pass", NewPassword: "newpassword1"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, u.ID, model.ChangePasswordRequest{CurrentPassword: "password123", NewPassword: "newpassword1"}))
	_, err = svc.Login(ctx, model.LoginRequest{Email: "kim@agency.kr", Password: "newpassword1"})
	assert.NoError(t, err)
}
