package tests

import (
	"context"
	"testing"

	"smartstock/internal/config"
	"smartstock/internal/dto"
	"smartstock/internal/model"
	"smartstock/internal/repository"
	"smartstock/internal/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ── In-memory UserRepository stub ────────────────────────────────────────────

type stubUserRepo struct {
	users map[uuid.UUID]*model.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uuid.UUID]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByLogin(_ context.Context, login string) (*model.User, error) {
	for _, u := range r.users {
		if (u.Username == login || u.Email == login) && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) List(_ context.Context) ([]model.User, error) {
	result := make([]model.User, 0, len(r.users))
	for _, u := range r.users {
		result = append(result, *u)
	}
	return result, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id uuid.UUID) (int64, error) {
	if _, ok := r.users[id]; !ok {
		return 0, nil
	}
	delete(r.users, id)
	return 1, nil
}

func (r *stubUserRepo) Upsert(_ context.Context, u *model.User) error {
	for _, existing := range r.users {
		if existing.Username == u.Username {
			existing.PasswordHash = u.PasswordHash
			existing.Role = u.Role
			existing.Active = true
			return nil
		}
	}
	return r.Create(context.Background(), u)
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

// ── Helpers ──────────────────────────────────────────────────────────────────

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    2,
	}
}

func seedUser(repo *stubUserRepo, username, password, role string) *model.User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	u := &model.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@smartstock.local",
		Name:         username,
		PasswordHash: string(hash),
		Role:         role,
		Active:       true,
	}
	repo.users[u.ID] = u
	return u
}

// ── Tests ────────────────────────────────────────────────────────────────────

func TestLoginSuccess(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, testAuthConfig())
	seedUser(repo, "admin", "admin123", model.RoleAdmin)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "admin",
		Password: "admin123",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, model.RoleAdmin, resp.User.Role)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, testAuthConfig())
	seedUser(repo, "user", "user123", model.RoleUser)

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "user",
		Password: "wrong",
	})
	assert.ErrorContains(t, err, "invalid credentials")
}

// Unknown username and wrong password yield the same message, so the API
// does not leak which usernames exist.
func TestLoginUnknownUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, testAuthConfig())

	_, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "nobody",
		Password: "whatever",
	})
	assert.ErrorContains(t, err, "invalid credentials")
}

func TestLoginByEmail(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, testAuthConfig())
	seedUser(repo, "admin", "admin123", model.RoleAdmin)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "admin@smartstock.local",
		Password: "admin123",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", resp.User.Username)
}

func TestTokenCarriesRoleClaim(t *testing.T) {
	repo := newStubUserRepo()
	cfg := testAuthConfig()
	svc := service.NewAuthService(repo, cfg)
	seedUser(repo, "admin", "admin123", model.RoleAdmin)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "admin",
		Password: "admin123",
	})
	require.NoError(t, err)

	token, err := jwt.Parse(resp.AccessToken, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, model.RoleAdmin, claims["role"])
	assert.Equal(t, "admin", claims["username"])
}

func TestRefreshIssuesNewPair(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, testAuthConfig())
	seedUser(repo, "user", "user123", model.RoleUser)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "user",
		Password: "user123",
	})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "user", refreshed.User.Username)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, testAuthConfig())

	_, err := svc.Refresh(context.Background(), "not-a-token")
	assert.Error(t, err)
}

func TestRefreshRejectsInactiveUser(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, testAuthConfig())
	u := seedUser(repo, "user", "user123", model.RoleUser)

	login, err := svc.Login(context.Background(), dto.LoginRequest{
		Username: "user",
		Password: "user123",
	})
	require.NoError(t, err)

	u.Active = false
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.Error(t, err)
}

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, testAuthConfig())

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "newbie",
		Email:    "newbie@smartstock.local",
		Name:     "New User",
		Password: "s3cret99",
		Role:     model.RoleUser,
	})
	require.NoError(t, err)
	assert.Equal(t, "newbie", resp.Username)

	stored, err := repo.FindByLogin(context.Background(), "newbie")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret99", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret99")))
}

func TestUpdateUserChangesPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, testAuthConfig())
	u := seedUser(repo, "user", "oldpass1", model.RoleUser)

	newPass := "newpass1"
	_, err := svc.UpdateUser(context.Background(), u.ID, dto.UpdateUserRequest{Password: &newPass})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "user", Password: "newpass1"})
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), dto.LoginRequest{Username: "user", Password: "oldpass1"})
	assert.Error(t, err)
}

func TestDeleteUserNotFound(t *testing.T) {
	repo := newStubUserRepo()
	svc := service.NewAuthService(repo, testAuthConfig())

	err := svc.DeleteUser(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrNotFound)
}
