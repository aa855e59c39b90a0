package service

import (
	"errors"
	"testing"
	"time"

	"github.com/seansissman/streak-club/internal/models"
	"github.com/seansissman/streak-club/internal/testutil"
)

// MockUserRepository is an in-memory implementation of the user repository.
type MockUserRepository struct {
	users  map[uint]*models.User
	nextID uint
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{users: make(map[uint]*models.User), nextID: 1}
}

func (m *MockUserRepository) Create(user *models.User) error {
	if user.ID == 0 {
		user.ID = m.nextID
		m.nextID++
	}
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) FindByEmail(email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *MockUserRepository) FindByUsername(username string) (*models.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, errors.New("record not found")
}

func (m *MockUserRepository) FindByID(id uint) (*models.User, error) {
	if user, ok := m.users[id]; ok {
		return user, nil
	}
	return nil, errors.New("record not found")
}

func (m *MockUserRepository) FindByIDs(ids []uint) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if user, ok := m.users[id]; ok {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (m *MockUserRepository) Update(user *models.User) error {
	m.users[user.ID] = user
	return nil
}

// MockRefreshTokenRepository is an in-memory refresh token store.
type MockRefreshTokenRepository struct {
	tokens map[string]*models.RefreshToken
}

func NewMockRefreshTokenRepository() *MockRefreshTokenRepository {
	return &MockRefreshTokenRepository{tokens: make(map[string]*models.RefreshToken)}
}

func (m *MockRefreshTokenRepository) Create(token *models.RefreshToken) error {
	m.tokens[token.TokenHash] = token
	return nil
}

func (m *MockRefreshTokenRepository) FindValidByHash(tokenHash string) (*models.RefreshToken, error) {
	token, ok := m.tokens[tokenHash]
	if !ok || token.IsRevoked() {
		return nil, errors.New("record not found")
	}
	return token, nil
}

func (m *MockRefreshTokenRepository) RevokeByHash(tokenHash string) error {
	if token, ok := m.tokens[tokenHash]; ok {
		now := time.Now()
		token.RevokedAt = &now
	}
	return nil
}

func newAuthFixture(t *testing.T) (*AuthService, *MockUserRepository, *MockRefreshTokenRepository) {
	h := testutil.NewTestHelper(t)
	h.SetupTestEnv()
	t.Cleanup(h.TeardownTestEnv)

	userRepo := NewMockUserRepository()
	tokenRepo := NewMockRefreshTokenRepository()
	return NewAuthService(userRepo, tokenRepo), userRepo, tokenRepo
}

func TestRegisterAndLogin(t *testing.T) {
	authService, _, _ := newAuthFixture(t)

	input := RegisterInput{
		Username:    "streaker",
		Email:       "streaker@example.com",
		Password:    "long-enough-password",
		DisplayName: "The Streaker",
	}
	registered, err := authService.Register(input)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if registered.Token == "" || registered.RefreshToken == "" {
		t.Error("Register should issue both tokens")
	}
	if registered.User.Username != "streaker" {
		t.Errorf("Username = %q, want streaker", registered.User.Username)
	}

	if _, err := authService.Register(input); err == nil {
		t.Error("duplicate registration should fail")
	}

	logged, err := authService.Login(LoginInput{Email: input.Email, Password: input.Password})
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if logged.Token == "" {
		t.Error("Login should issue an access token")
	}

	if _, err := authService.Login(LoginInput{Email: input.Email, Password: "wrong-password-here"}); err == nil {
		t.Error("wrong password should fail")
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	authService, _, _ := newAuthFixture(t)

	registered, err := authService.Register(RegisterInput{
		Username: "rotator",
		Email:    "rotator@example.com",
		Password: "long-enough-password",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	refreshed, err := authService.Refresh(registered.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh error: %v", err)
	}
	if refreshed.RefreshToken == registered.RefreshToken {
		t.Error("refresh should rotate the token")
	}

	// The old token is revoked and cannot be replayed.
	if _, err := authService.Refresh(registered.RefreshToken); err == nil {
		t.Error("replayed refresh token should fail")
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	authService, _, _ := newAuthFixture(t)

	registered, err := authService.Register(RegisterInput{
		Username: "leaver",
		Email:    "leaver@example.com",
		Password: "long-enough-password",
	})
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := authService.Logout(registered.RefreshToken); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if _, err := authService.Refresh(registered.RefreshToken); err == nil {
		t.Error("refresh after logout should fail")
	}

	// Logout with no token is a no-op.
	if err := authService.Logout(""); err != nil {
		t.Errorf("empty logout error: %v", err)
	}
}
