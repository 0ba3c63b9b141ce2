package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"reviewhub/internal/config"
	"reviewhub/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

// MockUserRepository mocks the UserRepository interface
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context, search string, page, pageSize int) ([]models.User, int64, error) {
	args := m.Called(ctx, search, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) DeleteByUsername(ctx context.Context, username string) error {
	args := m.Called(ctx, username)
	return args.Error(0)
}

// MockSender mocks the mail.Sender interface
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, to, subject, body string) error {
	args := m.Called(ctx, to, subject, body)
	return args.Error(0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() *config.Config {
	return &config.Config{
		JWTSecret:          "test-jwt-secret-test-jwt-secret-1234",
		AccessTokenTTL:     15 * time.Minute,
		ConfirmationSecret: "test-confirmation-secret-0123456789abc",
	}
}

func newTestAuthService(userRepo *MockUserRepository, sender *MockSender) AuthService {
	cfg := testConfig()
	codes := NewConfirmationCodes(cfg.ConfirmationSecret)
	return NewAuthService(userRepo, codes, sender, testLogger(), cfg)
}

func TestSignUp_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := newTestAuthService(mockUserRepo, mockSender)

	mockUserRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByUsername", mock.Anything, "alice").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockSender.On("Send", mock.Anything, "a@x.com", "Confirmation code", mock.AnythingOfType("string")).Return(nil)

	user, err := authService.SignUp(context.Background(), "a@x.com", "alice")

	assert.NoError(t, err)
	assert.NotNil(t, user)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	mockUserRepo.AssertExpectations(t)
	mockSender.AssertExpectations(t)
}

func TestSignUp_ReservedUsername(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := newTestAuthService(mockUserRepo, mockSender)

	user, err := authService.SignUp(context.Background(), "a@x.com", "me")

	assert.ErrorIs(t, err, ErrReservedUsername)
	assert.Nil(t, user)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockSender.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSignUp_EmailInUse(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := newTestAuthService(mockUserRepo, mockSender)

	existing := &models.User{ID: "user-1", Username: "alice", Email: "a@x.com"}
	mockUserRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(existing, nil)

	// same email, different username: duplicate-email error even though the
	// username is novel
	user, err := authService.SignUp(context.Background(), "a@x.com", "bob")

	assert.ErrorIs(t, err, ErrEmailInUse)
	assert.Nil(t, user)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUp_UsernameInUse(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := newTestAuthService(mockUserRepo, mockSender)

	existing := &models.User{ID: "user-1", Username: "alice", Email: "a@x.com"}
	mockUserRepo.On("FindByEmail", mock.Anything, "other@x.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByUsername", mock.Anything, "alice").Return(existing, nil)

	user, err := authService.SignUp(context.Background(), "other@x.com", "alice")

	assert.ErrorIs(t, err, ErrNameInUse)
	assert.Nil(t, user)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSignUp_ResendOnIdenticalPair(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := newTestAuthService(mockUserRepo, mockSender)

	existing := &models.User{ID: "user-1", Username: "alice", Email: "a@x.com"}
	mockUserRepo.On("FindByEmail", mock.Anything, "a@x.com").Return(existing, nil)
	mockSender.On("Send", mock.Anything, "a@x.com", "Confirmation code", mock.AnythingOfType("string")).Return(nil)

	user, err := authService.SignUp(context.Background(), "a@x.com", "alice")

	assert.NoError(t, err)
	assert.Equal(t, existing, user)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockSender.AssertExpectations(t)
}

func TestIssueToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	cfg := testConfig()
	codes := NewConfirmationCodes(cfg.ConfirmationSecret)
	authService := NewAuthService(mockUserRepo, codes, mockSender, testLogger(), cfg)

	user := &models.User{ID: "user-1", Username: "alice", Email: "a@x.com", Role: models.RoleModerator}
	mockUserRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	token, err := authService.IssueToken(context.Background(), "alice", codes.Generate(user))

	assert.NoError(t, err)
	assert.NotEmpty(t, token)

	claims, err := authService.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, string(models.RoleModerator), claims.Role)
}

func TestIssueToken_UserNotFound(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := newTestAuthService(mockUserRepo, mockSender)

	mockUserRepo.On("FindByUsername", mock.Anything, "ghost").Return(nil, gorm.ErrRecordNotFound)

	token, err := authService.IssueToken(context.Background(), "ghost", "whatever")

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.Empty(t, token)
}

func TestIssueToken_WrongUsernameForCode(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	cfg := testConfig()
	codes := NewConfirmationCodes(cfg.ConfirmationSecret)
	authService := NewAuthService(mockUserRepo, codes, mockSender, testLogger(), cfg)

	alice := &models.User{ID: "user-1", Username: "alice", Email: "a@x.com"}
	bob := &models.User{ID: "user-2", Username: "bob", Email: "b@x.com"}
	mockUserRepo.On("FindByUsername", mock.Anything, "bob").Return(bob, nil)

	// alice's code must never unlock bob's account
	token, err := authService.IssueToken(context.Background(), "bob", codes.Generate(alice))

	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Empty(t, token)
}

func TestIssueToken_TamperedCode(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	cfg := testConfig()
	codes := NewConfirmationCodes(cfg.ConfirmationSecret)
	authService := NewAuthService(mockUserRepo, codes, mockSender, testLogger(), cfg)

	user := &models.User{ID: "user-1", Username: "alice", Email: "a@x.com"}
	mockUserRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	code := codes.Generate(user)
	tampered := "0" + code[1:]
	if tampered == code {
		tampered = "1" + code[1:]
	}

	token, err := authService.IssueToken(context.Background(), "alice", tampered)

	assert.ErrorIs(t, err, ErrInvalidCode)
	assert.Empty(t, token)
}

func TestValidateToken_Garbage(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	authService := newTestAuthService(mockUserRepo, mockSender)

	claims, err := authService.ValidateToken("not-a-token")

	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockSender := new(MockSender)
	cfg := testConfig()
	codes := NewConfirmationCodes(cfg.ConfirmationSecret)
	issuer := NewAuthService(mockUserRepo, codes, mockSender, testLogger(), cfg)

	otherCfg := testConfig()
	otherCfg.JWTSecret = "another-jwt-secret-another-jwt-secret"
	verifier := NewAuthService(mockUserRepo, codes, mockSender, testLogger(), otherCfg)

	user := &models.User{ID: "user-1", Username: "alice", Email: "a@x.com"}
	mockUserRepo.On("FindByUsername", mock.Anything, "alice").Return(user, nil)

	token, err := issuer.IssueToken(context.Background(), "alice", codes.Generate(user))
	assert.NoError(t, err)

	claims, err := verifier.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}
