package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"reviewhub/internal/config"
	"reviewhub/internal/http-api/models"
	"reviewhub/internal/http-api/repository"
	"reviewhub/internal/mail"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

var (
	ErrReservedUsername = errors.New("the username 'me' is reserved, pick another one")
	ErrEmailInUse       = errors.New("a user with this email is already registered")
	ErrNameInUse        = errors.New("a user with this username is already registered")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidCode      = errors.New("invalid confirmation code")
	ErrInvalidToken     = errors.New("invalid token")
)

const reservedUsername = "me"

// Claims is the access token payload. Role and the superuser flag travel in
// the token so permission middleware never touches the database.
type Claims struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Superuser bool   `json:"superuser,omitempty"`
	jwt.RegisteredClaims
}

type AuthService interface {
	// SignUp registers email+username and mails the confirmation code.
	// Re-signing up with the identical pair re-sends the code.
	SignUp(ctx context.Context, email, username string) (*models.User, error)
	// IssueToken exchanges a confirmation code for a bearer access token.
	IssueToken(ctx context.Context, username, confirmationCode string) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo       repository.UserRepository
	codes          *ConfirmationCodes
	sender         mail.Sender
	logger         *slog.Logger
	jwtSecret      string
	accessTokenTTL time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	codes *ConfirmationCodes,
	sender mail.Sender,
	logger *slog.Logger,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:       userRepo,
		codes:          codes,
		sender:         sender,
		logger:         logger,
		jwtSecret:      cfg.JWTSecret,
		accessTokenTTL: cfg.AccessTokenTTL,
	}
}

func (s *authService) SignUp(ctx context.Context, email, username string) (*models.User, error) {
	if username == reservedUsername {
		return nil, ErrReservedUsername
	}

	// An identical (email, username) pair is a re-request: send the code again.
	if existing, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		if existing.Username != username {
			return nil, ErrEmailInUse
		}
		if err := s.sendConfirmationCode(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	if _, err := s.userRepo.FindByUsername(ctx, username); err == nil {
		return nil, ErrNameInUse
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Role:     models.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.sendConfirmationCode(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("user signed up", "username", username)
	return user, nil
}

func (s *authService) sendConfirmationCode(ctx context.Context, user *models.User) error {
	code := s.codes.Generate(user)
	body := fmt.Sprintf("Your confirmation code: %s", code)
	if err := s.sender.Send(ctx, user.Email, "Confirmation code", body); err != nil {
		return fmt.Errorf("send confirmation code: %w", err)
	}
	return nil
}

func (s *authService) IssueToken(ctx context.Context, username, confirmationCode string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}

	if !s.codes.Check(user, confirmationCode) {
		return "", ErrInvalidCode
	}

	return s.generateAccessToken(user)
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		Superuser: user.Superuser,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
