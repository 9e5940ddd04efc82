package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"google.golang.org/api/idtoken"

	"github.com/fornecelist/backend/internal/domain"
	"github.com/fornecelist/backend/internal/repository/ports"
	"github.com/fornecelist/backend/internal/util"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidGoogleToken = errors.New("invalid google token")
)

type AuthService struct {
	users ports.UserRepository
	jwt   *util.JWTManager
	aud   string
}

func NewAuthService(users ports.UserRepository, jwtSecret, googleAud string, sessionTTL time.Duration) *AuthService {
	return &AuthService{
		users: users,
		jwt:   util.NewJWTManager(jwtSecret, sessionTTL),
		aud:   googleAud,
	}
}

func (s *AuthService) LoginWithGoogle(ctx context.Context, idTok string) (string, error) {
	payload, err := idtoken.Validate(ctx, idTok, s.aud)
	if err != nil {
		return "", ErrInvalidGoogleToken
	}
	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if strings.TrimSpace(email) == "" {
		return "", ErrInvalidGoogleToken
	}

	user, err := s.users.UpsertByEmail(ctx, email, name)
	if err != nil {
		return "", err
	}
	token, _, err := s.jwt.Generate(user.ID, user.Email)
	return token, err
}

func (s *AuthService) LoginWithPassword(ctx context.Context, email, password string) (string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}
	if !util.VerifyPassword(password, user.PasswordSalt, user.PasswordHash) {
		return "", ErrInvalidCredentials
	}
	token, _, err := s.jwt.Generate(user.ID, user.Email)
	return token, err
}

// Authenticate resolves a bearer token into a user with roles loaded.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, errors.New("user not found")
	}
	roles, err := s.users.ListRoles(ctx, user.ID)
	if err == nil {
		user.Roles = roles
	}
	return user, nil
}

func (s *AuthService) IsAdmin(ctx context.Context, user *domain.User) (bool, error) {
	if user == nil {
		return false, nil
	}
	if len(user.Roles) == 0 {
		roles, err := s.users.ListRoles(ctx, user.ID)
		if err != nil {
			return false, err
		}
		user.Roles = roles
	}
	return user.HasRoleNamed(domain.RoleAdmin), nil
}

// CurrentUserID is a convenience for handlers that tolerate anonymous
// callers: a nil user maps to the zero UUID, which the access gate fails
// closed on.
func CurrentUserID(user *domain.User) uuid.UUID {
	if user == nil {
		return uuid.Nil
	}
	return user.ID
}
