package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vncsmyrnk/clubvote/internal/core/domain"
	"github.com/vncsmyrnk/clubvote/internal/core/ports"
)

const accessTokenTTL = 15 * time.Minute

type AuthService struct {
	userRepo  ports.UserRepository
	audit     *AuditService
	jwtSecret []byte
}

func NewAuthService(userRepo ports.UserRepository, audit *AuditService, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		audit:     audit,
		jwtSecret: []byte(jwtSecret),
	}
}

// Login verifies the password and returns a signed access token carrying
// the caller's identity and role.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	s.audit.Record(ctx, domain.AuditLogin, &user.ID, fmt.Sprintf("user %s logged in", user.Email))

	return token, user, nil
}

func (s *AuthService) Logout(ctx context.Context, caller domain.Identity) {
	s.audit.Record(ctx, domain.AuditLogout, &caller.ID, fmt.Sprintf("user %s logged out", caller.Email))
}

// ParseIdentity validates a token and rebuilds the identity embedded in it.
func (s *AuthService) ParseIdentity(tokenString string) (domain.Identity, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}

	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidCredentials
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return domain.Identity{ID: id, Email: email, Role: domain.Role(role)}, nil
}

func (s *AuthService) generateAccessToken(user *domain.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"exp":   time.Now().Add(accessTokenTTL).Unix(),
		"iat":   time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
