package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/oakhollow/staff-rota/pkg/db"
)

// TokenLifetime is how long a session token stays valid.
const TokenLifetime = 24 * time.Hour

var jwtAlgorithm = jwt.SigningMethodHS256

// ErrInvalidToken is returned when a presented token fails verification.
var ErrInvalidToken = errors.New("invalid token")

// ErrInvalidCredentials is returned on a failed login. It deliberately
// does not distinguish a missing user from a wrong password.
var ErrInvalidCredentials = errors.New("invalid username or password")

// Claims represents the JWT claims
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Service signs and verifies session tokens with the configured secret.
type Service struct {
	secret []byte
}

// NewService builds a token service around the shared signing secret.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret)}
}

// HashPassword hashes a password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), 14)
	return string(bytes), err
}

// CheckPasswordHash compares a password with its hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// CreateToken creates a new JWT token for a user
func (s *Service) CreateToken(username string) (string, error) {
	expirationTime := time.Now().Add(TokenLifetime)
	claims := &Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwtAlgorithm, claims)
	return token.SignedString(s.secret)
}

// VerifyToken verifies a JWT token and returns its claims.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwtAlgorithm {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// Login checks a username and password against the stored admin users
// and issues a session token on success.
func (s *Service) Login(ctx context.Context, store db.AdminStore, username, password string) (string, error) {
	admin, err := store.GetAdminByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("failed to fetch admin user: %w", err)
	}

	if !CheckPasswordHash(password, admin.PasswordHash) {
		return "", ErrInvalidCredentials
	}

	return s.CreateToken(admin.Username)
}

// EnsureAdminExists checks if any admin exists, if not create one from
// environment variables. Seeding is skipped with a warning when
// ADMIN_PASSWORD is unset, so a bare deployment never gets a guessable
// default login.
func EnsureAdminExists(ctx context.Context, store db.AdminStore, logger *zap.Logger) error {
	count, err := store.CountAdmins(ctx)
	if err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		logger.Warn("No admin users exist and ADMIN_PASSWORD is not set; skipping admin seed")
		return nil
	}
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &db.AdminUser{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.InsertAdmin(ctx, admin); err != nil {
		return fmt.Errorf("failed to insert admin user: %w", err)
	}

	logger.Info("Created default admin user", zap.String("username", username))
	return nil
}
