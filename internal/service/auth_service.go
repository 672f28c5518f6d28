package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// --- Error Definitions ---
var (
	ErrAuthenticationFailed = errors.New("authentication failed: invalid password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrAuthDisabled         = errors.New("authentication is disabled")
)

// TokenIssuer and TokenSubject are written into, and required from, every token.
const (
	TokenIssuer  = "training-tracker"
	TokenSubject = "owner"
)

// --- Service Interface ---
type AuthService interface {
	Enabled() bool
	Login(password string) (token string, err error)
	GetJWTSecret() string
}

// --- Service Implementation ---

// authService guards the API with a single bcrypt-hashed password.
type authService struct {
	passwordHash  string
	jwtSecret     string
	jwtExpiration time.Duration
}

// NewAuthService creates a new instance of authService. An empty
// passwordHash turns authentication off.
func NewAuthService(passwordHash, jwtSecret string, jwtExpiration time.Duration) AuthService {
	if passwordHash != "" && jwtSecret == "" {
		panic("JWT secret cannot be empty when a password is set") // Critical configuration
	}
	if jwtExpiration <= 0 {
		jwtExpiration = time.Hour * 24
	}
	return &authService{
		passwordHash:  passwordHash,
		jwtSecret:     jwtSecret,
		jwtExpiration: jwtExpiration,
	}
}

func (s *authService) Enabled() bool {
	return s.passwordHash != ""
}

// Login compares password with the configured hash and issues a JWT.
func (s *authService) Login(password string) (string, error) {
	if !s.Enabled() {
		return "", ErrAuthDisabled
	}
	if password == "" {
		return "", ErrAuthenticationFailed
	}

	if err := bcrypt.CompareHashAndPassword([]byte(s.passwordHash), []byte(password)); err != nil {
		return "", ErrAuthenticationFailed
	}

	token, err := s.generateJWT()
	if err != nil {
		return "", ErrTokenGeneration
	}
	return token, nil
}

// --- JWT Helper ---

func (s *authService) generateJWT() (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   TokenSubject,
		ExpiresAt: jwt.NewNumericDate(now.Add(s.jwtExpiration)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    TokenIssuer,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}

// HashPassword produces the bcrypt hash expected in auth.password_hash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}
	return string(hashed), nil
}
