package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/lewlewstore/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingUserID    = errors.New("missing user_id in claims")
	ErrMissingGuildID   = errors.New("missing guild_id in claims")
)

// Claims represents the bearer token claims: who acts, in which guild, and
// whether they hold administrator permission there
type Claims struct {
	jwt.RegisteredClaims
	UserID  string `json:"user_id"`
	GuildID string `json:"guild_id"`
	Admin   bool   `json:"admin"`
}

// GenerateTokenInput contains input for token generation
type GenerateTokenInput struct {
	UserID  string
	GuildID string
	Admin   bool
	// Expiration overrides the configured lifetime when positive
	Expiration time.Duration
}

// Token is a signed token and its expiry
type Token struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	TokenType   string    `json:"token_type"`
}

// JWTService issues and validates HS256 tokens
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		issuer:     cfg.Issuer,
	}
}

// GenerateToken signs a token for the given user and guild
func (s *JWTService) GenerateToken(input GenerateTokenInput) (*Token, error) {
	if input.UserID == "" {
		return nil, ErrMissingUserID
	}
	if input.GuildID == "" {
		return nil, ErrMissingGuildID
	}

	expiration := s.expiration
	if input.Expiration > 0 {
		expiration = input.Expiration
	}

	now := time.Now()
	expiresAt := now.Add(expiration)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   input.UserID,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:  input.UserID,
		GuildID: input.GuildID,
		Admin:   input.Admin,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &Token{
		AccessToken: signed,
		ExpiresAt:   expiresAt,
		TokenType:   "Bearer",
	}, nil
}

// ValidateToken validates a token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}

	if claims.UserID == "" {
		return nil, ErrMissingUserID
	}
	if claims.GuildID == "" {
		return nil, ErrMissingGuildID
	}

	return claims, nil
}

// CanAccessGuild reports whether the token was issued for the guild
func (c *Claims) CanAccessGuild(guildID string) bool {
	return c.GuildID == guildID
}

// GetRemainingTTL returns the remaining time until the token expires
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GetExpiration returns the default token lifetime
func (s *JWTService) GetExpiration() time.Duration {
	return s.expiration
}
