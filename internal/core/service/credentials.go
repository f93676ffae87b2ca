package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/faqhub/knowledge-base/internal/core/domain"
	"github.com/faqhub/knowledge-base/internal/core/ports"
)

const passwordCost = 12

// sessionClaims is the JWT payload: the account id plus the registered
// iat/exp claims.
type sessionClaims struct {
	jwt.RegisteredClaims
	UserID string `json:"userId"`
}

// Credentials hashes passwords with bcrypt and signs HS256 session tokens.
type Credentials struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewCredentials(jwtSecret string, tokenTTL time.Duration) *Credentials {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &Credentials{secret: []byte(jwtSecret), tokenTTL: tokenTTL, now: time.Now}
}

func (c *Credentials) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), passwordCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify never errors: a malformed hash is simply not a match.
func (c *Credentials) Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}

func (c *Credentials) IssueToken(accountID string) (string, error) {
	if len(c.secret) == 0 {
		return "", domain.ErrConfig
	}

	now := c.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.tokenTTL)),
		},
		UserID: accountID,
	})
	return t.SignedString(c.secret)
}

func (c *Credentials) VerifyToken(token string) (*ports.TokenClaims, error) {
	if len(c.secret) == 0 {
		return nil, domain.ErrConfig
	}

	claims := &sessionClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrTokenExpired
		}
		return nil, domain.ErrTokenInvalid
	}
	if !tkn.Valid || claims.UserID == "" || claims.IssuedAt == nil {
		return nil, domain.ErrTokenInvalid
	}

	return &ports.TokenClaims{AccountID: claims.UserID, IssuedAt: claims.IssuedAt.Time}, nil
}
