package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const issuer = "medical-control"

// Config holds the local session settings. There is a single operator
// identity: the desktop shell exchanges the installation's application key
// for a short-lived session token.
type Config struct {
	AppKey        string
	SessionSecret string
	SessionTTL    time.Duration
}

// Principal holds identity extracted from a validated session token.
type Principal struct {
	UserID string
	Claims jwt.MapClaims
}

var (
	ErrBadAppKey     = errors.New("invalid application key")
	ErrNoToken       = errors.New("no token provided")
	ErrInvalidToken  = errors.New("invalid token")
	ErrInvalidIssuer = errors.New("invalid issuer")
	ErrMissingSub    = errors.New("missing sub claim")
)

// Sessions issues and verifies HS256 session tokens signed with the
// installation's session secret.
type Sessions struct {
	cfg Config
}

func NewSessions(cfg Config) *Sessions {
	return &Sessions{cfg: cfg}
}

// Issue exchanges the application key for a signed session token.
func (s *Sessions) Issue(appKey string) (string, time.Time, error) {
	if subtle.ConstantTimeCompare([]byte(appKey), []byte(s.cfg.AppKey)) != 1 {
		return "", time.Time{}, ErrBadAppKey
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.cfg.SessionTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss": issuer,
		"sub": "operator",
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	})

	signed, err := token.SignedString([]byte(s.cfg.SessionSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify parses a session token, validates signature, issuer and expiry,
// and returns the Principal.
func (s *Sessions) Verify(tokenString string) (*Principal, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return nil, ErrNoToken
	}

	parsed, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		// enforce HS256
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(s.cfg.SessionSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if iss, _ := claims["iss"].(string); iss != issuer {
		return nil, ErrInvalidIssuer
	}
	if !claims.VerifyExpiresAt(jwt.TimeFunc().Unix(), true) {
		return nil, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrMissingSub
	}

	return &Principal{UserID: sub, Claims: claims}, nil
}
