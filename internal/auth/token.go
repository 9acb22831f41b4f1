// Package auth issues and validates the bearer tokens that identify users.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Config holds signing and verification parameters.
type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

// Claims represents the identity extracted from a token.
type Claims struct {
	Subject   string
	UserID    int64
	Username  string
	ExpiresAt time.Time
}

// ErrMissingToken is returned when the Authorization header is absent.
var ErrMissingToken = errors.New("missing bearer token")

// ErrInvalidToken wraps parsing/validation errors.
var ErrInvalidToken = errors.New("invalid bearer token")

// Parse validates a JWT and returns normalized claims. The token must carry a
// positive numeric user id.
func Parse(token string, cfg Config) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.Secret), nil
	}, jwt.WithIssuer(cfg.Issuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	subject, _ := claims["sub"].(string)
	userID, ok := numericID(claims["user_id"])
	if !ok {
		userID, ok = numericID(subject)
	}
	if !ok || userID <= 0 {
		return nil, fmt.Errorf("%w: missing numeric user id", ErrInvalidToken)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	username, _ := claims["username"].(string)

	return &Claims{
		Subject:   subject,
		UserID:    userID,
		Username:  username,
		ExpiresAt: exp.Time,
	}, nil
}

func numericID(value interface{}) (int64, bool) {
	switch v := value.(type) {
	case float64:
		if v != float64(int64(v)) {
			return 0, false
		}
		return int64(v), true
	case string:
		id, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return id, err == nil
	default:
		return 0, false
	}
}

// Issuer signs tokens with the configured secret.
type Issuer struct {
	cfg Config
	now func() time.Time
}

// NewIssuer constructs an Issuer. A zero TTL defaults to 24 hours.
func NewIssuer(cfg Config) *Issuer {
	if cfg.TTL <= 0 {
		cfg.TTL = 24 * time.Hour
	}
	return &Issuer{cfg: cfg, now: time.Now}
}

// Issue signs a token identifying the user.
func (i *Issuer) Issue(userID int64, username string) (string, error) {
	now := i.now().UTC()
	claims := jwt.MapClaims{
		"sub":      strconv.FormatInt(userID, 10),
		"user_id":  userID,
		"username": username,
		"iss":      i.cfg.Issuer,
		"iat":      now.Unix(),
		"exp":      now.Add(i.cfg.TTL).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(i.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
