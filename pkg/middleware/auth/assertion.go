package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role struct {
	Name string `json:"name"`
}

type AuthenticationSource struct {
	Provider string `json:"provider"`
}

type User struct {
	Username             string               `json:"username"`
	AuthenticationSource AuthenticationSource `json:"authenticationSource"`
	Role                 Role                 `json:"role"`
	ExpiresAt            time.Time            `json:"expiresAt,omitempty"`
}

// Claims carried by admin bearer tokens.
type Claims struct {
	jwt.RegisteredClaims
	UID   string   `json:"uid,omitempty"`
	Role  string   `json:"role,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

var (
	errNoSecret    = errors.New("bearer secret not configured")
	errInvalid     = errors.New("invalid bearer token")
	errBadIssuer   = errors.New("bad issuer")
	errBadAudience = errors.New("bad audience")
	errMissingUID  = errors.New("missing uid")
)

func (m *Middleware) validateBearer(raw string) (User, error) {
	if len(m.secret) == 0 {
		return User{}, errNoSecret
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuedAt(),
		jwt.WithLeeway(m.leeway),
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	var claims Claims
	tok, err := jwt.NewParser(opts...).ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return User{}, errBadIssuer
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return User{}, errBadAudience
	case err != nil || !tok.Valid:
		return User{}, errInvalid
	}

	username := firstNonEmpty(claims.UID, claims.Subject)
	if username == "" {
		return User{}, errMissingUID
	}

	u := User{
		Username:             username,
		AuthenticationSource: AuthenticationSource{Provider: "bearer"},
		Role:                 Role{Name: firstNonEmpty(claims.Role, first(claims.Roles...))},
	}
	if claims.ExpiresAt != nil {
		u.ExpiresAt = claims.ExpiresAt.Time
	}
	return u, nil
}
