// Package auth issues and validates the signed tokens that carry a request's
// identity.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"privatetube/internal/catalog"
	"privatetube/internal/identity"
)

type TokenClaims struct {
	UserID    int64  `json:"uid"`
	Role      string `json:"role"`
	TokenType string `json:"typ"`
	jwt.RegisteredClaims
}

type Tokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

var ErrInvalidToken = errors.New("auth: invalid token")

type Issuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewIssuer(secret []byte, accessTTL, refreshTTL time.Duration) *Issuer {
	return &Issuer{secret: secret, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

func (i *Issuer) Issue(user catalog.User) (Tokens, error) {
	access, err := i.sign(user, "access", i.accessTTL)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := i.sign(user, "refresh", i.refreshTTL)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: access, RefreshToken: refresh}, nil
}

func (i *Issuer) sign(user catalog.User, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &TokenClaims{
		UserID:    user.ID,
		Role:      string(user.Role),
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
}

// Parse validates the signature, expiry, and token type, and returns the
// identity the token was issued for.
func (i *Issuer) Parse(tokenStr, wantType string) (identity.Identity, error) {
	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid || claims.TokenType != wantType {
		return identity.Identity{}, ErrInvalidToken
	}
	role, ok := identity.ParseRole(claims.Role)
	if !ok {
		return identity.Identity{}, ErrInvalidToken
	}
	return identity.Identity{UserID: claims.UserID, Role: role}, nil
}
