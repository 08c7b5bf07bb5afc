package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/son-changwook/routepick/internal/constants"
	"github.com/son-changwook/routepick/internal/contract"

	"github.com/golang-jwt/jwt/v5"
)

// Token uses carried in the typ claim.
const (
	TokenAccess  = "access"
	TokenRefresh = "refresh"
)

// Claims mirrors the backend access token: userId, email and userType plus
// the registered claims. Use tells access and refresh tokens apart.
type Claims struct {
	UserID   int64             `json:"userId"`
	Email    string            `json:"email,omitempty"`
	UserType contract.UserType `json:"userType,omitempty"`
	Use      string            `json:"typ,omitempty"`
	jwt.RegisteredClaims
}

// ExpiresWithin reports whether the token expires within d of now.
// A token without exp never expires.
func (c *Claims) ExpiresWithin(d time.Duration) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return time.Until(c.ExpiresAt.Time) <= d
}

var ErrMalformedToken = errors.New("malformed token")

// Inspect decodes a token's claims without checking its signature. Clients
// hold no signing key; they only need the expiry and role.
func Inspect(token string) (*Claims, error) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claims, nil
}

// Issuer signs and verifies HS256 tokens. The stub server uses it in place
// of the backend's token provider.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

func NewIssuer(secret string) *Issuer {
	return &Issuer{secret: []byte(secret), now: time.Now}
}

// Sign issues an access token for user.
func (i *Issuer) Sign(user contract.User, ttl time.Duration) (string, error) {
	return i.sign(user, ttl, TokenAccess)
}

func (i *Issuer) sign(user contract.User, ttl time.Duration, use string) (string, error) {
	now := i.now()
	claims := Claims{
		UserID:   user.UserID,
		Email:    user.Email,
		UserType: user.UserType,
		Use:      use,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.UserID),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        fmt.Sprintf("%d-%d", user.UserID, now.UnixNano()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Pair signs an access and a refresh token for user.
func (i *Issuer) Pair(user contract.User) (contract.TokenRefreshResponse, error) {
	access, err := i.Sign(user, constants.AccessTokenTTL)
	if err != nil {
		return contract.TokenRefreshResponse{}, err
	}
	refresh, err := i.sign(user, constants.RefreshTokenTTL, TokenRefresh)
	if err != nil {
		return contract.TokenRefreshResponse{}, err
	}
	return contract.TokenRefreshResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(constants.AccessTokenTTL.Seconds()),
	}, nil
}

var ErrTokenUse = errors.New("wrong token type")

// VerifyAs verifies token and requires its typ claim to be use.
func (i *Issuer) VerifyAs(token, use string) (*Claims, error) {
	claims, err := i.Verify(token)
	if err != nil {
		return nil, err
	}
	if claims.Use != use {
		return nil, fmt.Errorf("%w: want %s token", ErrTokenUse, use)
	}
	return claims, nil
}

func (i *Issuer) Verify(token string) (*Claims, error) {
	parsed, err := parseClaimsFn(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return i.secret, nil
	}, jwt.WithTimeFunc(i.now))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}

var parseClaimsFn = jwt.ParseWithClaims
