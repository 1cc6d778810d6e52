package utils

import (
	"crypto/rsa"
	"errors"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// AccessTokenVerifier checks access tokens minted by the identity provider.
type AccessTokenVerifier struct {
	PublicKey *rsa.PublicKey
	Issuer    string
}

type RealmAccess struct {
	Roles []string `json:"roles"`
}

type AccessClaims struct {
	Email         string      `json:"email"`
	EmailVerified bool        `json:"email_verified"`
	PreferredName string      `json:"preferred_username"`
	RealmAccess   RealmAccess `json:"realm_access"`
	jwt.RegisteredClaims
}

func (c AccessClaims) HasRole(role string) bool {
	for _, r := range c.RealmAccess.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func NewAccessTokenVerifier(publicKeyPEM string, issuer string) (*AccessTokenVerifier, error) {
	pem := strings.TrimSpace(publicKeyPEM)
	if !strings.HasPrefix(pem, "-----BEGIN") {
		pem = "-----BEGIN PUBLIC KEY-----\n" + pem + "\n-----END PUBLIC KEY-----"
	}
	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(pem))
	if err != nil {
		return nil, err
	}
	return &AccessTokenVerifier{PublicKey: key, Issuer: issuer}, nil
}

func (v AccessTokenVerifier) ParseAccessToken(tokenString string) (*AccessClaims, error) {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{"RS256"})}
	if v.Issuer != "" {
		options = append(options, jwt.WithIssuer(v.Issuer))
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &AccessClaims{}, func(token *jwt.Token) (any, error) {
		if v.PublicKey == nil {
			return nil, ErrInvalidToken
		}
		return v.PublicKey, nil
	}, options...)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*AccessClaims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
