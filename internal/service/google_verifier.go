package service

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/idtoken"
)

var ErrGoogleAudience = errors.New("google client id is not configured")

type IDTokenValidateFunc func(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)

// GoogleIDTokenVerifier checks Google-signed ID tokens against the
// configured OAuth client id.
type GoogleIDTokenVerifier struct {
	ClientID string
	Validate IDTokenValidateFunc
}

func NewGoogleIDTokenVerifier(clientID string) *GoogleIDTokenVerifier {
	return &GoogleIDTokenVerifier{
		ClientID: strings.TrimSpace(clientID),
		Validate: idtoken.Validate,
	}
}

func (v *GoogleIDTokenVerifier) Verify(ctx context.Context, idToken string) (*GoogleIdentity, error) {
	if v.ClientID == "" {
		return nil, ErrGoogleAudience
	}
	validate := v.Validate
	if validate == nil {
		validate = idtoken.Validate
	}

	payload, err := validate(ctx, idToken, v.ClientID)
	if err != nil {
		return nil, err
	}

	return &GoogleIdentity{
		Subject:       payload.Subject,
		Email:         claimString(payload.Claims, "email"),
		EmailVerified: claimBool(payload.Claims, "email_verified"),
		GivenName:     claimString(payload.Claims, "given_name"),
		FamilyName:    claimString(payload.Claims, "family_name"),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	value, _ := claims[key].(string)
	return value
}

// Google encodes email_verified as a bool, older tokens as a string.
func claimBool(claims map[string]interface{}, key string) bool {
	switch v := claims[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}
