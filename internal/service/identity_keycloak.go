package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/daniyarzhalgas/TripMate-backend/config"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	grantTypeTokenExchange = "urn:ietf:params:oauth:grant-type:token-exchange"
	tokenTypeJWT           = "urn:ietf:params:oauth:token-type:jwt"
)

// KeycloakIdentity talks to the Keycloak admin REST API for account
// management and to the realm's OIDC token endpoint for sessions.
type KeycloakIdentity struct {
	cfg        config.KeycloakConfig
	oauth      *oauth2.Config
	httpClient *http.Client
	admin      *http.Client
	adminBase  string
}

func NewKeycloakIdentity(cfg config.KeycloakConfig, httpClient *http.Client) *KeycloakIdentity {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	baseCtx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)

	var admin *http.Client
	adminTokenURL := base + "/realms/" + cfg.AdminRealm + "/protocol/openid-connect/token"
	if cfg.AdminUsername != "" {
		adminOAuth := &oauth2.Config{
			ClientID: "admin-cli",
			Endpoint: oauth2.Endpoint{TokenURL: adminTokenURL, AuthStyle: oauth2.AuthStyleInParams},
		}
		source := &passwordTokenSource{
			ctx:      baseCtx,
			cfg:      adminOAuth,
			username: cfg.AdminUsername,
			password: cfg.AdminPassword,
		}
		admin = oauth2.NewClient(baseCtx, oauth2.ReuseTokenSource(nil, source))
	} else {
		cc := &clientcredentials.Config{
			ClientID:     cfg.AdminClientID,
			ClientSecret: cfg.AdminClientSecret,
			TokenURL:     base + "/realms/" + cfg.Realm + "/protocol/openid-connect/token",
			AuthStyle:    oauth2.AuthStyleInParams,
		}
		admin = cc.Client(baseCtx)
	}

	return &KeycloakIdentity{
		cfg: cfg,
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: cfg.TokenURL(), AuthStyle: oauth2.AuthStyleInParams},
		},
		httpClient: httpClient,
		admin:      admin,
		adminBase:  base + "/admin/realms/" + cfg.Realm,
	}
}

type passwordTokenSource struct {
	ctx      context.Context
	cfg      *oauth2.Config
	username string
	password string
}

func (s *passwordTokenSource) Token() (*oauth2.Token, error) {
	return s.cfg.PasswordCredentialsToken(s.ctx, s.username, s.password)
}

type keycloakUser struct {
	ID            string               `json:"id,omitempty"`
	Username      string               `json:"username,omitempty"`
	Email         string               `json:"email,omitempty"`
	FirstName     string               `json:"firstName,omitempty"`
	LastName      string               `json:"lastName,omitempty"`
	Enabled       *bool                `json:"enabled,omitempty"`
	EmailVerified *bool                `json:"emailVerified,omitempty"`
	Credentials   []keycloakCredential `json:"credentials,omitempty"`
}

type keycloakCredential struct {
	Type      string `json:"type"`
	Value     string `json:"value"`
	Temporary bool   `json:"temporary"`
}

type keycloakTokenResponse struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int64  `json:"expires_in"`
	RefreshExpiresIn int64  `json:"refresh_expires_in"`
}

func (k *KeycloakIdentity) FindUserByEmail(ctx context.Context, email string) (*IdentityUser, error) {
	query := url.Values{}
	query.Set("email", email)
	query.Set("exact", "true")

	var users []keycloakUser
	if _, err := k.adminJSON(ctx, http.MethodGet, "/users?"+query.Encode(), nil, &users); err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return toIdentityUser(u), nil
		}
	}
	return nil, nil
}

// CreateUser returns the id Keycloak assigns, read from the Location header.
func (k *KeycloakIdentity) CreateUser(ctx context.Context, user NewIdentityUser) (string, error) {
	body := keycloakUser{
		Username:      user.Email,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		Enabled:       boolPtr(user.Enabled),
		EmailVerified: boolPtr(user.EmailVerified),
		Credentials: []keycloakCredential{{
			Type:  "password",
			Value: user.Password,
		}},
	}

	response, err := k.adminJSON(ctx, http.MethodPost, "/users", body, nil)
	if err != nil {
		return "", err
	}
	location := response.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("%w: create user returned no location", ErrIdentityRequest)
	}
	return path.Base(location), nil
}

func (k *KeycloakIdentity) SetEnabledAndVerified(ctx context.Context, userID string, enabled bool, emailVerified bool) error {
	body := keycloakUser{
		Enabled:       boolPtr(enabled),
		EmailVerified: boolPtr(emailVerified),
	}
	_, err := k.adminJSON(ctx, http.MethodPut, "/users/"+url.PathEscape(userID), body, nil)
	return err
}

func (k *KeycloakIdentity) SetPassword(ctx context.Context, userID string, password string) error {
	body := keycloakCredential{Type: "password", Value: password}
	_, err := k.adminJSON(ctx, http.MethodPut, "/users/"+url.PathEscape(userID)+"/reset-password", body, nil)
	return err
}

func (k *KeycloakIdentity) PasswordGrant(ctx context.Context, email string, password string) (*TokenPair, error) {
	token, err := k.oauth.PasswordCredentialsToken(k.withClient(ctx), email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: password grant: %v", ErrIdentityRequest, err)
	}
	return toTokenPair(token), nil
}

func (k *KeycloakIdentity) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	expired := &oauth2.Token{RefreshToken: refreshToken, Expiry: time.Unix(1, 0)}
	token, err := k.oauth.TokenSource(k.withClient(ctx), expired).Token()
	if err != nil {
		return nil, fmt.Errorf("%w: refresh: %v", ErrIdentityRequest, err)
	}
	return toTokenPair(token), nil
}

func (k *KeycloakIdentity) Revoke(ctx context.Context, refreshToken string) error {
	form := url.Values{}
	form.Set("client_id", k.cfg.ClientID)
	form.Set("client_secret", k.cfg.ClientSecret)
	form.Set("refresh_token", refreshToken)

	response, err := k.postForm(ctx, k.cfg.LogoutURL(), form)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	return checkStatus(response, "logout")
}

func (k *KeycloakIdentity) ExchangeGoogleToken(ctx context.Context, idToken string) (*TokenPair, error) {
	form := url.Values{}
	form.Set("grant_type", grantTypeTokenExchange)
	form.Set("client_id", k.cfg.ClientID)
	form.Set("client_secret", k.cfg.ClientSecret)
	form.Set("subject_token", idToken)
	form.Set("subject_token_type", tokenTypeJWT)
	form.Set("subject_issuer", "google")

	response, err := k.postForm(ctx, k.cfg.TokenURL(), form)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()
	if err := checkStatus(response, "token exchange"); err != nil {
		return nil, err
	}

	var payload keycloakTokenResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode token exchange: %v", ErrIdentityRequest, err)
	}
	if payload.AccessToken == "" {
		return nil, fmt.Errorf("%w: token exchange returned no access token", ErrIdentityRequest)
	}
	return &TokenPair{
		AccessToken:      payload.AccessToken,
		RefreshToken:     payload.RefreshToken,
		TokenType:        payload.TokenType,
		ExpiresIn:        payload.ExpiresIn,
		RefreshExpiresIn: payload.RefreshExpiresIn,
	}, nil
}

func (k *KeycloakIdentity) withClient(ctx context.Context) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, k.httpClient)
}

func (k *KeycloakIdentity) postForm(ctx context.Context, target string, form url.Values) (*http.Response, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	response, err := k.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIdentityRequest, err)
	}
	return response, nil
}

// adminJSON sends body as JSON to the realm admin API and decodes the answer
// into out when out is non-nil. A 409 maps to ErrIdentityUserExists.
func (k *KeycloakIdentity) adminJSON(ctx context.Context, method string, endpoint string, body any, out any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	request, err := http.NewRequestWithContext(ctx, method, k.adminBase+endpoint, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")

	response, err := k.admin.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrIdentityRequest, method, endpoint, err)
	}
	defer response.Body.Close()

	if response.StatusCode == http.StatusConflict {
		return nil, ErrIdentityUserExists
	}
	if err := checkStatus(response, method+" "+endpoint); err != nil {
		return nil, err
	}
	if out != nil {
		if err := json.NewDecoder(response.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("%w: decode %s: %v", ErrIdentityRequest, endpoint, err)
		}
	}
	return response, nil
}

func checkStatus(response *http.Response, op string) error {
	if response.StatusCode >= 200 && response.StatusCode < 300 {
		return nil
	}
	detail, _ := io.ReadAll(io.LimitReader(response.Body, 512))
	return fmt.Errorf("%w: %s returned status %d: %s", ErrIdentityRequest, op, response.StatusCode, strings.TrimSpace(string(detail)))
}

func toIdentityUser(u keycloakUser) *IdentityUser {
	return &IdentityUser{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Enabled:       u.Enabled != nil && *u.Enabled,
		EmailVerified: u.EmailVerified != nil && *u.EmailVerified,
	}
}

func toTokenPair(token *oauth2.Token) *TokenPair {
	return &TokenPair{
		AccessToken:      token.AccessToken,
		RefreshToken:     token.RefreshToken,
		TokenType:        token.TokenType,
		ExpiresIn:        extraInt64(token, "expires_in"),
		RefreshExpiresIn: extraInt64(token, "refresh_expires_in"),
	}
}

func extraInt64(token *oauth2.Token, key string) int64 {
	switch v := token.Extra(key).(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case json.Number:
		n, _ := v.Int64()
		return n
	default:
		return 0
	}
}

func boolPtr(v bool) *bool {
	return &v
}

var _ IdentityProvider = (*KeycloakIdentity)(nil)
