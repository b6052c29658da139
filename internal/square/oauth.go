package square

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/smoothbar/studio-backend/internal/tokens"
	"github.com/smoothbar/studio-backend/pkg/logging"
)

// oauthScopes are the read-only permissions the booking calendar needs.
const oauthScopes = "MERCHANT_PROFILE_READ APPOINTMENTS_READ APPOINTMENTS_ALL_READ ITEMS_READ"

// OAuthConfig holds configuration for the Square OAuth flow.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string // e.g. "https://studio.example.com/callback"
	BaseURL      string // e.g. "https://connect.squareup.com"
	Version      string // Square-Version header
}

// OAuthService handles the authorization-code exchange and token refresh,
// persisting the result in the token store.
type OAuthService struct {
	config OAuthConfig
	store  *tokens.Store
	logger *logging.Logger
}

// NewOAuthService creates a Square OAuth service.
func NewOAuthService(config OAuthConfig, store *tokens.Store, logger *logging.Logger) *OAuthService {
	if logger == nil {
		logger = logging.Default()
	}
	return &OAuthService{
		config: config,
		store:  store,
		logger: logger,
	}
}

// AuthorizationURL builds the URL the studio owner is sent to for consent.
// state must be an unguessable nonce tied to the session to prevent CSRF.
func (s *OAuthService) AuthorizationURL(state string) string {
	params := url.Values{
		"client_id":    {s.config.ClientID},
		"scope":        {oauthScopes},
		"state":        {state},
		"redirect_uri": {s.config.RedirectURI},
	}
	return fmt.Sprintf("%s/oauth2/authorize?%s", s.config.BaseURL, params.Encode())
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresAt    string `json:"expires_at"` // ISO 8601
	MerchantID   string `json:"merchant_id"`
	RefreshToken string `json:"refresh_token"`
}

// ExchangeCode exchanges an authorization code for access and refresh
// tokens and persists them.
func (s *OAuthService) ExchangeCode(ctx context.Context, code string) (tokens.Credentials, error) {
	creds, err := s.requestToken(ctx, url.Values{
		"client_id":     {s.config.ClientID},
		"client_secret": {s.config.ClientSecret},
		"code":          {code},
		"grant_type":    {"authorization_code"},
		"redirect_uri":  {s.config.RedirectURI},
	})
	if err != nil {
		return tokens.Credentials{}, err
	}

	if err := s.store.Save(creds); err != nil {
		return tokens.Credentials{}, err
	}
	s.logger.Info("square account connected", "merchant_id", creds.MerchantID)
	return creds, nil
}

// Refresh trades the stored refresh token for a fresh access token and
// persists the result.
func (s *OAuthService) Refresh(ctx context.Context) (tokens.Credentials, error) {
	current := s.store.Get()
	if current.RefreshToken == "" {
		return tokens.Credentials{}, fmt.Errorf("square: no refresh token stored")
	}

	creds, err := s.requestToken(ctx, url.Values{
		"client_id":     {s.config.ClientID},
		"client_secret": {s.config.ClientSecret},
		"refresh_token": {current.RefreshToken},
		"grant_type":    {"refresh_token"},
	})
	if err != nil {
		return tokens.Credentials{}, err
	}

	if err := s.store.Save(creds); err != nil {
		return tokens.Credentials{}, err
	}
	s.logger.Info("square token refreshed", "merchant_id", creds.MerchantID)
	return creds, nil
}

func (s *OAuthService) requestToken(ctx context.Context, form url.Values) (tokens.Credentials, error) {
	tokenURL := fmt.Sprintf("%s/oauth2/token", s.config.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return tokens.Credentials{}, fmt.Errorf("square: create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Square-Version", s.config.Version)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return tokens.Credentials{}, fmt.Errorf("square: token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return tokens.Credentials{}, fmt.Errorf("square: read token response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		s.logger.Error("square token request failed", "status", resp.StatusCode, "body", string(body))
		return tokens.Credentials{}, fmt.Errorf("square: token request failed: status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return tokens.Credentials{}, fmt.Errorf("square: parse token response: %w", err)
	}
	if tr.AccessToken == "" {
		return tokens.Credentials{}, fmt.Errorf("square: token response missing access token")
	}

	expiresAt, err := time.Parse(time.RFC3339, tr.ExpiresAt)
	if err != nil {
		// Square grants last 30 days when unspecified.
		expiresAt = time.Now().Add(30 * 24 * time.Hour)
	}

	return tokens.Credentials{
		AccessToken:  tr.AccessToken,
		RefreshToken: tr.RefreshToken,
		MerchantID:   tr.MerchantID,
		ExpiresAt:    expiresAt,
	}, nil
}
