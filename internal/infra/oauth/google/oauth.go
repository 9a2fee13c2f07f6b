// Package google implements the Google OAuth plumbing used by the remote
// identity provider: the redirect-flow authorization URL with CSRF state,
// the code-for-token exchange, and ID token verification for the direct
// token sign-in flow.
package google

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"menshub/config"

	"github.com/pkg/errors"
)

const (
	googleOAuthURL    = "https://accounts.google.com/o/oauth2/v2/auth"
	googleTokenURL    = "https://oauth2.googleapis.com/token"
	googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// UserInfo is the profile returned by Google for a signed-in user,
// whichever flow produced it.
type UserInfo struct {
	Sub           string
	Email         string
	Name          string
	Picture       string
	EmailVerified bool
}

// OAuthService handles Google OAuth infrastructure operations
type OAuthService struct {
	clientID     string
	clientSecret string
	redirectURI  string
	scopes       string
	httpClient   *http.Client

	// State storage for CSRF protection
	stateStore map[string]time.Time
	stateMutex sync.Mutex
}

// NewOAuthService creates a new Google OAuth service
func NewOAuthService(cfg *config.Config) (*OAuthService, error) {
	if cfg.GoogleOAuth == nil {
		return nil, errors.New("google oauth config must be provided")
	}

	return &OAuthService{
		clientID:     cfg.GoogleOAuth.ClientID,
		clientSecret: cfg.GoogleOAuth.ClientSecret,
		redirectURI:  cfg.GoogleOAuth.RedirectURI,
		scopes:       cfg.GoogleOAuth.Scopes,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		stateStore:   make(map[string]time.Time),
	}, nil
}

// GenerateState generates a cryptographically secure random state string
// and records it for later validation.
func (s *OAuthService) GenerateState() string {
	bytes := make([]byte, 32)
	rand.Read(bytes)
	state := hex.EncodeToString(bytes)

	s.storeState(state)

	return state
}

// storeState stores a state parameter with expiration time
func (s *OAuthService) storeState(state string) {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	// State expires after 10 minutes
	s.stateStore[state] = time.Now().Add(10 * time.Minute)

	// Clean up expired states
	now := time.Now()
	for key, expiry := range s.stateStore {
		if now.After(expiry) {
			delete(s.stateStore, key)
		}
	}
}

// ValidateState validates the state parameter to prevent CSRF attacks.
// A state is single-use: validating it consumes it.
func (s *OAuthService) ValidateState(state string) bool {
	s.stateMutex.Lock()
	defer s.stateMutex.Unlock()

	expiry, exists := s.stateStore[state]
	if !exists {
		return false
	}

	delete(s.stateStore, state)

	return !time.Now().After(expiry)
}

// BuildAuthorizationURL constructs the Google OAuth authorization URL with
// state parameter for CSRF protection. The account chooser is always shown
// so a shared machine never silently reuses the previous account.
func (s *OAuthService) BuildAuthorizationURL(state string) string {
	s.storeState(state)

	params := url.Values{}
	params.Set("client_id", s.clientID)
	params.Set("redirect_uri", s.redirectURI)
	params.Set("scope", s.scopes)
	params.Set("response_type", "code")
	params.Set("state", state)
	params.Set("prompt", "select_account")

	return googleOAuthURL + "?" + params.Encode()
}

// ExchangeCodeForToken exchanges an authorization code for an access token
func (s *OAuthService) ExchangeCodeForToken(ctx context.Context, code string) (string, error) {
	data := url.Values{}
	data.Set("client_id", s.clientID)
	data.Set("client_secret", s.clientSecret)
	data.Set("code", code)
	data.Set("grant_type", "authorization_code")
	data.Set("redirect_uri", s.redirectURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, googleTokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return "", errors.Wrap(err, "failed to create token exchange request")
	}

	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "failed to exchange code for token")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return "", errors.Errorf("token exchange failed with status %d: %s", resp.StatusCode, string(body))
	}

	var tokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", errors.Wrap(err, "failed to decode token response")
	}

	return tokenResponse.AccessToken, nil
}

// GetUserInfo retrieves user information using an access token
func (s *OAuthService) GetUserInfo(ctx context.Context, accessToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create user info request")
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get user info")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		return nil, errors.Errorf("user info request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var googleUser struct {
		ID            string `json:"id"`
		Email         string `json:"email"`
		Name          string `json:"name"`
		Picture       string `json:"picture"`
		VerifiedEmail bool   `json:"verified_email"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&googleUser); err != nil {
		return nil, errors.Wrap(err, "failed to decode user info response")
	}

	return &UserInfo{
		Sub:           googleUser.ID,
		Email:         googleUser.Email,
		Name:          googleUser.Name,
		Picture:       googleUser.Picture,
		EmailVerified: googleUser.VerifiedEmail,
	}, nil
}
