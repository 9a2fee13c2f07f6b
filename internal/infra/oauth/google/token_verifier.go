package google

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"

	"menshub/config"
)

// IDTokenClaims represents the claims in a Google ID token
type IDTokenClaims struct {
	Iss           string `json:"iss"`
	Sub           string `json:"sub"`
	Aud           string `json:"aud"`
	Exp           int64  `json:"exp"`
	Iat           int64  `json:"iat"`
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
}

// TokenVerifier validates Google ID tokens presented by the direct
// token sign-in flow.
type TokenVerifier struct {
	clientID string
	now      func() time.Time
}

// NewTokenVerifier creates a verifier bound to the configured client id.
func NewTokenVerifier(cfg *config.Config) (*TokenVerifier, error) {
	if cfg.GoogleOAuth == nil || cfg.GoogleOAuth.ClientID == "" {
		return nil, errors.New("google oauth client id must be provided")
	}

	return &TokenVerifier{clientID: cfg.GoogleOAuth.ClientID, now: time.Now}, nil
}

// Verify parses and validates an ID token and returns the user profile.
func (v *TokenVerifier) Verify(idToken string) (*UserInfo, error) {
	claims, err := parseIDToken(idToken)
	if err != nil {
		return nil, errors.Wrap(err, "invalid ID token")
	}

	if err := v.verifyClaims(claims); err != nil {
		return nil, errors.Wrap(err, "token verification failed")
	}

	return &UserInfo{
		Sub:           claims.Sub,
		Email:         claims.Email,
		Name:          claims.Name,
		Picture:       claims.Picture,
		EmailVerified: claims.EmailVerified,
	}, nil
}

// verifyClaims verifies the token claims
func (v *TokenVerifier) verifyClaims(claims *IDTokenClaims) error {
	// Check issuer
	if claims.Iss != "https://accounts.google.com" && claims.Iss != "accounts.google.com" {
		return errors.Errorf("invalid issuer: %s", claims.Iss)
	}

	// Check audience (client ID)
	if claims.Aud != v.clientID {
		return errors.Errorf("invalid audience: expected %s, got %s", v.clientID, claims.Aud)
	}

	// Check expiration
	now := v.now().Unix()
	if claims.Exp < now {
		return errors.Errorf("token expired: expired at %d, current time %d", claims.Exp, now)
	}

	if claims.Sub == "" {
		return errors.New("token missing subject")
	}

	return nil
}

// parseIDToken parses the JWT token and extracts claims
func parseIDToken(token string) (*IDTokenClaims, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, errors.New("invalid JWT format")
	}

	decoded, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, errors.Wrap(err, "failed to decode token payload")
	}

	var claims IDTokenClaims
	if err := json.Unmarshal(decoded, &claims); err != nil {
		return nil, errors.Wrap(err, "failed to parse token claims")
	}

	return &claims, nil
}
