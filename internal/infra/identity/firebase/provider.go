// Package firebase implements the remote identity provider on the Firebase
// Admin SDK. Password verification goes through the Identity Toolkit REST
// endpoint because the Admin SDK cannot check passwords; everything else
// (account creation, token revocation, action links) uses the SDK.
package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/mail"
	"net/url"
	"strings"
	"time"

	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"github.com/pkg/errors"

	"menshub/config"
	"menshub/internal/domain/entity"
	domainerrors "menshub/internal/domain/errors"
	"menshub/internal/domain/repository"
	"menshub/internal/domain/service"
	"menshub/internal/infra/oauth/google"
)

const signInEndpoint = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// Provider is the Firebase-backed GoogleIdentityProvider.
type Provider struct {
	authClient    *firebaseauth.Client
	userRepo      repository.UserRepository
	mailService   service.MailService
	oauthService  *google.OAuthService
	tokenVerifier *google.TokenVerifier
	logger        *slog.Logger

	webAPIKey      string
	resetTemplate  string
	verifyTemplate string
	httpClient     *http.Client
	signInURL      string
}

// NewProvider is the constructor for the Firebase identity provider.
func NewProvider(
	ctx context.Context,
	cfg *config.Config,
	app *firebase.App,
	userRepo repository.UserRepository,
	mailService service.MailService,
	oauthService *google.OAuthService,
	tokenVerifier *google.TokenVerifier,
	logger *slog.Logger,
) (service.GoogleIdentityProvider, error) {
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "initialize firebase auth client")
	}

	resetTemplate := ""
	verifyTemplate := ""
	if cfg.Mail != nil {
		resetTemplate = cfg.Mail.Templates.PasswordReset
		verifyTemplate = cfg.Mail.Templates.VerifyEmail
	}

	return &Provider{
		authClient:     authClient,
		userRepo:       userRepo,
		mailService:    mailService,
		oauthService:   oauthService,
		tokenVerifier:  tokenVerifier,
		logger:         logger,
		webAPIKey:      cfg.Firebase.WebAPIKey,
		resetTemplate:  resetTemplate,
		verifyTemplate: verifyTemplate,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		signInURL:      signInEndpoint,
	}, nil
}

// Register creates an account and returns the unified view model.
func (p *Provider) Register(ctx context.Context, input *service.RegisterInput) (*entity.Account, error) {
	if err := validateRegistration(input); err != nil {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = entity.RoleMember
	}

	toCreate := (&firebaseauth.UserToCreate{}).
		Email(input.Email).
		Password(input.Password).
		DisplayName(input.Name)

	created, err := p.authClient.CreateUser(ctx, toCreate)
	if err != nil {
		return nil, mapAdminError(err)
	}

	now := time.Now()
	record := &entity.UserRecord{
		UID:           created.UID,
		Name:          input.Name,
		Email:         strings.ToLower(input.Email),
		Role:          role,
		Provider:      "password",
		EmailVerified: false,
		CreatedAt:     now,
		LastLoginAt:   now,
	}
	if err := p.userRepo.Create(ctx, record); err != nil {
		p.logger.Error("user record write failed after registration",
			slog.String("uid", created.UID), slog.Any("error", err))
	}

	// Verification email is best-effort; the account is already created.
	p.sendVerificationEmail(ctx, record)

	return accountFromRecord(record), nil
}

// Login authenticates an email/password pair through the Identity Toolkit
// REST endpoint.
func (p *Provider) Login(ctx context.Context, email, password string) (*entity.Account, error) {
	uid, err := p.verifyPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}

	record, err := p.userRepo.FindByUID(ctx, uid)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		// Account predates the user collection; backfill the record.
		record = &entity.UserRecord{
			UID:         uid,
			Email:       strings.ToLower(email),
			Role:        entity.RoleMember,
			Provider:    "password",
			CreatedAt:   time.Now(),
			LastLoginAt: time.Now(),
		}
		if createErr := p.userRepo.Create(ctx, record); createErr != nil {
			p.logger.Warn("user record backfill failed", slog.String("uid", uid), slog.Any("error", createErr))
		}
	case err != nil:
		return nil, domainerrors.ErrProviderUnavailable.WrapMessage(err.Error())
	default:
		if touchErr := p.userRepo.TouchLastLogin(ctx, uid); touchErr != nil {
			p.logger.Warn("last-login stamp failed", slog.String("uid", uid), slog.Any("error", touchErr))
		}
	}

	return accountFromRecord(record), nil
}

// CurrentUser resolves the view model for an authenticated subject.
func (p *Provider) CurrentUser(ctx context.Context, subjectID string) (*entity.Account, error) {
	providerUser, err := p.authClient.GetUser(ctx, subjectID)
	if err != nil {
		if firebaseauth.IsUserNotFound(err) {
			return nil, nil
		}

		return nil, mapAdminError(err)
	}

	record, err := p.userRepo.FindByUID(ctx, subjectID)
	if errors.Is(err, repository.ErrUserNotFound) {
		// Provider knows the subject but the record is gone; serve the
		// provider view with the default role.
		return &entity.Account{
			UID:           providerUser.UID,
			Name:          providerUser.DisplayName,
			Email:         providerUser.Email,
			Role:          entity.RoleMember,
			EmailVerified: providerUser.EmailVerified,
		}, nil
	}
	if err != nil {
		return nil, domainerrors.ErrProviderUnavailable.WrapMessage(err.Error())
	}

	account := accountFromRecord(record)
	account.EmailVerified = providerUser.EmailVerified

	return account, nil
}

// Logout revokes the subject's refresh tokens.
func (p *Provider) Logout(ctx context.Context, subjectID string) error {
	if err := p.authClient.RevokeRefreshTokens(ctx, subjectID); err != nil {
		if firebaseauth.IsUserNotFound(err) {
			return nil
		}

		return mapAdminError(err)
	}

	return nil
}

// ListUsers returns all known accounts.
func (p *Provider) ListUsers(ctx context.Context) ([]*entity.Account, error) {
	records, err := p.userRepo.List(ctx)
	if err != nil {
		return nil, domainerrors.ErrProviderUnavailable.WrapMessage(err.Error())
	}

	accounts := make([]*entity.Account, 0, len(records))
	for _, record := range records {
		accounts = append(accounts, accountFromRecord(record))
	}

	return accounts, nil
}

// LoginWithGoogle verifies a Google ID token and creates or refreshes the
// account record. An empty token means the sign-in window was dismissed
// before completing.
func (p *Provider) LoginWithGoogle(ctx context.Context, idToken string) (*entity.Account, error) {
	if idToken == "" {
		return nil, domainerrors.ErrPopupBlocked
	}

	info, err := p.tokenVerifier.Verify(idToken)
	if err != nil {
		return nil, domainerrors.ErrUnknownAuthFailure.WithDetails(err.Error())
	}

	return p.upsertGoogleUser(ctx, info)
}

// AuthorizationURL builds the redirect-flow authorization URL.
func (p *Provider) AuthorizationURL(state string) string {
	return p.oauthService.BuildAuthorizationURL(state)
}

// HandleRedirectResult resolves a pending redirect-based OAuth flow from
// its state and authorization code. It returns (nil, nil) when no redirect
// is pending.
func (p *Provider) HandleRedirectResult(ctx context.Context, state, code string) (*entity.Account, error) {
	if code == "" {
		return nil, nil
	}

	if state != "" && !p.oauthService.ValidateState(state) {
		return nil, domainerrors.ErrUnknownAuthFailure.WithDetails("oauth state mismatch")
	}

	accessToken, err := p.oauthService.ExchangeCodeForToken(ctx, code)
	if err != nil {
		return nil, domainerrors.ErrNetworkFailure.WrapMessage(err.Error())
	}

	info, err := p.oauthService.GetUserInfo(ctx, accessToken)
	if err != nil {
		return nil, domainerrors.ErrNetworkFailure.WrapMessage(err.Error())
	}

	return p.upsertGoogleUser(ctx, info)
}

// ResetPassword dispatches a password-reset email.
func (p *Provider) ResetPassword(ctx context.Context, email string) error {
	link, err := p.authClient.PasswordResetLink(ctx, email)
	if err != nil {
		return mapAdminError(err)
	}

	if err := p.mailService.Send(ctx, p.resetTemplate, map[string]string{
		"to_email":   email,
		"reset_link": link,
	}); err != nil {
		return domainerrors.ErrMailDispatchFailed.WrapMessage(err.Error())
	}

	return nil
}

// verifyPassword calls accounts:signInWithPassword and maps its error codes.
func (p *Provider) verifyPassword(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return "", errors.Wrap(err, "encode sign-in request")
	}

	endpoint := p.signInURL + "?key=" + url.QueryEscape(p.webAPIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "create sign-in request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", domainerrors.ErrNetworkFailure.WrapMessage(err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domainerrors.ErrNetworkFailure.WrapMessage(err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Error.Message == "" {
			return "", domainerrors.ErrProviderUnavailable.WithDetails(string(body))
		}

		return "", mapSignInError(apiErr.Error.Message)
	}

	var result struct {
		LocalID string `json:"localId"`
		Email   string `json:"email"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", domainerrors.ErrProviderUnavailable.WrapMessage(err.Error())
	}
	if result.LocalID == "" {
		return "", domainerrors.ErrUnknownAuthFailure
	}

	return result.LocalID, nil
}

func (p *Provider) upsertGoogleUser(ctx context.Context, info *google.UserInfo) (*entity.Account, error) {
	record, err := p.userRepo.FindByUID(ctx, info.Sub)
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		now := time.Now()
		record = &entity.UserRecord{
			UID:           info.Sub,
			Name:          info.Name,
			Email:         strings.ToLower(info.Email),
			Role:          entity.RoleMember,
			Provider:      "google",
			EmailVerified: info.EmailVerified,
			CreatedAt:     now,
			LastLoginAt:   now,
		}
		if createErr := p.userRepo.Create(ctx, record); createErr != nil {
			return nil, domainerrors.ErrProviderUnavailable.WrapMessage(createErr.Error())
		}
	case err != nil:
		return nil, domainerrors.ErrProviderUnavailable.WrapMessage(err.Error())
	default:
		if touchErr := p.userRepo.TouchLastLogin(ctx, info.Sub); touchErr != nil {
			p.logger.Warn("last-login stamp failed", slog.String("uid", info.Sub), slog.Any("error", touchErr))
		}
	}

	return accountFromRecord(record), nil
}

func (p *Provider) sendVerificationEmail(ctx context.Context, record *entity.UserRecord) {
	link, err := p.authClient.EmailVerificationLink(ctx, record.Email)
	if err != nil {
		p.logger.Warn("verification link generation failed",
			slog.String("email", record.Email), slog.Any("error", err))

		return
	}

	if err := p.mailService.Send(ctx, p.verifyTemplate, map[string]string{
		"to_email":    record.Email,
		"to_name":     record.Name,
		"verify_link": link,
	}); err != nil {
		p.logger.Warn("verification email dispatch failed",
			slog.String("email", record.Email), slog.Any("error", err))
	}
}

func validateRegistration(input *service.RegisterInput) error {
	if _, err := mail.ParseAddress(input.Email); err != nil {
		return domainerrors.ErrInvalidEmail
	}
	if len(input.Password) < 6 {
		return domainerrors.ErrWeakPassword
	}

	return nil
}

func accountFromRecord(record *entity.UserRecord) *entity.Account {
	return &entity.Account{
		UID:           record.UID,
		Name:          record.Name,
		Email:         record.Email,
		Role:          entity.NormalizeRoles(record.Role).Primary(),
		EmailVerified: record.EmailVerified,
	}
}
