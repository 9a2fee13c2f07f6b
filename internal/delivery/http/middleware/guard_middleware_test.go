package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"menshub/internal/usecase"
)

// stubGuard returns canned decisions for registered paths.
type stubGuard struct {
	rules     map[string]usecase.RouteRule
	decisions map[string]usecase.GuardDecision
}

func (g *stubGuard) Evaluate(_ context.Context, route usecase.RouteRule) usecase.GuardDecision {
	if decision, ok := g.decisions[route.Name]; ok {
		return decision
	}

	return usecase.Allow()
}

func (g *stubGuard) Rules() []usecase.RouteRule {
	rules := make([]usecase.RouteRule, 0, len(g.rules))
	for _, rule := range g.rules {
		rules = append(rules, rule)
	}

	return rules
}

func (g *stubGuard) RuleFor(path string) (usecase.RouteRule, bool) {
	rule, ok := g.rules[path]

	return rule, ok
}

// stubActivityAuth records NoteActivity calls.
type stubActivityAuth struct {
	usecase.AuthUsecase

	activityCalls int
}

func (s *stubActivityAuth) NoteActivity() {
	s.activityCalls++
}

func newGuardTestServer(guard usecase.GuardUsecase, auth usecase.AuthUsecase) *echo.Echo {
	e := echo.New()
	m := NewGuardMiddleware(guard, auth, slog.New(slog.DiscardHandler))
	e.Use(m.Handle)
	e.GET("/*", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	return e
}

func TestGuardMiddleware_UnregisteredPathPassesThrough(t *testing.T) {
	guard := &stubGuard{rules: map[string]usecase.RouteRule{}}
	e := newGuardTestServer(guard, &stubActivityAuth{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/anything", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGuardMiddleware_DeniedBrowserRequestRedirects(t *testing.T) {
	guard := &stubGuard{
		rules: map[string]usecase.RouteRule{
			"/profile": {Name: "profile", Path: "/profile", RequiresAuth: true},
		},
		decisions: map[string]usecase.GuardDecision{
			"profile": usecase.RedirectToLogin("/profile"),
		},
	}
	e := newGuardTestServer(guard, &stubActivityAuth{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?redirect=%2Fprofile", rec.Header().Get(echo.HeaderLocation))
}

func TestGuardMiddleware_DeniedJSONRequestGets401(t *testing.T) {
	guard := &stubGuard{
		rules: map[string]usecase.RouteRule{
			"/profile": {Name: "profile", Path: "/profile", RequiresAuth: true},
		},
		decisions: map[string]usecase.GuardDecision{
			"profile": usecase.RedirectToLogin("/profile"),
		},
	}
	e := newGuardTestServer(guard, &stubActivityAuth{})

	req := httptest.NewRequest(http.MethodGet, "/profile", nil)
	req.Header.Set(echo.HeaderAccept, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "AUTH_REQUIRED")
}

func TestGuardMiddleware_RoleDenialRedirectsHome(t *testing.T) {
	guard := &stubGuard{
		rules: map[string]usecase.RouteRule{
			"/admin": {Name: "admin", Path: "/admin", RequiresAuth: true},
		},
		decisions: map[string]usecase.GuardDecision{
			"admin": usecase.RedirectUnauthorized(),
		},
	}
	e := newGuardTestServer(guard, &stubActivityAuth{})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil))

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/?error=unauthorized", rec.Header().Get(echo.HeaderLocation))
}

func TestGuardMiddleware_AllowedAuthRouteCountsActivity(t *testing.T) {
	guard := &stubGuard{
		rules: map[string]usecase.RouteRule{
			"/profile": {Name: "profile", Path: "/profile", RequiresAuth: true},
		},
	}
	auth := &stubActivityAuth{}
	e := newGuardTestServer(guard, auth)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, auth.activityCalls)
}

func TestGuardMiddleware_PublicRouteDoesNotCountActivity(t *testing.T) {
	guard := &stubGuard{
		rules: map[string]usecase.RouteRule{
			"/": {Name: "home", Path: "/", RequiresAuth: false},
		},
	}
	auth := &stubActivityAuth{}
	e := newGuardTestServer(guard, auth)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, auth.activityCalls)
}
