package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"menshub/internal/delivery/http/response"
	"menshub/internal/usecase"
)

// GuardMiddleware enforces the route table on incoming requests. Denied
// navigations are answered with a redirect (browser clients) or with the
// matching 401/403 envelope carrying the redirect target (API clients);
// guard evaluation itself never surfaces an error.
type GuardMiddleware struct {
	guard  usecase.GuardUsecase
	auth   usecase.AuthUsecase
	logger *slog.Logger
}

// NewGuardMiddleware creates a new route guard middleware.
func NewGuardMiddleware(guard usecase.GuardUsecase, auth usecase.AuthUsecase, logger *slog.Logger) *GuardMiddleware {
	return &GuardMiddleware{
		guard:  guard,
		auth:   auth,
		logger: logger,
	}
}

// Handle evaluates the request path against the route table.
func (m *GuardMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path

		rule, registered := m.guard.RuleFor(path)
		if !registered {
			// Unregistered paths carry no requirements.
			return next(c)
		}

		decision := m.guard.Evaluate(c.Request().Context(), rule)
		if !decision.Allowed {
			return m.deny(c, decision)
		}

		if rule.RequiresAuth {
			// Authenticated traffic counts as activity for the idle
			// watchdog.
			m.auth.NoteActivity()
		}

		return next(c)
	}
}

// Protect wraps a single route with the given rule, bypassing the path
// lookup. Used for auth-required API routes that are not navigation
// targets themselves.
func (m *GuardMiddleware) Protect(rule usecase.RouteRule) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := m.guard.Evaluate(c.Request().Context(), rule)
			if !decision.Allowed {
				return m.deny(c, decision)
			}

			m.auth.NoteActivity()

			return next(c)
		}
	}
}

func (m *GuardMiddleware) deny(c echo.Context, decision usecase.GuardDecision) error {
	target := m.redirectTarget(decision)

	if wantsJSON(c) {
		if decision.RedirectTo == usecase.RouteHome {
			return response.Error(c, http.StatusForbidden, "UNAUTHORIZED_ROLE",
				"You do not have permission to view this page.", target)
		}

		return response.Error(c, http.StatusUnauthorized, "AUTH_REQUIRED",
			"Please log in to continue.", target)
	}

	return c.Redirect(http.StatusFound, target)
}

// redirectTarget resolves a guard route name to a concrete location,
// carrying the decision's query string along.
func (m *GuardMiddleware) redirectTarget(decision usecase.GuardDecision) string {
	base := "/"
	if decision.RedirectTo == usecase.RouteLogin {
		base = "/login"
	}

	if len(decision.Query) == 0 {
		return base
	}

	return base + "?" + decision.Query.Encode()
}

func wantsJSON(c echo.Context) bool {
	if c.Request().Header.Get("X-Requested-With") == "XMLHttpRequest" {
		return true
	}

	return strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON)
}
