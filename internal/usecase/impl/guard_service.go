package impl

import (
	"context"
	"log/slog"
	"sync"

	"menshub/internal/domain/entity"
	"menshub/internal/usecase"
)

// guardService evaluates navigations against the route table. It fails
// safe toward privacy: any unexpected failure denies auth-required routes
// and allows public ones.
type guardService struct {
	auth   usecase.AuthUsecase
	logger *slog.Logger
	rules  []usecase.RouteRule
	byPath map[string]usecase.RouteRule

	// readyOnce memoizes the first identity resolution so repeated
	// navigations do not re-wait for provider warm-up.
	readyOnce sync.Once
}

// DefaultRouteRules is the route table of the application.
func DefaultRouteRules() []usecase.RouteRule {
	return []usecase.RouteRule{
		{Name: usecase.RouteHome, Path: "/", RequiresAuth: false},
		{Name: usecase.RouteLogin, Path: "/login", RequiresAuth: false},
		{Name: "register", Path: "/register", RequiresAuth: false},
		{Name: "resources", Path: "/resources", RequiresAuth: false},
		{Name: "contact", Path: "/contact", RequiresAuth: false},
		{Name: "profile", Path: "/profile", RequiresAuth: true},
		{Name: "directory", Path: "/directory", RequiresAuth: true},
		{Name: "admin", Path: "/admin", RequiresAuth: true, Roles: entity.Roles{entity.RoleAdmin}},
	}
}

// NewGuardService is the constructor for the route guard.
func NewGuardService(auth usecase.AuthUsecase, logger *slog.Logger, rules []usecase.RouteRule) usecase.GuardUsecase {
	byPath := make(map[string]usecase.RouteRule, len(rules))
	for _, rule := range rules {
		byPath[rule.Path] = rule
	}

	return &guardService{
		auth:   auth,
		logger: logger,
		rules:  rules,
		byPath: byPath,
	}
}

// Evaluate decides whether the navigation may proceed.
func (g *guardService) Evaluate(ctx context.Context, route usecase.RouteRule) usecase.GuardDecision {
	if !route.RequiresAuth {
		return usecase.Allow()
	}

	decision, err := g.evaluateAuthenticated(ctx, route)
	if err != nil {
		// Fail safe toward privacy on auth-required routes.
		g.logger.Warn("guard evaluation failed, denying navigation",
			slog.String("path", route.Path),
			slog.Any("error", err))

		return usecase.RedirectToLogin(route.Path)
	}

	return decision
}

func (g *guardService) evaluateAuthenticated(ctx context.Context, route usecase.RouteRule) (usecase.GuardDecision, error) {
	g.awaitReady(ctx)

	account, err := g.auth.CurrentUser(ctx)
	if err != nil {
		return usecase.GuardDecision{}, err
	}
	if account == nil || !g.auth.IsAuthenticated() {
		return usecase.RedirectToLogin(route.Path), nil
	}

	if len(route.Roles) > 0 && !account.Roles().Intersects(route.Roles) {
		return usecase.RedirectUnauthorized(), nil
	}

	return usecase.Allow(), nil
}

// awaitReady blocks the first caller on the initial identity resolution;
// later callers pass straight through.
func (g *guardService) awaitReady(ctx context.Context) {
	g.readyOnce.Do(func() {
		if _, err := g.auth.CurrentUser(ctx); err != nil {
			g.logger.Warn("initial identity resolution failed", slog.Any("error", err))
		}
	})
}

// Rules returns the registered route table.
func (g *guardService) Rules() []usecase.RouteRule {
	return g.rules
}

// RuleFor looks up the rule matching a path.
func (g *guardService) RuleFor(path string) (usecase.RouteRule, bool) {
	rule, ok := g.byPath[path]

	return rule, ok
}
