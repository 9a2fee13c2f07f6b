package usecase

import (
	"context"
	"net/url"

	"menshub/internal/domain/entity"
)

// Route names used as guard redirect targets.
const (
	RouteLogin = "login"
	RouteHome  = "home"
)

// RouteRule describes the authorization requirements of a navigation
// target.
type RouteRule struct {
	Name         string
	Path         string
	RequiresAuth bool
	// Roles, when non-empty, restricts the route to actors holding at
	// least one of the listed roles.
	Roles entity.Roles
}

// GuardDecision is the outcome of evaluating a navigation. A denied
// navigation carries the redirect target instead of an error; guard
// evaluation never propagates exceptions to the router.
type GuardDecision struct {
	Allowed    bool
	RedirectTo string     // Route name to redirect to when denied.
	Query      url.Values // Query parameters attached to the redirect.
}

// Allow is the decision that lets a navigation proceed.
func Allow() GuardDecision {
	return GuardDecision{Allowed: true}
}

// RedirectToLogin denies a navigation, preserving the intended destination.
func RedirectToLogin(intended string) GuardDecision {
	return GuardDecision{
		Allowed:    false,
		RedirectTo: RouteLogin,
		Query:      url.Values{"redirect": []string{intended}},
	}
}

// RedirectUnauthorized denies a navigation on role grounds.
func RedirectUnauthorized() GuardDecision {
	return GuardDecision{
		Allowed:    false,
		RedirectTo: RouteHome,
		Query:      url.Values{"error": []string{"unauthorized"}},
	}
}

// GuardUsecase evaluates navigations against authentication and role
// requirements.
type GuardUsecase interface {
	// Evaluate decides whether the navigation may proceed. The first
	// evaluation waits for the identity provider's initial state
	// resolution; subsequent evaluations reuse the memoized result.
	// Unexpected failures deny auth-required routes and allow public ones.
	Evaluate(ctx context.Context, route RouteRule) GuardDecision

	// Rules returns the registered route table.
	Rules() []RouteRule

	// RuleFor looks up the rule matching a path. The second return is
	// false for unregistered paths, which require no authentication.
	RuleFor(path string) (RouteRule, bool)
}
