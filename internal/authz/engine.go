package authz

import (
	"context"
	"strings"

	"github.com/gatewarden/gatewarden/internal/auth"
	"github.com/gatewarden/gatewarden/internal/shared"
)

// RuleSource supplies the current endpoint rules in evaluation order.
type RuleSource interface {
	ListRules(ctx context.Context) ([]EndpointRule, error)
}

// Engine combines the rule store, pattern matcher and role hierarchy into a
// per-request allow/deny decision. It is stateless and safe for concurrent use.
type Engine struct {
	rules     RuleSource
	hierarchy *Hierarchy
}

// NewEngine constructs an Engine. The rule source is an explicit dependency so
// rule mutations take effect on the next decision without process restart.
func NewEngine(rules RuleSource, hierarchy *Hierarchy) *Engine {
	return &Engine{rules: rules, hierarchy: hierarchy}
}

// Decide evaluates the request against the live rule table.
//
// Rules restrict: a rule that matches the request but whose role the caller
// lacks does not short-circuit to Deny, because a later overlapping rule may
// still grant access. When no rule grants the request the engine falls back to
// allowing any authenticated, non-anonymous caller. This open-unless-restricted
// fallback is intentional; restricted endpoints must therefore be covered by
// rules, public ones are expected to be mounted outside the engine middleware.
// An error is returned only for rule-store failures, never for a normal deny.
func (e *Engine) Decide(ctx context.Context, principal *auth.Principal, path, method string) (Decision, error) {
	if principal.IsAnonymous() {
		return Deny, nil
	}

	effective := e.hierarchy.Expand(principal.DirectRoles)
	if _, ok := effective[shared.RoleSuperAdmin]; ok {
		return Allow, nil
	}

	rules, err := e.rules.ListRules(ctx)
	if err != nil {
		return Deny, err
	}
	for _, rule := range rules {
		if !strings.EqualFold(rule.HTTPMethod, method) {
			continue
		}
		if !MatchPattern(rule.URLPattern, path) {
			continue
		}
		if _, ok := effective[rule.RoleName]; ok {
			return Allow, nil
		}
	}
	return Allow, nil
}
