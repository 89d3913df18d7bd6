package middleware

import (
	"net/http"
	"strings"

	"shopadmin/internal/auth"
)

// AnyMethod matches every HTTP method in an AccessRule
const AnyMethod = "*"

// AccessRule requires Role for requests matching Method and Pattern.
// A Pattern ending in "/" or "*" matches by prefix ("*" is dropped first);
// any other Pattern must match the path exactly. An empty Role only requires
// an authenticated subject.
type AccessRule struct {
	Method  string
	Pattern string
	Role    string
}

func (r AccessRule) matches(method, path string) bool {
	if r.Method != AnyMethod && !strings.EqualFold(r.Method, method) {
		return false
	}
	switch {
	case strings.HasSuffix(r.Pattern, "*"):
		return strings.HasPrefix(path, strings.TrimSuffix(r.Pattern, "*"))
	case strings.HasSuffix(r.Pattern, "/"):
		return strings.HasPrefix(path, r.Pattern)
	default:
		return path == r.Pattern
	}
}

// AccessPolicy is an ordered route-to-role table; the first matching rule wins
type AccessPolicy struct {
	rules []AccessRule
}

func NewAccessPolicy(rules ...AccessRule) *AccessPolicy {
	return &AccessPolicy{rules: rules}
}

// Match returns the rule that governs a request, if any
func (p *AccessPolicy) Match(method, path string) (AccessRule, bool) {
	for _, rule := range p.rules {
		if rule.matches(method, path) {
			return rule, true
		}
	}
	return AccessRule{}, false
}

// DefaultAccessPolicy protects the admin surface, the member self-service
// endpoints and the invalidation path.
func DefaultAccessPolicy(invalidationPath string) *AccessPolicy {
	return NewAccessPolicy(
		AccessRule{Method: AnyMethod, Pattern: "/admin/*", Role: auth.RoleAdmin},
		AccessRule{Method: http.MethodGet, Pattern: "/api/member", Role: auth.RoleMember},
		AccessRule{Method: AnyMethod, Pattern: "/api/orders*", Role: auth.RoleMember},
		AccessRule{Method: AnyMethod, Pattern: invalidationPath},
	)
}
