package shroud

import (
	"context"
	"sort"
)

// RoleSet is a set of role identifiers. Membership is exact string match.
type RoleSet map[string]struct{}

// NewRoleSet builds a set from roles, ignoring empty identifiers.
func NewRoleSet(roles ...string) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		if r != "" {
			s[r] = struct{}{}
		}
	}
	return s
}

// Has reports whether role is in the set.
func (s RoleSet) Has(role string) bool {
	_, ok := s[role]
	return ok
}

// Intersects reports whether the sets share at least one role.
func (s RoleSet) Intersects(other RoleSet) bool {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	for r := range small {
		if large.Has(r) {
			return true
		}
	}
	return false
}

// Slice returns the roles sorted.
func (s RoleSet) Slice() []string {
	out := make([]string, 0, len(s))
	for r := range s {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Clone returns an independent copy.
func (s RoleSet) Clone() RoleSet {
	out := make(RoleSet, len(s))
	for r := range s {
		out[r] = struct{}{}
	}
	return out
}

// Principal is the resolved identity of the current caller.
// The zero value means no authenticated identity.
type Principal struct {
	ID            string
	Authenticated bool
	Roles         RoleSet
}

// NewPrincipal returns an authenticated principal holding roles.
func NewPrincipal(id string, roles ...string) Principal {
	return Principal{
		ID:            id,
		Authenticated: true,
		Roles:         NewRoleSet(roles...),
	}
}

// PrincipalResolver looks up the principal for a call.
// Implementations are supplied by the host's authentication layer.
type PrincipalResolver interface {
	ResolvePrincipal(ctx context.Context) (Principal, bool)
}

// ResolverFunc adapts a function to PrincipalResolver.
type ResolverFunc func(ctx context.Context) (Principal, bool)

// ResolvePrincipal calls f.
func (f ResolverFunc) ResolvePrincipal(ctx context.Context) (Principal, bool) {
	return f(ctx)
}

// ContextResolver resolves the principal stored with WithPrincipal.
type ContextResolver struct{}

// ResolvePrincipal returns the principal carried by ctx.
func (ContextResolver) ResolvePrincipal(ctx context.Context) (Principal, bool) {
	return PrincipalFromContext(ctx)
}

type principalKey struct{}

// WithPrincipal returns a context carrying p.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the principal carried by ctx, if any.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	if ctx == nil {
		return Principal{}, false
	}
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
