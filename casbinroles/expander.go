// Package casbinroles expands a principal's roles through a casbin RBAC
// role graph before authorization.
//
// With a policy line such as `g, ROLE_ADMIN, ROLE_SUPPORT`, a principal
// holding ROLE_ADMIN also satisfies allow-lists naming ROLE_SUPPORT.
// Expansion happens when the principal is resolved; the authorization check
// itself still only intersects role sets.
package casbinroles

import (
	"context"

	"github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/shroud"
)

// Signals for role expansion.
var (
	SignalExpandFailed = capitan.NewSignal("shroud.casbinroles.expand_failed", "Role expansion failed, original roles kept")

	KeySubject = capitan.NewStringKey("subject")
	KeyError   = capitan.NewErrorKey("error")
)

// Expander adds inherited roles to principals.
type Expander struct {
	enforcer *casbin.Enforcer
}

// NewExpander loads a casbin model and a CSV policy file.
func NewExpander(modelPath, policyPath string) (*Expander, error) {
	adapter := fileadapter.NewAdapter(policyPath)
	enforcer, err := casbin.NewEnforcer(modelPath)
	if err != nil {
		return nil, err
	}
	enforcer.SetAdapter(adapter)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	return &Expander{enforcer: enforcer}, nil
}

// NewExpanderFromEnforcer uses an already configured enforcer.
func NewExpanderFromEnforcer(e *casbin.Enforcer) *Expander {
	return &Expander{enforcer: e}
}

// Expand returns p with every role implied by its ID and its granted roles.
// Unauthenticated principals are returned unchanged. If the role graph
// cannot be queried the original roles are kept.
func (e *Expander) Expand(ctx context.Context, p shroud.Principal) shroud.Principal {
	if !p.Authenticated {
		return p
	}

	roles := p.Roles.Clone()
	if roles == nil {
		roles = shroud.RoleSet{}
	}

	subjects := make([]string, 0, len(p.Roles)+1)
	if p.ID != "" {
		subjects = append(subjects, p.ID)
	}
	subjects = append(subjects, p.Roles.Slice()...)

	for _, subject := range subjects {
		implied, err := e.enforcer.GetImplicitRolesForUser(subject)
		if err != nil {
			capitan.Error(ctx, SignalExpandFailed,
				KeySubject.Field(subject),
				KeyError.Field(err),
			)
			return p
		}
		for _, r := range implied {
			roles[r] = struct{}{}
		}
	}

	p.Roles = roles
	return p
}

// Wrap returns a resolver that expands the principals next resolves.
func (e *Expander) Wrap(next shroud.PrincipalResolver) shroud.PrincipalResolver {
	return shroud.ResolverFunc(func(ctx context.Context) (shroud.Principal, bool) {
		p, ok := next.ResolvePrincipal(ctx)
		if !ok {
			return p, false
		}
		return e.Expand(ctx, p), true
	})
}
