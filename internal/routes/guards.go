package routes

import (
	"fmt"
	"slices"
	"strings"

	"github.com/trustcare/cli/internal/models"
	"github.com/trustcare/cli/internal/session"
)

// Decision is what a guard concluded.
type Decision int

const (
	Allow Decision = iota
	Wait
	Redirect
	Deny
)

// Outcome is a guard verdict. To is set for Redirect, Required for Deny.
type Outcome struct {
	Decision Decision
	To       string
	Required []models.UserRole
}

func (o Outcome) String() string {
	switch o.Decision {
	case Allow:
		return "allow"
	case Wait:
		return "wait"
	case Redirect:
		return "redirect to " + o.To
	case Deny:
		return "access denied"
	default:
		return "unknown"
	}
}

// DenyMessage is the text shown in place of a forbidden screen.
func (o Outcome) DenyMessage() string {
	names := make([]string, 0, len(o.Required))
	for _, r := range o.Required {
		names = append(names, r.String())
	}
	return fmt.Sprintf("Access Denied: you don't have permission to access this page (required role: %s)", strings.Join(names, ", "))
}

// Guard decides whether a session may enter a route.
type Guard interface {
	Check(v session.View) Outcome
}

// GuardFunc adapts a function to Guard.
type GuardFunc func(v session.View) Outcome

func (f GuardFunc) Check(v session.View) Outcome { return f(v) }

// RequireAuth waits while the session is loading and redirects anonymous
// visitors to the login screen.
func RequireAuth() Guard {
	return GuardFunc(func(v session.View) Outcome {
		switch {
		case v.IsLoading():
			return Outcome{Decision: Wait}
		case !v.IsAuthenticated():
			return Outcome{Decision: Redirect, To: Login}
		default:
			return Outcome{Decision: Allow}
		}
	})
}

// RequireRole admits only users whose role is in roles.
func RequireRole(roles ...models.UserRole) Guard {
	allowed := slices.Clone(roles)
	return GuardFunc(func(v session.View) Outcome {
		if !v.IsAuthenticated() {
			return Outcome{Decision: Redirect, To: Login}
		}
		role := models.ParseUserRole(v.User().RoleName())
		if role == models.RoleUnknown || !slices.Contains(allowed, role) {
			return Outcome{Decision: Deny, Required: slices.Clone(allowed)}
		}
		return Outcome{Decision: Allow}
	})
}

// Chain evaluates guards in order; the first verdict other than Allow wins.
func Chain(guards ...Guard) Guard {
	return GuardFunc(func(v session.View) Outcome {
		for _, g := range guards {
			if out := g.Check(v); out.Decision != Allow {
				return out
			}
		}
		return Outcome{Decision: Allow}
	})
}
