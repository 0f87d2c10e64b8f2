// Package guard decides whether a session may open a route.
package guard

import (
	"slices"

	"github.com/jrsteele09/go-storefront-session/session"
)

// Redirect targets
const (
	PathLogin = "/login"
	PathHome  = "/"
)

// Decision is the outcome of a route check. The zero Decision is not Allow.
type Decision int

const (
	Allow Decision = iota + 1
	RedirectLogin
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectHome:
		return "redirect_home"
	}
	return "unknown"
}

// Location is the redirect target for d, or "" for Allow. Unknown decisions go to login.
func (d Decision) Location() string {
	switch d {
	case Allow:
		return ""
	case RedirectHome:
		return PathHome
	}
	return PathLogin
}

// Access classifies a route
type Access string

const (
	// AccessPublic routes (login, register) are only for logged-out visitors
	AccessPublic Access = "public"
	// AccessProtected routes need a session, optionally with one of AllowedRoles
	AccessProtected Access = "protected"
)

// Policy is the access rule for one route. An empty AllowedRoles admits any logged-in session.
type Policy struct {
	Access       Access         `yaml:"access"`
	AllowedRoles []session.Role `yaml:"roles,omitempty"`
}

// PublicOnly is the policy for login and register
func PublicOnly() Policy {
	return Policy{Access: AccessPublic}
}

// Protected requires a session, restricted to roles when any are given
func Protected(roles ...session.Role) Policy {
	return Policy{Access: AccessProtected, AllowedRoles: roles}
}

// CanAccess maps every (session, policy) pair to exactly one Decision
func CanAccess(s session.Session, p Policy) Decision {
	if p.Access == AccessPublic {
		if s.LoggedIn() {
			return RedirectHome
		}
		return Allow
	}

	if !s.LoggedIn() {
		return RedirectLogin
	}
	if len(p.AllowedRoles) > 0 && !slices.Contains(p.AllowedRoles, s.Role) {
		return RedirectHome
	}
	return Allow
}
