package guard_test

import (
	"strings"
	"testing"

	"github.com/jrsteele09/go-storefront-session/guard"
	apperrors "github.com/jrsteele09/go-storefront-session/internal/errors"
	"github.com/jrsteele09/go-storefront-session/session"
	"github.com/stretchr/testify/require"
)

var (
	loggedOut = session.LoggedOut
	customer  = session.Session{Token: "t", User: "bob", Role: session.RoleCustomer}
	seller    = session.Session{Token: "t", User: "alice", Role: session.RoleSeller}
)

func TestCanAccess(t *testing.T) {
	tests := []struct {
		name    string
		session session.Session
		policy  guard.Policy
		want    guard.Decision
	}{
		{"public logged out", loggedOut, guard.PublicOnly(), guard.Allow},
		{"public logged in", customer, guard.PublicOnly(), guard.RedirectHome},
		{"protected logged out", loggedOut, guard.Protected(), guard.RedirectLogin},
		{"protected any role", seller, guard.Protected(), guard.Allow},
		{"customer on seller route", customer, guard.Protected(session.RoleSeller), guard.RedirectHome},
		{"seller on seller route", seller, guard.Protected(session.RoleSeller), guard.Allow},
		{"logged out on role route", loggedOut, guard.Protected(session.RoleSeller), guard.RedirectLogin},
		{"multi role", customer, guard.Protected(session.RoleCustomer, session.RoleSeller), guard.Allow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, guard.CanAccess(tc.session, tc.policy))
		})
	}
}

func TestCanAccess_Total(t *testing.T) {
	sessions := []session.Session{loggedOut, customer, seller}
	policies := []guard.Policy{
		guard.PublicOnly(),
		guard.Protected(),
		guard.Protected(session.RoleCustomer),
		guard.Protected(session.RoleSeller),
		guard.Protected(session.Roles...),
	}
	for _, s := range sessions {
		for _, p := range policies {
			d := guard.CanAccess(s, p)
			require.Contains(t, []guard.Decision{guard.Allow, guard.RedirectLogin, guard.RedirectHome}, d)
		}
	}
}

func TestDecision_Location(t *testing.T) {
	require.Equal(t, "", guard.Allow.Location())
	require.Equal(t, "/login", guard.RedirectLogin.Location())
	require.Equal(t, "/", guard.RedirectHome.Location())
	require.Equal(t, "redirect_home", guard.RedirectHome.String())

	t.Run("zero decision fails closed", func(t *testing.T) {
		var d guard.Decision
		require.NotEqual(t, guard.Allow, d)
		require.Equal(t, "/login", d.Location())
		require.Equal(t, "unknown", d.String())
	})
}

func TestDefaultTable(t *testing.T) {
	table := guard.DefaultTable()

	tests := []struct {
		path    string
		session session.Session
		want    guard.Decision
	}{
		{"/login", loggedOut, guard.Allow},
		{"/login", seller, guard.RedirectHome},
		{"/register/", customer, guard.RedirectHome},
		{"/", loggedOut, guard.RedirectLogin},
		{"/", customer, guard.Allow},
		{"/", seller, guard.Allow},
		{"/cart", customer, guard.Allow},
		{"/cart", seller, guard.RedirectHome},
		{"/checkout", customer, guard.Allow},
		{"/manage-products", customer, guard.RedirectHome},
		{"/manage-products/", seller, guard.Allow},
		{"/no-such-page", seller, guard.RedirectHome},
		{"/no-such-page", loggedOut, guard.RedirectLogin},
	}

	for _, tc := range tests {
		t.Run(tc.path+" "+tc.session.User, func(t *testing.T) {
			got, _ := table.Decide(tc.path, tc.session)
			require.Equal(t, tc.want, got)
		})
	}

	require.Equal(t, []string{"/", "/cart", "/checkout", "/login", "/manage-products", "/register"}, table.Paths())
}

func TestLoadTable(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		table, err := guard.LoadTable(strings.NewReader(`
routes:
  - path: /login
    access: public
  - path: /orders/
    access: protected
    roles: [customer]
  - path: /
    access: protected
`))
		require.NoError(t, err)

		p, ok := table.Lookup("/orders")
		require.True(t, ok)
		require.Equal(t, guard.Protected(session.RoleCustomer), p)

		d, _ := table.Decide("/orders", seller)
		require.Equal(t, guard.RedirectHome, d)
		d, _ = table.Decide("/", seller)
		require.Equal(t, guard.Allow, d)
		d, _ = table.Decide("/login", loggedOut)
		require.Equal(t, guard.Allow, d)
	})

	invalid := map[string]string{
		"bad access": "routes:\n  - path: /x\n    access: private\n",
		"bad role":   "routes:\n  - path: /x\n    access: protected\n    roles: [admin]\n",
		"bad path":   "routes:\n  - path: x\n    access: public\n",
		"not yaml":   "routes: [",
	}
	for name, doc := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := guard.LoadTable(strings.NewReader(doc))
			require.Error(t, err)
			if name != "not yaml" {
				require.ErrorIs(t, err, apperrors.ErrInvalidInput)
			}
		})
	}
}

func TestNavLinks(t *testing.T) {
	require.Equal(t, []guard.NavLink{
		{Label: "Products", Path: "/"},
		{Label: "Login", Path: "/login"},
		{Label: "Register", Path: "/register"},
	}, guard.NavLinks(loggedOut))

	require.Equal(t, []guard.NavLink{
		{Label: "Products", Path: "/"},
		{Label: "My Cart", Path: "/cart"},
	}, guard.NavLinks(customer))

	require.Equal(t, []guard.NavLink{
		{Label: "Products", Path: "/"},
		{Label: "Manage My Products", Path: "/manage-products"},
	}, guard.NavLinks(seller))
}
