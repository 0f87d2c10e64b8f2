package guard

import "github.com/jrsteele09/go-storefront-session/session"

// NavLink is one entry of the storefront navigation bar
type NavLink struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// NavLinks returns the navigation entries visible to s
func NavLinks(s session.Session) []NavLink {
	links := []NavLink{{Label: "Products", Path: RouteProducts}}
	switch {
	case !s.LoggedIn():
		return append(links,
			NavLink{Label: "Login", Path: RouteLogin},
			NavLink{Label: "Register", Path: RouteRegister},
		)
	case s.Role == session.RoleCustomer:
		links = append(links, NavLink{Label: "My Cart", Path: RouteCart})
	case s.Role == session.RoleSeller:
		links = append(links, NavLink{Label: "Manage My Products", Path: RouteManageProducts})
	}
	return links
}
