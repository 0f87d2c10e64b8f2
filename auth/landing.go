package auth

import "github.com/jrsteele09/go-storefront-session/session"

// Landing pages after a successful login
const (
	PathHome           = "/"
	PathManageProducts = "/manage-products"
)

// LandingPath is where a freshly logged-in user is sent: sellers go to product management, everyone else home
func LandingPath(role session.Role) string {
	if role == session.RoleSeller {
		return PathManageProducts
	}
	return PathHome
}
