package server

import "github.com/jrsteele09/go-storefront-session/guard"

// Route path constants
const (
	// Pages (guarded by the route table)
	RouteLogin          = guard.RouteLogin
	RouteRegister       = guard.RouteRegister
	RouteProducts       = guard.RouteProducts
	RouteCart           = guard.RouteCart
	RouteCheckout       = guard.RouteCheckout
	RouteManageProducts = guard.RouteManageProducts

	// Form submissions
	RouteAuthLogin    = "/auth/login"
	RouteAuthRegister = "/auth/register"
	RouteAuthLogout   = "/auth/logout"
	RouteCartItems    = "/cart/items"

	// Seller product management
	RouteManageProduct       = RouteManageProducts + "/{id}"
	RouteManageProductDelete = RouteManageProducts + "/{id}/delete"
)
