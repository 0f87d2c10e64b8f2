package server

import (
	"net/http"

	"github.com/jrsteele09/go-storefront-session/guard"
	"github.com/jrsteele09/go-storefront-session/session"
)

func (s *Server) initRoutes() {
	guarded := s.table.Middleware(s.sessions)
	customerOnly := s.requirePolicyOf(RouteCart, guard.Protected(session.RoleCustomer))
	checkoutOnly := s.requirePolicyOf(RouteCheckout, guard.Protected(session.RoleCustomer))
	sellerOnly := s.requirePolicyOf(RouteManageProducts, guard.Protected(session.RoleSeller))

	// LOGIN / REGISTER
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.LoginPageHandler(), s.PageMiddleware(guarded)...))
	s.RegisterRouteHandler("GET "+RouteRegister, ChainMiddleware(s.RegisterPageHandler(), s.PageMiddleware(guarded)...))
	s.RegisterRouteFunc("POST "+RouteAuthLogin, ChainMiddleware(s.LoginSubmissionHandler(), s.PageMiddleware()...))
	s.RegisterRouteFunc("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterSubmissionHandler(), s.PageMiddleware()...))
	s.RegisterRouteFunc("GET "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), s.PageMiddleware()...))

	// Storefront pages
	s.RegisterRouteHandler("GET "+RouteProducts+"{$}", ChainMiddleware(s.ProductsPageHandler(), s.PageMiddleware(guarded)...))
	s.RegisterRouteHandler("GET "+RouteCart, ChainMiddleware(s.CartPageHandler(), s.PageMiddleware(guarded)...))
	s.RegisterRouteHandler("GET "+RouteCheckout, ChainMiddleware(s.CheckoutPageHandler(), s.PageMiddleware(guarded)...))
	s.RegisterRouteHandler("GET "+RouteManageProducts, ChainMiddleware(s.ManageProductsPageHandler(), s.PageMiddleware(guarded)...))

	// Customer forms
	s.RegisterRouteFunc("POST "+RouteCartItems, ChainMiddleware(s.CartItemHandler(), s.PageMiddleware(customerOnly)...))
	s.RegisterRouteFunc("POST "+RouteCheckout, ChainMiddleware(s.CheckoutSubmissionHandler(), s.PageMiddleware(checkoutOnly)...))

	// Seller forms
	s.RegisterRouteHandler("GET "+RouteManageProduct, ChainMiddleware(s.EditProductPageHandler(), s.PageMiddleware(sellerOnly)...))
	s.RegisterRouteFunc("POST "+RouteManageProducts, ChainMiddleware(s.CreateProductHandler(), s.PageMiddleware(sellerOnly)...))
	s.RegisterRouteFunc("POST "+RouteManageProduct, ChainMiddleware(s.UpdateProductHandler(), s.PageMiddleware(sellerOnly)...))
	s.RegisterRouteFunc("POST "+RouteManageProductDelete, ChainMiddleware(s.DeleteProductHandler(), s.PageMiddleware(sellerOnly)...))

	// Everything else goes through the table's fallback
	s.RegisterRouteHandler("/", ChainMiddleware(notFound, s.PageMiddleware(guarded)...))
}

// requirePolicyOf guards a form with the policy of the page it belongs to
func (s *Server) requirePolicyOf(page string, fallback guard.Policy) func(http.HandlerFunc) http.HandlerFunc {
	policy, ok := s.table.Lookup(page)
	if !ok {
		policy = fallback
	}
	return guard.Require(s.sessions, policy)
}

// notFound only runs for paths the route table admits but no handler serves
func notFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "404 - Page Not Found", http.StatusNotFound)
}
