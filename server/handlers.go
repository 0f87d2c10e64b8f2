package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/jrsteele09/go-storefront-session/apiclient"
	"github.com/jrsteele09/go-storefront-session/guard"
	"github.com/jrsteele09/go-storefront-session/session"
	"github.com/jrsteele09/go-storefront-session/storefront"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json; charset=utf-8"

const (
	msgProductsUnavailable = "Could not load products."
	msgMyProductsFailed    = "Could not load your products."
	msgCartFailed          = "Could not load your cart."
	msgCartEmpty           = "Your cart is empty. Add items before checking out."
	msgCartUpdateFailed    = "Failed to update cart."
	msgLoginToAddToCart    = "Please log in to add items to your cart."
	msgPaymentProcessed    = "Payment processed! (demo)"
)

// viewer is the session as shown to the page; the raw token is never rendered
type viewer struct {
	LoggedIn bool         `json:"logged_in"`
	User     string       `json:"user,omitempty"`
	Role     session.Role `json:"role,omitempty"`
}

type formData struct {
	Action   string         `json:"action"`
	Fields   []string       `json:"fields"`
	Username string         `json:"username,omitempty"`
	Roles    []session.Role `json:"roles,omitempty"`
	Delete   string         `json:"delete,omitempty"`
}

// PageData is the JSON body of every storefront page
type PageData struct {
	App      string               `json:"app"`
	Page     string               `json:"page"`
	Viewer   viewer               `json:"viewer"`
	Nav      []guard.NavLink      `json:"nav"`
	Error    string               `json:"error,omitempty"`
	Message  string               `json:"message,omitempty"`
	Form     *formData            `json:"form,omitempty"`
	Products []storefront.Product `json:"products,omitempty"`
	Product  *storefront.Product  `json:"product,omitempty"`
	Cart     *storefront.Cart     `json:"cart,omitempty"`
	Total    *float64             `json:"total,omitempty"`
}

// newPage uses the session that passed the guard, falling back to the manager for unguarded routes
func (s *Server) newPage(r *http.Request, page string) PageData {
	current := guard.FromContext(r.Context())
	if !current.LoggedIn() {
		current = s.sessions.Session()
	}
	return PageData{
		App:    s.appName,
		Page:   page,
		Viewer: viewer{LoggedIn: current.LoggedIn(), User: current.User, Role: current.Role},
		Nav:    guard.NavLinks(current),
	}
}

// ProductsPageHandler lists every product (GET /)
func (s *Server) ProductsPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.newPage(r, "products")
		data.Message = r.URL.Query().Get(queryMessage)
		data.Error = r.URL.Query().Get(queryError)
		if s.catalog != nil {
			products, err := s.catalog.ListProducts(r.Context(), false)
			if err != nil {
				logError(r.Method, r.URL.Path, err)
				data.Error = msgProductsUnavailable
			}
			data.Products = products
		}
		writeJSON(w, http.StatusOK, data)
	}
}

// ManageProductsPageHandler lists the seller's own products
func (s *Server) ManageProductsPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.newPage(r, "manage-products")
		data.Error = r.URL.Query().Get(queryError)
		data.Message = r.URL.Query().Get(queryMessage)
		data.Form = productForm(RouteManageProducts)
		if s.catalog != nil {
			products, err := s.catalog.ListProducts(r.Context(), true)
			if err != nil {
				logError(r.Method, r.URL.Path, err)
				data.Error = msgMyProductsFailed
			}
			data.Products = products
		}
		writeJSON(w, http.StatusOK, data)
	}
}

func (s *Server) CartPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.newPage(r, "cart")
		data.Error = r.URL.Query().Get(queryError)
		s.loadCart(r, &data)
		writeJSON(w, http.StatusOK, data)
	}
}

func (s *Server) CheckoutPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := s.newPage(r, "checkout")
		data.Error = r.URL.Query().Get(queryError)
		s.loadCart(r, &data)
		data.Form = &formData{
			Action: RouteCheckout,
			Fields: []string{"full_name", "email", "address", "city", "postal_code", "card_number", "expiry", "cvv"},
		}
		writeJSON(w, http.StatusOK, data)
	}
}

// CheckoutSubmissionHandler is the demo payment: nothing is charged and the cart is left as is
func (s *Server) CheckoutSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.catalog == nil {
			writeJSONError(w, "checkout is not available", http.StatusNotImplemented)
			return
		}
		cart, err := s.catalog.GetCart(r.Context())
		if err != nil {
			logError(r.Method, r.URL.Path, err)
			redirectWithError(w, r, RouteCheckout, msgCartFailed, "")
			return
		}
		if cart.Empty() {
			redirectWithError(w, r, RouteCheckout, msgCartEmpty, "")
			return
		}
		redirectWithMessage(w, r, RouteProducts, msgPaymentProcessed)
	}
}

func (s *Server) loadCart(r *http.Request, data *PageData) {
	if s.catalog == nil {
		return
	}
	cart, err := s.catalog.GetCart(r.Context())
	if err != nil {
		logError(r.Method, r.URL.Path, err)
		data.Error = msgCartFailed
		return
	}
	total := cart.Total()
	data.Cart = &cart
	data.Total = &total
}

// CartItemHandler sets a product's quantity from a form post (POST /cart/items)
func (s *Server) CartItemHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.catalog == nil {
			writeJSONError(w, "cart is not available", http.StatusNotImplemented)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		productID, err := strconv.ParseInt(r.FormValue("product_id"), 10, 64)
		if err != nil {
			writeJSONError(w, "product_id must be a number", http.StatusBadRequest)
			return
		}
		quantity := 1
		if raw := r.FormValue("quantity"); raw != "" {
			if quantity, err = strconv.Atoi(raw); err != nil {
				writeJSONError(w, "quantity must be a number", http.StatusBadRequest)
				return
			}
		}

		// Negative quantities are ignored
		if quantity < 0 {
			http.Redirect(w, r, RouteCart, http.StatusSeeOther)
			return
		}

		if _, err := s.catalog.UpdateCartItem(r.Context(), productID, quantity); err != nil {
			logError(r.Method, r.URL.Path, err)
			redirectWithError(w, r, RouteCart, cartErrorMessage(err), "")
			return
		}
		http.Redirect(w, r, RouteCart, http.StatusSeeOther)
	}
}

func cartErrorMessage(err error) string {
	var statusErr *apiclient.StatusError
	if !errors.As(err, &statusErr) {
		return msgCartUpdateFailed
	}
	if statusErr.StatusCode == http.StatusUnauthorized {
		return msgLoginToAddToCart
	}
	if msg := statusErr.Message(); msg != "" {
		return msg
	}
	return msgCartUpdateFailed
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("failed to write response")
	}
}

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}
