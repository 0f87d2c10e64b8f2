package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-storefront-session/auth"
	"github.com/jrsteele09/go-storefront-session/guard"
	"github.com/jrsteele09/go-storefront-session/internal/config"
	"github.com/jrsteele09/go-storefront-session/session"
	"github.com/jrsteele09/go-storefront-session/storefront"
	"github.com/rs/zerolog/log"
)

// SessionManager is the auth surface the shell needs. *auth.Manager satisfies it.
type SessionManager interface {
	Session() session.Session
	Login(ctx context.Context, username, password string) auth.Result
	Logout(ctx context.Context)
	Register(ctx context.Context, registration auth.Registration) error
}

// Catalog is the storefront backend as seen by the pages. *storefront.API satisfies it.
type Catalog interface {
	ListProducts(ctx context.Context, mine bool) ([]storefront.Product, error)
	GetProduct(ctx context.Context, id int64) (storefront.Product, error)
	CreateProduct(ctx context.Context, input storefront.ProductInput) (storefront.Product, error)
	UpdateProduct(ctx context.Context, id int64, input storefront.ProductInput) (storefront.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	GetCart(ctx context.Context) (storefront.Cart, error)
	UpdateCartItem(ctx context.Context, productID int64, quantity int) (storefront.Cart, error)
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	appName  string
	mux      *http.ServeMux
	routes   []string
	sessions SessionManager
	catalog  Catalog
	table    *guard.Table
}

type Option func(*Server)

// WithCatalog adds backend data (products, cart) to the guarded pages
func WithCatalog(catalog Catalog) Option {
	return func(s *Server) {
		s.catalog = catalog
	}
}

// WithRouteTable replaces guard.DefaultTable
func WithRouteTable(table *guard.Table) Option {
	return func(s *Server) {
		s.table = table
	}
}

func New(config config.EnvConfig, sessions SessionManager, options ...Option) (*Server, error) {
	if sessions == nil {
		return nil, fmt.Errorf("[Server New] session manager is required")
	}

	s := &Server{
		env:      config.GetEnv(),
		appName:  config.GetAppName(),
		mux:      http.NewServeMux(),
		sessions: sessions,
		table:    guard.DefaultTable(),
	}
	for _, option := range options {
		option(s)
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// Routes lists the registered patterns in registration order
func (s *Server) Routes() []string {
	return append([]string(nil), s.routes...)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colouredMethod(method), path)
}

func logError(method, path string, err error) {
	log.Error().Msgf("[%-19s] %s %s", colouredMethod(method), path, Red+err.Error()+ResetColor)
}

func colouredMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}
