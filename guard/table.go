package guard

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/goccy/go-yaml"
	apperrors "github.com/jrsteele09/go-storefront-session/internal/errors"
	"github.com/jrsteele09/go-storefront-session/session"
)

// Storefront routes
const (
	RouteLogin          = "/login"
	RouteRegister       = "/register"
	RouteProducts       = "/"
	RouteCart           = "/cart"
	RouteCheckout       = "/checkout"
	RouteManageProducts = "/manage-products"
)

// Table is the static route → policy mapping, defined at startup
type Table struct {
	routes map[string]Policy
}

// NewTable creates a table from routes. Paths are normalised without a trailing slash.
func NewTable(routes map[string]Policy) *Table {
	t := &Table{routes: make(map[string]Policy, len(routes))}
	for path, p := range routes {
		t.routes[normalisePath(path)] = p
	}
	return t
}

// DefaultTable is the storefront's route policy
func DefaultTable() *Table {
	return NewTable(map[string]Policy{
		RouteLogin:          PublicOnly(),
		RouteRegister:       PublicOnly(),
		RouteProducts:       Protected(session.RoleCustomer, session.RoleSeller),
		RouteCart:           Protected(session.RoleCustomer),
		RouteCheckout:       Protected(session.RoleCustomer),
		RouteManageProducts: Protected(session.RoleSeller),
	})
}

// Lookup returns the policy for path
func (t *Table) Lookup(path string) (Policy, bool) {
	p, ok := t.routes[normalisePath(path)]
	return p, ok
}

// Paths lists the table's routes in order
func (t *Table) Paths() []string {
	paths := make([]string, 0, len(t.routes))
	for path := range t.routes {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Decide applies the route's policy. Unknown paths fall back to home, which
// itself sends logged-out visitors to login.
func (t *Table) Decide(path string, s session.Session) (Decision, Policy) {
	p, ok := t.Lookup(path)
	if !ok {
		if s.LoggedIn() {
			return RedirectHome, p
		}
		return RedirectLogin, p
	}
	return CanAccess(s, p), p
}

type tableFile struct {
	Routes []struct {
		Path   string         `yaml:"path"`
		Access Access         `yaml:"access"`
		Roles  []session.Role `yaml:"roles"`
	} `yaml:"routes"`
}

// LoadTable reads a YAML route table:
//
//	routes:
//	  - path: /cart
//	    access: protected
//	    roles: [customer]
func LoadTable(r io.Reader) (*Table, error) {
	var file tableFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		return nil, fmt.Errorf("[LoadTable] decode: %w", err)
	}

	routes := make(map[string]Policy, len(file.Routes))
	for _, route := range file.Routes {
		if route.Path == "" || !strings.HasPrefix(route.Path, "/") {
			return nil, fmt.Errorf("[LoadTable] %w: route path %q must start with /", apperrors.ErrInvalidInput, route.Path)
		}
		switch route.Access {
		case AccessPublic, AccessProtected:
		default:
			return nil, fmt.Errorf("[LoadTable] %w: route %s has access %q", apperrors.ErrInvalidInput, route.Path, route.Access)
		}
		for _, role := range route.Roles {
			if !role.Valid() {
				return nil, fmt.Errorf("[LoadTable] %w: route %s has unknown role %q", apperrors.ErrInvalidInput, route.Path, role)
			}
		}
		routes[route.Path] = Policy{Access: route.Access, AllowedRoles: route.Roles}
	}
	return NewTable(routes), nil
}

// LoadTableFile reads a YAML route table from path
func LoadTableFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("[LoadTableFile] %w", err)
	}
	defer f.Close()
	return LoadTable(f)
}

func normalisePath(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
		if path == "" {
			return "/"
		}
	}
	return path
}
