// Package storefront wraps the backend's product and cart endpoints.
package storefront

import (
	"context"
	"fmt"
	"strings"

	"github.com/jrsteele09/go-storefront-session/apiclient"
	apperrors "github.com/jrsteele09/go-storefront-session/internal/errors"
)

const (
	pathProducts = "/products/"
	pathCart     = "/cart/"
)

// API calls the storefront backend as the logged-in user
type API struct {
	client *apiclient.Client
}

func New(client *apiclient.Client) *API {
	return &API{client: client}
}

// ListProducts returns all products, or only the caller's own when mine is set (sellers)
func (a *API) ListProducts(ctx context.Context, mine bool) ([]Product, error) {
	path := pathProducts
	if mine {
		path += "?my_products=true"
	}
	products := make([]Product, 0)
	if err := a.client.Get(ctx, path, &products); err != nil {
		return nil, fmt.Errorf("[API ListProducts] %w", err)
	}
	return products, nil
}

func (a *API) GetProduct(ctx context.Context, id int64) (Product, error) {
	var p Product
	if err := a.client.Get(ctx, productPath(id), &p); err != nil {
		return Product{}, apperrors.Wrapf(err, "[API GetProduct] product %d", id)
	}
	return p, nil
}

func (a *API) CreateProduct(ctx context.Context, input ProductInput) (Product, error) {
	if err := input.Validate(); err != nil {
		return Product{}, err
	}
	var p Product
	if err := a.client.Post(ctx, pathProducts, input, &p); err != nil {
		return Product{}, fmt.Errorf("[API CreateProduct] %w", err)
	}
	return p, nil
}

func (a *API) UpdateProduct(ctx context.Context, id int64, input ProductInput) (Product, error) {
	if err := input.Validate(); err != nil {
		return Product{}, err
	}
	var p Product
	if err := a.client.Put(ctx, productPath(id), input, &p); err != nil {
		return Product{}, apperrors.Wrapf(err, "[API UpdateProduct] product %d", id)
	}
	return p, nil
}

func (a *API) DeleteProduct(ctx context.Context, id int64) error {
	if err := a.client.Delete(ctx, productPath(id)); err != nil {
		return apperrors.Wrapf(err, "[API DeleteProduct] product %d", id)
	}
	return nil
}

// GetCart returns the caller's cart, created on first access by the backend
func (a *API) GetCart(ctx context.Context) (Cart, error) {
	var c Cart
	if err := a.client.Get(ctx, pathCart, &c); err != nil {
		return Cart{}, fmt.Errorf("[API GetCart] %w", err)
	}
	return c, nil
}

// UpdateCartItem sets the quantity of a product in the cart. Zero removes it.
func (a *API) UpdateCartItem(ctx context.Context, productID int64, quantity int) (Cart, error) {
	if quantity < 0 {
		return Cart{}, fmt.Errorf("[API UpdateCartItem] %w: quantity must not be negative", apperrors.ErrInvalidInput)
	}
	body := struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}{productID, quantity}

	var c Cart
	if err := a.client.Patch(ctx, pathCart, body, &c); err != nil {
		return Cart{}, fmt.Errorf("[API UpdateCartItem] %w", err)
	}
	return c, nil
}

// Validate rejects inputs the backend would refuse
func (p ProductInput) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", apperrors.ErrInvalidInput)
	}
	if p.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", apperrors.ErrInvalidInput)
	}
	return nil
}

func productPath(id int64) string {
	return fmt.Sprintf("%s%d/", pathProducts, id)
}
