package storefront

import (
	"strconv"
	"time"
)

// Product as served by /products/. Price is the backend's decimal string.
type Product struct {
	ID          int64   `json:"id"`
	Seller      string  `json:"seller"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       string  `json:"price"`
	ImageURL    *string `json:"image_url"`
}

// PriceValue parses Price
func (p Product) PriceValue() (float64, error) {
	return strconv.ParseFloat(p.Price, 64)
}

// ProductInput is the body for creating or updating a product
type ProductInput struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

type CartItem struct {
	ID       int64   `json:"id"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is price × quantity; an unparseable price counts as zero
func (i CartItem) Subtotal() float64 {
	price, err := i.Product.PriceValue()
	if err != nil {
		return 0
	}
	return price * float64(i.Quantity)
}

type Cart struct {
	ID        int64      `json:"id"`
	User      int64      `json:"user"`
	CreatedAt time.Time  `json:"created_at"`
	Items     []CartItem `json:"items"`
}

func (c Cart) Empty() bool {
	return len(c.Items) == 0
}

// Total sums the item subtotals
func (c Cart) Total() float64 {
	var total float64
	for _, item := range c.Items {
		total += item.Subtotal()
	}
	return total
}
