package server

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-storefront-session/storefront"
)

const (
	msgProductSaveFailed   = "Failed to save product. Please try again."
	msgProductDeleteFailed = "Failed to delete product."
	msgProductNotFound     = "Product not found."
	msgProductInvalid      = "Name and a non-negative price are required."
	msgProductCreated      = "Product created."
	msgProductUpdated      = "Product updated."
	msgProductDeleted      = "Product deleted."
)

var productFields = []string{"name", "description", "price", "image_url"}

func productForm(action string) *formData {
	return &formData{Action: action, Fields: productFields}
}

func productPath(id int64) string {
	return RouteManageProducts + "/" + strconv.FormatInt(id, 10)
}

// EditProductPageHandler shows one of the seller's products with its update and delete forms
func (s *Server) EditProductPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.catalog == nil {
			writeJSONError(w, "products are not available", http.StatusNotImplemented)
			return
		}
		id, ok := productID(w, r)
		if !ok {
			return
		}
		product, err := s.catalog.GetProduct(r.Context(), id)
		if err != nil {
			logError(r.Method, r.URL.Path, err)
			redirectWithError(w, r, RouteManageProducts, msgProductNotFound, "")
			return
		}

		data := s.newPage(r, "edit-product")
		data.Error = r.URL.Query().Get(queryError)
		data.Product = &product
		data.Form = productForm(productPath(id))
		data.Form.Delete = productPath(id) + "/delete"
		writeJSON(w, http.StatusOK, data)
	}
}

// CreateProductHandler handles POST /manage-products
func (s *Server) CreateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.catalog == nil {
			writeJSONError(w, "products are not available", http.StatusNotImplemented)
			return
		}
		input, ok := parseProductForm(w, r, RouteManageProducts)
		if !ok {
			return
		}
		if _, err := s.catalog.CreateProduct(r.Context(), input); err != nil {
			logError(r.Method, r.URL.Path, err)
			redirectWithError(w, r, RouteManageProducts, msgProductSaveFailed, "")
			return
		}
		redirectWithMessage(w, r, RouteManageProducts, msgProductCreated)
	}
}

// UpdateProductHandler handles POST /manage-products/{id}
func (s *Server) UpdateProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.catalog == nil {
			writeJSONError(w, "products are not available", http.StatusNotImplemented)
			return
		}
		id, ok := productID(w, r)
		if !ok {
			return
		}
		input, ok := parseProductForm(w, r, productPath(id))
		if !ok {
			return
		}
		if _, err := s.catalog.UpdateProduct(r.Context(), id, input); err != nil {
			logError(r.Method, r.URL.Path, err)
			redirectWithError(w, r, productPath(id), msgProductSaveFailed, "")
			return
		}
		redirectWithMessage(w, r, RouteManageProducts, msgProductUpdated)
	}
}

// DeleteProductHandler handles POST /manage-products/{id}/delete
func (s *Server) DeleteProductHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.catalog == nil {
			writeJSONError(w, "products are not available", http.StatusNotImplemented)
			return
		}
		id, ok := productID(w, r)
		if !ok {
			return
		}
		if err := s.catalog.DeleteProduct(r.Context(), id); err != nil {
			logError(r.Method, r.URL.Path, err)
			redirectWithError(w, r, RouteManageProducts, msgProductDeleteFailed, "")
			return
		}
		redirectWithMessage(w, r, RouteManageProducts, msgProductDeleted)
	}
}

func productID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		writeJSONError(w, "product id must be a positive number", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

// parseProductForm redirects back to formPath with an error when the fields don't make a product
func parseProductForm(w http.ResponseWriter, r *http.Request, formPath string) (storefront.ProductInput, bool) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return storefront.ProductInput{}, false
	}

	input := storefront.ProductInput{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		ImageURL:    strings.TrimSpace(r.FormValue("image_url")),
	}
	price, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64)
	if err != nil || price < 0 || math.IsNaN(price) || math.IsInf(price, 0) || input.Name == "" {
		redirectWithError(w, r, formPath, msgProductInvalid, "")
		return storefront.ProductInput{}, false
	}
	input.Price = price
	return input, true
}
