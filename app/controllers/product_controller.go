package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/catalog/app/requests"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/bind"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/middleware"
	"github.com/shashiranjanraj/catalog/pkg/response"
)

const (
	msgNotFound    = "Product not found"
	msgInvalidID   = "Invalid product id"
	msgInvalidBody = "Invalid request body"
)

type ProductController struct {
	service *services.ProductService
}

func NewProductController(service *services.ProductService) *ProductController {
	return &ProductController{service: service}
}

// Index lists every active product.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	products, err := c.service.List(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("products: list failed", "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal error while fetching products")
		return
	}
	response.Success(w, products)
}

// Show returns one product.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	product, err := c.service.Get(r.Context(), id)
	if errors.Is(err, services.ErrProductNotFound) {
		response.NotFound(w, msgNotFound)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("products: get failed", "product_id", id, "error", err)
		response.Error(w, http.StatusInternalServerError, "Internal error while fetching product")
		return
	}
	response.Success(w, product)
}

// Store creates a product with its variant tree. The caller's company key is
// stamped on the product when the body does not carry one.
func (c *ProductController) Store(w http.ResponseWriter, r *http.Request) {
	var req requests.CreateProductRequest
	if !decode(w, r, &req) {
		return
	}

	if req.CompanyKey == nil {
		if key := r.Header.Get(middleware.CompanyKeyHeader); key != "" {
			req.CompanyKey = &key
		}
	}

	product, err := c.service.Create(r.Context(), req)
	if err != nil {
		logger.WithCtx(r.Context()).Error("products: create failed", "error", err)
		response.ErrorWithDetail(w, http.StatusInternalServerError, "Internal error while creating product", err)
		return
	}

	logger.WithCtx(r.Context()).Info("product created", "product_id", product.ID)
	response.Created(w, product)
}

// Update patches scalar fields and replaces the variant tree.
func (c *ProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	var req requests.UpdateProductRequest
	if !decode(w, r, &req) {
		return
	}

	product, err := c.service.Update(r.Context(), id, req)
	if errors.Is(err, services.ErrProductNotFound) {
		response.NotFound(w, msgNotFound)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("products: update failed", "product_id", id, "error", err)
		response.ErrorWithDetail(w, http.StatusInternalServerError, "Internal error while updating product", err)
		return
	}

	logger.WithCtx(r.Context()).Info("product updated", "product_id", id)
	response.Success(w, product)
}

// Destroy soft-deletes a product.
func (c *ProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, ok := productID(w, r)
	if !ok {
		return
	}

	_, err := c.service.Delete(r.Context(), id)
	if errors.Is(err, services.ErrProductNotFound) {
		response.NotFound(w, msgNotFound)
		return
	}
	if err != nil {
		logger.WithCtx(r.Context()).Error("products: delete failed", "product_id", id, "error", err)
		response.ErrorWithDetail(w, http.StatusInternalServerError, "Internal error while deleting product", err)
		return
	}

	logger.WithCtx(r.Context()).Info("product deleted", "product_id", id)
	response.NoContent(w)
}

// Filters returns facet counts over active products.
func (c *ProductController) Filters(w http.ResponseWriter, r *http.Request) {
	summary, err := c.service.Filters(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("products: filters failed", "error", err)
		response.ErrorWithDetail(w, http.StatusInternalServerError, "Error fetching filters", err)
		return
	}
	response.Success(w, summary)
}

// Count returns {"count": n}.
func (c *ProductController) Count(w http.ResponseWriter, r *http.Request) {
	n, err := c.service.Count(r.Context())
	if err != nil {
		logger.WithCtx(r.Context()).Error("products: count failed", "error", err)
		response.ErrorWithDetail(w, http.StatusInternalServerError, "Error counting products", err)
		return
	}
	response.Success(w, map[string]int64{"count": n})
}

func productID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(w, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return uint(id), true
}

// decode writes the 400 or 422 itself and reports whether to continue.
func decode(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	errs, err := bind.JSON(r, dest)
	if err != nil {
		response.ErrorWithDetail(w, http.StatusBadRequest, msgInvalidBody, err)
		return false
	}
	if errs != nil {
		response.ValidationError(w, errs)
		return false
	}
	return true
}
