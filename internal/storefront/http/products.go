package http

import (
	"net/http"

	"github.com/merchantry/storefront/internal/storefront/domain"
	"github.com/merchantry/storefront/internal/storefront/service"
	"github.com/merchantry/storefront/pkg/httpx"
)

// ProductsHandler serves the catalog. Reads are public; writes sit behind
// the admin gate in the router.
type ProductsHandler struct {
	ProductService *service.ProductService
}

func (h *ProductsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	products, err := h.ProductService.ListProducts(r.Context())
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, newProductResponses(products))
}

func (h *ProductsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	product, err := h.ProductService.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, newProductResponse(product))
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Stock       int64  `json:"stock"`
}

func (req productRequest) validate(w http.ResponseWriter) bool {
	if req.Name == "" {
		httpx.WriteError(w, http.StatusBadRequest, "name is required")
		return false
	}
	if req.PriceCents < 0 || req.Stock < 0 {
		httpx.WriteError(w, http.StatusBadRequest, "price_cents and stock must not be negative")
		return false
	}
	return true
}

func (h *ProductsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.validate(w) {
		return
	}

	product, err := h.ProductService.CreateProduct(r.Context(), domain.Product{
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusCreated, newProductResponse(product))
}

func (h *ProductsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.validate(w) {
		return
	}

	product, err := h.ProductService.UpdateProduct(r.Context(), domain.Product{
		ID:          r.PathValue("id"),
		Name:        req.Name,
		Description: req.Description,
		PriceCents:  req.PriceCents,
		Stock:       req.Stock,
	})
	if err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteSuccess(w, http.StatusOK, newProductResponse(product))
}

func (h *ProductsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.ProductService.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(r.Context(), w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, httpx.Response{
		Success: true,
		Message: "product deleted",
	})
}
