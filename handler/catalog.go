package handler

import (
	"net/http"

	"enchanted-shop/model"
	"enchanted-shop/service"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

type createProductReq struct {
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Type              string          `json:"type"`
	Color             string          `json:"color"`
	Price             decimal.Decimal `json:"price"`
	AvailableQuantity int             `json:"availableQuantity"`
}

type editProductReq struct {
	Name              string          `json:"name"`
	Price             decimal.Decimal `json:"price"`
	AvailableQuantity int             `json:"availableQuantity"`
}

type updateStockReq struct {
	AvailableQuantity int `json:"availableQuantity"`
}

func (h *Handler) writeProducts(w http.ResponseWriter, r *http.Request, ps []model.Product, err error) {
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// FindProducts handles GET /findProducts
func (h *Handler) FindProducts(w http.ResponseWriter, r *http.Request) {
	ps, err := h.catalog.FindAll(r.Context())
	h.writeProducts(w, r, ps, err)
}

// FindProductByID handles GET /productById/{id}
func (h *Handler) FindProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	p, err := h.catalog.FindByID(r.Context(), id)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// FindProductsByCategory handles GET /productsByCategory/{category}
func (h *Handler) FindProductsByCategory(w http.ResponseWriter, r *http.Request) {
	c, ok := pathCategory(w, r)
	if !ok {
		return
	}
	ps, err := h.catalog.FindByCategory(r.Context(), c)
	h.writeProducts(w, r, ps, err)
}

// FindProductsByColor handles GET /productsByColor/{color}
func (h *Handler) FindProductsByColor(w http.ResponseWriter, r *http.Request) {
	ps, err := h.catalog.FindByColor(r.Context(), mux.Vars(r)["color"])
	h.writeProducts(w, r, ps, err)
}

// FindProductsByPrice handles GET /productsByPrice/{price}
func (h *Handler) FindProductsByPrice(w http.ResponseWriter, r *http.Request) {
	price, ok := pathPrice(w, r)
	if !ok {
		return
	}
	ps, err := h.catalog.FindByPrice(r.Context(), price)
	h.writeProducts(w, r, ps, err)
}

// FindProductsByType handles GET /productsByType/{type}
func (h *Handler) FindProductsByType(w http.ResponseWriter, r *http.Request) {
	ps, err := h.catalog.FindByType(r.Context(), mux.Vars(r)["type"])
	h.writeProducts(w, r, ps, err)
}

// FindProductsByCategoryAndColor handles GET /products/{category}/{color}
func (h *Handler) FindProductsByCategoryAndColor(w http.ResponseWriter, r *http.Request) {
	c, ok := pathCategory(w, r)
	if !ok {
		return
	}
	ps, err := h.catalog.FindByCategoryAndColor(r.Context(), c, mux.Vars(r)["color"])
	h.writeProducts(w, r, ps, err)
}

// OutOfStock handles GET /admin/outOfStock
func (h *Handler) OutOfStock(w http.ResponseWriter, r *http.Request) {
	ps, err := h.catalog.OutOfStock(r.Context())
	h.writeProducts(w, r, ps, err)
}

// CreateProduct handles POST /admin/createProduct
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductReq
	if !decodeJSON(w, r, &req) {
		return
	}
	// a missing category is left to the service, which rejects it
	category := model.CategoryUnknown
	if req.Category != "" {
		c, err := model.ParseCategory(req.Category)
		if err != nil {
			writeErr(w, http.StatusBadRequest, err.Error())
			return
		}
		category = c
	}

	p, err := h.catalog.Create(r.Context(), service.CreateProductInput{
		Name:              req.Name,
		Category:          category,
		Type:              req.Type,
		Color:             req.Color,
		Price:             req.Price,
		AvailableQuantity: req.AvailableQuantity,
	})
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// EditProduct handles PUT /admin/editProduct/{id}
func (h *Handler) EditProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req editProductReq
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.catalog.Edit(r.Context(), id, service.EditProductInput{
		Name:              req.Name,
		Price:             req.Price,
		AvailableQuantity: req.AvailableQuantity,
	})
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdateStock handles PUT /admin/updateStock/{id}
// body: { "availableQuantity": 12 }
func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req updateStockReq
	if !decodeJSON(w, r, &req) {
		return
	}
	p, err := h.catalog.UpdateStock(r.Context(), id, req.AvailableQuantity)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProduct handles DELETE /admin/deleteProduct/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.catalog.Delete(r.Context(), id); err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
