package handler

import (
	"net/http"
)

type addProductToCartReq struct {
	CartID    int64 `json:"cartId"`
	ProductID int64 `json:"productId"`
	Amount    int   `json:"amount"`
}

type editAmountReq struct {
	Amount int `json:"amount"`
}

// AddProductToCart handles POST /addProductToCart
// body: { "cartId": 1, "productId": 2, "amount": 3 }
func (h *Handler) AddProductToCart(w http.ResponseWriter, r *http.Request) {
	var req addProductToCartReq
	if !decodeJSON(w, r, &req) {
		return
	}
	o, err := h.cart.AddProductToCart(r.Context(), req.CartID, req.ProductID, req.Amount)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// EditAmount handles PUT /editAmount/{cartId}/{productId}
// body: { "amount": 2 }
func (h *Handler) EditAmount(w http.ResponseWriter, r *http.Request) {
	cartID, ok := pathID(w, r, "cartId")
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}
	var req editAmountReq
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Amount <= 0 {
		writeErr(w, http.StatusBadRequest, "amount must be greater than zero")
		return
	}

	o, found, err := h.cart.EditAmount(r.Context(), cartID, productID, req.Amount)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	if !found {
		writeErr(w, http.StatusNotFound, "product not found in cart")
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// DeleteProductFromCart handles DELETE /deleteProductFromCart/{cartId}/{productId}
func (h *Handler) DeleteProductFromCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := pathID(w, r, "cartId")
	if !ok {
		return
	}
	productID, ok := pathID(w, r, "productId")
	if !ok {
		return
	}
	if err := h.cart.DeleteProductFromCart(r.Context(), cartID, productID); err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// ViewProductsInCart handles GET /productsInCart/{cartId}
func (h *Handler) ViewProductsInCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := pathID(w, r, "cartId")
	if !ok {
		return
	}
	views, err := h.cart.ViewProductsInCart(r.Context(), cartID)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, views)
}

// TotalPrice handles GET /totalPrice/{cartId}
func (h *Handler) TotalPrice(w http.ResponseWriter, r *http.Request) {
	cartID, ok := pathID(w, r, "cartId")
	if !ok {
		return
	}
	total, err := h.cart.TotalPrice(r.Context(), cartID)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, total)
}
