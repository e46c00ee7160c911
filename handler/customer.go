package handler

import (
	"net/http"

	"enchanted-shop/service"
)

type registerCustomerReq struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber"`
	Address     string `json:"address"`
}

// RegisterCustomer handles POST /register
func (h *Handler) RegisterCustomer(w http.ResponseWriter, r *http.Request) {
	var req registerCustomerReq
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := h.customer.Register(r.Context(), service.RegisterCustomerInput(req))
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ListCustomers handles GET /admin/customers
func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	cs, err := h.customer.FindAll(r.Context())
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

// FindCustomerByID handles GET /findCustomerById/{id}
func (h *Handler) FindCustomerByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.customer.FindByID(r.Context(), id)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// FindCustomerByCartID handles GET /findCustomerByCartId/{id}
func (h *Handler) FindCustomerByCartID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	c, err := h.customer.FindByCartID(r.Context(), id)
	if err != nil {
		h.writeServiceErr(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
