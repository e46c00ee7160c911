package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"enchanted-shop/model"
	"enchanted-shop/service"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

func init() {
	// prices and totals go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Pinger reports whether the data store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler is the HTTP layer in front of the catalog, cart and customer services.
type Handler struct {
	catalog  service.CatalogServiceInterface
	cart     service.CartServiceInterface
	customer service.CustomerServiceInterface
	health   Pinger
	log      zerolog.Logger
}

func NewHandler(
	catalog service.CatalogServiceInterface,
	cart service.CartServiceInterface,
	customer service.CustomerServiceInterface,
	health Pinger,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		catalog:  catalog,
		cart:     cart,
		customer: customer,
		health:   health,
		log:      log.With().Str("component", "http").Logger(),
	}
}

// RegisterRoutes registers all routes on the provided router
func (h *Handler) RegisterRoutes(r *mux.Router) {
	// Catalog
	r.HandleFunc("/findProducts", h.FindProducts).Methods(http.MethodGet)
	r.HandleFunc("/productById/{id}", h.FindProductByID).Methods(http.MethodGet)
	r.HandleFunc("/productsByCategory/{category}", h.FindProductsByCategory).Methods(http.MethodGet)
	r.HandleFunc("/productsByColor/{color}", h.FindProductsByColor).Methods(http.MethodGet)
	r.HandleFunc("/productsByPrice/{price}", h.FindProductsByPrice).Methods(http.MethodGet)
	r.HandleFunc("/productsByType/{type}", h.FindProductsByType).Methods(http.MethodGet)
	r.HandleFunc("/products/{category}/{color}", h.FindProductsByCategoryAndColor).Methods(http.MethodGet)

	// Cart
	r.HandleFunc("/addProductToCart", h.AddProductToCart).Methods(http.MethodPost)
	r.HandleFunc("/editAmount/{cartId}/{productId}", h.EditAmount).Methods(http.MethodPut)
	r.HandleFunc("/deleteProductFromCart/{cartId}/{productId}", h.DeleteProductFromCart).Methods(http.MethodDelete)
	r.HandleFunc("/productsInCart/{cartId}", h.ViewProductsInCart).Methods(http.MethodGet)
	r.HandleFunc("/totalPrice/{cartId}", h.TotalPrice).Methods(http.MethodGet)

	// Customers
	r.HandleFunc("/register", h.RegisterCustomer).Methods(http.MethodPost)
	r.HandleFunc("/findCustomerById/{id}", h.FindCustomerByID).Methods(http.MethodGet)
	r.HandleFunc("/findCustomerByCartId/{id}", h.FindCustomerByCartID).Methods(http.MethodGet)

	// Admin
	admin := r.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/createProduct", h.CreateProduct).Methods(http.MethodPost)
	admin.HandleFunc("/editProduct/{id}", h.EditProduct).Methods(http.MethodPut)
	admin.HandleFunc("/updateStock/{id}", h.UpdateStock).Methods(http.MethodPut)
	admin.HandleFunc("/deleteProduct/{id}", h.DeleteProduct).Methods(http.MethodDelete)
	admin.HandleFunc("/outOfStock", h.OutOfStock).Methods(http.MethodGet)
	admin.HandleFunc("/customers", h.ListCustomers).Methods(http.MethodGet)

	r.HandleFunc("/healthz", h.Healthz).Methods(http.MethodGet)
}

// Router returns the full HTTP handler: routes wrapped in request id,
// access logging and panic recovery.
func (h *Handler) Router() http.Handler {
	r := mux.NewRouter()
	h.RegisterRoutes(r)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeErr(w, http.StatusMethodNotAllowed, "method not allowed")
	})
	return RequestID(LogRequests(h.log)(Recover(h.log)(r)))
}

// Healthz handles GET /healthz
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := h.health.Ping(ctx); err != nil {
		h.log.Warn().Err(err).Msg("health check failed")
		writeErr(w, http.StatusServiceUnavailable, "store unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- helpers ---
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeServiceErr maps service error kinds onto status codes. Unexpected
// errors are logged and answered with a generic message.
func (h *Handler) writeServiceErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		writeErr(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeErr(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrInsufficientStock):
		writeErr(w, http.StatusConflict, err.Error())
	default:
		h.log.Error().
			Err(err).
			Str("request_id", RequestIDFrom(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		writeErr(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeErr(w, http.StatusBadRequest, name+" must be an integer")
		return 0, false
	}
	return id, true
}

func pathCategory(w http.ResponseWriter, r *http.Request) (model.Category, bool) {
	c, err := model.ParseCategory(mux.Vars(r)["category"])
	if err != nil {
		writeErr(w, http.StatusBadRequest, err.Error())
		return model.CategoryUnknown, false
	}
	return c, true
}

func pathPrice(w http.ResponseWriter, r *http.Request) (decimal.Decimal, bool) {
	p, err := decimal.NewFromString(mux.Vars(r)["price"])
	if err != nil {
		writeErr(w, http.StatusBadRequest, "price must be a number")
		return decimal.Zero, false
	}
	return p, true
}
