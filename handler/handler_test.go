package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"enchanted-shop/model"
	"enchanted-shop/service"
	"enchanted-shop/store"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	*store.MemoryStore
}

func (f failingStore) ListProducts(ctx context.Context) ([]model.Product, error) {
	return nil, errors.New("connection refused")
}

func (f failingStore) Ping(ctx context.Context) error {
	return errors.New("connection refused")
}

type panicPinger struct{}

func (panicPinger) Ping(ctx context.Context) error { panic("boom") }

func newServer(t *testing.T, st store.Store, health Pinger) *httptest.Server {
	t.Helper()
	log := zerolog.Nop()
	h := NewHandler(
		service.NewCatalogService(st, log),
		service.NewCartService(st, log),
		service.NewCustomerService(st, log),
		health,
		log,
	)
	srv := httptest.NewServer(h.Router())
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, srv *httptest.Server, method, path string, body interface{}) (*http.Response, []byte) {
	t.Helper()
	var rd *bytes.Reader
	switch b := body.(type) {
	case nil:
		rd = bytes.NewReader(nil)
	case string:
		rd = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, srv.URL+path, rd)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func createProduct(t *testing.T, srv *httptest.Server, name, category, color string, price, qty int) model.Product {
	t.Helper()
	resp, body := do(t, srv, http.MethodPost, "/admin/createProduct", map[string]interface{}{
		"name":              name,
		"category":          category,
		"type":              "type-" + name,
		"color":             color,
		"price":             price,
		"availableQuantity": qty,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	return decode[model.Product](t, body)
}

func register(t *testing.T, srv *httptest.Server) model.Customer {
	t.Helper()
	resp, body := do(t, srv, http.MethodPost, "/register", map[string]string{
		"name": "A", "email": "a@b.com", "phoneNumber": "555", "address": "addr",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	return decode[model.Customer](t, body)
}

func TestCatalogRoutes(t *testing.T) {
	srv := newServer(t, store.NewMemoryStore(), store.NewMemoryStore())

	lipstick := createProduct(t, srv, "Lipstick", "lips", "red", 10, 5)
	assert.Equal(t, model.CategoryLips, lipstick.Category)
	assert.True(t, lipstick.Price.Equal(decimal.NewFromInt(10)))
	createProduct(t, srv, "Mascara", "EYES", "black", 20, 0)

	resp, body := do(t, srv, http.MethodGet, "/findProducts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Product](t, body), 2)

	resp, body = do(t, srv, http.MethodGet, "/productsByCategory/lips", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []model.Product{lipstick}, decode[[]model.Product](t, body))

	resp, body = do(t, srv, http.MethodGet, "/productsByColor/red", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Product](t, body), 1)

	resp, body = do(t, srv, http.MethodGet, "/productsByPrice/20.00", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Product](t, body), 1)

	resp, body = do(t, srv, http.MethodGet, "/productsByType/type-Mascara", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Product](t, body), 1)

	resp, body = do(t, srv, http.MethodGet, "/products/LIPS/blue", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]\n", string(body))

	resp, body = do(t, srv, http.MethodGet, "/admin/outOfStock", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[[]model.Product](t, body)
	require.Len(t, out, 1)
	assert.Equal(t, "Mascara", out[0].Name)
}

func TestProductAdminRoutes(t *testing.T) {
	srv := newServer(t, store.NewMemoryStore(), store.NewMemoryStore())
	p := createProduct(t, srv, "Brush", "tools", "black", 9, 3)

	resp, body := do(t, srv, http.MethodPut, "/admin/editProduct/"+itoa(p.ID), map[string]interface{}{
		"name": "Big Brush", "price": "12.50", "availableQuantity": 1,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	edited := decode[model.Product](t, body)
	assert.Equal(t, "Big Brush", edited.Name)
	assert.True(t, edited.Price.Equal(decimal.RequireFromString("12.5")))

	resp, body = do(t, srv, http.MethodPut, "/admin/updateStock/"+itoa(p.ID), map[string]int{"availableQuantity": 0})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	assert.Zero(t, decode[model.Product](t, body).AvailableQuantity)

	resp, _ = do(t, srv, http.MethodDelete, "/admin/deleteProduct/"+itoa(p.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, srv, http.MethodGet, "/productById/"+itoa(p.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, srv, http.MethodDelete, "/admin/deleteProduct/"+itoa(p.ID), nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, decode[map[string]string](t, body)["error"], "not found")
}

func TestBadInputIs400(t *testing.T) {
	srv := newServer(t, store.NewMemoryStore(), store.NewMemoryStore())

	tests := []struct {
		name   string
		method string
		path   string
		body   interface{}
	}{
		{"non numeric id", http.MethodGet, "/productById/abc", nil},
		{"unknown category", http.MethodGet, "/productsByCategory/hair", nil},
		{"unknown category pair", http.MethodGet, "/products/hair/red", nil},
		{"bad price", http.MethodGet, "/productsByPrice/cheap", nil},
		{"malformed json", http.MethodPost, "/admin/createProduct", "{"},
		{"unknown category in body", http.MethodPost, "/admin/createProduct",
			map[string]interface{}{"name": "x", "category": "hair", "price": 1, "availableQuantity": 1}},
		{"missing category", http.MethodPost, "/admin/createProduct",
			map[string]interface{}{"name": "x", "price": 1, "availableQuantity": 1}},
		{"blank name", http.MethodPost, "/admin/createProduct",
			map[string]interface{}{"name": " ", "category": "face", "price": 1, "availableQuantity": 1}},
		{"zero price", http.MethodPost, "/admin/createProduct",
			map[string]interface{}{"name": "x", "category": "face", "price": 0, "availableQuantity": 1}},
		{"price with three decimals", http.MethodPost, "/admin/createProduct",
			map[string]interface{}{"name": "x", "category": "face", "price": "12.345", "availableQuantity": 1}},
		{"price beyond column", http.MethodPost, "/admin/createProduct",
			map[string]interface{}{"name": "x", "category": "face", "price": 1e11, "availableQuantity": 1}},
		{"negative stock", http.MethodPut, "/admin/updateStock/1", map[string]int{"availableQuantity": -1}},
		{"zero amount", http.MethodPut, "/editAmount/1/1", map[string]int{"amount": 0}},
		{"non numeric cart", http.MethodGet, "/totalPrice/x", nil},
		{"bad email", http.MethodPost, "/register",
			map[string]string{"name": "A", "email": "nope", "phoneNumber": "1", "address": "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, srv, tt.method, tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
			assert.NotEmpty(t, decode[map[string]string](t, body)["error"])
		})
	}
}

func TestCartRoutes(t *testing.T) {
	srv := newServer(t, store.NewMemoryStore(), store.NewMemoryStore())
	c := register(t, srv)
	a := createProduct(t, srv, "a", "face", "red", 10, 5)
	b := createProduct(t, srv, "b", "eyes", "blue", 20, 2)

	resp, body := do(t, srv, http.MethodGet, "/totalPrice/"+itoa(c.Cart.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[decimal.Decimal](t, body).IsZero())

	resp, body = do(t, srv, http.MethodPost, "/addProductToCart", map[string]int64{"cartId": c.Cart.ID, "productId": a.ID, "amount": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	resp, body = do(t, srv, http.MethodPost, "/addProductToCart", map[string]int64{"cartId": c.Cart.ID, "productId": b.ID, "amount": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = do(t, srv, http.MethodGet, "/totalPrice/"+itoa(c.Cart.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decode[decimal.Decimal](t, body).Equal(decimal.NewFromInt(50)), string(body))

	resp, body = do(t, srv, http.MethodGet, "/productsInCart/"+itoa(c.Cart.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	views := decode[[]model.ProductView](t, body)
	require.Len(t, views, 2)
	assert.Equal(t, "a", views[0].Name)
	assert.NotContains(t, string(body), "amount")

	t.Run("insufficient stock is 409", func(t *testing.T) {
		resp, _ := do(t, srv, http.MethodPost, "/addProductToCart", map[string]int64{"cartId": c.Cart.ID, "productId": b.ID, "amount": 3})
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("unknown product is 404", func(t *testing.T) {
		resp, _ := do(t, srv, http.MethodPost, "/addProductToCart", map[string]int64{"cartId": c.Cart.ID, "productId": 999, "amount": 1})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("edit amount", func(t *testing.T) {
		resp, body := do(t, srv, http.MethodPut, "/editAmount/"+itoa(c.Cart.ID)+"/"+itoa(a.ID), map[string]int{"amount": 3})
		require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
		assert.Equal(t, 3, decode[model.ProductOrder](t, body).Amount)

		resp, _ = do(t, srv, http.MethodPut, "/editAmount/"+itoa(c.Cart.ID)+"/999", map[string]int{"amount": 3})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete from cart", func(t *testing.T) {
		path := "/deleteProductFromCart/" + itoa(c.Cart.ID) + "/" + itoa(b.ID)
		resp, _ := do(t, srv, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp, _ = do(t, srv, http.MethodDelete, path, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	resp, _ = do(t, srv, http.MethodGet, "/totalPrice/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPricesAreJSONNumbers(t *testing.T) {
	srv := newServer(t, store.NewMemoryStore(), store.NewMemoryStore())
	c := register(t, srv)
	p := createProduct(t, srv, "Lipstick", "lips", "red", 10, 5)

	resp, body := do(t, srv, http.MethodGet, "/productById/"+itoa(p.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	fields := decode[map[string]json.RawMessage](t, body)
	assert.Equal(t, "10", string(fields["price"]))

	resp, body = do(t, srv, http.MethodPost, "/addProductToCart", map[string]int64{"cartId": c.Cart.ID, "productId": p.ID, "amount": 2})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	resp, body = do(t, srv, http.MethodGet, "/totalPrice/"+itoa(c.Cart.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "20\n", string(body))
}

func TestCustomerRoutes(t *testing.T) {
	srv := newServer(t, store.NewMemoryStore(), store.NewMemoryStore())
	c := register(t, srv)
	assert.NotZero(t, c.Cart.ID)

	resp, body := do(t, srv, http.MethodGet, "/findCustomerById/"+itoa(c.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "a@b.com", decode[model.Customer](t, body).Email)

	resp, body = do(t, srv, http.MethodGet, "/findCustomerByCartId/"+itoa(c.Cart.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, c.ID, decode[model.Customer](t, body).ID)

	resp, _ = do(t, srv, http.MethodGet, "/findCustomerByCartId/999", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body = do(t, srv, http.MethodGet, "/admin/customers", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode[[]model.Customer](t, body), 1)
}

func TestUnexpectedErrorsAre500WithGenericMessage(t *testing.T) {
	st := failingStore{store.NewMemoryStore()}
	srv := newServer(t, st, st)

	resp, body := do(t, srv, http.MethodGet, "/findProducts", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, string(body), "connection refused")

	resp, _ = do(t, srv, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestMiddleware(t *testing.T) {
	t.Run("healthz ok with generated request id", func(t *testing.T) {
		srv := newServer(t, store.NewMemoryStore(), store.NewMemoryStore())
		resp, _ := do(t, srv, http.MethodGet, "/healthz", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	})

	t.Run("incoming request id is echoed", func(t *testing.T) {
		srv := newServer(t, store.NewMemoryStore(), store.NewMemoryStore())
		req, err := http.NewRequest(http.MethodGet, srv.URL+"/healthz", nil)
		require.NoError(t, err)
		req.Header.Set(RequestIDHeader, "req-42")
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, "req-42", resp.Header.Get(RequestIDHeader))
	})

	t.Run("panic is recovered as 500", func(t *testing.T) {
		srv := newServer(t, store.NewMemoryStore(), panicPinger{})
		resp, body := do(t, srv, http.MethodGet, "/healthz", nil)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		assert.Equal(t, "internal server error", decode[map[string]string](t, body)["error"])
	})

	t.Run("unknown route is json 404", func(t *testing.T) {
		srv := newServer(t, store.NewMemoryStore(), store.NewMemoryStore())
		resp, body := do(t, srv, http.MethodGet, "/nope", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.True(t, strings.Contains(string(body), "route not found"))
	})

	t.Run("access log line", func(t *testing.T) {
		var buf bytes.Buffer
		log := zerolog.New(&buf)
		rec := httptest.NewRecorder()
		h := RequestID(LogRequests(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		})))
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))

		line := decode[map[string]interface{}](t, buf.Bytes())
		assert.EqualValues(t, http.StatusTeapot, line["status"])
		assert.Equal(t, "GET", line["method"])
		assert.NotEmpty(t, line["request_id"])
	})
}

func itoa(id int64) string { return strconv.FormatInt(id, 10) }
