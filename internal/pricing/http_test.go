package pricing_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"PriceList/internal/pricing"
)

func newPricingTS(t *testing.T, deps pricing.HTTPDeps) *httptest.Server {
	t.Helper()

	s := &pricing.Server{
		Service:     pricing.NewService(pricing.NewMemStore(), zap.NewNop(), nil),
		ServiceName: "Price List Management Service",
		Env:         "test",
	}
	deps.Log = zap.NewNop()
	deps.Service = "pricelist"

	ts := httptest.NewServer(pricing.NewHandler(s, deps))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()

	var r io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		r = strings.NewReader(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, r)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decodeMap(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m), "body=%s", raw)
	return m
}

func TestHTTP_Health(t *testing.T) {
	ts := newPricingTS(t, pricing.HTTPDeps{})

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/health", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{
		"status":  "ok",
		"service": "Price List Management Service",
		"env":     "test",
	}, decodeMap(t, raw))

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/readyz", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTP_PriceLifecycle(t *testing.T) {
	ts := newPricingTS(t, pricing.HTTPDeps{})

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/v1/prices", map[string]any{
		"product_id": "p1",
		"currency":   "USD",
		"base_price": 100,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body=%s", raw)
	created := decodeMap(t, raw)
	assert.Equal(t, 100.0, created["final_price"])
	assert.NotContains(t, created, "promotion_applied")

	resp, raw = doJSON(t, http.MethodPost, ts.URL+"/api/v1/promotions", map[string]any{
		"product_id":  "p1",
		"percent_off": 20,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body=%s", raw)
	assert.Equal(t, map[string]any{
		"status":    "ok",
		"promotion": map[string]any{"product_id": "p1", "percent_off": 20.0},
	}, decodeMap(t, raw))

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/v1/prices/p1", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body=%s", raw)
	var v pricing.PriceView
	require.NoError(t, json.Unmarshal(raw, &v))
	assert.Equal(t, 80.0, v.FinalPrice)
	assert.Equal(t, 100.0, v.BasePrice)
	require.NotNil(t, v.PromotionApplied)
	assert.Equal(t, 20.0, *v.PromotionApplied)

	resp, raw = doJSON(t, http.MethodGet, ts.URL+"/api/v1/prices/p1?apply_promotions=false", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body=%s", raw)
	m := decodeMap(t, raw)
	assert.Equal(t, 100.0, m["final_price"])
	assert.NotContains(t, m, "promotion_applied")
}

func TestHTTP_GetUnknownProduct(t *testing.T) {
	ts := newPricingTS(t, pricing.HTTPDeps{})

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/api/v1/prices/missing", nil, nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	m := decodeMap(t, raw)
	assert.Equal(t, "price not found", m["error"])
	assert.Equal(t, map[string]any{"product_id": "missing"}, m["details"])
	assert.NotEmpty(t, m["request_id"])

	resp, _ = doJSON(t, http.MethodPost, ts.URL+"/api/v1/prices/query", map[string]any{
		"product_id": "missing",
		"currency":   "USD",
	}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHTTP_QueryCurrencyMismatch(t *testing.T) {
	ts := newPricingTS(t, pricing.HTTPDeps{})

	doJSON(t, http.MethodPost, ts.URL+"/api/v1/prices", map[string]any{
		"product_id": "p1", "currency": "USD", "base_price": 49.5,
	}, nil)
	doJSON(t, http.MethodPost, ts.URL+"/api/v1/promotions", map[string]any{
		"product_id": "p1", "percent_off": 12.5,
	}, nil)

	resp, raw := doJSON(t, http.MethodPost, ts.URL+"/api/v1/prices/query", map[string]any{
		"product_id": "p1",
		"currency":   "EUR",
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body=%s", raw)
	assert.Equal(t, map[string]any{
		"product_id":        "p1",
		"currency":          "USD",
		"base_price":        49.5,
		"final_price":       43.31,
		"promotion_applied": 12.5,
	}, decodeMap(t, raw))

	resp, raw = doJSON(t, http.MethodPost, ts.URL+"/api/v1/prices/query", map[string]any{
		"product_id":         "p1",
		"currency":           "USD",
		"include_promotions": false,
	}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, "body=%s", raw)
	assert.Equal(t, 49.5, decodeMap(t, raw)["final_price"])
}

func TestHTTP_Validation(t *testing.T) {
	ts := newPricingTS(t, pricing.HTTPDeps{})

	tests := []struct {
		name   string
		method string
		path   string
		body   any
		field  string
	}{
		{"percent too high", http.MethodPost, "/api/v1/promotions", map[string]any{"product_id": "p1", "percent_off": 150}, "percent_off"},
		{"percent negative", http.MethodPost, "/api/v1/promotions", map[string]any{"product_id": "p1", "percent_off": -5}, "percent_off"},
		{"percent missing", http.MethodPost, "/api/v1/promotions", map[string]any{"product_id": "p1"}, "percent_off"},
		{"price missing base", http.MethodPost, "/api/v1/prices", map[string]any{"product_id": "p1", "currency": "USD"}, "base_price"},
		{"price empty id", http.MethodPost, "/api/v1/prices", map[string]any{"product_id": " ", "currency": "USD", "base_price": 1}, "product_id"},
		{"price base not numeric", http.MethodPost, "/api/v1/prices", `{"product_id":"p1","currency":"USD","base_price":"ten"}`, "body"},
		{"malformed json", http.MethodPost, "/api/v1/prices", `{"product_id":`, "body"},
		{"query missing currency", http.MethodPost, "/api/v1/prices/query", map[string]any{"product_id": "p1"}, "currency"},
		{"bad bool query", http.MethodGet, "/api/v1/prices/p1?apply_promotions=maybe", nil, "apply_promotions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, raw := doJSON(t, tt.method, ts.URL+tt.path, tt.body, nil)
			require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode, "body=%s", raw)

			m := decodeMap(t, raw)
			assert.Equal(t, "validation error", m["error"])
			details, ok := m["details"].(map[string]any)
			require.True(t, ok, "details=%v", m["details"])
			assert.Contains(t, details, tt.field)
		})
	}
}

func TestHTTP_RejectedPromotionDoesNotChangePrice(t *testing.T) {
	ts := newPricingTS(t, pricing.HTTPDeps{})

	doJSON(t, http.MethodPost, ts.URL+"/api/v1/prices", map[string]any{
		"product_id": "p1", "currency": "USD", "base_price": 100,
	}, nil)
	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/v1/promotions", map[string]any{
		"product_id": "p1", "percent_off": 150,
	}, nil)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	_, raw := doJSON(t, http.MethodGet, ts.URL+"/api/v1/prices/p1", nil, nil)
	m := decodeMap(t, raw)
	assert.Equal(t, 100.0, m["final_price"])
	assert.NotContains(t, m, "promotion_applied")
}

func TestHTTP_BoolQueryAliases(t *testing.T) {
	ts := newPricingTS(t, pricing.HTTPDeps{})

	doJSON(t, http.MethodPost, ts.URL+"/api/v1/prices", map[string]any{
		"product_id": "p1", "currency": "USD", "base_price": 10,
	}, nil)
	doJSON(t, http.MethodPost, ts.URL+"/api/v1/promotions", map[string]any{
		"product_id": "p1", "percent_off": 50,
	}, nil)

	for q, want := range map[string]float64{"off": 10, "0": 10, "No": 10, "yes": 5, "1": 5, "TRUE": 5} {
		_, raw := doJSON(t, http.MethodGet, ts.URL+"/api/v1/prices/p1?apply_promotions="+q, nil, nil)
		assert.Equal(t, want, decodeMap(t, raw)["final_price"], "apply_promotions=%s", q)
	}
}

func TestHTTP_CORS(t *testing.T) {
	ts := newPricingTS(t, pricing.HTTPDeps{AllowedOrigins: []string{"https://shop.example"}})

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/health", nil, map[string]string{"Origin": "https://shop.example"})
	assert.Equal(t, "https://shop.example", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/health", nil, map[string]string{"Origin": "https://evil.example"})
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHTTP_WriteRateLimit(t *testing.T) {
	ts := newPricingTS(t, pricing.HTTPDeps{WriteLimitPerMin: 2})

	body := map[string]any{"product_id": "p1", "currency": "USD", "base_price": 1}
	for i := 0; i < 2; i++ {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/v1/prices", body, nil)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/v1/prices", body, nil)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "60", resp.Header.Get("Retry-After"))

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/v1/prices/p1", nil, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHTTP_Metrics(t *testing.T) {
	ts := newPricingTS(t, pricing.HTTPDeps{
		Registry:       prometheus.NewRegistry(),
		MetricsEnabled: true,
		MetricsToken:   "scrape",
	})

	doJSON(t, http.MethodGet, ts.URL+"/api/v1/prices/nope", nil, nil)

	resp, _ := doJSON(t, http.MethodGet, ts.URL+"/metrics", nil, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, raw := doJSON(t, http.MethodGet, ts.URL+"/metrics", nil, map[string]string{"Authorization": "Bearer scrape"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), `path="/api/v1/prices/{productID}"`)
	assert.Contains(t, string(raw), `status="404"`)
}
