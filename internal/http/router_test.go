package httpx_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fashionmart/internal/config"
	httpx "fashionmart/internal/http"
	"fashionmart/internal/services/collection"
	"fashionmart/internal/store/cache"
	"fashionmart/internal/upstream"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ordersBody = `{"orders":[
	{"id":"o1","orderNumber":"FM-1","status":"pending","total":10,"createdAt":"2025-01-01T00:00:00Z"},
	{"id":"o2","orderNumber":"FM-2","status":"shipped","total":30,"createdAt":"2025-01-02T00:00:00Z"},
	{"id":"o3","orderNumber":"FM-3","status":"delivered","total":20,"createdAt":"2025-01-03T00:00:00Z"}
],"total":3}`

// marketplace fakes the upstream API
func marketplace(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"session expired"}`))
			return
		}
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/orders":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(ordersBody))
		case r.Method == http.MethodGet && r.URL.Path == "/orders/export":
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", `attachment; filename="orders-2025.csv"`)
			_, _ = w.Write([]byte("id,total\no1,10\n"))
		case r.Method == http.MethodGet && r.URL.Path == "/payments/export":
			w.Header().Set("Content-Type", "application/pdf")
			w.Header().Set("Content-Disposition", `attachment; filename="q1 \"final\"; x=1.pdf"`)
			_, _ = w.Write([]byte("%PDF"))
		case r.Method == http.MethodPost && r.URL.Path == "/orders/o1/cancel":
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"message":"invalid","errors":{"reason":"is required"}}`))
		case r.Method == http.MethodPost && r.URL.Path == "/orders/o2/deliver":
			_, _ = w.Write([]byte(`{"data":{"id":"o2","orderNumber":"FM-2","status":"delivered","total":30,"createdAt":"2025-01-02T00:00:00Z"}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newAPI(t *testing.T, baseURL string) http.Handler {
	t.Helper()
	reg := prometheus.NewRegistry()
	metrics := collection.NewMetrics(reg)

	store, err := cache.NewMemory(64)
	require.NoError(t, err)
	client := upstream.New(upstream.Config{BaseURL: baseURL})
	fetcher := collection.NewFetcher(client, store, collection.FetcherConfig{TTL: 0}, metrics)
	sessions, err := collection.NewSessions(16, metrics)
	require.NoError(t, err)

	return httpx.NewRouter(httpx.RouterDependencies{
		Config:      config.Cfg{App: config.AppCfg{Env: "test"}},
		Collections: collection.NewService(collection.DefaultRegistry(), fetcher, sessions),
		Metrics:     reg,
	})
}

type view struct {
	Session string           `json:"session_id"`
	Items   []map[string]any `json:"items"`
	Matched int              `json:"matched"`
	Total   int              `json:"total"`
	Sort    string           `json:"sort"`
	HasMore bool             `json:"has_more"`
	Summary map[string]any   `json:"summary"`
	Error   *struct {
		Kind string `json:"kind"`
	} `json:"error"`
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func ids(v view) []string {
	out := make([]string, 0, len(v.Items))
	for _, it := range v.Items {
		out = append(out, it["id"].(string))
	}
	return out
}

func TestRouter_Health(t *testing.T) {
	h := newAPI(t, marketplace(t).URL)
	rec := call(t, h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body["resources"], "orders")
	assert.Equal(t, false, body["saved_views"])
}

func TestRouter_RequiresBearer(t *testing.T) {
	h := newAPI(t, marketplace(t).URL)
	rec := call(t, h, http.MethodGet, "/api/v1/views/orders", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["sign_in"])
}

func TestRouter_OneShotView(t *testing.T) {
	h := newAPI(t, marketplace(t).URL)
	rec := call(t, h, http.MethodGet, "/api/v1/views/orders?sort=amount_high&limit=2", "good", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	v := decode[view](t, rec)
	assert.Equal(t, []string{"o2", "o3"}, ids(v))
	assert.Equal(t, 3, v.Matched)
	assert.True(t, v.HasMore)
	assert.Equal(t, "amount_high", v.Sort)
	assert.NotNil(t, v.Summary)
}

func TestRouter_UnknownInput(t *testing.T) {
	h := newAPI(t, marketplace(t).URL)
	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodGet, "/api/v1/views/invoices", "good", nil).Code)
	assert.Equal(t, http.StatusBadRequest, call(t, h, http.MethodGet, "/api/v1/views/orders?sort=cheapest", "good", nil).Code)
}

func TestRouter_SessionFlow(t *testing.T) {
	h := newAPI(t, marketplace(t).URL)

	rec := call(t, h, http.MethodPost, "/api/v1/sessions", "good", map[string]any{"resource": "orders", "limit": 2})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	opened := decode[view](t, rec)
	require.NotEmpty(t, opened.Session)
	assert.Equal(t, []string{"o3", "o2"}, ids(opened), "newest first by default")
	base := "/api/v1/sessions/" + opened.Session

	rec = call(t, h, http.MethodPut, base+"/sort", "good", map[string]string{"sort": "amount_low"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, []string{"o1", "o3"}, ids(decode[view](t, rec)))

	rec = call(t, h, http.MethodPost, base+"/more", "good", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	more := decode[view](t, rec)
	assert.Equal(t, []string{"o1", "o3", "o2"}, ids(more))
	assert.False(t, more.HasMore)

	rec = call(t, h, http.MethodPost, base+"/items/o2/deliver", "good", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, it := range decode[view](t, rec).Items {
		if it["id"] == "o2" {
			assert.Equal(t, "delivered", it["status"])
		}
	}

	// another caller cannot see the session
	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodGet, base, "other", nil).Code)

	require.Equal(t, http.StatusNoContent, call(t, h, http.MethodDelete, base, "good", nil).Code)
	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodGet, base, "good", nil).Code)
}

func TestRouter_UpstreamUnauthorizedAsksForSignIn(t *testing.T) {
	h := newAPI(t, marketplace(t).URL)
	rec := call(t, h, http.MethodPost, "/api/v1/sessions", "expired", map[string]any{"resource": "orders"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "unauthorized", body["error"])
	assert.Equal(t, true, body["sign_in"])
}

func TestRouter_ValidationFields(t *testing.T) {
	h := newAPI(t, marketplace(t).URL)
	opened := decode[view](t, call(t, h, http.MethodPost, "/api/v1/sessions", "good", map[string]any{"resource": "orders"}))

	rec := call(t, h, http.MethodPost, "/api/v1/sessions/"+opened.Session+"/items/o1/cancel", "good", map[string]string{"reason": ""})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, map[string]any{"reason": "is required"}, body["fields"])
}

func TestRouter_TransportErrorIsBadGateway(t *testing.T) {
	down := httptest.NewServer(http.NotFoundHandler())
	down.Close()
	h := newAPI(t, down.URL)

	rec := call(t, h, http.MethodGet, "/api/v1/views/orders", "good", nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)
	body := decode[map[string]any](t, rec)
	assert.Equal(t, "transport", body["error"])
	assert.Equal(t, true, body["retryable"])
}

func TestRouter_Export(t *testing.T) {
	h := newAPI(t, marketplace(t).URL)
	rec := call(t, h, http.MethodGet, "/api/v1/orders/export?format=csv&status=pending", "good", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=orders-2025.csv", rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "id,total\no1,10\n", rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, call(t, h, http.MethodGet, "/api/v1/orders/export?format=xml", "good", nil).Code)
}

func TestRouter_ExportEscapesFilename(t *testing.T) {
	h := newAPI(t, marketplace(t).URL)
	rec := call(t, h, http.MethodGet, "/api/v1/payments/export?format=pdf", "good", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	disposition, params, err := mime.ParseMediaType(rec.Header().Get("Content-Disposition"))
	require.NoError(t, err)
	assert.Equal(t, "attachment", disposition)
	assert.Equal(t, map[string]string{"filename": `q1 "final"; x=1.pdf`}, params)
}

func TestRouter_SavedViewsNeedDatabase(t *testing.T) {
	h := newAPI(t, marketplace(t).URL)
	assert.Equal(t, http.StatusNotFound, call(t, h, http.MethodGet, "/api/v1/saved-views", "good", nil).Code)

	rec := call(t, h, http.MethodPost, "/api/v1/sessions", "good", map[string]any{"saved_view_id": "sv-1"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_Metrics(t *testing.T) {
	h := newAPI(t, marketplace(t).URL)
	require.Equal(t, http.StatusOK, call(t, h, http.MethodGet, "/api/v1/views/orders", "good", nil).Code)

	rec := call(t, h, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `fashionmart_upstream_fetches_total{outcome="ok",resource="orders"} 1`), rec.Body.String())
}
