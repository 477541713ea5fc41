package metrics_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/procurement/internal/metrics"
)

func scrape(t *testing.T, m *metrics.Metrics) string {
	t.Helper()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	return string(body)
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/purchases/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/purchases/"+id, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	out := scrape(t, m)
	assert.Contains(t, out, `procurement_http_requests_total{code="404",method="GET",route="/purchases/{id}"} 3`)
	assert.Contains(t, out, "procurement_http_request_duration_seconds_bucket")
	assert.NotContains(t, out, `route="/purchases/a"`)
}

type stubNotifier struct{ err error }

func (s stubNotifier) Notify(context.Context, string, string, string, string) error { return s.err }

func TestInstrumentNotifier(t *testing.T) {
	m := metrics.New()
	ctx := context.Background()

	ok := m.InstrumentNotifier(stubNotifier{})
	failing := m.InstrumentNotifier(stubNotifier{err: errors.New("down")})

	require.NoError(t, ok.Notify(ctx, "purchase_created", "t", "m", "p1"))
	require.Error(t, failing.Notify(ctx, "purchase_created", "t", "m", "p2"))
	require.Error(t, failing.Notify(ctx, "purchase_created", "t", "m", "p3"))

	out := scrape(t, m)
	assert.Contains(t, out, `procurement_notifications_total{result="ok",type="purchase_created"} 1`)
	assert.Contains(t, out, `procurement_notifications_total{result="error",type="purchase_created"} 2`)
}
