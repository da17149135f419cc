package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler(t *testing.T) {
	LinksCreated.Inc()
	CreateRejected.WithLabelValues(ReasonProhibited).Inc()

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, req)

	resp := w.Result()
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "shortlinks_links_created_total")
	assert.Contains(t, string(body), `shortlinks_create_rejected_total{reason="prohibited"}`)
}

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(Redirects)
	Redirects.Inc()
	Redirects.Inc()
	assert.Equal(t, before+2, testutil.ToFloat64(Redirects))

	Links.Set(7)
	assert.Equal(t, float64(7), testutil.ToFloat64(Links))
}
