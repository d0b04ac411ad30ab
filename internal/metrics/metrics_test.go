package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveCollect(t *testing.T) {
	before := testutil.ToFloat64(CollectTotal.WithLabelValues("test", StatusSuccess))
	ObserveCollect("test", StatusSuccess, 24, time.Now())
	after := testutil.ToFloat64(CollectTotal.WithLabelValues("test", StatusSuccess))
	assert.Equal(t, before+1, after)
}

func TestHandler(t *testing.T) {
	ObserveCollect("handler", StatusEmpty, 0, time.Now())

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "sentinel_collect_total"))
}
