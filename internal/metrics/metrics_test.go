package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordersAreIndependent(t *testing.T) {
	a := New()
	b := New()

	a.RecordEvaluation("idx_swing", "emitted")
	a.RecordEvaluation("idx_swing", "emitted")
	b.RecordEvaluation("idx_swing", "emitted")

	assert.Equal(t, 2.0, testutil.ToFloat64(a.evaluations.WithLabelValues("idx_swing", "emitted")))
	assert.Equal(t, 1.0, testutil.ToFloat64(b.evaluations.WithLabelValues("idx_swing", "emitted")))
}

func TestObserveScanSetsTierGauges(t *testing.T) {
	r := New()
	r.ObserveScan("vwap_pro", 3*time.Second, map[string]int{"READY": 4, "WAIT": 10})

	assert.Equal(t, 4.0, testutil.ToFloat64(r.scanResults.WithLabelValues("vwap_pro", "READY")))
	assert.Equal(t, 10.0, testutil.ToFloat64(r.scanResults.WithLabelValues("vwap_pro", "WAIT")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	r := New()
	r.RecordRejection("bsjp", "LOW_PRICE")
	r.RecordCacheLookup(true)
	r.ObserveFetch("1d", 120*time.Millisecond)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `screener_rejections_total{reason="LOW_PRICE",strategy="bsjp"} 1`)
	assert.Contains(t, body, `screener_series_cache_lookups_total{result="hit"} 1`)
	assert.Contains(t, body, "screener_fetch_duration_seconds_bucket")
}
