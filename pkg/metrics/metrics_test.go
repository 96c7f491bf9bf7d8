package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExposition(t *testing.T) {
	// 三个指标都注册在默认 Registry，promhttp.Handler 必须能抓到
	JobsProcessed.WithLabelValues("log_detect", OutcomeSuccess).Inc()
	JobsProcessed.WithLabelValues("log_detect", OutcomeBury).Inc()
	AnomaliesFound.WithLabelValues("ws-1").Add(3)
	ProcessDuration.Observe(0.25)

	srv := httptest.NewServer(promhttp.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	exposition := string(body)
	assert.Contains(t, exposition, "ladp_jobs_processed_total")
	assert.Contains(t, exposition, `action_type="log_detect"`)
	assert.Contains(t, exposition, `outcome="bury"`)
	assert.Contains(t, exposition, "ladp_anomalies_found_total")
	assert.Contains(t, exposition, `workspace_id="ws-1"`)
	assert.Contains(t, exposition, "ladp_job_process_duration_seconds")
}
