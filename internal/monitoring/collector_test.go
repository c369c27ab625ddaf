package monitoring

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveView(t *testing.T) {
	c := NewCollector()

	c.ObserveView("proportion", time.Millisecond, false)
	c.ObserveView("proportion", time.Millisecond, true)
	c.ObserveView("correlation", time.Millisecond, true)

	assert.InDelta(t, 2, testutil.ToFloat64(c.viewBuilds.WithLabelValues("proportion")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(c.emptyViews.WithLabelValues("proportion")), 0.001)
	assert.InDelta(t, 1, testutil.ToFloat64(c.emptyViews.WithLabelValues("correlation")), 0.001)
}

func TestCollector_Sessions(t *testing.T) {
	c := NewCollector()

	c.SessionOpened()
	c.SessionOpened()
	c.SessionClosed()

	assert.InDelta(t, 1, testutil.ToFloat64(c.activeSessions), 0.001)
}

func TestCollector_NilIsNoop(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.ObserveView("proportion", time.Second, true)
		c.SessionOpened()
		c.SessionClosed()
		c.ObserveRequest("/health", http.MethodGet, http.StatusOK)
		c.SetDatasetRecords(56)
	})
}

func TestCollector_Handler(t *testing.T) {
	c := NewCollector()
	c.SetDatasetRecords(56)
	c.ObserveRequest("/api/dataset", http.MethodGet, http.StatusOK)

	rr := httptest.NewRecorder()
	c.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "launch_dashboard_dataset_records 56")
	assert.Contains(t, body, `launch_dashboard_http_requests_total{code="200",method="GET",route="/api/dataset"} 1`)
}

func TestServer_RunAndShutdown(t *testing.T) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := l.Addr().(*net.TCPAddr).Port
	l.Close()

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- NewServer(port, NewCollector()).Run(ctx)
	}()

	var status int
	for i := 0; i < 50; i++ {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/metrics", port))
		if err == nil {
			status = resp.StatusCode
			resp.Body.Close()
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, http.StatusOK, status)

	cancel()
	select {
	case err := <-errCh:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("metrics server did not stop")
	}
}
