package analyzer_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pageQualityGO/internal/analyzer"
	"pageQualityGO/internal/config"
	"pageQualityGO/internal/models"
	"pageQualityGO/internal/scorer"
)

func TestAuditURLs(t *testing.T) {
	server := createTestServer()
	defer server.Close()

	batch := analyzer.NewBatchAuditor(getTestAnalyzer(), scorer.New(), testLogger(), analyzer.BatchOptions{
		MaxConcurrent: 2,
		Delay:         time.Millisecond,
		MaxMemoryMB:   16,
	})

	urls := []string{
		server.URL + "/boty/panske",
		server.URL + "/error",
		server.URL,
		"ftp://files.example.com",
	}

	items := batch.AuditURLs(context.Background(), urls, "")
	require.Len(t, items, len(urls))

	for i, item := range items {
		assert.Equal(t, urls[i], item.URL, "order must follow the input")
	}

	require.NotNil(t, items[0].Result)
	assert.Empty(t, items[0].Error)
	assert.Equal(t, models.PageTypeProduct, items[0].Result.PageType)
	assert.Equal(t, models.PageTypeProduct, items[0].Signal.PageType)

	assert.Nil(t, items[1].Result)
	assert.Contains(t, items[1].Error, "500")

	require.NotNil(t, items[2].Result)
	assert.Equal(t, models.PageTypeHomepage, items[2].Result.PageType)

	assert.Nil(t, items[3].Result)
	assert.Contains(t, items[3].Error, "unsupported URL scheme")
}

func TestAuditURLsExplicitPageType(t *testing.T) {
	server := createTestServer()
	defer server.Close()

	batch := analyzer.NewBatchAuditor(getTestAnalyzer(), scorer.New(), testLogger(), analyzer.BatchOptions{})
	items := batch.AuditURLs(context.Background(), []string{server.URL}, models.PageTypeFilter)

	require.Len(t, items, 1)
	require.NotNil(t, items[0].Result)
	assert.Equal(t, models.PageTypeFilter, items[0].Result.PageType)
	assert.Equal(t, scorer.DefaultRequirements(models.PageTypeFilter), items[0].Result.Requirements)
}

func TestAuditURLsRespectsDelay(t *testing.T) {
	server := createTestServer()
	defer server.Close()

	batch := analyzer.NewBatchAuditor(getTestAnalyzer(), scorer.New(), testLogger(), analyzer.BatchOptions{
		MaxConcurrent: 4,
		Delay:         50 * time.Millisecond,
		MaxMemoryMB:   16,
	})

	urls := []string{server.URL, server.URL, server.URL, server.URL}

	start := time.Now()
	items := batch.AuditURLs(context.Background(), urls, "")
	elapsed := time.Since(start)

	for _, item := range items {
		assert.Empty(t, item.Error)
	}
	// The first request goes out at once, the other three wait one delay each
	assert.GreaterOrEqual(t, elapsed, 140*time.Millisecond)
}

// createSlowServer records the highest number of requests served at the same time
func createSlowServer(inFlight, peak *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := inFlight.Add(1)
		defer inFlight.Add(-1)
		for {
			current := peak.Load()
			if n <= current || peak.CompareAndSwap(current, n) {
				break
			}
		}

		time.Sleep(20 * time.Millisecond)
		w.Write([]byte(`<html><head><title>Slow</title></head><body><h1>Slow</h1></body></html>`))
	}))
}

func TestAuditURLsLimitsConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	server := createSlowServer(&inFlight, &peak)
	defer server.Close()

	batch := analyzer.NewBatchAuditor(getTestAnalyzer(), scorer.New(), testLogger(), analyzer.BatchOptions{
		MaxConcurrent: 2,
		MaxMemoryMB:   16,
	})

	urls := make([]string, 6)
	for i := range urls {
		urls[i] = server.URL
	}

	items := batch.AuditURLs(context.Background(), urls, "")
	require.Len(t, items, 6)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestAuditURLsCancelled(t *testing.T) {
	server := createTestServer()
	defer server.Close()

	batch := analyzer.NewBatchAuditor(getTestAnalyzer(), scorer.New(), testLogger(), analyzer.DefaultBatchOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := batch.AuditURLs(ctx, []string{server.URL, server.URL + "/boty/panske"}, "")
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Nil(t, item.Result)
		assert.NotEmpty(t, item.Error)
	}
}

func TestBatchOptionsFromConfig(t *testing.T) {
	opts := analyzer.BatchOptionsFromConfig(config.BatchConfig{
		MaxConcurrent: 3,
		Delay:         time.Second,
		MaxMemoryMB:   64,
		MaxURLs:       10,
	})

	assert.Equal(t, analyzer.BatchOptions{MaxConcurrent: 3, Delay: time.Second, MaxMemoryMB: 64}, opts)
}
