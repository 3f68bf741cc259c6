package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/merchantry/storefront/pkg/httpx"
	"github.com/stretchr/testify/require"
)

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"

		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(req))
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")

		require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.1.1:12345"
		req.Header.Set("X-Real-IP", "203.0.113.2")

		require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(req))
	})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(handler http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_AllowsUnderCeiling(t *testing.T) {
	rl := httpx.NewRateLimiter(httpx.RateLimitConfig{
		RequestsPerWindow: 5,
		Window:            time.Minute,
		Burst:             5,
	})
	handler := rl.ByIP()(okHandler())

	for i := range 5 {
		rec := doRequest(handler, "192.168.1.1:12345")
		require.Equal(t, http.StatusOK, rec.Code, "request %d should be allowed", i+1)
	}
}

func TestRateLimiter_RejectsOverCeiling(t *testing.T) {
	rl := httpx.NewRateLimiter(httpx.RateLimitConfig{
		RequestsPerWindow: 3,
		Window:            time.Minute,
		Burst:             3,
	})
	handler := rl.ByIP()(okHandler())

	for range 3 {
		rec := doRequest(handler, "192.168.1.1:12345")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(handler, "192.168.1.1:12345")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))
	require.Contains(t, rec.Body.String(), `"success":false`)
}

func TestRateLimiter_SeparateOrigins(t *testing.T) {
	rl := httpx.NewRateLimiter(httpx.RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	})
	handler := rl.ByIP()(okHandler())

	require.Equal(t, http.StatusOK, doRequest(handler, "192.168.1.1:1").Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(handler, "192.168.1.1:2").Code)

	// A different origin has its own bucket.
	require.Equal(t, http.StatusOK, doRequest(handler, "203.0.113.9:1").Code)
}

func TestRateLimiter_WindowRefill(t *testing.T) {
	rl := httpx.NewRateLimiter(httpx.RateLimitConfig{
		RequestsPerWindow: 10,
		Window:            time.Second, // tight window so the test stays fast
		Burst:             1,
	})
	handler := rl.ByIP()(okHandler())

	require.Equal(t, http.StatusOK, doRequest(handler, "192.168.1.1:1").Code)
	require.Equal(t, http.StatusTooManyRequests, doRequest(handler, "192.168.1.1:1").Code)

	time.Sleep(150 * time.Millisecond) // refill rate is 10/s

	require.Equal(t, http.StatusOK, doRequest(handler, "192.168.1.1:1").Code)
}

func TestRateLimiter_AtomicAdmission(t *testing.T) {
	// With exactly one slot and many concurrent requests from the same
	// origin, exactly one may win.
	rl := httpx.NewRateLimiter(httpx.RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Hour,
		Burst:             1,
	})
	handler := rl.ByIP()(okHandler())

	const workers = 32
	var allowed atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			rec := doRequest(handler, "192.168.1.1:1")
			if rec.Code == http.StatusOK {
				allowed.Add(1)
			}
		}()
	}
	wg.Wait()

	require.Equal(t, int64(1), allowed.Load())
}

func TestRateLimiter_MissingKeyAllowsRequest(t *testing.T) {
	rl := httpx.NewRateLimiter(httpx.RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	})
	emptyExtractor := func(*http.Request) string { return "" }
	handler := rl.Middleware(emptyExtractor)(okHandler())

	for range 5 {
		require.Equal(t, http.StatusOK, doRequest(handler, "192.168.1.1:1").Code)
	}
}

func TestParseRateLimitFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_TEST_REQUESTS", "42")
	t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "90")
	t.Setenv("RATELIMIT_TEST_BURST", "7")

	cfg := httpx.ParseRateLimitFromEnv("TEST", httpx.RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	})

	require.Equal(t, 42, cfg.RequestsPerWindow)
	require.Equal(t, 90*time.Second, cfg.Window)
	require.Equal(t, 7, cfg.Burst)
}
