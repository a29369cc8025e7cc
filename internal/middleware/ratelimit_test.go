package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func testRateLimiter(t *testing.T, generalBurst, orderBurst int) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(RateLimiterConfig{
		GeneralRate:     rate.Limit(1.0 / 60.0),
		GeneralBurst:    generalBurst,
		OrderRate:       rate.Limit(1.0 / 60.0),
		OrderBurst:      orderBurst,
		CleanupInterval: time.Minute,
	})
	t.Cleanup(rl.Stop)
	return rl
}

func TestRateLimiter_General_AllowsWithinBurst(t *testing.T) {
	rl := testRateLimiter(t, 2, 1)

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/all-foods", nil)
		req.RemoteAddr = "10.0.0.1:50000"
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		if w.Result().StatusCode != http.StatusOK {
			t.Fatalf("request %d: status = %d, want 200", i, w.Result().StatusCode)
		}
	}
}

// バーストを超えたリクエストは429とRetry-Afterヘッダーを返す
func TestRateLimiter_General_ExceedingBurst_Returns429(t *testing.T) {
	rl := testRateLimiter(t, 1, 1)

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/all-foods", nil)
	req.RemoteAddr = "10.0.0.1:50000"
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	req2 := httptest.NewRequest(http.MethodGet, "/all-foods", nil)
	req2.RemoteAddr = "10.0.0.1:50001"
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, req2)

	if w2.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want %d", w2.Result().StatusCode, http.StatusTooManyRequests)
	}
	if w2.Result().Header.Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
}

// 異なるリモートアドレスは独立したリミッターを持つ
func TestRateLimiter_DistinctClients_IndependentLimits(t *testing.T) {
	rl := testRateLimiter(t, 1, 1)

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/all-foods", nil)
	req.RemoteAddr = "10.0.0.1:50000"
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req2 := httptest.NewRequest(http.MethodGet, "/all-foods", nil)
	req2.RemoteAddr = "10.0.0.2:50000"
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, req2)

	if w2.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 for a distinct client", w2.Result().StatusCode)
	}
	if got := rl.GeneralLimiterCount(); got != 2 {
		t.Errorf("GeneralLimiterCount() = %d, want 2", got)
	}
}

// セッションidentityがある場合はリモートアドレスよりidentityを優先する
func TestRateLimiter_AuthenticatedClient_KeyedByIdentity(t *testing.T) {
	rl := testRateLimiter(t, 1, 1)

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/my-added-foods", nil)
	req.RemoteAddr = "10.0.0.1:50000"
	req = req.WithContext(ContextWithIdentity(req.Context(), "a@x.com"))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	// 同一identity・別アドレスは同じリミッターに当たる
	req2 := httptest.NewRequest(http.MethodGet, "/my-added-foods", nil)
	req2.RemoteAddr = "10.0.0.9:50000"
	req2 = req2.WithContext(ContextWithIdentity(req2.Context(), "a@x.com"))
	w2 := httptest.NewRecorder()
	handler.ServeHTTP(w2, req2)

	if w2.Result().StatusCode != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429 for same identity", w2.Result().StatusCode)
	}
}

func TestRateLimiter_OrderMiddleware_IndependentOfGeneral(t *testing.T) {
	rl := testRateLimiter(t, 1, 1)

	general := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	order := rl.OrderMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/all-foods", nil)
	req.RemoteAddr = "10.0.0.1:50000"
	general.ServeHTTP(httptest.NewRecorder(), req)

	// generalのバーストを使い切ってもorder側は通る
	req2 := httptest.NewRequest(http.MethodPut, "/order-food/f1", nil)
	req2.RemoteAddr = "10.0.0.1:50000"
	w2 := httptest.NewRecorder()
	order.ServeHTTP(w2, req2)

	if w2.Result().StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", w2.Result().StatusCode)
	}
}
