package middleware

import (
	"net/http"
	"net/http/httptest"
	"sekarnet/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newLimitedApp(t *testing.T) (*gin.Engine, *miniredis.Miniredis, *RateLimiter) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	limiter := NewRateLimiter(rdb)
	app := gin.New()
	app.Use(limiter.Middleware())
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	app.POST("/api/auth/register", ok)
	app.POST("/api/auth/login", ok)
	app.GET("/api/bills", ok)
	return app, mr, limiter
}

func hit(app *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

func TestFixedWindowLimit(t *testing.T) {
	app, mr, _ := newLimitedApp(t)

	for i := 0; i < 5; i++ {
		rec := hit(app, http.MethodPost, "/api/auth/register")
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
		if i == 0 && rec.Header().Get("X-RateLimit-Limit") != "5" {
			t.Fatalf("missing limit header: %v", rec.Header())
		}
	}
	if rec := hit(app, http.MethodPost, "/api/auth/register"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	mr.FastForward(time.Hour + time.Second)
	if rec := hit(app, http.MethodPost, "/api/auth/register"); rec.Code != http.StatusOK {
		t.Fatalf("window should reset, got %d", rec.Code)
	}
}

func TestSlidingWindowLimit(t *testing.T) {
	app, _, limiter := newLimitedApp(t)
	now := time.Now()
	limiter.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		now = now.Add(time.Millisecond)
		if rec := hit(app, http.MethodPost, "/api/auth/login"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i+1, rec.Code)
		}
	}
	if rec := hit(app, http.MethodPost, "/api/auth/login"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	now = now.Add(16 * time.Minute)
	if rec := hit(app, http.MethodPost, "/api/auth/login"); rec.Code != http.StatusOK {
		t.Fatalf("old entries should slide out, got %d", rec.Code)
	}
}

func TestUnlimitedReadsAndNilLimiter(t *testing.T) {
	app, _, _ := newLimitedApp(t)
	for i := 0; i < 20; i++ {
		if rec := hit(app, http.MethodGet, "/api/bills"); rec.Code != http.StatusOK {
			t.Fatalf("reads have no route rule, got %d", rec.Code)
		}
	}

	var nilLimiter *RateLimiter
	plain := gin.New()
	plain.Use(nilLimiter.Middleware())
	plain.POST("/api/auth/register", func(c *gin.Context) { c.Status(http.StatusOK) })
	if rec := hit(plain, http.MethodPost, "/api/auth/register"); rec.Code != http.StatusOK {
		t.Fatalf("nil limiter must pass through, got %d", rec.Code)
	}
}

func TestRequireAction(t *testing.T) {
	app := gin.New()
	withActor := func(role string) gin.HandlerFunc {
		return func(c *gin.Context) {
			if role != "" {
				c.Set(domain.ActorContextKey, domain.Actor{ID: 1, Role: role})
			}
			c.Next()
		}
	}
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	app.GET("/anon", withActor(""), RequireAction(domain.ActionUserManage), ok)
	app.GET("/customer", withActor(domain.RoleCustomer), RequireAction(domain.ActionUserManage), ok)
	app.GET("/admin", withActor(domain.RoleAdmin), RequireAction(domain.ActionUserManage), ok)

	cases := map[string]int{
		"/anon":     http.StatusUnauthorized,
		"/customer": http.StatusForbidden,
		"/admin":    http.StatusOK,
	}
	for path, want := range cases {
		if rec := hit(app, http.MethodGet, path); rec.Code != want {
			t.Fatalf("%s: expected %d, got %d", path, want, rec.Code)
		}
	}
}
