package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/gig-marketplace/internal/config"
)

func newContext(method, target string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.1")
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}, "X-Extra": {"a", "b"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload([]byte{0, 0})
	assert.False(t, ok)
	_, _, _, ok = decodePayload([]byte{0, 0, 0, 200, 0, 0, 1, 0})
	assert.False(t, ok)
}

func TestCacheKeyIsScopedAndStable(t *testing.T) {
	cfg := config.CacheConfig{Prefix: "cache"}

	c1, _ := newContext(http.MethodGet, "/tasks/1")
	c1.SetPath("/tasks/:id")
	c2, _ := newContext(http.MethodGet, "/tasks/2")
	c2.SetPath("/tasks/:id")
	c3, _ := newContext(http.MethodGet, "/tasks/1")
	c3.SetPath("/tasks/:id")

	k1 := cacheKeyFrom(cfg, "tasks", c1)
	assert.True(t, strings.HasPrefix(k1, "cache:tasks:"))
	assert.NotEqual(t, k1, cacheKeyFrom(cfg, "tasks", c2))
	assert.Equal(t, k1, cacheKeyFrom(cfg, "tasks", c3))
	assert.NotEqual(t, k1, cacheKeyFrom(cfg, "companies", c3))
}

func TestCaptureWriterHonoursLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 4}
	_, err := cw.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = cw.Write([]byte("def"))
	require.NoError(t, err)
	assert.Equal(t, "abcd", cw.buf.String())
	assert.Equal(t, int64(6), cw.size)
	assert.Equal(t, "abcdef", rec.Body.String())
}

func TestDisabledMiddlewarePassThrough(t *testing.T) {
	called := 0
	next := func(c echo.Context) error { called++; return c.NoContent(http.StatusNoContent) }
	for _, mw := range []echo.MiddlewareFunc{
		NewRedisCache(config.CacheConfig{Enabled: true}, nil, "tasks"),
		InvalidateCache(config.CacheConfig{Enabled: true}, nil, "tasks"),
		NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil),
	} {
		c, rec := newContext(http.MethodGet, "/tasks")
		require.NoError(t, mw(next)(c))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
	assert.Equal(t, 3, called)
}

func TestBuildRateKey(t *testing.T) {
	c, _ := newContext(http.MethodPatch, "/users/u1/toggle-online")
	c.SetPath("/users/:id/toggle-online")
	c.SetParamNames("id")
	c.SetParamValues("u1")

	tests := []struct {
		strategy string
		want     string
	}{
		{"ip", "rl:ip:10.0.0.1"},
		{"route", "rl:route:PATCH /users/:id/toggle-online"},
		{"ip_route", "rl:ip:10.0.0.1:route:PATCH /users/:id/toggle-online"},
		{"ip_user_route", "rl:ip:10.0.0.1:user:u1:route:PATCH /users/:id/toggle-online"},
		{"bogus", "rl:ip:10.0.0.1:route:PATCH /users/:id/toggle-online"},
	}
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: tt.strategy}
			assert.Equal(t, tt.want, buildRateKey(cfg, c))
		})
	}

	other, _ := newContext(http.MethodPost, "/payments")
	other.SetPath("/payments")
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "ip_user_route"}
	assert.Equal(t, "rl:ip:10.0.0.1:user:anon:route:POST /payments", buildRateKey(cfg, other))
}

func TestParseScriptResult(t *testing.T) {
	allowed, remaining, retry, ok := parseScriptResult([]interface{}{int64(1), int64(4), int64(0)})
	require.True(t, ok)
	assert.True(t, allowed)
	assert.Equal(t, int64(4), remaining)
	assert.Equal(t, int64(0), retry)

	allowed, _, retry, ok = parseScriptResult([]interface{}{"0", "0", "1500"})
	require.True(t, ok)
	assert.False(t, allowed)
	assert.Equal(t, int64(1500), retry)
	assert.Equal(t, 2, retryAfterSeconds(retry))

	_, _, _, ok = parseScriptResult("nope")
	assert.False(t, ok)
	assert.Equal(t, 0, retryAfterSeconds(-10))
	assert.Equal(t, int64(0), asInt64(struct{}{}))
}

func TestErrorHandler(t *testing.T) {
	decode := func(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
		var m map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
		return m
	}

	t.Run("route not found", func(t *testing.T) {
		for _, err := range []error{echo.ErrNotFound, echo.ErrMethodNotAllowed} {
			c, rec := newContext(http.MethodGet, "/nope")
			ErrorHandler(err, c)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Equal(t, "Route not found", decode(t, rec)["error"])
		}
	})

	t.Run("client error keeps message", func(t *testing.T) {
		c, rec := newContext(http.MethodPost, "/users")
		ErrorHandler(echo.NewHTTPError(http.StatusRequestEntityTooLarge, "body too large"), c)
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		assert.Equal(t, "body too large", decode(t, rec)["error"])
	})

	t.Run("internal error is generic", func(t *testing.T) {
		c, rec := newContext(http.MethodGet, "/users")
		c.Response().Header().Set(echo.HeaderXRequestID, "req-1")
		ErrorHandler(errors.New("dial tcp 10.1.1.1:3306: i/o timeout"), c)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decode(t, rec)
		assert.Equal(t, "Internal server error", body["error"])
		assert.Equal(t, "req-1", body["request_id"])
		assert.NotContains(t, rec.Body.String(), "3306")
	})

	t.Run("head has no body", func(t *testing.T) {
		c, rec := newContext(http.MethodHead, "/nope")
		ErrorHandler(echo.ErrNotFound, c)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Empty(t, rec.Body.String())
	})
}
