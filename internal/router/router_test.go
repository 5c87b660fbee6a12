package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/gig-marketplace/internal/config"
	"github.com/iliyamo/gig-marketplace/internal/database/dbtest"
	"github.com/iliyamo/gig-marketplace/internal/events"
	"github.com/iliyamo/gig-marketplace/internal/handler"
	"github.com/iliyamo/gig-marketplace/internal/registration"
	"github.com/iliyamo/gig-marketplace/internal/router"
)

type api struct {
	t *testing.T
	e *echo.Echo
	h *handler.Handler
}

func newAPI(t *testing.T, rl config.RateLimitConfig) *api {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	h := handler.New(dbtest.Open(t), &events.Recorder{})
	e := router.New(h, router.Deps{
		Redis: rdb,
		Cache: config.CacheConfig{
			Enabled:      true,
			Methods:      map[string]bool{http.MethodGet: true},
			TTL:          time.Minute,
			Prefix:       "cache",
			MaxBodyBytes: 1 << 20,
		},
		RateLimit: rl,
	})
	return &api{t: t, e: e, h: h}
}

func (a *api) do(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, path, nil)
	} else {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(raw))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req.Header.Set(echo.HeaderXRealIP, "10.1.1.1")
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

// get returns the X-Cache header and the decoded body of a GET.
func (a *api) get(path string) (string, any) {
	a.t.Helper()
	rec := a.do(http.MethodGet, path, nil)
	require.Equal(a.t, http.StatusOK, rec.Code, rec.Body.String())
	var v any
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &v))
	return rec.Header().Get("X-Cache"), v
}

func (a *api) created(path string, body map[string]any) string {
	a.t.Helper()
	rec := a.do(http.MethodPost, path, body)
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())
	var m map[string]any
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m["id"].(string)
}

func taskBody(companyID string) map[string]any {
	return map[string]any{
		"company_id": companyID, "title": "Night shift packing", "job_role": "packer", "offered_amount": 650,
		"location": "Chennai", "location_coordinate": []float64{13.08, 80.27}, "required_number_of_workers": 2,
	}
}

func TestWritesPurgeCachedCatalogReads(t *testing.T) {
	a := newAPI(t, config.RateLimitConfig{})
	companyID := a.created("/companies", map[string]any{
		"company_name": "Bay Freight", "contact_email": "ops@bayfreight.test", "contact_phone": "0442223333", "address": "Chennai",
	})

	state, companies := a.get("/companies")
	assert.Equal(t, "MISS", state)
	require.Len(t, companies, 1)
	state, _ = a.get("/companies")
	assert.Equal(t, "HIT", state)

	// a rejected task leaves the cache alone
	bad := taskBody(companyID)
	delete(bad, "title")
	require.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/tasks", bad).Code)
	state, _ = a.get("/companies")
	assert.Equal(t, "HIT", state)

	taskID := a.created("/tasks", taskBody(companyID))
	state, companies = a.get("/companies")
	assert.Equal(t, "MISS", state)
	tasks := companies.([]any)[0].(map[string]any)["tasks"].([]any)
	require.Len(t, tasks, 1)

	state, task := a.get("/tasks/" + taskID)
	assert.Equal(t, "MISS", state)
	assert.Empty(t, task.(map[string]any)["applications"])
	state, _ = a.get("/tasks/" + taskID)
	assert.Equal(t, "HIT", state)

	ctx := context.Background()
	u, err := a.h.Users.Create(ctx, "9100000001", nil)
	require.NoError(t, err)
	_, err = a.h.Users.AdvanceStatus(ctx, u.ID, registration.New, registration.Verified)
	require.NoError(t, err)
	online := true
	_, err = a.h.Users.SetOnline(ctx, u.ID, &online)
	require.NoError(t, err)

	a.created("/task-applications", map[string]any{"task_id": taskID, "user_id": u.ID})
	state, task = a.get("/tasks/" + taskID)
	assert.Equal(t, "MISS", state)
	assert.Len(t, task.(map[string]any)["applications"], 1)
}

func TestMutatingRoutesAreRateLimited(t *testing.T) {
	a := newAPI(t, config.RateLimitConfig{
		Enabled:        true,
		Capacity:       1,
		RefillTokens:   1,
		RefillInterval: time.Minute,
		TTL:            10 * time.Minute,
		KeyStrategy:    "ip_route",
		Prefix:         "rl",
	})
	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/users", map[string]any{"mobile_number": "9100000002"}).Code)

	rec := a.do(http.MethodPost, "/users", map[string]any{"mobile_number": "9100000003"})
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	// reads are not limited
	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, a.do(http.MethodGet, "/users", nil).Code)
	}
}
