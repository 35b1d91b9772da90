package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareRecordsStatus(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/api/items/:id", func(c echo.Context) error {
		if c.Param("id") == "missing" {
			return echo.NewHTTPError(http.StatusNotFound, "Item not found with this ID")
		}
		return c.JSON(http.StatusOK, map[string]string{"id": c.Param("id")})
	})

	for _, id := range []string{"a", "b", "missing"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/items/"+id, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/items/:id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/items/:id", "404")))
}

func TestMiddlewareRendersPlainErrors(t *testing.T) {
	m := New()
	e := echo.New()
	e.Use(m.Middleware())
	e.GET("/boom", func(c echo.Context) error { return errors.New("boom") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/boom", "500")))
}

func TestMiddlewarePassesErrorsOutward(t *testing.T) {
	m := New()
	e := echo.New()
	var seen error
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			seen = next(c)
			return seen
		}
	})
	e.Use(m.Middleware())
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "gone")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	require.Error(t, seen)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "gone")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/missing", "404")))
}

func TestAuthEvents(t *testing.T) {
	m := New()
	m.AuthEvent("signin", nil)
	m.AuthEvent("signin", errors.New("bad password"))
	m.AuthEvent("signin", errors.New("bad password"))
	m.CodeSent("verification", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthEvents.WithLabelValues("signin", OutcomeSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthEvents.WithLabelValues("signin", OutcomeFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CodesSent.WithLabelValues("verification", OutcomeSuccess)))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() {
		nilMetrics.AuthEvent("signin", nil)
		nilMetrics.CodeSent("verification", nil)
	})
}

func TestHandlerExposesCounters(t *testing.T) {
	m := New()
	m.AuthEvent("signup", nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `gursha_auth_events_total{operation="signup",outcome="success"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
