package ginodata

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugr-lab/odata-go"
)

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/users", func(c *gin.Context) {
		opts := QueryOptions(c)
		fromCtx, ok := odata.FromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{
			"options":  opts,
			"same":     ok && fromCtx == opts,
			"property": opts.Properties(),
		})
	})
	return r
}

func do(r http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestMiddleware(t *testing.T) {
	r := newRouter(Middleware(nil))

	w := do(r, "/users?$filter=age%20gt%2025&$orderby=name%20desc&$top=10")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		Options  odata.QueryOptions `json:"options"`
		Same     bool               `json:"same"`
		Property []string           `json:"property"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Same)
	assert.Equal(t, []string{"age", "name"}, body.Property)
	assert.Equal(t, "age gt 25", *body.Options.FilterRaw)
	assert.True(t, body.Options.HasFilter())
	assert.Equal(t, []odata.OrderByClause{{Property: "name", Direction: odata.Descending}}, body.Options.OrderBy)
	assert.Equal(t, 10, *body.Options.Top)
}

func TestMiddlewareBadFilter(t *testing.T) {
	r := newRouter(Middleware(odata.NewParser(&odata.Config{RejectTrailingTokens: true})))

	for _, target := range []string{
		"/users?$filter=age%20gt",
		"/users?$filter=(a%20eq%201",
		"/users?$filter=a%20eq%201%20eq%202",
	} {
		t.Run(target, func(t *testing.T) {
			w := do(r, target)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Contains(t, body["error"], "$filter")
		})
	}
}

func TestMiddlewareParserLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	r := newRouter(Middleware(odata.NewParser(&odata.Config{Logger: logger})))

	w := do(r, "/users?foo=1&$filter=age%20gt")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	out := buf.String()
	assert.Contains(t, out, "Query options rejected")
	assert.Contains(t, out, "key=foo")
}

func TestMiddlewarePanic(t *testing.T) {
	r := newRouter(MiddlewareFunc(func(string) (*odata.QueryOptions, error) {
		panic("boom")
	}))

	w := do(r, "/users?$top=1")
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "ParseQuery panicked: boom")
}

func TestQueryOptionsMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Nil(t, QueryOptions(c))

	c.Set(ContextKey, "not options")
	assert.Nil(t, QueryOptions(c))
}
