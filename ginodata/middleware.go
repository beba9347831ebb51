// Package ginodata exposes parsed query options to gin handlers.
package ginodata

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/hugr-lab/odata-go"
	"github.com/hugr-lab/odata-go/internal/recovery"
)

// ContextKey is the gin context key holding *odata.QueryOptions.
const ContextKey = "odata.query"

// ParseFunc parses a raw query string.
type ParseFunc func(query string) (*odata.QueryOptions, error)

// Middleware parses the request query with p, or with odata.Parse when p
// is nil. A malformed $filter aborts the request with 400. Rejections and
// panics are logged to p.Logger().
func Middleware(p *odata.Parser) gin.HandlerFunc {
	if p == nil {
		return MiddlewareFunc(odata.Parse)
	}
	return handler(p.Parse, p.Logger)
}

// MiddlewareFunc is Middleware with an explicit parse function, logging
// to slog.Default(). The options are stored under ContextKey and in the
// request context.
func MiddlewareFunc(parse ParseFunc) gin.HandlerFunc {
	return handler(parse, slog.Default)
}

func handler(parse ParseFunc, logger func() *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := c.Request.URL.RawQuery
		log := logger()

		opts, err := recovery.Do(log, "ParseQuery", func() (*odata.QueryOptions, error) {
			return parse(query)
		})
		if err != nil {
			code := http.StatusInternalServerError
			if status.Code(err) == codes.InvalidArgument {
				code = http.StatusBadRequest
			}
			log.Debug("Query options rejected", "query", query, "error", err)
			c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
			return
		}

		c.Set(ContextKey, opts)
		c.Request = c.Request.WithContext(odata.NewContext(c.Request.Context(), opts))
		c.Next()
	}
}

// QueryOptions returns the options stored by the middleware, or nil.
func QueryOptions(c *gin.Context) *odata.QueryOptions {
	v, ok := c.Get(ContextKey)
	if !ok {
		return nil
	}
	opts, _ := v.(*odata.QueryOptions)
	return opts
}
