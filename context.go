package odata

import (
	"context"

	"google.golang.org/grpc/metadata"
)

// QueryMetadataKey is the gRPC metadata key carrying a raw query string.
const QueryMetadataKey = "x-odata-query"

// optionsKey is the unexported context key for QueryOptions.
type optionsKey struct{}

// NewContext returns a new context with opts stored.
func NewContext(ctx context.Context, opts *QueryOptions) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

// FromContext retrieves the options if present.
// Returns (nil, false) if no options are set.
func FromContext(ctx context.Context) (*QueryOptions, bool) {
	opts, ok := ctx.Value(optionsKey{}).(*QueryOptions)
	return opts, ok && opts != nil
}

// ExtractQuery extracts the raw query from gRPC incoming metadata.
// Returns ("", false) if no query is present.
func ExtractQuery(ctx context.Context) (string, bool) {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return "", false
	}

	queries := md.Get(QueryMetadataKey)
	if len(queries) == 0 {
		return "", false
	}

	return queries[0], true
}
