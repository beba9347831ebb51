// Package odata parses OData-style query options ($filter, $orderby, $top,
// $skip and $count) into a structured QueryOptions value that an API layer
// can use to build backend queries.
//
// The package does not execute queries or translate them for a particular
// backend. The $filter grammar lives in the filter subpackage.
//
// # Quick Start
//
//	opts, err := odata.Parse("$filter=age gt 25 and contains(name,'Smith')&$orderby=name desc&$top=10")
//	if err != nil {
//	    // only a malformed $filter is an error
//	    return err
//	}
//	for _, c := range opts.OrderBy {
//	    fmt.Println(c.Property, c.Direction)
//	}
//
// From a request:
//
//	opts, err := odata.ParseFromURI(r.URL)
//
// # Error Handling
//
// A malformed $filter aborts the parse: no options are returned and the
// error matches errors.Is(err, filter.ErrSyntax). Everything else is
// lenient. Unknown keys are ignored, and invalid $top, $skip or $count
// values leave the field nil. An unrecognized $orderby direction means
// ascending.
//
// # Serialization
//
// QueryOptions marshals to JSON with field names FilterRaw, Filter,
// OrderBy, Top, Skip, Count and RawQuery; each filter node carries a
// TypeName discriminator. MarshalMsgpack provides a compact binary form,
// and EncodeToken wraps it in a compressed, URL-safe string for paging
// links.
//
// # Logging
//
// Ignored options are logged at debug level to Config.Logger, or to
// slog.Default() when no logger is configured.
//
// # Concurrency
//
// Parsing is synchronous and keeps no shared mutable state. A Parser is
// safe for concurrent use.
package odata
