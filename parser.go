package odata

import (
	"context"
	"log/slog"
	"net/url"
	"strconv"
	"strings"

	"tlog.app/go/errors"

	"github.com/hugr-lab/odata-go/filter"
	"github.com/hugr-lab/odata-go/internal/recovery"
)

// Parser builds QueryOptions from query strings.
// A Parser is immutable and safe for concurrent use.
type Parser struct {
	filter *filter.Parser
	logger *slog.Logger
}

// NewParser creates a parser from config. A nil config uses the defaults.
func NewParser(config *Config) *Parser {
	if config == nil {
		config = &Config{}
	}
	return &Parser{
		filter: filter.NewParser(config.filterOptions()),
		logger: config.logger(),
	}
}

var defaultParser = NewParser(nil)

// Parse parses a query string with the default parser.
func Parse(query string) (*QueryOptions, error) {
	return defaultParser.Parse(query)
}

// ParseFromURI parses the query component of u with the default parser.
func ParseFromURI(u *url.URL) (*QueryOptions, error) {
	return defaultParser.ParseFromURI(u)
}

// Logger returns the logger the parser reports to. Without Config.Logger
// or Config.LogLevel it is slog.Default().
func (p *Parser) Logger() *slog.Logger {
	if p.logger != nil {
		return p.logger
	}
	return slog.Default()
}

// ParseFromURI parses u.RawQuery.
func (p *Parser) ParseFromURI(u *url.URL) (*QueryOptions, error) {
	if u == nil {
		return nil, ErrNilURI
	}
	return p.Parse(u.RawQuery)
}

// Parse parses a query string such as
// "$filter=age gt 25&$orderby=name desc&$top=10".
//
// Keys are matched case-insensitively and the last occurrence of a key
// wins. Unknown keys and invalid $orderby, $top, $skip or $count values
// are ignored. Only a malformed $filter is an error, in which case no
// options are returned.
func (p *Parser) Parse(query string) (*QueryOptions, error) {
	opts := &QueryOptions{
		OrderBy:  []OrderByClause{},
		RawQuery: query,
	}

	params, order := splitQuery(query)
	for _, key := range order {
		value := params[key]
		switch key {
		case "$filter":
			opts.FilterRaw = &value
			if strings.TrimSpace(value) == "" {
				continue
			}
			expr, err := p.filter.Parse(value)
			if err != nil {
				return nil, errors.Wrap(err, "parse $filter")
			}
			opts.Filter = expr
		case "$orderby":
			opts.OrderBy = p.parseOrderBy(value)
		case "$top":
			opts.Top = p.parseCount(key, value)
		case "$skip":
			opts.Skip = p.parseCount(key, value)
		case "$count":
			opts.Count = p.parseBool(key, value)
		default:
			p.Logger().Debug("Ignoring unknown query option", "key", key)
		}
	}

	return opts, nil
}

// ParseIncoming parses the query carried in the incoming gRPC metadata
// of ctx and returns a context holding the result. Without a query in
// the metadata, ctx is returned unchanged with nil options. A panic while
// parsing is returned as a codes.Internal error.
func (p *Parser) ParseIncoming(ctx context.Context) (context.Context, *QueryOptions, error) {
	query, ok := ExtractQuery(ctx)
	if !ok {
		return ctx, nil, nil
	}

	var opts *QueryOptions
	err := recovery.Run(p.Logger(), "ParseIncoming", func() (err error) {
		opts, err = p.Parse(query)
		return err
	})
	if err != nil {
		return ctx, nil, err
	}
	return NewContext(ctx, opts), opts, nil
}

// splitQuery decodes the key/value pairs of query. Keys are lowercased;
// order lists each distinct key once, in order of first appearance.
func splitQuery(query string) (map[string]string, []string) {
	params := map[string]string{}
	var order []string

	query = strings.TrimPrefix(query, "?")
	for _, pair := range strings.Split(query, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key = strings.ToLower(unescape(key))
		if _, seen := params[key]; !seen {
			order = append(order, key)
		}
		params[key] = unescape(value)
	}
	return params, order
}

// unescape percent-decodes s, keeping '+' as is. Each valid %XX sequence
// is decoded on its own; a '%' not followed by two hex digits is kept.
func unescape(s string) string {
	if decoded, err := url.PathUnescape(s); err == nil {
		return decoded
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && i+2 < len(s) {
			hi, ok1 := unhex(s[i+1])
			lo, ok2 := unhex(s[i+2])
			if ok1 && ok2 {
				b.WriteByte(hi<<4 | lo)
				i += 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func unhex(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

func (p *Parser) parseOrderBy(value string) []OrderByClause {
	clauses := []OrderByClause{}
	for _, item := range strings.Split(value, ",") {
		fields := strings.Fields(item)
		if len(fields) == 0 {
			continue
		}

		clause := OrderByClause{Property: fields[0], Direction: Ascending}
		if len(fields) > 1 {
			switch strings.ToLower(fields[1]) {
			case "desc", "descending":
				clause.Direction = Descending
			case "asc", "ascending":
			default:
				p.Logger().Debug("Unknown $orderby direction, using ascending",
					"property", fields[0],
					"direction", fields[1],
				)
			}
		}
		clauses = append(clauses, clause)
	}
	return clauses
}

// parseCount reads a non-negative 32-bit integer. Invalid input yields nil.
func (p *Parser) parseCount(key, value string) *int {
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
	if err != nil || n < 0 {
		p.Logger().Debug("Ignoring invalid query option", "key", key, "value", value)
		return nil
	}
	v := int(n)
	return &v
}

func (p *Parser) parseBool(key, value string) *bool {
	var b bool
	switch v := strings.TrimSpace(value); {
	case strings.EqualFold(v, "true"):
		b = true
	case strings.EqualFold(v, "false"):
	default:
		p.Logger().Debug("Ignoring invalid query option", "key", key, "value", value)
		return nil
	}
	return &b
}
