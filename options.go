package odata

import (
	"encoding/json"
	"net/url"
	"strconv"
	"strings"

	"github.com/hugr-lab/odata-go/filter"
)

// OrderDirection is the sort direction of an $orderby entry.
type OrderDirection string

const (
	Ascending  OrderDirection = "Ascending"
	Descending OrderDirection = "Descending"
)

// OrderByClause is one entry of $orderby.
type OrderByClause struct {
	Property  string         `json:"Property" msgpack:"property"`
	Direction OrderDirection `json:"Direction" msgpack:"direction"`
}

// QueryOptions is the parsed form of a query string.
//
// FilterRaw holds the decoded $filter text whenever the key was present,
// even if it was blank; Filter is nil for a blank $filter. OrderBy is
// never nil. Top, Skip and Count are nil when absent or invalid.
type QueryOptions struct {
	FilterRaw *string
	Filter    filter.Expression
	OrderBy   []OrderByClause
	Top       *int
	Skip      *int
	Count     *bool
	// RawQuery is the query string exactly as passed to Parse.
	RawQuery string
}

// HasFilter reports whether a filter expression was parsed.
func (o *QueryOptions) HasFilter() bool {
	return o != nil && o.Filter != nil
}

// Properties returns the distinct property paths referenced by the filter
// followed by those of $orderby, in order of first appearance.
func (o *QueryOptions) Properties() []string {
	if o == nil {
		return nil
	}
	names := filter.Properties(o.Filter)
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, c := range o.OrderBy {
		if !seen[c.Property] {
			seen[c.Property] = true
			names = append(names, c.Property)
		}
	}
	return names
}

// Functions returns the distinct function names called by the filter.
func (o *QueryOptions) Functions() []string {
	if o == nil {
		return nil
	}
	return filter.Functions(o.Filter)
}

// Encode renders the options as a canonical query string. Parsing it
// yields an equal filter tree and the same order, paging and count
// settings; FilterRaw becomes the canonical filter text.
func (o *QueryOptions) Encode() string {
	if o == nil {
		return ""
	}

	var parts []string
	add := func(key, value string) {
		parts = append(parts, key+"="+escape(value))
	}

	switch {
	case o.Filter != nil:
		add("$filter", filter.String(o.Filter))
	case o.FilterRaw != nil:
		add("$filter", *o.FilterRaw)
	}

	if len(o.OrderBy) > 0 {
		items := make([]string, 0, len(o.OrderBy))
		for _, c := range o.OrderBy {
			item := c.Property
			if c.Direction == Descending {
				item += " desc"
			}
			items = append(items, item)
		}
		add("$orderby", strings.Join(items, ","))
	}
	if o.Top != nil {
		add("$top", strconv.Itoa(*o.Top))
	}
	if o.Skip != nil {
		add("$skip", strconv.Itoa(*o.Skip))
	}
	if o.Count != nil {
		add("$count", strconv.FormatBool(*o.Count))
	}
	return strings.Join(parts, "&")
}

// escape percent-encodes a value so that path unescaping restores it;
// spaces become %20 since a literal '+' is not decoded as a space.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

type jsonOptions struct {
	FilterRaw *string         `json:"FilterRaw"`
	Filter    json.RawMessage `json:"Filter"`
	OrderBy   []OrderByClause `json:"OrderBy"`
	Top       *int            `json:"Top"`
	Skip      *int            `json:"Skip"`
	Count     *bool           `json:"Count"`
	RawQuery  string          `json:"RawQuery"`
}

// MarshalJSON writes the options with the filter tree in its JSON form.
func (o QueryOptions) MarshalJSON() ([]byte, error) {
	f := json.RawMessage("null")
	if o.Filter != nil {
		data, err := json.Marshal(o.Filter)
		if err != nil {
			return nil, err
		}
		f = data
	}

	orderBy := o.OrderBy
	if orderBy == nil {
		orderBy = []OrderByClause{}
	}

	return json.Marshal(jsonOptions{
		FilterRaw: o.FilterRaw,
		Filter:    f,
		OrderBy:   orderBy,
		Top:       o.Top,
		Skip:      o.Skip,
		Count:     o.Count,
		RawQuery:  o.RawQuery,
	})
}

// UnmarshalJSON reads options written by MarshalJSON.
func (o *QueryOptions) UnmarshalJSON(data []byte) error {
	var raw jsonOptions
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	expr, err := filter.ParseJSON(raw.Filter)
	if err != nil {
		return err
	}

	if raw.OrderBy == nil {
		raw.OrderBy = []OrderByClause{}
	}

	*o = QueryOptions{
		FilterRaw: raw.FilterRaw,
		Filter:    expr,
		OrderBy:   raw.OrderBy,
		Top:       raw.Top,
		Skip:      raw.Skip,
		Count:     raw.Count,
		RawQuery:  raw.RawQuery,
	}
	return nil
}
