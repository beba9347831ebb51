package odata

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugr-lab/odata-go/filter"
)

func TestQueryOptionsJSON(t *testing.T) {
	query := "$filter=status eq 'active'&$orderby=createdDate desc&$top=20&$skip=0"
	opts, err := Parse(query)
	require.NoError(t, err)

	data, err := json.Marshal(opts)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"FilterRaw": "status eq 'active'",
		"Filter": {
			"Left": {"PropertyName": "status", "TypeName": "PropertyExpression"},
			"Operator": "Equal",
			"Right": {"Value": "active", "Type": "String", "ValueType": "String", "TypeName": "LiteralExpression"},
			"TypeName": "BinaryExpression"
		},
		"OrderBy": [{"Property": "createdDate", "Direction": "Descending"}],
		"Top": 20,
		"Skip": 0,
		"Count": null,
		"RawQuery": "$filter=status eq 'active'&$orderby=createdDate desc&$top=20&$skip=0"
	}`, string(data))

	var back QueryOptions
	require.NoError(t, json.Unmarshal(data, &back))
	assertOptionsEqual(t, opts, &back)
}

func TestQueryOptionsJSONEmpty(t *testing.T) {
	data, err := json.Marshal(QueryOptions{})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"FilterRaw": null,
		"Filter": null,
		"OrderBy": [],
		"Top": null,
		"Skip": null,
		"Count": null,
		"RawQuery": ""
	}`, string(data))

	var back QueryOptions
	require.NoError(t, json.Unmarshal([]byte(`{"RawQuery": "x"}`), &back))
	assert.NotNil(t, back.OrderBy)
	assert.Nil(t, back.Filter)
	assert.Equal(t, "x", back.RawQuery)

	err = json.Unmarshal([]byte(`{"Filter": {"TypeName": "Nope"}}`), &back)
	assert.Error(t, err)
}

func TestQueryOptionsHelpers(t *testing.T) {
	opts, err := Parse("$filter=a eq 1 and contains(b, 'x') or length(a) gt 2&$orderby=b,c desc")
	require.NoError(t, err)

	assert.True(t, opts.HasFilter())
	assert.Equal(t, []string{"a", "b", "c"}, opts.Properties())
	assert.Equal(t, []string{"contains", "length"}, opts.Functions())

	empty, err := Parse("$top=1")
	require.NoError(t, err)
	assert.False(t, empty.HasFilter())
	assert.Empty(t, empty.Properties())

	var none *QueryOptions
	assert.False(t, none.HasFilter())
	assert.Nil(t, none.Properties())
	assert.Equal(t, "", none.Encode())
}

func TestQueryOptionsEncode(t *testing.T) {
	opts := &QueryOptions{
		Filter:  filter.NewBinary(filter.NewProperty("a"), filter.OpEqual, filter.NewStringLiteral("x y")),
		OrderBy: []OrderByClause{{Property: "name", Direction: Descending}, {Property: "id", Direction: Ascending}},
		Top:     intPtr(10),
		Count:   boolPtr(true),
	}
	assert.Equal(t,
		"$filter=%28a%20eq%20%27x%20y%27%29&$orderby=name%20desc%2Cid&$top=10&$count=true",
		opts.Encode())

	blank := &QueryOptions{FilterRaw: strPtr(""), Skip: intPtr(0)}
	assert.Equal(t, "$filter=&$skip=0", blank.Encode())
}

func TestQueryOptionsEncodeRoundTrip(t *testing.T) {
	for _, query := range []string{
		"$filter=age gt 25",
		"$filter=status eq 'active'&$orderby=createdDate desc&$top=20&$skip=0",
		"$filter=name eq 'O\\'Brien %26 Sons' or price le 1.5M&$count=false",
		"$orderby=lastName, firstName desc&$top=50&$skip=100&$count=true",
		"$filter=d ge 2025-02-03T12:05:01Z and not contains(tolower(n), '+%=')",
		"",
	} {
		t.Run(query, func(t *testing.T) {
			first, err := Parse(query)
			require.NoError(t, err)

			second, err := Parse(first.Encode())
			require.NoError(t, err)

			assert.True(t, filter.Equal(first.Filter, second.Filter), "filter: %s vs %s", filter.String(first.Filter), filter.String(second.Filter))
			assert.Equal(t, first.OrderBy, second.OrderBy)
			assert.Equal(t, first.Top, second.Top)
			assert.Equal(t, first.Skip, second.Skip)
			assert.Equal(t, first.Count, second.Count)
			assert.Equal(t, first.Encode(), second.Encode())
		})
	}
}
