package odata

import (
	"bytes"
	"encoding/base64"
	"testing"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hugr-lab/odata-go/internal/msgpack"
	"github.com/hugr-lab/odata-go/internal/serialize"
)

var codecQueries = []string{
	"$filter=age gt 25",
	"$filter=status eq 'active'&$orderby=createdDate desc&$top=20&$skip=0",
	"$filter=n eq 1L or u eq 1UL or f eq 0.1f or d eq 0.1d or m eq -1.42M&$count=true",
	"$filter=created ge 2025-02-03T12:05:01.42Z and deleted eq null and ok eq true",
	"$filter=concat(trim(a), 'x') ne ''&$orderby=a,b desc",
	"$filter=",
	"",
}

func TestMsgpackRoundTrip(t *testing.T) {
	for _, query := range codecQueries {
		t.Run(query, func(t *testing.T) {
			opts, err := Parse(query)
			require.NoError(t, err)

			data, err := msgpack.Encode(opts)
			require.NoError(t, err)

			var back QueryOptions
			require.NoError(t, msgpack.Decode(data, &back))
			assertOptionsEqual(t, opts, &back)
		})
	}
}

func TestMsgpackWireKeys(t *testing.T) {
	opts, err := Parse("$filter=a eq 1&$top=3")
	require.NoError(t, err)

	data, err := opts.MarshalMsgpack()
	require.NoError(t, err)

	m, err := msgpack.DecodeMap(data)
	require.NoError(t, err)
	assert.Contains(t, m, "filter")
	assert.Contains(t, m, "order_by")
	assert.Contains(t, m, "raw_query")

	f, ok := m["filter"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "BinaryExpression", f["kind"])
	assert.Equal(t, "Equal", f["operator"])
}

func TestMsgpackDecodeErrors(t *testing.T) {
	var opts QueryOptions
	assert.Error(t, opts.UnmarshalMsgpack(nil))

	bad, err := msgpack.Encode(map[string]any{
		"filter": map[string]any{"kind": "BinaryExpression", "operator": "Xor"},
	})
	require.NoError(t, err)
	assert.Error(t, opts.UnmarshalMsgpack(bad))
}

func TestTokenRoundTrip(t *testing.T) {
	for _, query := range codecQueries {
		t.Run(query, func(t *testing.T) {
			opts, err := Parse(query)
			require.NoError(t, err)

			token, err := EncodeToken(opts)
			require.NoError(t, err)
			assert.NotContains(t, token, "=")
			assert.NotContains(t, token, "+")
			assert.NotContains(t, token, "/")

			back, err := DecodeToken(token)
			require.NoError(t, err)
			assertOptionsEqual(t, opts, back)
		})
	}

	_, err := EncodeToken(nil)
	assert.Error(t, err)
}

func TestDecodeTokenInvalid(t *testing.T) {
	c, err := serialize.Shared()
	require.NoError(t, err)

	notMsgpack, err := c.Compress([]byte("plain text, not options"))
	require.NoError(t, err)

	enc, err := zstd.NewWriter(nil)
	require.NoError(t, err)
	defer enc.Close()
	huge := enc.EncodeAll(bytes.Repeat([]byte{0x90}, 2*serialize.MaxDecodedSize), nil)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"bad base64", "!!!"},
		{"not zstd", base64.RawURLEncoding.EncodeToString([]byte("hello"))},
		{"not options", base64.RawURLEncoding.EncodeToString(notMsgpack)},
		{"too large", base64.RawURLEncoding.EncodeToString(huge)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := DecodeToken(tt.token)
			require.Error(t, err)
			assert.Nil(t, opts)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
