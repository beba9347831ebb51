package odata

import (
	"encoding/base64"

	"tlog.app/go/errors"

	"github.com/hugr-lab/odata-go/filter"
	"github.com/hugr-lab/odata-go/internal/msgpack"
	"github.com/hugr-lab/odata-go/internal/serialize"
)

// wireOptions is the MessagePack form of QueryOptions. The filter travels
// as a flat node tree since msgpack cannot decode interface values.
type wireOptions struct {
	FilterRaw *string         `msgpack:"filter_raw"`
	Filter    *filter.Node    `msgpack:"filter"`
	OrderBy   []OrderByClause `msgpack:"order_by"`
	Top       *int            `msgpack:"top"`
	Skip      *int            `msgpack:"skip"`
	Count     *bool           `msgpack:"count"`
	RawQuery  string          `msgpack:"raw_query"`
}

// MarshalMsgpack implements msgpack.Marshaler.
func (o *QueryOptions) MarshalMsgpack() ([]byte, error) {
	return msgpack.Encode(wireOptions{
		FilterRaw: o.FilterRaw,
		Filter:    filter.NodeOf(o.Filter),
		OrderBy:   o.OrderBy,
		Top:       o.Top,
		Skip:      o.Skip,
		Count:     o.Count,
		RawQuery:  o.RawQuery,
	})
}

// UnmarshalMsgpack implements msgpack.Unmarshaler.
func (o *QueryOptions) UnmarshalMsgpack(data []byte) error {
	var w wireOptions
	if err := msgpack.Decode(data, &w); err != nil {
		return err
	}

	expr, err := w.Filter.Expression()
	if err != nil {
		return errors.Wrap(err, "decode filter")
	}

	if w.OrderBy == nil {
		w.OrderBy = []OrderByClause{}
	}

	*o = QueryOptions{
		FilterRaw: w.FilterRaw,
		Filter:    expr,
		OrderBy:   w.OrderBy,
		Top:       w.Top,
		Skip:      w.Skip,
		Count:     w.Count,
		RawQuery:  w.RawQuery,
	}
	return nil
}

// ErrInvalidToken is returned by DecodeToken for text that is not a
// token produced by EncodeToken.
var ErrInvalidToken = errors.New("invalid query token")

// EncodeToken packs opts into an opaque URL-safe string, suitable for
// carrying query state in next-page links.
func EncodeToken(opts *QueryOptions) (string, error) {
	if opts == nil {
		return "", errors.New("nil query options")
	}

	c, err := serialize.Shared()
	if err != nil {
		return "", err
	}

	data, err := opts.MarshalMsgpack()
	if err != nil {
		return "", errors.Wrap(err, "encode options")
	}

	compressed, err := c.Compress(data)
	if err != nil {
		return "", errors.Wrap(err, "compress options")
	}

	return base64.RawURLEncoding.EncodeToString(compressed), nil
}

// DecodeToken restores options from a token made by EncodeToken.
func DecodeToken(token string) (*QueryOptions, error) {
	c, err := serialize.Shared()
	if err != nil {
		return nil, err
	}

	compressed, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil || len(compressed) == 0 {
		return nil, ErrInvalidToken
	}

	data, err := c.Decompress(compressed)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidToken, "%v", err)
	}

	var opts QueryOptions
	if err := opts.UnmarshalMsgpack(data); err != nil {
		return nil, errors.Wrap(ErrInvalidToken, "%v", err)
	}
	return &opts, nil
}
