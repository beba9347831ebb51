package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"tlog.app/go/errors"

	"github.com/hugr-lab/odata-go"
	"github.com/hugr-lab/odata-go/filter"
)

var formats = []string{"json", "msgpack", "text", "token"}

func validateFormat(f string) error {
	for _, known := range formats {
		if f == known {
			return nil
		}
	}
	return errors.New("unknown format %q, want one of %s", f, strings.Join(formats, ", "))
}

func writeOptions(w io.Writer, opts *odata.QueryOptions, format string) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(opts, "", "  ")
		if err != nil {
			return errors.Wrap(err, "marshal json")
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	case "msgpack":
		data, err := opts.MarshalMsgpack()
		if err != nil {
			return errors.Wrap(err, "marshal msgpack")
		}
		_, err = fmt.Fprintln(w, hex.EncodeToString(data))
		return err
	case "token":
		token, err := odata.EncodeToken(opts)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, token)
		return err
	case "text":
		return writeText(w, opts)
	}
	return validateFormat(format)
}

func writeText(w io.Writer, opts *odata.QueryOptions) error {
	var b strings.Builder

	if opts.Filter != nil {
		fmt.Fprintf(&b, "filter:  %s\n", filter.String(opts.Filter))
	}
	if len(opts.OrderBy) > 0 {
		items := make([]string, 0, len(opts.OrderBy))
		for _, c := range opts.OrderBy {
			items = append(items, c.Property+" "+strings.ToLower(string(c.Direction)))
		}
		fmt.Fprintf(&b, "orderby: %s\n", strings.Join(items, ", "))
	}
	if opts.Top != nil {
		fmt.Fprintf(&b, "top:     %d\n", *opts.Top)
	}
	if opts.Skip != nil {
		fmt.Fprintf(&b, "skip:    %d\n", *opts.Skip)
	}
	if opts.Count != nil {
		fmt.Fprintf(&b, "count:   %t\n", *opts.Count)
	}
	if b.Len() == 0 {
		b.WriteString("(no options)\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}
