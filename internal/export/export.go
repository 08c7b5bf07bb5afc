package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/son-changwook/routepick/internal/contract"
)

var ErrUnsupportedFormat = errors.New("unsupported export format")

// Export writes records as CSV. Columns are JSON field names; "a.b" reaches
// into nested objects. Missing values are written as empty cells.
func Export[T any](w io.Writer, records []T, opts contract.ExportOptions) error {
	if err := contract.Validate(opts); err != nil {
		return err
	}
	if opts.Format != contract.FormatCSV {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, opts.Format)
	}

	cw := csv.NewWriter(w)
	if opts.IncludeHeaders {
		if err := cw.Write(opts.Columns); err != nil {
			return err
		}
	}
	row := make([]string, len(opts.Columns))
	for i, rec := range records {
		doc, err := toDocument(rec)
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}
		for j, col := range opts.Columns {
			row[j] = cell(lookup(doc, col))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func toDocument(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("records must encode as JSON objects: %w", err)
	}
	return doc, nil
}

func lookup(doc map[string]any, path string) any {
	var cur any = doc
	for _, key := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[key]
	}
	return cur
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		if x {
			return "true"
		}
		return "false"
	}
	b, _ := json.Marshal(v)
	return string(b)
}
