package metadata

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"
)

// Format selects the on-disk encoding of a document.
type Format uint8

const (
	FormatJSON Format = iota
	FormatMsgpack
)

func (f Format) String() string {
	if f == FormatMsgpack {
		return "msgpack"
	}
	return "json"
}

// ParseFormat accepts "json", "msgpack" and "mp".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	}
	return FormatJSON, fmt.Errorf("unknown format %q (want json or msgpack)", s)
}

// DetectFormat picks the encoding from the file extension; anything that
// is not .msgpack or .mp is read as JSON.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".msgpack", ".mp":
		return FormatMsgpack
	}
	return FormatJSON
}

// Decode parses data and normalizes primitive attribute values to bool,
// int64, float64 or string, whatever the encoding produced.
func Decode(data []byte, format Format) (*Document, error) {
	doc := new(Document)
	switch format {
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, doc); err != nil {
			return nil, err
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(doc); err != nil {
			return nil, err
		}
	}
	if doc.Schema > SchemaVersion {
		return nil, fmt.Errorf("schema %d is newer than supported %d", doc.Schema, SchemaVersion)
	}
	if err := doc.normalize(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Encode writes doc; JSON output is indented.
func Encode(w io.Writer, doc *Document, format Format) error {
	if format == FormatMsgpack {
		return msgpack.NewEncoder(w).Encode(doc)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

func (d *Document) normalize() error {
	var err error
	visitAttrs := func(attrs []*AttrDoc) {
		for _, a := range attrs {
			if a == nil || err != nil {
				continue
			}
			for _, v := range a.Args {
				err = errors.Join(err, v.normalize())
			}
			for _, n := range a.Named {
				if n != nil {
					err = errors.Join(err, n.Value.normalize())
				}
			}
		}
	}
	var visit func(t *TypeDoc)
	visit = func(t *TypeDoc) {
		if t == nil {
			return
		}
		visitAttrs(t.Attributes)
		for _, m := range t.Methods {
			if m == nil {
				continue
			}
			visitAttrs(m.Attributes)
			visitAttrs(m.ReturnAttributes)
			for _, p := range m.Params {
				if p != nil {
					visitAttrs(p.Attributes)
				}
			}
		}
		for _, f := range t.Fields {
			if f != nil {
				visitAttrs(f.Attributes)
			}
		}
		for _, p := range t.Properties {
			if p != nil {
				visitAttrs(p.Attributes)
			}
		}
		for _, e := range t.Events {
			if e != nil {
				visitAttrs(e.Attributes)
			}
		}
		for _, n := range t.Nested {
			visit(n)
		}
	}
	for _, t := range d.Types {
		visit(t)
	}
	return err
}

func (v *ValueDoc) normalize() error {
	if v == nil {
		return nil
	}
	for _, e := range v.Elems {
		if err := e.normalize(); err != nil {
			return err
		}
	}
	prim, err := normalizePrim(v.Value)
	if err != nil {
		return err
	}
	v.Value = prim
	return nil
}

func normalizePrim(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, int64, float64:
		return x, nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, nil
		}
		return x.Float64()
	case int:
		return int64(x), nil
	case int8:
		return int64(x), nil
	case int16:
		return int64(x), nil
	case int32:
		return int64(x), nil
	case uint:
		return safecast.Conv[int64](x)
	case uint8:
		return int64(x), nil
	case uint16:
		return int64(x), nil
	case uint32:
		return int64(x), nil
	case uint64:
		if x > math.MaxInt64 {
			// ulong values above MaxInt64 degrade to float64
			return float64(x), nil
		}
		return safecast.Conv[int64](x)
	case float32:
		return float64(x), nil
	}
	return nil, fmt.Errorf("unsupported attribute value of type %T", v)
}
