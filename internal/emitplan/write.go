package emitplan

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"apisect/internal/metadata"
)

// Write encodes p as indented JSON or msgpack.
func Write(w io.Writer, p *Plan, format metadata.Format) error {
	if format == metadata.FormatMsgpack {
		return msgpack.NewEncoder(w).Encode(p)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}

// WriteFile writes p to path, or to stdout when path is empty or "-".
func WriteFile(path string, p *Plan, format metadata.Format) (err error) {
	if path == "" || path == "-" {
		return Write(os.Stdout, p, format)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return Write(f, p, format)
}

// Read decodes a plan written by Write.
func Read(r io.Reader, format metadata.Format) (*Plan, error) {
	p := new(Plan)
	var err error
	if format == metadata.FormatMsgpack {
		err = msgpack.NewDecoder(r).Decode(p)
	} else {
		err = json.NewDecoder(r).Decode(p)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}
