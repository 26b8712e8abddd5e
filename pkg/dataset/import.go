package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	perrors "github.com/matzehuels/parsets/pkg/errors"
)

// ReadOption configures the text readers.
type ReadOption func(*readConfig)

type readConfig struct {
	inferNumbers bool
	comma        rune
}

// WithNumberInference turns numeric CSV cells into numbers. Without it every
// CSV cell is a string. JSON input is typed already and ignores this option.
func WithNumberInference() ReadOption {
	return func(c *readConfig) { c.inferNumbers = true }
}

// WithComma sets the CSV field delimiter (default ',').
func WithComma(r rune) ReadOption {
	return func(c *readConfig) { c.comma = r }
}

func newReadConfig(opts []ReadOption) readConfig {
	c := readConfig{comma: ','}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// ReadCSV decodes CSV with a header row. Header cells become dimension names.
//
// Rows may be ragged: trailing cells absent from a row read as missing values,
// and cells beyond the header are ignored. An input with only a header yields
// an empty dataset.
func ReadCSV(r io.Reader, opts ...ReadOption) (Dataset, error) {
	cfg := newReadConfig(opts)

	cr := csv.NewReader(r)
	cr.Comma = cfg.comma
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = false

	header, err := cr.Read()
	if err == io.EOF {
		return Dataset{}, nil
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidDataset, err, "read csv header")
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	out := Dataset{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidDataset, err, "read csv line %d", line)
		}
		row := make(Datum, len(header))
		for i, name := range header {
			if i >= len(rec) {
				break
			}
			row[name] = ParseValue(rec[i], cfg.inferNumbers)
		}
		out = append(out, row)
	}
	return out, nil
}

// ReadJSON decodes a JSON array of flat objects:
//
//	[
//	  {"Class": "First", "Age": "Adult", "Survived": "Yes"},
//	  {"Class": "Crew", "Age": "Adult", "Survived": "No"}
//	]
//
// String members become string values, numbers become numbers, booleans
// become "true"/"false" and null becomes missing. Nested values are rejected.
func ReadJSON(r io.Reader) (Dataset, error) {
	var out Dataset
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidDataset, err, "decode json rows")
	}
	if out == nil {
		out = Dataset{}
	}
	return out, nil
}

// ReadNDJSON decodes newline-delimited JSON, one flat object per line.
// Blank lines are skipped.
func ReadNDJSON(r io.Reader) (Dataset, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)

	out := Dataset{}
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var row Datum
		if err := json.Unmarshal([]byte(text), &row); err != nil {
			return nil, perrors.Wrap(perrors.ErrCodeInvalidDataset, err, "decode line %d", line)
		}
		out = append(out, row)
	}
	if err := sc.Err(); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidDataset, err, "scan ndjson")
	}
	return out, nil
}

// ImportFile reads the dataset at path, choosing the decoder by extension:
// .csv, .tsv, .json, .ndjson and .jsonl are supported.
func ImportFile(path string, opts ...ReadOption) (Dataset, error) {
	if err := perrors.ValidatePath(path); err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".csv", ".tsv", ".json", ".ndjson", ".jsonl":
	default:
		return nil, perrors.New(perrors.ErrCodeInvalidFormat, "unsupported dataset extension %q (want .csv, .tsv, .json, .ndjson or .jsonl)", ext)
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	switch ext {
	case ".csv":
		return ReadCSV(f, opts...)
	case ".tsv":
		return ReadCSV(f, append([]ReadOption{WithComma('\t')}, opts...)...)
	case ".json":
		return ReadJSON(f)
	default:
		return ReadNDJSON(f)
	}
}
