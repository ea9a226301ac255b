package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/drainstack/pkg/drainage"
	"github.com/matzehuels/drainstack/pkg/errors"
)

// Result is the serialized form of a [drainage.Result].
type Result struct {
	ID         string  `json:"id,omitempty"`
	Builder    string  `json:"builder"`
	Nodes      int     `json:"nodes"`
	Roots      []int   `json:"roots"`
	Offsets    []int   `json:"offsets"`
	Stack      []int   `json:"stack"`
	Basins     []int   `json:"basins,omitempty"`
	DurationMS float64 `json:"duration_ms"`
}

// FromResult converts a drainage result for serialization. The slices are
// shared, not copied.
func FromResult(id string, res *drainage.Result) *Result {
	return &Result{
		ID:         id,
		Builder:    res.Builder.String(),
		Nodes:      len(res.Stack),
		Roots:      res.Roots,
		Offsets:    res.Offsets,
		Stack:      res.Stack,
		Basins:     res.Basins,
		DurationMS: float64(res.Duration) / float64(time.Millisecond),
	}
}

// MarshalResult encodes a result as compact JSON.
func MarshalResult(res *Result) ([]byte, error) {
	return json.Marshal(res)
}

// WriteResult encodes a result as indented JSON.
func WriteResult(res *Result, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportResult writes a result to a JSON file at path.
func ExportResult(res *Result, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteResult(res, f)
}

// WriteNetwork encodes a network in the given format. Text output drops the
// roots.
func WriteNetwork(nw *drainage.Network, w io.Writer, format Format) error {
	switch format {
	case FormatJSON:
		if err := json.NewEncoder(w).Encode(nw); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(nw); err != nil {
			return fmt.Errorf("encode: %w", err)
		}
	case FormatText:
		buf := make([]byte, 0, 8*nw.Len())
		for i, r := range nw.Receivers {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, int64(r), 10)
		}
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
	return nil
}

// ExportNetwork writes a network to path, choosing the format from its
// extension.
func ExportNetwork(nw *drainage.Network, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteNetwork(nw, f, DetectFormat(path))
}
