package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/drainstack/pkg/drainage"
	"github.com/matzehuels/drainstack/pkg/errors"
)

// Format is a network file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatText Format = "text"
)

// DetectFormat picks a format from the file extension. Unknown extensions are
// read as text.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".toml":
		return FormatTOML
	}
	return FormatText
}

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatTOML, FormatText:
		return f, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: json, toml, text)", s)
}

// ReadNetwork decodes a network from r.
//
// Only the encoding is checked here; receiver ranges and topology are
// validated by [drainage.Order]. An empty receiver list is rejected.
// ReadNetwork does not close r.
func ReadNetwork(r io.Reader, format Format) (*drainage.Network, error) {
	var nw drainage.Network
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&nw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode json")
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&nw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode toml")
		}
	case FormatText:
		receivers, err := readText(r)
		if err != nil {
			return nil, err
		}
		nw.Receivers = receivers
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}

	if err := errors.ValidateNodeCount(nw.Len(), 0); err != nil {
		return nil, err
	}
	return &nw, nil
}

func readText(r io.Reader) ([]int, error) {
	var receivers []int
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := sc.Text()
		if i := strings.IndexByte(text, '#'); i >= 0 {
			text = text[:i]
		}
		for _, field := range strings.Fields(text) {
			v, err := strconv.Atoi(field)
			if err != nil {
				return nil, errors.New(errors.ErrCodeInvalidFormat, "line %d: invalid receiver %q", line, field)
			}
			receivers = append(receivers, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return receivers, nil
}

// ImportNetwork reads the network file at path, choosing the format from its
// extension. Errors are wrapped with the path.
func ImportNetwork(path string) (*drainage.Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	nw, err := ReadNetwork(f, DetectFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return nw, nil
}

// ReadResult decodes a JSON result, as written by [WriteResult].
func ReadResult(r io.Reader) (*Result, error) {
	var res Result
	if err := json.NewDecoder(r).Decode(&res); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode result")
	}
	return &res, nil
}

// ImportResult reads a JSON result file.
func ImportResult(path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadResult(f)
}
