package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/mitteie/internal/filex"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Encoding selects the document format and optional zstd compression.
type Encoding struct {
	Format   Format
	Compress bool
}

// Ext is the file extension for e, including the leading dot.
func (e Encoding) Ext() string {
	ext := "." + string(e.Format)
	if e.Compress {
		ext += ".zst"
	}
	return ext
}

// ContentType is the MIME type of the encoded document.
func (e Encoding) ContentType() string {
	if e.Compress {
		return "application/zstd"
	}
	if e.Format == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// EncodingFor derives the encoding from a file name: .json or .yaml/.yml,
// optionally followed by .zst.
func EncodingFor(path string) (Encoding, error) {
	name := strings.ToLower(filepath.Base(path))
	var e Encoding
	if strings.HasSuffix(name, ".zst") {
		e.Compress = true
		name = strings.TrimSuffix(name, ".zst")
	}
	switch filepath.Ext(name) {
	case ".json":
		e.Format = FormatJSON
	case ".yaml", ".yml":
		e.Format = FormatYAML
	default:
		return Encoding{}, fmt.Errorf("unsupported export file %q: use .json, .yaml or .yml, optionally with .zst", path)
	}
	return e, nil
}

// Encode writes snap to w.
func Encode(w io.Writer, snap *Snapshot, e Encoding) (err error) {
	out := w
	if e.Compress {
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := zw.Close(); err == nil {
				err = cerr
			}
		}()
		out = zw
	}

	switch e.Format {
	case FormatYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(snap); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON, "":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return fmt.Errorf("unknown format %q", e.Format)
}

// Bytes encodes snap into memory.
func Bytes(snap *Snapshot, e Encoding) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, snap, e); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes snap into path, choosing the encoding from its name.
// The file is written next to its final place and renamed over it.
func WriteFile(path string, snap *Snapshot) error {
	e, err := EncodingFor(path)
	if err != nil {
		return err
	}
	if err := filex.EnsureParentDir(path); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".export-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, snap, e); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Decode reads a snapshot written by Encode.
func Decode(r io.Reader, e Encoding) (*Snapshot, error) {
	in := r
	if e.Compress {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		in = zr
	}
	var snap Snapshot
	switch e.Format {
	case FormatYAML:
		if err := yaml.NewDecoder(in).Decode(&snap); err != nil {
			return nil, err
		}
	default:
		if err := json.NewDecoder(in).Decode(&snap); err != nil {
			return nil, err
		}
	}
	return &snap, nil
}
