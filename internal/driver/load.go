// Package driver loads program documents and caches the IR generated for them.
package driver

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/ywhdzrb/Cavvy-sub000/internal/ast"
)

// Format is the encoding of a program document.
type Format uint8

const (
	FormatJSON Format = iota + 1
	FormatMsgpack
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatMsgpack:
		return "msgpack"
	default:
		return "unknown"
	}
}

// FormatOf picks the format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".msgpack", ".mp":
		return FormatMsgpack, nil
	}
	return 0, fmt.Errorf("%s: unsupported document extension (want .json, .msgpack or .mp)", path)
}

// Document is one loaded program together with the bytes it came from.
type Document struct {
	Path    string
	Format  Format
	Data    []byte
	Program *ast.Program
	// Normalized counts string literals rewritten to NFC.
	Normalized int
}

// LoadOptions controls document loading.
type LoadOptions struct {
	NormalizeStrings bool
}

// LoadFile reads and decodes one document.
func LoadFile(path string, opts LoadOptions) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	prog, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	doc := &Document{Path: path, Format: format, Data: data, Program: prog}
	if opts.NormalizeStrings {
		doc.Normalized = NormalizeStrings(prog)
	}
	return doc, nil
}

// Decode parses a document. Unknown JSON fields are rejected so typos in
// hand-written documents do not silently drop nodes.
func Decode(data []byte, format Format) (*ast.Program, error) {
	var prog ast.Program
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&prog); err != nil {
			return nil, fmt.Errorf("invalid JSON document: %w", err)
		}
	case FormatMsgpack:
		if err := msgpack.Unmarshal(data, &prog); err != nil {
			return nil, fmt.Errorf("invalid msgpack document: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown document format %d", format)
	}
	return &prog, nil
}

// Encode renders prog in the given format.
func Encode(prog *ast.Program, format Format) ([]byte, error) {
	switch format {
	case FormatJSON:
		return json.MarshalIndent(prog, "", "  ")
	case FormatMsgpack:
		return msgpack.Marshal(prog)
	}
	return nil, fmt.Errorf("unknown document format %d", format)
}
