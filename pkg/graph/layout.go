package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/railtrack/pkg/railway"
)

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout converts a row stream to JSON bytes.
func MarshalLayout(l *railway.Layout) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteLayout(l, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalLayout decodes a serialized layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("decode: %w", err)
	}
	for i, r := range l.Rows {
		if r.Kind != KindNode && r.Kind != KindEdge {
			return Layout{}, fmt.Errorf("row %d: unknown kind %q", i, r.Kind)
		}
	}
	return l, nil
}

// WriteLayout writes a row stream as indented JSON to w.
func WriteLayout(l *railway.Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromLayout(l)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteLayoutFile writes a row stream to a JSON file.
func WriteLayoutFile(l *railway.Layout, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteLayout(l, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
