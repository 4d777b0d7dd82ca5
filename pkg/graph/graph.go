package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/railtrack/pkg/dag"
)

// =============================================================================
// History Serialization API
// =============================================================================

// MarshalRecords converts commit records to JSON bytes.
func MarshalRecords(records []dag.Record) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteRecords(records, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalRecords decodes JSON bytes into commit records.
func UnmarshalRecords(data []byte) ([]dag.Record, error) {
	return ReadRecords(bytes.NewReader(data))
}

// WriteRecords writes commit records as indented JSON to w.
func WriteRecords(records []dag.Record, w io.Writer) error {
	return WriteHistory(FromRecords(records), w)
}

// WriteRecordsFile writes commit records to a JSON file.
// The file is created with 0644 permissions.
func WriteRecordsFile(records []dag.Record, path string) error {
	return WriteHistoryFile(FromRecords(records), path)
}

// WriteHistoryFile writes h to a JSON file, replacing any existing file.
func WriteHistoryFile(h History, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteHistory(h, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadRecords decodes a JSON history from r. Unknown fields are ignored so
// files produced by other tools can carry extra data.
func ReadRecords(r io.Reader) ([]dag.Record, error) {
	h, err := ReadHistory(r)
	if err != nil {
		return nil, err
	}
	return h.Records(), nil
}

// ReadHistory decodes a JSON history from r, including its refs.
func ReadHistory(r io.Reader) (History, error) {
	var h History
	if err := json.NewDecoder(r).Decode(&h); err != nil {
		return History{}, fmt.Errorf("decode: %w", err)
	}
	return h, nil
}

// ReadHistoryFile reads a JSON history file, including its refs.
func ReadHistoryFile(path string) (History, error) {
	f, err := os.Open(path)
	if err != nil {
		return History{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadHistory(f)
}

// WriteHistory writes h as indented JSON to w.
func WriteHistory(h History, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(h); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadRecordsFile reads a JSON history file.
func ReadRecordsFile(path string) ([]dag.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadRecords(f)
}
