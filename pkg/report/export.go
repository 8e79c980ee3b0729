package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Report Serialization API
// =============================================================================

// Marshal converts a report to indented JSON bytes.
func Marshal(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteJSON(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteJSON writes a report as indented JSON to w.
func WriteJSON(r *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a report to a JSON file at path.
func WriteFile(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(r, f)
}

// ReadJSON decodes a report previously written by [WriteJSON].
func ReadJSON(rd io.Reader) (*Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &r, nil
}

// ReadFile reads a report from a JSON file.
func ReadFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}
