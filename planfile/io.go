package planfile

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// planFilePermissions is the file permission mode for plan files.
const planFilePermissions = 0o644

// ReadFile reads and parses a JSON plan file from the given path.
func ReadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read plan file: %w", err)
	}
	return Parse(data)
}

// Parse parses JSON plan file data and validates its structure.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse plan file: %w", err)
	}
	if err := doc.validate(); err != nil {
		return nil, fmt.Errorf("invalid plan file: %w", err)
	}
	return &doc, nil
}

// WriteFile writes the document as canonical JSON to the given path.
func (d *Document) WriteFile(path string) error {
	data, err := d.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, planFilePermissions)
}

// WriteTo writes the document as canonical JSON to the given writer.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	data, err := d.Marshal()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// Marshal serializes the document to canonical JSON. Map-valued fields
// (variant assignments, build arguments) marshal with sorted keys, so the
// output is byte-identical for equal documents.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(d); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeYAML writes the document as YAML, for human review. YAML output is
// deterministic but is not the canonical form; digests are computed over
// JSON.
func (d *Document) EncodeYAML(w io.Writer) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(d); err != nil {
		return err
	}
	return encoder.Close()
}

// Digest returns the sha256 of the canonical JSON form, hex encoded. Two
// plans with the same digest describe the same builds.
func (d *Document) Digest() (string, error) {
	data, err := d.Marshal()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Exists reports whether a plan file is present at the given path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
