// Package manifest serializes the ordered icon list and validates it
// against the published schema before anything touches disk.
package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// Entry is one manifest line: the display name and the literal published
// URL. The URL is emitted byte-for-byte; it was validated upstream so no
// escaping happens here.
type Entry struct {
	Name string `json:"name" yaml:"name"`
	URL  string `json:"url" yaml:"url"`
}

// Format selects the output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatJSON, FormatYAML:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unsupported manifest format: %q (want json or yaml)", s)
	}
}

// schemaJSON is the contract the JSON manifest must satisfy. Validating the
// rendered bytes catches encoder regressions before a broken manifest is
// published.
const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "minItems": 1,
  "items": {
    "type": "object",
    "required": ["name", "url"],
    "additionalProperties": false,
    "properties": {
      "name": {"type": "string", "minLength": 1},
      "url": {"type": "string", "minLength": 1}
    }
  }
}`

// EncodeJSON renders the manifest as a two-space indented JSON array with a
// trailing newline. HTML escaping is disabled so non-ASCII names and URLs
// stay human readable.
func EncodeJSON(entries []Entry) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return buf.Bytes(), nil
}

// EncodeYAML renders the manifest as a YAML sequence.
func EncodeYAML(entries []Entry) ([]byte, error) {
	out, err := yaml.Marshal(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to encode manifest: %w", err)
	}
	return out, nil
}

// Encode renders the manifest in the requested format. JSON output is
// schema-validated before being returned.
func Encode(entries []Entry, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return EncodeYAML(entries)
	default:
		data, err := EncodeJSON(entries)
		if err != nil {
			return nil, err
		}
		if err := ValidateJSON(data); err != nil {
			return nil, err
		}
		return data, nil
	}
}

// ValidateJSON checks rendered manifest bytes against the manifest schema.
func ValidateJSON(data []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(schemaJSON),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return fmt.Errorf("manifest schema validation errored: %w", err)
	}
	if !result.Valid() {
		var details bytes.Buffer
		for _, desc := range result.Errors() {
			if details.Len() > 0 {
				details.WriteString("; ")
			}
			details.WriteString(desc.String())
		}
		return fmt.Errorf("manifest violates schema: %s", details.String())
	}
	return nil
}

// WriteAtomic writes the manifest via a temp file in the target directory
// plus rename, so readers never observe a half-written manifest. Existing
// file permissions are preserved; new files get 0644.
func WriteAtomic(path string, data []byte) error {
	var mode os.FileMode = 0o644
	if st, err := os.Stat(path); err == nil {
		if m := st.Mode() & 0o777; m != 0 {
			mode = m
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp manifest: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write temp manifest: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp manifest: %w", err)
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		return fmt.Errorf("failed to set manifest permissions: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to finalize manifest: %w", err)
	}
	return nil
}
