package openapi

import (
	"encoding/json"
	"fmt"
	"os"
)

// MarshalJSON serializes the spec to indented JSON bytes.
func MarshalJSON(spec *Spec) ([]byte, error) {
	return json.MarshalIndent(spec, "", "  ")
}

// WriteJSON serializes the spec to indented JSON and writes it to the given
// file, replacing any existing content.
func WriteJSON(spec *Spec, filename string) error {
	data, err := MarshalJSON(spec)
	if err != nil {
		return fmt.Errorf("marshal spec: %w", err)
	}

	return os.WriteFile(filename, append(data, '\n'), 0644)
}
