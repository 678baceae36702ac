package simulation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadParameters reads a YAML scenario file. Keys missing from the file keep
// their reference defaults. The result is validated.
func LoadParameters(path string) (Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Parameters{}, fmt.Errorf("reading scenario file: %w", err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes a YAML scenario over the defaults and validates it
func ParseYAML(data []byte) (Parameters, error) {
	p := DefaultParameters()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return Parameters{}, fmt.Errorf("parsing scenario YAML: %w", err)
		}
	}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// ParseJSON decodes a JSON body over the defaults and validates it.
// An empty body yields the defaults.
func ParseJSON(data []byte) (Parameters, error) {
	p := DefaultParameters()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return Parameters{}, fmt.Errorf("parsing parameters JSON: %w", err)
		}
	}
	if err := p.Validate(); err != nil {
		return Parameters{}, err
	}
	return p, nil
}
