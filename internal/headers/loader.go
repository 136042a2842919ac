package headers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/wcs-tools-mcp/internal/wcs"
)

// LoadFile reads a header file. YAML is tried first, then JSON.
func LoadFile(path string) (wcs.Header, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read header file: %w", err)
	}
	h, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("header %s: %w", path, err)
	}
	return h, nil
}

// Parse decodes a YAML or JSON keyword mapping.
func Parse(data []byte) (wcs.Header, error) {
	raw := map[string]interface{}{}

	if err := yaml.Unmarshal(data, &raw); err != nil {
		raw = map[string]interface{}{}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("failed to parse header as YAML or JSON: %w", err)
		}
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("header is empty")
	}

	return Normalize(raw), nil
}

// Normalize returns a copy of raw with keywords trimmed and upper-cased.
func Normalize(raw map[string]interface{}) wcs.Header {
	h := make(wcs.Header, len(raw))
	for k, v := range raw {
		h[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	return h
}
