package draft7

import (
	"bytes"
	"fmt"
	"io"
	"os"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// Source helpers decode raw text into the JSON value model the compiler
// and evaluator consume: nil, bool, string, json.Number, []any and
// map[string]any. Parsing is strictly a precondition of compilation; the
// core itself never touches text.

// JSONBytes decodes a JSON document. Numbers are preserved as
// json.Number so large or high-precision values survive intact.
func JSONBytes(b []byte) (any, error) {
	return JSONReader(bytes.NewReader(b))
}

// JSONReader decodes a JSON document from r.
func JSONReader(r io.Reader) (any, error) {
	dec := gojson.NewDecoder(r)
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("draft7: decode json: %w", err)
	}
	return v, nil
}

// JSONFile decodes the JSON document stored at path.
func JSONFile(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return JSONReader(f)
}

// YAMLBytes decodes a YAML document into the JSON value model. Schemas
// and document tables are commonly authored in YAML; mapping keys must
// be strings.
func YAMLBytes(b []byte) (any, error) {
	var v any
	if err := yaml.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("draft7: decode yaml: %w", err)
	}
	return normalizeYAML(v)
}

// YAMLFile decodes the YAML document stored at path.
func YAMLFile(path string) (any, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return YAMLBytes(b)
}

// normalizeYAML rewrites yaml.v3 output into the JSON value model:
// string-keyed maps all the way down. Numeric shapes (int, float64) are
// left alone; the equality engine treats them exactly.
func normalizeYAML(v any) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, el := range x {
			n, err := normalizeYAML(el)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, el := range x {
			ks, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("draft7: yaml mapping key %v is not a string", k)
			}
			n, err := normalizeYAML(el)
			if err != nil {
				return nil, err
			}
			out[ks] = n
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, el := range x {
			n, err := normalizeYAML(el)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}
	return v, nil
}
