package draft7_test

import (
	"encoding/json"
	"strings"
	"testing"

	draft7 "github.com/reoring/draft7"
)

func TestJSONBytesPreservesNumbers(t *testing.T) {
	v, err := draft7.JSONBytes([]byte(`{"n": 18446744073709551615}`))
	if err != nil {
		t.Fatalf("JSONBytes: %v", err)
	}
	obj, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("decoded %T, want object", v)
	}
	n, ok := obj["n"].(json.Number)
	if !ok {
		t.Fatalf("number decoded as %T, want json.Number", obj["n"])
	}
	if n.String() != "18446744073709551615" {
		t.Errorf("number = %s, lost precision", n)
	}
}

func TestJSONReader(t *testing.T) {
	v, err := draft7.JSONReader(strings.NewReader(`[1, "two", null]`))
	if err != nil {
		t.Fatalf("JSONReader: %v", err)
	}
	arr, ok := v.([]any)
	if !ok || len(arr) != 3 {
		t.Fatalf("decoded %#v", v)
	}
	if _, err := draft7.JSONBytes([]byte(`{broken`)); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestYAMLBytes(t *testing.T) {
	schema, err := draft7.YAMLBytes([]byte(`
type: object
properties:
  n:
    type: integer
    minimum: 0
required: [n]
`))
	if err != nil {
		t.Fatalf("YAMLBytes: %v", err)
	}
	v, err := draft7.GenerateValidator(schema)
	if err != nil {
		t.Fatalf("compile yaml schema: %v", err)
	}
	if !v.Validate(mustVal(t, `{"n": 3}`)) {
		t.Errorf("yaml-authored schema rejected a valid instance")
	}
	if v.Validate(mustVal(t, `{"n": -1}`)) {
		t.Errorf("yaml-authored schema accepted an invalid instance")
	}
	if v.Validate(mustVal(t, `{}`)) {
		t.Errorf("required was lost in normalization")
	}
}

func TestYAMLBytesRejectsNonStringKeys(t *testing.T) {
	if _, err := draft7.YAMLBytes([]byte("1: one\n2: two\n")); err == nil {
		t.Fatalf("expected non-string key error")
	}
}
