package draft7_test

import (
	"testing"

	draft7 "github.com/reoring/draft7"
)

func mustVal(t *testing.T, src string) any {
	t.Helper()
	v, err := draft7.JSONBytes([]byte(src))
	if err != nil {
		t.Fatalf("decode %q: %v", src, err)
	}
	return v
}

func mustValidator(t *testing.T, schema string, opts ...draft7.CompileOpt) draft7.Validator {
	t.Helper()
	v, err := draft7.GenerateValidator(mustVal(t, schema), opts...)
	if err != nil {
		t.Fatalf("compile %q: %v", schema, err)
	}
	return v
}

func mustCompileErr(t *testing.T, schema string, wantCode string, opts ...draft7.CompileOpt) *draft7.CompileError {
	t.Helper()
	_, err := draft7.GenerateValidator(mustVal(t, schema), opts...)
	if err == nil {
		t.Fatalf("compile %q: expected error, got nil", schema)
	}
	ce, ok := draft7.AsCompileError(err)
	if !ok {
		t.Fatalf("compile %q: error is not a CompileError: %v", schema, err)
	}
	if wantCode != "" && ce.Code != wantCode {
		t.Fatalf("compile %q: code = %q, want %q (%v)", schema, ce.Code, wantCode, ce)
	}
	return ce
}

func check(t *testing.T, v draft7.Validator, instance string, want bool) {
	t.Helper()
	if got := v.Validate(mustVal(t, instance)); got != want {
		t.Errorf("Validate(%s) = %v, want %v", instance, got, want)
	}
}

func TestBooleanSchemas(t *testing.T) {
	accept := mustValidator(t, `true`)
	reject := mustValidator(t, `false`)
	for _, instance := range []string{`null`, `true`, `1`, `"x"`, `[]`, `{}`, `{"a":[1,2]}`} {
		check(t, accept, instance, true)
		check(t, reject, instance, false)
	}
}

func TestEmptySchemaAcceptsEverything(t *testing.T) {
	v := mustValidator(t, `{}`)
	for _, instance := range []string{`null`, `false`, `0`, `""`, `[1]`, `{"a":null}`} {
		check(t, v, instance, true)
	}
}

func TestAnnotationKeywordsIgnored(t *testing.T) {
	v := mustValidator(t, `{"title":"t","description":"d","default":3,"$comment":"c","examples":[1],"format":"email"}`)
	check(t, v, `"not an email"`, true)
	check(t, v, `42`, true)
}

func TestInvalidSchemaShape(t *testing.T) {
	mustCompileErr(t, `12`, draft7.CodeInvalidSchema)
	mustCompileErr(t, `"nope"`, draft7.CodeInvalidSchema)
	mustCompileErr(t, `[true]`, draft7.CodeInvalidSchema)
}

func TestConstRoundTrip(t *testing.T) {
	for _, src := range []string{`null`, `true`, `3`, `"s"`, `[1,[2],{"a":3}]`, `{"a":{"b":[null]}}`} {
		v := mustValidator(t, `{"const": `+src+`}`)
		check(t, v, src, true)
		check(t, v, `"something else entirely"`, false)
	}
}

func TestConstNumericRepresentation(t *testing.T) {
	v := mustValidator(t, `{"const": 1}`)
	check(t, v, `1.0`, true)
	check(t, v, `1`, true)
	check(t, v, `1.5`, false)
	check(t, v, `true`, false)

	v = mustValidator(t, `{"const": {"a": 1}}`)
	check(t, v, `{"a": 1.0}`, true)
	check(t, v, `{"a": 2}`, false)
	check(t, v, `{"a": 1, "b": 1}`, false)
}

func TestEnum(t *testing.T) {
	v := mustValidator(t, `{"enum": [1, "two", [3], {"four": 4}, null]}`)
	check(t, v, `1.0`, true)
	check(t, v, `"two"`, true)
	check(t, v, `[3]`, true)
	check(t, v, `{"four": 4}`, true)
	check(t, v, `null`, true)
	check(t, v, `2`, false)
	check(t, v, `"three"`, false)
	check(t, v, `[3, 3]`, false)
}

func TestEnumCompileErrors(t *testing.T) {
	mustCompileErr(t, `{"enum": []}`, draft7.CodeEmptyEnum)
	mustCompileErr(t, `{"enum": "abc"}`, draft7.CodeInvalidKeyword)
}

func TestTypeKeyword(t *testing.T) {
	cases := []struct {
		schema   string
		instance string
		want     bool
	}{
		{`{"type":"string"}`, `"x"`, true},
		{`{"type":"string"}`, `1`, false},
		{`{"type":"number"}`, `1.5`, true},
		{`{"type":"number"}`, `"1.5"`, false},
		{`{"type":"integer"}`, `1`, true},
		{`{"type":"integer"}`, `1.0`, true},
		{`{"type":"integer"}`, `1.5`, false},
		{`{"type":"integer"}`, `true`, false},
		{`{"type":"boolean"}`, `false`, true},
		{`{"type":"null"}`, `null`, true},
		{`{"type":"null"}`, `0`, false},
		{`{"type":"array"}`, `[]`, true},
		{`{"type":"object"}`, `{}`, true},
		{`{"type":["string","number"]}`, `"x"`, true},
		{`{"type":["string","number"]}`, `3`, true},
		{`{"type":["string","number"]}`, `null`, false},
	}
	for _, tc := range cases {
		v := mustValidator(t, tc.schema)
		check(t, v, tc.instance, tc.want)
	}
}

func TestTypeCompileErrors(t *testing.T) {
	mustCompileErr(t, `{"type":"walrus"}`, draft7.CodeInvalidKeyword)
	mustCompileErr(t, `{"type":["string", 3]}`, draft7.CodeInvalidKeyword)
	mustCompileErr(t, `{"type":[]}`, draft7.CodeInvalidKeyword)
	mustCompileErr(t, `{"type":12}`, draft7.CodeInvalidKeyword)
}

func TestNumericBounds(t *testing.T) {
	v := mustValidator(t, `{"minimum": 1.0}`)
	check(t, v, `1`, true)
	check(t, v, `1.0`, true)
	check(t, v, `0.999999999999999999999`, false)
	check(t, v, `2`, true)

	v = mustValidator(t, `{"exclusiveMinimum": 1}`)
	check(t, v, `1`, false)
	check(t, v, `1.0000000000000000001`, true)

	v = mustValidator(t, `{"maximum": 10, "minimum": 0}`)
	check(t, v, `5`, true)
	check(t, v, `-1`, false)
	check(t, v, `11`, false)

	v = mustValidator(t, `{"exclusiveMaximum": 10}`)
	check(t, v, `10`, false)
	check(t, v, `9.9999`, true)
}

func TestNumericBoundsLargeIntegers(t *testing.T) {
	// Distinguishable only with exact arithmetic; adjacent uint64-scale
	// integers collapse when forced through float64.
	v := mustValidator(t, `{"minimum": 18446744073709551615}`)
	check(t, v, `18446744073709551616`, true)
	check(t, v, `18446744073709551615`, true)
	check(t, v, `18446744073709551614`, false)
}

func TestMultipleOf(t *testing.T) {
	v := mustValidator(t, `{"multipleOf": 0.1}`)
	check(t, v, `0.3`, true) // fails under float modulo heuristics
	check(t, v, `1`, true)
	check(t, v, `0.35`, false)

	v = mustValidator(t, `{"multipleOf": 2}`)
	check(t, v, `4`, true)
	check(t, v, `4.0`, true)
	check(t, v, `5`, false)
	check(t, v, `"not a number"`, true)

	mustCompileErr(t, `{"multipleOf": 0}`, draft7.CodeInvalidKeyword)
	mustCompileErr(t, `{"multipleOf": -2}`, draft7.CodeInvalidKeyword)
	mustCompileErr(t, `{"multipleOf": "3"}`, draft7.CodeInvalidKeyword)
}

func TestTypeConditionalApplicability(t *testing.T) {
	// Keywords inapplicable to the instance type pass by default.
	cases := []struct {
		schema   string
		instance string
	}{
		{`{"minimum": 0}`, `"hello"`},
		{`{"pattern": "^a"}`, `7`},
		{`{"properties": {"a": false}}`, `[1,2]`},
		{`{"items": false}`, `{"a": 1}`},
		{`{"minLength": 100}`, `null`},
		{`{"required": ["a"]}`, `"a"`},
		{`{"uniqueItems": true}`, `3`},
		{`{"contains": false}`, `{}`},
	}
	for _, tc := range cases {
		v := mustValidator(t, tc.schema)
		check(t, v, tc.instance, true)
	}
}

func TestStringLength(t *testing.T) {
	v := mustValidator(t, `{"minLength": 2, "maxLength": 3}`)
	check(t, v, `"ab"`, true)
	check(t, v, `"abc"`, true)
	check(t, v, `"a"`, false)
	check(t, v, `"abcd"`, false)
	// Length is counted in Unicode scalar values, not bytes.
	check(t, v, `"日本語"`, true)
	check(t, v, `"日"`, false)

	mustCompileErr(t, `{"minLength": -1}`, draft7.CodeInvalidKeyword)
	mustCompileErr(t, `{"maxLength": 1.5}`, draft7.CodeInvalidKeyword)
	// Integral bounds beyond the int range must be rejected, not
	// silently truncated.
	mustCompileErr(t, `{"minLength": 18446744073709551616}`, draft7.CodeInvalidKeyword)
	mustCompileErr(t, `{"maxItems": 9223372036854775808}`, draft7.CodeInvalidKeyword)
}

func TestPattern(t *testing.T) {
	v := mustValidator(t, `{"pattern": "^a*$"}`)
	check(t, v, `"aaa"`, true)
	check(t, v, `"ab"`, false)

	mustCompileErr(t, `{"pattern": "("}`, draft7.CodeInvalidPattern)
	mustCompileErr(t, `{"pattern": 5}`, draft7.CodeInvalidKeyword)
}

func TestCombinators(t *testing.T) {
	v := mustValidator(t, `{"allOf": [{"minimum": 0}, {"maximum": 10}]}`)
	check(t, v, `5`, true)
	check(t, v, `-1`, false)
	check(t, v, `11`, false)

	v = mustValidator(t, `{"anyOf": [{"type":"string"}, {"minimum": 5}]}`)
	check(t, v, `"x"`, true)
	check(t, v, `7`, true)
	check(t, v, `3`, false)

	v = mustValidator(t, `{"oneOf": [{"type":"string"}, {"type":"number"}]}`)
	check(t, v, `"x"`, true)
	check(t, v, `5`, true)
	check(t, v, `true`, false)

	// Matching both branches fails oneOf.
	v = mustValidator(t, `{"oneOf": [{"minimum": 0}, {"maximum": 10}]}`)
	check(t, v, `5`, false)
	check(t, v, `-1`, true)
	check(t, v, `11`, true)

	v = mustValidator(t, `{"not": {"type":"string"}}`)
	check(t, v, `5`, true)
	check(t, v, `"x"`, false)

	mustCompileErr(t, `{"allOf": []}`, draft7.CodeInvalidKeyword)
	mustCompileErr(t, `{"oneOf": {"type":"string"}}`, draft7.CodeInvalidKeyword)
}

func TestConjunctiveKeywords(t *testing.T) {
	// Several keyword families in one schema object AND together.
	v := mustValidator(t, `{
		"type": "object",
		"minProperties": 1,
		"properties": {"n": {"type": "integer", "minimum": 0}},
		"required": ["n"]
	}`)
	check(t, v, `{"n": 3}`, true)
	check(t, v, `{"n": -1}`, false)
	check(t, v, `{"n": "3"}`, false)
	check(t, v, `{}`, false)
	check(t, v, `"not an object"`, false)

	// A malformed keyword fails compilation even when siblings are fine.
	mustCompileErr(t, `{"type":"number","minimum":"x"}`, draft7.CodeInvalidKeyword)
}

func TestIfThenElse(t *testing.T) {
	v := mustValidator(t, `{"if": {"type":"number"}, "then": {"minimum": 0}, "else": {"type": "string"}}`)
	check(t, v, `5`, true)
	check(t, v, `-5`, false)
	check(t, v, `"x"`, true)
	check(t, v, `true`, false)

	// then/else without if contribute nothing.
	v = mustValidator(t, `{"then": {"minimum": 100}}`)
	check(t, v, `1`, true)
	v = mustValidator(t, `{"else": false}`)
	check(t, v, `1`, true)

	// ... but their own defects still surface at compile time.
	mustCompileErr(t, `{"then": {"pattern": "("}}`, draft7.CodeInvalidPattern)
}

func TestPropertiesFamily(t *testing.T) {
	v := mustValidator(t, `{
		"properties": {"foo": {"type": "string"}},
		"patternProperties": {"^f": {"minLength": 1}, "o$": {"maxLength": 3}},
		"additionalProperties": {"type": "boolean"}
	}`)
	// "foo" matches properties and both patterns; all must pass.
	check(t, v, `{"foo": "ab"}`, true)
	check(t, v, `{"foo": 12}`, false)
	check(t, v, `{"foo": "toolong"}`, false)
	// "bar" matches nothing; additionalProperties applies.
	check(t, v, `{"bar": true}`, true)
	check(t, v, `{"bar": "x"}`, false)
	// "fuzz" matches only "^f".
	check(t, v, `{"fuzz": "y"}`, true)
	check(t, v, `{"fuzz": ""}`, false)

	v = mustValidator(t, `{"properties": {"a": true}, "additionalProperties": false}`)
	check(t, v, `{"a": 1}`, true)
	check(t, v, `{"a": 1, "b": 2}`, false)

	mustCompileErr(t, `{"properties": [1]}`, draft7.CodeInvalidKeyword)
	mustCompileErr(t, `{"patternProperties": {"(": true}}`, draft7.CodeInvalidPattern)
}

func TestRequired(t *testing.T) {
	v := mustValidator(t, `{"required": ["a", "b"]}`)
	check(t, v, `{"a": 1, "b": 2}`, true)
	check(t, v, `{"a": 1, "b": null}`, true)
	check(t, v, `{"a": 1}`, false)

	v = mustValidator(t, `{"required": []}`)
	check(t, v, `{}`, true)

	mustCompileErr(t, `{"required": ["a", 2]}`, draft7.CodeInvalidKeyword)
}

func TestPropertyNames(t *testing.T) {
	v := mustValidator(t, `{"propertyNames": {"maxLength": 3}}`)
	check(t, v, `{"abc": 1, "x": 2}`, true)
	check(t, v, `{"abcd": 1}`, false)
	check(t, v, `[1, 2]`, true)
}

func TestDependencies(t *testing.T) {
	v := mustValidator(t, `{"dependencies": {"bar": ["foo"]}}`)
	check(t, v, `{"bar": 2, "foo": 1}`, true)
	check(t, v, `{"bar": 2}`, false)
	check(t, v, `{"foo": 1}`, true)
	check(t, v, `"bar"`, true)

	v = mustValidator(t, `{"dependencies": {"bar": {"properties": {"foo": {"type": "integer"}}}}}`)
	check(t, v, `{"bar": 1, "foo": 2}`, true)
	check(t, v, `{"bar": 1, "foo": "x"}`, false)
	check(t, v, `{"foo": "x"}`, true)

	mustCompileErr(t, `{"dependencies": {"a": [1]}}`, draft7.CodeInvalidKeyword)
	mustCompileErr(t, `{"dependencies": 3}`, draft7.CodeInvalidKeyword)
}

func TestItems(t *testing.T) {
	v := mustValidator(t, `{"items": {"type": "integer"}}`)
	check(t, v, `[1, 2, 3]`, true)
	check(t, v, `[1, "x"]`, false)
	check(t, v, `[]`, true)

	v = mustValidator(t, `{"items": [{"type": "integer"}, {"type": "string"}]}`)
	check(t, v, `[1, "a"]`, true)
	check(t, v, `[1, "a", true, null]`, true)
	check(t, v, `["a", 1]`, false)
	check(t, v, `[1]`, true)

	v = mustValidator(t, `{"items": [{"type": "integer"}], "additionalItems": false}`)
	check(t, v, `[1]`, true)
	check(t, v, `[1, 2]`, false)

	v = mustValidator(t, `{"items": [true], "additionalItems": {"type": "string"}}`)
	check(t, v, `[null, "a", "b"]`, true)
	check(t, v, `[null, "a", 3]`, false)
}

func TestArrayChecks(t *testing.T) {
	v := mustValidator(t, `{"minItems": 1, "maxItems": 2}`)
	check(t, v, `[1]`, true)
	check(t, v, `[1, 2]`, true)
	check(t, v, `[]`, false)
	check(t, v, `[1, 2, 3]`, false)

	v = mustValidator(t, `{"uniqueItems": true}`)
	check(t, v, `[1, 2, 3]`, true)
	check(t, v, `[1, 2, 1]`, false)
	check(t, v, `[1, 1.0]`, false)
	check(t, v, `[{"a": 1}, {"a": 1.0}]`, false)
	check(t, v, `[{"a": 1}, {"a": 2}]`, true)

	v = mustValidator(t, `{"uniqueItems": false}`)
	check(t, v, `[1, 1]`, true)

	v = mustValidator(t, `{"contains": {"minimum": 5}}`)
	check(t, v, `[1, 7]`, true)
	check(t, v, `[1, 2]`, false)
	check(t, v, `[]`, false)
}

func TestObjectSizeChecks(t *testing.T) {
	v := mustValidator(t, `{"minProperties": 1, "maxProperties": 2}`)
	check(t, v, `{"a": 1}`, true)
	check(t, v, `{}`, false)
	check(t, v, `{"a":1,"b":2,"c":3}`, false)
}

func TestValidateConvenience(t *testing.T) {
	ok, err := draft7.Validate(mustVal(t, `{"type":"string"}`), mustVal(t, `"x"`))
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !ok {
		t.Fatalf("Validate = false, want true")
	}
	if _, err := draft7.Validate(mustVal(t, `{"enum": []}`), nil); err == nil {
		t.Fatalf("Validate: expected compile error")
	}
}

func TestCompileErrorLocation(t *testing.T) {
	ce := mustCompileErr(t, `{"properties": {"a": {"items": [{"pattern": 1}]}}}`, draft7.CodeInvalidKeyword)
	if ce.Keyword != "pattern" {
		t.Errorf("Keyword = %q, want %q", ce.Keyword, "pattern")
	}
	if want := "/properties/a/items/0/pattern"; ce.Path != want {
		t.Errorf("Path = %q, want %q", ce.Path, want)
	}
}

func TestMaxDepth(t *testing.T) {
	schema := `{"items": {"items": {"items": {"items": {"type": "integer"}}}}}`
	if _, err := draft7.GenerateValidator(mustVal(t, schema), draft7.CompileOpt{MaxDepth: 2}); err == nil {
		t.Fatalf("expected depth error")
	} else if ce, ok := draft7.AsCompileError(err); !ok || ce.Code != draft7.CodeDepthExceeded {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := draft7.GenerateValidator(mustVal(t, schema), draft7.CompileOpt{MaxDepth: 10}); err != nil {
		t.Fatalf("compile within depth: %v", err)
	}
}
