// Package draft7 compiles JSON Schema draft-07 documents into executable
// validators and evaluates them against decoded JSON values.
//
// It provides:
//
// - GenerateValidator / Validator.Validate as the two public entry points
// - A stable compile-failure model via CompileError (JSON Pointer, keyword, code)
// - Cycle-safe $ref resolution, local and cross-document, via a caller-supplied document table
// - JSON-Schema-exact equality and numeric comparison (1 == 1.0, no float rounding)
// - Source helpers decoding JSON (goccy/go-json, numbers preserved) and YAML input
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place the conformance-suite harness under conformance/ and the CLI under cmd/draft7.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	schema, err := draft7.JSONBytes(schemaText)
//	v, err := draft7.GenerateValidator(schema)
//	ok := v.Validate(instance)
//
// Compilation can fail (malformed or unsupported schema); evaluation
// cannot. Tell the two apart with AsCompileError.
package draft7
