package draft7

import (
	"errors"
	"fmt"
)

// Compile error codes (exported consts for IDE completion and type safety
// by convention).
const (
	CodeInvalidSchema   = "invalid_schema"   // schema is neither a boolean nor an object
	CodeInvalidKeyword  = "invalid_keyword"  // keyword value has the wrong JSON type or shape
	CodeEmptyEnum       = "empty_enum"       // enum compiled from an empty array
	CodeInvalidPattern  = "invalid_pattern"  // pattern/patternProperties expression does not compile
	CodeUnresolvedRef   = "unresolved_ref"   // $ref pointer does not resolve inside its document
	CodeUnknownDocument = "unknown_document" // $ref base identifier missing from the document table
	CodeRefCycle        = "ref_cycle"        // $ref chain closes on itself with no concrete schema
	CodeDepthExceeded   = "depth_exceeded"   // schema nesting exceeded CompileOpt.MaxDepth
)

// CompileError reports that a schema could not be compiled. It is the only
// failure the package produces: evaluation always yields a verdict, never
// an error. Path is a JSON Pointer into the schema document and Keyword
// names the offending keyword when one is identifiable.
type CompileError struct {
	Path    string
	Keyword string
	Code    string
	Message string
	// Params carries structured parameters (e.g. {"ref": "#/definitions/x"})
	// for diagnostics and observability.
	Params map[string]any
}

func (e *CompileError) Error() string {
	if e.Keyword == "" {
		return fmt.Sprintf("%s at %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("%s at %s (%s): %s", e.Code, e.Path, e.Keyword, e.Message)
}

// AsCompileError extracts a CompileError from an error chain using
// errors.As internally. Callers use it to tell "schema unsupported or
// malformed" apart from any other failure.
func AsCompileError(err error) (*CompileError, bool) {
	if err == nil {
		return nil, false
	}
	var ce *CompileError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

func compileErr(path, keyword, code, msg string, kv ...any) *CompileError {
	e := &CompileError{Path: path, Keyword: keyword, Code: code, Message: msg}
	if len(kv) > 0 {
		e.Params = map[string]any{}
		for i := 0; i+1 < len(kv); i += 2 {
			e.Params[fmt.Sprint(kv[i])] = kv[i+1]
		}
	}
	return e
}
