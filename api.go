package draft7

import (
	"github.com/reoring/draft7/internal/engine"
	"github.com/reoring/draft7/internal/ir"
)

// Validator is the compiled, executable form of a schema. Validate is
// pure and total: for any well-formed instance value it returns a
// definite verdict and never errors. A Validator is immutable and safe
// for concurrent use.
type Validator interface {
	Validate(instance any) bool
}

// CompileOpt bundles compilation options.
type CompileOpt struct {
	// Documents maps reference base identifiers to already-loaded schema
	// documents, for cross-document $ref resolution. The compiler never
	// performs I/O; every document a schema can reach must be here before
	// compilation starts.
	Documents map[string]any
	// MaxDepth bounds schema nesting (including through $ref chains that
	// are not cycles) during compilation. Zero means unbounded.
	MaxDepth int
}

// GenerateValidator compiles a decoded draft-07 schema value into a
// Validator. The schema must be a boolean or an object in the JSON value
// model (see the Source helpers in source.go). Failures are
// *CompileError; use AsCompileError to distinguish them from anything
// else.
//
// When multiple opts are given the last one wins, mirroring the option
// convention used across this module.
func GenerateValidator(schema any, opts ...CompileOpt) (Validator, error) {
	var opt CompileOpt
	if len(opts) > 0 {
		opt = opts[len(opts)-1]
	}
	c := newCompiler(schema, opt)
	n, err := c.compile(schema, "", c.rootID, 0)
	if err != nil {
		return nil, err
	}
	return validator{node: n}, nil
}

// Validate compiles schema and evaluates instance in one step. It is a
// convenience for one-shot checks; callers validating many instances
// should compile once via GenerateValidator.
func Validate(schema any, instance any, opts ...CompileOpt) (bool, error) {
	v, err := GenerateValidator(schema, opts...)
	if err != nil {
		return false, err
	}
	return v.Validate(instance), nil
}

type validator struct {
	node ir.Node
}

func (v validator) Validate(instance any) bool {
	return engine.Eval(v.node, instance)
}
