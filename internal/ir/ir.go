// Package ir defines the compiled validator node tree produced by the
// compiler and walked by the evaluation engine. This package is internal
// and not part of the public API.
//
// The node vocabulary is closed: it covers exactly the draft-07 assertion
// keywords. The engine matches exhaustively over Kind, so adding a keyword
// forces every matching site to be updated.
package ir

import (
	"math/big"
	"regexp"
)

// Kind identifies a validator node variant.
type Kind int

const (
	KindAccept Kind = iota
	KindReject
	KindConst
	KindType
	KindEnum
	KindMinimum
	KindMaximum
	KindMultipleOf
	KindMinLength
	KindMaxLength
	KindPattern
	KindAllOf
	KindAnyOf
	KindOneOf
	KindNot
	KindIfThenElse
	KindProperties
	KindRequired
	KindPropertyNames
	KindDependencies
	KindItems
	KindMinItems
	KindMaxItems
	KindUniqueItems
	KindMinProperties
	KindMaxProperties
	KindContains
	KindRef
)

// Node is the root interface of compiled validator nodes.
type Node interface {
	Kind() Kind
}

// Accept passes every instance (the boolean schema true, the empty schema).
type Accept struct{}

func (*Accept) Kind() Kind { return KindAccept }

// Reject fails every instance (the boolean schema false).
type Reject struct{}

func (*Reject) Kind() Kind { return KindReject }

// Const passes when the instance structurally equals Value.
type Const struct {
	Value any
}

func (*Const) Kind() Kind { return KindConst }

// Type passes when the instance's JSON type is one of Types. "integer"
// additionally admits numbers with zero fractional part.
type Type struct {
	Types []string
}

func (*Type) Kind() Kind { return KindType }

// Enum passes when the instance equals any listed value. The compiler
// rejects empty enums.
type Enum struct {
	Values []any
}

func (*Enum) Kind() Kind { return KindEnum }

// Minimum is the lower numeric bound; Exclusive selects exclusiveMinimum
// semantics. Non-number instances pass.
type Minimum struct {
	Bound     *big.Rat
	Exclusive bool
}

func (*Minimum) Kind() Kind { return KindMinimum }

// Maximum is the upper numeric bound; Exclusive selects exclusiveMaximum
// semantics. Non-number instances pass.
type Maximum struct {
	Bound     *big.Rat
	Exclusive bool
}

func (*Maximum) Kind() Kind { return KindMaximum }

// MultipleOf passes when the instance divided by Divisor is an integer,
// decided in exact rational arithmetic.
type MultipleOf struct {
	Divisor *big.Rat
}

func (*MultipleOf) Kind() Kind { return KindMultipleOf }

// MinLength bounds string length in Unicode scalar values.
type MinLength struct {
	N int
}

func (*MinLength) Kind() Kind { return KindMinLength }

// MaxLength bounds string length in Unicode scalar values.
type MaxLength struct {
	N int
}

func (*MaxLength) Kind() Kind { return KindMaxLength }

// Pattern passes string instances matching the compiled expression.
type Pattern struct {
	Re *regexp.Regexp
}

func (*Pattern) Kind() Kind { return KindPattern }

// AllOf passes when every child passes.
type AllOf struct {
	Nodes []Node
}

func (*AllOf) Kind() Kind { return KindAllOf }

// AnyOf passes when at least one child passes.
type AnyOf struct {
	Nodes []Node
}

func (*AnyOf) Kind() Kind { return KindAnyOf }

// OneOf passes when exactly one child passes.
type OneOf struct {
	Nodes []Node
}

func (*OneOf) Kind() Kind { return KindOneOf }

// Not inverts its child.
type Not struct {
	Node Node
}

func (*Not) Kind() Kind { return KindNot }

// IfThenElse applies Then when If passes and Else otherwise. Nil Then/Else
// mean accept-all; the If verdict itself never decides the outcome.
type IfThenElse struct {
	If   Node
	Then Node
	Else Node
}

func (*IfThenElse) Kind() Kind { return KindIfThenElse }

// PatternSchema pairs a compiled property-name pattern with its node.
type PatternSchema struct {
	Source string
	Re     *regexp.Regexp
	Node   Node
}

// Properties applies per-property nodes to object instances. The three
// keywords properties/patternProperties/additionalProperties compile into
// one node because additionalProperties applies exactly to the keys the
// other two did not match.
type Properties struct {
	Named      map[string]Node
	Patterns   []PatternSchema
	Additional Node // nil means accept-all
}

func (*Properties) Kind() Kind { return KindProperties }

// Required passes object instances containing every named key.
type Required struct {
	Names []string
}

func (*Required) Kind() Kind { return KindRequired }

// PropertyNames applies Node to each object key, reinterpreted as a
// string instance.
type PropertyNames struct {
	Node Node
}

func (*PropertyNames) Kind() Kind { return KindPropertyNames }

// Dependency is one dependencies entry: when Name is present, either all
// Required keys must also be present (Schema nil) or Schema must pass
// against the whole object.
type Dependency struct {
	Name     string
	Required []string
	Schema   Node
}

// Dependencies evaluates each entry against object instances.
type Dependencies struct {
	Entries []Dependency
}

func (*Dependencies) Kind() Kind { return KindDependencies }

// Items validates array elements. Single non-nil applies one node to all
// elements; otherwise Tuple types a prefix and Additional (nil meaning
// accept-all) covers the rest.
type Items struct {
	Single     Node
	Tuple      []Node
	Additional Node
}

func (*Items) Kind() Kind { return KindItems }

// MinItems bounds array length from below.
type MinItems struct {
	N int
}

func (*MinItems) Kind() Kind { return KindMinItems }

// MaxItems bounds array length from above.
type MaxItems struct {
	N int
}

func (*MaxItems) Kind() Kind { return KindMaxItems }

// UniqueItems rejects arrays containing two structurally equal elements.
type UniqueItems struct{}

func (*UniqueItems) Kind() Kind { return KindUniqueItems }

// MinProperties bounds object size from below.
type MinProperties struct {
	N int
}

func (*MinProperties) Kind() Kind { return KindMinProperties }

// MaxProperties bounds object size from above.
type MaxProperties struct {
	N int
}

func (*MaxProperties) Kind() Kind { return KindMaxProperties }

// Contains passes arrays with at least one element matching Node.
type Contains struct {
	Node Node
}

func (*Contains) Kind() Kind { return KindContains }

// Ref is the indirection introduced by $ref resolution. Target is filled
// in when resolution of the referenced location completes, which is what
// lets recursive and mutually-recursive schemas compile without
// re-entering the compiler.
type Ref struct {
	Target Node
}

func (*Ref) Kind() Kind { return KindRef }
