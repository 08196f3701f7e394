package draft7

import (
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/reoring/draft7/internal/ir"
	"github.com/reoring/draft7/internal/jsonval"
)

var validTypeNames = map[string]bool{
	"array":   true,
	"boolean": true,
	"integer": true,
	"null":    true,
	"number":  true,
	"object":  true,
	"string":  true,
}

// compiler holds per-call compilation state: the root document, the
// caller-supplied document table, and the $ref resolution cache. A
// compiler lives for exactly one GenerateValidator call and is never
// shared across goroutines.
type compiler struct {
	root     any
	rootID   string
	docs     map[string]any
	cache    map[refKey]*ir.Ref
	maxDepth int
}

// refKey identifies a resolved reference target: document identifier plus
// fragment pointer within it. The root document's identifier may be "".
type refKey struct {
	doc string
	ptr string
}

func newCompiler(schema any, opt CompileOpt) *compiler {
	c := &compiler{
		root:     schema,
		docs:     opt.Documents,
		cache:    map[refKey]*ir.Ref{},
		maxDepth: opt.MaxDepth,
	}
	if obj, ok := schema.(map[string]any); ok {
		if id, ok := obj["$id"].(string); ok {
			c.rootID = strings.TrimSuffix(id, "#")
		}
	}
	return c
}

// compile turns one schema value into a validator node. path is the JSON
// Pointer of the schema location (for CompileError), docID the identifier
// of the document the schema came from.
func (c *compiler) compile(schema any, path, docID string, depth int) (ir.Node, error) {
	if c.maxDepth > 0 && depth > c.maxDepth {
		return nil, compileErr(pathOrRoot(path), "", CodeDepthExceeded, "schema nesting too deep", "max", c.maxDepth)
	}
	switch s := schema.(type) {
	case bool:
		if s {
			return &ir.Accept{}, nil
		}
		return &ir.Reject{}, nil
	case map[string]any:
		return c.compileObject(s, path, docID, depth)
	}
	return nil, compileErr(pathOrRoot(path), "", CodeInvalidSchema, "schema must be an object or a boolean")
}

// compileObject dispatches on every recognized keyword present and ANDs
// the resulting nodes: draft-07 keywords are conjunctive. Unrecognized
// keywords are annotations and contribute nothing. A $ref makes the
// referenced schema the sole source of truth; sibling keywords are
// deliberately ignored per draft-07.
func (c *compiler) compileObject(obj map[string]any, path, docID string, depth int) (ir.Node, error) {
	if ref, present := obj["$ref"]; present {
		s, ok := ref.(string)
		if !ok {
			return nil, compileErr(joinPointerField(path, "$ref"), "$ref", CodeInvalidKeyword, "must be a string")
		}
		return c.resolveRef(s, path, docID, depth)
	}

	var nodes []ir.Node
	add := func(n ir.Node, err error) error {
		if err != nil {
			return err
		}
		if n != nil {
			nodes = append(nodes, n)
		}
		return nil
	}

	steps := []func(map[string]any, string, string, int) (ir.Node, error){
		c.compileType,
		c.compileEnum,
		c.compileConst,
		c.compileNumberBounds,
		c.compileMultipleOf,
		c.compileStringBounds,
		c.compilePatternKeyword,
		c.compileItems,
		c.compileArrayBounds,
		c.compileContains,
		c.compileObjectBounds,
		c.compileRequired,
		c.compileProperties,
		c.compilePropertyNames,
		c.compileDependencies,
		c.compileCombinators,
		c.compileNot,
		c.compileConditional,
	}
	for _, step := range steps {
		n, err := step(obj, path, docID, depth)
		if err := add(n, err); err != nil {
			return nil, err
		}
	}

	switch len(nodes) {
	case 0:
		return &ir.Accept{}, nil
	case 1:
		return nodes[0], nil
	}
	return &ir.AllOf{Nodes: nodes}, nil
}

func (c *compiler) compileType(obj map[string]any, path, _ string, _ int) (ir.Node, error) {
	v, present := obj["type"]
	if !present {
		return nil, nil
	}
	kp := joinPointerField(path, "type")
	switch t := v.(type) {
	case string:
		if !validTypeNames[t] {
			return nil, compileErr(kp, "type", CodeInvalidKeyword, "not a valid type name", "got", t)
		}
		return &ir.Type{Types: []string{t}}, nil
	case []any:
		if len(t) == 0 {
			return nil, compileErr(kp, "type", CodeInvalidKeyword, "must have at least one element")
		}
		names := make([]string, 0, len(t))
		for i, el := range t {
			s, ok := el.(string)
			if !ok || !validTypeNames[s] {
				return nil, compileErr(joinPointerIndex(kp, i), "type", CodeInvalidKeyword, "not a valid type name")
			}
			names = append(names, s)
		}
		return &ir.Type{Types: names}, nil
	}
	return nil, compileErr(kp, "type", CodeInvalidKeyword, "must be a string or an array of strings")
}

func (c *compiler) compileEnum(obj map[string]any, path, _ string, _ int) (ir.Node, error) {
	v, present := obj["enum"]
	if !present {
		return nil, nil
	}
	kp := joinPointerField(path, "enum")
	arr, ok := v.([]any)
	if !ok {
		return nil, compileErr(kp, "enum", CodeInvalidKeyword, "must be an array")
	}
	if len(arr) == 0 {
		return nil, compileErr(kp, "enum", CodeEmptyEnum, "must have at least one element")
	}
	return &ir.Enum{Values: arr}, nil
}

func (c *compiler) compileConst(obj map[string]any, _, _ string, _ int) (ir.Node, error) {
	v, present := obj["const"]
	if !present {
		return nil, nil
	}
	return &ir.Const{Value: v}, nil
}

func (c *compiler) compileNumberBounds(obj map[string]any, path, _ string, _ int) (ir.Node, error) {
	var nodes []ir.Node
	for _, kw := range []struct {
		name      string
		exclusive bool
		lower     bool
	}{
		{"minimum", false, true},
		{"exclusiveMinimum", true, true},
		{"maximum", false, false},
		{"exclusiveMaximum", true, false},
	} {
		v, present := obj[kw.name]
		if !present {
			continue
		}
		bound, ok := jsonval.Num(v)
		if !ok {
			return nil, compileErr(joinPointerField(path, kw.name), kw.name, CodeInvalidKeyword, "must be a number")
		}
		if kw.lower {
			nodes = append(nodes, &ir.Minimum{Bound: bound, Exclusive: kw.exclusive})
		} else {
			nodes = append(nodes, &ir.Maximum{Bound: bound, Exclusive: kw.exclusive})
		}
	}
	return squash(nodes), nil
}

func (c *compiler) compileMultipleOf(obj map[string]any, path, _ string, _ int) (ir.Node, error) {
	v, present := obj["multipleOf"]
	if !present {
		return nil, nil
	}
	kp := joinPointerField(path, "multipleOf")
	div, ok := jsonval.Num(v)
	if !ok {
		return nil, compileErr(kp, "multipleOf", CodeInvalidKeyword, "must be a number")
	}
	if div.Sign() <= 0 {
		return nil, compileErr(kp, "multipleOf", CodeInvalidKeyword, "must be greater than zero")
	}
	return &ir.MultipleOf{Divisor: div}, nil
}

func (c *compiler) compileStringBounds(obj map[string]any, path, _ string, _ int) (ir.Node, error) {
	var nodes []ir.Node
	if v, present := obj["minLength"]; present {
		n, err := nonNegativeInt(v, joinPointerField(path, "minLength"), "minLength")
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &ir.MinLength{N: n})
	}
	if v, present := obj["maxLength"]; present {
		n, err := nonNegativeInt(v, joinPointerField(path, "maxLength"), "maxLength")
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &ir.MaxLength{N: n})
	}
	return squash(nodes), nil
}

func (c *compiler) compilePatternKeyword(obj map[string]any, path, _ string, _ int) (ir.Node, error) {
	v, present := obj["pattern"]
	if !present {
		return nil, nil
	}
	kp := joinPointerField(path, "pattern")
	s, ok := v.(string)
	if !ok {
		return nil, compileErr(kp, "pattern", CodeInvalidKeyword, "must be a string")
	}
	re, err := regexp.Compile(s)
	if err != nil {
		return nil, compileErr(kp, "pattern", CodeInvalidPattern, err.Error(), "pattern", s)
	}
	return &ir.Pattern{Re: re}, nil
}

// compileItems handles items together with additionalItems, which only
// applies when items is in its tuple (array) form.
func (c *compiler) compileItems(obj map[string]any, path, docID string, depth int) (ir.Node, error) {
	v, present := obj["items"]
	if !present {
		return nil, nil
	}
	kp := joinPointerField(path, "items")
	if arr, ok := v.([]any); ok {
		tuple := make([]ir.Node, 0, len(arr))
		for i, el := range arr {
			n, err := c.compile(el, joinPointerIndex(kp, i), docID, depth+1)
			if err != nil {
				return nil, err
			}
			tuple = append(tuple, n)
		}
		node := &ir.Items{Tuple: tuple}
		if av, present := obj["additionalItems"]; present {
			an, err := c.compile(av, joinPointerField(path, "additionalItems"), docID, depth+1)
			if err != nil {
				return nil, err
			}
			node.Additional = an
		}
		return node, nil
	}
	single, err := c.compile(v, kp, docID, depth+1)
	if err != nil {
		return nil, err
	}
	return &ir.Items{Single: single}, nil
}

func (c *compiler) compileArrayBounds(obj map[string]any, path, _ string, _ int) (ir.Node, error) {
	var nodes []ir.Node
	if v, present := obj["minItems"]; present {
		n, err := nonNegativeInt(v, joinPointerField(path, "minItems"), "minItems")
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &ir.MinItems{N: n})
	}
	if v, present := obj["maxItems"]; present {
		n, err := nonNegativeInt(v, joinPointerField(path, "maxItems"), "maxItems")
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &ir.MaxItems{N: n})
	}
	if v, present := obj["uniqueItems"]; present {
		b, ok := v.(bool)
		if !ok {
			return nil, compileErr(joinPointerField(path, "uniqueItems"), "uniqueItems", CodeInvalidKeyword, "must be a boolean")
		}
		if b {
			nodes = append(nodes, &ir.UniqueItems{})
		}
	}
	return squash(nodes), nil
}

func (c *compiler) compileContains(obj map[string]any, path, docID string, depth int) (ir.Node, error) {
	v, present := obj["contains"]
	if !present {
		return nil, nil
	}
	n, err := c.compile(v, joinPointerField(path, "contains"), docID, depth+1)
	if err != nil {
		return nil, err
	}
	return &ir.Contains{Node: n}, nil
}

func (c *compiler) compileObjectBounds(obj map[string]any, path, _ string, _ int) (ir.Node, error) {
	var nodes []ir.Node
	if v, present := obj["minProperties"]; present {
		n, err := nonNegativeInt(v, joinPointerField(path, "minProperties"), "minProperties")
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &ir.MinProperties{N: n})
	}
	if v, present := obj["maxProperties"]; present {
		n, err := nonNegativeInt(v, joinPointerField(path, "maxProperties"), "maxProperties")
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, &ir.MaxProperties{N: n})
	}
	return squash(nodes), nil
}

func (c *compiler) compileRequired(obj map[string]any, path, _ string, _ int) (ir.Node, error) {
	v, present := obj["required"]
	if !present {
		return nil, nil
	}
	kp := joinPointerField(path, "required")
	arr, ok := v.([]any)
	if !ok {
		return nil, compileErr(kp, "required", CodeInvalidKeyword, "must be an array")
	}
	names := make([]string, 0, len(arr))
	for i, el := range arr {
		s, ok := el.(string)
		if !ok {
			return nil, compileErr(joinPointerIndex(kp, i), "required", CodeInvalidKeyword, "each element must be a string")
		}
		names = append(names, s)
	}
	if len(names) == 0 {
		return nil, nil
	}
	return &ir.Required{Names: names}, nil
}

// compileProperties handles properties, patternProperties and
// additionalProperties as one unit (see ir.Properties).
func (c *compiler) compileProperties(obj map[string]any, path, docID string, depth int) (ir.Node, error) {
	pv, hasProps := obj["properties"]
	ppv, hasPatterns := obj["patternProperties"]
	apv, hasAdditional := obj["additionalProperties"]
	if !hasProps && !hasPatterns && !hasAdditional {
		return nil, nil
	}
	node := &ir.Properties{}

	if hasProps {
		kp := joinPointerField(path, "properties")
		m, ok := pv.(map[string]any)
		if !ok {
			return nil, compileErr(kp, "properties", CodeInvalidKeyword, "must be an object")
		}
		node.Named = make(map[string]ir.Node, len(m))
		for _, name := range sortedKeys(m) {
			n, err := c.compile(m[name], joinPointerField(kp, name), docID, depth+1)
			if err != nil {
				return nil, err
			}
			node.Named[name] = n
		}
	}
	if hasPatterns {
		kp := joinPointerField(path, "patternProperties")
		m, ok := ppv.(map[string]any)
		if !ok {
			return nil, compileErr(kp, "patternProperties", CodeInvalidKeyword, "must be an object")
		}
		for _, src := range sortedKeys(m) {
			re, err := regexp.Compile(src)
			if err != nil {
				return nil, compileErr(joinPointerField(kp, src), "patternProperties", CodeInvalidPattern, err.Error(), "pattern", src)
			}
			n, err := c.compile(m[src], joinPointerField(kp, src), docID, depth+1)
			if err != nil {
				return nil, err
			}
			node.Patterns = append(node.Patterns, ir.PatternSchema{Source: src, Re: re, Node: n})
		}
	}
	if hasAdditional {
		n, err := c.compile(apv, joinPointerField(path, "additionalProperties"), docID, depth+1)
		if err != nil {
			return nil, err
		}
		if n.Kind() != ir.KindAccept {
			node.Additional = n
		}
	}
	return node, nil
}

func (c *compiler) compilePropertyNames(obj map[string]any, path, docID string, depth int) (ir.Node, error) {
	v, present := obj["propertyNames"]
	if !present {
		return nil, nil
	}
	n, err := c.compile(v, joinPointerField(path, "propertyNames"), docID, depth+1)
	if err != nil {
		return nil, err
	}
	return &ir.PropertyNames{Node: n}, nil
}

func (c *compiler) compileDependencies(obj map[string]any, path, docID string, depth int) (ir.Node, error) {
	v, present := obj["dependencies"]
	if !present {
		return nil, nil
	}
	kp := joinPointerField(path, "dependencies")
	m, ok := v.(map[string]any)
	if !ok {
		return nil, compileErr(kp, "dependencies", CodeInvalidKeyword, "must be an object")
	}
	node := &ir.Dependencies{}
	for _, name := range sortedKeys(m) {
		ep := joinPointerField(kp, name)
		switch dv := m[name].(type) {
		case []any:
			names := make([]string, 0, len(dv))
			for i, el := range dv {
				s, ok := el.(string)
				if !ok {
					return nil, compileErr(joinPointerIndex(ep, i), "dependencies", CodeInvalidKeyword, "each element must be a string")
				}
				names = append(names, s)
			}
			node.Entries = append(node.Entries, ir.Dependency{Name: name, Required: names})
		default:
			n, err := c.compile(dv, ep, docID, depth+1)
			if err != nil {
				return nil, err
			}
			node.Entries = append(node.Entries, ir.Dependency{Name: name, Schema: n})
		}
	}
	if len(node.Entries) == 0 {
		return nil, nil
	}
	return node, nil
}

func (c *compiler) compileCombinators(obj map[string]any, path, docID string, depth int) (ir.Node, error) {
	var nodes []ir.Node
	for _, kw := range []string{"allOf", "anyOf", "oneOf"} {
		v, present := obj[kw]
		if !present {
			continue
		}
		kp := joinPointerField(path, kw)
		arr, ok := v.([]any)
		if !ok {
			return nil, compileErr(kp, kw, CodeInvalidKeyword, "must be an array")
		}
		if len(arr) == 0 {
			return nil, compileErr(kp, kw, CodeInvalidKeyword, "must have at least one element")
		}
		children := make([]ir.Node, 0, len(arr))
		for i, el := range arr {
			n, err := c.compile(el, joinPointerIndex(kp, i), docID, depth+1)
			if err != nil {
				return nil, err
			}
			children = append(children, n)
		}
		switch kw {
		case "allOf":
			nodes = append(nodes, &ir.AllOf{Nodes: children})
		case "anyOf":
			nodes = append(nodes, &ir.AnyOf{Nodes: children})
		case "oneOf":
			nodes = append(nodes, &ir.OneOf{Nodes: children})
		}
	}
	return squash(nodes), nil
}

func (c *compiler) compileNot(obj map[string]any, path, docID string, depth int) (ir.Node, error) {
	v, present := obj["not"]
	if !present {
		return nil, nil
	}
	n, err := c.compile(v, joinPointerField(path, "not"), docID, depth+1)
	if err != nil {
		return nil, err
	}
	return &ir.Not{Node: n}, nil
}

// compileConditional wires if/then/else. then and else without if are
// compiled so their own defects surface, but contribute nothing, per
// draft-07.
func (c *compiler) compileConditional(obj map[string]any, path, docID string, depth int) (ir.Node, error) {
	iv, hasIf := obj["if"]
	var thenNode, elseNode ir.Node
	if tv, present := obj["then"]; present {
		n, err := c.compile(tv, joinPointerField(path, "then"), docID, depth+1)
		if err != nil {
			return nil, err
		}
		thenNode = n
	}
	if ev, present := obj["else"]; present {
		n, err := c.compile(ev, joinPointerField(path, "else"), docID, depth+1)
		if err != nil {
			return nil, err
		}
		elseNode = n
	}
	if !hasIf {
		return nil, nil
	}
	ifNode, err := c.compile(iv, joinPointerField(path, "if"), docID, depth+1)
	if err != nil {
		return nil, err
	}
	return &ir.IfThenElse{If: ifNode, Then: thenNode, Else: elseNode}, nil
}

// squash collapses zero-or-one node lists so single keywords do not get
// wrapped in a spurious AllOf.
func squash(nodes []ir.Node) ir.Node {
	switch len(nodes) {
	case 0:
		return nil
	case 1:
		return nodes[0]
	}
	return &ir.AllOf{Nodes: nodes}
}

func nonNegativeInt(v any, kp, keyword string) (int, error) {
	r, ok := jsonval.Num(v)
	if !ok || !r.IsInt() {
		return 0, compileErr(kp, keyword, CodeInvalidKeyword, "must be an integer")
	}
	if r.Sign() < 0 {
		return 0, compileErr(kp, keyword, CodeInvalidKeyword, "must not be negative")
	}
	if !r.Num().IsInt64() || r.Num().Int64() > math.MaxInt {
		return 0, compileErr(kp, keyword, CodeInvalidKeyword, "out of range")
	}
	return int(r.Num().Int64()), nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func pathOrRoot(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
