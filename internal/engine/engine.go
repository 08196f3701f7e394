// Package engine evaluates a compiled validator node tree against an
// instance value. Evaluation is pure and total: it returns a verdict for
// any well-formed value and never errors. Keywords that do not apply to
// the instance's JSON type pass by default, per draft-07.
package engine

import (
	"fmt"
	"math/big"

	"github.com/reoring/draft7/internal/ir"
	"github.com/reoring/draft7/internal/jsonval"
)

// Eval walks the node tree and reports whether instance conforms.
func Eval(n ir.Node, instance any) bool {
	switch n := n.(type) {
	case *ir.Accept:
		return true
	case *ir.Reject:
		return false
	case *ir.Const:
		return jsonval.Equal(n.Value, instance)
	case *ir.Type:
		return evalType(n, instance)
	case *ir.Enum:
		for _, v := range n.Values {
			if jsonval.Equal(v, instance) {
				return true
			}
		}
		return false
	case *ir.Minimum:
		v, ok := jsonval.Num(instance)
		if !ok {
			return true
		}
		cmp := v.Cmp(n.Bound)
		if n.Exclusive {
			return cmp > 0
		}
		return cmp >= 0
	case *ir.Maximum:
		v, ok := jsonval.Num(instance)
		if !ok {
			return true
		}
		cmp := v.Cmp(n.Bound)
		if n.Exclusive {
			return cmp < 0
		}
		return cmp <= 0
	case *ir.MultipleOf:
		v, ok := jsonval.Num(instance)
		if !ok {
			return true
		}
		return new(big.Rat).Quo(v, n.Divisor).IsInt()
	case *ir.MinLength:
		s, ok := instance.(string)
		return !ok || jsonval.RuneLen(s) >= n.N
	case *ir.MaxLength:
		s, ok := instance.(string)
		return !ok || jsonval.RuneLen(s) <= n.N
	case *ir.Pattern:
		s, ok := instance.(string)
		return !ok || n.Re.MatchString(s)
	case *ir.AllOf:
		for _, c := range n.Nodes {
			if !Eval(c, instance) {
				return false
			}
		}
		return true
	case *ir.AnyOf:
		for _, c := range n.Nodes {
			if Eval(c, instance) {
				return true
			}
		}
		return false
	case *ir.OneOf:
		matched := 0
		for _, c := range n.Nodes {
			if Eval(c, instance) {
				matched++
				if matched > 1 {
					return false
				}
			}
		}
		return matched == 1
	case *ir.Not:
		return !Eval(n.Node, instance)
	case *ir.IfThenElse:
		if Eval(n.If, instance) {
			return n.Then == nil || Eval(n.Then, instance)
		}
		return n.Else == nil || Eval(n.Else, instance)
	case *ir.Properties:
		return evalProperties(n, instance)
	case *ir.Required:
		obj, ok := instance.(map[string]any)
		if !ok {
			return true
		}
		for _, name := range n.Names {
			if _, present := obj[name]; !present {
				return false
			}
		}
		return true
	case *ir.PropertyNames:
		obj, ok := instance.(map[string]any)
		if !ok {
			return true
		}
		for name := range obj {
			if !Eval(n.Node, name) {
				return false
			}
		}
		return true
	case *ir.Dependencies:
		return evalDependencies(n, instance)
	case *ir.Items:
		return evalItems(n, instance)
	case *ir.MinItems:
		arr, ok := instance.([]any)
		return !ok || len(arr) >= n.N
	case *ir.MaxItems:
		arr, ok := instance.([]any)
		return !ok || len(arr) <= n.N
	case *ir.UniqueItems:
		arr, ok := instance.([]any)
		if !ok {
			return true
		}
		for i := 0; i < len(arr); i++ {
			for j := i + 1; j < len(arr); j++ {
				if jsonval.Equal(arr[i], arr[j]) {
					return false
				}
			}
		}
		return true
	case *ir.MinProperties:
		obj, ok := instance.(map[string]any)
		return !ok || len(obj) >= n.N
	case *ir.MaxProperties:
		obj, ok := instance.(map[string]any)
		return !ok || len(obj) <= n.N
	case *ir.Contains:
		arr, ok := instance.([]any)
		if !ok {
			return true
		}
		for _, el := range arr {
			if Eval(n.Node, el) {
				return true
			}
		}
		return false
	case *ir.Ref:
		return Eval(n.Target, instance)
	}
	panic(fmt.Sprintf("engine: unknown node %T", n))
}

func evalType(n *ir.Type, instance any) bool {
	got, ok := jsonval.TypeOf(instance)
	if !ok {
		return false
	}
	for _, want := range n.Types {
		if got == want {
			return true
		}
		if want == "integer" && got == "number" && jsonval.IsInteger(instance) {
			return true
		}
	}
	return false
}

func evalProperties(n *ir.Properties, instance any) bool {
	obj, ok := instance.(map[string]any)
	if !ok {
		return true
	}
	for name, value := range obj {
		covered := false
		if child, ok := n.Named[name]; ok {
			covered = true
			if !Eval(child, value) {
				return false
			}
		}
		for _, p := range n.Patterns {
			if p.Re.MatchString(name) {
				covered = true
				if !Eval(p.Node, value) {
					return false
				}
			}
		}
		if !covered && n.Additional != nil && !Eval(n.Additional, value) {
			return false
		}
	}
	return true
}

func evalDependencies(n *ir.Dependencies, instance any) bool {
	obj, ok := instance.(map[string]any)
	if !ok {
		return true
	}
	for _, dep := range n.Entries {
		if _, present := obj[dep.Name]; !present {
			continue
		}
		if dep.Schema != nil {
			if !Eval(dep.Schema, instance) {
				return false
			}
			continue
		}
		for _, name := range dep.Required {
			if _, present := obj[name]; !present {
				return false
			}
		}
	}
	return true
}

func evalItems(n *ir.Items, instance any) bool {
	arr, ok := instance.([]any)
	if !ok {
		return true
	}
	if n.Single != nil {
		for _, el := range arr {
			if !Eval(n.Single, el) {
				return false
			}
		}
		return true
	}
	for i, el := range arr {
		if i < len(n.Tuple) {
			if !Eval(n.Tuple[i], el) {
				return false
			}
			continue
		}
		if n.Additional != nil && !Eval(n.Additional, el) {
			return false
		}
	}
	return true
}
