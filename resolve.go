package draft7

import (
	"net/url"
	"strings"

	"github.com/reoring/draft7/internal/ir"
)

// resolveRef turns a $ref string into a validator node. Resolution shares
// the compiler's cache keyed by (document, pointer) identity: a
// placeholder ir.Ref is registered before the target compiles, so a
// reference reaching the same identity while compilation of it is still
// in flight (a cycle) receives the shared indirection node instead of
// re-entering the compiler. draft-07 explicitly permits recursive and
// mutually-recursive schemas.
func (c *compiler) resolveRef(ref, path, docID string, depth int) (ir.Node, error) {
	kp := joinPointerField(path, "$ref")

	base, frag := ref, ""
	if i := strings.Index(ref, "#"); i >= 0 {
		base, frag = ref[:i], ref[i+1:]
	}

	targetID := docID
	if base != "" {
		targetID = resolveBase(docID, base)
	}
	doc, ok := c.document(targetID, base)
	if !ok {
		return nil, compileErr(kp, "$ref", CodeUnknownDocument, "document not in the supplied table", "ref", ref, "document", targetID)
	}

	key := refKey{doc: targetID, ptr: frag}
	if r, ok := c.cache[key]; ok {
		return r, nil
	}
	r := &ir.Ref{}
	c.cache[key] = r

	target, ok := navigatePointer(doc, frag)
	if !ok {
		delete(c.cache, key)
		return nil, compileErr(kp, "$ref", CodeUnresolvedRef, "pointer does not resolve", "ref", ref)
	}
	// The target compiles under its own pointer so that errors inside it
	// point at the target document, not at the referencing $ref.
	n, err := c.compile(target, frag, targetID, depth+1)
	if err != nil {
		delete(c.cache, key)
		return nil, err
	}
	r.Target = n
	if refChainClosed(r) {
		delete(c.cache, key)
		return nil, compileErr(kp, "$ref", CodeRefCycle, "reference cycle resolves to no schema", "ref", ref)
	}
	return r, nil
}

// refChainClosed reports whether following Target from r only ever
// reaches other references and comes back around. Such a schema has no
// concrete node to evaluate, so it is rejected at compile time; cycles
// that pass through a real keyword (the usual recursive case) terminate
// the walk and stay legal.
func refChainClosed(r *ir.Ref) bool {
	seen := map[*ir.Ref]bool{}
	for cur := r; ; {
		if seen[cur] {
			return true
		}
		seen[cur] = true
		next, ok := cur.Target.(*ir.Ref)
		if !ok {
			// A concrete node, or a reference still being resolved
			// further up the stack; the outer resolution re-checks.
			return false
		}
		cur = next
	}
}

// document looks up a reference target. The root document answers to ""
// and to its own $id; everything else comes from the caller-supplied
// table, tried first under the fully-resolved identifier and then under
// the reference's literal base.
func (c *compiler) document(id, base string) (any, bool) {
	if id == "" || id == c.rootID {
		return c.root, true
	}
	if d, ok := c.docs[id]; ok {
		return d, true
	}
	if base != "" && base != id {
		if d, ok := c.docs[base]; ok {
			return d, true
		}
	}
	return nil, false
}

// resolveBase absolutizes a reference base against the current document's
// identifier when both parse as URIs; otherwise the base stands alone.
func resolveBase(curID, base string) string {
	if curID == "" {
		return base
	}
	bu, err := url.Parse(base)
	if err != nil {
		return base
	}
	cu, err := url.Parse(curID)
	if err != nil {
		return base
	}
	return cu.ResolveReference(bu).String()
}
