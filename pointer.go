package draft7

import (
	"net/url"
	"strconv"
	"strings"
)

// JSON Pointer helpers (RFC 6901) used for two things: building the
// schema-location paths carried by CompileError, and navigating documents
// when resolving $ref fragments.

// escapeSegment applies '~' -> '~0', '/' -> '~1'.
func escapeSegment(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}

// unescapeSegment reverses escapeSegment; order matters.
func unescapeSegment(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~1", "/"), "~0", "~")
}

// joinPointer appends an already-escaped segment to a pointer path.
func joinPointer(base, segment string) string {
	if base == "" || base == "/" {
		return "/" + segment
	}
	return base + "/" + segment
}

func joinPointerField(base, name string) string {
	return joinPointer(base, escapeSegment(name))
}

func joinPointerIndex(base string, i int) string {
	return joinPointer(base, strconv.Itoa(i))
}

// navigatePointer walks doc by the fragment pointer (leading '#' and '/'
// already stripped into segments by the caller being unnecessary — the
// raw fragment after '#' is accepted). Segments may be percent-encoded
// as they appear inside URI fragments.
func navigatePointer(doc any, fragment string) (any, bool) {
	if fragment == "" {
		return doc, true
	}
	// Plain-name fragments ($id anchors) are not pointers; they are out of
	// scope and must fail resolution rather than guess.
	if !strings.HasPrefix(fragment, "/") {
		return nil, false
	}
	cur := doc
	for _, raw := range strings.Split(strings.TrimPrefix(fragment, "/"), "/") {
		seg := raw
		if dec, err := url.PathUnescape(seg); err == nil {
			seg = dec
		}
		seg = unescapeSegment(seg)
		switch c := cur.(type) {
		case map[string]any:
			next, ok := c[seg]
			if !ok {
				return nil, false
			}
			cur = next
		case []any:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(c) {
				return nil, false
			}
			cur = c[idx]
		default:
			return nil, false
		}
	}
	return cur, true
}
