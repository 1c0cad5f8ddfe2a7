package queryir

import "strings"

// Wildcard is the only pattern metacharacter. It matches any run of
// characters, including the empty run.
const Wildcard = "*"

// Pattern is a compiled glob anchored at both ends.
//
// Every character other than Wildcard is matched literally, so "4.5*"
// matches "4.5" and "4.56" but not "4x5".
type Pattern struct {
	glob     string
	segments []string // glob split on Wildcard; len(segments)-1 wildcards
}

// CompilePattern compiles a glob. Compilation cannot fail.
func CompilePattern(glob string) Pattern {
	return Pattern{
		glob:     glob,
		segments: strings.Split(glob, Wildcard),
	}
}

// HasWildcard reports whether s contains the wildcard token.
func HasWildcard(s string) bool {
	return strings.Contains(s, Wildcard)
}

// String returns the source glob.
func (p Pattern) String() string {
	return p.glob
}

// Match reports whether s matches the whole pattern.
func (p Pattern) Match(s string) bool {
	if len(p.segments) <= 1 {
		return s == p.glob
	}

	first := p.segments[0]
	last := p.segments[len(p.segments)-1]
	if !strings.HasPrefix(s, first) {
		return false
	}
	rest := s[len(first):]
	if len(rest) < len(last) || !strings.HasSuffix(rest, last) {
		return false
	}

	// Middle segments must appear in order within what remains between the
	// anchored prefix and suffix; leftmost placement is always safe.
	middle := rest[:len(rest)-len(last)]
	for _, seg := range p.segments[1 : len(p.segments)-1] {
		idx := strings.Index(middle, seg)
		if idx < 0 {
			return false
		}
		middle = middle[idx+len(seg):]
	}
	return true
}
