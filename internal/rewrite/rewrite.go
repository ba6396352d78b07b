// Package rewrite adjusts snippet text around host-crossing accessor calls.
// When the host channel is suspending, every reserved accessor call must sit
// behind a suspension marker for the interpreter to accept it; when the
// channel is synchronous the markers must not be there. Users write plain
// calls either way, so the rewriter inserts or strips the markers for them.
//
// The call extent is located by a delimiter-balanced scan rather than text
// substitution: nesting depth is tracked across parentheses and the interior
// of string literals (including multi-character quote delimiters and escape
// sequences) is skipped, so a call containing another call as an argument is
// rewritten exactly once, at the outer level.
package rewrite

import (
	"sort"
	"strings"
)

// DefaultMarker is the suspension keyword inserted before accessor calls.
const DefaultMarker = "suspend"

// Rewriter rewrites one snippet grammar. The zero value is not usable; use
// New.
type Rewriter struct {
	marker    string
	accessors map[string]bool
	quotes    []string // longest first
	escape    byte
}

// Option adjusts a Rewriter.
type Option func(*Rewriter)

// WithMarker overrides the suspension keyword.
func WithMarker(marker string) Option {
	return func(r *Rewriter) { r.marker = marker }
}

// WithQuotes overrides the string-literal delimiters of the snippet grammar.
func WithQuotes(quotes ...string) Option {
	return func(r *Rewriter) { r.quotes = quotes }
}

// New builds a Rewriter for the given reserved accessor names. Defaults:
// marker "suspend", backslash escapes, and single/double/triple quotes.
func New(accessors []string, opts ...Option) *Rewriter {
	r := &Rewriter{
		marker:    DefaultMarker,
		accessors: make(map[string]bool, len(accessors)),
		quotes:    []string{`"""`, `'''`, `"`, `'`},
		escape:    '\\',
	}
	for _, a := range accessors {
		r.accessors[a] = true
	}
	for _, opt := range opts {
		opt(r)
	}
	// Longest delimiter must win the match at any position.
	sort.Slice(r.quotes, func(i, j int) bool { return len(r.quotes[i]) > len(r.quotes[j]) })
	return r
}

// Suspend wraps every top-level reserved accessor call `name(args)` as
// `(marker name(args))`. Calls already directly preceded by the marker are
// left alone, including their interiors, which makes the transform
// idempotent. No other text is touched.
func (r *Rewriter) Suspend(src string) string {
	var b strings.Builder
	b.Grow(len(src) + 16)
	i := 0
	for i < len(src) {
		if q := r.quoteAt(src, i); q != "" {
			j := r.skipLiteral(src, i, q)
			b.WriteString(src[i:j])
			i = j
			continue
		}
		if isIdentStart(src[i]) && (i == 0 || !isIdentChar(src[i-1])) {
			end := scanIdent(src, i)
			name := src[i:end]
			if r.accessors[name] {
				if o := skipSpace(src, end); o < len(src) && src[o] == '(' {
					if j := r.callEnd(src, o); j >= 0 {
						if r.precededByMarker(src, i) {
							// Already suspended: copy the call verbatim so
							// nested accessor calls stay untouched.
							b.WriteString(src[i : j+1])
						} else {
							b.WriteByte('(')
							b.WriteString(r.marker)
							b.WriteByte(' ')
							b.WriteString(src[i : j+1])
							b.WriteByte(')')
						}
						i = j + 1
						continue
					}
				}
			}
			b.WriteString(name)
			i = end
			continue
		}
		b.WriteByte(src[i])
		i++
	}
	return b.String()
}

// Desuspend strips the marker (and the whitespace binding it to the name)
// directly preceding reserved accessor calls. The full `(marker name(args))`
// form loses its wrapping parentheses too, so Desuspend inverts Suspend
// exactly and alternating the two transforms cannot accumulate parentheses.
func (r *Rewriter) Desuspend(src string) string {
	var b strings.Builder
	b.Grow(len(src))
	skipClose := make(map[int]bool)
	i := 0
	for i < len(src) {
		if q := r.quoteAt(src, i); q != "" {
			j := r.skipLiteral(src, i, q)
			b.WriteString(src[i:j])
			i = j
			continue
		}
		// A parenthesis directly after an identifier is a call's own, never
		// the wrapper Suspend emits.
		if src[i] == '(' && (i == 0 || !isIdentChar(src[i-1])) {
			if cl, name := r.wrappedMarkerForm(src, i); cl >= 0 {
				skipClose[cl] = true
				i = name // drop "(marker "; resume at the accessor name
				continue
			}
		}
		if src[i] == ')' && skipClose[i] {
			delete(skipClose, i)
			i++
			continue
		}
		if isIdentStart(src[i]) && (i == 0 || !isIdentChar(src[i-1])) {
			end := scanIdent(src, i)
			if src[i:end] == r.marker {
				if k := skipSpace(src, end); k > end && k < len(src) {
					ne := scanIdent(src, k)
					if ne > k && r.accessors[src[k:ne]] {
						if o := skipSpace(src, ne); o < len(src) && src[o] == '(' {
							i = k // drop the marker; rescan from the name
							continue
						}
					}
				}
			}
			b.WriteString(src[i:end])
			i = end
			continue
		}
		b.WriteByte(src[i])
		i++
	}
	return b.String()
}

// wrappedMarkerForm matches the exact shape Suspend emits at an opening
// parenthesis: `(marker name(args))` with a reserved accessor name. It
// returns the index of the wrapping close parenthesis and of the accessor
// name, or (-1, -1) when the shape does not match.
func (r *Rewriter) wrappedMarkerForm(src string, open int) (cl, name int) {
	k := skipSpace(src, open+1)
	m := scanIdent(src, k)
	if m == k || src[k:m] != r.marker {
		return -1, -1
	}
	n := skipSpace(src, m)
	if n == m {
		return -1, -1 // marker must be bound to the name by whitespace
	}
	ne := scanIdent(src, n)
	if ne == n || !r.accessors[src[n:ne]] {
		return -1, -1
	}
	o := skipSpace(src, ne)
	if o >= len(src) || src[o] != '(' {
		return -1, -1
	}
	j := r.callEnd(src, o)
	if j < 0 {
		return -1, -1
	}
	p := skipSpace(src, j+1)
	if p >= len(src) || src[p] != ')' {
		return -1, -1
	}
	return p, n
}

// callEnd returns the index of the parenthesis closing the call opened at
// open, or -1 when the source ends first. String literal interiors do not
// count toward nesting.
func (r *Rewriter) callEnd(src string, open int) int {
	depth := 0
	i := open
	for i < len(src) {
		if q := r.quoteAt(src, i); q != "" {
			i = r.skipLiteral(src, i, q)
			continue
		}
		switch src[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

// quoteAt returns the quote delimiter starting at i, or "".
func (r *Rewriter) quoteAt(src string, i int) string {
	for _, q := range r.quotes {
		if strings.HasPrefix(src[i:], q) {
			return q
		}
	}
	return ""
}

// skipLiteral advances past the string literal opened at i with delimiter q,
// honoring the escape byte. An unterminated literal runs to the end.
func (r *Rewriter) skipLiteral(src string, i int, q string) int {
	i += len(q)
	for i < len(src) {
		if src[i] == r.escape && i+1 < len(src) {
			i += 2
			continue
		}
		if strings.HasPrefix(src[i:], q) {
			return i + len(q)
		}
		i++
	}
	return len(src)
}

// precededByMarker reports whether the marker keyword directly precedes the
// identifier starting at pos, separated only by spaces.
func (r *Rewriter) precededByMarker(src string, pos int) bool {
	k := pos - 1
	for k >= 0 && (src[k] == ' ' || src[k] == '\t') {
		k--
	}
	if k < 0 || k == pos-1 {
		return false // no separating space, or start of source
	}
	end := k
	for k >= 0 && isIdentChar(src[k]) {
		k--
	}
	return src[k+1:end+1] == r.marker
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// scanIdent returns the index just past the identifier starting at i.
func scanIdent(src string, i int) int {
	for i < len(src) && isIdentChar(src[i]) {
		i++
	}
	return i
}

// skipSpace returns the index of the first non-space/tab byte at or after i.
func skipSpace(src string, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return i
}
