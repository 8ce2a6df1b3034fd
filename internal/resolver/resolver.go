package resolver

import (
	"strings"

	"github.com/arayel/squrl/internal/objectmodel"
)

// Resolver performs `{{NAME}}` substitution for a single request build. A
// new Resolver should be created per build so that builtin generator
// samples (NOW, TIMESTAMP, UUIDv4, UUIDv7) are cached for the duration of
// that one build only, per spec.md §4.3.
type Resolver struct {
	scoped  *objectmodel.Environment
	global  *objectmodel.Environment
	cache   map[string]string
}

// New returns a Resolver that looks up names first in scoped, then global,
// then the OS environment snapshot, then builtins. Either environment may
// be nil.
func New(scoped, global *objectmodel.Environment) *Resolver {
	return &Resolver{scoped: scoped, global: global, cache: make(map[string]string)}
}

// isNameByte reports whether b is a legal character in a `{{NAME}}` token,
// matching spec.md §4.3's grammar `[A-Za-z_][A-Za-z0-9_]*`.
func isNameStartByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isNameByte(b byte) bool {
	return isNameStartByte(b) || (b >= '0' && b <= '9')
}

// Substitute performs one left-to-right, non-recursive pass over input,
// replacing every well-formed `{{NAME}}` token with its resolved value.
// Unknown names are left literal, braces and all. Text produced by a
// substitution is never re-scanned, so `{{A}}` resolving to the literal
// string `{{B}}` does not trigger a second substitution of `{{B}}`
// (spec.md §8 property 4).
func (r *Resolver) Substitute(input string) string {
	var out strings.Builder
	i := 0
	for i < len(input) {
		if i+1 < len(input) && input[i] == '{' && input[i+1] == '{' {
			if name, end, ok := scanName(input, i+2); ok {
				if value, found := r.lookup(name); found {
					out.WriteString(value)
					i = end
					continue
				}
			}
		}
		out.WriteByte(input[i])
		i++
	}
	return out.String()
}

// scanName attempts to read a `NAME}}` closing a `{{` token starting at
// start. It returns the name, the index just past the closing `}}`, and
// whether a well-formed token was found.
func scanName(input string, start int) (string, int, bool) {
	if start >= len(input) || !isNameStartByte(input[start]) {
		return "", 0, false
	}
	j := start + 1
	for j < len(input) && isNameByte(input[j]) {
		j++
	}
	if j+1 >= len(input) || input[j] != '}' || input[j+1] != '}' {
		return "", 0, false
	}
	return input[start:j], j + 2, true
}

// lookup resolves name through the layered order of spec.md §4.3:
// collection-scoped env, global env, OS env snapshot, builtins.
func (r *Resolver) lookup(name string) (string, bool) {
	if r.scoped != nil {
		if v, ok := r.scoped.Values.Get(name); ok {
			return v, true
		}
	}
	if r.global != nil {
		if v, ok := r.global.Values.Get(name); ok {
			return v, true
		}
	}
	if v, ok := osEnvSnapshot[name]; ok {
		return v, true
	}
	if cached, ok := r.cache[name]; ok {
		return cached, true
	}
	if gen, ok := builtinNames[name]; ok {
		value := gen()
		r.cache[name] = value
		return value, true
	}
	return "", false
}
