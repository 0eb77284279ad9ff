package classify

import "strings"

// isRustSymbol reports whether name looks like a symbol produced by rustc:
// a legacy mangled path (_ZN...E) ending in a hash segment, the same path
// already demangled (a::b::h0123456789abcdef), or a v0 mangled symbol.
func isRustSymbol(name string) bool {
	switch {
	case strings.HasPrefix(name, "_ZN"):
		return isLegacyMangled(name[3:])
	case strings.HasPrefix(name, "_R"):
		return isV0Mangled(name[2:])
	default:
		return isDemangledWithHash(name)
	}
}

// isLegacyMangled walks <len><segment>... up to the closing E and requires
// the final segment to be the 17-character h-prefixed hash rustc appends.
// C++ symbols share the _ZN prefix but do not carry the hash.
func isLegacyMangled(s string) bool {
	var last string
	segments := 0

	for len(s) > 0 && s[0] != 'E' {
		lenEnd := 0
		for lenEnd < len(s) && s[lenEnd] >= '0' && s[lenEnd] <= '9' {
			lenEnd++
		}
		if lenEnd == 0 || lenEnd > 4 {
			return false
		}

		length := 0
		for i := 0; i < lenEnd; i++ {
			length = length*10 + int(s[i]-'0')
		}
		s = s[lenEnd:]

		if length == 0 || length > len(s) {
			return false
		}
		last = s[:length]
		s = s[length:]
		segments++
	}

	if len(s) == 0 || segments < 2 {
		return false
	}
	return isHashSegment(last)
}

// isV0Mangled parses the leading path of a v0 symbol (the part after _R):
// an optional encoding version, then a path that must bottom out in a crate
// root (C with an identifier). Generic arguments and impl self types are not
// decoded; only their shape is checked. A vendor suffix after '.' is ignored.
func isV0Mangled(s string) bool {
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
			return false
		}
	}
	for len(s) > 0 && s[0] >= '0' && s[0] <= '9' {
		s = s[1:]
	}
	// A backreference needs something earlier to point at.
	if s == "" || s[0] == 'B' {
		return false
	}
	p := v0Parser{s: s}
	if !p.path(0) {
		return false
	}
	// Whatever follows is the instantiating crate, itself a path.
	return p.s == "" || p.path(0) && p.s == 
}

// maxV0Depth bounds nesting so hostile names cannot recurse deeply.
const maxV0Depth = 64

type v0Parser struct {
	s   string
	lax bool
}

func (p *v0Parser) next() (byte, bool) {
	if p.s == "" {
		return 0, false
	}
	c := p.s[0]
	p.s = p.s[1:]
	return c, true
}

func (p *v0Parser) path(depth int) bool {
	if depth > maxV0Depth {
		return false
	}
	if p.lax {
		return true
	}
	tag, ok := p.next()
	if !ok {
		return false
	}
	switch tag {
	case 'C': // crate root
		return p.identifier()
	case 'N': // nested path: namespace, parent, name
		ns, ok := p.next()
		if !ok || !(ns >= 'a' && ns <= 'z' || ns >= 'A' && ns <= 'Z') {
			return false
		}
		return p.path(depth+1) && p.identifier()
	case 'I': // generic instantiation: path, args, E
		return p.path(depth+1) && p.genericArgs(depth+1)
	case 'M': // inherent impl: disambiguator, impl path, self type
		return p.disambiguator() && p.path(depth+1) && p.typ(depth+1)
	case 'X': // trait impl: disambiguator, impl path, self type, trait
		return p.disambiguator() && p.path(depth+1) && p.typ(depth+1) && p.pathOrRest(depth+1)
	case 'Y': // <T as Trait>
		return p.typ(depth+1) && p.pathOrRest(depth+1)
	case 'B': // backreference
		return p.base62()
	}
	return false
}

// basicTypes are the single-letter v0 type codes.
const basicTypes = "abcdefhijlmnopstuvxyz"

// typ consumes a type. Array, function and dyn types are not decoded: the
// rest of the symbol is accepted and the parser stops (lax).
func (p *v0Parser) typ(depth int) bool {
	if depth > maxV0Depth || p.s == "" {
		return false
	}
	if p.lax {
		return true
	}
	c := p.s[0]
	switch {
	case strings.IndexByte(basicTypes, c) >= 0:
		p.s = p.s[1:]
		return true
	case strings.IndexByte("CNMXYIB", c) >= 0:
		return p.path(depth)
	}
	p.s = p.s[1:]
	switch c {
	case 'R', 'Q': // &T, &mut T with an optional lifetime
		if p.s != "" && p.s[0] == 'L' {
			p.s = p.s[1:]
			if !p.base62() {
				return false
			}
		}
		return p.typ(depth + 1)
	case 'P', 'O', 'S': // raw pointers, slice
		return p.typ(depth + 1)
	case 'T': // tuple
		for {
			if p.lax {
				return true
			}
			if p.s == "" {
				return false
			}
			if p.s[0] == 'E' {
				p.s = p.s[1:]
				return true
			}
			if !p.typ(depth + 1) {
				return false
			}
		}
	case 'A', 'F', 'D':
		p.s = ""
		p.lax = true
		return true
	}
	return false
}

// genericArgs consumes lifetimes, types and consts up to the closing E.
func (p *v0Parser) genericArgs(depth int) bool {
	for {
		if p.lax {
			return true
		}
		if p.s == "" {
			return false
		}
		switch p.s[0] {
		case 'E':
			p.s = p.s[1:]
			return true
		case 'L':
			p.s = p.s[1:]
			if !p.base62() {
				return false
			}
		case 'K': // const generic: not decoded
			i := strings.LastIndexByte(p.s, 'E')
			if i < 0 {
				return false
			}
			p.s = p.s[i+1:]
			return true
		default:
			if !p.typ(depth) {
				return false
			}
		}
	}
}

// pathOrRest parses a path unless an earlier type gave up decoding.
func (p *v0Parser) pathOrRest(depth int) bool {
	return p.lax || p.path(depth)
}

// disambiguator consumes an optional s<base-62-number>.
func (p *v0Parser) disambiguator() bool {
	if p.s != "" && p.s[0] == 's' {
		p.s = p.s[1:]
		return p.base62()
	}
	return true
}

// base62 consumes [0-9a-zA-Z]* followed by '_'.
func (p *v0Parser) base62() bool {
	i := strings.IndexByte(p.s, '_')
	if i < 0 {
		return false
	}
	p.s = p.s[i+1:]
	return true
}

// identifier consumes [disambiguator] [u] <decimal> [_] <bytes>.
func (p *v0Parser) identifier() bool {
	if p.lax {
		return true
	}
	if !p.disambiguator() {
		return false
	}
	if p.s != "" && p.s[0] == 'u' {
		p.s = p.s[1:]
	}
	n, digits := 0, 0
	for digits < len(p.s) && p.s[digits] >= '0' && p.s[digits] <= '9' {
		n = n*10 + int(p.s[digits]-'0')
		digits++
		if digits > 4 {
			return false
		}
	}
	if digits == 0 || digits > 1 && p.s[0] == '0' {
		return false
	}
	p.s = p.s[digits:]
	if p.s != "" && p.s[0] == '_' {
		p.s = p.s[1:]
	}
	if n > len(p.s) {
		return false
	}
	p.s = p.s[n:]
	return true
}

func isDemangledWithHash(name string) bool {
	i := strings.LastIndex(name, "::")
	if i <= 0 {
		return false
	}
	return isHashSegment(name[i+2:])
}

func isHashSegment(part string) bool {
	if len(part) != 17 || part[0] != 'h' {
		return false
	}
	for i := 1; i < 17; i++ {
		c := part[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}
