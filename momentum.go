package gowick

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ============================================================
// Momentum
// ============================================================

// Symbol names a momentum variable, e.g. 'k' or 'q'.
type Symbol rune

func (s Symbol) String() string { return string(s) }

// MomentumTerm is Factor·Name.
type MomentumTerm struct {
	Factor int
	Name   Symbol
}

// Momentum is a linear combination of symbols plus an optional ordering
// vector Q. Terms are kept sorted by name with no zero factors, so two equal
// momenta are structurally equal. Q is its own inverse (Q + Q = 0).
type Momentum struct {
	Terms []MomentumTerm
	AddQ  bool
}

// Mom returns the momentum consisting of the single symbol name.
func Mom(name rune) Momentum {
	return Momentum{Terms: []MomentumTerm{{Factor: 1, Name: Symbol(name)}}}
}

// MomQ returns the bare ordering vector Q.
func MomQ() Momentum { return Momentum{AddQ: true} }

// NewMomentum builds a normalized momentum from arbitrary terms.
func NewMomentum(addQ bool, terms ...MomentumTerm) Momentum {
	m := Momentum{AddQ: addQ}
	for _, t := range terms {
		m = m.addTerm(t)
	}
	return m
}

func (m Momentum) addTerm(t MomentumTerm) Momentum {
	if t.Factor == 0 {
		return m
	}
	out := make([]MomentumTerm, 0, len(m.Terms)+1)
	placed := false
	for _, own := range m.Terms {
		switch {
		case own.Name == t.Name:
			if f := own.Factor + t.Factor; f != 0 {
				out = append(out, MomentumTerm{Factor: f, Name: own.Name})
			}
			placed = true
		case !placed && t.Name < own.Name:
			out = append(out, t, own)
			placed = true
		default:
			out = append(out, own)
		}
	}
	if !placed {
		out = append(out, t)
	}
	return Momentum{Terms: out, AddQ: m.AddQ}
}

// Add returns m + o.
func (m Momentum) Add(o Momentum) Momentum {
	res := Momentum{Terms: append([]MomentumTerm(nil), m.Terms...), AddQ: m.AddQ != o.AddQ}
	for _, t := range o.Terms {
		res = res.addTerm(t)
	}
	return res
}

// Sub returns m - o.
func (m Momentum) Sub(o Momentum) Momentum { return m.Add(o.Neg()) }

// Neg returns -m. Q is left as is since -Q ≡ Q.
func (m Momentum) Neg() Momentum { return m.Scale(-1) }

// Scale multiplies every factor by n. Even n drops Q.
func (m Momentum) Scale(n int) Momentum {
	if n == 0 {
		return Momentum{}
	}
	out := make([]MomentumTerm, len(m.Terms))
	for i, t := range m.Terms {
		out[i] = MomentumTerm{Factor: t.Factor * n, Name: t.Name}
	}
	return Momentum{Terms: out, AddQ: m.AddQ && n%2 != 0}
}

// Factor returns the coefficient of name (0 if absent).
func (m Momentum) Factor(name Symbol) int {
	for _, t := range m.Terms {
		if t.Name == name {
			return t.Factor
		}
	}
	return 0
}

// Uses reports whether name occurs in m.
func (m Momentum) Uses(name Symbol) bool { return m.Factor(name) != 0 }

// Replace substitutes name → with. Panics if with itself contains name.
func (m Momentum) Replace(name Symbol, with Momentum) Momentum {
	if with.Uses(name) {
		panic("gowick: momentum replacement " + string(name) + " -> " + with.String() + " is self-referential")
	}
	f := m.Factor(name)
	if f == 0 {
		return m
	}
	rest := m.without(name)
	return rest.Add(with.Scale(f))
}

// Rename maps symbols through table without the self-reference check.
// Symbols absent from table keep their name.
func (m Momentum) Rename(table map[Symbol]Symbol) Momentum {
	res := Momentum{AddQ: m.AddQ}
	for _, t := range m.Terms {
		if to, ok := table[t.Name]; ok {
			t.Name = to
		}
		res = res.addTerm(t)
	}
	return res
}

// FlipSingle negates the coefficient of name.
func (m Momentum) FlipSingle(name Symbol) Momentum {
	out := make([]MomentumTerm, len(m.Terms))
	for i, t := range m.Terms {
		if t.Name == name {
			t.Factor = -t.Factor
		}
		out[i] = t
	}
	return Momentum{Terms: out, AddQ: m.AddQ}
}

func (m Momentum) without(name Symbol) Momentum {
	out := make([]MomentumTerm, 0, len(m.Terms))
	for _, t := range m.Terms {
		if t.Name != name {
			out = append(out, t)
		}
	}
	return Momentum{Terms: out, AddQ: m.AddQ}
}

// IsZero reports m == 0 (no symbols and no Q).
func (m Momentum) IsZero() bool { return len(m.Terms) == 0 && !m.AddQ }

// IsQ reports m == Q.
func (m Momentum) IsQ() bool { return len(m.Terms) == 0 && m.AddQ }

// DiffersOnlyInQ reports whether m and o share every symbol but not Q.
func (m Momentum) DiffersOnlyInQ(o Momentum) bool { return m.Sub(o).IsQ() }

// LeadingNegative reports whether the first term carries a negative factor.
func (m Momentum) LeadingNegative() bool {
	return len(m.Terms) > 0 && m.Terms[0].Factor < 0
}

// Symbols lists the symbols of m in order.
func (m Momentum) Symbols() []Symbol {
	out := make([]Symbol, len(m.Terms))
	for i, t := range m.Terms {
		out[i] = t.Name
	}
	return out
}

func (m Momentum) Equal(o Momentum) bool {
	if m.AddQ != o.AddQ || len(m.Terms) != len(o.Terms) {
		return false
	}
	for i := range m.Terms {
		if m.Terms[i] != o.Terms[i] {
			return false
		}
	}
	return true
}

// Compare is a total order used for canonical sorting.
func (m Momentum) Compare(o Momentum) int {
	for i := 0; i < len(m.Terms) && i < len(o.Terms); i++ {
		a, b := m.Terms[i], o.Terms[i]
		if a.Name != b.Name {
			if a.Name < b.Name {
				return -1
			}
			return 1
		}
		if a.Factor != b.Factor {
			if a.Factor > b.Factor {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(m.Terms) < len(o.Terms):
		return -1
	case len(m.Terms) > len(o.Terms):
		return 1
	case m.AddQ == o.AddQ:
		return 0
	case !m.AddQ:
		return -1
	}
	return 1
}

// String renders m in the notation accepted by ParseMomentum,
// e.g. "k-2q+Q", "0" or "Q".
func (m Momentum) String() string {
	if m.IsZero() {
		return "0"
	}
	var b strings.Builder
	for i, t := range m.Terms {
		switch {
		case t.Factor < 0:
			b.WriteByte('-')
		case i > 0:
			b.WriteByte('+')
		}
		if abs := absInt(t.Factor); abs != 1 {
			b.WriteString(strconv.Itoa(abs))
		}
		b.WriteRune(rune(t.Name))
	}
	if m.AddQ {
		if len(m.Terms) > 0 {
			b.WriteByte('+')
		}
		b.WriteByte('Q')
	}
	return b.String()
}

// LaTeX renders m for inclusion in math mode.
func (m Momentum) LaTeX() string {
	s := m.String()
	if m.AddQ {
		s = strings.TrimSuffix(s, "Q") + `\vec{Q}`
	}
	return s
}

// ParseMomentum parses expressions such as "k", "-k+2q", "k-q+Q" or "0".
func ParseMomentum(s string) (Momentum, error) {
	in := s
	s = strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if s == "" {
		return Momentum{}, &ParseError{Input: in, Reason: "empty momentum"}
	}
	if s == "0" {
		return Momentum{}, nil
	}
	var (
		terms []MomentumTerm
		addQ  bool
	)
	pos := 0
	for pos < len(s) {
		sign := 1
		switch s[pos] {
		case '+':
			pos++
		case '-':
			sign = -1
			pos++
		default:
			if pos > 0 {
				return Momentum{}, &ParseError{Input: in, Reason: "expected sign at " + strconv.Itoa(pos)}
			}
		}
		start := pos
		for pos < len(s) && s[pos] >= '0' && s[pos] <= '9' {
			pos++
		}
		factor := 1
		if pos > start {
			f, err := strconv.Atoi(s[start:pos])
			if err != nil {
				return Momentum{}, &ParseError{Input: in, Reason: err.Error()}
			}
			factor = f
		}
		if pos >= len(s) {
			return Momentum{}, &ParseError{Input: in, Reason: "missing symbol"}
		}
		r, size := utf8.DecodeRuneInString(s[pos:])
		if r == utf8.RuneError {
			return Momentum{}, &ParseError{Input: in, Reason: "invalid UTF-8 at " + strconv.Itoa(pos)}
		}
		pos += size
		switch {
		case r == 'Q':
			if factor%2 != 0 {
				addQ = !addQ
			}
		case unicode.IsLetter(r):
			terms = append(terms, MomentumTerm{Factor: sign * factor, Name: Symbol(r)})
		default:
			return Momentum{}, &ParseError{Input: in, Reason: "unexpected character " + strconv.QuoteRune(r)}
		}
	}
	return NewMomentum(addQ, terms...), nil
}

// MustParseMomentum is ParseMomentum that panics on error. Intended for
// literals in model definitions and tests.
func MustParseMomentum(s string) Momentum {
	m, err := ParseMomentum(s)
	if err != nil {
		panic(err)
	}
	return m
}

// sortSymbols sorts in place and returns syms.
func sortSymbols(syms []Symbol) []Symbol {
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
