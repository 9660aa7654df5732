package gowick

import (
	"fmt"
	"strings"
)

// Coefficient is a named scalar factor such as ε(k), U or V(k, q).
type Coefficient struct {
	Name     string
	Momenta  []Momentum
	Indices  []Index
	Daggered bool

	// InversionSymmetric declares c(k) = c(-k).
	InversionSymmetric bool
	// QChangesSign declares c(k+Q) = -c(k).
	QChangesSign bool
}

func (c Coefficient) Clone() Coefficient {
	c.Momenta = append([]Momentum(nil), c.Momenta...)
	c.Indices = append([]Index(nil), c.Indices...)
	return c
}

// Equal compares identity; the declared symmetries are not part of it.
func (c Coefficient) Equal(o Coefficient) bool {
	if c.Name != o.Name || c.Daggered != o.Daggered || len(c.Momenta) != len(o.Momenta) {
		return false
	}
	for i := range c.Momenta {
		if !c.Momenta[i].Equal(o.Momenta[i]) {
			return false
		}
	}
	return indicesEqual(c.Indices, o.Indices)
}

func (c Coefficient) compare(o Coefficient) int {
	if c.Name != o.Name {
		return strings.Compare(c.Name, o.Name)
	}
	for i := 0; i < len(c.Momenta) && i < len(o.Momenta); i++ {
		if r := c.Momenta[i].Compare(o.Momenta[i]); r != 0 {
			return r
		}
	}
	if len(c.Momenta) != len(o.Momenta) {
		return len(c.Momenta) - len(o.Momenta)
	}
	if r := compareIndices(c.Indices, o.Indices); r != 0 {
		return r
	}
	return boolCompare(c.Daggered, o.Daggered)
}

// String uses the notation accepted by ParseCoefficient.
func (c Coefficient) String() string {
	moms := make([]string, len(c.Momenta))
	for i, m := range c.Momenta {
		moms[i] = m.String()
	}
	s := fmt.Sprintf("%s{%s;%s}", c.Name, strings.Join(moms, ","), indexListString(c.Indices, Index.String))
	if c.Daggered {
		s += "^+"
	}
	return s
}

func (c Coefficient) LaTeX() string {
	var b strings.Builder
	b.WriteString(c.Name)
	if len(c.Indices) > 0 {
		b.WriteString("_{" + indexListString(c.Indices, Index.LaTeX) + "}")
	}
	if c.Daggered {
		b.WriteString("^*")
	}
	if len(c.Momenta) > 0 {
		moms := make([]string, len(c.Momenta))
		for i, m := range c.Momenta {
			moms[i] = m.LaTeX()
		}
		b.WriteString("(" + strings.Join(moms, ", ") + ")")
	}
	return b.String()
}

// ParseCoefficient parses "name{mom1,mom2;idx1,...}" with an optional
// trailing "^+" for the complex conjugate. "U" alone is a bare constant.
func ParseCoefficient(s string) (Coefficient, error) {
	in := s
	s = strings.TrimSpace(s)
	var c Coefficient
	if strings.HasSuffix(s, "^+") {
		c.Daggered = true
		s = strings.TrimSuffix(s, "^+")
	}
	open := strings.IndexByte(s, '{')
	if open < 0 {
		if s == "" {
			return Coefficient{}, &ParseError{Input: in, Reason: "empty coefficient name"}
		}
		c.Name = s
		return c, nil
	}
	if !strings.HasSuffix(s, "}") {
		return Coefficient{}, &ParseError{Input: in, Reason: "missing closing brace"}
	}
	c.Name = s[:open]
	if c.Name == "" {
		return Coefficient{}, &ParseError{Input: in, Reason: "empty coefficient name"}
	}
	body := s[open+1 : len(s)-1]
	momPart, idxPart, _ := strings.Cut(body, ";")
	if momPart = strings.TrimSpace(momPart); momPart != "" {
		for _, p := range strings.Split(momPart, ",") {
			m, err := ParseMomentum(p)
			if err != nil {
				return Coefficient{}, err
			}
			c.Momenta = append(c.Momenta, m)
		}
	}
	idx, err := parseIndexList(idxPart)
	if err != nil {
		return Coefficient{}, err
	}
	c.Indices = idx
	return c, nil
}

func boolCompare(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}
