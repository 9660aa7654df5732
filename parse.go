package gowick

import (
	"strings"
)

// ============================================================
// Textual notation
// ============================================================
//
// A term is a whitespace separated token list:
//
//	[factor] sum:momentum{k,q} sum:index{sigma} c:eps{k;} \
//	    delta:momentum{k,q} delta:index{sigma,up} c{k;sigma}^+ c{q;sigma}
//
// The leading factor ("2", "-1/2") is optional and defaults to 1. Input
// terms use c{...} / b{...} ladder operators; contracted terms use
// o:type{...} expectation values.

// scalarPart is the operator-independent part shared by Term and WickTerm.
type scalarPart struct {
	prefactor      Rational
	coefficients   []Coefficient
	sums           SumContainer
	momentumDeltas []MomentumDelta
	indexDeltas    []IndexDelta
}

// ParseTerm parses an input term.
func ParseTerm(s string) (Term, error) {
	var ops []Operator
	sp, err := parseTokens(s, func(tok string) (bool, error) {
		var fermion bool
		switch {
		case strings.HasPrefix(tok, "c{"):
			fermion = true
		case strings.HasPrefix(tok, "b{"):
		default:
			return false, nil
		}
		_, m, idx, dag, err := splitOperatorNotation(tok)
		if err != nil {
			return true, err
		}
		ops = append(ops, Operator{Momentum: m, Indices: idx, Daggered: dag, IsFermion: fermion})
		return true, nil
	})
	if err != nil {
		return Term{}, err
	}
	return Term{
		Prefactor:      sp.prefactor,
		Coefficients:   sp.coefficients,
		Sums:           sp.sums,
		Operators:      ops,
		MomentumDeltas: sp.momentumDeltas,
		IndexDeltas:    sp.indexDeltas,
	}, nil
}

// ParseTerms parses one term per non-empty line; lines starting with '#'
// are comments.
func ParseTerms(text string) ([]Term, error) {
	var out []Term
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := ParseTerm(line)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// ParseWickTerm parses a contracted term.
func ParseWickTerm(s string) (WickTerm, error) {
	var ops []WickOperator
	sp, err := parseTokens(s, func(tok string) (bool, error) {
		body, ok := strings.CutPrefix(tok, "o:")
		if !ok {
			return false, nil
		}
		op, err := ParseWickOperator(body)
		if err != nil {
			return true, err
		}
		ops = append(ops, op)
		return true, nil
	})
	if err != nil {
		return WickTerm{}, err
	}
	return WickTerm{
		Prefactor:      sp.prefactor,
		Coefficients:   sp.coefficients,
		Sums:           sp.sums,
		Operators:      ops,
		MomentumDeltas: sp.momentumDeltas,
		IndexDeltas:    sp.indexDeltas,
	}, nil
}

// ParseWickTerms parses one contracted term per non-empty line.
func ParseWickTerms(text string) (WickTermCollector, error) {
	var out WickTermCollector
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		t, err := ParseWickTerm(line)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func parseTokens(s string, operator func(tok string) (bool, error)) (scalarPart, error) {
	sp := scalarPart{prefactor: R(1)}
	fields := strings.Fields(s)
	for i, tok := range fields {
		if i == 0 && startsNumeric(tok) {
			r, err := ParseRational(tok)
			if err != nil {
				return scalarPart{}, err
			}
			sp.prefactor = r
			continue
		}
		if handled, err := operator(tok); handled || err != nil {
			if err != nil {
				return scalarPart{}, err
			}
			continue
		}
		if err := sp.parseScalarToken(tok); err != nil {
			return scalarPart{}, err
		}
	}
	return sp, nil
}

func (sp *scalarPart) parseScalarToken(tok string) error {
	kind, body, ok := strings.Cut(tok, ":")
	if !ok {
		return &ParseError{Input: tok, Reason: "unknown token"}
	}
	switch kind {
	case "c":
		c, err := ParseCoefficient(body)
		if err != nil {
			return err
		}
		sp.coefficients = append(sp.coefficients, c)
		return nil
	case "sum":
		return sp.parseSum(tok, body)
	case "delta":
		return sp.parseDelta(tok, body)
	}
	return &ParseError{Input: tok, Reason: "unknown token kind " + kind}
}

func (sp *scalarPart) parseSum(tok, body string) error {
	kind, list, err := braced(tok, body)
	if err != nil {
		return err
	}
	switch kind {
	case "momentum":
		for _, name := range strings.Split(list, ",") {
			name = strings.TrimSpace(name)
			r := []rune(name)
			if len(r) != 1 {
				return &ParseError{Input: tok, Reason: "momentum sum symbols are single letters"}
			}
			sp.sums.Momenta = append(sp.sums.Momenta, Symbol(r[0]))
		}
	case "index":
		idx, err := parseIndexList(list)
		if err != nil {
			return err
		}
		sp.sums.Spins = append(sp.sums.Spins, idx...)
	default:
		return &ParseError{Input: tok, Reason: "unknown sum kind " + kind}
	}
	return nil
}

func (sp *scalarPart) parseDelta(tok, body string) error {
	kind, list, err := braced(tok, body)
	if err != nil {
		return err
	}
	a, b, ok := strings.Cut(list, ",")
	if !ok {
		return &ParseError{Input: tok, Reason: "delta needs two arguments"}
	}
	switch kind {
	case "momentum":
		ma, err := ParseMomentum(a)
		if err != nil {
			return err
		}
		mb, err := ParseMomentum(b)
		if err != nil {
			return err
		}
		sp.momentumDeltas = append(sp.momentumDeltas, Delta(ma, mb))
	case "index":
		ia, err := ParseIndex(a)
		if err != nil {
			return err
		}
		ib, err := ParseIndex(b)
		if err != nil {
			return err
		}
		sp.indexDeltas = append(sp.indexDeltas, Delta(ia, ib))
	default:
		return &ParseError{Input: tok, Reason: "unknown delta kind " + kind}
	}
	return nil
}

// braced splits "kind{list}".
func braced(tok, body string) (kind, list string, err error) {
	open := strings.IndexByte(body, '{')
	if open <= 0 || !strings.HasSuffix(body, "}") {
		return "", "", &ParseError{Input: tok, Reason: "expected kind{...}"}
	}
	return body[:open], body[open+1 : len(body)-1], nil
}

func startsNumeric(tok string) bool {
	if tok == "" {
		return false
	}
	c := tok[0]
	if c == '-' || c == '+' {
		if len(tok) == 1 {
			return false
		}
		c = tok[1]
	}
	return c >= '0' && c <= '9'
}
