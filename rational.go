package gowick

import (
	"fmt"
	"math/big"
	"strings"
)

// ============================================================
// Rational prefactors
// ============================================================

// Rational is an immutable rational number. Every arithmetic method
// allocates a fresh value, so Rationals may be shared between terms.
type Rational struct{ *big.Rat }

// R returns the integer n as a Rational.
func R(n int64) Rational { return Rational{big.NewRat(n, 1)} }

// RFrac returns a/b. Panics if b is zero.
func RFrac(a, b int64) Rational {
	if b == 0 {
		panic("gowick: zero denominator")
	}
	return Rational{big.NewRat(a, b)}
}

func (r Rational) rat() *big.Rat {
	if r.Rat == nil {
		return new(big.Rat)
	}
	return r.Rat
}

func (r Rational) Add(o Rational) Rational { return Rational{new(big.Rat).Add(r.rat(), o.rat())} }
func (r Rational) Sub(o Rational) Rational { return Rational{new(big.Rat).Sub(r.rat(), o.rat())} }
func (r Rational) Mul(o Rational) Rational { return Rational{new(big.Rat).Mul(r.rat(), o.rat())} }
func (r Rational) Neg() Rational           { return Rational{new(big.Rat).Neg(r.rat())} }
func (r Rational) IsZero() bool            { return r.rat().Sign() == 0 }
func (r Rational) IsOne() bool             { return r.rat().Cmp(big.NewRat(1, 1)) == 0 }
func (r Rational) Cmp(o Rational) int      { return r.rat().Cmp(o.rat()) }
func (r Rational) Sign() int               { return r.rat().Sign() }

// MulInt multiplies by a small integer factor.
func (r Rational) MulInt(n int) Rational {
	return Rational{new(big.Rat).Mul(r.rat(), big.NewRat(int64(n), 1))}
}

func (r Rational) String() string { return r.rat().RatString() }

// LaTeX renders the value with an explicit sign, e.g. "+1" or "-\frac{1}{2}".
func (r Rational) LaTeX() string {
	v := r.rat()
	sign := "+"
	if v.Sign() < 0 {
		sign = "-"
	}
	abs := new(big.Rat).Abs(v)
	if abs.IsInt() {
		return sign + abs.Num().String()
	}
	return fmt.Sprintf(`%s\frac{%s}{%s}`, sign, abs.Num().String(), abs.Denom().String())
}

// ParseRational accepts "n", "-n" and "p/q".
func ParseRational(s string) (Rational, error) {
	s = strings.TrimSpace(s)
	v, ok := new(big.Rat).SetString(s)
	if !ok || strings.ContainsAny(s, ".eE") {
		return Rational{}, &ParseError{Input: s, Reason: "not a rational number"}
	}
	return Rational{v}, nil
}
