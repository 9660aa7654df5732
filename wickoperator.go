package gowick

import (
	"fmt"
	"strings"
)

// ============================================================
// Expectation-value operators
// ============================================================

// OperatorType identifies the kind of expectation value.
type OperatorType int

const (
	NumberType OperatorType = iota // n: <c^† c>
	CDWType                        // g: <c^† c> at momentum transfer Q
	SCType                         // f: <c c>
	EtaType                        // η: <c c> at momentum transfer Q

	UndefinedType OperatorType = 255
)

var operatorTypeNames = map[OperatorType]string{
	NumberType: "n",
	CDWType:    "g",
	SCType:     "f",
	EtaType:    `\eta`,
}

var operatorTypeLaTeX = map[OperatorType]string{
	NumberType: `\hat{n}`,
	CDWType:    `\hat{g}`,
	SCType:     `\hat{f}`,
	EtaType:    `\hat{\eta}`,
}

var operatorTypeByName = map[string]OperatorType{
	"n":    NumberType,
	"g":    CDWType,
	"f":    SCType,
	`\eta`: EtaType,
	"eta":  EtaType,
	"η":    EtaType,
}

func (t OperatorType) String() string {
	if n, ok := operatorTypeNames[t]; ok {
		return n
	}
	return "undefined"
}

func (t OperatorType) LaTeX() string {
	if n, ok := operatorTypeLaTeX[t]; ok {
		return n
	}
	return `\hat{?}`
}

// ParseOperatorType resolves n, g, f and eta (also \eta, η).
func ParseOperatorType(name string) (OperatorType, error) {
	if t, ok := operatorTypeByName[strings.TrimSpace(name)]; ok {
		return t, nil
	}
	return UndefinedType, &ParseError{Input: name, Reason: "unknown operator type"}
}

// WickOperator is an expectation value <...> produced by contracting a pair.
type WickOperator struct {
	Type     OperatorType
	Daggered bool
	Momentum Momentum
	Indices  []Index
}

func (w WickOperator) Clone() WickOperator {
	w.Indices = append([]Index(nil), w.Indices...)
	return w
}

func (w WickOperator) Equal(o WickOperator) bool {
	return w.Type == o.Type && w.Daggered == o.Daggered &&
		w.Momentum.Equal(o.Momentum) && indicesEqual(w.Indices, o.Indices)
}

func (w WickOperator) compare(o WickOperator) int {
	if w.Type != o.Type {
		return int(w.Type) - int(o.Type)
	}
	if r := w.Momentum.Compare(o.Momentum); r != 0 {
		return r
	}
	if r := boolCompare(w.Daggered, o.Daggered); r != 0 {
		return r
	}
	return compareIndices(w.Indices, o.Indices)
}

// String uses the notation accepted by ParseWickOperator.
func (w WickOperator) String() string {
	name := w.Type.String()
	if w.Type == EtaType {
		name = "eta"
	}
	s := fmt.Sprintf("%s{%s;%s}", name, w.Momentum.String(), indexListString(w.Indices, Index.String))
	if w.Daggered {
		s += "^+"
	}
	return s
}

func (w WickOperator) LaTeX() string {
	parts := []string{w.Momentum.LaTeX()}
	for _, idx := range w.Indices {
		parts = append(parts, idx.LaTeX())
	}
	s := fmt.Sprintf(`\langle %s_{%s}`, w.Type.LaTeX(), strings.Join(parts, ", "))
	if w.Daggered {
		s += `^\dagger`
	}
	return s + ` \rangle`
}

// ParseWickOperator parses "type{momentum;idx1,idx2,...}" with an optional
// trailing "^+", e.g. "f{k;up,down}^+" or "n{k+q;sigma}".
func ParseWickOperator(s string) (WickOperator, error) {
	typeName, momentum, indices, daggered, err := splitOperatorNotation(s)
	if err != nil {
		return WickOperator{}, err
	}
	t, err := ParseOperatorType(typeName)
	if err != nil {
		return WickOperator{}, err
	}
	return WickOperator{Type: t, Daggered: daggered, Momentum: momentum, Indices: indices}, nil
}

// splitOperatorNotation parses the shared "name{momentum;indices}(^+)" shape.
func splitOperatorNotation(s string) (name string, m Momentum, indices []Index, daggered bool, err error) {
	in := s
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "^+") {
		daggered = true
		s = strings.TrimSuffix(s, "^+")
	}
	open := strings.IndexByte(s, '{')
	if open <= 0 || !strings.HasSuffix(s, "}") {
		return "", Momentum{}, nil, false, &ParseError{Input: in, Reason: "expected name{momentum;indices}"}
	}
	name = s[:open]
	momPart, idxPart, _ := strings.Cut(s[open+1:len(s)-1], ";")
	if m, err = ParseMomentum(momPart); err != nil {
		return "", Momentum{}, nil, false, err
	}
	if indices, err = parseIndexList(idxPart); err != nil {
		return "", Momentum{}, nil, false, err
	}
	return name, m, indices, daggered, nil
}
