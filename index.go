package gowick

import (
	"strconv"
	"strings"
)

// ============================================================
// Index
// ============================================================

// Index is a discrete operator label: a fixed spin, a spin variable or a
// boson flavour.
type Index int

const (
	IndexSpinUp Index = iota
	IndexSpinDown
	IndexSigma
	IndexSigmaPrime
	IndexSpinS
	IndexSpinSPrime
	IndexA
	IndexB
	IndexC
	IndexUndefined

	// IndexNone marks an absent index slot.
	IndexNone Index = 255
)

var indexNames = [...]string{
	IndexSpinUp:     "up",
	IndexSpinDown:   "down",
	IndexSigma:      "sigma",
	IndexSigmaPrime: "sigma'",
	IndexSpinS:      "S",
	IndexSpinSPrime: "S'",
	IndexA:          "A",
	IndexB:          "B",
	IndexC:          "C",
	IndexUndefined:  "undefined",
}

var indexLaTeX = [...]string{
	IndexSpinUp:     `\uparrow`,
	IndexSpinDown:   `\downarrow`,
	IndexSigma:      `\sigma`,
	IndexSigmaPrime: `\sigma'`,
	IndexSpinS:      `S`,
	IndexSpinSPrime: `S'`,
	IndexA:          `A`,
	IndexB:          `B`,
	IndexC:          `C`,
	IndexUndefined:  `?`,
}

var indexByName = func() map[string]Index {
	m := make(map[string]Index, len(indexNames)+5)
	for i, n := range indexNames {
		m[n] = Index(i)
	}
	m["none"] = IndexNone
	m["↑"] = IndexSpinUp
	m["↓"] = IndexSpinDown
	m["σ"] = IndexSigma
	m["σ'"] = IndexSigmaPrime
	return m
}()

// spinVariables is the renaming pool for summed spins, in canonical order.
var spinVariables = []Index{IndexSigma, IndexSigmaPrime, IndexSpinS, IndexSpinSPrime}

// IsMutable reports whether i is a variable that deltas and sums may bind.
func (i Index) IsMutable() bool { return i >= IndexSigma && i <= IndexSpinSPrime }

func (i Index) Equal(o Index) bool { return i == o }

func (i Index) String() string {
	if i >= 0 && int(i) < len(indexNames) {
		return indexNames[i]
	}
	if i == IndexNone {
		return "none"
	}
	return "index(" + strconv.Itoa(int(i)) + ")"
}

func (i Index) LaTeX() string {
	if i >= 0 && int(i) < len(indexLaTeX) {
		return indexLaTeX[i]
	}
	return i.String()
}

// ParseIndex resolves a name from the index table.
func ParseIndex(name string) (Index, error) {
	if i, ok := indexByName[strings.TrimSpace(name)]; ok {
		return i, nil
	}
	return IndexUndefined, &ParseError{Input: name, Reason: "unknown index"}
}

func parseIndexList(s string) ([]Index, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]Index, 0, len(parts))
	for _, p := range parts {
		idx, err := ParseIndex(p)
		if err != nil {
			return nil, err
		}
		out = append(out, idx)
	}
	return out, nil
}

func indexAt(list []Index, pos int) Index {
	if pos < len(list) {
		return list[pos]
	}
	return IndexNone
}

func indicesEqual(a, b []Index) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func compareIndices(a, b []Index) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

func indexListString(list []Index, render func(Index) string) string {
	parts := make([]string, len(list))
	for i, idx := range list {
		parts[i] = render(idx)
	}
	return strings.Join(parts, ",")
}
