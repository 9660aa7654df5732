package termstore

import (
	"fmt"

	"github.com/njchilds90/gowick"
)

// collectorRecord is the on-disk form of one WickTermCollector. Size is
// written ahead of the terms and checked on load.
type collectorRecord struct {
	Size  int          `json:"size" cbor:"1,keyasint"`
	Terms []termRecord `json:"terms" cbor:"2,keyasint"`
}

type termRecord struct {
	Prefactor      string              `json:"prefactor" cbor:"1,keyasint"`
	Coefficients   []coefficientRecord `json:"coefficients,omitempty" cbor:"2,keyasint,omitempty"`
	SumMomenta     []string            `json:"sum_momenta,omitempty" cbor:"3,keyasint,omitempty"`
	SumIndices     []string            `json:"sum_indices,omitempty" cbor:"4,keyasint,omitempty"`
	Operators      []operatorRecord    `json:"operators,omitempty" cbor:"5,keyasint,omitempty"`
	MomentumDeltas [][2]string         `json:"momentum_deltas,omitempty" cbor:"6,keyasint,omitempty"`
	IndexDeltas    [][2]string         `json:"index_deltas,omitempty" cbor:"7,keyasint,omitempty"`
}

type coefficientRecord struct {
	Name               string   `json:"name" cbor:"1,keyasint"`
	Momenta            []string `json:"momenta,omitempty" cbor:"2,keyasint,omitempty"`
	Indices            []string `json:"indices,omitempty" cbor:"3,keyasint,omitempty"`
	Daggered           bool     `json:"daggered,omitempty" cbor:"4,keyasint,omitempty"`
	InversionSymmetric bool     `json:"inversion_symmetric,omitempty" cbor:"5,keyasint,omitempty"`
	QChangesSign       bool     `json:"q_changes_sign,omitempty" cbor:"6,keyasint,omitempty"`
}

type operatorRecord struct {
	Type     string   `json:"type" cbor:"1,keyasint"`
	Daggered bool     `json:"daggered,omitempty" cbor:"2,keyasint,omitempty"`
	Momentum string   `json:"momentum" cbor:"3,keyasint"`
	Indices  []string `json:"indices,omitempty" cbor:"4,keyasint,omitempty"`
}

func toRecord(c gowick.WickTermCollector) collectorRecord {
	rec := collectorRecord{Size: len(c), Terms: make([]termRecord, len(c))}
	for i, w := range c {
		rec.Terms[i] = termToRecord(w)
	}
	return rec
}

func termToRecord(w gowick.WickTerm) termRecord {
	tr := termRecord{Prefactor: w.Prefactor.String()}
	for _, c := range w.Coefficients {
		cr := coefficientRecord{
			Name:               c.Name,
			Indices:            indexNames(c.Indices),
			Daggered:           c.Daggered,
			InversionSymmetric: c.InversionSymmetric,
			QChangesSign:       c.QChangesSign,
		}
		for _, m := range c.Momenta {
			cr.Momenta = append(cr.Momenta, m.String())
		}
		tr.Coefficients = append(tr.Coefficients, cr)
	}
	for _, s := range w.Sums.Momenta {
		tr.SumMomenta = append(tr.SumMomenta, s.String())
	}
	tr.SumIndices = indexNames(w.Sums.Spins)
	for _, op := range w.Operators {
		tr.Operators = append(tr.Operators, operatorRecord{
			Type:     typeName(op.Type),
			Daggered: op.Daggered,
			Momentum: op.Momentum.String(),
			Indices:  indexNames(op.Indices),
		})
	}
	for _, d := range w.MomentumDeltas {
		tr.MomentumDeltas = append(tr.MomentumDeltas, [2]string{d.First.String(), d.Second.String()})
	}
	for _, d := range w.IndexDeltas {
		tr.IndexDeltas = append(tr.IndexDeltas, [2]string{d.First.String(), d.Second.String()})
	}
	return tr
}

func fromRecord(rec collectorRecord) (gowick.WickTermCollector, error) {
	if rec.Size != len(rec.Terms) {
		return nil, fmt.Errorf("size header %d does not match %d stored terms", rec.Size, len(rec.Terms))
	}
	out := make(gowick.WickTermCollector, 0, rec.Size)
	for i, tr := range rec.Terms {
		w, err := termFromRecord(tr)
		if err != nil {
			return nil, fmt.Errorf("term %d: %w", i, err)
		}
		out = append(out, w)
	}
	return out, nil
}

func termFromRecord(tr termRecord) (gowick.WickTerm, error) {
	var (
		w   gowick.WickTerm
		err error
	)
	if w.Prefactor, err = gowick.ParseRational(tr.Prefactor); err != nil {
		return w, err
	}
	for _, cr := range tr.Coefficients {
		c := gowick.Coefficient{
			Name:               cr.Name,
			Daggered:           cr.Daggered,
			InversionSymmetric: cr.InversionSymmetric,
			QChangesSign:       cr.QChangesSign,
		}
		for _, s := range cr.Momenta {
			m, err := gowick.ParseMomentum(s)
			if err != nil {
				return w, err
			}
			c.Momenta = append(c.Momenta, m)
		}
		if c.Indices, err = parseIndices(cr.Indices); err != nil {
			return w, err
		}
		w.Coefficients = append(w.Coefficients, c)
	}
	for _, s := range tr.SumMomenta {
		r := []rune(s)
		if len(r) != 1 {
			return w, &gowick.ParseError{Input: s, Reason: "momentum sum symbols are single letters"}
		}
		w.Sums.Momenta = append(w.Sums.Momenta, gowick.Symbol(r[0]))
	}
	if w.Sums.Spins, err = parseIndices(tr.SumIndices); err != nil {
		return w, err
	}
	for _, or := range tr.Operators {
		t, err := gowick.ParseOperatorType(or.Type)
		if err != nil {
			return w, err
		}
		m, err := gowick.ParseMomentum(or.Momentum)
		if err != nil {
			return w, err
		}
		idx, err := parseIndices(or.Indices)
		if err != nil {
			return w, err
		}
		w.Operators = append(w.Operators, gowick.WickOperator{Type: t, Daggered: or.Daggered, Momentum: m, Indices: idx})
	}
	for _, pair := range tr.MomentumDeltas {
		a, err := gowick.ParseMomentum(pair[0])
		if err != nil {
			return w, err
		}
		b, err := gowick.ParseMomentum(pair[1])
		if err != nil {
			return w, err
		}
		w.MomentumDeltas = append(w.MomentumDeltas, gowick.Delta(a, b))
	}
	for _, pair := range tr.IndexDeltas {
		a, err := gowick.ParseIndex(pair[0])
		if err != nil {
			return w, err
		}
		b, err := gowick.ParseIndex(pair[1])
		if err != nil {
			return w, err
		}
		w.IndexDeltas = append(w.IndexDeltas, gowick.Delta(a, b))
	}
	return w, nil
}

func typeName(t gowick.OperatorType) string {
	if t == gowick.EtaType {
		return "eta"
	}
	return t.String()
}

func indexNames(list []gowick.Index) []string {
	if len(list) == 0 {
		return nil
	}
	out := make([]string, len(list))
	for i, idx := range list {
		out[i] = idx.String()
	}
	return out
}

func parseIndices(names []string) ([]gowick.Index, error) {
	if len(names) == 0 {
		return nil, nil
	}
	out := make([]gowick.Index, len(names))
	for i, n := range names {
		idx, err := gowick.ParseIndex(n)
		if err != nil {
			return nil, err
		}
		out[i] = idx
	}
	return out, nil
}
