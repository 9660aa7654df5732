// Package termstore persists the n×n M and N matrices of WickTermCollectors
// produced by an expansion run, as one file per entry or in a SQLite archive.
package termstore

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/njchilds90/gowick"
)

// Kind names one of the two matrices.
type Kind string

const (
	KindM Kind = "M"
	KindN Kind = "N"
)

// Matrix is an N×N grid of collectors stored row-major.
type Matrix struct {
	N     int
	Terms []gowick.WickTermCollector
}

func NewMatrix(n int) Matrix {
	return Matrix{N: n, Terms: make([]gowick.WickTermCollector, n*n)}
}

func (m Matrix) At(row, col int) gowick.WickTermCollector { return m.Terms[row*m.N+col] }

func (m Matrix) Set(row, col int, c gowick.WickTermCollector) { m.Terms[row*m.N+col] = c }

// FileStore reads and writes files named
//
//	{XP_}wick_{M|N}_{row+StartAt}_{col+StartAt}.{txt|bin}
//
// inside Dir.
type FileStore struct {
	Dir     string
	XP      bool
	Format  Format
	StartAt int
	Logger  *zap.Logger
}

func (s *FileStore) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// FileName returns the path of entry (row, col) of matrix kind.
func (s *FileStore) FileName(kind Kind, row, col int) string {
	prefix := ""
	if s.XP {
		prefix = "XP_"
	}
	name := fmt.Sprintf("%swick_%s_%d_%d.%s", prefix, kind, row+s.StartAt, col+s.StartAt, s.Format.Extension())
	return filepath.Join(s.Dir, name)
}

// SaveCollector writes one entry.
func (s *FileStore) SaveCollector(kind Kind, row, col int, c gowick.WickTermCollector) error {
	data, err := s.Format.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode %s[%d,%d]: %w", kind, row, col, err)
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", s.Dir, err)
	}
	path := s.FileName(kind, row, col)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.logger().Debug("saved collector", zap.String("path", path), zap.Int("terms", len(c)))
	return nil
}

// LoadCollector reads one entry. A missing or unreadable file yields a
// *gowick.DataMissingError naming the path.
func (s *FileStore) LoadCollector(kind Kind, row, col int) (gowick.WickTermCollector, error) {
	path := s.FileName(kind, row, col)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &gowick.DataMissingError{Path: path, Err: err}
	}
	c, err := s.Format.Unmarshal(data)
	if err != nil {
		return nil, &gowick.DataMissingError{Path: path, Err: err}
	}
	s.logger().Debug("loaded collector", zap.String("path", path), zap.Int("terms", len(c)))
	return c, nil
}

// Save writes both matrices. They must have the same size.
func (s *FileStore) Save(m, n Matrix) error {
	if m.N != n.N {
		return fmt.Errorf("matrix sizes differ: M is %d, N is %d", m.N, n.N)
	}
	for _, mat := range []struct {
		kind Kind
		m    Matrix
	}{{KindM, m}, {KindN, n}} {
		for row := 0; row < mat.m.N; row++ {
			for col := 0; col < mat.m.N; col++ {
				if err := s.SaveCollector(mat.kind, row, col, mat.m.At(row, col)); err != nil {
					return err
				}
			}
		}
	}
	s.logger().Info("saved term matrices", zap.String("dir", s.Dir), zap.Int("size", m.N))
	return nil
}

// Load reads the size×size M and N matrices. Every file must exist.
func (s *FileStore) Load(size int) (m, n Matrix, err error) {
	m, n = NewMatrix(size), NewMatrix(size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			if m.Terms[row*size+col], err = s.LoadCollector(KindM, row, col); err != nil {
				return Matrix{}, Matrix{}, err
			}
			if n.Terms[row*size+col], err = s.LoadCollector(KindN, row, col); err != nil {
				return Matrix{}, Matrix{}, err
			}
		}
	}
	s.logger().Info("loaded term matrices", zap.String("dir", s.Dir), zap.Int("size", size))
	return m, n, nil
}
