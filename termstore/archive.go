package termstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/njchilds90/gowick"
)

const archiveSchema = `CREATE TABLE IF NOT EXISTS collectors (
	kind    TEXT    NOT NULL,
	row_idx INTEGER NOT NULL,
	col_idx INTEGER NOT NULL,
	terms   INTEGER NOT NULL,
	payload BLOB    NOT NULL,
	PRIMARY KEY (kind, row_idx, col_idx)
)`

// Archive keeps term matrices in a single SQLite database. Payloads use the
// binary format.
type Archive struct {
	sqlDB  *sql.DB
	logger *zap.Logger
}

// OpenArchive opens (creating if needed) the archive at path.
func OpenArchive(ctx context.Context, path string, logger *zap.Logger) (*Archive, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("archive path is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	sqlDB, err := sql.Open("sqlite", filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.ExecContext(ctx, archiveSchema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Archive{sqlDB: sqlDB, logger: logger}, nil
}

// Close closes the SQLite handle.
func (a *Archive) Close() error {
	if a == nil || a.sqlDB == nil {
		return nil
	}
	return a.sqlDB.Close()
}

// Put stores (or replaces) one entry.
func (a *Archive) Put(ctx context.Context, kind Kind, row, col int, c gowick.WickTermCollector) error {
	payload, err := FormatBinary.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode %s[%d,%d]: %w", kind, row, col, err)
	}
	_, err = a.sqlDB.ExecContext(ctx,
		`INSERT INTO collectors (kind, row_idx, col_idx, terms, payload) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (kind, row_idx, col_idx) DO UPDATE SET terms = excluded.terms, payload = excluded.payload`,
		string(kind), row, col, len(c), payload)
	if err != nil {
		return fmt.Errorf("store %s[%d,%d]: %w", kind, row, col, err)
	}
	return nil
}

// Get loads one entry. A missing entry yields a *gowick.DataMissingError
// whose path reads archive:<kind>[row,col].
func (a *Archive) Get(ctx context.Context, kind Kind, row, col int) (gowick.WickTermCollector, error) {
	key := fmt.Sprintf("archive:%s[%d,%d]", kind, row, col)
	var payload []byte
	err := a.sqlDB.QueryRowContext(ctx,
		`SELECT payload FROM collectors WHERE kind = ? AND row_idx = ? AND col_idx = ?`,
		string(kind), row, col).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &gowick.DataMissingError{Path: key}
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", key, err)
	}
	c, err := FormatBinary.Unmarshal(payload)
	if err != nil {
		return nil, &gowick.DataMissingError{Path: key, Err: err}
	}
	return c, nil
}

// SaveMatrix stores every entry of m in one transaction.
func (a *Archive) SaveMatrix(ctx context.Context, kind Kind, m Matrix) error {
	tx, err := a.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()
	for row := 0; row < m.N; row++ {
		for col := 0; col < m.N; col++ {
			c := m.At(row, col)
			payload, err := FormatBinary.Marshal(c)
			if err != nil {
				return fmt.Errorf("encode %s[%d,%d]: %w", kind, row, col, err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO collectors (kind, row_idx, col_idx, terms, payload) VALUES (?, ?, ?, ?, ?)
				 ON CONFLICT (kind, row_idx, col_idx) DO UPDATE SET terms = excluded.terms, payload = excluded.payload`,
				string(kind), row, col, len(c), payload); err != nil {
				return fmt.Errorf("store %s[%d,%d]: %w", kind, row, col, err)
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	a.logger.Info("archived term matrix", zap.String("kind", string(kind)), zap.Int("size", m.N))
	return nil
}

// LoadMatrix reads a size×size matrix. Every entry must exist.
func (a *Archive) LoadMatrix(ctx context.Context, kind Kind, size int) (Matrix, error) {
	m := NewMatrix(size)
	for row := 0; row < size; row++ {
		for col := 0; col < size; col++ {
			c, err := a.Get(ctx, kind, row, col)
			if err != nil {
				return Matrix{}, err
			}
			m.Set(row, col, c)
		}
	}
	return m, nil
}

// Import copies the size×size M and N matrices of a file store.
func (a *Archive) Import(ctx context.Context, fs *FileStore, size int) error {
	m, n, err := fs.Load(size)
	if err != nil {
		return err
	}
	if err := a.SaveMatrix(ctx, KindM, m); err != nil {
		return err
	}
	return a.SaveMatrix(ctx, KindN, n)
}
