// sqlite — реализация storage.Storage поверх встроенной SQLite (mattn/go-sqlite3).
//
// Особенности:
//   - WAL: чтения (список, поиск) идут параллельно с записью;
//   - записи сериализуются мьютексом (single writer);
//   - полнотекстовый индекс — таблица article_terms, обновляется в транзакции записи материала;
//   - время хранится строками в каноническом RFC3339 UTC (normalize.FormatTime).
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"

	"github.com/pribylovaa/news-radar/internal/search"
	"github.com/pribylovaa/news-radar/internal/storage"
)

//go:embed schema.sql
var schema string

// Storage — SQLite-хранилище.
type Storage struct {
	db  *sql.DB
	mu  sync.Mutex
	tok *search.Tokenizer
	bm  search.BM25
}

var _ storage.Storage = (*Storage)(nil)

// New открывает (и при необходимости создаёт) базу по пути path и применяет схему.
// tok используется и для индексации, и для разбора запросов.
func New(ctx context.Context, path string, tok *search.Tokenizer) (*Storage, error) {
	const op = "storage.sqlite.New"

	if path == "" {
		return nil, fmt.Errorf("%s: empty path", op)
	}

	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%s: mkdir: %w", op, err)
		}
	}

	dsn := path + "?_foreign_keys=on&_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", op, err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: ping: %w", op, err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%s: schema: %w", op, err)
	}

	if tok == nil {
		tok = search.NewTokenizer(nil)
	}

	return &Storage{
		db:  db,
		tok: tok,
		bm:  search.BM25{K1: search.DefaultK1, B: search.DefaultB},
	}, nil
}

// Close закрывает соединения.
func (s *Storage) Close() error {
	return s.db.Close()
}

// withTx выполняет fn в транзакции под мьютексом записи.
func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}

// exec — одиночная запись под мьютексом.
func (s *Storage) exec(ctx context.Context, b sq.Sqlizer) (sql.Result, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.db.ExecContext(ctx, query, args...)
}

// isUnique сообщает о нарушении UNIQUE/PRIMARY KEY.
func isUnique(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

// wrapNoRows переводит sql.ErrNoRows в storage.ErrNotFound.
func wrapNoRows(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func boolInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func joinTags(tags []string) string {
	return strings.Join(tags, ",")
}

func splitTags(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
