package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"pocketaria/internal/search"
)

// Match selects how QueryByField compares an indexed column.
type Match int

const (
	// MatchEqual requires the column to equal the query value.
	MatchEqual Match = iota
	// MatchSubstring folds the query value and requires the folded column to
	// contain it.
	MatchSubstring
)

// Column is an indexed projection of a record.
type Column[T any] struct {
	// Field is the name callers pass to QueryByField.
	Field string
	// Name is the SQL column.
	Name string
	// Since is the schema version that introduced the column.
	Since int
	Match Match
	Value func(*T) any
}

// Kind describes one record kind: its table, key and indexed columns.
type Kind[T any] struct {
	Name    string
	Since   int
	Key     func(*T) string
	Columns []Column[T]
}

func (k Kind[T]) available(s *Store) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if k.Since > s.version {
		return fmt.Errorf("%w: %s requires schema %d, store is at %d", ErrKindUnavailable, k.Name, k.Since, s.version)
	}
	return nil
}

func (k Kind[T]) columns(s *Store) []Column[T] {
	cols := make([]Column[T], 0, len(k.Columns))
	for _, col := range k.Columns {
		if col.Since <= s.version {
			cols = append(cols, col)
		}
	}
	return cols
}

func (k Kind[T]) column(s *Store, field string) (Column[T], bool) {
	for _, col := range k.columns(s) {
		if col.Field == field {
			return col, true
		}
	}
	return Column[T]{}, false
}

// Put inserts or replaces a record by its key. Columns unknown to this build
// keep whatever a newer build wrote into them.
func Put[T any](ctx context.Context, s *Store, kind Kind[T], record *T) error {
	if record == nil {
		return fmt.Errorf("put %s: record is nil", kind.Name)
	}
	if err := kind.available(s); err != nil {
		return err
	}
	key := kind.Key(record)
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("put %s: record key is empty", kind.Name)
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal %s %s: %w", kind.Name, key, err)
	}

	cols := kind.columns(s)
	names := []string{"id", "record"}
	args := []any{key, string(data)}
	updates := []string{"record = excluded.record"}
	for _, col := range cols {
		names = append(names, col.Name)
		args = append(args, col.Value(record))
		updates = append(updates, col.Name+" = excluded."+col.Name)
	}
	query := `INSERT INTO ` + kind.Name + ` (` + strings.Join(names, ", ") + `) VALUES (` +
		makePlaceholders(len(names)) + `) ON CONFLICT(id) DO UPDATE SET ` + strings.Join(updates, ", ")

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("put %s %s: %w", kind.Name, key, err)
	}
	return nil
}

// Get returns the record stored under id or ErrNotFound.
func Get[T any](ctx context.Context, s *Store, kind Kind[T], id string) (*T, error) {
	if err := kind.available(s); err != nil {
		return nil, err
	}
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT record FROM `+kind.Name+` WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s %s: %w", kind.Name, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s %s: %w", kind.Name, id, err)
	}
	return decodeRecord[T](kind, id, data)
}

// GetAll returns every record of the kind ordered by key.
func GetAll[T any](ctx context.Context, s *Store, kind Kind[T]) ([]*T, error) {
	if err := kind.available(s); err != nil {
		return nil, err
	}
	return queryRecords(ctx, s, kind, `SELECT id, record FROM `+kind.Name+` ORDER BY id`)
}

// Delete removes the record stored under id. Missing records are not an error.
func Delete[T any](ctx context.Context, s *Store, kind Kind[T], id string) error {
	if err := kind.available(s); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `DELETE FROM `+kind.Name+` WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete %s %s: %w", kind.Name, id, err)
	}
	return nil
}

// QueryByField returns records whose indexed field matches value.
func QueryByField[T any](ctx context.Context, s *Store, kind Kind[T], field string, value any) ([]*T, error) {
	return queryWhere(ctx, s, kind, map[string]any{field: value}, "id")
}

// Count returns the number of records of the kind.
func Count[T any](ctx context.Context, s *Store, kind Kind[T]) (int, error) {
	if err := kind.available(s); err != nil {
		return 0, err
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM `+kind.Name).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", kind.Name, err)
	}
	return n, nil
}

// queryWhere ANDs every criterion together and orders by orderBy, which must
// be a trusted SQL fragment.
func queryWhere[T any](ctx context.Context, s *Store, kind Kind[T], criteria map[string]any, orderBy string) ([]*T, error) {
	if err := kind.available(s); err != nil {
		return nil, err
	}
	var (
		clauses []string
		args    []any
	)
	for field, value := range criteria {
		col, ok := kind.column(s, field)
		if !ok {
			return nil, fmt.Errorf("%w: %s.%s", ErrUnknownField, kind.Name, field)
		}
		switch col.Match {
		case MatchSubstring:
			clauses = append(clauses, `instr(`+col.Name+`, ?) > 0`)
			args = append(args, search.Fold(fmt.Sprint(value)))
		default:
			clauses = append(clauses, col.Name+` = ?`)
			args = append(args, value)
		}
	}
	query := `SELECT id, record FROM ` + kind.Name
	if len(clauses) > 0 {
		query += ` WHERE ` + strings.Join(clauses, ` AND `)
	}
	if orderBy != "" {
		query += ` ORDER BY ` + orderBy
	}
	return queryRecords(ctx, s, kind, query, args...)
}

func queryRecords[T any](ctx context.Context, s *Store, kind Kind[T], query string, args ...any) ([]*T, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", kind.Name, err)
	}
	defer rows.Close()

	var records []*T
	for rows.Next() {
		var id, data string
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("scan %s: %w", kind.Name, err)
		}
		record, err := decodeRecord[T](kind, id, data)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func decodeRecord[T any](kind Kind[T], id, data string) (*T, error) {
	record := new(T)
	if err := json.Unmarshal([]byte(data), record); err != nil {
		return nil, fmt.Errorf("decode %s %s: %w", kind.Name, id, err)
	}
	return record, nil
}

func makePlaceholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
