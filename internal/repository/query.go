package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so loaders can run inside
// or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// newID returns a fresh opaque identifier.
func newID() string { return uuid.NewString() }

// now returns the current UTC time at the precision the schema stores.
func now() time.Time { return time.Now().UTC().Truncate(time.Millisecond) }

// inClause returns "(?, ?, ...)" and the matching args for ids.
func inClause(ids []string) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return "(" + strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ") + ")", args
}

// uniq drops empty and repeated ids while keeping order.
func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// queryAll runs q and scans every row with scan.
func queryAll[T any](ctx context.Context, db DBTX, scan func(scanner) (*T, error), q string, args ...any) ([]*T, error) {
	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*T, 0)
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// queryIn runs "<q> IN (...)<suffix>" for ids.  No ids means no rows.
func queryIn[T any](ctx context.Context, db DBTX, scan func(scanner) (*T, error), q string, ids []string, suffix string) ([]*T, error) {
	ids = uniq(ids)
	if len(ids) == 0 {
		return []*T{}, nil
	}
	in, args := inClause(ids)
	return queryAll(ctx, db, scan, q+" IN "+in+suffix, args...)
}
