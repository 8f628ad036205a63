package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"pocketaria/internal/logging"
)

// backfill derives a lookup column from the stored record for rows written
// by a build that predates the column.
type backfill struct {
	kind   string
	column string
	since  int
	expr   string
}

// Older builds insert new projects with created_at left at its default.
var backfills = []backfill{
	{
		kind:   "projects",
		column: "created_at",
		since:  2,
		expr:   `COALESCE(CAST(json_extract(record, '$.metadata.createdAt') AS INTEGER), 0)`,
	},
}

func applyBackfills(ctx context.Context, db *sql.DB, version int, logger *slog.Logger) error {
	for _, b := range backfills {
		if version < b.since {
			continue
		}
		query := `UPDATE ` + b.kind + ` SET ` + b.column + ` = ` + b.expr +
			` WHERE ` + b.column + ` = 0 AND ` + b.expr + ` <> 0`
		res, err := db.ExecContext(ctx, query)
		if err != nil {
			return fmt.Errorf("backfill %s.%s: %w", b.kind, b.column, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			logger.Info("lookup column backfilled",
				logging.String("kind", b.kind),
				logging.String("column", b.column),
				logging.Int64("rows", n),
			)
		}
	}
	return nil
}
