package postgres

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"slices"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var migrations embed.FS

func migrationFiles() ([]string, error) {
	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return nil, err
	}
	slices.Sort(files)
	return files, nil
}

// Migrate applies embedded migrations that are not recorded in schema_migrations yet.
// Each file runs in its own transaction.
func Migrate(ctx context.Context, pool *pgxpool.Pool) ([]string, error) {
	const op = "postgres.Migrate"

	if _, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		name       TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`); err != nil {
		return nil, fmt.Errorf("%s: create table: %w", op, err)
	}

	files, err := migrationFiles()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var applied []string
	for _, name := range files {
		body, err := migrations.ReadFile(name)
		if err != nil {
			return applied, fmt.Errorf("%s: read %s: %w", op, name, err)
		}

		tx, err := pool.Begin(ctx)
		if err != nil {
			return applied, fmt.Errorf("%s: begin: %w", op, err)
		}

		tag, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1) ON CONFLICT DO NOTHING`, name)
		if err != nil {
			_ = tx.Rollback(ctx)
			return applied, fmt.Errorf("%s: record %s: %w", op, name, err)
		}
		if tag.RowsAffected() == 0 {
			_ = tx.Rollback(ctx)
			continue
		}

		if _, err := tx.Exec(ctx, string(body)); err != nil {
			_ = tx.Rollback(ctx)
			return applied, fmt.Errorf("%s: apply %s: %w", op, name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return applied, fmt.Errorf("%s: commit %s: %w", op, name, err)
		}
		applied = append(applied, name)
	}

	return applied, nil
}
