package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Migration is one versioned schema change with a statement per dialect.
type Migration struct {
	Version  string
	Name     string
	Postgres string
	SQLite   string
}

// Migrations lists every schema change in apply order.
// The results table carries no indexes, defaults or foreign key: population_id
// is a plain integer column.
var Migrations = []Migration{
	{
		Version: "20180815201500",
		Name:    "create_populations",
		Postgres: `
		CREATE TABLE populations (
		id BIGSERIAL PRIMARY KEY,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
		);`,
		SQLite: `
		CREATE TABLE populations (
		id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
		);`,
	},
	{
		Version: "20180815201709",
		Name:    "create_results",
		Postgres: `
		CREATE TABLE results (
		id BIGSERIAL PRIMARY KEY,
		population_id INTEGER,
		concentration DOUBLE PRECISION,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
		);`,
		SQLite: `
		CREATE TABLE results (
		id INTEGER PRIMARY KEY AUTOINCREMENT NOT NULL,
		population_id INTEGER,
		concentration FLOAT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
		);`,
	},
}

const schemaMigrationsDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (version TEXT PRIMARY KEY)`

// pending returns the migrations whose version is not in applied, in order.
func pending(applied map[string]bool) []Migration {
	var out []Migration
	for _, m := range Migrations {
		if !applied[m.Version] {
			out = append(out, m)
		}
	}
	return out
}

// MigratePostgres applies pending migrations, each in its own transaction,
// and returns the ones it applied.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) ([]Migration, error) {
	if _, err := pool.Exec(ctx, schemaMigrationsDDL); err != nil {
		return nil, fmt.Errorf("ensure schema_migrations: %w", err)
	}
	rows, err := pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("select schema_migrations: %w", err)
	}
	applied := map[string]bool{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan: %w", err)
		}
		applied[v] = true
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var done []Migration
	for _, m := range pending(applied) {
		tx, err := pool.Begin(ctx)
		if err != nil {
			return done, fmt.Errorf("begin %s: %w", m.Name, err)
		}
		if _, err := tx.Exec(ctx, m.Postgres); err != nil {
			_ = tx.Rollback(ctx)
			return done, fmt.Errorf("migrate %s: %w", m.Name, err)
		}
		if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, m.Version); err != nil {
			_ = tx.Rollback(ctx)
			return done, fmt.Errorf("record %s: %w", m.Name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return done, fmt.Errorf("commit %s: %w", m.Name, err)
		}
		done = append(done, m)
	}
	return done, nil
}

// MigrateSQLite is the SQLite counterpart of MigratePostgres.
func MigrateSQLite(ctx context.Context, db *sql.DB) ([]Migration, error) {
	if _, err := db.ExecContext(ctx, schemaMigrationsDDL); err != nil {
		return nil, fmt.Errorf("ensure schema_migrations: %w", err)
	}
	rows, err := db.QueryContext(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("select schema_migrations: %w", err)
	}
	applied := map[string]bool{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan: %w", err)
		}
		applied[v] = true
	}
	_ = rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var done []Migration
	for _, m := range pending(applied) {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return done, fmt.Errorf("begin %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, m.SQLite); err != nil {
			_ = tx.Rollback()
			return done, fmt.Errorf("migrate %s: %w", m.Name, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, m.Version); err != nil {
			_ = tx.Rollback()
			return done, fmt.Errorf("record %s: %w", m.Name, err)
		}
		if err := tx.Commit(); err != nil {
			return done, fmt.Errorf("commit %s: %w", m.Name, err)
		}
		done = append(done, m)
	}
	return done, nil
}
