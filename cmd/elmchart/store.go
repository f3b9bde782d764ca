package main

import (
	"context"
	"fmt"
	"time"

	"elmchart/ready/internal/db"
	"elmchart/ready/internal/model"
	"elmchart/ready/internal/repo"
)

// store is the repository surface the commands use; repo.SQLite and repo.Postgres both satisfy it.
type store interface {
	CreatePopulation(ctx context.Context, now time.Time) (model.Population, error)
	GetPopulation(ctx context.Context, id int64) (model.Population, error)
	ListPopulations(ctx context.Context) ([]model.Population, error)
	FindResultsForPopulation(ctx context.Context, populationID int64, limit int) ([]model.Result, error)
	CreateResult(ctx context.Context, populationID int64, f model.ResultFields) (model.Result, error)
}

// openStore connects to the configured database. When migrate is set it also
// applies pending migrations. The returned func closes the connection.
func (a *app) openStore(ctx context.Context, migrate bool) (store, func(), error) {
	dbc := a.cfg.Database
	switch dbc.Driver {
	case "postgres":
		pool, err := db.NewPool(ctx, dbc.DSN, dbc.MaxConns)
		if err != nil {
			return nil, nil, err
		}
		if migrate {
			done, err := db.MigratePostgres(ctx, pool)
			if err != nil {
				pool.Close()
				return nil, nil, err
			}
			a.logApplied(done)
		}
		return &repo.Postgres{DB: pool}, pool.Close, nil
	case "sqlite":
		sqlDB, err := db.OpenSQLite(ctx, dbc.DSN)
		if err != nil {
			return nil, nil, err
		}
		if migrate {
			done, err := db.MigrateSQLite(ctx, sqlDB)
			if err != nil {
				_ = sqlDB.Close()
				return nil, nil, err
			}
			a.logApplied(done)
		}
		return &repo.SQLite{DB: sqlDB}, func() { _ = sqlDB.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown driver: %s", dbc.Driver)
	}
}

func (a *app) logApplied(done []db.Migration) {
	for _, m := range done {
		a.logger.Info("migrated", "version", m.Version, "name", m.Name)
	}
}
