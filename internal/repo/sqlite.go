package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"elmchart/ready/internal/model"
)

// SQLite is the database/sql counterpart of Postgres, used with modernc.org/sqlite.
type SQLite struct {
	DB *sql.DB
}

func (r *SQLite) CreatePopulation(ctx context.Context, now time.Time) (model.Population, error) {
	if r.DB == nil {
		return model.Population{}, fmt.Errorf("db is nil")
	}
	p := model.Population{CreatedAt: now, UpdatedAt: now}
	res, err := r.DB.ExecContext(ctx, `INSERT INTO populations (created_at, updated_at) VALUES (?, ?)`, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return model.Population{}, fmt.Errorf("insert population: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return model.Population{}, fmt.Errorf("population id: %w", err)
	}
	return p, nil
}

func (r *SQLite) GetPopulation(ctx context.Context, id int64) (model.Population, error) {
	if r.DB == nil {
		return model.Population{}, fmt.Errorf("db is nil")
	}
	var p model.Population
	err := r.DB.QueryRowContext(ctx, `SELECT id, created_at, updated_at FROM populations WHERE id = ?`, id).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Population{}, fmt.Errorf("population %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Population{}, fmt.Errorf("query population: %w", err)
	}
	return p, nil
}

func (r *SQLite) ListPopulations(ctx context.Context) ([]model.Population, error) {
	if r.DB == nil {
		return nil, fmt.Errorf("db is nil")
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT id, created_at, updated_at FROM populations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query populations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var res []model.Population
	for rows.Next() {
		var p model.Population
		if err := rows.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *SQLite) FindResultsForPopulation(ctx context.Context, populationID int64, limit int) ([]model.Result, error) {
	if r.DB == nil {
		return nil, fmt.Errorf("db is nil")
	}
	const q = `
	SELECT id, population_id, concentration, created_at, updated_at
	FROM results
	WHERE population_id = ?
	LIMIT ?;
	`
	rows, err := r.DB.QueryContext(ctx, q, populationID, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	res := make([]model.Result, 0, limit)
	for rows.Next() {
		var x model.Result
		if err := rows.Scan(&x.ID, &x.PopulationID, &x.Concentration, &x.CreatedAt, &x.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		res = append(res, x)
	}
	return res, rows.Err()
}

func (r *SQLite) CreateResult(ctx context.Context, populationID int64, f model.ResultFields) (model.Result, error) {
	if r.DB == nil {
		return model.Result{}, fmt.Errorf("db is nil")
	}
	x := model.Result{
		PopulationID:  populationID,
		Concentration: f.Concentration,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
	const q = `INSERT INTO results (population_id, concentration, created_at, updated_at) VALUES (?, ?, ?, ?)`
	res, err := r.DB.ExecContext(ctx, q, x.PopulationID, x.Concentration, x.CreatedAt, x.UpdatedAt)
	if err != nil {
		return model.Result{}, fmt.Errorf("insert result: %w", err)
	}
	if x.ID, err = res.LastInsertId(); err != nil {
		return model.Result{}, fmt.Errorf("result id: %w", err)
	}
	return x, nil
}
