package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"elmchart/ready/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres reads and writes populations and results through a pgx pool.
type Postgres struct {
	DB *pgxpool.Pool
}

// CreatePopulation inserts a population stamped with now.
func (r *Postgres) CreatePopulation(ctx context.Context, now time.Time) (model.Population, error) {
	if r.DB == nil {
		return model.Population{}, fmt.Errorf("db is nil")
	}
	p := model.Population{CreatedAt: now, UpdatedAt: now}
	const q = `INSERT INTO populations (created_at, updated_at) VALUES ($1, $2) RETURNING id`
	if err := r.DB.QueryRow(ctx, q, p.CreatedAt, p.UpdatedAt).Scan(&p.ID); err != nil {
		return model.Population{}, fmt.Errorf("insert population: %w", err)
	}
	return p, nil
}

// GetPopulation returns ErrNotFound when no row has the given id.
func (r *Postgres) GetPopulation(ctx context.Context, id int64) (model.Population, error) {
	if r.DB == nil {
		return model.Population{}, fmt.Errorf("db is nil")
	}
	const q = `SELECT id, created_at, updated_at FROM populations WHERE id = $1`
	var p model.Population
	err := r.DB.QueryRow(ctx, q, id).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Population{}, fmt.Errorf("population %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.Population{}, fmt.Errorf("query population: %w", err)
	}
	return p, nil
}

// ListPopulations returns every population ordered by id.
func (r *Postgres) ListPopulations(ctx context.Context) ([]model.Population, error) {
	if r.DB == nil {
		return nil, fmt.Errorf("db is nil")
	}
	rows, err := r.DB.Query(ctx, `SELECT id, created_at, updated_at FROM populations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query populations: %w", err)
	}
	defer rows.Close()

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

// FindResultsForPopulation returns up to limit results in storage order.
// There is no ORDER BY: which rows come back is up to the planner.
func (r *Postgres) FindResultsForPopulation(ctx context.Context, populationID int64, limit int) ([]model.Result, error) {
	if r.DB == nil {
		return nil, fmt.Errorf("db is nil")
	}
	const q = `
	SELECT id, population_id, concentration, created_at, updated_at
	FROM results
	WHERE population_id = $1
	LIMIT $2;
	`
	rows, err := r.DB.Query(ctx, q, populationID, limit)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

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

// CreateResult inserts a single result row and returns it with its assigned id.
func (r *Postgres) CreateResult(ctx context.Context, populationID int64, f model.ResultFields) (model.Result, error) {
	if r.DB == nil {
		return model.Result{}, fmt.Errorf("db is nil")
	}
	x := model.Result{
		PopulationID:  populationID,
		Concentration: f.Concentration,
		CreatedAt:     f.CreatedAt,
		UpdatedAt:     f.UpdatedAt,
	}
	const q = `
	INSERT INTO results (population_id, concentration, created_at, updated_at)
	VALUES ($1, $2, $3, $4)
	RETURNING id;
	`
	if err := r.DB.QueryRow(ctx, q, x.PopulationID, x.Concentration, x.CreatedAt, x.UpdatedAt).Scan(&x.ID); err != nil {
		return model.Result{}, fmt.Errorf("insert result: %w", err)
	}
	return x, nil
}
