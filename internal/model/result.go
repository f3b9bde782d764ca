// Package model contains domain models shared by the storage and population layers.
package model

import "time"

// Result is a single concentration measurement as stored in the results table.
// Field types align with the schema: INTEGER -> int64, FLOAT -> float64, TIMESTAMP -> time.Time.
type Result struct {
	ID            int64     `json:"id"`
	PopulationID  int64     `json:"population_id"`
	Concentration float64   `json:"concentration"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ResultFields carries the caller-assigned columns of a new Result.
// The store assigns ID; PopulationID is passed separately.
type ResultFields struct {
	Concentration float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
