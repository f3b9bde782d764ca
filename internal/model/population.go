package model

import "time"

// Population owns zero or more Results through results.population_id.
type Population struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Sample is the nested {id, results} view of a Population.
type Sample struct {
	ID      int64    `json:"id"`
	Results []Result `json:"results"`
}
