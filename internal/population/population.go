// Package population reads bounded samples of a population's results and
// generates synthetic measurement history for development and tests.
package population

import (
	"context"
	"fmt"
	"time"

	"elmchart/ready/internal/metrics"
	"elmchart/ready/internal/model"
)

// SampleSize is the most results a Sample carries.
const SampleSize = 3

// ResultFinder reads a population's results in storage order.
type ResultFinder interface {
	FindResultsForPopulation(ctx context.Context, populationID int64, limit int) ([]model.Result, error)
}

// ResultCreator persists one result for a population.
type ResultCreator interface {
	CreateResult(ctx context.Context, populationID int64, fields model.ResultFields) (model.Result, error)
}

// PopulationGetter loads a population by id.
type PopulationGetter interface {
	GetPopulation(ctx context.Context, id int64) (model.Population, error)
}

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in the local time zone.
var SystemClock Clock = ClockFunc(time.Now)

// Rand is the subset of *math/rand.Rand the generator draws from.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Samples returns p's id with up to SampleSize of its results.
// Result order is whatever the store returns; it is not insertion order.
func Samples(ctx context.Context, store ResultFinder, p model.Population, m *metrics.Metrics) (model.Sample, error) {
	res, err := store.FindResultsForPopulation(ctx, p.ID, SampleSize)
	if err != nil {
		return model.Sample{}, fmt.Errorf("sample population %d: %w", p.ID, err)
	}
	if res == nil {
		res = []model.Result{}
	}
	m.IncSampleReads()
	return model.Sample{ID: p.ID, Results: res}, nil
}

// SampleStore is what SamplesByID needs from a repository.
type SampleStore interface {
	PopulationGetter
	ResultFinder
}

// SamplesByID loads the population first; a missing id surfaces the store's not-found error.
func SamplesByID(ctx context.Context, store SampleStore, id int64, m *metrics.Metrics) (model.Sample, error) {
	p, err := store.GetPopulation(ctx, id)
	if err != nil {
		return model.Sample{}, err
	}
	return Samples(ctx, store, p, m)
}
