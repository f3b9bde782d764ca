package population

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"elmchart/ready/internal/logging"
	"elmchart/ready/internal/metrics"
	"elmchart/ready/internal/model"
)

// GeneratorOptions shape the synthetic history.
type GeneratorOptions struct {
	// Days is how many days back from today (inclusive) get records.
	Days int
	// Distribution is a records-per-day lookup table; each index is equally likely.
	Distribution []int
	// HourMin and HourMax bound the whole-hour offset from midnight, inclusive.
	HourMin, HourMax int
	// Concentrations are drawn from [ConcentrationMin, ConcentrationMax).
	ConcentrationMin, ConcentrationMax float64
}

// DefaultGeneratorOptions returns the stock 600-day window.
func DefaultGeneratorOptions() GeneratorOptions {
	return GeneratorOptions{
		Days:             600,
		Distribution:     []int{0, 0, 1, 1, 2, 4, 6},
		HourMin:          10,
		HourMax:          16,
		ConcentrationMin: 3.5,
		ConcentrationMax: 7.4,
	}
}

// Validate rejects option sets the generator cannot draw from.
func (o GeneratorOptions) Validate() error {
	if o.Days < 0 {
		return fmt.Errorf("days must be non-negative, got %d", o.Days)
	}
	if len(o.Distribution) == 0 {
		return errors.New("distribution must not be empty")
	}
	for i, n := range o.Distribution {
		if n < 0 {
			return fmt.Errorf("distribution[%d] must be non-negative, got %d", i, n)
		}
	}
	if o.HourMin < 0 || o.HourMax > 23 || o.HourMin > o.HourMax {
		return fmt.Errorf("hour range must satisfy 0 <= min <= max <= 23, got %d..%d", o.HourMin, o.HourMax)
	}
	if !(o.ConcentrationMin < o.ConcentrationMax) {
		return fmt.Errorf("concentration range must satisfy min < max, got %v..%v", o.ConcentrationMin, o.ConcentrationMax)
	}
	return nil
}

// GenerationReport summarises one CreateSampleResults call.
// Days counts the days fully written; it is below Options.Days when the run stopped early.
type GenerationReport struct {
	Days    int `json:"days"`
	Created int `json:"created"`
}

// Generator writes synthetic results one row at a time.
// It assumes it is the only writer for the population while it runs.
type Generator struct {
	Store   ResultCreator
	Clock   Clock
	Rand    Rand
	Options GeneratorOptions
	Logger  *slog.Logger
	Metrics *metrics.Metrics
}

// CreateSampleResults fills populationID with random results for each of the
// last Options.Days days. The first failed write stops generation; rows
// already written stay in place.
func (g *Generator) CreateSampleResults(ctx context.Context, populationID int64) (GenerationReport, error) {
	if g.Store == nil || g.Rand == nil {
		return GenerationReport{}, errors.New("generator not initialized")
	}
	if err := g.Options.Validate(); err != nil {
		return GenerationReport{}, fmt.Errorf("generator options: %w", err)
	}
	clock := g.Clock
	if clock == nil {
		clock = SystemClock
	}
	log := logging.OrDiscard(g.Logger)

	o := g.Options
	midnight := startOfDay(clock.Now())
	hourSpan := o.HourMax - o.HourMin + 1

	var report GenerationReport
	for x := 0; x < o.Days; x++ {
		day := midnight.AddDate(0, 0, -x)
		log.Debug("generating day", "population_id", populationID, "day", day)

		n := o.Distribution[g.Rand.Intn(len(o.Distribution))]
		for y := 0; y < n; y++ {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			// Calendar fields, not elapsed time, so the wall-clock hour holds on DST days.
			ts := time.Date(day.Year(), day.Month(), day.Day(), o.HourMin+g.Rand.Intn(hourSpan), 0, 0, 0, day.Location())
			fields := model.ResultFields{
				Concentration: g.concentration(),
				CreatedAt:     ts,
				UpdatedAt:     ts,
			}
			r, err := g.Store.CreateResult(ctx, populationID, fields)
			if err != nil {
				return report, fmt.Errorf("create result for %s: %w", day.Format(time.DateOnly), err)
			}
			report.Created++
			g.Metrics.IncResultsCreated()
			log.Log(ctx, logging.LevelTrace, "created result", "id", r.ID, "at", ts, "concentration", r.Concentration)
		}
		report.Days++
	}
	log.Info("sample results created", "population_id", populationID, "days", report.Days, "created", report.Created)
	return report, nil
}

// concentration draws uniformly from [min, max).
func (g *Generator) concentration() float64 {
	lo, hi := g.Options.ConcentrationMin, g.Options.ConcentrationMax
	v := lo + g.Rand.Float64()*(hi-lo)
	if v >= hi {
		// Rounding can land exactly on hi when Float64 is close to 1.
		v = math.Nextafter(hi, lo)
	}
	return v
}

// startOfDay truncates t to midnight in t's own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
