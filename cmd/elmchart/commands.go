package main

import (
	"fmt"
	"math/rand"
	"time"

	"elmchart/ready/internal/metrics"
	"elmchart/ready/internal/population"

	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, closeStore, err := a.openStore(cmd.Context(), true)
			if err != nil {
				return err
			}
			closeStore()
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func newPopulationCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "population",
		Short: "Create and list populations",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create an empty population",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeStore, err := a.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closeStore()

			p, err := s.CreatePopulation(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return writeJSON(cmd.OutOrStdout(), p)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created population %d\n", p.ID)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List populations",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, closeStore, err := a.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closeStore()

			ps, err := s.ListPopulations(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return writeJSON(cmd.OutOrStdout(), ps)
			}
			for _, p := range ps {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", p.ID, p.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.AddCommand(createCmd, listCmd)
	return cmd
}

func newSeedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate synthetic results for a population over the trailing window",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, _ := cmd.Flags().GetInt64("population")
			gc := a.cfg.Generator
			if cmd.Flags().Changed("days") {
				gc.Days, _ = cmd.Flags().GetInt("days")
			}
			if cmd.Flags().Changed("seed") {
				gc.Seed, _ = cmd.Flags().GetInt64("seed")
			}
			textfile, _ := cmd.Flags().GetString("metrics-textfile")

			s, closeStore, err := a.openStore(ctx, false)
			if err != nil {
				return err
			}
			defer closeStore()

			p, err := s.GetPopulation(ctx, id)
			if err != nil {
				return err
			}

			seed := gc.Seed
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			// Local RNG instance (no global rand.Seed); a fixed --seed reproduces a run.
			r := rand.New(rand.NewSource(seed))

			m := metrics.New()
			g := &population.Generator{
				Store: s,
				Clock: population.SystemClock,
				Rand:  r,
				Options: population.GeneratorOptions{
					Days:             gc.Days,
					Distribution:     gc.Distribution,
					HourMin:          gc.HourMin,
					HourMax:          gc.HourMax,
					ConcentrationMin: gc.ConcentrationMin,
					ConcentrationMax: gc.ConcentrationMax,
				},
				Logger:  a.logger,
				Metrics: m,
			}

			start := time.Now()
			a.logger.Info("seeding results", "population_id", p.ID, "days", gc.Days, "seed", seed)
			report, err := g.CreateSampleResults(ctx, p.ID)
			if textfile != "" {
				if werr := m.WriteTextfile(textfile); werr != nil {
					a.logger.Warn("metrics textfile not written", "error", werr)
				}
			}
			if err != nil {
				return fmt.Errorf("seed population %d: %w", p.ID, err)
			}
			a.logger.Info("done", "elapsed", time.Since(start).Truncate(time.Millisecond))

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d results over %d days for population %d\n", report.Created, report.Days, p.ID)
			return nil
		},
	}
	cmd.Flags().Int64("population", 0, "Population id to fill")
	cmd.Flags().Int("days", 0, "Override the number of trailing days")
	cmd.Flags().Int64("seed", 0, "Random seed (0 = time based)")
	cmd.Flags().String("metrics-textfile", "", "Write Prometheus counters to this file when done")
	_ = cmd.MarkFlagRequired("population")
	return cmd
}

func newSamplesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "samples",
		Short: "Print up to three results of a population as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, _ := cmd.Flags().GetInt64("population")
			textfile, _ := cmd.Flags().GetString("metrics-textfile")
			s, closeStore, err := a.openStore(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer closeStore()

			m := metrics.New()
			sample, err := population.SamplesByID(cmd.Context(), s, id, m)
			if textfile != "" {
				if werr := m.WriteTextfile(textfile); werr != nil {
					a.logger.Warn("metrics textfile not written", "error", werr)
				}
			}
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), sample)
		},
	}
	cmd.Flags().Int64("population", 0, "Population id to sample")
	cmd.Flags().String("metrics-textfile", "", "Write Prometheus counters to this file when done")
	_ = cmd.MarkFlagRequired("population")
	return cmd
}
