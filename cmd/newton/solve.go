// Copyright ©2025 curioloop. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/curioloop/newton/internal/problem"
	"github.com/curioloop/newton/monitor"
	"github.com/curioloop/newton/newton"
)

func newSolveCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "solve FILE...",
		Short: "Optimize every problem of the given problem files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := loadOptions(v)
			if err != nil {
				return err
			}
			log, sync, err := newLogger(o)
			if err != nil {
				return err
			}
			defer sync()

			var defs []problem.Definition
			for _, path := range args {
				f, err := problem.Load(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				defs = append(defs, f.Problems...)
			}

			metrics := monitor.NewMetrics()
			results, err := solveAll(cmd.Context(), log, defs, o.concurrency, metrics)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err = printResults(out, results); err != nil {
				return err
			}
			if o.metrics {
				if err = dumpMetrics(out, metrics); err != nil {
					return err
				}
			}

			failed := 0
			for _, r := range results {
				if r.err != nil {
					failed++
				}
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d problems failed", failed, len(results))
			}
			return nil
		},
	}
}

// result is the outcome of one problem.
type result struct {
	name      string
	status    newton.Status
	iter      int
	gradNorm  float64
	objective float64
	x         []float64
	err       error
}

// solveAll runs one model per definition, at most concurrency at once.
// Problem failures are reported in the results, only cancellation aborts the run.
func solveAll(ctx context.Context, log logr.Logger, defs []problem.Definition, concurrency int, metrics *monitor.Metrics) ([]result, error) {
	results := make([]result, len(defs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i := range defs {
		d := &defs[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = solveOne(log.WithValues("problem", d.Name), d, metrics)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func solveOne(log logr.Logger, d *problem.Definition, metrics *monitor.Metrics) (r result) {
	r.name = d.Name
	defer func() {
		metrics.RecordStatus(d.Name, r.status)
		if r.err != nil {
			log.Error(r.err, "problem not solved")
		}
	}()

	p, start, err := d.Build()
	if err != nil {
		r.err = err
		return
	}
	m := newton.Config{Logger: log, Observer: metrics.Observer(d.Name)}.NewModel()
	if r.err = m.Load(p); r.err != nil {
		return
	}
	if r.err = m.SetWarmStart(start); r.err != nil {
		return
	}
	r.err = m.Optimize()
	r.status, r.iter, r.gradNorm, r.x = m.Status(), m.Iterations(), m.GradientNorm(), m.Solution()
	if r.err == nil {
		r.objective, r.err = m.ObjectiveValue()
	}
	return
}

func printResults(w io.Writer, results []result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PROBLEM\tSTATUS\tITERATIONS\tGRADIENT NORM\tOBJECTIVE\tSOLUTION")
	for _, r := range results {
		if r.err != nil && r.x == nil {
			fmt.Fprintf(tw, "%s\t%v\t-\t-\t-\t%v\n", r.name, r.status, r.err)
			continue
		}
		fmt.Fprintf(tw, "%s\t%v\t%d\t%.3e\t%.6g\t%.6g\n", r.name, r.status, r.iter, r.gradNorm, r.objective, r.x)
	}
	return tw.Flush()
}

func dumpMetrics(w io.Writer, metrics *monitor.Metrics) error {
	registry := prometheus.NewRegistry()
	if err := registry.Register(metrics); err != nil {
		return err
	}
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err = enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
