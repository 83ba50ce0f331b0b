// Package simulation advances sampled portfolio paths month by month,
// applying returns, scheduled cashflows, ruin detection and periodic
// rebalancing. Paths are independent, so the batch runs on a worker pool
// with no shared mutable state.
package simulation

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"

	"github.com/aristath/foresight/cashflows"
	"github.com/aristath/foresight/sampling"
)

// epsilon floors denominators so paths that hit zero balance keep producing
// defined ratios instead of dividing by zero.
const epsilon = 1e-12

// Result holds everything a single Run produces. Balances and RealBalances
// have horizon+1 columns (the initial balance sits at index 0); FailureMonth
// is -1 for paths that never ruin. Immutable once returned.
type Result struct {
	Balances     [][]float64
	RealBalances [][]float64
	TWRRMonthly  [][]float64
	FailureMonth []int
	Cashflows    [][]float64
}

// NumSims returns the number of simulated paths in the result.
func (r *Result) NumSims() int {
	return len(r.Balances)
}

// HorizonMonths returns the number of simulated months per path.
func (r *Result) HorizonMonths() int {
	if len(r.TWRRMonthly) == 0 {
		return 0
	}
	return len(r.TWRRMonthly[0])
}

// Config parameterizes a Simulator.
type Config struct {
	Weights              []float64 // target allocation fractions, one per asset
	StartingBalance      float64
	RebalanceEveryMonths int
	Workers              int // 0 = one worker per CPU
}

// Simulator walks every sampled path through the monthly state machine.
type Simulator struct {
	weights         []float64
	startingBalance float64
	rebalanceEvery  int
	workers         int
	log             zerolog.Logger
}

// New creates a Simulator from the given config.
func New(cfg Config, log zerolog.Logger) *Simulator {
	weights := make([]float64, len(cfg.Weights))
	copy(weights, cfg.Weights)
	return &Simulator{
		weights:         weights,
		startingBalance: cfg.StartingBalance,
		rebalanceEvery:  cfg.RebalanceEveryMonths,
		workers:         cfg.Workers,
		log:             log.With().Str("component", "simulator").Logger(),
	}
}

// Run simulates every sampled path against the goal schedule. All
// configuration errors are returned before any path is walked; the month
// loop itself never fails, it records ruin and propagates zero balances
// instead.
func (s *Simulator) Run(paths *sampling.Paths, goals []cashflows.Goal) (*Result, error) {
	if paths == nil || paths.NumSims() == 0 {
		return nil, fmt.Errorf("simulation: no sampled paths")
	}
	if paths.HorizonMonths() == 0 {
		return nil, fmt.Errorf("simulation: sampled paths have zero horizon")
	}
	if len(s.weights) != paths.NumAssets() {
		return nil, fmt.Errorf("simulation: %d weights but paths carry %d assets", len(s.weights), paths.NumAssets())
	}
	if s.rebalanceEvery <= 0 {
		return nil, fmt.Errorf("simulation: rebalance interval must be positive, got %d", s.rebalanceEvery)
	}
	sched, err := cashflows.NewSchedule(goals)
	if err != nil {
		return nil, err
	}

	nSims := paths.NumSims()
	horizon := paths.HorizonMonths()

	res := &Result{
		Balances:     makeMatrix(nSims, horizon+1),
		RealBalances: makeMatrix(nSims, horizon+1),
		TWRRMonthly:  makeMatrix(nSims, horizon),
		FailureMonth: make([]int, nSims),
		Cashflows:    make([][]float64, nSims),
	}

	// Each worker owns whole rows of the result, so no locking is needed.
	s.runPaths(nSims, func(path int) {
		s.walkPath(res, path, paths.Returns[path], paths.Inflation[path], sched)
	})

	failures := 0
	for _, m := range res.FailureMonth {
		if m >= 0 {
			failures++
		}
	}
	s.log.Info().
		Str("run_id", uuid.NewString()).
		Int("sims", nSims).
		Int("horizon_months", horizon).
		Int("failed_paths", failures).
		Msg("Simulation complete")

	return res, nil
}

// walkPath runs the sequential monthly state machine for one path. Each
// month's allocation and balance depend only on the prior month's, so the
// loop cannot be parallelized internally.
func (s *Simulator) walkPath(res *Result, path int, returns [][]float64, infl []float64, sched *cashflows.Schedule) {
	horizon := len(returns)
	cf := sched.Vector(horizon, infl)
	res.Cashflows[path] = cf

	bal := res.Balances[path]
	twrr := res.TWRRMonthly[path]
	bal[0] = s.startingBalance

	alloc := make([]float64, len(s.weights))
	for a := range alloc {
		alloc[a] = s.weights[a] * s.startingBalance
	}

	failure := -1
	for t := 0; t < horizon; t++ {
		// 1) Apply this month's returns per asset.
		for a := range alloc {
			alloc[a] *= 1.0 + returns[t][a]
		}
		port := floats.Sum(alloc)

		// 2) Pre-cashflow time-weighted return.
		twrr[t] = port/math.Max(bal[t], epsilon) - 1.0

		// 3) End-of-month cashflow. Ruin is sticky: once a path fails it
		//    stays at zero even if later contributions would turn it positive.
		post := port + cf[t]
		if failure >= 0 {
			post = 0
		} else if post < 0 {
			failure = t
			post = 0
		}
		bal[t+1] = post

		// 4) Full rebalance on the interval; otherwise scale the drifted
		//    allocation so cashflow changes total dollars without buying or
		//    selling any specific asset.
		if (t+1)%s.rebalanceEvery == 0 {
			for a := range alloc {
				alloc[a] = s.weights[a] * post
			}
		} else {
			scale := post / math.Max(port, epsilon)
			for a := range alloc {
				alloc[a] *= scale
			}
		}
	}
	res.FailureMonth[path] = failure

	// Inflation-deflated balances; the cumulative index starts at 1.0.
	real := res.RealBalances[path]
	real[0] = bal[0]
	inflCum := 1.0
	for t := 0; t < horizon; t++ {
		inflCum *= 1.0 + infl[t]
		real[t+1] = bal[t+1] / math.Max(inflCum, epsilon)
	}
}

func makeMatrix(rows, cols int) [][]float64 {
	m := make([][]float64, rows)
	for i := range m {
		m[i] = make([]float64, cols)
	}
	return m
}
