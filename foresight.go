// Package foresight projects a multi-asset investment portfolio forward in
// time under uncertainty, answering whether the portfolio survives a
// schedule of future contributions and withdrawals and with what
// return/drawdown profile.
//
// The pipeline is: historical series -> bootstrap sampler -> per-path
// cashflow expansion -> month-by-month simulation -> per-path metrics ->
// cross-path summary. The whole run is deterministic for a fixed seed and
// side-effect free; data ingestion and reporting live in external
// collaborators.
package foresight

import (
	"math"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aristath/foresight/cashflows"
	"github.com/aristath/foresight/config"
	"github.com/aristath/foresight/metrics"
	"github.com/aristath/foresight/sampling"
	"github.com/aristath/foresight/simulation"
	"github.com/aristath/foresight/timeseries"
)

// Asset is one portfolio constituent with its target allocation fraction.
type Asset struct {
	Ticker string
	Name   string
	Weight float64 // 0..1
}

// Portfolio is an ordered list of assets. The core assumes, but does not
// enforce, that the weights describe a fully invested portfolio.
type Portfolio struct {
	Assets []Asset
}

// Weights returns the ordered target allocation vector.
func (p Portfolio) Weights() []float64 {
	w := make([]float64, len(p.Assets))
	for i, a := range p.Assets {
		w[i] = a.Weight
	}
	return w
}

// Tickers returns the ordered asset tickers.
func (p Portfolio) Tickers() []string {
	t := make([]string, len(p.Assets))
	for i, a := range p.Assets {
		t[i] = a.Ticker
	}
	return t
}

// Plan bundles everything one projection needs besides the history.
type Plan struct {
	Portfolio Portfolio
	Goals     []cashflows.Goal
	Sim       config.SimConfig
	Sampler   sampling.Config
}

// PathMetrics holds the per-path metric arrays, one entry per simulation.
// Sharpe and Sortino are NaN-filled when the risk-free series is shorter
// than the simulated horizon.
type PathMetrics struct {
	CAGR           []float64
	TWRRAnnualized []float64
	MaxDrawdown    []float64
	Sharpe         []float64
	Sortino        []float64
	MWRR           []float64
}

// Projection is the full output of one Project call.
type Projection struct {
	RunID   string
	Result  *simulation.Result
	Metrics PathMetrics
	Summary metrics.Summary
}

// Project runs the whole pipeline atomically: sample, expand cashflows,
// simulate, derive metrics, summarize. Any configuration error aborts
// before simulation work begins and no partial result is returned.
func Project(hist *timeseries.History, plan Plan, log zerolog.Logger) (*Projection, error) {
	runID := uuid.NewString()
	log = log.With().Str("component", "foresight").Str("run_id", runID).Logger()

	sampler := sampling.NewReturnSampler(hist, log)
	paths, err := sampler.Sample(plan.Sim.HorizonMonths, plan.Sim.NSims, plan.Sampler)
	if err != nil {
		return nil, err
	}

	sim := simulation.New(simulation.Config{
		Weights:              plan.Portfolio.Weights(),
		StartingBalance:      plan.Sim.StartingBalance,
		RebalanceEveryMonths: plan.Sim.RebalanceEveryMonths,
		Workers:              plan.Sim.Workers,
	}, log)
	res, err := sim.Run(paths, plan.Goals)
	if err != nil {
		return nil, err
	}

	pm := PathMetrics{
		CAGR:           metrics.CAGR(res.Balances, plan.Sim.HorizonMonths),
		TWRRAnnualized: metrics.TWRRAnnualized(res.TWRRMonthly),
		MaxDrawdown:    metrics.MaxDrawdown(res.Balances),
		MWRR:           metrics.MWRR(res.Cashflows, res.Balances),
	}

	// The simulated horizon usually outruns the observed risk-free series;
	// Sharpe/Sortino are only defined when it does not.
	riskFree := hist.RiskFree.Values()
	if len(riskFree) >= plan.Sim.HorizonMonths {
		pm.Sharpe, pm.Sortino, err = metrics.SharpeSortino(res.TWRRMonthly, riskFree)
		if err != nil {
			return nil, err
		}
	} else {
		pm.Sharpe = nanVector(plan.Sim.NSims)
		pm.Sortino = nanVector(plan.Sim.NSims)
		log.Warn().
			Int("risk_free_months", len(riskFree)).
			Int("horizon_months", plan.Sim.HorizonMonths).
			Msg("Risk-free series shorter than horizon, skipping Sharpe/Sortino")
	}

	summary := metrics.Summarize(res)

	log.Info().
		Int("sims", plan.Sim.NSims).
		Int("horizon_months", plan.Sim.HorizonMonths).
		Float64("survival_rate", summary.SurvivalRate).
		Float64("median_end_balance", summary.EndBalanceMedian).
		Msg("Projection complete")

	return &Projection{
		RunID:   runID,
		Result:  res,
		Metrics: pm,
		Summary: summary,
	}, nil
}

func nanVector(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = math.NaN()
	}
	return v
}
