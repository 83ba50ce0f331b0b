// Package metrics derives per-path performance statistics from simulation
// results and aggregates them across paths. Numeric degeneracies (zero
// denominators, undefined ratios) propagate as NaN for the affected path
// rather than failing the batch.
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// CAGR computes the compound annual growth rate per path between the first
// and last balance. Paths with a non-positive starting balance get NaN.
func CAGR(balances [][]float64, months int) []float64 {
	out := make([]float64, len(balances))
	years := float64(months) / 12.0
	for i, b := range balances {
		start := b[0]
		end := b[len(b)-1]
		if start <= 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = math.Pow(end/start, 1.0/years) - 1.0
	}
	return out
}

// TWRRAnnualized compounds each path's monthly time-weighted returns
// multiplicatively and annualizes the growth factor.
func TWRRAnnualized(twrrMonthly [][]float64) []float64 {
	out := make([]float64, len(twrrMonthly))
	for i, row := range twrrMonthly {
		growth := 1.0
		for _, r := range row {
			growth *= 1.0 + r
		}
		years := float64(len(row)) / 12.0
		out[i] = math.Pow(growth, 1.0/years) - 1.0
	}
	return out
}

// MaxDrawdown reports the most negative decline from the running peak of
// each balance path. A strictly non-decreasing path yields 0.
func MaxDrawdown(balances [][]float64) []float64 {
	out := make([]float64, len(balances))
	for i, b := range balances {
		peak := b[0]
		worst := 0.0
		for _, v := range b {
			if v > peak {
				peak = v
			}
			worst = math.Min(worst, (v-peak)/peak)
		}
		out[i] = worst
	}
	return out
}

// SharpeSortino computes annualized Sharpe and Sortino ratios per path from
// monthly time-weighted returns and a monthly risk-free series aligned by
// month. The risk-free series is truncated to the simulated horizon; a
// series shorter than the horizon is a configuration error. Zero volatility
// yields NaN.
func SharpeSortino(twrrMonthly [][]float64, riskFree []float64) (sharpe, sortino []float64, err error) {
	if len(twrrMonthly) == 0 {
		return nil, nil, fmt.Errorf("metrics: no return paths")
	}
	horizon := len(twrrMonthly[0])
	if len(riskFree) < horizon {
		return nil, nil, fmt.Errorf("metrics: risk-free series has %d months, horizon needs %d", len(riskFree), horizon)
	}

	sharpe = make([]float64, len(twrrMonthly))
	sortino = make([]float64, len(twrrMonthly))
	sqrt12 := math.Sqrt(12)

	excess := make([]float64, horizon)
	downside := make([]float64, horizon)
	for i, row := range twrrMonthly {
		for t := 0; t < horizon; t++ {
			excess[t] = row[t] - riskFree[t]
			if excess[t] < 0 {
				downside[t] = excess[t]
			} else {
				downside[t] = 0
			}
		}
		mean := stat.Mean(excess, nil)
		vol := stat.StdDev(excess, nil)
		downVol := stat.StdDev(downside, nil)

		sharpe[i] = ratioOrNaN(mean, vol) * sqrt12
		sortino[i] = ratioOrNaN(mean, downVol) * sqrt12
	}
	return sharpe, sortino, nil
}

func ratioOrNaN(num, den float64) float64 {
	if den > 0 {
		return num / den
	}
	return math.NaN()
}
