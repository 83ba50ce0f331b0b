package metrics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/foresight/simulation"
)

// Summary aggregates a simulation batch across paths: survival rate,
// NaN-aware medians of the per-path metrics, and percentile bands of the
// terminal balances. Percentiles use gonum's empirical quantile.
type Summary struct {
	Sims          int
	HorizonMonths int

	SurvivalRate float64 // share of paths never ruined

	MedianCAGR        float64
	MedianTWRR        float64
	MedianMaxDrawdown float64

	EndBalanceP10    float64
	EndBalanceMedian float64
	EndBalanceP90    float64

	RealEndBalanceMedian float64
}

// Summarize computes the cross-path summary for a simulation result.
func Summarize(res *simulation.Result) Summary {
	nSims := res.NumSims()
	horizon := res.HorizonMonths()

	survived := 0
	for _, m := range res.FailureMonth {
		if m == -1 {
			survived++
		}
	}

	endBalances := terminalColumn(res.Balances)
	realEnd := terminalColumn(res.RealBalances)

	return Summary{
		Sims:          nSims,
		HorizonMonths: horizon,

		SurvivalRate: float64(survived) / float64(nSims),

		MedianCAGR:        nanMedian(CAGR(res.Balances, horizon)),
		MedianTWRR:        nanMedian(TWRRAnnualized(res.TWRRMonthly)),
		MedianMaxDrawdown: nanMedian(MaxDrawdown(res.Balances)),

		EndBalanceP10:    Percentile(endBalances, 0.10),
		EndBalanceMedian: Percentile(endBalances, 0.50),
		EndBalanceP90:    Percentile(endBalances, 0.90),

		RealEndBalanceMedian: Percentile(realEnd, 0.50),
	}
}

// Percentile returns the empirical p-quantile of values. The input is not
// modified.
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return math.NaN()
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return stat.Quantile(p, stat.Empirical, sorted, nil)
}

// nanMedian is the median of the non-NaN entries; NaN when none remain.
func nanMedian(values []float64) float64 {
	clean := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	if len(clean) == 0 {
		return math.NaN()
	}
	sort.Float64s(clean)
	return stat.Quantile(0.5, stat.Empirical, clean, nil)
}

func terminalColumn(m [][]float64) []float64 {
	out := make([]float64, len(m))
	for i, row := range m {
		out[i] = row[len(row)-1]
	}
	return out
}
