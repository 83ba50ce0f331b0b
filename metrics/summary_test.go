package metrics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aristath/foresight/simulation"
)

func TestPercentile(t *testing.T) {
	values := []float64{30, 10, 20} // unsorted on purpose

	assert.Equal(t, 10.0, Percentile(values, 0.10))
	assert.Equal(t, 20.0, Percentile(values, 0.50))
	assert.Equal(t, 30.0, Percentile(values, 0.90))
	assert.Equal(t, []float64{30, 10, 20}, values, "input must not be reordered")

	assert.True(t, math.IsNaN(Percentile(nil, 0.5)))
}

func TestNanMedian(t *testing.T) {
	assert.Equal(t, 2.0, nanMedian([]float64{3, math.NaN(), 1, 2}))
	assert.Equal(t, 5.0, nanMedian([]float64{5}))
	assert.True(t, math.IsNaN(nanMedian([]float64{math.NaN(), math.NaN()})))
	assert.True(t, math.IsNaN(nanMedian(nil)))
}

func TestSummarize(t *testing.T) {
	// Three 12-month paths: two survive, one is ruined at month 3.
	grow := func(start, monthly float64) []float64 {
		out := make([]float64, 13)
		out[0] = start
		for m := 1; m <= 12; m++ {
			out[m] = out[m-1] * (1 + monthly)
		}
		return out
	}
	ruined := make([]float64, 13)
	ruined[0] = 100
	ruined[1] = 90
	ruined[2] = 80

	res := &simulation.Result{
		Balances:     [][]float64{grow(100, 0.01), grow(100, 0.02), ruined},
		RealBalances: [][]float64{grow(100, 0.005), grow(100, 0.015), ruined},
		TWRRMonthly: [][]float64{
			constantRow(0.01, 12),
			constantRow(0.02, 12),
			constantRow(-1, 12),
		},
		FailureMonth: []int{-1, -1, 3},
		Cashflows:    [][]float64{make([]float64, 12), make([]float64, 12), make([]float64, 12)},
	}

	sum := Summarize(res)

	assert.Equal(t, 3, sum.Sims)
	assert.Equal(t, 12, sum.HorizonMonths)
	assert.InDelta(t, 2.0/3.0, sum.SurvivalRate, 1e-12)

	// Terminal balances: {0, ~112.68, ~126.82}; the median column picks the
	// middle path.
	assert.InDelta(t, 100*math.Pow(1.01, 12), sum.EndBalanceMedian, 1e-9)
	assert.Equal(t, 0.0, sum.EndBalanceP10)
	assert.InDelta(t, 100*math.Pow(1.02, 12), sum.EndBalanceP90, 1e-9)
	assert.InDelta(t, 100*math.Pow(1.005, 12), sum.RealEndBalanceMedian, 1e-9)

	// Per-path CAGRs are {~0.127, ~0.268, -1}: median is the 1% path.
	assert.InDelta(t, math.Pow(1.01, 12)-1, sum.MedianCAGR, 1e-9)
	assert.InDelta(t, math.Pow(1.01, 12)-1, sum.MedianTWRR, 1e-9)
	// Drawdowns are {0, 0, -1}: the median is the untouched path.
	assert.InDelta(t, 0.0, sum.MedianMaxDrawdown, 1e-12)
}

func constantRow(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
