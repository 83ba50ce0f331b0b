package metrics

import "math"

// MWRR computes the money-weighted rate of return per path: the periodic
// rate at which the series [-startBalance, cf_1, ..., cf_T + endBalance]
// has zero net present value, annualized by x12. Paths where no rate can be
// found get NaN instead of failing the batch.
func MWRR(cashflows, balances [][]float64) []float64 {
	out := make([]float64, len(cashflows))
	for i, cf := range cashflows {
		series := make([]float64, len(cf)+1)
		series[0] = -balances[i][0]
		copy(series[1:], cf)
		series[len(series)-1] += balances[i][len(balances[i])-1]
		out[i] = irr(series) * 12.0
	}
	return out
}

// irr solves npv(rate) = 0 for the periodic rate. Newton iteration from
// zero, with a bracketed bisection fallback when Newton diverges. A series
// whose entries all share one sign has no root and yields NaN.
func irr(series []float64) float64 {
	hasPos, hasNeg := false, false
	for _, v := range series {
		if v > 0 {
			hasPos = true
		}
		if v < 0 {
			hasNeg = true
		}
	}
	if !hasPos || !hasNeg {
		return math.NaN()
	}

	rate := 0.0
	for iter := 0; iter < 100; iter++ {
		v, d := npvWithDeriv(series, rate)
		if math.Abs(v) < 1e-10 {
			return rate
		}
		if d == 0 || math.IsNaN(d) || math.IsInf(d, 0) {
			break
		}
		next := rate - v/d
		if next <= -1 {
			// Keep the iterate above the -100% singularity.
			next = (rate - 1.0) / 2.0
		}
		if math.Abs(next-rate) < 1e-12 {
			return next
		}
		rate = next
	}

	return bisectIRR(series)
}

// bisectIRR scans a fixed rate grid for a sign change of the NPV and
// bisects the first bracket found.
func bisectIRR(series []float64) float64 {
	grid := []float64{-0.9999, -0.99, -0.9, -0.5, -0.2, -0.1, -0.05, -0.01, 0,
		0.01, 0.05, 0.1, 0.2, 0.5, 1, 2, 5, 10}

	lo, loVal := grid[0], npv(series, grid[0])
	for _, r := range grid[1:] {
		v := npv(series, r)
		if !math.IsNaN(loVal) && !math.IsNaN(v) && loVal*v <= 0 {
			return bisect(series, lo, r)
		}
		lo, loVal = r, v
	}
	return math.NaN()
}

func bisect(series []float64, lo, hi float64) float64 {
	loVal := npv(series, lo)
	for iter := 0; iter < 200; iter++ {
		mid := (lo + hi) / 2
		midVal := npv(series, mid)
		if math.Abs(midVal) < 1e-10 || (hi-lo)/2 < 1e-12 {
			return mid
		}
		if loVal*midVal < 0 {
			hi = mid
		} else {
			lo, loVal = mid, midVal
		}
	}
	return (lo + hi) / 2
}

func npv(series []float64, rate float64) float64 {
	total := 0.0
	disc := 1.0
	for _, v := range series {
		total += v / disc
		disc *= 1.0 + rate
	}
	return total
}

func npvWithDeriv(series []float64, rate float64) (value, deriv float64) {
	disc := 1.0 // (1+rate)^i
	for i, v := range series {
		value += v / disc
		if i > 0 {
			deriv -= float64(i) * v / (disc * (1.0 + rate))
		}
		disc *= 1.0 + rate
	}
	return value, deriv
}
