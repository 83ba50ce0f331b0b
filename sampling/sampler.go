// Package sampling turns a historical monthly return table into synthetic
// return and inflation paths via bootstrap resampling. Three strategies are
// supported: independent month draws, whole calendar years, and blocks of
// consecutive years.
package sampling

import (
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"

	"github.com/aristath/foresight/timeseries"
)

// Mode selects the bootstrap strategy.
type Mode string

const (
	// ModeSingleMonth draws every simulated month i.i.d. from the
	// historical rows. Highest path diversity, destroys serial and
	// seasonal correlation.
	ModeSingleMonth Mode = "single_month"

	// ModeSingleYear draws whole calendar years and keeps their months in
	// original order, preserving within-year correlation and seasonality.
	ModeSingleYear Mode = "single_year"

	// ModeBlockYears draws blocks of consecutive calendar years. A block
	// that runs past the most recent historical year wraps around to the
	// earliest one; the newest-to-oldest splice is a documented property
	// of the sampler, not an error.
	ModeBlockYears Mode = "block_years"
)

// Config parameterizes one Sample call.
type Config struct {
	Mode       Mode
	BlockYears int   // block length in years, ModeBlockYears only
	Seed       int64 // master seed; per-path sub-streams derive from it
}

// Paths is the sampler output: one return path and one inflation path per
// simulation. Returns is indexed [sim][month][asset], Inflation [sim][month].
type Paths struct {
	Returns   [][][]float64
	Inflation [][]float64
}

// NumSims returns the number of simulated paths.
func (p *Paths) NumSims() int {
	return len(p.Returns)
}

// HorizonMonths returns the number of simulated months per path.
func (p *Paths) HorizonMonths() int {
	if len(p.Returns) == 0 {
		return 0
	}
	return len(p.Returns[0])
}

// NumAssets returns the number of assets per simulated month.
func (p *Paths) NumAssets() int {
	if p.HorizonMonths() == 0 {
		return 0
	}
	return len(p.Returns[0][0])
}

// ReturnSampler resamples a historical return table. It is constructed once
// per history; the year index is precomputed because every Sample call
// reuses it.
type ReturnSampler struct {
	returns   [][]float64
	inflation []float64
	years     []int         // sorted distinct historical years
	yearRows  map[int][]int // year -> ordered row indices
	log       zerolog.Logger
}

// NewReturnSampler builds a sampler over the given history.
func NewReturnSampler(hist *timeseries.History, log zerolog.Logger) *ReturnSampler {
	n := hist.Returns.Len()
	s := &ReturnSampler{
		returns:   make([][]float64, n),
		inflation: hist.Inflation.Values(),
		yearRows:  make(map[int][]int),
		log:       log.With().Str("component", "sampler").Logger(),
	}
	for i := 0; i < n; i++ {
		s.returns[i] = hist.Returns.Row(i)
		year := hist.Returns.MonthAt(i).Year()
		if _, seen := s.yearRows[year]; !seen {
			s.years = append(s.years, year)
		}
		s.yearRows[year] = append(s.yearRows[year], i)
	}
	// Rows arrive in calendar order, so s.years is already sorted.
	return s
}

// Sample produces nSims synthetic paths of horizonMonths months each.
// Identical (history, horizon, nSims, cfg) inputs reproduce identical
// output: every path draws from its own sub-stream derived from the master
// seed and the path index, so results do not depend on execution order.
func (s *ReturnSampler) Sample(horizonMonths, nSims int, cfg Config) (*Paths, error) {
	if horizonMonths <= 0 {
		return nil, fmt.Errorf("sampling: horizon must be positive, got %d", horizonMonths)
	}
	if nSims <= 0 {
		return nil, fmt.Errorf("sampling: number of simulations must be positive, got %d", nSims)
	}
	switch cfg.Mode {
	case ModeSingleMonth, ModeSingleYear:
	case ModeBlockYears:
		if cfg.BlockYears < 1 {
			return nil, fmt.Errorf("sampling: block_years requires a block length >= 1, got %d", cfg.BlockYears)
		}
	default:
		return nil, fmt.Errorf("sampling: unknown sampling mode %q", cfg.Mode)
	}

	paths := &Paths{
		Returns:   make([][][]float64, nSims),
		Inflation: make([][]float64, nSims),
	}
	for sim := 0; sim < nSims; sim++ {
		rng := rand.New(rand.NewSource(pathSeed(cfg.Seed, sim)))
		idx := s.rowIndices(horizonMonths, cfg, rng)

		path := make([][]float64, horizonMonths)
		infl := make([]float64, horizonMonths)
		for t, row := range idx {
			src := s.returns[row]
			path[t] = make([]float64, len(src))
			copy(path[t], src)
			infl[t] = s.inflation[row]
		}
		paths.Returns[sim] = path
		paths.Inflation[sim] = infl
	}

	s.log.Debug().
		Str("mode", string(cfg.Mode)).
		Int("sims", nSims).
		Int("horizon_months", horizonMonths).
		Int64("seed", cfg.Seed).
		Msg("Sampled return paths")

	return paths, nil
}

// rowIndices draws the historical row indices making up one path.
func (s *ReturnSampler) rowIndices(horizon int, cfg Config, rng *rand.Rand) []int {
	switch cfg.Mode {
	case ModeSingleMonth:
		idx := make([]int, horizon)
		for t := range idx {
			idx[t] = rng.Intn(len(s.returns))
		}
		return idx

	case ModeSingleYear:
		// ceil(horizon/12) year draws cover the horizon when every year is
		// full; partial first/last years contribute fewer rows (preserved,
		// never padded), so keep drawing until covered.
		idx := make([]int, 0, horizon+12)
		blocks := (horizon + 11) / 12
		for b := 0; b < blocks || len(idx) < horizon; b++ {
			year := s.years[rng.Intn(len(s.years))]
			idx = append(idx, s.yearRows[year]...)
		}
		return idx[:horizon]

	case ModeBlockYears:
		k := cfg.BlockYears
		idx := make([]int, 0, horizon+12*k)
		blocks := (horizon + 12*k - 1) / (12 * k)
		for b := 0; b < blocks || len(idx) < horizon; b++ {
			idx = append(idx, s.blockRows(rng.Intn(len(s.years)), k)...)
		}
		return idx[:horizon]
	}
	return nil
}

// blockRows returns the row indices of k consecutive calendar years
// starting at position pos in the sorted year list, wrapping cyclically
// past the most recent year back to the earliest.
func (s *ReturnSampler) blockRows(pos, k int) []int {
	var rows []int
	for j := 0; j < k; j++ {
		year := s.years[(pos+j)%len(s.years)]
		rows = append(rows, s.yearRows[year]...)
	}
	return rows
}

// pathSeed derives a deterministic sub-stream seed from the master seed and
// the path index (splitmix64 finalizer).
func pathSeed(seed int64, path int) int64 {
	z := uint64(seed) + uint64(path+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return int64(z ^ (z >> 31))
}
