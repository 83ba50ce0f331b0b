// Package cashflows expands declarative recurring goals (contributions and
// withdrawals) into concrete per-month cashflow vectors, optionally indexing
// amounts by a simulated inflation path.
package cashflows

import "fmt"

// Goal is a recurring cashflow rule. Positive amounts are contributions,
// negative amounts withdrawals; payments land at end of month. Immutable
// once created.
type Goal struct {
	Name       string
	Amount     float64
	StartMonth int  // 0 = simulation start
	Frequency  int  // payments per year: 1, 4 or 12
	Repeats    int  // number of payments
	Real       bool // index the amount by cumulative inflation to the payment date
}

// Validate checks the goal's scheduling parameters.
func (g Goal) Validate() error {
	switch g.Frequency {
	case 1, 4, 12:
	default:
		return fmt.Errorf("cashflows: goal %q has invalid frequency %d (want 1, 4 or 12)", g.Name, g.Frequency)
	}
	if g.StartMonth < 0 {
		return fmt.Errorf("cashflows: goal %q has negative start month %d", g.Name, g.StartMonth)
	}
	if g.Repeats < 0 {
		return fmt.Errorf("cashflows: goal %q has negative repeats %d", g.Name, g.Repeats)
	}
	return nil
}

// stepMonths converts payments-per-year into a month step.
func (g Goal) stepMonths() int {
	return 12 / g.Frequency
}

// Schedule is a validated set of goals. Validation happens once here so the
// per-path expansion in Vector cannot fail mid-simulation.
type Schedule struct {
	goals []Goal
}

// NewSchedule validates all goals and returns the schedule.
func NewSchedule(goals []Goal) (*Schedule, error) {
	for _, g := range goals {
		if err := g.Validate(); err != nil {
			return nil, err
		}
	}
	s := &Schedule{goals: make([]Goal, len(goals))}
	copy(s.goals, goals)
	return s, nil
}

// Vector expands the schedule into a cashflow vector of horizonMonths
// entries. Payments due at or after the horizon are dropped; payments from
// different goals due the same month are summed. When a goal is Real, its
// amount is multiplied by the compounded inflation factor over months
// [0, due) of the given path, so a payment due at month 0 is never
// inflated. inflPath may be nil for purely nominal schedules.
func (s *Schedule) Vector(horizonMonths int, inflPath []float64) []float64 {
	cf := make([]float64, horizonMonths)

	var inflCum []float64
	if inflPath != nil {
		inflCum = make([]float64, len(inflPath))
		acc := 1.0
		for i, r := range inflPath {
			acc *= 1.0 + r
			inflCum[i] = acc
		}
	}

	for _, g := range s.goals {
		due := g.StartMonth
		step := g.stepMonths()
		for k := 0; k < g.Repeats; k++ {
			if due < horizonMonths {
				amt := g.Amount
				if g.Real && inflCum != nil && due > 0 {
					amt *= inflCum[due-1]
				}
				cf[due] += amt
			}
			due += step
		}
	}
	return cf
}
