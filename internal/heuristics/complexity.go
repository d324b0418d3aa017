package heuristics

import "strings"

// Strategy recommendations for downstream consumers. Advisory only —
// never a gate on execution.
const (
	StrategyDeliberate = "deliberate" // heavier reasoning recommended
	StrategyDirect     = "direct"     // lighter reasoning suffices
)

// deliberateThreshold is the rubric point total at or above which the
// heavier reasoning strategy is recommended. Empirically chosen; tunable.
const deliberateThreshold = 4

// ComplexityEstimate is the rubric-based difficulty estimate, independent
// of domain confidence.
type ComplexityEstimate struct {
	Score    int      `json:"score"`  // 1-10, derived from points
	Points   int      `json:"points"` // raw rubric points
	Drivers  []string `json:"drivers,omitempty"`
	Strategy string   `json:"strategy"` // deliberate | direct
}

// estimateComplexity accumulates rubric points across the complexity
// rules. Each matched rule contributes its points once; drivers record
// the matched term and its dimension in rule order.
func (c *Classifier) estimateComplexity(lower string) ComplexityEstimate {
	points := 0
	var drivers []string

	for _, rule := range c.cfg.Complexity {
		if strings.Contains(lower, rule.Term) {
			points += rule.Points
			drivers = append(drivers, rule.Dimension+":"+rule.Term)
		}
	}

	strategy := StrategyDirect
	if points >= deliberateThreshold {
		strategy = StrategyDeliberate
	}

	return ComplexityEstimate{
		Score:    clampScore(1 + points),
		Points:   points,
		Drivers:  drivers,
		Strategy: strategy,
	}
}

// clampScore bounds a complexity score to [1,10].
func clampScore(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}
