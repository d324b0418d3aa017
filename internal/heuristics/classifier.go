package heuristics

import (
	"fmt"
	"sort"
	"strings"
)

// DomainFloor is the minimum confidence a domain must clear to be
// trusted at all. Below it the analysis falls back to general_software
// with explicitly low confidence rather than guessing. Empirically
// chosen; tunable.
const DomainFloor = 0.3

// Score is one domain's confidence plus the indicators that produced it.
// Indicators are prefixed with their dimension ("keyword:", "pattern:",
// "phrase:") so downstream consumers can present them as evidence.
type Score struct {
	Domain     Domain   `json:"domain"`
	Confidence float64  `json:"confidence"`
	Indicators []string `json:"indicators,omitempty"`
}

// Classification is the full classifier output: per-domain scores sorted
// by confidence (descending, config order on ties) and a separate
// complexity estimate. Computed once per analysis call, never cached.
type Classification struct {
	Scores     []Score            `json:"scores"`
	Complexity ComplexityEstimate `json:"complexity"`
}

// Top returns the highest-scoring domain entry. Scores is never empty —
// the classifier emits one entry per configured domain.
func (c Classification) Top() Score {
	return c.Scores[0]
}

// Classifier scores free text against the configured heuristic tables.
// It holds no mutable state; concurrent Classify calls need no
// coordination.
type Classifier struct {
	cfg Config
}

// New creates a Classifier from the given config. The config is validated
// once here so Classify can assume well-formed tables.
func New(cfg Config) (*Classifier, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating heuristic config: %w", err)
	}
	return &Classifier{cfg: cfg}, nil
}

// MustNew is New for configs known valid at compile time (the built-in
// defaults). It panics on an invalid config.
func MustNew(cfg Config) *Classifier {
	c, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return c
}

// Classify scores text against every configured domain and estimates
// complexity. Identical input always yields bit-identical output: domains
// are evaluated in config order, rules in declaration order, and the only
// floating-point accumulation is a fixed-order sum.
func (c *Classifier) Classify(text string) Classification {
	lower := strings.ToLower(text)

	scores := make([]Score, 0, len(c.cfg.Domains))
	total := 0.0

	for _, domain := range c.cfg.Domains {
		rules := c.cfg.Rules[domain]
		var indicators []string

		kwRaw := 0.0
		for _, kw := range rules.Keywords {
			if strings.Contains(lower, kw.Term) {
				kwRaw += kw.Weight
				indicators = append(indicators, "keyword:"+kw.Term)
			}
		}

		patRaw := 0.0
		for _, pat := range rules.TechPatterns {
			if matchesAll(lower, pat.Terms) {
				patRaw += pat.Weight
				indicators = append(indicators, "pattern:"+strings.Join(pat.Terms, "+"))
			}
		}

		phRaw := 0.0
		for _, ph := range rules.Phrases {
			if strings.Contains(lower, ph.Phrase) {
				phRaw += ph.Weight
				indicators = append(indicators, "phrase:"+ph.Phrase)
			}
		}

		confidence := c.cfg.Weights.Keyword*saturate(kwRaw, c.cfg.Saturations.Keyword) +
			c.cfg.Weights.TechPattern*saturate(patRaw, c.cfg.Saturations.TechPattern) +
			c.cfg.Weights.Phrase*saturate(phRaw, c.cfg.Saturations.Phrase)

		total += confidence
		scores = append(scores, Score{
			Domain:     domain,
			Confidence: confidence,
			Indicators: indicators,
		})
	}

	// Cross-domain normalization: when the combined mass exceeds 1 the
	// text is claiming several domains at once, so scores are scaled to
	// relative shares. Below 1 they are already directly comparable.
	if total > 1 {
		for i := range scores {
			scores[i].Confidence /= total
		}
	}

	// Highest confidence first; stable sort preserves config order on ties.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Confidence > scores[j].Confidence
	})

	return Classification{
		Scores:     scores,
		Complexity: c.estimateComplexity(lower),
	}
}

// matchesAll reports whether every term of a co-occurrence pattern is
// present in the text.
func matchesAll(lower string, terms []string) bool {
	for _, t := range terms {
		if !strings.Contains(lower, t) {
			return false
		}
	}
	return true
}

// saturate normalizes a raw weight total into [0,1] against a saturation
// point. Raw totals at or beyond saturation clamp to 1.
func saturate(raw, saturation float64) float64 {
	if raw >= saturation {
		return 1
	}
	return raw / saturation
}
