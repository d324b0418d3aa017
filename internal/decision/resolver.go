// Package decision turns low-confidence classifier output into explicit,
// structured decision points.
//
// The resolver never blocks: it either returns nil (classification is
// trustworthy) or a DecisionPoint the caller resolves on its own schedule
// — auto-accepting the recommendation when it deems the confidence
// sufficient, or escalating to a human.
package decision

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/pathfinder-mcp/pathfinder/internal/envelope"
	"github.com/pathfinder-mcp/pathfinder/internal/heuristics"
)

// Escalation thresholds. Empirically chosen rather than derived —
// preserved as named constants and flagged tunable.
const (
	// EscalationThreshold: below this top-domain confidence the caller
	// is asked to confirm the domain choice.
	EscalationThreshold = 0.7
	// ClosenessMargin: a top-two gap smaller than this is an ambiguous
	// tie and always escalates, regardless of absolute confidence.
	ClosenessMargin = 0.1
)

// MaybeEscalate inspects a classification and returns a decision point
// when the caller should confirm the domain choice, or nil when the top
// domain is trustworthy on its own.
//
// Escalation triggers, checked in order:
//  1. no domain clears heuristics.DomainFloor — recommend the
//     general_software fallback with the observed (low) confidence;
//  2. top confidence below EscalationThreshold;
//  3. top-two gap below ClosenessMargin.
//
// Options list every domain within the closeness margin of the top
// score, each carrying its matched indicators as evidence. The
// recommendation is always the single highest-scoring domain.
func MaybeEscalate(cls heuristics.Classification) *envelope.DecisionPoint {
	top := cls.Top()

	if top.Confidence < heuristics.DomainFloor {
		return &envelope.DecisionPoint{
			ID: uuid.NewString(),
			Question: fmt.Sprintf(
				"No domain cleared the %.2f confidence floor (best: %s at %.2f). Proceed as general software, or restate the task with more detail?",
				heuristics.DomainFloor, top.Domain, top.Confidence),
			Options: []envelope.DecisionOption{
				{
					ID:         string(heuristics.DomainGeneralSoftware),
					Label:      "Treat as general software and continue with generic planning templates",
					Confidence: top.Confidence,
				},
			},
			Recommendation: string(heuristics.DomainGeneralSoftware),
			Confidence:     top.Confidence,
		}
	}

	gap := 1.0
	if len(cls.Scores) > 1 {
		gap = top.Confidence - cls.Scores[1].Confidence
	}

	if top.Confidence >= EscalationThreshold && gap >= ClosenessMargin {
		return nil
	}

	var options []envelope.DecisionOption
	for _, s := range cls.Scores {
		if top.Confidence-s.Confidence > ClosenessMargin {
			break // scores are sorted; everything after is further away
		}
		options = append(options, envelope.DecisionOption{
			ID:         string(s.Domain),
			Label:      fmt.Sprintf("Classify as %s (confidence %.2f)", s.Domain, s.Confidence),
			Confidence: s.Confidence,
			Evidence:   s.Indicators,
		})
	}

	question := fmt.Sprintf("Domain confidence is %.2f for %s, below the %.2f threshold. Which domain should drive planning?",
		top.Confidence, top.Domain, EscalationThreshold)
	if gap < ClosenessMargin {
		question = fmt.Sprintf("Top domains are within %.2f of each other (%s at %.2f leads). Which domain should drive planning?",
			ClosenessMargin, top.Domain, top.Confidence)
	}

	return &envelope.DecisionPoint{
		ID:             uuid.NewString(),
		Question:       question,
		Options:        options,
		Recommendation: string(top.Domain),
		Confidence:     top.Confidence,
	}
}
