package decision

import (
	"testing"

	"github.com/pathfinder-mcp/pathfinder/internal/heuristics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func classification(scores ...heuristics.Score) heuristics.Classification {
	return heuristics.Classification{Scores: scores}
}

func TestMaybeEscalate_TrustworthyClassification(t *testing.T) {
	dp := MaybeEscalate(classification(
		heuristics.Score{Domain: heuristics.DomainWebApp, Confidence: 0.85},
		heuristics.Score{Domain: heuristics.DomainDataPipeline, Confidence: 0.10},
	))

	assert.Nil(t, dp)
}

func TestMaybeEscalate_LowConfidence(t *testing.T) {
	dp := MaybeEscalate(classification(
		heuristics.Score{Domain: heuristics.DomainCLITooling, Confidence: 0.55, Indicators: []string{"keyword:cli"}},
		heuristics.Score{Domain: heuristics.DomainWebApp, Confidence: 0.20},
	))

	require.NotNil(t, dp)
	assert.NotEmpty(t, dp.ID)
	assert.Equal(t, string(heuristics.DomainCLITooling), dp.Recommendation)
	assert.Equal(t, 0.55, dp.Confidence)

	// Only the top domain is within the closeness margin here.
	require.Len(t, dp.Options, 1)
	assert.Equal(t, string(heuristics.DomainCLITooling), dp.Options[0].ID)
	assert.Equal(t, []string{"keyword:cli"}, dp.Options[0].Evidence)
}

func TestMaybeEscalate_CloseTie(t *testing.T) {
	dp := MaybeEscalate(classification(
		heuristics.Score{Domain: heuristics.DomainWebApp, Confidence: 0.78},
		heuristics.Score{Domain: heuristics.DomainDataPipeline, Confidence: 0.72},
		heuristics.Score{Domain: heuristics.DomainInfrastructure, Confidence: 0.40},
	))

	// High absolute confidence still escalates when the gap is inside
	// the closeness margin.
	require.NotNil(t, dp)
	assert.Equal(t, string(heuristics.DomainWebApp), dp.Recommendation)

	require.Len(t, dp.Options, 2)
	assert.Equal(t, string(heuristics.DomainWebApp), dp.Options[0].ID)
	assert.Equal(t, string(heuristics.DomainDataPipeline), dp.Options[1].ID)
}

func TestMaybeEscalate_BelowFloorRecommendsFallback(t *testing.T) {
	dp := MaybeEscalate(classification(
		heuristics.Score{Domain: heuristics.DomainWebApp, Confidence: 0.05},
		heuristics.Score{Domain: heuristics.DomainCLITooling, Confidence: 0.0},
	))

	require.NotNil(t, dp)
	assert.Equal(t, string(heuristics.DomainGeneralSoftware), dp.Recommendation)
	assert.Equal(t, 0.05, dp.Confidence)

	require.Len(t, dp.Options, 1)
	assert.Equal(t, string(heuristics.DomainGeneralSoftware), dp.Options[0].ID)
}

func TestMaybeEscalate_BoundaryValues(t *testing.T) {
	// At the escalation threshold with a comfortable gap: trusted.
	dp := MaybeEscalate(classification(
		heuristics.Score{Domain: heuristics.DomainWebApp, Confidence: EscalationThreshold},
		heuristics.Score{Domain: heuristics.DomainDataPipeline, Confidence: 0.5},
	))
	assert.Nil(t, dp)

	// A hair under the escalation threshold: escalates.
	dp = MaybeEscalate(classification(
		heuristics.Score{Domain: heuristics.DomainWebApp, Confidence: 0.69},
		heuristics.Score{Domain: heuristics.DomainDataPipeline, Confidence: 0.10},
	))
	assert.NotNil(t, dp)
}

func TestMaybeEscalate_SingleScoreUsesFullGap(t *testing.T) {
	dp := MaybeEscalate(classification(
		heuristics.Score{Domain: heuristics.DomainWebApp, Confidence: 0.9},
	))
	assert.Nil(t, dp)
}
