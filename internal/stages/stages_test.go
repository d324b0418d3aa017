package stages

import (
	"testing"

	"github.com/pathfinder-mcp/pathfinder/internal/heuristics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAnalysis(domain heuristics.Domain, complexity int) AnalysisResult {
	return AnalysisResult{
		Description: "test project",
		Domain:      domain,
		Confidence:  0.85,
		Complexity:  complexity,
		Strategy:    heuristics.StrategyDirect,
	}
}

func TestAnalyze_FallsBackBelowFloor(t *testing.T) {
	c := heuristics.MustNew(heuristics.DefaultConfig())
	cls := c.Classify("Build something cool")

	a := Analyze("Build something cool", cls)

	assert.Equal(t, heuristics.DomainGeneralSoftware, a.Domain)
	assert.Less(t, a.Confidence, heuristics.DomainFloor)
}

func TestAnalyze_KeepsConfidentDomain(t *testing.T) {
	c := heuristics.MustNew(heuristics.DefaultConfig())
	cls := c.Classify("Build an e-commerce platform with FastAPI backend and React frontend")

	a := Analyze("Build an e-commerce platform with FastAPI backend and React frontend", cls)

	assert.Equal(t, heuristics.DomainWebApp, a.Domain)
	assert.Greater(t, a.Confidence, 0.8)
	assert.NotEmpty(t, a.Indicators)
}

func TestAnalyze_ImplicitRequirements(t *testing.T) {
	c := heuristics.MustNew(heuristics.DefaultConfig())
	desc := "A web shop with login, checkout with payment, and order confirmation emails"

	a := Analyze(desc, c.Classify(desc))

	// Deduplicated (checkout and payment imply the same requirement) and
	// in trigger order.
	assert.Equal(t, []string{"authentication", "payment-processing", "email-delivery"}, a.ImplicitRequirements)
}

func TestTierFor(t *testing.T) {
	tests := []struct {
		complexity int
		want       ComplexityTier
	}{
		{1, TierLight},
		{3, TierLight},
		{4, TierStandard},
		{6, TierStandard},
		{7, TierHeavy},
		{10, TierHeavy},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TierFor(tt.complexity), "complexity %d", tt.complexity)
	}
}

func TestDecompose_LightTier(t *testing.T) {
	d := Decompose(testAnalysis(heuristics.DomainCLITooling, 2))

	require.Len(t, d.Phases, 3)
	assert.Equal(t, TierLight, d.Tier)
	assert.Equal(t, PhaseSetup, d.Phases[0].Name)
	assert.Equal(t, PhaseCore, d.Phases[1].Name)
	assert.Equal(t, PhaseTesting, d.Phases[2].Name)

	// Linear chain, no documentation phase for light projects.
	assert.Empty(t, d.Phases[0].DependsOn)
	assert.Equal(t, []string{"PH-1"}, d.Phases[1].DependsOn)
	assert.Equal(t, []string{"PH-2"}, d.Phases[2].DependsOn)
}

func TestDecompose_StandardTierAddsDocumentationFanOut(t *testing.T) {
	d := Decompose(testAnalysis(heuristics.DomainWebApp, 5))

	require.Len(t, d.Phases, 5)
	assert.Equal(t, TierStandard, d.Tier)

	doc := d.Phases[len(d.Phases)-1]
	assert.Equal(t, PhaseDocumentation, doc.Name)
	// Documentation depends only on core implementation and runs in
	// parallel with testing and deployment.
	assert.Equal(t, []string{"PH-2"}, doc.DependsOn)
}

func TestDecompose_HeavyTier(t *testing.T) {
	d := Decompose(testAnalysis(heuristics.DomainSystemArchitecture, 8))

	require.Len(t, d.Phases, 8)
	assert.Equal(t, TierHeavy, d.Tier)
	assert.Equal(t, PhaseArchitecture, d.Phases[1].Name)
	assert.Equal(t, PhaseHardening, d.Phases[5].Name)
}

func TestDecompose_CoreDescriptionIsDomainSpecific(t *testing.T) {
	web := Decompose(testAnalysis(heuristics.DomainWebApp, 5))
	cli := Decompose(testAnalysis(heuristics.DomainCLITooling, 5))

	assert.Contains(t, web.Phases[1].Description, "frontend views")
	assert.Contains(t, cli.Phases[1].Description, "command surface")
	assert.NotEqual(t, web.Phases[1].Description, cli.Phases[1].Description)
}

func TestBuildTaskGraph_Acyclic(t *testing.T) {
	g := BuildTaskGraph(Decompose(testAnalysis(heuristics.DomainWebApp, 8)))

	index := make(map[string]int, len(g.Tasks))
	for i, task := range g.Tasks {
		index[task.ID] = i
	}

	// Tasks are topologically ordered and every edge points forward, so
	// the graph cannot contain a cycle.
	for _, e := range g.Edges {
		from, okFrom := index[e.From]
		to, okTo := index[e.To]
		require.True(t, okFrom, "edge from unknown task %s", e.From)
		require.True(t, okTo, "edge to unknown task %s", e.To)
		assert.Less(t, from, to, "edge %s -> %s must point forward", e.From, e.To)
	}

	for _, task := range g.Tasks {
		for _, dep := range task.DependsOn {
			require.Contains(t, index, dep)
			assert.Less(t, index[dep], index[task.ID])
		}
	}
}

func TestBuildTaskGraph_DomainCoreTasks(t *testing.T) {
	g := BuildTaskGraph(Decompose(testAnalysis(heuristics.DomainWebApp, 5)))

	names := make([]string, 0, len(g.Tasks))
	for _, task := range g.Tasks {
		names = append(names, task.Name)
	}
	assert.Contains(t, names, "data-model")
	assert.Contains(t, names, "api-endpoints")
	assert.Contains(t, names, "frontend-views")
}

func TestBuildTaskGraph_TierAdjustsComplexity(t *testing.T) {
	light := BuildTaskGraph(Decompose(testAnalysis(heuristics.DomainGeneralSoftware, 2)))
	heavy := BuildTaskGraph(Decompose(testAnalysis(heuristics.DomainGeneralSoftware, 8)))

	// scaffold-project has base complexity 2: light shifts it to 1,
	// heavy to 3. All scores stay within [1,10].
	assert.Equal(t, 1, light.Tasks[0].Complexity)
	assert.Equal(t, 3, heavy.Tasks[0].Complexity)

	for _, task := range append(light.Tasks, heavy.Tasks...) {
		assert.GreaterOrEqual(t, task.Complexity, 1)
		assert.LessOrEqual(t, task.Complexity, 10)
	}
}

func TestBuildTaskGraph_DependsOnAllTasksOfPrerequisitePhases(t *testing.T) {
	g := BuildTaskGraph(Decompose(testAnalysis(heuristics.DomainWebApp, 2)))

	phaseOf := make(map[string]string)
	tasksByPhase := make(map[string][]string)
	for _, task := range g.Tasks {
		phaseOf[task.ID] = task.PhaseID
		tasksByPhase[task.PhaseID] = append(tasksByPhase[task.PhaseID], task.ID)
	}

	for _, task := range g.Tasks {
		if task.PhaseID == "PH-1" {
			assert.Empty(t, task.DependsOn)
			continue
		}
		// Light tier is a linear chain: every task depends on every task
		// of the immediately preceding phase.
		for _, phase := range g.Decomposition.Phases {
			if phase.ID != task.PhaseID {
				continue
			}
			var want []string
			for _, dep := range phase.DependsOn {
				want = append(want, tasksByPhase[dep]...)
			}
			assert.ElementsMatch(t, want, task.DependsOn, "task %s", task.ID)
		}
	}
}
