package stages

import (
	"testing"

	"github.com/pathfinder-mcp/pathfinder/internal/heuristics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapResources_PriorityBounds(t *testing.T) {
	m := MapResources(BuildTaskGraph(Decompose(testAnalysis(heuristics.DomainWebApp, 8))))

	require.Len(t, m.Assignments, len(m.TaskGraph.Tasks))
	for _, a := range m.Assignments {
		assert.GreaterOrEqual(t, a.Priority, 1, "task %s", a.TaskID)
		assert.LessOrEqual(t, a.Priority, 10, "task %s", a.TaskID)
	}
}

func TestMapResources_CriticalPathGetsTopPriority(t *testing.T) {
	m := MapResources(BuildTaskGraph(Decompose(testAnalysis(heuristics.DomainDataPipeline, 5))))

	require.NotEmpty(t, m.CriticalPath)

	priorities := make(map[string]int, len(m.Assignments))
	for _, a := range m.Assignments {
		priorities[a.TaskID] = a.Priority
	}
	for _, id := range m.CriticalPath {
		assert.Equal(t, 10, priorities[id], "critical task %s", id)
	}
}

func TestMapResources_BatchesRespectDependencies(t *testing.T) {
	m := MapResources(BuildTaskGraph(Decompose(testAnalysis(heuristics.DomainInfrastructure, 8))))

	batchOf := make(map[string]int)
	for _, b := range m.Batches {
		for _, id := range b.TaskIDs {
			_, seen := batchOf[id]
			require.False(t, seen, "task %s assigned to two batches", id)
			batchOf[id] = b.Order
		}
	}

	// Every task lands in exactly one batch.
	assert.Len(t, batchOf, len(m.TaskGraph.Tasks))

	// Batch orders are contiguous from 1.
	for i, b := range m.Batches {
		assert.Equal(t, i+1, b.Order)
		assert.NotEmpty(t, b.TaskIDs)
	}

	// Dependencies always live in a strictly earlier batch, so tasks
	// within one batch are mutually independent.
	for _, task := range m.TaskGraph.Tasks {
		for _, dep := range task.DependsOn {
			assert.Less(t, batchOf[dep], batchOf[task.ID], "task %s depends on %s", task.ID, dep)
		}
	}
}

func TestMapResources_AgentProfiles(t *testing.T) {
	tests := []struct {
		task Task
		want string
	}{
		{Task{Name: "frontend-views", Description: "Build the user-facing views and state handling"}, "frontend_engineer"},
		{Task{Name: "api-endpoints", Description: "Implement the backend API surface"}, "backend_engineer"},
		{Task{Name: "data-model", Description: "Design and implement the persistent data model"}, "data_engineer"},
		{Task{Name: "deployment-runbook", Description: "Write the deploy, rollback, and smoke-check procedure"}, "platform_engineer"},
		{Task{Name: "end-to-end-tests", Description: "Verify the primary user journeys against the assembled system"}, "qa_engineer"},
		{Task{Name: "define-component-boundaries", Description: "Identify components, their responsibilities, and ownership of data"}, "software_architect"},
		{Task{Name: "reference-docs", Description: "Document the public surface: commands, endpoints, or schemas"}, "technical_writer"},
		{Task{Name: "wire-components", Description: "Connect the implemented components along the planned contracts"}, "generalist_engineer"},
	}

	for _, tt := range tests {
		t.Run(tt.task.Name, func(t *testing.T) {
			assert.Equal(t, tt.want, profileFor(tt.task))
		})
	}
}

func TestMapResources_IsPureOverItsInput(t *testing.T) {
	g := BuildTaskGraph(Decompose(testAnalysis(heuristics.DomainWebApp, 5)))

	first := MapResources(g)
	second := MapResources(g)

	assert.Equal(t, first.Assignments, second.Assignments)
	assert.Equal(t, first.Batches, second.Batches)
	assert.Equal(t, first.CriticalPath, second.CriticalPath)
}
