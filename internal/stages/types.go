// Package stages implements the four planning stage processors:
// analyze → decompose → build task graph → map resources.
//
// Each processor is a pure function: it consumes the previous stage's
// result (read-only) plus fixed template tables, and produces a new
// immutable result. Results are strictly additive — every result embeds
// the one it was derived from, so the full workflow history is always
// reconstructible from the latest result alone.
package stages

import "github.com/pathfinder-mcp/pathfinder/internal/heuristics"

// AnalysisResult is the output of the analysis stage.
type AnalysisResult struct {
	Description          string            `json:"description"`
	Domain               heuristics.Domain `json:"domain"`
	Confidence           float64           `json:"confidence"`
	Complexity           int               `json:"complexity"` // 1-10
	Strategy             string            `json:"strategy"`   // deliberate | direct
	Indicators           []string          `json:"indicators,omitempty"`
	ImplicitRequirements []string          `json:"implicit_requirements,omitempty"`
}

// Phase is one decomposition phase. DependsOn holds phase IDs and only
// ever points at earlier phases, so the phase graph is acyclic by
// construction.
type Phase struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	DependsOn   []string `json:"depends_on,omitempty"`
}

// ComplexityTier buckets the 1-10 complexity score into phase templates.
type ComplexityTier string

const (
	TierLight    ComplexityTier = "light"    // complexity 1-3
	TierStandard ComplexityTier = "standard" // complexity 4-6
	TierHeavy    ComplexityTier = "heavy"    // complexity 7-10
)

// DecompositionResult is the output of the decomposition stage.
type DecompositionResult struct {
	Analysis AnalysisResult `json:"analysis"`
	Tier     ComplexityTier `json:"tier"`
	Phases   []Phase        `json:"phases"`
}

// Task is one unit of work expanded from a phase. DependsOn holds task
// IDs from prerequisite phases only.
type Task struct {
	ID          string   `json:"id"`
	PhaseID     string   `json:"phase_id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Complexity  int      `json:"complexity"` // 1-10
	DependsOn   []string `json:"depends_on,omitempty"`
}

// Edge is a directed dependency edge between two tasks.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// TaskGraphResult is the output of the task-graph stage.
type TaskGraphResult struct {
	Decomposition DecompositionResult `json:"decomposition"`
	Tasks         []Task              `json:"tasks"`
	Edges         []Edge              `json:"edges,omitempty"`
}

// Assignment maps one task to an agent profile and a priority.
type Assignment struct {
	TaskID       string `json:"task_id"`
	AgentProfile string `json:"agent_profile"`
	Priority     int    `json:"priority"` // 1-10; 10 = on the critical path
}

// Batch groups tasks that share no dependency edges and can therefore
// execute in parallel. Batches are ordered: batch N+1 may depend only on
// tasks from batches 1..N.
type Batch struct {
	Order   int      `json:"order"`
	TaskIDs []string `json:"task_ids"`
}

// MissionMapResult is the output of the resource-mapping stage and the
// terminal result of the pipeline.
type MissionMapResult struct {
	TaskGraph    TaskGraphResult `json:"task_graph"`
	Assignments  []Assignment    `json:"assignments"`
	Batches      []Batch         `json:"batches"`
	CriticalPath []string        `json:"critical_path,omitempty"`
}

// CarriedState is the caller-held continuation state: the minimal prior
// results needed to resume a workflow. Results embed their predecessors,
// so at most one field is set at a time.
type CarriedState struct {
	Analysis      *AnalysisResult      `json:"analysis_result,omitempty"`
	Decomposition *DecompositionResult `json:"decomposition_result,omitempty"`
	TaskGraph     *TaskGraphResult     `json:"task_graph_result,omitempty"`
}
