package stages

import (
	"fmt"

	"github.com/pathfinder-mcp/pathfinder/internal/heuristics"
)

// taskTemplate is one task blueprint within a phase template.
type taskTemplate struct {
	name        string
	description string
	complexity  int // base score before tier adjustment
}

// phaseTaskTemplates expands each non-core phase into its fixed tasks.
var phaseTaskTemplates = map[string][]taskTemplate{
	PhaseSetup: {
		{"scaffold-project", "Create the repository layout, build configuration, and dependency manifest", 2},
		{"configure-tooling", "Set up formatting, linting, and local development workflow", 2},
	},
	PhaseArchitecture: {
		{"define-component-boundaries", "Identify components, their responsibilities, and ownership of data", 4},
		{"specify-interfaces", "Write the contracts between components before implementing them", 3},
	},
	PhaseIntegration: {
		{"wire-components", "Connect the implemented components along the planned contracts", 4},
		{"cross-component-checks", "Exercise component seams with realistic inputs", 3},
	},
	PhaseTesting: {
		{"unit-tests", "Cover each unit of core logic with focused tests", 3},
		{"end-to-end-tests", "Verify the primary user journeys against the assembled system", 4},
	},
	PhaseHardening: {
		{"error-path-audit", "Walk every failure mode and verify it degrades safely", 3},
		{"performance-pass", "Measure hot paths and remove avoidable cost", 4},
	},
	PhaseDocumentation: {
		{"user-guide", "Document installation and the primary workflows", 2},
		{"reference-docs", "Document the public surface: commands, endpoints, or schemas", 2},
	},
	PhaseDeployment: {
		{"release-packaging", "Produce distributable artifacts with versioning", 3},
		{"deployment-runbook", "Write the deploy, rollback, and smoke-check procedure", 2},
	},
}

// coreTaskTemplates expands the core implementation phase per domain.
var coreTaskTemplates = map[heuristics.Domain][]taskTemplate{
	heuristics.DomainWebApp: {
		{"data-model", "Design and implement the persistent data model", 4},
		{"api-endpoints", "Implement the backend API surface", 4},
		{"frontend-views", "Build the user-facing views and state handling", 4},
	},
	heuristics.DomainCLITooling: {
		{"command-surface", "Implement the commands and subcommands", 3},
		{"argument-parsing", "Handle flags, arguments, and input validation", 2},
		{"output-formatting", "Produce human and machine readable output", 2},
	},
	heuristics.DomainSystemArchitecture: {
		{"regression-safety-net", "Characterize current behavior with tests before changing it", 4},
		{"module-extraction", "Carve the target modules out along the planned boundaries", 5},
		{"seam-refactoring", "Rework the seams between extracted modules", 5},
	},
	heuristics.DomainDataPipeline: {
		{"ingestion-stage", "Implement source connectors and ingestion", 4},
		{"transform-stage", "Implement the transformation logic with schema contracts", 4},
		{"load-stage", "Implement the sink writers and delivery guarantees", 3},
	},
	heuristics.DomainInfrastructure: {
		{"environment-provisioning", "Define and provision the target environments", 4},
		{"delivery-workflow", "Implement the build-test-deploy workflow", 3},
		{"observability-baseline", "Establish logs, metrics, and alerting defaults", 3},
	},
	heuristics.DomainGeneralSoftware: {
		{"core-logic", "Implement the primary business logic", 4},
		{"persistence", "Implement data storage and retrieval", 3},
		{"interface-layer", "Implement the external interface", 3},
	},
}

// tierAdjustment shifts base task complexity by tier: heavy projects make
// every task harder, light ones easier. Results clamp to [1,10].
var tierAdjustment = map[ComplexityTier]int{
	TierLight:    -1,
	TierStandard: 0,
	TierHeavy:    1,
}

// BuildTaskGraph expands each phase into tasks from the per-domain
// templates and derives the dependency edge list strictly from phase
// ordering: a task depends on every task of each phase its own phase
// depends on. Since phase dependencies only point backwards, the task
// graph is acyclic by construction — no cycle check is needed or run.
func BuildTaskGraph(decomposition DecompositionResult) TaskGraphResult {
	adjust := tierAdjustment[decomposition.Tier]

	var tasks []Task
	var edges []Edge
	tasksByPhase := make(map[string][]string) // phase ID -> task IDs

	next := 1
	for _, phase := range decomposition.Phases {
		templates := phaseTaskTemplates[phase.Name]
		if phase.Name == PhaseCore {
			templates = coreTaskTemplates[decomposition.Analysis.Domain]
		}

		for _, tpl := range templates {
			task := Task{
				ID:          fmt.Sprintf("T-%d", next),
				PhaseID:     phase.ID,
				Name:        tpl.name,
				Description: tpl.description,
				Complexity:  clampTaskComplexity(tpl.complexity + adjust),
			}
			next++

			for _, depPhase := range phase.DependsOn {
				for _, depTask := range tasksByPhase[depPhase] {
					task.DependsOn = append(task.DependsOn, depTask)
					edges = append(edges, Edge{From: depTask, To: task.ID})
				}
			}

			tasksByPhase[phase.ID] = append(tasksByPhase[phase.ID], task.ID)
			tasks = append(tasks, task)
		}
	}

	return TaskGraphResult{
		Decomposition: decomposition,
		Tasks:         tasks,
		Edges:         edges,
	}
}

// clampTaskComplexity bounds a task complexity score to [1,10].
func clampTaskComplexity(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}
