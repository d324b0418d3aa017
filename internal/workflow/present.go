package workflow

import (
	"fmt"
	"strings"

	"github.com/pathfinder-mcp/pathfinder/internal/envelope"
	"github.com/pathfinder-mcp/pathfinder/internal/heuristics"
	"github.com/pathfinder-mcp/pathfinder/internal/stages"
)

// Builders for the per-stage envelopes. Each one fills the user-facing
// text, the agent instructions, the payload with its continuation, and
// metadata, then hands everything to envelope.Wrap for validation.

func presentAnalysis(result stages.AnalysisResult, dp *envelope.DecisionPoint, dur int64) (*envelope.ResponseEnvelope, error) {
	uf := envelope.UserFacing{
		Summary: fmt.Sprintf("Analyzed the task as %s (confidence %.2f) with complexity %d/10; %s planning strategy selected.",
			result.Domain, result.Confidence, result.Complexity, result.Strategy),
		KeyPoints: []string{
			fmt.Sprintf("Domain: %s (confidence %.2f)", result.Domain, result.Confidence),
			fmt.Sprintf("Complexity: %d/10, strategy: %s", result.Complexity, result.Strategy),
		},
		NextSteps: []string{
			"Call plan_workflow with the analysis_result from carried_state to run decomposition",
		},
	}
	for _, req := range result.ImplicitRequirements {
		uf.KeyPoints = append(uf.KeyPoints, "Implicit requirement: "+req)
	}

	ins := envelope.Instructions{
		ExecutionMode: envelope.ModeAutonomous,
		Actions: []envelope.Action{
			{Order: 1, Description: "Run the decomposition stage with the returned analysis_result", Tool: "plan_workflow"},
		},
	}
	if dp != nil {
		ins.ExecutionMode = envelope.ModeUserConfirmation
		ins.DecisionPoints = []envelope.DecisionPoint{*dp}
		ins.Fallback = fmt.Sprintf("Proceed with the recommended domain (%s) if no confirmation is available", dp.Recommendation)
		uf.NextSteps = append([]string{"Confirm the domain choice raised in decision_points"}, uf.NextSteps...)
	}

	p := envelope.Payload{
		Stage:  envelope.StageAnalysis,
		Result: result,
		Continuation: &envelope.Continuation{
			CurrentStage: envelope.StageAnalysis,
			NextStage:    envelope.NextDecomposition,
			CarriedState: stages.CarriedState{Analysis: &result},
		},
	}

	return envelope.Wrap(envelope.KindPlanning, uf, ins, p, metadataFor(result, dur))
}

func presentDecomposition(result stages.DecompositionResult, dur int64) (*envelope.ResponseEnvelope, error) {
	uf := envelope.UserFacing{
		Summary: fmt.Sprintf("Decomposed the %s task into %d phases using the %s template tier.",
			result.Analysis.Domain, len(result.Phases), result.Tier),
		NextSteps: []string{
			"Call plan_workflow with the decomposition_result from carried_state to build the task graph",
		},
	}
	for _, ph := range result.Phases {
		uf.KeyPoints = append(uf.KeyPoints, fmt.Sprintf("%s: %s", ph.ID, ph.Name))
	}

	ins := envelope.Instructions{
		ExecutionMode: envelope.ModeAutonomous,
		Actions: []envelope.Action{
			{Order: 1, Description: "Run the task_graph stage with the returned decomposition_result", Tool: "plan_workflow"},
		},
	}

	p := envelope.Payload{
		Stage:  envelope.StageDecomposition,
		Result: result,
		Continuation: &envelope.Continuation{
			CurrentStage: envelope.StageDecomposition,
			NextStage:    envelope.NextTaskGraph,
			CarriedState: stages.CarriedState{Decomposition: &result},
		},
	}

	return envelope.Wrap(envelope.KindPlanning, uf, ins, p, metadataFor(result.Analysis, dur))
}

func presentTaskGraph(result stages.TaskGraphResult, dur int64) (*envelope.ResponseEnvelope, error) {
	uf := envelope.UserFacing{
		Summary: fmt.Sprintf("Expanded %d phases into %d tasks connected by %d dependency edges.",
			len(result.Decomposition.Phases), len(result.Tasks), len(result.Edges)),
		Visualization: renderEdges(result),
		KeyPoints: []string{
			fmt.Sprintf("%d tasks across %d phases", len(result.Tasks), len(result.Decomposition.Phases)),
			fmt.Sprintf("%d dependency edges, acyclic by construction", len(result.Edges)),
		},
		NextSteps: []string{
			"Call plan_workflow with the task_graph_result from carried_state to map resources",
		},
	}

	ins := envelope.Instructions{
		ExecutionMode: envelope.ModeAutonomous,
		Actions: []envelope.Action{
			{Order: 1, Description: "Run the mission_map stage with the returned task_graph_result", Tool: "plan_workflow"},
		},
	}

	p := envelope.Payload{
		Stage:  envelope.StageTaskGraph,
		Result: result,
		Continuation: &envelope.Continuation{
			CurrentStage: envelope.StageTaskGraph,
			NextStage:    envelope.NextMissionMap,
			CarriedState: stages.CarriedState{TaskGraph: &result},
		},
	}

	return envelope.Wrap(envelope.KindPlanning, uf, ins, p, metadataFor(result.Decomposition.Analysis, dur))
}

func presentMissionMap(result stages.MissionMapResult, dur int64) (*envelope.ResponseEnvelope, error) {
	uf := envelope.UserFacing{
		Summary: fmt.Sprintf("Mapped %d tasks to agent profiles across %d parallel batches; %d tasks sit on the critical path.",
			len(result.Assignments), len(result.Batches), len(result.CriticalPath)),
		Visualization: renderBatches(result),
		KeyPoints: []string{
			fmt.Sprintf("%d execution batches, independent within each batch", len(result.Batches)),
			"Critical path: " + strings.Join(result.CriticalPath, " -> "),
		},
		NextSteps: []string{
			"Planning is complete; execute the batches in order",
		},
	}

	ins := envelope.Instructions{ExecutionMode: envelope.ModeAutonomous}
	for _, b := range result.Batches {
		ins.Actions = append(ins.Actions, envelope.Action{
			Order:       b.Order,
			Description: fmt.Sprintf("Execute batch %d in parallel: %s", b.Order, strings.Join(b.TaskIDs, ", ")),
		})
	}

	p := envelope.Payload{
		Stage:  envelope.StageMissionMap,
		Result: result,
		Continuation: &envelope.Continuation{
			CurrentStage: envelope.StageMissionMap,
			NextStage:    envelope.NextComplete,
			CarriedState: stages.CarriedState{},
		},
	}

	return envelope.Wrap(envelope.KindPlanning, uf, ins, p, metadataFor(result.TaskGraph.Decomposition.Analysis, dur))
}

func presentClassification(cls heuristics.Classification, dp *envelope.DecisionPoint, dur int64) (*envelope.ResponseEnvelope, error) {
	top := cls.Top()

	uf := envelope.UserFacing{
		Summary: fmt.Sprintf("Classified the task as %s (confidence %.2f) with estimated complexity %d/10.",
			top.Domain, top.Confidence, cls.Complexity.Score),
		NextSteps: []string{
			"Call plan_workflow with the task description to start the planning pipeline",
		},
	}
	for _, s := range cls.Scores {
		if s.Confidence == 0 {
			continue
		}
		uf.KeyPoints = append(uf.KeyPoints, fmt.Sprintf("%s: %.2f", s.Domain, s.Confidence))
	}
	for _, d := range cls.Complexity.Drivers {
		uf.KeyPoints = append(uf.KeyPoints, "Complexity driver: "+d)
	}

	ins := envelope.Instructions{
		ExecutionMode: envelope.ModeAutonomous,
		Actions: []envelope.Action{
			{Order: 1, Description: "Start the planning pipeline at the analysis stage", Tool: "plan_workflow"},
		},
	}
	if dp != nil {
		ins.ExecutionMode = envelope.ModeUserConfirmation
		ins.DecisionPoints = []envelope.DecisionPoint{*dp}
		ins.Fallback = fmt.Sprintf("Proceed with the recommended domain (%s) if no confirmation is available", dp.Recommendation)
	}

	p := envelope.Payload{
		Stage:  envelope.StageClassification,
		Result: cls,
		Continuation: &envelope.Continuation{
			CurrentStage: envelope.StageClassification,
			NextStage:    envelope.NextAnalysis,
			CarriedState: stages.CarriedState{},
		},
	}

	md := envelope.Metadata{
		Confidence: top.Confidence,
		Complexity: cls.Complexity.Score,
		DurationMS: dur,
		Hints:      []string{"strategy: " + cls.Complexity.Strategy},
	}

	return envelope.Wrap(envelope.KindClassification, uf, ins, p, md)
}

func metadataFor(a stages.AnalysisResult, dur int64) envelope.Metadata {
	return envelope.Metadata{
		Confidence: a.Confidence,
		Complexity: a.Complexity,
		DurationMS: dur,
		Hints:      []string{"strategy: " + a.Strategy},
	}
}

// renderEdges draws the dependency graph as one edge per line. Tasks with
// no dependencies are listed as roots.
func renderEdges(result stages.TaskGraphResult) string {
	var b strings.Builder
	for _, t := range result.Tasks {
		if len(t.DependsOn) == 0 {
			fmt.Fprintf(&b, "(root) %s %s\n", t.ID, t.Name)
		}
	}
	for _, e := range result.Edges {
		fmt.Fprintf(&b, "%s -> %s\n", e.From, e.To)
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderBatches lists each execution batch with its tasks.
func renderBatches(result stages.MissionMapResult) string {
	profiles := make(map[string]string, len(result.Assignments))
	for _, a := range result.Assignments {
		profiles[a.TaskID] = a.AgentProfile
	}

	var b strings.Builder
	for _, batch := range result.Batches {
		fmt.Fprintf(&b, "batch %d:\n", batch.Order)
		for _, id := range batch.TaskIDs {
			fmt.Fprintf(&b, "  %s (%s)\n", id, profiles[id])
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
