package tools

import (
	"context"
	"log"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pathfinder-mcp/pathfinder/internal/envelope"
	"github.com/pathfinder-mcp/pathfinder/internal/heuristics"
	"github.com/pathfinder-mcp/pathfinder/internal/history"
	"github.com/pathfinder-mcp/pathfinder/internal/stages"
	"github.com/pathfinder-mcp/pathfinder/internal/workflow"
)

// WorkflowTool handles the plan_workflow MCP tool: one call per pipeline
// stage, with all prior state supplied by the caller.
type WorkflowTool struct {
	controller *workflow.Controller
	journal    *history.Store // nil when the run journal is disabled
}

// NewWorkflowTool creates a WorkflowTool. journal may be nil.
func NewWorkflowTool(controller *workflow.Controller, journal *history.Store) *WorkflowTool {
	return &WorkflowTool{controller: controller, journal: journal}
}

// Definition returns the MCP tool definition for registration.
func (t *WorkflowTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_workflow",
		mcp.WithDescription(
			"Run one stage of the planning pipeline: analysis -> decomposition -> "+
				"task_graph -> mission_map. The server is stateless: pass the "+
				"carried_state from the previous response to continue, or just a "+
				"task_description to start. The stage to run is inferred from the "+
				"supplied results unless workflow_stage overrides it.",
		),
		mcp.WithString("task_description",
			mcp.Description("Free-text description of the project to plan. Required for the analysis stage."),
		),
		mcp.WithString("workflow_stage",
			mcp.Description("Explicit stage to run: analysis, decomposition, task_graph, or mission_map. Omit to infer from the supplied results."),
		),
		mcp.WithString("analysis_result",
			mcp.Description("analysis_result from a previous response's carried_state (JSON string or object)."),
		),
		mcp.WithString("decomposition_result",
			mcp.Description("decomposition_result from a previous response's carried_state (JSON string or object)."),
		),
		mcp.WithString("task_graph_result",
			mcp.Description("task_graph_result from a previous response's carried_state (JSON string or object)."),
		),
	)
}

// Handle processes the plan_workflow tool call.
func (t *WorkflowTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := req.GetArguments()

	wfReq := workflow.Request{
		TaskDescription: req.GetString("task_description", ""),
		ExplicitStage:   workflow.Stage(req.GetString("workflow_stage", "")),
	}

	var analysis stages.AnalysisResult
	if ok, err := resultArg(args, "analysis_result", &analysis); err != nil {
		return errorResult("plan_workflow", &envelope.ValidationError{Field: "analysis_result", Reason: err.Error()})
	} else if ok {
		wfReq.Analysis = &analysis
	}

	var decomp stages.DecompositionResult
	if ok, err := resultArg(args, "decomposition_result", &decomp); err != nil {
		return errorResult("plan_workflow", &envelope.ValidationError{Field: "decomposition_result", Reason: err.Error()})
	} else if ok {
		wfReq.Decomposition = &decomp
	}

	var graph stages.TaskGraphResult
	if ok, err := resultArg(args, "task_graph_result", &graph); err != nil {
		return errorResult("plan_workflow", &envelope.ValidationError{Field: "task_graph_result", Reason: err.Error()})
	} else if ok {
		wfReq.TaskGraph = &graph
	}

	env := t.controller.Run(ctx, wfReq)
	recordRun(t.journal, env, wfReq.TaskDescription)
	return envelopeResult(env)
}

// recordRun appends the response to the run journal, best-effort. The
// journal is observational: a write failure is logged and swallowed so it
// never taints a planning response.
func recordRun(journal *history.Store, env *envelope.ResponseEnvelope, description string) {
	if journal == nil {
		return
	}

	escalated := len(env.Instructions.DecisionPoints) > 0
	_, err := journal.Record(
		string(env.Payload.Stage),
		resultDomain(env.Payload.Result),
		description,
		env.Metadata.Confidence,
		env.Metadata.Complexity,
		escalated,
	)
	if err != nil {
		log.Printf("WARNING: run journal write failed: %v", err)
	}
}

// resultDomain extracts the classified domain from a stage result, or ""
// when the payload carries none (error envelopes).
func resultDomain(result any) string {
	switch r := result.(type) {
	case stages.AnalysisResult:
		return string(r.Domain)
	case stages.DecompositionResult:
		return string(r.Analysis.Domain)
	case stages.TaskGraphResult:
		return string(r.Decomposition.Analysis.Domain)
	case stages.MissionMapResult:
		return string(r.TaskGraph.Decomposition.Analysis.Domain)
	case heuristics.Classification:
		return string(r.Top().Domain)
	default:
		return ""
	}
}
