package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pathfinder-mcp/pathfinder/internal/history"
	"github.com/pathfinder-mcp/pathfinder/internal/workflow"
)

// ClassifyTool handles the plan_classify MCP tool: classification only,
// without advancing the planning pipeline.
type ClassifyTool struct {
	controller *workflow.Controller
	journal    *history.Store // nil when the run journal is disabled
}

// NewClassifyTool creates a ClassifyTool. journal may be nil.
func NewClassifyTool(controller *workflow.Controller, journal *history.Store) *ClassifyTool {
	return &ClassifyTool{controller: controller, journal: journal}
}

// Definition returns the MCP tool definition for registration.
func (t *ClassifyTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_classify",
		mcp.WithDescription(
			"Classify a task description into a technical domain with per-domain "+
				"confidence scores and a rubric-based complexity estimate. Read-only: "+
				"runs the same classifier as the analysis stage without starting the "+
				"planning pipeline.",
		),
		mcp.WithString("task_description",
			mcp.Required(),
			mcp.Description("Free-text description of the project to classify."),
		),
	)
}

// Handle processes the plan_classify tool call.
func (t *ClassifyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	env := t.controller.Classify(ctx, req.GetString("task_description", ""))
	recordRun(t.journal, env, req.GetString("task_description", ""))
	return envelopeResult(env)
}
