package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/pathfinder-mcp/pathfinder/internal/envelope"
	"github.com/pathfinder-mcp/pathfinder/internal/history"
	"github.com/pathfinder-mcp/pathfinder/internal/stages"
)

// HistoryTool handles the plan_history MCP tool. It is registered only
// when the run journal initialized successfully.
type HistoryTool struct {
	journal *history.Store
}

// NewHistoryTool creates a HistoryTool around an initialized journal.
func NewHistoryTool(journal *history.Store) *HistoryTool {
	return &HistoryTool{journal: journal}
}

// historyReport is the payload result of a plan_history response.
type historyReport struct {
	Runs  []history.Run  `json:"runs"`
	Stats *history.Stats `json:"stats"`
}

// Definition returns the MCP tool definition for registration.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("plan_history",
		mcp.WithDescription(
			"Report recent planning runs and aggregate journal statistics. "+
				"The journal stores stage, domain, confidence, complexity, and a "+
				"hash of the task description — never the description itself.",
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of recent runs to return (default 20)."),
		),
	)
}

// Handle processes the plan_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(req.GetFloat("limit", 20))

	runs, err := t.journal.Recent(limit)
	if err != nil {
		return errorResult("plan_history", err)
	}
	stats, err := t.journal.Stats()
	if err != nil {
		return errorResult("plan_history", err)
	}
	if runs == nil {
		runs = []history.Run{}
	}

	uf := envelope.UserFacing{
		Summary: fmt.Sprintf("%d planning runs journaled; %d escalated to a decision point.",
			stats.TotalRuns, stats.Escalations),
		KeyPoints: []string{
			fmt.Sprintf("Average domain confidence: %.2f", stats.AvgConfidence),
			fmt.Sprintf("Returning the %d most recent runs", len(runs)),
		},
		NextSteps: []string{
			"Call plan_workflow with a task description to start a new planning run",
		},
	}

	ins := envelope.Instructions{ExecutionMode: envelope.ModeAutonomous}

	p := envelope.Payload{
		Stage:  envelope.StageHistory,
		Result: historyReport{Runs: runs, Stats: stats},
		Continuation: &envelope.Continuation{
			CurrentStage: envelope.StageHistory,
			NextStage:    envelope.NextAnalysis,
			CarriedState: stages.CarriedState{},
		},
	}

	md := envelope.Metadata{
		Confidence: stats.AvgConfidence,
		Complexity: 1,
	}

	env, err := envelope.Wrap(envelope.KindHistory, uf, ins, p, md)
	if err != nil {
		return errorResult("plan_history", err)
	}
	return envelopeResult(env)
}
