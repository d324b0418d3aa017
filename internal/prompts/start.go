// Package prompts implements the MCP prompt handlers for Pathfinder.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the plan-start MCP prompt. It guides the AI
// through the full planning pipeline for a project description.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("plan-start",
		mcp.WithPromptDescription(
			"Plan a project end to end: classify the task, decompose it into "+
				"phases, expand the phases into a dependency-ordered task graph, "+
				"and map every task to an agent profile with parallel batches.",
		),
		mcp.WithArgument("task_description",
			mcp.ArgumentDescription("Free-text description of the project to plan"),
		),
	)
}

// Handle processes the plan-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	description := "my project"
	if args := req.Params.Arguments; args != nil {
		if d, ok := args["task_description"]; ok && d != "" {
			description = d
		}
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Plan: %s", description),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"I want a full execution plan for this project: %q\n\n"+
						"Please:\n"+
						"1. Call `plan_workflow` with task_description set to my project description\n"+
						"2. If the response raises decision_points, present the options and ask me to choose before continuing\n"+
						"3. Call `plan_workflow` again with the carried_state from each response until next_stage is 'complete'\n"+
						"4. Summarize the final mission map: the execution batches in order, each task's agent profile, and the critical path",
					description,
				)),
			},
		},
	}, nil
}
