// Package server wires all MCP components and creates the server instance.
//
// This is the composition root: it creates the concrete heuristic tables,
// classifier, controller, and journal, and injects them into the tools,
// prompt, and resource that depend on them. No business logic lives here.
package server

import (
	"fmt"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/pathfinder-mcp/pathfinder/internal/heuristics"
	"github.com/pathfinder-mcp/pathfinder/internal/history"
	"github.com/pathfinder-mcp/pathfinder/internal/prompts"
	"github.com/pathfinder-mcp/pathfinder/internal/resources"
	"github.com/pathfinder-mcp/pathfinder/internal/tools"
	"github.com/pathfinder-mcp/pathfinder/internal/workflow"
)

// Version is set at build time via ldflags.
var Version = "dev"

// heuristicsEnv names the environment variable pointing at an optional
// YAML override for the built-in heuristic tables.
const heuristicsEnv = "PATHFINDER_HEURISTICS"

// New creates and configures the MCP server with all tools, the prompt,
// and the resource registered. This is the single place where all
// dependencies are resolved.
//
// The returned cleanup function closes the run journal's database
// connection and must be called on shutdown (typically via defer). It is
// always non-nil and safe to call even if the journal init failed.
func New() (*server.MCPServer, func(), error) {
	// --- Heuristic tables ---
	//
	// The built-in tables can be replaced wholesale via an override file.
	// A broken override falls back to the defaults with a warning rather
	// than killing the server: a planner with default tables beats no
	// planner.

	cfg := heuristics.DefaultConfig()
	if path := os.Getenv(heuristicsEnv); path != "" {
		loaded, err := heuristics.LoadConfig(path)
		if err != nil {
			log.Printf("WARNING: %s=%s ignored, using built-in tables: %v", heuristicsEnv, path, err)
		} else {
			cfg = loaded
		}
	}

	classifier, err := heuristics.New(cfg)
	if err != nil {
		return nil, noop, fmt.Errorf("creating classifier: %w", err)
	}

	controller := workflow.NewController(classifier)

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"pathfinder",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Run journal ---
	//
	// The journal is an independent subsystem: if it fails to initialize,
	// planning tools continue working without it. We log a warning and
	// skip plan_history registration — the server is still fully
	// functional as a planner.

	cleanup := noop
	journal, journalErr := history.New(history.DefaultConfig())
	if journalErr != nil {
		log.Printf("WARNING: run journal disabled: %v", journalErr)
		journal = nil
	} else {
		cleanup = func() {
			if err := journal.Close(); err != nil {
				log.Printf("WARNING: run journal close: %v", err)
			}
		}
	}

	// --- Register planning tools ---

	workflowTool := tools.NewWorkflowTool(controller, journal)
	s.AddTool(workflowTool.Definition(), workflowTool.Handle)

	classifyTool := tools.NewClassifyTool(controller, journal)
	s.AddTool(classifyTool.Definition(), classifyTool.Handle)

	if journal != nil {
		historyTool := tools.NewHistoryTool(journal)
		s.AddTool(historyTool.Definition(), historyTool.Handle)
	}

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(cfg)
	s.AddResource(resourceHandler.DomainsResource(), resourceHandler.HandleDomains)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when the journal
// is disabled or hasn't been initialized.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use Pathfinder effectively.
func serverInstructions() string {
	return `You have access to Pathfinder, a stateless planning MCP server.

## WHEN TO ACTIVATE Pathfinder

Suggest using Pathfinder when the user:
- Describes a project or system they want built
- Asks you to plan, break down, or estimate a piece of work
- Wants to know what order to build things in, or what can run in parallel

You do NOT need Pathfinder for one-line changes, questions, or bug fixes.

## How It Works

Pathfinder runs a four-stage pipeline. Each stage is one plan_workflow call:
1. analysis — classifies the task into a domain, estimates complexity,
   and surfaces implicit requirements
2. decomposition — breaks the task into ordered phases
3. task_graph — expands phases into tasks with an acyclic dependency graph
4. mission_map — assigns agent profiles, computes the critical path, and
   groups tasks into parallel execution batches

## CRITICAL: The Server Is Stateless

Pathfinder remembers NOTHING between calls. Every response carries a
payload.continuation block:
- continuation.next_stage tells you what to run next ("complete" means done)
- continuation.carried_state holds the result you MUST pass back on the
  next call (as analysis_result, decomposition_result, or task_graph_result)

If you drop carried_state, the pipeline restarts from analysis.

## Responses

Every response — including errors — is a JSON envelope with:
- user_facing: summary, key points, and next steps to relay to the user
- instructions: execution_mode, ordered actions, and optional decision_points
- payload: the stage result plus the continuation block
- metadata: confidence [0,1] and complexity [1,10]

When execution_mode is "user_confirmation", the response raises
decision_points: present the options (with their confidence and evidence)
to the user and wait for a choice before continuing. If no answer is
available, follow instructions.fallback.

## Other Tools

- plan_classify: domain and complexity classification only, no pipeline
- plan_history: recent planning runs and journal statistics (only
  registered when the local journal is available)
- Resource pathfinder://domains: the recognized domains, their matching
  signals, and the escalation thresholds`
}
