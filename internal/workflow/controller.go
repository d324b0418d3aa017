package workflow

import (
	"context"
	"strings"
	"time"

	"github.com/pathfinder-mcp/pathfinder/internal/decision"
	"github.com/pathfinder-mcp/pathfinder/internal/envelope"
	"github.com/pathfinder-mcp/pathfinder/internal/heuristics"
	"github.com/pathfinder-mcp/pathfinder/internal/stages"
)

// Request is the stage-capable call shape. Prior results are carried by
// the caller from previous responses; the controller holds nothing.
type Request struct {
	TaskDescription string
	Analysis        *stages.AnalysisResult
	Decomposition   *stages.DecompositionResult
	TaskGraph       *stages.TaskGraphResult
	// ExplicitStage overrides inference when non-empty. Re-running a
	// stage is permitted and idempotent.
	ExplicitStage Stage
}

// Controller runs the stage state machine. It is stateless and safe for
// concurrent use: every invocation builds, uses, and discards its own
// result graph.
type Controller struct {
	classifier *heuristics.Classifier
}

// NewController creates a Controller around the given classifier.
func NewController(classifier *heuristics.Classifier) *Controller {
	return &Controller{classifier: classifier}
}

// Run executes one workflow step and always returns a valid envelope.
// Malformed requests and internal validation failures are converted to
// error envelopes at this boundary — no error crosses it raw, and
// processors are never retried (they are pure; retrying changes nothing).
//
// The context mirrors the mcp-go handler signature. The processors are
// pure in-memory transforms with no blocking calls, so it is not
// consulted.
func (c *Controller) Run(ctx context.Context, req Request) *envelope.ResponseEnvelope {
	start := time.Now()
	env, err := c.run(req, start)
	if err != nil {
		return envelope.WrapError("plan_workflow", err)
	}
	return env
}

func (c *Controller) run(req Request, start time.Time) (*envelope.ResponseEnvelope, error) {
	if err := validateSupplied(req); err != nil {
		return nil, err
	}

	analysis, decomp, graph := effectiveResults(req)

	target, err := targetStage(req, analysis, decomp, graph)
	if err != nil {
		return nil, err
	}

	switch target {
	case StageAnalysis:
		desc := strings.TrimSpace(req.TaskDescription)
		if desc == "" && analysis != nil {
			desc = analysis.Description
		}
		if desc == "" {
			return nil, &envelope.ValidationError{
				Field:  "task_description",
				Reason: "required for the analysis stage",
			}
		}
		cls := c.classifier.Classify(desc)
		result := stages.Analyze(desc, cls)
		return presentAnalysis(result, decision.MaybeEscalate(cls), durationMS(start))

	case StageDecomposition:
		if analysis == nil {
			return nil, &StageSequenceError{Requested: target, Required: StageAnalysis, Field: "analysis_result"}
		}
		return presentDecomposition(stages.Decompose(*analysis), durationMS(start))

	case StageTaskGraph:
		if decomp == nil {
			return nil, &StageSequenceError{Requested: target, Required: StageDecomposition, Field: "decomposition_result"}
		}
		return presentTaskGraph(stages.BuildTaskGraph(*decomp), durationMS(start))

	case StageMissionMap:
		if graph == nil {
			return nil, &StageSequenceError{Requested: target, Required: StageTaskGraph, Field: "task_graph_result"}
		}
		return presentMissionMap(stages.MapResources(*graph), durationMS(start))

	default:
		// Unreachable: targetStage only returns runnable stages.
		return nil, &envelope.ValidationError{Field: "workflow_stage", Reason: "unknown stage"}
	}
}

// Classify runs classification outside the pipeline: no stage advances,
// no continuation state is produced beyond "start at analysis". The
// context mirrors the mcp-go handler signature, as on Run.
func (c *Controller) Classify(ctx context.Context, text string) *envelope.ResponseEnvelope {
	start := time.Now()
	if strings.TrimSpace(text) == "" {
		return envelope.WrapError("plan_classify", &envelope.ValidationError{
			Field:  "task_description",
			Reason: "must not be empty",
		})
	}
	cls := c.classifier.Classify(text)
	env, err := presentClassification(cls, decision.MaybeEscalate(cls), durationMS(start))
	if err != nil {
		return envelope.WrapError("plan_classify", err)
	}
	return env
}

// validateSupplied rejects caller-supplied results whose embedded analysis
// is out of contract before any processor consumes them. The processors
// look up phase and task templates by domain, so an unrecognized domain
// would otherwise degrade silently into an empty core phase.
func validateSupplied(req Request) error {
	if req.Analysis != nil {
		if err := validateAnalysis(*req.Analysis, "analysis_result"); err != nil {
			return err
		}
	}
	if req.Decomposition != nil {
		if err := validateAnalysis(req.Decomposition.Analysis, "decomposition_result"); err != nil {
			return err
		}
	}
	if req.TaskGraph != nil {
		if err := validateAnalysis(req.TaskGraph.Decomposition.Analysis, "task_graph_result"); err != nil {
			return err
		}
	}
	return nil
}

func validateAnalysis(a stages.AnalysisResult, field string) error {
	if err := heuristics.ValidateDomain(a.Domain); err != nil {
		return &envelope.ValidationError{Field: field + ".domain", Reason: err.Error()}
	}
	if a.Confidence < 0 || a.Confidence > 1 {
		return &envelope.ValidationError{Field: field + ".confidence", Reason: "must be between 0 and 1"}
	}
	if a.Complexity < 1 || a.Complexity > 10 {
		return &envelope.ValidationError{Field: field + ".complexity", Reason: "must be between 1 and 10"}
	}
	return nil
}

// effectiveResults resolves the supplied partial state. Results are
// additive — a task graph embeds its decomposition, which embeds its
// analysis — so supplying a later result implies all earlier ones.
func effectiveResults(req Request) (*stages.AnalysisResult, *stages.DecompositionResult, *stages.TaskGraphResult) {
	analysis := req.Analysis
	decomp := req.Decomposition
	graph := req.TaskGraph

	if graph != nil && decomp == nil {
		d := graph.Decomposition
		decomp = &d
	}
	if decomp != nil && analysis == nil {
		a := decomp.Analysis
		analysis = &a
	}
	return analysis, decomp, graph
}

// targetStage picks the stage to run: the explicit override when given,
// otherwise the first stage whose required input is present but whose own
// result is absent.
func targetStage(req Request, analysis *stages.AnalysisResult, decomp *stages.DecompositionResult, graph *stages.TaskGraphResult) (Stage, error) {
	if req.ExplicitStage != "" {
		if err := ValidateStage(req.ExplicitStage); err != nil {
			return "", &envelope.ValidationError{Field: "workflow_stage", Reason: err.Error()}
		}
		if req.ExplicitStage == StageComplete {
			return "", &envelope.ValidationError{
				Field:  "workflow_stage",
				Reason: "complete is terminal and cannot be run; request one of: analysis, decomposition, task_graph, mission_map",
			}
		}
		return req.ExplicitStage, nil
	}

	switch {
	case analysis == nil:
		return StageAnalysis, nil
	case decomp == nil:
		return StageDecomposition, nil
	case graph == nil:
		return StageTaskGraph, nil
	default:
		return StageMissionMap, nil
	}
}

func durationMS(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
