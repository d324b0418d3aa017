// Package envelope defines the universal response envelope every
// Pathfinder operation returns, success and error paths alike.
//
// The envelope is validated twice: typed field checks produce a
// *ValidationError with a precise field path, then the marshaled form is
// checked against the embedded JSON schema. No operation may hand a
// caller anything that fails either layer — error responses are the same
// shape with a distinct execution mode and payload stage.
package envelope

import (
	"github.com/pathfinder-mcp/pathfinder/internal/stages"
)

// ContractVersion is the envelope contract version carried in
// strategy.version.
const ContractVersion = "1.0.0"

// --- Kind enum ---

// Kind categorizes the strategy that produced a response.
type Kind string

const (
	KindPlanning       Kind = "planning"
	KindClassification Kind = "classification"
	KindHistory        Kind = "history"
	KindError          Kind = "error"
)

// strategyNames maps each kind to its strategy name.
var strategyNames = map[Kind]string{
	KindPlanning:       "staged_planning",
	KindClassification: "heuristic_classification",
	KindHistory:        "run_journal",
	KindError:          "error_recovery",
}

// --- Execution mode enum ---

// ExecutionMode tells the caller how to treat the instructions.
type ExecutionMode string

const (
	// ModeAutonomous means the caller may act on the actions directly.
	ModeAutonomous ExecutionMode = "autonomous"
	// ModeUserConfirmation means a human or collaborator decision is
	// needed before acting. All error envelopes use this mode.
	ModeUserConfirmation ExecutionMode = "user_confirmation"
)

// --- Stage labels for payloads and continuations ---

// PayloadStage labels what the payload carries. The four pipeline stages
// plus classification, history, and error.
type PayloadStage string

const (
	StageAnalysis       PayloadStage = "analysis"
	StageDecomposition  PayloadStage = "decomposition"
	StageTaskGraph      PayloadStage = "task_graph"
	StageMissionMap     PayloadStage = "mission_map"
	StageClassification PayloadStage = "classification"
	StageHistory        PayloadStage = "history"
	StageError          PayloadStage = "error"
)

// NextStage is the continuation's next-stage label: a pipeline stage or
// the terminal "complete". Always a valid enum member, never null.
type NextStage string

const (
	NextAnalysis      NextStage = "analysis"
	NextDecomposition NextStage = "decomposition"
	NextTaskGraph     NextStage = "task_graph"
	NextMissionMap    NextStage = "mission_map"
	NextComplete      NextStage = "complete"
)

// --- Envelope structure ---

// Strategy identifies what produced this response.
type Strategy struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Kind    Kind   `json:"kind"`
}

// UserFacing is the human-readable portion of a response.
type UserFacing struct {
	Summary       string   `json:"summary"`
	Visualization string   `json:"visualization,omitempty"`
	KeyPoints     []string `json:"key_points"`
	NextSteps     []string `json:"next_steps"`
}

// Action is one ordered step the caller should take.
type Action struct {
	Order       int    `json:"order"`
	Description string `json:"description"`
	Tool        string `json:"tool,omitempty"`
}

// DecisionOption is one candidate answer to a decision point, with the
// matched indicators as supporting evidence.
type DecisionOption struct {
	ID         string   `json:"id"`
	Label      string   `json:"label"`
	Confidence float64  `json:"confidence"`
	Evidence   []string `json:"evidence,omitempty"`
}

// DecisionPoint is a structured, non-blocking escalation: the engine
// returns immediately with the choice surfaced; the caller resolves it
// (auto-accept on high confidence) or asks a human.
type DecisionPoint struct {
	ID             string           `json:"id"`
	Question       string           `json:"question"`
	Options        []DecisionOption `json:"options"`
	Recommendation string           `json:"recommendation"`
	Confidence     float64          `json:"confidence"`
}

// Instructions tell the calling agent what to do with the response.
type Instructions struct {
	ExecutionMode  ExecutionMode   `json:"execution_mode"`
	Actions        []Action        `json:"actions"`
	DecisionPoints []DecisionPoint `json:"decision_points,omitempty"`
	Fallback       string          `json:"fallback,omitempty"`
}

// Continuation is the stateless resume contract: the caller feeds
// carried_state back on the next call and the controller picks up where
// this response left off. The engine itself holds nothing between calls.
type Continuation struct {
	CurrentStage PayloadStage        `json:"current_stage"`
	NextStage    NextStage           `json:"next_stage"`
	CarriedState stages.CarriedState `json:"carried_state"`
}

// Payload carries the stage-specific structured result.
type Payload struct {
	Stage        PayloadStage  `json:"stage"`
	Result       any           `json:"result,omitempty"`
	Continuation *Continuation `json:"continuation,omitempty"`
}

// Metadata is advisory response metadata.
type Metadata struct {
	Confidence float64  `json:"confidence"`  // [0,1]
	Complexity int      `json:"complexity"`  // [1,10]
	DurationMS int64    `json:"duration_ms,omitempty"`
	Hints      []string `json:"hints,omitempty"`
}

// ResponseEnvelope is the universal wrapper. Every operation returns one.
type ResponseEnvelope struct {
	Strategy     Strategy     `json:"strategy"`
	UserFacing   UserFacing   `json:"user_facing"`
	Instructions Instructions `json:"instructions"`
	Payload      Payload      `json:"payload"`
	Metadata     Metadata     `json:"metadata"`
}

// Wrap assembles and validates an envelope. The strategy block is derived
// from the kind; nil slices in required positions are normalized to empty
// so the schema's array requirements hold. A validation failure returns a
// *ValidationError — callers one layer up convert it into an error
// envelope so the outward contract is never broken.
func Wrap(kind Kind, uf UserFacing, ins Instructions, p Payload, md Metadata) (*ResponseEnvelope, error) {
	if uf.KeyPoints == nil {
		uf.KeyPoints = []string{}
	}
	if uf.NextSteps == nil {
		uf.NextSteps = []string{}
	}
	if ins.Actions == nil {
		ins.Actions = []Action{}
	}

	env := &ResponseEnvelope{
		Strategy: Strategy{
			Name:    strategyNames[kind],
			Version: ContractVersion,
			Kind:    kind,
		},
		UserFacing:   uf,
		Instructions: ins,
		Payload:      p,
		Metadata:     md,
	}

	if err := env.Validate(); err != nil {
		return nil, err
	}
	return env, nil
}

// nextSteps is implemented by errors that know how a caller can recover.
type nextSteps interface {
	NextSteps() []string
}

// resumeStage is implemented by errors that know which pipeline stage the
// caller should run (or re-run) to recover.
type resumeStage interface {
	ResumeStage() NextStage
}

// WrapError converts any failure into a structurally valid error
// envelope. It cannot fail: the envelope it builds is valid by
// construction, with execution mode user_confirmation and payload stage
// "error". Metadata carries the declared lower bounds.
func WrapError(toolName string, cause error) *ResponseEnvelope {
	steps := []string{"Review the error and correct the request before retrying"}
	if ns, ok := cause.(nextSteps); ok {
		steps = ns.NextSteps()
	}

	next := NextAnalysis
	if rs, ok := cause.(resumeStage); ok {
		next = rs.ResumeStage()
	}

	return &ResponseEnvelope{
		Strategy: Strategy{
			Name:    strategyNames[KindError],
			Version: ContractVersion,
			Kind:    KindError,
		},
		UserFacing: UserFacing{
			Summary:   toolName + " failed: " + cause.Error(),
			KeyPoints: []string{"The request was not processed", "No state was lost — the engine is stateless"},
			NextSteps: steps,
		},
		Instructions: Instructions{
			ExecutionMode: ModeUserConfirmation,
			Actions: []Action{
				{Order: 1, Description: "Correct the request as described in next_steps and call " + toolName + " again", Tool: toolName},
			},
			Fallback: "Start over from the analysis stage with the original task description",
		},
		Payload: Payload{
			Stage: StageError,
			Continuation: &Continuation{
				CurrentStage: StageError,
				NextStage:    next,
				CarriedState: stages.CarriedState{},
			},
		},
		Metadata: Metadata{
			Confidence: 0,
			Complexity: 1,
		},
	}
}
