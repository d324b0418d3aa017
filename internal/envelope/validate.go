package envelope

import "fmt"

// Enum sets for the typed validation layer. The JSON schema mirrors
// these; keeping both closed means a new enum member is a deliberate
// two-place change.
var (
	validKinds = map[Kind]bool{
		KindPlanning:       true,
		KindClassification: true,
		KindHistory:        true,
		KindError:          true,
	}
	validModes = map[ExecutionMode]bool{
		ModeAutonomous:       true,
		ModeUserConfirmation: true,
	}
	validPayloadStages = map[PayloadStage]bool{
		StageAnalysis:       true,
		StageDecomposition:  true,
		StageTaskGraph:      true,
		StageMissionMap:     true,
		StageClassification: true,
		StageHistory:        true,
		StageError:          true,
	}
	validNextStages = map[NextStage]bool{
		NextAnalysis:      true,
		NextDecomposition: true,
		NextTaskGraph:     true,
		NextMissionMap:    true,
		NextComplete:      true,
	}
)

// Validate runs both validation layers: typed field checks first (precise
// *ValidationError with a field path), then the embedded JSON schema
// against the marshaled form. Any out-of-bounds envelope fails fast here
// instead of reaching a caller.
func (e *ResponseEnvelope) Validate() error {
	if err := e.validateTyped(); err != nil {
		return err
	}
	return validateSchema(e)
}

func (e *ResponseEnvelope) validateTyped() error {
	if e.Strategy.Name == "" {
		return &ValidationError{Field: "strategy.name", Reason: "must not be empty"}
	}
	if e.Strategy.Version == "" {
		return &ValidationError{Field: "strategy.version", Reason: "must not be empty"}
	}
	if !validKinds[e.Strategy.Kind] {
		return &ValidationError{Field: "strategy.kind", Reason: fmt.Sprintf("unknown kind %q", e.Strategy.Kind)}
	}

	if e.UserFacing.Summary == "" {
		return &ValidationError{Field: "user_facing.summary", Reason: "must not be empty"}
	}
	if e.UserFacing.KeyPoints == nil {
		return &ValidationError{Field: "user_facing.key_points", Reason: "must be present (may be empty)"}
	}
	if e.UserFacing.NextSteps == nil {
		return &ValidationError{Field: "user_facing.next_steps", Reason: "must be present (may be empty)"}
	}

	if !validModes[e.Instructions.ExecutionMode] {
		return &ValidationError{Field: "instructions.execution_mode", Reason: fmt.Sprintf("unknown mode %q", e.Instructions.ExecutionMode)}
	}
	if e.Instructions.Actions == nil {
		return &ValidationError{Field: "instructions.actions", Reason: "must be present (may be empty)"}
	}
	for i, a := range e.Instructions.Actions {
		if a.Order < 1 {
			return &ValidationError{Field: fmt.Sprintf("instructions.actions[%d].order", i), Reason: "must be >= 1"}
		}
		if a.Description == "" {
			return &ValidationError{Field: fmt.Sprintf("instructions.actions[%d].description", i), Reason: "must not be empty"}
		}
	}
	for i, dp := range e.Instructions.DecisionPoints {
		if err := validateDecisionPoint(i, dp); err != nil {
			return err
		}
	}

	if !validPayloadStages[e.Payload.Stage] {
		return &ValidationError{Field: "payload.stage", Reason: fmt.Sprintf("unknown stage %q", e.Payload.Stage)}
	}
	if c := e.Payload.Continuation; c != nil {
		if !validPayloadStages[c.CurrentStage] {
			return &ValidationError{Field: "payload.continuation.current_stage", Reason: fmt.Sprintf("unknown stage %q", c.CurrentStage)}
		}
		if !validNextStages[c.NextStage] {
			return &ValidationError{Field: "payload.continuation.next_stage", Reason: fmt.Sprintf("unknown stage %q", c.NextStage)}
		}
	}

	if e.Metadata.Confidence < 0 || e.Metadata.Confidence > 1 {
		return &ValidationError{Field: "metadata.confidence", Reason: fmt.Sprintf("must be within [0,1], got %v", e.Metadata.Confidence)}
	}
	if e.Metadata.Complexity < 1 || e.Metadata.Complexity > 10 {
		return &ValidationError{Field: "metadata.complexity", Reason: fmt.Sprintf("must be within [1,10], got %d", e.Metadata.Complexity)}
	}
	if e.Metadata.DurationMS < 0 {
		return &ValidationError{Field: "metadata.duration_ms", Reason: "must not be negative"}
	}

	return nil
}

func validateDecisionPoint(i int, dp DecisionPoint) error {
	field := func(name string) string {
		return fmt.Sprintf("instructions.decision_points[%d].%s", i, name)
	}
	if dp.ID == "" {
		return &ValidationError{Field: field("id"), Reason: "must not be empty"}
	}
	if dp.Question == "" {
		return &ValidationError{Field: field("question"), Reason: "must not be empty"}
	}
	if len(dp.Options) == 0 {
		return &ValidationError{Field: field("options"), Reason: "must contain at least one option"}
	}
	for j, opt := range dp.Options {
		if opt.ID == "" || opt.Label == "" {
			return &ValidationError{Field: fmt.Sprintf("%s[%d]", field("options"), j), Reason: "id and label must not be empty"}
		}
		if opt.Confidence < 0 || opt.Confidence > 1 {
			return &ValidationError{Field: fmt.Sprintf("%s[%d].confidence", field("options"), j), Reason: "must be within [0,1]"}
		}
	}
	if dp.Recommendation == "" {
		return &ValidationError{Field: field("recommendation"), Reason: "must not be empty"}
	}
	if dp.Confidence < 0 || dp.Confidence > 1 {
		return &ValidationError{Field: field("confidence"), Reason: "must be within [0,1]"}
	}
	return nil
}
