package workflow

import (
	"fmt"

	"github.com/pathfinder-mcp/pathfinder/internal/envelope"
)

// StageSequenceError reports a stage request whose prerequisite result is
// missing — a caller error, never a silent default.
type StageSequenceError struct {
	Requested Stage
	Required  Stage  // the stage whose result is missing
	Field     string // request field that must carry it, e.g. "decomposition_result"
}

func (e *StageSequenceError) Error() string {
	return fmt.Sprintf("stage %q requires %s from the %s stage, which was not supplied", e.Requested, e.Field, e.Required)
}

// NextSteps describes how the caller can recover.
func (e *StageSequenceError) NextSteps() []string {
	return []string{
		fmt.Sprintf("Supply %s (from the %s stage's carried_state) before requesting %s", e.Field, e.Required, e.Requested),
		"Or omit workflow_stage and let the controller infer the next stage from the supplied results",
	}
}

// ResumeStage points the error envelope's continuation at the stage the
// caller actually needs to run first.
func (e *StageSequenceError) ResumeStage() envelope.NextStage {
	return nextStageLabel(e.Required)
}
