package envelope

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/pathfinder-mcp/pathfinder/internal/stages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParts() (UserFacing, Instructions, Payload, Metadata) {
	uf := UserFacing{
		Summary:   "Analyzed the task",
		KeyPoints: []string{"Domain: web_app"},
		NextSteps: []string{"Run decomposition"},
	}
	ins := Instructions{
		ExecutionMode: ModeAutonomous,
		Actions: []Action{
			{Order: 1, Description: "Run the next stage", Tool: "plan_workflow"},
		},
	}
	p := Payload{
		Stage: StageAnalysis,
		Continuation: &Continuation{
			CurrentStage: StageAnalysis,
			NextStage:    NextDecomposition,
			CarriedState: stages.CarriedState{},
		},
	}
	md := Metadata{Confidence: 0.85, Complexity: 4}
	return uf, ins, p, md
}

func TestWrap_ProducesValidEnvelope(t *testing.T) {
	uf, ins, p, md := validParts()

	env, err := Wrap(KindPlanning, uf, ins, p, md)
	require.NoError(t, err)

	assert.Equal(t, "staged_planning", env.Strategy.Name)
	assert.Equal(t, ContractVersion, env.Strategy.Version)
	assert.Equal(t, KindPlanning, env.Strategy.Kind)
	assert.NoError(t, env.Validate())
}

func TestWrap_NormalizesNilSlices(t *testing.T) {
	uf, ins, p, md := validParts()
	uf.KeyPoints = nil
	uf.NextSteps = nil
	ins.Actions = nil

	env, err := Wrap(KindHistory, uf, ins, p, md)
	require.NoError(t, err)

	// The schema requires the arrays to be present; nil would marshal
	// to null.
	data, err := json.Marshal(env)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"key_points":[]`)
	assert.Contains(t, string(data), `"next_steps":[]`)
	assert.Contains(t, string(data), `"actions":[]`)
}

func TestWrap_RejectsOutOfBoundsMetadata(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Metadata)
		wantField string
	}{
		{"confidence above one", func(m *Metadata) { m.Confidence = 1.2 }, "metadata.confidence"},
		{"confidence negative", func(m *Metadata) { m.Confidence = -0.1 }, "metadata.confidence"},
		{"complexity zero", func(m *Metadata) { m.Complexity = 0 }, "metadata.complexity"},
		{"complexity above ten", func(m *Metadata) { m.Complexity = 11 }, "metadata.complexity"},
		{"negative duration", func(m *Metadata) { m.DurationMS = -5 }, "metadata.duration_ms"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uf, ins, p, md := validParts()
			tt.mutate(&md)

			_, err := Wrap(KindPlanning, uf, ins, p, md)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantField, verr.Field)
		})
	}
}

func TestWrap_RejectsStructuralProblems(t *testing.T) {
	t.Run("empty summary", func(t *testing.T) {
		uf, ins, p, md := validParts()
		uf.Summary = ""
		_, err := Wrap(KindPlanning, uf, ins, p, md)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "user_facing.summary", verr.Field)
	})

	t.Run("action order below one", func(t *testing.T) {
		uf, ins, p, md := validParts()
		ins.Actions[0].Order = 0
		_, err := Wrap(KindPlanning, uf, ins, p, md)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "instructions.actions[0].order", verr.Field)
	})

	t.Run("decision point without options", func(t *testing.T) {
		uf, ins, p, md := validParts()
		ins.ExecutionMode = ModeUserConfirmation
		ins.DecisionPoints = []DecisionPoint{{
			ID:             "dp-1",
			Question:       "Which domain?",
			Recommendation: "web_app",
			Confidence:     0.5,
		}}
		_, err := Wrap(KindPlanning, uf, ins, p, md)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "instructions.decision_points[0].options", verr.Field)
	})

	t.Run("unknown continuation stage", func(t *testing.T) {
		uf, ins, p, md := validParts()
		p.Continuation.NextStage = NextStage("later")
		_, err := Wrap(KindPlanning, uf, ins, p, md)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "payload.continuation.next_stage", verr.Field)
	})
}

func TestValidate_SchemaLayerCatchesUnknownEnumValues(t *testing.T) {
	uf, ins, p, md := validParts()
	env, err := Wrap(KindPlanning, uf, ins, p, md)
	require.NoError(t, err)

	// Mutate past the typed layer's reach: both layers check enums, so
	// force the payload stage after construction and validate again.
	env.Payload.Stage = "warmup"
	assert.Error(t, env.Validate())
}

type recoverableErr struct{}

func (recoverableErr) Error() string          { return "decomposition_result is missing" }
func (recoverableErr) NextSteps() []string    { return []string{"Supply decomposition_result"} }
func (recoverableErr) ResumeStage() NextStage { return NextDecomposition }

func TestWrapError_AlwaysValid(t *testing.T) {
	env := WrapError("plan_workflow", errors.New("boom"))

	require.NoError(t, env.Validate())
	assert.Equal(t, KindError, env.Strategy.Kind)
	assert.Equal(t, ModeUserConfirmation, env.Instructions.ExecutionMode)
	assert.Equal(t, StageError, env.Payload.Stage)
	assert.Equal(t, NextAnalysis, env.Payload.Continuation.NextStage)
	assert.Equal(t, 0.0, env.Metadata.Confidence)
	assert.Equal(t, 1, env.Metadata.Complexity)
	assert.Contains(t, env.UserFacing.Summary, "boom")
}

func TestWrapError_UsesRecoveryInterfaces(t *testing.T) {
	env := WrapError("plan_workflow", recoverableErr{})

	require.NoError(t, env.Validate())
	assert.Equal(t, NextDecomposition, env.Payload.Continuation.NextStage)
	assert.Equal(t, []string{"Supply decomposition_result"}, env.UserFacing.NextSteps)
}

func TestWrapError_ValidationErrorNextSteps(t *testing.T) {
	cause := &ValidationError{Field: "task_description", Reason: "must not be empty"}
	env := WrapError("plan_classify", cause)

	require.NoError(t, env.Validate())
	require.Len(t, env.UserFacing.NextSteps, 1)
	assert.Contains(t, env.UserFacing.NextSteps[0], "task_description")
}
