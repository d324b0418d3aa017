// Package workflow implements the stage state machine: it infers where a
// caller is in the planning pipeline from whatever partial state they
// supply, runs the right processor, and packages the continuation
// contract that lets the next call resume with zero server-side memory.
package workflow

import (
	"fmt"

	"github.com/pathfinder-mcp/pathfinder/internal/envelope"
)

// Stage is one state of the workflow machine. The four pipeline stages
// run in fixed order; complete is terminal.
type Stage string

const (
	StageAnalysis      Stage = "analysis"
	StageDecomposition Stage = "decomposition"
	StageTaskGraph     Stage = "task_graph"
	StageMissionMap    Stage = "mission_map"
	StageComplete      Stage = "complete"
)

// stageOrder fixes the pipeline sequence. complete is not runnable and
// deliberately absent.
var stageOrder = []Stage{StageAnalysis, StageDecomposition, StageTaskGraph, StageMissionMap}

// validStages is the set of stage names accepted in requests.
var validStages = map[Stage]bool{
	StageAnalysis:      true,
	StageDecomposition: true,
	StageTaskGraph:     true,
	StageMissionMap:    true,
	StageComplete:      true,
}

// ValidateStage returns an error if the stage name is not recognized.
func ValidateStage(s Stage) error {
	if !validStages[s] {
		return fmt.Errorf("invalid workflow stage %q: must be one of: analysis, decomposition, task_graph, mission_map, complete", s)
	}
	return nil
}

// Next returns the stage after s, or complete once mission mapping has run.
func Next(s Stage) Stage {
	for i, st := range stageOrder {
		if st == s && i < len(stageOrder)-1 {
			return stageOrder[i+1]
		}
	}
	return StageComplete
}

// payloadStage maps a workflow stage to its envelope payload label.
func payloadStage(s Stage) envelope.PayloadStage {
	return envelope.PayloadStage(s)
}

// nextStageLabel maps a workflow stage to its envelope next-stage label.
func nextStageLabel(s Stage) envelope.NextStage {
	return envelope.NextStage(s)
}
