// Package decomposer implements the Task Decomposer (T1): a rule-based,
// purely lexical mapping from an instruction plus detected objects to an
// ordered list of Subtasks. No randomness, no wall clock, no I/O — output
// depends only on the instruction text and the detected object types, per
// spec.md §4.2.
package decomposer

import (
	"strings"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
	"github.com/Danielfoojunwei/MCP-ROBOT/logging"
)

// actionMap is the fixed, ordered keyword table of spec.md §4.2 step 2.
// Order matters: it is the order in which matched expansions are appended.
var actionMap = []struct {
	keyword   string
	expansion []contracts.SubtaskType
}{
	{"pick", []contracts.SubtaskType{
		contracts.SubtaskWalkTo, contracts.SubtaskScanWorkspace,
		contracts.SubtaskGraspApproach, contracts.SubtaskGraspClose, contracts.SubtaskLift,
	}},
	{"place", []contracts.SubtaskType{contracts.SubtaskWalkTo, contracts.SubtaskRelease}},
	{"move", []contracts.SubtaskType{
		contracts.SubtaskGraspApproach, contracts.SubtaskGraspClose, contracts.SubtaskLift,
		contracts.SubtaskMoveTo, contracts.SubtaskRelease,
	}},
}

var durationTable = map[contracts.SubtaskType]float64{
	contracts.SubtaskWalkTo:        4.0,
	contracts.SubtaskGraspApproach: 2.0,
	contracts.SubtaskGraspClose:    0.5,
	contracts.SubtaskLift:         1.0,
	contracts.SubtaskRelease:      0.5,
	contracts.SubtaskScanWorkspace: 1.0,
	contracts.SubtaskIdle:         0.0,
}

const defaultDuration = 1.0

var fallbackTargets = []string{"cube", "apple", "bin"}

// Decomposer is the stateless T1 stage.
type Decomposer struct {
	logger logging.Logger
}

// New returns a Decomposer.
func New(logger logging.Logger) *Decomposer {
	return &Decomposer{logger: logger}
}

// Decompose maps instruction + detected objects onto an ordered Subtask
// sequence, per the algorithm of spec.md §4.2.
func (d *Decomposer) Decompose(instruction string, detected []contracts.DetectedObject) []contracts.Subtask {
	lower := strings.ToLower(instruction)

	var types []contracts.SubtaskType
	for _, entry := range actionMap {
		if strings.Contains(lower, entry.keyword) {
			types = append(types, entry.expansion...)
		}
	}
	if len(types) == 0 {
		types = []contracts.SubtaskType{contracts.SubtaskIdle}
	}

	subtasks := make([]contracts.Subtask, 0, len(types))
	for _, st := range types {
		target := resolveTarget(st, lower, detected)
		force := contracts.ForceNormal
		if st == contracts.SubtaskGraspClose {
			force = contracts.ForceGentle
		}
		subtasks = append(subtasks, contracts.Subtask{
			Type:              st,
			TargetObject:      target,
			EstimatedDuration: duration(st),
			Criticality:       criticality(st),
			ForceRequirements: force,
		})
	}

	if d.logger != nil {
		d.logger.Debugf("decomposed %q into %d subtask(s)", instruction, len(subtasks))
	}
	return subtasks
}

func resolveTarget(_ contracts.SubtaskType, instructionLower string, detected []contracts.DetectedObject) string {
	for _, obj := range detected {
		if obj.Type != "" && strings.Contains(instructionLower, strings.ToLower(obj.Type)) {
			return obj.Type
		}
	}
	for _, kw := range fallbackTargets {
		if strings.Contains(instructionLower, kw) {
			return kw
		}
	}
	return "object"
}

func duration(st contracts.SubtaskType) float64 {
	if d, ok := durationTable[st]; ok {
		return d
	}
	return defaultDuration
}

func criticality(st contracts.SubtaskType) contracts.Criticality {
	switch st {
	case contracts.SubtaskGraspClose, contracts.SubtaskLift, contracts.SubtaskRelease:
		return contracts.CriticalityHigh
	case contracts.SubtaskGraspApproach, contracts.SubtaskMoveTo, contracts.SubtaskWalkTo:
		return contracts.CriticalityMedium
	default:
		return contracts.CriticalityLow
	}
}
