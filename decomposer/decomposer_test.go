package decomposer_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
	"github.com/Danielfoojunwei/MCP-ROBOT/decomposer"
)

func TestDecomposePickUpApple(t *testing.T) {
	d := decomposer.New(nil)
	subtasks := d.Decompose("pick up the apple", []contracts.DetectedObject{
		{Type: "apple", Mass: 0.2, FrictionCoefficient: 0.5},
	})

	test.That(t, len(subtasks), test.ShouldEqual, 5)
	wantTypes := []contracts.SubtaskType{
		contracts.SubtaskWalkTo, contracts.SubtaskScanWorkspace,
		contracts.SubtaskGraspApproach, contracts.SubtaskGraspClose, contracts.SubtaskLift,
	}
	for i, st := range subtasks {
		test.That(t, st.Type, test.ShouldEqual, wantTypes[i])
		test.That(t, st.TargetObject, test.ShouldEqual, "apple")
	}
	test.That(t, subtasks[3].Criticality, test.ShouldEqual, contracts.CriticalityHigh)
	test.That(t, subtasks[3].ForceRequirements, test.ShouldEqual, contracts.ForceGentle)
}

func TestDecomposeUnknownInstructionIsIdle(t *testing.T) {
	d := decomposer.New(nil)
	subtasks := d.Decompose("xyz", nil)

	test.That(t, len(subtasks), test.ShouldEqual, 1)
	test.That(t, subtasks[0].Type, test.ShouldEqual, contracts.SubtaskIdle)
	test.That(t, subtasks[0].TargetObject, test.ShouldEqual, "object")
	test.That(t, subtasks[0].EstimatedDuration, test.ShouldEqual, 0.0)
}

func TestDecomposeFallbackTargetKeyword(t *testing.T) {
	d := decomposer.New(nil)
	subtasks := d.Decompose("move the cube over there", nil)
	test.That(t, subtasks[0].TargetObject, test.ShouldEqual, "cube")
}

func TestDecomposeDeterministic(t *testing.T) {
	d := decomposer.New(nil)
	a := d.Decompose("pick up the apple", []contracts.DetectedObject{{Type: "apple"}})
	b := d.Decompose("pick up the apple", []contracts.DetectedObject{{Type: "apple"}})
	test.That(t, a, test.ShouldResemble, b)
}
