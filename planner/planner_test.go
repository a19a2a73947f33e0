package planner_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
	"github.com/Danielfoojunwei/MCP-ROBOT/determinism"
	"github.com/Danielfoojunwei/MCP-ROBOT/planner"
)

func TestPlanProducesAtLeastOneChunkPerSubtask(t *testing.T) {
	p := planner.New(determinism.NewHasher(6), nil)
	subtasks := []contracts.Subtask{
		{Type: contracts.SubtaskGraspClose, EstimatedDuration: 0.5, Criticality: contracts.CriticalityHigh},
		{Type: contracts.SubtaskWalkTo, EstimatedDuration: 4.0, Criticality: contracts.CriticalityMedium},
	}

	chunks, err := p.Plan(subtasks, "digest-abc")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(chunks) >= 2, test.ShouldBeTrue)

	for i, c := range chunks {
		test.That(t, c.Ordinal, test.ShouldEqual, i)
		test.That(t, len(c.PositionWaypoints), test.ShouldEqual, contracts.TimestepsPerChunk)
		test.That(t, len(c.LatentVector), test.ShouldEqual, 64)
	}
}

func TestPlanDeterministic(t *testing.T) {
	p := planner.New(determinism.NewHasher(6), nil)
	subtasks := []contracts.Subtask{
		{Type: contracts.SubtaskLift, EstimatedDuration: 1.0, Criticality: contracts.CriticalityHigh},
	}

	a, err := p.Plan(subtasks, "digest-xyz")
	test.That(t, err, test.ShouldBeNil)
	b, err := p.Plan(subtasks, "digest-xyz")
	test.That(t, err, test.ShouldBeNil)

	test.That(t, a, test.ShouldResemble, b)
}

func TestPlanLiftDeltaZ(t *testing.T) {
	p := planner.New(determinism.NewHasher(6), nil)
	subtasks := []contracts.Subtask{
		{Type: contracts.SubtaskLift, EstimatedDuration: 1.0, Criticality: contracts.CriticalityHigh},
	}
	chunks, err := p.Plan(subtasks, "d")
	test.That(t, err, test.ShouldBeNil)

	first := chunks[0].PositionWaypoints[0]
	last := chunks[0].PositionWaypoints[len(chunks[0].PositionWaypoints)-1]
	test.That(t, last.Z-first.Z, test.ShouldAlmostEqual, 0.2, 1e-4)
	test.That(t, last.X, test.ShouldAlmostEqual, first.X, 1e-9)
}

func TestPlanIdleSingleChunk(t *testing.T) {
	p := planner.New(determinism.NewHasher(6), nil)
	subtasks := []contracts.Subtask{
		{Type: contracts.SubtaskIdle, EstimatedDuration: 0.0, Criticality: contracts.CriticalityLow},
	}
	chunks, err := p.Plan(subtasks, "d")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(chunks), test.ShouldEqual, 1)
	test.That(t, chunks[0].EstimatedForce >= 0.0, test.ShouldBeTrue)
}
