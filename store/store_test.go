package store_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
	"github.com/Danielfoojunwei/MCP-ROBOT/determinism"
	"github.com/Danielfoojunwei/MCP-ROBOT/store"
)

func TestSaveAndLoadPlanRoundTripsByteIdentical(t *testing.T) {
	hasher := determinism.NewHasher(6)
	s, err := store.Open(":memory:", hasher)
	test.That(t, err, test.ShouldBeNil)
	defer s.Close()

	plan := contracts.TaskPlan{
		PlanID:      "abc123",
		Instruction: "pick up the apple",
		InputDigest: "deadbeef",
		CreatedAt:   123456789.0,
		Chunks: []contracts.JointTrajectoryChunk{
			{ChunkID: "c1", PlanID: "abc123", JointNames: []string{"joint_1"}},
		},
	}

	test.That(t, s.SavePlan(plan), test.ShouldBeNil)

	want, err := hasher.Canonical(plan)
	test.That(t, err, test.ShouldBeNil)

	got, err := s.LoadPlan("abc123")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(got), test.ShouldEqual, string(want))
}

func TestLoadPlanMissingReturnsNotFound(t *testing.T) {
	hasher := determinism.NewHasher(6)
	s, err := store.Open(":memory:", hasher)
	test.That(t, err, test.ShouldBeNil)
	defer s.Close()

	_, err = s.LoadPlan("unknown")
	test.That(t, err, test.ShouldNotBeNil)
	cerr, ok := err.(*contracts.Error)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, cerr.Kind(), test.ShouldEqual, contracts.KindNotFound)
}

func TestSaveAndLoadExecutionResult(t *testing.T) {
	hasher := determinism.NewHasher(6)
	s, err := store.Open(":memory:", hasher)
	test.That(t, err, test.ShouldBeNil)
	defer s.Close()

	result := map[string]interface{}{"status": "SUCCESS", "executed_at": 42.0}
	test.That(t, s.SaveExecutionResult("plan-1", "chunk-1", result), test.ShouldBeNil)

	got, err := s.LoadExecutionResult("plan-1", "chunk-1")
	test.That(t, err, test.ShouldBeNil)

	want, err := hasher.Canonical(result)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(got), test.ShouldEqual, string(want))
}
