package pipeline_test

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"go.viam.com/test"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
	"github.com/Danielfoojunwei/MCP-ROBOT/determinism"
	"github.com/Danielfoojunwei/MCP-ROBOT/execution"
	"github.com/Danielfoojunwei/MCP-ROBOT/kinematics"
	"github.com/Danielfoojunwei/MCP-ROBOT/pipeline"
	"github.com/Danielfoojunwei/MCP-ROBOT/telemetry"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	test.That(t, c.Write(&m), test.ShouldBeNil)
	return m.GetCounter().GetValue()
}

func newOrchestrator(t *testing.T) *pipeline.Orchestrator {
	profile := kinematics.DefaultProfile()
	clock := determinism.NewClock()
	clock.Freeze(123456789.0)
	twin := kinematics.NewTwin(profile, clock, "2.0.0")

	o := pipeline.New(determinism.DefaultConfig(), twin, execution.NewSimAdapter(nil), nil)
	o.Clock().Freeze(123456789.0)
	return o
}

func TestPlanPickUpAppleProducesFiveSubtasksWorthOfChunks(t *testing.T) {
	o := newOrchestrator(t)
	perception := contracts.PerceptionSnapshot{
		DetectedObjects: []contracts.DetectedObject{{Type: "apple", Mass: 0.2, FrictionCoefficient: 0.5}},
	}
	state := o.Twin().Snapshot()

	plan, err := o.Plan("pick up the apple", perception, state)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(plan.Chunks) >= 5, test.ShouldBeTrue)

	again, err := o.Plan("pick up the apple", perception, state)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, again.PlanID, test.ShouldEqual, plan.PlanID)
}

func TestExecuteChunkTwiceIsIdempotent(t *testing.T) {
	o := newOrchestrator(t)
	perception := contracts.PerceptionSnapshot{
		DetectedObjects: []contracts.DetectedObject{{Type: "apple", Mass: 0.2, FrictionCoefficient: 0.5}},
	}
	state := o.Twin().Snapshot()

	plan, err := o.Plan("pick up the apple", perception, state)
	test.That(t, err, test.ShouldBeNil)

	first, err := o.Execute(context.Background(), plan.PlanID, plan.Chunks[0].ChunkID)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, first.Status, test.ShouldEqual, pipeline.StatusSuccess)

	second, err := o.Execute(context.Background(), plan.PlanID, plan.Chunks[0].ChunkID)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, second.Status, test.ShouldEqual, pipeline.StatusSuccess)
	test.That(t, second.ExecutedAt, test.ShouldEqual, first.ExecutedAt)
}

// Force-rejection (scenario 3: max_force_est=150.0 -> "Force Error") is
// exercised directly against the verifier package, which is where a chunk's
// force ceiling is actually enforced; see verifier.TestVerifyRejectsExcessiveForce.

func TestExecuteRejectsLowStability(t *testing.T) {
	profile := kinematics.DefaultProfile()
	clock := determinism.NewClock()
	clock.Freeze(1.0)
	twin := kinematics.NewTwin(profile, clock, "2.0.0")
	twin.SetBaseVelocity(3.0)

	o := pipeline.New(determinism.DefaultConfig(), twin, execution.NewSimAdapter(nil), nil)
	o.Clock().Freeze(1.0)

	perception := contracts.PerceptionSnapshot{}
	state := o.Twin().Snapshot()

	plan, err := o.Plan("sprint forward", perception, state)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(plan.Chunks) >= 1, test.ShouldBeTrue)

	result, err := o.Execute(context.Background(), plan.PlanID, plan.Chunks[0].ChunkID)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Status, test.ShouldEqual, pipeline.StatusRejected)
	test.That(t, result.Reason, test.ShouldContainSubstring, "Stability")
}

func TestPlanUnknownInstructionFallsBackToIdle(t *testing.T) {
	o := newOrchestrator(t)
	perception := contracts.PerceptionSnapshot{}
	state := o.Twin().Snapshot()

	plan, err := o.Plan("xyz", perception, state)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, len(plan.Chunks), test.ShouldEqual, 1)

	result, err := o.Execute(context.Background(), plan.PlanID, plan.Chunks[0].ChunkID)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Status, test.ShouldEqual, pipeline.StatusSuccess)
}

func TestExecuteUnknownPlanReturnsNotFound(t *testing.T) {
	o := newOrchestrator(t)
	_, err := o.Execute(context.Background(), "unknown", "unknown")
	test.That(t, err, test.ShouldNotBeNil)

	cerr, ok := err.(*contracts.Error)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, cerr.Kind(), test.ShouldEqual, contracts.KindNotFound)
	test.That(t, cerr.Error(), test.ShouldContainSubstring, "not found")
}

func TestTelemetryTracksPlansAndExecutionsAndLogTail(t *testing.T) {
	o := newOrchestrator(t)
	o.SetTelemetry(telemetry.New(prometheus.NewRegistry()))

	perception := contracts.PerceptionSnapshot{
		DetectedObjects: []contracts.DetectedObject{{Type: "apple", Mass: 0.2, FrictionCoefficient: 0.5}},
	}
	state := o.Twin().Snapshot()

	plan, err := o.Plan("pick up the apple", perception, state)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, counterValue(t, o.Telemetry().PlansCreated), test.ShouldEqual, 1.0)

	result, err := o.Execute(context.Background(), plan.PlanID, plan.Chunks[0].ChunkID)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Status, test.ShouldEqual, pipeline.StatusSuccess)
	test.That(t, counterValue(t, o.Telemetry().ExecutionsSucceeded), test.ShouldEqual, 1.0)

	tail := o.LogTail(10)
	test.That(t, len(tail) >= 2, test.ShouldBeTrue)
	test.That(t, tail[0], test.ShouldContainSubstring, plan.PlanID)
}

func TestLogTailIsEmptyAndTelemetryNilBeforeAnyActivity(t *testing.T) {
	o := newOrchestrator(t)
	test.That(t, len(o.LogTail(10)), test.ShouldEqual, 0)
	test.That(t, o.Telemetry(), test.ShouldBeNil)
}

func TestStabilizeDrivesTwinToHomePose(t *testing.T) {
	o := newOrchestrator(t)
	o.Twin().Teleport(map[string]float64{"joint_1": 1.0})

	result, err := o.Stabilize(context.Background())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, result.Status, test.ShouldEqual, pipeline.StatusStabilized)

	snapshot := o.Twin().Snapshot()
	for _, p := range snapshot.Positions {
		test.That(t, p, test.ShouldEqual, 0.0)
	}
}
