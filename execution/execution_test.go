package execution_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
	"github.com/Danielfoojunwei/MCP-ROBOT/execution"
	"github.com/Danielfoojunwei/MCP-ROBOT/execution/operation"
)

func sampleChunk() contracts.JointTrajectoryChunk {
	names := []string{"joint_1"}
	return contracts.JointTrajectoryChunk{
		ChunkID:    "chunk-1",
		JointNames: names,
		Waypoints: []contracts.JointState{
			{Names: names, Positions: []float64{0.0}},
			{Names: names, Positions: []float64{0.5}},
		},
		DurationS: 2.0,
	}
}

func TestSimAdapterAlwaysSucceeds(t *testing.T) {
	a := execution.NewSimAdapter(nil)
	res := a.Execute(context.Background(), sampleChunk())
	test.That(t, res.Success, test.ShouldBeTrue)
}

type fakeServer struct {
	connectErr error
	states     []execution.GoalState
}

func (f *fakeServer) Connect(ctx context.Context) error {
	return f.connectErr
}

func (f *fakeServer) SendGoal(ctx context.Context, goal execution.ActionGoal) (<-chan execution.GoalState, error) {
	ch := make(chan execution.GoalState, len(f.states))
	for _, s := range f.states {
		ch <- s
	}
	close(ch)
	return ch, nil
}

func TestHardwareAdapterSucceeds(t *testing.T) {
	server := &fakeServer{states: []execution.GoalState{execution.GoalAccepted, execution.GoalExecuting, execution.GoalSucceeded}}
	a := execution.NewHardwareAdapter(server, operation.NewManager(), nil)

	res := a.Execute(context.Background(), sampleChunk())
	test.That(t, res.Success, test.ShouldBeTrue)
	test.That(t, res.Reason, test.ShouldEqual, "Goal Succeeded")
}

func TestHardwareAdapterRejectsGoal(t *testing.T) {
	server := &fakeServer{states: []execution.GoalState{execution.GoalRejected}}
	a := execution.NewHardwareAdapter(server, operation.NewManager(), nil)

	res := a.Execute(context.Background(), sampleChunk())
	test.That(t, res.Success, test.ShouldBeFalse)
	test.That(t, res.Reason, test.ShouldEqual, "Goal Rejected")
}

func TestHardwareAdapterConnectTimeout(t *testing.T) {
	server := &fakeServer{connectErr: context.DeadlineExceeded}
	a := execution.NewHardwareAdapter(server, operation.NewManager(), nil)

	res := a.Execute(context.Background(), sampleChunk())
	test.That(t, res.Success, test.ShouldBeFalse)
	test.That(t, res.Reason, test.ShouldEqual, "Action Server Timeout")
}

type blockingServer struct{}

func (b *blockingServer) Connect(ctx context.Context) error { return nil }

func (b *blockingServer) SendGoal(ctx context.Context, goal execution.ActionGoal) (<-chan execution.GoalState, error) {
	ch := make(chan execution.GoalState)
	return ch, nil
}

func TestHardwareAdapterCancellation(t *testing.T) {
	a := execution.NewHardwareAdapter(&blockingServer{}, operation.NewManager(), nil)

	ctx, cancel := context.WithCancel(context.Background())
	resCh := make(chan execution.Result, 1)
	go func() {
		resCh <- a.Execute(ctx, sampleChunk())
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case res := <-resCh:
		test.That(t, res.Success, test.ShouldBeFalse)
		test.That(t, res.Reason, test.ShouldEqual, "Goal Cancelled")
	case <-time.After(time.Second):
		t.Fatal("hardware adapter did not observe cancellation")
	}
}

func TestHardwareAdapterSendGoalError(t *testing.T) {
	server := &erroringServer{}
	a := execution.NewHardwareAdapter(server, operation.NewManager(), nil)

	res := a.Execute(context.Background(), sampleChunk())
	test.That(t, res.Success, test.ShouldBeFalse)
	test.That(t, res.ErrorCode, test.ShouldEqual, "ADAPTER_ERROR")
}

type erroringServer struct{}

func (e *erroringServer) Connect(ctx context.Context) error { return nil }

func (e *erroringServer) SendGoal(ctx context.Context, goal execution.ActionGoal) (<-chan execution.GoalState, error) {
	return nil, errors.New("driver fault")
}
