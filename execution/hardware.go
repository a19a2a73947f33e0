package execution

import (
	"context"
	"time"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
	"github.com/Danielfoojunwei/MCP-ROBOT/execution/operation"
	"github.com/Danielfoojunwei/MCP-ROBOT/logging"
)

// ConnectTimeout is the fixed budget for an action-server connection
// attempt before a HARDWARE execution fails with "Action Server Timeout"
// (spec.md §4.7).
const ConnectTimeout = 5 * time.Second

// GoalState is one of the four observable states an action-server goal
// passes through.
type GoalState int

const (
	GoalRejected GoalState = iota
	GoalAccepted
	GoalExecuting
	GoalSucceeded
	GoalCancelled
)

// ActionPoint is a single trajectory waypoint translated for the action
// server: joint positions plus the time offset from goal start.
type ActionPoint struct {
	Names         []string
	Positions     []float64
	TimeFromStart float64
}

// ActionGoal is the translated form of a JointTrajectoryChunk sent to the
// action server.
type ActionGoal struct {
	ChunkID string
	Points  []ActionPoint
}

// BuildActionGoal translates trajectory's waypoints into action points,
// each stamped with time_from_start = trajectory.DurationS (spec.md §4.7:
// the source spreads one duration across the whole chunk, not per-tick).
func BuildActionGoal(trajectory contracts.JointTrajectoryChunk) ActionGoal {
	points := make([]ActionPoint, len(trajectory.Waypoints))
	for i, wp := range trajectory.Waypoints {
		points[i] = ActionPoint{
			Names:         wp.Names,
			Positions:     wp.Positions,
			TimeFromStart: trajectory.DurationS,
		}
	}
	return ActionGoal{ChunkID: trajectory.ChunkID, Points: points}
}

// ActionServer is the external trajectory-follower HardwareAdapter drives.
// A real implementation would wrap a ROS action client or vendor SDK; tests
// substitute a fake.
type ActionServer interface {
	// Connect blocks until the server is reachable or ctx is done.
	Connect(ctx context.Context) error
	// SendGoal dispatches goal and streams its state transitions until the
	// goal reaches a terminal state or ctx is cancelled.
	SendGoal(ctx context.Context, goal ActionGoal) (<-chan GoalState, error)
}

// HardwareAdapter drives a real action server (spec.md §4.7's HARDWARE
// mode): connect with a bounded timeout, send the goal, and observe its
// state transitions, including external cancellation.
type HardwareAdapter struct {
	server     ActionServer
	operations *operation.Manager
	logger     logging.Logger
}

// NewHardwareAdapter returns a HARDWARE-mode Adapter backed by server.
func NewHardwareAdapter(server ActionServer, operations *operation.Manager, logger logging.Logger) *HardwareAdapter {
	return &HardwareAdapter{server: server, operations: operations, logger: logger}
}

// Execute connects, sends the goal, and waits for a terminal state or for
// ctx to be cancelled. The goal is registered with the operation manager for
// the duration of the call; its token is not returned to the caller.
func (a *HardwareAdapter) Execute(ctx context.Context, trajectory contracts.JointTrajectoryChunk) Result {
	connectCtx, cancelConnect := context.WithTimeout(ctx, ConnectTimeout)
	defer cancelConnect()

	if err := a.server.Connect(connectCtx); err != nil {
		if a.logger != nil {
			a.logger.Warnf("action server connect failed for chunk %s: %v", trajectory.ChunkID, err)
		}
		return Result{Success: false, ErrorCode: "TIMEOUT", Reason: "Action Server Timeout"}
	}

	goalCtx, _, done := a.operations.Start(ctx)
	defer done()

	states, err := a.server.SendGoal(goalCtx, BuildActionGoal(trajectory))
	if err != nil {
		return Result{Success: false, ErrorCode: "ADAPTER_ERROR", Reason: err.Error()}
	}

	for {
		select {
		case <-goalCtx.Done():
			return Result{Success: false, ErrorCode: "CANCELLED", Reason: "Goal Cancelled"}
		case state, ok := <-states:
			if !ok {
				return Result{Success: false, ErrorCode: "ADAPTER_ERROR", Reason: "action server closed without a terminal state"}
			}
			switch state {
			case GoalRejected:
				return Result{Success: false, ErrorCode: "REJECTED", Reason: "Goal Rejected"}
			case GoalAccepted, GoalExecuting:
				continue
			case GoalSucceeded:
				return Result{Success: true, Reason: "Goal Succeeded"}
			case GoalCancelled:
				return Result{Success: false, ErrorCode: "CANCELLED", Reason: "Goal Cancelled"}
			}
		}
	}
}
