// Package execution implements the Execution Adapter (T6): SIM, a
// deterministic instantaneous advance, and HARDWARE, an asynchronous
// action-server call modeled on an external trajectory-follower with
// Rejected/Accepted→Executing/Succeeded/Cancelled states (spec.md §4.7).
// Both modes return a uniform {success, error_code, reason} result.
package execution

import (
	"context"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
	"github.com/Danielfoojunwei/MCP-ROBOT/logging"
)

// Result is the uniform record both execution modes return.
type Result struct {
	Success   bool   `json:"success"`
	ErrorCode string `json:"error_code,omitempty"`
	Reason    string `json:"reason"`
}

// Adapter is the common interface the Orchestrator drives; SIM and
// HARDWARE are the only two implementations (spec.md §4.7).
type Adapter interface {
	Execute(ctx context.Context, trajectory contracts.JointTrajectoryChunk) Result
}

// SimAdapter executes instantaneously with no suspension; the Orchestrator
// remains responsible for advancing the Twin on success.
type SimAdapter struct {
	logger logging.Logger
}

// NewSimAdapter returns a SIM-mode Adapter.
func NewSimAdapter(logger logging.Logger) *SimAdapter {
	return &SimAdapter{logger: logger}
}

// Execute always succeeds for a SIM adapter: it carries no physical
// failure modes, only the chunk's own content.
func (a *SimAdapter) Execute(ctx context.Context, trajectory contracts.JointTrajectoryChunk) Result {
	if a.logger != nil {
		a.logger.Debugf("sim executed chunk %s", trajectory.ChunkID)
	}
	return Result{Success: true, Reason: "Simulated Execution Complete"}
}
