// Package mapper implements the Universal Mapper (T4): it denormalizes the
// last task-space waypoint of each tactile-augmented chunk, solves a
// deterministic geometric IK, and emits a JointTrajectoryChunk chained
// through a walking current-joints accumulator so consecutive chunks share
// a start/target boundary (trajectory continuity, spec.md §4.5).
package mapper

import (
	"github.com/golang/geo/r3"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
	"github.com/Danielfoojunwei/MCP-ROBOT/kinematics"
	"github.com/Danielfoojunwei/MCP-ROBOT/logging"
)

// Mapper is the stateful-per-call (but not stateful-across-calls) T4 stage:
// it owns no persistent state between invocations of Map, only the walking
// accumulator scoped to one Map call, per spec.md's stage-purity notes.
type Mapper struct {
	profile kinematics.Profile
	logger  logging.Logger
}

// New returns a Mapper bound to the robot's workspace bounds and joint set.
func New(profile kinematics.Profile, logger logging.Logger) *Mapper {
	return &Mapper{profile: profile, logger: logger}
}

// Map converts chunks into JointTrajectoryChunks, starting the accumulator
// from startJoints (typically the Twin's current snapshot). Ordinal is set
// to each chunk's position in the output slice; chunk_id/plan_id/timestamp
// are left for the Orchestrator to finalize.
func (m *Mapper) Map(chunks []contracts.TactileAugmentedChunk, startJoints contracts.JointState) []contracts.JointTrajectoryChunk {
	current := startJoints
	out := make([]contracts.JointTrajectoryChunk, len(chunks))

	for i, c := range chunks {
		target := c.PositionWaypoints[len(c.PositionWaypoints)-1]
		world := m.denormalize(target)
		q := solveIK(world.X, world.Y, world.Z)

		targetState := contracts.JointState{
			Names:     append([]string(nil), m.profile.JointNames...),
			Positions: q,
		}

		out[i] = contracts.JointTrajectoryChunk{
			ChunkKind:      contracts.ChunkKindTrajectory,
			Ordinal:        i,
			Description:    string(c.SubtaskType),
			JointNames:     append([]string(nil), m.profile.JointNames...),
			Waypoints:      []contracts.JointState{current, targetState},
			DurationS:      c.DurationS,
			MaxForceEst:    c.EstimatedForce,
			StabilityScore: 1.0,
		}

		current = targetState
	}

	if m.logger != nil {
		m.logger.Debugf("mapped %d chunk(s) to joint trajectories", len(out))
	}
	return out
}

func (m *Mapper) denormalize(normalized r3.Vector) r3.Vector {
	ws := m.profile.Workspace
	return r3.Vector{
		X: ws.Min.X + normalized.X*(ws.Max.X-ws.Min.X),
		Y: ws.Min.Y + normalized.Y*(ws.Max.Y-ws.Min.Y),
		Z: ws.Min.Z + normalized.Z*(ws.Max.Z-ws.Min.Z),
	}
}

// Denormalize exposes the workspace denormalization for use by tests and by
// Round-trip property checks outside this package.
func (m *Mapper) Denormalize(normalized r3.Vector) r3.Vector {
	return m.denormalize(normalized)
}

// Normalize is the inverse of Denormalize, used to verify the round-trip
// invariant of spec.md §8.
func (m *Mapper) Normalize(world r3.Vector) r3.Vector {
	ws := m.profile.Workspace
	return r3.Vector{
		X: (world.X - ws.Min.X) / (ws.Max.X - ws.Min.X),
		Y: (world.Y - ws.Min.Y) / (ws.Max.Y - ws.Min.Y),
		Z: (world.Z - ws.Min.Z) / (ws.Max.Z - ws.Min.Z),
	}
}
