// Package planner implements the Long-Horizon Planner (T2): it converts
// each Subtask into one or more LatentChunks, each seeded from a digest of
// (task digest, subtask type, ordinal) so generation is order-independent
// and reproducible across hosts, per spec.md §4.3.
package planner

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
	"github.com/Danielfoojunwei/MCP-ROBOT/determinism"
	"github.com/Danielfoojunwei/MCP-ROBOT/logging"
)

// TimestepsPerChunk, HZ, and ChunkDuration are the fixed constants of
// spec.md §4.3.
const (
	TimestepsPerChunk = contracts.TimestepsPerChunk
	HZ                = 30
)

// ChunkDuration is TimestepsPerChunk/HZ seconds, ~1.667s.
var ChunkDuration = float64(TimestepsPerChunk) / float64(HZ)

// Planner is the stateless T2 stage.
type Planner struct {
	hasher determinism.Hasher
	logger logging.Logger
}

// New returns a Planner using hasher for both chunk-seed digests and float
// rounding.
func New(hasher determinism.Hasher, logger logging.Logger) *Planner {
	return &Planner{hasher: hasher, logger: logger}
}

// Plan converts subtasks into an ordered sequence of LatentChunks. taskDigest
// is the stable digest of the planning input; the Orchestrator passes its
// input_digest over the instruction, perception and state (spec.md §4.3).
func (p *Planner) Plan(subtasks []contracts.Subtask, taskDigest string) ([]contracts.LatentChunk, error) {
	var all []contracts.LatentChunk
	globalOrdinal := 0

	for _, st := range subtasks {
		numChunks := int(math.Floor(st.EstimatedDuration / ChunkDuration))
		if numChunks < 1 {
			numChunks = 1
		}

		for i := 0; i < numChunks; i++ {
			ordinal := globalOrdinal + i
			chunk, err := p.planChunk(st, taskDigest, ordinal)
			if err != nil {
				return nil, err
			}
			all = append(all, chunk)
		}
		globalOrdinal += numChunks
	}

	if p.logger != nil {
		p.logger.Debugf("planned %d chunk(s) from %d subtask(s)", len(all), len(subtasks))
	}
	return all, nil
}

func (p *Planner) planChunk(st contracts.Subtask, taskDigest string, ordinal int) (contracts.LatentChunk, error) {
	seedDigest, err := p.hasher.SHA256JSON(map[string]interface{}{
		"task_digest":  taskDigest,
		"subtask_type": string(st.Type),
		"ordinal":      ordinal,
	})
	if err != nil {
		return contracts.LatentChunk{}, contracts.NewDeterminismViolation("failed to derive chunk seed", err)
	}

	rng, err := determinism.NewRNGFromDigest(seedDigest)
	if err != nil {
		return contracts.LatentChunk{}, contracts.NewDeterminismViolation("failed to seed chunk RNG", err)
	}
	latent := rng.Float64s(64)

	waypoints := p.generateWaypoints(latent, st.Type)

	forceProfile := make([]float64, TimestepsPerChunk)
	forceValue := p.hasher.Round(latent[3] * 20.0)
	for i := range forceProfile {
		forceProfile[i] = forceValue
	}

	return contracts.LatentChunk{
		Ordinal:           ordinal,
		SubtaskType:       st.Type,
		TargetObject:      st.TargetObject,
		LatentVector:      roundAll(p.hasher, latent),
		PositionWaypoints: waypoints,
		ForceProfile:      forceProfile,
		DurationS:         ChunkDuration,
		Criticality:       st.Criticality,
		EstimatedForce:    p.hasher.Round(latent[4] * 100.0),
	}, nil
}

// generateWaypoints linearly interpolates 50 waypoints from a latent-derived
// start point to that start plus a subtask-dependent delta (spec.md §4.3).
func (p *Planner) generateWaypoints(latent []float64, st contracts.SubtaskType) []r3.Vector {
	start := r3.Vector{X: latent[0] * 0.5, Y: latent[1] * 0.5, Z: latent[2] * 0.5}

	var delta r3.Vector
	switch st {
	case contracts.SubtaskLift:
		delta.Z = 0.2
	case contracts.SubtaskWalkTo:
		delta.X = 0.3
	case contracts.SubtaskGraspApproach:
		delta.Z = -0.1
	}

	waypoints := make([]r3.Vector, TimestepsPerChunk)
	for i := 0; i < TimestepsPerChunk; i++ {
		alpha := float64(i) / float64(TimestepsPerChunk-1)
		waypoints[i] = r3.Vector{
			X: p.hasher.Round(start.X + alpha*delta.X),
			Y: p.hasher.Round(start.Y + alpha*delta.Y),
			Z: p.hasher.Round(start.Z + alpha*delta.Z),
		}
	}
	return waypoints
}

func roundAll(h determinism.Hasher, values []float64) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = h.Round(v)
	}
	return out
}
