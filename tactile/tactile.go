// Package tactile implements the Tactile Encoder (T3): it augments each
// LatentChunk with per-waypoint grip force and stability metadata derived
// from the perceived target object's mass and friction. Pure function of
// its inputs — no I/O, no randomness (spec.md §4.4).
package tactile

import (
	"math"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
	"github.com/Danielfoojunwei/MCP-ROBOT/kinematics"
	"github.com/Danielfoojunwei/MCP-ROBOT/logging"
)

const (
	gravityMPS2  = 9.81
	numFingers   = 2.0
	safetyFactor = 1.5
)

var defaultObject = contracts.DetectedObject{Type: "default", Mass: 0.2, FrictionCoefficient: 0.5}

// Encoder is the stateless T3 stage.
type Encoder struct {
	profile kinematics.Profile
	logger  logging.Logger
}

// New returns an Encoder bound to the robot's gripper rating.
func New(profile kinematics.Profile, logger logging.Logger) *Encoder {
	return &Encoder{profile: profile, logger: logger}
}

// Encode augments every chunk in chunks with tactile waypoints resolved
// against detected's matching object (or the default object, if none
// matches), then enforces the grip-force ceiling invariant (spec.md §3:
// grip_force_n <= 0.8 * gripper.max_force_n) on each result before
// returning it.
func (e *Encoder) Encode(chunks []contracts.LatentChunk, detected []contracts.DetectedObject) ([]contracts.TactileAugmentedChunk, error) {
	out := make([]contracts.TactileAugmentedChunk, len(chunks))
	for i, c := range chunks {
		out[i] = e.encodeChunk(c, detected)
		if err := out[i].Validate(e.profile.GripperMaxForceN); err != nil {
			return nil, err
		}
	}
	if e.logger != nil {
		e.logger.Debugf("tactile-augmented %d chunk(s)", len(out))
	}
	return out, nil
}

func (e *Encoder) encodeChunk(c contracts.LatentChunk, detected []contracts.DetectedObject) contracts.TactileAugmentedChunk {
	obj := resolveTarget(c.TargetObject, detected)

	gripForce := e.gripForce(obj.Mass, obj.FrictionCoefficient)
	slipThreshold := round4(gripForce * 0.2)

	waypoints := make([]contracts.TactileWaypoint, len(c.PositionWaypoints))
	for i, wp := range c.PositionWaypoints {
		waypoints[i] = contracts.TactileWaypoint{
			Position:          wp,
			GripForceN:        gripForce,
			PredictedFriction: obj.FrictionCoefficient,
			SlipThreshold:     slipThreshold,
			PredictedZMP: contracts.ZMP{
				X: round4((wp.X - 0.5) * 0.1),
				Y: round4((wp.Y - 0.5) * 0.1),
			},
		}
	}

	return contracts.TactileAugmentedChunk{
		LatentChunk:       c,
		TactileWaypoints:  waypoints,
		IsTactileCritical: c.Criticality == contracts.CriticalityHigh || c.Criticality == contracts.CriticalityMedium,
	}
}

func (e *Encoder) gripForce(massKg, friction float64) float64 {
	minForce := (massKg * gravityMPS2) / (friction * numFingers)
	safe := round4(minForce * safetyFactor)
	ceiling := 0.8 * e.profile.GripperMaxForceN
	return math.Max(0.0, math.Min(safe, ceiling))
}

func resolveTarget(targetObject string, detected []contracts.DetectedObject) contracts.DetectedObject {
	for _, obj := range detected {
		if obj.Type == targetObject {
			return obj
		}
	}
	return defaultObject
}

func round4(f float64) float64 {
	const scale = 1e4
	return math.Round(f*scale) / scale
}
