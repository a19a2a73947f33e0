// Package verifier implements the Physics Verifier (T5): a stateless, pure
// function that certifies a JointTrajectoryChunk against continuity,
// waypoint consistency, joint limits, stability, and force, in that fixed
// order, short-circuiting on the first failure (spec.md §4.6).
package verifier

import (
	"fmt"
	"math"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
	"github.com/Danielfoojunwei/MCP-ROBOT/determinism"
	"github.com/Danielfoojunwei/MCP-ROBOT/kinematics"
	"github.com/Danielfoojunwei/MCP-ROBOT/logging"
)

const (
	// ContinuityToleranceRad is the maximum allowed jump between the
	// robot's actual joint position and a trajectory's first waypoint.
	ContinuityToleranceRad = 0.1
	// MinZMPScore is the stability floor below which a chunk is rejected.
	MinZMPScore = 0.4
	// LimbExtension is the fixed average limb extension used in the ZMP
	// approximation.
	LimbExtension = 0.5
	// ForceLimitN is the maximum certifiable estimated end-effector force.
	ForceLimitN = 100.0
)

// Verifier is the stateless T5 stage.
type Verifier struct {
	profile kinematics.Profile
	logger  logging.Logger
}

// New returns a Verifier bound to the robot's joint limits.
func New(profile kinematics.Profile, logger logging.Logger) *Verifier {
	return &Verifier{profile: profile, logger: logger}
}

// Verify certifies trajectory against current, the robot's live state. The
// returned report is safe to cache verbatim.
func (v *Verifier) Verify(trajectory contracts.JointTrajectoryChunk, current contracts.RobotStateSnapshot, clock *determinism.Clock) contracts.CertificationReport {
	report := contracts.CertificationReport{ChunkID: trajectory.ChunkID, Timestamp: clock.Now()}

	if reason, ok := v.checkContinuity(trajectory, current); !ok {
		report.Reason = reason
		return v.logAndReturn(report)
	}
	if reason, ok := v.checkWaypointConsistency(trajectory); !ok {
		report.Reason = reason
		return v.logAndReturn(report)
	}
	if reason, ok := v.checkJointLimits(trajectory); !ok {
		report.Reason = reason
		return v.logAndReturn(report)
	}
	if reason, ok := v.checkStability(current); !ok {
		report.Reason = reason
		return v.logAndReturn(report)
	}
	if reason, ok := v.checkForce(trajectory); !ok {
		report.Reason = reason
		return v.logAndReturn(report)
	}

	report.Safe = true
	report.Reason = "Certified Safe"
	return v.logAndReturn(report)
}

func (v *Verifier) logAndReturn(report contracts.CertificationReport) contracts.CertificationReport {
	if v.logger != nil {
		if report.Safe {
			v.logger.Debugf("chunk %s certified safe", report.ChunkID)
		} else {
			v.logger.Infof("chunk %s rejected: %s", report.ChunkID, report.Reason)
		}
	}
	return report
}

func (v *Verifier) checkContinuity(trajectory contracts.JointTrajectoryChunk, current contracts.RobotStateSnapshot) (string, bool) {
	if len(trajectory.Waypoints) == 0 {
		return "Continuity Error: trajectory has no waypoints", false
	}
	start := trajectory.Waypoints[0]
	state := current.ToOrderedMap()

	for i, name := range trajectory.JointNames {
		currentPos, ok := state[name]
		if !ok || i >= len(start.Positions) {
			continue
		}
		delta := math.Abs(currentPos - start.Positions[i])
		if delta > ContinuityToleranceRad {
			return fmt.Sprintf("Continuity Error: %s jumps by %.4f rad", name, delta), false
		}
	}
	return "", true
}

func (v *Verifier) checkWaypointConsistency(trajectory contracts.JointTrajectoryChunk) (string, bool) {
	for i, wp := range trajectory.Waypoints {
		if !stringSlicesEqual(wp.Names, trajectory.JointNames) {
			return fmt.Sprintf("Waypoint %d joint names mismatch", i), false
		}
	}
	return "", true
}

func (v *Verifier) checkJointLimits(trajectory contracts.JointTrajectoryChunk) (string, bool) {
	for wpIdx, wp := range trajectory.Waypoints {
		for i, pos := range wp.Positions {
			name := trajectory.JointNames[i]
			limit, ok := v.profile.JointLimits[name]
			if !ok {
				continue
			}
			if pos < limit.Min || pos > limit.Max {
				return fmt.Sprintf("Limit Error: %s at waypoint %d is %.4f, out of range [%.2f, %.2f]",
					name, wpIdx, pos, limit.Min, limit.Max), false
			}
		}
	}
	return "", true
}

func (v *Verifier) checkStability(current contracts.RobotStateSnapshot) (string, bool) {
	score := ZMPScore(current.BaseVelocity, current.PayloadMass, LimbExtension)
	if score < MinZMPScore {
		return fmt.Sprintf("Stability Error: ZMP Critical (%.2f) due to high velocity/payload", score), false
	}
	return "", true
}

func (v *Verifier) checkForce(trajectory contracts.JointTrajectoryChunk) (string, bool) {
	if trajectory.MaxForceEst > ForceLimitN {
		return fmt.Sprintf("Force Error: estimated force %.1fN > limit %.1fN", trajectory.MaxForceEst, ForceLimitN), false
	}
	return "", true
}

// ZMPScore computes the simplified zero-moment-point stability score in
// [0, 1]: 1.0 is fully static, 0.0 is falling (spec.md §4.6).
func ZMPScore(baseVelocity, payloadMass, extension float64) float64 {
	score := 1.0 - math.Abs(baseVelocity)*0.3 - payloadMass*0.05*extension
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

func stringSlicesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
