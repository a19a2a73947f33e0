// Package kinematics holds the robot's authoritative digital twin and the
// static robot profile (workspace bounds, joint names/limits, gripper
// rating) every other stage reads. The Twin is the only mutable state in
// the pipeline besides the Orchestrator's plan/result caches.
package kinematics

import "github.com/golang/geo/r3"

// JointLimit is a closed interval [Min, Max] in radians.
type JointLimit struct {
	Min float64
	Max float64
}

// Workspace is the per-axis [min, max] bound used to denormalize waypoints
// from [0,1]^3 into world coordinates (spec.md §4.5).
type Workspace struct {
	Min r3.Vector
	Max r3.Vector
}

// Profile is the static description of one robot: its 7 joint names, their
// limits, its gripper's rated force, and its workspace bounds.
type Profile struct {
	JointNames       []string
	JointLimits      map[string]JointLimit
	GripperMaxForceN float64
	Workspace        Workspace
}

// DefaultProfile is the 7-DOF cobot-class arm profile spec.md §4 assumes:
// joint_1..joint_7, a 100N-rated gripper, and a unit-ish workspace.
func DefaultProfile() Profile {
	return Profile{
		JointNames: []string{
			"joint_1", "joint_2", "joint_3", "joint_4", "joint_5", "joint_6", "joint_7",
		},
		JointLimits: map[string]JointLimit{
			"joint_1": {Min: -3.14, Max: 3.14},
			"joint_2": {Min: -2.0, Max: 2.0},
			"joint_3": {Min: -3.14, Max: 3.14},
			"joint_4": {Min: -3.14, Max: 3.14},
			"joint_5": {Min: -3.14, Max: 3.14},
			"joint_6": {Min: -3.14, Max: 3.14},
			"joint_7": {Min: -6.28, Max: 6.28},
		},
		GripperMaxForceN: 100.0,
		Workspace: Workspace{
			Min: r3.Vector{X: -1.0, Y: -1.0, Z: 0.0},
			Max: r3.Vector{X: 1.0, Y: 1.0, Z: 1.0},
		},
	}
}
