package contracts

import (
	"fmt"

	"github.com/golang/geo/r3"
	"go.uber.org/multierr"
)

// SubtaskType is the closed set of subtask kinds spec.md §3 names.
type SubtaskType string

const (
	SubtaskWalkTo        SubtaskType = "walk_to"
	SubtaskScanWorkspace SubtaskType = "scan_workspace"
	SubtaskGraspApproach SubtaskType = "grasp_approach"
	SubtaskGraspClose    SubtaskType = "grasp_close"
	SubtaskLift          SubtaskType = "lift"
	SubtaskRelease       SubtaskType = "release"
	SubtaskMoveTo        SubtaskType = "move_to"
	SubtaskIdle          SubtaskType = "idle"
)

// Criticality is the closed set of subtask/chunk criticality levels.
type Criticality string

const (
	CriticalityLow    Criticality = "low"
	CriticalityMedium Criticality = "medium"
	CriticalityHigh   Criticality = "high"
)

// ForceRequirement is the closed set of force intents a subtask can ask for.
type ForceRequirement string

const (
	ForceGentle ForceRequirement = "gentle"
	ForceNormal ForceRequirement = "normal"
)

// ChunkKind is the closed discriminator of the ActionChunk variant family
// (spec.md §9's Design Notes: "use a closed discriminated union for chunk
// variants (Trajectory, Servo, Gripper) even if only the first is
// exercised in the core"). Only ChunkKindTrajectory is ever produced by
// this core's stages; ChunkKindServo/ChunkKindGripper keep the union
// closed the way the original's ActionChunk/CartesianServoChunk/
// GripperCommandChunk sibling types do.
type ChunkKind string

const (
	ChunkKindTrajectory ChunkKind = "trajectory"
	ChunkKindServo      ChunkKind = "servo"
	ChunkKindGripper    ChunkKind = "gripper"
)

// ActionChunk is the interface every chunk variant implements, discriminated
// by Kind(). JointTrajectoryChunk is the only variant any stage in this core
// constructs; ServoChunk and GripperChunk exist so the union stays closed
// rather than leaving room for an untyped fourth variant later.
type ActionChunk interface {
	Kind() ChunkKind
}

// ServoChunk is the ActionChunk union's direct Cartesian-servo sibling: a
// single target pose to servo toward, rather than a joint-space trajectory.
// Not produced by any stage in this core.
type ServoChunk struct {
	ChunkID    string    `json:"chunk_id"`
	PlanID     string    `json:"plan_id"`
	Ordinal    int       `json:"ordinal"`
	TargetPose r3.Vector `json:"target_pose"`
	DurationS  float64   `json:"duration_s"`
}

// Kind reports ChunkKindServo.
func (c ServoChunk) Kind() ChunkKind { return ChunkKindServo }

// GripperChunk is the ActionChunk union's gripper-command sibling: an
// open/close command at a requested grip force, rather than a motion
// trajectory. Not produced by any stage in this core.
type GripperChunk struct {
	ChunkID    string  `json:"chunk_id"`
	PlanID     string  `json:"plan_id"`
	Ordinal    int     `json:"ordinal"`
	Closed     bool    `json:"closed"`
	GripForceN float64 `json:"grip_force_n"`
}

// Kind reports ChunkKindGripper.
func (c GripperChunk) Kind() ChunkKind { return ChunkKindGripper }

// Subtask is one entry of the Task Decomposer's (T1) output.
type Subtask struct {
	Type               SubtaskType      `json:"type"`
	TargetObject       string           `json:"target_object"`
	EstimatedDuration  float64          `json:"estimated_duration"`
	Criticality        Criticality      `json:"criticality"`
	ForceRequirements  ForceRequirement `json:"force_requirements"`
}

// JointState is a single named snapshot of joint configuration.
type JointState struct {
	Names      []string  `json:"names"`
	Positions  []float64 `json:"positions"`
	Velocities []float64 `json:"velocities,omitempty"`
	Effort     []float64 `json:"effort,omitempty"`
}

// Validate enforces |positions|=|names|, names nonempty, and velocities
// aligned when present (spec.md §3).
func (j JointState) Validate() error {
	var errs error
	if len(j.Names) == 0 {
		errs = multierr.Append(errs, NewValidationError("joint state names cannot be empty"))
	}
	if len(j.Positions) != len(j.Names) {
		errs = multierr.Append(errs, NewValidationError("joint state position count must match name count"))
	}
	if j.Velocities != nil && len(j.Velocities) != len(j.Names) {
		errs = multierr.Append(errs, NewValidationError("joint state velocity count must match name count"))
	}
	if j.Effort != nil && len(j.Effort) != len(j.Names) {
		errs = multierr.Append(errs, NewValidationError("joint state effort count must match name count"))
	}
	return errs
}

// RobotStateSnapshot is an immutable snapshot of robot joint state plus
// mobile-base and payload context, produced by the Twin on demand.
type RobotStateSnapshot struct {
	Names         []string  `json:"names"`
	Positions     []float64 `json:"positions"`
	Velocities    []float64 `json:"velocities,omitempty"`
	BaseVelocity  float64   `json:"base_velocity"`
	PayloadMass   float64   `json:"payload_mass"`
	Timestamp     float64   `json:"timestamp"`
	SchemaVersion string    `json:"schema_version"`
}

// Validate enforces the RobotStateSnapshot invariants of spec.md §3.
func (s RobotStateSnapshot) Validate() error {
	var errs error
	if len(s.Positions) != len(s.Names) {
		errs = multierr.Append(errs, NewValidationError("robot state position count must match name count"))
	}
	if s.Velocities != nil && len(s.Velocities) != len(s.Names) {
		errs = multierr.Append(errs, NewValidationError("robot state velocity count must match name count"))
	}
	return errs
}

// ToOrderedMap returns joint name -> position, as the verifier and mapper
// need for O(1) lookup by name.
func (s RobotStateSnapshot) ToOrderedMap() map[string]float64 {
	out := make(map[string]float64, len(s.Names))
	for i, n := range s.Names {
		out[n] = s.Positions[i]
	}
	return out
}

// DetectedObject is one entry of a PerceptionSnapshot's detected_objects.
type DetectedObject struct {
	Type                string  `json:"type"`
	Mass                float64 `json:"mass"`
	FrictionCoefficient float64 `json:"friction_coefficient"`
}

// PerceptionSnapshot is an immutable snapshot of the environment as
// perceived at a point in time.
type PerceptionSnapshot struct {
	CameraFrameDigest string             `json:"camera_frame_digest"`
	DetectedObjects   []DetectedObject   `json:"detected_objects"`
	TactileSummary    map[string]float64 `json:"tactile_summary,omitempty"`
	Timestamp         float64            `json:"timestamp"`
}

// Validate enforces that PerceptionSnapshot is canonicalizable; all of its
// fields already are by construction (string/float/slice of primitives), so
// this exists to keep the same Validate() contract as the other snapshot
// types and is where a future non-canonicalizable field would be caught.
func (p PerceptionSnapshot) Validate() error {
	return nil
}

// LatentChunk is the Long-Horizon Planner's (T2) per-chunk output.
type LatentChunk struct {
	Ordinal            int         `json:"ordinal"`
	SubtaskType        SubtaskType `json:"subtask_type"`
	TargetObject       string      `json:"target_object"`
	LatentVector       []float64   `json:"latent_vector"`
	PositionWaypoints  []r3.Vector `json:"position_waypoints"`
	ForceProfile       []float64   `json:"force_profile"`
	DurationS          float64     `json:"duration_s"`
	Criticality        Criticality `json:"criticality"`
	EstimatedForce     float64     `json:"estimated_force"`
}

// TimestepsPerChunk is the fixed waypoint count every LatentChunk carries.
const TimestepsPerChunk = 50

// Validate enforces exactly 50 waypoints (spec.md §3).
func (c LatentChunk) Validate() error {
	if len(c.PositionWaypoints) != TimestepsPerChunk {
		return NewValidationError("latent chunk must carry exactly 50 waypoints")
	}
	if len(c.ForceProfile) != TimestepsPerChunk {
		return NewValidationError("latent chunk force profile must carry exactly 50 entries")
	}
	return nil
}

// ZMP is a predicted zero-moment-point shift for a single waypoint.
type ZMP struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TactileWaypoint augments a single position waypoint with grip-force and
// stability metadata (Tactile Encoder, T3).
type TactileWaypoint struct {
	Position          r3.Vector `json:"position"`
	GripForceN        float64   `json:"grip_force_n"`
	PredictedFriction float64   `json:"predicted_friction"`
	SlipThreshold     float64   `json:"slip_threshold"`
	PredictedZMP      ZMP       `json:"predicted_zmp"`
}

// TactileAugmentedChunk is a LatentChunk plus per-waypoint tactile guidance.
type TactileAugmentedChunk struct {
	LatentChunk
	TactileWaypoints  []TactileWaypoint `json:"tactile_waypoints"`
	IsTactileCritical bool              `json:"is_tactile_critical"`
}

// Validate enforces that grip force never exceeds 80% of the gripper's max
// rated force (spec.md §3); maxGripperForceN is the profile's ceiling.
func (c TactileAugmentedChunk) Validate(maxGripperForceN float64) error {
	limit := 0.8 * maxGripperForceN
	var errs error
	for i, wp := range c.TactileWaypoints {
		if wp.GripForceN > limit {
			errs = multierr.Append(errs, NewValidationError(fmt.Sprintf("tactile waypoint %d grip force %.4f exceeds 80%% of gripper max %.4f", i, wp.GripForceN, limit)))
		}
	}
	return errs
}

// JointTrajectoryChunk is the Universal Mapper's (T4) output and the unit
// the Physics Verifier certifies and the Execution Adapter runs.
type JointTrajectoryChunk struct {
	ChunkKind      ChunkKind    `json:"kind"`
	ChunkID        string       `json:"chunk_id"`
	PlanID         string       `json:"plan_id"`
	Ordinal        int          `json:"ordinal"`
	Description    string       `json:"description"`
	JointNames     []string     `json:"joint_names"`
	Waypoints      []JointState `json:"waypoints"`
	DurationS      float64      `json:"duration_s"`
	MaxForceEst    float64      `json:"max_force_est"`
	StabilityScore float64      `json:"stability_score"`
	Timestamp      float64      `json:"timestamp"`
}

// Kind reports ChunkKindTrajectory; JointTrajectoryChunk is the only
// ActionChunk variant this core's stages ever construct.
func (c JointTrajectoryChunk) Kind() ChunkKind { return ChunkKindTrajectory }

// Validate enforces: at least one waypoint, the first waypoint's names
// equal joint_names, and every waypoint shares those names (spec.md §3).
// Every waypoint is checked independently and their failures combined, so a
// caller sees every structural problem in the chunk at once rather than
// only the first.
func (c JointTrajectoryChunk) Validate() error {
	if len(c.Waypoints) == 0 {
		return NewValidationError("joint trajectory chunk must have at least one waypoint")
	}
	var errs error
	for i, wp := range c.Waypoints {
		if err := wp.Validate(); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if !stringSlicesEqual(wp.Names, c.JointNames) {
			errs = multierr.Append(errs, NewValidationError(fmt.Sprintf("waypoint %d joint names do not match chunk joint_names", i)))
		}
	}
	return errs
}

// DigestPayload is the subset of the chunk's content hashed to derive
// chunk_id: everything except chunk_id/plan_id/ordinal (which the digest
// itself feeds into, at the pipeline level) and timestamp (wall-clock
// dependent even under a frozen clock's intent — excluding it keeps
// chunk_id a pure function of content, never of when it was assigned).
type DigestPayload struct {
	Description    string       `json:"description"`
	JointNames     []string     `json:"joint_names"`
	Waypoints      []JointState `json:"waypoints"`
	DurationS      float64      `json:"duration_s"`
	MaxForceEst    float64      `json:"max_force_est"`
	StabilityScore float64      `json:"stability_score"`
}

// ForDigest returns the content-only view hashed for chunk_id.
func (c JointTrajectoryChunk) ForDigest() DigestPayload {
	return DigestPayload{
		Description:    c.Description,
		JointNames:     c.JointNames,
		Waypoints:      c.Waypoints,
		DurationS:      c.DurationS,
		MaxForceEst:    c.MaxForceEst,
		StabilityScore: c.StabilityScore,
	}
}

// TaskPlan is the content-addressed output of the planning pipeline.
type TaskPlan struct {
	PlanID       string                 `json:"plan_id"`
	Instruction  string                 `json:"instruction"`
	InputDigest  string                 `json:"input_digest"`
	ConfigDigest string                 `json:"config_digest"`
	Chunks       []JointTrajectoryChunk `json:"chunks"`
	CreatedAt    float64                `json:"created_at"`
}

// CertificationReport is the Physics Verifier's (T5) per-call output.
type CertificationReport struct {
	Safe      bool    `json:"safe"`
	Reason    string  `json:"reason"`
	ChunkID   string  `json:"chunk_id"`
	Timestamp float64 `json:"timestamp"`
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
