// Package pipeline implements the Pipeline Orchestrator: the single
// coordinator that serializes planning and execution under a mutex,
// assigns content-addressed IDs, caches execution results, and drives the
// Twin (spec.md §4.8). It is the only place that owns active_plans,
// execution_results, and the kinematic Twin.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
	"github.com/Danielfoojunwei/MCP-ROBOT/decomposer"
	"github.com/Danielfoojunwei/MCP-ROBOT/determinism"
	"github.com/Danielfoojunwei/MCP-ROBOT/execution"
	"github.com/Danielfoojunwei/MCP-ROBOT/kinematics"
	"github.com/Danielfoojunwei/MCP-ROBOT/logging"
	"github.com/Danielfoojunwei/MCP-ROBOT/mapper"
	"github.com/Danielfoojunwei/MCP-ROBOT/planner"
	"github.com/Danielfoojunwei/MCP-ROBOT/tactile"
	"github.com/Danielfoojunwei/MCP-ROBOT/telemetry"
	"github.com/Danielfoojunwei/MCP-ROBOT/verifier"
)

// logTailCapacity bounds the in-memory execution-log ring buffer backing
// the "execution log tail" resource of spec.md §6.
const logTailCapacity = 200

// Status is the closed set of outcomes submit_task/execute_chunk report.
type Status string

const (
	StatusPlanGenerated Status = "PLAN_GENERATED"
	StatusSuccess       Status = "SUCCESS"
	StatusFailed        Status = "FAILED"
	StatusRejected      Status = "REJECTED"
	StatusError         Status = "ERROR"
	StatusStabilized    Status = "STABILIZED"
)

// ExecutionResult is the cached, by-value record execute_chunk returns
// (spec.md §6).
type ExecutionResult struct {
	Status        Status            `json:"status"`
	Reason        string            `json:"reason,omitempty"`
	AdapterResult *execution.Result `json:"adapter_result,omitempty"`
	ExecutedAt    float64           `json:"executed_at"`
}

// Orchestrator is the single coordinator of spec.md §4.8/§5: a pipeline-wide
// mutex guards both plan() and execute(); a singleflight.Group collapses
// concurrent duplicate requests ahead of that mutex purely to avoid
// redundant queuing, never as a substitute for the mutex-guarded cache
// lookup that is the actual idempotency mechanism.
type Orchestrator struct {
	mu sync.Mutex

	config determinism.Config
	hasher determinism.Hasher
	clock  *determinism.Clock
	twin   *kinematics.Twin

	decomposer *decomposer.Decomposer
	planner    *planner.Planner
	tactile    *tactile.Encoder
	mapper     *mapper.Mapper
	verifier   *verifier.Verifier
	adapter    execution.Adapter

	activePlans      map[string]contracts.TaskPlan
	executionResults map[string]ExecutionResult

	planFlight    singleflight.Group
	executeFlight singleflight.Group

	telemetry *telemetry.Telemetry
	logTail   []string

	logger logging.Logger
}

// New wires every pipeline stage into a single Orchestrator, bound to twin
// and adapter (SIM or HARDWARE), per spec.md §2's control-flow diagram.
func New(config determinism.Config, twin *kinematics.Twin, adapter execution.Adapter, logger logging.Logger) *Orchestrator {
	hasher := determinism.NewHasher(config.FloatRound)
	profile := twin.Profile()

	return &Orchestrator{
		config:            config,
		hasher:            hasher,
		clock:             determinism.NewClock(),
		twin:              twin,
		decomposer:        decomposer.New(logger),
		planner:           planner.New(hasher, logger),
		tactile:           tactile.New(profile, logger),
		mapper:            mapper.New(profile, logger),
		verifier:          verifier.New(profile, logger),
		adapter:           adapter,
		activePlans:       make(map[string]contracts.TaskPlan),
		executionResults:  make(map[string]ExecutionResult),
		logger:            logger,
	}
}

// Clock exposes the Orchestrator's clock so callers (tests, cmd/armctl) can
// freeze it for reproducible runs.
func (o *Orchestrator) Clock() *determinism.Clock { return o.clock }

// SetTelemetry attaches advisory Prometheus instrumentation. Telemetry is
// optional: a nil *Telemetry (the default) disables every observation call
// below without the caller needing to guard its own call sites.
func (o *Orchestrator) SetTelemetry(tel *telemetry.Telemetry) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.telemetry = tel
}

// LogTail returns the most recent n lines of the in-memory execution log
// (spec.md §6's "execution log tail" resource), oldest first. It is
// advisory: nothing in the core pipeline reads it back.
func (o *Orchestrator) LogTail(n int) []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	if n <= 0 || n > len(o.logTail) {
		n = len(o.logTail)
	}
	out := make([]string, n)
	copy(out, o.logTail[len(o.logTail)-n:])
	return out
}

// appendLogTail records line in the ring buffer. Callers must hold o.mu.
func (o *Orchestrator) appendLogTail(line string) {
	o.logTail = append(o.logTail, line)
	if len(o.logTail) > logTailCapacity {
		o.logTail = o.logTail[len(o.logTail)-logTailCapacity:]
	}
}

// Plan runs T1→T2→T3→T4 under the pipeline mutex and returns a
// content-addressed TaskPlan, or the cached plan if plan_id already exists
// (spec.md §4.8's idempotency rule).
func (o *Orchestrator) Plan(instruction string, perception contracts.PerceptionSnapshot, state contracts.RobotStateSnapshot) (contracts.TaskPlan, error) {
	if err := state.Validate(); err != nil {
		return contracts.TaskPlan{}, contracts.NewValidationError(fmt.Sprintf("invalid robot state snapshot: %v", err))
	}
	if err := perception.Validate(); err != nil {
		return contracts.TaskPlan{}, contracts.NewValidationError(fmt.Sprintf("invalid perception snapshot: %v", err))
	}

	inputDigest, err := o.hasher.SHA256JSON(map[string]interface{}{
		"instruction": instruction,
		"perception":  perception,
		"state":       state,
	})
	if err != nil {
		return contracts.TaskPlan{}, contracts.NewDeterminismViolation("failed to hash plan input", err)
	}
	configDigest, err := o.hasher.SHA256JSON(o.config)
	if err != nil {
		return contracts.TaskPlan{}, contracts.NewDeterminismViolation("failed to hash determinism config", err)
	}
	planID, err := o.hasher.SHA256JSON(map[string]interface{}{
		"input_digest":   inputDigest,
		"config_digest":  configDigest,
		"schema_version": o.config.SchemaVersion,
	})
	if err != nil {
		return contracts.TaskPlan{}, contracts.NewDeterminismViolation("failed to derive plan_id", err)
	}

	result, err, _ := o.planFlight.Do(planID, func() (interface{}, error) {
		return o.planLocked(planID, instruction, inputDigest, configDigest, perception, state)
	})
	if err != nil {
		return contracts.TaskPlan{}, err
	}
	return result.(contracts.TaskPlan), nil
}

func (o *Orchestrator) planLocked(planID, instruction, inputDigest, configDigest string, perception contracts.PerceptionSnapshot, state contracts.RobotStateSnapshot) (contracts.TaskPlan, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if cached, ok := o.activePlans[planID]; ok {
		return cached, nil
	}

	subtasks := o.decomposer.Decompose(instruction, perception.DetectedObjects)
	latentChunks, err := o.planner.Plan(subtasks, inputDigest)
	if err != nil {
		return contracts.TaskPlan{}, err
	}
	tactileChunks, err := o.tactile.Encode(latentChunks, perception.DetectedObjects)
	if err != nil {
		return contracts.TaskPlan{}, contracts.NewValidationError(fmt.Sprintf("tactile encoding failed: %v", err))
	}
	startJoints := contracts.JointState{Names: state.Names, Positions: state.Positions}
	trajectoryChunks := o.mapper.Map(tactileChunks, startJoints)

	now := o.clock.Now()
	for i := range trajectoryChunks {
		if err := trajectoryChunks[i].Validate(); err != nil {
			return contracts.TaskPlan{}, contracts.NewValidationError(fmt.Sprintf("chunk %d failed structural validation: %v", trajectoryChunks[i].Ordinal, err))
		}
		payloadDigest, err := o.hasher.SHA256JSON(trajectoryChunks[i].ForDigest())
		if err != nil {
			return contracts.TaskPlan{}, contracts.NewDeterminismViolation("failed to hash chunk payload", err)
		}
		chunkID, err := o.hasher.SHA256JSON(map[string]interface{}{
			"plan_id":        planID,
			"ordinal":        trajectoryChunks[i].Ordinal,
			"payload_digest": payloadDigest,
		})
		if err != nil {
			return contracts.TaskPlan{}, contracts.NewDeterminismViolation("failed to derive chunk_id", err)
		}
		trajectoryChunks[i].ChunkID = chunkID
		trajectoryChunks[i].PlanID = planID
		trajectoryChunks[i].Timestamp = now
	}

	plan := contracts.TaskPlan{
		PlanID:       planID,
		Instruction:  instruction,
		InputDigest:  inputDigest,
		ConfigDigest: configDigest,
		Chunks:       trajectoryChunks,
		CreatedAt:    now,
	}
	o.activePlans[planID] = plan
	if o.telemetry != nil {
		o.telemetry.PlansCreated.Inc()
	}
	o.appendLogTail(fmt.Sprintf("plan %s generated with %d chunk(s) for %q", planID, len(trajectoryChunks), instruction))

	if o.logger != nil {
		o.logger.Infof("plan %s generated with %d chunk(s)", planID, len(trajectoryChunks))
	}
	return plan, nil
}

// Execute runs T5 against the Twin's current snapshot and, on pass, T6,
// advancing the Twin on SIM success. Re-executing an already-resolved
// (plan_id, chunk_id) returns the cached result, by value (spec.md §4.8,
// §8's execution-idempotency invariant).
func (o *Orchestrator) Execute(ctx context.Context, planID, chunkID string) (ExecutionResult, error) {
	key := planID + ":" + chunkID
	result, err, _ := o.executeFlight.Do(key, func() (interface{}, error) {
		return o.executeLocked(ctx, planID, chunkID)
	})
	if err != nil {
		return ExecutionResult{}, err
	}
	return result.(ExecutionResult), nil
}

func (o *Orchestrator) executeLocked(ctx context.Context, planID, chunkID string) (ExecutionResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	resultKey := planID + ":" + chunkID
	if cached, ok := o.executionResults[resultKey]; ok {
		return cached, nil
	}

	plan, ok := o.activePlans[planID]
	if !ok {
		return ExecutionResult{}, contracts.NewNotFound(fmt.Sprintf("plan %q not found", planID))
	}
	var chunk *contracts.JointTrajectoryChunk
	for i := range plan.Chunks {
		if plan.Chunks[i].ChunkID == chunkID {
			chunk = &plan.Chunks[i]
			break
		}
	}
	if chunk == nil {
		return ExecutionResult{}, contracts.NewNotFound(fmt.Sprintf("chunk %q not found in plan %q", chunkID, planID))
	}

	twinSnapshot := o.twin.Snapshot()
	if o.telemetry != nil {
		o.telemetry.ZMPScore.Set(verifier.ZMPScore(twinSnapshot.BaseVelocity, twinSnapshot.PayloadMass, verifier.LimbExtension))
	}

	report := o.verifier.Verify(*chunk, twinSnapshot, o.clock)
	if o.telemetry != nil {
		o.telemetry.ObserveCertification(report.Safe)
	}
	if !report.Safe {
		safetyErr := contracts.NewSafetyRejection(report.Reason)
		rejected := ExecutionResult{Status: outcomeFor(safetyErr), Reason: safetyErr.Reason(), ExecutedAt: o.clock.Now()}
		o.executionResults[resultKey] = rejected
		o.appendLogTail(fmt.Sprintf("chunk %s rejected: %s", chunkID, safetyErr.Reason()))
		return rejected, nil
	}

	adapterResult := o.adapter.Execute(ctx, *chunk)
	if o.telemetry != nil {
		o.telemetry.ObserveExecution(adapterResult.Success)
	}
	if _, isSim := o.adapter.(*execution.SimAdapter); isSim && adapterResult.Success {
		o.twin.AdvanceTo(chunk.Waypoints[len(chunk.Waypoints)-1])
	}

	status := StatusSuccess
	reason := adapterResult.Reason
	if !adapterResult.Success {
		adapterErr := contracts.NewAdapterFailure(adapterResult.Reason, nil)
		status = outcomeFor(adapterErr)
		reason = adapterErr.Reason()
	}
	final := ExecutionResult{
		Status:        status,
		Reason:        reason,
		AdapterResult: &adapterResult,
		ExecutedAt:    o.clock.Now(),
	}
	o.executionResults[resultKey] = final
	o.appendLogTail(fmt.Sprintf("chunk %s executed: %s (%s)", chunkID, status, reason))
	return final, nil
}

// outcomeFor switches on a typed contracts.Error's Kind() to pick one of
// the five outcomes spec.md §7 defines, the same dispatch cmd/armctl uses
// for the KindNotFound case surfaced by Execute's own error return.
func outcomeFor(err *contracts.Error) Status {
	switch err.Kind() {
	case contracts.KindSafetyRejection:
		return StatusRejected
	case contracts.KindAdapterFailure:
		return StatusFailed
	case contracts.KindNotFound:
		return StatusError
	default:
		return StatusFailed
	}
}

// Stabilize synthesizes a JointTrajectoryChunk from the Twin's current state
// to the all-zero home pose and drives it through T6 directly, bypassing
// the plan cache (spec.md §4.8's only sanctioned cache bypass).
func (o *Orchestrator) Stabilize(ctx context.Context) (ExecutionResult, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	current := o.twin.Snapshot()
	home := o.twin.HomePose()
	currentState := contracts.JointState{Names: current.Names, Positions: current.Positions}

	chunk := contracts.JointTrajectoryChunk{
		ChunkKind:      contracts.ChunkKindTrajectory,
		Description:    "stabilize",
		JointNames:     home.Names,
		Waypoints:      []contracts.JointState{currentState, home},
		DurationS:      1.0,
		MaxForceEst:    0.0,
		StabilityScore: 1.0,
		Timestamp:      o.clock.Now(),
	}

	adapterResult := o.adapter.Execute(ctx, chunk)
	if o.telemetry != nil {
		o.telemetry.ObserveExecution(adapterResult.Success)
	}
	if !adapterResult.Success {
		o.appendLogTail(fmt.Sprintf("stabilize failed: %s", adapterResult.Reason))
		return ExecutionResult{Status: StatusFailed, Reason: adapterResult.Reason, AdapterResult: &adapterResult, ExecutedAt: o.clock.Now()}, nil
	}

	o.twin.AdvanceTo(home)
	o.appendLogTail("stabilized to home pose")
	if o.logger != nil {
		o.logger.Infof("stabilized to home pose")
	}
	return ExecutionResult{Status: StatusStabilized, AdapterResult: &adapterResult, ExecutedAt: o.clock.Now()}, nil
}

// Twin exposes the Orchestrator's digital twin for read-only status queries
// (spec.md §6's "robot status" resource).
func (o *Orchestrator) Twin() *kinematics.Twin { return o.twin }

// Telemetry returns the attached Prometheus instrumentation, or nil if
// SetTelemetry was never called.
func (o *Orchestrator) Telemetry() *telemetry.Telemetry {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.telemetry
}

// Hydrate inserts plan into active_plans as-is, trusting the caller that
// plan's IDs were previously computed by this same Orchestrator (or an
// identically configured one). It exists for process restarts: a CLI
// invocation that reloads a plan from store.Store rehydrates it here
// instead of recomputing a Plan() call's content addressing from scratch.
func (o *Orchestrator) Hydrate(plan contracts.TaskPlan) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.activePlans[plan.PlanID] = plan
}
