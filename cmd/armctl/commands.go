package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/Danielfoojunwei/MCP-ROBOT/contracts"
	"github.com/Danielfoojunwei/MCP-ROBOT/determinism"
	"github.com/Danielfoojunwei/MCP-ROBOT/store"
	"github.com/Danielfoojunwei/MCP-ROBOT/verifier"
)

// counterValue reads the current value off a Prometheus counter, the same
// way telemetry's own test suite does, so armctl can print it without
// standing up an HTTP /metrics endpoint.
func counterValue(c prometheus.Counter) float64 {
	var m dto.Metric
	_ = c.Write(&m)
	return m.GetCounter().GetValue()
}

func gaugeValue(g prometheus.Gauge) float64 {
	var m dto.Metric
	_ = g.Write(&m)
	return m.GetGauge().GetValue()
}

const defaultStatePath = "armctl_state.db"

func openStore(hasher determinism.Hasher) (*store.Store, error) {
	return store.Open(defaultStatePath, hasher)
}

func submitTaskCommand() *cli.Command {
	return &cli.Command{
		Name:      "submit-task",
		Usage:     "plan a task from a natural-language instruction against an empty perception/state snapshot",
		ArgsUsage: "<instruction>",
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 1 {
				return fmt.Errorf("submit-task: expected exactly one instruction argument")
			}
			o, err := buildOrchestrator(ctx)
			if err != nil {
				return err
			}
			state := o.Twin().Snapshot()
			plan, err := o.Plan(ctx.Args().First(), contracts.PerceptionSnapshot{}, state)
			if err != nil {
				return err
			}

			s, err := openStore(determinism.NewHasher(6))
			if err != nil {
				return err
			}
			defer s.Close()
			if err := s.SavePlan(plan); err != nil {
				return err
			}

			return printJSON(map[string]interface{}{
				"plan_id":      plan.PlanID,
				"instruction":  plan.Instruction,
				"total_chunks": len(plan.Chunks),
				"status":       "PLAN_GENERATED",
				"digest":       plan.InputDigest,
			})
		},
	}
}

func executeChunkCommand() *cli.Command {
	return &cli.Command{
		Name:      "execute-chunk",
		Usage:     "verify and execute a single chunk of a previously submitted plan",
		ArgsUsage: "<plan-id> <chunk-id>",
		Action: func(ctx *cli.Context) error {
			if ctx.NArg() != 2 {
				return fmt.Errorf("execute-chunk: expected plan-id and chunk-id arguments")
			}
			planID, chunkID := ctx.Args().Get(0), ctx.Args().Get(1)

			o, err := buildOrchestrator(ctx)
			if err != nil {
				return err
			}

			hasher := determinism.NewHasher(6)
			s, err := openStore(hasher)
			if err != nil {
				return err
			}
			defer s.Close()

			canonical, err := s.LoadPlan(planID)
			if err != nil {
				return printJSON(map[string]interface{}{"status": "ERROR", "reason": fmt.Sprintf("plan %q not found", planID)})
			}
			var plan contracts.TaskPlan
			if err := json.Unmarshal(canonical, &plan); err != nil {
				return err
			}
			o.Hydrate(plan)

			result, err := o.Execute(context.Background(), planID, chunkID)
			if err != nil {
				if cerr, ok := err.(*contracts.Error); ok && cerr.Kind() == contracts.KindNotFound {
					return printJSON(map[string]interface{}{"status": "ERROR", "reason": cerr.Error()})
				}
				return err
			}

			if err := s.SaveExecutionResult(planID, chunkID, result); err != nil {
				return err
			}
			return printJSON(result)
		},
	}
}

func stabilizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "stabilize",
		Usage: "drive the arm from its current state to the all-zero home pose",
		Action: func(ctx *cli.Context) error {
			o, err := buildOrchestrator(ctx)
			if err != nil {
				return err
			}
			result, err := o.Stabilize(context.Background())
			if err != nil {
				return err
			}
			return printJSON(map[string]interface{}{
				"status":      result.Status,
				"final_state": o.Twin().Snapshot().Positions,
			})
		},
	}
}

func statusCommand() *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "print the robot's current joint state (read-only resource)",
		Action: func(ctx *cli.Context) error {
			o, err := buildOrchestrator(ctx)
			if err != nil {
				return err
			}
			snapshot := o.Twin().Snapshot()
			return printJSON(map[string]interface{}{
				"robot_id":      "armctl",
				"names":         snapshot.Names,
				"positions":     snapshot.Positions,
				"base_velocity": snapshot.BaseVelocity,
				"payload_mass":  snapshot.PayloadMass,
				"is_stabilized": allZero(snapshot.Positions),
			})
		},
	}
}

func telemetryCommand() *cli.Command {
	return &cli.Command{
		Name:  "telemetry",
		Usage: "print advisory balance telemetry, plan/execution counters, and the execution log tail",
		Action: func(ctx *cli.Context) error {
			o, err := buildOrchestrator(ctx)
			if err != nil {
				return err
			}
			tel := o.Telemetry()
			snapshot := o.Twin().Snapshot()
			tel.ZMPScore.Set(verifier.ZMPScore(snapshot.BaseVelocity, snapshot.PayloadMass, verifier.LimbExtension))
			zmpScore := gaugeValue(tel.ZMPScore)
			status := "nominal"
			if zmpScore < verifier.MinZMPScore {
				status = "critical"
			}
			return printJSON(map[string]interface{}{
				"zmp":               map[string]float64{"score": zmpScore},
				"status":            status,
				"plans_created":     counterValue(tel.PlansCreated),
				"chunks_certified":  counterValue(tel.ChunksCertified),
				"chunks_rejected":   counterValue(tel.ChunksRejected),
				"executions_ok":     counterValue(tel.ExecutionsSucceeded),
				"executions_failed": counterValue(tel.ExecutionsFailed),
				"is_stabilized":     allZero(snapshot.Positions),
				"log_tail":          o.LogTail(20),
			})
		},
	}
}

func allZero(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
