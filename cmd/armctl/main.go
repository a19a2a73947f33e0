// Command armctl is the CLI front door driving the Orchestrator directly,
// standing in for the out-of-scope natural-language agent/transport layer
// (spec.md §1's "out of scope" collaborators).
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Danielfoojunwei/MCP-ROBOT/config"
	"github.com/Danielfoojunwei/MCP-ROBOT/determinism"
	"github.com/Danielfoojunwei/MCP-ROBOT/execution"
	"github.com/Danielfoojunwei/MCP-ROBOT/kinematics"
	"github.com/Danielfoojunwei/MCP-ROBOT/logging"
	"github.com/Danielfoojunwei/MCP-ROBOT/pipeline"
	"github.com/Danielfoojunwei/MCP-ROBOT/telemetry"
)

const (
	flagConfig   = "config"
	flagHardware = "hardware"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "armctl",
		Usage: "drive the deterministic manipulator pipeline from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagConfig, Usage: "path to a TOML robot profile/determinism config"},
			&cli.BoolFlag{Name: flagHardware, Usage: "use the HARDWARE execution adapter instead of SIM"},
		},
		Commands: []*cli.Command{
			submitTaskCommand(),
			executeChunkCommand(),
			stabilizeCommand(),
			statusCommand(),
			telemetryCommand(),
		},
	}
}

// buildOrchestrator wires a fresh Orchestrator from ctx's global flags. Each
// armctl invocation is a separate process, so plan/execution-result caches
// are not retained in memory across commands; execute-chunk rehydrates a
// plan from the on-disk store instead (see Orchestrator.Hydrate).
func buildOrchestrator(ctx *cli.Context) (*pipeline.Orchestrator, error) {
	detCfg, profile, err := config.Load(ctx.String(flagConfig))
	if err != nil {
		return nil, err
	}
	clock := determinism.NewClock()
	twin := kinematics.NewTwin(profile, clock, detCfg.SchemaVersion)
	logger := logging.NewLogger("armctl")

	if ctx.Bool(flagHardware) {
		return nil, fmt.Errorf("armctl: --hardware requires an action-server address, not yet wired to a CLI flag")
	}
	adapter := execution.NewSimAdapter(logger)

	o := pipeline.New(detCfg, twin, adapter, logger)
	o.SetTelemetry(telemetry.New(prometheus.NewRegistry()))
	return o, nil
}
