package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"clocksync-sim/internal/admin"
	"clocksync-sim/internal/config"
	"clocksync-sim/internal/logging"
	"clocksync-sim/internal/sim"
)

var (
	simPrintOnly  bool
	simConfigPath string
	simSchemaPath string
	simLogFile    string
	simScenario   string
	simWatch      bool
	simAdminAddr  string
	simSeed       int64
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the configured clock synchronization scenarios",
	Long:  "simulate executes each scenario from the config file, emitting run and per-node result rows.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}

		logger := logging.New(slog.LevelInfo)
		ctx, cancel := context.WithCancel(logging.NewContext(cmd.Context(), logger))
		defer cancel()

		writer, nodeWriter, tui, cleanup, err := newWriters(simPrintOnly, simLogFile, simWatch)
		if err != nil {
			return err
		}
		defer cleanup()

		runner := sim.NewRunner(writer, nodeWriter, simSeed)

		if simAdminAddr != "" {
			srv := admin.NewServer(runner, cfg)
			go func() {
				logger.Info("admin panel listening", "addr", simAdminAddr)
				if err := srv.Start(ctx, simAdminAddr); err != nil && err != http.ErrServerClosed {
					logger.Error("admin server failed", "err", err)
				}
			}()
		}

		scenarios := cfg.Scenarios
		if simScenario != "" {
			scenarios = nil
			for _, s := range cfg.Scenarios {
				if s.Name == simScenario {
					scenarios = []config.Scenario{s}
					break
				}
			}
			if scenarios == nil {
				return fmt.Errorf("unknown scenario %q", simScenario)
			}
		}

		for _, scn := range scenarios {
			if _, err := runner.Run(ctx, scn); err != nil {
				return err
			}
		}

		switch {
		case tui != nil:
			tui.Wait()
		case simAdminAddr != "":
			sigs := make(chan os.Signal, 1)
			signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
			<-sigs
			logger.Info("shutting down")
		}
		return nil
	},
}

func init() {
	simulateCmd.Flags().BoolVar(&simPrintOnly, "print-only", false, "Print result rows to STDOUT instead of writing to DB")
	simulateCmd.Flags().StringVar(&simConfigPath, "config", "config/simulation.yaml", "Path to simulation configuration YAML")
	simulateCmd.Flags().StringVar(&simSchemaPath, "schema", "schemas/simulation.cue", "Path to CUE schema file")
	simulateCmd.Flags().StringVar(&simLogFile, "log-file", "", "Path to export run/node result logs (JSONL)")
	simulateCmd.Flags().StringVar(&simScenario, "scenario", "", "Run only the named scenario")
	simulateCmd.Flags().BoolVar(&simWatch, "watch", false, "Render results in a terminal UI")
	simulateCmd.Flags().StringVar(&simAdminAddr, "admin", "", "Serve the admin panel on this address (e.g. :8080)")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "Seed for the drift RNG (0 = time-based)")
}
