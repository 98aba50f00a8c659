package main

import (
	"errors"

	"github.com/spf13/cobra"

	"clocksync-sim/internal/sim"
)

var (
	replayInput string
	replaySpeed float64
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a recorded run log",
	Long:  "replay reads run rows from a JSONL log and feeds them through the stdout writer, paced by their timestamps.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if replayInput == "" {
			return errors.New("input file required")
		}
		return sim.ReplayLogFile(replayInput, sim.NewStdoutWriter(), replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to run log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier (<=0 disables pacing)")
}
