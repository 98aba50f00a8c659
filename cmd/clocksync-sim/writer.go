package main

import (
	"os"

	"clocksync-sim/internal/sim"
)

// newWriters sets up result and node writers based on flags and env vars. It
// returns the writers, the TUI handle when --watch is set, and a cleanup
// function to close any resources.
func newWriters(printOnly bool, logFile string, watch bool) (sim.ResultWriter, sim.NodeWriter, *sim.TUIWriter, func(), error) {
	cleanup := func() {}

	var writer sim.ResultWriter
	var nodeWriter sim.NodeWriter
	var tui *sim.TUIWriter

	switch {
	case watch:
		tui = sim.NewTUIWriter()
		writer, nodeWriter = tui, tui
	case printOnly || os.Getenv("GREPTIMEDB_ENDPOINT") == "":
		sw := sim.NewStdoutWriter()
		writer, nodeWriter = sw, sw
	default:
		db := os.Getenv("GREPTIMEDB_DATABASE")
		if db == "" {
			db = "public"
		}
		gw, err := sim.NewGreptimeDBWriter(
			os.Getenv("GREPTIMEDB_ENDPOINT"), db,
			os.Getenv("GREPTIMEDB_RUN_TABLE"), os.Getenv("GREPTIMEDB_NODE_TABLE"))
		if err != nil {
			return nil, nil, nil, nil, err
		}
		writer, nodeWriter = gw, gw
	}

	if logFile != "" {
		fw, err := sim.NewFileWriter(logFile, logFile+".nodes")
		if err != nil {
			if tui != nil {
				tui.Close()
			}
			return nil, nil, nil, nil, err
		}
		mw := sim.NewMultiWriter([]sim.ResultWriter{writer, fw}, []sim.NodeWriter{nodeWriter, fw})
		writer, nodeWriter = mw, mw
		cleanup = func() { fw.Close() }
	}
	return writer, nodeWriter, tui, cleanup, nil
}
