// Result structs with greptime tags
package sim

import (
	"time"

	"clocksync-sim/internal/clocknode"
	"clocksync-sim/internal/config"
	"clocksync-sim/internal/fault"
)

// RunRow summarizes one synchronization run for writers.
type RunRow struct {
	RunID        string    `json:"run_id"`    // TAG
	Scenario     string    `json:"scenario"`  // TAG
	Algorithm    string    `json:"algorithm"` // FIELD
	FaultType    string    `json:"fault_type"`
	Robust       bool      `json:"robust"`
	InitMode     string    `json:"init_mode"`
	NodeCount    int       `json:"node_count"`
	BaseTime     float64   `json:"base_time"`
	SkewBefore   float64   `json:"skew_before"`
	SkewAfter    float64   `json:"skew_after"`
	Synchronized bool      `json:"synchronized"`
	Timestamp    time.Time `json:"ts"` // TIME INDEX
}

// NodeRow captures the final state of one node after a run.
type NodeRow struct {
	RunID     string    `json:"run_id"`  // TAG
	NodeID    int       `json:"node_id"` // TAG
	Drift     float64   `json:"drift"`   // FIELD
	Offset    float64   `json:"offset"`
	Byzantine bool      `json:"byzantine"`
	Excluded  bool      `json:"excluded"`
	Before    float64   `json:"before"`
	After     float64   `json:"after"`
	Timestamp time.Time `json:"ts"` // TIME INDEX
}

// Result is the full outcome of one run, returned to callers. It is not
// mutated after Run returns.
type Result struct {
	RunID        string
	Scenario     config.Scenario
	Plan         fault.Plan
	Nodes        []*clocknode.Node
	BeforeTimes  []float64
	AfterTimes   []float64
	SkewBefore   float64
	SkewAfter    float64
	Synchronized bool
	Timestamp    time.Time
}

// RunRow flattens the result for writers.
func (r *Result) RunRow() RunRow {
	return RunRow{
		RunID:        r.RunID,
		Scenario:     r.Scenario.Name,
		Algorithm:    r.Scenario.Algorithm,
		FaultType:    r.Scenario.FaultType,
		Robust:       r.Scenario.Robust,
		InitMode:     r.Scenario.InitMode,
		NodeCount:    r.Scenario.NodeCount,
		BaseTime:     r.Scenario.BaseTime,
		SkewBefore:   r.SkewBefore,
		SkewAfter:    r.SkewAfter,
		Synchronized: r.Synchronized,
		Timestamp:    r.Timestamp,
	}
}

// NodeRows returns one row per node, in node-id order.
func (r *Result) NodeRows() []NodeRow {
	rows := make([]NodeRow, len(r.Nodes))
	for i, n := range r.Nodes {
		rows[i] = NodeRow{
			RunID:     r.RunID,
			NodeID:    n.ID,
			Drift:     n.Drift,
			Offset:    n.Offset,
			Byzantine: n.Byzantine,
			Excluded:  r.Plan.Excluded[n.ID],
			Before:    r.BeforeTimes[i],
			After:     r.AfterTimes[i],
			Timestamp: r.Timestamp,
		}
	}
	return rows
}
