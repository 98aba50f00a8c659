// Runner orchestrating clock construction, fault injection, and sync passes
package sim

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"clocksync-sim/internal/clocknode"
	"clocksync-sim/internal/config"
	"clocksync-sim/internal/fault"
	"clocksync-sim/internal/logging"
	"clocksync-sim/internal/protocol"

	"github.com/google/uuid"
)

// SyncThreshold is the post-sync skew, in seconds, under which a run counts
// as synchronized.
const SyncThreshold = 0.1

// ResultWriter is an interface to support different output writers.
type ResultWriter interface {
	Write(RunRow) error
}

// NodeWriter handles per-node state rows.
type NodeWriter interface {
	WriteNode(NodeRow) error
}

// Optional: writers can also support batch mode
type batchNodeWriter interface {
	WriteNodes([]NodeRow) error
}

// Runner executes synchronization scenarios. Each run builds a fresh node set
// and draws drift from the runner's own RNG stream, so concurrent runners
// never share state.
type Runner struct {
	writer     ResultWriter
	nodeWriter NodeWriter
	rand       *rand.Rand
	now        func() time.Time

	mu   sync.Mutex
	last *Result
}

// NewRunner creates a runner writing rows to the given writers, either of
// which may be nil. A zero seed falls back to the current time.
func NewRunner(writer ResultWriter, nodeWriter NodeWriter, seed int64) *Runner {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Runner{
		writer:     writer,
		nodeWriter: nodeWriter,
		rand:       rand.New(rand.NewSource(seed)),
		now:        time.Now,
	}
}

// Run executes one scenario: build nodes, record before-times, run the
// selected algorithm over the active participant set, record after-times,
// compute skew, classify, and emit rows.
func (r *Runner) Run(ctx context.Context, scn config.Scenario) (*Result, error) {
	log := logging.FromContext(ctx)
	if err := scn.Validate(); err != nil {
		return nil, err
	}

	plan := fault.Resolve(fault.Type(scn.FaultType), scn.NodeCount)
	nodes, err := r.buildNodes(scn, plan)
	if err != nil {
		return nil, err
	}

	before := clocknode.Readings(nodes, scn.BaseTime)

	switch protocol.Algorithm(scn.Algorithm) {
	case protocol.Berkeley:
		if err := protocol.RunBerkeley(activeNodes(nodes, plan), scn.Robust, scn.BaseTime); err != nil {
			return nil, err
		}
	case protocol.Cristian:
		if plan.Excluded[0] {
			return nil, fmt.Errorf("%w: cristian server is crash-excluded", protocol.ErrInvalidInput)
		}
		server := nodes[0]
		clients := activeNodes(nodes[1:], plan)
		if err := protocol.RunCristian(server, clients, scn.BaseTime); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", protocol.ErrConfiguration, scn.Algorithm)
	}

	after := clocknode.Readings(nodes, scn.BaseTime)
	res := &Result{
		RunID:       uuid.New().String(),
		Scenario:    scn,
		Plan:        plan,
		Nodes:       nodes,
		BeforeTimes: before,
		AfterTimes:  after,
		SkewBefore:  clocknode.Skew(before),
		SkewAfter:   clocknode.Skew(after),
		Timestamp:   r.now().UTC(),
	}
	res.Synchronized = res.SkewAfter < SyncThreshold

	log.Info("run complete",
		"scenario", scn.Name,
		"algorithm", scn.Algorithm,
		"fault", scn.FaultType,
		"skew_before", res.SkewBefore,
		"skew_after", res.SkewAfter,
		"synchronized", res.Synchronized)

	r.mu.Lock()
	r.last = res
	r.mu.Unlock()

	r.emit(ctx, res)
	return res, nil
}

// buildNodes constructs the run's node set with the fault plan baked in.
// Manual mode seeds the offset so the first reading equals the supplied value
// exactly; random mode draws drift uniformly from [0.99, 1.01].
func (r *Runner) buildNodes(scn config.Scenario, plan fault.Plan) ([]*clocknode.Node, error) {
	rng := r.rand
	if scn.Seed != 0 {
		rng = rand.New(rand.NewSource(scn.Seed))
	}
	nodes := make([]*clocknode.Node, scn.NodeCount)
	for i := range nodes {
		n := &clocknode.Node{ID: i, Drift: 1.0, Byzantine: plan.IsByzantine(i)}
		switch scn.InitMode {
		case config.InitManual:
			n.Offset = scn.ManualTimes[i] - scn.BaseTime
		case config.InitRandomDrift:
			n.Drift = 0.99 + rng.Float64()*0.02
		default:
			return nil, fmt.Errorf("%w: unknown init mode %q", protocol.ErrConfiguration, scn.InitMode)
		}
		nodes[i] = n
	}
	return nodes, nil
}

// activeNodes filters crash-excluded nodes out of the participant set.
func activeNodes(nodes []*clocknode.Node, plan fault.Plan) []*clocknode.Node {
	active := make([]*clocknode.Node, 0, len(nodes))
	for _, n := range nodes {
		if !plan.Excluded[n.ID] {
			active = append(active, n)
		}
	}
	return active
}

func (r *Runner) emit(ctx context.Context, res *Result) {
	log := logging.FromContext(ctx)
	if r.writer != nil {
		if err := r.writer.Write(res.RunRow()); err != nil {
			log.Error("run write failed", "run_id", res.RunID, "err", err)
		}
	}
	if r.nodeWriter == nil {
		return
	}
	rows := res.NodeRows()
	if bw, ok := r.nodeWriter.(batchNodeWriter); ok {
		if err := bw.WriteNodes(rows); err != nil {
			log.Error("node batch write failed", "run_id", res.RunID, "err", err)
		}
		return
	}
	for _, row := range rows {
		if err := r.nodeWriter.WriteNode(row); err != nil {
			log.Error("node write failed", "run_id", res.RunID, "node_id", row.NodeID, "err", err)
		}
	}
}

// LastResult returns the most recent run outcome, or nil before any run.
func (r *Runner) LastResult() *Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.last
}
