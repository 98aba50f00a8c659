package sim

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"

	gpb "github.com/GreptimeTeam/greptime-proto/go/greptime/v1"
	greptime "github.com/GreptimeTeam/greptimedb-ingester-go"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table"
	"github.com/GreptimeTeam/greptimedb-ingester-go/table/types"
)

// Default GreptimeDB table names; override via NewGreptimeDBWriter arguments.
const (
	DefaultRunTable  = "clocksync_run"
	DefaultNodeTable = "clocksync_node"
)

// greptimeClient abstracts the ingester client for testing.
type greptimeClient interface {
	Write(ctx context.Context, tables ...*table.Table) (*gpb.GreptimeResponse, error)
}

// GreptimeDBWriter writes run and node rows to GreptimeDB via the ingester
// client.
type GreptimeDBWriter struct {
	client    greptimeClient
	runTable  string
	nodeTable string
}

// NewGreptimeDBWriter creates a new GreptimeDB writer. endpoint is host or
// host:port (port defaults to 4001, the gRPC ingest port).
func NewGreptimeDBWriter(endpoint, database, runTable, nodeTable string) (*GreptimeDBWriter, error) {
	host, portStr, err := net.SplitHostPort(endpoint)
	if err != nil {
		host, portStr = endpoint, "4001"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid greptime port %q: %w", portStr, err)
	}
	cfg := greptime.NewConfig(host).WithPort(port).WithDatabase(database)
	cli, err := greptime.NewClient(cfg)
	if err != nil {
		return nil, err
	}
	if runTable == "" {
		runTable = DefaultRunTable
	}
	if nodeTable == "" {
		nodeTable = DefaultNodeTable
	}
	return &GreptimeDBWriter{client: cli, runTable: runTable, nodeTable: nodeTable}, nil
}

// Write inserts a single run row.
func (w *GreptimeDBWriter) Write(row RunRow) error {
	return w.WriteBatch([]RunRow{row})
}

// WriteBatch inserts multiple run rows.
func (w *GreptimeDBWriter) WriteBatch(rows []RunRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.runTable)
	if err != nil {
		return err
	}
	if err := errors.Join(
		tbl.AddTagColumn("run_id", types.STRING),
		tbl.AddTagColumn("scenario", types.STRING),
		tbl.AddFieldColumn("algorithm", types.STRING),
		tbl.AddFieldColumn("fault_type", types.STRING),
		tbl.AddFieldColumn("robust", types.BOOLEAN),
		tbl.AddFieldColumn("init_mode", types.STRING),
		tbl.AddFieldColumn("node_count", types.INT64),
		tbl.AddFieldColumn("base_time", types.FLOAT),
		tbl.AddFieldColumn("skew_before", types.FLOAT),
		tbl.AddFieldColumn("skew_after", types.FLOAT),
		tbl.AddFieldColumn("synchronized", types.BOOLEAN),
		tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND),
	); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, r.Scenario, r.Algorithm, r.FaultType, r.Robust,
			r.InitMode, int64(r.NodeCount), r.BaseTime, r.SkewBefore, r.SkewAfter,
			r.Synchronized, r.Timestamp); err != nil {
			return err
		}
	}
	_, err = w.client.Write(context.Background(), tbl)
	return err
}

// WriteNode inserts a single node row.
func (w *GreptimeDBWriter) WriteNode(row NodeRow) error {
	return w.WriteNodes([]NodeRow{row})
}

// WriteNodes inserts multiple node rows.
func (w *GreptimeDBWriter) WriteNodes(rows []NodeRow) error {
	if len(rows) == 0 {
		return nil
	}
	tbl, err := table.New(w.nodeTable)
	if err != nil {
		return err
	}
	if err := errors.Join(
		tbl.AddTagColumn("run_id", types.STRING),
		tbl.AddTagColumn("node_id", types.INT64),
		tbl.AddFieldColumn("drift", types.FLOAT),
		tbl.AddFieldColumn("offset", types.FLOAT),
		tbl.AddFieldColumn("byzantine", types.BOOLEAN),
		tbl.AddFieldColumn("excluded", types.BOOLEAN),
		tbl.AddFieldColumn("before", types.FLOAT),
		tbl.AddFieldColumn("after", types.FLOAT),
		tbl.AddTimestampColumn("ts", types.TIMESTAMP_MILLISECOND),
	); err != nil {
		return err
	}
	for _, r := range rows {
		if err := tbl.AddRow(r.RunID, int64(r.NodeID), r.Drift, r.Offset,
			r.Byzantine, r.Excluded, r.Before, r.After, r.Timestamp); err != nil {
			return err
		}
	}
	_, err = w.client.Write(context.Background(), tbl)
	return err
}
