package protocol

import (
	"errors"
	"math"
	"testing"

	"clocksync-sim/internal/clocknode"
)

const tol = 1e-9

// manualNodes builds equal-drift nodes whose first reading at base equals the
// given times; byzIdx flags one of them as lying (-1 for none).
func manualNodes(times []float64, base float64, byzIdx int) []*clocknode.Node {
	nodes := make([]*clocknode.Node, len(times))
	for i, tm := range times {
		nodes[i] = &clocknode.Node{ID: i, Drift: 1.0, Offset: tm - base, Byzantine: i == byzIdx}
	}
	return nodes
}

func TestBerkeleyMeanConvergence(t *testing.T) {
	nodes := manualNodes([]float64{1000, 1002, 998, 1005, 999}, 1000, -1)
	if err := RunBerkeley(nodes, false, 1000); err != nil {
		t.Fatalf("RunBerkeley: %v", err)
	}
	for _, n := range nodes {
		if got := n.ReportedTime(1000); math.Abs(got-1000.8) > tol {
			t.Errorf("node %d post-sync reading = %v, want 1000.8", n.ID, got)
		}
	}
	if skew := clocknode.Skew(clocknode.Readings(nodes, 1000)); skew > tol {
		t.Errorf("post-sync skew = %v, want 0", skew)
	}
}

func TestBerkeleySingleNode(t *testing.T) {
	nodes := manualNodes([]float64{1003}, 1000, -1)
	if err := RunBerkeley(nodes, false, 1000); err != nil {
		t.Fatalf("RunBerkeley: %v", err)
	}
	if got := nodes[0].ReportedTime(1000); math.Abs(got-1003) > tol {
		t.Errorf("single node drifted to %v, want 1003", got)
	}
}

func TestBerkeleyEmptySetFails(t *testing.T) {
	err := RunBerkeley(nil, false, 1000)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBerkeleyMeanShiftedByByzantine(t *testing.T) {
	// Node 0 reads 1030; the mean moves up by bias/n = 6 relative to the
	// honest mean 1000.8.
	nodes := manualNodes([]float64{1000, 1002, 998, 1005, 999}, 1000, 0)
	if err := RunBerkeley(nodes, false, 1000); err != nil {
		t.Fatalf("RunBerkeley: %v", err)
	}
	for _, n := range nodes[1:] {
		if got := n.ReportedTime(1000); math.Abs(got-1006.8) > tol {
			t.Errorf("honest node %d = %v, want 1006.8", n.ID, got)
		}
	}
	// The liar re-adds its bias at read time after adjustment.
	if got := nodes[0].ReportedTime(1000); math.Abs(got-1036.8) > tol {
		t.Errorf("byzantine node = %v, want 1036.8", got)
	}
}

func TestBerkeleyMedianResistsByzantine(t *testing.T) {
	// Same configuration twice; compare how far honest nodes land from where
	// they would have converged absent the liar. Median keeps them at the
	// honest central value, mean drags them up by bias/n. The raw after-skew
	// cannot distinguish the two modes because the liar re-adds its bias on
	// every read, so the comparison is against true convergence.
	times := []float64{1000, 1002, 998, 1005, 999}

	meanNodes := manualNodes(times, 1000, 0)
	if err := RunBerkeley(meanNodes, false, 1000); err != nil {
		t.Fatalf("mean mode: %v", err)
	}
	medianNodes := manualNodes(times, 1000, 0)
	if err := RunBerkeley(medianNodes, true, 1000); err != nil {
		t.Fatalf("median mode: %v", err)
	}

	// Median of [1030, 1002, 998, 1005, 999] is 1002: the outlier is not
	// among the central elements, so honest nodes land on an honest value.
	for _, n := range medianNodes[1:] {
		if got := n.ReportedTime(1000); math.Abs(got-1002) > tol {
			t.Errorf("median mode honest node %d = %v, want 1002", n.ID, got)
		}
	}

	honestMedian := 1002.0
	meanDev := math.Abs(meanNodes[1].ReportedTime(1000) - honestMedian)
	medianDev := math.Abs(medianNodes[1].ReportedTime(1000) - honestMedian)
	if medianDev >= meanDev {
		t.Errorf("median deviation %v not smaller than mean deviation %v", medianDev, meanDev)
	}
}

func TestBerkeleyReadsOnceAndAdjustsFromSnapshot(t *testing.T) {
	// central - readings[i] must come from the captured snapshot: after the
	// pass, reading = snapshot + (central - snapshot) = central for honest
	// nodes, independent of order.
	nodes := manualNodes([]float64{990, 1010}, 1000, -1)
	if err := RunBerkeley(nodes, false, 1000); err != nil {
		t.Fatalf("RunBerkeley: %v", err)
	}
	for _, n := range nodes {
		if got := n.ReportedTime(1000); math.Abs(got-1000) > tol {
			t.Errorf("node %d = %v, want 1000", n.ID, got)
		}
	}
}

func TestMean(t *testing.T) {
	if got := mean([]float64{1, 2, 3, 4}); math.Abs(got-2.5) > tol {
		t.Errorf("mean = %v, want 2.5", got)
	}
}

func TestMedian(t *testing.T) {
	cases := []struct {
		name string
		vals []float64
		want float64
	}{
		{"odd", []float64{3, 1, 2}, 2},
		{"even averages central pair", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{7}, 7},
		{"outlier ignored", []float64{1030, 1002, 998, 1005, 999}, 1002},
	}
	for _, c := range cases {
		if got := median(c.vals); math.Abs(got-c.want) > tol {
			t.Errorf("%s: median = %v, want %v", c.name, got, c.want)
		}
	}
}
