// Simulated clock state for synchronization runs
package clocknode

// ByzantineBias is the fixed misreport, in seconds, a lying node adds to every
// reading it hands out.
const ByzantineBias = 30.0

// Node holds the runtime state of one simulated clock.
type Node struct {
	ID        int
	Drift     float64
	Offset    float64
	Byzantine bool
}

// ReportedTime returns the node's clock reading at the shared base time:
// base*Drift + Offset, plus the Byzantine bias for a lying node. The bias is
// applied at read time and never stored, so repeated reads without an Adjust
// in between return identical values.
func (n *Node) ReportedTime(base float64) float64 {
	t := base*n.Drift + n.Offset
	if n.Byzantine {
		t += ByzantineBias
	}
	return t
}

// Adjust adds delta to the accumulated offset. This is the only mutator;
// offsets are unbounded.
func (n *Node) Adjust(delta float64) {
	n.Offset += delta
}

// Readings reads every node exactly once, in order, at the shared base time.
func Readings(nodes []*Node, base float64) []float64 {
	out := make([]float64, len(nodes))
	for i, n := range nodes {
		out[i] = n.ReportedTime(base)
	}
	return out
}

// Skew returns the spread (max - min) of a set of readings, 0 for an empty set.
func Skew(readings []float64) float64 {
	if len(readings) == 0 {
		return 0
	}
	min, max := readings[0], readings[0]
	for _, r := range readings[1:] {
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}
	return max - min
}
