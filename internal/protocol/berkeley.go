package protocol

import (
	"fmt"
	"sort"

	"clocksync-sim/internal/clocknode"
)

// RunBerkeley executes one Berkeley synchronization pass over the active
// nodes. Every node is read exactly once into a snapshot, a central time is
// computed (arithmetic mean, or median when robust is set), and each node is
// adjusted by central minus its snapshot reading. Adjustments always use the
// snapshot, never a re-read.
func RunBerkeley(nodes []*clocknode.Node, robust bool, base float64) error {
	if len(nodes) == 0 {
		return fmt.Errorf("%w: berkeley requires at least one active node", ErrInvalidInput)
	}
	readings := clocknode.Readings(nodes, base)
	central := mean(readings)
	if robust {
		central = median(readings)
	}
	for i, n := range nodes {
		n.Adjust(central - readings[i])
	}
	return nil
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// median averages the two central values for even-length input. A single
// Byzantine outlier shifts the mean by bias/n but leaves the median untouched
// once it falls outside the central elements, which is what robust mode is
// meant to demonstrate.
func median(vals []float64) float64 {
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
