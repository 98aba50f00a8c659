// Fault injection planning for simulation runs
package fault

// Type enumerates the fault modes a run can inject.
type Type string

const (
	None      Type = "none"
	Byzantine Type = "byzantine"
	Crash     Type = "crash"
)

// Valid reports whether t is a known fault type.
func (t Type) Valid() bool {
	switch t {
	case None, Byzantine, Crash:
		return true
	}
	return false
}

// NoByzantine marks a plan without a lying node.
const NoByzantine = -1

// Plan is the resolved fault outcome for one run. It is computed before node
// construction so the Byzantine flag can be baked into the node at creation.
type Plan struct {
	// ByzantineIndex is the id of the lying node, or NoByzantine.
	ByzantineIndex int
	// Excluded holds the ids of crashed nodes. Excluded nodes still exist and
	// still report times; they are only removed from the active participant
	// set handed to the synchronization pass.
	Excluded map[int]bool
}

// Resolve maps a fault type onto concrete node indices. A Byzantine fault
// always flags node 0; a crash fault excludes node 1 so the designation never
// collides with the Cristian server. Exclusion takes precedence over
// Byzantine designation should both ever apply to the same node.
func Resolve(t Type, nodeCount int) Plan {
	p := Plan{ByzantineIndex: NoByzantine, Excluded: map[int]bool{}}
	switch t {
	case Byzantine:
		if nodeCount > 0 {
			p.ByzantineIndex = 0
		}
	case Crash:
		if nodeCount > 1 {
			p.Excluded[1] = true
		}
	}
	return p
}

// IsByzantine reports whether the node with the given id lies about its time.
// An excluded node never participates, so exclusion wins over designation.
func (p Plan) IsByzantine(id int) bool {
	return id == p.ByzantineIndex && !p.Excluded[id]
}
