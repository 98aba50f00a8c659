// Clock synchronization protocols
package protocol

import "errors"

// Algorithm selects which synchronization pass a run executes. There are only
// two variants, dispatched by the runner rather than through an interface.
type Algorithm string

const (
	Berkeley Algorithm = "berkeley"
	Cristian Algorithm = "cristian"
)

// Valid reports whether a is a known algorithm.
func (a Algorithm) Valid() bool {
	return a == Berkeley || a == Cristian
}

// ErrInvalidInput marks inputs a synchronization pass cannot operate on, such
// as an empty active-node set or a missing server.
var ErrInvalidInput = errors.New("invalid input")

// ErrConfiguration marks unrecognized enumerators in a scenario.
var ErrConfiguration = errors.New("configuration error")
