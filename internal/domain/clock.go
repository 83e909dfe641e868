package domain

import "github.com/jonboulle/clockwork"

// clock is the package-level time source for window computation. Tests freeze
// it via SetClock to get reproducible windows and byte-identical output.
var clock = clockwork.NewRealClock()

// SetClock swaps the time source. Pass nil to reset to the real clock.
func SetClock(c clockwork.Clock) {
	if c == nil {
		clock = clockwork.NewRealClock()
		return
	}
	clock = c
}
