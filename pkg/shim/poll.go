package shim

import (
	"errors"
	"fmt"
	"time"

	"k8s.io/apimachinery/pkg/util/wait"
	"k8s.io/utils/clock"
)

// ErrPollTimeout is returned when a status bit is not observed within the
// poll budget.
var ErrPollTimeout = errors.New("hardware status not observed")

// Poller waits for a hardware status condition.
//
// Budget is the number of status reads allowed before giving up. A zero
// Budget polls forever, which is how the firmware behaves: a wedged status
// bit hangs the caller.
type Poller struct {
	Budget   int
	Interval time.Duration
	Clock    clock.Clock
}

// Unbounded reports whether the poller never times out.
func (p Poller) Unbounded() bool {
	return p.Budget <= 0
}

// Until reads cond until it returns true.
func (p Poller) Until(what string, cond func() bool) error {
	clk := p.Clock
	if clk == nil {
		clk = clock.RealClock{}
	}
	if p.Unbounded() {
		for !cond() {
			if p.Interval > 0 {
				clk.Sleep(p.Interval)
			}
		}
		return nil
	}
	backoff := wait.Backoff{Duration: p.Interval, Factor: 1, Steps: p.Budget}
	for backoff.Steps > 0 {
		if cond() {
			return nil
		}
		if d := backoff.Step(); d > 0 {
			clk.Sleep(d)
		}
	}
	return fmt.Errorf("%w: %s after %d reads", ErrPollTimeout, what, p.Budget)
}
