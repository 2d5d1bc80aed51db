package pmruntime

import "fmt"

// Context identifies the kind of hardware aspect a reference count guards.
type Context int

const (
	DspCorePower Context = iota
	SspClock
	SspPower
	DmicClock
	DmicPower
	DmaClock
	CoreMemoryPower
	HostDmaL1Exit

	numContexts
)

var contextNames = [numContexts]string{
	DspCorePower:    "dsp_core_power",
	SspClock:        "ssp_clock",
	SspPower:        "ssp_power",
	DmicClock:       "dmic_clock",
	DmicPower:       "dmic_power",
	DmaClock:        "dma_clock",
	CoreMemoryPower: "core_memory_power",
	HostDmaL1Exit:   "host_dma_l1_exit",
}

func (c Context) String() string {
	if c.valid() {
		return contextNames[c]
	}
	return fmt.Sprintf("context(%d)", int(c))
}

func (c Context) valid() bool {
	return c >= 0 && c < numContexts
}

// Contexts lists every context in declaration order.
func Contexts() []Context {
	out := make([]Context, 0, numContexts)
	for c := Context(0); c < numContexts; c++ {
		out = append(out, c)
	}
	return out
}

// Routine performs one hardware transition for an instance of a context.
type Routine func(index uint32) error

// Routines binds a context to its valid index range and its hardware
// sequence. Enable runs on the 0->1 count edge, Disable on 1->0. A nil
// routine means the platform has nothing to program for that edge; the
// context is still reference counted.
//
// For HostDmaL1Exit only Disable is used, and it runs on every release.
type Routines struct {
	First   uint32
	Count   uint32
	Enable  Routine
	Disable Routine
}

func (r Routines) contains(index uint32) bool {
	return index >= r.First && index-r.First < r.Count
}

// Table maps each context to its routines. Contexts missing from the table
// are rejected with ErrUnsupported.
type Table map[Context]Routines

// Platform is a silicon generation: its routine table and the bulk
// power-off used on the way to full system power down.
type Platform interface {
	Name() string
	Routines() Table
	PowerOff() error
}
