package shim

import (
	"fmt"
	"sync"
)

// Access is one register write recorded by Sim.
type Access struct {
	Off   uint32
	Val   uint32
	Width int
}

func (a Access) String() string {
	return fmt.Sprintf("w%d[%#x]=%#x", a.Width, a.Off, a.Val)
}

// link makes the status bits at sts follow the control bits at ctl.
type link struct {
	ctl, mask uint32
	sts       uint32
	shift     int
	lag       int
	pending   int
}

func (l *link) project(ctl uint32) uint32 {
	bits := ctl & l.mask
	if l.shift >= 0 {
		return bits << uint(l.shift)
	}
	return bits >> uint(-l.shift)
}

func (l *link) statusMask() uint32 {
	return l.project(l.mask)
}

// Sim is an in-memory register file used by tests and by the simulator mode
// of the daemon. 16 and 32 bit registers live at independent offsets.
type Sim struct {
	mu     sync.Mutex
	regs   map[uint32]uint32
	links  []*link
	writes []Access
	reads  map[uint32]int
}

// NewSim returns an empty register file, every register reads as zero.
func NewSim() *Sim {
	return &Sim{
		regs:  make(map[uint32]uint32),
		reads: make(map[uint32]int),
	}
}

// Link makes the status bits at sts mirror the control bits in mask at ctl,
// shifted left by shift (right when negative). The status register catches up
// after lag reads following a control write; a negative lag means the status
// never changes, which models a wedged power domain.
func (s *Sim) Link(ctl, mask, sts uint32, shift, lag int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links = append(s.links, &link{ctl: ctl, mask: mask, sts: sts, shift: shift, lag: lag})
}

// Poke sets a register without recording a write.
func (s *Sim) Poke(off, val uint32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.regs[off] = val
}

// Peek returns a register without counting a read.
func (s *Sim) Peek(off uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regs[off]
}

// Writes returns the recorded writes in order.
func (s *Sim) Writes() []Access {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Access(nil), s.writes...)
}

// WritesTo returns the recorded writes to off.
func (s *Sim) WritesTo(off uint32) []Access {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Access
	for _, w := range s.writes {
		if w.Off == off {
			out = append(out, w)
		}
	}
	return out
}

// Reads returns how many times off was read.
func (s *Sim) Reads(off uint32) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[off]
}

// ResetLog forgets recorded reads and writes.
func (s *Sim) ResetLog() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = nil
	s.reads = make(map[uint32]int)
}

func (s *Sim) read(off uint32) uint32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads[off]++
	for _, l := range s.links {
		if l.sts != off || l.lag < 0 {
			continue
		}
		if l.pending > 0 {
			l.pending--
			continue
		}
		m := l.statusMask()
		s.regs[off] = s.regs[off]&^m | l.project(s.regs[l.ctl])
	}
	return s.regs[off]
}

func (s *Sim) write(off, val uint32, width int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, Access{Off: off, Val: val, Width: width})
	for _, l := range s.links {
		if l.ctl != off {
			continue
		}
		if l.sts == off {
			// status bits in the same register are owned by the hardware
			m := l.statusMask()
			val = val&^m | s.regs[off]&m
		}
		if l.lag > 0 && (s.regs[off]^val)&l.mask != 0 {
			l.pending = l.lag
		}
	}
	s.regs[off] = val
}

func (s *Sim) Read32(off uint32) uint32 {
	return s.read(off)
}

func (s *Sim) Write32(off uint32, val uint32) {
	s.write(off, val, 32)
}

func (s *Sim) Read16(off uint32) uint16 {
	return uint16(s.read(off))
}

func (s *Sim) Write16(off uint32, val uint16) {
	s.write(off, uint32(val), 16)
}
