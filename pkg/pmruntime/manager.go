// Package pmruntime reference counts the power and clock domains of the DSP
// and runs the platform hardware sequence on every 0<->1 count edge.
//
// All transitions on a platform are serialized by one lock, held for the
// counter update and the full hardware sequence. Unrelated domains therefore
// never transition concurrently. IsActive does not take the lock.
//
// A caller that releases more than it acquired is rejected, but a caller that
// forgets a release keeps the domain powered for every other user of it. The
// counts are shared by all callers of a platform.
package pmruntime

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/openshift/dsp-pm-runtime/pkg/metrics"
)

type domain struct {
	routines Routines
	counts   []atomic.Int32

	// set when a failed disable could not restore the enabled state, the
	// next Acquire runs the enable sequence again. Guarded by the lock.
	stale []bool
}

// Manager owns the runtime power state of one platform. Build it once with
// New before any driver runs, and share the pointer.
type Manager struct {
	lock     sync.Locker
	platform Platform
	name     string
	domains  [numContexts]*domain

	// holders preventing the DSP from leaving D0
	d0Inhibit atomic.Int32
}

// New initializes the runtime state of p with every count at zero. lock must
// also mask local interrupts when the manager is shared with interrupt
// handlers; nil selects a plain mutex.
func New(p Platform, lock sync.Locker) *Manager {
	if lock == nil {
		lock = &sync.Mutex{}
	}
	m := &Manager{
		lock:     lock,
		platform: p,
		name:     p.Name(),
	}
	metrics.DeletePlatformMetrics(m.name)
	for c, r := range p.Routines() {
		if !c.valid() {
			glog.Warningf("pm runtime %s: ignoring routines for %s", m.name, c)
			continue
		}
		m.domains[c] = &domain{
			routines: r,
			counts:   make([]atomic.Int32, r.Count),
			stale:    make([]bool, r.Count),
		}
	}
	glog.Infof("pm runtime initialized for %s", m.name)
	return m
}

// Platform returns the platform the manager was built for.
func (m *Manager) Platform() Platform {
	return m.platform
}

func (m *Manager) fail(c Context, reason string, err error) error {
	metrics.IncSequenceError(m.name, c.String(), reason)
	return err
}

func (m *Manager) lookup(c Context, index uint32) (*domain, *atomic.Int32, error) {
	if !c.valid() {
		return nil, nil, m.fail(c, "out_of_range", fmt.Errorf("%w: %s", ErrOutOfRange, c))
	}
	d := m.domains[c]
	if d == nil {
		return nil, nil, m.fail(c, "unsupported", fmt.Errorf("%w: %s on %s", ErrUnsupported, c, m.name))
	}
	if !d.routines.contains(index) {
		return nil, nil, m.fail(c, "out_of_range", fmt.Errorf("%w: %s index %d", ErrOutOfRange, c, index))
	}
	return d, &d.counts[index-d.routines.First], nil
}

func (m *Manager) run(c Context, index uint32, r Routine, up bool) error {
	if r == nil {
		return nil
	}
	if err := r(index); err != nil {
		glog.Errorf("pm runtime %s: %s[%d] sequence failed: %s", m.name, c, index, err)
		return m.fail(c, "sequence", fmt.Errorf("%s[%d]: %w", c, index, err))
	}
	metrics.IncTransition(m.name, c.String(), index, up)
	return nil
}

// undo runs the opposite sequence after a failed transition so the hardware
// matches the count again. It reports whether that succeeded.
func (m *Manager) undo(c Context, index uint32, r Routine, up bool) bool {
	if err := m.run(c, index, r, up); err != nil {
		glog.Errorf("pm runtime %s: %s[%d] could not be restored: %s", m.name, c, index, err)
		return false
	}
	return true
}

// Acquire takes a reference on (c, index). The first reference runs the
// enabling sequence before Acquire returns. On a sequence failure the
// reference is not taken and the disabling sequence puts the domain back in
// its gated state.
func (m *Manager) Acquire(c Context, index uint32) error {
	if c == HostDmaL1Exit {
		// the force exit is a one-shot nudge on release
		if _, _, err := m.lookup(c, index); err != nil {
			return err
		}
		return nil
	}
	d, count, err := m.lookup(c, index)
	if err != nil {
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	slot := index - d.routines.First
	prev := count.Add(1) - 1
	if prev == 0 || d.stale[slot] {
		if err := m.run(c, index, d.routines.Enable, true); err != nil {
			if prev == 0 {
				m.undo(c, index, d.routines.Disable, false)
			}
			count.Add(-1)
			return err
		}
		d.stale[slot] = false
	}
	glog.V(2).Infof("pm runtime %s: acquire %s[%d] count %d", m.name, c, index, prev+1)
	metrics.UpdateUsageCount(m.name, c.String(), index, prev+1)
	return nil
}

// Release drops a reference on (c, index). The last reference runs the
// disabling sequence. Releasing a domain nobody holds returns ErrUnbalanced
// without touching hardware. When the disabling sequence fails the
// reference is kept and the domain is enabled again; if that fails too, the
// next Acquire reruns the enabling sequence.
//
// HostDmaL1Exit is not counted: every release runs the force exit.
func (m *Manager) Release(c Context, index uint32) error {
	d, count, err := m.lookup(c, index)
	if err != nil {
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	if c == HostDmaL1Exit {
		return m.run(c, index, d.routines.Disable, false)
	}

	cur := count.Load()
	if cur <= 0 {
		glog.Errorf("pm runtime %s: release of %s[%d] with count %d", m.name, c, index, cur)
		return m.fail(c, "unbalanced", fmt.Errorf("%w: %s[%d]", ErrUnbalanced, c, index))
	}
	if cur == 1 {
		slot := index - d.routines.First
		if err := m.run(c, index, d.routines.Disable, false); err != nil {
			if !m.undo(c, index, d.routines.Enable, true) {
				d.stale[slot] = true
			}
			return err
		}
		d.stale[slot] = false
	}
	count.Store(cur - 1)
	glog.V(2).Infof("pm runtime %s: release %s[%d] count %d", m.name, c, index, cur-1)
	metrics.UpdateUsageCount(m.name, c.String(), index, cur-1)
	return nil
}

func (m *Manager) checkD0(c Context, index uint32) error {
	if c != DspCorePower {
		if !c.valid() {
			return m.fail(c, "out_of_range", fmt.Errorf("%w: %s", ErrOutOfRange, c))
		}
		return m.fail(c, "unsupported", fmt.Errorf("%w: enable/disable of %s", ErrUnsupported, c))
	}
	_, _, err := m.lookup(c, index)
	return err
}

// Enable allows the DSP to power gate again by dropping one D0 inhibit
// reference. This is the inverse of Acquire: enabling gating releases a
// hold. Only DspCorePower supports it.
func (m *Manager) Enable(c Context, index uint32) error {
	if err := m.checkD0(c, index); err != nil {
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	refs := m.d0Inhibit.Load()
	if refs <= 0 {
		return m.fail(c, "unbalanced", fmt.Errorf("%w: enable of %s with no inhibit held", ErrUnbalanced, c))
	}
	m.d0Inhibit.Store(refs - 1)
	glog.V(2).Infof("pm runtime %s: enable dsp gating, d0 inhibit refs %d", m.name, refs-1)
	metrics.UpdateD0InhibitRefs(m.name, refs-1)
	return nil
}

// Disable prevents the DSP from power gating by taking one D0 inhibit
// reference. Boot disables gating until the host allows it.
func (m *Manager) Disable(c Context, index uint32) error {
	if err := m.checkD0(c, index); err != nil {
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	refs := m.d0Inhibit.Add(1)
	glog.V(2).Infof("pm runtime %s: disable dsp gating, d0 inhibit refs %d", m.name, refs)
	metrics.UpdateD0InhibitRefs(m.name, refs)
	return nil
}

// IsActive reports whether (c, index) must stay enabled. For DspCorePower it
// reports whether the D0 inhibit count is held. It never blocks, so it is
// safe from the idle path while a transition is in progress.
//
// The count is taken before the enabling sequence runs, so IsActive already
// reports true while the domain is still powering up. It keeps reporting
// true until the disabling sequence of the last holder has completed. A
// failed enable reads true until it is rolled back.
func (m *Manager) IsActive(c Context, index uint32) (bool, error) {
	if c == HostDmaL1Exit {
		return false, m.fail(c, "unsupported", fmt.Errorf("%w: %s is not counted", ErrUnsupported, c))
	}
	_, count, err := m.lookup(c, index)
	if err != nil {
		return false, err
	}
	if c == DspCorePower {
		return m.d0Inhibit.Load() > 0, nil
	}
	return count.Load() > 0, nil
}

// Quiesce drives an unheld domain into its gated state, for boot code that
// finds hardware enabled by a previous owner. It returns ErrBusy if the
// domain has holders.
func (m *Manager) Quiesce(c Context, index uint32) error {
	if c == HostDmaL1Exit {
		return m.fail(c, "unsupported", fmt.Errorf("%w: quiesce of %s", ErrUnsupported, c))
	}
	d, count, err := m.lookup(c, index)
	if err != nil {
		return err
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	if n := count.Load(); n != 0 {
		return m.fail(c, "busy", fmt.Errorf("%w: %s[%d] count %d", ErrBusy, c, index, n))
	}
	return m.run(c, index, d.routines.Disable, false)
}

// held lists the counted domains with a non-zero count.
func (m *Manager) held() []string {
	var out []string
	for c, d := range m.domains {
		if d == nil {
			continue
		}
		for i := range d.counts {
			if n := d.counts[i].Load(); n > 0 {
				out = append(out, fmt.Sprintf("%s[%d]=%d", Context(c), d.routines.First+uint32(i), n))
			}
		}
	}
	return out
}

// PowerOff gates the whole high power memory in one multi-bank sequence. It
// bypasses reference counting and belongs only to the full power down path:
// calling it while any domain is held leaves those holders without memory.
func (m *Manager) PowerOff() error {
	m.lock.Lock()
	defer m.lock.Unlock()

	if held := m.held(); len(held) > 0 {
		glog.Warningf("pm runtime %s: power off with domains still held: %s", m.name, strings.Join(held, ", "))
	}
	glog.Infof("pm runtime %s: powering off memory", m.name)
	if err := m.platform.PowerOff(); err != nil {
		metrics.IncSequenceError(m.name, "power_off", "sequence")
		return errors.Join(errors.New("power off failed"), err)
	}
	metrics.IncPowerOff(m.name)
	return nil
}
