package daemon

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/golang/glog"
	"golang.org/x/sync/errgroup"

	"github.com/openshift/dsp-pm-runtime/addons/cavs"
	"github.com/openshift/dsp-pm-runtime/pkg/pmruntime"
	"github.com/openshift/dsp-pm-runtime/pkg/utils"
)

const latencySamples = 256

// target is one (context, index) pair a worker can hold.
type target struct {
	c     pmruntime.Context
	index uint32
}

func (t target) String() string {
	return fmt.Sprintf("%s[%d]", t.c, t.index)
}

// Daemon drives the runtime of one platform the way a set of independent
// drivers would: every worker acquires and releases domains in its own order,
// sharing the counts with the others.
type Daemon struct {
	m        *pmruntime.Manager
	platform *cavs.Platform
	tracker  *ReadyTracker

	workers int
	steps   int
	seed    int64
	targets []target

	// acquire and release call durations, per context
	latency map[pmruntime.Context]*utils.Window
}

// New returns a daemon for p. steps is the number of operations each worker
// runs, 0 runs until the context is cancelled.
func New(m *pmruntime.Manager, p *cavs.Platform, tracker *ReadyTracker, workers, steps int, seed int64) *Daemon {
	if workers < 1 {
		workers = 1
	}
	d := &Daemon{
		m:        m,
		platform: p,
		tracker:  tracker,
		workers:  workers,
		steps:    steps,
		seed:     seed,
		latency:  make(map[pmruntime.Context]*utils.Window),
	}
	for c, r := range p.Routines() {
		d.latency[c] = utils.NewWindow(latencySamples)
		if c == pmruntime.HostDmaL1Exit {
			continue
		}
		for i := uint32(0); i < r.Count; i++ {
			d.targets = append(d.targets, target{c: c, index: r.First + i})
		}
	}
	return d
}

// Boot brings the platform to its initial state and marks the daemon ready.
func (d *Daemon) Boot() error {
	if err := cavs.Boot(d.m, d.platform); err != nil {
		return err
	}
	if d.tracker != nil {
		d.tracker.setBooted()
	}
	return nil
}

// Run starts the workers and waits for them. The host allows DSP power
// gating for the duration of the run.
func (d *Daemon) Run(ctx context.Context) error {
	master := d.platform.Config().MasterCore
	if err := d.m.Enable(pmruntime.DspCorePower, master); err != nil {
		return err
	}
	d.logIdle(master)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < d.workers; w++ {
		rng := rand.New(rand.NewSource(d.seed + int64(w)))
		id := w
		g.Go(func() error {
			return d.work(ctx, id, rng)
		})
	}
	err := g.Wait()
	for _, c := range pmruntime.Contexts() {
		if s := d.Latency(c); s.Count > 0 {
			glog.Infof("%s: %s latency %s", d.platform.Name(), c, s)
		}
	}

	if dErr := d.m.Disable(pmruntime.DspCorePower, master); dErr != nil && err == nil {
		err = dErr
	}
	d.logIdle(master)
	return err
}

// Latency summarizes the recent acquire and release durations of c.
func (d *Daemon) Latency(c pmruntime.Context) utils.Summary {
	w, ok := d.latency[c]
	if !ok {
		return utils.Summary{}
	}
	return w.Summary()
}

// timed runs op on (c, index) and records how long it took.
func (d *Daemon) timed(c pmruntime.Context, index uint32, op func(pmruntime.Context, uint32) error) error {
	start := time.Now()
	err := op(c, index)
	if w, ok := d.latency[c]; ok {
		w.Insert(time.Since(start))
	}
	return err
}

func (d *Daemon) logIdle(master uint32) {
	idle, err := cavs.IdleMode(d.m, master)
	if err != nil {
		glog.Errorf("idle mode: %s", err)
		return
	}
	glog.Infof("%s: master core idles with %s", d.platform.Name(), idle)
}

// work runs one worker. Domains still held when the worker stops are
// released before it returns.
func (d *Daemon) work(ctx context.Context, id int, rng *rand.Rand) (err error) {
	var held []target
	defer func() {
		for i := len(held) - 1; i >= 0; i-- {
			if rErr := d.timed(held[i].c, held[i].index, d.m.Release); rErr != nil && err == nil {
				err = fmt.Errorf("worker %d: %w", id, rErr)
			}
		}
		glog.V(2).Infof("worker %d done", id)
	}()
	if len(d.targets) == 0 {
		return nil
	}

	for step := 0; d.steps == 0 || step < d.steps; step++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		switch n := rng.Intn(10); {
		case n == 0:
			// a host DMA transfer finished
			if err = d.timed(pmruntime.HostDmaL1Exit, 0, d.m.Release); err != nil {
				return fmt.Errorf("worker %d: %w", id, err)
			}
		case n < 5 || len(held) == 0:
			t := d.targets[rng.Intn(len(d.targets))]
			if err = d.timed(t.c, t.index, d.m.Acquire); err != nil {
				return fmt.Errorf("worker %d: acquire %s: %w", id, t, err)
			}
			held = append(held, t)
		default:
			i := rng.Intn(len(held))
			t := held[i]
			held = append(held[:i], held[i+1:]...)
			if err = d.timed(t.c, t.index, d.m.Release); err != nil {
				return fmt.Errorf("worker %d: release %s: %w", id, t, err)
			}
		}
	}
	return nil
}

// Shutdown powers the memory off when powerOff is set. The workers must have
// stopped.
func (d *Daemon) Shutdown(powerOff bool) error {
	if d.tracker != nil {
		d.tracker.setStopped()
	}
	if !powerOff {
		return nil
	}
	return d.m.PowerOff()
}
