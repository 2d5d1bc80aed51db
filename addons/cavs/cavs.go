// Package cavs holds the hardware sequencing routines of the Intel cAVS
// audio DSP generations. Each generation builds its own routine table; the
// layouts differ in which registers and bits gate the same logical domain.
package cavs

import (
	"fmt"

	"github.com/golang/glog"
	"k8s.io/utils/clock"

	"github.com/openshift/dsp-pm-runtime/pkg/config"
	"github.com/openshift/dsp-pm-runtime/pkg/pmruntime"
	"github.com/openshift/dsp-pm-runtime/pkg/shim"
)

// New builds a platform on top of a register window.
type New func(regs shim.Surface, cfg *config.Config, clk clock.Clock) (*Platform, error)

// Platform implements pmruntime.Platform for one cAVS generation.
type Platform struct {
	name  string
	cfg   *config.Config
	regs  shim.Surface
	poll  shim.Poller
	clock clock.Clock
	table pmruntime.Table

	// icelake keeps the control port ungated when the master core gates
	keepCtlPortOnGate bool
}

func newPlatform(name string, regs shim.Surface, cfg *config.Config, clk clock.Clock) (*Platform, error) {
	if cfg.Platform != name {
		return nil, fmt.Errorf("platform %s initialized with %s config", name, cfg.Platform)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if clk == nil {
		clk = clock.RealClock{}
	}
	p := &Platform{
		name:  name,
		cfg:   cfg,
		regs:  regs,
		clock: clk,
		poll: shim.Poller{
			Budget:   cfg.Poll.Budget,
			Interval: cfg.Poll.Interval.Duration,
			Clock:    clk,
		},
	}
	if p.poll.Unbounded() {
		glog.Infof("%s: hardware status polls are unbounded", name)
	}
	return p, nil
}

// Name ...
func (p *Platform) Name() string { return p.name }

// Routines ...
func (p *Platform) Routines() pmruntime.Table { return p.table }

// Config returns the configuration the platform was built with.
func (p *Platform) Config() *config.Config { return p.cfg }

// common builds the families every generation counts the same way. Routines
// are filled in by the generation.
func (p *Platform) common() pmruntime.Table {
	cfg := p.cfg
	t := pmruntime.Table{
		pmruntime.DspCorePower: {Count: cfg.Cores},
		pmruntime.SspClock:     {Count: cfg.SSPs},
		pmruntime.SspPower:     {Count: cfg.SSPs},
		pmruntime.DmicClock:    {Count: cfg.DMICs},
		pmruntime.DmicPower:    {Count: cfg.DMICs},
		pmruntime.DmaClock:     {Count: cfg.DMAs},
		pmruntime.HostDmaL1Exit: {
			Count:   1,
			Disable: p.forceHostDmaL1Exit,
		},
	}
	if cfg.Cores > 1 {
		// memory of the secondary cores, the master has no private region
		t[pmruntime.CoreMemoryPower] = pmruntime.Routines{First: 1, Count: cfg.Cores - 1}
	}
	return t
}

// set attaches routines to a family already present in t.
func set(t pmruntime.Table, c pmruntime.Context, enable, disable pmruntime.Routine) {
	r, ok := t[c]
	if !ok {
		return
	}
	r.Enable = enable
	r.Disable = disable
	t[c] = r
}

// clockGating returns the routines for a clock gated by one bit. Enable sets
// the force dynamic clock gating disable bit so the clock keeps running;
// Disable clears it.
func (p *Platform) clockGating(name string, reg func(index uint32) (off, mask uint32)) (pmruntime.Routine, pmruntime.Routine) {
	enable := func(index uint32) error {
		off, mask := reg(index)
		val := shim.SetBits32(p.regs, off, mask)
		glog.V(2).Infof("dis-%s-clk-gating index %d reg %#x %08x", name, index, off, val)
		return nil
	}
	disable := func(index uint32) error {
		off, mask := reg(index)
		val := shim.ClearBits32(p.regs, off, mask)
		glog.V(2).Infof("en-%s-clk-gating index %d reg %#x %08x", name, index, off, val)
		return nil
	}
	return enable, disable
}

// powerGating returns the routines for a domain with a power request bit at
// ctl and a power status bit at sts. Each edge waits for the status to
// follow the request.
func (p *Platform) powerGating(name string, reg func(index uint32) (ctl, spa, sts, cpa uint32)) (pmruntime.Routine, pmruntime.Routine) {
	enable := func(index uint32) error {
		ctl, spa, sts, cpa := reg(index)
		glog.V(2).Infof("en_%s_power index %d", name, index)
		shim.SetBits32(p.regs, ctl, spa)
		err := p.poll.Until(fmt.Sprintf("%s %d powered on", name, index), func() bool {
			return shim.HasBits32(p.regs, sts, cpa)
		})
		if glog.V(2) {
			// status is read back only when tracing
			glog.Infof("en_%s_power reg %#x %08x", name, sts, p.regs.Read32(sts))
		}
		return err
	}
	disable := func(index uint32) error {
		ctl, spa, sts, cpa := reg(index)
		glog.V(2).Infof("dis_%s_power index %d", name, index)
		shim.ClearBits32(p.regs, ctl, spa)
		err := p.poll.Until(fmt.Sprintf("%s %d powered off", name, index), func() bool {
			return shim.NoBits32(p.regs, sts, cpa)
		})
		if glog.V(2) {
			// status is read back only when tracing
			glog.Infof("dis_%s_power reg %#x %08x", name, sts, p.regs.Read32(sts))
		}
		return err
	}
	return enable, disable
}

// both runs a then b.
func both(a, b pmruntime.Routine) pmruntime.Routine {
	return func(index uint32) error {
		if err := a(index); err != nil {
			return err
		}
		return b(index)
	}
}

// forceHostDmaL1Exit nudges the host DMA link out of L1. An exit already in
// progress is left alone.
func (p *Platform) forceHostDmaL1Exit(uint32) error {
	if shim.HasBits32(p.regs, shimSVCFG, svcfgForceL1Exit) {
		glog.V(2).Info("host dma l1 exit already forced")
		return nil
	}
	shim.SetBits32(p.regs, shimSVCFG, svcfgForceL1Exit)
	p.clock.Sleep(p.cfg.Settle())
	shim.ClearBits32(p.regs, shimSVCFG, svcfgForceL1Exit)
	glog.V(2).Infof("host dma l1 exit forced, settle %s", p.cfg.Settle())
	return nil
}
