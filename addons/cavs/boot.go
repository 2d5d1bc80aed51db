package cavs

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/openshift/dsp-pm-runtime/pkg/pmruntime"
)

// Boot puts a freshly initialized runtime in the state drivers expect: the
// memory of every secondary core is gated, and the DSP is held in D0 until
// the host allows power gating with Enable.
func Boot(m *pmruntime.Manager, p *Platform) error {
	cfg := p.cfg
	for core := uint32(0); core < cfg.Cores; core++ {
		if core == cfg.MasterCore {
			continue
		}
		if err := m.Quiesce(pmruntime.CoreMemoryPower, core); err != nil {
			return fmt.Errorf("gating memory of core %d: %w", core, err)
		}
	}
	if err := m.Disable(pmruntime.DspCorePower, cfg.MasterCore); err != nil {
		return err
	}
	glog.Infof("%s: boot done, dsp held in D0", p.name)
	return nil
}

// Idle is the wait for interrupt flavour the idle loop should use.
type Idle int

const (
	// IdleWaiti is a plain wait for interrupt, the core stays in D0
	IdleWaiti Idle = iota
	// IdleLowPower lets the low power sequencer gate the DSP while waiting
	IdleLowPower
)

func (i Idle) String() string {
	if i == IdleWaiti {
		return "waiti"
	}
	return "lps"
}

// IdleMode picks the idle flavour for the master core.
func IdleMode(m *pmruntime.Manager, master uint32) (Idle, error) {
	active, err := m.IsActive(pmruntime.DspCorePower, master)
	if err != nil {
		return IdleWaiti, err
	}
	if active {
		return IdleWaiti, nil
	}
	return IdleLowPower, nil
}
