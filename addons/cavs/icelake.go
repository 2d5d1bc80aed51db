package cavs

import (
	"k8s.io/utils/clock"

	"github.com/openshift/dsp-pm-runtime/pkg/config"
	"github.com/openshift/dsp-pm-runtime/pkg/pmruntime"
	"github.com/openshift/dsp-pm-runtime/pkg/shim"
)

// Icelake is cAVS 2.0. SSP and DMA clocks are counted but have nothing to
// program, and gating the master core keeps the control port ungated.
func Icelake(regs shim.Surface, cfg *config.Config, clk clock.Clock) (*Platform, error) {
	p, err := newPlatform("icelake", regs, cfg, clk)
	if err != nil {
		return nil, err
	}
	p.keepCtlPortOnGate = true
	t := p.cavs18()
	en, dis := p.dmicLinkClockGating()
	set(t, pmruntime.DmicClock, en, dis)
	p.table = t
	return p, nil
}
