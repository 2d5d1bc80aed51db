package cavs

import (
	"k8s.io/utils/clock"

	"github.com/openshift/dsp-pm-runtime/pkg/config"
	"github.com/openshift/dsp-pm-runtime/pkg/pmruntime"
	"github.com/openshift/dsp-pm-runtime/pkg/shim"
)

// Cannonlake is cAVS 1.8. The DMIC clock is gated in both CLKCTL and
// DMICLCTL, each DMA controller has its own clock control register.
func Cannonlake(regs shim.Surface, cfg *config.Config, clk clock.Clock) (*Platform, error) {
	p, err := newPlatform("cannonlake", regs, cfg, clk)
	if err != nil {
		return nil, err
	}
	t := p.cavs18()
	shimEn, shimDis := p.clockGating("dmic", func(uint32) (uint32, uint32) {
		return shimCLKCTL, clkctlDMICFDCGB
	})
	lctlEn, lctlDis := p.dmicLinkClockGating()
	set(t, pmruntime.DmicClock, both(shimEn, lctlEn), both(shimDis, lctlDis))
	en, dis := p.clockGating("dwdma", func(index uint32) (uint32, uint32) {
		return gpdmaCLKCTL(index), gpdmaLPGPDMAFDCGB
	})
	set(t, pmruntime.DmaClock, en, dis)
	p.table = t
	return p, nil
}

// cavs18 fills the families shared by cAVS 1.8 and later: DMIC power, core
// memory and DSP core power gating.
func (p *Platform) cavs18() pmruntime.Table {
	t := p.common()
	en, dis := p.powerGating("dmic", func(uint32) (uint32, uint32, uint32, uint32) {
		return dmicLCTL, dmicLCTLSPA, dmicLCTL, dmicLCTLCPA
	})
	set(t, pmruntime.DmicPower, en, dis)
	if p.cfg.Memory.CoreStackSize != 0 {
		set(t, pmruntime.CoreMemoryPower, p.enableCoreMemory, p.disableCoreMemory)
	}
	set(t, pmruntime.DspCorePower, p.preventDspGating, p.allowDspGating)
	return t
}

func (p *Platform) dmicLinkClockGating() (pmruntime.Routine, pmruntime.Routine) {
	return p.clockGating("dmic-link", func(uint32) (uint32, uint32) {
		return dmicLCTL, dmicLCTLDCGD
	})
}
