package cavs

import (
	"k8s.io/utils/clock"

	"github.com/openshift/dsp-pm-runtime/pkg/config"
	"github.com/openshift/dsp-pm-runtime/pkg/pmruntime"
	"github.com/openshift/dsp-pm-runtime/pkg/shim"
)

// Apollolake is cAVS 1.5: SSP, DMIC and DMA clocks are gated through CLKCTL.
// There is no runtime power gating of peripherals, cores or core memory.
func Apollolake(regs shim.Surface, cfg *config.Config, clk clock.Clock) (*Platform, error) {
	p, err := newPlatform("apollolake", regs, cfg, clk)
	if err != nil {
		return nil, err
	}
	t := p.common()
	en, dis := p.clockGating("ssp", func(index uint32) (uint32, uint32) {
		if index < sspBaseCount {
			return shimCLKCTL, clkctlI2SFDCGB(index)
		}
		return shimCLKCTL, clkctlI2SEFDCGB(index - sspBaseCount)
	})
	set(t, pmruntime.SspClock, en, dis)
	en, dis = p.clockGating("dmic", func(uint32) (uint32, uint32) {
		return shimCLKCTL, clkctlDMICFDCGB
	})
	set(t, pmruntime.DmicClock, en, dis)
	en, dis = p.clockGating("dwdma", func(index uint32) (uint32, uint32) {
		return shimCLKCTL, clkctlLPGPDMAFDCGB(index)
	})
	set(t, pmruntime.DmaClock, en, dis)
	p.table = t
	return p, nil
}
