package cavs

import (
	"k8s.io/utils/clock"

	"github.com/openshift/dsp-pm-runtime/pkg/config"
	"github.com/openshift/dsp-pm-runtime/pkg/pmruntime"
	"github.com/openshift/dsp-pm-runtime/pkg/shim"
)

// Tigerlake is cAVS 2.5, the first generation that power gates SSP ports
// through I2SLCTL.
func Tigerlake(regs shim.Surface, cfg *config.Config, clk clock.Clock) (*Platform, error) {
	p, err := newPlatform("tigerlake", regs, cfg, clk)
	if err != nil {
		return nil, err
	}
	t := p.cavs18()
	en, dis := p.dmicLinkClockGating()
	set(t, pmruntime.DmicClock, en, dis)
	en, dis = p.powerGating("ssp", func(index uint32) (uint32, uint32, uint32, uint32) {
		return i2sLCTL, i2slctlSPA(index), i2sLCTL, i2slctlCPA(index)
	})
	set(t, pmruntime.SspPower, en, dis)
	p.table = t
	return p, nil
}
