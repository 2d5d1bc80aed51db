package cavs

import (
	"github.com/openshift/dsp-pm-runtime/pkg/config"
	"github.com/openshift/dsp-pm-runtime/pkg/shim"
)

// LinkStatus wires the status registers of a simulated register window to
// their control bits, so power requests are acknowledged after lag reads.
func LinkStatus(s *shim.Sim, cfg *config.Config, lag int) {
	var ssps, cores uint32
	for i := uint32(0); i < cfg.SSPs; i++ {
		ssps |= i2slctlSPA(i)
	}
	s.Link(i2sLCTL, ssps, i2sLCTL, 7, lag)
	s.Link(dmicLCTL, dmicLCTLSPA, dmicLCTL, 8, lag)
	for i := uint32(0); i < cfg.Cores; i++ {
		cores |= uint32(pwrctlTCPDSPPG(i))
	}
	s.Link(shimPWRCTL, cores, shimPWRSTS, 0, lag)
	for seg := uint32(0); seg < cfg.Memory.Segments(); seg++ {
		s.Link(hspgctl(seg), ^uint32(0), hspgists(seg), 0, lag)
	}
}
