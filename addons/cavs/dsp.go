package cavs

import (
	"fmt"

	"github.com/golang/glog"

	"github.com/openshift/dsp-pm-runtime/pkg/shim"
)

// preventDspGating keeps a core out of power gating. For the master core the
// control port is kept ungated as well and the low power sequencer is told the
// DSP is running. The master path does not wait for PWRSTS.
func (p *Platform) preventDspGating(index uint32) error {
	if index == p.cfg.MasterCore {
		lps := p.regs.Read32(shimLPSCTL)
		pwr := shim.SetBits16(p.regs, shimPWRCTL, pwrctlTCPDSPPG(index)|pwrctlTCPCTLPG)
		lps &^= lpsctlBID | lpsctlBATTR0
		lps |= lpsctlFDSPRUN
		p.regs.Write32(shimLPSCTL, lps)
		glog.V(2).Infof("dis-dsp-pg master %d PWRCTL %04x LPSCTL %08x", index, pwr, lps)
		return nil
	}

	pwr := shim.SetBits16(p.regs, shimPWRCTL, pwrctlTCPDSPPG(index))
	glog.V(2).Infof("dis-dsp-pg core %d PWRCTL %04x", index, pwr)
	return p.poll.Until(fmt.Sprintf("core %d powered", index), func() bool {
		return shim.HasBits16(p.regs, shimPWRSTS, pwrstsDSPPowered(index))
	})
}

// allowDspGating lets a core power gate. The other cores' bits are preserved.
func (p *Platform) allowDspGating(index uint32) error {
	if index == p.cfg.MasterCore {
		lps := p.regs.Read32(shimLPSCTL)
		var pwr uint16
		if p.keepCtlPortOnGate {
			shim.ClearBits16(p.regs, shimPWRCTL, pwrctlTCPDSPPG(index))
			pwr = shim.SetBits16(p.regs, shimPWRCTL, pwrctlTCPCTLPG)
		} else {
			pwr = shim.ClearBits16(p.regs, shimPWRCTL, pwrctlTCPDSPPG(index)|pwrctlTCPCTLPG)
		}
		lps |= lpsctlBID | lpsctlBATTR0
		lps &^= lpsctlFDSPRUN
		p.regs.Write32(shimLPSCTL, lps)
		glog.V(2).Infof("en-dsp-pg master %d PWRCTL %04x LPSCTL %08x", index, pwr, lps)
		return nil
	}

	pwr := shim.ClearBits16(p.regs, shimPWRCTL, pwrctlTCPDSPPG(index))
	glog.V(2).Infof("en-dsp-pg core %d PWRCTL %04x", index, pwr)
	return p.poll.Until(fmt.Sprintf("core %d gated", index), func() bool {
		return shim.NoBits16(p.regs, shimPWRSTS, pwrstsDSPPowered(index))
	})
}
