package cavs

// Shim and power control registers, as offsets into the DSP register window.
const (
	shimCLKCTL = 0x78
	shimPWRCTL = 0x90 // 16 bit
	shimPWRSTS = 0x92 // 16 bit
	shimLPSCTL = 0x94
	shimSVCFG  = 0xF4

	dmicLCTL = 0x10004
	i2sLCTL  = 0x71C04

	hspgctl0  = 0x71D10
	hspgists0 = 0x71D18
)

// CLKCTL force dynamic clock gating disable bits, set = clock kept running.
const (
	sspBaseCount    = 4
	clkctlDMICFDCGB = 1 << 24
)

func clkctlI2SFDCGB(x uint32) uint32      { return 1 << (20 + x) }
func clkctlI2SEFDCGB(x uint32) uint32     { return 1 << (18 + x) }
func clkctlLPGPDMAFDCGB(x uint32) uint32  { return 1 << (26 + x) }
func gpdmaCLKCTL(x uint32) uint32         { return 0x6500 + x*0x100 + 0x4 }
func hspgctl(seg uint32) uint32           { return hspgctl0 + 0x10*seg }
func hspgists(seg uint32) uint32          { return hspgists0 + 0x10*seg }
func pwrctlTCPDSPPG(core uint32) uint16   { return 1 << core }
func pwrstsDSPPowered(core uint32) uint16 { return 1 << core }
func i2slctlSPA(x uint32) uint32          { return 1 << (16 + x) }
func i2slctlCPA(x uint32) uint32          { return 1 << (23 + x) }

const (
	gpdmaLPGPDMAFDCGB = 1 << 0

	pwrctlTCPCTLPG = 1 << 4

	lpsctlBID     = 1 << 7
	lpsctlFDSPRUN = 1 << 9
	lpsctlBATTR0  = 1 << 12

	svcfgForceL1Exit = 1 << 1

	dmicLCTLSPA  = 1 << 0
	dmicLCTLCPA  = 1 << 8
	dmicLCTLDCGD = 1 << 30
)
