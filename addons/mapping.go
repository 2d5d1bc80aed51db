package mapping

import (
	"fmt"

	"k8s.io/utils/clock"

	"github.com/openshift/dsp-pm-runtime/addons/cavs"
	"github.com/openshift/dsp-pm-runtime/pkg/config"
	"github.com/openshift/dsp-pm-runtime/pkg/shim"
)

var PlatformMapping = map[string]cavs.New{
	"apollolake": cavs.Apollolake,
	"cannonlake": cavs.Cannonlake,
	"icelake":    cavs.Icelake,
	"tigerlake":  cavs.Tigerlake,
}

// NewPlatform builds the platform named by cfg.
func NewPlatform(regs shim.Surface, cfg *config.Config, clk clock.Clock) (*cavs.Platform, error) {
	newFn, ok := PlatformMapping[cfg.Platform]
	if !ok {
		return nil, fmt.Errorf("unknown platform %q", cfg.Platform)
	}
	return newFn(regs, cfg, clk)
}
