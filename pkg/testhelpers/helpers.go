package testhelpers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"

	"github.com/openshift/dsp-pm-runtime/addons"
	"github.com/openshift/dsp-pm-runtime/addons/cavs"
	"github.com/openshift/dsp-pm-runtime/pkg/config"
	"github.com/openshift/dsp-pm-runtime/pkg/pmruntime"
	"github.com/openshift/dsp-pm-runtime/pkg/shim"
)

// Rig is a platform running on a simulated register window.
type Rig struct {
	Manager  *pmruntime.Manager
	Platform *cavs.Platform
	Sim      *shim.Sim
	Clock    *testingclock.FakeClock
}

// NewRig builds the named platform with its embedded defaults. Status bits
// acknowledge power requests after lag reads.
func NewRig(t testing.TB, platform string, lag int) *Rig {
	t.Helper()
	cfg, err := config.ForPlatform(platform)
	require.NoError(t, err)
	sim := shim.NewSim()
	cavs.LinkStatus(sim, cfg, lag)
	clk := testingclock.NewFakeClock(time.Unix(0, 0))
	p, err := mapping.NewPlatform(sim, cfg, clk)
	require.NoError(t, err)
	return &Rig{
		Manager:  pmruntime.New(p, nil),
		Platform: p,
		Sim:      sim,
		Clock:    clk,
	}
}
