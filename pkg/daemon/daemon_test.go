package daemon_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/dsp-pm-runtime/pkg/daemon"
	"github.com/openshift/dsp-pm-runtime/pkg/metrics"
	"github.com/openshift/dsp-pm-runtime/pkg/pmruntime"
	"github.com/openshift/dsp-pm-runtime/pkg/shim"
	"github.com/openshift/dsp-pm-runtime/pkg/testhelpers"
)

func newDaemon(t *testing.T, workers, steps int) (*daemon.Daemon, *pmruntime.Manager, *daemon.ReadyTracker, *shim.Sim) {
	t.Helper()
	rig := testhelpers.NewRig(t, "tigerlake", 1)
	tracker := &daemon.ReadyTracker{}
	return daemon.New(rig.Manager, rig.Platform, tracker, workers, steps, 7), rig.Manager, tracker, rig.Sim
}

func TestRunReleasesEverything(t *testing.T) {
	d, m, tracker, sim := newDaemon(t, 4, 300)

	ready, msg := tracker.Ready()
	assert.False(t, ready)
	assert.Equal(t, "platform not booted", msg)

	require.NoError(t, d.Boot())
	ready, _ = tracker.Ready()
	assert.True(t, ready)

	require.NoError(t, d.Run(context.Background()))
	for _, c := range pmruntime.Contexts() {
		if c == pmruntime.HostDmaL1Exit {
			continue
		}
		r := m.Platform().Routines()[c]
		for i := uint32(0); i < r.Count; i++ {
			if c == pmruntime.DspCorePower {
				continue
			}
			active, err := m.IsActive(c, r.First+i)
			require.NoError(t, err)
			assert.False(t, active, "%s[%d]", c, r.First+i)
		}
	}
	// boot hold restored after the run
	active, err := m.IsActive(pmruntime.DspCorePower, 0)
	require.NoError(t, err)
	assert.True(t, active)
	assert.Zero(t, sim.Peek(0x71C04), "ssp ports gated")
	assert.Positive(t, d.Latency(pmruntime.HostDmaL1Exit).Total)
	assert.Zero(t, d.Latency(pmruntime.Context(42)).Count)
}

func TestRunStopsOnCancel(t *testing.T) {
	d, _, _, _ := newDaemon(t, 2, 0)
	require.NoError(t, d.Boot())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, d.Run(ctx))
}

func TestShutdownPowersOff(t *testing.T) {
	d, _, tracker, sim := newDaemon(t, 1, 10)
	require.NoError(t, d.Boot())
	before := testutil.ToFloat64(metrics.PowerOffs.WithLabelValues("tigerlake"))

	require.NoError(t, d.Shutdown(true))
	ready, msg := tracker.Ready()
	assert.False(t, ready)
	assert.Equal(t, "shutting down", msg)
	assert.Equal(t, ^uint32(0), sim.Peek(0x71D10))
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.PowerOffs.WithLabelValues("tigerlake")))
}

func TestReadyHandler(t *testing.T) {
	tracker := &daemon.ReadyTracker{}
	srv := httptest.NewServer(daemon.ReadyHandler(tracker))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
