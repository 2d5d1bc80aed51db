package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openshift/dsp-pm-runtime/pkg/config"
	"github.com/openshift/dsp-pm-runtime/pkg/shim"
)

func Test_NewPlatform(t *testing.T) {
	for name := range PlatformMapping {
		cfg, err := config.ForPlatform(name)
		require.NoError(t, err, name)
		p, err := NewPlatform(shim.NewSim(), cfg, nil)
		require.NoError(t, err, name)
		assert.Equal(t, name, p.Name())
		assert.NotEmpty(t, p.Routines())
	}

	cfg, err := config.ForPlatform("icelake")
	require.NoError(t, err)
	cfg.Platform = "dummy"
	_, err = NewPlatform(shim.NewSim(), cfg, nil)
	assert.Error(t, err)
}

func Test_MismatchedConfig(t *testing.T) {
	cfg, err := config.ForPlatform("icelake")
	require.NoError(t, err)
	_, err = PlatformMapping["tigerlake"](shim.NewSim(), cfg, nil)
	assert.ErrorContains(t, err, "tigerlake initialized with icelake config")
}
