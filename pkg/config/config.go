package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/golang/glog"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/yaml"
)

const (
	DefaultPlatform      = "tigerlake"
	DefaultMetricsBind   = ":9091"
	DefaultWorkloadSteps = 1000
)

// Config describes one DSP platform instance.
type Config struct {
	// Platform selects the silicon generation and its register layout
	Platform   string `json:"platform"`
	Cores      uint32 `json:"cores"`
	MasterCore uint32 `json:"masterCore"`
	SSPs       uint32 `json:"ssps"`
	DMICs      uint32 `json:"dmics"`
	DMAs       uint32 `json:"dmas"`

	// ForceL1ExitSettle is how long the host DMA force L1 exit bit is held
	ForceL1ExitSettle metav1.Duration `json:"forceL1ExitSettle"`

	Poll   PollConfig   `json:"poll"`
	Memory MemoryConfig `json:"memory"`
	Window WindowConfig `json:"window"`
}

// PollConfig bounds hardware status polls. A zero budget polls forever, as
// the firmware does.
type PollConfig struct {
	Budget   int             `json:"budget"`
	Interval metav1.Duration `json:"interval"`
}

// MemoryConfig is the HPSRAM bank layout and the per-core private region.
// Core n (n >= 1) owns [CoreStackBase + (n-1)*CoreStackSize, +CoreStackSize).
type MemoryConfig struct {
	HPSRAMBase      uint32 `json:"hpsramBase"`
	BankSize        uint32 `json:"bankSize"`
	Banks           uint32 `json:"banks"`
	BanksPerSegment uint32 `json:"banksPerSegment"`
	CoreStackBase   uint32 `json:"coreStackBase,omitempty"`
	CoreStackSize   uint32 `json:"coreStackSize,omitempty"`
}

// Segments returns the number of HPSRAM power gating segments.
func (m MemoryConfig) Segments() uint32 {
	if m.BanksPerSegment == 0 {
		return 0
	}
	return (m.Banks + m.BanksPerSegment - 1) / m.BanksPerSegment
}

// WindowConfig is the physical register window used with /dev/mem.
type WindowConfig struct {
	Base int64 `json:"base,omitempty"`
	Size int   `json:"size"`
}

// Settle returns the force L1 exit settle delay.
func (c *Config) Settle() time.Duration {
	return c.ForceL1ExitSettle.Duration
}

// Validate checks the values the sequencing code relies on.
func (c *Config) Validate() error {
	var errs []error
	if c.Cores == 0 {
		errs = append(errs, errors.New("cores must be > 0"))
	}
	if c.Cores > 4 {
		errs = append(errs, fmt.Errorf("%d cores exceed the 4 core power gating bits", c.Cores))
	}
	if c.MasterCore >= c.Cores {
		errs = append(errs, fmt.Errorf("master core %d out of range for %d cores", c.MasterCore, c.Cores))
	}
	if c.SSPs > 6 {
		errs = append(errs, fmt.Errorf("%d ssps exceed the 6 ssp ports", c.SSPs))
	}
	if c.DMAs > 4 {
		errs = append(errs, fmt.Errorf("%d dma controllers exceed the 4 gating bits", c.DMAs))
	}
	if c.Poll.Budget < 0 {
		errs = append(errs, errors.New("poll budget must be >= 0"))
	}
	m := c.Memory
	if m.BankSize == 0 || m.BanksPerSegment == 0 || m.BanksPerSegment > 32 {
		errs = append(errs, errors.New("memory bank size and banks per segment (1-32) are required"))
	}
	if m.CoreStackSize != 0 && c.Cores > 1 && m.BankSize != 0 {
		end := uint64(m.CoreStackBase) + uint64(c.Cores-1)*uint64(m.CoreStackSize)
		if m.CoreStackBase < m.HPSRAMBase || end > uint64(m.HPSRAMBase)+uint64(m.Banks)*uint64(m.BankSize) {
			errs = append(errs, fmt.Errorf("core stacks [%#x, %#x) outside hpsram", m.CoreStackBase, end))
		}
	}
	return errors.Join(errs...)
}

// Load reads a platform description. Values missing from the file are taken
// from the embedded defaults of the platform it names.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var head struct {
		Platform string `json:"platform"`
	}
	if err = yaml.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if head.Platform == "" {
		head.Platform = DefaultPlatform
		glog.Infof("%s does not name a platform, assuming %s", path, DefaultPlatform)
	}
	cfg, err := ForPlatform(head.Platform)
	if err != nil {
		return nil, err
	}
	if err = yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err = cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	glog.Infof("loaded %s platform config from %s", cfg.Platform, path)
	return cfg, nil
}

// ForPlatform returns the embedded defaults of a platform.
func ForPlatform(name string) (*Config, error) {
	data, ok := embeddedDefaults[name]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("no defaults for platform %q", name)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("embedded:%s: %w", name, err)
	}
	return cfg, nil
}
