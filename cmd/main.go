package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang/glog"
	"k8s.io/utils/clock"

	"github.com/openshift/dsp-pm-runtime/addons"
	"github.com/openshift/dsp-pm-runtime/addons/cavs"
	"github.com/openshift/dsp-pm-runtime/pkg/config"
	"github.com/openshift/dsp-pm-runtime/pkg/daemon"
	"github.com/openshift/dsp-pm-runtime/pkg/metrics"
	"github.com/openshift/dsp-pm-runtime/pkg/pmruntime"
	"github.com/openshift/dsp-pm-runtime/pkg/shim"
)

// Git commit of current build set at build time
var GitCommit = "Undefined"

type cliParams struct {
	configPath     string
	platform       string
	metricsBind    string
	readyBind      string
	devMem         bool
	simLag         int
	workers        int
	steps          int
	seed           int64
	powerOffOnExit bool
}

// Parse Command line flags
func (cp *cliParams) flagInit() {
	flag.StringVar(&cp.configPath, "config", "",
		"platform config file, embedded defaults of -platform when empty")
	flag.StringVar(&cp.platform, "platform", config.DefaultPlatform,
		"platform to run when no config file is given")
	flag.StringVar(&cp.metricsBind, "metrics-bind", config.DefaultMetricsBind,
		"address serving /metrics, empty disables it")
	flag.StringVar(&cp.readyBind, "ready-bind", ":8081",
		"address serving /ready, empty disables it")
	flag.BoolVar(&cp.devMem, "devmem", false,
		"map the register window from /dev/mem instead of simulating it")
	flag.IntVar(&cp.simLag, "sim-lag", 2,
		"status reads before the simulated hardware acknowledges a power request")
	flag.IntVar(&cp.workers, "workers", 4,
		"concurrent drivers sharing the domains")
	flag.IntVar(&cp.steps, "steps", config.DefaultWorkloadSteps,
		"operations per driver, 0 runs until signalled")
	flag.Int64Var(&cp.seed, "seed", time.Now().UnixNano(),
		"workload random seed")
	flag.BoolVar(&cp.powerOffOnExit, "power-off-on-exit", false,
		"gate all high power memory before exiting")
	flag.Parse()
	cp.debugPrint()
}

func (cp *cliParams) debugPrint() {
	glog.Infof("config file: %q platform: %s", cp.configPath, cp.platform)
	glog.Infof("metrics bind: %q ready bind: %q", cp.metricsBind, cp.readyBind)
	glog.Infof("devmem: %v sim lag: %d", cp.devMem, cp.simLag)
	glog.Infof("workers: %d steps: %d seed: %d", cp.workers, cp.steps, cp.seed)
	glog.Infof("power off on exit: %v", cp.powerOffOnExit)
}

func loadConfig(cp *cliParams) (*config.Config, error) {
	if cp.configPath != "" {
		return config.Load(cp.configPath)
	}
	cfg, err := config.ForPlatform(cp.platform)
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// registers returns the register window and a function releasing it.
func registers(cp *cliParams, cfg *config.Config) (shim.Surface, func(), error) {
	if cp.devMem {
		if cfg.Window.Base == 0 {
			return nil, nil, fmt.Errorf("%s config has no register window base", cfg.Platform)
		}
		mem, err := shim.OpenDevMem(cfg.Window.Base, cfg.Window.Size)
		if err != nil {
			return nil, nil, err
		}
		return mem, func() {
			if err := mem.Close(); err != nil {
				glog.Errorf("closing register window: %s", err)
			}
		}, nil
	}
	sim := shim.NewSim()
	cavs.LinkStatus(sim, cfg, cp.simLag)
	glog.Infof("simulating %s register window", cfg.Platform)
	return sim, func() {}, nil
}

func main() {
	fmt.Printf("Git commit: %s\n", GitCommit)
	cp := &cliParams{}
	cp.flagInit()
	defer glog.Flush()

	cfg, err := loadConfig(cp)
	if err != nil {
		glog.Errorf("loading config failed: %v", err)
		os.Exit(1)
	}

	regs, closeRegs, err := registers(cp, cfg)
	if err != nil {
		glog.Errorf("register window: %v", err)
		os.Exit(1)
	}
	defer closeRegs()

	platform, err := mapping.NewPlatform(regs, cfg, clock.RealClock{})
	if err != nil {
		glog.Errorf("platform init failed: %v", err)
		return
	}
	m := pmruntime.New(platform, nil)

	metrics.RegisterMetrics()
	tracker := &daemon.ReadyTracker{}
	if cp.metricsBind != "" {
		daemon.StartMetricsServer(cp.metricsBind)
	}
	if cp.readyBind != "" {
		daemon.StartReadyServer(cp.readyBind, tracker)
	}

	d := daemon.New(m, platform, tracker, cp.workers, cp.steps, cp.seed)
	if err = d.Boot(); err != nil {
		glog.Errorf("boot failed: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		sig := <-sigCh
		glog.Info("signal received, shutting down ", sig)
		cancel()
	}()

	if err = d.Run(ctx); err != nil {
		glog.Errorf("workload failed: %v", err)
	}
	if err = d.Shutdown(cp.powerOffOnExit); err != nil {
		glog.Errorf("shutdown: %v", err)
	}
}
