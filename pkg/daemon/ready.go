package daemon

import (
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/golang/glog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	utilwait "k8s.io/apimachinery/pkg/util/wait"
)

// ReadyTracker reports whether the platform finished booting.
type ReadyTracker struct {
	booted  atomic.Bool
	stopped atomic.Bool
}

func (rt *ReadyTracker) setBooted()  { rt.booted.Store(true) }
func (rt *ReadyTracker) setStopped() { rt.stopped.Store(true) }

// Ready returns false and a reason while the daemon cannot serve.
func (rt *ReadyTracker) Ready() (bool, string) {
	if rt.stopped.Load() {
		return false, "shutting down"
	}
	if !rt.booted.Load() {
		return false, "platform not booted"
	}
	return true, ""
}

type readyHandler struct {
	tracker *ReadyTracker
}

func (h readyHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	if ready, msg := h.tracker.Ready(); !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(msg))
		return
	}
	w.WriteHeader(http.StatusOK)
}

// ReadyHandler answers 200 once the platform booted, 503 otherwise.
func ReadyHandler(tracker *ReadyTracker) http.Handler {
	return readyHandler{tracker: tracker}
}

// StartReadyServer serves /ready in the background.
func StartReadyServer(bindAddress string, tracker *ReadyTracker) {
	glog.Info("Starting Ready Server")
	mux := http.NewServeMux()
	mux.Handle("/ready", ReadyHandler(tracker))
	serve(bindAddress, mux, "ready")
}

// StartMetricsServer serves the default prometheus registry on /metrics.
func StartMetricsServer(bindAddress string) {
	glog.Info("Starting Metrics Server")
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	serve(bindAddress, mux, "metrics")
}

func serve(bindAddress string, mux *http.ServeMux, what string) {
	go utilwait.Until(func() {
		err := http.ListenAndServe(bindAddress, mux)
		if err != nil {
			utilruntime.HandleError(fmt.Errorf("starting %s server failed: %v", what, err))
		}
	}, 5*time.Second, utilwait.NeverStop)
}
