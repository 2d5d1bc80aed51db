package utils

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Window keeps the last size durations of an operation, oldest overwritten
// first. It is safe for concurrent use.
type Window struct {
	mu        sync.Mutex
	data      []float64
	nextIndex int
	full      bool
	total     int
}

// NewWindow creates a window holding up to size samples.
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{data: make([]float64, size)}
}

// Insert records one duration.
func (w *Window) Insert(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.data[w.nextIndex] = float64(d)
	w.nextIndex = (w.nextIndex + 1) % len(w.data)
	if !w.full && w.nextIndex == 0 {
		w.full = true
	}
	w.total++
}

func (w *Window) samples() []float64 {
	if w.full {
		return w.data
	}
	return w.data[:w.nextIndex]
}

// Summary describes the samples currently in a window.
type Summary struct {
	Count  int
	Total  int
	Mean   time.Duration
	Median time.Duration
	Max    time.Duration
	StdDev time.Duration
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d/%d mean=%s median=%s max=%s stddev=%s",
		s.Count, s.Total, s.Mean, s.Median, s.Max, s.StdDev)
}

// Summary returns the statistics of the samples in the window. An empty
// window returns a zero Summary.
func (w *Window) Summary() Summary {
	w.mu.Lock()
	defer w.mu.Unlock()
	data := w.samples()
	if len(data) == 0 {
		return Summary{}
	}
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)

	s := Summary{
		Count:  len(data),
		Total:  w.total,
		Mean:   time.Duration(stat.Mean(data, nil)),
		Median: time.Duration(stat.Quantile(0.5, stat.Empirical, sorted, nil)),
		Max:    time.Duration(sorted[len(sorted)-1]),
	}
	if len(data) > 1 {
		s.StdDev = time.Duration(stat.StdDev(data, nil))
	}
	return s
}
