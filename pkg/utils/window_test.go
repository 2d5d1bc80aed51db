package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowSummary(t *testing.T) {
	w := NewWindow(3)
	assert.Equal(t, Summary{}, w.Summary())

	w.Insert(10 * time.Millisecond)
	s := w.Summary()
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 10*time.Millisecond, s.Mean)
	assert.Zero(t, s.StdDev)

	for _, ms := range []int{20, 30, 40} {
		w.Insert(time.Duration(ms) * time.Millisecond)
	}
	s = w.Summary()
	assert.Equal(t, 3, s.Count, "oldest sample overwritten")
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 30*time.Millisecond, s.Mean)
	assert.Equal(t, 30*time.Millisecond, s.Median)
	assert.Equal(t, 40*time.Millisecond, s.Max)
	assert.Equal(t, 10*time.Millisecond, s.StdDev)
	assert.Contains(t, s.String(), "n=3/4")
}
