package shim

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	testingclock "k8s.io/utils/clock/testing"
)

func Test_BitHelpers(t *testing.T) {
	s := NewSim()
	assert.Equal(t, uint32(0x5), SetBits32(s, 0x78, 0x5))
	assert.True(t, HasBits32(s, 0x78, 0x4))
	assert.Equal(t, uint32(0x1), ClearBits32(s, 0x78, 0x4))
	assert.True(t, NoBits32(s, 0x78, 0x4))
	assert.False(t, NoBits32(s, 0x78, 0x1))

	assert.Equal(t, uint16(0x11), SetBits16(s, 0x90, 0x11))
	assert.True(t, HasBits16(s, 0x90, 0x10))
	assert.Equal(t, uint16(0x10), ClearBits16(s, 0x90, 0x1))
	assert.True(t, NoBits16(s, 0x90, 0x1))

	writes := s.Writes()
	require.Len(t, writes, 4)
	assert.Equal(t, Access{Off: 0x90, Val: 0x10, Width: 16}, writes[3])
}

func Test_SimLinkLag(t *testing.T) {
	s := NewSim()
	s.Link(0x100, 0x1, 0x104, 8, 2)

	s.Write32(0x100, 0x1)
	assert.Equal(t, uint32(0), s.Read32(0x104))
	assert.Equal(t, uint32(0), s.Read32(0x104))
	assert.Equal(t, uint32(0x100), s.Read32(0x104))
	assert.Equal(t, 3, s.Reads(0x104))

	s.Write32(0x100, 0)
	assert.Equal(t, uint32(0x100), s.Read32(0x104))
	assert.Equal(t, uint32(0x100), s.Read32(0x104))
	assert.Equal(t, uint32(0), s.Read32(0x104))
}

func Test_SimLinkSameRegister(t *testing.T) {
	s := NewSim()
	// SPA at bit 16, CPA at bit 23 of the same register
	s.Link(0x200, 1<<16, 0x200, 7, 0)

	s.Write32(0x200, 1<<16|1<<23)
	assert.Equal(t, uint32(1<<16), s.Peek(0x200), "status bits written by software are ignored")
	assert.Equal(t, uint32(1<<16|1<<23), s.Read32(0x200))
}

func Test_SimStuck(t *testing.T) {
	s := NewSim()
	s.Link(0x100, 0x1, 0x104, 0, -1)
	s.Write32(0x100, 0x1)
	for i := 0; i < 10; i++ {
		assert.Equal(t, uint32(0), s.Read32(0x104))
	}
}

func Test_PollerBounded(t *testing.T) {
	clk := testingclock.NewFakeClock(time.Unix(0, 0))
	p := Poller{Budget: 5, Interval: time.Microsecond, Clock: clk}

	calls := 0
	err := p.Until("never", func() bool { calls++; return false })
	assert.True(t, errors.Is(err, ErrPollTimeout))
	assert.Equal(t, 5, calls)
	assert.False(t, p.Unbounded())

	calls = 0
	err = p.Until("third", func() bool { calls++; return calls == 3 })
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func Test_PollerUnbounded(t *testing.T) {
	p := Poller{}
	assert.True(t, p.Unbounded())
	calls := 0
	err := p.Until("eventually", func() bool { calls++; return calls == 1000 })
	assert.NoError(t, err)
	assert.Equal(t, 1000, calls)
}

func Test_PollerUsesClock(t *testing.T) {
	start := time.Unix(100, 0)
	clk := testingclock.NewFakeClock(start)
	p := Poller{Budget: 4, Interval: 10 * time.Microsecond, Clock: clk}
	_ = p.Until("never", func() bool { return false })
	assert.Equal(t, 40*time.Microsecond, clk.Since(start))
}
