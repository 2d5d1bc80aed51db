package shim

// Surface is a window of memory mapped DSP registers. Offsets are byte
// offsets from the start of the window.
type Surface interface {
	Read32(off uint32) uint32
	Write32(off uint32, val uint32)
	Read16(off uint32) uint16
	Write16(off uint32, val uint16)
}

// SetBits32 sets mask in the register at off and returns the value written.
func SetBits32(s Surface, off, mask uint32) uint32 {
	val := s.Read32(off) | mask
	s.Write32(off, val)
	return val
}

// ClearBits32 clears mask in the register at off and returns the value written.
func ClearBits32(s Surface, off, mask uint32) uint32 {
	val := s.Read32(off) &^ mask
	s.Write32(off, val)
	return val
}

// HasBits32 reports whether every bit of mask is set.
func HasBits32(s Surface, off, mask uint32) bool {
	return s.Read32(off)&mask == mask
}

// NoBits32 reports whether every bit of mask is clear.
func NoBits32(s Surface, off, mask uint32) bool {
	return s.Read32(off)&mask == 0
}

func SetBits16(s Surface, off uint32, mask uint16) uint16 {
	val := s.Read16(off) | mask
	s.Write16(off, val)
	return val
}

func ClearBits16(s Surface, off uint32, mask uint16) uint16 {
	val := s.Read16(off) &^ mask
	s.Write16(off, val)
	return val
}

func HasBits16(s Surface, off uint32, mask uint16) bool {
	return s.Read16(off)&mask == mask
}

func NoBits16(s Surface, off uint32, mask uint16) bool {
	return s.Read16(off)&mask == 0
}
