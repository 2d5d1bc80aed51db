//go:build linux

package shim

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/golang/glog"
	"golang.org/x/sys/unix"
)

const devMemPath = "/dev/mem"

// DevMem is a register window mapped from /dev/mem.
type DevMem struct {
	file *os.File
	mem  []byte
}

// OpenDevMem maps size bytes of physical memory starting at base.
func OpenDevMem(base int64, size int) (*DevMem, error) {
	f, err := os.OpenFile(devMemPath, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	mem, err := unix.Mmap(int(f.Fd()), base, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap %s at %#x: %w", devMemPath, base, err)
	}
	glog.Infof("mapped %d bytes of register space at %#x", size, base)
	return &DevMem{file: f, mem: mem}, nil
}

// Close unmaps the window.
func (d *DevMem) Close() error {
	if d.mem != nil {
		if err := unix.Munmap(d.mem); err != nil {
			glog.Errorf("munmap failed: %s", err)
		}
		d.mem = nil
	}
	return d.file.Close()
}

func (d *DevMem) ptr(off uint32, width uint32) unsafe.Pointer {
	if off%width != 0 || int(off+width) > len(d.mem) {
		panic(fmt.Sprintf("register access %#x/%d outside mapped window", off, width))
	}
	return unsafe.Pointer(&d.mem[off])
}

func (d *DevMem) Read32(off uint32) uint32 {
	return atomic.LoadUint32((*uint32)(d.ptr(off, 4)))
}

func (d *DevMem) Write32(off uint32, val uint32) {
	atomic.StoreUint32((*uint32)(d.ptr(off, 4)), val)
}

// 16-bit registers are accessed at their own width. PWRCTL and PWRSTS share
// one 32-bit word, so widening to a 32-bit read-modify-write would store a
// stale PWRSTS along with every PWRCTL update. sync/atomic has no 16-bit
// operations; an aligned *uint16 load or store is a single bus access, and
// going through a method call keeps the compiler from merging or hoisting it.
func (d *DevMem) Read16(off uint32) uint16 {
	return *(*uint16)(d.ptr(off, 2))
}

func (d *DevMem) Write16(off uint32, val uint16) {
	*(*uint16)(d.ptr(off, 2)) = val
}
