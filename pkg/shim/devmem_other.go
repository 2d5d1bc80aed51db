//go:build !linux

package shim

import "errors"

// DevMem is only available on linux.
type DevMem struct{}

func OpenDevMem(int64, int) (*DevMem, error) {
	return nil, errors.New("/dev/mem register windows require linux")
}

func (d *DevMem) Close() error           { return nil }
func (d *DevMem) Read32(uint32) uint32   { return 0 }
func (d *DevMem) Write32(uint32, uint32) {}
func (d *DevMem) Read16(uint32) uint16   { return 0 }
func (d *DevMem) Write16(uint32, uint16) {}
