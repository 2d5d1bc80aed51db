package cavs

import (
	"errors"
	"fmt"

	"github.com/golang/glog"

	"github.com/openshift/dsp-pm-runtime/pkg/shim"
)

// bankMasks returns, per HPSRAM segment, the banks covering [start, start+size).
func (p *Platform) bankMasks(start, size uint32) ([]uint32, error) {
	m := p.cfg.Memory
	if size == 0 {
		return nil, errors.New("empty memory range")
	}
	end := uint64(start) + uint64(size)
	top := uint64(m.HPSRAMBase) + uint64(m.Banks)*uint64(m.BankSize)
	if start < m.HPSRAMBase || end > top {
		return nil, fmt.Errorf("memory range [%#x, %#x) outside hpsram", start, end)
	}
	masks := make([]uint32, m.Segments())
	first := (start - m.HPSRAMBase) / m.BankSize
	last := uint32((end - uint64(m.HPSRAMBase) - 1) / uint64(m.BankSize))
	for bank := first; bank <= last; bank++ {
		masks[bank/m.BanksPerSegment] |= 1 << (bank % m.BanksPerSegment)
	}
	return masks, nil
}

// allBankMasks covers every HPSRAM bank.
func (p *Platform) allBankMasks() []uint32 {
	m := p.cfg.Memory
	masks := make([]uint32, m.Segments())
	for seg := range masks {
		n := m.Banks - uint32(seg)*m.BanksPerSegment
		if n >= 32 {
			masks[seg] = ^uint32(0)
		} else {
			masks[seg] = 1<<n - 1
		}
		if m.BanksPerSegment < 32 {
			masks[seg] &= 1<<m.BanksPerSegment - 1
		}
	}
	return masks
}

// setMemoryPower powers banks on (gate false) or off (gate true) and waits
// for every segment to report the new state.
func (p *Platform) setMemoryPower(masks []uint32, gate bool) error {
	var errs []error
	for i, mask := range masks {
		if mask == 0 {
			continue
		}
		seg := uint32(i)
		var ctl uint32
		if gate {
			ctl = shim.SetBits32(p.regs, hspgctl(seg), mask)
		} else {
			ctl = shim.ClearBits32(p.regs, hspgctl(seg), mask)
		}
		glog.V(2).Infof("memory segment %d HSPGCTL %08x gate %v", seg, ctl, gate)
		err := p.poll.Until(fmt.Sprintf("hpsram segment %d banks %08x", seg, mask), func() bool {
			if gate {
				return shim.HasBits32(p.regs, hspgists(seg), mask)
			}
			return shim.NoBits32(p.regs, hspgists(seg), mask)
		})
		if err != nil {
			glog.Errorf("memory segment %d: %s", seg, err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (p *Platform) coreMemory(index uint32) ([]uint32, error) {
	m := p.cfg.Memory
	start := m.CoreStackBase + (index-1)*m.CoreStackSize
	return p.bankMasks(start, m.CoreStackSize)
}

func (p *Platform) enableCoreMemory(index uint32) error {
	masks, err := p.coreMemory(index)
	if err != nil {
		return err
	}
	return p.setMemoryPower(masks, false)
}

func (p *Platform) disableCoreMemory(index uint32) error {
	masks, err := p.coreMemory(index)
	if err != nil {
		return err
	}
	return p.setMemoryPower(masks, true)
}

// PowerOff gates every HPSRAM bank. Used on the full power down path only,
// reference counts are not consulted.
func (p *Platform) PowerOff() error {
	return p.setMemoryPower(p.allBankMasks(), true)
}
