// This file is part of Gopher Advance.
//
// Gopher Advance is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher Advance is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher Advance.  If not, see <https://www.gnu.org/licenses/>.

package memory

import (
	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware/arm7tdmi"
	"github.com/jetsetilly/gopheradvance/logger"
)

// region sizes.
const (
	biosSize  = 0x4000
	ewramSize = 0x40000
	iwramSize = 0x8000
	palSize   = 0x400
	vramSize  = 0x18000
	oamSize   = 0x400
	sramSize  = 0x10000

	maxROMSize = 0x2000000
)

// AudioFIFO is how the bus hands sound FIFO writes to the audio mixer. the
// two FIFOs are the DMA sound channels A and B.
type AudioFIFO interface {
	PushFIFO(channel int, data uint8)
}

// Bus implements the arm7tdmi.MemoryBus and arm7tdmi.InterruptBus
// interfaces for the console.
type Bus struct {
	bios  []uint8
	ewram [ewramSize]uint8
	iwram [iwramSize]uint8
	pal   [palSize]uint8
	vram  [vramSize]uint8
	oam   [oamSize]uint8
	rom   []uint8
	sram  [sramSize]uint8

	// interrupt controller registers
	ime uint16
	ie  uint16
	irf uint16

	// misc registers the BIOS pokes during startup
	postflg uint8

	// sound FIFO consumer. may be nil
	audio AudioFIFO

	// the cycle accountant. see Cycles()
	cycles uint64
}

// NewBus is the preferred method of initialisation for the Bus type. The
// bios argument may be empty; games that never call into the BIOS will run
// without one.
func NewBus(bios []uint8, rom []uint8) (*Bus, error) {
	if len(bios) > biosSize {
		return nil, curated.Errorf("memory: bios image too large (%d bytes)", len(bios))
	}
	if len(rom) > maxROMSize {
		return nil, curated.Errorf("memory: rom image too large (%d bytes)", len(rom))
	}

	bus := &Bus{
		bios: make([]uint8, len(bios)),
		rom:  make([]uint8, len(rom)),
	}
	copy(bus.bios, bios)
	copy(bus.rom, rom)

	return bus, nil
}

// AttachAudio connects the sound FIFO consumer.
func (bus *Bus) AttachAudio(audio AudioFIFO) {
	bus.audio = audio
}

// Cycles returns the running total of cycles consumed by bus accesses and
// idle cycles. The console uses the difference across a CPU step to pace the
// scheduler.
func (bus *Bus) Cycles() uint64 {
	return bus.cycles
}

// IdleCycle implements the arm7tdmi.MemoryBus interface.
func (bus *Bus) IdleCycle(n int) {
	bus.cycles += uint64(n)
}

// IrqLinePending implements the arm7tdmi.InterruptBus interface. The line is
// asserted while an enabled interrupt is flagged and the master enable is
// set.
func (bus *Bus) IrqLinePending() bool {
	return bus.ime&0x1 == 0x1 && bus.ie&bus.irf != 0x0
}

// RaiseInterrupt flags an interrupt in the IF register. The bit argument is
// the interrupt number as defined by the hardware: 0 for VBlank, up to 13
// for Game Pak.
func (bus *Bus) RaiseInterrupt(bit int) {
	bus.irf |= 1 << bit
}

// access timing. the waitstate values are those of the hardware with the
// default WAITCNT setting. regions on a 16-bit bus pay twice for a 32-bit
// access.
func (bus *Bus) accountAccess(addr uint32, width int, hint arm7tdmi.AccessHint) {
	if hint == arm7tdmi.Debug {
		return
	}

	var c uint64

	switch addr >> 24 {
	case 0x02:
		// external work RAM. 16-bit bus with two waitstates
		c = 3
		if width == 4 {
			c = 6
		}
	case 0x05, 0x06:
		// palette and video RAM. 16-bit bus, no waitstates
		c = 1
		if width == 4 {
			c = 2
		}
	case 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d:
		// cartridge space, waitstate 0 defaults. 16-bit bus
		if hint == arm7tdmi.Sequential {
			c = 3
			if width == 4 {
				c = 6
			}
		} else {
			c = 5
			if width == 4 {
				c = 8
			}
		}
	case 0x0e, 0x0f:
		// cartridge SRAM. 8-bit bus
		c = 5
	default:
		// BIOS, internal work RAM, IO, OAM
		c = 1
	}

	bus.cycles += c
}

// read8 is the byte-granular address decode shared by all read widths.
func (bus *Bus) read8(addr uint32) uint8 {
	switch addr >> 24 {
	case 0x00:
		if addr < biosSize && int(addr) < len(bus.bios) {
			return bus.bios[addr]
		}
	case 0x02:
		return bus.ewram[addr&(ewramSize-1)]
	case 0x03:
		return bus.iwram[addr&(iwramSize-1)]
	case 0x04:
		return bus.readIO(addr & 0xffffff)
	case 0x05:
		return bus.pal[addr&(palSize-1)]
	case 0x06:
		// the top 32k of the 128k video address space mirrors the previous
		// 32k
		a := addr & 0x1ffff
		if a >= vramSize {
			a -= 0x8000
		}
		return bus.vram[a]
	case 0x07:
		return bus.oam[addr&(oamSize-1)]
	case 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d:
		a := addr & (maxROMSize - 1)
		if int(a) < len(bus.rom) {
			return bus.rom[a]
		}
		// reading past the end of the ROM returns the address bus contents,
		// which for the cartridge is the address itself, sixteen bits at a
		// time
		return uint8((addr >> 1) >> ((addr & 0x1) * 8))
	case 0x0e, 0x0f:
		return bus.sram[addr&(sramSize-1)]
	}

	logger.Logf("Memory", "read of unmapped address %08x", addr)
	return 0
}

func (bus *Bus) write8(addr uint32, val uint8) {
	switch addr >> 24 {
	case 0x00:
		// the BIOS is not writable
	case 0x02:
		bus.ewram[addr&(ewramSize-1)] = val
	case 0x03:
		bus.iwram[addr&(iwramSize-1)] = val
	case 0x04:
		bus.writeIO(addr&0xffffff, val)
	case 0x05:
		bus.pal[addr&(palSize-1)] = val
	case 0x06:
		a := addr & 0x1ffff
		if a >= vramSize {
			a -= 0x8000
		}
		bus.vram[a] = val
	case 0x07:
		bus.oam[addr&(oamSize-1)] = val
	case 0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d:
		// the ROM is not writable
	case 0x0e, 0x0f:
		bus.sram[addr&(sramSize-1)] = val
	default:
		logger.Logf("Memory", "write of unmapped address %08x", addr)
	}
}

// ReadByte implements the arm7tdmi.MemoryBus interface.
func (bus *Bus) ReadByte(addr uint32, hint arm7tdmi.AccessHint) uint8 {
	bus.accountAccess(addr, 1, hint)
	return bus.read8(addr)
}

// ReadHalf implements the arm7tdmi.MemoryBus interface.
func (bus *Bus) ReadHalf(addr uint32, hint arm7tdmi.AccessHint) uint16 {
	bus.accountAccess(addr, 2, hint)
	return uint16(bus.read8(addr)) | uint16(bus.read8(addr+1))<<8
}

// ReadWord implements the arm7tdmi.MemoryBus interface.
func (bus *Bus) ReadWord(addr uint32, hint arm7tdmi.AccessHint) uint32 {
	bus.accountAccess(addr, 4, hint)
	return uint32(bus.read8(addr)) | uint32(bus.read8(addr+1))<<8 |
		uint32(bus.read8(addr+2))<<16 | uint32(bus.read8(addr+3))<<24
}

// WriteByte implements the arm7tdmi.MemoryBus interface.
func (bus *Bus) WriteByte(addr uint32, val uint8, hint arm7tdmi.AccessHint) {
	bus.accountAccess(addr, 1, hint)
	bus.write8(addr, val)
}

// WriteHalf implements the arm7tdmi.MemoryBus interface.
func (bus *Bus) WriteHalf(addr uint32, val uint16, hint arm7tdmi.AccessHint) {
	bus.accountAccess(addr, 2, hint)
	bus.write8(addr, uint8(val))
	bus.write8(addr+1, uint8(val>>8))
}

// WriteWord implements the arm7tdmi.MemoryBus interface.
func (bus *Bus) WriteWord(addr uint32, val uint32, hint arm7tdmi.AccessHint) {
	bus.accountAccess(addr, 4, hint)
	bus.write8(addr, uint8(val))
	bus.write8(addr+1, uint8(val>>8))
	bus.write8(addr+2, uint8(val>>16))
	bus.write8(addr+3, uint8(val>>24))
}
