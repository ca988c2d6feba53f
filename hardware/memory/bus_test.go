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

package memory_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/arm7tdmi"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/test"
)

func prepareTestBus(t *testing.T) *memory.Bus {
	t.Helper()

	rom := make([]uint8, 0x1000)
	for i := range rom {
		rom[i] = uint8(i)
	}

	bus, err := memory.NewBus(nil, rom)
	test.ExpectedSuccess(t, err)
	return bus
}

func TestRegionDecoding(t *testing.T) {
	bus := prepareTestBus(t)

	bus.WriteWord(0x02000000, 0x11223344, arm7tdmi.NonSequential)
	test.Equate(t, bus.ReadWord(0x02000000, arm7tdmi.Debug), 0x11223344)

	// external work RAM mirrors through the whole page
	test.Equate(t, bus.ReadWord(0x02040000, arm7tdmi.Debug), 0x11223344)

	bus.WriteHalf(0x03000000, 0x5566, arm7tdmi.NonSequential)
	test.Equate(t, bus.ReadHalf(0x03000000, arm7tdmi.Debug), 0x5566)

	// the ROM is not writable
	before := bus.ReadWord(0x08000000, arm7tdmi.Debug)
	bus.WriteWord(0x08000000, 0xffffffff, arm7tdmi.NonSequential)
	test.Equate(t, bus.ReadWord(0x08000000, arm7tdmi.Debug), before)
}

func TestAccessTiming(t *testing.T) {
	bus := prepareTestBus(t)

	// internal work RAM is a single cycle at any width
	start := bus.Cycles()
	bus.ReadWord(0x03000000, arm7tdmi.NonSequential)
	test.Equate(t, int(bus.Cycles()-start), 1)

	// external work RAM is on a 16-bit bus with two waitstates
	start = bus.Cycles()
	bus.ReadHalf(0x02000000, arm7tdmi.NonSequential)
	test.Equate(t, int(bus.Cycles()-start), 3)

	start = bus.Cycles()
	bus.ReadWord(0x02000000, arm7tdmi.NonSequential)
	test.Equate(t, int(bus.Cycles()-start), 6)

	// cartridge space distinguishes sequential from non-sequential
	start = bus.Cycles()
	bus.ReadHalf(0x08000000, arm7tdmi.NonSequential)
	test.Equate(t, int(bus.Cycles()-start), 5)

	start = bus.Cycles()
	bus.ReadHalf(0x08000002, arm7tdmi.Sequential)
	test.Equate(t, int(bus.Cycles()-start), 3)

	// debug accesses are free
	start = bus.Cycles()
	bus.ReadWord(0x02000000, arm7tdmi.Debug)
	test.Equate(t, int(bus.Cycles()-start), 0)

	// idle cycles accumulate on the same counter
	start = bus.Cycles()
	bus.IdleCycle(3)
	test.Equate(t, int(bus.Cycles()-start), 3)
}

func TestInterruptController(t *testing.T) {
	bus := prepareTestBus(t)

	test.ExpectedFailure(t, bus.IrqLinePending())

	// flag an interrupt. the line stays down until the interrupt is both
	// enabled and the master enable is set
	bus.RaiseInterrupt(memory.IntVBlank)
	test.ExpectedFailure(t, bus.IrqLinePending())

	bus.WriteHalf(0x04000200, 0x0001, arm7tdmi.NonSequential) // IE
	test.ExpectedFailure(t, bus.IrqLinePending())

	bus.WriteHalf(0x04000208, 0x0001, arm7tdmi.NonSequential) // IME
	test.ExpectedSuccess(t, bus.IrqLinePending())

	// acknowledging the interrupt by writing one to IF drops the line
	bus.WriteHalf(0x04000202, 0x0001, arm7tdmi.NonSequential)
	test.ExpectedFailure(t, bus.IrqLinePending())
}

func TestROMOutOfRange(t *testing.T) {
	bus := prepareTestBus(t)

	// reading past the end of the ROM returns the address bus contents:
	// the low sixteen bits of the halfword address
	v := bus.ReadHalf(0x08001000, arm7tdmi.Debug)
	test.Equate(t, v, uint16((0x08001000>>1)&0xffff))
}

type testFIFO struct {
	a []uint8
	b []uint8
}

func (f *testFIFO) PushFIFO(channel int, data uint8) {
	if channel == 0 {
		f.a = append(f.a, data)
	} else {
		f.b = append(f.b, data)
	}
}

func TestSoundFIFOPort(t *testing.T) {
	bus := prepareTestBus(t)

	fifo := &testFIFO{}
	bus.AttachAudio(fifo)

	bus.WriteWord(0x040000a0, 0x44332211, arm7tdmi.NonSequential)
	bus.WriteWord(0x040000a4, 0x88776655, arm7tdmi.NonSequential)

	test.Equate(t, len(fifo.a), 4)
	test.Equate(t, fifo.a[0], 0x11)
	test.Equate(t, fifo.a[3], 0x44)
	test.Equate(t, len(fifo.b), 4)
	test.Equate(t, fifo.b[0], 0x55)
}
