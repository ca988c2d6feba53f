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

package hardware_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/hardware/arm7tdmi"
	"github.com/jetsetilly/gopheradvance/test"
)

func put32(rom []uint8, offset int, v uint32) {
	rom[offset] = uint8(v)
	rom[offset+1] = uint8(v >> 8)
	rom[offset+2] = uint8(v >> 16)
	rom[offset+3] = uint8(v >> 24)
}

func TestRunProgram(t *testing.T) {
	rom := make([]uint8, 0x100)
	put32(rom, 0x0, 0xe3a00001) // MOV r0, #1
	put32(rom, 0x4, 0xe3a01402) // MOV r1, #0x02000000
	put32(rom, 0x8, 0xe5810000) // STR r0, [r1]
	put32(rom, 0xc, 0xeafffffe) // B . (spin)

	gba, err := hardware.NewGBA(hardware.Preferences{}, nil, rom)
	test.ExpectedSuccess(t, err)

	gba.RunForCycles(10000)

	// the program ran and the store landed in external work RAM
	test.Equate(t, gba.Mem.ReadWord(0x02000000, arm7tdmi.Debug), 1)
	test.Equate(t, gba.CPU.Register(0), 1)

	// the cycle counter advanced exactly to the deadline
	test.Equate(t, gba.Scheduler.Now(), uint64(10000))

	test.ExpectedSuccess(t, gba.End())
}

func TestCPUAndMixerInterleave(t *testing.T) {
	rom := make([]uint8, 0x100)
	put32(rom, 0x0, 0xeafffffe) // B . (spin)

	gba, err := hardware.NewGBA(hardware.Preferences{}, nil, rom)
	test.ExpectedSuccess(t, err)

	// a second of emulation. the mixer must have been pre-empting the CPU
	// throughout, so the scheduler has processed far more events than the
	// CPU alone would produce. the observable here is simply that nothing
	// deadlocks and the counter lands on the deadline
	gba.RunForCycles(hardware.CyclesPerSecond)
	test.Equate(t, gba.Scheduler.Now(), uint64(hardware.CyclesPerSecond))

	test.ExpectedSuccess(t, gba.End())
}
