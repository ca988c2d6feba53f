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

package arm7tdmi_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/arm7tdmi"
	"github.com/jetsetilly/gopheradvance/test"
)

// testMemory is a sparse memory with cycle counters, standing in for the
// memory bus of the console.
type testMemory struct {
	data map[uint32]uint8

	// cycle accounting. one cycle per access plus the idle cycles
	nCycles    int
	sCycles    int
	idleCycles int

	// interrupt line. also implements the InterruptBus interface
	irqPending bool
}

func newTestMemory() *testMemory {
	return &testMemory{
		data: make(map[uint32]uint8),
	}
}

func (mem *testMemory) account(hint arm7tdmi.AccessHint) {
	switch hint {
	case arm7tdmi.NonSequential:
		mem.nCycles++
	case arm7tdmi.Sequential:
		mem.sCycles++
	}
}

func (mem *testMemory) ReadByte(addr uint32, hint arm7tdmi.AccessHint) uint8 {
	mem.account(hint)
	return mem.data[addr]
}

func (mem *testMemory) ReadHalf(addr uint32, hint arm7tdmi.AccessHint) uint16 {
	mem.account(hint)
	return uint16(mem.data[addr]) | uint16(mem.data[addr+1])<<8
}

func (mem *testMemory) ReadWord(addr uint32, hint arm7tdmi.AccessHint) uint32 {
	mem.account(hint)
	return uint32(mem.data[addr]) | uint32(mem.data[addr+1])<<8 |
		uint32(mem.data[addr+2])<<16 | uint32(mem.data[addr+3])<<24
}

func (mem *testMemory) WriteByte(addr uint32, val uint8, hint arm7tdmi.AccessHint) {
	mem.account(hint)
	mem.data[addr] = val
}

func (mem *testMemory) WriteHalf(addr uint32, val uint16, hint arm7tdmi.AccessHint) {
	mem.account(hint)
	mem.data[addr] = uint8(val)
	mem.data[addr+1] = uint8(val >> 8)
}

func (mem *testMemory) WriteWord(addr uint32, val uint32, hint arm7tdmi.AccessHint) {
	mem.account(hint)
	mem.data[addr] = uint8(val)
	mem.data[addr+1] = uint8(val >> 8)
	mem.data[addr+2] = uint8(val >> 16)
	mem.data[addr+3] = uint8(val >> 24)
}

func (mem *testMemory) IdleCycle(n int) {
	mem.idleCycles += n
}

func (mem *testMemory) IrqLinePending() bool {
	return mem.irqPending
}

func (mem *testMemory) put32(addr uint32, v uint32) {
	mem.data[addr] = uint8(v)
	mem.data[addr+1] = uint8(v >> 8)
	mem.data[addr+2] = uint8(v >> 16)
	mem.data[addr+3] = uint8(v >> 24)
}

func (mem *testMemory) put16(addr uint32, v uint16) {
	mem.data[addr] = uint8(v)
	mem.data[addr+1] = uint8(v >> 8)
}

// codeOrigin is where test programs are assembled. the same cartridge space
// address used by real ROMs.
const codeOrigin = 0x08000000

// prepareTestARM returns a CPU in the canonical test state: all GPRs zero,
// System mode with interrupts enabled, PC at the start of cartridge space.
func prepareTestARM() (*arm7tdmi.ARM, *testMemory) {
	mem := newTestMemory()
	arm := arm7tdmi.NewARM(mem, mem)
	arm.SetCPSR(0x0000001f)
	arm.SetRegister(15, codeOrigin)
	return arm, mem
}

// flag accessors working on the composed CPSR value.
func flagN(arm *arm7tdmi.ARM) bool { return arm.CPSR()&(1<<31) != 0 }
func flagZ(arm *arm7tdmi.ARM) bool { return arm.CPSR()&(1<<30) != 0 }
func flagC(arm *arm7tdmi.ARM) bool { return arm.CPSR()&(1<<29) != 0 }
func flagV(arm *arm7tdmi.ARM) bool { return arm.CPSR()&(1<<28) != 0 }

func TestAddCarry(t *testing.T) {
	arm, mem := prepareTestARM()

	mem.put32(codeOrigin, 0xe3a004ff)   // MOV r0, #0xff000000
	mem.put32(codeOrigin+4, 0xe0901000) // ADDS r1, r0, r0

	arm.Step()
	test.Equate(t, arm.Register(0), 0xff000000)

	arm.Step()
	test.Equate(t, arm.Register(0), 0xff000000)
	test.Equate(t, arm.Register(1), 0xfe000000)
	test.Equate(t, flagC(arm), true)
	test.Equate(t, flagV(arm), false)
	test.Equate(t, flagN(arm), true)
	test.Equate(t, flagZ(arm), false)
}

func TestSubOverflow(t *testing.T) {
	arm, mem := prepareTestARM()

	mem.put32(codeOrigin, 0xe3a00102)   // MOV r0, #0x80000000
	mem.put32(codeOrigin+4, 0xe2501001) // SUBS r1, r0, #1

	arm.Step()
	test.Equate(t, arm.Register(0), 0x80000000)

	arm.Step()
	test.Equate(t, arm.Register(1), 0x7fffffff)
	test.Equate(t, flagN(arm), false)
	test.Equate(t, flagZ(arm), false)
	test.Equate(t, flagC(arm), true)
	test.Equate(t, flagV(arm), true)
}

func TestLogicalShiftRight32(t *testing.T) {
	arm, mem := prepareTestARM()

	// LSR #32 is encoded as an immediate shift amount of zero. the result
	// is zero and the carry flag receives bit 31 of the value
	mem.put32(codeOrigin, 0xe3a00102)   // MOV r0, #0x80000000
	mem.put32(codeOrigin+4, 0xe1b00020) // MOVS r0, r0, LSR #32

	arm.Step()
	arm.Step()
	test.Equate(t, arm.Register(0), 0)
	test.Equate(t, flagC(arm), true)
	test.Equate(t, flagZ(arm), true)
}

func TestSoftwareInterrupt(t *testing.T) {
	arm, mem := prepareTestARM()

	oldCPSR := arm.CPSR()

	mem.put32(codeOrigin, 0xef000006) // SWI #0x06

	arm.Step()

	// Supervisor mode, IRQ masked, ARM state
	test.Equate(t, uint8(arm.CPSR()&0x1f), uint8(arm7tdmi.ModeSupervisor))
	test.Equate(t, arm.CPSR()&(1<<7) != 0, true)

	// return address in r14_svc is the instruction after the SWI
	test.Equate(t, arm.RegisterOfMode(arm7tdmi.ModeSupervisor, 14), codeOrigin+4)

	// the old CPSR is saved in SPSR_svc
	spsr, ok := arm.SPSR()
	test.ExpectedSuccess(t, ok)
	test.Equate(t, spsr, oldCPSR)

	// and the PC is at the SWI vector
	test.Equate(t, arm.Register(15), 0x00000008)
}

func TestBlockDataTransfer(t *testing.T) {
	arm, mem := prepareTestARM()

	mem.put32(codeOrigin, 0xe8b0000e) // LDMIA r0!, {r1-r3}
	mem.put32(0x02000010, 0xaa)
	mem.put32(0x02000014, 0xbb)
	mem.put32(0x02000018, 0xcc)

	arm.SetRegister(0, 0x02000010)
	arm.Step()

	test.Equate(t, arm.Register(1), 0xaa)
	test.Equate(t, arm.Register(2), 0xbb)
	test.Equate(t, arm.Register(3), 0xcc)
	test.Equate(t, arm.Register(0), 0x0200001c)
}

func TestConditionFailedIsNoOp(t *testing.T) {
	arm, mem := prepareTestARM()

	// with Z clear, ADDEQS never executes. architectural state must be
	// untouched apart from the pipeline advance
	mem.put32(codeOrigin, 0x00901000)   // ADDEQS r1, r0, r0
	mem.put32(codeOrigin+4, 0xe0901000) // ADDS r1, r0, r0

	arm.SetRegister(0, 0xff000000)
	cpsr := arm.CPSR()

	arm.Step()
	test.Equate(t, arm.Register(1), 0)
	test.Equate(t, arm.CPSR(), cpsr)
	test.Equate(t, arm.Register(15), codeOrigin+8)

	// the same opcode with an AL condition does execute
	arm.Step()
	test.Equate(t, arm.Register(1), 0xfe000000)
}

func TestPrefetchPC(t *testing.T) {
	arm, mem := prepareTestARM()

	// r15 reads as the instruction address plus 8 in ARM state
	mem.put32(codeOrigin, 0xe1a0000f) // MOV r0, pc

	arm.Step()
	test.Equate(t, arm.Register(0), codeOrigin+8)
}

func TestPipelineRefillCost(t *testing.T) {
	arm, mem := prepareTestARM()

	mem.put32(codeOrigin, 0xe1a00000) // NOP (MOV r0, r0)

	mem.nCycles = 0
	mem.sCycles = 0

	// the first step after a pipeline flush refills the fetch and decode
	// slots (one N cycle, one S cycle) and prefetches (another S cycle)
	arm.Step()
	test.Equate(t, mem.nCycles, 1)
	test.Equate(t, mem.sCycles, 2)

	// subsequent steps cost a single S cycle, even for condition-failed
	// instructions
	arm.Step()
	test.Equate(t, mem.nCycles, 1)
	test.Equate(t, mem.sCycles, 3)
}

func TestBranchWithLink(t *testing.T) {
	arm, mem := prepareTestARM()

	mem.put32(codeOrigin, 0xeb000002) // BL +8 (target 0x08000010)

	arm.Step()
	test.Equate(t, arm.Register(14), codeOrigin+4)
	test.Equate(t, arm.Register(15), codeOrigin+16)

	// pipeline is dirty. the next executed instruction is at the branch
	// target
	mem.put32(codeOrigin+16, 0xe3a00001) // MOV r0, #1
	arm.Step()
	test.Equate(t, arm.Register(0), 1)
}

func TestBranchExchange(t *testing.T) {
	arm, mem := prepareTestARM()

	mem.put32(codeOrigin, 0xe12fff10) // BX r0

	arm.SetRegister(0, 0x02000001)
	arm.Step()

	// bit 0 of the target selects THUMB state
	test.Equate(t, arm.CPSR()&(1<<5) != 0, true)
	test.Equate(t, arm.Register(15), 0x02000000)
}

func TestMisalignedLoadRotation(t *testing.T) {
	arm, mem := prepareTestARM()

	// LDR from a misaligned address returns the aligned word rotated right
	// by eight bits for every byte of misalignment
	mem.put32(codeOrigin, 0xe5901000)   // LDR r1, [r0]
	mem.put32(codeOrigin+4, 0xe5902000) // LDR r2, [r0]
	mem.put32(0x02000020, 0x11223344)

	arm.SetRegister(0, 0x02000021)
	arm.Step()
	test.Equate(t, arm.Register(1), 0x44112233)

	arm.SetRegister(0, 0x02000022)
	arm.SetRegister(15, codeOrigin+4)
	arm.Step()
	test.Equate(t, arm.Register(2), 0x33441122)
}

func TestMultiplyFlags(t *testing.T) {
	arm, mem := prepareTestARM()

	mem.put32(codeOrigin, 0xe0110392)   // MULS r1, r2, r3
	mem.put32(codeOrigin+4, 0xe0110392) // MULS r1, r2, r3

	arm.SetRegister(2, 0x10000000)
	arm.SetRegister(3, 0x8)

	// carry must survive a multiply unchanged
	arm.SetCPSR(arm.CPSR() | 1<<29)

	arm.Step()
	test.Equate(t, arm.Register(1), 0x80000000)
	test.Equate(t, flagN(arm), true)
	test.Equate(t, flagZ(arm), false)
	test.Equate(t, flagC(arm), true)

	arm.SetRegister(2, 0)
	arm.Step()
	test.Equate(t, arm.Register(1), 0)
	test.Equate(t, flagZ(arm), true)
	test.Equate(t, flagC(arm), true)
}

func TestMultiplyLong(t *testing.T) {
	arm, mem := prepareTestARM()

	mem.put32(codeOrigin, 0xe0832291) // UMULL r2, r3, r1, r2

	arm.SetRegister(1, 0xffffffff)
	arm.SetRegister(2, 0x2)

	arm.Step()
	test.Equate(t, arm.Register(2), 0xfffffffe)
	test.Equate(t, arm.Register(3), 0x00000001)
}

func TestStoreMultipleBaseInList(t *testing.T) {
	arm, mem := prepareTestARM()

	// base register is the lowest register in the list: the original base
	// value is stored
	mem.put32(codeOrigin, 0xe8a00003) // STMIA r0!, {r0,r1}

	arm.SetRegister(0, 0x02000030)
	arm.SetRegister(1, 0x12345678)
	arm.Step()

	test.Equate(t, mem.ReadWord(0x02000030, arm7tdmi.Debug), 0x02000030)
	test.Equate(t, mem.ReadWord(0x02000034, arm7tdmi.Debug), 0x12345678)
	test.Equate(t, arm.Register(0), 0x02000038)

	// base register not the lowest in the list: the written back base is
	// stored
	mem.put32(codeOrigin+8, 0xe8a10003) // STMIA r1!, {r0,r1}

	arm.SetRegister(15, codeOrigin+8)
	arm.SetRegister(0, 0xdeadbeef)
	arm.SetRegister(1, 0x02000040)
	arm.Step()

	test.Equate(t, mem.ReadWord(0x02000040, arm7tdmi.Debug), 0xdeadbeef)
	test.Equate(t, mem.ReadWord(0x02000044, arm7tdmi.Debug), 0x02000048)
	test.Equate(t, arm.Register(1), 0x02000048)
}

func TestIRQSampling(t *testing.T) {
	arm, mem := prepareTestARM()

	mem.put32(codeOrigin, 0xe1a00000) // NOP

	// the IRQ line is pending but CPSR.I masks it
	arm.SetCPSR(arm.CPSR() | 1<<7)
	mem.irqPending = true
	arm.Step()
	test.Equate(t, uint8(arm.CPSR()&0x1f), uint8(arm7tdmi.ModeSystem))

	// unmasking delivers the exception at the next instruction boundary.
	// the return address in r14_irq is the pre-empted instruction +4
	arm.SetCPSR(arm.CPSR() &^ (1 << 7))
	arm.Step()
	test.Equate(t, uint8(arm.CPSR()&0x1f), uint8(arm7tdmi.ModeIRQ))
	test.Equate(t, arm.RegisterOfMode(arm7tdmi.ModeIRQ, 14), codeOrigin+8)
}

func TestDataProcessingShiftByRegister(t *testing.T) {
	arm, mem := prepareTestARM()

	mem.put32(codeOrigin, 0xe1a01312) // MOV r1, r2, LSL r3

	arm.SetRegister(2, 0x1)
	arm.SetRegister(3, 0x4)

	mem.idleCycles = 0
	arm.Step()

	test.Equate(t, arm.Register(1), 0x10)

	// the register-specified shift costs an internal cycle
	test.Equate(t, mem.idleCycles, 1)
}
