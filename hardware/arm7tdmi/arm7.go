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

package arm7tdmi

import (
	"fmt"
	"strings"

	"github.com/jetsetilly/gopheradvance/logger"
)

// the pipeline of the ARM7TDMI is three stages deep: fetch, decode, execute.
// two slots are enough to model it. slot 0 is the decode stage and slot 1
// the fetch stage; the execute stage is whatever has just been shifted out
// of slot 0.
//
// each slot carries the opcode and the handler index the decoder assigned to
// it. the flush flag marks the pipeline dirty after a write to r15; the
// slots refill from the new PC before the next instruction retires, at the
// cost of a non-sequential and a sequential fetch.
type pipeline struct {
	opcode  [2]uint32
	handler [2]uint8
	flush   bool
}

// ARM implements the ARM7TDMI processor of the Game Boy Advance.
type ARM struct {
	mem MemoryBus
	irq InterruptBus

	reg  registers
	cpsr status

	pipe pipeline

	// address of the instruction in the execute stage. r15 is two fetches
	// further on
	executingPC uint32

	// prefetch latches feeding the open-bus behaviour. see memory.go
	lastFetched   uint32
	lastBIOSFetch uint32

	// debugging hook and the guard that prevents the hook re-entering the
	// CPU. see hook.go
	hook      Hook
	hookGuard bool
}

// NewARM is the preferred method of initialisation for the ARM type. The
// interrupt bus argument may be nil, in which case the CPU never takes the
// IRQ exception of its own accord.
func NewARM(mem MemoryBus, irq InterruptBus) *ARM {
	arm := &ARM{
		mem: mem,
		irq: irq,
	}
	arm.Reset()
	return arm
}

// Reset puts the processor into its post-reset state: Supervisor mode, ARM
// state, both interrupts masked and the PC at the reset vector. The pipeline
// refills on the next Step().
func (arm *ARM) Reset() {
	arm.cpsr.reset()
	arm.reg.reset(arm.cpsr.mode)
	arm.reg.gpr[rPC] = exceptionVectors[excReset].vector
	arm.pipe.flush = true
	arm.lastFetched = 0x00000000
	arm.lastBIOSFetch = 0x00000000
}

// Step executes a single instruction, including any pipeline refill made
// necessary by the previous instruction. The IRQ line is sampled once, at
// the instruction boundary, before the instruction executes.
//
// Step is ignored when called from inside an attached Hook.
func (arm *ARM) Step() {
	if arm.hookGuard {
		logger.Logf("ARM7", "debugging hook attempted to re-enter the CPU")
		return
	}

	if arm.irq != nil && !arm.cpsr.irqDisable && arm.irq.IrqLinePending() {
		arm.FireIRQ()
	}

	if arm.cpsr.thumb {
		arm.stepTHUMB()
	} else {
		arm.stepARM()
	}
}

func (arm *ARM) stepARM() {
	if arm.pipe.flush {
		arm.reg.gpr[rPC] &= ^uint32(3)
		arm.pipe.opcode[0] = arm.fetchWord(arm.reg.gpr[rPC], NonSequential)
		arm.pipe.handler[0] = armDecode[armDecodeIndex(arm.pipe.opcode[0])]
		arm.pipe.opcode[1] = arm.fetchWord(arm.reg.gpr[rPC]+4, Sequential)
		arm.pipe.handler[1] = armDecode[armDecodeIndex(arm.pipe.opcode[1])]
		arm.reg.gpr[rPC] += 4
		arm.pipe.flush = false
	}

	opcode := arm.pipe.opcode[0]
	handler := arm.pipe.handler[0]
	arm.pipe.opcode[0] = arm.pipe.opcode[1]
	arm.pipe.handler[0] = arm.pipe.handler[1]

	arm.reg.gpr[rPC] += 4
	arm.pipe.opcode[1] = arm.fetchWord(arm.reg.gpr[rPC], Sequential)
	arm.pipe.handler[1] = armDecode[armDecodeIndex(arm.pipe.opcode[1])]

	arm.executingPC = arm.reg.gpr[rPC] - 8

	if arm.hook != nil {
		arm.deliverHook(HookEvent{Kind: HookExecute, PC: arm.executingPC})
	}

	// the condition field is evaluated before dispatch. an instruction whose
	// condition fails still retires but has no effect beyond the pipeline
	// fetch above
	if !arm.cpsr.condition(uint8(opcode >> 28)) {
		return
	}

	armDispatch[handler](arm, opcode)
}

func (arm *ARM) stepTHUMB() {
	if arm.pipe.flush {
		arm.reg.gpr[rPC] &= ^uint32(1)
		arm.pipe.opcode[0] = uint32(arm.fetchHalf(arm.reg.gpr[rPC], NonSequential))
		arm.pipe.handler[0] = thumbDecode[thumbDecodeIndex(uint16(arm.pipe.opcode[0]))]
		arm.pipe.opcode[1] = uint32(arm.fetchHalf(arm.reg.gpr[rPC]+2, Sequential))
		arm.pipe.handler[1] = thumbDecode[thumbDecodeIndex(uint16(arm.pipe.opcode[1]))]
		arm.reg.gpr[rPC] += 2
		arm.pipe.flush = false
	}

	opcode := uint16(arm.pipe.opcode[0])
	handler := arm.pipe.handler[0]
	arm.pipe.opcode[0] = arm.pipe.opcode[1]
	arm.pipe.handler[0] = arm.pipe.handler[1]

	arm.reg.gpr[rPC] += 2
	arm.pipe.opcode[1] = uint32(arm.fetchHalf(arm.reg.gpr[rPC], Sequential))
	arm.pipe.handler[1] = thumbDecode[thumbDecodeIndex(uint16(arm.pipe.opcode[1]))]

	arm.executingPC = arm.reg.gpr[rPC] - 4

	if arm.hook != nil {
		arm.deliverHook(HookEvent{Kind: HookExecute, PC: arm.executingPC})
	}

	thumbDispatch[handler](arm, opcode)
}

// setCPSR writes a full 32-bit value to CPSR, re-banking the register file
// if the mode field changed. a write with reserved mode bits keeps the old
// mode in effect, as the silicon does, and logs a diagnostic.
func (arm *ARM) setCPSR(v uint32) {
	oldMode := arm.cpsr.mode

	if !arm.cpsr.setValue(v) {
		logger.Logf("ARM7", "CPSR write with reserved mode bits (%#02x) at %08x", v&0x1f, arm.executingPC)
	}

	if arm.cpsr.mode != oldMode {
		arm.reg.remap(arm.cpsr.mode)
	}
}

// Register returns the value of a register as seen through the current
// banked view. Reading r15 gives the prefetch PC.
func (arm *ARM) Register(reg int) uint32 {
	return arm.reg.read(reg)
}

// SetRegister writes a register through the current banked view. Writing r15
// flushes the pipeline, as any r15 write does.
func (arm *ARM) SetRegister(reg int, v uint32) {
	if reg == rPC {
		arm.reg.gpr[rPC] = v
		arm.pipe.flush = true
		return
	}
	arm.reg.write(reg, v)
}

// RegisterOfMode returns the value of a register as seen through the banked
// view of an arbitrary mode. For debugger use.
func (arm *ARM) RegisterOfMode(mode uint8, reg int) uint32 {
	return arm.reg.readAny(mode, reg)
}

// SetRegisterOfMode writes a register through the banked view of an
// arbitrary mode. For debugger use.
func (arm *ARM) SetRegisterOfMode(mode uint8, reg int, v uint32) {
	if reg == rPC {
		arm.SetRegister(reg, v)
		return
	}
	arm.reg.writeAny(mode, reg, v)
}

// CPSR returns the composed 32-bit value of the status register.
func (arm *ARM) CPSR() uint32 {
	return arm.cpsr.value()
}

// SetCPSR writes a full 32-bit value to the status register, re-banking the
// register file on a mode change.
func (arm *ARM) SetCPSR(v uint32) {
	arm.setCPSR(v)
}

// SPSR returns the saved status register of the current mode. The second
// return value is false when the current mode has no SPSR.
func (arm *ARM) SPSR() (uint32, bool) {
	if !arm.reg.spsrOK() {
		return 0, false
	}
	return arm.reg.spsr[arm.reg.spsrView], true
}

// StatusString returns the one-line summary of the status register, in the
// same form it appears in the String() dump.
func (arm *ARM) StatusString() string {
	return arm.cpsr.String()
}

func (arm *ARM) String() string {
	s := strings.Builder{}
	for i := 0; i < 16; i++ {
		if i > 0 {
			if i%4 == 0 {
				s.WriteString("\n")
			} else {
				s.WriteString("\t\t")
			}
		}
		s.WriteString(fmt.Sprintf("R%-2d: %08x", i, arm.reg.read(i)))
	}
	s.WriteString(fmt.Sprintf("\n%s", arm.cpsr.String()))
	return s.String()
}
