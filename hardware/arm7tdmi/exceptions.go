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

import "github.com/jetsetilly/gopheradvance/logger"

// the seven exceptions of the ARM7TDMI.
type exception int

const (
	excReset exception = iota
	excUndefinedInstruction
	excSoftwareInterrupt
	excPrefetchAbort
	excDataAbort
	excIRQ
	excFIQ
)

// each exception has a fixed vector, a target mode and an FIQ masking rule.
// every exception disables IRQ; only reset and FIQ disable FIQ.
var exceptionVectors = [...]struct {
	vector     uint32
	mode       uint8
	disableFIQ bool
}{
	excReset:                {vector: 0x00, mode: ModeSupervisor, disableFIQ: true},
	excUndefinedInstruction: {vector: 0x04, mode: ModeUndefined},
	excSoftwareInterrupt:    {vector: 0x08, mode: ModeSupervisor},
	excPrefetchAbort:        {vector: 0x0c, mode: ModeAbort},
	excDataAbort:            {vector: 0x10, mode: ModeAbort},
	excIRQ:                  {vector: 0x18, mode: ModeIRQ},
	excFIQ:                  {vector: 0x1c, mode: ModeFIQ, disableFIQ: true},
}

// enterException performs the mode switch for the named exception: the
// return address goes to the target mode's r14, the current CPSR to the
// target mode's SPSR, the mode/state/mask fields of CPSR change and the
// pipeline refills from the vector.
func (arm *ARM) enterException(exc exception) {
	def := exceptionVectors[exc]

	old := arm.cpsr.value()

	// the value saved to the banked r14 is chosen so that the canonical
	// return sequence for the exception lands on the correct instruction.
	//
	// the synchronous exceptions are raised from inside an executing
	// instruction, where r15 holds the prefetch PC: the faulting
	// instruction +8 in ARM state, +4 in THUMB state. IRQ and FIQ are taken
	// at the instruction boundary, where the pipeline is a fetch further
	// back and r15 is the pre-empted instruction +4 (ARM) or +2 (THUMB). if
	// a pipeline refill is still pending, r15 is the pre-empted instruction
	// itself and the saved value is one fetch further on to compensate
	var ret uint32
	if arm.cpsr.thumb {
		switch exc {
		case excUndefinedInstruction, excSoftwareInterrupt:
			ret = arm.reg.gpr[rPC] - 2
		case excPrefetchAbort:
			ret = arm.reg.gpr[rPC]
		case excIRQ, excFIQ:
			ret = arm.reg.gpr[rPC] + 2
			if arm.pipe.flush {
				ret += 2
			}
		case excDataAbort:
			ret = arm.reg.gpr[rPC] + 4
		}
	} else {
		switch exc {
		case excUndefinedInstruction, excSoftwareInterrupt, excPrefetchAbort:
			ret = arm.reg.gpr[rPC] - 4
		case excIRQ, excFIQ:
			ret = arm.reg.gpr[rPC]
			if arm.pipe.flush {
				ret += 4
			}
		case excDataAbort:
			ret = arm.reg.gpr[rPC]
		}
	}

	arm.cpsr.mode = def.mode
	arm.cpsr.modeBits = def.mode
	arm.cpsr.thumb = false
	arm.cpsr.irqDisable = true
	if def.disableFIQ {
		arm.cpsr.fiqDisable = true
	}
	arm.reg.remap(def.mode)

	arm.reg.write(rLR, ret)
	arm.reg.spsr[arm.reg.spsrView] = old

	arm.reg.gpr[rPC] = def.vector
	arm.pipe.flush = true
}

// FireIRQ requests the IRQ exception. It is a no-op while CPSR.I is set: the
// interrupt controller keeps the line asserted and the request is redelivered
// by the per-instruction sampling in Step().
func (arm *ARM) FireIRQ() {
	if arm.cpsr.irqDisable {
		return
	}
	arm.deliverHook(HookEvent{Kind: HookIRQEnter, PC: arm.reg.gpr[rPC]})
	arm.enterException(excIRQ)
}

// restoreSPSR copies the current mode's SPSR into CPSR. used by the
// exception return forms of the data processing and block transfer
// instructions.
func (arm *ARM) restoreSPSR() {
	if !arm.reg.spsrOK() {
		logger.Logf("ARM7", "SPSR restore in mode with no SPSR (%s)", arm.cpsr.String())
		return
	}

	oldMode := arm.cpsr.mode
	arm.setCPSR(arm.reg.spsr[arm.reg.spsrView])

	if arm.hook != nil {
		switch oldMode {
		case ModeSupervisor:
			arm.deliverHook(HookEvent{Kind: HookSWIReturn, PC: arm.reg.gpr[rPC]})
		case ModeIRQ:
			arm.deliverHook(HookEvent{Kind: HookIRQReturn, PC: arm.reg.gpr[rPC]})
		}
	}
}
