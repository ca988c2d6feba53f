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
	"math/bits"

	"github.com/jetsetilly/gopheradvance/logger"
)

// the nineteen THUMB instruction formats, numbered as in the ARM7TDMI data
// sheet. the flag semantics follow the ARM set; THUMB data processing
// always updates the flags.

func (arm *ARM) executeMoveShiftedRegister(opcode uint16) {
	// format 1 - Move shifted register
	op := uint32((opcode >> 11) & 0x3)
	shift := uint32((opcode >> 6) & 0x1f)
	rs := int((opcode >> 3) & 0x7)
	rd := int(opcode & 0x7)

	v := arm.reg.read(rs)
	r, c := barrelShift(op, v, shift, arm.cpsr.carry, true)

	arm.reg.write(rd, r)
	arm.cpsr.setNZ(r)
	arm.cpsr.carry = c
}

func (arm *ARM) executeAddSubtract(opcode uint16) {
	// format 2 - Add/subtract
	immediate := opcode&0x0400 != 0x0
	subtract := opcode&0x0200 != 0x0
	rs := int((opcode >> 3) & 0x7)
	rd := int(opcode & 0x7)

	var op2 uint32
	if immediate {
		op2 = uint32((opcode >> 6) & 0x7)
	} else {
		op2 = arm.reg.read(int((opcode >> 6) & 0x7))
	}

	v := arm.reg.read(rs)

	var r uint32
	if subtract {
		r = arm.subWithFlags(v, op2, 1, true)
	} else {
		r = arm.addWithFlags(v, op2, 0, true)
	}
	arm.reg.write(rd, r)
}

func (arm *ARM) executeMovCmpAddSubImm(opcode uint16) {
	// format 3 - Move/compare/add/subtract immediate
	op := (opcode >> 11) & 0x3
	rd := int((opcode >> 8) & 0x7)
	imm := uint32(opcode & 0xff)

	switch op {
	case 0x0: // MOV
		arm.reg.write(rd, imm)
		arm.cpsr.setNZ(imm)
	case 0x1: // CMP
		arm.subWithFlags(arm.reg.read(rd), imm, 1, true)
	case 0x2: // ADD
		arm.reg.write(rd, arm.addWithFlags(arm.reg.read(rd), imm, 0, true))
	case 0x3: // SUB
		arm.reg.write(rd, arm.subWithFlags(arm.reg.read(rd), imm, 1, true))
	}
}

func (arm *ARM) executeALUoperations(opcode uint16) {
	// format 4 - ALU operations
	op := (opcode >> 6) & 0xf
	rs := int((opcode >> 3) & 0x7)
	rd := int(opcode & 0x7)

	v := arm.reg.read(rd)
	o := arm.reg.read(rs)

	cin := uint32(0)
	if arm.cpsr.carry {
		cin = 1
	}

	switch op {
	case 0x0: // AND
		r := v & o
		arm.reg.write(rd, r)
		arm.cpsr.setNZ(r)
	case 0x1: // EOR
		r := v ^ o
		arm.reg.write(rd, r)
		arm.cpsr.setNZ(r)
	case 0x2: // LSL
		r, c := lsl(v, o&0xff, arm.cpsr.carry)
		arm.mem.IdleCycle(1)
		arm.reg.write(rd, r)
		arm.cpsr.setNZ(r)
		arm.cpsr.carry = c
	case 0x3: // LSR
		r, c := lsr(v, o&0xff, arm.cpsr.carry, false)
		arm.mem.IdleCycle(1)
		arm.reg.write(rd, r)
		arm.cpsr.setNZ(r)
		arm.cpsr.carry = c
	case 0x4: // ASR
		r, c := asr(v, o&0xff, arm.cpsr.carry, false)
		arm.mem.IdleCycle(1)
		arm.reg.write(rd, r)
		arm.cpsr.setNZ(r)
		arm.cpsr.carry = c
	case 0x5: // ADC
		arm.reg.write(rd, arm.addWithFlags(v, o, cin, true))
	case 0x6: // SBC
		arm.reg.write(rd, arm.subWithFlags(v, o, cin, true))
	case 0x7: // ROR
		r, c := ror(v, o&0xff, arm.cpsr.carry, false)
		arm.mem.IdleCycle(1)
		arm.reg.write(rd, r)
		arm.cpsr.setNZ(r)
		arm.cpsr.carry = c
	case 0x8: // TST
		arm.cpsr.setNZ(v & o)
	case 0x9: // NEG
		arm.reg.write(rd, arm.subWithFlags(0, o, 1, true))
	case 0xa: // CMP
		arm.subWithFlags(v, o, 1, true)
	case 0xb: // CMN
		arm.addWithFlags(v, o, 0, true)
	case 0xc: // ORR
		r := v | o
		arm.reg.write(rd, r)
		arm.cpsr.setNZ(r)
	case 0xd: // MUL
		r := v * o
		arm.mem.IdleCycle(multiplierCycles(v, true))
		arm.reg.write(rd, r)
		arm.cpsr.setNZ(r)
	case 0xe: // BIC
		r := v &^ o
		arm.reg.write(rd, r)
		arm.cpsr.setNZ(r)
	case 0xf: // MVN
		r := ^o
		arm.reg.write(rd, r)
		arm.cpsr.setNZ(r)
	}
}

func (arm *ARM) executeHiRegisterOps(opcode uint16) {
	// format 5 - Hi register operations/branch exchange
	op := (opcode >> 8) & 0x3
	rs := int((opcode >> 3) & 0x7)
	rd := int(opcode & 0x7)
	if opcode&0x40 != 0x0 {
		rs += 8
	}
	if opcode&0x80 != 0x0 {
		rd += 8
	}

	switch op {
	case 0x0: // ADD (no flag update)
		r := arm.reg.read(rd) + arm.reg.read(rs)
		if rd == rPC {
			arm.reg.gpr[rPC] = r &^ 0x1
			arm.pipe.flush = true
		} else {
			arm.reg.write(rd, r)
		}
	case 0x1: // CMP
		arm.subWithFlags(arm.reg.read(rd), arm.reg.read(rs), 1, true)
	case 0x2: // MOV (no flag update)
		r := arm.reg.read(rs)
		if rd == rPC {
			if arm.hook != nil && rs == rLR {
				arm.deliverHook(HookEvent{Kind: HookReturn, PC: arm.executingPC})
			}
			arm.reg.gpr[rPC] = r &^ 0x1
			arm.pipe.flush = true
		} else {
			arm.reg.write(rd, r)
		}
	case 0x3: // BX
		target := arm.reg.read(rs)

		if arm.hook != nil {
			if rs == rLR {
				arm.deliverHook(HookEvent{Kind: HookReturn, PC: arm.executingPC})
			} else {
				arm.deliverHook(HookEvent{Kind: HookCall, PC: arm.executingPC, Target: target &^ 0x1})
			}
		}

		if target&0x1 == 0x1 {
			arm.reg.gpr[rPC] = target &^ 0x1
		} else {
			arm.cpsr.thumb = false
			arm.reg.gpr[rPC] = target &^ 0x3
		}
		arm.pipe.flush = true
	}
}

func (arm *ARM) executePCrelativeLoad(opcode uint16) {
	// format 6 - PC-relative load
	rd := int((opcode >> 8) & 0x7)
	imm := uint32(opcode&0xff) << 2

	// the PC value used as the base is forced to word alignment
	addr := (arm.reg.gpr[rPC] &^ 0x2) + imm

	arm.reg.write(rd, arm.readWordAligned(addr, NonSequential))
	arm.mem.IdleCycle(1)
}

func (arm *ARM) executeLoadStoreWithRegisterOffset(opcode uint16) {
	// format 7 - Load/store with register offset
	load := opcode&0x0800 != 0x0
	byteTransfer := opcode&0x0400 != 0x0
	ro := int((opcode >> 6) & 0x7)
	rb := int((opcode >> 3) & 0x7)
	rd := int(opcode & 0x7)

	addr := arm.reg.read(rb) + arm.reg.read(ro)

	if load {
		if byteTransfer {
			arm.reg.write(rd, uint32(arm.readByte(addr, NonSequential)))
		} else {
			arm.reg.write(rd, arm.readWordRotated(addr, NonSequential))
		}
		arm.mem.IdleCycle(1)
		return
	}

	if byteTransfer {
		arm.writeByte(addr, uint8(arm.reg.read(rd)), NonSequential)
	} else {
		arm.writeWord(addr, arm.reg.read(rd), NonSequential)
	}
}

func (arm *ARM) executeLoadStoreSignExtended(opcode uint16) {
	// format 8 - Load/store sign-extended byte/halfword
	hBit := opcode&0x0800 != 0x0
	sBit := opcode&0x0400 != 0x0
	ro := int((opcode >> 6) & 0x7)
	rb := int((opcode >> 3) & 0x7)
	rd := int(opcode & 0x7)

	addr := arm.reg.read(rb) + arm.reg.read(ro)

	switch {
	case !sBit && !hBit: // STRH
		arm.writeHalf(addr, uint16(arm.reg.read(rd)), NonSequential)
		return
	case !sBit && hBit: // LDRH
		arm.reg.write(rd, arm.readHalfRotated(addr, NonSequential))
	case sBit && !hBit: // LDRSB
		arm.reg.write(rd, uint32(int32(int8(arm.readByte(addr, NonSequential)))))
	case sBit && hBit: // LDRSH
		arm.reg.write(rd, arm.readHalfSigned(addr, NonSequential))
	}

	arm.mem.IdleCycle(1)
}

func (arm *ARM) executeLoadStoreWithImmOffset(opcode uint16) {
	// format 9 - Load/store with immediate offset
	byteTransfer := opcode&0x1000 != 0x0
	load := opcode&0x0800 != 0x0
	offset := uint32((opcode >> 6) & 0x1f)
	rb := int((opcode >> 3) & 0x7)
	rd := int(opcode & 0x7)

	if !byteTransfer {
		offset <<= 2
	}
	addr := arm.reg.read(rb) + offset

	if load {
		if byteTransfer {
			arm.reg.write(rd, uint32(arm.readByte(addr, NonSequential)))
		} else {
			arm.reg.write(rd, arm.readWordRotated(addr, NonSequential))
		}
		arm.mem.IdleCycle(1)
		return
	}

	if byteTransfer {
		arm.writeByte(addr, uint8(arm.reg.read(rd)), NonSequential)
	} else {
		arm.writeWord(addr, arm.reg.read(rd), NonSequential)
	}
}

func (arm *ARM) executeLoadStoreHalfword(opcode uint16) {
	// format 10 - Load/store halfword
	load := opcode&0x0800 != 0x0
	offset := uint32((opcode>>6)&0x1f) << 1
	rb := int((opcode >> 3) & 0x7)
	rd := int(opcode & 0x7)

	addr := arm.reg.read(rb) + offset

	if load {
		arm.reg.write(rd, arm.readHalfRotated(addr, NonSequential))
		arm.mem.IdleCycle(1)
		return
	}

	arm.writeHalf(addr, uint16(arm.reg.read(rd)), NonSequential)
}

func (arm *ARM) executeSPRelativeLoadStore(opcode uint16) {
	// format 11 - SP-relative load/store
	load := opcode&0x0800 != 0x0
	rd := int((opcode >> 8) & 0x7)
	imm := uint32(opcode&0xff) << 2

	addr := arm.reg.read(rSP) + imm

	if load {
		arm.reg.write(rd, arm.readWordRotated(addr, NonSequential))
		arm.mem.IdleCycle(1)
		return
	}

	arm.writeWord(addr, arm.reg.read(rd), NonSequential)
}

func (arm *ARM) executeLoadAddress(opcode uint16) {
	// format 12 - Load address
	sp := opcode&0x0800 != 0x0
	rd := int((opcode >> 8) & 0x7)
	imm := uint32(opcode&0xff) << 2

	if sp {
		arm.reg.write(rd, arm.reg.read(rSP)+imm)
		return
	}

	arm.reg.write(rd, (arm.reg.gpr[rPC]&^0x2)+imm)
}

func (arm *ARM) executeAddOffsetToSP(opcode uint16) {
	// format 13 - Add offset to stack pointer
	imm := uint32(opcode&0x7f) << 2

	if opcode&0x80 != 0x0 {
		arm.reg.write(rSP, arm.reg.read(rSP)-imm)
		return
	}
	arm.reg.write(rSP, arm.reg.read(rSP)+imm)
}

func (arm *ARM) executePushPopRegisters(opcode uint16) {
	// format 14 - Push/pop registers
	load := opcode&0x0800 != 0x0
	pclr := opcode&0x0100 != 0x0
	list := uint32(opcode & 0xff)

	n := bits.OnesCount32(list)
	if pclr {
		n++
	}

	hint := NonSequential

	if load {
		// POP: ascending loads from the stack pointer
		addr := arm.reg.read(rSP)
		arm.reg.write(rSP, addr+uint32(n)*4)

		for i := 0; i < 8; i++ {
			if list&(1<<i) == 0x0 {
				continue
			}
			arm.reg.write(i, arm.readWordAligned(addr, hint))
			hint = Sequential
			addr += 4
		}

		if pclr {
			if arm.hook != nil {
				arm.deliverHook(HookEvent{Kind: HookReturn, PC: arm.executingPC})
			}
			arm.reg.gpr[rPC] = arm.readWordAligned(addr, hint) &^ 0x1
			arm.pipe.flush = true
		}

		arm.mem.IdleCycle(1)
		return
	}

	// PUSH: the base descends first, stores ascend
	addr := arm.reg.read(rSP) - uint32(n)*4
	arm.reg.write(rSP, addr)

	for i := 0; i < 8; i++ {
		if list&(1<<i) == 0x0 {
			continue
		}
		arm.writeWord(addr, arm.reg.read(i), hint)
		hint = Sequential
		addr += 4
	}

	if pclr {
		arm.writeWord(addr, arm.reg.read(rLR), hint)
	}
}

func (arm *ARM) executeMultipleLoadStore(opcode uint16) {
	// format 15 - Multiple load/store
	load := opcode&0x0800 != 0x0
	rb := int((opcode >> 8) & 0x7)
	list := uint32(opcode & 0xff)

	base := arm.reg.read(rb)

	// as with the ARM block transfer, an empty register list transfers r15
	// and moves the base a full 0x40
	var final, stride uint32
	transferPC := false
	if list == 0x0 {
		transferPC = true
		stride = 0x40
	} else {
		stride = uint32(bits.OnesCount32(list)) * 4
	}
	final = base + stride

	hint := NonSequential
	addr := base

	if load {
		// writeback happens before the loads: a load of the base register
		// wins over the written back value
		arm.reg.write(rb, final)

		for i := 0; i < 8; i++ {
			if list&(1<<i) == 0x0 {
				continue
			}
			arm.reg.write(i, arm.readWordAligned(addr, hint))
			hint = Sequential
			addr += 4
		}

		if transferPC {
			arm.reg.gpr[rPC] = arm.readWordAligned(addr, hint) &^ 0x1
			arm.pipe.flush = true
		}

		arm.mem.IdleCycle(1)
		return
	}

	lowest := bits.TrailingZeros32(list)

	for i := 0; i < 8; i++ {
		if list&(1<<i) == 0x0 {
			continue
		}

		v := arm.reg.read(i)
		if i == rb {
			// base register in a store list: original base if it is the
			// lowest register in the list, the written back base otherwise
			if i == lowest {
				v = base
			} else {
				v = final
			}
		}

		arm.writeWord(addr, v, hint)
		hint = Sequential
		addr += 4
	}

	if transferPC {
		arm.writeWord(addr, arm.reg.gpr[rPC]+2, hint)
	}

	arm.reg.write(rb, final)
}

func (arm *ARM) executeConditionalBranch(opcode uint16) {
	// format 16 - Conditional branch
	cond := uint8((opcode >> 8) & 0xf)

	// the AL condition is not a valid encoding in this format. it is the
	// architecturally defined undefined instruction of the THUMB set
	if cond == 0xe {
		arm.executeThumbUndefined(opcode)
		return
	}

	if !arm.cpsr.condition(cond) {
		return
	}

	offset := uint32(int32(int8(opcode&0xff)) << 1)
	arm.reg.gpr[rPC] += offset
	arm.pipe.flush = true
}

func (arm *ARM) executeThumbSoftwareInterrupt(opcode uint16) {
	// format 17 - Software interrupt
	if arm.hook != nil {
		arm.deliverHook(HookEvent{Kind: HookSWI, PC: arm.executingPC, Comment: uint32(opcode & 0xff)})
	}
	arm.enterException(excSoftwareInterrupt)
}

func (arm *ARM) executeUnconditionalBranch(opcode uint16) {
	// format 18 - Unconditional branch
	offset := uint32(int32(uint32(opcode&0x7ff)<<21) >> 20)
	arm.reg.gpr[rPC] += offset
	arm.pipe.flush = true
}

func (arm *ARM) executeLongBranchWithLink(opcode uint16) {
	// format 19 - Long branch with link. a two instruction sequence
	// composing a 22-bit signed offset
	offset := uint32(opcode & 0x7ff)

	if opcode&0x0800 == 0x0 {
		// first halfword: the high part of the offset accumulates into LR
		arm.reg.write(rLR, arm.reg.gpr[rPC]+uint32(int32(offset<<21)>>9))
		return
	}

	// second halfword: complete the branch, leaving the return address in
	// LR with bit 0 set for the return to THUMB state
	target := arm.reg.read(rLR) + offset<<1
	arm.reg.write(rLR, (arm.reg.gpr[rPC]-2)|0x1)

	if arm.hook != nil {
		arm.deliverHook(HookEvent{Kind: HookCall, PC: arm.executingPC, Target: target})
	}

	arm.reg.gpr[rPC] = target &^ 0x1
	arm.pipe.flush = true
}

func (arm *ARM) executeThumbUndefined(opcode uint16) {
	logger.Logf("ARM7", "undefined instruction %04x at %08x", opcode, arm.executingPC)
	arm.enterException(excUndefinedInstruction)
}
