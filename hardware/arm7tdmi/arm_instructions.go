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

// addWithFlags adds two values with an explicit carry-in, optionally
// updating the condition flags. the overflow flag is the sign-overflow of
// the addition.
func (arm *ARM) addWithFlags(a, b, cin uint32, s bool) uint32 {
	r := a + b + cin
	if s {
		r64 := uint64(a) + uint64(b) + uint64(cin)
		arm.cpsr.carry = r64 > 0xffffffff
		arm.cpsr.overflow = (^(a^b)&(a^r))>>31 != 0x0
		arm.cpsr.setNZ(r)
	}
	return r
}

// subWithFlags computes a-b-1+cin, ie. a plain subtraction when cin is one.
// the carry flag is set to NOT borrow, the convention of the ARM
// architecture.
func (arm *ARM) subWithFlags(a, b, cin uint32, s bool) uint32 {
	r := a + ^b + cin
	if s {
		r64 := uint64(a) + uint64(^b) + uint64(cin)
		arm.cpsr.carry = r64 > 0xffffffff
		arm.cpsr.overflow = ((a^b)&(a^r))>>31 != 0x0
		arm.cpsr.setNZ(r)
	}
	return r
}

// the early termination of the multiplier: the cost of a multiply depends on
// how many bytes of the multiplier hold significant bits. for the signed
// instructions a byte of all ones is as insignificant as a byte of zeros.
func multiplierCycles(mult uint32, signed bool) int {
	if signed {
		switch {
		case mult&0xffffff00 == 0x0 || mult&0xffffff00 == 0xffffff00:
			return 1
		case mult&0xffff0000 == 0x0 || mult&0xffff0000 == 0xffff0000:
			return 2
		case mult&0xff000000 == 0x0 || mult&0xff000000 == 0xff000000:
			return 3
		}
		return 4
	}

	switch {
	case mult&0xffffff00 == 0x0:
		return 1
	case mult&0xffff0000 == 0x0:
		return 2
	case mult&0xff000000 == 0x0:
		return 3
	}
	return 4
}

func (arm *ARM) executeDataProcessing(opcode uint32) {
	op := (opcode >> 21) & 0xf
	s := opcode&0x00100000 != 0x0
	rn := int((opcode >> 16) & 0xf)
	rd := int((opcode >> 12) & 0xf)

	shiftCarry := arm.cpsr.carry

	var op1, op2 uint32

	if opcode&0x02000000 != 0x0 {
		// operand 2 is an 8-bit immediate rotated right by twice the rotate
		// field. a non-zero rotation replaces the shifter carry with bit 31
		// of the result
		rot := (opcode >> 7) & 0x1e
		op2 = bits.RotateLeft32(opcode&0xff, -int(rot))
		if rot != 0x0 {
			shiftCarry = op2&0x80000000 != 0x0
		}
		op1 = arm.reg.read(rn)
	} else {
		rm := int(opcode & 0xf)
		v := arm.reg.read(rm)
		styp := (opcode >> 5) & 0x3

		if opcode&0x10 != 0x0 {
			// shift amount from the bottom byte of a register. the extra
			// register read costs an internal cycle and moves r15 reads
			// along by another word
			amt := arm.reg.read(int((opcode>>8)&0xf)) & 0xff
			if rm == rPC {
				v += 4
			}
			op1 = arm.reg.read(rn)
			if rn == rPC {
				op1 += 4
			}
			arm.mem.IdleCycle(1)
			op2, shiftCarry = barrelShift(styp, v, amt, arm.cpsr.carry, false)
		} else {
			amt := (opcode >> 7) & 0x1f
			op1 = arm.reg.read(rn)
			op2, shiftCarry = barrelShift(styp, v, amt, arm.cpsr.carry, true)
		}
	}

	cin := uint32(0)
	if arm.cpsr.carry {
		cin = 1
	}

	// the flag updates below follow the data sheet: N and Z from the
	// result; C from the shifter for the logical group and from the ALU for
	// the arithmetic group; V only from the arithmetic group
	var result uint32
	test := false

	switch op {
	case 0x0: // AND
		result = op1 & op2
		if s {
			arm.cpsr.setNZ(result)
			arm.cpsr.carry = shiftCarry
		}
	case 0x1: // EOR
		result = op1 ^ op2
		if s {
			arm.cpsr.setNZ(result)
			arm.cpsr.carry = shiftCarry
		}
	case 0x2: // SUB
		result = arm.subWithFlags(op1, op2, 1, s)
	case 0x3: // RSB
		result = arm.subWithFlags(op2, op1, 1, s)
	case 0x4: // ADD
		result = arm.addWithFlags(op1, op2, 0, s)
	case 0x5: // ADC
		result = arm.addWithFlags(op1, op2, cin, s)
	case 0x6: // SBC
		result = arm.subWithFlags(op1, op2, cin, s)
	case 0x7: // RSC
		result = arm.subWithFlags(op2, op1, cin, s)
	case 0x8: // TST
		result = op1 & op2
		arm.cpsr.setNZ(result)
		arm.cpsr.carry = shiftCarry
		test = true
	case 0x9: // TEQ
		result = op1 ^ op2
		arm.cpsr.setNZ(result)
		arm.cpsr.carry = shiftCarry
		test = true
	case 0xa: // CMP
		arm.subWithFlags(op1, op2, 1, true)
		test = true
	case 0xb: // CMN
		arm.addWithFlags(op1, op2, 0, true)
		test = true
	case 0xc: // ORR
		result = op1 | op2
		if s {
			arm.cpsr.setNZ(result)
			arm.cpsr.carry = shiftCarry
		}
	case 0xd: // MOV
		result = op2
		if s {
			arm.cpsr.setNZ(result)
			arm.cpsr.carry = shiftCarry
		}
	case 0xe: // BIC
		result = op1 &^ op2
		if s {
			arm.cpsr.setNZ(result)
			arm.cpsr.carry = shiftCarry
		}
	case 0xf: // MVN
		result = ^op2
		if s {
			arm.cpsr.setNZ(result)
			arm.cpsr.carry = shiftCarry
		}
	}

	if test {
		return
	}

	if rd == rPC {
		// MOVS pc and friends are the canonical exception return: the SPSR
		// of the current mode replaces CPSR, possibly changing mode and
		// state
		if s {
			arm.restoreSPSR()
		} else if arm.hook != nil && op == 0xd && opcode&0xf == uint32(rLR) {
			arm.deliverHook(HookEvent{Kind: HookReturn, PC: arm.executingPC})
		}
		arm.reg.gpr[rPC] = result
		arm.pipe.flush = true
		return
	}

	arm.reg.write(rd, result)
}

func (arm *ARM) executeMRS(opcode uint32) {
	rd := int((opcode >> 12) & 0xf)

	if opcode&0x00400000 != 0x0 {
		if !arm.reg.spsrOK() {
			logger.Logf("ARM7", "MRS of SPSR in mode with no SPSR at %08x", arm.executingPC)
			arm.reg.write(rd, arm.cpsr.value())
			return
		}
		arm.reg.write(rd, arm.reg.spsr[arm.reg.spsrView])
		return
	}

	arm.reg.write(rd, arm.cpsr.value())
}

func (arm *ARM) executeMSR(opcode uint32) {
	var v uint32

	if opcode&0x02000000 != 0x0 {
		rot := (opcode >> 7) & 0x1e
		v = bits.RotateLeft32(opcode&0xff, -int(rot))
	} else {
		v = arm.reg.read(int(opcode & 0xf))
	}

	// field mask. on the ARM7TDMI only the flag and control fields have
	// architected bits but the mask is honoured in full
	var mask uint32
	if opcode&0x00080000 != 0x0 {
		mask |= 0xff000000
	}
	if opcode&0x00040000 != 0x0 {
		mask |= 0x00ff0000
	}
	if opcode&0x00020000 != 0x0 {
		mask |= 0x0000ff00
	}
	if opcode&0x00010000 != 0x0 {
		mask |= 0x000000ff
	}

	if opcode&0x00400000 != 0x0 {
		if !arm.reg.spsrOK() {
			logger.Logf("ARM7", "MSR of SPSR in mode with no SPSR at %08x", arm.executingPC)
			return
		}
		spsr := arm.reg.spsr[arm.reg.spsrView]
		arm.reg.spsr[arm.reg.spsrView] = (spsr &^ mask) | (v & mask)
		return
	}

	// the control field of CPSR cannot be written from User mode
	if !arm.cpsr.privileged() {
		mask &= 0xff000000
	}

	arm.setCPSR((arm.cpsr.value() &^ mask) | (v & mask))
}

func (arm *ARM) executeMultiply(opcode uint32) {
	accumulate := opcode&0x00200000 != 0x0
	s := opcode&0x00100000 != 0x0
	rd := int((opcode >> 16) & 0xf)
	rn := int((opcode >> 12) & 0xf)
	rs := int((opcode >> 8) & 0xf)
	rm := int(opcode & 0xf)

	mult := arm.reg.read(rs)
	result := arm.reg.read(rm) * mult

	cycles := multiplierCycles(mult, true)
	if accumulate {
		result += arm.reg.read(rn)
		cycles++
	}
	arm.mem.IdleCycle(cycles)

	arm.reg.write(rd, result)

	if s {
		// the carry flag is architecturally unpredictable after a multiply.
		// it is left unchanged here
		arm.cpsr.setNZ(result)
	}
}

func (arm *ARM) executeMultiplyLong(opcode uint32) {
	signed := opcode&0x00400000 != 0x0
	accumulate := opcode&0x00200000 != 0x0
	s := opcode&0x00100000 != 0x0
	rdHi := int((opcode >> 16) & 0xf)
	rdLo := int((opcode >> 12) & 0xf)
	rs := int((opcode >> 8) & 0xf)
	rm := int(opcode & 0xf)

	mult := arm.reg.read(rs)

	var result uint64
	if signed {
		result = uint64(int64(int32(arm.reg.read(rm))) * int64(int32(mult)))
	} else {
		result = uint64(arm.reg.read(rm)) * uint64(mult)
	}

	cycles := multiplierCycles(mult, signed) + 1
	if accumulate {
		result += uint64(arm.reg.read(rdHi))<<32 | uint64(arm.reg.read(rdLo))
		cycles++
	}
	arm.mem.IdleCycle(cycles)

	arm.reg.write(rdLo, uint32(result))
	arm.reg.write(rdHi, uint32(result>>32))

	if s {
		arm.cpsr.negative = result&0x8000000000000000 != 0x0
		arm.cpsr.zero = result == 0x0
	}
}

func (arm *ARM) executeSingleDataSwap(opcode uint32) {
	byteSwap := opcode&0x00400000 != 0x0
	rn := int((opcode >> 16) & 0xf)
	rd := int((opcode >> 12) & 0xf)
	rm := int(opcode & 0xf)

	addr := arm.reg.read(rn)

	if byteSwap {
		v := arm.readByte(addr, NonSequential)
		arm.writeByte(addr, uint8(arm.reg.read(rm)), Sequential)
		arm.reg.write(rd, uint32(v))
	} else {
		v := arm.readWordRotated(addr, NonSequential)
		arm.writeWord(addr, arm.reg.read(rm), Sequential)
		arm.reg.write(rd, v)
	}

	arm.mem.IdleCycle(1)
}

func (arm *ARM) executeBranchExchange(opcode uint32) {
	rm := int(opcode & 0xf)
	target := arm.reg.read(rm)

	if arm.hook != nil {
		if rm == rLR {
			arm.deliverHook(HookEvent{Kind: HookReturn, PC: arm.executingPC})
		} else {
			arm.deliverHook(HookEvent{Kind: HookCall, PC: arm.executingPC, Target: target &^ 0x1})
		}
	}

	// bit 0 of the target selects the instruction set
	if target&0x1 == 0x1 {
		arm.cpsr.thumb = true
		arm.reg.gpr[rPC] = target &^ 0x1
	} else {
		arm.cpsr.thumb = false
		arm.reg.gpr[rPC] = target &^ 0x3
	}
	arm.pipe.flush = true
}

func (arm *ARM) executeHalfwordDataTransfer(opcode uint32) {
	pre := opcode&0x01000000 != 0x0
	up := opcode&0x00800000 != 0x0
	immOffset := opcode&0x00400000 != 0x0
	writeback := opcode&0x00200000 != 0x0
	load := opcode&0x00100000 != 0x0
	rn := int((opcode >> 16) & 0xf)
	rd := int((opcode >> 12) & 0xf)
	sh := (opcode >> 5) & 0x3

	var offset uint32
	if immOffset {
		offset = ((opcode >> 4) & 0xf0) | (opcode & 0xf)
	} else {
		offset = arm.reg.read(int(opcode & 0xf))
	}

	base := arm.reg.read(rn)
	addr := base
	if pre {
		if up {
			addr += offset
		} else {
			addr -= offset
		}
	}

	if load {
		var v uint32
		switch sh {
		case 0x1: // unsigned halfword
			v = arm.readHalfRotated(addr, NonSequential)
		case 0x2: // signed byte
			v = uint32(int32(int8(arm.readByte(addr, NonSequential))))
		case 0x3: // signed halfword
			v = arm.readHalfSigned(addr, NonSequential)
		}
		arm.mem.IdleCycle(1)

		if !pre {
			if up {
				arm.reg.write(rn, base+offset)
			} else {
				arm.reg.write(rn, base-offset)
			}
		} else if writeback {
			arm.reg.write(rn, addr)
		}

		if rd == rPC {
			arm.reg.gpr[rPC] = v
			arm.pipe.flush = true
		} else {
			arm.reg.write(rd, v)
		}
		return
	}

	// STRH is the only store in this group
	v := arm.reg.read(rd)
	if rd == rPC {
		v += 4
	}
	arm.writeHalf(addr, uint16(v), NonSequential)

	if !pre {
		if up {
			arm.reg.write(rn, base+offset)
		} else {
			arm.reg.write(rn, base-offset)
		}
	} else if writeback {
		arm.reg.write(rn, addr)
	}
}

func (arm *ARM) executeSingleDataTransfer(opcode uint32) {
	shiftedReg := opcode&0x02000000 != 0x0
	pre := opcode&0x01000000 != 0x0
	up := opcode&0x00800000 != 0x0
	byteTransfer := opcode&0x00400000 != 0x0
	writeback := opcode&0x00200000 != 0x0
	load := opcode&0x00100000 != 0x0
	rn := int((opcode >> 16) & 0xf)
	rd := int((opcode >> 12) & 0xf)

	var offset uint32
	if shiftedReg {
		// the offset register is shifted by an immediate amount. there is
		// no shift-by-register form in this addressing mode
		v := arm.reg.read(int(opcode & 0xf))
		amt := (opcode >> 7) & 0x1f
		offset, _ = barrelShift((opcode>>5)&0x3, v, amt, arm.cpsr.carry, true)
	} else {
		offset = opcode & 0xfff
	}

	base := arm.reg.read(rn)
	addr := base
	if pre {
		if up {
			addr += offset
		} else {
			addr -= offset
		}
	}

	// a post-indexed transfer with the W bit set asks for the User mode
	// view of the bus. the AGB has no memory management so the access
	// proceeds as normal

	if load {
		var v uint32
		if byteTransfer {
			v = uint32(arm.readByte(addr, NonSequential))
		} else {
			v = arm.readWordRotated(addr, NonSequential)
		}
		arm.mem.IdleCycle(1)

		// writeback happens before the loaded value is committed: a load to
		// the base register wins
		if !pre {
			if up {
				arm.reg.write(rn, base+offset)
			} else {
				arm.reg.write(rn, base-offset)
			}
		} else if writeback {
			arm.reg.write(rn, addr)
		}

		if rd == rPC {
			arm.reg.gpr[rPC] = v
			arm.pipe.flush = true
		} else {
			arm.reg.write(rd, v)
		}
		return
	}

	v := arm.reg.read(rd)
	if rd == rPC {
		// a store of r15 sees the PC a word further on than a read
		v += 4
	}
	if byteTransfer {
		arm.writeByte(addr, uint8(v), NonSequential)
	} else {
		arm.writeWord(addr, v, NonSequential)
	}

	if !pre {
		if up {
			arm.reg.write(rn, base+offset)
		} else {
			arm.reg.write(rn, base-offset)
		}
	} else if writeback {
		arm.reg.write(rn, addr)
	}
}

func (arm *ARM) executeBlockDataTransfer(opcode uint32) {
	pre := opcode&0x01000000 != 0x0
	up := opcode&0x00800000 != 0x0
	sBit := opcode&0x00400000 != 0x0
	writeback := opcode&0x00200000 != 0x0
	load := opcode&0x00100000 != 0x0
	rn := int((opcode >> 16) & 0xf)
	list := opcode & 0xffff

	base := arm.reg.read(rn)

	// an empty register list transfers r15 alone but moves the base the
	// full 16 registers
	emptyList := list == 0x0
	stride := uint32(bits.OnesCount32(list)) * 4
	if emptyList {
		list = 0x8000
		stride = 0x40
	}

	// registers are transferred in ascending order of register number to
	// ascending memory addresses, whichever direction the base moves in
	var addr, final uint32
	if up {
		final = base + stride
		addr = base
		if pre {
			addr += 4
		}
	} else {
		final = base - stride
		addr = final
		if !pre {
			addr += 4
		}
	}

	// the S bit selects the user bank for the transfer, except for the LDM
	// form that includes r15, where it instead requests the SPSR restore
	userBank := sBit && (!load || list&0x8000 == 0x0)

	hint := NonSequential

	if load {
		// writeback happens before the loads: a load of the base register
		// wins over the written back value
		if writeback {
			arm.reg.write(rn, final)
		}

		for i := 0; i < 16; i++ {
			if list&(1<<i) == 0x0 {
				continue
			}

			v := arm.readWordAligned(addr, hint)
			hint = Sequential
			addr += 4

			if i == rPC {
				if sBit {
					arm.restoreSPSR()
				} else if arm.hook != nil {
					arm.deliverHook(HookEvent{Kind: HookReturn, PC: arm.executingPC})
				}
				arm.reg.gpr[rPC] = v
				arm.pipe.flush = true
			} else if userBank {
				arm.reg.writeAny(ModeUser, i, v)
			} else {
				arm.reg.write(i, v)
			}
		}

		arm.mem.IdleCycle(1)
		return
	}

	lowest := bits.TrailingZeros32(list)

	for i := 0; i < 16; i++ {
		if list&(1<<i) == 0x0 {
			continue
		}

		var v uint32
		if userBank {
			v = arm.reg.readAny(ModeUser, i)
		} else {
			v = arm.reg.read(i)
		}

		if i == rPC {
			v += 4
		}

		if i == rn {
			// the base register in a store list: the value stored is the
			// original base if it is the lowest register in the list, the
			// written back base otherwise
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

	if writeback {
		arm.reg.write(rn, final)
	}
}

func (arm *ARM) executeBranch(opcode uint32) {
	// 24-bit signed offset, shifted left two bits
	offset := uint32(int32(opcode<<8) >> 6)
	link := opcode&0x01000000 != 0x0

	pc := arm.reg.gpr[rPC]
	target := pc + offset

	if link {
		arm.reg.write(rLR, pc-4)
		if arm.hook != nil {
			arm.deliverHook(HookEvent{Kind: HookCall, PC: arm.executingPC, Target: target})
		}
	}

	arm.reg.gpr[rPC] = target
	arm.pipe.flush = true
}

func (arm *ARM) executeSoftwareInterrupt(opcode uint32) {
	if arm.hook != nil {
		arm.deliverHook(HookEvent{Kind: HookSWI, PC: arm.executingPC, Comment: opcode & 0xffffff})
	}
	arm.enterException(excSoftwareInterrupt)
}

func (arm *ARM) executeCoprocessor(opcode uint32) {
	// no coprocessors are fitted to the AGB. the instruction takes the
	// undefined instruction trap
	logger.Logf("ARM7", "coprocessor instruction %08x at %08x", opcode, arm.executingPC)
	arm.enterException(excUndefinedInstruction)
}

func (arm *ARM) executeUndefined(opcode uint32) {
	logger.Logf("ARM7", "undefined instruction %08x at %08x", opcode, arm.executingPC)
	arm.enterException(excUndefinedInstruction)
}
