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

// register names.
const (
	rSP = 13
	rLR = 14
	rPC = 15
)

// the ARM7TDMI has 31 physical general purpose registers of which 16 are
// visible at any one time. the visible set depends on the processor mode:
// FIQ banks r8-r14, the other privileged modes bank r13 and r14, User and
// System share the base bank.
//
// slots 0 to 15 hold the base bank. the banked registers occupy the
// remaining slots:
const (
	slotFIQ = 16 // r8_fiq to r14_fiq
	slotSVC = 23 // r13_svc, r14_svc
	slotABT = 25 // r13_abt, r14_abt
	slotIRQ = 27 // r13_irq, r14_irq
	slotUND = 29 // r13_und, r14_und

	numRegisters = 31
)

// indeces into the spsr array. User and System mode have no SPSR.
const (
	spsrSVC = iota
	spsrABT
	spsrUND
	spsrIRQ
	spsrFIQ
	numSPSR
)

type registers struct {
	gpr  [numRegisters]uint32
	spsr [numSPSR]uint32

	// indirection table mapping the 16 visible registers onto gpr slots.
	// rebuilt on every mode change so that register access is a plain
	// indexed read with no mode dispatch
	view [16]int

	// index into the spsr array for the current mode. -1 when the current
	// mode has no SPSR
	spsrView int
}

func (r *registers) reset(mode uint8) {
	for i := range r.gpr {
		r.gpr[i] = 0x00000000
	}
	for i := range r.spsr {
		r.spsr[i] = 0x00000000
	}
	r.remap(mode)
}

// bankedSlot returns the gpr slot backing the named register in the named
// mode. slot 15 is the PC in every mode.
func bankedSlot(mode uint8, reg int) int {
	switch mode {
	case ModeFIQ:
		if reg >= 8 && reg <= 14 {
			return slotFIQ + reg - 8
		}
	case ModeSupervisor:
		if reg == rSP || reg == rLR {
			return slotSVC + reg - rSP
		}
	case ModeAbort:
		if reg == rSP || reg == rLR {
			return slotABT + reg - rSP
		}
	case ModeIRQ:
		if reg == rSP || reg == rLR {
			return slotIRQ + reg - rSP
		}
	case ModeUndefined:
		if reg == rSP || reg == rLR {
			return slotUND + reg - rSP
		}
	}
	return reg
}

func spsrIndex(mode uint8) int {
	switch mode {
	case ModeFIQ:
		return spsrFIQ
	case ModeIRQ:
		return spsrIRQ
	case ModeSupervisor:
		return spsrSVC
	case ModeAbort:
		return spsrABT
	case ModeUndefined:
		return spsrUND
	}
	return -1
}

// remap rebuilds the indirection table for the named mode. must be called on
// every change to the mode field of CPSR so that the visible registers
// reflect the selected bank before the next instruction executes.
func (r *registers) remap(mode uint8) {
	for i := range r.view {
		r.view[i] = bankedSlot(mode, i)
	}
	r.spsrView = spsrIndex(mode)
}

// read a register through the current banked view.
func (r *registers) read(reg int) uint32 {
	return r.gpr[r.view[reg]]
}

// write a register through the current banked view.
func (r *registers) write(reg int, v uint32) {
	r.gpr[r.view[reg]] = v
}

// readAny reads a register through the banked view of an arbitrary mode,
// without disturbing the current view. for debugger access and for the
// user-bank transfer forms of LDM/STM.
func (r *registers) readAny(mode uint8, reg int) uint32 {
	return r.gpr[bankedSlot(mode, reg)]
}

// writeAny is the write equivalent of readAny.
func (r *registers) writeAny(mode uint8, reg int, v uint32) {
	r.gpr[bankedSlot(mode, reg)] = v
}

// spsrOK returns true if the current mode has an SPSR.
func (r *registers) spsrOK() bool {
	return r.spsrView >= 0
}
