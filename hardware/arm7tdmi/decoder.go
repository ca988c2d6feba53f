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

// instruction decoding is through flat tables built once at package
// initialisation. pattern matching the instruction families on every step is
// far too slow for an interpreter that has to sustain sixteen million cycles
// a second.
//
// the ARM table is indexed by the twelve bits that distinguish the
// instruction families: bits 27-20 and bits 7-4. the THUMB table is indexed
// by the top ten bits of the opcode. every entry holds a handler index into
// the corresponding dispatch array. indeces that match no family hold the
// undefined instruction handler, which routes to the undefined instruction
// trap.

// handler indeces for the ARM instruction families.
const (
	armUndefined = iota
	armDataProcessing
	armMRS
	armMSR
	armMultiply
	armMultiplyLong
	armSingleDataSwap
	armBranchExchange
	armHalfwordDataTransfer
	armSingleDataTransfer
	armBlockDataTransfer
	armBranch
	armSoftwareInterrupt
	armCoprocessor
	numARMHandlers
)

// handler indeces for the THUMB instruction formats. the numbering follows
// the format numbers of the ARM7TDMI data sheet.
const (
	thumbUndefined               = iota
	thumbMoveShiftedRegister     // format 1
	thumbAddSubtract             // format 2
	thumbMovCmpAddSubImm         // format 3
	thumbALUoperations           // format 4
	thumbHiRegisterOps           // format 5
	thumbPCrelativeLoad          // format 6
	thumbLoadStoreRegisterOffset // format 7
	thumbLoadStoreSignExtended   // format 8
	thumbLoadStoreImmOffset      // format 9
	thumbLoadStoreHalfword       // format 10
	thumbSPrelativeLoadStore     // format 11
	thumbLoadAddress             // format 12
	thumbAddOffsetToSP           // format 13
	thumbPushPopRegisters        // format 14
	thumbMultipleLoadStore       // format 15
	thumbConditionalBranch       // format 16
	thumbSoftwareInterrupt       // format 17
	thumbUnconditionalBranch     // format 18
	thumbLongBranchWithLink      // format 19
	numThumbHandlers
)

var armDispatch [numARMHandlers]func(*ARM, uint32)
var thumbDispatch [numThumbHandlers]func(*ARM, uint16)

var armDecode [1 << 12]uint8
var thumbDecode [1 << 10]uint8

// armDecodeIndex distils the bits that identify the instruction family of an
// ARM opcode into the decode table index.
func armDecodeIndex(opcode uint32) int {
	return int(((opcode >> 16) & 0xff0) | ((opcode >> 4) & 0xf))
}

// thumbDecodeIndex is the decode table index for a THUMB opcode.
func thumbDecodeIndex(opcode uint16) int {
	return int(opcode >> 6)
}

func init() {
	armDispatch = [numARMHandlers]func(*ARM, uint32){
		armUndefined:            (*ARM).executeUndefined,
		armDataProcessing:       (*ARM).executeDataProcessing,
		armMRS:                  (*ARM).executeMRS,
		armMSR:                  (*ARM).executeMSR,
		armMultiply:             (*ARM).executeMultiply,
		armMultiplyLong:         (*ARM).executeMultiplyLong,
		armSingleDataSwap:       (*ARM).executeSingleDataSwap,
		armBranchExchange:       (*ARM).executeBranchExchange,
		armHalfwordDataTransfer: (*ARM).executeHalfwordDataTransfer,
		armSingleDataTransfer:   (*ARM).executeSingleDataTransfer,
		armBlockDataTransfer:    (*ARM).executeBlockDataTransfer,
		armBranch:               (*ARM).executeBranch,
		armSoftwareInterrupt:    (*ARM).executeSoftwareInterrupt,
		armCoprocessor:          (*ARM).executeCoprocessor,
	}

	thumbDispatch = [numThumbHandlers]func(*ARM, uint16){
		thumbUndefined:               (*ARM).executeThumbUndefined,
		thumbMoveShiftedRegister:     (*ARM).executeMoveShiftedRegister,
		thumbAddSubtract:             (*ARM).executeAddSubtract,
		thumbMovCmpAddSubImm:         (*ARM).executeMovCmpAddSubImm,
		thumbALUoperations:           (*ARM).executeALUoperations,
		thumbHiRegisterOps:           (*ARM).executeHiRegisterOps,
		thumbPCrelativeLoad:          (*ARM).executePCrelativeLoad,
		thumbLoadStoreRegisterOffset: (*ARM).executeLoadStoreWithRegisterOffset,
		thumbLoadStoreSignExtended:   (*ARM).executeLoadStoreSignExtended,
		thumbLoadStoreImmOffset:      (*ARM).executeLoadStoreWithImmOffset,
		thumbLoadStoreHalfword:       (*ARM).executeLoadStoreHalfword,
		thumbSPrelativeLoadStore:     (*ARM).executeSPRelativeLoadStore,
		thumbLoadAddress:             (*ARM).executeLoadAddress,
		thumbAddOffsetToSP:           (*ARM).executeAddOffsetToSP,
		thumbPushPopRegisters:        (*ARM).executePushPopRegisters,
		thumbMultipleLoadStore:       (*ARM).executeMultipleLoadStore,
		thumbConditionalBranch:       (*ARM).executeConditionalBranch,
		thumbSoftwareInterrupt:       (*ARM).executeThumbSoftwareInterrupt,
		thumbUnconditionalBranch:     (*ARM).executeUnconditionalBranch,
		thumbLongBranchWithLink:      (*ARM).executeLongBranchWithLink,
	}

	buildARMTable()
	buildThumbTable()
}

// buildARMTable enumerates every decode table index, reconstructs the opcode
// bits the index represents and matches them against the instruction family
// encodings of the ARM7TDMI data sheet.
func buildARMTable() {
	for idx := 0; idx < len(armDecode); idx++ {
		// the bits of the opcode visible through the index
		op := uint32(idx&0xff0)<<16 | uint32(idx&0xf)<<4

		armDecode[idx] = uint8(decodeARMEntry(op))
	}
}

func decodeARMEntry(op uint32) int {
	switch {
	case op&0x0f000000 == 0x0f000000:
		return armSoftwareInterrupt

	case op&0x0c000000 == 0x0c000000:
		// no coprocessors are fitted. all of CDP, LDC, STC, MCR and MRC
		// take the undefined instruction trap but are decoded separately
		// for the benefit of the log
		return armCoprocessor

	case op&0x0e000000 == 0x0a000000:
		return armBranch

	case op&0x0e000000 == 0x08000000:
		return armBlockDataTransfer

	case op&0x0e000010 == 0x06000010:
		// register offset form of single data transfer with bit 4 set is
		// the architecturally defined undefined instruction
		return armUndefined

	case op&0x0c000000 == 0x04000000:
		return armSingleDataTransfer

	case op&0x0fc000f0 == 0x00000090:
		return armMultiply

	case op&0x0f8000f0 == 0x00800090:
		return armMultiplyLong

	case op&0x0fb000f0 == 0x01000090:
		return armSingleDataSwap

	case op&0x0e000090 == 0x00000090:
		// the remaining 000 family opcodes with bits 7 and 4 set are the
		// halfword and signed transfers, distinguished by a non-zero SH
		// field
		if op&0x60 == 0x00 {
			return armUndefined
		}
		return armHalfwordDataTransfer

	case op&0x0c000000 == 0x00000000:
		// data processing, unless the opcode is a test operation with the S
		// bit clear. those encodings are the PSR transfers and BX
		dpOp := (op >> 21) & 0xf
		s := op&0x00100000 != 0x0

		if !s && dpOp >= 0x8 && dpOp <= 0xb {
			if op&0x0ff000f0 == 0x01200010 {
				return armBranchExchange
			}
			if op&0x02000000 == 0x0 {
				if dpOp&0x1 == 0x0 {
					return armMRS
				}
				if op&0xf0 == 0x0 {
					return armMSR
				}
				return armUndefined
			}
			if op&0x0fb00000 == 0x03200000 {
				return armMSR
			}
			return armUndefined
		}

		return armDataProcessing
	}

	return armUndefined
}

// buildThumbTable is the THUMB equivalent of buildARMTable. the match works
// backwards up the table in Figure 5-1 of the ARM7TDMI Data Sheet, the same
// way the formats are distinguished in the data sheet itself.
func buildThumbTable() {
	for idx := 0; idx < len(thumbDecode); idx++ {
		op := uint16(idx) << 6

		thumbDecode[idx] = uint8(decodeThumbEntry(op))
	}
}

func decodeThumbEntry(op uint16) int {
	switch {
	case op&0xf000 == 0xf000:
		return thumbLongBranchWithLink

	case op&0xf800 == 0xe000:
		return thumbUnconditionalBranch

	case op&0xff00 == 0xdf00:
		return thumbSoftwareInterrupt

	case op&0xf000 == 0xd000:
		return thumbConditionalBranch

	case op&0xf000 == 0xc000:
		return thumbMultipleLoadStore

	case op&0xf600 == 0xb400:
		return thumbPushPopRegisters

	case op&0xff00 == 0xb000:
		return thumbAddOffsetToSP

	case op&0xf000 == 0xa000:
		return thumbLoadAddress

	case op&0xf000 == 0x9000:
		return thumbSPrelativeLoadStore

	case op&0xf000 == 0x8000:
		return thumbLoadStoreHalfword

	case op&0xe000 == 0x6000:
		return thumbLoadStoreImmOffset

	case op&0xf200 == 0x5200:
		return thumbLoadStoreSignExtended

	case op&0xf200 == 0x5000:
		return thumbLoadStoreRegisterOffset

	case op&0xf800 == 0x4800:
		return thumbPCrelativeLoad

	case op&0xfc00 == 0x4400:
		return thumbHiRegisterOps

	case op&0xfc00 == 0x4000:
		return thumbALUoperations

	case op&0xe000 == 0x2000:
		return thumbMovCmpAddSubImm

	case op&0xf800 == 0x1800:
		return thumbAddSubtract

	case op&0xe000 == 0x0000:
		return thumbMoveShiftedRegister
	}

	return thumbUndefined
}
