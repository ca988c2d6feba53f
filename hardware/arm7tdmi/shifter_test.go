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
	"testing"

	"github.com/jetsetilly/gopheradvance/test"
)

func TestShiftRoundTrip(t *testing.T) {
	// rotating a left-shifted value back by the same amount recovers the
	// low bits of the original value
	values := []uint32{0x00000001, 0xdeadbeef, 0x80000001, 0xffffffff}

	for _, v := range values {
		for amt := uint32(1); amt < 32; amt++ {
			l, _ := lsl(v, amt, false)
			r, _ := ror(l, amt, false, false)
			mask := uint32(0xffffffff) >> amt
			test.Equate(t, r&mask, v&mask)
		}
	}
}

func TestShiftBy32(t *testing.T) {
	// LSL by 32: result zero, carry is bit 0 of the value
	r, c := lsl(0x00000001, 32, false)
	test.Equate(t, r, 0)
	test.Equate(t, c, true)

	r, c = lsl(0xfffffffe, 32, true)
	test.Equate(t, r, 0)
	test.Equate(t, c, false)

	// LSR by 32: result zero, carry is bit 31 of the value
	r, c = lsr(0x80000000, 32, false, false)
	test.Equate(t, r, 0)
	test.Equate(t, c, true)

	r, c = lsr(0x7fffffff, 32, true, false)
	test.Equate(t, r, 0)
	test.Equate(t, c, false)

	// shifts of more than 32 clear both the result and the carry
	r, c = lsl(0xffffffff, 33, true)
	test.Equate(t, r, 0)
	test.Equate(t, c, false)

	r, c = lsr(0xffffffff, 33, true, false)
	test.Equate(t, r, 0)
	test.Equate(t, c, false)
}

func TestShiftAmountZero(t *testing.T) {
	// LSL by zero leaves value and carry untouched in both encodings
	r, c := lsl(0x1234, 0, true)
	test.Equate(t, r, 0x1234)
	test.Equate(t, c, true)

	// LSR by an immediate zero is the encoding of LSR #32; by a register
	// holding zero it leaves value and carry untouched
	r, c = lsr(0x80001234, 0, false, true)
	test.Equate(t, r, 0)
	test.Equate(t, c, true)

	r, c = lsr(0x80001234, 0, false, false)
	test.Equate(t, r, 0x80001234)
	test.Equate(t, c, false)

	// ASR by an immediate zero is the encoding of ASR #32: the result is
	// all sign bits
	r, c = asr(0x80000000, 0, false, true)
	test.Equate(t, r, 0xffffffff)
	test.Equate(t, c, true)

	r, c = asr(0x7fffffff, 0, false, true)
	test.Equate(t, r, 0)
	test.Equate(t, c, false)
}

func TestRotateRightExtended(t *testing.T) {
	// ROR by an immediate zero is the encoding of RRX
	r, c := ror(0x00000003, 0, false, true)
	test.Equate(t, r, 0x00000001)
	test.Equate(t, c, true)

	r, c = ror(0x00000002, 0, true, true)
	test.Equate(t, r, 0x80000001)
	test.Equate(t, c, false)
}

func TestRotateModulo(t *testing.T) {
	// rotates of more than 32 reduce modulo 32
	r, c := ror(0x000000f0, 36, false, false)
	test.Equate(t, r, 0x0000000f)
	test.Equate(t, c, false)

	// a rotate by a multiple of 32 leaves the value unchanged with the
	// carry holding bit 31
	r, c = ror(0x80000001, 32, false, false)
	test.Equate(t, r, 0x80000001)
	test.Equate(t, c, true)
}

func TestASRLargeAmounts(t *testing.T) {
	r, c := asr(0x80000000, 40, false, false)
	test.Equate(t, r, 0xffffffff)
	test.Equate(t, c, true)

	r, c = asr(0x40000000, 40, true, false)
	test.Equate(t, r, 0)
	test.Equate(t, c, false)
}
