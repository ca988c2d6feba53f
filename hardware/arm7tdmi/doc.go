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

// Package arm7tdmi implements the ARM7TDMI processor at the heart of the
// Game Boy Advance. Both instruction sets are supported: the 32-bit ARM set
// and the 16-bit THUMB set, selected by the T bit of CPSR and by the BX
// instruction.
//
// The emulation is an interpreter. Instructions are decoded through flat
// lookup tables built once at package initialisation, one entry per
// distinguishable bit pattern, each entry naming the handler for the
// instruction family. The three-stage pipeline of the real processor is
// modelled far enough for the two visible effects: the prefetch value of r15
// (instruction address +8 in ARM, +4 in THUMB) and the refill cost after any
// write to r15.
//
// The processor is connected to the outside world through the MemoryBus and
// InterruptBus interfaces. Every bus access carries an AccessHint so that the
// bus can account for non-sequential and sequential access timing. The Debug
// hint bypasses timing and side effects and is for debugger use only.
package arm7tdmi
