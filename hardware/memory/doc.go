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

// Package memory implements the memory bus of the Game Boy Advance: address
// decoding for the BIOS, work RAM, IO, video and cartridge regions; the
// per-region access timing that the CPU's AccessHint values select between;
// and the small set of IO registers the execution core depends on (the
// interrupt controller and the sound FIFO ports).
//
// The bus is the cycle accountant for the whole console. Every access adds
// the appropriate number of cycles to a running counter, which the console
// reads to pace the CPU against the scheduler.
package memory
