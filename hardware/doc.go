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

// Package hardware ties the emulated console together: the scheduler, the
// memory bus, the CPU and the audio mixer. The GBA type owns all of them and
// is the only type an embedder needs to run a program.
//
// Everything inside the console is paced by the scheduler. The CPU step is
// itself a scheduler event: it executes one instruction, measures the cycles
// the instruction consumed on the bus and reschedules itself that many
// cycles into the future. Devices with earlier timestamps (the audio mixer,
// in this package's scope) therefore pre-empt the CPU with cycle accuracy.
package hardware
