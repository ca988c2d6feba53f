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

// Package audio is the sound path of the emulator. The Mixer runs on the
// emulation goroutine, paced by the scheduler; it drains the two DMA sound
// FIFOs into a ring of stereo samples. A playback backend runs on its own
// thread (owned by the platform audio library) and drains the ring.
//
// The ring buffer is the only piece of state shared between the two threads
// and it is protected by a single mutex, held only across one enqueue or
// dequeue.
//
// Synthesis of the four PSG tone channels is not attempted. The frame
// sequencer that would clock their envelopes still runs, keeping the
// scheduler traffic of the real hardware.
package audio
