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

package audio_test

import (
	"testing"

	"github.com/jetsetilly/gopheradvance/hardware/audio"
	"github.com/jetsetilly/gopheradvance/test"
)

func TestRingBuffer(t *testing.T) {
	ring := audio.NewRingBuffer(2)

	// an empty ring pulls silence
	l, r := ring.Pull()
	test.Equate(t, l, int16(0))
	test.Equate(t, r, int16(0))

	ring.Push(1, 2)
	ring.Push(3, 4)
	test.Equate(t, ring.Level(), 2)

	// the ring is full. this sample is dropped
	ring.Push(5, 6)
	test.Equate(t, ring.Level(), 2)

	l, r = ring.Pull()
	test.Equate(t, l, int16(1))
	test.Equate(t, r, int16(2))

	l, r = ring.Pull()
	test.Equate(t, l, int16(3))
	test.Equate(t, r, int16(4))

	test.Equate(t, ring.Level(), 0)
}
