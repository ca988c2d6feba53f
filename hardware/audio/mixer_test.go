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
	"github.com/jetsetilly/gopheradvance/scheduler"
	"github.com/jetsetilly/gopheradvance/test"
)

func TestMixerSampleRate(t *testing.T) {
	sch := scheduler.NewScheduler()
	ring := audio.NewRingBuffer(audio.SampleRate)

	mix := audio.NewMixer(sch, ring)
	mix.Reset()

	// one emulated second produces one second of samples
	sch.RunUntil(16777216)
	test.Equate(t, ring.Level(), audio.SampleRate)
}

func TestMixerPhaseStability(t *testing.T) {
	sch := scheduler.NewScheduler()
	ring := audio.NewRingBuffer(64)

	mix := audio.NewMixer(sch, ring)
	mix.Reset()

	// run in awkwardly sized chunks. the ring is small and drained after
	// every chunk so the sample count isn't disturbed by overruns
	var total int
	var deadline uint64
	for i := 0; i < 100; i++ {
		deadline += 16127 // a prime-ish chunk, not a multiple of the interval
		sch.RunUntil(deadline)
		for ring.Level() > 0 {
			ring.Pull()
			total++
		}
	}

	// 100 * 16127 cycles at one sample per 512 cycles
	test.Equate(t, total, int(deadline/512))
}

func TestMixerFIFO(t *testing.T) {
	sch := scheduler.NewScheduler()
	ring := audio.NewRingBuffer(16)

	mix := audio.NewMixer(sch, ring)
	mix.Reset()

	// a sample pushed to FIFO A appears, scaled, at the output
	mix.PushFIFO(0, 0x40)

	sch.RunUntil(512)
	l, _ := ring.Pull()
	test.Equate(t, l, int16(0x40)<<6)
}

func TestMixerShutdown(t *testing.T) {
	sch := scheduler.NewScheduler()
	ring := audio.NewRingBuffer(16)

	mix := audio.NewMixer(sch, ring)
	mix.Reset()
	mix.Shutdown()

	sch.RunUntil(16777216)
	test.Equate(t, ring.Level(), 0)
}
