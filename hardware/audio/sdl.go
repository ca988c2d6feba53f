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

package audio

import (
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/jetsetilly/gopheradvance/curated"
)

// the number of stereo pairs queued to the device per flush. not critical,
// but too large adds latency and too small burns CPU in the flush loop.
const sdlBufferLength = 512

// sdlPlayback outputs sound through SDL. a goroutine wakes at the buffer
// rate, drains the ring and queues the samples on the device.
type sdlPlayback struct {
	ring *RingBuffer

	id   sdl.AudioDeviceID
	spec sdl.AudioSpec

	quit chan bool
}

func newSDLPlayback(ring *RingBuffer) (Playback, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, curated.Errorf("audio: sdl: %v", err)
	}

	p := &sdlPlayback{
		ring: ring,
		quit: make(chan bool),
	}

	spec := &sdl.AudioSpec{
		Freq:     SampleRate,
		Format:   sdl.AUDIO_S16LSB,
		Channels: 2,
		Samples:  uint16(sdlBufferLength),
	}

	var err error
	var actualSpec sdl.AudioSpec

	p.id, err = sdl.OpenAudioDevice("", false, spec, &actualSpec, 0)
	if err != nil {
		return nil, curated.Errorf("audio: sdl: %v", err)
	}
	p.spec = actualSpec

	return p, nil
}

func (p *sdlPlayback) Start() error {
	sdl.PauseAudioDevice(p.id, false)

	go func() {
		buf := make([]int16, sdlBufferLength*2)
		rate := time.Duration(float64(time.Second) * float64(sdlBufferLength) / float64(SampleRate))
		tck := time.NewTicker(rate)
		defer tck.Stop()

		for {
			select {
			case <-p.quit:
				return
			case <-tck.C:
			}

			for i := 0; i < len(buf); i += 2 {
				buf[i], buf[i+1] = p.ring.Pull()
			}

			b := unsafe.Slice((*byte)(unsafe.Pointer(&buf[0])), len(buf)*2)
			_ = sdl.QueueAudio(p.id, b)
		}
	}()

	return nil
}

func (p *sdlPlayback) Close() error {
	close(p.quit)
	sdl.CloseAudioDevice(p.id)
	return nil
}
