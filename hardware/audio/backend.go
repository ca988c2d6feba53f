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

import "github.com/jetsetilly/gopheradvance/curated"

// Playback is the interface shared by the audio output backends. a backend
// owns the platform audio thread and drains the ring buffer it was created
// with.
type Playback interface {
	Start() error
	Close() error
}

// NewPlayback creates the named playback backend: "sdl", "oto" or "none".
func NewPlayback(backend string, ring *RingBuffer) (Playback, error) {
	switch backend {
	case "sdl":
		return newSDLPlayback(ring)
	case "oto":
		return newOtoPlayback(ring)
	case "none":
		return &headlessPlayback{}, nil
	}
	return nil, curated.Errorf("audio: unknown playback backend (%s)", backend)
}

// headlessPlayback discards everything. the ring buffer simply fills and
// starts dropping samples, which is fine because nobody is listening.
type headlessPlayback struct{}

func (p *headlessPlayback) Start() error {
	return nil
}

func (p *headlessPlayback) Close() error {
	return nil
}
