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
	"github.com/ebitengine/oto/v3"

	"github.com/jetsetilly/gopheradvance/curated"
)

// otoPlayback outputs sound through the oto library. oto pulls samples
// through the io.Reader interface on its own thread; the reader drains the
// ring buffer.
type otoPlayback struct {
	ring *RingBuffer

	ctx    *oto.Context
	player *oto.Player
}

func newOtoPlayback(ring *RingBuffer) (Playback, error) {
	op := &oto.NewContextOptions{
		SampleRate:   SampleRate,
		ChannelCount: 2,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, curated.Errorf("audio: oto: %v", err)
	}
	<-ready

	p := &otoPlayback{
		ring: ring,
		ctx:  ctx,
	}
	p.player = ctx.NewPlayer(p)

	return p, nil
}

// Read implements the io.Reader interface that oto pulls samples through.
func (p *otoPlayback) Read(b []byte) (int, error) {
	// four bytes per stereo pair
	n := len(b) &^ 0x3

	for i := 0; i < n; i += 4 {
		left, right := p.ring.Pull()
		b[i] = byte(left)
		b[i+1] = byte(uint16(left) >> 8)
		b[i+2] = byte(right)
		b[i+3] = byte(uint16(right) >> 8)
	}

	return n, nil
}

func (p *otoPlayback) Start() error {
	p.player.Play()
	return nil
}

func (p *otoPlayback) Close() error {
	return p.player.Close()
}
