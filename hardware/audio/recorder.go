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
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/logger"
)

// Recorder echoes the mixer output to a WAV file. Note that audio data is
// buffered in memory in its entirety and written to disk on Close(). It is
// therefore probably only suitable for testing purposes.
type Recorder struct {
	filename string
	buffer   []int
}

// NewRecorder is the preferred method of initialisation for the Recorder
// type.
func NewRecorder(filename string) (*Recorder, error) {
	return &Recorder{
		filename: filename,
		buffer:   make([]int, 0),
	}, nil
}

// push is called by the mixer for every output sample pair.
func (rec *Recorder) push(left, right int16) {
	rec.buffer = append(rec.buffer, int(left), int(right))
}

// Close writes the buffered audio to disk.
func (rec *Recorder) Close() (rerr error) {
	f, err := os.Create(rec.filename)
	if err != nil {
		return curated.Errorf("recorder: %v", err)
	}
	defer func() {
		if err := f.Close(); err != nil && rerr == nil {
			rerr = curated.Errorf("recorder: %v", err)
		}
	}()

	enc := wav.NewEncoder(f, SampleRate, 16, 2, 1)

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 2,
			SampleRate:  SampleRate,
		},
		Data:           rec.buffer,
		SourceBitDepth: 16,
	}

	logger.Logf("recorder", "writing audio to %s", rec.filename)

	if err := enc.Write(buf); err != nil {
		return curated.Errorf("recorder: %v", err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf("recorder: %v", err)
	}

	return nil
}
