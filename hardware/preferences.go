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

package hardware

// Preferences for the console. The zero value is a working configuration
// with no audio output.
type Preferences struct {
	// the audio playback backend: "sdl", "oto" or "none". the empty string
	// means "none"
	AudioBackend string

	// echo the mixer output to a WAV file at this path. empty means no echo
	WAVEcho string
}

func (p Preferences) audioBackend() string {
	if p.AudioBackend == "" {
		return "none"
	}
	return p.AudioBackend
}
