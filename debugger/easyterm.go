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

package debugger

import (
	"os"
	"syscall"

	"github.com/pkg/term/termios"

	"github.com/jetsetilly/gopheradvance/curated"
)

// terminal wraps the posix terminal attributes needed by the monitor: a
// cbreak mode for single keypress commands and the means of restoring the
// canonical mode afterwards.
type terminal struct {
	input *os.File

	canAttr    syscall.Termios
	cbreakAttr syscall.Termios
}

func (pt *terminal) initialise(input *os.File) error {
	if input == nil {
		return curated.Errorf("debugger: terminal requires an input file")
	}
	pt.input = input

	if err := termios.Tcgetattr(pt.input.Fd(), &pt.canAttr); err != nil {
		return curated.Errorf("debugger: %v", err)
	}

	pt.cbreakAttr = pt.canAttr
	termios.Cfmakecbreak(&pt.cbreakAttr)

	return nil
}

// cbreakMode puts the terminal into cbreak mode: input is available
// keypress by keypress, without echo.
func (pt *terminal) cbreakMode() {
	termios.Tcsetattr(pt.input.Fd(), termios.TCIFLUSH, &pt.cbreakAttr)
}

// canonicalMode restores the terminal to the mode it was found in.
func (pt *terminal) canonicalMode() {
	termios.Tcsetattr(pt.input.Fd(), termios.TCIFLUSH, &pt.canAttr)
}

// readKey blocks until the next keypress.
func (pt *terminal) readKey() (byte, error) {
	b := make([]byte, 1)
	n, err := pt.input.Read(b)
	if err != nil || n != 1 {
		return 0, curated.Errorf("debugger: %v", err)
	}
	return b[0], nil
}
