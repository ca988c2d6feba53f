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

//go:build !statsview

// Package statsview is a wrapper around the statsview runtime monitor. The
// monitor adds a noticeable amount of baggage to the binary so it is only
// included when the statsview build tag is specified.
package statsview

import "io"

// Address of the statsview server. Empty when the build does not include
// the statsview.
const Address = ""

// Launch is a stub. Builds without the statsview tag have nothing to
// launch.
func Launch(output io.Writer) {
}

// Available returns true if a statsview is available to launch.
func Available() bool {
	return false
}
