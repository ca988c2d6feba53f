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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. This is similar to
// the Errorf() function in the fmt package. It takes a formatting pattern,
// placeholder values and returns an error. The pattern is kept hold of,
// meaning that callers can test for a category of error with the Is() and
// Has() functions without string comparison of formatted messages.
//
//	e := curated.Errorf("rom: %v", err)
//
//	if curated.Is(e, "rom: %v") {
//		fmt.Println("true")
//	}
//
// The Has() function is similar to Is() but checks whether the pattern occurs
// somewhere in the error chain, rather than only at the head.
//
// The Error() function implementation for curated errors normalises the error
// chain, removing a duplicate of the first part when the second part repeats
// it; later parts are not compared. Parts of a chain are separated by
// the sub-string ': ' as suggested on p239 of "The Go Programming Language"
// (Donovan, Kernighan).
//
// Note that faults defined by the emulated hardware (undefined instructions,
// aborts) are never expressed as curated errors. Those are delivered to the
// emulated software through the exception mechanism of the CPU core. Only
// conditions the embedding program can do something about (a missing BIOS
// file, a failed audio device) surface this way.
package curated
