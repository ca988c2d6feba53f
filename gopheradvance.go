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

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/jetsetilly/gopheradvance/debugger"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/logger"
	"github.com/jetsetilly/gopheradvance/statsview"
)

func main() {
	audioBackend := flag.String("audio", "sdl", "audio playback backend: sdl, oto or none")
	biosPath := flag.String("bios", "", "path to a BIOS image (optional)")
	wavEcho := flag.String("wav", "", "echo audio output to a WAV file")
	logEcho := flag.Bool("log", false, "echo log entries to stderr as they arrive")
	useDebugger := flag.Bool("debug", false, "start the single keypress monitor")
	useStatsview := flag.Bool("statsview", false, "run the statsview server (requires the statsview build tag)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s [flags] <rom file>\n", os.Args[0])
		flag.PrintDefaults()
		os.Exit(10)
	}

	if *logEcho {
		logger.SetEcho(os.Stderr)
	}

	if *useStatsview {
		if statsview.Available() {
			statsview.Launch(os.Stdout)
		} else {
			fmt.Println("no statsview in this build. rebuild with the statsview tag")
		}
	}

	err := run(flag.Arg(0), *biosPath, hardware.Preferences{
		AudioBackend: *audioBackend,
		WAVEcho:      *wavEcho,
	}, *useDebugger)

	if err != nil {
		fmt.Fprintf(os.Stderr, "* %v\n", err)
		logger.Tail(os.Stderr, 10)
		os.Exit(10)
	}
}

func run(romPath string, biosPath string, prefs hardware.Preferences, useDebugger bool) error {
	rom, err := os.ReadFile(romPath)
	if err != nil {
		return err
	}

	var bios []uint8
	if biosPath != "" {
		bios, err = os.ReadFile(biosPath)
		if err != nil {
			return err
		}
	}

	gba, err := hardware.NewGBA(prefs, bios, rom)
	if err != nil {
		return err
	}
	defer gba.End()

	if useDebugger {
		dbg, err := debugger.NewDebugger(gba)
		if err != nil {
			return err
		}
		return dbg.Run()
	}

	if err := gba.Start(); err != nil {
		return err
	}

	// ctrl-c ends the emulation cleanly so that any WAV echo is flushed
	intr := make(chan os.Signal, 1)
	signal.Notify(intr, os.Interrupt)
	go func() {
		<-intr
		gba.Interrupt()
	}()

	return gba.Run()
}
