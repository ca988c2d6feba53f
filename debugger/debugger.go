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

// Package debugger is a single keypress monitor for the emulated console.
// It is deliberately slight: step, run-a-chunk, registers, scheduler state,
// log tail and a graph dump of the machine for offline inspection.
//
// All memory inspection goes through the Debug access hint so that looking
// at the machine never disturbs its timing.
package debugger

import (
	"fmt"
	"os"

	"github.com/bradleyjkemp/memviz"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware"
	"github.com/jetsetilly/gopheradvance/hardware/arm7tdmi"
	"github.com/jetsetilly/gopheradvance/logger"
)

// the file the machine graph is written to by the 'v' command.
const vizFilename = "gopheradvance.dot"

// Debugger is the single keypress monitor.
type Debugger struct {
	gba  *hardware.GBA
	term terminal

	// instructions executed since the debugger attached
	steps int
}

// NewDebugger is the preferred method of initialisation for the Debugger
// type.
func NewDebugger(gba *hardware.GBA) (*Debugger, error) {
	dbg := &Debugger{
		gba: gba,
	}

	if err := dbg.term.initialise(os.Stdin); err != nil {
		return nil, err
	}

	return dbg, nil
}

// Run the monitor loop until the quit key is pressed.
func (dbg *Debugger) Run() error {
	dbg.term.cbreakMode()
	defer dbg.term.canonicalMode()

	fmt.Println("s step / c run 1/60s / r registers / e scheduler / l log / v graph / q quit")
	dbg.printState()

	for {
		k, err := dbg.term.readKey()
		if err != nil {
			return err
		}

		switch k {
		case 's', ' ':
			dbg.step()
		case 'c':
			dbg.gba.RunForCycles(hardware.CyclesPerSecond / 60)
			dbg.printState()
		case 'r':
			fmt.Println(dbg.gba.CPU.String())
		case 'e':
			fmt.Printf("cycle %d, %d events pending\n", dbg.gba.Scheduler.Now(), dbg.gba.Scheduler.Pending())
		case 'l':
			logger.Tail(os.Stdout, 10)
		case 'v':
			if err := dbg.writeViz(); err != nil {
				fmt.Println(err)
			}
		case 'q':
			return nil
		}
	}
}

// step a single instruction by running the scheduler to the next CPU event.
// the scheduler granularity means other device events fire on the way, the
// same as they would at full speed.
func (dbg *Debugger) step() {
	// the visible PC moves on every instruction except a branch to itself.
	// the cycle bound covers the slowest possible instruction either way
	pc := dbg.gba.CPU.Register(15)
	for i := 0; i < 100 && dbg.gba.CPU.Register(15) == pc; i++ {
		dbg.gba.RunForCycles(1)
	}
	dbg.steps++
	dbg.printState()
}

func (dbg *Debugger) printState() {
	pc := dbg.gba.CPU.Register(15)

	thumb := dbg.gba.CPU.CPSR()&(1<<5) != 0
	if thumb {
		opcode := dbg.gba.Mem.ReadHalf(pc-4, arm7tdmi.Debug)
		fmt.Printf("[%10d] %08x: %04x     %s\n", dbg.gba.Scheduler.Now(), pc-4, opcode, dbg.gba.CPU.StatusString())
		return
	}

	opcode := dbg.gba.Mem.ReadWord(pc-8, arm7tdmi.Debug)
	fmt.Printf("[%10d] %08x: %08x %s\n", dbg.gba.Scheduler.Now(), pc-8, opcode, dbg.gba.CPU.StatusString())
}

// writeViz dumps the object graph of the machine to a graphviz file.
func (dbg *Debugger) writeViz() error {
	f, err := os.Create(vizFilename)
	if err != nil {
		return curated.Errorf("debugger: %v", err)
	}
	defer f.Close()

	memviz.Map(f, dbg.gba.CPU)
	fmt.Printf("machine graph written to %s\n", vizFilename)

	return nil
}
