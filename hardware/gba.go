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

import (
	"time"

	"github.com/jetsetilly/gopheradvance/curated"
	"github.com/jetsetilly/gopheradvance/hardware/arm7tdmi"
	"github.com/jetsetilly/gopheradvance/hardware/audio"
	"github.com/jetsetilly/gopheradvance/hardware/memory"
	"github.com/jetsetilly/gopheradvance/scheduler"
)

// the master clock of the console in Hz.
const CyclesPerSecond = 16777216

// GBA is the console.
type GBA struct {
	Scheduler *scheduler.Scheduler
	Mem       *memory.Bus
	CPU       *arm7tdmi.ARM
	Mixer     *audio.Mixer

	prefs    Preferences
	playback audio.Playback
	recorder *audio.Recorder

	// handle for the self-rescheduling CPU step event
	cpuEvent *scheduler.Event

	// set by Interrupt(). checked between scheduler runs
	interrupted bool
}

// NewGBA is the preferred method of initialisation for the GBA type. The
// bios argument may be empty.
func NewGBA(prefs Preferences, bios []uint8, rom []uint8) (*GBA, error) {
	mem, err := memory.NewBus(bios, rom)
	if err != nil {
		return nil, curated.Errorf("gba: %v", err)
	}

	gba := &GBA{
		Scheduler: scheduler.NewScheduler(),
		Mem:       mem,
		prefs:     prefs,
	}

	gba.CPU = arm7tdmi.NewARM(mem, mem)

	ring := audio.NewRingBuffer(audio.SampleRate / 8)
	gba.Mixer = audio.NewMixer(gba.Scheduler, ring)
	mem.AttachAudio(gba.Mixer)

	gba.playback, err = audio.NewPlayback(prefs.audioBackend(), ring)
	if err != nil {
		return nil, curated.Errorf("gba: %v", err)
	}

	if prefs.WAVEcho != "" {
		gba.recorder, err = audio.NewRecorder(prefs.WAVEcho)
		if err != nil {
			return nil, curated.Errorf("gba: %v", err)
		}
		gba.Mixer.SetRecorder(gba.recorder)
	}

	gba.Reset()

	return gba, nil
}

// Reset the console. The CPU is reset and then placed where the BIOS boot
// code would leave it, and the periodic audio events are primed.
func (gba *GBA) Reset() {
	gba.CPU.Reset()
	gba.Mixer.Reset()

	// the BIOS boot code is not run, whether or not a BIOS image was given.
	// start the way the BIOS would leave things: execution at the start of
	// cartridge space in System mode, stacks where the BIOS puts them
	gba.CPU.SetCPSR(uint32(arm7tdmi.ModeSystem))
	gba.CPU.SetRegisterOfMode(arm7tdmi.ModeIRQ, 13, 0x03007fa0)
	gba.CPU.SetRegisterOfMode(arm7tdmi.ModeSupervisor, 13, 0x03007fe0)
	gba.CPU.SetRegister(13, 0x03007f00)
	gba.CPU.SetRegister(15, 0x08000000)

	if gba.cpuEvent != nil {
		gba.Scheduler.Cancel(gba.cpuEvent)
	}
	gba.cpuEvent = gba.Scheduler.Add(0, gba.cpuStep, nil)
}

// cpuStep is the scheduler event that advances the CPU. the cost of the
// executed instruction, as measured by the bus, paces the reschedule.
func (gba *GBA) cpuStep(_ interface{}, cyclesLate int) {
	start := gba.Mem.Cycles()
	gba.CPU.Step()
	consumed := int(gba.Mem.Cycles() - start)

	// the reschedule delta must be positive or the scheduler never advances
	if consumed < 1 {
		consumed = 1
	}

	gba.cpuEvent = gba.Scheduler.Add(consumed-cyclesLate, gba.cpuStep, nil)
}

// Start the audio playback thread. Call once before the Run loop. Optional
// for embedders that only ever use RunForCycles.
func (gba *GBA) Start() error {
	return gba.playback.Start()
}

// RunForCycles runs the console for the specified number of cycles.
func (gba *GBA) RunForCycles(cycles uint64) {
	gba.Scheduler.RunUntil(gba.Scheduler.Now() + cycles)
}

// Run the console at the speed of the hardware until Interrupt() is called
// from another goroutine or from a CPU hook. There is no video to
// synchronise with so the pacing is against the wall clock, a sixtieth of a
// second at a time, with audio drift absorbed by the ring buffer.
func (gba *GBA) Run() error {
	const chunk = CyclesPerSecond / 60

	tck := time.NewTicker(time.Second / 60)
	defer tck.Stop()

	gba.interrupted = false
	for !gba.interrupted {
		<-tck.C
		gba.RunForCycles(chunk)
	}

	return nil
}

// Interrupt stops a Run() loop at the next chunk boundary.
func (gba *GBA) Interrupt() {
	gba.interrupted = true
}

// End the emulation, closing the audio thread and flushing any WAV echo to
// disk.
func (gba *GBA) End() error {
	gba.Mixer.Shutdown()

	err := gba.playback.Close()

	if gba.recorder != nil {
		if rerr := gba.recorder.Close(); rerr != nil && err == nil {
			err = rerr
		}
	}

	return err
}
