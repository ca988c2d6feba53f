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
	"github.com/jetsetilly/gopheradvance/scheduler"
)

// SampleRate of the mixer output in Hz.
const SampleRate = 32768

// the master clock of the console in Hz.
const cyclesPerSecond = 16777216

// cycles between output samples.
const sampleInterval = cyclesPerSecond / SampleRate

// cycles between frame sequencer steps. the sequencer runs at 512Hz.
const sequencerInterval = cyclesPerSecond / 512

// the depth of a DMA sound FIFO in samples.
const fifoDepth = 32

// fifo is one of the two DMA sound channels. samples arrive through the IO
// ports on the bus and drain at the output sample rate.
type fifo struct {
	buf   [fifoDepth]int8
	read  int
	write int
	count int

	// the sample currently at the output of the channel
	current int8
}

func (f *fifo) push(data uint8) {
	if f.count == fifoDepth {
		// hardware behaviour is to reset a FIFO that is pushed while full
		f.read = 0
		f.write = 0
		f.count = 0
		return
	}
	f.buf[f.write] = int8(data)
	f.write = (f.write + 1) % fifoDepth
	f.count++
}

func (f *fifo) pop() {
	if f.count == 0 {
		return
	}
	f.current = f.buf[f.read]
	f.read = (f.read + 1) % fifoDepth
	f.count--
}

// Mixer drains the DMA sound FIFOs into the ring buffer at a constant
// sample rate, paced by the scheduler.
type Mixer struct {
	sched *scheduler.Scheduler
	ring  *RingBuffer

	fifos [2]fifo

	// position of the 512Hz frame sequencer. the PSG envelopes it would
	// clock are not emulated but the sequencer keeps its place so that the
	// scheduler sees the same traffic as on hardware
	sequencerStep int

	// optional WAV echo of everything pushed to the ring
	recorder *Recorder

	// handles for the self-rescheduling events, for Shutdown()
	mixerEvent     *scheduler.Event
	sequencerEvent *scheduler.Event
}

// NewMixer is the preferred method of initialisation for the Mixer type.
func NewMixer(sched *scheduler.Scheduler, ring *RingBuffer) *Mixer {
	return &Mixer{
		sched: sched,
		ring:  ring,
	}
}

// Reset the mixer and begin the periodic mixing and sequencer events.
func (m *Mixer) Reset() {
	m.fifos[0] = fifo{}
	m.fifos[1] = fifo{}
	m.sequencerStep = 0

	if m.mixerEvent != nil {
		m.sched.Cancel(m.mixerEvent)
	}
	if m.sequencerEvent != nil {
		m.sched.Cancel(m.sequencerEvent)
	}

	m.mixerEvent = m.sched.Add(sampleInterval, m.StepMixer, nil)
	m.sequencerEvent = m.sched.Add(sequencerInterval, m.StepSequencer, nil)
}

// Shutdown cancels the periodic events.
func (m *Mixer) Shutdown() {
	m.sched.Cancel(m.mixerEvent)
	m.sched.Cancel(m.sequencerEvent)
	m.mixerEvent = nil
	m.sequencerEvent = nil
}

// SetRecorder attaches a WAV echo to the mixer output. A nil argument
// detaches.
func (m *Mixer) SetRecorder(rec *Recorder) {
	m.recorder = rec
}

// PushFIFO implements the memory.AudioFIFO interface. Channel 0 is FIFO A,
// channel 1 is FIFO B.
func (m *Mixer) PushFIFO(channel int, data uint8) {
	m.fifos[channel&0x1].push(data)
}

// StepMixer produces one output sample. It is a scheduler event handler and
// reschedules itself with the cyclesLate compensation that keeps the sample
// rate phase-stable.
func (m *Mixer) StepMixer(_ interface{}, cyclesLate int) {
	// the FIFO drain rate is tied to the timers on real hardware. with the
	// timer block outside the scope of the core the FIFOs drain at the
	// output sample rate
	m.fifos[0].pop()
	m.fifos[1].pop()

	// both channels to both speakers at half contribution each. the sample
	// is widened from the 8-bit DAC range
	sample := (int16(m.fifos[0].current) + int16(m.fifos[1].current)) << 6

	m.ring.Push(sample, sample)

	if m.recorder != nil {
		m.recorder.push(sample, sample)
	}

	m.mixerEvent = m.sched.Add(sampleInterval-cyclesLate, m.StepMixer, nil)
}

// StepSequencer advances the 512Hz frame sequencer. It is a scheduler event
// handler and reschedules itself with the cyclesLate compensation.
func (m *Mixer) StepSequencer(_ interface{}, cyclesLate int) {
	m.sequencerStep = (m.sequencerStep + 1) & 0x7

	m.sequencerEvent = m.sched.Add(sequencerInterval-cyclesLate, m.StepSequencer, nil)
}
