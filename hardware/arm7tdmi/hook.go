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

package arm7tdmi

// HookKind distinguishes the events delivered to an attached Hook.
type HookKind int

// List of HookKind values.
const (
	// an instruction is about to execute. PC and Thumb fields are valid
	HookExecute HookKind = iota

	// a software interrupt is about to be taken. Comment field is valid
	HookSWI

	// the IRQ exception is being entered
	HookIRQEnter

	// an instruction restored CPSR from SPSR_svc, ending a SWI handler
	HookSWIReturn

	// an instruction restored CPSR from SPSR_irq, ending an IRQ handler
	HookIRQReturn

	// a subroutine call (BL or BX to a non-link register). Target is valid
	HookCall

	// a subroutine return (BX lr, MOV pc,lr, or an LDM or POP that loads
	// r15). a single LDR into r15 is not reported
	HookReturn
)

// HookEvent is the argument to the Hook callback. Only the fields named by
// the HookKind documentation are meaningful for any given event.
type HookEvent struct {
	Kind    HookKind
	PC      uint32
	Thumb   bool
	Comment uint32
	Target  uint32
}

// Hook receives notification of CPU events. The hook may read CPU state
// during delivery but must not mutate it. Attempts to re-enter the CPU from
// inside the hook (by calling Step()) are detected and ignored.
type Hook interface {
	CPUEvent(HookEvent)
}

// SetHook attaches a Hook to the CPU. A nil argument detaches.
func (arm *ARM) SetHook(hook Hook) {
	arm.hook = hook
}

func (arm *ARM) deliverHook(e HookEvent) {
	if arm.hook == nil || arm.hookGuard {
		return
	}

	e.Thumb = arm.cpsr.thumb

	arm.hookGuard = true
	arm.hook.CPUEvent(e)
	arm.hookGuard = false
}
