package rsc

import (
	"context"
	"errors"
	"time"
)

// ErrProgramNotRunnable is returned by NewDebugger when the assembled
// program carries diagnostics; a program with errors may still be
// inspected (instructions, line map) but must never be executed (§7).
var ErrProgramNotRunnable = errors.New("rsc: program has assembly errors and cannot be run")

// defaultIPS is the debugger's instructions-per-second pacing value
// before any caller adjusts it (§4.6).
const defaultIPS = 5

// State is the execution state machine observed by the shell (§4.6).
type State int

const (
	StateStart State = iota
	StateRunning
	StatePaused
	StateStepping
	StateBreakpointHit
	StateHalted
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "Start"
	case StateRunning:
		return "Running"
	case StatePaused:
		return "Paused"
	case StateStepping:
		return "Stepping"
	case StateBreakpointHit:
		return "BreakpointHit"
	case StateHalted:
		return "Halted"
	default:
		return "?state?"
	}
}

// Debugger wraps an Emulator with breakpoints, paced run/pause control,
// and the time-reversal operations the shell drives. It is the sole
// owner of the emulator, which is the sole owner of the register file
// and memory (§3 ownership).
type Debugger struct {
	emu         *Emulator
	program     Program
	breakpoints map[uint32]bool
	ips         int
	state       State
}

// NewDebugger constructs a debugger over prog. It refuses a program
// that carries assembly errors: such a program may still be inspected
// through Program(), but must not be executed.
func NewDebugger(prog Program) (*Debugger, error) {
	if !prog.Runnable() {
		return nil, ErrProgramNotRunnable
	}
	return &Debugger{
		emu:         NewEmulator(prog),
		program:     prog,
		breakpoints: make(map[uint32]bool),
		ips:         defaultIPS,
		state:       StateStart,
	}, nil
}

// Program returns the assembled program the debugger was built from.
func (d *Debugger) Program() Program {
	return d.program
}

// State returns the current execution state.
func (d *Debugger) State() State {
	return d.state
}

// IPS returns the current pacing value used by Run.
func (d *Debugger) IPS() int {
	return d.ips
}

// SetIPS adjusts the pacing value used by Run. Values below 1 are
// clamped to 1 to keep the tick interval finite.
func (d *Debugger) SetIPS(ips int) {
	if ips < 1 {
		ips = 1
	}
	d.ips = ips
}

// SetBreakpoint arms a breakpoint at addr.
func (d *Debugger) SetBreakpoint(addr uint32) {
	d.breakpoints[addr] = true
}

// RemoveBreakpoint disarms a breakpoint at addr, reporting whether one
// was armed. Removing a non-existent breakpoint is not an error (§7).
func (d *Debugger) RemoveBreakpoint(addr uint32) bool {
	if !d.breakpoints[addr] {
		return false
	}
	delete(d.breakpoints, addr)
	return true
}

// QueryBreakpoint reports whether addr currently has an armed
// breakpoint. Querying a non-existent breakpoint is not an error.
func (d *Debugger) QueryBreakpoint(addr uint32) bool {
	return d.breakpoints[addr]
}

// ReadReg is a read-only accessor for the view layer.
func (d *Debugger) ReadReg(reg Reg) uint32 {
	return d.emu.Regs.Get(reg)
}

// ReadMem is a read-only accessor for the view layer.
func (d *Debugger) ReadMem(addr uint32) uint32 {
	return d.emu.Mem.Get(addr)
}

// atBreakpoint reports whether PC currently sits on an armed
// breakpoint.
func (d *Debugger) atBreakpoint() bool {
	return d.breakpoints[d.emu.Regs.Get(RegPC)]
}

// Stepi advances at most n forward cycles, stopping early if the
// machine halts or an armed breakpoint fires at the current PC.
func (d *Debugger) Stepi(n int) {
	for i := 0; i < n; i++ {
		if d.emu.Halted() {
			d.state = StateHalted
			return
		}
		if d.atBreakpoint() {
			d.state = StateBreakpointHit
			return
		}
		d.emu.Cycle()
		if d.emu.Halted() {
			d.state = StateHalted
			return
		}
	}
	d.state = StateStepping
}

// Backi rewinds at most n cycles, each undoing one register-file and
// memory step. It stops early once the journal is exhausted and never
// underflows past the initial state.
func (d *Debugger) Backi(n int) {
	for i := 0; i < n; i++ {
		restoredRegs := d.emu.Regs.StepBackward()
		restoredMem := d.emu.Mem.StepBackward()
		if !restoredRegs && !restoredMem {
			break
		}
	}
	if d.emu.Regs.Step() == 0 && d.emu.Mem.Step() == 0 {
		d.state = StateStart
	} else {
		d.state = StateStepping
	}
}

// StepOver performs exactly one forward cycle, unconditionally, except
// that it never cycles past halt (§9 open question). It exists to
// escape the breakpoint currently sitting at PC.
func (d *Debugger) StepOver() {
	if d.emu.Halted() {
		d.state = StateHalted
		return
	}
	d.emu.Cycle()
	if d.emu.Halted() {
		d.state = StateHalted
	} else {
		d.state = StateStepping
	}
}

// Restart backward-steps repeatedly until both the register file and
// memory journals are exhausted, returning the machine to its initial
// execution state.
func (d *Debugger) Restart() {
	for {
		restoredRegs := d.emu.Regs.StepBackward()
		restoredMem := d.emu.Mem.StepBackward()
		if !restoredRegs && !restoredMem {
			break
		}
	}
	d.state = StateStart
}

// Run paces forward execution at 1/IPS seconds per cycle using a
// monotonic clock, sleeping briefly between ticks to cede the CPU. It
// stops when the machine halts, an armed breakpoint fires, or ctx is
// canceled — the host's pause request observed at the next tick
// boundary, per §5's cooperative cancellation model.
func (d *Debugger) Run(ctx context.Context) {
	d.state = StateRunning

	tick := time.Second / time.Duration(d.ips)
	last := time.Now()
	var acc time.Duration

	for {
		select {
		case <-ctx.Done():
			d.state = StatePaused
			return
		default:
		}
		if d.emu.Halted() {
			d.state = StateHalted
			return
		}
		if d.atBreakpoint() {
			d.state = StateBreakpointHit
			return
		}

		now := time.Now()
		acc += now.Sub(last)
		last = now

		if acc >= tick {
			acc -= tick
			d.emu.Cycle()
			continue
		}
		time.Sleep(time.Millisecond)
	}
}
