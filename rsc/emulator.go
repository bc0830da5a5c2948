package rsc

// Emulator realizes the RSC fetch-decode-execute cycle at the
// register-transfer level described in §4.5: every assignment the
// microcode performs is a journaled register or memory write, so a
// single Cycle is exactly one reversible step.
type Emulator struct {
	Regs *RegisterFile
	Mem  *Memory
}

// NewEmulator constructs an emulator over a fresh register file and a
// memory preloaded from prog's instruction image. The caller is
// expected to have checked prog.Runnable() first (§7).
func NewEmulator(prog Program) *Emulator {
	return &Emulator{
		Regs: NewRegisterFile(),
		Mem:  NewMemory(prog.Instructions),
	}
}

// Halted reports whether the machine has executed HALT (S == 1).
func (e *Emulator) Halted() bool {
	return e.Regs.Get(RegS) == 1
}

// Cycle performs one full fetch-decode-execute step and advances both
// journals forward. It does not check Halted: callers (the debugger's
// stepi/run/step_over) are responsible for the halt and breakpoint
// gating described in §4.5/§4.6.
func (e *Emulator) Cycle() {
	r, m := e.Regs, e.Mem

	// 1. Update Z ahead of decode, so JMPZ observes the immediately
	// preceding arithmetic instead of a stale value (§9 option (b)).
	if r.Get(RegACC) == 0 {
		r.Set(RegZ, 1)
	} else {
		r.Set(RegZ, 0)
	}

	// 2. Fetch.
	r.Transfer(RegPC, RegAR)
	r.Set(RegDR, m.Get(r.Get(RegAR)))
	r.Set(RegPC, r.Get(RegPC)+1)
	r.Transfer(RegDR, RegIR)
	r.Transfer(RegPC, RegAR) // pre-load AR for a possible operand fetch

	// 3. Decode: low nibble of IR is the opcode.
	op := Opcode(r.Get(RegIR) & 0xF)

	// 4. Execute.
	switch op {
	case OpHALT:
		r.Set(RegS, 1)

	case OpLDAC:
		r.Set(RegDR, m.Get(r.Get(RegAR)))
		r.Set(RegPC, r.Get(RegPC)+1)
		r.Transfer(RegDR, RegAR)
		r.Set(RegDR, m.Get(r.Get(RegAR)))
		r.Transfer(RegDR, RegACC)

	case OpSTAC:
		r.Set(RegDR, m.Get(r.Get(RegAR)))
		r.Set(RegPC, r.Get(RegPC)+1)
		r.Transfer(RegDR, RegAR)
		r.Transfer(RegACC, RegDR)
		m.Set(r.Get(RegAR), r.Get(RegDR))

	case OpMVAC:
		r.Transfer(RegACC, RegR)

	case OpMOVR:
		r.Transfer(RegR, RegACC)

	case OpJMP:
		r.Set(RegDR, m.Get(r.Get(RegAR)))
		r.Transfer(RegDR, RegPC)

	case OpJMPZ:
		if r.Get(RegZ) == 1 {
			r.Set(RegDR, m.Get(r.Get(RegAR)))
			r.Transfer(RegDR, RegPC)
		} else {
			r.Set(RegPC, r.Get(RegPC)+1)
		}

	case OpOUT:
		r.Transfer(RegACC, RegOUTR)

	case OpSUB:
		r.Set(RegACC, r.Get(RegACC)-r.Get(RegR))

	case OpADD:
		r.Set(RegACC, r.Get(RegACC)+r.Get(RegR))

	case OpINC:
		r.Set(RegACC, r.Get(RegACC)+1)

	case OpCLAC:
		r.Set(RegACC, 0)

	case OpAND:
		r.Set(RegACC, r.Get(RegACC)&r.Get(RegR))

	case OpOR:
		r.Set(RegACC, r.Get(RegACC)|r.Get(RegR))

	case OpASHR:
		r.Set(RegACC, r.Get(RegACC)>>1)

	case OpNOT:
		r.Set(RegACC, ^r.Get(RegACC))
	}

	// 5. Step the journals forward.
	r.StepForward()
	m.StepForward()
}

// StepBackward undoes the most recent Cycle, restoring both the
// register file and memory to their pre-cycle state. It returns true
// iff either journal restored at least one recorded value.
func (e *Emulator) StepBackward() bool {
	restoredRegs := e.Regs.StepBackward()
	restoredMem := e.Mem.StepBackward()
	return restoredRegs || restoredMem
}
