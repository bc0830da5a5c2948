package rsc

// regChange records the prior value of a register cell so a step can be
// undone.
type regChange struct {
	reg   Reg
	prior uint32
}

// RegisterFile holds the nine named 32-bit registers. All mutation is
// journaled through the timeless engine (C2) so the emulator's cycle can
// be undone register by register.
type RegisterFile struct {
	cells   [numRegisters]uint32
	journal *Journal[regChange]
}

// NewRegisterFile returns a register file with every cell zeroed. Z is
// left at 0 rather than pre-seeded to 1: the emulator's cycle updates Z
// from ACC at the top of every cycle (§4.5, §9 option (b)), so no boot
// special-case is needed here.
func NewRegisterFile() *RegisterFile {
	return &RegisterFile{journal: NewJournal[regChange]()}
}

// Get returns the current value of reg.
func (rf *RegisterFile) Get(reg Reg) uint32 {
	return rf.cells[reg]
}

// Set journals reg's prior value, then writes val.
func (rf *RegisterFile) Set(reg Reg, val uint32) {
	rf.journal.AddChange(regChange{reg: reg, prior: rf.cells[reg]})
	rf.cells[reg] = val
}

// Transfer copies src into dst, journaling dst's prior value.
func (rf *RegisterFile) Transfer(src, dst Reg) {
	rf.Set(dst, rf.Get(src))
}

// StepForward advances the register journal by one step.
func (rf *RegisterFile) StepForward() {
	rf.journal.StepForward()
}

// Step returns the current journal step counter.
func (rf *RegisterFile) Step() int {
	return rf.journal.Step()
}

// StepBackward undoes the most recent step's register writes, restoring
// them in reverse order of insertion. It returns true iff any register
// was actually restored.
func (rf *RegisterFile) StepBackward() bool {
	bucket, ok := rf.journal.StepBackward()
	if !ok {
		return false
	}
	for i := len(bucket) - 1; i >= 0; i-- {
		c := bucket[i]
		rf.cells[c.reg] = c.prior
	}
	return len(bucket) > 0
}
