package rsc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmulatorHaltImmediately(t *testing.T) {
	prog := Assemble("HALT\n")
	require.True(t, prog.Runnable())

	emu := NewEmulator(prog)
	emu.Cycle()

	require.True(t, emu.Halted())
	require.Equal(t, uint32(1), emu.Regs.Get(RegS))
	require.Equal(t, uint32(1), emu.Regs.Get(RegPC))
}

func TestEmulatorIncrementLoop(t *testing.T) {
	prog := Assemble("start: INC\n       JMP start\n")
	require.True(t, prog.Runnable())

	emu := NewEmulator(prog)
	for i := 0; i < 6; i++ {
		emu.Cycle()
	}

	require.Equal(t, uint32(3), emu.Regs.Get(RegACC))
	require.Equal(t, uint32(0), emu.Regs.Get(RegPC))
}

func TestEmulatorLoadStoreVariable(t *testing.T) {
	prog := Assemble("LDAC x\nSTAC y\nHALT\nx: 0000002A\ny: 00000000\n")
	require.True(t, prog.Runnable())

	emu := NewEmulator(prog)
	for !emu.Halted() {
		emu.Cycle()
	}

	yAddr := prog.SymbolMap["y"]
	require.Equal(t, uint32(0x2A), emu.Mem.Get(yAddr))
	require.Equal(t, uint32(0x2A), emu.Regs.Get(RegACC))
	require.True(t, emu.Halted())
}

func TestEmulatorConditionalJumpOnZeroSkipsIncrement(t *testing.T) {
	prog := Assemble("CLAC\nJMPZ end\nINC\nend: HALT\n")
	require.True(t, prog.Runnable())

	emu := NewEmulator(prog)
	for !emu.Halted() {
		emu.Cycle()
	}

	require.Equal(t, uint32(0), emu.Regs.Get(RegACC))
}

// TestReversibility is property P1: advancing k cycles then backward
// stepping k times restores every register and memory cell.
func TestReversibility(t *testing.T) {
	prog := Assemble("LDAC x\nSTAC y\nCLAC\nx: 0000002A\ny: 00000000\n")
	require.True(t, prog.Runnable())

	emu := NewEmulator(prog)

	initialRegs := [numRegisters]uint32{}
	for r := Reg(0); r < numRegisters; r++ {
		initialRegs[r] = emu.Regs.Get(r)
	}
	initialX := emu.Mem.Get(prog.SymbolMap["x"])
	initialY := emu.Mem.Get(prog.SymbolMap["y"])

	const k = 3
	for i := 0; i < k; i++ {
		emu.Cycle()
	}
	for i := 0; i < k; i++ {
		require.True(t, emu.StepBackward())
	}

	for r := Reg(0); r < numRegisters; r++ {
		require.Equal(t, initialRegs[r], emu.Regs.Get(r), "register %s", r)
	}
	require.Equal(t, initialX, emu.Mem.Get(prog.SymbolMap["x"]))
	require.Equal(t, initialY, emu.Mem.Get(prog.SymbolMap["y"]))
}

// TestJournalFaithfulness is property P3: backward-stepping once after
// a single cycle restores the exact pre-cycle state.
func TestJournalFaithfulness(t *testing.T) {
	prog := Assemble("INC\nINC\nHALT\n")
	require.True(t, prog.Runnable())

	emu := NewEmulator(prog)
	emu.Cycle() // first INC, establishes a known pre-cycle state

	preACC := emu.Regs.Get(RegACC)
	prePC := emu.Regs.Get(RegPC)

	emu.Cycle() // second INC

	require.True(t, emu.StepBackward())
	require.Equal(t, preACC, emu.Regs.Get(RegACC))
	require.Equal(t, prePC, emu.Regs.Get(RegPC))
}

func TestEmulatorWrappingArithmetic(t *testing.T) {
	prog := Assemble("NOT\nMVAC\nINC\nADD\nHALT\n")
	require.True(t, prog.Runnable())

	emu := NewEmulator(prog)
	// ACC starts at 0; NOT makes it all-ones, MVAC copies to R, INC
	// wraps ACC back to 0, ADD puts all-ones back: ACC ends at 2^32-1.
	for !emu.Halted() {
		emu.Cycle()
	}
	require.Equal(t, uint32(0xFFFFFFFF), emu.Regs.Get(RegACC))
}
