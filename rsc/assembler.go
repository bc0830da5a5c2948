package rsc

import (
	"strconv"
	"strings"
)

// Program is the artifact produced by Assemble: the flat machine-word
// image plus the symbol and line cross-reference the debugger needs.
type Program struct {
	// Instructions is the ordered machine-word image.
	Instructions []uint32

	// SymbolMap maps a declared symbol name to the word address it was
	// declared at.
	SymbolMap map[string]uint32

	// SymbolReferences maps a word index where an operand was patched in
	// back to the symbol name it resolved to, for the bytecode view.
	SymbolReferences map[int]string

	// LineMap maps a 0-based source line to the inclusive word-index
	// range [start, end] that line produced.
	LineMap map[int][2]int

	// Errors holds every diagnostic collected while parsing. It is nil
	// iff parsing produced no problems.
	Errors []AssemblyError
}

// Runnable reports whether the program is safe to hand to an emulator: a
// program with any assembly error must only be inspected, never run
// (§7 — the shell is responsible for gating run/stepi on this).
func (p *Program) Runnable() bool {
	return len(p.Errors) == 0
}

// patch is a deferred operand fixup: word index idx (on source line
// line) should be overwritten with the address bound to name, once every
// label and variable has been seen.
type patch struct {
	idx  int
	line int
	name string
}

// Assemble lowers RSC assembly source into a Program. It never fails:
// every problem is recorded in Program.Errors and parsing continues so
// the caller can see every diagnostic in one pass, not just the first.
func Assemble(text string) Program {
	a := &assembler{
		symbolMap:  make(map[string]uint32),
		symbolRefs: make(map[int]string),
		lineMap:    make(map[int][2]int),
	}

	for lineIdx, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(stripComment(raw))
		if line == "" {
			continue
		}
		a.line(strings.Fields(line), lineIdx)
	}

	for _, p := range a.patches {
		addr, ok := a.symbolMap[p.name]
		if !ok {
			a.errs = append(a.errs, AssemblyError{Kind: ErrUndefinedVariable, Token: p.name, Line: p.line})
			continue
		}
		a.instructions[p.idx] = addr
		a.symbolRefs[p.idx] = p.name
	}

	return Program{
		Instructions:     a.instructions,
		SymbolMap:        a.symbolMap,
		SymbolReferences: a.symbolRefs,
		LineMap:          a.lineMap,
		Errors:           a.errs,
	}
}

// assembler holds the mutable state threaded through one Assemble call.
type assembler struct {
	instructions []uint32
	symbolMap    map[string]uint32
	symbolRefs   map[int]string
	lineMap      map[int][2]int
	errs         []AssemblyError
	patches      []patch
}

// line dispatches one tokenized, non-blank source line: either a
// "name:"-prefixed label/variable declaration, or a bare statement.
func (a *assembler) line(tokens []string, lineIdx int) {
	first := tokens[0]
	if !strings.HasSuffix(first, ":") {
		a.statement(tokens, lineIdx)
		return
	}

	name := strings.TrimSuffix(first, ":")
	if _, redefined := a.symbolMap[name]; redefined {
		a.errs = append(a.errs, AssemblyError{Kind: ErrRedefinition, Token: name, Line: lineIdx})
		return
	}

	rest := tokens[1:]
	if len(rest) == 0 {
		// Label with nothing else on the line: marks the next-to-be-
		// emitted word address, emits nothing.
		a.symbolMap[name] = uint32(len(a.instructions))
		return
	}

	if _, ok := lookupOpcode(rest[0]); ok {
		// Conventional "label: MNEMONIC" listing line: the label marks
		// the address the instruction is about to occupy.
		a.symbolMap[name] = uint32(len(a.instructions))
		a.statement(rest, lineIdx)
		return
	}

	// Variable: reserves one word initialized from a hex literal.
	val, err := strconv.ParseUint(rest[0], 16, 32)
	if err != nil {
		a.errs = append(a.errs, AssemblyError{Kind: ErrInvalidInitializer, Token: name, Line: lineIdx})
		return
	}

	a.symbolMap[name] = uint32(len(a.instructions))
	start := len(a.instructions)
	a.instructions = append(a.instructions, uint32(val))
	a.lineMap[lineIdx] = [2]int{start, start}
}

// statement emits one opcode and, if it carries an operand, queues the
// deferred patch for it.
func (a *assembler) statement(tokens []string, lineIdx int) {
	first := tokens[0]
	op, ok := lookupOpcode(first)
	if !ok {
		a.errs = append(a.errs, AssemblyError{Kind: ErrUnknownKeyword, Token: first, Line: lineIdx})
		return
	}

	start := len(a.instructions)
	a.instructions = append(a.instructions, uint32(op))

	if !op.HasOperand() {
		a.lineMap[lineIdx] = [2]int{start, start}
		return
	}

	if len(tokens) < 2 {
		a.errs = append(a.errs, AssemblyError{Kind: ErrMissingOperand, Token: first, Line: lineIdx})
		a.lineMap[lineIdx] = [2]int{start, start}
		return
	}

	idx := len(a.instructions)
	a.instructions = append(a.instructions, 0) // patched below once labels resolve
	a.patches = append(a.patches, patch{idx: idx, line: lineIdx, name: tokens[1]})
	a.lineMap[lineIdx] = [2]int{start, idx}
}

// stripComment removes a ";"-introduced comment, whether it is the whole
// line or trails a statement.
func stripComment(line string) string {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		return line[:i]
	}
	return line
}
