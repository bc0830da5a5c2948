package rsc

// memChange records the prior value of a memory word so a step can be
// undone.
type memChange struct {
	addr  uint32
	prior uint32
}

// Memory is a flat, word-addressed 32-bit store. It is initialized from
// the assembled program's instruction image at addresses 0..N; reads
// beyond that (or of any never-written address) yield 0, matching §7:
// unwritten addresses are not an error condition.
type Memory struct {
	cells   map[uint32]uint32
	journal *Journal[memChange]
}

// NewMemory builds a memory store preloaded with image at addresses
// 0..len(image)-1.
func NewMemory(image []uint32) *Memory {
	m := &Memory{
		cells:   make(map[uint32]uint32, len(image)),
		journal: NewJournal[memChange](),
	}
	for addr, word := range image {
		m.cells[uint32(addr)] = word
	}
	return m
}

// Get returns the word at address. Unwritten addresses read as 0.
func (m *Memory) Get(addr uint32) uint32 {
	return m.cells[addr]
}

// Set journals the prior value at address, then writes val.
func (m *Memory) Set(addr uint32, val uint32) {
	m.journal.AddChange(memChange{addr: addr, prior: m.cells[addr]})
	m.cells[addr] = val
}

// StepForward advances the memory journal by one step.
func (m *Memory) StepForward() {
	m.journal.StepForward()
}

// Step returns the current journal step counter.
func (m *Memory) Step() int {
	return m.journal.Step()
}

// StepBackward undoes the most recent step's memory writes, restoring
// them in reverse order of insertion. It returns true iff any word was
// actually restored.
func (m *Memory) StepBackward() bool {
	bucket, ok := m.journal.StepBackward()
	if !ok {
		return false
	}
	for i := len(bucket) - 1; i >= 0; i-- {
		c := bucket[i]
		m.cells[c.addr] = c.prior
	}
	return len(bucket) > 0
}
