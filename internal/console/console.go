// Package console emulates the handheld game console: a program counter, an
// accumulator and three instructions. It detects infinite loops by remembering
// which instructions have already run, and can search for the one jmp or nop
// whose corruption keeps a program from terminating.
package console

import (
	"context"
	"log/slog"
)

// Status describes why a console stopped, if it has.
type Status int

const (
	Running     Status = iota
	Terminated         // pc reached exactly one past the last instruction
	OutOfBounds        // pc left the program anywhere else
	Looped             // pc came back to an instruction that already ran
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	case OutOfBounds:
		return "out of bounds"
	case Looped:
		return "looped"
	default:
		return "unknown"
	}
}

// Console executes a Program. The program is shared with the caller, not
// copied, so a caller may change an instruction between runs.
type Console struct {
	program Program
	pc      int
	acc     int
	visited map[int]bool
	steps   int
	status  Status

	// DetectLoops halts the console the first time an instruction is about to
	// run a second time.
	DetectLoops bool

	// Logger, when set, receives one debug record per executed instruction.
	Logger *slog.Logger
}

// Load returns a console positioned at the start of p. An empty program is
// already terminated.
func Load(p Program) *Console {
	c := &Console{
		program: p,
		visited: make(map[int]bool),
	}
	c.checkBounds()

	return c
}

// Step executes the instruction at the program counter. The console halts in
// the same step that moves the program counter off the program. Once the
// console has halted, Step does nothing.
func (c *Console) Step() {
	if c.status != Running || c.checkBounds() {
		return
	}

	if c.visited[c.pc] && c.DetectLoops {
		c.status = Looped
		return
	}

	c.visited[c.pc] = true
	in := c.program[c.pc]

	if c.Logger != nil && c.Logger.Enabled(context.Background(), slog.LevelDebug) {
		c.Logger.Debug("step", "pc", c.pc, "instruction", in.String(), "acc", c.acc)
	}

	switch in.Op {
	case OpAcc:
		c.acc += in.Arg
		c.pc++
	case OpJmp:
		c.pc += in.Arg
	default:
		c.pc++
	}

	c.steps++
	c.checkBounds()
}

// Halts the console if the program counter is off the program and reports
// whether it did
func (c *Console) checkBounds() bool {
	switch {
	case c.pc == len(c.program):
		c.status = Terminated
	case c.pc < 0 || c.pc > len(c.program):
		c.status = OutOfBounds
	default:
		return false
	}

	return true
}

// Run steps the console until it halts. Without stopOnRepeat the run also ends
// after budget steps have executed in total; a budget of zero or less executes
// nothing. With stopOnRepeat the budget is ignored, since a revisit always
// halts the console before it exhausts the program's instructions.
func (c *Console) Run(budget int, stopOnRepeat bool) {
	c.DetectLoops = stopOnRepeat

	for c.status == Running {
		if !stopOnRepeat && c.steps >= budget {
			return
		}

		c.Step()
	}
}

// Halted reports whether the console has stopped for any reason.
func (c *Console) Halted() bool {
	return c.status != Running
}

// Status returns why the console stopped, or Running.
func (c *Console) Status() Status {
	return c.status
}

// Accumulator returns the current accumulator value.
func (c *Console) Accumulator() int {
	return c.acc
}

// PC returns the program counter: the index of the next instruction to run.
func (c *Console) PC() int {
	return c.pc
}

// Visited returns how many distinct instructions have run.
func (c *Console) Visited() int {
	return len(c.visited)
}

// Steps returns how many instructions have run in total.
func (c *Console) Steps() int {
	return c.steps
}

// RunUntilLoop runs p with loop detection and reports the accumulator at the
// point the console stopped.
func RunUntilLoop(p Program) (int, Status) {
	c := Load(p)
	c.Run(0, true)

	return c.Accumulator(), c.Status()
}
