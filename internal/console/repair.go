package console

import (
	"errors"
	"log/slog"
)

// ErrNoRepair is returned when no single jmp/nop swap makes the program terminate.
var ErrNoRepair = errors.New("no single-instruction corruption repairs this program")

// RepairResult describes the swap that made a program terminate.
type RepairResult struct {
	Site        int         // Index of the swapped instruction
	Original    Instruction // The instruction as it was before the swap
	Accumulator int         // Accumulator value at termination
}

// RepairStats counts the work a repair search did, whether or not it found a
// repair.
type RepairStats struct {
	Attempts int            // Candidate sites tried, including the winning one
	Steps    int            // Instructions executed across all attempts
	Outcomes map[Status]int // How each attempt stopped
}

// Repair swaps jmp and nop one instruction at a time, in ascending index
// order, until the program terminates. The swap is made in place and always
// undone before the next candidate is tried or Repair returns, so the caller's
// program is unchanged afterwards. A nil logger discards attempt logs.
//
// On ErrNoRepair the result is the zero RepairResult; the stats are filled in
// either way.
func Repair(p Program, logger *slog.Logger) (RepairResult, RepairStats, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	stats := RepairStats{Outcomes: make(map[Status]int)}

	for site := nextCandidate(p, 0); site < len(p); site = nextCandidate(p, site+1) {
		original := p[site]
		p[site] = original.Toggled()

		c := Load(p)
		c.Run(0, true)

		p[site] = original

		stats.Attempts++
		stats.Steps += c.Steps()
		stats.Outcomes[c.Status()]++

		logger.Debug("repair attempt",
			"site", site,
			"instruction", original.String(),
			"status", c.Status().String(),
			"steps", c.Steps())

		if c.Status() == Terminated {
			return RepairResult{
				Site:        site,
				Original:    original,
				Accumulator: c.Accumulator(),
			}, stats, nil
		}
	}

	logger.Debug("repair exhausted", "attempts", stats.Attempts)

	return RepairResult{}, stats, ErrNoRepair
}

// Returns the index of the first jmp or nop at or after from, or len(p)
func nextCandidate(p Program, from int) int {
	for i := from; i < len(p); i++ {
		if p[i].Op == OpJmp || p[i].Op == OpNop {
			return i
		}
	}

	return len(p)
}
