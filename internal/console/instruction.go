package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Op is an instruction kind.
type Op uint8

const (
	OpAcc Op = iota // Add the argument to the accumulator
	OpJmp           // Jump relative to the current instruction
	OpNop           // Do nothing; the argument is ignored
)

var opNames = [...]string{
	OpAcc: "acc",
	OpJmp: "jmp",
	OpNop: "nop",
}

func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}

	return fmt.Sprintf("op(%d)", uint8(op))
}

// ParseOp returns the Op for a mnemonic.
func ParseOp(s string) (Op, bool) {
	for op, name := range opNames {
		if name == s {
			return Op(op), true
		}
	}

	return 0, false
}

var ErrMalformedInstruction = errors.New("malformed instruction")

// ParseError reports the line of a program that could not be read.
type ParseError struct {
	Line int    // 1-based line number in the source
	Text string // The offending line
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Instruction is a single decoded instruction.
type Instruction struct {
	Op  Op
	Arg int
}

// Toggled returns the instruction with jmp and nop swapped. acc is returned
// unchanged.
func (in Instruction) Toggled() Instruction {
	switch in.Op {
	case OpJmp:
		in.Op = OpNop
	case OpNop:
		in.Op = OpJmp
	}

	return in
}

func (in Instruction) String() string {
	return fmt.Sprintf("%s %+d", in.Op, in.Arg)
}

// Program is an index-addressed instruction list.
type Program []Instruction

// ParseProgram reads one instruction per line in the form "acc +1". Blank lines
// are skipped; anything else that does not parse fails the whole program.
func ParseProgram(r io.Reader) (Program, error) {
	var program Program

	scanner := bufio.NewScanner(r)
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())

		if line == "" {
			continue
		}

		in, err := parseInstruction(line)

		if err != nil {
			return nil, &ParseError{Line: lineNumber, Text: line, Err: err}
		}

		program = append(program, in)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading program: %w", err)
	}

	return program, nil
}

func parseInstruction(line string) (Instruction, error) {
	fields := strings.Fields(line)

	if len(fields) != 2 {
		return Instruction{}, fmt.Errorf("%w: expected 2 fields, got %d", ErrMalformedInstruction, len(fields))
	}

	op, ok := ParseOp(fields[0])

	if !ok {
		return Instruction{}, fmt.Errorf("%w: unknown operation %q", ErrMalformedInstruction, fields[0])
	}

	// The argument always carries an explicit sign
	if fields[1][0] != '+' && fields[1][0] != '-' {
		return Instruction{}, fmt.Errorf("%w: argument %q has no sign", ErrMalformedInstruction, fields[1])
	}

	arg, err := strconv.Atoi(fields[1])

	if err != nil {
		return Instruction{}, fmt.Errorf("%w: argument %q: %v", ErrMalformedInstruction, fields[1], err)
	}

	return Instruction{Op: op, Arg: arg}, nil
}

// Disassemble writes an indexed listing of the program.
func (p Program) Disassemble(w io.Writer) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "; %d instructions\n", len(p))

	for i, in := range p {
		fmt.Fprintf(bw, "%04d  %s\n", i, in)
	}

	return bw.Flush()
}
