// Package replay drives a command log against any of the tree
// variants through a narrow capability interface and reports where
// its actual answers diverge from a plain map-based simulation of the
// same log, grounded on original_source's test/testGeneratev2.py
// trace format (one "OP,KEY,EXPECT" line per operation, or a bare
// "BARRIER" line).
package replay

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Op is a command's operation, matching testGeneratev2.py's OP list.
type Op int

const (
	OpInsert Op = iota
	OpDelete
	OpGet
	OpBarrier
)

func (o Op) String() string {
	switch o {
	case OpInsert:
		return "I"
	case OpDelete:
		return "D"
	case OpGet:
		return "G"
	case OpBarrier:
		return "BARRIER"
	default:
		return "?"
	}
}

// Command is one line of a trace file. Expect/HasExpect carry the
// generator's own baked-in prediction for G and D lines; Run doesn't
// rely on them for correctness (it tracks its own reference set) but
// they're available for diagnostics.
type Command struct {
	Op        Op
	Key       int
	Expect    int
	HasExpect bool
}

// ParseLine parses a single trace line. Blank lines are rejected by
// the caller (ParseFile skips them); this always expects content.
func ParseLine(line string) (Command, error) {
	if line == "BARRIER" {
		return Command{Op: OpBarrier}, nil
	}
	fields := strings.Split(line, ",")
	if len(fields) != 3 {
		return Command{}, fmt.Errorf("replay: malformed line %q", line)
	}
	var op Op
	switch fields[0] {
	case "I":
		op = OpInsert
	case "D":
		op = OpDelete
	case "G":
		op = OpGet
	default:
		return Command{}, fmt.Errorf("replay: unknown op %q", fields[0])
	}
	key, err := strconv.Atoi(fields[1])
	if err != nil {
		return Command{}, fmt.Errorf("replay: bad key in %q: %w", line, err)
	}
	cmd := Command{Op: op, Key: key}
	if fields[2] != "NONE" {
		expect, err := strconv.Atoi(fields[2])
		if err != nil {
			return Command{}, fmt.Errorf("replay: bad expect in %q: %w", line, err)
		}
		cmd.Expect, cmd.HasExpect = expect, true
	}
	return cmd, nil
}

// ParseReader reads one command per non-empty line from r.
func ParseReader(r io.Reader) ([]Command, error) {
	var cmds []Command
	sc := bufio.NewScanner(r)
	for lineNo := 1; sc.Scan(); lineNo++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		cmd, err := ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		cmds = append(cmds, cmd)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return cmds, nil
}

// ParseFile reads a trace from disk.
func ParseFile(path string) ([]Command, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseReader(f)
}
