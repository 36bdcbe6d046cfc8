package replay

import (
	"strings"
	"testing"

	"bptree/latch"
	"bptree/palm"
	"bptree/seq"
)

const sampleTrace = `I,5,NONE
I,12,NONE
G,5,5
G,7,NONE
D,5,5
G,5,NONE
BARRIER
I,7,NONE
G,7,7
D,100,NONE`

func TestParseLine(t *testing.T) {
	cmd, err := ParseLine("I,5,NONE")
	if err != nil || cmd.Op != OpInsert || cmd.Key != 5 || cmd.HasExpect {
		t.Fatalf("got %+v, err %v", cmd, err)
	}
	cmd, err = ParseLine("G,5,5")
	if err != nil || cmd.Op != OpGet || !cmd.HasExpect || cmd.Expect != 5 {
		t.Fatalf("got %+v, err %v", cmd, err)
	}
	cmd, err = ParseLine("BARRIER")
	if err != nil || cmd.Op != OpBarrier {
		t.Fatalf("got %+v, err %v", cmd, err)
	}
	if _, err := ParseLine("X,1,NONE"); err == nil {
		t.Fatalf("expected error for unknown op")
	}
}

func TestRunAgainstSeq(t *testing.T) {
	cmds, err := ParseReader(strings.NewReader(sampleTrace))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tr := seq.New[int](4)
	res := Run(cmds, SyncAdapter{Tree: tr})
	if !res.OK() {
		t.Fatalf("mismatches: %+v", res.Mismatches)
	}
	if res.Applied != len(cmds) {
		t.Fatalf("applied %d, want %d", res.Applied, len(cmds))
	}
}

func TestRunAgainstLatch(t *testing.T) {
	cmds, err := ParseReader(strings.NewReader(sampleTrace))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tr := latch.New[int](4)
	res := Run(cmds, SyncAdapter{Tree: tr})
	if !res.OK() {
		t.Fatalf("mismatches: %+v", res.Mismatches)
	}
}

func TestRunAgainstPalm(t *testing.T) {
	cmds, err := ParseReader(strings.NewReader(sampleTrace))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	tr := palm.New[int](4, 2)
	defer tr.Close()
	res := Run(cmds, PalmAdapter{Tree: tr})
	if !res.OK() {
		t.Fatalf("mismatches: %+v", res.Mismatches)
	}
}
