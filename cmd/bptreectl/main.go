// Command bptreectl replays a trace file against one of the tree
// variants and reports whether its answers matched a plain in-memory
// simulation, optionally dumping the tree's final shape.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/golang/glog"

	"bptree/coarse"
	"bptree/debugprint"
	"bptree/latch"
	"bptree/palm"
	"bptree/replay"
	"bptree/seq"
)

func main() {
	variant := flag.String("variant", "seq", "tree variant to replay against: seq, coarse, latch, or palm")
	order := flag.Int("order", 8, "branching factor")
	workers := flag.Int("workers", 4, "palm worker pool size (ignored for seq/latch)")
	batchSize := flag.Int("batch", 64, "palm batch size (ignored for seq/latch)")
	file := flag.String("file", "", "trace file to replay (required)")
	dump := flag.Bool("dump", false, "print the final tree shape after replay")
	flag.Parse()
	defer glog.Flush()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "bptreectl: -file is required")
		os.Exit(2)
	}

	cmds, err := replay.ParseFile(*file)
	if err != nil {
		glog.Exitf("bptreectl: parsing %s: %v", *file, err)
	}
	glog.Infof("bptreectl: loaded %d commands from %s", len(cmds), *file)

	var target replay.Target
	var dumpFn func()

	switch *variant {
	case "seq":
		tr := seq.New[int](*order)
		target = replay.SyncAdapter{Tree: tr}
		dumpFn = func() { debugprint.NewPrinter[int](1024).Dump(os.Stdout, tr.Dummy()) }
	case "coarse":
		tr := coarse.New[int](*order)
		target = replay.SyncAdapter{Tree: tr}
		dumpFn = func() { debugprint.NewPrinter[int](1024).Dump(os.Stdout, tr.Dummy()) }
	case "latch":
		tr := latch.New[int](*order)
		target = replay.SyncAdapter{Tree: tr}
		dumpFn = func() { debugprint.NewPrinter[int](1024).Dump(os.Stdout, tr.Dummy()) }
	case "palm":
		tr := palm.New[int](*order, *workers, palm.WithBatchSize(*batchSize))
		defer tr.Close()
		target = replay.PalmAdapter{Tree: tr}
		dumpFn = func() { debugprint.NewPrinter[int](1024).Dump(os.Stdout, tr.Dummy()) }
	default:
		glog.Exitf("bptreectl: unknown variant %q", *variant)
	}

	res := replay.Run(cmds, target)
	fmt.Printf("applied %d commands, checked %d, %d mismatch(es)\n",
		res.Applied, res.Checked, len(res.Mismatches))
	for _, m := range res.Mismatches {
		fmt.Printf("  line %d: key %d got=%v want=%v\n", m.Line, m.Key, m.Got, m.Want)
	}

	if *dump && dumpFn != nil {
		dumpFn()
	}

	if !res.OK() {
		os.Exit(1)
	}
}
