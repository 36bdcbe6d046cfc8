package replay

// Mismatch records one point where target's answer to a Get
// diverged from the plain in-memory simulation Run keeps alongside
// it.
type Mismatch struct {
	Line int
	Key  int
	Got  bool
	Want bool
}

// Result summarizes a completed replay.
type Result struct {
	Applied    int
	Checked    int
	Mismatches []Mismatch
}

// OK reports whether every checked Get matched the simulation.
func (r Result) OK() bool { return len(r.Mismatches) == 0 }

// Run applies cmds to target in order, one at a time. It keeps its
// own reference set (a plain map, the same shape as the Python
// generator's self.ref) rather than trusting each command's baked-in
// Expect field, so a replay is a genuine diff against an independent
// oracle rather than a self check of the trace file. G lines call
// target.Flush() first so an async target (PALM) is observed after
// everything submitted ahead of the check has actually applied.
func Run(cmds []Command, target Target) Result {
	ref := make(map[int]bool)
	var res Result
	for i, c := range cmds {
		switch c.Op {
		case OpInsert:
			target.Insert(c.Key)
			ref[c.Key] = true
		case OpDelete:
			target.Delete(c.Key)
			delete(ref, c.Key)
		case OpGet:
			target.Flush()
			got := target.Get(c.Key)
			want := ref[c.Key]
			res.Checked++
			if got != want {
				res.Mismatches = append(res.Mismatches, Mismatch{
					Line: i, Key: c.Key, Got: got, Want: want,
				})
			}
		case OpBarrier:
			target.Flush()
		}
		res.Applied++
	}
	return res
}
