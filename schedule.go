package main

// Schedule assigns every gate a column (step) for display and depth
// accounting. A gate lands in the first column after every earlier gate that
// shares a qubit with it; barriers take a column of their own and fence off
// everything before them. Multi-qubit gates also claim the qubits between
// their endpoints, and measurements every qubit below theirs, so vertical
// connectors never cross another gate.
func Schedule(c Circuit) []int {
	steps := make([]int, len(c.Gates))
	next := make([]int, c.NumQubits) // first free column per qubit
	fence := 0

	for i, g := range c.Gates {
		if g.Type == GateBarrier {
			col := fence
			for _, n := range next {
				col = max(col, n)
			}
			steps[i] = col
			fence = col + 1
			for q := range next {
				next[q] = fence
			}
			continue
		}

		lo, hi := span(g)
		if g.Type == GateMeasure {
			// the classical connector runs down past every lower wire
			hi = c.NumQubits - 1
		}
		col := fence
		for q := lo; q <= hi; q++ {
			col = max(col, next[q])
		}
		steps[i] = col
		for q := lo; q <= hi; q++ {
			next[q] = col + 1
		}
	}
	return steps
}

// span returns the lowest and highest qubit a gate touches.
func span(g Gate) (lo, hi int) {
	qs := g.Qubits()
	lo, hi = qs[0], qs[0]
	for _, q := range qs[1:] {
		lo = min(lo, q)
		hi = max(hi, q)
	}
	return lo, hi
}

// Depth returns the number of columns the schedule occupies.
func Depth(c Circuit) int {
	depth := 0
	for _, s := range Schedule(c) {
		depth = max(depth, s+1)
	}
	return depth
}

// GatesAtStep returns the indexes of gates scheduled in the given column.
func GatesAtStep(steps []int, step int) []int {
	var idx []int
	for i, s := range steps {
		if s == step {
			idx = append(idx, i)
		}
	}
	return idx
}
