package main

import (
	"fmt"
	"io"
	"math"
	"math/big"
	"strings"
)

// Demo categories, in menu order.
const (
	CategoryGates   = "Gates"
	CategoryFourier = "Fourier"
	CategoryShor    = "Shor"
)

// Demo is one showcase circuit with the outcome it should produce.
type Demo struct {
	Key         string
	Title       string
	Category    string
	Description string
	Circuit     Circuit
	Expected    string
	Simulate    bool // run by the demo command; the rest are only drawn
}

// Demos returns the demonstration catalogue in presentation order.
func Demos() []Demo {
	return []Demo{
		{
			Key:         "hadamard",
			Title:       "Hadamard Gate",
			Category:    CategoryGates,
			Description: "H|0⟩ = (|0⟩ + |1⟩)/√2 creates an equal superposition.",
			Circuit:     singleQubitDemo("hadamard", func(c *Circuit) { c.H(0) }),
			Expected:    "~50% |0⟩ and ~50% |1⟩",
			Simulate:    true,
		},
		{
			Key:         "pauli-x",
			Title:       "Pauli-X Gate (NOT Gate)",
			Category:    CategoryGates,
			Description: "X|0⟩ = |1⟩ flips the bit.",
			Circuit:     singleQubitDemo("pauli-x", func(c *Circuit) { c.X(0) }),
			Expected:    "100% |1⟩",
			Simulate:    true,
		},
		{
			Key:         "pauli-y",
			Title:       "Pauli-Y Gate",
			Category:    CategoryGates,
			Description: "Y|0⟩ = i|1⟩ flips the bit and adds a phase.",
			Circuit:     singleQubitDemo("pauli-y", func(c *Circuit) { c.AddGate(GateY, 0) }),
			Expected:    "100% |1⟩",
		},
		{
			Key:         "pauli-z",
			Title:       "Pauli-Z Gate",
			Category:    CategoryGates,
			Description: "HZH = X: the phase flip between two Hadamards becomes a bit flip.",
			Circuit: singleQubitDemo("pauli-z", func(c *Circuit) {
				c.H(0)
				c.AddGate(GateZ, 0)
				c.H(0)
			}),
			Expected: "100% |1⟩",
		},
		{
			Key:         "cnot",
			Title:       "CNOT Gate (Controlled-NOT)",
			Category:    CategoryGates,
			Description: "H then CX prepares the Bell state (|00⟩ + |11⟩)/√2.",
			Circuit:     bellCircuit(),
			Expected:    "~50% |00⟩ and ~50% |11⟩ (entangled state)",
			Simulate:    true,
		},
		{
			Key:         "phase-s",
			Title:       "S Gate (Phase Gate)",
			Category:    CategoryGates,
			Description: "S adds a π/2 phase to |1⟩.",
			Circuit: singleQubitDemo("phase-s", func(c *Circuit) {
				c.H(0)
				c.AddGate(GateS, 0)
				c.H(0)
			}),
			Expected: "~50% |0⟩ and ~50% |1⟩",
		},
		{
			Key:         "phase-sdg",
			Title:       "S† Gate (Inverse Phase Gate)",
			Category:    CategoryGates,
			Description: "S† undoes S, so H S S† H returns |0⟩.",
			Circuit: singleQubitDemo("phase-sdg", func(c *Circuit) {
				c.H(0)
				c.AddGate(GateS, 0)
				c.AddDaggerGate(GateS, 0)
				c.H(0)
			}),
			Expected: "100% |0⟩",
			Simulate: true,
		},
		{
			Key:         "phase-t",
			Title:       "T Gate (π/8 Gate)",
			Category:    CategoryGates,
			Description: "T adds a π/4 phase to |1⟩.",
			Circuit: singleQubitDemo("phase-t", func(c *Circuit) {
				c.H(0)
				c.AddGate(GateT, 0)
				c.H(0)
			}),
			Expected: "~85% |0⟩ and ~15% |1⟩",
		},
		{
			Key:         "swap",
			Title:       "SWAP Gate",
			Category:    CategoryGates,
			Description: "SWAP exchanges the states of two qubits.",
			Circuit:     swapCircuit(),
			Expected:    "100% |10⟩ (states swapped)",
			Simulate:    true,
		},
		{
			Key:         "toffoli",
			Title:       "Toffoli Gate (CCNOT)",
			Category:    CategoryGates,
			Description: "CCX flips the target only when both controls are |1⟩.",
			Circuit:     toffoliCircuit(),
			Expected:    "100% |111⟩",
			Simulate:    true,
		},
		{
			Key:         "rotation-y",
			Title:       "Rotation Gates",
			Category:    CategoryGates,
			Description: "RY(π/2) rotates |0⟩ onto the equator of the Bloch sphere.",
			Circuit: singleQubitDemo("rotation-y", func(c *Circuit) {
				c.AddParameterizedGate(GateRY, 0, math.Pi/2)
			}),
			Expected: "~50% |0⟩ and ~50% |1⟩",
			Simulate: true,
		},
		{
			Key:         "qft-3",
			Title:       "Quantum Fourier Transform",
			Category:    CategoryFourier,
			Description: "QFT on 3 qubits applied to the basis state |001⟩.",
			Circuit:     QFTTestCircuit(3),
			Expected:    "uniform: ~12.5% for each of the 8 outcomes",
			Simulate:    true,
		},
		{
			Key:         "period-7-15",
			Title:       "Period Finding",
			Category:    CategoryShor,
			Description: "Period-finding circuit for a=7, N=15 with 4 counting qubits.",
			Circuit:     BuildPeriodFinding(big.NewInt(7), big.NewInt(15), 4),
			Expected:    "period r = 4",
		},
	}
}

// DemoKeys lists the demo keys in presentation order.
func DemoKeys() []string {
	var keys []string
	for _, d := range Demos() {
		keys = append(keys, d.Key)
	}
	return keys
}

// FindDemo looks a demo up by key.
func FindDemo(key string) (Demo, bool) {
	for _, d := range Demos() {
		if d.Key == key {
			return d, true
		}
	}
	return Demo{}, false
}

func singleQubitDemo(name string, apply func(c *Circuit)) Circuit {
	c := NewCircuit(1, 1)
	c.Name = name
	apply(&c)
	c.Measure(0, 0)
	return c
}

func bellCircuit() Circuit {
	c := NewCircuit(2, 2)
	c.Name = "cnot"
	c.H(0)
	c.CX(0, 1)
	c.Measure(0, 0)
	c.Measure(1, 1)
	return c
}

func swapCircuit() Circuit {
	c := NewCircuit(2, 2)
	c.Name = "swap"
	c.X(0)
	c.Barrier()
	c.Swap(0, 1)
	c.Barrier()
	c.Measure(0, 0)
	c.Measure(1, 1)
	return c
}

func toffoliCircuit() Circuit {
	c := NewCircuit(3, 3)
	c.Name = "toffoli"
	c.X(0)
	c.X(1)
	c.Barrier()
	c.CCX(0, 1, 2)
	c.Barrier()
	for q := range 3 {
		c.Measure(q, q)
	}
	return c
}

// QFTTestCircuit prepares |0...01⟩, applies the n-qubit QFT and measures
// every qubit.
func QFTTestCircuit(n int) Circuit {
	c := NewCircuit(n, n)
	c.Name = fmt.Sprintf("QFT(%d) on |%s1⟩", n, strings.Repeat("0", n-1))
	c.X(0)
	c.Barrier()
	c = c.Compose(BuildQFT(n), nil, nil)
	c.Barrier()
	for q := range n {
		c.Measure(q, q)
	}
	return c
}

// Notes is the closing summary printed after the demonstrations.
const Notes = `Shor's Algorithm Overview:
1. Classical preprocessing: Check if N is even or a prime power
2. Choose random a < N where gcd(a, N) = 1
3. **Quantum Step**: Use quantum period finding to find period r
   - This is exponentially faster than classical methods!
   - Uses quantum superposition and interference
4. Post-processing: Use r to find factors via gcd(a^(r/2) ± 1, N)

Key Quantum Components:
- Quantum Fourier Transform (QFT)
- Modular exponentiation using quantum gates
- Measurement and classical post-processing

This implementation shows the classical simulation for educational purposes.
A real quantum implementation would provide exponential speedup for large numbers.
`

// Reporter writes demonstration output.
type Reporter struct {
	w        io.Writer
	sim      Simulator
	shots    int
	maxWidth int
}

// NewReporter returns a Reporter that simulates with sim.
func NewReporter(w io.Writer, sim Simulator, shots, maxWidth int) *Reporter {
	return &Reporter{w: w, sim: sim, shots: shots, maxWidth: maxWidth}
}

// Banner writes a title between two rules.
func (r *Reporter) Banner(title string) {
	rule := strings.Repeat("=", 60)
	fmt.Fprintf(r.w, "\n%s\n%s\n%s\n", rule, title, rule)
}

// Heading writes a single "=== title ===" line.
func (r *Reporter) Heading(title string) {
	fmt.Fprintf(r.w, "\n=== %s ===\n", title)
}

// Demo draws d and, when it is simulated, runs it and prints the counts.
func (r *Reporter) Demo(d Demo) error {
	r.Heading(d.Title + " Example")
	fmt.Fprintln(r.w, d.Description)
	fmt.Fprint(r.w, RenderDiagram(d.Circuit, r.maxWidth))
	if d.Simulate {
		if _, err := r.Counts(d.Circuit); err != nil {
			return fmt.Errorf("demo %s: %w", d.Key, err)
		}
	}
	fmt.Fprintf(r.w, "Expected: %s\n", d.Expected)
	return nil
}

// Counts runs c, prints the histogram and returns the counts.
func (r *Reporter) Counts(c Circuit) (MeasurementCounts, error) {
	counts, err := r.sim.Run(c, r.shots)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(r.w, "Results:")
	fmt.Fprint(r.w, RenderCounts(counts))
	return counts, nil
}

// QFT draws the n-qubit QFT and runs it on |0...01⟩.
func (r *Reporter) QFT(n int) error {
	r.Banner("Quantum Fourier Transform (QFT) - Key component of Shor's Algorithm")
	fmt.Fprintf(r.w, "\nQFT circuit for %d qubits:\n", n)
	fmt.Fprint(r.w, RenderDiagram(BuildQFT(n), r.maxWidth))

	test := QFTTestCircuit(n)
	fmt.Fprintf(r.w, "\nTest circuit with initial state |%s1⟩:\n", strings.Repeat("0", n-1))
	fmt.Fprint(r.w, RenderDiagram(test, r.maxWidth))
	fmt.Fprintln(r.w)
	_, err := r.Counts(test)
	return err
}

// PeriodFinding prints the power table of a mod n and the period-finding
// circuit with counting qubits.
func (r *Reporter) PeriodFinding(a, n *big.Int, counting int) {
	r.Banner("Period Finding - Quantum Component of Shor's Algorithm")
	fmt.Fprintf(r.w, "\nFinding period r such that %s^r ≡ 1 (mod %s)\n", a, n)
	fmt.Fprintln(r.w, "\nSequence of powers:")
	steps := PeriodSequence(a, n, 9)
	for _, s := range steps {
		fmt.Fprintf(r.w, "  %s^%d mod %s = %s\n", a, s.Exponent, n, s.Value)
	}
	if last := steps[len(steps)-1]; last.Value.Cmp(bigOne) == 0 {
		fmt.Fprintf(r.w, "\nPeriod found: r = %d\n", last.Exponent)
	}

	fmt.Fprintf(r.w, "\nCreating quantum circuit with %d counting qubits...\n", counting)
	qc := BuildPeriodFinding(a, n, counting)
	for _, note := range qc.Notes {
		fmt.Fprintf(r.w, "  %s\n", note)
	}
	fmt.Fprint(r.w, RenderDiagram(qc, r.maxWidth))
}

// Factorization prints how res was reached.
func (r *Reporter) Factorization(res *Result) {
	n := res.N
	r.Banner(fmt.Sprintf("Factoring N = %s using Shor's Algorithm (Classical simulation)", n))
	switch res.Method {
	case MethodEven:
		fmt.Fprintln(r.w, "N is even. Factor found: 2")
		return
	case MethodTrialDivision:
		fmt.Fprintf(r.w, "Found factor using trial division: %s\n", res.Factor)
		return
	}

	for i, at := range res.Attempts {
		a := at.Witness
		fmt.Fprintf(r.w, "\nAttempt %d: Chosen a = %s\n", i+1, a)
		if at.Outcome == OutcomeSharedFactor {
			fmt.Fprintf(r.w, "Found factor via GCD: %s\n", res.Factor)
			continue
		}
		fmt.Fprintf(r.w, "Finding period r such that %s^r ≡ 1 (mod %s)...\n", a, n)
		if at.Order == nil {
			fmt.Fprintln(r.w, "Failed to find period. Trying another a...")
			continue
		}
		fmt.Fprintf(r.w, "Period found: r = %s\n", at.Order)
		switch at.Outcome {
		case OutcomeOddOrder:
			fmt.Fprintln(r.w, "Period is odd. Trying another a...")
			continue
		case OutcomeTrivialRoot:
			fmt.Fprintln(r.w, "a^(r/2) ≡ -1 (mod N). Trying another a...")
			continue
		}
		fmt.Fprintln(r.w, "\nCalculating factors:")
		fmt.Fprintf(r.w, "  gcd(%s^(%s//2) + 1, %s) = gcd(%s, %s) = %s\n",
			a, at.Order, n, new(big.Int).Add(at.X, bigOne), n, at.F1)
		fmt.Fprintf(r.w, "  gcd(%s^(%s//2) - 1, %s) = gcd(%s, %s) = %s\n",
			a, at.Order, n, new(big.Int).Sub(at.X, bigOne), n, at.F2)
		if at.Outcome == OutcomeFactor {
			fmt.Fprintf(r.w, "\n%s Found non-trivial factor: %s\n", successStyle.Render("✓ Success!"), res.Factor)
			fmt.Fprintf(r.w, "  %s = %s × %s\n", n, res.Factor, res.Cofactor())
		}
	}

	if !res.Found() {
		fmt.Fprintf(r.w, "\n%s after %d attempts\n", failureStyle.Render("Failed to find factors"), len(res.Attempts))
	}
}

// Prime reports a number that was not factored because it is prime.
func (r *Reporter) Prime(n *big.Int) {
	r.Banner(fmt.Sprintf("Factoring N = %s", n))
	fmt.Fprintf(r.w, "%s is prime: it has no non-trivial factors\n", n)
}

// Summary prints the one-line verdict for res.
func (r *Reporter) Summary(res *Result) {
	if res.Found() {
		fmt.Fprintf(r.w, "\n%s %s = %s × %s\n", successStyle.Render("✓ Successfully factored"), res.N, res.Factor, res.Cofactor())
		return
	}
	fmt.Fprintf(r.w, "\n%s %s\n", failureStyle.Render("✗ No factor found for"), res.N)
}

// Notes prints the closing notes.
func (r *Reporter) Notes() {
	r.Banner("NOTES:")
	fmt.Fprintln(r.w)
	fmt.Fprint(r.w, Notes)
}
