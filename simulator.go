package main

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"
	"sort"
	"strings"
)

// MaxSimQubits bounds the state vector to 2^20 amplitudes.
const MaxSimQubits = 20

var (
	ErrInvalidShots      = errors.New("shots must be positive")
	ErrTooManyQubits     = errors.New("too many qubits to simulate")
	ErrMidCircuitMeasure = errors.New("gate applied to an already measured qubit")
)

// Simulator executes a circuit and returns measurement statistics.
type Simulator interface {
	Run(c Circuit, shots int) (MeasurementCounts, error)
}

type Complex = complex128

type StateVector struct {
	Amplitudes []Complex
	NumQubits  int
}

func NewStateVector(numQubits int) *StateVector {
	n := 1 << numQubits
	amps := make([]Complex, n)
	amps[0] = 1
	return &StateVector{Amplitudes: amps, NumQubits: numQubits}
}

// ApplyGate applies one unitary gate. Barriers and measurements are no-ops here;
// the simulator handles measurement separately.
func (s *StateVector) ApplyGate(g Gate) error {
	param := func() float64 {
		if len(g.Params) > 0 {
			return g.Params[0]
		}
		return 0
	}
	switch g.Type {
	case GateH:
		s.applyH(g.Target)
	case GateX:
		s.applyX(g.Target)
	case GateY:
		s.applyY(g.Target)
	case GateZ:
		s.applyPhase(g.Target, math.Pi)
	case GateS:
		if g.IsDagger {
			s.applyPhase(g.Target, -math.Pi/2)
		} else {
			s.applyPhase(g.Target, math.Pi/2)
		}
	case GateT:
		if g.IsDagger {
			s.applyPhase(g.Target, -math.Pi/4)
		} else {
			s.applyPhase(g.Target, math.Pi/4)
		}
	case GateSX:
		s.applySX(g.Target, g.IsDagger)
	case GateRX:
		s.applyRX(g.Target, param())
	case GateRY:
		s.applyRY(g.Target, param())
	case GateRZ:
		s.applyRZ(g.Target, param())
	case GateP:
		s.applyPhase(g.Target, param())
	case GateCP:
		s.applyCP(g.Control, g.Target, param())
	case GateCX:
		s.applyCX(g.Control, g.Target)
	case GateCCX:
		s.applyCCX(g.Controls[0], g.Controls[1], g.Target)
	case GateSWAP:
		s.applySWAP(g.Control, g.Target)
	case GateBarrier, GateMeasure:
	default:
		return fmt.Errorf("unsupported gate %q", g.Type)
	}
	return nil
}

func (s *StateVector) applyH(q int) {
	hFactor := complex(1.0/math.Sqrt2, 0)
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = hFactor * (a + b)
			s.Amplitudes[j] = hFactor * (a - b)
		}
	}
}

func (s *StateVector) applyX(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyY(q int) {
	n := len(s.Amplitudes)
	bit := 1 << q
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			s.Amplitudes[i], s.Amplitudes[j] = -1i*s.Amplitudes[j], 1i*s.Amplitudes[i]
		}
	}
}

// applyPhase multiplies the |1⟩ component of q by e^{iθ}.
func (s *StateVector) applyPhase(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	factor := cmplx.Exp(complex(0, theta))
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= factor
		}
	}
}

func (s *StateVector) applySX(q int, dagger bool) {
	n := len(s.Amplitudes)
	bit := 1 << q
	p, m := complex(0.5, 0.5), complex(0.5, -0.5)
	if dagger {
		p, m = m, p
	}
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = p*a + m*b
			s.Amplitudes[j] = m*a + p*b
		}
	}
}

func (s *StateVector) applyRX(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	js := complex(0, -math.Sin(theta/2))
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = c*a + js*b
			s.Amplitudes[j] = js*a + c*b
		}
	}
}

func (s *StateVector) applyRY(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	c := complex(math.Cos(theta/2), 0)
	sn := complex(math.Sin(theta/2), 0)
	for i := 0; i < n; i++ {
		if i&bit == 0 {
			j := i | bit
			a, b := s.Amplitudes[i], s.Amplitudes[j]
			s.Amplitudes[i] = c*a - sn*b
			s.Amplitudes[j] = sn*a + c*b
		}
	}
}

func (s *StateVector) applyRZ(q int, theta float64) {
	n := len(s.Amplitudes)
	bit := 1 << q
	phase := cmplx.Exp(complex(0, theta/2))
	for i := 0; i < n; i++ {
		if i&bit != 0 {
			s.Amplitudes[i] *= phase
		} else {
			s.Amplitudes[i] *= cmplx.Conj(phase)
		}
	}
}

// applyCP adds phase e^{iθ} to basis states where both qubits are 1.
func (s *StateVector) applyCP(control, target int, theta float64) {
	n := len(s.Amplitudes)
	mask := 1<<control | 1<<target
	factor := cmplx.Exp(complex(0, theta))
	for i := 0; i < n; i++ {
		if i&mask == mask {
			s.Amplitudes[i] *= factor
		}
	}
}

func (s *StateVector) applyCX(control, target int) {
	n := len(s.Amplitudes)
	cBit := 1 << control
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cBit != 0 && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applyCCX(c1, c2, target int) {
	n := len(s.Amplitudes)
	cMask := 1<<c1 | 1<<c2
	tBit := 1 << target
	for i := 0; i < n; i++ {
		if i&cMask == cMask && i&tBit == 0 {
			j := i | tBit
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

func (s *StateVector) applySWAP(q1, q2 int) {
	n := len(s.Amplitudes)
	bit1 := 1 << q1
	bit2 := 1 << q2
	for i := 0; i < n; i++ {
		if i&bit1 != 0 && i&bit2 == 0 {
			j := (i & ^bit1) | bit2
			s.Amplitudes[i], s.Amplitudes[j] = s.Amplitudes[j], s.Amplitudes[i]
		}
	}
}

// Probabilities returns |amplitude|^2 for every basis state.
func (s *StateVector) Probabilities() []float64 {
	probs := make([]float64, len(s.Amplitudes))
	for i, amp := range s.Amplitudes {
		probs[i] = real(amp * cmplx.Conj(amp))
	}
	return probs
}

// MeasurementCounts maps a classical bitstring to how often it was observed.
// Classical bit 0 is the rightmost character.
type MeasurementCounts map[string]int

// Shots returns the total number of observations.
func (mc MeasurementCounts) Shots() int {
	total := 0
	for _, n := range mc {
		total += n
	}
	return total
}

// CountEntry is one bitstring with its count.
type CountEntry struct {
	Bits  string
	Count int
}

// Sorted returns the entries by descending count, ties by ascending bitstring.
func (mc MeasurementCounts) Sorted() []CountEntry {
	entries := make([]CountEntry, 0, len(mc))
	for bits, n := range mc {
		entries = append(entries, CountEntry{Bits: bits, Count: n})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Bits < entries[j].Bits
	})
	return entries
}

// MostFrequent returns the most observed bitstring, or "" if there are none.
func (mc MeasurementCounts) MostFrequent() string {
	entries := mc.Sorted()
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Bits
}

// StateVectorSimulator runs circuits on a dense state vector and samples the
// measured bits from the final distribution.
type StateVectorSimulator struct {
	rng *rand.Rand
}

// NewStateVectorSimulator returns a simulator whose sampling is driven by seed.
func NewStateVectorSimulator(seed int64) *StateVectorSimulator {
	return &StateVectorSimulator{rng: rand.New(rand.NewSource(seed))}
}

// Statevector evolves |0...0⟩ through the unitary part of c.
// Measurements must be terminal on their qubit.
func (sim *StateVectorSimulator) Statevector(c Circuit) (*StateVector, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.NumQubits > MaxSimQubits {
		return nil, fmt.Errorf("%w: %d > %d", ErrTooManyQubits, c.NumQubits, MaxSimQubits)
	}
	state := NewStateVector(c.NumQubits)
	measured := make(map[int]bool)
	for i, g := range c.Gates {
		if g.Type == GateMeasure {
			measured[g.Target] = true
			continue
		}
		for _, q := range g.Qubits() {
			if measured[q] {
				return nil, fmt.Errorf("%w: gate %d (%s) on q[%d]", ErrMidCircuitMeasure, i, g.Type, q)
			}
		}
		if err := state.ApplyGate(g); err != nil {
			return nil, fmt.Errorf("gate %d: %w", i, err)
		}
	}
	return state, nil
}

// Run samples shots measurements of c.
func (sim *StateVectorSimulator) Run(c Circuit, shots int) (MeasurementCounts, error) {
	if shots <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidShots, shots)
	}
	state, err := sim.Statevector(c)
	if err != nil {
		return nil, err
	}

	// cbit -> qubit; later measurements into the same bit win.
	sources := make(map[int]int)
	for _, g := range c.Gates {
		if g.Type == GateMeasure {
			sources[g.Cbit] = g.Target
		}
	}

	probs := state.Probabilities()
	cumulative := make([]float64, len(probs))
	total := 0.0
	for i, p := range probs {
		total += p
		cumulative[i] = total
	}

	counts := make(MeasurementCounts)
	for range shots {
		u := sim.rng.Float64() * total
		idx := sort.SearchFloat64s(cumulative, u)
		if idx >= len(cumulative) {
			idx = len(cumulative) - 1
		}
		// Skip zero-probability states that share a cumulative value.
		for idx < len(probs)-1 && probs[idx] == 0 {
			idx++
		}
		counts[bitstring(idx, sources, c.NumCbits)]++
	}
	return counts, nil
}

// bitstring renders the classical register for basis state idx.
func bitstring(idx int, sources map[int]int, numCbits int) string {
	var sb strings.Builder
	for cb := numCbits - 1; cb >= 0; cb-- {
		q, ok := sources[cb]
		if ok && idx&(1<<q) != 0 {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
