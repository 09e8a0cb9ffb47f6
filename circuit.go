package main

import (
	"errors"
	"fmt"
	"slices"
)

// Gate type names. These double as the upper-case QASM mnemonics.
const (
	GateH       = "H"
	GateX       = "X"
	GateY       = "Y"
	GateZ       = "Z"
	GateS       = "S"
	GateT       = "T"
	GateSX      = "SX"
	GateRX      = "RX"
	GateRY      = "RY"
	GateRZ      = "RZ"
	GateP       = "P"
	GateCP      = "CP"
	GateCX      = "CX"
	GateCCX     = "CCX"
	GateSWAP    = "SWAP"
	GateBarrier = "BARRIER"
	GateMeasure = "MEASURE"
)

var (
	ErrNotInvertible  = errors.New("circuit is not invertible")
	ErrInvalidCircuit = errors.New("invalid circuit")
)

// Gate is a single operation in a circuit.
type Gate struct {
	Type     string
	Target   int       // -1 for barriers
	Control  int       // -1 if not a controlled gate; first qubit of a SWAP
	Controls []int     // Multiple control qubits (for CCX/Toffoli)
	Cbit     int       // classical bit written by MEASURE, else -1
	Params   []float64 // Parameters for rotation and phase gates
	IsDagger bool      // S, T and SX only
}

// Circuit is an ordered gate sequence over a fixed number of qubits and
// classical bits. A Circuit owns its gates; Compose and Inverse return new
// circuits and never share slices with their inputs.
type Circuit struct {
	Name      string
	NumQubits int
	NumCbits  int
	Gates     []Gate
	Notes     []string // free-form annotations shown alongside the diagram
}

// NewCircuit returns an empty circuit with the given register sizes.
func NewCircuit(numQubits, numCbits int) Circuit {
	if numQubits < 0 || numCbits < 0 {
		panic(fmt.Sprintf("NewCircuit: negative register size (%d qubits, %d cbits)", numQubits, numCbits))
	}
	return Circuit{NumQubits: numQubits, NumCbits: numCbits}
}

func (c *Circuit) mustQubit(op string, qubits ...int) {
	for _, q := range qubits {
		if q < 0 || q >= c.NumQubits {
			panic(fmt.Sprintf("%s: qubit %d out of range [0,%d)", op, q, c.NumQubits))
		}
	}
	for i := range qubits {
		for j := i + 1; j < len(qubits); j++ {
			if qubits[i] == qubits[j] {
				panic(fmt.Sprintf("%s: qubit %d used twice", op, qubits[i]))
			}
		}
	}
}

// AddGate appends a parameterless single-qubit gate.
func (c *Circuit) AddGate(gateType string, target int) {
	c.mustQubit(gateType, target)
	c.Gates = append(c.Gates, Gate{Type: gateType, Target: target, Control: -1, Cbit: -1})
}

// AddDaggerGate appends the adjoint of S, T or SX.
func (c *Circuit) AddDaggerGate(gateType string, target int) {
	c.mustQubit(gateType+"DG", target)
	c.Gates = append(c.Gates, Gate{Type: gateType, Target: target, Control: -1, Cbit: -1, IsDagger: true})
}

// AddParameterizedGate appends a rotation or phase gate.
func (c *Circuit) AddParameterizedGate(gateType string, target int, params ...float64) {
	c.mustQubit(gateType, target)
	c.Gates = append(c.Gates, Gate{
		Type:    gateType,
		Target:  target,
		Control: -1,
		Cbit:    -1,
		Params:  slices.Clone(params),
	})
}

// H appends a Hadamard.
func (c *Circuit) H(q int) { c.AddGate(GateH, q) }

// X appends a Pauli-X.
func (c *Circuit) X(q int) { c.AddGate(GateX, q) }

// CP appends a controlled-phase rotation.
func (c *Circuit) CP(angle float64, control, target int) {
	c.mustQubit(GateCP, control, target)
	c.Gates = append(c.Gates, Gate{
		Type:    GateCP,
		Target:  target,
		Control: control,
		Cbit:    -1,
		Params:  []float64{angle},
	})
}

// CX appends a controlled-NOT.
func (c *Circuit) CX(control, target int) {
	c.mustQubit(GateCX, control, target)
	c.Gates = append(c.Gates, Gate{Type: GateCX, Target: target, Control: control, Cbit: -1})
}

// CCX appends a Toffoli gate.
func (c *Circuit) CCX(control1, control2, target int) {
	c.mustQubit(GateCCX, control1, control2, target)
	c.Gates = append(c.Gates, Gate{
		Type:     GateCCX,
		Target:   target,
		Control:  -1,
		Controls: []int{control1, control2},
		Cbit:     -1,
	})
}

// Swap appends a SWAP of q1 and q2.
func (c *Circuit) Swap(q1, q2 int) {
	c.mustQubit(GateSWAP, q1, q2)
	c.Gates = append(c.Gates, Gate{Type: GateSWAP, Target: q2, Control: q1, Cbit: -1})
}

// Barrier appends a barrier spanning all qubits.
func (c *Circuit) Barrier() {
	c.Gates = append(c.Gates, Gate{Type: GateBarrier, Target: -1, Control: -1, Cbit: -1})
}

// Measure records qubit into classical bit cbit.
func (c *Circuit) Measure(qubit, cbit int) {
	c.mustQubit(GateMeasure, qubit)
	if cbit < 0 || cbit >= c.NumCbits {
		panic(fmt.Sprintf("MEASURE: classical bit %d out of range [0,%d)", cbit, c.NumCbits))
	}
	c.Gates = append(c.Gates, Gate{Type: GateMeasure, Target: qubit, Control: -1, Cbit: cbit})
}

// Qubits returns every qubit the gate touches, controls first.
// Barriers return nil; they span the whole register.
func (g Gate) Qubits() []int {
	switch {
	case g.Type == GateBarrier:
		return nil
	case len(g.Controls) > 0:
		return append(slices.Clone(g.Controls), g.Target)
	case g.Control >= 0:
		return []int{g.Control, g.Target}
	default:
		return []int{g.Target}
	}
}

// Inverse returns the adjoint of the gate. Measurements have none.
func (g Gate) Inverse() (Gate, error) {
	inv := g.clone()
	switch g.Type {
	case GateH, GateX, GateY, GateZ, GateCX, GateCCX, GateSWAP, GateBarrier:
	case GateS, GateT, GateSX:
		inv.IsDagger = !g.IsDagger
	case GateRX, GateRY, GateRZ, GateP, GateCP:
		for i := range inv.Params {
			inv.Params[i] = -inv.Params[i]
		}
	case GateMeasure:
		return Gate{}, fmt.Errorf("%w: measurement on q[%d]", ErrNotInvertible, g.Target)
	default:
		return Gate{}, fmt.Errorf("%w: unknown gate %q", ErrNotInvertible, g.Type)
	}
	return inv, nil
}

func (g Gate) clone() Gate {
	g.Controls = slices.Clone(g.Controls)
	g.Params = slices.Clone(g.Params)
	return g
}

// Clone returns a deep copy of the circuit.
func (c Circuit) Clone() Circuit {
	out := c
	out.Gates = make([]Gate, len(c.Gates))
	for i, g := range c.Gates {
		out.Gates[i] = g.clone()
	}
	out.Notes = slices.Clone(c.Notes)
	return out
}

// Inverse returns the circuit that undoes c: every gate inverted, in reverse order.
func (c Circuit) Inverse() (Circuit, error) {
	out := Circuit{Name: c.Name, NumQubits: c.NumQubits, NumCbits: c.NumCbits}
	if c.Name != "" {
		out.Name = c.Name + "†"
	}
	out.Gates = make([]Gate, 0, len(c.Gates))
	for i := len(c.Gates) - 1; i >= 0; i-- {
		inv, err := c.Gates[i].Inverse()
		if err != nil {
			return Circuit{}, err
		}
		out.Gates = append(out.Gates, inv)
	}
	return out, nil
}

// Compose returns a new circuit holding c's gates followed by other's,
// with other's qubit i placed on qubits[i] and classical bit j on cbits[j].
// A nil map means the identity mapping. Neither input is modified.
//
// Barriers carry no qubits, so a barrier in other spans the whole of the
// result, not just the mapped qubits.
func (c Circuit) Compose(other Circuit, qubits, cbits []int) Circuit {
	if qubits == nil {
		qubits = identityMap(other.NumQubits)
	}
	if cbits == nil {
		cbits = identityMap(other.NumCbits)
	}
	if len(qubits) != other.NumQubits {
		panic(fmt.Sprintf("Compose: %d qubit mappings for a %d-qubit circuit", len(qubits), other.NumQubits))
	}
	if len(cbits) != other.NumCbits {
		panic(fmt.Sprintf("Compose: %d cbit mappings for a %d-cbit circuit", len(cbits), other.NumCbits))
	}
	out := c.Clone()
	out.mustQubit("Compose", qubits...)
	for _, cb := range cbits {
		if cb < 0 || cb >= out.NumCbits {
			panic(fmt.Sprintf("Compose: classical bit %d out of range [0,%d)", cb, out.NumCbits))
		}
	}

	remap := func(q int) int {
		if q < 0 {
			return q
		}
		return qubits[q]
	}
	for _, g := range other.Gates {
		ng := g.clone()
		ng.Target = remap(g.Target)
		ng.Control = remap(g.Control)
		for i, ctrl := range ng.Controls {
			ng.Controls[i] = qubits[ctrl]
		}
		if g.Cbit >= 0 {
			ng.Cbit = cbits[g.Cbit]
		}
		out.Gates = append(out.Gates, ng)
	}
	return out
}

func identityMap(n int) []int {
	m := make([]int, n)
	for i := range m {
		m[i] = i
	}
	return m
}

// Validate checks that every index a gate references is inside the declared
// registers and that gates carry the operands their type needs.
func (c Circuit) Validate() error {
	for i, g := range c.Gates {
		if g.Type == GateBarrier {
			continue
		}
		qs := g.Qubits()
		for _, q := range qs {
			if q < 0 || q >= c.NumQubits {
				return fmt.Errorf("%w: gate %d (%s) references qubit %d of %d", ErrInvalidCircuit, i, g.Type, q, c.NumQubits)
			}
		}
		for a := range qs {
			for b := a + 1; b < len(qs); b++ {
				if qs[a] == qs[b] {
					return fmt.Errorf("%w: gate %d (%s) uses qubit %d twice", ErrInvalidCircuit, i, g.Type, qs[a])
				}
			}
		}
		switch g.Type {
		case GateMeasure:
			if g.Cbit < 0 || g.Cbit >= c.NumCbits {
				return fmt.Errorf("%w: gate %d measures into bit %d of %d", ErrInvalidCircuit, i, g.Cbit, c.NumCbits)
			}
		case GateRX, GateRY, GateRZ, GateP, GateCP:
			if len(g.Params) != 1 {
				return fmt.Errorf("%w: gate %d (%s) needs 1 parameter, has %d", ErrInvalidCircuit, i, g.Type, len(g.Params))
			}
			if g.Type == GateCP && g.Control < 0 {
				return fmt.Errorf("%w: gate %d (CP) needs a control", ErrInvalidCircuit, i)
			}
		case GateCX, GateSWAP:
			if g.Control < 0 {
				return fmt.Errorf("%w: gate %d (%s) needs two qubits", ErrInvalidCircuit, i, g.Type)
			}
		case GateCCX:
			if len(g.Controls) != 2 {
				return fmt.Errorf("%w: gate %d (CCX) needs two controls", ErrInvalidCircuit, i)
			}
		}
	}
	return nil
}

// Count returns how many gates of the given type the circuit holds.
func (c Circuit) Count(gateType string) int {
	n := 0
	for _, g := range c.Gates {
		if g.Type == gateType {
			n++
		}
	}
	return n
}
