package main

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Pre-compiled regexps for QASM parsing.
var (
	singleGateRegex      = regexp.MustCompile(`^(\w+)\s+(\w+)\[(\d+)\]$`)
	singleGateParamRegex = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+(\w+)\[(\d+)\]$`)
	twoQubitRegex        = regexp.MustCompile(`^(\w+)\s+(\w+)\[(\d+)\],\s*(\w+)\[(\d+)\]$`)
	twoQubitParamRegex   = regexp.MustCompile(`^(\w+)\s*\(\s*(` + paramPattern + `)\s*\)\s+(\w+)\[(\d+)\],\s*(\w+)\[(\d+)\]$`)
	threeQubitRegex      = regexp.MustCompile(`^(\w+)\s+(\w+)\[(\d+)\],\s*(\w+)\[(\d+)\],\s*(\w+)\[(\d+)\]$`)
	measureRegex         = regexp.MustCompile(`^measure\s+(\w+)\[(\d+)\]\s*->\s*(\w+)\[(\d+)\]$`)
	qregRegex            = regexp.MustCompile(`^qreg\s+(\w+)\[(\d+)\]$`)
	cregRegex            = regexp.MustCompile(`^creg\s+(\w+)\[(\d+)\]$`)
)

var ErrQASMSyntax = errors.New("qasm syntax error")

// MaxQASMRegister bounds the registers ParseQASM accepts; nothing larger
// can be simulated.
const MaxQASMRegister = MaxSimQubits

// ToQASM generates OpenQASM 2.0 for the circuit. Empty registers are not
// declared.
func ToQASM(c Circuit) string {
	var sb strings.Builder
	sb.WriteString("OPENQASM 2.0;\n")
	sb.WriteString("include \"qelib1.inc\";\n\n")
	if c.Name != "" {
		fmt.Fprintf(&sb, "// %s\n", c.Name)
	}
	if c.NumQubits > 0 {
		fmt.Fprintf(&sb, "qreg q[%d];\n", c.NumQubits)
	}
	if c.NumCbits > 0 {
		fmt.Fprintf(&sb, "creg c[%d];\n", c.NumCbits)
	}
	sb.WriteString("\n")

	for _, gate := range c.Gates {
		writeGateQASM(&sb, gate, c.NumQubits)
	}
	return sb.String()
}

func writeGateQASM(sb *strings.Builder, gate Gate, numQubits int) {
	gateType := strings.ToLower(gate.Type)
	switch gate.Type {
	case GateBarrier:
		qubits := make([]string, numQubits)
		for q := range numQubits {
			qubits[q] = fmt.Sprintf("q[%d]", q)
		}
		fmt.Fprintf(sb, "barrier %s;\n", strings.Join(qubits, ", "))
	case GateMeasure:
		fmt.Fprintf(sb, "measure q[%d] -> c[%d];\n", gate.Target, gate.Cbit)
	case GateCCX:
		fmt.Fprintf(sb, "ccx q[%d], q[%d], q[%d];\n", gate.Controls[0], gate.Controls[1], gate.Target)
	case GateCX, GateSWAP:
		fmt.Fprintf(sb, "%s q[%d], q[%d];\n", gateType, gate.Control, gate.Target)
	case GateCP:
		fmt.Fprintf(sb, "cu1(%s) q[%d], q[%d];\n", formatParam(gate.Params[0]), gate.Control, gate.Target)
	case GateRX, GateRY, GateRZ, GateP:
		fmt.Fprintf(sb, "%s(%s) q[%d];\n", gateType, formatParam(gate.Params[0]), gate.Target)
	case GateS, GateT, GateSX:
		if gate.IsDagger {
			fmt.Fprintf(sb, "%sdg q[%d];\n", gateType, gate.Target)
		} else {
			fmt.Fprintf(sb, "%s q[%d];\n", gateType, gate.Target)
		}
	default:
		fmt.Fprintf(sb, "%s q[%d];\n", gateType, gate.Target)
	}
}

// ParseQASM reads the OpenQASM 2.0 subset ToQASM writes: one quantum and one
// classical register, the gates of this package, barriers and measurements.
func ParseQASM(qasm string) (Circuit, error) {
	var c Circuit
	qreg, creg := "", ""

	atoi := func(s string) int {
		n, _ := strconv.Atoi(s) // regex guarantees digits
		return n
	}
	checkReg := func(lineNo int, got, want, kind string) error {
		if want == "" {
			return fmt.Errorf("%w: line %d: %s register used before declaration", ErrQASMSyntax, lineNo, kind)
		}
		if got != want {
			return fmt.Errorf("%w: line %d: unknown %s register %q", ErrQASMSyntax, lineNo, kind, got)
		}
		return nil
	}

	for i, raw := range strings.Split(qasm, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(raw)
		if idx := strings.Index(line, "//"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		line = strings.TrimSpace(strings.TrimSuffix(line, ";"))
		if line == "" || strings.HasPrefix(line, "OPENQASM") || strings.HasPrefix(line, "include") {
			continue
		}

		if m := qregRegex.FindStringSubmatch(line); m != nil {
			if qreg != "" {
				return Circuit{}, fmt.Errorf("%w: line %d: only one qreg is supported", ErrQASMSyntax, lineNo)
			}
			size, err := regSize(lineNo, m[2])
			if err != nil {
				return Circuit{}, err
			}
			qreg, c.NumQubits = m[1], size
			continue
		}
		if m := cregRegex.FindStringSubmatch(line); m != nil {
			if creg != "" {
				return Circuit{}, fmt.Errorf("%w: line %d: only one creg is supported", ErrQASMSyntax, lineNo)
			}
			size, err := regSize(lineNo, m[2])
			if err != nil {
				return Circuit{}, err
			}
			creg, c.NumCbits = m[1], size
			continue
		}
		if strings.HasPrefix(line, "barrier") {
			c.Gates = append(c.Gates, Gate{Type: GateBarrier, Target: -1, Control: -1, Cbit: -1})
			continue
		}

		// Measurement: "measure q[0] -> c[0]"
		if m := measureRegex.FindStringSubmatch(line); m != nil {
			if err := checkReg(lineNo, m[1], qreg, "quantum"); err != nil {
				return Circuit{}, err
			}
			if err := checkReg(lineNo, m[3], creg, "classical"); err != nil {
				return Circuit{}, err
			}
			c.Gates = append(c.Gates, Gate{Type: GateMeasure, Target: atoi(m[2]), Control: -1, Cbit: atoi(m[4])})
			continue
		}

		// Two-qubit parameterized gates (CP, CU1)
		if m := twoQubitParamRegex.FindStringSubmatch(line); m != nil {
			name := strings.ToUpper(m[1])
			if name != "CP" && name != "CU1" {
				return Circuit{}, fmt.Errorf("%w: line %d: unsupported gate %q", ErrQASMSyntax, lineNo, m[1])
			}
			param, ok := parseParamExpr(m[2])
			if !ok {
				return Circuit{}, fmt.Errorf("%w: line %d: bad parameter %q", ErrQASMSyntax, lineNo, m[2])
			}
			for _, reg := range []string{m[3], m[5]} {
				if err := checkReg(lineNo, reg, qreg, "quantum"); err != nil {
					return Circuit{}, err
				}
			}
			c.Gates = append(c.Gates, Gate{Type: GateCP, Target: atoi(m[6]), Control: atoi(m[4]), Cbit: -1, Params: []float64{param}})
			continue
		}

		// Single-qubit parameterized gates (RX, RY, RZ, P, U1)
		if m := singleGateParamRegex.FindStringSubmatch(line); m != nil {
			name := strings.ToUpper(m[1])
			switch name {
			case GateRX, GateRY, GateRZ, GateP:
			case "U1":
				name = GateP
			default:
				return Circuit{}, fmt.Errorf("%w: line %d: unsupported gate %q", ErrQASMSyntax, lineNo, m[1])
			}
			param, ok := parseParamExpr(m[2])
			if !ok {
				return Circuit{}, fmt.Errorf("%w: line %d: bad parameter %q", ErrQASMSyntax, lineNo, m[2])
			}
			if err := checkReg(lineNo, m[3], qreg, "quantum"); err != nil {
				return Circuit{}, err
			}
			c.Gates = append(c.Gates, Gate{Type: name, Target: atoi(m[4]), Control: -1, Cbit: -1, Params: []float64{param}})
			continue
		}

		// Three-qubit gates (Toffoli/CCX)
		if m := threeQubitRegex.FindStringSubmatch(line); m != nil {
			if strings.ToUpper(m[1]) != GateCCX {
				return Circuit{}, fmt.Errorf("%w: line %d: unsupported gate %q", ErrQASMSyntax, lineNo, m[1])
			}
			for _, reg := range []string{m[2], m[4], m[6]} {
				if err := checkReg(lineNo, reg, qreg, "quantum"); err != nil {
					return Circuit{}, err
				}
			}
			c.Gates = append(c.Gates, Gate{
				Type:     GateCCX,
				Target:   atoi(m[7]),
				Control:  -1,
				Controls: []int{atoi(m[3]), atoi(m[5])},
				Cbit:     -1,
			})
			continue
		}

		// Two-qubit gates: cx, swap
		if m := twoQubitRegex.FindStringSubmatch(line); m != nil {
			name := strings.ToUpper(m[1])
			if name != GateCX && name != GateSWAP {
				return Circuit{}, fmt.Errorf("%w: line %d: unsupported gate %q", ErrQASMSyntax, lineNo, m[1])
			}
			for _, reg := range []string{m[2], m[4]} {
				if err := checkReg(lineNo, reg, qreg, "quantum"); err != nil {
					return Circuit{}, err
				}
			}
			c.Gates = append(c.Gates, Gate{Type: name, Target: atoi(m[5]), Control: atoi(m[3]), Cbit: -1})
			continue
		}

		// Single-qubit gate (including dagger gates)
		if m := singleGateRegex.FindStringSubmatch(line); m != nil {
			name := strings.ToUpper(m[1])
			isDagger := false
			if base, ok := strings.CutSuffix(name, "DG"); ok {
				name, isDagger = base, true
			}
			switch name {
			case GateH, GateX, GateY, GateZ:
				if isDagger {
					return Circuit{}, fmt.Errorf("%w: line %d: unsupported gate %q", ErrQASMSyntax, lineNo, m[1])
				}
			case GateS, GateT, GateSX:
			default:
				return Circuit{}, fmt.Errorf("%w: line %d: unsupported gate %q", ErrQASMSyntax, lineNo, m[1])
			}
			if err := checkReg(lineNo, m[2], qreg, "quantum"); err != nil {
				return Circuit{}, err
			}
			c.Gates = append(c.Gates, Gate{Type: name, Target: atoi(m[3]), Control: -1, Cbit: -1, IsDagger: isDagger})
			continue
		}

		return Circuit{}, fmt.Errorf("%w: line %d: cannot parse %q", ErrQASMSyntax, lineNo, line)
	}

	if err := c.Validate(); err != nil {
		return Circuit{}, err
	}
	return c, nil
}

// regSize parses a register size, rejecting anything above MaxQASMRegister.
func regSize(lineNo int, digits string) (int, error) {
	n, err := strconv.Atoi(digits)
	if err != nil || n > MaxQASMRegister {
		return 0, fmt.Errorf("%w: line %d: register size %s exceeds %d", ErrQASMSyntax, lineNo, digits, MaxQASMRegister)
	}
	return n, nil
}
