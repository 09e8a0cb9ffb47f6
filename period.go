package main

import (
	"fmt"
	"math/big"
	"strconv"

	"go.uber.org/zap"
)

// BuildPeriodFinding assembles the period-finding circuit for a modulo n.
//
// Qubits 0..counting-1 form the counting register; the auxiliary register
// above them holds n in binary and starts at |1⟩. The controlled a^(2^j)
// multiplications are not synthesized: each one is a barrier, with the
// classical value it would multiply by recorded in Notes.
func BuildPeriodFinding(a, n *big.Int, counting int) Circuit {
	if counting < 1 {
		panic(fmt.Sprintf("BuildPeriodFinding: need at least one counting qubit, got %d", counting))
	}
	if n.Cmp(bigOne) <= 0 {
		panic(fmt.Sprintf("BuildPeriodFinding: modulus %s must exceed 1", n))
	}
	aux := n.BitLen()
	qc := NewCircuit(counting+aux, counting)
	qc.Name = fmt.Sprintf("period-finding a=%s N=%s", a, n)

	qc.X(counting)

	for q := range counting {
		qc.H(q)
	}

	power := big.NewInt(1)
	for j := range counting {
		mult := ModPow(a, power, n)
		qc.Notes = append(qc.Notes, fmt.Sprintf("U^(2^%d): multiply by %s^%s mod %s = %s", j, a, power, n, mult))
		qc.Barrier()
		power.Lsh(power, 1)
	}
	qc.Barrier()

	qc = qc.Compose(BuildInverseQFT(counting), identityMap(counting), nil)

	for q := range counting {
		qc.Measure(q, q)
	}
	return qc
}

// QuantumOrderFinder estimates orders by running the period-finding circuit,
// reading candidate periods from the measurements with continued fractions
// and checking each candidate classically. When no candidate checks out it
// falls back to Fallback.
type QuantumOrderFinder struct {
	Simulator      Simulator
	CountingQubits int
	Shots          int
	Fallback       OrderFinder
	Logger         *zap.Logger
}

// NewQuantumOrderFinder returns a finder backed by sim that falls back to
// classical order finding.
func NewQuantumOrderFinder(sim Simulator, countingQubits, shots int, logger *zap.Logger) *QuantumOrderFinder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuantumOrderFinder{
		Simulator:      sim,
		CountingQubits: countingQubits,
		Shots:          shots,
		Fallback:       ClassicalOrderFinder{},
		Logger:         logger,
	}
}

func (f *QuantumOrderFinder) FindOrder(a, n *big.Int) *big.Int {
	log := f.Logger.With(zap.String("a", a.String()), zap.String("n", n.String()))
	if GCD(a, n).Cmp(bigOne) != 0 {
		return nil
	}

	if r, err := f.estimate(a, n); err != nil {
		log.Warn("period-finding run failed", zap.Error(err))
	} else if r != nil {
		log.Debug("period extracted from measurements", zap.String("r", r.String()))
		return r
	}

	log.Info("period extraction failed, falling back to classical order finding")
	if f.Fallback == nil {
		return nil
	}
	return f.Fallback.FindOrder(a, n)
}

// estimate returns a verified period or nil if no measurement yields one.
func (f *QuantumOrderFinder) estimate(a, n *big.Int) (*big.Int, error) {
	qc := BuildPeriodFinding(a, n, f.CountingQubits)
	counts, err := f.Simulator.Run(qc, f.Shots)
	if err != nil {
		return nil, err
	}
	for _, entry := range counts.Sorted() {
		measured, err := strconv.ParseUint(entry.Bits, 2, 64)
		if err != nil {
			return nil, fmt.Errorf("bad bitstring %q: %w", entry.Bits, err)
		}
		if measured == 0 {
			// phase 0 says nothing about r
			continue
		}
		candidate := ExtractPeriod(measured, f.CountingQubits, n)
		if r := verifyPeriod(a, n, candidate); r != nil {
			return r, nil
		}
	}
	return nil, nil
}

// verifyPeriod checks r and its small multiples, since a measured phase s/r
// with gcd(s, r) > 1 only reveals a divisor of r. A passing exponent is
// reduced to the order of a, so the result is always minimal.
func verifyPeriod(a, n, r *big.Int) *big.Int {
	for k := int64(1); k <= 4; k++ {
		m := new(big.Int).Mul(r, big.NewInt(k))
		if m.Cmp(n) > 0 {
			break
		}
		if ModPow(a, m, n).Cmp(bigOne) == 0 {
			return minimalOrder(a, n, m)
		}
	}
	return nil
}

// minimalOrder shrinks m, where a^m ≡ 1 (mod n), to the order of a by
// dividing out each prime factor of m for as long as the congruence holds.
func minimalOrder(a, n, m *big.Int) *big.Int {
	order := new(big.Int).Set(m)
	rest := new(big.Int).Set(m)
	rem := new(big.Int)
	for rest.Cmp(bigOne) > 0 {
		p := SmallestFactor(rest)
		if p == nil {
			p = new(big.Int).Set(rest)
		}
		for rem.Rem(rest, p).Sign() == 0 {
			rest.Quo(rest, p)
		}
		for rem.Rem(order, p).Sign() == 0 {
			smaller := new(big.Int).Quo(order, p)
			if ModPow(a, smaller, n).Cmp(bigOne) != 0 {
				break
			}
			order = smaller
		}
	}
	return order
}
