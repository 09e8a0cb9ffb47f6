package main

import (
	"fmt"
	"math"
)

// BuildQFT returns the quantum Fourier transform over n qubits.
//
// The rotation layer for the highest qubit is emitted before recursing into
// the lower ones, and the bit-reversal swaps come last. Changing either order
// changes the unitary.
func BuildQFT(n int) Circuit {
	if n < 0 {
		panic(fmt.Sprintf("BuildQFT: negative qubit count %d", n))
	}
	qc := NewCircuit(n, 0)
	qc.Name = fmt.Sprintf("QFT(%d)", n)
	qc = qftRotations(qc, n)
	qc = swapRegisters(qc, n)
	return qc
}

// qftRotations applies the Hadamard and controlled-phase layer to qubit n-1,
// then recurses on qubits 0..n-2.
func qftRotations(qc Circuit, n int) Circuit {
	if n == 0 {
		return qc
	}
	n--
	qc.H(n)
	for qubit := 0; qubit < n; qubit++ {
		qc.CP(math.Pi/math.Exp2(float64(n-qubit)), qubit, n)
	}
	return qftRotations(qc, n)
}

// swapRegisters reverses the order of the first n qubits.
func swapRegisters(qc Circuit, n int) Circuit {
	for qubit := range n / 2 {
		qc.Swap(qubit, n-qubit-1)
	}
	return qc
}

// BuildInverseQFT returns the inverse quantum Fourier transform over n qubits.
func BuildInverseQFT(n int) Circuit {
	inv, err := BuildQFT(n).Inverse()
	if err != nil {
		// QFT holds no measurements.
		panic(err)
	}
	return inv
}
