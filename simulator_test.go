package main

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDeterministicCircuits(t *testing.T) {
	sxsx := NewCircuit(1, 1)
	sxsx.AddGate(GateSX, 0)
	sxsx.AddGate(GateSX, 0)
	sxsx.Measure(0, 0)

	sxdg := NewCircuit(1, 1)
	sxdg.AddGate(GateSX, 0)
	sxdg.AddDaggerGate(GateSX, 0)
	sxdg.Measure(0, 0)

	rx := NewCircuit(1, 1)
	rx.AddParameterizedGate(GateRX, 0, math.Pi)
	rx.Measure(0, 0)

	zz := NewCircuit(1, 1)
	zz.H(0)
	zz.AddGate(GateS, 0)
	zz.AddGate(GateS, 0)
	zz.H(0)
	zz.Measure(0, 0)

	tests := []struct {
		name    string
		circuit Circuit
		want    string
	}{
		{"sx twice", sxsx, "1"},
		{"sx then sxdg", sxdg, "0"},
		{"rx pi", rx, "1"},
		{"h s s h", zz, "1"},
		{"swap", swapCircuit(), "10"},
		{"toffoli", toffoliCircuit(), "111"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			counts, err := NewStateVectorSimulator(1).Run(tt.circuit, 100)
			require.NoError(t, err)
			assert.Equal(t, MeasurementCounts{tt.want: 100}, counts)
		})
	}
}

func TestRunBitOrder(t *testing.T) {
	// Flipping qubit 0 sets the rightmost character.
	c := NewCircuit(2, 2)
	c.X(0)
	c.Measure(0, 0)
	c.Measure(1, 1)
	counts, err := NewStateVectorSimulator(1).Run(c, 10)
	require.NoError(t, err)
	assert.Equal(t, MeasurementCounts{"01": 10}, counts)

	// Measuring q[1] into c[0] moves the bit.
	c = NewCircuit(2, 2)
	c.X(1)
	c.Measure(1, 0)
	counts, err = NewStateVectorSimulator(1).Run(c, 10)
	require.NoError(t, err)
	assert.Equal(t, MeasurementCounts{"01": 10}, counts)
}

func TestRunBellState(t *testing.T) {
	counts, err := NewStateVectorSimulator(7).Run(bellCircuit(), 2000)
	require.NoError(t, err)

	assert.Equal(t, 2000, counts.Shots())
	assert.Zero(t, counts["01"])
	assert.Zero(t, counts["10"])
	assert.InDelta(t, 1000, counts["00"], 150)
	assert.InDelta(t, 1000, counts["11"], 150)
}

func TestRunIsSeedDeterministic(t *testing.T) {
	c := QFTTestCircuit(3)
	a, err := NewStateVectorSimulator(99).Run(c, 500)
	require.NoError(t, err)
	b, err := NewStateVectorSimulator(99).Run(c, 500)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRunErrors(t *testing.T) {
	sim := NewStateVectorSimulator(1)

	_, err := sim.Run(bellCircuit(), 0)
	assert.ErrorIs(t, err, ErrInvalidShots)

	_, err = sim.Run(NewCircuit(MaxSimQubits+1, 0), 1)
	assert.ErrorIs(t, err, ErrTooManyQubits)

	mid := NewCircuit(1, 1)
	mid.Measure(0, 0)
	mid.H(0)
	_, err = sim.Run(mid, 1)
	assert.ErrorIs(t, err, ErrMidCircuitMeasure)

	bad := Circuit{NumQubits: 1, Gates: []Gate{{Type: GateH, Target: 3, Control: -1, Cbit: -1}}}
	_, err = sim.Run(bad, 1)
	assert.ErrorIs(t, err, ErrInvalidCircuit)
}

func TestStatevectorAmplitudes(t *testing.T) {
	sim := NewStateVectorSimulator(1)

	y := NewCircuit(1, 0)
	y.AddGate(GateY, 0)
	state, err := sim.Statevector(y)
	require.NoError(t, err)
	assert.Equal(t, complex(0, 1), state.Amplitudes[1])

	ry := NewCircuit(1, 0)
	ry.AddParameterizedGate(GateRY, 0, math.Pi/2)
	state, err = sim.Statevector(ry)
	require.NoError(t, err)
	probs := state.Probabilities()
	assert.InDelta(t, 0.5, probs[0], 1e-12)
	assert.InDelta(t, 0.5, probs[1], 1e-12)

	tgate := NewCircuit(1, 0)
	tgate.H(0)
	tgate.AddGate(GateT, 0)
	tgate.H(0)
	state, err = sim.Statevector(tgate)
	require.NoError(t, err)
	probs = state.Probabilities()
	assert.InDelta(t, math.Pow(math.Cos(math.Pi/8), 2), probs[0], 1e-12)
}

func TestMeasurementCountsOrdering(t *testing.T) {
	counts := MeasurementCounts{"11": 5, "01": 9, "00": 9, "10": 1}
	assert.Equal(t, []CountEntry{{"00", 9}, {"01", 9}, {"11", 5}, {"10", 1}}, counts.Sorted())
	assert.Equal(t, "00", counts.MostFrequent())
	assert.Equal(t, 24, counts.Shots())
	assert.Equal(t, "", MeasurementCounts{}.MostFrequent())
}
