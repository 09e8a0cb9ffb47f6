package main

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBuildPeriodFindingLayout(t *testing.T) {
	c := BuildPeriodFinding(big.NewInt(7), big.NewInt(15), 4)

	assert.Equal(t, 8, c.NumQubits, "4 counting + 4 auxiliary qubits")
	assert.Equal(t, 4, c.NumCbits)
	require.Len(t, c.Gates, 26)

	assert.Equal(t, GateX, c.Gates[0].Type)
	assert.Equal(t, 4, c.Gates[0].Target, "auxiliary register starts at |1⟩")
	for q := range 4 {
		assert.Equal(t, GateH, c.Gates[1+q].Type)
		assert.Equal(t, q, c.Gates[1+q].Target)
	}
	assert.Equal(t, 5, c.Count(GateBarrier))
	assert.Equal(t, 4, c.Count(GateMeasure))
	assert.Equal(t, 6, c.Count(GateCP))

	// Nothing past the counting register is touched after the X.
	for _, g := range c.Gates[1:] {
		for _, q := range g.Qubits() {
			assert.Less(t, q, 4, "%s touches auxiliary qubit %d", g.Type, q)
		}
	}

	assert.Equal(t, []string{
		"U^(2^0): multiply by 7^1 mod 15 = 7",
		"U^(2^1): multiply by 7^2 mod 15 = 4",
		"U^(2^2): multiply by 7^4 mod 15 = 1",
		"U^(2^3): multiply by 7^8 mod 15 = 1",
	}, c.Notes)
	require.NoError(t, c.Validate())
}

func TestBuildPeriodFindingPanics(t *testing.T) {
	assert.Panics(t, func() { BuildPeriodFinding(big.NewInt(7), big.NewInt(15), 0) })
	assert.Panics(t, func() { BuildPeriodFinding(big.NewInt(2), big.NewInt(1), 3) })
}

func TestPeriodFindingScaffoldMeasuresZero(t *testing.T) {
	c := BuildPeriodFinding(big.NewInt(7), big.NewInt(15), 4)
	counts, err := NewStateVectorSimulator(3).Run(c, 256)
	require.NoError(t, err)
	assert.Equal(t, MeasurementCounts{"0000": 256}, counts)
}

type fixedSimulator struct {
	counts MeasurementCounts
	err    error
}

func (s fixedSimulator) Run(Circuit, int) (MeasurementCounts, error) {
	return s.counts, s.err
}

type countingFinder struct {
	order *big.Int
	calls int
}

func (f *countingFinder) FindOrder(a, n *big.Int) *big.Int {
	f.calls++
	return f.order
}

func TestQuantumOrderFinder(t *testing.T) {
	a, n := big.NewInt(7), big.NewInt(15)

	t.Run("falls back on the scaffold", func(t *testing.T) {
		f := NewQuantumOrderFinder(NewStateVectorSimulator(1), 4, 64, zap.NewNop())
		r := f.FindOrder(a, n)
		require.NotNil(t, r)
		assert.Equal(t, int64(4), r.Int64())
	})

	t.Run("uses a verified measurement", func(t *testing.T) {
		fallback := &countingFinder{order: big.NewInt(99)}
		f := NewQuantumOrderFinder(fixedSimulator{counts: MeasurementCounts{"0100": 10, "0000": 3}}, 4, 13, nil)
		f.Fallback = fallback
		r := f.FindOrder(a, n)
		require.NotNil(t, r)
		assert.Equal(t, int64(4), r.Int64())
		assert.Zero(t, fallback.calls)
	})

	t.Run("recovers multiples of a partial period", func(t *testing.T) {
		// 8/16 reduces to 1/2, which only reveals r/2.
		f := NewQuantumOrderFinder(fixedSimulator{counts: MeasurementCounts{"1000": 1}}, 4, 1, nil)
		f.Fallback = nil
		r := f.FindOrder(a, n)
		require.NotNil(t, r)
		assert.Equal(t, int64(4), r.Int64())
	})

	t.Run("reduces multiples of the period", func(t *testing.T) {
		// 6/16 and 10/16 both reduce to a denominator of 8, twice the order.
		for _, bits := range []string{"0110", "1010"} {
			f := NewQuantumOrderFinder(fixedSimulator{counts: MeasurementCounts{bits: 1}}, 4, 1, nil)
			f.Fallback = nil
			r := f.FindOrder(a, n)
			require.NotNil(t, r, bits)
			assert.Equal(t, int64(4), r.Int64(), bits)
		}
	})

	t.Run("nil fallback", func(t *testing.T) {
		f := NewQuantumOrderFinder(fixedSimulator{counts: MeasurementCounts{"0000": 1}}, 4, 1, nil)
		f.Fallback = nil
		assert.Nil(t, f.FindOrder(a, n))
	})

	t.Run("simulator error falls back", func(t *testing.T) {
		fallback := &countingFinder{order: big.NewInt(4)}
		f := NewQuantumOrderFinder(fixedSimulator{err: errors.New("boom")}, 4, 1, nil)
		f.Fallback = fallback
		r := f.FindOrder(a, n)
		require.NotNil(t, r)
		assert.Equal(t, int64(4), r.Int64())
		assert.Equal(t, 1, fallback.calls)
	})

	t.Run("shared factor", func(t *testing.T) {
		fallback := &countingFinder{order: big.NewInt(4)}
		f := NewQuantumOrderFinder(NewStateVectorSimulator(1), 4, 1, nil)
		f.Fallback = fallback
		assert.Nil(t, f.FindOrder(big.NewInt(6), n))
		assert.Zero(t, fallback.calls)
	})
}

func TestMinimalOrder(t *testing.T) {
	tests := []struct {
		a, n, m int64
		want    int64
	}{
		{7, 15, 4, 4},
		{7, 15, 12, 4},
		{7, 15, 8, 4},
		{2, 15, 16, 4},
		{4, 15, 12, 2},
		{2, 13, 36, 12},
		{3, 13, 12, 3},
		{14, 15, 6, 2},
		{1, 15, 9, 1},
	}
	for _, tt := range tests {
		got := minimalOrder(big.NewInt(tt.a), big.NewInt(tt.n), big.NewInt(tt.m))
		assert.Equal(t, tt.want, got.Int64(), "minimalOrder(%d, %d, %d)", tt.a, tt.n, tt.m)
		assert.Equal(t, tt.want, FindOrder(big.NewInt(tt.a), big.NewInt(tt.n)).Int64(), "order of %d mod %d", tt.a, tt.n)
	}
}

func TestVerifyPeriod(t *testing.T) {
	a, n := big.NewInt(7), big.NewInt(15)
	tests := []struct {
		r    int64
		want int64 // 0 means nil
	}{
		{4, 4},
		{2, 4},
		{1, 4},
		{3, 4},
		{6, 4},
		{8, 4},
		{5, 0},
	}
	for _, tt := range tests {
		got := verifyPeriod(a, n, big.NewInt(tt.r))
		if tt.want == 0 {
			assert.Nil(t, got, "verifyPeriod(%d)", tt.r)
			continue
		}
		require.NotNil(t, got, "verifyPeriod(%d)", tt.r)
		assert.Equal(t, tt.want, got.Int64(), "verifyPeriod(%d)", tt.r)
	}
}
