package main

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"
)

func TestFactorDefaults(t *testing.T) {
	tests := []struct {
		n      int64
		factor int64
		method Method
	}{
		{15, 3, MethodTrialDivision},
		{21, 3, MethodTrialDivision},
		{35, 5, MethodTrialDivision},
		{143, 11, MethodTrialDivision},
		{22, 2, MethodEven},
		{2, 2, MethodEven},
	}
	for _, tt := range tests {
		res, err := NewFactorizer().Factor(big.NewInt(tt.n))
		require.NoError(t, err, "N=%d", tt.n)
		require.True(t, res.Found(), "N=%d", tt.n)
		assert.Equal(t, tt.factor, res.Factor.Int64(), "N=%d", tt.n)
		assert.Equal(t, tt.method, res.Method, "N=%d", tt.n)
		assert.Empty(t, res.Attempts, "N=%d", tt.n)
	}
}

func TestFactorRejectsSmallInputs(t *testing.T) {
	f := NewFactorizer()
	for _, n := range []*big.Int{nil, big.NewInt(1), big.NewInt(0), big.NewInt(-15)} {
		res, err := f.Factor(n)
		assert.ErrorIs(t, err, ErrInvalidModulus, "N=%v", n)
		assert.Nil(t, res)
	}
}

func TestFactorPrimesExhaustAttempts(t *testing.T) {
	for _, p := range []int64{3, 13, 97} {
		res, err := NewFactorizer(WithMaxAttempts(6)).Factor(big.NewInt(p))
		require.NoError(t, err)
		assert.False(t, res.Found(), "N=%d", p)
		assert.Equal(t, MethodNone, res.Method)
		assert.Nil(t, res.Cofactor())
		require.Len(t, res.Attempts, 6)
		for _, at := range res.Attempts {
			assert.Contains(t, []Outcome{OutcomeOddOrder, OutcomeTrivialRoot, OutcomeTrivialFactors}, at.Outcome)
		}
	}
}

func TestFactorOutcomes(t *testing.T) {
	n := big.NewInt(13)

	t.Run("no order", func(t *testing.T) {
		finder := &countingFinder{}
		res, err := NewFactorizer(WithOrderFinder(finder), WithMaxAttempts(4)).Factor(n)
		require.NoError(t, err)
		assert.False(t, res.Found())
		assert.Equal(t, 4, finder.calls)
		for _, at := range res.Attempts {
			assert.Equal(t, OutcomeNoOrder, at.Outcome)
			assert.Nil(t, at.Order)
		}
	})

	t.Run("odd order", func(t *testing.T) {
		finder := &countingFinder{order: big.NewInt(3)}
		res, err := NewFactorizer(WithOrderFinder(finder), WithMaxAttempts(4)).Factor(n)
		require.NoError(t, err)
		require.Len(t, res.Attempts, 4)
		for _, at := range res.Attempts {
			assert.Equal(t, OutcomeOddOrder, at.Outcome)
			assert.Nil(t, at.X)
		}
	})

	t.Run("trivial roots and factors", func(t *testing.T) {
		// a^6 mod 13 is always 1 or 12.
		finder := &countingFinder{order: big.NewInt(12)}
		res, err := NewFactorizer(WithOrderFinder(finder), WithMaxAttempts(20)).Factor(n)
		require.NoError(t, err)
		require.Len(t, res.Attempts, 20)
		for _, at := range res.Attempts {
			switch at.X.Int64() {
			case 12:
				assert.Equal(t, OutcomeTrivialRoot, at.Outcome)
				assert.Nil(t, at.F1)
			case 1:
				assert.Equal(t, OutcomeTrivialFactors, at.Outcome)
				assert.Equal(t, int64(1), at.F1.Int64())
				assert.Equal(t, int64(13), at.F2.Int64())
			default:
				t.Errorf("unexpected x = %s", at.X)
			}
		}
	})
}

func TestFactorSharedFactor(t *testing.T) {
	res, err := NewFactorizer(
		WithOrderFinder(&countingFinder{}),
		WithoutTrialDivision(),
		WithMaxAttempts(50),
	).Factor(big.NewInt(15))
	require.NoError(t, err)
	require.True(t, res.Found())
	assert.Equal(t, MethodGCD, res.Method)
	assert.Contains(t, []int64{3, 5}, res.Factor.Int64())

	last := res.Attempts[len(res.Attempts)-1]
	assert.Equal(t, OutcomeSharedFactor, last.Outcome)
	assert.Zero(t, new(big.Int).Rem(last.Witness, res.Factor).Sign())
}

// seedForWitness finds a seed whose first witness for n is want.
func seedForWitness(t *testing.T, n *big.Int, want int64) int64 {
	t.Helper()
	for seed := int64(1); seed <= 10000; seed++ {
		if NewFactorizer(WithSeed(seed)).witness(n).Int64() == want {
			return seed
		}
	}
	require.FailNow(t, "no seed draws the witness", "witness %d mod %s", want, n)
	return 0
}

func TestFactorGCDPreference(t *testing.T) {
	n := big.NewInt(15)
	tests := []struct {
		name    string
		witness int64
		x       int64
		f1, f2  int64
		factor  int64
	}{
		// x+1 and x-1 both share a factor with 15: gcd(x+1, N) wins.
		{"both non-trivial", 11, 11, 3, 5, 3},
		{"both non-trivial reversed", 4, 4, 5, 3, 5},
		// x+1 is coprime to 15, so the factor comes from x-1.
		{"only second", 7, 7, 1, 3, 3},
		{"only second high", 13, 13, 1, 3, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seed := seedForWitness(t, n, tt.witness)
			res, err := NewFactorizer(
				WithRand(rand.New(rand.NewSource(seed))),
				WithOrderFinder(&countingFinder{order: big.NewInt(2)}),
				WithoutTrialDivision(),
				WithMaxAttempts(1),
			).Factor(n)
			require.NoError(t, err)
			require.True(t, res.Found())
			require.Len(t, res.Attempts, 1)

			at := res.Attempts[0]
			assert.Equal(t, tt.witness, at.Witness.Int64())
			assert.Equal(t, OutcomeFactor, at.Outcome)
			assert.Equal(t, tt.x, at.X.Int64())
			assert.Equal(t, tt.f1, at.F1.Int64())
			assert.Equal(t, tt.f2, at.F2.Int64())
			assert.Equal(t, MethodPeriod, res.Method)
			assert.Equal(t, tt.factor, res.Factor.Int64())
		})
	}
}

func TestFactorClassicalWitnessLoop(t *testing.T) {
	for _, n := range []int64{15, 21, 35, 77, 91} {
		res, err := NewFactorizer(WithoutTrialDivision(), WithSeed(n), WithMaxAttempts(40)).Factor(big.NewInt(n))
		require.NoError(t, err)
		require.True(t, res.Found(), "N=%d", n)
		assert.Contains(t, []Method{MethodGCD, MethodPeriod}, res.Method)
		assert.Zero(t, new(big.Int).Rem(big.NewInt(n), res.Factor).Sign(), "N=%d factor=%s", n, res.Factor)
		assert.Equal(t, n, new(big.Int).Mul(res.Factor, res.Cofactor()).Int64())
	}
}

func TestFactorWithQuantumOrderFinder(t *testing.T) {
	finder := NewQuantumOrderFinder(NewStateVectorSimulator(5), 4, 64, zaptest.NewLogger(t))
	res, err := NewFactorizer(
		WithOrderFinder(finder),
		WithoutTrialDivision(),
		WithMaxAttempts(40),
		WithLogger(zaptest.NewLogger(t)),
	).Factor(big.NewInt(15))
	require.NoError(t, err)
	require.True(t, res.Found())
	assert.Contains(t, []int64{3, 5}, res.Factor.Int64())
}

func TestFactorIsSeedDeterministic(t *testing.T) {
	witnesses := func(seed int64) []string {
		res, err := NewFactorizer(
			WithSeed(seed),
			WithOrderFinder(&countingFinder{}),
			WithMaxAttempts(8),
		).Factor(big.NewInt(97))
		require.NoError(t, err)
		var out []string
		for _, at := range res.Attempts {
			out = append(out, at.Witness.String())
		}
		return out
	}
	assert.Equal(t, witnesses(11), witnesses(11))
	assert.Len(t, witnesses(11), 8)
}

func TestWitnessRange(t *testing.T) {
	f := NewFactorizer(WithRand(rand.New(rand.NewSource(1))))
	n := big.NewInt(7)
	seen := map[int64]bool{}
	for range 500 {
		a := f.witness(n).Int64()
		assert.GreaterOrEqual(t, a, int64(2))
		assert.LessOrEqual(t, a, int64(6))
		seen[a] = true
	}
	assert.Len(t, seen, 5)
}

func TestFactorLogsProgress(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	_, err := NewFactorizer(WithLogger(zap.New(core))).Factor(big.NewInt(21))
	require.NoError(t, err)

	entries := logs.FilterMessage("found factor using trial division").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "3", entries[0].ContextMap()["factor"])
	assert.Equal(t, "21", entries[0].ContextMap()["n"])
}

func TestResultCofactor(t *testing.T) {
	res := &Result{N: big.NewInt(35), Factor: big.NewInt(7)}
	assert.Equal(t, int64(5), res.Cofactor().Int64())
	assert.True(t, res.Found())

	res = &Result{N: big.NewInt(35)}
	assert.Nil(t, res.Cofactor())
	assert.False(t, res.Found())
}
