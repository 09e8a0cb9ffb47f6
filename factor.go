package main

import (
	"errors"
	"fmt"
	"math/big"
	"math/rand"

	"go.uber.org/zap"
)

// DefaultMaxAttempts is the number of witnesses tried before giving up.
const DefaultMaxAttempts = 10

// DefaultSeed seeds the witness generator when no source is supplied.
const DefaultSeed = 42

var ErrInvalidModulus = errors.New("number to factor must be greater than 1")

// Method records how a factor was found.
type Method string

const (
	MethodEven          Method = "even"
	MethodTrialDivision Method = "trial-division"
	MethodGCD           Method = "gcd"
	MethodPeriod        Method = "period"
	MethodNone          Method = "none"
)

// Outcome is what happened to a single witness.
type Outcome string

const (
	OutcomeSharedFactor   Outcome = "shared-factor"   // gcd(a, N) > 1
	OutcomeNoOrder        Outcome = "no-order"        // order finder gave up
	OutcomeOddOrder       Outcome = "odd-order"       // r is odd
	OutcomeTrivialRoot    Outcome = "trivial-root"    // a^(r/2) ≡ -1 (mod N)
	OutcomeTrivialFactors Outcome = "trivial-factors" // both gcds are 1 or N
	OutcomeFactor         Outcome = "factor"
)

// Attempt describes one pass of the witness loop.
type Attempt struct {
	Witness *big.Int
	Order   *big.Int // nil unless an order was found
	X       *big.Int // a^(r/2) mod N, nil unless r was even
	F1, F2  *big.Int // gcd(x+1, N) and gcd(x-1, N)
	Outcome Outcome
}

// Result is the outcome of factoring one number. Factor is nil when every
// attempt was used up without finding a non-trivial factor.
type Result struct {
	N        *big.Int
	Factor   *big.Int
	Method   Method
	Attempts []Attempt
}

// Found reports whether a non-trivial factor was found.
func (r *Result) Found() bool {
	return r.Factor != nil
}

// Cofactor returns N / Factor, or nil if no factor was found.
func (r *Result) Cofactor() *big.Int {
	if r.Factor == nil {
		return nil
	}
	return new(big.Int).Quo(r.N, r.Factor)
}

// Factorizer runs the classical simulation of Shor's algorithm.
// It is not safe for concurrent use: its random source advances across
// attempts and across calls.
type Factorizer struct {
	maxAttempts   int
	rng           *rand.Rand
	orders        OrderFinder
	trialDivision bool
	logger        *zap.Logger
}

// Option configures a Factorizer.
type Option func(*Factorizer)

// WithMaxAttempts sets how many witnesses are tried.
func WithMaxAttempts(n int) Option {
	return func(f *Factorizer) { f.maxAttempts = n }
}

// WithSeed seeds a fresh random source once for the Factorizer's lifetime.
func WithSeed(seed int64) Option {
	return func(f *Factorizer) { f.rng = rand.New(rand.NewSource(seed)) }
}

// WithRand uses rng to draw witnesses.
func WithRand(rng *rand.Rand) Option {
	return func(f *Factorizer) { f.rng = rng }
}

// WithOrderFinder replaces the classical order finder.
func WithOrderFinder(of OrderFinder) Option {
	return func(f *Factorizer) { f.orders = of }
}

// WithoutTrialDivision skips the trial-division shortcut so composites reach
// the witness loop.
func WithoutTrialDivision() Option {
	return func(f *Factorizer) { f.trialDivision = false }
}

// WithLogger sets the logger for progress reporting.
func WithLogger(l *zap.Logger) Option {
	return func(f *Factorizer) { f.logger = l }
}

// NewFactorizer returns a Factorizer with defaults overridden by opts.
func NewFactorizer(opts ...Option) *Factorizer {
	f := &Factorizer{
		maxAttempts:   DefaultMaxAttempts,
		orders:        ClassicalOrderFinder{},
		trialDivision: true,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.rng == nil {
		f.rng = rand.New(rand.NewSource(DefaultSeed))
	}
	return f
}

// Factor looks for a non-trivial factor of n.
//
// Expected dead ends (shared factors aside, odd orders, a^(r/2) ≡ -1, trivial
// gcds) move on to the next witness. Running out of attempts is reported
// through a Result with a nil Factor, not an error; the only error is an
// input of 1 or less.
func (f *Factorizer) Factor(n *big.Int) (*Result, error) {
	if n == nil || n.Cmp(bigOne) <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidModulus, n)
	}
	res := &Result{N: new(big.Int).Set(n), Method: MethodNone}
	log := f.logger.With(zap.String("n", n.String()))

	if isEven(n) {
		log.Info("n is even", zap.String("factor", "2"))
		res.Factor, res.Method = big.NewInt(2), MethodEven
		return res, nil
	}

	if f.trialDivision {
		if p := SmallestFactor(n); p != nil {
			log.Info("found factor using trial division", zap.String("factor", p.String()))
			res.Factor, res.Method = p, MethodTrialDivision
			return res, nil
		}
	}

	nMinusOne := new(big.Int).Sub(n, bigOne)
	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		a := f.witness(n)
		at := Attempt{Witness: a}
		alog := log.With(zap.Int("attempt", attempt), zap.String("a", a.String()))

		if g := GCD(a, n); g.Cmp(bigOne) != 0 {
			at.Outcome = OutcomeSharedFactor
			res.Attempts = append(res.Attempts, at)
			alog.Info("found factor via gcd", zap.String("factor", g.String()))
			res.Factor, res.Method = g, MethodGCD
			return res, nil
		}

		r := f.orders.FindOrder(a, n)
		at.Order = r
		if r == nil {
			at.Outcome = OutcomeNoOrder
			res.Attempts = append(res.Attempts, at)
			alog.Info("failed to find period, trying another a")
			continue
		}
		alog = alog.With(zap.String("r", r.String()))

		if r.Bit(0) == 1 {
			at.Outcome = OutcomeOddOrder
			res.Attempts = append(res.Attempts, at)
			alog.Info("period is odd, trying another a")
			continue
		}

		x := ModPow(a, new(big.Int).Rsh(r, 1), n)
		at.X = x
		if x.Cmp(nMinusOne) == 0 {
			at.Outcome = OutcomeTrivialRoot
			res.Attempts = append(res.Attempts, at)
			alog.Info("a^(r/2) ≡ -1 (mod n), trying another a")
			continue
		}

		at.F1 = GCD(new(big.Int).Add(x, bigOne), n)
		at.F2 = GCD(new(big.Int).Sub(x, bigOne), n)
		alog.Debug("candidate factors", zap.String("f1", at.F1.String()), zap.String("f2", at.F2.String()))

		for _, cand := range []*big.Int{at.F1, at.F2} {
			if nonTrivial(cand, n) {
				at.Outcome = OutcomeFactor
				res.Attempts = append(res.Attempts, at)
				alog.Info("found non-trivial factor", zap.String("factor", cand.String()))
				res.Factor, res.Method = cand, MethodPeriod
				return res, nil
			}
		}
		at.Outcome = OutcomeTrivialFactors
		res.Attempts = append(res.Attempts, at)
		alog.Info("only trivial factors, trying another a")
	}

	log.Info("failed to find factors", zap.Int("attempts", f.maxAttempts))
	return res, nil
}

// witness draws a uniformly from [2, n-1].
func (f *Factorizer) witness(n *big.Int) *big.Int {
	span := new(big.Int).Sub(n, bigTwo)
	a := new(big.Int).Rand(f.rng, span)
	return a.Add(a, bigTwo)
}

func nonTrivial(f, n *big.Int) bool {
	return f.Cmp(bigOne) > 0 && f.Cmp(n) < 0
}
