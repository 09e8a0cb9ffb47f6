package main

import (
	"math/big"
)

// LimitDenominator returns the closest fraction to x whose denominator is at
// most maxDen, walking the continued-fraction convergents of x and comparing
// the last convergent with the best semiconvergent below the limit.
func LimitDenominator(x *big.Rat, maxDen *big.Int) *big.Rat {
	if maxDen.Sign() <= 0 {
		panic("LimitDenominator: maxDen must be positive")
	}
	if x.Denom().Cmp(maxDen) <= 0 {
		return new(big.Rat).Set(x)
	}

	p0, q0 := big.NewInt(0), big.NewInt(1)
	p1, q1 := big.NewInt(1), big.NewInt(0)
	n := new(big.Int).Set(x.Num())
	d := new(big.Int).Set(x.Denom())

	a := new(big.Int)
	tmp := new(big.Int)
	for {
		a.Div(n, d)
		q2 := new(big.Int).Mul(a, q1)
		q2.Add(q2, q0)
		if q2.Cmp(maxDen) > 0 {
			break
		}
		p2 := new(big.Int).Mul(a, p1)
		p2.Add(p2, p0)
		p0, q0, p1, q1 = p1, q1, p2, q2
		tmp.Mul(a, d)
		n, d = d, new(big.Int).Sub(n, tmp)
		if d.Sign() == 0 {
			break
		}
	}

	// k = (maxDen - q0) / q1
	k := new(big.Int).Sub(maxDen, q0)
	k.Div(k, q1)
	semi := new(big.Rat).SetFrac(
		new(big.Int).Add(p0, new(big.Int).Mul(k, p1)),
		new(big.Int).Add(q0, new(big.Int).Mul(k, q1)),
	)
	conv := new(big.Rat).SetFrac(p1, q1)

	dSemi := new(big.Rat).Sub(semi, x)
	dSemi.Abs(dSemi)
	dConv := new(big.Rat).Sub(conv, x)
	dConv.Abs(dConv)
	if dConv.Cmp(dSemi) <= 0 {
		return conv
	}
	return semi
}

// ExtractPeriod converts a measurement of the counting register into a
// candidate period. The measured value encodes the phase s/r as
// measured / 2^countingQubits; the denominator of its best approximation with
// denominator at most n is the candidate.
func ExtractPeriod(measured uint64, countingQubits int, n *big.Int) *big.Int {
	scale := new(big.Int).Lsh(bigOne, uint(countingQubits))
	phase := new(big.Rat).SetFrac(new(big.Int).SetUint64(measured), scale)
	frac := LimitDenominator(phase, n)
	return new(big.Int).Set(frac.Denom())
}
