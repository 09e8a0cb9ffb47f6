package main

import (
	"math/big"
)

var (
	bigOne = big.NewInt(1)
	bigTwo = big.NewInt(2)
)

// GCD returns the non-negative greatest common divisor of x and y.
// gcd(0, 0) is not a meaningful input.
func GCD(x, y *big.Int) *big.Int {
	a := new(big.Int).Abs(x)
	b := new(big.Int).Abs(y)
	for b.Sign() != 0 {
		a.Mod(a, b)
		a, b = b, a
	}
	return a
}

// ModPow computes base^exp mod m by repeated squaring.
// exp must be non-negative and m at least 1; the result is in [0, m-1].
func ModPow(base, exp, m *big.Int) *big.Int {
	if m.Cmp(bigOne) == 0 {
		return new(big.Int)
	}
	result := big.NewInt(1)
	b := new(big.Int).Mod(base, m)
	for i := exp.BitLen() - 1; i >= 0; i-- {
		result.Mul(result, result).Mod(result, m)
		if exp.Bit(i) == 1 {
			result.Mul(result, b).Mod(result, m)
		}
	}
	return result
}

// SmallestFactor scans 2..floor(sqrt(n)) and returns the first divisor found,
// or nil if n is prime or 1. It is O(sqrt(n)) and only meant for small inputs.
func SmallestFactor(n *big.Int) *big.Int {
	if n.Cmp(bigTwo) < 0 {
		return nil
	}
	limit := new(big.Int).Sqrt(n)
	rem := new(big.Int)
	for p := big.NewInt(2); p.Cmp(limit) <= 0; p.Add(p, bigOne) {
		if rem.Mod(n, p).Sign() == 0 {
			return p
		}
	}
	return nil
}

// IsProbablePrime reports whether n is prime, using trial division for the
// demonstration range and Miller-Rabin above it.
func IsProbablePrime(n *big.Int) bool {
	if n.Cmp(bigTwo) < 0 {
		return false
	}
	if n.BitLen() <= 32 {
		return SmallestFactor(n) == nil
	}
	return n.ProbablyPrime(20)
}

func isEven(n *big.Int) bool {
	return n.Bit(0) == 0
}
