package main

import "math/big"

// OrderFinder finds the multiplicative order of a modulo n.
// A nil result means no order was found: either gcd(a, n) != 1 or the
// search gave up.
type OrderFinder interface {
	FindOrder(a, n *big.Int) *big.Int
}

// ClassicalOrderFinder finds orders by repeated multiplication.
type ClassicalOrderFinder struct{}

func (ClassicalOrderFinder) FindOrder(a, n *big.Int) *big.Int {
	return FindOrder(a, n)
}

// FindOrder returns the smallest r > 0 with a^r ≡ 1 (mod n).
//
// It walks a, a^2, a^3, ... mod n until the running product returns to 1.
// The true order divides the size of the multiplicative group, which is
// smaller than n, so a step count above n means an upstream invariant broke
// and nil is returned instead of looping forever. The cost is linear in n.
func FindOrder(a, n *big.Int) *big.Int {
	if GCD(a, n).Cmp(bigOne) != 0 {
		return nil
	}
	r := big.NewInt(1)
	result := new(big.Int).Mod(a, n)
	for result.Cmp(bigOne) != 0 {
		result.Mul(result, a).Mod(result, n)
		r.Add(r, bigOne)
		if r.Cmp(n) > 0 {
			return nil
		}
	}
	return r
}

// PowerStep is one row of a power table a^x mod n.
type PowerStep struct {
	Exponent int
	Value    *big.Int
}

// PeriodSequence lists a^x mod n for x = 1..limit, stopping after the first 1.
func PeriodSequence(a, n *big.Int, limit int) []PowerStep {
	var steps []PowerStep
	for x := 1; x <= limit; x++ {
		v := ModPow(a, big.NewInt(int64(x)), n)
		steps = append(steps, PowerStep{Exponent: x, Value: v})
		if v.Cmp(bigOne) == 0 {
			break
		}
	}
	return steps
}
