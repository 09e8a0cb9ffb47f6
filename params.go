package main

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// paramPattern matches a single parameter value: numbers, pi expressions, or combinations.
// Examples: "1.5707", "pi", "pi/2", "3*pi/4", "-pi", "-2*pi/3", "3.14e-2"
const paramPattern = `-?(?:\d*\.?\d*\*?pi(?:/\d+\.?\d*)?|\d+\.?\d*(?:[eE][+\-]?\d+)?)`

// piExprRegex matches expressions like: pi, 2pi, 2*pi, pi/2, 3pi/4, 3*pi/4, -pi, -pi/16
var piExprRegex = regexp.MustCompile(`^(-?)(\d*\.?\d*)\s*\*?\s*pi(?:\s*/\s*(\d+\.?\d*))?$`)

// parseParamExpr parses a plain number or a pi expression such as "pi/2",
// "3*pi/4" or "-pi/16".
func parseParamExpr(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if val, err := strconv.ParseFloat(s, 64); err == nil {
		return val, true
	}

	matches := piExprRegex.FindStringSubmatch(strings.ToLower(s))
	if matches == nil {
		return 0, false
	}
	coeff := 1.0
	if matches[2] != "" {
		var err error
		if coeff, err = strconv.ParseFloat(matches[2], 64); err != nil {
			return 0, false
		}
	}
	result := coeff * math.Pi
	if matches[3] != "" {
		denom, err := strconv.ParseFloat(matches[3], 64)
		if err != nil || denom == 0 {
			return 0, false
		}
		result /= denom
	}
	if matches[1] == "-" {
		result = -result
	}
	return result, true
}

// maxPiDenominator bounds the denominators formatParam looks for. QFT angles
// are pi/2^k, so powers of two up to this size print exactly.
const maxPiDenominator = 1 << 12

// formatParam renders an angle as a multiple of pi when it is k*pi/d for a
// small d, and as a plain number otherwise. Denominators are tried in
// ascending order so the fraction comes out in lowest terms.
func formatParam(val float64) string {
	if val == 0 {
		return "0"
	}
	ratio := val / math.Pi
	for _, d := range piDenominators() {
		k := math.Round(ratio * float64(d))
		if k == 0 || math.Abs(ratio*float64(d)-k) > 1e-9 {
			continue
		}
		return piFraction(int64(k), d)
	}
	return strconv.FormatFloat(val, 'g', -1, 64)
}

func piDenominators() []int {
	ds := []int{3, 6, 12}
	for d := 1; d <= maxPiDenominator; d *= 2 {
		ds = append(ds, d)
	}
	slices.Sort(ds)
	return ds
}

func piFraction(k int64, d int) string {
	sign := ""
	if k < 0 {
		sign, k = "-", -k
	}
	num := "pi"
	if k != 1 {
		num = fmt.Sprintf("%d*pi", k)
	}
	if d == 1 {
		return sign + num
	}
	return fmt.Sprintf("%s%s/%d", sign, num, d)
}
