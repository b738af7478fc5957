// Copyright (C) 2024 The phoenix-abi Authors. All Rights Reserved.

package render

import (
	"math"
	"strconv"
	"strings"
)

// formatNumber renders f the way the host platform stringifies numbers:
// the shortest digit sequence that round-trips, fixed notation for
// magnitudes in [1e-6, 1e21), exponential notation outside that range,
// "0" for negative zero, and the named infinities.
func formatNumber(f float64) string {
	if f == 0 {
		return "0" // covers negative zero
	}
	if math.IsInf(f, 0) {
		// Literals beyond float64 range parse to an infinity, which the
		// host shows by name.
		if f > 0 {
			return "Infinity"
		}
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		return trimExponent(strconv.FormatFloat(f, 'e', -1, 64))
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// trimExponent strips leading zeroes from the exponent digits: the
// host writes "1e+21" and "1e-7", never "1e+06" style padding.
func trimExponent(s string) string {
	mant, exp, ok := strings.Cut(s, "e")
	if !ok {
		return s
	}
	sign := ""
	if len(exp) > 0 && (exp[0] == '+' || exp[0] == '-') {
		sign, exp = exp[:1], exp[1:]
	}
	exp = strings.TrimLeft(exp, "0")
	if exp == "" {
		exp = "0"
	}
	return mant + "e" + sign + exp
}
