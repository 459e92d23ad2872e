// Package cnpj validates Brazilian tax-registration numbers (CNPJ).
package cnpj

// Normalize strips every non-digit character.
func Normalize(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}

// Valid reports whether s is a well-formed CNPJ: exactly 14 digits after
// normalization, not all the same digit, and both check digits matching
// the official mod-11 algorithm.
func Valid(s string) bool {
	d := Normalize(s)
	if len(d) != 14 {
		return false
	}
	allSame := true
	for i := 1; i < 14; i++ {
		if d[i] != d[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return false
	}

	d1 := checkDigit(d[:12])
	d2 := checkDigit(d[:12] + string('0'+byte(d1)))
	return int(d[12]-'0') == d1 && int(d[13]-'0') == d2
}

// checkDigit computes a mod-11 check digit over base with weights cycling
// down from 5 (first digit) or 6 (second digit) to 2, restarting at 9.
func checkDigit(base string) int {
	weight := len(base) - 7
	sum := 0
	for i := 0; i < len(base); i++ {
		sum += int(base[i]-'0') * weight
		weight--
		if weight < 2 {
			weight = 9
		}
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}
