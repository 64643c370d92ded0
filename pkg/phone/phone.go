// Package phone handles Moroccan mobile numbers as entered on the registration form.
package phone

import (
	"regexp"
	"strings"
)

const countryCode = "212"

var (
	separators  = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "")
	moroccanRE  = regexp.MustCompile(`^(\+212|212|0)?[567]\d{8}$`)
	nonDigitsRE = regexp.MustCompile(`\D`)
)

// Valid reports whether raw looks like a Moroccan mobile or landline number
// once spaces, dashes and parentheses are removed.
func Valid(raw string) bool {
	return moroccanRE.MatchString(separators.Replace(strings.TrimSpace(raw)))
}

// Normalize converts raw into the international form expected by the
// messaging provider: digits only, prefixed with 212. A single leading
// zero is dropped before the prefix is added.
func Normalize(raw string) string {
	digits := nonDigitsRE.ReplaceAllString(raw, "")
	if digits == "" || strings.HasPrefix(digits, countryCode) {
		return digits
	}
	return countryCode + strings.TrimPrefix(digits, "0")
}
