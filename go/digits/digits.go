// Package digits transliterates decimal digits from any script into ASCII.
package digits

import (
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/width"
)

// Value returns the decimal value of r if r is a decimal digit in any script.
func Value(r rune) (int, bool) {
	if r >= '0' && r <= '9' {
		return int(r - '0'), true
	}
	if !unicode.Is(unicode.Nd, r) {
		return 0, false
	}
	// Decimal digits are allocated in contiguous runs starting at zero.
	for _, r16 := range unicode.Nd.R16 {
		if rune(r16.Lo) <= r && r <= rune(r16.Hi) {
			return int(r-rune(r16.Lo)) % 10, true
		}
	}
	for _, r32 := range unicode.Nd.R32 {
		if rune(r32.Lo) <= r && r <= rune(r32.Hi) {
			return int(r-rune(r32.Lo)) % 10, true
		}
	}
	return 0, false
}

// IsDigit reports whether r is a decimal digit in any script.
func IsDigit(r rune) bool {
	_, ok := Value(r)
	return ok
}

// ToASCII maps a decimal digit to its ASCII form and leaves every other rune untouched.
func ToASCII(r rune) rune {
	if v, ok := Value(r); ok {
		return rune('0' + v)
	}
	return r
}

// newOnlyTransformer folds wide forms, transliterates digits and drops everything else.
// Transformers keep state, so one is built per call.
func newOnlyTransformer() transform.Transformer {
	return transform.Chain(
		width.Fold,
		runes.Map(ToASCII),
		runes.Remove(runes.Predicate(func(r rune) bool { return r < '0' || r > '9' })),
	)
}

// Only returns the ASCII decimal digits found in s, in order.
func Only(s string) string {
	result, _, _ := transform.String(newOnlyTransformer(), s)
	return result
}

// Transliterate returns s with every decimal digit replaced by its ASCII form.
func Transliterate(s string) string {
	result, _, _ := transform.String(runes.Map(ToASCII), s)
	return result
}
