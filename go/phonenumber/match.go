package phonenumber

import (
	"errors"
	"strconv"
	"strings"
)

// IsNumberMatch compares two numbers, ignoring how they were entered. Numbers with differing extensions never
// match. A number without a country code takes the country code of the other one, and its best match is then
// NSN_MATCH.
func (e *Engine) IsNumberMatch(a, b *PhoneNumber) MatchType {
	first, second := *a, *b
	for _, n := range []*PhoneNumber{&first, &second} {
		n.RawInput = ""
		n.CountryCodeSource = Unspecified
		n.PreferredDomesticCarrierCode = ""
	}
	if first.Extension != "" && second.Extension != "" && first.Extension != second.Extension {
		return NoMatch
	}

	if first.CountryCode != 0 && second.CountryCode != 0 {
		switch {
		case first == second:
			return ExactMatch
		case first.CountryCode == second.CountryCode && isNationalNumberSuffixOfTheOther(&first, &second):
			// One number may have been written without its area code.
			return ShortNSNMatch
		default:
			return NoMatch
		}
	}

	first.CountryCode = second.CountryCode
	switch {
	case first == second:
		return NSNMatch
	case isNationalNumberSuffixOfTheOther(&first, &second):
		return ShortNSNMatch
	default:
		return NoMatch
	}
}

// IsNumberMatchWithOneString compares n with a number written as text. Text without a country code is read in
// the main region of the country code of n.
func (e *Engine) IsNumberMatchWithOneString(n *PhoneNumber, second string) MatchType {
	secondNumber, err := e.Parse(second, UnknownRegion)
	if err == nil {
		return e.IsNumberMatch(n, secondNumber)
	}
	if !errors.Is(err, ErrInvalidCountryCode) {
		return InvalidNumber
	}

	regionCode := e.GetRegionCodeForCountryCode(n.CountryCode)
	if regionCode != UnknownRegion {
		secondNumber, err := e.Parse(second, regionCode)
		if err != nil {
			return InvalidNumber
		}
		// The country code of the text was assumed, so the best it can be is an NSN_MATCH.
		if match := e.IsNumberMatch(n, secondNumber); match != ExactMatch {
			return match
		}
		return NSNMatch
	}

	secondNumber, err = e.parseHelper(second, UnknownRegion, false, false)
	if err != nil {
		return InvalidNumber
	}
	return e.IsNumberMatch(n, secondNumber)
}

// IsNumberMatchWithTwoStrings compares two numbers written as text. It returns INVALID_NUMBER when either cannot
// be parsed.
func (e *Engine) IsNumberMatchWithTwoStrings(first, second string) MatchType {
	firstNumber, err := e.Parse(first, UnknownRegion)
	if err == nil {
		return e.IsNumberMatchWithOneString(firstNumber, second)
	}
	if !errors.Is(err, ErrInvalidCountryCode) {
		return InvalidNumber
	}

	secondNumber, err := e.Parse(second, UnknownRegion)
	if err == nil {
		return e.IsNumberMatchWithOneString(secondNumber, first)
	}
	if !errors.Is(err, ErrInvalidCountryCode) {
		return InvalidNumber
	}

	// Neither has a country code: compare them as national numbers.
	firstNumber, err = e.parseHelper(first, UnknownRegion, false, false)
	if err != nil {
		return InvalidNumber
	}
	secondNumber, err = e.parseHelper(second, UnknownRegion, false, false)
	if err != nil {
		return InvalidNumber
	}
	return e.IsNumberMatch(firstNumber, secondNumber)
}

func isNationalNumberSuffixOfTheOther(a, b *PhoneNumber) bool {
	first := strconv.FormatUint(a.NationalNumber, 10)
	second := strconv.FormatUint(b.NationalNumber, 10)
	return strings.HasSuffix(first, second) || strings.HasSuffix(second, first)
}
