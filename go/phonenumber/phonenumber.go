package phonenumber

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/malonaz/libphonenumber/go/phonenumber/metadata"
)

// PhoneNumber is a parsed telephone number.
// Values are plain data, compare them with == once volatile fields have been cleared.
type PhoneNumber struct {
	CountryCode int32
	// NationalNumber holds the national significant number without its leading zero, see ItalianLeadingZero.
	NationalNumber uint64
	// Extension is empty when the number has none.
	Extension string
	// RawInput, CountryCodeSource and PreferredDomesticCarrierCode are only set by ParseAndKeepRawInput.
	RawInput                     string
	CountryCodeSource            CountryCodeSource
	PreferredDomesticCarrierCode string
	// ItalianLeadingZero is set for numbers of leading-zero countries whose national number starts with 0.
	ItalianLeadingZero bool
}

// String renders the structured fields, for logs and debugging.
func (n *PhoneNumber) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "country_code:%d national_number:%d", n.CountryCode, n.NationalNumber)
	if n.Extension != "" {
		fmt.Fprintf(&b, " extension:%q", n.Extension)
	}
	if n.ItalianLeadingZero {
		b.WriteString(" italian_leading_zero:true")
	}
	if n.RawInput != "" {
		fmt.Fprintf(&b, " raw_input:%q", n.RawInput)
	}
	if n.CountryCodeSource != Unspecified {
		fmt.Fprintf(&b, " country_code_source:%s", n.CountryCodeSource)
	}
	if n.PreferredDomesticCarrierCode != "" {
		fmt.Fprintf(&b, " preferred_domestic_carrier_code:%q", n.PreferredDomesticCarrierCode)
	}
	return b.String()
}

// NationalSignificantNumber returns the national number as text, restoring the italian leading zero.
func NationalSignificantNumber(n *PhoneNumber) string {
	nationalNumber := strconv.FormatUint(n.NationalNumber, 10)
	if n.ItalianLeadingZero && metadata.IsLeadingZeroCountry(n.CountryCode) {
		return "0" + nationalNumber
	}
	return nationalNumber
}

// CountryCodeSource records how the country code of a number was found.
type CountryCodeSource int

const (
	Unspecified CountryCodeSource = iota
	FromNumberWithPlusSign
	// FromNumberWithIDD means the number was written with an international dialling prefix, such as 011 from the US.
	FromNumberWithIDD
	// FromNumberWithoutPlusSign means the number started with its country code but no plus sign or prefix.
	FromNumberWithoutPlusSign
	FromDefaultCountry
)

var countryCodeSourceNames = [...]string{
	Unspecified:               "UNSPECIFIED",
	FromNumberWithPlusSign:    "FROM_NUMBER_WITH_PLUS_SIGN",
	FromNumberWithIDD:         "FROM_NUMBER_WITH_IDD",
	FromNumberWithoutPlusSign: "FROM_NUMBER_WITHOUT_PLUS_SIGN",
	FromDefaultCountry:        "FROM_DEFAULT_COUNTRY",
}

func (s CountryCodeSource) String() string {
	if s < 0 || int(s) >= len(countryCodeSourceNames) {
		return fmt.Sprintf("CountryCodeSource(%d)", int(s))
	}
	return countryCodeSourceNames[s]
}

// Format is an output style.
type Format int

const (
	E164 Format = iota
	International
	National
)

var formatNames = [...]string{
	E164:          "E164",
	International: "INTERNATIONAL",
	National:      "NATIONAL",
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// ParseFormat is the inverse of Format.String. It is case insensitive.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if strings.EqualFold(name, s) {
			return Format(f), nil
		}
	}
	return E164, fmt.Errorf("unknown format %q", s)
}

// MatchType is the confidence with which two numbers are the same.
type MatchType int

const (
	InvalidNumber MatchType = iota
	NoMatch
	// ShortNSNMatch means one national number is a suffix of the other.
	ShortNSNMatch
	// NSNMatch means the national numbers are equal but at most one of the numbers had a country code.
	NSNMatch
	ExactMatch
)

var matchTypeNames = [...]string{
	InvalidNumber: "INVALID_NUMBER",
	NoMatch:       "NO_MATCH",
	ShortNSNMatch: "SHORT_NSN_MATCH",
	NSNMatch:      "NSN_MATCH",
	ExactMatch:    "EXACT_MATCH",
}

func (m MatchType) String() string {
	if m < 0 || int(m) >= len(matchTypeNames) {
		return fmt.Sprintf("MatchType(%d)", int(m))
	}
	return matchTypeNames[m]
}

// ValidationResult is the outcome of a possibility check.
type ValidationResult int

const (
	IsPossible ValidationResult = iota
	CountryCodeInvalid
	TooShort
	TooLong
)

var validationResultNames = [...]string{
	IsPossible:         "IS_POSSIBLE",
	CountryCodeInvalid: "INVALID_COUNTRY_CODE",
	TooShort:           "TOO_SHORT",
	TooLong:            "TOO_LONG",
}

func (v ValidationResult) String() string {
	if v < 0 || int(v) >= len(validationResultNames) {
		return fmt.Sprintf("ValidationResult(%d)", int(v))
	}
	return validationResultNames[v]
}

// PhoneNumberType is re-exported so that callers rarely need the metadata package.
type PhoneNumberType = metadata.PhoneNumberType

const (
	FixedLine         = metadata.FixedLine
	Mobile            = metadata.Mobile
	FixedLineOrMobile = metadata.FixedLineOrMobile
	TollFree          = metadata.TollFree
	PremiumRate       = metadata.PremiumRate
	SharedCost        = metadata.SharedCost
	VoIP              = metadata.VoIP
	PersonalNumber    = metadata.PersonalNumber
	Pager             = metadata.Pager
	UAN               = metadata.UAN
	Unknown           = metadata.Unknown
)

// UnknownRegion is the region code of numbers that belong to no supported region.
const UnknownRegion = metadata.UnknownRegion
