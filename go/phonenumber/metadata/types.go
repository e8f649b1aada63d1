package metadata

import (
	"fmt"
	"strings"
)

// UnknownRegion is the region code used when a number cannot be attributed to any region.
const UnknownRegion = "ZZ"

// NANPACountryCode is the calling code shared by the regions of the North American Numbering Plan.
const NANPACountryCode int32 = 1

// PhoneNumberType classifies a number according to the descriptors of its region.
type PhoneNumberType int

const (
	FixedLine PhoneNumberType = iota
	Mobile
	// FixedLineOrMobile is used when fixed-line and mobile numbers cannot be told apart from the number alone.
	FixedLineOrMobile
	TollFree
	PremiumRate
	// SharedCost numbers split the cost of the call between caller and recipient.
	SharedCost
	VoIP
	// PersonalNumber numbers are associated with a person and may be routed to a mobile or fixed line.
	PersonalNumber
	Pager
	// UAN is a universal access number, a company number routed to specific offices.
	UAN
	Unknown
)

var phoneNumberTypeNames = [...]string{
	FixedLine:         "FIXED_LINE",
	Mobile:            "MOBILE",
	FixedLineOrMobile: "FIXED_LINE_OR_MOBILE",
	TollFree:          "TOLL_FREE",
	PremiumRate:       "PREMIUM_RATE",
	SharedCost:        "SHARED_COST",
	VoIP:              "VOIP",
	PersonalNumber:    "PERSONAL_NUMBER",
	Pager:             "PAGER",
	UAN:               "UAN",
	Unknown:           "UNKNOWN",
}

func (t PhoneNumberType) String() string {
	if t < 0 || int(t) >= len(phoneNumberTypeNames) {
		return fmt.Sprintf("PhoneNumberType(%d)", int(t))
	}
	return phoneNumberTypeNames[t]
}

// ParsePhoneNumberType is the inverse of PhoneNumberType.String. It is case insensitive.
func ParsePhoneNumberType(s string) (PhoneNumberType, error) {
	for t, name := range phoneNumberTypeNames {
		if strings.EqualFold(name, s) {
			return PhoneNumberType(t), nil
		}
	}
	return Unknown, fmt.Errorf("unknown phone number type %q", s)
}

// Types returns every specific number type, in the order they are tried when classifying a number.
func Types() []PhoneNumberType {
	return []PhoneNumberType{PremiumRate, TollFree, SharedCost, VoIP, PersonalNumber, Pager, UAN, FixedLine, Mobile}
}

// NumberDesc describes one class of numbers of a region.
// An empty NationalNumberPattern means the region has no numbers of this class.
type NumberDesc struct {
	NationalNumberPattern string
	PossibleNumberPattern string
	ExampleNumber         string
}

// HasNationalNumberPattern reports whether the descriptor carries a national number pattern.
func (d *NumberDesc) HasNationalNumberPattern() bool {
	return d != nil && d.NationalNumberPattern != ""
}

// NumberFormat is one formatting rule.
type NumberFormat struct {
	// Pattern must match the whole national significant number for the rule to apply.
	Pattern string
	// Format is the template, referencing the groups of Pattern as $1 to $9.
	Format string
	// LeadingDigitsPatterns are successively more detailed; only the last one is applied.
	LeadingDigitsPatterns []string
	// NationalPrefixFormattingRule replaces the first group of Format when formatting nationally.
	NationalPrefixFormattingRule string
	// DomesticCarrierCodeFormattingRule replaces the first group of Format when a carrier code is given.
	// It holds a $CC marker where the carrier code is inserted.
	DomesticCarrierCodeFormattingRule string
}

// Copy returns a shallow copy of the format with its own leading digits slice.
func (f *NumberFormat) Copy() *NumberFormat {
	c := *f
	c.LeadingDigitsPatterns = append([]string(nil), f.LeadingDigitsPatterns...)
	return &c
}

// RegionMetadata is the numbering plan of one region.
type RegionMetadata struct {
	ID          string
	CountryCode int32

	InternationalPrefix          string
	PreferredInternationalPrefix string
	NationalPrefix               string
	PreferredExtnPrefix          string
	NationalPrefixForParsing     string
	NationalPrefixTransformRule  string

	// LeadingDigits identifies the region among those sharing its country code.
	LeadingDigits      string
	MainCountryForCode bool

	SameMobileAndFixedLinePattern bool

	NumberFormats     []*NumberFormat
	IntlNumberFormats []*NumberFormat

	GeneralDesc    *NumberDesc
	FixedLine      *NumberDesc
	Mobile         *NumberDesc
	TollFree       *NumberDesc
	PremiumRate    *NumberDesc
	SharedCost     *NumberDesc
	VoIP           *NumberDesc
	PersonalNumber *NumberDesc
	Pager          *NumberDesc
	UAN            *NumberDesc
}

// descAccessors maps each type to the descriptor it is validated against.
var descAccessors = [...]func(*RegionMetadata) *NumberDesc{
	FixedLine:         func(r *RegionMetadata) *NumberDesc { return r.FixedLine },
	Mobile:            func(r *RegionMetadata) *NumberDesc { return r.Mobile },
	FixedLineOrMobile: func(r *RegionMetadata) *NumberDesc { return r.FixedLine },
	TollFree:          func(r *RegionMetadata) *NumberDesc { return r.TollFree },
	PremiumRate:       func(r *RegionMetadata) *NumberDesc { return r.PremiumRate },
	SharedCost:        func(r *RegionMetadata) *NumberDesc { return r.SharedCost },
	VoIP:              func(r *RegionMetadata) *NumberDesc { return r.VoIP },
	PersonalNumber:    func(r *RegionMetadata) *NumberDesc { return r.PersonalNumber },
	Pager:             func(r *RegionMetadata) *NumberDesc { return r.Pager },
	UAN:               func(r *RegionMetadata) *NumberDesc { return r.UAN },
	Unknown:           func(r *RegionMetadata) *NumberDesc { return r.GeneralDesc },
}

// Desc returns the descriptor for the given type. Types outside the closed set resolve to the general descriptor.
// The result is never nil once the region has been normalized.
func (r *RegionMetadata) Desc(t PhoneNumberType) *NumberDesc {
	if t < 0 || int(t) >= len(descAccessors) {
		t = Unknown
	}
	return descAccessors[t](r)
}

// HasNationalPrefix reports whether numbers of this region are dialled nationally with a prefix.
func (r *RegionMetadata) HasNationalPrefix() bool {
	return r.NationalPrefix != ""
}

// HasPreferredExtnPrefix reports whether the region overrides the default extension prefix.
func (r *RegionMetadata) HasPreferredExtnPrefix() bool {
	return r.PreferredExtnPrefix != ""
}

func (r *RegionMetadata) descs() []**NumberDesc {
	return []**NumberDesc{
		&r.GeneralDesc, &r.FixedLine, &r.Mobile, &r.TollFree, &r.PremiumRate,
		&r.SharedCost, &r.VoIP, &r.PersonalNumber, &r.Pager, &r.UAN,
	}
}

// normalize fills in the defaults the catalog is allowed to omit. It is idempotent.
func (r *RegionMetadata) normalize() {
	r.ID = strings.ToUpper(strings.TrimSpace(r.ID))
	if r.NationalPrefixForParsing == "" {
		r.NationalPrefixForParsing = r.NationalPrefix
	}
	for _, desc := range r.descs() {
		if *desc == nil {
			*desc = &NumberDesc{}
		}
	}
	if r.GeneralDesc.PossibleNumberPattern == "" {
		r.GeneralDesc.PossibleNumberPattern = r.GeneralDesc.NationalNumberPattern
	}
	for _, desc := range r.descs()[1:] {
		if (*desc).NationalNumberPattern != "" && (*desc).PossibleNumberPattern == "" {
			(*desc).PossibleNumberPattern = r.GeneralDesc.PossibleNumberPattern
		}
	}
	if r.FixedLine.NationalNumberPattern != "" && r.FixedLine.NationalNumberPattern == r.Mobile.NationalNumberPattern {
		r.SameMobileAndFixedLinePattern = true
	}
	for _, formats := range [][]*NumberFormat{r.NumberFormats, r.IntlNumberFormats} {
		for _, format := range formats {
			format.NationalPrefixFormattingRule = ExpandFormattingRule(format.NationalPrefixFormattingRule, r.NationalPrefix)
			format.DomesticCarrierCodeFormattingRule = ExpandFormattingRule(format.DomesticCarrierCodeFormattingRule, r.NationalPrefix)
		}
	}
}

// ExpandFormattingRule substitutes the $NP (national prefix) and $FG (first group) markers of a formatting rule.
func ExpandFormattingRule(rule, nationalPrefix string) string {
	if rule == "" {
		return ""
	}
	rule = strings.Replace(rule, "$NP", nationalPrefix, 1)
	return strings.Replace(rule, "$FG", "$1", 1)
}
