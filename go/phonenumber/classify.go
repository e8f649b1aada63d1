package phonenumber

import (
	"fmt"

	"github.com/malonaz/libphonenumber/go/phonenumber/metadata"
)

// GetNumberType classifies n. It never fails: numbers of unknown regions, or matching no descriptor, are UNKNOWN.
func (e *Engine) GetNumberType(n *PhoneNumber) PhoneNumberType {
	region := e.repository.Region(e.GetRegionCodeForNumber(n))
	if region == nil {
		return Unknown
	}
	return e.getNumberTypeHelper(NationalSignificantNumber(n), region)
}

func (e *Engine) getNumberTypeHelper(nationalNumber string, region *metadata.RegionMetadata) PhoneNumberType {
	if !region.GeneralDesc.HasNationalNumberPattern() || !e.isNumberMatchingDesc(nationalNumber, region.GeneralDesc) {
		e.log.Debug("number type unknown, does not match the general national number pattern", "number", nationalNumber)
		return Unknown
	}
	for _, t := range []PhoneNumberType{PremiumRate, TollFree, SharedCost, VoIP, PersonalNumber, Pager, UAN} {
		if e.isNumberMatchingDesc(nationalNumber, region.Desc(t)) {
			e.log.Debug("number type found", "number", nationalNumber, "type", t)
			return t
		}
	}

	if e.isNumberMatchingDesc(nationalNumber, region.FixedLine) {
		if region.SameMobileAndFixedLinePattern || e.isNumberMatchingDesc(nationalNumber, region.Mobile) {
			return FixedLineOrMobile
		}
		return FixedLine
	}
	// Mobile is only tried when it could differ from fixed line.
	if !region.SameMobileAndFixedLinePattern && e.isNumberMatchingDesc(nationalNumber, region.Mobile) {
		return Mobile
	}
	e.log.Debug("number type unknown, does not match any specific number type pattern", "number", nationalNumber)
	return Unknown
}

func (e *Engine) isNumberMatchingDesc(nationalNumber string, desc *metadata.NumberDesc) bool {
	if !desc.HasNationalNumberPattern() {
		return false
	}
	return e.regexps.FullMatch(desc.PossibleNumberPattern, nationalNumber) &&
		e.regexps.FullMatch(desc.NationalNumberPattern, nationalNumber)
}

// IsValidNumber reports whether n matches a number type of the region it belongs to.
func (e *Engine) IsValidNumber(n *PhoneNumber) bool {
	regionCode := e.GetRegionCodeForNumber(n)
	return e.repository.IsValidRegion(regionCode) && e.IsValidNumberForRegion(n, regionCode)
}

// IsValidNumberForRegion reports whether n is a valid number of the given region. Regions without a general
// pattern only get their length checked.
func (e *Engine) IsValidNumberForRegion(n *PhoneNumber, regionCode string) bool {
	region := e.repository.Region(regionCode)
	if region == nil || n.CountryCode != region.CountryCode {
		return false
	}
	nationalNumber := NationalSignificantNumber(n)
	if !region.GeneralDesc.HasNationalNumberPattern() {
		length := len(nationalNumber)
		return length > minLengthForNSN && length <= maxLengthForNSN
	}
	return e.getNumberTypeHelper(nationalNumber, region) != Unknown
}

// GetRegionCodeForNumber returns the region n belongs to. Regions sharing a country code are told apart by their
// leading digits, else by the first one n is a valid number of. It returns UnknownRegion when none fits.
func (e *Engine) GetRegionCodeForNumber(n *PhoneNumber) string {
	regionCodes := e.repository.RegionCodesForCountryCode(n.CountryCode)
	switch len(regionCodes) {
	case 0:
		e.log.Warn("missing or invalid country code", "country_code", n.CountryCode, "number", NationalSignificantNumber(n))
		return UnknownRegion
	case 1:
		return regionCodes[0]
	}
	nationalNumber := NationalSignificantNumber(n)
	for _, regionCode := range regionCodes {
		region := e.repository.Region(regionCode)
		if region.LeadingDigits != "" {
			if _, _, ok := e.regexps.Consume(region.LeadingDigits, nationalNumber); ok {
				return regionCode
			}
		} else if e.getNumberTypeHelper(nationalNumber, region) != Unknown {
			return regionCode
		}
	}
	return UnknownRegion
}

// IsPossibleNumber reports whether n has a length that its numbering plan allows.
func (e *Engine) IsPossibleNumber(n *PhoneNumber) bool {
	return e.IsPossibleNumberWithReason(n) == IsPossible
}

// IsPossibleNumberWithReason checks the length of n against the possible number pattern of its country code.
// Regions sharing a country code are checked against the main region.
func (e *Engine) IsPossibleNumberWithReason(n *PhoneNumber) ValidationResult {
	nationalNumber := NationalSignificantNumber(n)
	regionCode := e.repository.RegionCodeForCountryCode(n.CountryCode)
	if !e.hasValidRegionCode(regionCode, n.CountryCode, nationalNumber) {
		return CountryCodeInvalid
	}
	general := e.repository.Region(regionCode).GeneralDesc
	if !general.HasNationalNumberPattern() {
		switch length := len(nationalNumber); {
		case length < minLengthForNSN:
			return TooShort
		case length > maxLengthForNSN:
			return TooLong
		default:
			return IsPossible
		}
	}
	groups, ok := e.regexps.PartialMatch("("+general.PossibleNumberPattern+")", nationalNumber)
	if !ok {
		return TooShort
	}
	if groups[0] != nationalNumber {
		return TooLong
	}
	return IsPossible
}

// IsPossibleNumberForString parses number as dialled from regionDialingFrom and checks it is possible.
func (e *Engine) IsPossibleNumberForString(number, regionDialingFrom string) bool {
	n, err := e.Parse(number, regionDialingFrom)
	if err != nil {
		return false
	}
	return e.IsPossibleNumber(n)
}

// TruncateTooLongNumber drops trailing digits of an invalid n until it becomes valid. It reports false, leaving n
// unchanged, when no shorter valid number exists.
func (e *Engine) TruncateTooLongNumber(n *PhoneNumber) bool {
	if e.IsValidNumber(n) {
		return true
	}
	candidate := *n
	for {
		candidate.NationalNumber /= 10
		if candidate.NationalNumber == 0 || e.IsPossibleNumberWithReason(&candidate) == TooShort {
			return false
		}
		if e.IsValidNumber(&candidate) {
			break
		}
	}
	n.NationalNumber = candidate.NationalNumber
	return true
}

// GetExampleNumber returns a valid fixed-line number of the region.
func (e *Engine) GetExampleNumber(regionCode string) (*PhoneNumber, error) {
	return e.GetExampleNumberForType(regionCode, FixedLine)
}

// GetExampleNumberForType returns a valid number of the given type for the region.
func (e *Engine) GetExampleNumberForType(regionCode string, t PhoneNumberType) (*PhoneNumber, error) {
	region := e.repository.Region(regionCode)
	if region == nil {
		return nil, fmt.Errorf("no metadata for region %q", regionCode)
	}
	desc := region.Desc(t)
	if desc.ExampleNumber == "" {
		return nil, fmt.Errorf("no %s example number for region %s", t, regionCode)
	}
	n, err := e.Parse(desc.ExampleNumber, regionCode)
	if err != nil {
		return nil, fmt.Errorf("parsing example number of region %s: %w", regionCode, err)
	}
	return n, nil
}

// GetLengthOfGeographicalAreaCode returns the length of the area code of a fixed-line number, or 0 when n has
// none: numbers of regions without a national prefix, and non geographic numbers, are dialled in full.
func (e *Engine) GetLengthOfGeographicalAreaCode(n *PhoneNumber) int {
	region := e.repository.Region(e.GetRegionCodeForNumber(n))
	if region == nil || !region.HasNationalPrefix() {
		return 0
	}
	switch e.getNumberTypeHelper(NationalSignificantNumber(n), region) {
	case FixedLine, FixedLineOrMobile:
		return e.GetLengthOfNationalDestinationCode(n)
	default:
		return 0
	}
}

// GetLengthOfNationalDestinationCode returns the length of the second digit group of n in INTERNATIONAL format,
// or 0 when that format has fewer than three groups.
func (e *Engine) GetLengthOfNationalDestinationCode(n *PhoneNumber) int {
	withoutExtension := *n
	withoutExtension.Extension = ""
	groups := digitGroupRegexp.FindAllStringSubmatch(e.Format(&withoutExtension, International), 3)
	if len(groups) < 3 {
		return 0
	}
	nationalDestinationCode, thirdGroup := groups[1][1], groups[2][1]
	// Argentine mobile numbers are formatted +54 9 NDC XXXX, the 9 belonging to the national destination code.
	if e.GetRegionCodeForNumber(n) == "AR" && e.GetNumberType(n) == Mobile {
		return len(thirdGroup) + 1
	}
	return len(nationalDestinationCode)
}
