package phonenumber

import (
	"strconv"
	"strings"

	"github.com/malonaz/libphonenumber/go/phonenumber/metadata"
)

const carrierCodeMarker = "$CC"

// Format renders n in the given style. Numbers with an unknown country code are rendered as their bare
// national significant number. E164 never carries the extension.
func (e *Engine) Format(n *PhoneNumber, format Format) string {
	countryCode := n.CountryCode
	nationalSignificantNumber := NationalSignificantNumber(n)
	if format == E164 {
		return formatNumberByFormat(countryCode, E164, nationalSignificantNumber, "")
	}
	// Regions sharing a country code keep their formatting rules in the main region, US for NANPA numbers.
	regionCode := e.repository.RegionCodeForCountryCode(countryCode)
	if !e.hasValidRegionCode(regionCode, countryCode, nationalSignificantNumber) {
		return nationalSignificantNumber
	}
	extension := e.maybeGetFormattedExtension(n, regionCode)
	formattedNationalNumber := e.formatNationalNumberWithCarrier(nationalSignificantNumber, regionCode, format, "")
	return formatNumberByFormat(countryCode, format, formattedNationalNumber, extension)
}

// FormatByPattern renders n with caller supplied rules instead of those of its region. The $NP and $FG markers
// of the national prefix formatting rules are expanded against the national prefix of the region.
func (e *Engine) FormatByPattern(n *PhoneNumber, format Format, userFormats []*metadata.NumberFormat) string {
	countryCode := n.CountryCode
	nationalSignificantNumber := NationalSignificantNumber(n)
	regionCode := e.repository.RegionCodeForCountryCode(countryCode)
	if !e.hasValidRegionCode(regionCode, countryCode, nationalSignificantNumber) {
		return nationalSignificantNumber
	}
	nationalPrefix := e.repository.Region(regionCode).NationalPrefix
	formats := make([]*metadata.NumberFormat, 0, len(userFormats))
	for _, userFormat := range userFormats {
		numberFormat := userFormat.Copy()
		if numberFormat.NationalPrefixFormattingRule != "" {
			if nationalPrefix != "" {
				numberFormat.NationalPrefixFormattingRule = metadata.ExpandFormattingRule(numberFormat.NationalPrefixFormattingRule, nationalPrefix)
			} else {
				// No rule is needed for a region without a national prefix.
				numberFormat.NationalPrefixFormattingRule = ""
			}
		}
		formats = append(formats, numberFormat)
	}
	formatted := e.formatAccordingToFormats(nationalSignificantNumber, formats, format, nationalSignificantNumber, "")
	return formatNumberByFormat(countryCode, format, formatted, e.maybeGetFormattedExtension(n, regionCode))
}

// FormatNationalNumberWithCarrierCode renders n nationally, dialled through the given domestic carrier.
func (e *Engine) FormatNationalNumberWithCarrierCode(n *PhoneNumber, carrierCode string) string {
	countryCode := n.CountryCode
	nationalSignificantNumber := NationalSignificantNumber(n)
	regionCode := e.repository.RegionCodeForCountryCode(countryCode)
	if !e.hasValidRegionCode(regionCode, countryCode, nationalSignificantNumber) {
		return nationalSignificantNumber
	}
	extension := e.maybeGetFormattedExtension(n, regionCode)
	formattedNationalNumber := e.formatNationalNumberWithCarrier(nationalSignificantNumber, regionCode, National, carrierCode)
	return formatNumberByFormat(countryCode, National, formattedNationalNumber, extension)
}

// FormatNationalNumberWithPreferredCarrierCode is like FormatNationalNumberWithCarrierCode with the carrier code
// of n, or fallbackCarrierCode when n has none.
func (e *Engine) FormatNationalNumberWithPreferredCarrierCode(n *PhoneNumber, fallbackCarrierCode string) string {
	carrierCode := n.PreferredDomesticCarrierCode
	if carrierCode == "" {
		carrierCode = fallbackCarrierCode
	}
	return e.FormatNationalNumberWithCarrierCode(n, carrierCode)
}

// FormatOutOfCountryCallingNumber renders n as dialled from callingFrom: with the international prefix of
// callingFrom, or nationally when both share a country code.
func (e *Engine) FormatOutOfCountryCallingNumber(n *PhoneNumber, callingFrom string) string {
	if !e.repository.IsValidRegion(callingFrom) {
		e.log.Info("trying to format number from invalid region, international formatting applied", "region", callingFrom)
		return e.Format(n, International)
	}
	countryCode := n.CountryCode
	regionCode := e.repository.RegionCodeForCountryCode(countryCode)
	nationalSignificantNumber := NationalSignificantNumber(n)
	if !e.hasValidRegionCode(regionCode, countryCode, nationalSignificantNumber) {
		return nationalSignificantNumber
	}
	if countryCode == metadata.NANPACountryCode {
		if e.repository.IsNANPARegion(callingFrom) {
			return strconv.Itoa(int(countryCode)) + " " + e.Format(n, National)
		}
	} else if countryCode == e.GetCountryCodeForRegion(callingFrom) {
		// Regions sharing a country code, and calls within a region, need no country code. This is not true from
		// Reunion to the other French overseas departments, which is left aside.
		return e.Format(n, National)
	}

	formattedNationalNumber := e.formatNationalNumberWithCarrier(nationalSignificantNumber, regionCode, International, "")
	extension := e.maybeGetFormattedExtension(n, regionCode)
	if prefix := internationalPrefixForFormatting(e.repository.Region(callingFrom)); prefix != "" {
		return prefix + " " + strconv.Itoa(int(countryCode)) + " " + formattedNationalNumber + extension
	}
	return formatNumberByFormat(countryCode, International, formattedNationalNumber, extension)
}

// FormatInOriginalFormat renders n the way it was entered, as told by its country code source.
// Numbers not parsed with ParseAndKeepRawInput are rendered nationally.
func (e *Engine) FormatInOriginalFormat(n *PhoneNumber, callingFrom string) string {
	switch n.CountryCodeSource {
	case FromNumberWithPlusSign:
		return e.Format(n, International)
	case FromNumberWithIDD:
		return e.FormatOutOfCountryCallingNumber(n, callingFrom)
	case FromNumberWithoutPlusSign:
		return strings.TrimPrefix(e.Format(n, International), "+")
	default:
		return e.Format(n, National)
	}
}

// FormatOutOfCountryKeepingAlphaChars is like FormatOutOfCountryCallingNumber but keeps the letters and grouping
// of the raw input, so 1-800-FLOWERS dialled from GB renders as 00 1 800-FLOWERS. Numbers without raw input
// fall back to FormatOutOfCountryCallingNumber. Only ASCII digits of the raw input are kept: fullwidth and other
// script digits are dropped from the output.
func (e *Engine) FormatOutOfCountryKeepingAlphaChars(n *PhoneNumber, callingFrom string) string {
	if n.RawInput == "" {
		return e.FormatOutOfCountryCallingNumber(n, callingFrom)
	}
	countryCode := n.CountryCode
	regionCode := e.repository.RegionCodeForCountryCode(countryCode)
	if !e.hasValidRegionCode(regionCode, countryCode, n.RawInput) {
		return n.RawInput
	}
	// Only grouping symbols are kept, then everything before the first three digits of the number goes, which
	// drops any country code or international prefix the input had.
	rawInput := normalizeHelper(allPlusNumberGroupingSymbols, true, n.RawInput)
	nationalSignificantNumber := NationalSignificantNumber(n)
	if len(nationalSignificantNumber) > 3 {
		if index := strings.Index(rawInput, nationalSignificantNumber[:3]); index >= 0 {
			rawInput = rawInput[index:]
		}
	}

	callingFromRegion := e.repository.Region(callingFrom)
	if countryCode == metadata.NANPACountryCode {
		if e.repository.IsNANPARegion(callingFrom) {
			return strconv.Itoa(int(countryCode)) + " " + rawInput
		}
	} else if callingFromRegion != nil && countryCode == callingFromRegion.CountryCode {
		// The rules of the region are kept for their leading digits and national prefix, with patterns that
		// keep the raw input as it is.
		formats := make([]*metadata.NumberFormat, 0, len(callingFromRegion.NumberFormats))
		for _, format := range callingFromRegion.NumberFormats {
			format = format.Copy()
			format.Pattern = `(\d+)(.*)`
			format.Format = "$1$2"
			formats = append(formats, format)
		}
		return e.formatAccordingToFormats(nationalSignificantNumber, formats, National, rawInput, "")
	}

	if callingFromRegion != nil {
		if prefix := internationalPrefixForFormatting(callingFromRegion); prefix != "" {
			return prefix + " " + strconv.Itoa(int(countryCode)) + " " + rawInput
		}
	}
	return formatNumberByFormat(countryCode, International, rawInput, "")
}

// internationalPrefixForFormatting returns the prefix to dial out of region: its international prefix when
// unique, else its preferred one, which may be empty.
func internationalPrefixForFormatting(region *metadata.RegionMetadata) string {
	if uniqueInternationalPrefixRegexp.MatchString(region.InternationalPrefix) {
		return region.InternationalPrefix
	}
	return region.PreferredInternationalPrefix
}

// formatNationalNumberWithCarrier formats a national significant number with the rules of its region, using the
// international rules when the region has any and the style is not NATIONAL.
func (e *Engine) formatNationalNumberWithCarrier(number, regionCode string, format Format, carrierCode string) string {
	region := e.repository.Region(regionCode)
	formats := region.NumberFormats
	if len(region.IntlNumberFormats) > 0 && format != National {
		formats = region.IntlNumberFormats
	}
	return e.formatAccordingToFormats(number, formats, format, number, carrierCode)
}

// formatAccordingToFormats applies the first rule whose last leading digits pattern matches the start of
// leadingDigitsNumber and whose pattern matches the whole of nationalNumber. The national prefix rule, or the
// carrier code rule when a carrier code is given, replaces the first group of the template when formatting
// nationally. The number is returned unformatted when no rule applies.
func (e *Engine) formatAccordingToFormats(leadingDigitsNumber string, formats []*metadata.NumberFormat, format Format, nationalNumber, carrierCode string) string {
	for _, numberFormat := range formats {
		if size := len(numberFormat.LeadingDigitsPatterns); size > 0 {
			if _, _, ok := e.regexps.Consume(numberFormat.LeadingDigitsPatterns[size-1], leadingDigitsNumber); !ok {
				continue
			}
		}
		if !e.regexps.FullMatch(numberFormat.Pattern, nationalNumber) {
			continue
		}
		template := numberFormat.Format
		switch {
		case format == National && carrierCode != "" && numberFormat.DomesticCarrierCodeFormattingRule != "":
			rule := strings.Replace(numberFormat.DomesticCarrierCodeFormattingRule, carrierCodeMarker, carrierCode, 1)
			template = strings.Replace(template, "$1", rule, 1)
		case format == National && numberFormat.NationalPrefixFormattingRule != "":
			template = strings.Replace(template, "$1", numberFormat.NationalPrefixFormattingRule, 1)
		}
		return e.regexps.ReplaceAll(numberFormat.Pattern, nationalNumber, template)
	}
	return nationalNumber
}

func (e *Engine) maybeGetFormattedExtension(n *PhoneNumber, regionCode string) string {
	if n.Extension == "" {
		return ""
	}
	if region := e.repository.Region(regionCode); region != nil && region.HasPreferredExtnPrefix() {
		return region.PreferredExtnPrefix + n.Extension
	}
	return defaultExtnPrefix + n.Extension
}

func formatNumberByFormat(countryCode int32, format Format, formattedNumber, formattedExtension string) string {
	switch format {
	case E164:
		return "+" + strconv.Itoa(int(countryCode)) + formattedNumber + formattedExtension
	case International:
		return "+" + strconv.Itoa(int(countryCode)) + " " + formattedNumber + formattedExtension
	default:
		return formattedNumber + formattedExtension
	}
}
