package phonenumber

import (
	"strconv"
	"strings"

	"github.com/malonaz/libphonenumber/go/phonenumber/metadata"
)

// Parse parses text into a phone number. NATIONAL numbers are read against defaultRegion; text starting with
// a plus sign may use UnknownRegion.
func (e *Engine) Parse(text, defaultRegion string) (*PhoneNumber, error) {
	return e.parseHelper(text, defaultRegion, false, true)
}

// ParseAndKeepRawInput is like Parse but also records the raw input, the country code source and the preferred
// domestic carrier code, which FormatInOriginalFormat and FormatOutOfCountryKeepingAlphaChars rely on.
func (e *Engine) ParseAndKeepRawInput(text, defaultRegion string) (*PhoneNumber, error) {
	return e.parseHelper(text, defaultRegion, true, true)
}

// checkRegionForParsing reports whether text can be parsed with defaultRegion: an unsupported region needs the
// number to start with a plus sign.
func (e *Engine) checkRegionForParsing(text, defaultRegion string) bool {
	if !e.repository.IsValidRegion(defaultRegion) && text != "" {
		return plusCharsRegexp.MatchString(text)
	}
	return true
}

func (e *Engine) parseHelper(text, defaultRegion string, keepRawInput, checkRegion bool) (*PhoneNumber, error) {
	nationalNumber := ExtractPossibleNumber(text)
	if !IsViablePhoneNumber(nationalNumber) {
		e.log.Debug("the string supplied did not seem to be a phone number", "text", text)
		return nil, newParseError(NotANumber, text)
	}
	if checkRegion && !e.checkRegionForParsing(nationalNumber, defaultRegion) {
		e.log.Info("missing or invalid default region", "text", text, "region", defaultRegion)
		return nil, newParseError(InvalidCountryCode, text)
	}

	number := &PhoneNumber{}
	if keepRawInput {
		number.RawInput = text
	}
	// The extension is stripped first since it does not depend on the region and needs the raw text.
	if rest, extension, ok := MaybeStripExtension(nationalNumber); ok {
		e.log.Debug("found an extension", "extension", extension, "rest", rest)
		nationalNumber = rest
		number.Extension = extension
	}

	region := e.repository.Region(defaultRegion)
	nationalNumber, errorType := e.maybeExtractCountryCode(region, keepRawInput, nationalNumber, number)
	if errorType != NoError {
		return nil, newParseError(errorType, text)
	}
	countryCode := number.CountryCode
	if countryCode != 0 {
		if numberRegion := e.repository.RegionCodeForCountryCode(countryCode); numberRegion != defaultRegion {
			region = e.repository.Region(numberRegion)
		}
	} else if region != nil {
		countryCode = region.CountryCode
	}

	if len(nationalNumber) < minLengthForNSN {
		e.log.Debug("the string supplied is too short to be a phone number", "text", text)
		return nil, newParseError(TooShortNSN, text)
	}
	if region != nil {
		var carrierCode string
		nationalNumber, carrierCode, _ = e.maybeStripNationalPrefixAndCarrierCode(region, nationalNumber)
		if keepRawInput {
			number.PreferredDomesticCarrierCode = carrierCode
		}
	}
	switch {
	case len(nationalNumber) < minLengthForNSN:
		e.log.Debug("the string supplied is too short to be a phone number", "text", text)
		return nil, newParseError(TooShortNSN, text)
	case len(nationalNumber) > maxLengthForNSN:
		e.log.Debug("the string supplied is too long to be a phone number", "text", text)
		return nil, newParseError(TooLongNSN, text)
	}

	number.CountryCode = countryCode
	if metadata.IsLeadingZeroCountry(countryCode) && nationalNumber[0] == '0' {
		number.ItalianLeadingZero = true
	}
	value, err := strconv.ParseUint(nationalNumber, 10, 64)
	if err != nil {
		return nil, newParseError(NotANumber, text)
	}
	number.NationalNumber = value
	return number, nil
}

// maybeExtractCountryCode resolves the country code of the number, from a plus sign, from the international
// dialling prefix of region, or from the country code of region itself written without a prefix. The country
// code is left to 0 when none is present. The number is returned normalized and without its country code.
func (e *Engine) maybeExtractCountryCode(region *metadata.RegionMetadata, keepRawInput bool, nationalNumber string, number *PhoneNumber) (string, ErrorType) {
	var iddPattern string
	if region != nil {
		iddPattern = region.InternationalPrefix
	}
	nationalNumber, source := e.maybeStripInternationalPrefixAndNormalize(iddPattern, nationalNumber)
	if keepRawInput {
		number.CountryCodeSource = source
	}

	if source != FromDefaultCountry {
		if len(nationalNumber) < minLengthForNSN {
			e.log.Debug("phone number had an IDD, but after this was not long enough to be a viable phone number")
			return "", TooShortAfterIDD
		}
		countryCode, rest := e.extractCountryCode(nationalNumber)
		if countryCode == 0 {
			return "", InvalidCountryCode
		}
		number.CountryCode = countryCode
		return rest, NoError
	}

	if region != nil {
		// A number starting with the country code of the region may have been written without its plus sign.
		// The country code is only taken out when the rest is a better fit for the numbering plan.
		countryCodeString := strconv.Itoa(int(region.CountryCode))
		if potentialNationalNumber, ok := strings.CutPrefix(nationalNumber, countryCodeString); ok {
			general := region.GeneralDesc
			potentialNationalNumber, _, _ = e.maybeStripNationalPrefixAndCarrierCode(region, potentialNationalNumber)
			e.log.Debug("number without country code prefix", "number", potentialNationalNumber)
			validNow := e.regexps.FullMatch(general.NationalNumberPattern, potentialNationalNumber) &&
				!e.regexps.FullMatch(general.NationalNumberPattern, nationalNumber)
			tooLong := false
			if groups, ok := e.regexps.PartialMatch("("+general.PossibleNumberPattern+")", potentialNationalNumber); ok {
				tooLong = len(potentialNationalNumber) > len(groups[0])
			}
			if validNow || tooLong {
				if keepRawInput {
					number.CountryCodeSource = FromNumberWithoutPlusSign
				}
				number.CountryCode = region.CountryCode
				return potentialNationalNumber, NoError
			}
		}
	}
	number.CountryCode = 0
	return nationalNumber, NoError
}

// maybeStripInternationalPrefixAndNormalize strips a leading plus sign or international dialling prefix and
// normalizes what is left. An empty iddPattern never matches.
func (e *Engine) maybeStripInternationalPrefixAndNormalize(iddPattern, number string) (string, CountryCodeSource) {
	if number == "" {
		return number, FromDefaultCountry
	}
	if loc := plusCharsRegexp.FindStringIndex(number); loc != nil {
		return Normalize(number[loc[1]:]), FromNumberWithPlusSign
	}
	if rest, ok := e.parsePrefixAsIDD(iddPattern, number); ok {
		return Normalize(rest), FromNumberWithIDD
	}
	// Prefixes may hold symbols such as ~ that normalizing would drop, hence the second attempt only now.
	number = Normalize(number)
	if rest, ok := e.parsePrefixAsIDD(iddPattern, number); ok {
		return rest, FromNumberWithIDD
	}
	return number, FromDefaultCountry
}

// parsePrefixAsIDD strips iddPattern from the start of number, unless the next digit is a 0 since no country
// code starts with one.
func (e *Engine) parsePrefixAsIDD(iddPattern, number string) (string, bool) {
	if iddPattern == "" {
		return number, false
	}
	rest, _, ok := e.regexps.Consume(iddPattern, number)
	if !ok {
		return number, false
	}
	if groups := capturingDigitRegexp.FindStringSubmatch(rest); groups != nil && NormalizeDigitsOnly(groups[1]) == "0" {
		return number, false
	}
	return rest, true
}

// extractCountryCode reads a known country code of 1 to 3 digits from the start of number.
// It returns 0 and number unchanged when there is none. Country codes never start with 0.
func (e *Engine) extractCountryCode(number string) (int32, string) {
	if number == "" || number[0] == '0' {
		return 0, number
	}
	for i := 1; i <= maxLengthCountryCode && i <= len(number); i++ {
		potentialCountryCode, err := strconv.Atoi(number[:i])
		if err != nil {
			return 0, number
		}
		if e.repository.RegionCodeForCountryCode(int32(potentialCountryCode)) != UnknownRegion {
			return int32(potentialCountryCode), number[i:]
		}
	}
	return 0, number
}

// maybeStripNationalPrefixAndCarrierCode strips the national prefix of region from a normalized number, applying
// the transform rule when the prefix pattern captures part of the number. The captured carrier code is returned.
// The number is only changed when the result still matches the general pattern of the region.
func (e *Engine) maybeStripNationalPrefixAndCarrierCode(region *metadata.RegionMetadata, number string) (string, string, bool) {
	prefixPattern := region.NationalPrefixForParsing
	if number == "" || prefixPattern == "" {
		return number, "", false
	}
	generalPattern := region.GeneralDesc.NationalNumberPattern
	numGroups := e.regexps.NumGroups(prefixPattern)
	rest, groups, consumed := e.regexps.Consume(prefixPattern, number)

	var carrierCode, capturedPartOfPrefix string
	if transformRule := region.NationalPrefixTransformRule; transformRule != "" && consumed {
		switch {
		case numGroups >= 2:
			carrierCode, capturedPartOfPrefix = groups[0], groups[1]
		case numGroups == 1:
			capturedPartOfPrefix = groups[0]
		}
		if capturedPartOfPrefix != "" {
			transformed, _ := e.regexps.ReplaceFirst(prefixPattern, number, transformRule)
			if !e.regexps.FullMatch(generalPattern, transformed) {
				return number, "", false
			}
			e.log.Debug("transformed the national prefix", "number", number, "result", transformed)
			return transformed, carrierCode, true
		}
		carrierCode = ""
	}
	if !consumed {
		e.log.Debug("the first digits did not match the national prefix", "number", number)
		return number, "", false
	}
	if numGroups >= 1 {
		carrierCode = groups[0]
	}
	if !e.regexps.FullMatch(generalPattern, rest) {
		return number, "", false
	}
	e.log.Debug("parsed the first digits as a national prefix", "number", number)
	return rest, carrierCode, true
}
