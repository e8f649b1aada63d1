package phonenumber

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/malonaz/libphonenumber/go/digits"
)

const (
	minLengthForNSN      = 2
	maxLengthForNSN      = 17
	maxLengthCountryCode = 3

	defaultExtnPrefix = " ext. "

	plusChars   = `+\x{FF0B}`
	validDigits = `0-9\x{FF10}-\x{FF19}\x{0660}-\x{0669}\x{06F0}-\x{06F9}`
	validAlpha  = `a-z`
	// Characters people use to group digits: hyphens, dashes, slashes, spaces, brackets, dots and tildes, in their
	// ASCII, fullwidth and typographic forms. The x is here because it is used as a separator in fax numbers.
	validPunctuation = `\-x\x{2010}-\x{2015}\x{2212}\x{30FC}\x{FF0D}-\x{FF0F} \x{00A0}\x{00AD}\x{200B}\x{2060}\x{3000}` +
		`()\x{FF08}\x{FF09}\x{FF3B}\x{FF3D}.\[\]/~\x{2053}\x{223C}\x{FF5E}`

	// At least three digits, optionally preceded by plus signs and interleaved with punctuation, then anything
	// that could be part of a vanity number.
	validPhoneNumber = `[` + plusChars + `]*(?:[` + validPunctuation + `]*[` + validDigits + `]){3,}[` +
		validAlpha + validPunctuation + validDigits + `]*`

	// Extension markers, in English, Spanish and their fullwidth forms, followed by up to 7 digits. Numbers
	// ending in up to 5 digits and a hash are also read as an extension, as in "1234 - 5#".
	knownExtnPatterns = `[ \x{00A0}\t,]*(?:ext(?:ensi(?:o\x{0301}?|\x{00F3}))?n?|\x{FF45}\x{FF58}\x{FF54}\x{FF4E}?|` +
		`[,x\x{FF58}#\x{FF03}~\x{FF5E}]|int|\x{FF49}\x{FF4E}\x{FF54}|anexo)[:\.\x{FF0E}]?[ \x{00A0}\t,-]*` +
		`([` + validDigits + `]{1,7})#?|[- ]+([` + validDigits + `]{1,5})#`
)

var (
	plusCharsRegexp         = regexp.MustCompile(`^[` + plusChars + `]+`)
	validStartCharRegexp    = regexp.MustCompile(`[` + plusChars + validDigits + `]`)
	secondNumberStartRegexp = regexp.MustCompile(`(.*)[\\/] *x`)
	capturingDigitRegexp    = regexp.MustCompile(`([` + validDigits + `])`)
	validAlphaPhoneRegexp   = regexp.MustCompile(`(?i)(?:.*?[a-z]){3}`)
	alphaNumberRegexp       = regexp.MustCompile(`^(?i:(?:.*?[a-z]){3}.*)$`)
	extnRegexp              = regexp.MustCompile(`(?i)(?:` + knownExtnPatterns + `)$`)
	validPhoneNumberRegexp  = regexp.MustCompile(`^(?i:` + validPhoneNumber + `(?:` + knownExtnPatterns + `)?)$`)
	// An international prefix is unique when it is made of digits, with at most one tilde marking a wait for a tone.
	uniqueInternationalPrefixRegexp = regexp.MustCompile(`^[\d]+(?:[~\x{2053}\x{223C}\x{FF5E}][\d]+)?$`)
	digitGroupRegexp                = regexp.MustCompile(`(\d+)`)
)

var (
	// Keypad letters, in both cases, and ASCII digits.
	alphaPhoneMappings = map[rune]byte{}
	// Digits, keypad letters folded to upper case and the common grouping symbols folded to their ASCII form.
	allPlusNumberGroupingSymbols = map[rune]byte{
		'-': '-', '\u2010': '-', '\u2011': '-', '\u2015': '-', '\u2212': '-', '\uFF0D': '-',
		'/': '/', '\uFF0F': '/',
		' ': ' ', '\u2060': ' ', '\u3000': ' ',
		'.': '.', '\uFF0E': '.',
	}
)

func init() {
	keypad := []string{"ABC", "DEF", "GHI", "JKL", "MNO", "PQRS", "TUV", "WXYZ"}
	for i, letters := range keypad {
		digit := byte('2' + i)
		for _, letter := range letters {
			lower := unicode.ToLower(letter)
			alphaPhoneMappings[letter] = digit
			alphaPhoneMappings[lower] = digit
			allPlusNumberGroupingSymbols[letter] = byte(letter)
			allPlusNumberGroupingSymbols[lower] = byte(letter)
		}
	}
	for c := '0'; c <= '9'; c++ {
		alphaPhoneMappings[c] = byte(c)
		allPlusNumberGroupingSymbols[c] = byte(c)
	}
}

// normalizeHelper replaces every rune of number found in replacements by its mapping. Other runes are kept
// as they are, or dropped when removeNonMatches is set.
func normalizeHelper(replacements map[rune]byte, removeNonMatches bool, number string) string {
	var b strings.Builder
	b.Grow(len(number))
	for _, r := range number {
		if mapped, ok := replacements[r]; ok {
			b.WriteByte(mapped)
			continue
		}
		if !removeNonMatches {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize converts a number to its ASCII digits. Numbers containing at least three letters are read as vanity
// numbers, and their letters are replaced with the keypad digits.
func Normalize(number string) string {
	if validAlphaPhoneRegexp.MatchString(number) {
		number = normalizeHelper(alphaPhoneMappings, true, number)
	}
	return NormalizeDigitsOnly(number)
}

// NormalizeDigitsOnly keeps the decimal digits of number, converted to ASCII, and drops everything else.
func NormalizeDigitsOnly(number string) string {
	return digits.Only(number)
}

// ConvertAlphaCharactersInNumber replaces letters with their keypad digits and leaves every other character as is.
func ConvertAlphaCharactersInNumber(number string) string {
	return normalizeHelper(alphaPhoneMappings, false, number)
}

// IsAlphaNumber reports whether number is a viable vanity number, such as 1-800-FLOWERS.
func IsAlphaNumber(number string) bool {
	if !IsViablePhoneNumber(number) {
		return false
	}
	number, _, _ = MaybeStripExtension(number)
	return alphaNumberRegexp.MatchString(number)
}

// IsViablePhoneNumber reports whether number could be a phone number: at least three digits, only the
// characters people write numbers with, and an optional extension.
func IsViablePhoneNumber(number string) bool {
	if len(number) < minLengthForNSN {
		return false
	}
	return validPhoneNumberRegexp.MatchString(number)
}

// ExtractPossibleNumber strips the text around a number: everything before the first digit or plus sign,
// trailing characters other than letters, digits and hashes, and any second number after a slash and an x,
// as in "(530) 583-6985 x302/x2303".
func ExtractPossibleNumber(number string) string {
	start := validStartCharRegexp.FindStringIndex(number)
	if start == nil {
		return ""
	}
	number = number[start[0]:]
	for number != "" {
		r, size := utf8.DecodeLastRuneInString(number)
		if unicode.IsNumber(r) || unicode.IsLetter(r) || r == '#' {
			break
		}
		number = number[:len(number)-size]
	}
	if number == "" {
		return ""
	}
	if groups := secondNumberStartRegexp.FindStringSubmatch(number); groups != nil {
		number = groups[1]
	}
	return number
}

// MaybeStripExtension splits an extension off the end of number, provided what is left is still a viable number.
func MaybeStripExtension(number string) (string, string, bool) {
	submatches := extnRegexp.FindStringSubmatchIndex(number)
	if submatches == nil {
		return number, "", false
	}
	rest := number[:submatches[0]]
	if !IsViablePhoneNumber(rest) {
		return number, "", false
	}
	for group := 1; group <= 2; group++ {
		if start := submatches[2*group]; start >= 0 && submatches[2*group+1] > start {
			return rest, number[start:submatches[2*group+1]], true
		}
	}
	return number, "", false
}
