package phonenumber

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/malonaz/libphonenumber/go/phonenumber/metadata"
)

func TestFormat(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name              string
		text              string
		region            string
		wantE164          string
		wantInternational string
		wantNational      string
	}{
		{"us", "(650) 253-0000", "US", "+16502530000", "+1 650-253-0000", "(650) 253-0000"},
		{"us toll free", "1-800-FLOWERS", "US", "+18003569377", "+1 800-356-9377", "(800) 356-9377"},
		{"gb london", "020 7946 0958", "GB", "+442079460958", "+44 20 7946 0958", "020 7946 0958"},
		{"gb mobile", "07400 123456", "GB", "+447400123456", "+44 7400 123456", "07400 123456"},
		{"it leading zero", "+39 02 3661 8300", UnknownRegion, "+390236618300", "+39 02 3661 8300", "02 3661 8300"},
		{"de", "030 123456", "DE", "+4930123456", "+49 30 123456", "030 123456"},
		{"ar mobile", "011 15 2345-6789", "AR", "+5491123456789", "+54 9 11 2345-6789", "011 15-2345-6789"},
		{"ar fixed line", "011 2345-6789", "AR", "+541123456789", "+54 11 2345-6789", "011 2345-6789"},
		{"br", "(11) 2345-6789", "BR", "+551123456789", "+55 11 2345-6789", "(11) 2345-6789"},
		{"au fixed line", "02 1234 5678", "AU", "+61212345678", "+61 2 1234 5678", "(02) 1234 5678"},
		{"au mobile", "0412 345 678", "AU", "+61412345678", "+61 412 345 678", "0412 345 678"},
		{"extension", "(650) 253-0000 ext. 123", "US", "+16502530000", "+1 650-253-0000 ext. 123", "(650) 253-0000 ext. 123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := mustParse(t, e, tt.text, tt.region)
			require.Equal(t, tt.wantE164, e.Format(n, E164))
			require.Equal(t, tt.wantInternational, e.Format(n, International))
			require.Equal(t, tt.wantNational, e.Format(n, National))
		})
	}

	t.Run("unknown country code", func(t *testing.T) {
		n := &PhoneNumber{CountryCode: 999, NationalNumber: 123456}
		require.Equal(t, "+999123456", e.Format(n, E164))
		require.Equal(t, "123456", e.Format(n, International))
		require.Equal(t, "123456", e.Format(n, National))
	})

	t.Run("number matching no rule", func(t *testing.T) {
		n := &PhoneNumber{CountryCode: 44, NationalNumber: 1234}
		require.Equal(t, "+44 1234", e.Format(n, International))
	})
}

func TestFormatByPattern(t *testing.T) {
	e := newTestEngine(t)
	n := &PhoneNumber{CountryCode: 1, NationalNumber: 6502530000}
	formats := []*metadata.NumberFormat{
		{Pattern: `(\d{3})(\d{3})(\d{4})`, Format: "$1 $2 $3", NationalPrefixFormattingRule: "$NP ($FG)"},
	}

	require.Equal(t, "1 (650) 253 0000", e.FormatByPattern(n, National, formats))
	require.Equal(t, "+1 650 253 0000", e.FormatByPattern(n, International, formats))
	// The rules of the caller are not modified.
	require.Equal(t, "$NP ($FG)", formats[0].NationalPrefixFormattingRule)

	it := &PhoneNumber{CountryCode: 39, NationalNumber: 236618300, ItalianLeadingZero: true}
	require.Equal(t, "02-3661-8300", e.FormatByPattern(it, National, []*metadata.NumberFormat{
		{Pattern: `(\d{2})(\d{4})(\d{4})`, Format: "$1-$2-$3", NationalPrefixFormattingRule: "$NP$FG"},
	}))
}

func TestFormatNationalNumberWithCarrierCode(t *testing.T) {
	e := newTestEngine(t)

	n, err := e.ParseAndKeepRawInput("0 15 11 2345 6789", "BR")
	require.NoError(t, err)
	require.Equal(t, "0 15 (11) 2345-6789", e.FormatNationalNumberWithCarrierCode(n, "15"))
	require.Equal(t, "0 15 (11) 2345-6789", e.FormatNationalNumberWithPreferredCarrierCode(n, "21"))
	require.Equal(t, "(11) 2345-6789", e.Format(n, National))

	withoutCarrier := mustParse(t, e, "(11) 2345-6789", "BR")
	require.Equal(t, "0 21 (11) 2345-6789", e.FormatNationalNumberWithPreferredCarrierCode(withoutCarrier, "21"))
	require.Equal(t, "(11) 2345-6789", e.FormatNationalNumberWithPreferredCarrierCode(withoutCarrier, ""))

	// Regions without a carrier code rule format nationally.
	gb := mustParse(t, e, "020 7946 0958", "GB")
	require.Equal(t, "020 7946 0958", e.FormatNationalNumberWithCarrierCode(gb, "15"))

	unknown := &PhoneNumber{CountryCode: 999, NationalNumber: 123456}
	require.Equal(t, "123456", e.FormatNationalNumberWithCarrierCode(unknown, "15"))
}

func TestFormatOutOfCountryCallingNumber(t *testing.T) {
	e := newTestEngine(t)
	us := &PhoneNumber{CountryCode: 1, NationalNumber: 6502530000}
	gb := &PhoneNumber{CountryCode: 44, NationalNumber: 2079460958}
	yt := &PhoneNumber{CountryCode: 262, NationalNumber: 269601234}

	tests := []struct {
		name        string
		n           *PhoneNumber
		callingFrom string
		want        string
	}{
		{"unique idd", gb, "US", "011 44 20 7946 0958"},
		{"preferred idd", gb, "AU", "0011 44 20 7946 0958"},
		{"same region", gb, "GB", "020 7946 0958"},
		{"within nanpa", us, "CA", "1 (650) 253-0000"},
		{"out of nanpa", us, "GB", "00 1 650-253-0000"},
		{"invalid calling region", us, UnknownRegion, "+1 650-253-0000"},
		{"shared country code", yt, "RE", "0269 60 12 34"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, e.FormatOutOfCountryCallingNumber(tt.n, tt.callingFrom))
		})
	}
}

func TestFormatInOriginalFormat(t *testing.T) {
	e := newTestEngine(t)

	tests := []struct {
		name        string
		text        string
		region      string
		callingFrom string
		want        string
	}{
		{"plus sign", "+44 20 7946 0958", "US", "US", "+44 20 7946 0958"},
		{"idd", "011 44 20 7946 0958", "US", "US", "011 44 20 7946 0958"},
		{"country code without plus sign", "1 650 253 0000", "US", "US", "1 650-253-0000"},
		{"default country", "6502530000", "US", "US", "(650) 253-0000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := e.ParseAndKeepRawInput(tt.text, tt.region)
			require.NoError(t, err)
			require.Equal(t, tt.want, e.FormatInOriginalFormat(n, tt.callingFrom))
		})
	}

	t.Run("without raw input", func(t *testing.T) {
		n := mustParse(t, e, "+44 20 7946 0958", "US")
		require.Equal(t, "020 7946 0958", e.FormatInOriginalFormat(n, "US"))
	})
}

func TestFormatOutOfCountryKeepingAlphaChars(t *testing.T) {
	e := newTestEngine(t)

	n, err := e.ParseAndKeepRawInput("1-800-FLOWERS", "US")
	require.NoError(t, err)
	require.Equal(t, TollFree, e.GetNumberType(n))
	require.Equal(t, "00 1 800-FLOWERS", e.FormatOutOfCountryKeepingAlphaChars(n, "GB"))
	require.Equal(t, "1 800-FLOWERS", e.FormatOutOfCountryKeepingAlphaChars(n, "US"))
	require.Equal(t, "0011 1 800-FLOWERS", e.FormatOutOfCountryKeepingAlphaChars(n, "AU"))
	require.Equal(t, "+1 800-FLOWERS", e.FormatOutOfCountryKeepingAlphaChars(n, UnknownRegion))

	t.Run("lower case letters", func(t *testing.T) {
		n, err := e.ParseAndKeepRawInput("1-800-flowers", "US")
		require.NoError(t, err)
		require.Equal(t, "00 1 800-FLOWERS", e.FormatOutOfCountryKeepingAlphaChars(n, "GB"))
	})

	t.Run("non ascii digits of the raw input are dropped", func(t *testing.T) {
		n, err := e.ParseAndKeepRawInput("1 ８00 555 0199", "US")
		require.NoError(t, err)
		require.Equal(t, uint64(8005550199), n.NationalNumber)
		require.Equal(t, "00 1 1 00 555 0199", e.FormatOutOfCountryKeepingAlphaChars(n, "GB"))
	})

	t.Run("without raw input", func(t *testing.T) {
		n := mustParse(t, e, "1-800-FLOWERS", "US")
		require.Equal(t, "00 1 800-356-9377", e.FormatOutOfCountryKeepingAlphaChars(n, "GB"))
	})
}
