package metadata

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEmbedded(t *testing.T) {
	repository, err := Load(Embedded())
	require.NoError(t, err)

	require.Equal(t, []string{"AR", "AU", "BR", "BS", "CA", "DE", "GB", "IT", "RE", "US", "YT"}, repository.SupportedRegions())
	require.Equal(t, []int32{1, 39, 44, 49, 54, 55, 61, 262}, repository.CountryCodes())

	tests := []struct {
		name           string
		countryCode    int32
		wantRegions    []string
		wantMainRegion string
	}{
		{"nanpa main country first", 1, []string{"US", "CA", "BS"}, "US"},
		{"single region", 44, []string{"GB"}, "GB"},
		{"shared code", 262, []string{"RE", "YT"}, "RE"},
		{"unknown code", 999, nil, UnknownRegion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantRegions, repository.RegionCodesForCountryCode(tt.countryCode))
			require.Equal(t, tt.wantMainRegion, repository.RegionCodeForCountryCode(tt.countryCode))
		})
	}

	require.True(t, repository.IsValidRegion("GB"))
	require.False(t, repository.IsValidRegion("ZZ"))
	require.Nil(t, repository.Region("ZZ"))
	require.True(t, repository.IsNANPARegion("BS"))
	require.False(t, repository.IsNANPARegion("GB"))
	require.False(t, repository.IsNANPARegion("ZZ"))
	require.Len(t, repository.Regions(), len(repository.SupportedRegions()))
}

func TestIsLeadingZeroCountry(t *testing.T) {
	for _, countryCode := range []int32{39, 47, 225, 227, 228, 241, 242, 268, 378, 379, 501} {
		require.True(t, IsLeadingZeroCountry(countryCode), countryCode)
	}
	for _, countryCode := range []int32{0, 1, 44, 49, 262} {
		require.False(t, IsLeadingZeroCountry(countryCode), countryCode)
	}
}

func TestNormalization(t *testing.T) {
	repository, err := Load(Embedded())
	require.NoError(t, err)

	t.Run("national prefix for parsing defaults to national prefix", func(t *testing.T) {
		require.Equal(t, "0", repository.Region("GB").NationalPrefixForParsing)
		require.Equal(t, "0?(?:(11|343|3715)15)?", repository.Region("AR").NationalPrefixForParsing)
		require.Equal(t, "", repository.Region("IT").NationalPrefixForParsing)
	})

	t.Run("formatting rules are inherited and expanded", func(t *testing.T) {
		gb := repository.Region("GB")
		for _, format := range gb.NumberFormats {
			require.Equal(t, "0$1", format.NationalPrefixFormattingRule)
		}
		br := repository.Region("BR")
		require.Equal(t, "($1)", br.NumberFormats[0].NationalPrefixFormattingRule)
		require.Equal(t, "0 $CC ($1)", br.NumberFormats[0].DomesticCarrierCodeFormattingRule)
		require.Equal(t, "0$1", br.NumberFormats[2].NationalPrefixFormattingRule)
		require.Equal(t, "", br.NumberFormats[2].DomesticCarrierCodeFormattingRule)
		au := repository.Region("AU")
		require.Equal(t, "(0$1)", au.NumberFormats[0].NationalPrefixFormattingRule)
		require.Equal(t, "", au.NumberFormats[2].NationalPrefixFormattingRule)
	})

	t.Run("possible number pattern defaults to the general one", func(t *testing.T) {
		gb := repository.Region("GB")
		require.Equal(t, `\d{6,10}`, gb.FixedLine.PossibleNumberPattern)
		require.Equal(t, `\d{10}`, gb.Mobile.PossibleNumberPattern)
		require.Equal(t, `\d{10}`, gb.Desc(Pager).PossibleNumberPattern)
	})

	t.Run("missing descriptors are empty", func(t *testing.T) {
		it := repository.Region("IT")
		require.NotNil(t, it.Pager)
		require.False(t, it.Pager.HasNationalNumberPattern())
		require.Equal(t, "", it.Pager.PossibleNumberPattern)
	})

	t.Run("same mobile and fixed line pattern", func(t *testing.T) {
		require.True(t, repository.Region("US").SameMobileAndFixedLinePattern)
		require.False(t, repository.Region("GB").SameMobileAndFixedLinePattern)
	})
}

func TestDesc(t *testing.T) {
	region := &RegionMetadata{
		ID:          "XX",
		CountryCode: 800,
		GeneralDesc: &NumberDesc{NationalNumberPattern: "general"},
		FixedLine:   &NumberDesc{NationalNumberPattern: "fixed"},
		Mobile:      &NumberDesc{NationalNumberPattern: "mobile"},
		UAN:         &NumberDesc{NationalNumberPattern: "uan"},
	}
	region.normalize()

	tests := []struct {
		t    PhoneNumberType
		want string
	}{
		{FixedLine, "fixed"},
		{FixedLineOrMobile, "fixed"},
		{Mobile, "mobile"},
		{UAN, "uan"},
		{TollFree, ""},
		{Unknown, "general"},
		{PhoneNumberType(42), "general"},
		{PhoneNumberType(-1), "general"},
	}
	for _, tt := range tests {
		t.Run(tt.t.String(), func(t *testing.T) {
			require.Equal(t, tt.want, region.Desc(tt.t).NationalNumberPattern)
		})
	}
}

func TestPhoneNumberType(t *testing.T) {
	for _, phoneNumberType := range append(Types(), FixedLineOrMobile, Unknown) {
		parsed, err := ParsePhoneNumberType(phoneNumberType.String())
		require.NoError(t, err)
		require.Equal(t, phoneNumberType, parsed)
	}
	parsed, err := ParsePhoneNumberType("toll_free")
	require.NoError(t, err)
	require.Equal(t, TollFree, parsed)
	_, err = ParsePhoneNumberType("landline")
	require.Error(t, err)
	require.Equal(t, "PhoneNumberType(99)", PhoneNumberType(99).String())
}

func TestNewRepositoryErrors(t *testing.T) {
	regions := []*RegionMetadata{
		{ID: "AA", CountryCode: 1, GeneralDesc: &NumberDesc{NationalNumberPattern: `(`}},
		{ID: "ZZ", CountryCode: 2},
		{ID: "BB", CountryCode: 0},
		{ID: "CC", CountryCode: 3, NumberFormats: []*NumberFormat{{Format: "$1"}}},
		{ID: "DD", CountryCode: 4},
		{ID: "dd", CountryCode: 4},
		nil,
	}
	_, err := NewRepository(regions)
	require.Error(t, err)
	for _, want := range []string{
		`region "AA"`,
		`region "ZZ": 1 error occurred`,
		"invalid country code 0",
		"formats[0]: empty pattern",
		`region "DD" is defined more than once`,
		"region #6 is nil",
	} {
		require.Contains(t, err.Error(), want)
	}
}

func TestStaticSource(t *testing.T) {
	repository, err := Load(StaticSource{
		{ID: "xx", CountryCode: 800, MainCountryForCode: true},
		{ID: "YY", CountryCode: 800},
		{ID: "WW", CountryCode: 800, MainCountryForCode: true},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"WW", "XX", "YY"}, repository.RegionCodesForCountryCode(800))
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
regions:
  - id: XX
    country_code: 888
    national_prefix: '0'
    national_prefix_formatting_rule: '$NP $FG'
    formats:
      - pattern: '(\d{3})(\d{3})'
        format: '$1-$2'
    general:
      national_number_pattern: '\d{6}'
`), 0o600))

	repository, err := Load(FileSource(path))
	require.NoError(t, err)
	region := repository.Region("XX")
	require.NotNil(t, region)
	require.Equal(t, "0 $1", region.NumberFormats[0].NationalPrefixFormattingRule)
	require.Equal(t, `\d{6}`, region.GeneralDesc.PossibleNumberPattern)

	_, err = Load(FileSource(filepath.Join(t.TempDir(), "missing.yaml")))
	require.Error(t, err)

	_, err = Load(YAMLSource("regions:\n  - id: XX\n    unknown_field: 1\n"))
	require.Error(t, err)

	regions, err := YAMLSource("").Load()
	require.NoError(t, err)
	require.Empty(t, regions)
}

func TestMarshalYAML(t *testing.T) {
	regions, err := Embedded().Load()
	require.NoError(t, err)
	original, err := NewRepository(regions)
	require.NoError(t, err)

	data, err := MarshalYAML(original.Regions())
	require.NoError(t, err)
	decoded, err := DecodeYAML(bytes.NewReader(data))
	require.NoError(t, err)
	roundTripped, err := NewRepository(decoded)
	require.NoError(t, err)

	for _, region := range original.Regions() {
		require.Equal(t, region, roundTripped.Region(region.ID), region.ID)
	}
}
