package phonenumber

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"punctuation removed", "034-56&+#2\u00AD34", "03456234"},
		{"letters converted", "034-I-am-HUNGRY", "034426486479"},
		{"fewer than three letters dropped", "034-56&+a#234", "03456234"},
		{"fullwidth and arabic indic digits", "２5٥", "255"},
		{"eastern arabic indic digits", "۵2۰", "520"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		once := Normalize(s)
		require.Equal(t, once, Normalize(once))
		require.Equal(t, once, NormalizeDigitsOnly(once))
	})
}

func TestNormalizeDigitsOnly(t *testing.T) {
	require.Equal(t, "03456234", NormalizeDigitsOnly("034-56&+a#234"))
	require.Equal(t, "", NormalizeDigitsOnly("no digits"))
}

func TestConvertAlphaCharactersInNumber(t *testing.T) {
	require.Equal(t, "1800-222-333", ConvertAlphaCharactersInNumber("1800-ABC-DEF"))
	require.Equal(t, "1800-222-333", ConvertAlphaCharactersInNumber("1800-abc-def"))
}

func TestExtractPossibleNumber(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"leading text", "Tel:0800-345-600", "0800-345-600"},
		{"vanity number", "Tel:0800 FOR PIZZA", "0800 FOR PIZZA"},
		{"plus sign kept", "Tel:+800-345-600", "+800-345-600"},
		{"fullwidth digits", "Tel:０８００-345-600", "０８００-345-600"},
		{"fullwidth start", "Num-１２３", "１２３"},
		{"no digits", "Num-....", ""},
		{"leading bracket dropped", "(650) 253-0000", "650) 253-0000"},
		{"trailing punctuation dropped", "(650) 253-0000..- ..", "650) 253-0000"},
		{"trailing rtl mark dropped", "+1 (650) 253-0000\u200F", "+1 (650) 253-0000"},
		{"second number dropped", "(530) 583-6985 x302/x2303", "530) 583-6985 x302"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ExtractPossibleNumber(tt.in))
		})
	}
}

func TestIsViablePhoneNumber(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"1", false},
		{"00", false},
		{"1+1+1", false},
		{"80+0", false},
		{"111", true},
		{"0800-4-PIZZA", true},
		{"0800-4-pizza", true},
		{"+800 1234-5678", true},
		{"650 253 0000 ext. 1234", true},
		{"０８００", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, IsViablePhoneNumber(tt.in))
		})
	}
}

func TestIsAlphaNumber(t *testing.T) {
	require.True(t, IsAlphaNumber("1800 six-flags"))
	require.True(t, IsAlphaNumber("1800 six-flags ext. 1234"))
	require.False(t, IsAlphaNumber("1800 123-1234"))
	require.False(t, IsAlphaNumber("1 six-flags"))
	require.False(t, IsAlphaNumber("18 six-flags"))
}

func TestMaybeStripExtension(t *testing.T) {
	tests := []struct {
		name          string
		in            string
		wantRest      string
		wantExtension string
		wantOK        bool
	}{
		{"ext marker", "1234576 ext. 1234", "1234576", "1234", true},
		{"x marker", "1234576 x 1234", "1234576", "1234", true},
		{"comma marker", "1234576,1234", "1234576", "1234", true},
		{"trailing hash", "1234 - 5#", "1234", "5", true},
		{"none", "1234-576", "1234-576", "", false},
		{"rest not viable", "12 ext. 1234", "12 ext. 1234", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rest, extension, ok := MaybeStripExtension(tt.in)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.wantRest, rest)
			require.Equal(t, tt.wantExtension, extension)
		})
	}
}
