package digits

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestValue(t *testing.T) {
	tests := []struct {
		name   string
		r      rune
		want   int
		wantOK bool
	}{
		{"ascii", '7', 7, true},
		{"fullwidth", '３', 3, true},
		{"arabic indic", '٥', 5, true},
		{"eastern arabic indic", '۹', 9, true},
		{"devanagari", '२', 2, true},
		{"letter", 'a', 0, false},
		{"plus", '+', 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Value(tt.r)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestOnly(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+1 (650) 253-0000", "16502530000"},
		{"０２３", "023"},
		{"١٢-۳", "123"},
		{"1-800-FLOWERS", "1800"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Only(tt.in))
		})
	}
}

func TestTransliterate(t *testing.T) {
	require.Equal(t, "+1 23-a", Transliterate("+１ ٢٣-a"))
}

func TestOnlyProperties(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		s := rapid.String().Draw(t, "s")
		got := Only(s)
		for _, r := range got {
			if r < '0' || r > '9' {
				t.Fatalf("non ascii digit %q in %q", r, got)
			}
		}
		if Only(got) != got {
			t.Fatalf("Only is not idempotent on %q", s)
		}
	})
}
