package numberreport

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/malonaz/libphonenumber/go/geocoding"
	"github.com/malonaz/libphonenumber/go/phonenumber"
)

func newTestBuilder(t *testing.T) *Builder {
	t.Helper()
	engine := phonenumber.Default()
	geocoder, err := geocoding.NewDefault(engine)
	require.NoError(t, err)
	return NewBuilder(engine, geocoder)
}

func TestSingle(t *testing.T) {
	builder := newTestBuilder(t)

	t.Run("valid number", func(t *testing.T) {
		report, err := builder.Single(&Request{Number: "(650) 253-0000", DefaultRegion: "us"})
		require.NoError(t, err)
		require.Equal(t, &Report{
			Input:         "(650) 253-0000",
			DefaultRegion: "US",
			Parse: Parse{
				CountryCode:       1,
				NationalNumber:    6502530000,
				CountryCodeSource: "FROM_DEFAULT_COUNTRY",
				RawInput:          "(650) 253-0000",
			},
			Validation: Validation{
				Valid:          true,
				ValidForRegion: true,
				Region:         "US",
				Possible:       true,
				PossibleReason: "IS_POSSIBLE",
				NumberType:     "FIXED_LINE_OR_MOBILE",
			},
			Formats: Formats{
				E164:          "+16502530000",
				Original:      "(650) 253-0000",
				International: "+1 650-253-0000",
				National:      "(650) 253-0000",
				OutOfCountry:  map[string]string{"US": "1 (650) 253-0000"},
			},
			Location: "California",
		}, report)
	})

	t.Run("out of country regions", func(t *testing.T) {
		builder := newTestBuilder(t).WithOutOfCountryRegions("us", "AU")
		report, err := builder.Single(&Request{Number: "+44 20 7946 0958", DefaultRegion: "US", Language: "de"})
		require.NoError(t, err)
		require.Equal(t, "FROM_NUMBER_WITH_PLUS_SIGN", report.Parse.CountryCodeSource)
		require.Equal(t, "GB", report.Validation.Region)
		require.False(t, report.Validation.ValidForRegion)
		require.Equal(t, "+44 20 7946 0958", report.Formats.Original)
		require.Equal(t, map[string]string{"US": "011 44 20 7946 0958", "AU": "0011 44 20 7946 0958"}, report.Formats.OutOfCountry)
		require.Equal(t, "London", report.Location)
	})

	t.Run("italian leading zero", func(t *testing.T) {
		report, err := builder.Single(&Request{Number: "02 3661 8300", DefaultRegion: "IT", Language: "it"})
		require.NoError(t, err)
		require.True(t, report.Parse.ItalianLeadingZero)
		require.Equal(t, uint64(236618300), report.Parse.NationalNumber)
		require.Equal(t, "+390236618300", report.Formats.E164)
		require.Equal(t, "Milano", report.Location)
	})

	t.Run("invalid number", func(t *testing.T) {
		report, err := builder.Single(&Request{Number: "212 123 4567", DefaultRegion: "US"})
		require.NoError(t, err)
		require.False(t, report.Validation.Valid)
		require.Equal(t, Invalid, report.Formats.E164)
		require.Equal(t, Invalid, report.Formats.International)
		require.Equal(t, map[string]string{"US": Invalid}, report.Formats.OutOfCountry)
		require.Empty(t, report.Location)
	})

	t.Run("without geocoder", func(t *testing.T) {
		report, err := NewBuilder(phonenumber.Default(), nil).Single(&Request{Number: "(650) 253-0000", DefaultRegion: "US"})
		require.NoError(t, err)
		require.Empty(t, report.Location)
	})

	t.Run("parse errors", func(t *testing.T) {
		_, err := builder.Single(&Request{Number: "abc", DefaultRegion: "US"})
		require.ErrorIs(t, err, phonenumber.ErrNotANumber)

		_, err = builder.Single(&Request{Number: "650 253 0000"})
		require.ErrorIs(t, err, phonenumber.ErrInvalidCountryCode)
	})
}

func TestSplitBatch(t *testing.T) {
	require.Equal(t, []string{"650 253 0000", "+44 20 7946 0958"}, SplitBatch(" 650 253 0000,,\n+44 20 7946 0958 ,"))
	require.Empty(t, SplitBatch(" , "))
}

func TestBatch(t *testing.T) {
	defer goleak.VerifyNone(t)
	builder := newTestBuilder(t).WithConcurrency(2)

	rows, err := builder.Batch(context.Background(), []string{"(650) 253-0000", "+44 20 7946 0958", "abc", "212 123 4567"}, "US")
	require.NoError(t, err)
	require.Equal(t, []*Row{
		{ID: 1, Raw: "(650) 253-0000", Pretty: "(650) 253-0000", International: "+1 650-253-0000"},
		{ID: 2, Raw: "+44 20 7946 0958", Pretty: "+44 20 7946 0958", International: "+44 20 7946 0958"},
		{
			ID:        3,
			Raw:       "abc",
			Error:     `parsing "abc": the string supplied did not seem to be a phone number`,
			ErrorType: "NOT_A_NUMBER",
			err:       rows[2].Err(),
		},
		{ID: 4, Raw: "212 123 4567", Pretty: Invalid, International: Invalid},
	}, rows)
	require.ErrorIs(t, rows[2].Err(), phonenumber.ErrNotANumber)

	err = Errors(rows)
	require.ErrorContains(t, err, "row 3")
	require.ErrorIs(t, err, phonenumber.ErrNotANumber)
	require.NoError(t, Errors(rows[:2]))
}

func TestBatchOrderIsStable(t *testing.T) {
	defer goleak.VerifyNone(t)
	builder := newTestBuilder(t).WithConcurrency(4)

	numbers := make([]string, 50)
	for i := range numbers {
		numbers[i] = fmt.Sprintf("+1 650 253 %04d", i)
	}
	rows, err := builder.Batch(context.Background(), numbers, "")
	require.NoError(t, err)
	require.Len(t, rows, len(numbers))
	for i, row := range rows {
		require.Equal(t, i+1, row.ID)
		require.Equal(t, numbers[i], row.Raw)
		require.Equal(t, fmt.Sprintf("+1 650-253-%04d", i), row.International)
	}
}

func TestBatchCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestBuilder(t).Batch(ctx, []string{"(650) 253-0000"}, "US")
	require.ErrorIs(t, err, context.Canceled)
}
