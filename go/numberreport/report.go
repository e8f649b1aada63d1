// Package numberreport describes phone numbers the way a support tool would: how a number was parsed, whether it
// is valid and how it renders in every format, for one number at a time or for a batch.
package numberreport

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/malonaz/libphonenumber/go/geocoding"
	"github.com/malonaz/libphonenumber/go/phonenumber"
)

const (
	// Invalid is rendered in place of formats that are only meaningful for valid numbers.
	Invalid = "invalid"

	defaultConcurrency = 8
)

// DefaultOutOfCountryRegions are the regions a report renders out-of-country formats from.
var DefaultOutOfCountryRegions = []string{"US"}

// Builder builds reports. It is safe for concurrent use once configured.
type Builder struct {
	log      *slog.Logger
	engine   *phonenumber.Engine
	geocoder *geocoding.Geocoder

	outOfCountryRegions []string
	concurrency         int
}

// NewBuilder returns a builder. The geocoder may be nil, in which case reports carry no location.
func NewBuilder(engine *phonenumber.Engine, geocoder *geocoding.Geocoder) *Builder {
	return &Builder{
		log:                 slog.Default(),
		engine:              engine,
		geocoder:            geocoder,
		outOfCountryRegions: DefaultOutOfCountryRegions,
		concurrency:         defaultConcurrency,
	}
}

func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.log = logger
	return b
}

// WithOutOfCountryRegions sets the regions out-of-country formats are rendered from.
func (b *Builder) WithOutOfCountryRegions(regions ...string) *Builder {
	b.outOfCountryRegions = make([]string, 0, len(regions))
	for _, region := range regions {
		b.outOfCountryRegions = append(b.outOfCountryRegions, normalizeRegion(region))
	}
	return b
}

// WithConcurrency bounds the number of batch rows built in parallel.
func (b *Builder) WithConcurrency(concurrency int) *Builder {
	if concurrency > 0 {
		b.concurrency = concurrency
	}
	return b
}

// Request is a single number to report on.
type Request struct {
	Number string `json:"number"`
	// DefaultRegion is used to read numbers written in national format. Empty means UnknownRegion.
	DefaultRegion string `json:"region,omitempty"`
	// Language is the BCP 47 tag the location is described in. Empty means english.
	Language string `json:"language,omitempty"`
}

// Report describes a single number.
type Report struct {
	Input         string     `json:"input"`
	DefaultRegion string     `json:"default_region"`
	Parse         Parse      `json:"parse"`
	Validation    Validation `json:"validation"`
	Formats       Formats    `json:"formats"`
	Location      string     `json:"location,omitempty"`
}

type Parse struct {
	CountryCode        int32  `json:"country_code"`
	NationalNumber     uint64 `json:"national_number"`
	Extension          string `json:"extension,omitempty"`
	CountryCodeSource  string `json:"country_code_source"`
	ItalianLeadingZero bool   `json:"italian_leading_zero"`
	RawInput           string `json:"raw_input"`
}

type Validation struct {
	Valid          bool   `json:"valid"`
	ValidForRegion bool   `json:"valid_for_region"`
	Region         string `json:"region"`
	Possible       bool   `json:"possible"`
	// PossibleReason is why the number is or is not possible, such as TOO_SHORT.
	PossibleReason string `json:"possible_reason"`
	NumberType     string `json:"number_type"`
}

type Formats struct {
	E164          string `json:"e164"`
	Original      string `json:"original"`
	International string `json:"international"`
	National      string `json:"national"`
	// OutOfCountry is keyed by the region dialling the number.
	OutOfCountry map[string]string `json:"out_of_country"`
}

// Single reports on one number. Parse failures are returned as errors holding a *phonenumber.ParseError.
func (b *Builder) Single(request *Request) (*Report, error) {
	region := normalizeRegion(request.DefaultRegion)
	n, err := b.engine.ParseAndKeepRawInput(request.Number, region)
	if err != nil {
		getMetrics().reportsTotal.WithLabelValues(kindSingle, outcome(false, err)).Inc()
		return nil, fmt.Errorf("parsing number: %w", err)
	}

	valid := b.engine.IsValidNumber(n)
	report := &Report{
		Input:         request.Number,
		DefaultRegion: region,
		Parse: Parse{
			CountryCode:        n.CountryCode,
			NationalNumber:     n.NationalNumber,
			Extension:          n.Extension,
			CountryCodeSource:  n.CountryCodeSource.String(),
			ItalianLeadingZero: n.ItalianLeadingZero,
			RawInput:           n.RawInput,
		},
		Validation: Validation{
			Valid:          valid,
			ValidForRegion: b.engine.IsValidNumberForRegion(n, region),
			Region:         b.engine.GetRegionCodeForNumber(n),
			Possible:       b.engine.IsPossibleNumber(n),
			PossibleReason: b.engine.IsPossibleNumberWithReason(n).String(),
			NumberType:     b.engine.GetNumberType(n).String(),
		},
		Formats: Formats{
			E164:          Invalid,
			Original:      b.engine.FormatInOriginalFormat(n, region),
			International: Invalid,
			National:      b.engine.Format(n, phonenumber.National),
			OutOfCountry:  make(map[string]string, len(b.outOfCountryRegions)),
		},
	}
	if valid {
		report.Formats.E164 = b.engine.Format(n, phonenumber.E164)
		report.Formats.International = b.engine.Format(n, phonenumber.International)
	}
	for _, callingFrom := range b.outOfCountryRegions {
		formatted := Invalid
		if valid {
			formatted = b.engine.FormatOutOfCountryCallingNumber(n, callingFrom)
		}
		report.Formats.OutOfCountry[callingFrom] = formatted
	}
	if b.geocoder != nil {
		language := request.Language
		if language == "" {
			language = geocoding.FallbackLanguage
		}
		report.Location = b.geocoder.DescriptionForNumber(n, language)
	}

	getMetrics().reportsTotal.WithLabelValues(kindSingle, outcome(valid, nil)).Inc()
	b.log.Debug("built report", "number", n, "valid", valid, "region", report.Validation.Region)
	return report, nil
}

func normalizeRegion(region string) string {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		return phonenumber.UnknownRegion
	}
	return region
}
