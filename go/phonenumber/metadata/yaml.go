package metadata

import (
	"bytes"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type yamlCatalog struct {
	Regions []*yamlRegion `yaml:"regions"`
}

type yamlRegion struct {
	ID                           string `yaml:"id"`
	CountryCode                  int32  `yaml:"country_code"`
	InternationalPrefix          string `yaml:"international_prefix,omitempty"`
	PreferredInternationalPrefix string `yaml:"preferred_international_prefix,omitempty"`
	NationalPrefix               string `yaml:"national_prefix,omitempty"`
	PreferredExtnPrefix          string `yaml:"preferred_extn_prefix,omitempty"`
	NationalPrefixForParsing     string `yaml:"national_prefix_for_parsing,omitempty"`
	NationalPrefixTransformRule  string `yaml:"national_prefix_transform_rule,omitempty"`
	LeadingDigits                string `yaml:"leading_digits,omitempty"`
	MainCountryForCode           bool   `yaml:"main_country_for_code,omitempty"`

	// Region level rules, inherited by every format that does not set its own.
	NationalPrefixFormattingRule      string `yaml:"national_prefix_formatting_rule,omitempty"`
	DomesticCarrierCodeFormattingRule string `yaml:"carrier_code_formatting_rule,omitempty"`

	Formats     []*yamlFormat `yaml:"formats,omitempty"`
	IntlFormats []*yamlFormat `yaml:"intl_formats,omitempty"`

	General        *yamlDesc `yaml:"general,omitempty"`
	FixedLine      *yamlDesc `yaml:"fixed_line,omitempty"`
	Mobile         *yamlDesc `yaml:"mobile,omitempty"`
	TollFree       *yamlDesc `yaml:"toll_free,omitempty"`
	PremiumRate    *yamlDesc `yaml:"premium_rate,omitempty"`
	SharedCost     *yamlDesc `yaml:"shared_cost,omitempty"`
	VoIP           *yamlDesc `yaml:"voip,omitempty"`
	PersonalNumber *yamlDesc `yaml:"personal_number,omitempty"`
	Pager          *yamlDesc `yaml:"pager,omitempty"`
	UAN            *yamlDesc `yaml:"uan,omitempty"`
}

type yamlFormat struct {
	Pattern                           string   `yaml:"pattern,omitempty"`
	Format                            string   `yaml:"format,omitempty"`
	LeadingDigits                     []string `yaml:"leading_digits,omitempty"`
	NationalPrefixFormattingRule      *string  `yaml:"national_prefix_formatting_rule,omitempty"`
	DomesticCarrierCodeFormattingRule *string  `yaml:"carrier_code_formatting_rule,omitempty"`
}

type yamlDesc struct {
	NationalNumberPattern string `yaml:"national_number_pattern,omitempty"`
	PossibleNumberPattern string `yaml:"possible_number_pattern,omitempty"`
	ExampleNumber         string `yaml:"example_number,omitempty"`
}

// DecodeYAML decodes a catalog of regions.
func DecodeYAML(r io.Reader) ([]*RegionMetadata, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	catalog := &yamlCatalog{}
	if err := decoder.Decode(catalog); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding yaml catalog: %w", err)
	}
	regions := make([]*RegionMetadata, 0, len(catalog.Regions))
	for i, region := range catalog.Regions {
		if region == nil {
			return nil, fmt.Errorf("region #%d is empty", i)
		}
		regions = append(regions, region.toRegionMetadata())
	}
	return regions, nil
}

func (y *yamlRegion) toRegionMetadata() *RegionMetadata {
	r := &RegionMetadata{
		ID:                           y.ID,
		CountryCode:                  y.CountryCode,
		InternationalPrefix:          y.InternationalPrefix,
		PreferredInternationalPrefix: y.PreferredInternationalPrefix,
		NationalPrefix:               y.NationalPrefix,
		PreferredExtnPrefix:          y.PreferredExtnPrefix,
		NationalPrefixForParsing:     y.NationalPrefixForParsing,
		NationalPrefixTransformRule:  y.NationalPrefixTransformRule,
		LeadingDigits:                y.LeadingDigits,
		MainCountryForCode:           y.MainCountryForCode,
		GeneralDesc:                  y.General.toNumberDesc(),
		FixedLine:                    y.FixedLine.toNumberDesc(),
		Mobile:                       y.Mobile.toNumberDesc(),
		TollFree:                     y.TollFree.toNumberDesc(),
		PremiumRate:                  y.PremiumRate.toNumberDesc(),
		SharedCost:                   y.SharedCost.toNumberDesc(),
		VoIP:                         y.VoIP.toNumberDesc(),
		PersonalNumber:               y.PersonalNumber.toNumberDesc(),
		Pager:                        y.Pager.toNumberDesc(),
		UAN:                          y.UAN.toNumberDesc(),
	}
	for _, format := range y.Formats {
		r.NumberFormats = append(r.NumberFormats, y.toNumberFormat(format))
	}
	for _, format := range y.IntlFormats {
		r.IntlNumberFormats = append(r.IntlNumberFormats, y.toNumberFormat(format))
	}
	return r
}

func (y *yamlRegion) toNumberFormat(f *yamlFormat) *NumberFormat {
	format := &NumberFormat{
		Pattern:                           f.Pattern,
		Format:                            f.Format,
		LeadingDigitsPatterns:             f.LeadingDigits,
		NationalPrefixFormattingRule:      y.NationalPrefixFormattingRule,
		DomesticCarrierCodeFormattingRule: y.DomesticCarrierCodeFormattingRule,
	}
	// An explicitly empty rule on the format opts out of the region level one.
	if f.NationalPrefixFormattingRule != nil {
		format.NationalPrefixFormattingRule = *f.NationalPrefixFormattingRule
	}
	if f.DomesticCarrierCodeFormattingRule != nil {
		format.DomesticCarrierCodeFormattingRule = *f.DomesticCarrierCodeFormattingRule
	}
	return format
}

func (y *yamlDesc) toNumberDesc() *NumberDesc {
	if y == nil {
		return &NumberDesc{}
	}
	return &NumberDesc{
		NationalNumberPattern: y.NationalNumberPattern,
		PossibleNumberPattern: y.PossibleNumberPattern,
		ExampleNumber:         y.ExampleNumber,
	}
}

// MarshalYAML encodes regions back into the catalog layout understood by DecodeYAML.
// Formatting rules are written per format, already expanded.
func MarshalYAML(regions []*RegionMetadata) ([]byte, error) {
	catalog := &yamlCatalog{}
	for _, r := range regions {
		y := &yamlRegion{
			ID:                           r.ID,
			CountryCode:                  r.CountryCode,
			InternationalPrefix:          r.InternationalPrefix,
			PreferredInternationalPrefix: r.PreferredInternationalPrefix,
			NationalPrefix:               r.NationalPrefix,
			PreferredExtnPrefix:          r.PreferredExtnPrefix,
			NationalPrefixForParsing:     r.NationalPrefixForParsing,
			NationalPrefixTransformRule:  r.NationalPrefixTransformRule,
			LeadingDigits:                r.LeadingDigits,
			MainCountryForCode:           r.MainCountryForCode,
			General:                      fromNumberDesc(r.GeneralDesc),
			FixedLine:                    fromNumberDesc(r.FixedLine),
			Mobile:                       fromNumberDesc(r.Mobile),
			TollFree:                     fromNumberDesc(r.TollFree),
			PremiumRate:                  fromNumberDesc(r.PremiumRate),
			SharedCost:                   fromNumberDesc(r.SharedCost),
			VoIP:                         fromNumberDesc(r.VoIP),
			PersonalNumber:               fromNumberDesc(r.PersonalNumber),
			Pager:                        fromNumberDesc(r.Pager),
			UAN:                          fromNumberDesc(r.UAN),
		}
		for _, f := range r.NumberFormats {
			y.Formats = append(y.Formats, fromNumberFormat(f))
		}
		for _, f := range r.IntlNumberFormats {
			y.IntlFormats = append(y.IntlFormats, fromNumberFormat(f))
		}
		catalog.Regions = append(catalog.Regions, y)
	}
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(2)
	if err := encoder.Encode(catalog); err != nil {
		return nil, fmt.Errorf("encoding yaml catalog: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, fmt.Errorf("closing yaml encoder: %w", err)
	}
	return buffer.Bytes(), nil
}

func fromNumberFormat(f *NumberFormat) *yamlFormat {
	nationalPrefixFormattingRule := f.NationalPrefixFormattingRule
	carrierCodeFormattingRule := f.DomesticCarrierCodeFormattingRule
	return &yamlFormat{
		Pattern:                           f.Pattern,
		Format:                            f.Format,
		LeadingDigits:                     f.LeadingDigitsPatterns,
		NationalPrefixFormattingRule:      &nationalPrefixFormattingRule,
		DomesticCarrierCodeFormattingRule: &carrierCodeFormattingRule,
	}
}

func fromNumberDesc(d *NumberDesc) *yamlDesc {
	if d == nil || *d == (NumberDesc{}) {
		return nil
	}
	return &yamlDesc{
		NationalNumberPattern: d.NationalNumberPattern,
		PossibleNumberPattern: d.PossibleNumberPattern,
		ExampleNumber:         d.ExampleNumber,
	}
}
