package metadata

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/hashicorp/go-multierror"
)

// Calling codes of the regions where a leading zero of the national significant number is significant.
var leadingZeroCountryCodes = map[int32]struct{}{
	39:  {}, // Italy
	47:  {}, // Norway
	225: {}, // Cote d'Ivoire
	227: {}, // Niger
	228: {}, // Togo
	241: {}, // Gabon
	242: {}, // Congo (Rep. of the)
	268: {}, // Swaziland
	378: {}, // San Marino
	379: {}, // Vatican City
	501: {}, // Belize
}

var regionCodeRegexp = regexp.MustCompile(`^[A-Z]{2}$`)

// Repository indexes region metadata by region code and by country calling code.
// It is immutable once built and safe for concurrent use.
type Repository struct {
	regions              map[string]*RegionMetadata
	countryCodeToRegions map[int32][]string
	supportedRegions     []string
	countryCodes         []int32
}

// Load builds a repository from the records of source.
func Load(source Source) (*Repository, error) {
	regions, err := source.Load()
	if err != nil {
		return nil, fmt.Errorf("loading metadata: %w", err)
	}
	return NewRepository(regions)
}

// NewRepository normalizes and validates regions, then indexes them.
// The records are owned by the repository afterwards.
func NewRepository(regions []*RegionMetadata) (*Repository, error) {
	r := &Repository{
		regions:              make(map[string]*RegionMetadata, len(regions)),
		countryCodeToRegions: map[int32][]string{},
	}
	var result *multierror.Error
	for i, region := range regions {
		if region == nil {
			result = multierror.Append(result, fmt.Errorf("region #%d is nil", i))
			continue
		}
		region.normalize()
		if err := validate(region); err != nil {
			result = multierror.Append(result, fmt.Errorf("region %q: %w", region.ID, err))
			continue
		}
		if _, ok := r.regions[region.ID]; ok {
			result = multierror.Append(result, fmt.Errorf("region %q is defined more than once", region.ID))
			continue
		}
		r.regions[region.ID] = region

		codes, ok := r.countryCodeToRegions[region.CountryCode]
		switch {
		case !ok:
			r.countryCodes = append(r.countryCodes, region.CountryCode)
			codes = []string{region.ID}
		case region.MainCountryForCode:
			codes = append([]string{region.ID}, codes...)
		default:
			codes = append(codes, region.ID)
		}
		r.countryCodeToRegions[region.CountryCode] = codes
		r.supportedRegions = append(r.supportedRegions, region.ID)
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("invalid metadata: %w", err)
	}
	sort.Strings(r.supportedRegions)
	sort.Slice(r.countryCodes, func(i, j int) bool { return r.countryCodes[i] < r.countryCodes[j] })
	return r, nil
}

func validate(region *RegionMetadata) error {
	var result *multierror.Error
	if !regionCodeRegexp.MatchString(region.ID) || region.ID == UnknownRegion {
		result = multierror.Append(result, fmt.Errorf("invalid region code"))
	}
	if region.CountryCode <= 0 || region.CountryCode > 999 {
		result = multierror.Append(result, fmt.Errorf("invalid country code %d", region.CountryCode))
	}
	compile := func(field, pattern string) {
		if pattern == "" {
			return
		}
		if _, err := regexp.Compile(pattern); err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", field, err))
		}
	}
	compile("international_prefix", region.InternationalPrefix)
	compile("national_prefix_for_parsing", region.NationalPrefixForParsing)
	compile("leading_digits", region.LeadingDigits)
	for t := FixedLine; t <= Unknown; t++ {
		if t == FixedLineOrMobile {
			continue
		}
		desc := region.Desc(t)
		compile(t.String()+" national_number_pattern", desc.NationalNumberPattern)
		compile(t.String()+" possible_number_pattern", desc.PossibleNumberPattern)
	}
	for name, formats := range map[string][]*NumberFormat{"formats": region.NumberFormats, "intl_formats": region.IntlNumberFormats} {
		for i, format := range formats {
			if format.Pattern == "" {
				result = multierror.Append(result, fmt.Errorf("%s[%d]: empty pattern", name, i))
			}
			compile(fmt.Sprintf("%s[%d] pattern", name, i), format.Pattern)
			for j, leadingDigits := range format.LeadingDigitsPatterns {
				compile(fmt.Sprintf("%s[%d] leading_digits[%d]", name, i, j), leadingDigits)
			}
		}
	}
	return result.ErrorOrNil()
}

// Region returns the metadata of a region, or nil if the region is not supported.
func (r *Repository) Region(regionCode string) *RegionMetadata {
	return r.regions[regionCode]
}

// IsValidRegion reports whether metadata exists for the region.
func (r *Repository) IsValidRegion(regionCode string) bool {
	_, ok := r.regions[regionCode]
	return ok
}

// RegionCodesForCountryCode returns the regions sharing a calling code, main country first.
// The result is empty for unknown codes and must not be modified.
func (r *Repository) RegionCodesForCountryCode(countryCode int32) []string {
	return r.countryCodeToRegions[countryCode]
}

// RegionCodeForCountryCode returns the main region of a calling code, or UnknownRegion.
func (r *Repository) RegionCodeForCountryCode(countryCode int32) string {
	regionCodes := r.countryCodeToRegions[countryCode]
	if len(regionCodes) == 0 {
		return UnknownRegion
	}
	return regionCodes[0]
}

// IsNANPARegion reports whether a region belongs to the North American Numbering Plan.
func (r *Repository) IsNANPARegion(regionCode string) bool {
	region, ok := r.regions[regionCode]
	return ok && region.CountryCode == NANPACountryCode
}

// IsLeadingZeroCountry reports whether a leading zero is significant for numbers with this calling code.
func IsLeadingZeroCountry(countryCode int32) bool {
	_, ok := leadingZeroCountryCodes[countryCode]
	return ok
}

// SupportedRegions returns the sorted region codes. The slice must not be modified.
func (r *Repository) SupportedRegions() []string {
	return r.supportedRegions
}

// CountryCodes returns the sorted calling codes. The slice must not be modified.
func (r *Repository) CountryCodes() []int32 {
	return r.countryCodes
}

// Regions returns every region, sorted by region code.
func (r *Repository) Regions() []*RegionMetadata {
	regions := make([]*RegionMetadata, 0, len(r.supportedRegions))
	for _, regionCode := range r.supportedRegions {
		regions = append(regions, r.regions[regionCode])
	}
	return regions
}
