// Package phonenumber parses, formats, classifies and compares telephone numbers using per-region metadata.
package phonenumber

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/malonaz/libphonenumber/go/phonenumber/metadata"
	"github.com/malonaz/libphonenumber/go/regexcache"
)

// Opts configures the engine built by NewFromOpts.
type Opts struct {
	MetadataFile     string `long:"metadata-file" env:"METADATA_FILE" description:"YAML catalog to load instead of the embedded one"`
	PatternCacheSize int    `long:"pattern-cache-size" env:"PATTERN_CACHE_SIZE" description:"Number of compiled metadata patterns to keep" default:"64"`
}

func (o *Opts) source() metadata.Source {
	if o == nil || o.MetadataFile == "" {
		return metadata.Embedded()
	}
	return metadata.FileSource(o.MetadataFile)
}

// Engine holds the metadata and the pattern cache. It is safe for concurrent use.
type Engine struct {
	log        *slog.Logger
	repository *metadata.Repository
	regexps    *regexcache.Cache
}

// New builds an engine from the metadata of source. Any metadata error is returned.
func New(source metadata.Source) (*Engine, error) {
	return newEngine(source, regexcache.DefaultCapacity)
}

// NewFromOpts builds an engine from command line options.
func NewFromOpts(opts *Opts) (*Engine, error) {
	capacity := regexcache.DefaultCapacity
	if opts != nil && opts.PatternCacheSize > 0 {
		capacity = opts.PatternCacheSize
	}
	return newEngine(opts.source(), capacity)
}

func newEngine(source metadata.Source, capacity int) (*Engine, error) {
	repository, err := metadata.Load(source)
	if err != nil {
		return nil, fmt.Errorf("building phone number engine: %w", err)
	}
	return &Engine{
		log:        slog.Default(),
		repository: repository,
		regexps:    regexcache.New("phonenumber", capacity),
	}, nil
}

// MustNew is like New but panics on error.
func MustNew(source metadata.Source) *Engine {
	engine, err := New(source)
	if err != nil {
		panic(err)
	}
	return engine
}

var defaultEngine = sync.OnceValue(func() *Engine { return MustNew(metadata.Embedded()) })

// Default returns a process wide engine over the embedded catalog.
func Default() *Engine {
	return defaultEngine()
}

// WithLogger sets the logger. It must be called before the engine is shared.
func (e *Engine) WithLogger(logger *slog.Logger) *Engine {
	e.log = logger
	return e
}

// Repository returns the metadata the engine was built from.
func (e *Engine) Repository() *metadata.Repository {
	return e.repository
}

// GetSupportedRegions returns the sorted region codes with metadata.
func (e *Engine) GetSupportedRegions() []string {
	return e.repository.SupportedRegions()
}

// IsNANPACountry reports whether a region belongs to the North American Numbering Plan.
func (e *Engine) IsNANPACountry(regionCode string) bool {
	return e.repository.IsNANPARegion(regionCode)
}

// IsLeadingZeroCountry reports whether a leading zero is significant for the calling code.
func (e *Engine) IsLeadingZeroCountry(countryCode int32) bool {
	return metadata.IsLeadingZeroCountry(countryCode)
}

// GetRegionCodeForCountryCode returns the main region of a calling code, or UnknownRegion.
func (e *Engine) GetRegionCodeForCountryCode(countryCode int32) string {
	return e.repository.RegionCodeForCountryCode(countryCode)
}

// GetRegionCodesForCountryCode returns every region sharing a calling code, main region first.
func (e *Engine) GetRegionCodesForCountryCode(countryCode int32) []string {
	return append([]string(nil), e.repository.RegionCodesForCountryCode(countryCode)...)
}

// GetCountryCodeForRegion returns the calling code of a region, or 0 if the region is not supported.
func (e *Engine) GetCountryCodeForRegion(regionCode string) int32 {
	region := e.repository.Region(regionCode)
	if region == nil {
		return 0
	}
	return region.CountryCode
}

// GetNationalSignificantNumber returns the national significant number of n as text.
func (e *Engine) GetNationalSignificantNumber(n *PhoneNumber) string {
	return NationalSignificantNumber(n)
}

// hasValidRegionCode logs and reports false for regions without metadata.
func (e *Engine) hasValidRegionCode(regionCode string, countryCode int32, number string) bool {
	if !e.repository.IsValidRegion(regionCode) {
		e.log.Info("number has invalid or missing country code", "number", number, "country_code", countryCode)
		return false
	}
	return true
}
