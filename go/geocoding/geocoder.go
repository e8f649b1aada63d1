// Package geocoding describes the geographical area a phone number belongs to.
package geocoding

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
	"gopkg.in/yaml.v3"

	"github.com/malonaz/libphonenumber/go/phonenumber"
)

//go:embed data.yaml
var embeddedData []byte

// FallbackLanguage is used when there is no description in the requested language.
const FallbackLanguage = "en"

// Data holds area descriptions by language, then by calling code, then by prefix.
type Data map[string]map[int32]map[int64]string

// DecodeYAML reads area descriptions from YAML.
func DecodeYAML(r io.Reader) (Data, error) {
	var data Data
	if err := yaml.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding geocoding data: %w", err)
	}
	return data, nil
}

// EmbeddedData returns the descriptions compiled into the binary.
func EmbeddedData() (Data, error) {
	return DecodeYAML(bytes.NewReader(embeddedData))
}

// Geocoder describes numbers with the area code maps of each language.
type Geocoder struct {
	log    *slog.Logger
	engine *phonenumber.Engine
	// language to calling code to map.
	maps map[string]map[int32]*AreaCodeMap
}

// New builds a geocoder. Every prefix must start with the calling code it is listed under.
func New(engine *phonenumber.Engine, data Data) (*Geocoder, error) {
	g := &Geocoder{
		log:    slog.Default(),
		engine: engine,
		maps:   make(map[string]map[int32]*AreaCodeMap, len(data)),
	}
	var result *multierror.Error
	for lang, countries := range data {
		base, err := baseLanguage(lang)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		maps := make(map[int32]*AreaCodeMap, len(countries))
		for countryCode, areaCodes := range countries {
			countryCodeString := strconv.Itoa(int(countryCode))
			for prefix := range areaCodes {
				if !strings.HasPrefix(strconv.FormatInt(prefix, 10), countryCodeString) {
					result = multierror.Append(result, fmt.Errorf("%s: prefix %d is not in calling code %d", lang, prefix, countryCode))
				}
			}
			maps[countryCode] = NewAreaCodeMap(areaCodes)
		}
		g.maps[base] = maps
	}
	if err := result.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("invalid geocoding data: %w", err)
	}
	return g, nil
}

// NewDefault builds a geocoder over the embedded descriptions.
func NewDefault(engine *phonenumber.Engine) (*Geocoder, error) {
	data, err := EmbeddedData()
	if err != nil {
		return nil, err
	}
	return New(engine, data)
}

// WithLogger sets the logger.
func (g *Geocoder) WithLogger(logger *slog.Logger) *Geocoder {
	g.log = logger
	return g
}

// DescriptionForNumber describes the area of a valid number in the language of lang, a BCP 47 tag. The
// description of the fallback language is used when lang has none, then the name of the region of the number.
// Invalid numbers get an empty description.
func (g *Geocoder) DescriptionForNumber(n *phonenumber.PhoneNumber, lang string) string {
	if !g.engine.IsValidNumber(n) {
		return ""
	}
	base, err := baseLanguage(lang)
	if err != nil {
		g.log.Debug("invalid language, using the fallback language", "language", lang, "error", err)
		base = FallbackLanguage
	}
	for _, candidate := range []string{base, FallbackLanguage} {
		if description, ok := g.lookup(n, candidate); ok {
			return description
		}
	}
	return g.regionName(g.engine.GetRegionCodeForNumber(n), base)
}

func (g *Geocoder) lookup(n *phonenumber.PhoneNumber, lang string) (string, bool) {
	areaCodeMap, ok := g.maps[lang][n.CountryCode]
	if !ok {
		return "", false
	}
	description, ok := areaCodeMap.Lookup(n)
	return description, ok && description != ""
}

// regionName returns the name of a region in the given language, or "" for unknown regions.
func (g *Geocoder) regionName(regionCode, lang string) string {
	region, err := language.ParseRegion(regionCode)
	if err != nil || regionCode == phonenumber.UnknownRegion {
		return ""
	}
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}
	namer := display.Regions(tag)
	if namer == nil {
		namer = display.Regions(language.English)
	}
	return namer.Name(region)
}

func baseLanguage(lang string) (string, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return "", fmt.Errorf("parsing language %q: %w", lang, err)
	}
	base, _ := tag.Base()
	return base.String(), nil
}
