package geocoding

import (
	"sort"
	"strconv"

	"github.com/malonaz/libphonenumber/go/phonenumber"
)

// AreaCodeMap maps number prefixes, made of the calling code and the first digits of the national significant
// number, to the description of the area they serve.
type AreaCodeMap struct {
	storage Storage
}

// NewAreaCodeMap builds a map over the default storage.
func NewAreaCodeMap(areaCodes map[int64]string) *AreaCodeMap {
	return NewAreaCodeMapWithStorage(NewDefaultStorage(areaCodes))
}

// NewAreaCodeMapWithStorage builds a map over an already filled storage.
func NewAreaCodeMapWithStorage(storage Storage) *AreaCodeMap {
	return &AreaCodeMap{storage: storage}
}

// Len returns the number of prefixes in the map.
func (m *AreaCodeMap) Len() int { return m.storage.Len() }

// Lookup returns the description of the longest prefix of n found in the map.
func (m *AreaCodeMap) Lookup(n *phonenumber.PhoneNumber) (string, bool) {
	entries := m.storage.Len()
	if entries == 0 {
		return "", false
	}
	phonePrefix := strconv.Itoa(int(n.CountryCode)) + phonenumber.NationalSignificantNumber(n)
	lengths := m.storage.PossibleLengths()
	end := entries - 1
	for i := len(lengths) - 1; i >= 0; i-- {
		if len(phonePrefix) > lengths[i] {
			phonePrefix = phonePrefix[:lengths[i]]
		}
		value, err := strconv.ParseInt(phonePrefix, 10, 64)
		if err != nil {
			return "", false
		}
		end = m.floor(end, value)
		if end < 0 {
			return "", false
		}
		if m.storage.Prefix(end) == value {
			return m.storage.Description(end), true
		}
	}
	return "", false
}

// floor returns the index of the largest prefix not above value among the first end+1 entries, or -1.
// Shorter prefixes of a number are numerically smaller, so each lookup step can narrow the range.
func (m *AreaCodeMap) floor(end int, value int64) int {
	return sort.Search(end+1, func(i int) bool { return m.storage.Prefix(i) > value }) - 1
}
