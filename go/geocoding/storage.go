package geocoding

import (
	"sort"
	"strconv"
)

// Storage holds the entries of an area code map, sorted by prefix.
type Storage interface {
	// Len returns the number of entries.
	Len() int
	// Prefix returns the prefix of the i-th entry.
	Prefix(i int) int64
	// Description returns the description of the i-th entry.
	Description(i int) string
	// PossibleLengths returns the distinct prefix lengths, in increasing order.
	PossibleLengths() []int
}

// DefaultStorage keeps prefixes and descriptions in two parallel slices.
type DefaultStorage struct {
	prefixes        []int64
	descriptions    []string
	possibleLengths []int
}

// NewDefaultStorage builds a storage from prefix to description pairs. Non positive prefixes are ignored.
func NewDefaultStorage(areaCodes map[int64]string) *DefaultStorage {
	s := &DefaultStorage{
		prefixes:     make([]int64, 0, len(areaCodes)),
		descriptions: make([]string, 0, len(areaCodes)),
	}
	for prefix := range areaCodes {
		if prefix > 0 {
			s.prefixes = append(s.prefixes, prefix)
		}
	}
	sort.Slice(s.prefixes, func(i, j int) bool { return s.prefixes[i] < s.prefixes[j] })

	lengths := map[int]struct{}{}
	for _, prefix := range s.prefixes {
		s.descriptions = append(s.descriptions, areaCodes[prefix])
		lengths[len(strconv.FormatInt(prefix, 10))] = struct{}{}
	}
	for length := range lengths {
		s.possibleLengths = append(s.possibleLengths, length)
	}
	sort.Ints(s.possibleLengths)
	return s
}

// Len implements Storage.
func (s *DefaultStorage) Len() int { return len(s.prefixes) }

// Prefix implements Storage.
func (s *DefaultStorage) Prefix(i int) int64 { return s.prefixes[i] }

// Description implements Storage.
func (s *DefaultStorage) Description(i int) string { return s.descriptions[i] }

// PossibleLengths implements Storage.
func (s *DefaultStorage) PossibleLengths() []int { return s.possibleLengths }
