package kv

import (
	"iter"

	"github.com/indigo-web/utils/strcomp"
)

type Pair struct {
	Key, Value string
}

// Storage is an associative structure for (string, string) pairs with
// case-insensitive keys. Lookup is a linear scan, which beats a map on
// the small entry counts headers normally come in. Insertion order is
// preserved and duplicate keys are kept.
type Storage struct {
	pairs      []Pair
	valuesBuff []string
}

func New() *Storage {
	return new(Storage)
}

// NewPrealloc returns an instance of Storage with pre-allocated underlying storage.
func NewPrealloc(n int) *Storage {
	return &Storage{
		pairs: make([]Pair, 0, n),
	}
}

// Add adds a new pair of key and value.
func (s *Storage) Add(key, value string) *Storage {
	s.pairs = append(s.pairs, Pair{
		Key:   key,
		Value: value,
	})
	return s
}

// Value returns the first value corresponding to the key, otherwise empty string.
func (s *Storage) Value(key string) string {
	return s.ValueOr(key, "")
}

// ValueOr returns either the first value corresponding to the key or the
// fallback passed via the second parameter.
func (s *Storage) ValueOr(key, or string) string {
	value, found := s.Get(key)
	if !found {
		return or
	}

	return value
}

// Get returns a value and a bool indicating whether it was found.
func (s *Storage) Get(key string) (value string, found bool) {
	for _, pair := range s.pairs {
		if strcomp.EqualFold(key, pair.Key) {
			return pair.Value, true
		}
	}

	return "", false
}

// Values returns all values by the key. Returns nil if the key doesn't exist.
//
// WARNING: calling it twice will override values, returned by the first call.
// Consider copying the returned slice for safe use.
func (s *Storage) Values(key string) (values []string) {
	s.valuesBuff = s.valuesBuff[:0]

	for _, pair := range s.pairs {
		if strcomp.EqualFold(pair.Key, key) {
			s.valuesBuff = append(s.valuesBuff, pair.Value)
		}
	}

	if len(s.valuesBuff) == 0 {
		return nil
	}

	return s.valuesBuff
}

// Has indicates whether there's an entry of the key.
func (s *Storage) Has(key string) bool {
	_, found := s.Get(key)
	return found
}

// Iter returns an iterator over the pairs in insertion order.
func (s *Storage) Iter() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, pair := range s.pairs {
			if !yield(pair.Key, pair.Value) {
				break
			}
		}
	}
}

func (s *Storage) Len() int {
	return len(s.pairs)
}

// Clear retains the underlying storage for reuse.
func (s *Storage) Clear() *Storage {
	s.pairs = s.pairs[:0]
	return s
}
