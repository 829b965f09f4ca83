/*
Package iterset implements an iteratable container data structure: Set, a
special-purpose ordered set. In this toolkit it holds the packed families of
each SPPF node (package sppf); Earley columns keep their own ordered slice
and do not use it.

Set preserves insertion order while deduplicating by a structural hash of
each inserted item. Iteration is resumable: IterateOnce resets the cursor, and
Next may be called again after the set has grown, picking up where the
previous pass left off relative to the set's current length.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package iterset

import (
	"sort"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
)

// Set is an ordered, hash-deduplicated, iteratable set.
type Set struct {
	items   *arraylist.List
	seen    map[string]bool
	iterPos int
}

// NewSet returns an empty set, optionally pre-sizing its internal dedup map.
func NewSet(capacityHint int) *Set {
	if capacityHint < 0 {
		capacityHint = 0
	}
	return &Set{
		items: arraylist.New(),
		seen:  make(map[string]bool, capacityHint),
	}
}

func hashOf(item interface{}) string {
	h, err := structhash.Hash(item, 1)
	if err != nil {
		panic(err)
	}
	return h
}

// Add appends item to the set's ordered list unless an equal-by-structure
// item is already present. Returns the set, for chaining.
func (s *Set) Add(item interface{}) *Set {
	h := hashOf(item)
	if s.seen[h] {
		return s
	}
	s.seen[h] = true
	s.items.Add(item)
	return s
}

// Len returns the number of elements currently in the set.
func (s *Set) Len() int {
	return s.items.Size()
}

// IsEmpty reports whether the set has no elements.
func (s *Set) IsEmpty() bool {
	return s.items.Empty()
}

// IterateOnce resets the iteration cursor to the start of the set.
func (s *Set) IterateOnce() {
	s.iterPos = -1
}

// Next advances the cursor and reports whether an item is available. It may
// be called repeatedly even as the set grows between calls; after it has
// reported false, a call made once the set has grown yields the first newly
// added element.
func (s *Set) Next() bool {
	if s.iterPos+1 < s.items.Size() {
		s.iterPos++
		return true
	}
	return false
}

// Item returns the element at the current cursor position.
func (s *Set) Item() interface{} {
	v, _ := s.items.Get(s.iterPos)
	return v
}

// Copy returns a new Set holding the same elements, in the same order.
func (s *Set) Copy() *Set {
	ns := NewSet(s.items.Size())
	s.items.Each(func(_ int, v interface{}) {
		ns.Add(v)
	})
	return ns
}

// Subset returns a new Set holding only the elements for which predicate
// returns true, preserving order.
func (s *Set) Subset(predicate func(interface{}) bool) *Set {
	ns := NewSet(0)
	s.items.Each(func(_ int, v interface{}) {
		if predicate(v) {
			ns.Add(v)
		}
	})
	return ns
}

// Each calls mapper for every element, in order.
func (s *Set) Each(mapper func(interface{})) {
	s.items.Each(func(_ int, v interface{}) {
		mapper(v)
	})
}

// FirstMatch returns the first element for which predicate returns true, or
// nil if none match.
func (s *Set) FirstMatch(predicate func(interface{}) bool) interface{} {
	for _, v := range s.items.Values() {
		if predicate(v) {
			return v
		}
	}
	return nil
}

// Union returns a new Set holding every element of s followed by every
// element of other not already present.
func (s *Set) Union(other *Set) *Set {
	ns := s.Copy()
	other.Each(func(v interface{}) {
		ns.Add(v)
	})
	return ns
}

// Values returns the set's elements as a plain slice, in order.
func (s *Set) Values() []interface{} {
	return s.items.Values()
}

// Sort reorders the set's elements in place according to less.
func (s *Set) Sort(less func(a, b interface{}) bool) {
	values := s.items.Values()
	sort.SliceStable(values, func(i, j int) bool {
		return less(values[i], values[j])
	})
	s.items.Clear()
	for _, v := range values {
		s.items.Add(v)
	}
}
