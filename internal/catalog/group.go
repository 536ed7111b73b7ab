package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Snapshot is content grouped under string keys (dates or categories).
// Keys holds each key once in display order; Groups keeps items in first-seen order.
// A snapshot is never mutated after it is built, so it can be shared across sessions.
type Snapshot[T any] struct {
	Keys   []string
	Groups map[string][]T
}

// Len reports the number of groups.
func (s Snapshot[T]) Len() int { return len(s.Keys) }

// Lookup returns the items under key.
func (s Snapshot[T]) Lookup(key string) ([]T, bool) {
	items, ok := s.Groups[key]
	return items, ok
}

// KeyOf returns the first key whose group holds an item matching pred.
func (s Snapshot[T]) KeyOf(pred func(T) bool) (string, bool) {
	for _, k := range s.Keys {
		for _, it := range s.Groups[k] {
			if pred(it) {
				return k, true
			}
		}
	}
	return "", false
}

// Sorted returns a copy whose keys are in ascending lexicographic order.
func (s Snapshot[T]) Sorted() Snapshot[T] {
	keys := append([]string(nil), s.Keys...)
	sort.Strings(keys)
	return Snapshot[T]{Keys: keys, Groups: s.Groups}
}

// UnmarshalJSON decodes a JSON object of key -> array while keeping the document key order.
// Repeated keys are merged.
func (s *Snapshot[T]) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("catalog: expected object, got %v", tok)
	}
	out := Snapshot[T]{Groups: make(map[string][]T)}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("catalog: expected key, got %v", keyTok)
		}
		var items []T
		if err := dec.Decode(&items); err != nil {
			return fmt.Errorf("catalog: group %q: %w", key, err)
		}
		if _, seen := out.Groups[key]; !seen {
			out.Keys = append(out.Keys, key)
		}
		out.Groups[key] = append(out.Groups[key], items...)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*s = out
	return nil
}

// Group buckets items by key, preserving first-seen order inside each group,
// and sorts the keys ascending.
func Group[T any](items []T, key func(T) string) Snapshot[T] {
	out := Snapshot[T]{Groups: make(map[string][]T)}
	for _, it := range items {
		k := key(it)
		if _, seen := out.Groups[k]; !seen {
			out.Keys = append(out.Keys, k)
		}
		out.Groups[k] = append(out.Groups[k], it)
	}
	sort.Strings(out.Keys)
	return out
}

// GroupTours groups tours by date.
func GroupTours(tours []Tour) Snapshot[Tour] {
	return Group(tours, func(t Tour) string { return t.Date })
}

// GroupEvents orders an events catalog by date.
func GroupEvents(events Snapshot[Event]) Snapshot[Event] {
	return events.Sorted()
}
