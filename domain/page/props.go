package page

import (
	"sort"
)

// Props maps prop names to their (eager or lazy) values.
// It represents everything a page component needs to render.
type Props map[string]Value

// Keys returns the prop names in sorted order
func (p Props) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Merge returns a copy of p with the entries of other layered on top.
// Keys in other win on collision. Neither input is modified.
func (p Props) Merge(other Props) Props {
	merged := make(Props, len(p)+len(other))
	for k, v := range p {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}

// Filter is a set of requested prop names carried by a partial visit.
// A nil *Filter means "no restriction" (a full visit); that is distinct
// from an empty filter, which requests no lazy props at all.
type Filter struct {
	keys map[string]struct{}
}

// NewFilter builds a filter from the requested prop names
func NewFilter(keys []string) *Filter {
	f := &Filter{keys: make(map[string]struct{}, len(keys))}
	for _, k := range keys {
		if k == "" {
			continue
		}
		f.keys[k] = struct{}{}
	}
	return f
}

// Contains reports whether the key was requested
func (f *Filter) Contains(key string) bool {
	if f == nil {
		return false
	}
	_, ok := f.keys[key]
	return ok
}

// Len returns the number of requested keys
func (f *Filter) Len() int {
	if f == nil {
		return 0
	}
	return len(f.keys)
}

// Keys returns the requested prop names in sorted order
func (f *Filter) Keys() []string {
	if f == nil {
		return nil
	}
	keys := make([]string, 0, len(f.keys))
	for k := range f.keys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
