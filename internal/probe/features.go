package probe

import (
	"encoding/json"
	"slices"
	"strings"
)

// FeatureSet is an immutable, sorted set of available feature names.
type FeatureSet struct {
	names []string
}

// NewFeatureSet returns a set holding names. Duplicates and empty names are dropped.
func NewFeatureSet(names ...string) FeatureSet {
	return FeatureSet{}.With(names...)
}

// With returns a new set that also contains names.
func (s FeatureSet) With(names ...string) FeatureSet {
	out := slices.Clone(s.names)
	for _, n := range names {
		if n == "" {
			continue
		}
		if i, found := slices.BinarySearch(out, n); !found {
			out = slices.Insert(out, i, n)
		}
	}
	return FeatureSet{names: out}
}

// Has reports whether name is available.
func (s FeatureSet) Has(name string) bool {
	_, found := slices.BinarySearch(s.names, name)
	return found
}

// List returns the feature names in sorted order.
func (s FeatureSet) List() []string {
	if s.names == nil {
		return []string{}
	}
	return slices.Clone(s.names)
}

// Len returns the number of features.
func (s FeatureSet) Len() int {
	return len(s.names)
}

func (s FeatureSet) String() string {
	return strings.Join(s.names, " ")
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s FeatureSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.List())
}

// StaticFeatures returns the features known without probing: "clang" when
// the host C compiler is a clang, "sarif" when SARIF diagnostics are enabled.
func StaticFeatures(hostCC string, sarif bool) []string {
	var out []string
	if strings.Contains(hostCC, "clang") {
		out = append(out, "clang")
	}
	if sarif {
		out = append(out, "sarif")
	}
	return out
}
