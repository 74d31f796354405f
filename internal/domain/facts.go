package domain

import (
	"slices"
	"sort"
	"strings"
)

// FactValue is either a scalar string or a deduplicated set of strings.
type FactValue struct {
	Scalar string
	Set    []string
	Listy  bool
}

func ScalarFact(value string) FactValue {
	return FactValue{Scalar: strings.TrimSpace(value)}
}

func SetFact(values ...string) FactValue {
	return FactValue{Set: unionStrings(nil, values), Listy: true}
}

func (v FactValue) Empty() bool {
	if v.Listy {
		return len(v.Set) == 0
	}
	return v.Scalar == ""
}

func (v FactValue) Values() []string {
	if v.Listy {
		return slices.Clone(v.Set)
	}
	if v.Scalar == "" {
		return nil
	}
	return []string{v.Scalar}
}

func (v FactValue) String() string {
	if v.Listy {
		return strings.Join(v.Set, ", ")
	}
	return v.Scalar
}

type FactStore map[string]FactValue

// FactPolicy decides which keys accumulate and which are discarded.
type FactPolicy struct {
	ListKeys    []string
	IgnoredKeys []string
}

func DefaultFactPolicy() FactPolicy {
	return FactPolicy{
		ListKeys:    []string{"personality_traits", "interests"},
		IgnoredKeys: []string{"dragon_opinion"},
	}
}

func (p FactPolicy) IsListKey(key string) bool {
	return slices.Contains(p.ListKeys, key)
}

func (p FactPolicy) IsIgnored(key string) bool {
	return slices.Contains(p.IgnoredKeys, key)
}

// Merge folds an extraction into a copy of the store. Listy keys are unioned,
// scalar keys are replaced by the newest value.
func (s FactStore) Merge(delta map[string]FactValue, policy FactPolicy) FactStore {
	merged := s.Clone()

	for rawKey, value := range delta {
		key := strings.TrimSpace(rawKey)
		if key == "" || policy.IsIgnored(key) || value.Empty() {
			continue
		}

		if policy.IsListKey(key) {
			existing := merged[key]
			merged[key] = FactValue{
				Set:   unionStrings(existing.Values(), value.Values()),
				Listy: true,
			}
			continue
		}

		merged[key] = ScalarFact(strings.Join(value.Values(), ", "))
	}

	return merged
}

func (s FactStore) Clone() FactStore {
	out := make(FactStore, len(s))
	for key, value := range s {
		out[key] = FactValue{Scalar: value.Scalar, Set: slices.Clone(value.Set), Listy: value.Listy}
	}
	return out
}

// Keys lists keys that hold data, sorted.
func (s FactStore) Keys() []string {
	keys := make([]string, 0, len(s))
	for key, value := range s {
		if value.Empty() {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (s FactStore) Known() bool {
	return len(s.Keys()) > 0
}

func unionStrings(existing []string, incoming []string) []string {
	out := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))

	for _, group := range [][]string{existing, incoming} {
		for _, value := range group {
			trimmed := strings.TrimSpace(value)
			if trimmed == "" {
				continue
			}
			if _, ok := seen[trimmed]; ok {
				continue
			}
			seen[trimmed] = struct{}{}
			out = append(out, trimmed)
		}
	}

	return out
}
