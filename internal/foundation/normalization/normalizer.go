// Package normalization provides type-safe string-to-enum conversion shared
// by configuration and CLI flag handling.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer maps free-form user input onto a typed enum value.
type Normalizer[T comparable] struct {
	validValues  map[string]T
	defaultValue T
	validKeys    []string // cached for error messages
}

// NewNormalizer creates a normalizer from valid string->value pairs. Keys are
// canonicalized (trimmed, lowercased) on construction.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	validKeys := make([]string, 0, len(values))
	for k, v := range values {
		key := canonical(k)
		normalized[key] = v
		validKeys = append(validKeys, key)
	}
	sort.Strings(validKeys)

	return &Normalizer[T]{
		validValues:  normalized,
		defaultValue: defaultValue,
		validKeys:    validKeys,
	}
}

// Normalize converts raw input to the enum type, returning the default value
// when the input is not recognized.
func (n *Normalizer[T]) Normalize(raw string) T {
	if value, exists := n.validValues[canonical(raw)]; exists {
		return value
	}
	return n.defaultValue
}

// NormalizeWithError converts raw input to the enum type, returning an error
// naming the valid options when the input is not recognized.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if value, exists := n.validValues[canonical(raw)]; exists {
		return value, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %v", raw, n.validKeys)
}

// ValidKeys returns all valid normalized keys.
func (n *Normalizer[T]) ValidKeys() []string {
	result := make([]string, len(n.validKeys))
	copy(result, n.validKeys)
	return result
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
