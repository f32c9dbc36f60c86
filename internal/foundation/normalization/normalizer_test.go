package normalization

import (
	"strings"
	"testing"
)

type backoff string

const (
	backoffFixed       backoff = "fixed"
	backoffExponential backoff = "exponential"
)

func newTestNormalizer() *Normalizer[backoff] {
	return NewNormalizer(map[string]backoff{
		"fixed":       backoffFixed,
		"exponential": backoffExponential,
	}, backoffFixed)
}

func TestNormalize(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name     string
		input    string
		expected backoff
	}{
		{"exact match", "fixed", backoffFixed},
		{"case insensitive", "EXPONENTIAL", backoffExponential},
		{"with spaces", "  exponential  ", backoffExponential},
		{"invalid falls back to default", "cubic", backoffFixed},
		{"empty falls back to default", "", backoffFixed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := n.Normalize(tt.input); got != tt.expected {
				t.Errorf("Normalize(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNormalizeWithError(t *testing.T) {
	n := newTestNormalizer()

	if got, err := n.NormalizeWithError("Fixed"); err != nil || got != backoffFixed {
		t.Fatalf("NormalizeWithError(Fixed) = %v, %v", got, err)
	}

	_, err := n.NormalizeWithError("cubic")
	if err == nil {
		t.Fatal("expected error for unknown value")
	}
	if !strings.Contains(err.Error(), "exponential") {
		t.Errorf("error should name valid options, got: %v", err)
	}
}

func TestValidKeysIsCopy(t *testing.T) {
	n := newTestNormalizer()
	keys := n.ValidKeys()
	if len(keys) != 2 || keys[0] != "exponential" || keys[1] != "fixed" {
		t.Fatalf("unexpected keys: %v", keys)
	}
	keys[0] = "mutated"
	if n.ValidKeys()[0] != "exponential" {
		t.Error("ValidKeys must return a copy")
	}
}
