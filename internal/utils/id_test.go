package utils

import (
	"strings"
	"testing"
)

func TestGenerateIDHasFixedLengthAndPrefix(t *testing.T) {
	testCases := []struct {
		name   string
		prefix string
	}{
		{name: "event prefix", prefix: "evt_"},
		{name: "item prefix", prefix: "item_"},
		{name: "no prefix", prefix: ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			id := GenerateID(testCase.prefix)
			if len(id) != 21 {
				t.Fatalf("expected id length 21, got %d (%q)", len(id), id)
			}
			if !strings.HasPrefix(id, testCase.prefix) {
				t.Fatalf("expected id with prefix %q, got %q", testCase.prefix, id)
			}
			for _, r := range id[len(testCase.prefix):] {
				if !strings.ContainsRune(idAlphabet, r) {
					t.Fatalf("expected id runes from the base58 alphabet, got %q in %q", r, id)
				}
			}
		})
	}
}

func TestGenerateIDDoesNotRepeat(t *testing.T) {
	seen := map[string]bool{}
	for range 1000 {
		id := GenerateID("evt_")
		if seen[id] {
			t.Fatalf("expected unique ids, got repeated %q", id)
		}
		seen[id] = true
	}
}
