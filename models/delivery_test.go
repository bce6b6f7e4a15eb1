package models

import (
	"strings"
	"testing"
)

func TestNewWithdrawalCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := newWithdrawalCode()
		if err != nil {
			t.Fatalf("newWithdrawalCode: %v", err)
		}
		if len(code) != withdrawalCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), withdrawalCodeLength)
		}
		for _, c := range code {
			if !strings.ContainsRune(withdrawalCodeAlphabet, c) {
				t.Fatalf("code %q contains %q, outside the allowed alphabet", code, c)
			}
		}
		seen[code] = true
	}
	if len(seen) < 2 {
		t.Fatalf("20 generated codes were all identical: %v", seen)
	}
}
