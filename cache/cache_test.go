package cache

import (
	"strings"
	"testing"
)

// TestCacheKey_Validation tests key validation rules.
func TestCacheKey_Validation(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{"empty key", "", ErrInvalidKey},
		{"valid key", "networks::abc123", nil},
		{"too long", strings.Repeat("x", MaxKeyLength+1), ErrKeyTooLong},
		{"contains newline", "key\nwith\nnewlines", ErrInvalidKey},
		{"contains carriage return", "key\rwith\rreturns", ErrInvalidKey},
		{"whitespace only", "   ", ErrInvalidKey},
		{"max length exactly", strings.Repeat("x", MaxKeyLength), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateKey(tt.key)
			if err != tt.wantErr {
				t.Errorf("ValidateKey(%q) = %v, want %v", tt.key, err, tt.wantErr)
			}
		})
	}
}

func TestPolicy_EffectiveTTL(t *testing.T) {
	if got := (Policy{}).EffectiveTTL(); got != DefaultTTL {
		t.Errorf("zero policy EffectiveTTL = %v, want %v", got, DefaultTTL)
	}
	p := Policy{TTL: 42}
	if got := p.EffectiveTTL(); got != 42 {
		t.Errorf("EffectiveTTL = %v, want 42", got)
	}
}
