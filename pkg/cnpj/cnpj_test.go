package cnpj

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"known valid plain", "11222333000181", true},
		{"known valid masked", "11.222.333/0001-81", true},
		{"valid bank of brazil", "00000000000191", true},
		{"bad first check digit", "11222333000171", false},
		{"bad second check digit", "11222333000182", false},
		{"all zeros rejected", "00000000000000", false},
		{"all repeated digit rejected", "11111111111111", false},
		{"too short", "1122233300018", false},
		{"too long", "112223330001811", false},
		{"empty", "", false},
		{"letters only", "abcdefghijklmn", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Valid(tt.input))
		})
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "11222333000181", Normalize("11.222.333/0001-81"))
	assert.Equal(t, "", Normalize("--//.."))
}
