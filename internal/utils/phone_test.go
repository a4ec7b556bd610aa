package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		wantErr  bool
	}{
		{"+7 (916) 123-45-67", "+79161234567", false},
		{"89161234567", "+79161234567", false},
		{"79161234567", "+79161234567", false},
		{"8 (912) 345-67-89", "+79123456789", false},
		{"912 345-67-89", "+79123456789", false},
		{"+7 (912) 345-67-89 доб. 1", "+79123456789", false},
		{"+1 650-253-0000", "+16502530000", false},
		{"12345", "", true},
		{"not a phone", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizePhone(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
