package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniqueFeatures(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{name: "nil", in: nil, want: []string{}},
		{name: "no duplicates", in: []string{"fluffy", "black"}, want: []string{"fluffy", "black"}},
		{name: "duplicates keep first order", in: []string{"black", "fluffy", "black"}, want: []string{"black", "fluffy"}},
		{name: "empty values dropped", in: []string{"", "fluffy", ""}, want: []string{"fluffy"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UniqueFeatures(tt.in))
		})
	}
}
