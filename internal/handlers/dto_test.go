package handlers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		name    string
		raw     interface{}
		def     int
		want    int
		wantErr bool
	}{
		{name: "number", raw: float64(3), def: 1, want: 3},
		{name: "numeric string", raw: " 4 ", def: 1, want: 4},
		{name: "missing uses default", raw: nil, def: 1, want: 1},
		{name: "missing without default", raw: nil, def: 0, wantErr: true},
		{name: "fraction", raw: 1.5, def: 1, wantErr: true},
		{name: "word", raw: "two", def: 1, wantErr: true},
		{name: "bool", raw: true, def: 1, wantErr: true},
		{name: "negative passes through", raw: float64(-2), def: 1, want: -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseQuantity(tt.raw, tt.def)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
