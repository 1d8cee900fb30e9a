//go:build amd64 || arm64

package conv

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntToUint32(t *testing.T) {
	tests := []struct {
		name    string
		in      int
		want    uint32
		wantErr bool
	}{
		{name: "zero", in: 0, want: 0},
		{name: "row position", in: 123, want: 123},
		{name: "max uint32", in: math.MaxUint32, want: math.MaxUint32},
		{name: "negative", in: -1, wantErr: true},
		{name: "too large", in: math.MaxUint32 + 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := IntToUint32(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrOverflow)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUint32ToInt(t *testing.T) {
	for _, in := range []uint32{0, 1, math.MaxUint32} {
		got, err := Uint32ToInt(in)
		require.NoError(t, err)
		assert.Equal(t, int(in), got)
	}
}
