package window_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Norgate-AV/wintrack/internal/window"
)

func TestParseHandle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    window.Handle
		wantErr bool
	}{
		{name: "decimal", input: "131090", want: 131090},
		{name: "hex", input: "0x20012", want: 0x20012},
		{name: "upper hex", input: "0X1F", want: 0x1F},
		{name: "zero", input: "0", wantErr: true},
		{name: "garbage", input: "hwnd", wantErr: true},
		{name: "negative", input: "-5", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := window.ParseHandle(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHandle_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0x20012", window.Handle(0x20012).String())
}

func TestRectFromEdges(t *testing.T) {
	t.Parallel()

	r := window.RectFromEdges(10, 20, 110, 70)
	assert.Equal(t, window.Rect{X: 10, Y: 20, Width: 100, Height: 50}, r)
	assert.Equal(t, 5000, r.Area())
}

func TestRect_AreaDegenerate(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, window.Rect{Width: -10, Height: 5}.Area())
	assert.Equal(t, 0, window.Rect{Width: 10}.Area())
}
