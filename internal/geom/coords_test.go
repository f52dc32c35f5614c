package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToAbsolute(t *testing.T) {
	tests := []struct {
		name       string
		p          Percent
		pageW      float64
		pageH      float64
		wantX      float64
		wantY      float64
	}{
		{
			name:  "center_of_200x400_page",
			p:     Percent{X: 50, Y: 50},
			pageW: 200,
			pageH: 400,
			wantX: 100,
			wantY: 200,
		},
		{
			name:  "top_left_maps_to_bottom_origin_flip",
			p:     Percent{X: 0, Y: 0},
			pageW: 612,
			pageH: 792,
			wantX: 0,
			wantY: 792,
		},
		{
			name:  "bottom_right",
			p:     Percent{X: 100, Y: 100},
			pageW: 612,
			pageH: 792,
			wantX: 612,
			wantY: 0,
		},
		{
			name:  "quarter_position",
			p:     Percent{X: 25, Y: 75},
			pageW: 400,
			pageH: 800,
			wantX: 100,
			wantY: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ToAbsolute(tt.p, tt.pageW, tt.pageH)
			assert.InDelta(t, tt.wantX, a.X, 1e-9)
			assert.InDelta(t, tt.wantY, a.Y, 1e-9)
		})
	}
}

func TestToPercent_RoundTrip(t *testing.T) {
	pageW, pageH := 612.0, 792.0
	for _, p := range []Percent{
		{X: 0, Y: 0},
		{X: 100, Y: 100},
		{X: 33.333, Y: 66.667},
		{X: 99.99, Y: 0.01},
		{X: 50, Y: 50},
	} {
		got := ToPercent(ToAbsolute(p, pageW, pageH), pageW, pageH)
		assert.InDelta(t, p.X, got.X, 1e-9)
		assert.InDelta(t, p.Y, got.Y, 1e-9)
	}
}

func TestToPercent_ZeroDimensions(t *testing.T) {
	got := ToPercent(Absolute{X: 10, Y: 10}, 0, 0)
	assert.Equal(t, Percent{}, got)
}

func TestClamp(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{name: "below_range", in: -12.5, want: 0},
		{name: "above_range", in: 140.2, want: 100},
		{name: "lower_bound", in: 0, want: 0},
		{name: "upper_bound", in: 100, want: 100},
		{name: "inside_range", in: 42.75, want: 42.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clamp(tt.in))
		})
	}
}

func TestClampPercent(t *testing.T) {
	got := ClampPercent(Percent{X: -5, Y: 103})
	assert.Equal(t, Percent{X: 0, Y: 100}, got)
}

func TestResolveDraw(t *testing.T) {
	tests := []struct {
		name  string
		p     Percent
		wantX float64
		wantY float64
	}{
		{
			name:  "percent_values_converted_and_flipped",
			p:     Percent{X: 50, Y: 50},
			wantX: 100,
			wantY: 200,
		},
		{
			name:  "legacy_absolute_values_passed_through",
			p:     Percent{X: 150, Y: 320},
			wantX: 150,
			wantY: 320,
		},
		{
			name:  "mixed_axis_units",
			p:     Percent{X: 150, Y: 25},
			wantX: 150,
			wantY: 300,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := ResolveDraw(tt.p, 200, 400)
			assert.InDelta(t, tt.wantX, a.X, 1e-9)
			assert.InDelta(t, tt.wantY, a.Y, 1e-9)
		})
	}
}

func TestScreenOffset(t *testing.T) {
	x, y := ScreenOffset(Percent{X: 25, Y: 50}, 918, 1188)
	assert.InDelta(t, 229.5, x, 1e-9)
	assert.InDelta(t, 594, y, 1e-9)
}
