package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetpoints_Clamp(t *testing.T) {
	tests := []struct {
		name        string
		in          Setpoints
		want        Setpoints
		wantChanged bool
	}{
		{"in range", Setpoints{72, 22}, Setpoints{72, 22}, false},
		{"bounds inclusive", Setpoints{60, 30}, Setpoints{60, 30}, false},
		{"too cold", Setpoints{10, 5}, Setpoints{60, 18}, true},
		{"too hot", Setpoints{120, 45}, Setpoints{95, 30}, true},
		{"one side only", Setpoints{72, 40}, Setpoints{72, 30}, true},
		{"NaN", Setpoints{math.NaN(), 22}, Setpoints{60, 22}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, changed := tc.in.Clamp()
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.wantChanged, changed)
		})
	}
}

func TestDefaultSetpoints_IsButtermilkRecipe(t *testing.T) {
	assert.Equal(t, Setpoints{Pasteurization: 72, Fermentation: 22}, DefaultSetpoints())
}
