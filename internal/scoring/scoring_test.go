package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDropPoints(t *testing.T) {
	tests := []struct {
		name       string
		totalValue int64
		want       int64
	}{
		{"below granularity", 99_999, 0},
		{"exactly one point", 100_000, 1},
		{"truncates remainder", 199_999, 1},
		{"two units of 250k", 500_000, 5},
		{"zero value", 0, 0},
		{"large stack", 2_147_500_000, 21_475},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DropPoints(tt.totalValue))
		})
	}
}

func TestDropTotalValue(t *testing.T) {
	// value=250,000 quantity=2 -> total=500,000 -> 5 points
	total := DropTotalValue(250_000, 2)
	assert.Equal(t, int64(500_000), total)
	assert.Equal(t, int64(5), DropPoints(total))
}

func TestCollectionPointsTierBoundaries(t *testing.T) {
	// Mega-rare tier at the 5% boundary: round(100 * (1/5)^1.5 * 30)
	expect5 := int64(math.Round(100.0 * math.Pow(1.0/5.0, 1.5) * 30.0))
	assert.Equal(t, expect5, CollectionPoints(5.0))
	assert.Equal(t, int64(268), CollectionPoints(5.0))

	// Linear tier endpoints
	assert.Equal(t, int64(200), CollectionPoints(20.0))
	// Just inside the linear tier, slightly above the mega-rare formula value
	assert.Equal(t, int64(500), CollectionPoints(5.0000001))

	// Common tier
	assert.Equal(t, int64(85), CollectionPoints(30.0))
	assert.Equal(t, int64(50), CollectionPoints(100.0))
}

func TestCollectionPointsMegaRareGrowth(t *testing.T) {
	// Points must rise steeply as the rate approaches zero
	p1 := CollectionPoints(1.0)
	p05 := CollectionPoints(0.5)
	p02 := CollectionPoints(0.2)

	assert.Equal(t, int64(3000), p1) // 100 * 1^1.5... = 100*1*30
	assert.Greater(t, p05, p1)
	assert.Greater(t, p02, p05)
	assert.Equal(t, int64(math.Round(100.0*math.Pow(2.0, 1.5)*30.0)), p05)
}

func TestCollectionPointsRoundsHalfAwayFromZero(t *testing.T) {
	// rate=17: 200 + (3/15)*300 = 260 exactly
	assert.Equal(t, int64(260), CollectionPoints(17.0))
	// rate=99: 100 - 49.5 = 50.5 -> rounds away from zero to 51
	assert.Equal(t, int64(51), CollectionPoints(99.0))
}
