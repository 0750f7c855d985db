// Package scoring holds the pure point formulas for the loot ledger.
package scoring

import "math"

// GPPerPoint is the drop currency granularity: 1 point per 100,000 gp.
const GPPerPoint = 100_000

// Collection curve tier boundaries (completion rate percentages).
const (
	megaRareRateCutoff = 5.0
	rareRateCutoff     = 20.0
)

// DropPoints converts a total drop value in gp to points, truncating
// toward zero.
func DropPoints(totalValue int64) int64 {
	return totalValue / GPPerPoint
}

// DropTotalValue is the recorded value of a drop: unit price times quantity.
func DropTotalValue(unitValue, quantity int64) int64 {
	return unitValue * quantity
}

// CollectionPoints maps a collection log completion rate (percentage,
// 0 < rate <= 100) to points on a three-tier curve:
//
//	rate <= 5:  100 * (1/rate)^1.5 * 30   (mega-rares, steep as rate -> 0)
//	5 < rate <= 20: linear from 500 at 5% down to 200 at 20%
//	rate > 20:  100 - rate*0.5
//
// The result is rounded half-away-from-zero. No floor is applied: rates
// are percentages, so the common tier bottoms out at 50 points for
// rate=100 and can never go negative.
func CollectionPoints(rate float64) int64 {
	var points float64
	switch {
	case rate <= megaRareRateCutoff:
		points = 100.0 * math.Pow(1.0/rate, 1.5) * 30.0
	case rate <= rareRateCutoff:
		progress := (rareRateCutoff - rate) / (rareRateCutoff - megaRareRateCutoff)
		points = 200.0 + progress*300.0
	default:
		points = 100.0 - rate*0.5
	}
	return int64(math.Round(points))
}
