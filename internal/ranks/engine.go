// Package ranks decides which rank thresholds a points change crossed.
package ranks

import "github.com/kittyscape/lootbot/internal/domain"

// Evaluate compares a balance before and after a mutation against the
// threshold table and returns the thresholds crossed plus the next
// unattained one.
//
// thresholds must be sorted ascending by points with no duplicate
// cutoffs (the repository returns them that way).
//
// On a gain, crossed holds every threshold t with old < t.points <= new
// in ascending order. On a loss, every t with new < t.points <= old in
// descending order (highest rank lost first). Equal points cross
// nothing. next is the smallest threshold strictly above newPoints, or
// nil once the top rank is held.
func Evaluate(oldPoints, newPoints int64, thresholds []domain.RankThreshold) (crossed []domain.RankThreshold, next *domain.RankThreshold) {
	switch {
	case newPoints > oldPoints:
		for _, t := range thresholds {
			if t.Points > oldPoints && t.Points <= newPoints {
				crossed = append(crossed, t)
			}
		}
	case newPoints < oldPoints:
		for i := len(thresholds) - 1; i >= 0; i-- {
			t := thresholds[i]
			if t.Points > newPoints && t.Points <= oldPoints {
				crossed = append(crossed, t)
			}
		}
	}

	for _, t := range thresholds {
		if t.Points > newPoints {
			next = &domain.RankThreshold{Points: t.Points, RoleName: t.RoleName}
			break
		}
	}

	return crossed, next
}

// Current returns the role name of the highest threshold at or below
// points, or "" when points is below every cutoff.
func Current(points int64, thresholds []domain.RankThreshold) string {
	current := ""
	for _, t := range thresholds {
		if t.Points <= points {
			current = t.RoleName
		}
	}
	return current
}
