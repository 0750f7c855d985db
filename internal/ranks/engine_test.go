package ranks

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kittyscape/lootbot/internal/domain"
)

var testThresholds = []domain.RankThreshold{
	{Points: 100, RoleName: "Bronze"},
	{Points: 150, RoleName: "Silver"},
	{Points: 300, RoleName: "Gold"},
}

func TestEvaluateSingleGain(t *testing.T) {
	crossed, next := Evaluate(80, 120, testThresholds)

	require.Len(t, crossed, 1)
	assert.Equal(t, "Bronze", crossed[0].RoleName)
	require.NotNil(t, next)
	assert.Equal(t, int64(150), next.Points)
	assert.Equal(t, "Silver", next.RoleName)
}

func TestEvaluateMultiGainAscending(t *testing.T) {
	crossed, next := Evaluate(0, 400, testThresholds)

	require.Len(t, crossed, 3)
	assert.Equal(t, "Bronze", crossed[0].RoleName)
	assert.Equal(t, "Silver", crossed[1].RoleName)
	assert.Equal(t, "Gold", crossed[2].RoleName)
	assert.Nil(t, next, "top rank reached, no next threshold")
}

func TestEvaluateLossDescending(t *testing.T) {
	crossed, next := Evaluate(400, 120, testThresholds)

	require.Len(t, crossed, 2)
	assert.Equal(t, "Gold", crossed[0].RoleName, "highest rank lost first")
	assert.Equal(t, "Silver", crossed[1].RoleName)
	require.NotNil(t, next)
	assert.Equal(t, "Silver", next.RoleName)
}

func TestEvaluateNoChange(t *testing.T) {
	crossed, next := Evaluate(120, 120, testThresholds)

	assert.Empty(t, crossed)
	require.NotNil(t, next)
	assert.Equal(t, "Silver", next.RoleName)
}

func TestEvaluateBoundaryInclusive(t *testing.T) {
	// Landing exactly on a cutoff earns it
	crossed, _ := Evaluate(99, 100, testThresholds)
	require.Len(t, crossed, 1)
	assert.Equal(t, "Bronze", crossed[0].RoleName)

	// Dropping off a cutoff loses it
	crossed, _ = Evaluate(100, 99, testThresholds)
	require.Len(t, crossed, 1)
	assert.Equal(t, "Bronze", crossed[0].RoleName)
}

func TestEvaluateIdempotentReplay(t *testing.T) {
	// Re-evaluating the same transition never re-reports held thresholds
	first, _ := Evaluate(80, 120, testThresholds)
	second, _ := Evaluate(120, 120, testThresholds)

	assert.Len(t, first, 1)
	assert.Empty(t, second)
}

func TestEvaluateSymmetricRemoval(t *testing.T) {
	// A gain that crossed a threshold produces a symmetric loss when
	// the event is removed.
	up, _ := Evaluate(95, 103, testThresholds)
	down, _ := Evaluate(103, 95, testThresholds)

	require.Len(t, up, 1)
	require.Len(t, down, 1)
	assert.Equal(t, up[0], down[0])
}

func TestEvaluateContiguousSlices(t *testing.T) {
	// Crossed sets for adjacent transitions never overlap
	a, _ := Evaluate(0, 120, testThresholds)
	b, _ := Evaluate(120, 400, testThresholds)

	seen := map[string]bool{}
	for _, t := range a {
		seen[t.RoleName] = true
	}
	for _, th := range b {
		assert.False(t, seen[th.RoleName], "threshold %s reported twice", th.RoleName)
	}
	assert.Len(t, append(a, b...), 3)
}

func TestEvaluateEmptyThresholds(t *testing.T) {
	crossed, next := Evaluate(0, 1000, nil)
	assert.Empty(t, crossed)
	assert.Nil(t, next)
}

func TestCurrent(t *testing.T) {
	assert.Equal(t, "", Current(50, testThresholds))
	assert.Equal(t, "Bronze", Current(100, testThresholds))
	assert.Equal(t, "Silver", Current(299, testThresholds))
	assert.Equal(t, "Gold", Current(10_000, testThresholds))
}
