package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	assert.Equal(t, "0", Number(0))
	assert.Equal(t, "999", Number(999))
	assert.Equal(t, "1,000", Number(1000))
	assert.Equal(t, "1,234,567", Number(1234567))
	assert.Equal(t, "-5,000", Number(-5000))
}

func TestGP(t *testing.T) {
	assert.Equal(t, "250,000 gp", GP(250000))
}

func TestPoints(t *testing.T) {
	assert.Equal(t, "42 points", Points(42))
}
