package ml

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	s := ConfusionMatrix{TP: 40, TN: 30, FP: 20, FN: 10}.Stats()

	assert.InDelta(t, 50, s.P, 1e-12)
	assert.InDelta(t, 50, s.N, 1e-12)

	assert.InDelta(t, 0.8, s.TPR, 1e-12)
	assert.InDelta(t, 0.6, s.TNR, 1e-12)
	assert.InDelta(t, 0.4, s.FPR, 1e-12)
	assert.InDelta(t, 0.2, s.FNR, 1e-12)

	assert.InDelta(t, 2.0/3.0, s.PPV, 1e-12)
	assert.InDelta(t, 0.75, s.NPV, 1e-12)
	assert.InDelta(t, 1.0/3.0, s.FDR, 1e-12)
	assert.InDelta(t, 0.25, s.FOR, 1e-12)

	assert.InDelta(t, 0.7, s.Acc, 1e-12)
	assert.InDelta(t, 80.0/110.0, s.F1, 1e-12)
}

func TestStatsComplementaryRates(t *testing.T) {
	s := ConfusionMatrix{TP: 13, TN: 77, FP: 5, FN: 3}.Stats()

	assert.InDelta(t, 1, s.TPR+s.FNR, 1e-12)
	assert.InDelta(t, 1, s.TNR+s.FPR, 1e-12)
	assert.InDelta(t, 1, s.PPV+s.FDR, 1e-12)
	assert.InDelta(t, 1, s.NPV+s.FOR, 1e-12)
}

func TestStatsFractions(t *testing.T) {
	// Fractions behave the same as counts.
	c := ConfusionMatrix{TP: 0.4, TN: 0.3, FP: 0.2, FN: 0.1}
	s := c.Stats()
	assert.InDelta(t, 0.8, s.TPR, 1e-12)
	assert.InDelta(t, 0.7, s.Acc, 1e-12)
}

func TestStatsEmptyDenominator(t *testing.T) {
	s := ConfusionMatrix{TN: 5, FP: 5}.Stats()
	assert.True(t, math.IsNaN(s.TPR))
	assert.True(t, math.IsNaN(s.FNR))
	assert.InDelta(t, 0, s.PPV, 1e-12)
	assert.InDelta(t, 0.5, s.TNR, 1e-12)
}
