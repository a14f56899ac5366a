package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateStatsEmpty(t *testing.T) {
	stats := CalculateStats(nil)
	assert.Equal(t, Stats{}, stats)

	stats = CalculateStats([]AttemptScore{})
	assert.Equal(t, Stats{}, stats)
}

func TestCalculateStatsSingleAttempt(t *testing.T) {
	stats := CalculateStats([]AttemptScore{{Score: 80, Passed: true}})

	assert.Equal(t, Stats{
		TotalAttempts: 1,
		AverageScore:  80,
		HighestScore:  80,
		LowestScore:   80,
		PassRate:      100,
	}, stats)
}

func TestCalculateStatsAggregation(t *testing.T) {
	attempts := []AttemptScore{
		{Score: 90, Passed: true},
		{Score: 45, Passed: false},
		{Score: 70, Passed: true},
		{Score: 100, Passed: true},
	}

	stats := CalculateStats(attempts)

	assert.Equal(t, 4, stats.TotalAttempts)
	// (90+45+70+100)/4 = 76.25 -> 76
	assert.Equal(t, 76, stats.AverageScore)
	assert.Equal(t, 100, stats.HighestScore)
	assert.Equal(t, 45, stats.LowestScore)
	// 3/4 = 75%
	assert.Equal(t, 75, stats.PassRate)
}

func TestCalculateStatsRounding(t *testing.T) {
	attempts := []AttemptScore{
		{Score: 50, Passed: false},
		{Score: 51, Passed: false},
		{Score: 51, Passed: true},
	}

	stats := CalculateStats(attempts)
	// (50+51+51)/3 = 50.67 -> 51
	assert.Equal(t, 51, stats.AverageScore)
	// 1/3 = 33.33 -> 33
	assert.Equal(t, 33, stats.PassRate)
}

func TestCalculateStatsAllFailed(t *testing.T) {
	attempts := []AttemptScore{
		{Score: 10, Passed: false},
		{Score: 20, Passed: false},
	}

	stats := CalculateStats(attempts)
	assert.Equal(t, 0, stats.PassRate)
	assert.Equal(t, 20, stats.HighestScore)
	assert.Equal(t, 10, stats.LowestScore)
}
