package grading

import "math"

// AttemptScore 历史答题记录中参与统计的字段
type AttemptScore struct {
	Score  int
	Passed bool
}

// Stats 某测验全部答题记录的汇总视图，永远按需计算，不落库
type Stats struct {
	TotalAttempts int `json:"totalAttempts"`
	AverageScore  int `json:"averageScore"`
	HighestScore  int `json:"highestScore"`
	LowestScore   int `json:"lowestScore"`
	PassRate      int `json:"passRate"` // 百分比
}

// CalculateStats 汇总历史成绩；空输入返回全零而不是除零
func CalculateStats(attempts []AttemptScore) Stats {
	if len(attempts) == 0 {
		return Stats{}
	}

	sum := 0
	passed := 0
	highest := attempts[0].Score
	lowest := attempts[0].Score

	for _, a := range attempts {
		sum += a.Score
		if a.Passed {
			passed++
		}
		if a.Score > highest {
			highest = a.Score
		}
		if a.Score < lowest {
			lowest = a.Score
		}
	}

	n := float64(len(attempts))
	return Stats{
		TotalAttempts: len(attempts),
		AverageScore:  int(math.Round(float64(sum) / n)),
		HighestScore:  highest,
		LowestScore:   lowest,
		PassRate:      int(math.Round(100 * float64(passed) / n)),
	}
}
