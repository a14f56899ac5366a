package grading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode 模拟HTTP层的JSON解码，保证测试输入和线上形状一致
func decode(t *testing.T, raw string) interface{} {
	t.Helper()
	var v interface{}
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestGradeSingleChoice(t *testing.T) {
	tests := []struct {
		name         string
		submitted    interface{}
		correctIndex int
		want         bool
	}{
		{"JSON数字命中", float64(2), 2, true},
		{"JSON数字未命中", float64(1), 2, false},
		{"数字字符串命中", "2", 2, true},
		{"带空白的数字字符串", " 2 ", 2, true},
		{"非数字字符串", "abc", 0, false},
		{"nil判错", nil, 0, false},
		{"布尔值判错", true, 1, false},
		{"对象判错", map[string]interface{}{"index": 2.0}, 2, false},
		{"小数不等于下标", 1.5, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradeSingleChoice(tt.submitted, tt.correctIndex))
		})
	}
}

func TestGradeFillBlank(t *testing.T) {
	blanks := []string{"Haus", "Frau"}

	tests := []struct {
		name          string
		submitted     interface{}
		caseSensitive bool
		want          bool
	}{
		{"全部正确", []interface{}{"Haus", "Frau"}, false, true},
		{"忽略大小写", []interface{}{"haus", "FRAU"}, false, true},
		{"区分大小写失败", []interface{}{"haus", "Frau"}, true, false},
		{"首尾空白被修剪", []interface{}{"  Haus ", "Frau\t"}, false, true},
		{"一空错误整题判错", []interface{}{"Haus", "Mann"}, false, false},
		{"数量不符判错", []interface{}{"Haus"}, false, false},
		{"多余作答判错", []interface{}{"Haus", "Frau", "Tisch"}, false, false},
		{"非数组判错", "Haus", false, false},
		{"混入非字符串判错", []interface{}{"Haus", 1.0}, false, false},
		{"nil判错", nil, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradeFillBlank(tt.submitted, blanks, tt.caseSensitive))
		})
	}
}

func TestGradeMatching(t *testing.T) {
	pairs := []MatchPair{
		{Left: "der", Right: "Tisch"},
		{Left: "die", Right: "Frau"},
		{Left: "das", Right: "Haus"},
	}

	t.Run("全部配对正确", func(t *testing.T) {
		submitted := decode(t, `[
			{"leftIndex":0,"rightIndex":0},
			{"leftIndex":1,"rightIndex":1},
			{"leftIndex":2,"rightIndex":2}
		]`)
		assert.True(t, GradeMatching(submitted, pairs))
	})

	t.Run("一组配错判错", func(t *testing.T) {
		submitted := decode(t, `[
			{"leftIndex":0,"rightIndex":1},
			{"leftIndex":1,"rightIndex":0},
			{"leftIndex":2,"rightIndex":2}
		]`)
		assert.False(t, GradeMatching(submitted, pairs))
	})

	t.Run("数量不符判错", func(t *testing.T) {
		submitted := decode(t, `[{"leftIndex":0,"rightIndex":0}]`)
		assert.False(t, GradeMatching(submitted, pairs))
	})

	t.Run("下标越界的组合不命中", func(t *testing.T) {
		submitted := decode(t, `[
			{"leftIndex":0,"rightIndex":0},
			{"leftIndex":1,"rightIndex":1},
			{"leftIndex":9,"rightIndex":2}
		]`)
		assert.False(t, GradeMatching(submitted, pairs))
	})

	t.Run("负下标不命中", func(t *testing.T) {
		submitted := decode(t, `[
			{"leftIndex":-1,"rightIndex":0},
			{"leftIndex":1,"rightIndex":1},
			{"leftIndex":2,"rightIndex":2}
		]`)
		assert.False(t, GradeMatching(submitted, pairs))
	})

	t.Run("畸形元素不命中", func(t *testing.T) {
		submitted := decode(t, `[
			{"leftIndex":0,"rightIndex":0},
			{"leftIndex":1,"rightIndex":1},
			"oops"
		]`)
		assert.False(t, GradeMatching(submitted, pairs))
	})

	t.Run("非数组判错", func(t *testing.T) {
		assert.False(t, GradeMatching(decode(t, `{"leftIndex":0,"rightIndex":0}`), pairs))
		assert.False(t, GradeMatching(nil, pairs))
	})
}

// TestGradeMatchingDuplicateLeniency 固化宽松判定：重复提交同一正确组合、
// 数量凑够时也算整题正确。该行为被现有前端依赖，改动属于破坏性变更。
func TestGradeMatchingDuplicateLeniency(t *testing.T) {
	pairs := []MatchPair{
		{Left: "der", Right: "Tisch"},
		{Left: "die", Right: "Frau"},
	}

	submitted := decode(t, `[
		{"leftIndex":0,"rightIndex":0},
		{"leftIndex":0,"rightIndex":0}
	]`)

	assert.True(t, GradeMatching(submitted, pairs))
}

func TestGradeTrueFalse(t *testing.T) {
	tests := []struct {
		name      string
		submitted interface{}
		expected  bool
		want      bool
	}{
		{"布尔真命中", true, true, true},
		{"布尔假命中", false, false, true},
		{"布尔真未命中", true, false, false},
		{"非零数字为真", float64(1), true, true},
		{"零为假", float64(0), false, true},
		{"非空字符串为真", "ja", true, true},
		{"空串为假", "", false, true},
		{"nil为假", nil, false, true},
		{"nil不等于真", nil, true, false},
		{"对象为真", map[string]interface{}{}, true, true},
		{"数组为真", []interface{}{}, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GradeTrueFalse(tt.submitted, tt.expected))
		})
	}
}

func sampleKey() QuizKey {
	return QuizKey{
		PassingScore: 60,
		TotalPoints:  10,
		Questions: []Question{
			{ID: 1, Type: "single_choice", Points: 2, CorrectIndex: 1},
			{ID: 2, Type: "fill_blank", Points: 3, Blanks: []string{"Haus"}},
			{ID: 3, Type: "matching", Points: 3, Pairs: []MatchPair{
				{Left: "der", Right: "Tisch"},
				{Left: "die", Right: "Frau"},
			}},
			{ID: 4, Type: "true_false", Points: 2, Expected: true},
		},
	}
}

func TestGradeQuizAllCorrect(t *testing.T) {
	submitted := []interface{}{
		float64(1),
		[]interface{}{"haus"},
		[]interface{}{
			map[string]interface{}{"leftIndex": float64(0), "rightIndex": float64(0)},
			map[string]interface{}{"leftIndex": float64(1), "rightIndex": float64(1)},
		},
		true,
	}

	result := GradeQuiz(sampleKey(), submitted)

	assert.Equal(t, 10, result.EarnedPoints)
	assert.Equal(t, 10, result.TotalPoints)
	assert.Equal(t, 100, result.Score)
	assert.True(t, result.Passed)
	require.Len(t, result.Answers, 4)
	for i, a := range result.Answers {
		assert.True(t, a.IsCorrect, "question %d", i)
		assert.Equal(t, i, a.QuestionIndex)
	}
}

func TestGradeQuizPartialScore(t *testing.T) {
	// 只答对前两题：2+3=5分，score = round(100*5/10) = 50，低于及格线
	submitted := []interface{}{
		float64(1),
		[]interface{}{"Haus"},
		nil,
		false,
	}

	result := GradeQuiz(sampleKey(), submitted)

	assert.Equal(t, 5, result.EarnedPoints)
	assert.Equal(t, 50, result.Score)
	assert.False(t, result.Passed)
	assert.Equal(t, 2, result.Answers[0].PointsAwarded)
	assert.Equal(t, 0, result.Answers[2].PointsAwarded)
}

func TestGradeQuizScoreRounding(t *testing.T) {
	key := QuizKey{
		PassingScore: 60,
		TotalPoints:  3,
		Questions: []Question{
			{Type: "true_false", Points: 1, Expected: true},
			{Type: "true_false", Points: 1, Expected: true},
			{Type: "true_false", Points: 1, Expected: false},
		},
	}

	// 2/3 = 66.67 -> 67
	result := GradeQuiz(key, []interface{}{true, true, true})
	assert.Equal(t, 67, result.Score)
	assert.True(t, result.Passed)

	// 1/3 = 33.33 -> 33
	result = GradeQuiz(key, []interface{}{true, false, true})
	assert.Equal(t, 33, result.Score)
	assert.False(t, result.Passed)
}

func TestGradeQuizMissingAnswersCountWrong(t *testing.T) {
	result := GradeQuiz(sampleKey(), []interface{}{float64(1)})

	require.Len(t, result.Answers, 4)
	assert.True(t, result.Answers[0].IsCorrect)
	assert.False(t, result.Answers[1].IsCorrect)
	assert.False(t, result.Answers[2].IsCorrect)
	assert.False(t, result.Answers[3].IsCorrect)
	assert.Equal(t, 2, result.EarnedPoints)
}

func TestGradeQuizExtraAnswersIgnored(t *testing.T) {
	submitted := []interface{}{
		float64(1),
		[]interface{}{"Haus"},
		nil,
		true,
		"extra",
		"noch eins",
	}

	result := GradeQuiz(sampleKey(), submitted)
	assert.Len(t, result.Answers, 4)
	assert.Equal(t, 7, result.EarnedPoints)
}

func TestGradeQuizUnknownTypeFailsClosed(t *testing.T) {
	key := QuizKey{
		PassingScore: 60,
		TotalPoints:  5,
		Questions: []Question{
			{Type: "essay", Points: 5},
		},
	}

	result := GradeQuiz(key, []interface{}{"ein langer Aufsatz"})
	assert.False(t, result.Answers[0].IsCorrect)
	assert.Equal(t, 0, result.EarnedPoints)
	assert.Equal(t, 0, result.Score)
}

func TestGradeQuizZeroTotalPoints(t *testing.T) {
	key := QuizKey{PassingScore: 60, TotalPoints: 0}

	result := GradeQuiz(key, nil)
	assert.Equal(t, 0, result.Score)
	assert.False(t, result.Passed)
	assert.Empty(t, result.Answers)
}

func TestGradeQuizEmptySubmission(t *testing.T) {
	result := GradeQuiz(sampleKey(), nil)

	require.Len(t, result.Answers, 4)
	for _, a := range result.Answers {
		assert.False(t, a.IsCorrect)
		assert.Nil(t, a.Answer)
	}
	assert.Equal(t, 0, result.EarnedPoints)
	assert.False(t, result.Passed)
}

// 及格线为0时任何提交都算通过
func TestGradeQuizZeroPassingScore(t *testing.T) {
	key := sampleKey()
	key.PassingScore = 0

	result := GradeQuiz(key, nil)
	assert.Equal(t, 0, result.Score)
	assert.True(t, result.Passed)
}
