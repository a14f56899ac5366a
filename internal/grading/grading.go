// Package grading 实现测验的自动评分：四种题型的判分、整卷汇总与历史成绩统计。
// 所有函数均为纯函数，不触碰数据库，可并发调用。
// 判分约定：畸形/缺失的作答一律视为错误，绝不返回错误或panic，
// 保证每次提交都能得到一份完整的评分结果。
package grading

import (
	"math"
	"strconv"
	"strings"
)

// MatchPair 匹配题答案键中的一个左右配对
type MatchPair struct {
	Left  string `json:"left"`
	Right string `json:"right"`
}

// Question 单题的答案键，按 Type 使用对应字段
type Question struct {
	ID            uint
	Type          string
	Points        int
	CorrectIndex  int         // single_choice
	Blanks        []string    // fill_blank
	CaseSensitive bool        // fill_blank
	Pairs         []MatchPair // matching
	Expected      bool        // true_false
}

// QuizKey 整卷评分的输入：题目列表与测验设置
type QuizKey struct {
	Questions    []Question
	PassingScore int // 及格线（百分比）
	TotalPoints  int // 全卷总分，与作答无关
}

// GradedAnswer 逐题评分结果，生成后不再修改
type GradedAnswer struct {
	QuestionIndex int         `json:"questionIndex"`
	QuestionID    uint        `json:"questionId"`
	QuestionType  string      `json:"questionType"`
	Answer        interface{} `json:"answer"`
	IsCorrect     bool        `json:"isCorrect"`
	PointsAwarded int         `json:"pointsAwarded"`
}

// Result 一次提交的整卷评分结果
type Result struct {
	Answers      []GradedAnswer `json:"answers"`
	EarnedPoints int            `json:"earnedPoints"`
	TotalPoints  int            `json:"totalPoints"`
	Score        int            `json:"score"` // 百分比 0-100
	Passed       bool           `json:"passed"`
}

// asNumber 把提交值宽松地转成数字。支持JSON解码产生的float64、
// 数字字符串以及代码内部传入的整数类型；其余一律视为不可判分。
func asNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// truthy 按JS语义判断真值：空串、0、false、nil为假，其余为真
func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case string:
		return t != ""
	default:
		// 对象、数组等一律为真
		return true
	}
}

// asStringSlice 把提交值转成字符串序列；含非字符串元素时判为不可判分
func asStringSlice(v interface{}) ([]string, bool) {
	switch s := v.(type) {
	case []string:
		return s, true
	case []interface{}:
		out := make([]string, len(s))
		for i, e := range s {
			str, ok := e.(string)
			if !ok {
				return nil, false
			}
			out[i] = str
		}
		return out, true
	default:
		return nil, false
	}
}

// GradeSingleChoice 单选题：数字化后比较选项下标，非数字输入判错
func GradeSingleChoice(submitted interface{}, correctIndex int) bool {
	n, ok := asNumber(submitted)
	if !ok {
		return false
	}
	return n == float64(correctIndex)
}

// GradeFillBlank 填空题：逐空比较，整题全对才得分，不支持部分给分。
// 两侧都先去除首尾空白；caseSensitive为假时再统一转小写。
func GradeFillBlank(submitted interface{}, expected []string, caseSensitive bool) bool {
	got, ok := asStringSlice(submitted)
	if !ok || len(got) != len(expected) {
		return false
	}

	for i, want := range expected {
		g := strings.TrimSpace(got[i])
		w := strings.TrimSpace(want)
		if !caseSensitive {
			g = strings.ToLower(g)
			w = strings.ToLower(w)
		}
		if g != w {
			return false
		}
	}
	return true
}

// pairIndex 提交的匹配项：左右两列的下标
type pairIndex struct {
	left  int
	right int
	valid bool
}

func asPairIndex(v interface{}) pairIndex {
	m, ok := v.(map[string]interface{})
	if !ok {
		return pairIndex{}
	}
	l, lok := asNumber(m["leftIndex"])
	r, rok := asNumber(m["rightIndex"])
	if !lok || !rok {
		return pairIndex{}
	}
	return pairIndex{left: int(l), right: int(r), valid: true}
}

// GradeMatching 匹配题：把提交的下标对解析回左右值，再看该组合是否出现在
// 答案键里。解析失败（越界下标）的组合不可能命中。命中组合数等于配对总数
// 才算整题正确。注意：这允许重复下标的提交在数量凑够时也判对——该宽松行为
// 被下游依赖，保持原样，不要“修复”。
func GradeMatching(submitted interface{}, pairs []MatchPair) bool {
	items, ok := submitted.([]interface{})
	if !ok {
		return false
	}
	if len(items) != len(pairs) {
		return false
	}

	matched := 0
	for _, item := range items {
		p := asPairIndex(item)
		if !p.valid {
			continue
		}

		var left, right string
		leftOK := p.left >= 0 && p.left < len(pairs)
		rightOK := p.right >= 0 && p.right < len(pairs)
		if leftOK {
			left = pairs[p.left].Left
		}
		if rightOK {
			right = pairs[p.right].Right
		}
		if !leftOK || !rightOK {
			continue
		}

		for _, correct := range pairs {
			if correct.Left == left && correct.Right == right {
				matched++
				break
			}
		}
	}

	return matched == len(pairs)
}

// GradeTrueFalse 判断题：对提交值做真值化后与期望比较
func GradeTrueFalse(submitted interface{}, expected bool) bool {
	return truthy(submitted) == expected
}

// gradeOne 按题型分发；未知题型一律判错，绝不panic
func gradeOne(q Question, submitted interface{}) bool {
	switch q.Type {
	case "single_choice":
		return GradeSingleChoice(submitted, q.CorrectIndex)
	case "fill_blank":
		return GradeFillBlank(submitted, q.Blanks, q.CaseSensitive)
	case "matching":
		return GradeMatching(submitted, q.Pairs)
	case "true_false":
		return GradeTrueFalse(submitted, q.Expected)
	default:
		return false
	}
}

// GradeQuiz 整卷评分。提交答案按位置与题目一一对应：
// 缺少的作答按未答判错，多余的作答忽略。
func GradeQuiz(quiz QuizKey, submitted []interface{}) Result {
	answers := make([]GradedAnswer, len(quiz.Questions))
	earned := 0

	for i, q := range quiz.Questions {
		var answer interface{}
		if i < len(submitted) {
			answer = submitted[i]
		}

		correct := gradeOne(q, answer)
		points := 0
		if correct {
			points = q.Points
			earned += points
		}

		answers[i] = GradedAnswer{
			QuestionIndex: i,
			QuestionID:    q.ID,
			QuestionType:  q.Type,
			Answer:        answer,
			IsCorrect:     correct,
			PointsAwarded: points,
		}
	}

	score := 0
	if quiz.TotalPoints > 0 {
		score = int(math.Round(100 * float64(earned) / float64(quiz.TotalPoints)))
	}

	return Result{
		Answers:      answers,
		EarnedPoints: earned,
		TotalPoints:  quiz.TotalPoints,
		Score:        score,
		Passed:       score >= quiz.PassingScore,
	}
}
