package model

import "encoding/json"

// 题型常量，与前端及评分引擎共用
const (
	QuestionSingleChoice = "single_choice"
	QuestionFillBlank    = "fill_blank"
	QuestionMatching     = "matching"
	QuestionTrueFalse    = "true_false"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	LessonID           uint           `gorm:"index;not null" json:"lessonId"`
	CreatorID          uint           `gorm:"index" json:"creatorId"`
	Title              string         `gorm:"size:200;not null" json:"title"`
	Description        string         `gorm:"type:text" json:"description"`
	PassingScore       int            `gorm:"default:60" json:"passingScore"` // 及格线（百分比）
	MaxAttempts        int            `gorm:"default:0" json:"maxAttempts"`   // 0表示不限次数
	TimeLimit          int            `gorm:"default:0" json:"timeLimit"`     // 分钟，0表示不限时
	ShowCorrectAnswers bool           `gorm:"default:true" json:"showCorrectAnswers"`
	RandomizeQuestions bool           `gorm:"default:false" json:"randomizeQuestions"`
	IsPublished        bool           `gorm:"default:false;index" json:"isPublished"`
	TotalPoints        int            `gorm:"default:0" json:"totalPoints"` // 题目分值之和，随题目增删维护
	AttemptCount       int            `gorm:"default:0" json:"attemptCount"`
	AverageScore       float64        `gorm:"default:0" json:"averageScore"`
	Questions          []QuizQuestion `gorm:"constraint:OnDelete:CASCADE" json:"questions,omitempty"`
}

// QuizQuestion 题目，答案键按题型使用不同字段
// swagger:model QuizQuestion
type QuizQuestion struct {
	BaseModel
	QuizID        uint            `gorm:"index;not null" json:"quizId"`
	Type          string          `gorm:"size:20;not null" json:"type"`
	Prompt        string          `gorm:"type:text;not null" json:"prompt"`
	Options       json.RawMessage `gorm:"type:json" json:"options,omitempty"` // single_choice选项列表
	CorrectIndex  int             `json:"-"`                                  // single_choice答案
	Blanks        json.RawMessage `gorm:"type:json" json:"-"`                 // fill_blank期望串列表
	CaseSensitive bool            `json:"-"`
	Pairs         json.RawMessage `gorm:"type:json" json:"-"` // matching左右配对
	Expected      bool            `json:"-"`                  // true_false答案
	Points        int             `gorm:"default:1" json:"points"`
	Explanation   string          `gorm:"type:text" json:"explanation,omitempty"`
	Order         int             `gorm:"column:sequence_order;default:0" json:"order"`
}

// QuizAttempt 一次评分完成的答题记录，创建后不再修改
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	QuizID        uint            `gorm:"index:idx_attempt_quiz_user" json:"quizId"`
	UserID        uint            `gorm:"index:idx_attempt_quiz_user" json:"userId"`
	AttemptNumber int             `json:"attemptNumber"`
	Answers       json.RawMessage `gorm:"type:json" json:"answers"` // 逐题评分结果
	EarnedPoints  int             `json:"earnedPoints"`
	TotalPoints   int             `json:"totalPoints"`
	Score         int             `json:"score"` // 百分比 0-100
	Passed        bool            `json:"passed"`
	Duration      int             `json:"duration"` // 秒
}
