package model

import "time"

// swagger:model Course
type Course struct {
	BaseModel
	Title       string   `gorm:"size:200;not null" json:"title"`
	Description string   `gorm:"type:text" json:"description"`
	Level       string   `gorm:"size:5;index" json:"level"` // CEFR等级 A1-C2
	Topic       string   `gorm:"size:100;index" json:"topic"`
	CoverURL    string   `gorm:"size:255" json:"coverUrl"`
	AuthorID    uint     `gorm:"index" json:"authorId"`
	IsPublished bool     `gorm:"default:false;index" json:"isPublished"`
	Lessons     []Lesson `gorm:"constraint:OnDelete:CASCADE" json:"lessons,omitempty"`
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID      uint    `gorm:"index;not null" json:"courseId"`
	Title         string  `gorm:"size:200;not null" json:"title"`
	Content       string  `gorm:"type:longtext" json:"content"` // Markdown正文
	AudioURL      string  `gorm:"size:255" json:"audioUrl"`     // 课文朗读音频
	AudioDuration float64 `json:"audioDuration"`                // 秒
	Vocabulary    string  `gorm:"type:json" json:"vocabulary"`  // 词典条目ID列表
	Order         int     `gorm:"column:sequence_order;default:0" json:"order"`
}

// Enrollment 学生选课记录及进度
type Enrollment struct {
	BaseModel
	UserID           uint      `gorm:"index:idx_enroll_user_course,unique" json:"userId"`
	CourseID         uint      `gorm:"index:idx_enroll_user_course,unique" json:"courseId"`
	LessonsCompleted int       `gorm:"default:0" json:"lessonsCompleted"`
	CompletionRate   float64   `gorm:"default:0" json:"completionRate"`
	LastAccessed     time.Time `json:"lastAccessed"`
}

// LessonCompletion 单课完成记录，课程进度由此汇总
type LessonCompletion struct {
	BaseModel
	UserID   uint `gorm:"index:idx_lc_user_lesson,unique" json:"userId"`
	LessonID uint `gorm:"index:idx_lc_user_lesson,unique" json:"lessonId"`
	CourseID uint `gorm:"index" json:"courseId"`
	Duration int  `json:"duration"` // 学习时长（秒）
}
