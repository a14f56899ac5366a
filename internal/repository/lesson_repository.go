package repository

import (
	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Lesson{}, id).Error
}

func (r *LessonRepository) ListByCourse(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).
		Order("sequence_order ASC").
		Find(&lessons).Error
	return lessons, err
}

// SearchByTitle 按标题模糊匹配已发布课程下的课文，用于辅导背景知识检索
func (r *LessonRepository) SearchByTitle(query string, limit int) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Joins("JOIN courses ON courses.id = lessons.course_id").
		Where("courses.is_published = ? AND lessons.title LIKE ?", true, "%"+query+"%").
		Limit(limit).
		Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) FindCompletion(userID, lessonID uint) (*model.LessonCompletion, error) {
	var completion model.LessonCompletion
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&completion).Error
	if err != nil {
		return nil, err
	}
	return &completion, nil
}

func (r *LessonRepository) CreateCompletion(completion *model.LessonCompletion) error {
	return r.DB.Create(completion).Error
}

func (r *LessonRepository) CountCompletions(userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonCompletion{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count, err
}
