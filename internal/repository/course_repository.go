package repository

import (
	"lingua_edu_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence_order ASC")
	}).First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Course{}, id).Error
}

// ListPublished 学生端课程列表，支持按等级/主题过滤
func (r *CourseRepository) ListPublished(level, topic string, page, limit int) ([]model.Course, int64, error) {
	query := r.DB.Model(&model.Course{}).Where("is_published = ?", true)

	if level != "" {
		query = query.Where("level = ?", level)
	}
	if topic != "" {
		query = query.Where("topic LIKE ?", "%"+topic+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) ListByAuthor(authorID uint) ([]model.Course, error) {
	var courses []model.Course
	err := r.DB.Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) CountLessons(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}

func (r *CourseRepository) FindEnrollment(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *CourseRepository) CreateEnrollment(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *CourseRepository) UpdateEnrollment(enrollment *model.Enrollment) error {
	return r.DB.Save(enrollment).Error
}

func (r *CourseRepository) ListEnrollments(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Where("user_id = ?", userID).
		Order("last_accessed DESC").
		Find(&enrollments).Error
	return enrollments, err
}

func (r *CourseRepository) TouchEnrollment(userID, courseID uint) error {
	return r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Update("last_accessed", time.Now()).
		Error
}
