package service

import (
	"errors"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"
	"time"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo *repository.CourseRepository
	LessonRepo *repository.LessonRepository
}

func NewCourseService(courseRepo *repository.CourseRepository, lessonRepo *repository.LessonRepository) *CourseService {
	return &CourseService{
		CourseRepo: courseRepo,
		LessonRepo: lessonRepo,
	}
}

type CourseReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Level       *string `json:"level"`
	Topic       *string `json:"topic"`
	CoverURL    *string `json:"coverUrl"`
	IsPublished *bool   `json:"isPublished"`
}

func (s *CourseService) Create(authorID uint, req CourseReq) (*model.Course, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	course := &model.Course{
		Title:    *req.Title,
		AuthorID: authorID,
		Level:    "A1",
	}

	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Level != nil {
		if !util.IsValidCEFRLevel(*req.Level) {
			return nil, errors.New("invalid CEFR level")
		}
		course.Level = *req.Level
	}
	if req.Topic != nil {
		course.Topic = *req.Topic
	}
	if req.CoverURL != nil {
		course.CoverURL = *req.CoverURL
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(courseID, userID uint, isAdmin bool, req CourseReq) (*model.Course, error) {
	course, err := s.getOwned(courseID, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != "" {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.Level != nil {
		if !util.IsValidCEFRLevel(*req.Level) {
			return nil, errors.New("invalid CEFR level")
		}
		course.Level = *req.Level
	}
	if req.Topic != nil {
		course.Topic = *req.Topic
	}
	if req.CoverURL != nil {
		course.CoverURL = *req.CoverURL
	}
	if req.IsPublished != nil {
		course.IsPublished = *req.IsPublished
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(courseID, userID uint, isAdmin bool) error {
	if _, err := s.getOwned(courseID, userID, isAdmin); err != nil {
		return err
	}
	return s.CourseRepo.Delete(courseID)
}

// getOwned 取课程并校验归属：只有作者或管理员可修改
func (s *CourseService) getOwned(courseID, userID uint, isAdmin bool) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	if !isAdmin && course.AuthorID != userID {
		return nil, util.ErrPermissionDenied
	}
	return course, nil
}

func (s *CourseService) ListPublished(level, topic string, page, limit int) ([]model.Course, int64, error) {
	return s.CourseRepo.ListPublished(level, topic, page, limit)
}

func (s *CourseService) ListByAuthor(authorID uint) ([]model.Course, error) {
	return s.CourseRepo.ListByAuthor(authorID)
}

// GetForStudent 学生端课程详情：未发布课程仅作者/管理员可见
func (s *CourseService) GetForStudent(courseID, userID uint, isStaff bool) (*model.Course, *model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, nil, err
	}

	if !course.IsPublished && !isStaff && course.AuthorID != userID {
		return nil, nil, util.ErrCourseNotPublished
	}

	enrollment, _ := s.CourseRepo.FindEnrollment(userID, courseID)
	return course, enrollment, nil
}

func (s *CourseService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	if !course.IsPublished {
		return nil, util.ErrCourseNotPublished
	}

	if existing, err := s.CourseRepo.FindEnrollment(userID, courseID); err == nil {
		return existing, nil
	}

	enrollment := &model.Enrollment{
		UserID:       userID,
		CourseID:     courseID,
		LastAccessed: time.Now(),
	}
	if err := s.CourseRepo.CreateEnrollment(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

type EnrolledCourse struct {
	Course     model.Course     `json:"course"`
	Enrollment model.Enrollment `json:"enrollment"`
}

func (s *CourseService) ListEnrolled(userID uint) ([]EnrolledCourse, error) {
	enrollments, err := s.CourseRepo.ListEnrollments(userID)
	if err != nil {
		return nil, err
	}

	result := make([]EnrolledCourse, 0, len(enrollments))
	for _, e := range enrollments {
		course, err := s.CourseRepo.FindByID(e.CourseID)
		if err != nil {
			continue
		}
		course.Lessons = nil
		result = append(result, EnrolledCourse{Course: *course, Enrollment: e})
	}
	return result, nil
}

// RefreshProgress 根据完课记录重算选课进度
func (s *CourseService) RefreshProgress(userID, courseID uint) error {
	enrollment, err := s.CourseRepo.FindEnrollment(userID, courseID)
	if err != nil {
		return util.ErrNotEnrolled
	}

	completed, err := s.LessonRepo.CountCompletions(userID, courseID)
	if err != nil {
		return err
	}
	total, err := s.CourseRepo.CountLessons(courseID)
	if err != nil {
		return err
	}

	enrollment.LessonsCompleted = int(completed)
	if total > 0 {
		enrollment.CompletionRate = float64(completed) / float64(total) * 100
	} else {
		enrollment.CompletionRate = 0
	}
	enrollment.LastAccessed = time.Now()

	return s.CourseRepo.UpdateEnrollment(enrollment)
}
