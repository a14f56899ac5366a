package service

import (
	"encoding/json"
	"errors"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"

	"gorm.io/gorm"
)

type LessonService struct {
	LessonRepo *repository.LessonRepository
	CourseRepo *repository.CourseRepository
	DictRepo   *repository.DictionaryRepository
	CourseSvc  *CourseService
}

func NewLessonService(lessonRepo *repository.LessonRepository, courseRepo *repository.CourseRepository, dictRepo *repository.DictionaryRepository, courseSvc *CourseService) *LessonService {
	return &LessonService{
		LessonRepo: lessonRepo,
		CourseRepo: courseRepo,
		DictRepo:   dictRepo,
		CourseSvc:  courseSvc,
	}
}

type LessonReq struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	Vocabulary *[]uint `json:"vocabulary"` // 词典条目ID列表
	Order      *int    `json:"order"`
}

func (s *LessonService) Create(courseID, userID uint, isAdmin bool, req LessonReq) (*model.Lesson, error) {
	if _, err := s.CourseSvc.getOwned(courseID, userID, isAdmin); err != nil {
		return nil, err
	}
	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	lesson := &model.Lesson{
		CourseID: courseID,
		Title:    *req.Title,
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	if req.Vocabulary != nil {
		vocab, _ := json.Marshal(*req.Vocabulary)
		lesson.Vocabulary = string(vocab)
	}

	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Update(lessonID, userID uint, isAdmin bool, req LessonReq) (*model.Lesson, error) {
	lesson, err := s.getOwned(lessonID, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != "" {
		lesson.Title = *req.Title
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	if req.Vocabulary != nil {
		vocab, _ := json.Marshal(*req.Vocabulary)
		lesson.Vocabulary = string(vocab)
	}

	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Delete(lessonID, userID uint, isAdmin bool) error {
	if _, err := s.getOwned(lessonID, userID, isAdmin); err != nil {
		return err
	}
	return s.LessonRepo.Delete(lessonID)
}

func (s *LessonService) getOwned(lessonID, userID uint, isAdmin bool) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.CourseSvc.getOwned(lesson.CourseID, userID, isAdmin); err != nil {
		return nil, err
	}
	return lesson, nil
}

// LessonDetail 学生端课文详情，附带词汇表条目
type LessonDetail struct {
	Lesson     model.Lesson            `json:"lesson"`
	Vocabulary []model.DictionaryEntry `json:"vocabulary"`
	Completed  bool                    `json:"completed"`
}

func (s *LessonService) GetForStudent(lessonID, userID uint) (*LessonDetail, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}

	detail := &LessonDetail{Lesson: *lesson}

	// 解析词汇表ID并加载词典条目
	if lesson.Vocabulary != "" {
		var ids []uint
		if err := json.Unmarshal([]byte(lesson.Vocabulary), &ids); err == nil && len(ids) > 0 {
			entries, err := s.DictRepo.FindByIDs(ids)
			if err == nil {
				detail.Vocabulary = entries
			}
		}
	}

	if _, err := s.LessonRepo.FindCompletion(userID, lessonID); err == nil {
		detail.Completed = true
	}

	return detail, nil
}

// Complete 标记完课并刷新课程进度；重复完课是幂等的
func (s *LessonService) Complete(userID, lessonID uint, duration int) error {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrLessonNotFound
	}
	if err != nil {
		return err
	}

	if _, err := s.LessonRepo.FindCompletion(userID, lessonID); err == nil {
		return nil
	}

	completion := &model.LessonCompletion{
		UserID:   userID,
		LessonID: lessonID,
		CourseID: lesson.CourseID,
		Duration: duration,
	}
	if err := s.LessonRepo.CreateCompletion(completion); err != nil {
		return err
	}

	return s.CourseSvc.RefreshProgress(userID, lesson.CourseID)
}

// SetAudio 绑定课文朗读音频及其探测到的时长
func (s *LessonService) SetAudio(lessonID, userID uint, isAdmin bool, url string, duration float64) error {
	lesson, err := s.getOwned(lessonID, userID, isAdmin)
	if err != nil {
		return err
	}
	lesson.AudioURL = url
	lesson.AudioDuration = duration
	return s.LessonRepo.Update(lesson)
}
