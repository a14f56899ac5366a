package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"lingua_edu_backend/internal/grading"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"
	"lingua_edu_backend/pkg/monitoring"

	"gorm.io/gorm"
)

type QuizService struct {
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.AttemptRepository
	LessonRepo  *repository.LessonRepository
	CourseSvc   *CourseService
}

func NewQuizService(quizRepo *repository.QuizRepository, attemptRepo *repository.AttemptRepository, lessonRepo *repository.LessonRepository, courseSvc *CourseService) *QuizService {
	return &QuizService{
		QuizRepo:    quizRepo,
		AttemptRepo: attemptRepo,
		LessonRepo:  lessonRepo,
		CourseSvc:   courseSvc,
	}
}

type QuizQuestionReq struct {
	ID            uint                `json:"id"`
	Type          string              `json:"type" binding:"required"`
	Prompt        string              `json:"prompt" binding:"required"`
	Options       []string            `json:"options"`
	CorrectIndex  *int                `json:"correctIndex"`
	Blanks        []string            `json:"blanks"`
	CaseSensitive bool                `json:"caseSensitive"`
	Pairs         []grading.MatchPair `json:"pairs"`
	Expected      *bool               `json:"expected"`
	Points        int                 `json:"points"`
	Explanation   string              `json:"explanation"`
	Order         int                 `json:"order"`
}

type QuizReq struct {
	Title              *string            `json:"title"`
	Description        *string            `json:"description"`
	PassingScore       *int               `json:"passingScore"`
	MaxAttempts        *int               `json:"maxAttempts"`
	TimeLimit          *int               `json:"timeLimit"`
	ShowCorrectAnswers *bool              `json:"showCorrectAnswers"`
	RandomizeQuestions *bool              `json:"randomizeQuestions"`
	IsPublished        *bool              `json:"isPublished"`
	Questions          *[]QuizQuestionReq `json:"questions"`
}

// validateQuestion 校验题目请求与题型匹配
func validateQuestion(req QuizQuestionReq) error {
	if req.Points < 1 {
		return fmt.Errorf("question points must be positive")
	}

	switch req.Type {
	case model.QuestionSingleChoice:
		if len(req.Options) < 2 {
			return fmt.Errorf("single_choice question needs at least 2 options")
		}
		if req.CorrectIndex == nil || *req.CorrectIndex < 0 || *req.CorrectIndex >= len(req.Options) {
			return fmt.Errorf("single_choice correctIndex out of range")
		}
	case model.QuestionFillBlank:
		if len(req.Blanks) == 0 {
			return fmt.Errorf("fill_blank question needs at least 1 blank")
		}
	case model.QuestionMatching:
		if len(req.Pairs) < 2 {
			return fmt.Errorf("matching question needs at least 2 pairs")
		}
	case model.QuestionTrueFalse:
		if req.Expected == nil {
			return fmt.Errorf("true_false question needs an expected value")
		}
	default:
		return fmt.Errorf("unknown question type: %s", req.Type)
	}
	return nil
}

func questionFromReq(quizID uint, req QuizQuestionReq) *model.QuizQuestion {
	q := &model.QuizQuestion{
		QuizID:        quizID,
		Type:          req.Type,
		Prompt:        req.Prompt,
		CaseSensitive: req.CaseSensitive,
		Points:        req.Points,
		Explanation:   req.Explanation,
		Order:         req.Order,
	}
	if len(req.Options) > 0 {
		q.Options, _ = json.Marshal(req.Options)
	}
	if req.CorrectIndex != nil {
		q.CorrectIndex = *req.CorrectIndex
	}
	if len(req.Blanks) > 0 {
		q.Blanks, _ = json.Marshal(req.Blanks)
	}
	if len(req.Pairs) > 0 {
		q.Pairs, _ = json.Marshal(req.Pairs)
	}
	if req.Expected != nil {
		q.Expected = *req.Expected
	}
	return q
}

func (s *QuizService) Create(creatorID, lessonID uint, isAdmin bool, req QuizReq) (*model.Quiz, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, err := s.CourseSvc.getOwned(lesson.CourseID, creatorID, isAdmin); err != nil {
		return nil, err
	}

	if req.Title == nil || *req.Title == "" {
		return nil, errors.New("title is required")
	}

	quiz := &model.Quiz{
		LessonID:           lessonID,
		CreatorID:          creatorID,
		Title:              *req.Title,
		PassingScore:       60,
		ShowCorrectAnswers: true,
	}
	applyQuizReq(quiz, req)

	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}

	if req.Questions != nil {
		for _, qReq := range *req.Questions {
			if err := validateQuestion(qReq); err != nil {
				return nil, err
			}
			if err := s.QuizRepo.CreateQuestion(questionFromReq(quiz.ID, qReq)); err != nil {
				return nil, err
			}
		}
		if err := s.QuizRepo.RecalculateTotalPoints(quiz.ID); err != nil {
			return nil, err
		}
	}

	return s.QuizRepo.FindByID(quiz.ID)
}

func applyQuizReq(quiz *model.Quiz, req QuizReq) {
	if req.Title != nil && *req.Title != "" {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}
	if req.MaxAttempts != nil {
		quiz.MaxAttempts = *req.MaxAttempts
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = *req.TimeLimit
	}
	if req.ShowCorrectAnswers != nil {
		quiz.ShowCorrectAnswers = *req.ShowCorrectAnswers
	}
	if req.RandomizeQuestions != nil {
		quiz.RandomizeQuestions = *req.RandomizeQuestions
	}
	if req.IsPublished != nil {
		quiz.IsPublished = *req.IsPublished
	}
}

func (s *QuizService) Update(quizID, userID uint, isAdmin bool, req QuizReq) (*model.Quiz, error) {
	quiz, err := s.getOwned(quizID, userID, isAdmin)
	if err != nil {
		return nil, err
	}

	applyQuizReq(quiz, req)
	if err := s.QuizRepo.Update(quiz); err != nil {
		return nil, err
	}

	if req.Questions != nil {
		existing, err := s.QuizRepo.ListQuestions(quizID)
		if err != nil {
			return nil, err
		}
		existingMap := make(map[uint]*model.QuizQuestion, len(existing))
		for i := range existing {
			existingMap[existing[i].ID] = &existing[i]
		}

		keptIDs := make(map[uint]bool)
		for _, qReq := range *req.Questions {
			if err := validateQuestion(qReq); err != nil {
				return nil, err
			}

			if qReq.ID != 0 {
				if _, ok := existingMap[qReq.ID]; !ok {
					continue
				}
				updated := questionFromReq(quizID, qReq)
				updated.ID = qReq.ID
				updated.CreatedAt = existingMap[qReq.ID].CreatedAt
				if err := s.QuizRepo.UpdateQuestion(updated); err != nil {
					return nil, err
				}
				keptIDs[qReq.ID] = true
			} else {
				if err := s.QuizRepo.CreateQuestion(questionFromReq(quizID, qReq)); err != nil {
					return nil, err
				}
			}
		}

		// 未出现在请求中的旧题目删除
		for id := range existingMap {
			if !keptIDs[id] {
				if err := s.QuizRepo.DeleteQuestion(id); err != nil {
					return nil, err
				}
			}
		}

		if err := s.QuizRepo.RecalculateTotalPoints(quizID); err != nil {
			return nil, err
		}
	}

	return s.QuizRepo.FindByID(quizID)
}

func (s *QuizService) Delete(quizID, userID uint, isAdmin bool) error {
	if _, err := s.getOwned(quizID, userID, isAdmin); err != nil {
		return err
	}
	return s.QuizRepo.Delete(quizID)
}

func (s *QuizService) getOwned(quizID, userID uint, isAdmin bool) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	if !isAdmin && quiz.CreatorID != userID {
		return nil, util.ErrPermissionDenied
	}
	return quiz, nil
}

// GetForTeacher 返回含答案键的完整测验
func (s *QuizService) GetForTeacher(quizID, userID uint, isAdmin bool) (*model.Quiz, []QuizQuestionReq, error) {
	quiz, err := s.getOwned(quizID, userID, isAdmin)
	if err != nil {
		return nil, nil, err
	}

	questions := make([]QuizQuestionReq, len(quiz.Questions))
	for i, q := range quiz.Questions {
		req := QuizQuestionReq{
			ID:            q.ID,
			Type:          q.Type,
			Prompt:        q.Prompt,
			CaseSensitive: q.CaseSensitive,
			Points:        q.Points,
			Explanation:   q.Explanation,
			Order:         q.Order,
		}
		if len(q.Options) > 0 {
			json.Unmarshal(q.Options, &req.Options)
		}
		ci := q.CorrectIndex
		req.CorrectIndex = &ci
		if len(q.Blanks) > 0 {
			json.Unmarshal(q.Blanks, &req.Blanks)
		}
		if len(q.Pairs) > 0 {
			json.Unmarshal(q.Pairs, &req.Pairs)
		}
		exp := q.Expected
		req.Expected = &exp
		questions[i] = req
	}

	return quiz, questions, nil
}

// StudentQuiz 学生端测验视图，不包含任何答案键字段
type StudentQuiz struct {
	ID           uint                 `json:"id"`
	Title        string               `json:"title"`
	Description  string               `json:"description"`
	PassingScore int                  `json:"passingScore"`
	MaxAttempts  int                  `json:"maxAttempts"`
	TimeLimit    int                  `json:"timeLimit"`
	TotalPoints  int                  `json:"totalPoints"`
	AttemptsUsed int                  `json:"attemptsUsed"`
	Questions    []model.QuizQuestion `json:"questions"`
}

// GetForStudent 学生获取测验。答案键字段靠模型的json标签剥除；
// 开启乱序时只打乱展示顺序，评分仍按原始题序对齐。
func (s *QuizService) GetForStudent(quizID, userID uint) (*StudentQuiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotPublished
	}

	used, err := s.AttemptRepo.CountByUserAndQuiz(userID, quiz.ID)
	if err != nil {
		return nil, err
	}

	questions := quiz.Questions
	if quiz.RandomizeQuestions {
		questions = grading.Shuffle(questions)
	}

	return &StudentQuiz{
		ID:           quiz.ID,
		Title:        quiz.Title,
		Description:  quiz.Description,
		PassingScore: quiz.PassingScore,
		MaxAttempts:  quiz.MaxAttempts,
		TimeLimit:    quiz.TimeLimit,
		TotalPoints:  quiz.TotalPoints,
		AttemptsUsed: int(used),
		Questions:    questions,
	}, nil
}

// keyFromQuestion 把存储的题目行转成评分引擎的答案键
func keyFromQuestion(q model.QuizQuestion) grading.Question {
	key := grading.Question{
		ID:            q.ID,
		Type:          q.Type,
		Points:        q.Points,
		CorrectIndex:  q.CorrectIndex,
		CaseSensitive: q.CaseSensitive,
		Expected:      q.Expected,
	}
	if len(q.Blanks) > 0 {
		json.Unmarshal(q.Blanks, &key.Blanks)
	}
	if len(q.Pairs) > 0 {
		json.Unmarshal(q.Pairs, &key.Pairs)
	}
	return key
}

type SubmitReq struct {
	// 与题目按位置一一对应的作答列表，元素形状依题型而定
	Answers  []json.RawMessage `json:"answers"`
	Duration int               `json:"duration"`
}

// SubmitResult 提交响应。ShowCorrectAnswers关闭时不回传逐题结果
type SubmitResult struct {
	AttemptID     string                 `json:"attemptId"`
	AttemptNumber int                    `json:"attemptNumber"`
	EarnedPoints  int                    `json:"earnedPoints"`
	TotalPoints   int                    `json:"totalPoints"`
	Score         int                    `json:"score"`
	Passed        bool                   `json:"passed"`
	Answers       []grading.GradedAnswer `json:"answers,omitempty"`
}

// Submit 评分并持久化一次答题。评分本身绝不失败；
// 这里只暴露编排层错误：测验不存在、未发布、次数用尽。
func (s *QuizService) Submit(userID, quizID uint, req SubmitReq) (*SubmitResult, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrQuizNotFound
	}
	if err != nil {
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotPublished
	}

	used, err := s.AttemptRepo.CountByUserAndQuiz(userID, quiz.ID)
	if err != nil {
		return nil, err
	}
	if quiz.MaxAttempts > 0 && int(used) >= quiz.MaxAttempts {
		return nil, util.ErrMaxAttemptsReached
	}

	key := grading.QuizKey{
		Questions:    make([]grading.Question, len(quiz.Questions)),
		PassingScore: quiz.PassingScore,
		TotalPoints:  quiz.TotalPoints,
	}
	for i, q := range quiz.Questions {
		key.Questions[i] = keyFromQuestion(q)
	}

	// 作答解析失败不报错：留空即按未答判错
	submitted := make([]interface{}, len(req.Answers))
	for i, raw := range req.Answers {
		if len(raw) == 0 {
			continue
		}
		var v interface{}
		if err := json.Unmarshal(raw, &v); err == nil {
			submitted[i] = v
		}
	}

	result := grading.GradeQuiz(key, submitted)

	answersJSON, err := json.Marshal(result.Answers)
	if err != nil {
		return nil, err
	}

	attempt := &model.QuizAttempt{
		QuizID:        quiz.ID,
		UserID:        userID,
		AttemptNumber: int(used) + 1,
		Answers:       answersJSON,
		EarnedPoints:  result.EarnedPoints,
		TotalPoints:   result.TotalPoints,
		Score:         result.Score,
		Passed:        result.Passed,
		Duration:      req.Duration,
	}

	if err := s.AttemptRepo.CreateWithQuizStats(attempt); err != nil {
		return nil, err
	}

	monitoring.QuizSubmissions.WithLabelValues(fmt.Sprintf("%t", result.Passed)).Inc()

	res := &SubmitResult{
		AttemptID:     attempt.ID,
		AttemptNumber: attempt.AttemptNumber,
		EarnedPoints:  result.EarnedPoints,
		TotalPoints:   result.TotalPoints,
		Score:         result.Score,
		Passed:        result.Passed,
	}
	if quiz.ShowCorrectAnswers {
		res.Answers = result.Answers
	}
	return res, nil
}

func (s *QuizService) ListMyAttempts(userID, quizID uint) ([]model.QuizAttempt, error) {
	return s.AttemptRepo.ListByUserAndQuiz(userID, quizID)
}

func (s *QuizService) ListAttempts(quizID, userID uint, isAdmin bool, page, limit int) ([]model.QuizAttempt, int64, error) {
	if _, err := s.getOwned(quizID, userID, isAdmin); err != nil {
		return nil, 0, err
	}
	return s.AttemptRepo.ListByQuiz(quizID, page, limit)
}

// Stats 从历史答题记录按需汇总统计，不在测验行上做任何快照
func (s *QuizService) Stats(quizID, userID uint, isAdmin bool) (*grading.Stats, error) {
	if _, err := s.getOwned(quizID, userID, isAdmin); err != nil {
		return nil, err
	}

	attempts, err := s.AttemptRepo.ListScoresByQuiz(quizID)
	if err != nil {
		return nil, err
	}

	scores := make([]grading.AttemptScore, len(attempts))
	for i, a := range attempts {
		scores[i] = grading.AttemptScore{Score: a.Score, Passed: a.Passed}
	}

	stats := grading.CalculateStats(scores)
	return &stats, nil
}

func (s *QuizService) ListByLesson(lessonID uint) ([]model.Quiz, error) {
	return s.QuizRepo.FindByLesson(lessonID)
}
