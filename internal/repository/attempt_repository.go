package repository

import (
	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

// CreateWithQuizStats 在同一事务里保存答题记录并更新测验的滚动统计
// （累计答题次数与平均分）。答题记录创建后不再修改。
func (r *AttemptRepository) CreateWithQuizStats(attempt *model.QuizAttempt) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(attempt).Error; err != nil {
			return err
		}

		var quiz model.Quiz
		if err := tx.First(&quiz, attempt.QuizID).Error; err != nil {
			return err
		}

		// 滚动平均：avg' = (avg*n + score) / (n+1)
		newCount := quiz.AttemptCount + 1
		newAverage := (quiz.AverageScore*float64(quiz.AttemptCount) + float64(attempt.Score)) / float64(newCount)

		return tx.Model(&model.Quiz{}).
			Where("id = ?", quiz.ID).
			Updates(map[string]interface{}{
				"attempt_count": newCount,
				"average_score": newAverage,
			}).Error
	})
}

func (r *AttemptRepository) FindByID(id string) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("id = ?", id).First(&attempt).Error
	return &attempt, err
}

func (r *AttemptRepository) CountByUserAndQuiz(userID, quizID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Count(&count).Error
	return count, err
}

func (r *AttemptRepository) ListByUserAndQuiz(userID, quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Order("created_at ASC").
		Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListByQuiz(quizID uint, page, limit int) ([]model.QuizAttempt, int64, error) {
	var total int64
	if err := r.DB.Model(&model.QuizAttempt{}).
		Where("quiz_id = ?", quizID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var attempts []model.QuizAttempt
	err := r.DB.Where("quiz_id = ?", quizID).
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&attempts).Error
	return attempts, total, err
}

// ListScoresByQuiz 只取统计需要的字段，统计始终按需重算
func (r *AttemptRepository) ListScoresByQuiz(quizID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Select("score", "passed").
		Where("quiz_id = ?", quizID).
		Find(&attempts).Error
	return attempts, err
}
