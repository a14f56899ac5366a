package repository

import (
	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

type TutorRepository struct {
	DB *gorm.DB
}

func NewTutorRepository(db *gorm.DB) *TutorRepository {
	return &TutorRepository{DB: db}
}

func (r *TutorRepository) CreateSession(session *model.TutorSession) error {
	return r.DB.Create(session).Error
}

func (r *TutorRepository) FindSession(id string, userID uint) (*model.TutorSession, error) {
	var session model.TutorSession
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&session).Error
	return &session, err
}

func (r *TutorRepository) ListSessions(userID uint) ([]model.TutorSession, error) {
	var sessions []model.TutorSession
	err := r.DB.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&sessions).Error
	return sessions, err
}

func (r *TutorRepository) DeleteSession(id string, userID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&model.TutorMessage{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.TutorSession{}).Error
	})
}

func (r *TutorRepository) CreateMessage(msg *model.TutorMessage) error {
	return r.DB.Create(msg).Error
}

// ListMessages 按时间升序取会话内消息，limit<=0 表示全部
func (r *TutorRepository) ListMessages(sessionID string, limit int) ([]model.TutorMessage, error) {
	q := r.DB.Where("session_id = ?", sessionID).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var messages []model.TutorMessage
	err := q.Find(&messages).Error
	return messages, err
}

// RecentHistory 取最近N条消息作为多轮对话上下文（按时间正序返回）
func (r *TutorRepository) RecentHistory(sessionID string, limit int) ([]model.TutorMessage, error) {
	var messages []model.TutorMessage
	err := r.DB.Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	// 倒序查出后翻转为正序
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}
