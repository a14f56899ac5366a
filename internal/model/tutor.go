package model

// TutorSession AI辅导会话，切分多轮对话的边界
type TutorSession struct {
	UUIDBase
	UserID uint   `gorm:"index" json:"userId"`
	Title  string `gorm:"size:200" json:"title"` // 取自首条提问
}

// TutorMessage 会话内的单条消息
type TutorMessage struct {
	BaseModel
	SessionID string `gorm:"size:36;index;not null" json:"sessionId"`
	UserID    uint   `gorm:"index" json:"userId"`
	Role      string `gorm:"size:10;not null" json:"role"` // user 或 assistant
	Content   string `gorm:"type:text;not null" json:"content"`
	Source    string `gorm:"size:20" json:"source"` // knowledge_base 或 llm
	Tokens    int    `json:"tokens"`                // 估算的token消耗，用于限额
}

func (TutorMessage) TableName() string {
	return "tutor_messages"
}
