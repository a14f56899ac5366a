package model

// DictionaryEntry 德语词典条目
// swagger:model DictionaryEntry
type DictionaryEntry struct {
	BaseModel
	Word         string `gorm:"size:100;not null;index" json:"word"`
	Article      string `gorm:"size:3" json:"article"` // der/die/das，非名词为空
	Plural       string `gorm:"size:100" json:"plural"`
	Translation  string `gorm:"size:200;not null" json:"translation"`
	PartOfSpeech string `gorm:"size:20;index" json:"partOfSpeech"`
	Level        string `gorm:"size:5;index" json:"level"` // CEFR等级
	Example      string `gorm:"type:text" json:"example"`
	AudioURL     string `gorm:"size:255" json:"audioUrl"`
	CreatorID    uint   `json:"creatorId"`
}

// SavedWord 学生的生词本
type SavedWord struct {
	BaseModel
	UserID  uint `gorm:"index:idx_saved_user_entry,unique" json:"userId"`
	EntryID uint `gorm:"index:idx_saved_user_entry,unique" json:"entryId"`
}
