package repository

import (
	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

type DictionaryRepository struct {
	DB *gorm.DB
}

func NewDictionaryRepository(db *gorm.DB) *DictionaryRepository {
	return &DictionaryRepository{DB: db}
}

func (r *DictionaryRepository) Create(entry *model.DictionaryEntry) error {
	return r.DB.Create(entry).Error
}

func (r *DictionaryRepository) FindByID(id uint) (*model.DictionaryEntry, error) {
	var entry model.DictionaryEntry
	err := r.DB.First(&entry, id).Error
	return &entry, err
}

func (r *DictionaryRepository) Update(entry *model.DictionaryEntry) error {
	return r.DB.Save(entry).Error
}

func (r *DictionaryRepository) Delete(id uint) error {
	return r.DB.Delete(&model.DictionaryEntry{}, id).Error
}

// Search 前缀匹配德语词或模糊匹配译文，支持等级与词性过滤
func (r *DictionaryRepository) Search(query, level, partOfSpeech string, page, limit int) ([]model.DictionaryEntry, int64, error) {
	q := r.DB.Model(&model.DictionaryEntry{})

	if query != "" {
		q = q.Where("word LIKE ? OR translation LIKE ?", query+"%", "%"+query+"%")
	}
	if level != "" {
		q = q.Where("level = ?", level)
	}
	if partOfSpeech != "" {
		q = q.Where("part_of_speech = ?", partOfSpeech)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []model.DictionaryEntry
	err := q.Order("word ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&entries).Error
	return entries, total, err
}

func (r *DictionaryRepository) FindByIDs(ids []uint) ([]model.DictionaryEntry, error) {
	var entries []model.DictionaryEntry
	err := r.DB.Where("id IN ?", ids).Find(&entries).Error
	return entries, err
}

// Random 随机抽取N个条目用于练习
func (r *DictionaryRepository) Random(level string, limit int) ([]model.DictionaryEntry, error) {
	q := r.DB.Model(&model.DictionaryEntry{})
	if level != "" {
		q = q.Where("level = ?", level)
	}

	var entries []model.DictionaryEntry
	err := q.Order("RAND()").Limit(limit).Find(&entries).Error
	return entries, err
}

func (r *DictionaryRepository) SaveWord(userID, entryID uint) error {
	return r.DB.FirstOrCreate(&model.SavedWord{}, model.SavedWord{
		UserID:  userID,
		EntryID: entryID,
	}).Error
}

func (r *DictionaryRepository) UnsaveWord(userID, entryID uint) error {
	return r.DB.Where("user_id = ? AND entry_id = ?", userID, entryID).
		Delete(&model.SavedWord{}).Error
}

func (r *DictionaryRepository) ListSavedWords(userID uint) ([]model.DictionaryEntry, error) {
	var entries []model.DictionaryEntry
	err := r.DB.Joins("JOIN saved_words ON saved_words.entry_id = dictionary_entries.id").
		Where("saved_words.user_id = ? AND saved_words.deleted_at IS NULL", userID).
		Find(&entries).Error
	return entries, err
}
