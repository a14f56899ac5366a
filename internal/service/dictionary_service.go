package service

import (
	"context"
	"encoding/json"
	"errors"
	"lingua_edu_backend/internal/grading"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type DictionaryService struct {
	DictRepo *repository.DictionaryRepository
	Redis    *redis.Client
}

func NewDictionaryService(dictRepo *repository.DictionaryRepository, rdb *redis.Client) *DictionaryService {
	return &DictionaryService{DictRepo: dictRepo, Redis: rdb}
}

type DictionaryEntryReq struct {
	Word         *string `json:"word"`
	Article      *string `json:"article"`
	Plural       *string `json:"plural"`
	Translation  *string `json:"translation"`
	PartOfSpeech *string `json:"partOfSpeech"`
	Level        *string `json:"level"`
	Example      *string `json:"example"`
	AudioURL     *string `json:"audioUrl"`
}

func applyEntryReq(entry *model.DictionaryEntry, req DictionaryEntryReq) error {
	if req.Word != nil && *req.Word != "" {
		entry.Word = *req.Word
	}
	if req.Article != nil {
		switch *req.Article {
		case "", "der", "die", "das":
			entry.Article = *req.Article
		default:
			return errors.New("article must be der, die or das")
		}
	}
	if req.Plural != nil {
		entry.Plural = *req.Plural
	}
	if req.Translation != nil && *req.Translation != "" {
		entry.Translation = *req.Translation
	}
	if req.PartOfSpeech != nil {
		entry.PartOfSpeech = *req.PartOfSpeech
	}
	if req.Level != nil {
		if !util.IsValidCEFRLevel(*req.Level) {
			return errors.New("invalid CEFR level")
		}
		entry.Level = *req.Level
	}
	if req.Example != nil {
		entry.Example = *req.Example
	}
	if req.AudioURL != nil {
		entry.AudioURL = *req.AudioURL
	}
	return nil
}

func (s *DictionaryService) Create(creatorID uint, req DictionaryEntryReq) (*model.DictionaryEntry, error) {
	if req.Word == nil || *req.Word == "" {
		return nil, errors.New("word is required")
	}
	if req.Translation == nil || *req.Translation == "" {
		return nil, errors.New("translation is required")
	}

	entry := &model.DictionaryEntry{CreatorID: creatorID, Level: "A1"}
	if err := applyEntryReq(entry, req); err != nil {
		return nil, err
	}

	if err := s.DictRepo.Create(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *DictionaryService) Update(entryID uint, req DictionaryEntryReq) (*model.DictionaryEntry, error) {
	entry, err := s.Get(entryID)
	if err != nil {
		return nil, err
	}
	if err := applyEntryReq(entry, req); err != nil {
		return nil, err
	}
	if err := s.DictRepo.Update(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *DictionaryService) Delete(entryID uint) error {
	if _, err := s.Get(entryID); err != nil {
		return err
	}
	return s.DictRepo.Delete(entryID)
}

func (s *DictionaryService) Get(entryID uint) (*model.DictionaryEntry, error) {
	entry, err := s.DictRepo.FindByID(entryID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrEntryNotFound
	}
	return entry, err
}

func (s *DictionaryService) Search(query, level, partOfSpeech string, page, limit int) ([]model.DictionaryEntry, int64, error) {
	return s.DictRepo.Search(query, level, partOfSpeech, page, limit)
}

const wordOfDayTTL = 25 * time.Hour

// WordOfTheDay 每日一词。当天首次请求随机抽取并写入Redis，
// 当天内的后续请求直接读缓存；Redis不可用时退化为每次随机。
func (s *DictionaryService) WordOfTheDay(ctx context.Context) (*model.DictionaryEntry, error) {
	key := "lingua:word_of_day:" + time.Now().Format("2006-01-02")

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var entry model.DictionaryEntry
			if json.Unmarshal([]byte(cached), &entry) == nil {
				return &entry, nil
			}
		}
	}

	entries, err := s.DictRepo.Random("", 1)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, util.ErrEntryNotFound
	}
	entry := entries[0]

	if s.Redis != nil {
		if data, err := json.Marshal(entry); err == nil {
			s.Redis.Set(ctx, key, data, wordOfDayTTL)
		}
	}

	return &entry, nil
}

// PracticeCard 单词卡：正面德语词，背面译文
type PracticeCard struct {
	Entry   model.DictionaryEntry `json:"entry"`
	Choices []string              `json:"choices"` // 干扰项与正确译文乱序混合
}

// Practice 生成一组单词卡练习。每张卡的选项由其余条目的译文
// 充当干扰项，乱序后返回。
func (s *DictionaryService) Practice(level string, count int) ([]PracticeCard, error) {
	if count < 1 || count > 50 {
		count = 10
	}

	// 多取一些条目做干扰项
	entries, err := s.DictRepo.Random(level, count+3)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, util.ErrEntryNotFound
	}
	if len(entries) < count {
		count = len(entries)
	}

	cards := make([]PracticeCard, count)
	for i := 0; i < count; i++ {
		choices := []string{entries[i].Translation}
		for j := range entries {
			if j != i && len(choices) < 4 {
				choices = append(choices, entries[j].Translation)
			}
		}
		cards[i] = PracticeCard{
			Entry:   entries[i],
			Choices: grading.Shuffle(choices),
		}
	}
	return grading.Shuffle(cards), nil
}

func (s *DictionaryService) SaveWord(userID, entryID uint) error {
	if _, err := s.Get(entryID); err != nil {
		return err
	}
	return s.DictRepo.SaveWord(userID, entryID)
}

func (s *DictionaryService) UnsaveWord(userID, entryID uint) error {
	return s.DictRepo.UnsaveWord(userID, entryID)
}

func (s *DictionaryService) ListSaved(userID uint) ([]model.DictionaryEntry, error) {
	return s.DictRepo.ListSavedWords(userID)
}
