package service

import (
	"errors"
	"fmt"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/ratelimit"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	sourceKnowledgeBase = "knowledge_base"
	sourceLLM           = "llm"

	historyDepth = 10 // 注入模型的历史消息条数
)

type TutorService struct {
	TutorRepo  *repository.TutorRepository
	DictRepo   *repository.DictionaryRepository
	LessonRepo *repository.LessonRepository
	AI         *AIService
	Limiter    ratelimit.Limiter
	Logger     *zap.Logger
}

func NewTutorService(tutorRepo *repository.TutorRepository, dictRepo *repository.DictionaryRepository, lessonRepo *repository.LessonRepository, ai *AIService, limiter ratelimit.Limiter, logger *zap.Logger) *TutorService {
	return &TutorService{
		TutorRepo:  tutorRepo,
		DictRepo:   dictRepo,
		LessonRepo: lessonRepo,
		AI:         ai,
		Limiter:    limiter,
		Logger:     logger,
	}
}

func (s *TutorService) ListSessions(userID uint) ([]model.TutorSession, error) {
	return s.TutorRepo.ListSessions(userID)
}

type SessionDetail struct {
	Session  model.TutorSession   `json:"session"`
	Messages []model.TutorMessage `json:"messages"`
}

func (s *TutorService) GetSession(sessionID string, userID uint) (*SessionDetail, error) {
	session, err := s.TutorRepo.FindSession(sessionID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	messages, err := s.TutorRepo.ListMessages(sessionID, 0)
	if err != nil {
		return nil, err
	}

	return &SessionDetail{Session: *session, Messages: messages}, nil
}

func (s *TutorService) DeleteSession(sessionID string, userID uint) error {
	if _, err := s.TutorRepo.FindSession(sessionID, userID); errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrSessionNotFound
	} else if err != nil {
		return err
	}
	return s.TutorRepo.DeleteSession(sessionID, userID)
}

// sessionTitle 用首条提问生成会话标题
func sessionTitle(question string) string {
	title := strings.TrimSpace(question)
	runes := []rune(title)
	if len(runes) > 50 {
		title = string(runes[:50])
	}
	return title
}

// ensureSession 取已有会话或用首条提问新建一个
func (s *TutorService) ensureSession(sessionID string, userID uint, question string) (*model.TutorSession, error) {
	if sessionID != "" {
		session, err := s.TutorRepo.FindSession(sessionID, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSessionNotFound
		}
		return session, err
	}

	session := &model.TutorSession{
		UserID: userID,
		Title:  sessionTitle(question),
	}
	if err := s.TutorRepo.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// questionWords 抽取提问中可能是德语词的token用于词典检索
func questionWords(question string) []string {
	fields := strings.FieldsFunc(question, func(r rune) bool {
		return !unicode.IsLetter(r)
	})

	seen := make(map[string]bool)
	var words []string
	for _, f := range fields {
		// 只有拉丁字母token才可能命中德语词典
		hasLatin := false
		for _, r := range f {
			if r < 0x2E80 {
				hasLatin = true
				break
			}
		}
		if !hasLatin || len([]rune(f)) < 3 {
			continue
		}

		key := strings.ToLower(f)
		if !seen[key] {
			seen[key] = true
			words = append(words, f)
		}
	}
	return words
}

// lessonSnippet 截取课文正文开头作为背景片段
func lessonSnippet(content string) string {
	snippet := strings.TrimSpace(content)
	runes := []rune(snippet)
	if len(runes) > 200 {
		snippet = string(runes[:200]) + "…"
	}
	return snippet
}

// retrieveContext 先查词典条目，再按提问词匹配已发布课文标题，拼成背景知识。
// 命中为空时返回空串，模型退回纯LLM回答。
func (s *TutorService) retrieveContext(question string) string {
	var parts []string
	words := questionWords(question)

	for _, word := range words {
		entries, _, err := s.DictRepo.Search(word, "", "", 1, 2)
		if err != nil || len(entries) == 0 {
			continue
		}
		for _, e := range entries {
			headword := e.Word
			if e.Article != "" {
				headword = e.Article + " " + e.Word
			}
			part := fmt.Sprintf("%s（%s，%s）：%s", headword, e.PartOfSpeech, e.Level, e.Translation)
			if e.Example != "" {
				part += "。例句：" + e.Example
			}
			parts = append(parts, part)
		}
		if len(parts) >= 8 {
			return strings.Join(parts, "\n")
		}
	}

	for _, word := range words {
		lessons, err := s.LessonRepo.SearchByTitle(word, 1)
		if err != nil || len(lessons) == 0 {
			continue
		}
		for _, l := range lessons {
			parts = append(parts, fmt.Sprintf("课文《%s》：%s", l.Title, lessonSnippet(l.Content)))
		}
		if len(parts) >= 8 {
			break
		}
	}

	return strings.Join(parts, "\n")
}

// history 取会话内最近的消息转成模型输入格式
func (s *TutorService) history(sessionID string) []AIChatMessage {
	messages, err := s.TutorRepo.RecentHistory(sessionID, historyDepth)
	if err != nil {
		return nil
	}

	out := make([]AIChatMessage, len(messages))
	for i, m := range messages {
		out[i] = AIChatMessage{Role: m.Role, Content: m.Content}
	}
	return out
}

func (s *TutorService) source(context string) string {
	if context != "" {
		return sourceKnowledgeBase
	}
	return sourceLLM
}

// persistExchange 保存一轮问答并补记token消耗
func (s *TutorService) persistExchange(session *model.TutorSession, userID uint, question, answer, source string) {
	tokens := EstimateTokens(question, answer)

	if err := s.TutorRepo.CreateMessage(&model.TutorMessage{
		SessionID: session.ID,
		UserID:    userID,
		Role:      "user",
		Content:   question,
	}); err != nil {
		s.Logger.Error("保存提问消息失败", zap.String("session", session.ID), zap.Error(err))
	}

	if err := s.TutorRepo.CreateMessage(&model.TutorMessage{
		SessionID: session.ID,
		UserID:    userID,
		Role:      "assistant",
		Content:   answer,
		Source:    source,
		Tokens:    tokens,
	}); err != nil {
		s.Logger.Error("保存回答消息失败", zap.String("session", session.ID), zap.Error(err))
	}

	s.Limiter.RecordTokens(userID, tokens)
}

type AskResult struct {
	SessionID string `json:"sessionId"`
	Answer    string `json:"answer"`
	Source    string `json:"source"`
}

// Ask 非流式问答：检索背景知识、带历史调用模型并落库
func (s *TutorService) Ask(userID uint, sessionID, question string) (*AskResult, error) {
	session, err := s.ensureSession(sessionID, userID, question)
	if err != nil {
		return nil, err
	}

	context := s.retrieveContext(question)
	history := s.history(session.ID)

	answer, err := s.AI.Chat(question, context, history)
	if err != nil {
		return nil, err
	}

	source := s.source(context)
	s.persistExchange(session, userID, question, answer, source)

	return &AskResult{
		SessionID: session.ID,
		Answer:    answer,
		Source:    source,
	}, nil
}

// AskStream 流式问答。返回增量channel、错误channel和会话ID；
// 流结束后整轮问答由后台goroutine落库并记账。
func (s *TutorService) AskStream(userID uint, sessionID, question string) (<-chan string, <-chan error, string, error) {
	session, err := s.ensureSession(sessionID, userID, question)
	if err != nil {
		return nil, nil, "", err
	}

	context := s.retrieveContext(question)
	history := s.history(session.ID)

	chunks, aiErrs := s.AI.ChatStream(question, context, history)

	out := make(chan string)
	errChan := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errChan)

		var full strings.Builder
		for chunk := range chunks {
			full.WriteString(chunk)
			out <- chunk
		}
		if err, ok := <-aiErrs; ok && err != nil {
			errChan <- err
		}

		// 有部分输出也落库，保证历史与用户所见一致
		if full.Len() > 0 {
			s.persistExchange(session, userID, question, full.String(), s.source(context))
		}
	}()

	return out, errChan, session.ID, nil
}
