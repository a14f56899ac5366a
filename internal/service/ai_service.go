package service

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"lingua_edu_backend/internal/config"
	"net/http"
	"strings"
	"time"
)

type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: 120 * time.Second},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model    string          `json:"model"`
	Messages []AIChatMessage `json:"messages"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
		Delta   AIChatMessage `json:"delta"` // 流式响应
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// EstimateTokens 粗略估算token消耗，用于辅导限额记账。
// 对德语和英语文本按4字符≈1token折算，宁可高估不低估。
func EstimateTokens(texts ...string) int {
	total := 0
	for _, t := range texts {
		total += len(t)
	}
	tokens := total / 4
	if tokens < 1 && total > 0 {
		tokens = 1
	}
	return tokens
}

// systemPrompt 德语辅导的系统提示词。背景知识为空时使用通用版本。
func systemPrompt(context string) string {
	base := "你是一名专业的德语教师，帮助学生学习德语。" +
		"回答时请注意：名词必须带冠词（der/die/das）给出；" +
		"涉及语法时给出简明的规则和例句；" +
		"学生用中文提问就用中文解释，德语例句附中文翻译；" +
		"严禁回答与德语学习无关的问题，超出范围时礼貌拒绝并引导回到德语学习话题。"
	if context != "" {
		return fmt.Sprintf("%s\n\n请优先结合以下背景知识回答问题：\n\n%s", base, context)
	}
	return base
}

func (s *AIService) buildMessages(prompt, context string, history []AIChatMessage) []AIChatMessage {
	messages := []AIChatMessage{{Role: "system", Content: systemPrompt(context)}}
	for _, h := range history {
		messages = append(messages, AIChatMessage{Role: h.Role, Content: h.Content})
	}
	return append(messages, AIChatMessage{Role: "user", Content: prompt})
}

func (s *AIService) newRequest(body []byte) (*http.Request, error) {
	req, err := http.NewRequest("POST", s.config.BaseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	return req, nil
}

func (s *AIService) Chat(prompt string, context string, history []AIChatMessage) (string, error) {
	reqBody := ChatCompletionRequest{
		Model:    s.config.Model,
		Messages: s.buildMessages(prompt, context, history),
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := s.newRequest(jsonData)
	if err != nil {
		return "", err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}
	if len(result.Choices) > 0 {
		return result.Choices[0].Message.Content, nil
	}

	return "", fmt.Errorf("AI returned no choices")
}

// ChatStream 流式对话。增量内容依次写入返回的channel，
// 错误通过errChan上报，两个channel都会在结束时关闭。
func (s *AIService) ChatStream(prompt string, context string, history []AIChatMessage) (<-chan string, <-chan error) {
	out := make(chan string)
	errChan := make(chan error, 1)

	reqBody := map[string]interface{}{
		"model":    s.config.Model,
		"messages": s.buildMessages(prompt, context, history),
		"stream":   true,
	}
	jsonData, _ := json.Marshal(reqBody)

	go func() {
		defer close(out)
		defer close(errChan)

		req, err := s.newRequest(jsonData)
		if err != nil {
			errChan <- err
			return
		}

		resp, err := s.client.Do(req)
		if err != nil {
			errChan <- err
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(resp.Body)
			errChan <- fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
			return
		}

		reader := bufio.NewReader(resp.Body)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if err != io.EOF {
					errChan <- err
				}
				break
			}

			line = strings.TrimSpace(line)
			if line == "" || !strings.HasPrefix(line, "data: ") {
				continue
			}

			data := strings.TrimPrefix(line, "data: ")
			if data == "[DONE]" {
				break
			}

			var streamResp ChatCompletionResponse
			if err := json.Unmarshal([]byte(data), &streamResp); err != nil {
				continue
			}

			if len(streamResp.Choices) > 0 {
				content := streamResp.Choices[0].Delta.Content
				if content != "" {
					out <- content
				}
			}
		}
	}()

	return out, errChan
}
