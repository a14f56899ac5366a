package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuestionWords(t *testing.T) {
	words := questionWords("Wie sage ich zu dir: Haus oder Häuser?")

	assert.Contains(t, words, "sage")
	assert.Contains(t, words, "Haus")
	assert.Contains(t, words, "Häuser")
	// 过短的token被丢弃
	assert.NotContains(t, words, "zu")
}

func TestQuestionWordsDeduplicates(t *testing.T) {
	words := questionWords("Haus haus HAUS")
	assert.Len(t, words, 1)
}

func TestQuestionWordsSkipsNonLatin(t *testing.T) {
	words := questionWords("请解释一下 Haus 这个词")

	assert.Equal(t, []string{"Haus"}, words)
}

func TestQuestionWordsEmpty(t *testing.T) {
	assert.Empty(t, questionWords(""))
	assert.Empty(t, questionWords("!!! ??? 123"))
}

func TestLessonSnippet(t *testing.T) {
	assert.Equal(t, "kurzer Text", lessonSnippet("  kurzer Text  "))

	long := strings.Repeat("德", 300)
	snippet := lessonSnippet(long)
	assert.Equal(t, strings.Repeat("德", 200)+"…", snippet)
}

func TestSessionTitle(t *testing.T) {
	assert.Equal(t, "Was bedeutet Haus?", sessionTitle("  Was bedeutet Haus?  "))

	long := strings.Repeat("a", 80)
	title := sessionTitle(long)
	assert.Len(t, []rune(title), 50)

	// 多字节字符按rune截断，不会截出半个字符
	cn := strings.Repeat("德", 60)
	assert.Equal(t, strings.Repeat("德", 50), sessionTitle(cn))
}
