package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMustParseUint(t *testing.T) {
	assert.Equal(t, uint(42), MustParseUint("42"))
	assert.Equal(t, uint(0), MustParseUint(""))
	assert.Equal(t, uint(0), MustParseUint("abc"))
	assert.Equal(t, uint(0), MustParseUint("-1"))
}

func TestParsePagination(t *testing.T) {
	page, limit := ParsePagination("2", "50")
	assert.Equal(t, 2, page)
	assert.Equal(t, 50, limit)

	// 默认值
	page, limit = ParsePagination("", "")
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	// 非法值回落默认
	page, limit = ParsePagination("0", "0")
	assert.Equal(t, 1, page)
	assert.Equal(t, 20, limit)

	// 超过上限回落默认
	_, limit = ParsePagination("1", "1000")
	assert.Equal(t, 20, limit)
}

func TestIsValidCEFRLevel(t *testing.T) {
	for _, l := range []string{"A1", "A2", "B1", "B2", "C1", "C2"} {
		assert.True(t, IsValidCEFRLevel(l), l)
	}
	assert.False(t, IsValidCEFRLevel("a1"))
	assert.False(t, IsValidCEFRLevel("D1"))
	assert.False(t, IsValidCEFRLevel(""))
}
