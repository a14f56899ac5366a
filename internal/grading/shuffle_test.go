package grading

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShuffleIsPermutation(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}

	out := Shuffle(items)

	assert.Len(t, out, len(items))
	assert.ElementsMatch(t, items, out)
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	items := []string{"a", "b", "c", "d"}
	original := []string{"a", "b", "c", "d"}

	for i := 0; i < 20; i++ {
		Shuffle(items)
	}

	assert.Equal(t, original, items)
}

func TestShuffleEmptyAndSingle(t *testing.T) {
	assert.Empty(t, Shuffle([]int{}))
	assert.Equal(t, []int{42}, Shuffle([]int{42}))
}

// 多次打乱至少出现一次非恒等排列，固定100次几乎不可能全部失败
func TestShuffleActuallyShuffles(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}

	for i := 0; i < 100; i++ {
		out := Shuffle(items)
		for j := range out {
			if out[j] != items[j] {
				return
			}
		}
	}
	t.Fatal("shuffle returned the identity permutation 100 times in a row")
}
