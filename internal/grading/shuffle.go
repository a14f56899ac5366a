package grading

import "math/rand"

// Shuffle 返回均匀随机排列后的新切片，原切片保持不变。
// 仅用于展示层打乱题目/选项顺序，与评分结果无关。
func Shuffle[T any](items []T) []T {
	out := make([]T, len(items))
	copy(out, items)
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
