package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseNotPublished = errors.New("course not published")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrNotEnrolled        = errors.New("not enrolled in course")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuizNotPublished   = errors.New("quiz not published or not accessible")
	ErrMaxAttemptsReached = errors.New("maximum attempts reached")
	ErrEntryNotFound      = errors.New("dictionary entry not found")
	ErrSessionNotFound    = errors.New("tutor session not found")
)
