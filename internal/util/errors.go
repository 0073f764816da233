package util

import "errors"

var (
	ErrUserNotFound       = errors.New("用户不存在")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrUnitNotFound       = errors.New("unit not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrLessonLocked       = errors.New("lesson locked")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrNoQuestionsForMode = errors.New("no questions available for mode")
	ErrUnsupportedMode    = errors.New("unsupported practice mode")
	ErrAttemptNotFound    = errors.New("attempt not found")
	ErrAttemptFinished    = errors.New("attempt already finished")
	ErrNoCurrentQuestion  = errors.New("no current question")
	ErrQuestionNotInQuiz  = errors.New("question not part of this attempt")
	ErrAudioNotFound      = errors.New("audio asset not found")
)
