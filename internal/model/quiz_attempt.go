package model

import (
	"encoding/json"
	"time"
)

type AttemptStatus string

const (
	AttemptActive   AttemptStatus = "active"
	AttemptFinished AttemptStatus = "finished"
)

// QuizAttempt 一次测验
// QuestionIDs 创建后不再变化；已答集合由 QuestionAttempt 子表推导，不做冗余指针
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	UserID         uint          `gorm:"index:idx_user_lesson_mode_attempt" json:"userId"`
	UnitID         string        `gorm:"size:64" json:"unitId"`
	LessonID       string        `gorm:"size:64;index:idx_user_lesson_mode_attempt" json:"lessonId"`
	Mode           Mode          `gorm:"size:16;index:idx_user_lesson_mode_attempt" json:"mode"`
	QuestionIDs    string        `gorm:"type:json;not null" json:"-"` // 出题顺序，JSON 字符串数组
	TotalQuestions int           `gorm:"default:0" json:"totalQuestions"`
	CorrectCount   int           `gorm:"default:0" json:"correctCount"`
	XPEarned       int           `gorm:"default:0" json:"xpEarned"`
	Score          float64       `gorm:"default:0" json:"score"` // 结算时的正确率
	Status         AttemptStatus `gorm:"size:16;default:'active';index" json:"status"`
	FinishedAt     *time.Time    `json:"finishedAt,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}

func (a *QuizAttempt) QuestionIDList() []string {
	var ids []string
	if a.QuestionIDs == "" {
		return ids
	}
	if err := json.Unmarshal([]byte(a.QuestionIDs), &ids); err != nil {
		return nil
	}
	return ids
}

func (a *QuizAttempt) SetQuestionIDs(ids []string) error {
	data, err := json.Marshal(ids)
	if err != nil {
		return err
	}
	a.QuestionIDs = string(data)
	return nil
}
