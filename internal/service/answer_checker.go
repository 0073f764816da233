package service

import (
	"encoding/json"
	"lingo_backend/internal/model"
	"strings"
)

type AnswerKind string

const (
	AnswerText   AnswerKind = "text"
	AnswerTokens AnswerKind = "tokens"
)

// AnswerPayload 客户端提交的答案，带显式类型标签
// text 为自由文本；tokens 为词块拼句，按顺序以空格连接
type AnswerPayload struct {
	Kind   AnswerKind `json:"kind" binding:"required"`
	Text   string     `json:"text,omitempty"`
	Tokens []string   `json:"tokens,omitempty"`
}

// Canonical 归一成可比较的字符串；未知标签视为无效
func (p AnswerPayload) Canonical() (string, bool) {
	switch p.Kind {
	case AnswerText:
		return p.Text, true
	case AnswerTokens:
		return strings.Join(p.Tokens, " "), true
	}
	return "", false
}

// Encode 序列化存档，用于 QuestionAttempt.Answer
func (p AnswerPayload) Encode() string {
	data, err := json.Marshal(p)
	if err != nil {
		return ""
	}
	return string(data)
}

// CheckAnswer 按题型判定对错
// 选择题严格全等；填空题去首尾空白，按题目的大小写敏感标志比较
func CheckAnswer(q *model.Question, payload AnswerPayload) bool {
	submitted, ok := payload.Canonical()
	if !ok {
		return false
	}

	switch q.Type {
	case model.QuestionMCQ:
		return submitted == q.CorrectAnswer
	case model.QuestionTypeAnswer:
		sub := strings.TrimSpace(submitted)
		correct := strings.TrimSpace(q.CorrectAnswer)
		if q.CaseSensitive {
			return sub == correct
		}
		return strings.ToLower(sub) == strings.ToLower(correct)
	}

	return false
}
