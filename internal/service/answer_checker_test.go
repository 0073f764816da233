package service

import (
	"lingo_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
)

func textAnswer(s string) AnswerPayload {
	return AnswerPayload{Kind: AnswerText, Text: s}
}

func tokensAnswer(tokens ...string) AnswerPayload {
	return AnswerPayload{Kind: AnswerTokens, Tokens: tokens}
}

func TestCheckAnswerMCQ(t *testing.T) {
	q := &model.Question{Type: model.QuestionMCQ, CorrectAnswer: "Xin chào"}

	tests := []struct {
		name    string
		payload AnswerPayload
		want    bool
	}{
		{"exact match", textAnswer("Xin chào"), true},
		{"case mismatch", textAnswer("xin chào"), false},
		{"trailing space", textAnswer("Xin chào "), false},
		{"wrong option", textAnswer("Tạm biệt"), false},
		{"empty", textAnswer(""), false},
		{"tokens joined", tokensAnswer("Xin", "chào"), true},
		{"tokens wrong order", tokensAnswer("chào", "Xin"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckAnswer(q, tt.payload))
		})
	}
}

func TestCheckAnswerTypeAnswer(t *testing.T) {
	q := &model.Question{Type: model.QuestionTypeAnswer, CorrectAnswer: "cảm ơn"}

	tests := []struct {
		name    string
		payload AnswerPayload
		want    bool
	}{
		{"exact", textAnswer("cảm ơn"), true},
		{"surrounding whitespace trimmed", textAnswer("  cảm ơn  "), true},
		{"case insensitive by default", textAnswer("Cảm Ơn"), true},
		{"wrong text", textAnswer("tạm biệt"), false},
		{"tokens joined then compared", tokensAnswer("cảm", "ơn"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckAnswer(q, tt.payload))
		})
	}
}

func TestCheckAnswerCaseSensitiveFlag(t *testing.T) {
	q := &model.Question{Type: model.QuestionTypeAnswer, CorrectAnswer: "Hà Nội", CaseSensitive: true}

	assert.True(t, CheckAnswer(q, textAnswer("Hà Nội")))
	assert.True(t, CheckAnswer(q, textAnswer(" Hà Nội ")))
	assert.False(t, CheckAnswer(q, textAnswer("hà nội")))
}

func TestCheckAnswerUnknownKind(t *testing.T) {
	q := &model.Question{Type: model.QuestionMCQ, CorrectAnswer: "a"}
	assert.False(t, CheckAnswer(q, AnswerPayload{Kind: "gesture", Text: "a"}))
}

func TestAnswerPayloadCanonical(t *testing.T) {
	s, ok := tokensAnswer("tôi", "là", "học sinh").Canonical()
	assert.True(t, ok)
	assert.Equal(t, "tôi là học sinh", s)

	s, ok = textAnswer("hello").Canonical()
	assert.True(t, ok)
	assert.Equal(t, "hello", s)

	_, ok = AnswerPayload{Kind: "unknown"}.Canonical()
	assert.False(t, ok)
}

func TestAnswerPayloadEncodeRoundTrip(t *testing.T) {
	encoded := tokensAnswer("xin", "chào").Encode()
	assert.Contains(t, encoded, `"kind":"tokens"`)
	assert.Contains(t, encoded, `"xin"`)
}
