package service

import (
	"encoding/json"
	"lingo_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleQuestion(mode model.Mode) *model.Question {
	qtype := model.QuestionMCQ
	if mode == model.ModeWriting {
		qtype = model.QuestionTypeAnswer
	}
	return &model.Question{
		QuestionID:    "q-001",
		Mode:          mode,
		Type:          qtype,
		Prompt:        "「こんにちは」是什么意思？",
		Choices:       `["Hello","Goodbye","Thanks","Sorry"]`,
		CorrectAnswer: "Hello",
		Explanation:   "基础问候语",
		Hint:          "greeting",
	}
}

func TestNormalizeQuestionReading(t *testing.T) {
	cq := NormalizeQuestion(sampleQuestion(model.ModeReading), "")

	assert.Equal(t, ClientMCQ, cq.Type)
	assert.Equal(t, []string{"Hello", "Goodbye", "Thanks", "Sorry"}, cq.Options)
	assert.Empty(t, cq.AudioURL)
	assert.Empty(t, cq.Placeholder)
}

func TestNormalizeQuestionListening(t *testing.T) {
	cq := NormalizeQuestion(sampleQuestion(model.ModeListening), "/uploads/audio/q-001.mp3")

	assert.Equal(t, ClientListenAndSelect, cq.Type)
	assert.Equal(t, "/uploads/audio/q-001.mp3", cq.AudioURL)
	assert.Len(t, cq.Options, 4)
}

func TestNormalizeQuestionWriting(t *testing.T) {
	q := sampleQuestion(model.ModeWriting)
	q.CaseSensitive = true
	cq := NormalizeQuestion(q, "")

	assert.Equal(t, ClientTypeAnswer, cq.Type)
	assert.Equal(t, "Type your answer here", cq.Placeholder)
	assert.True(t, cq.CaseSensitive)
	assert.Empty(t, cq.Options)
}

func TestNormalizeQuestionSpeakingFallsBackToMCQ(t *testing.T) {
	cq := NormalizeQuestion(sampleQuestion(model.ModeSpeaking), "")
	assert.Equal(t, ClientMCQ, cq.Type)
	assert.Len(t, cq.Options, 4)
}

// 题面序列化后不得泄露答案和解析
func TestClientQuestionNeverLeaksAnswer(t *testing.T) {
	for _, mode := range model.AllModes {
		cq := NormalizeQuestion(sampleQuestion(mode), "")
		data, err := json.Marshal(cq)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "correctAnswer", "mode %s leaked the answer field", mode)
		assert.NotContains(t, string(data), "基础问候语", "mode %s leaked the explanation", mode)
	}

	// 填空题连选项都不下发
	writing, err := json.Marshal(NormalizeQuestion(sampleQuestion(model.ModeWriting), ""))
	require.NoError(t, err)
	assert.NotContains(t, string(writing), "Hello")
}

func TestReveal(t *testing.T) {
	r := Reveal(sampleQuestion(model.ModeReading))
	assert.Equal(t, "Hello", r.CorrectAnswer)
	assert.Equal(t, "基础问候语", r.Explanation)
}
