package service

import "lingo_backend/internal/model"

type ClientQuestionType string

const (
	ClientMCQ             ClientQuestionType = "MCQ"
	ClientListenAndSelect ClientQuestionType = "LISTEN_AND_SELECT"
	ClientTypeAnswer      ClientQuestionType = "TYPE_ANSWER"
)

// ClientQuestion 下发给客户端的题面
// 结构上就不含正确答案和解析，提交前不可能泄露
type ClientQuestion struct {
	ID            string             `json:"id"`
	Prompt        string             `json:"prompt"`
	Type          ClientQuestionType `json:"type"`
	Options       []string           `json:"options,omitempty"`
	AudioURL      string             `json:"audioUrl,omitempty"`
	Placeholder   string             `json:"placeholder,omitempty"`
	CaseSensitive bool               `json:"caseSensitive,omitempty"`
	Hint          string             `json:"hint,omitempty"`
}

// AnswerReveal 提交后才返回的内容
type AnswerReveal struct {
	CorrectAnswer string `json:"correctAnswer"`
	Explanation   string `json:"explanation,omitempty"`
}

// NormalizeQuestion 模态到题型的映射：
// reading -> MCQ，listening -> LISTEN_AND_SELECT（带音频），
// writing -> TYPE_ANSWER，speaking 及其他 -> MCQ
func NormalizeQuestion(q *model.Question, audioURL string) *ClientQuestion {
	cq := &ClientQuestion{
		ID:     q.QuestionID,
		Prompt: q.Prompt,
		Hint:   q.Hint,
	}

	switch q.Mode {
	case model.ModeListening:
		cq.Type = ClientListenAndSelect
		cq.Options = q.ChoiceList()
		cq.AudioURL = audioURL
	case model.ModeWriting:
		cq.Type = ClientTypeAnswer
		cq.Placeholder = "Type your answer here"
		cq.CaseSensitive = q.CaseSensitive
	default:
		cq.Type = ClientMCQ
		cq.Options = q.ChoiceList()
	}

	return cq
}

// Reveal 提交后随判定结果一起返回
func Reveal(q *model.Question) AnswerReveal {
	return AnswerReveal{
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
	}
}
