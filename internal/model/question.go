package model

import "encoding/json"

// Mode 练习模态
type Mode string

const (
	ModeListening Mode = "listening"
	ModeSpeaking  Mode = "speaking"
	ModeReading   Mode = "reading"
	ModeWriting   Mode = "writing"
)

// AllModes 固定的四种模态，顺序稳定
var AllModes = []Mode{ModeListening, ModeSpeaking, ModeReading, ModeWriting}

func IsValidMode(m string) bool {
	switch Mode(m) {
	case ModeListening, ModeSpeaking, ModeReading, ModeWriting:
		return true
	}
	return false
}

type QuestionType string

const (
	QuestionMCQ        QuestionType = "mcq"
	QuestionTypeAnswer QuestionType = "type_answer"
)

// Question 题库条目，对引擎只读
// swagger:model Question
type Question struct {
	BaseModel
	QuestionID    string       `gorm:"size:64;uniqueIndex" json:"questionId"`
	Mode          Mode         `gorm:"size:16;index" json:"mode"`
	Type          QuestionType `gorm:"size:16;default:'mcq'" json:"type"`
	Prompt        string       `gorm:"type:text;not null" json:"prompt"`
	Choices       string       `gorm:"type:json" json:"choices"` // JSON 字符串数组
	CorrectAnswer string       `gorm:"size:255;not null" json:"-"`
	CaseSensitive bool         `gorm:"default:false" json:"-"` // 仅 type_answer 生效
	Explanation   string       `gorm:"size:512" json:"-"`
	Hint          string       `gorm:"size:255" json:"hint"`
	Seq           int          `gorm:"index" json:"seq"` // 模态内稳定顺序，选题遍历依赖它
}

func (Question) TableName() string {
	return "questions"
}

// ChoiceList 解析 Choices JSON；损坏数据返回空列表
func (q *Question) ChoiceList() []string {
	if q.Choices == "" {
		return nil
	}
	var choices []string
	if err := json.Unmarshal([]byte(q.Choices), &choices); err != nil {
		return nil
	}
	return choices
}
