package model

// QuestionAttempt 测验内单题作答记录
// 唯一索引保证同一 attempt 对同一题至多记录一次，重复提交靠它幂等
// swagger:model QuestionAttempt
type QuestionAttempt struct {
	BaseModel
	AttemptID  string `gorm:"size:36;uniqueIndex:idx_attempt_question" json:"attemptId"`
	QuestionID string `gorm:"size:64;uniqueIndex:idx_attempt_question" json:"questionId"`
	Answer     string `gorm:"type:text" json:"answer"`
	Correct    bool   `json:"correct"`
}

func (QuestionAttempt) TableName() string {
	return "question_attempts"
}
