package repository

import (
	"lingo_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// FindPoolByMode 按模态取完整题池，seq 升序保证顺序稳定
func (r *QuestionRepository) FindPoolByMode(mode model.Mode) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("mode = ?", mode).Order("seq ASC").Find(&questions).Error
	return questions, err
}

func (r *QuestionRepository) FindByQuestionID(questionID string) (*model.Question, error) {
	var question model.Question
	err := r.DB.Where("question_id = ?", questionID).First(&question).Error
	return &question, err
}

func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Save(question).Error
}

func (r *QuestionRepository) Delete(questionID string) error {
	return r.DB.Where("question_id = ?", questionID).Delete(&model.Question{}).Error
}
