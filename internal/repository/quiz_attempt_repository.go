package repository

import (
	"lingo_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: db}
}

func (r *QuizAttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *QuizAttemptRepository) FindByID(id string) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("id = ?", id).First(&attempt).Error
	return &attempt, err
}

// FindByIDForUpdate 行锁读取，只能在事务内调用；并发提交靠它串行化
// sqlite 无行锁语法，单写入者下直接读
func (r *QuizAttemptRepository) FindByIDForUpdate(tx *gorm.DB, id string) (*model.QuizAttempt, error) {
	if tx.Dialector.Name() == "mysql" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var attempt model.QuizAttempt
	err := tx.Where("id = ?", id).First(&attempt).Error
	return &attempt, err
}

func (r *QuizAttemptRepository) FindActive(userID uint, lessonID string, mode model.Mode) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("user_id = ? AND lesson_id = ? AND mode = ? AND status = ?",
		userID, lessonID, mode, model.AttemptActive).
		Order("created_at DESC").First(&attempt).Error
	return &attempt, err
}

func (r *QuizAttemptRepository) Save(tx *gorm.DB, attempt *model.QuizAttempt) error {
	return tx.Save(attempt).Error
}

func (r *QuizAttemptRepository) FindQuestionAttempt(tx *gorm.DB, attemptID, questionID string) (*model.QuestionAttempt, error) {
	var qa model.QuestionAttempt
	err := tx.Where("attempt_id = ? AND question_id = ?", attemptID, questionID).First(&qa).Error
	return &qa, err
}

func (r *QuizAttemptRepository) CreateQuestionAttempt(tx *gorm.DB, qa *model.QuestionAttempt) error {
	return tx.Create(qa).Error
}

func (r *QuizAttemptRepository) ListQuestionAttempts(tx *gorm.DB, attemptID string) ([]model.QuestionAttempt, error) {
	var qas []model.QuestionAttempt
	err := tx.Where("attempt_id = ?", attemptID).Find(&qas).Error
	return qas, err
}
