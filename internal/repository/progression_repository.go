package repository

import (
	"lingo_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressionRepository struct {
	DB *gorm.DB
}

func NewProgressionRepository(db *gorm.DB) *ProgressionRepository {
	return &ProgressionRepository{DB: db}
}

func (r *ProgressionRepository) FindModeProgress(tx *gorm.DB, userID uint, lessonID string, mode model.Mode) (*model.PlanetModeProgress, error) {
	var p model.PlanetModeProgress
	err := tx.Where("user_id = ? AND lesson_id = ? AND mode = ?", userID, lessonID, mode).First(&p).Error
	return &p, err
}

func (r *ProgressionRepository) SaveModeProgress(tx *gorm.DB, p *model.PlanetModeProgress) error {
	return tx.Save(p).Error
}

func (r *ProgressionRepository) CreateModeProgress(tx *gorm.DB, p *model.PlanetModeProgress) error {
	return tx.Create(p).Error
}

func (r *ProgressionRepository) ListModeProgressByLesson(tx *gorm.DB, userID uint, lessonID string) ([]model.PlanetModeProgress, error) {
	var list []model.PlanetModeProgress
	err := tx.Where("user_id = ? AND lesson_id = ?", userID, lessonID).Find(&list).Error
	return list, err
}

func (r *ProgressionRepository) ListModeProgressByUser(userID uint) ([]model.PlanetModeProgress, error) {
	var list []model.PlanetModeProgress
	err := r.DB.Where("user_id = ?", userID).Find(&list).Error
	return list, err
}

// CountCompletedModes 某课程下已完成的模态数，4个即全部通关
func (r *ProgressionRepository) CountCompletedModes(tx *gorm.DB, userID uint, lessonID string) (int64, error) {
	var count int64
	err := tx.Model(&model.PlanetModeProgress{}).
		Where("user_id = ? AND lesson_id = ? AND state = ?", userID, lessonID, model.ProgressCompleted).
		Count(&count).Error
	return count, err
}

func (r *ProgressionRepository) FindUnitProgress(tx *gorm.DB, userID uint, unitID string) (*model.UnitProgress, error) {
	var p model.UnitProgress
	err := tx.Where("user_id = ? AND unit_id = ?", userID, unitID).First(&p).Error
	return &p, err
}

func (r *ProgressionRepository) SaveUnitProgress(tx *gorm.DB, p *model.UnitProgress) error {
	return tx.Save(p).Error
}

func (r *ProgressionRepository) CreateUnitProgress(tx *gorm.DB, p *model.UnitProgress) error {
	return tx.Create(p).Error
}

func (r *ProgressionRepository) ListUnitProgressByUser(userID uint) ([]model.UnitProgress, error) {
	var list []model.UnitProgress
	err := r.DB.Where("user_id = ?", userID).Find(&list).Error
	return list, err
}

func (r *ProgressionRepository) FindUserProgress(tx *gorm.DB, userID uint) (*model.UserProgress, error) {
	var p model.UserProgress
	err := tx.Where("user_id = ?", userID).First(&p).Error
	return &p, err
}

func (r *ProgressionRepository) SaveUserProgress(tx *gorm.DB, p *model.UserProgress) error {
	return tx.Save(p).Error
}

func (r *ProgressionRepository) CreateUserProgress(tx *gorm.DB, p *model.UserProgress) error {
	return tx.Create(p).Error
}
