package repository

import (
	"lingo_backend/internal/model"

	"gorm.io/gorm"
)

type AudioRepository struct {
	DB *gorm.DB
}

func NewAudioRepository(db *gorm.DB) *AudioRepository {
	return &AudioRepository{DB: db}
}

func (r *AudioRepository) FindByQuestionID(questionID string) (*model.AudioAsset, error) {
	var asset model.AudioAsset
	err := r.DB.Where("question_id = ?", questionID).First(&asset).Error
	return &asset, err
}

func (r *AudioRepository) Upsert(asset *model.AudioAsset) error {
	var existing model.AudioAsset
	err := r.DB.Where("question_id = ?", asset.QuestionID).First(&existing).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(asset).Error
	}
	if err != nil {
		return err
	}
	asset.ID = existing.ID
	asset.CreatedAt = existing.CreatedAt
	return r.DB.Save(asset).Error
}

func (r *AudioRepository) Delete(questionID string) error {
	return r.DB.Where("question_id = ?", questionID).Delete(&model.AudioAsset{}).Error
}
