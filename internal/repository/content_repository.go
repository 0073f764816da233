package repository

import (
	"lingo_backend/internal/model"

	"gorm.io/gorm"
)

// ContentRepository 课程目录：单元与课程
type ContentRepository struct {
	DB *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{DB: db}
}

func (r *ContentRepository) ListUnits(publishedOnly bool) ([]model.Unit, error) {
	var units []model.Unit
	q := r.DB.Order("`order` ASC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	err := q.Find(&units).Error
	return units, err
}

func (r *ContentRepository) FindUnit(unitID string) (*model.Unit, error) {
	var unit model.Unit
	err := r.DB.Where("unit_id = ?", unitID).First(&unit).Error
	return &unit, err
}

func (r *ContentRepository) CreateUnit(unit *model.Unit) error {
	return r.DB.Create(unit).Error
}

func (r *ContentRepository) UpdateUnit(unit *model.Unit) error {
	return r.DB.Save(unit).Error
}

func (r *ContentRepository) DeleteUnit(unitID string) error {
	return r.DB.Where("unit_id = ?", unitID).Delete(&model.Unit{}).Error
}

func (r *ContentRepository) ListLessons(unitID string, publishedOnly bool) ([]model.Lesson, error) {
	var lessons []model.Lesson
	q := r.DB.Where("unit_id = ?", unitID).Order("`order` ASC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	err := q.Find(&lessons).Error
	return lessons, err
}

func (r *ContentRepository) ListAllLessons(publishedOnly bool) ([]model.Lesson, error) {
	var lessons []model.Lesson
	q := r.DB.Order("unit_id ASC, `order` ASC")
	if publishedOnly {
		q = q.Where("published = ?", true)
	}
	err := q.Find(&lessons).Error
	return lessons, err
}

func (r *ContentRepository) FindLesson(lessonID string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Where("lesson_id = ?", lessonID).First(&lesson).Error
	return &lesson, err
}

func (r *ContentRepository) CountLessons(unitID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).
		Where("unit_id = ? AND published = ?", unitID, true).
		Count(&count).Error
	return count, err
}

func (r *ContentRepository) CreateLesson(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *ContentRepository) UpdateLesson(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *ContentRepository) DeleteLesson(lessonID string) error {
	return r.DB.Where("lesson_id = ?", lessonID).Delete(&model.Lesson{}).Error
}
