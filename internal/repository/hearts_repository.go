package repository

import (
	"lingo_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HeartsRepository struct {
	DB *gorm.DB
}

func NewHeartsRepository(db *gorm.DB) *HeartsRepository {
	return &HeartsRepository{DB: db}
}

// FindForUpdate 行锁读取，按用户串行化读取结算和扣减，只能在事务内调用
// sqlite 无行锁语法，单写入者下直接读
func (r *HeartsRepository) FindForUpdate(tx *gorm.DB, userID uint) (*model.UserHearts, error) {
	if tx.Dialector.Name() == "mysql" {
		tx = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var hearts model.UserHearts
	err := tx.Where("user_id = ?", userID).First(&hearts).Error
	return &hearts, err
}

func (r *HeartsRepository) Create(tx *gorm.DB, hearts *model.UserHearts) error {
	return tx.Create(hearts).Error
}

func (r *HeartsRepository) Save(tx *gorm.DB, hearts *model.UserHearts) error {
	return tx.Save(hearts).Error
}
