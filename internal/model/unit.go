package model

// swagger:model Unit
type Unit struct {
	BaseModel
	UnitID    string `gorm:"size:64;uniqueIndex" json:"unitId"`
	Title     string `gorm:"size:255;not null" json:"title"`
	Order     int    `gorm:"index" json:"order"`
	Published bool   `gorm:"default:true" json:"published"`
}

func (Unit) TableName() string {
	return "units"
}
