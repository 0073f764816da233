package model

// swagger:model Lesson
type Lesson struct {
	BaseModel
	LessonID         string `gorm:"size:64;uniqueIndex" json:"lessonId"`
	UnitID           string `gorm:"size:64;index" json:"unitId"`
	Title            string `gorm:"size:255;not null" json:"title"`
	Subtitle         string `gorm:"size:255" json:"subtitle"`
	Order            int    `gorm:"index" json:"order"` // 单元内顺序，从1开始
	EstimatedMinutes int    `gorm:"default:3" json:"estimatedMinutes"`
	Published        bool   `gorm:"default:true" json:"published"`
}

func (Lesson) TableName() string {
	return "lessons"
}
