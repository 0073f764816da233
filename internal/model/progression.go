package model

import "time"

type ProgressState string

const (
	ProgressLocked    ProgressState = "locked"
	ProgressAvailable ProgressState = "available"
	ProgressCompleted ProgressState = "completed"
)

// PlanetModeProgress 课程×模态粒度的进度
// 状态只能 locked→available→completed 前进，bestScore 只增不减
// swagger:model PlanetModeProgress
type PlanetModeProgress struct {
	BaseModel
	UserID        uint          `gorm:"uniqueIndex:idx_user_lesson_mode" json:"userId"`
	LessonID      string        `gorm:"size:64;uniqueIndex:idx_user_lesson_mode" json:"lessonId"`
	Mode          Mode          `gorm:"size:16;uniqueIndex:idx_user_lesson_mode" json:"mode"`
	State         ProgressState `gorm:"size:16;default:'locked'" json:"state"`
	BestScore     float64       `gorm:"default:0" json:"bestScore"`
	Attempts      int           `gorm:"default:0" json:"attempts"`
	CompletedAt   *time.Time    `json:"completedAt,omitempty"`
	LastAttemptAt *time.Time    `json:"lastAttemptAt,omitempty"`
}

func (PlanetModeProgress) TableName() string {
	return "planet_mode_progress"
}

// UnitProgress 单元粒度汇总，mastery 为单调递增计数
// swagger:model UnitProgress
type UnitProgress struct {
	BaseModel
	UserID           uint   `gorm:"uniqueIndex:idx_user_unit" json:"userId"`
	UnitID           string `gorm:"size:64;uniqueIndex:idx_user_unit" json:"unitId"`
	Mastery          int    `gorm:"default:0" json:"mastery"`
	CompletedLessons int    `gorm:"default:0" json:"completedLessons"`
	TotalLessons     int    `gorm:"default:0" json:"totalLessons"`
}

func (UnitProgress) TableName() string {
	return "unit_progress"
}

// UserProgress 账户级汇总：XP 与连续学习天数
// swagger:model UserProgress
type UserProgress struct {
	BaseModel
	UserID         uint      `gorm:"uniqueIndex;not null" json:"userId"`
	TotalXP        int       `gorm:"default:0" json:"totalXp"`
	Streak         int       `gorm:"default:0" json:"streak"`
	LastActiveDate time.Time `json:"lastActiveDate"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
