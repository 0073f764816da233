package model

import "time"

// UserHearts 用户红心余额，懒恢复：读取时按 LastRefillAt 结算
// swagger:model UserHearts
type UserHearts struct {
	BaseModel
	UserID          uint      `gorm:"uniqueIndex;not null" json:"userId"`
	Current         int       `gorm:"default:5" json:"current"`
	Max             int       `gorm:"default:5" json:"max"`
	SecondsPerHeart int       `gorm:"default:1800" json:"secondsPerHeart"`
	LastRefillAt    time.Time `json:"lastRefillAt"`
}

func (UserHearts) TableName() string {
	return "user_hearts"
}
