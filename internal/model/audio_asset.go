package model

// AudioAsset 听力题音频资源
// swagger:model AudioAsset
type AudioAsset struct {
	BaseModel
	QuestionID string  `gorm:"size:64;uniqueIndex" json:"questionId"`
	URL        string  `gorm:"size:512;not null" json:"url"`
	Format     string  `gorm:"size:16" json:"format"`
	Duration   float64 `gorm:"default:0" json:"duration"` // 秒
	Size       int64   `gorm:"default:0" json:"size"`
	UploadedBy uint    `json:"uploadedBy"`
}

func (AudioAsset) TableName() string {
	return "audio_assets"
}
