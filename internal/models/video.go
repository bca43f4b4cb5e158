package models

import "time"

// Video is a provider video attached to a course.
type Video struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	VideoID      string    `json:"videoId" gorm:"type:varchar(64);not null;uniqueIndex:idx_videos_course_video"`
	Title        string    `json:"title" gorm:"type:varchar(255);not null"`
	Thumbnail    string    `json:"thumbnail" gorm:"type:varchar(512)"`
	Duration     string    `json:"duration" gorm:"type:varchar(32)"`
	ChannelTitle string    `json:"channelTitle" gorm:"type:varchar(255)"`
	CourseID     string    `json:"courseId" gorm:"type:varchar(36);not null;index;uniqueIndex:idx_videos_course_video"`
	IsCompleted  bool      `json:"isCompleted" gorm:"not null;default:false"`
	Order        int       `json:"order" gorm:"column:position;not null;default:0"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
