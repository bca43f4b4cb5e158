package models

import "time"

// Course is a personal playlist of provider videos owned by its creator.
type Course struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string    `json:"title" gorm:"type:varchar(200);not null;uniqueIndex:idx_courses_creator_title"`
	Description string    `json:"description" gorm:"type:text"`
	CreatorID   string    `json:"creatorId" gorm:"type:varchar(36);not null;index;uniqueIndex:idx_courses_creator_title"`
	IsCompleted bool      `json:"isCompleted" gorm:"not null;default:false"`
	Progress    int       `json:"progress" gorm:"not null;default:0"` // percent, 0-100
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CourseProgress summarizes completion of a course's videos.
type CourseProgress struct {
	CourseID        string `json:"courseId"`
	TotalVideos     int    `json:"totalVideos"`
	CompletedVideos int    `json:"completedVideos"`
	Progress        int    `json:"progress"`
	IsCompleted     bool   `json:"isCompleted"`
}

// ComputeProgress derives the rounded completion percentage.
func ComputeProgress(courseID string, total, completed int) CourseProgress {
	p := CourseProgress{CourseID: courseID, TotalVideos: total, CompletedVideos: completed}
	if total > 0 {
		p.Progress = (completed*100 + total/2) / total
		p.IsCompleted = completed == total
	}
	return p
}
