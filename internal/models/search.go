package models

import "time"

// VideoResult is one provider search hit as returned to callers and cached.
type VideoResult struct {
	VideoID      string `json:"videoId"`
	Title        string `json:"title"`
	Thumbnail    string `json:"thumbnail"`
	ChannelTitle string `json:"channelTitle"`
	Duration     string `json:"duration"`
	Views        string `json:"views"`
}

// SearchCacheEntry is the cached, filtered result set for one exact query string.
type SearchCacheEntry struct {
	ID        string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Query     string        `json:"query" gorm:"uniqueIndex;type:text;not null"`
	Videos    []VideoResult `json:"videos" gorm:"serializer:json;type:text;not null"`
	CreatedAt time.Time     `json:"createdAt" gorm:"index;not null"`
}
