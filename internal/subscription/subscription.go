// Package subscription 管理订阅源，并通过 HTTP 抓取、解析和聚合它们的内容。
package subscription

import "time"

// Subscription 订阅源信息。
type Subscription struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	AddedAt     time.Time `json:"added_at"`
	LastFetched time.Time `json:"last_fetched,omitempty"`
}

// Entry 聚合后的条目。
type Entry struct {
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Link      string    `json:"link"`
	Published time.Time `json:"published"`
	FeedName  string    `json:"feed_name"`
}
