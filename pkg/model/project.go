package model

import "time"

// Project is a Flavortown project.
type Project struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	RepoURL     string    `json:"repo_url,omitempty"`
	DemoURL     string    `json:"demo_url,omitempty"`
	ReadmeURL   string    `json:"readme_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Devlog is a progress post attached to a project.
type Devlog struct {
	ID              int64     `json:"id"`
	Body            string    `json:"body"`
	LikesCount      int       `json:"likes_count"`
	CommentsCount   int       `json:"comments_count"`
	DurationSeconds int64     `json:"duration_seconds"`
	ScrapbookURL    string    `json:"scrapbook_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Duration returns the logged duration.
func (d Devlog) Duration() time.Duration {
	return time.Duration(d.DurationSeconds) * time.Second
}
