// cmd/taxnews/types.go
package main

import "time"

// Priority is the computed importance of a news item
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Source describes one remote feed. Sources are loaded once at startup
// and never mutated afterwards.
type Source struct {
	ID       string   `yaml:"id" json:"id"`
	Name     string   `yaml:"name" json:"name"`
	URL      string   `yaml:"url" json:"url"`
	Category string   `yaml:"category" json:"category"`
	Priority Priority `yaml:"priority" json:"priority"`
}

// RawItem is one parsed feed entry before classification
type RawItem struct {
	ID        string
	Title     string
	Summary   string
	Content   string
	Link      string
	GUID      string
	Author    string
	Published time.Time
}

// NewsItem is a classified news article. Immutable once built; a whole
// snapshot is replaced when a newer aggregation cycle completes.
type NewsItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Content     string    `json:"content,omitempty"`
	SourceID    string    `json:"sourceId"`
	SourceName  string    `json:"sourceName"`
	Category    string    `json:"category"`
	Priority    Priority  `json:"priority"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"publishedAt"`
	URL         string    `json:"url"`
	Author      string    `json:"author"`
	IsBreaking  bool      `json:"isBreaking"`
}

// Snapshot is one complete, merged aggregation result. Items are ordered
// by PublishedAt descending.
type Snapshot struct {
	Items       []NewsItem `json:"items"`
	GeneratedAt time.Time  `json:"generatedAt"`
}
