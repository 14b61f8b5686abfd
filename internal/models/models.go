package models

import (
	"time"

	"github.com/lib/pq"
)

type DiaryEntry struct {
	ID         int64          `db:"id" json:"id"`
	Title      string         `db:"title" json:"title"`
	Content    string         `db:"content" json:"content"`
	EntryDate  time.Time      `db:"entry_date" json:"entryDate"`
	Mood       *string        `db:"mood" json:"mood"`
	Tags       pq.StringArray `db:"tags" json:"tags"`
	Photo      *string        `db:"photo" json:"photo"`
	IsFavorite bool           `db:"is_favorite" json:"isFavorite"`
	CreatedAt  time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time      `db:"updated_at" json:"updatedAt"`
}

// FilterCriteria carries the optional list filters exactly as they arrive on
// the query string. Empty string means the filter is absent; values are never
// parsed here, the store decides whether a date is valid.
type FilterCriteria struct {
	StartDate string
	EndDate   string
	Mood      string
	Favorites string // only the literal "true" restricts to favorites
	Tag       string
}

type CreateEntryInput struct {
	Title     string
	Content   string
	EntryDate string // YYYY-MM-DD, empty means "today"
	Mood      *string
	Tags      []string
	Photo     *string
}

type UpdateEntryInput struct {
	Title      string
	Content    string
	EntryDate  string
	Mood       *string
	Tags       []string
	IsFavorite bool
}

type MoodCount struct {
	Mood  string `db:"mood" json:"mood"`
	Count int    `db:"count" json:"count"`
}

type MonthActivity struct {
	Month   time.Time `db:"month" json:"month"`
	Entries int       `db:"entries_count" json:"entriesCount"`
}

// StatisticsSnapshot is computed on demand and never persisted. The four
// sub-results come from independent queries, each reflects the store state at
// the moment of its own query.
type StatisticsSnapshot struct {
	TotalEntries     int             `json:"totalEntries"`
	FavoriteEntries  int             `json:"favoriteEntries"`
	MoodDistribution []MoodCount     `json:"moodDistribution"`
	MonthlyActivity  []MonthActivity `json:"monthlyActivity"`
}
