// Package view turns stories into display rows.
package view

import (
	"time"

	"github.com/Sternrassler/hn-reader/pkg/hn"
	"github.com/Sternrassler/hn-reader/pkg/timeago"
)

// Row is one rendered line of the story list.
type Row struct {
	Rank          int        `json:"rank"`
	ID            hn.StoryID `json:"id"`
	Title         string     `json:"title"`
	URL           string     `json:"url"`
	Score         int        `json:"score"`
	Author        string     `json:"author"`
	AuthorURL     string     `json:"author_url"`
	Comments      int        `json:"comments"`
	DiscussionURL string     `json:"discussion_url"`
	Age           string     `json:"age"`
}

// BuildRows renders stories with 1-based ranks and ages relative to now.
func BuildRows(stories []hn.Story, now time.Time) []Row {
	rows := make([]Row, len(stories))
	for i, s := range stories {
		rows[i] = NewRow(i+1, s, now)
	}
	return rows
}

// NewRow renders a single story at rank.
func NewRow(rank int, s hn.Story, now time.Time) Row {
	return Row{
		Rank:          rank,
		ID:            s.ID,
		Title:         s.Title,
		URL:           s.URL,
		Score:         s.Score,
		Author:        s.By,
		AuthorURL:     s.AuthorURL(),
		Comments:      s.Descendants,
		DiscussionURL: s.DiscussionURL(),
		Age:           timeago.Format(s.Time, now.Unix()),
	}
}
