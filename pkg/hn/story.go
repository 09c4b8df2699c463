package hn

import (
	"fmt"
	"net/url"
)

// Defaults applied to optional item fields that the API omits.
const (
	DefaultAuthor = "Unknown"
	DefaultTitle  = "No Title"

	// TypeStory is the only item type that is shown in a story list.
	TypeStory = "story"
)

const (
	discussionURLFormat = "https://news.ycombinator.com/item?id=%d"
	userProfileURLBase  = "https://news.ycombinator.com/user?id="
)

// StoryID identifies an item on the Hacker News API.
type StoryID int

// Story is a fully decoded story record. Every field carries a value; the
// documented defaults replace anything the API left out.
type Story struct {
	ID          StoryID `json:"id"`
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	URL         string  `json:"url"`
	Score       int     `json:"score"`
	By          string  `json:"by"`
	Descendants int     `json:"descendants"` // comment count
	Time        int64   `json:"time"`        // Unix seconds
}

// DiscussionURL returns the story's comment page.
func (s Story) DiscussionURL() string {
	return DiscussionURL(s.ID)
}

// AuthorURL returns the profile page of the story's author.
func (s Story) AuthorURL() string {
	return UserProfileURL(s.By)
}

// item is the raw payload of /item/{id}.json. Pointer fields distinguish a
// missing field from a zero value.
type item struct {
	ID          StoryID `json:"id"`
	Type        string  `json:"type"`
	Title       *string `json:"title"`
	URL         *string `json:"url"`
	Score       *int    `json:"score"`
	By          *string `json:"by"`
	Descendants *int    `json:"descendants"`
	Time        *int64  `json:"time"`
}

// toStory applies the field defaults. The caller has already checked the type.
func (it *item) toStory() Story {
	s := Story{
		ID:    it.ID,
		Type:  it.Type,
		Title: DefaultTitle,
		By:    DefaultAuthor,
		URL:   DiscussionURL(it.ID),
	}
	if it.Title != nil {
		s.Title = *it.Title
	}
	if it.URL != nil && *it.URL != "" {
		s.URL = *it.URL
	}
	if it.Score != nil && *it.Score > 0 {
		s.Score = *it.Score
	}
	if it.By != nil {
		s.By = *it.By
	}
	if it.Descendants != nil && *it.Descendants > 0 {
		s.Descendants = *it.Descendants
	}
	if it.Time != nil {
		s.Time = *it.Time
	}
	return s
}

// DiscussionURL builds the comment page link for an item.
func DiscussionURL(id StoryID) string {
	return fmt.Sprintf(discussionURLFormat, id)
}

// UserProfileURL builds the profile link for a username. No network call.
func UserProfileURL(username string) string {
	return userProfileURLBase + url.QueryEscape(username)
}
