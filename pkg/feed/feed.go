// Package feed assembles the top story list: listing fetch first, then the
// concurrent detail fetch.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/Sternrassler/hn-reader/pkg/hn"
	"github.com/Sternrassler/hn-reader/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultStoryLimit is how many top stories a session loads.
const DefaultStoryLimit = 50

// IDFetcher returns the ranked top story ids. *hn.Client implements it.
type IDFetcher interface {
	FetchTopStoryIDs(ctx context.Context, limit int) ([]hn.StoryID, error)
}

// StoryLoader fetches story details for ids. *loader.Loader implements it.
type StoryLoader interface {
	FetchStories(ctx context.Context, ids []hn.StoryID) []hn.Story
}

// Service builds story lists. It keeps no state between calls.
type Service struct {
	ids    IDFetcher
	loader StoryLoader
	limit  int
	logger zerolog.Logger
}

// NewService creates a feed service loading up to limit stories.
func NewService(ids IDFetcher, loader StoryLoader, limit int) *Service {
	if limit <= 0 {
		limit = DefaultStoryLimit
	}
	return &Service{
		ids:    ids,
		loader: loader,
		limit:  limit,
		logger: logging.NewLogger("feed"),
	}
}

// Load returns the ranked story list. A listing failure returns an empty,
// non-nil list together with the error; item failures only shorten the list.
func (s *Service) Load(ctx context.Context) ([]hn.Story, error) {
	start := time.Now()

	ids, err := s.ids.FetchTopStoryIDs(ctx, s.limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Listing fetch failed, returning empty story list")
		return []hn.Story{}, fmt.Errorf("fetch top stories: %w", err)
	}

	stories := s.loader.FetchStories(ctx, ids)

	s.logger.Info().
		Int("ids", len(ids)).
		Int("stories", len(stories)).
		Dur("duration", time.Since(start)).
		Msg("Story list loaded")

	return stories, nil
}

// ErrorNotice is the user-visible message for a failed Load.
func ErrorNotice(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error fetching stories: %v", err)
}
