package pagination

import "github.com/Sternrassler/hn-reader/pkg/hn"

const (
	// DefaultInitialPageSize is the number of stories visible before any "load more".
	DefaultInitialPageSize = 10

	// DefaultPageSize is the number of stories each "load more" adds.
	DefaultPageSize = 10
)

// ViewState is the per-session window over a story list.
type ViewState struct {
	DisplayedCount int `json:"displayed_count"`
}

// NewViewState returns the state of a fresh session.
func NewViewState(initialPageSize int) ViewState {
	if initialPageSize <= 0 {
		initialPageSize = DefaultInitialPageSize
	}
	return ViewState{DisplayedCount: initialPageSize}
}

// Page is the visible part of a story list.
type Page struct {
	Stories     []hn.Story `json:"stories"`
	Remaining   int        `json:"remaining"`
	CanLoadMore bool       `json:"can_load_more"`
}

// GetPage returns stories[0:min(DisplayedCount, len(stories))], the number of
// stories still hidden and whether "load more" should be offered.
func GetPage(stories []hn.Story, state ViewState) Page {
	visible := visibleCount(len(stories), state.DisplayedCount)
	return Page{
		Stories:     stories[:visible:visible],
		Remaining:   len(stories) - visible,
		CanLoadMore: visible < len(stories),
	}
}

// Advance returns the state after one "load more". It does not clamp;
// GetPage does.
func Advance(state ViewState, pageSize int) ViewState {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return ViewState{DisplayedCount: max(state.DisplayedCount, 0) + pageSize}
}

func visibleCount(total, displayed int) int {
	if displayed < 0 {
		return 0
	}
	return min(displayed, total)
}
