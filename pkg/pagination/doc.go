// Package pagination holds the "load more" view state of a story list.
//
// The presentation layer owns a ViewState per session and passes it in; the
// functions here never keep state of their own.
//
//	state := pagination.NewViewState(pagination.DefaultInitialPageSize)
//	page := pagination.GetPage(stories, state)
//	if page.CanLoadMore {
//		state = pagination.Advance(state, pagination.DefaultPageSize)
//	}
//
// GetPage clamps the visible window to the list, so a DisplayedCount larger
// than the list is harmless.
package pagination
