// Package session keeps the per-visitor reading state: the story list
// fetched when the session started and the "load more" window over it.
//
// A session is created with one fresh fetch of the top stories and lives
// until its TTL runs out. Nothing is shared between sessions; a new session
// always fetches again.
//
// # Stores
//
// Two Store implementations exist:
//
//   - MemoryStore keeps sessions in process (github.com/patrickmn/go-cache).
//   - RedisStore keeps them in Redis so several server replicas can serve the
//     same visitor.
//
// # Basic Usage
//
//	store := session.NewMemoryStore(time.Minute)
//	manager := session.NewManager(store, feedService, session.DefaultConfig())
//
//	s, err := manager.Create(ctx)
//	page := s.Page()              // first 10 stories
//	s, err = manager.LoadMore(ctx, s.ID)
//
// # Metrics
//
//   - hn_sessions_created_total{result} - Sessions created, by listing outcome
//   - hn_session_lookups_total{result} - Session lookups (hit, miss)
//   - hn_session_errors_total{operation} - Store operation errors
package session
