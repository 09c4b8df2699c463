// Package loader fetches story detail records in parallel.
//
// The Hacker News API has no batch endpoint, so a page of N stories costs N
// item requests. This package runs them through a bounded worker pool and
// reassembles the results in ranking order.
//
// Example usage:
//
//	client, _ := hn.New(hn.DefaultConfig())
//	ids, err := client.FetchTopStoryIDs(ctx, 50)
//	if err != nil {
//		return err
//	}
//	stories := loader.New(client, loader.DefaultConfig()).FetchStories(ctx, ids)
//
// The loader:
//   - Starts MaxConcurrency workers (default 10) draining a queue of input positions
//   - Bounds every item request with its own timeout (default 5s)
//   - Writes each outcome into the slot of its input position
//   - Drops failed, malformed and non-story items without failing the batch
//   - Returns only after every dispatched request has settled
package loader
