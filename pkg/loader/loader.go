package loader

import (
	"context"
	"sync"
	"time"

	"github.com/Sternrassler/hn-reader/pkg/hn"
	"github.com/Sternrassler/hn-reader/pkg/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	batchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "hn_loader_batch_duration_seconds",
		Help:    "Duration of a story batch fetch in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
	})

	itemsLoaded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hn_loader_items_loaded_total",
		Help: "Total number of stories successfully loaded",
	})

	itemsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hn_loader_items_dropped_total",
		Help: "Total number of items dropped from a batch by error class",
	}, []string{"class"})
)

// Config holds loader configuration.
type Config struct {
	// MaxConcurrency is the maximum number of item requests in flight.
	MaxConcurrency int
	// Timeout per item fetch.
	Timeout time.Duration
}

// DefaultConfig returns the configuration used against the public API.
func DefaultConfig() Config {
	return Config{
		MaxConcurrency: 10,
		Timeout:        5 * time.Second,
	}
}

// ItemFetcher fetches and decodes a single story. *hn.Client implements it.
type ItemFetcher interface {
	FetchItem(ctx context.Context, id hn.StoryID) (hn.Story, error)
}

// Result is the outcome of one item fetch. Exactly one of Story and Err is
// meaningful: Err == nil marks a success.
type Result struct {
	Index int
	ID    hn.StoryID
	Story hn.Story
	Err   error
}

// OK reports whether the item was fetched and accepted.
func (r Result) OK() bool {
	return r.Err == nil
}

// Loader fetches story details with a bounded worker pool.
type Loader struct {
	fetcher ItemFetcher
	config  Config
	logger  zerolog.Logger
}

// New creates a new loader. Non-positive config values fall back to the defaults.
func New(fetcher ItemFetcher, config Config) *Loader {
	defaults := DefaultConfig()
	if config.MaxConcurrency <= 0 {
		config.MaxConcurrency = defaults.MaxConcurrency
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}

	return &Loader{
		fetcher: fetcher,
		config:  config,
		logger:  logging.NewLogger("loader"),
	}
}

// Config returns the effective configuration.
func (l *Loader) Config() Config {
	return l.config
}

// FetchStories fetches every id and returns the accepted stories in the
// relative order of ids. Failures never surface; the batch shrinks instead.
func (l *Loader) FetchStories(ctx context.Context, ids []hn.StoryID) []hn.Story {
	return Stories(l.FetchResults(ctx, ids))
}

// FetchResults fetches every id and returns one Result per input position.
// results[i] always describes ids[i], whatever order the requests finished in.
func (l *Loader) FetchResults(ctx context.Context, ids []hn.StoryID) []Result {
	start := time.Now()
	defer func() {
		batchDuration.Observe(time.Since(start).Seconds())
	}()

	results := make([]Result, len(ids))
	if len(ids) == 0 {
		return results
	}

	workers := l.config.MaxConcurrency
	if workers > len(ids) {
		workers = len(ids)
	}

	l.logger.Debug().
		Int("ids", len(ids)).
		Int("workers", workers).
		Dur("item_timeout", l.config.Timeout).
		Msg("Starting story batch fetch")

	// Queue of input positions. Buffered to len(ids) so filling never blocks.
	queue := make(chan int, len(ids))
	for i := range ids {
		queue <- i
	}
	close(queue)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go l.worker(ctx, ids, queue, results, &wg, i)
	}
	wg.Wait()

	loaded := 0
	for _, r := range results {
		if r.OK() {
			loaded++
			continue
		}
		itemsDropped.WithLabelValues(dropClass(r.Err)).Inc()
	}
	itemsLoaded.Add(float64(loaded))

	l.logger.Info().
		Int("requested", len(ids)).
		Int("loaded", loaded).
		Int("dropped", len(ids)-loaded).
		Dur("duration", time.Since(start)).
		Msg("Story batch fetch complete")

	return results
}

// worker processes input positions from the queue. Each worker owns the slots
// it writes, so results needs no lock; wg.Wait publishes them to the caller.
func (l *Loader) worker(ctx context.Context, ids []hn.StoryID, queue <-chan int, results []Result, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	processed := 0

	for idx := range queue {
		id := ids[idx]
		results[idx] = Result{Index: idx, ID: id}

		if err := ctx.Err(); err != nil {
			results[idx].Err = &hn.ItemFetchError{ID: id, ErrorClass: hn.ErrorClassNetwork, Err: err}
			continue
		}

		itemCtx, cancel := context.WithTimeout(ctx, l.config.Timeout)
		story, err := l.fetcher.FetchItem(itemCtx, id)
		cancel()
		processed++

		if err != nil {
			results[idx].Err = err
			l.logDrop(workerID, id, err)
			continue
		}
		results[idx].Story = story
	}

	l.logger.Debug().
		Int("worker_id", workerID).
		Int("items_processed", processed).
		Msg("Worker completed")
}

// Stories filters results down to the accepted stories, keeping their order.
func Stories(results []Result) []hn.Story {
	stories := make([]hn.Story, 0, len(results))
	for _, r := range results {
		if r.OK() {
			stories = append(stories, r.Story)
		}
	}
	return stories
}

func (l *Loader) logDrop(workerID int, id hn.StoryID, err error) {
	class := hn.Class(err)
	event := l.logger.Warn()
	if class == hn.ErrorClassType {
		event = l.logger.Debug()
	}
	event.
		Err(err).
		Int("worker_id", workerID).
		Int("item_id", int(id)).
		Str("error_class", string(class)).
		Msg("Item dropped")
}

func dropClass(err error) string {
	if class := hn.Class(err); class != "" {
		return string(class)
	}
	return "unknown"
}
