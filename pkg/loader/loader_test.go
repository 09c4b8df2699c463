package loader

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/Sternrassler/hn-reader/internal/testutil"
	"github.com/Sternrassler/hn-reader/pkg/hn"
)

// fakeFetcher answers from a table and records concurrency.
type fakeFetcher struct {
	mu        sync.Mutex
	types     map[hn.StoryID]string
	failures  map[hn.StoryID]error
	delays    map[hn.StoryID]time.Duration
	inFlight  int
	maxFlight int
	calls     int
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		types:    make(map[hn.StoryID]string),
		failures: make(map[hn.StoryID]error),
		delays:   make(map[hn.StoryID]time.Duration),
	}
}

func (f *fakeFetcher) FetchItem(ctx context.Context, id hn.StoryID) (hn.Story, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.maxFlight {
		f.maxFlight = f.inFlight
	}
	delay := f.delays[id]
	failure := f.failures[id]
	typ, ok := f.types[id]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return hn.Story{}, &hn.ItemFetchError{ID: id, ErrorClass: hn.ErrorClassNetwork, Err: ctx.Err()}
		}
	}
	if failure != nil {
		return hn.Story{}, failure
	}
	if !ok {
		typ = hn.TypeStory
	}
	if typ != hn.TypeStory {
		return hn.Story{}, &hn.ItemFetchError{ID: id, ErrorClass: hn.ErrorClassType, Err: fmt.Errorf("type %q", typ)}
	}
	return hn.Story{ID: id, Type: typ, Title: fmt.Sprintf("story %d", id)}, nil
}

func storyIDs(stories []hn.Story) []hn.StoryID {
	ids := make([]hn.StoryID, len(stories))
	for i, s := range stories {
		ids[i] = s.ID
	}
	return ids
}

func equalIDs(a, b []hn.StoryID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNew_Defaults(t *testing.T) {
	l := New(newFakeFetcher(), Config{})
	cfg := l.Config()

	if cfg.MaxConcurrency != 10 {
		t.Errorf("MaxConcurrency = %d, want 10", cfg.MaxConcurrency)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Timeout)
	}
}

func TestFetchStories_Empty(t *testing.T) {
	f := newFakeFetcher()
	stories := New(f, DefaultConfig()).FetchStories(context.Background(), nil)

	if stories == nil || len(stories) != 0 {
		t.Errorf("stories = %v, want empty non-nil slice", stories)
	}
	if f.calls != 0 {
		t.Errorf("calls = %d, want 0", f.calls)
	}
}

func TestFetchStories_TypeFilter(t *testing.T) {
	f := newFakeFetcher()
	f.types[2] = "comment"
	f.types[4] = "job"
	f.types[6] = "poll"

	ids := []hn.StoryID{1, 2, 3, 4, 5, 6}
	stories := New(f, DefaultConfig()).FetchStories(context.Background(), ids)

	for _, s := range stories {
		if s.Type != hn.TypeStory {
			t.Errorf("story %d has type %q", s.ID, s.Type)
		}
	}
	if got := storyIDs(stories); !equalIDs(got, []hn.StoryID{1, 3, 5}) {
		t.Errorf("ids = %v, want [1 3 5]", got)
	}
}

func TestFetchStories_OrderIndependentOfCompletion(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 5; round++ {
		t.Run(fmt.Sprintf("round_%d", round), func(t *testing.T) {
			f := newFakeFetcher()
			ids := make([]hn.StoryID, 30)
			var want []hn.StoryID
			for i := range ids {
				id := hn.StoryID(1000 + i)
				ids[i] = id
				f.delays[id] = time.Duration(rng.Intn(20)) * time.Millisecond
				if rng.Intn(4) == 0 {
					f.failures[id] = &hn.ItemFetchError{ID: id, ErrorClass: hn.ErrorClassServer}
					continue
				}
				want = append(want, id)
			}

			stories := New(f, Config{MaxConcurrency: 10, Timeout: time.Second}).FetchStories(context.Background(), ids)
			if got := storyIDs(stories); !equalIDs(got, want) {
				t.Errorf("ids = %v, want %v", got, want)
			}
		})
	}
}

func TestFetchStories_ReverseCompletion(t *testing.T) {
	f := newFakeFetcher()
	ids := []hn.StoryID{1, 2, 3, 4, 5}
	// Earlier ranks finish last.
	for i, id := range ids {
		f.delays[id] = time.Duration(len(ids)-i) * 15 * time.Millisecond
	}

	stories := New(f, Config{MaxConcurrency: 5, Timeout: time.Second}).FetchStories(context.Background(), ids)
	if got := storyIDs(stories); !equalIDs(got, ids) {
		t.Errorf("ids = %v, want %v", got, ids)
	}
}

func TestFetchStories_FaultIsolation(t *testing.T) {
	f := newFakeFetcher()
	f.failures[7] = &hn.ItemFetchError{ID: 7, ErrorClass: hn.ErrorClassNetwork, Err: errors.New("connection reset")}

	ids := make([]hn.StoryID, 20)
	for i := range ids {
		ids[i] = hn.StoryID(i + 1)
	}

	stories := New(f, DefaultConfig()).FetchStories(context.Background(), ids)
	if len(stories) != len(ids)-1 {
		t.Fatalf("got %d stories, want %d", len(stories), len(ids)-1)
	}
	for _, s := range stories {
		if s.ID == 7 {
			t.Error("failed item 7 should be dropped")
		}
	}
}

func TestFetchStories_ConcurrencyBound(t *testing.T) {
	f := newFakeFetcher()
	ids := make([]hn.StoryID, 40)
	for i := range ids {
		ids[i] = hn.StoryID(i + 1)
		f.delays[ids[i]] = 10 * time.Millisecond
	}

	stories := New(f, Config{MaxConcurrency: 4, Timeout: time.Second}).FetchStories(context.Background(), ids)

	if len(stories) != 40 {
		t.Errorf("got %d stories, want 40", len(stories))
	}
	if f.maxFlight > 4 {
		t.Errorf("max in flight = %d, want <= 4", f.maxFlight)
	}
	if f.calls != 40 {
		t.Errorf("calls = %d, want 40", f.calls)
	}
}

func TestFetchStories_ItemTimeout(t *testing.T) {
	f := newFakeFetcher()
	f.delays[2] = time.Second

	start := time.Now()
	stories := New(f, Config{MaxConcurrency: 3, Timeout: 50 * time.Millisecond}).
		FetchStories(context.Background(), []hn.StoryID{1, 2, 3})

	if got := storyIDs(stories); !equalIDs(got, []hn.StoryID{1, 3}) {
		t.Errorf("ids = %v, want [1 3]", got)
	}
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Errorf("batch took %v, the slow item should cost only its own timeout", elapsed)
	}
}

func TestFetchResults_Slots(t *testing.T) {
	f := newFakeFetcher()
	f.types[20] = "comment"
	f.failures[30] = &hn.ItemFetchError{ID: 30, ErrorClass: hn.ErrorClassServer, StatusCode: 500}

	ids := []hn.StoryID{10, 20, 30, 40}
	results := New(f, DefaultConfig()).FetchResults(context.Background(), ids)

	if len(results) != len(ids) {
		t.Fatalf("got %d results, want %d", len(results), len(ids))
	}
	for i, r := range results {
		if r.Index != i || r.ID != ids[i] {
			t.Errorf("results[%d] = {Index:%d ID:%d}, want {Index:%d ID:%d}", i, r.Index, r.ID, i, ids[i])
		}
	}

	wantOK := []bool{true, false, false, true}
	for i, r := range results {
		if r.OK() != wantOK[i] {
			t.Errorf("results[%d].OK() = %v, want %v (err: %v)", i, r.OK(), wantOK[i], r.Err)
		}
	}
	if !errors.Is(results[1].Err, hn.ErrNotStory) {
		t.Errorf("results[1].Err = %v, want ErrNotStory", results[1].Err)
	}
}

func TestFetchResults_CancelledContext(t *testing.T) {
	f := newFakeFetcher()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := New(f, DefaultConfig()).FetchResults(ctx, []hn.StoryID{1, 2, 3})
	for i, r := range results {
		if r.OK() {
			t.Errorf("results[%d] should fail on a cancelled context", i)
		}
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("results[%d].Err = %v, want context.Canceled", i, r.Err)
		}
	}
	if f.calls != 0 {
		t.Errorf("calls = %d, want 0", f.calls)
	}
}

func TestStories(t *testing.T) {
	results := []Result{
		{Index: 0, ID: 1, Story: hn.Story{ID: 1}},
		{Index: 1, ID: 2, Err: errors.New("x")},
		{Index: 2, ID: 3, Story: hn.Story{ID: 3}},
	}
	if got := storyIDs(Stories(results)); !equalIDs(got, []hn.StoryID{1, 3}) {
		t.Errorf("Stories() ids = %v, want [1 3]", got)
	}
}

// TestFetchStories_EndToEnd runs the loader against the mock API: 3 fails and
// 5 is a comment.
func TestFetchStories_EndToEnd(t *testing.T) {
	mock := testutil.NewMockHN()
	defer mock.Close()

	mock.SetTopStories(1, 2, 3, 4, 5)
	mock.SetItemDelay(1, "one", 40*time.Millisecond)
	mock.SetStory(2, "two")
	mock.SetItemStatus(3, http.StatusInternalServerError)
	mock.SetItemDelay(4, "four", 5*time.Millisecond)
	mock.SetItem(5, testutil.CommentJSON(5))

	cfg := hn.DefaultConfig()
	cfg.BaseURL = mock.URL()
	client, err := hn.New(cfg)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}

	ctx := context.Background()
	ids, err := client.FetchTopStoryIDs(ctx, 50)
	if err != nil {
		t.Fatalf("FetchTopStoryIDs() error: %v", err)
	}

	stories := New(client, DefaultConfig()).FetchStories(ctx, ids)
	if got := storyIDs(stories); !equalIDs(got, []hn.StoryID{1, 2, 4}) {
		t.Fatalf("ids = %v, want [1 2 4]", got)
	}
	if stories[0].Title != "one" || stories[2].Title != "four" {
		t.Errorf("titles = %q, %q", stories[0].Title, stories[2].Title)
	}
	for _, id := range []int{1, 2, 3, 4, 5} {
		if n := mock.GetItemRequests(id); n != 1 {
			t.Errorf("item %d requested %d times, want 1", id, n)
		}
	}
}
