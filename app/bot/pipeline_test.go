package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/roniemartinez/SiteSummarizerBot/app/content"
	"github.com/roniemartinez/SiteSummarizerBot/app/database"
	"github.com/roniemartinez/SiteSummarizerBot/app/reddit"
)

type fakeStore struct {
	mu      sync.Mutex
	keys    map[string]struct{}
	failGet bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{keys: make(map[string]struct{})}
}

func (s *fakeStore) Exists(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet {
		return false, errors.New("store unavailable")
	}
	_, ok := s.keys[key]
	return ok, nil
}

func (s *fakeStore) Set(ctx context.Context, key string, ts time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[key] = struct{}{}
	return nil
}

func (s *fakeStore) Ping(ctx context.Context) error { return nil }
func (s *fakeStore) Close() error                   { return nil }

func (s *fakeStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.keys)
}

type fakeResolver struct {
	result content.Result
	err    error
}

func (r *fakeResolver) Resolve(ctx context.Context, pageURL string) (content.Result, error) {
	if ctx.Err() != nil {
		return content.Result{}, ctx.Err()
	}
	if r.err != nil {
		return content.Result{}, r.err
	}
	return r.result, nil
}

type fakeJournal struct {
	mu      sync.Mutex
	replies []database.Reply
	deleted []string
}

func (j *fakeJournal) RecordReply(reply database.Reply) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.replies = append(j.replies, reply)
	return nil
}

func (j *fakeJournal) MarkDeleted(replyFullID string, deletedAt time.Time) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.deleted = append(j.deleted, replyFullID)
	return nil
}

func (j *fakeJournal) GetStats() (database.Stats, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return database.Stats{Posted: len(j.replies), Retracted: len(j.deleted)}, nil
}

func (j *fakeJournal) PruneDeleted(olderThan time.Time) (int, error) { return 0, nil }

func linkItem(id string) Item {
	return Item{
		Kind:    KindSubmission,
		ID:      id,
		FullID:  "t3_" + id,
		IsSelf:  false,
		LinkURL: "https://example.com/" + id,
	}
}

func TestPipeline_PostsAndRecordsDedup(t *testing.T) {
	store := newFakeStore()
	journal := &fakeJournal{}
	pipeline := NewPipeline(store, &fakeResolver{result: content.Result{Title: "T", Summary: "S"}}, journal)

	posts := 0
	pipeline.Process(context.Background(), linkItem("abc"), "replied:submission:abc", func(ctx context.Context, text string) (string, error) {
		posts++
		if !strings.Contains(text, "T") || !strings.Contains(text, "S") {
			t.Errorf("Rendered message missing title or summary: %q", text)
		}
		return "t1_reply", nil
	})

	if posts != 1 {
		t.Errorf("Expected 1 post, got %d", posts)
	}
	if store.count() != 1 {
		t.Errorf("Expected 1 dedup record, got %d", store.count())
	}
	if len(journal.replies) != 1 || journal.replies[0].ReplyFullID != "t1_reply" {
		t.Errorf("Expected journaled reply, got %+v", journal.replies)
	}
}

func TestPipeline_DedupIdempotence(t *testing.T) {
	store := newFakeStore()
	pipeline := NewPipeline(store, &fakeResolver{result: content.Result{Title: "T", Summary: "S"}}, &fakeJournal{})

	posts := 0
	reply := func(ctx context.Context, text string) (string, error) {
		posts++
		return "t1_reply", nil
	}

	pipeline.Process(context.Background(), linkItem("abc"), "replied:submission:abc", reply)
	pipeline.Process(context.Background(), linkItem("abc"), "replied:submission:abc", reply)

	if posts != 1 {
		t.Errorf("Expected exactly 1 post across two passes, got %d", posts)
	}
}

func TestPipeline_EmptySummarySkips(t *testing.T) {
	store := newFakeStore()
	pipeline := NewPipeline(store, &fakeResolver{result: content.Result{Title: "T", Summary: ""}}, &fakeJournal{})

	posts := 0
	pipeline.Process(context.Background(), linkItem("abc"), "replied:submission:abc", func(ctx context.Context, text string) (string, error) {
		posts++
		return "t1_reply", nil
	})

	if posts != 0 {
		t.Errorf("Expected no post for empty summary, got %d", posts)
	}
	if store.count() != 0 {
		t.Errorf("Expected no dedup record for skipped item, got %d", store.count())
	}
}

func TestPipeline_NoURLSkips(t *testing.T) {
	store := newFakeStore()
	pipeline := NewPipeline(store, &fakeResolver{result: content.Result{Title: "T", Summary: "S"}}, &fakeJournal{})

	item := Item{Kind: KindSubmission, ID: "abc", FullID: "t3_abc", IsSelf: true, SelfText: "not a url"}

	posts := 0
	pipeline.Process(context.Background(), item, "replied:submission:abc", func(ctx context.Context, text string) (string, error) {
		posts++
		return "t1_reply", nil
	})

	if posts != 0 {
		t.Errorf("Expected no post without a candidate URL, got %d", posts)
	}
	if store.count() != 0 {
		t.Errorf("Expected no dedup record, got %d", store.count())
	}
}

func TestPipeline_ResolverErrorAbandons(t *testing.T) {
	store := newFakeStore()
	journal := &fakeJournal{}
	pipeline := NewPipeline(store, &fakeResolver{err: errors.New("resolver exploded")}, journal)

	posts := 0
	pipeline.Process(context.Background(), linkItem("abc"), "replied:submission:abc", func(ctx context.Context, text string) (string, error) {
		posts++
		return "t1_reply", nil
	})

	if posts != 0 {
		t.Errorf("Expected no post when resolution fails, got %d", posts)
	}
	if store.count() != 0 {
		t.Errorf("Expected no dedup record, got %d", store.count())
	}
	if len(journal.replies) != 0 {
		t.Errorf("Expected no journaled reply, got %+v", journal.replies)
	}
}

func TestPipeline_RateLimitRetriesSamePost(t *testing.T) {
	store := newFakeStore()
	pipeline := NewPipeline(store, &fakeResolver{result: content.Result{Title: "T", Summary: "S"}}, &fakeJournal{})

	attempts := 0
	pipeline.Process(context.Background(), linkItem("abc"), "replied:submission:abc", func(ctx context.Context, text string) (string, error) {
		attempts++
		if attempts < 3 {
			return "", &reddit.RateLimitError{Message: "try again in 0 seconds.", RetryAfter: time.Millisecond}
		}
		return "t1_reply", nil
	})

	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if store.count() != 1 {
		t.Errorf("Expected exactly 1 dedup record after retries, got %d", store.count())
	}
}

func TestPipeline_OtherRejectionAbandons(t *testing.T) {
	store := newFakeStore()
	pipeline := NewPipeline(store, &fakeResolver{result: content.Result{Title: "T", Summary: "S"}}, &fakeJournal{})

	attempts := 0
	pipeline.Process(context.Background(), linkItem("abc"), "replied:submission:abc", func(ctx context.Context, text string) (string, error) {
		attempts++
		return "", &reddit.APIError{Code: "THREAD_LOCKED", Message: "that thread is locked."}
	})

	if attempts != 1 {
		t.Errorf("Expected 1 attempt with no retry, got %d", attempts)
	}
	if store.count() != 0 {
		t.Errorf("Expected no dedup record for abandoned item, got %d", store.count())
	}
}

func TestPipeline_StoreFailureSkipsWithoutCrash(t *testing.T) {
	store := newFakeStore()
	store.failGet = true
	pipeline := NewPipeline(store, &fakeResolver{result: content.Result{Title: "T", Summary: "S"}}, &fakeJournal{})

	posts := 0
	pipeline.Process(context.Background(), linkItem("abc"), "replied:submission:abc", func(ctx context.Context, text string) (string, error) {
		posts++
		return "t1_reply", nil
	})

	if posts != 0 {
		t.Errorf("Expected no post when the dedup check fails, got %d", posts)
	}
}

func TestPipeline_RateLimitBackoffHonorsCancellation(t *testing.T) {
	store := newFakeStore()
	pipeline := NewPipeline(store, &fakeResolver{result: content.Result{Title: "T", Summary: "S"}}, &fakeJournal{})

	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	pipeline.Process(ctx, linkItem("abc"), "replied:submission:abc", func(ctx context.Context, text string) (string, error) {
		attempts++
		cancel()
		return "", &reddit.RateLimitError{Message: "try again in 2 hours.", RetryAfter: 2 * time.Hour}
	})

	if attempts != 1 {
		t.Errorf("Expected backoff to abort on cancellation after 1 attempt, got %d", attempts)
	}
	if store.count() != 0 {
		t.Errorf("Expected no dedup record, got %d", store.count())
	}
}
