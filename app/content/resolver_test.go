package content

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const articleHTML = `<!DOCTYPE html>
<html>
<head><title>Storage Engine Rewrite</title></head>
<body>
<article>
<h1>Storage Engine Rewrite</h1>
<p>The new storage engine reduces write amplification significantly. Write amplification has been the main bottleneck for the storage engine under heavy load.</p>
<p>Benchmarks show the storage engine sustains twice the previous write throughput. The team also redesigned the compaction scheduler so compaction runs incrementally.</p>
<p>Users on spinning disks should see the largest improvement from this release. A migration guide covering the upgrade path will be published next week.</p>
</article>
</body>
</html>`

func newResolver(userAgent string) *Resolver {
	httpClient := &http.Client{}
	return NewResolver(NewExtractor(httpClient, userAgent), NewSummarizer())
}

func TestResolver_ResolvesArticle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("User-Agent"); got != "test-agent" {
			t.Errorf("Expected configured user agent, got %q", got)
		}
		fmt.Fprint(w, articleHTML)
	}))
	defer server.Close()

	result, err := newResolver("test-agent").Resolve(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if result.Title == "" {
		t.Errorf("Expected a title")
	}
	if result.Summary == "" {
		t.Errorf("Expected a non-empty summary")
	}
}

func TestResolver_FetchFailureYieldsEmptySummary(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer server.Close()

	result, err := newResolver("test-agent").Resolve(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch failure must not be an error, got: %v", err)
	}
	if result.Summary != "" {
		t.Errorf("Expected empty summary for unreachable page, got %q", result.Summary)
	}
}

func TestResolver_CancelledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, articleHTML)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newResolver("test-agent").Resolve(ctx, server.URL)
	if err == nil {
		t.Errorf("Expected context cancellation to propagate")
	}
}
