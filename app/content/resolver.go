package content

import (
	"context"
	"log/slog"
	"strings"
)

// Result is the transient title/summary pair produced per candidate
// URL. An empty Summary means "nothing to post".
type Result struct {
	Title   string
	Summary string
}

// Resolver obtains a title and summary for a URL by chaining the page
// extractor and the summarizer.
type Resolver struct {
	extractor  *Extractor
	summarizer *Summarizer
}

func NewResolver(extractor *Extractor, summarizer *Summarizer) *Resolver {
	return &Resolver{
		extractor:  extractor,
		summarizer: summarizer,
	}
}

// Resolve fetches and summarizes pageURL. Extraction failures and
// unusable pages are not errors: they are logged and reported as an
// empty summary, which callers treat as "skip this item". The only
// error returned is context cancellation.
func (r *Resolver) Resolve(ctx context.Context, pageURL string) (Result, error) {
	title, text, err := r.extractor.Extract(ctx, pageURL)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		slog.Info("Extraction yielded no content", "url", pageURL, "error", err)
		return Result{}, nil
	}

	summary := strings.TrimSpace(r.summarizer.Run(text))

	return Result{Title: title, Summary: summary}, nil
}
