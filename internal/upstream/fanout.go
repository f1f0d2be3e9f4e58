// Package upstream gathers raw documents from Retriever collaborators.
package upstream

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/newsline/internal/contract"
	"github.com/huangsam/newsline/schema"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Default fan-out settings.
const (
	DefaultFetchTimeout  = 7 * time.Second
	DefaultMaxConcurrent = 8
)

// FanOutOptions tunes FanOut.
type FanOutOptions struct {
	Timeout       time.Duration // per country code
	MaxConcurrent int
	Limiter       *rate.Limiter // shared across calls; nil means unlimited
}

type fetchResult struct {
	docs []schema.Document
	err  error
}

// FanOut fetches every country code concurrently. A code that fails or times out contributes no
// documents. The merged output follows the order of codes, then the order each fetch returned.
func FanOut(ctx context.Context, r contract.Retriever, codes []string, opts FanOutOptions) []schema.Document {
	if r == nil || len(codes) == 0 {
		return nil
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	limit := opts.MaxConcurrent
	if limit <= 0 {
		limit = DefaultMaxConcurrent
	}

	results := make([][]schema.Document, len(codes))

	var g errgroup.Group
	g.SetLimit(limit)
	for i, code := range codes {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			docs, err := fetchOne(ctx, r, code, timeout, opts.Limiter)
			if err != nil {
				contract.LogWarn(fmt.Sprintf("Fetch for country %q degraded to empty", code), err)
				return nil
			}
			results[i] = docs
			return nil
		})
	}
	_ = g.Wait() // every goroutine returns nil

	var merged []schema.Document
	for _, docs := range results {
		merged = append(merged, docs...)
	}
	return merged
}

// fetchOne calls the retriever under a timeout, even when the retriever ignores its context.
func fetchOne(ctx context.Context, r contract.Retriever, code string, timeout time.Duration, limiter *rate.Limiter) ([]schema.Document, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if limiter != nil {
		if err := limiter.Wait(fetchCtx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	ch := make(chan fetchResult, 1)
	go func() {
		docs, err := r.Fetch(fetchCtx, code)
		ch <- fetchResult{docs: docs, err: err}
	}()

	select {
	case res := <-ch:
		return res.docs, res.err
	case <-fetchCtx.Done():
		return nil, fmt.Errorf("fetch timed out after %s: %w", timeout, fetchCtx.Err())
	}
}
