package sheets

import (
	"context"
	"log/slog"
	"time"

	"remape/internal/core"
)

// RetryConfig bounds the fetch hardening: how many attempts, the base
// backoff (doubled per attempt) and the per-attempt timeout.
type RetryConfig struct {
	Attempts int
	Backoff  time.Duration
	Timeout  time.Duration
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.Attempts < 1 {
		c.Attempts = 1
	}
	if c.Backoff <= 0 {
		c.Backoff = 500 * time.Millisecond
	}
	if c.Timeout <= 0 {
		c.Timeout = 30 * time.Second
	}
	return c
}

type retrying struct {
	next RowFetcher
	cfg  RetryConfig
}

// WithRetry wraps a fetcher with bounded retries, exponential backoff and
// a per-attempt timeout. The last error is surfaced; the request context
// cancels the whole loop.
func WithRetry(next RowFetcher, cfg RetryConfig) RowFetcher {
	return &retrying{next: next, cfg: cfg.withDefaults()}
}

func (r *retrying) FetchRows(ctx context.Context, spreadsheetID, worksheet string) (core.Table, error) {
	var lastErr error
	backoff := r.cfg.Backoff
	for attempt := 1; attempt <= r.cfg.Attempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
		t, err := r.next.FetchRows(attemptCtx, spreadsheetID, worksheet)
		cancel()
		if err == nil {
			return t, nil
		}
		lastErr = err
		if attempt == r.cfg.Attempts {
			break
		}
		slog.WarnContext(ctx, "Sheet fetch failed, retrying",
			"spreadsheet", spreadsheetID, "worksheet", worksheet,
			"attempt", attempt, "error", err)
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return core.Table{}, &FetchError{SpreadsheetID: spreadsheetID, Worksheet: worksheet, Err: ctx.Err()}
		}
		backoff *= 2
	}
	return core.Table{}, lastErr
}
