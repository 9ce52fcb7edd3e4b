package mathsnap

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RenderBatch renders every request with at most concurrency renders in
// flight. Results keep the order of reqs. Individual failures are reported
// in their results; the returned error is non-nil only when ctx ends before
// every request was rendered. concurrency <= 0 uses DefaultBatchConcurrency.
func (r *Renderer) RenderBatch(ctx context.Context, reqs []RenderRequest, concurrency int) ([]RenderResult, error) {
	return r.RenderBatchFunc(ctx, reqs, concurrency, nil)
}

// RenderBatchFunc is RenderBatch with a completion hook. onDone, when set,
// is called from the rendering goroutine after each request finishes and
// must be safe for concurrent use.
func (r *Renderer) RenderBatchFunc(ctx context.Context, reqs []RenderRequest, concurrency int, onDone func(index int, result RenderResult)) ([]RenderResult, error) {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	r.logger.Debug(LogMsgBatchStarted, zap.Int(LogFieldCount, len(reqs)))

	results := make([]RenderResult, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, req := range reqs {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.Render(req)
			if onDone != nil {
				onDone(i, results[i])
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
