package job

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nuuray/glow-api/internal/domain"
)

// OutcomeStatus classifies the result of one work item.
type OutcomeStatus string

// Possible outcome status values.
const (
	StatusSuccess OutcomeStatus = "success"
	StatusSkipped OutcomeStatus = "skipped"
	StatusFailed  OutcomeStatus = "failed"
)

// Outcome is the settled result of one work item. Outcomes are ephemeral:
// they are aggregated into the job report and never persisted.
type Outcome struct {
	Item   domain.WorkItem
	Status OutcomeStatus

	// Detail carries a body preview on success and the error message on
	// failure.
	Detail string

	// Tokens is the upstream token usage for a successful generation.
	Tokens int
}

// Worker executes one work item and converts its own failures into a
// Failed outcome. A worker must never panic or signal failure out of band;
// the runner treats every returned outcome as settled.
type Worker func(ctx context.Context, item domain.WorkItem) Outcome

// Summary aggregates outcome counters across a run. Counters are
// accumulated group by group after each group settles, never mid-group.
type Summary struct {
	Success     int
	Skipped     int
	Failed      int
	TotalTokens int
}

// RunBatches partitions items into consecutive groups of at most batchSize,
// preserving input order. Groups run strictly sequentially; within a group
// all items run concurrently and the runner waits for every item to settle
// before starting the next group. A slow or failed item never blocks or
// cancels its siblings, only the start of the following group. The returned
// outcomes are positionally aligned with items.
//
// Bounding the group size caps how many outbound generation calls are in
// flight at once, which keeps the job under upstream rate limits without a
// work-stealing queue.
func RunBatches(
	ctx context.Context,
	logger *slog.Logger,
	items []domain.WorkItem,
	batchSize int,
	worker Worker,
) ([]Outcome, Summary) {
	if batchSize <= 0 {
		logger.Warn("invalid batch size, using 1", slog.Int("specified", batchSize))
		batchSize = 1
	}

	outcomes := make([]Outcome, len(items))
	var summary Summary

	groupCount := (len(items) + batchSize - 1) / batchSize
	groupIndex := 0

	for start := 0; start < len(items); start += batchSize {
		end := start + batchSize
		if end > len(items) {
			end = len(items)
		}
		group := items[start:end]
		groupIndex++

		logger.Debug("starting batch group",
			slog.Int("group", groupIndex),
			slog.Int("groups_total", groupCount),
			slog.Int("size", len(group)))

		// The errgroup is only a settle barrier here: workers convert their
		// failures into outcomes and always return nil, so no cancellation
		// propagates between siblings.
		g, gctx := errgroup.WithContext(ctx)
		for i, item := range group {
			idx := start + i
			item := item
			g.Go(func() error {
				outcomes[idx] = worker(gctx, item)
				return nil
			})
		}
		_ = g.Wait()

		// Aggregate only after the whole group has settled.
		groupSuccess := 0
		for _, outcome := range outcomes[start:end] {
			switch outcome.Status {
			case StatusSuccess:
				summary.Success++
				summary.TotalTokens += outcome.Tokens
				groupSuccess++
			case StatusSkipped:
				summary.Skipped++
			case StatusFailed:
				summary.Failed++
			}
		}

		logger.Debug("batch group settled",
			slog.Int("group", groupIndex),
			slog.Int("success", groupSuccess),
			slog.Int("size", len(group)))
	}

	return outcomes, summary
}
