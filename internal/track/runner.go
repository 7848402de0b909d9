package track

import (
	"context"
	"fmt"
	"net/url"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"stakeScope/internal/decode"
	"stakeScope/internal/model"
	"stakeScope/internal/project"
	"stakeScope/internal/rank"
	"stakeScope/internal/storage"
)

// LogSource is the external log retrieval boundary. scan.Client satisfies
// it; tests substitute synthetic sources.
type LogSource interface {
	FetchAll(ctx context.Context, topic0 string, extra url.Values) ([]model.RawLogRecord, error)
}

// Report is the outcome of one reconstruction run. It is only produced
// when every stage succeeded; a failed run publishes nothing.
type Report struct {
	Positions *model.PositionTable
	Flows     []model.NetFlowSample
	Summaries []model.OwnerSummary
	Totals    model.RunTotals
	RawCount  int
}

// Runner drives the batch pipeline: fetch each event kind, decode, merge
// into block order, fold into state, then aggregate owners.
type Runner struct {
	source  LogSource
	decoder *decode.Decoder
	rawSink storage.RawLogSink
	logger  *zap.Logger
}

// NewRunner builds a Runner with its dependencies. rawSink is optional; if
// set, every fetched page is dumped there for traceability.
func NewRunner(source LogSource, rawSink storage.RawLogSink, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		source:  source,
		decoder: decode.NewDecoder(),
		rawSink: rawSink,
		logger:  logger,
	}
}

// Run executes one full reconstruction.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if r.source == nil {
		return nil, fmt.Errorf("log source is nil")
	}

	kinds := model.Kinds()
	pages := make([][]model.RawLogRecord, len(kinds))

	// The per-kind fetches share no mutable state and may run in
	// parallel; everything after this barrier is single-threaded.
	group, groupCtx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		group.Go(func() error {
			topic0 := decode.TopicForKind(kind).Hex()
			records, err := r.source.FetchAll(groupCtx, topic0, nil)
			if err != nil {
				return fmt.Errorf("fetch %s logs: %w", kind, err)
			}
			r.logger.Info("logs fetched",
				zap.String("event", string(kind)),
				zap.Int("records", len(records)),
			)
			pages[i] = records
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	if r.rawSink != nil {
		for i, records := range pages {
			if err := r.rawSink.PutLogBatch(records); err != nil {
				return nil, fmt.Errorf("sink %s logs: %w", kinds[i], err)
			}
		}
	}

	events, rawCount, err := r.decodeAll(kinds, pages)
	if err != nil {
		return nil, err
	}

	project.SortEvents(events)

	result, err := project.Project(events)
	if err != nil {
		return nil, err
	}

	summaries := rank.Summarize(result.Positions)
	totals := rank.Totals(result.Flows)

	r.logger.Info("reconstruction complete",
		zap.Int("raw_logs", rawCount),
		zap.Int("events", len(events)),
		zap.Int("positions", result.Positions.Len()),
		zap.Int("owners", len(summaries)),
		zap.String("net_staked", totals.NetStaked.StringFixed(2)),
	)

	return &Report{
		Positions: result.Positions,
		Flows:     result.Flows,
		Summaries: summaries,
		Totals:    totals,
		RawCount:  rawCount,
	}, nil
}

// decodeAll turns raw pages into typed events. A malformed record of a
// position-scoped kind aborts the run, skipping it would corrupt balance
// invariants. Malformed reward records only feed volume reporting and are
// logged and dropped.
func (r *Runner) decodeAll(kinds []model.EventKind, pages [][]model.RawLogRecord) ([]model.TypedEvent, int, error) {
	events := make([]model.TypedEvent, 0)
	rawCount := 0

	for i, kind := range kinds {
		for _, record := range pages[i] {
			rawCount++
			event, err := r.decoder.Decode(record, kind)
			if err != nil {
				if kind.PositionScoped() {
					return nil, 0, err
				}
				r.logger.Warn("skipping malformed reward record",
					zap.String("event", string(kind)),
					zap.String("tx_hash", record.TxHash),
					zap.Error(err),
				)
				continue
			}
			events = append(events, event)
		}
	}

	return events, rawCount, nil
}
